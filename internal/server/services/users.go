// Package services contains server-side business logic. UserService handles
// sign up, sign in, token refresh, sign out and the email link flows.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/mail"
	"net/url"
	"strings"
	"time"

	"github.com/dmitrijs2005/codehunt/internal/common"
	"github.com/dmitrijs2005/codehunt/internal/cryptox"
	"github.com/dmitrijs2005/codehunt/internal/dbx"
	"github.com/dmitrijs2005/codehunt/internal/logging"
	"github.com/dmitrijs2005/codehunt/internal/masker"
	"github.com/dmitrijs2005/codehunt/internal/server/auth"
	"github.com/dmitrijs2005/codehunt/internal/server/config"
	"github.com/dmitrijs2005/codehunt/internal/server/models"
	"github.com/dmitrijs2005/codehunt/internal/server/repositories/repomanager"
)

const providerEmail = "email"

// Session is an authenticated user with a freshly minted token pair.
type Session struct {
	AccessToken  string
	RefreshToken string
	ExpiresAt    time.Time
	User         *models.User
}

type UserService struct {
	db                           *sql.DB
	repomanager                  repomanager.RepositoryManager
	mailer                       Mailer
	logger                       logging.Logger
	jwtSecret                    []byte
	accessTokenValidityDuration  time.Duration
	refreshTokenValidityDuration time.Duration
	linkValidityDuration         time.Duration
	autoConfirm                  bool
	publicBaseURL                string
	now                          func() time.Time
}

func NewUserService(db *sql.DB, m repomanager.RepositoryManager, mailer Mailer, logger logging.Logger, cfg *config.Config) *UserService {
	return &UserService{
		db:                           db,
		repomanager:                  m,
		mailer:                       mailer,
		logger:                       logger.With("module", "users"),
		jwtSecret:                    []byte(cfg.SecretKey),
		accessTokenValidityDuration:  cfg.AccessTokenValidityDuration,
		refreshTokenValidityDuration: cfg.RefreshTokenValidityDuration,
		linkValidityDuration:         cfg.EmailLinkValidityDuration,
		autoConfirm:                  cfg.AutoConfirm,
		publicBaseURL:                strings.TrimRight(cfg.PublicBaseURL, "/"),
		now:                          time.Now,
	}
}

// SignUp registers a user. With auto-confirm a session is returned right
// away; otherwise a confirmation link is mailed and the session is nil.
func (s *UserService) SignUp(ctx context.Context, email, password, redirectTo string) (*Session, error) {
	email, err := normalizeEmail(email)
	if err != nil {
		return nil, err
	}
	if len(password) < common.MinPasswordLength {
		return nil, common.ErrWeakPassword
	}

	user := &models.User{
		Email:        email,
		PasswordHash: cryptox.HashPassword([]byte(password)),
		Provider:     providerEmail,
	}
	if s.autoConfirm {
		now := s.now()
		user.EmailConfirmedAt = &now
	}

	var link string
	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if _, err := s.repomanager.Users(tx).Create(ctx, user); err != nil {
			return err
		}
		if s.autoConfirm {
			return nil
		}
		var linkErr error
		link, linkErr = s.issueLink(ctx, tx, user.ID, models.EmailTokenSignup, redirectTo)
		return linkErr
	})
	if err != nil {
		if errors.Is(err, common.ErrEmailTaken) {
			return nil, err
		}
		return nil, fmt.Errorf("error creating user: %w", err)
	}

	s.logger.Info(ctx, "user signed up", "user_id", user.ID, "email", masker.Email(email), "confirmed", s.autoConfirm)

	if s.autoConfirm {
		return s.generateSession(ctx, user, s.db)
	}
	if err := s.mailer.Send(ctx, Mail{To: email, Subject: "Confirm your signup", Link: link}); err != nil {
		return nil, fmt.Errorf("error sending confirmation: %w", err)
	}
	return nil, nil
}

// SignIn checks the password and returns a new session.
func (s *UserService) SignIn(ctx context.Context, email, password string) (*Session, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := s.repomanager.Users(s.db).GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrInvalidCredentials
		}
		return nil, common.ErrorInternal
	}

	ok, err := cryptox.VerifyPassword(user.PasswordHash, []byte(password))
	if err != nil {
		s.logger.Error(ctx, "stored password hash is unreadable", "user_id", user.ID, "error", err)
		return nil, common.ErrorInternal
	}
	if !ok {
		return nil, common.ErrInvalidCredentials
	}
	if !user.Confirmed() {
		return nil, common.ErrEmailNotConfirmed
	}

	return s.generateSession(ctx, user, s.db)
}

// RefreshToken exchanges a refresh token for a new session. The presented
// token is consumed in the same transaction that issues its successor, so it
// can be exchanged at most once and survives a failed exchange. Expired
// tokens are removed and yield ErrRefreshTokenExpired.
func (s *UserService) RefreshToken(ctx context.Context, refreshToken string) (*Session, error) {
	var (
		session *Session
		expired bool
	)
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		token, err := s.repomanager.RefreshTokens(tx).Consume(ctx, refreshToken)
		if err != nil {
			if errors.Is(err, common.ErrorNotFound) {
				return common.ErrInvalidToken
			}
			return fmt.Errorf("error consuming refresh token: %w", err)
		}
		if token.Expires.Before(s.now()) {
			expired = true
			return nil
		}
		user, err := s.repomanager.Users(tx).GetByID(ctx, token.UserID)
		if err != nil {
			return err
		}
		session, err = s.generateSession(ctx, user, tx)
		return err
	})
	switch {
	case errors.Is(err, common.ErrorNotFound):
		return nil, common.ErrInvalidToken
	case err != nil:
		return nil, err
	case expired:
		return nil, common.ErrRefreshTokenExpired
	}
	return session, nil
}

// SignOut revokes the refresh token. Unknown or empty tokens are fine.
func (s *UserService) SignOut(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return nil
	}
	return s.repomanager.RefreshTokens(s.db).Revoke(ctx, refreshToken)
}

// RequestPasswordReset mails a recovery link. Unknown addresses succeed
// silently so the endpoint cannot be used to probe for accounts.
func (s *UserService) RequestPasswordReset(ctx context.Context, email, redirectTo string) error {
	email, err := normalizeEmail(email)
	if err != nil {
		return err
	}

	user, err := s.repomanager.Users(s.db).GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			s.logger.Info(ctx, "password reset for unknown email", "email", masker.Email(email))
			return nil
		}
		return common.ErrorInternal
	}

	link, err := s.issueLink(ctx, s.db, user.ID, models.EmailTokenRecovery, redirectTo)
	if err != nil {
		return err
	}
	return s.mailer.Send(ctx, Mail{To: email, Subject: "Reset your password", Link: link})
}

// UpdatePassword sets a new password for an authenticated user.
func (s *UserService) UpdatePassword(ctx context.Context, userID, password string) error {
	if len(password) < common.MinPasswordLength {
		return common.ErrWeakPassword
	}
	return s.repomanager.Users(s.db).UpdatePassword(ctx, userID, cryptox.HashPassword([]byte(password)))
}

func (s *UserService) GetUser(ctx context.Context, userID string) (*models.User, error) {
	return s.repomanager.Users(s.db).GetByID(ctx, userID)
}

// VerifyLink redeems a mailed token of the given kind. Sign-up links confirm
// the email and return no session. Recovery links revoke existing refresh
// tokens and return a session so the user can set a new password. The
// redirect target stored with the token is returned as well.
func (s *UserService) VerifyLink(ctx context.Context, token, kind string) (*Session, string, error) {
	var (
		session    *Session
		redirectTo string
	)
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		t, err := s.repomanager.EmailTokens(tx).Consume(ctx, token)
		if err != nil {
			if errors.Is(err, common.ErrorNotFound) {
				return common.ErrInvalidLink
			}
			return err
		}
		if t.Kind != kind || t.Expires.Before(s.now()) {
			return common.ErrInvalidLink
		}
		redirectTo = t.RedirectTo

		users := s.repomanager.Users(tx)
		switch kind {
		case models.EmailTokenSignup:
			return users.ConfirmEmail(ctx, t.UserID, s.now())
		case models.EmailTokenRecovery:
			user, err := users.GetByID(ctx, t.UserID)
			if err != nil {
				return err
			}
			n, err := s.repomanager.RefreshTokens(tx).RevokeAll(ctx, user.ID)
			if err != nil {
				return err
			}
			s.logger.Info(ctx, "recovery revoked sessions", "user_id", user.ID, "count", n)
			session, err = s.generateSession(ctx, user, tx)
			return err
		}
		return common.ErrInvalidLink
	})
	if err != nil {
		return nil, "", err
	}
	return session, redirectTo, nil
}

func (s *UserService) issueLink(ctx context.Context, db dbx.DBTX, userID, kind, redirectTo string) (string, error) {
	token, err := common.MakeRandHexString(32)
	if err != nil {
		return "", common.ErrorInternal
	}
	err = s.repomanager.EmailTokens(db).Create(ctx, &models.EmailToken{
		Token:      token,
		UserID:     userID,
		Kind:       kind,
		RedirectTo: redirectTo,
		Expires:    s.now().Add(s.linkValidityDuration),
	})
	if err != nil {
		return "", err
	}

	q := url.Values{}
	q.Set("token", token)
	q.Set("type", kind)
	return s.publicBaseURL + "/auth/v1/verify?" + q.Encode(), nil
}

func (s *UserService) generateSession(ctx context.Context, user *models.User, tx dbx.DBTX) (*Session, error) {
	access, expiresAt, err := auth.GenerateToken(user.ID, user.Email, s.jwtSecret, s.accessTokenValidityDuration)
	if err != nil {
		return nil, common.ErrorInternal
	}
	refresh, err := common.MakeRandHexString(32)
	if err != nil {
		return nil, common.ErrorInternal
	}
	issued := &models.RefreshToken{UserID: user.ID, Token: refresh, Expires: s.now().Add(s.refreshTokenValidityDuration)}
	if err := s.repomanager.RefreshTokens(tx).Issue(ctx, issued); err != nil {
		return nil, common.ErrorInternal
	}
	return &Session{AccessToken: access, RefreshToken: refresh, ExpiresAt: expiresAt, User: user}, nil
}

func normalizeEmail(email string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return "", fmt.Errorf("%w: %q", common.ErrInvalidEmail, email)
	}
	return email, nil
}
