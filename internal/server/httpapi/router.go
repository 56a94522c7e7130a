// Package httpapi serves the plain HTTP endpoints of the backend: the health
// check and the landing point of mailed email links.
package httpapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/dmitrijs2005/codehunt/internal/common"
	"github.com/dmitrijs2005/codehunt/internal/logging"
	"github.com/dmitrijs2005/codehunt/internal/server/models"
	"github.com/dmitrijs2005/codehunt/internal/server/services"
	"github.com/gorilla/mux"
)

// DefaultRedirect is used for recovery links issued without a redirect target.
const DefaultRedirect = "codehunt://reset-password"

type LinkVerifier interface {
	VerifyLink(ctx context.Context, token, kind string) (*services.Session, string, error)
}

type Pinger interface {
	PingContext(ctx context.Context) error
}

type Server struct {
	address string
	links   LinkVerifier
	db      Pinger
	logger  logging.Logger
}

func NewServer(address string, links LinkVerifier, db Pinger, l logging.Logger) *Server {
	return &Server{address: address, links: links, db: db, logger: l.With("module", "http_server")}
}

func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/healthz", s.health).Methods(http.MethodGet)
	r.HandleFunc("/auth/v1/verify", s.verify).Methods(http.MethodGet).
		Queries("token", "{token}", "type", "{type}")
	return r
}

// Run serves HTTP until ctx is done, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.address,
		Handler:           s.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", s.address)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	if err := s.db.PingContext(r.Context()); err != nil {
		s.logger.Warn(r.Context(), "health check failed", "error", err)
		http.Error(w, "database unavailable", http.StatusServiceUnavailable)
		return
	}
	fmt.Fprintln(w, "OK")
}

func (s *Server) verify(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	kind := vars["type"]

	session, redirectTo, err := s.links.VerifyLink(r.Context(), vars["token"], kind)
	if err != nil {
		if errors.Is(err, common.ErrInvalidLink) {
			http.Error(w, "Email link is invalid or has expired", http.StatusBadRequest)
			return
		}
		s.logger.Error(r.Context(), "verify link failed", "error", err)
		http.Error(w, common.ErrorInternal.Error(), http.StatusInternalServerError)
		return
	}

	if kind == models.EmailTokenSignup {
		if redirectTo != "" {
			http.Redirect(w, r, redirectTo, http.StatusSeeOther)
			return
		}
		fmt.Fprintln(w, "Email confirmed. You can now sign in.")
		return
	}

	if redirectTo == "" {
		redirectTo = DefaultRedirect
	}
	target := RecoveryRedirect(redirectTo, session)
	w.Header().Set("Location", target)
	w.WriteHeader(http.StatusSeeOther)
	fmt.Fprintln(w, target)
}

// RecoveryRedirect appends the session to redirectTo as a URL fragment:
// redirect#access_token=..&refresh_token=..&expires_at=..&type=recovery.
func RecoveryRedirect(redirectTo string, session *services.Session) string {
	f := url.Values{}
	f.Set("access_token", session.AccessToken)
	f.Set("refresh_token", session.RefreshToken)
	f.Set("expires_at", strconv.FormatInt(session.ExpiresAt.Unix(), 10))
	f.Set("type", models.EmailTokenRecovery)
	return redirectTo + "#" + f.Encode()
}
