package services

import (
	"context"
	"database/sql"
	"fmt"
	"slices"
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/codehunt/internal/common"
	"github.com/dmitrijs2005/codehunt/internal/dbx"
	"github.com/dmitrijs2005/codehunt/internal/server/models"
	"github.com/dmitrijs2005/codehunt/internal/server/repositories/emailtokens"
	"github.com/dmitrijs2005/codehunt/internal/server/repositories/listings"
	"github.com/dmitrijs2005/codehunt/internal/server/repositories/preferences"
	"github.com/dmitrijs2005/codehunt/internal/server/repositories/profiles"
	"github.com/dmitrijs2005/codehunt/internal/server/repositories/refreshtokens"
	"github.com/dmitrijs2005/codehunt/internal/server/repositories/users"
	"github.com/stretchr/testify/require"
)

func newSQLMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db, mock
}

// store is an in-memory backing for every fake repository.
type store struct {
	mu       sync.Mutex
	seq      int
	users    map[string]*models.User
	refresh  map[string]*models.RefreshToken
	links    map[string]*models.EmailToken
	profiles map[string]*models.Profile
	prefs    map[string]*models.Preferences
	listings []*models.Listing

	lastColumns []string
}

func newStore() *store {
	return &store{
		users:    map[string]*models.User{},
		refresh:  map[string]*models.RefreshToken{},
		links:    map[string]*models.EmailToken{},
		profiles: map[string]*models.Profile{},
		prefs:    map[string]*models.Preferences{},
	}
}

func (s *store) nextID(prefix string) string {
	s.seq++
	return fmt.Sprintf("%s-%d", prefix, s.seq)
}

type fakeRepoManager struct{ s *store }

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error { return nil }
func (m *fakeRepoManager) Users(dbx.DBTX) users.Repository              { return (*fakeUsers)(m.s) }
func (m *fakeRepoManager) RefreshTokens(dbx.DBTX) refreshtokens.Repository {
	return (*fakeRefresh)(m.s)
}
func (m *fakeRepoManager) EmailTokens(dbx.DBTX) emailtokens.Repository { return (*fakeLinks)(m.s) }
func (m *fakeRepoManager) Profiles(dbx.DBTX) profiles.Repository       { return (*fakeProfiles)(m.s) }
func (m *fakeRepoManager) Preferences(dbx.DBTX) preferences.Repository { return (*fakePrefs)(m.s) }
func (m *fakeRepoManager) Listings(dbx.DBTX) listings.Repository       { return (*fakeListings)(m.s) }

type fakeUsers store

func (f *fakeUsers) Create(_ context.Context, u *models.User) (*models.User, error) {
	s := (*store)(f)
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.users {
		if existing.Email == u.Email {
			return nil, common.ErrEmailTaken
		}
	}
	u.ID = s.nextID("u")
	u.CreatedAt = time.Now()
	cp := *u
	s.users[u.ID] = &cp
	return u, nil
}

func (f *fakeUsers) GetByEmail(_ context.Context, email string) (*models.User, error) {
	s := (*store)(f)
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (f *fakeUsers) GetByID(_ context.Context, id string) (*models.User, error) {
	s := (*store)(f)
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUsers) ConfirmEmail(_ context.Context, id string, at time.Time) error {
	s := (*store)(f)
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return common.ErrorNotFound
	}
	if u.EmailConfirmedAt == nil {
		u.EmailConfirmedAt = &at
	}
	return nil
}

func (f *fakeUsers) UpdatePassword(_ context.Context, id string, hash string) error {
	s := (*store)(f)
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return common.ErrorNotFound
	}
	u.PasswordHash = hash
	return nil
}

type fakeRefresh store

func (f *fakeRefresh) Issue(_ context.Context, t *models.RefreshToken) error {
	s := (*store)(f)
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *t
	s.refresh[t.Token] = &cp
	return nil
}

func (f *fakeRefresh) Consume(_ context.Context, token string) (*models.RefreshToken, error) {
	s := (*store)(f)
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.refresh[token]
	if !ok {
		return nil, common.ErrorNotFound
	}
	delete(s.refresh, token)
	return t, nil
}

func (f *fakeRefresh) Revoke(_ context.Context, token string) error {
	s := (*store)(f)
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.refresh, token)
	return nil
}

func (f *fakeRefresh) RevokeAll(_ context.Context, userID string) (int64, error) {
	s := (*store)(f)
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	for k, t := range s.refresh {
		if t.UserID == userID {
			delete(s.refresh, k)
			n++
		}
	}
	return n, nil
}

type fakeLinks store

func (f *fakeLinks) Create(_ context.Context, t *models.EmailToken) error {
	s := (*store)(f)
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *t
	s.links[t.Token] = &cp
	return nil
}

func (f *fakeLinks) Consume(_ context.Context, token string) (*models.EmailToken, error) {
	s := (*store)(f)
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.links[token]
	if !ok {
		return nil, common.ErrorNotFound
	}
	delete(s.links, token)
	return t, nil
}

type fakeProfiles store

func (f *fakeProfiles) Get(_ context.Context, id string) (*models.Profile, error) {
	s := (*store)(f)
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.profiles[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	cp := *p
	return &cp, nil
}

func (f *fakeProfiles) Upsert(_ context.Context, p *models.Profile, columns []string) error {
	s := (*store)(f)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastColumns = columns
	cur, ok := s.profiles[p.ID]
	if !ok {
		cur = &models.Profile{ID: p.ID, CreatedAt: p.UpdatedAt}
		s.profiles[p.ID] = cur
	}
	for _, c := range columns {
		switch c {
		case "full_name":
			cur.FullName = p.FullName
		case "avatar_url":
			cur.AvatarURL = p.AvatarURL
		case "phone":
			cur.Phone = p.Phone
		case "city":
			cur.City = p.City
		}
	}
	cur.UpdatedAt = p.UpdatedAt
	return nil
}

type fakePrefs store

func (f *fakePrefs) Get(_ context.Context, userID string) (*models.Preferences, error) {
	s := (*store)(f)
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.prefs[userID]
	if !ok {
		return nil, common.ErrorNotFound
	}
	cp := *p
	return &cp, nil
}

func (f *fakePrefs) Upsert(_ context.Context, p *models.Preferences, columns []string) error {
	s := (*store)(f)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastColumns = columns
	cur, ok := s.prefs[p.UserID]
	if !ok {
		cur = &models.Preferences{ID: s.nextID("p"), UserID: p.UserID, Cities: []string{}, PropertyTypes: []string{}}
		s.prefs[p.UserID] = cur
	}
	if slices.Contains(columns, "goal") {
		cur.Goal = p.Goal
	}
	if slices.Contains(columns, "budget_min") {
		cur.BudgetMin = p.BudgetMin
	}
	if slices.Contains(columns, "budget_max") {
		cur.BudgetMax = p.BudgetMax
	}
	if slices.Contains(columns, "cities") {
		cur.Cities = p.Cities
	}
	if slices.Contains(columns, "property_types") {
		cur.PropertyTypes = p.PropertyTypes
	}
	cur.UpdatedAt = p.UpdatedAt
	return nil
}

type fakeListings store

func (f *fakeListings) List(_ context.Context, q models.ListingQuery) ([]*models.Listing, error) {
	s := (*store)(f)
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*models.Listing
	for i := len(s.listings) - 1; i >= 0; i-- {
		l := s.listings[i]
		if q.City != "" && l.City != q.City {
			continue
		}
		out = append(out, l)
	}
	return out, nil
}

func (f *fakeListings) Get(_ context.Context, id string) (*models.Listing, error) {
	s := (*store)(f)
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, l := range s.listings {
		if l.ID == id {
			return l, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (f *fakeListings) Create(_ context.Context, l *models.Listing) error {
	s := (*store)(f)
	s.mu.Lock()
	defer s.mu.Unlock()
	l.ID = s.nextID("l")
	l.CreatedAt = time.Now()
	l.UpdatedAt = l.CreatedAt
	s.listings = append(s.listings, l)
	return nil
}

type fakeMailer struct {
	mu   sync.Mutex
	sent []Mail
	err  error
}

func (m *fakeMailer) Send(_ context.Context, mail Mail) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, mail)
	return nil
}

func (m *fakeMailer) last(t *testing.T) Mail {
	t.Helper()
	m.mu.Lock()
	defer m.mu.Unlock()
	require.NotEmpty(t, m.sent, "no mail sent")
	return m.sent[len(m.sent)-1]
}
