package services

import (
	"context"
	"sync"
	"time"

	"github.com/dmitrijs2005/codehunt/internal/client/client"
	"github.com/dmitrijs2005/codehunt/internal/client/models"
	"github.com/dmitrijs2005/codehunt/internal/client/session"
	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// fakeClient implements client.Client. Unset funcs succeed with zero values.
type fakeClient struct {
	mu    sync.Mutex
	calls []string

	signIn     func(email, password string) (*models.Session, error)
	signUp     func(email, password, redirectTo string) (*models.Session, error)
	signOut    func() error
	reset      func(email, redirectTo string) error
	updatePw   func(password string) error
	setSession func(access, refresh string, exp time.Time) (*models.Session, error)
	ping       func() error

	list   func(f models.ListingFilter) ([]*models.Listing, error)
	get    func(id string) (*models.Listing, error)
	create func(l *models.Listing) (*models.Listing, error)
	avatar func() (string, string, error)
	upsert func(table string, record any) error
}

var _ client.Client = (*fakeClient)(nil)

func (f *fakeClient) record(name string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, name)
}

func (f *fakeClient) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func (f *fakeClient) GetSession(context.Context) (*models.Session, error) { return nil, nil }
func (f *fakeClient) Subscribe(client.AuthChangeFunc) func()              { return func() {} }

func (f *fakeClient) SignIn(_ context.Context, email, password string) (*models.Session, error) {
	f.record("SignIn")
	if f.signIn != nil {
		return f.signIn(email, password)
	}
	return &models.Session{User: models.User{ID: "u1", Email: email}}, nil
}

func (f *fakeClient) SignUp(_ context.Context, email, password, redirectTo string) (*models.Session, error) {
	f.record("SignUp")
	if f.signUp != nil {
		return f.signUp(email, password, redirectTo)
	}
	return nil, nil
}

func (f *fakeClient) SignOut(context.Context) error {
	f.record("SignOut")
	if f.signOut != nil {
		return f.signOut()
	}
	return nil
}

func (f *fakeClient) ResetPasswordRequest(_ context.Context, email, redirectTo string) error {
	f.record("ResetPasswordRequest")
	if f.reset != nil {
		return f.reset(email, redirectTo)
	}
	return nil
}

func (f *fakeClient) UpdatePassword(_ context.Context, password string) error {
	f.record("UpdatePassword")
	if f.updatePw != nil {
		return f.updatePw(password)
	}
	return nil
}

func (f *fakeClient) SetSession(_ context.Context, access, refresh string, exp time.Time) (*models.Session, error) {
	f.record("SetSession")
	if f.setSession != nil {
		return f.setSession(access, refresh, exp)
	}
	return &models.Session{AccessToken: access, RefreshToken: refresh, ExpiresAt: exp}, nil
}

func (f *fakeClient) FetchRow(context.Context, string, string, any) error {
	f.record("FetchRow")
	return client.ErrNotFound
}

func (f *fakeClient) UpsertRow(_ context.Context, table string, record any) error {
	f.record("UpsertRow")
	if f.upsert != nil {
		return f.upsert(table, record)
	}
	return nil
}

func (f *fakeClient) ListListings(_ context.Context, filter models.ListingFilter) ([]*models.Listing, error) {
	f.record("ListListings")
	if f.list != nil {
		return f.list(filter)
	}
	return nil, nil
}

func (f *fakeClient) GetListing(_ context.Context, id string) (*models.Listing, error) {
	f.record("GetListing")
	if f.get != nil {
		return f.get(id)
	}
	return nil, client.ErrNotFound
}

func (f *fakeClient) CreateListing(_ context.Context, l *models.Listing) (*models.Listing, error) {
	f.record("CreateListing")
	if f.create != nil {
		return f.create(l)
	}
	out := *l
	out.ID = "new"
	return &out, nil
}

func (f *fakeClient) AvatarUploadURL(context.Context) (string, string, error) {
	f.record("AvatarUploadURL")
	if f.avatar != nil {
		return f.avatar()
	}
	return "avatars/u1/k", "http://storage/avatars/u1/k", nil
}

func (f *fakeClient) Ping(context.Context) error {
	if f.ping != nil {
		return f.ping()
	}
	return nil
}

func (f *fakeClient) Close() error { return nil }

// memRows is an in-memory generic row table keyed by "table/id". Upserts
// merge the columns present in the payload, like the backend does.
type memRows struct {
	mu      sync.Mutex
	rows    map[string]map[string]any
	fetches int
	upserts []map[string]any

	// fetchGate, when set, blocks FetchRow until it is closed.
	fetchGate chan struct{}
	fetchErr  error
	upsertErr error
	// onUpsert runs inside UpsertRow before the write.
	onUpsert func()
}

func newMemRows() *memRows {
	return &memRows{rows: map[string]map[string]any{}}
}

func keyColumn(table string) string {
	if table == "user_preferences" {
		return "user_id"
	}
	return "id"
}

func (m *memRows) FetchRow(ctx context.Context, table, id string, dst any) error {
	m.mu.Lock()
	m.fetches++
	gate := m.fetchGate
	m.mu.Unlock()
	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fetchErr != nil {
		return m.fetchErr
	}
	row, ok := m.rows[table+"/"+id]
	if !ok {
		return client.ErrNotFound
	}
	b, err := json.Marshal(row)
	if err != nil {
		return err
	}
	return json.Unmarshal(b, dst)
}

func (m *memRows) UpsertRow(_ context.Context, table string, record any) error {
	if m.onUpsert != nil {
		m.onUpsert()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.upsertErr != nil {
		return m.upsertErr
	}

	b, err := json.Marshal(record)
	if err != nil {
		return err
	}
	var fields map[string]any
	if err := json.Unmarshal(b, &fields); err != nil {
		return err
	}
	m.upserts = append(m.upserts, fields)

	key := table + "/" + fields[keyColumn(table)].(string)
	row, ok := m.rows[key]
	if !ok {
		row = map[string]any{}
		m.rows[key] = row
	}
	for k, v := range fields {
		row[k] = v
	}
	return nil
}

func (m *memRows) Fetches() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.fetches
}

// fakeSessions is a settable SessionSource.
type fakeSessions struct {
	mu sync.Mutex
	s  *models.Session
}

func signedInAs(id string) *fakeSessions {
	return &fakeSessions{s: &models.Session{AccessToken: "t", User: models.User{ID: id}}}
}

func (f *fakeSessions) State() session.State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return session.State{Session: f.s, Initialized: true}
}

func (f *fakeSessions) set(id string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if id == "" {
		f.s = nil
		return
	}
	f.s = &models.Session{AccessToken: "t", User: models.User{ID: id}}
}
