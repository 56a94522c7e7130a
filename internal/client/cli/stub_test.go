package cli

import (
	"bufio"
	"bytes"
	"context"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/codehunt/internal/client/client"
	"github.com/dmitrijs2005/codehunt/internal/client/config"
	"github.com/dmitrijs2005/codehunt/internal/client/models"
	"github.com/dmitrijs2005/codehunt/internal/client/session"
	"github.com/dmitrijs2005/codehunt/internal/logging"
	jsoniter "github.com/json-iterator/go"
	"github.com/stretchr/testify/require"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// stubClient behaves like a small backend: it keeps a session, announces
// changes to its subscriber and stores rows in memory. Methods a test does
// not expect panic through the nil embedded interface.
type stubClient struct {
	client.Client

	mu       sync.Mutex
	listener client.AuthChangeFunc
	session  *models.Session
	calls    []string

	signInErr  error
	signUpConf bool
	setErr     error
	pingErr    error
	upsertErrs []error
	// onFetch runs at the start of FetchRow, outside the lock.
	onFetch  func()
	fetchErr error

	rows     map[string]map[string]any
	listings []*models.Listing
}

func newStubClient() *stubClient {
	return &stubClient{rows: map[string]map[string]any{}}
}

func (c *stubClient) record(name string) {
	c.mu.Lock()
	c.calls = append(c.calls, name)
	c.mu.Unlock()
}

func (c *stubClient) change(e models.AuthEvent, s *models.Session) {
	c.mu.Lock()
	c.session = s
	fn := c.listener
	c.mu.Unlock()
	if fn != nil {
		fn(e, s)
	}
}

func (c *stubClient) GetSession(context.Context) (*models.Session, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.session, nil
}

func (c *stubClient) Subscribe(fn client.AuthChangeFunc) func() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.listener = fn
	return func() {
		c.mu.Lock()
		c.listener = nil
		c.mu.Unlock()
	}
}

func userSession(email string) *models.Session {
	return &models.Session{AccessToken: "a", RefreshToken: "r", User: models.User{ID: "u-" + email, Email: email}}
}

func (c *stubClient) SignIn(_ context.Context, email, _ string) (*models.Session, error) {
	c.record("SignIn")
	if c.signInErr != nil {
		return nil, c.signInErr
	}
	s := userSession(email)
	c.change(models.EventSignedIn, s)
	return s, nil
}

func (c *stubClient) SignUp(_ context.Context, email, _, _ string) (*models.Session, error) {
	c.record("SignUp")
	if c.signUpConf {
		return nil, nil
	}
	s := userSession(email)
	c.change(models.EventSignedIn, s)
	return s, nil
}

func (c *stubClient) SignOut(context.Context) error {
	c.record("SignOut")
	c.change(models.EventSignedOut, nil)
	return nil
}

func (c *stubClient) ResetPasswordRequest(context.Context, string, string) error {
	c.record("ResetPasswordRequest")
	return nil
}

func (c *stubClient) UpdatePassword(context.Context, string) error {
	c.record("UpdatePassword")
	return nil
}

func (c *stubClient) SetSession(_ context.Context, access, refresh string, exp time.Time) (*models.Session, error) {
	c.record("SetSession")
	if c.setErr != nil {
		return nil, c.setErr
	}
	s := &models.Session{AccessToken: access, RefreshToken: refresh, ExpiresAt: exp, User: models.User{ID: "u1", Email: "asha@example.com"}}
	c.change(models.EventPasswordRecovery, s)
	return s, nil
}

func (c *stubClient) FetchRow(_ context.Context, table, id string, dst any) error {
	if c.onFetch != nil {
		c.onFetch()
	}
	if c.fetchErr != nil {
		return c.fetchErr
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	row, ok := c.rows[table+"/"+id]
	if !ok {
		return client.ErrNotFound
	}
	b, err := json.Marshal(row)
	if err != nil {
		return err
	}
	return json.Unmarshal(b, dst)
}

func (c *stubClient) UpsertRow(_ context.Context, table string, record any) error {
	c.record("UpsertRow")
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.upsertErrs) > 0 {
		err := c.upsertErrs[0]
		c.upsertErrs = c.upsertErrs[1:]
		if err != nil {
			return err
		}
	}
	b, err := json.Marshal(record)
	if err != nil {
		return err
	}
	var fields map[string]any
	if err := json.Unmarshal(b, &fields); err != nil {
		return err
	}
	key := "id"
	if table == "user_preferences" {
		key = "user_id"
	}
	k := table + "/" + fields[key].(string)
	if c.rows[k] == nil {
		c.rows[k] = map[string]any{}
	}
	for f, v := range fields {
		c.rows[k][f] = v
	}
	return nil
}

func (c *stubClient) ListListings(context.Context, models.ListingFilter) ([]*models.Listing, error) {
	c.record("ListListings")
	return c.listings, nil
}

func (c *stubClient) GetListing(_ context.Context, id string) (*models.Listing, error) {
	c.record("GetListing")
	for _, l := range c.listings {
		if l.ID == id {
			return l, nil
		}
	}
	return nil, client.ErrNotFound
}

func (c *stubClient) CreateListing(_ context.Context, l *models.Listing) (*models.Listing, error) {
	c.record("CreateListing")
	out := *l
	out.ID = "new-1"
	out.PriceLabel = "₹45.00 L"
	c.listings = append(c.listings, &out)
	return &out, nil
}

func (c *stubClient) Ping(context.Context) error { return c.pingErr }
func (c *stubClient) Close() error               { return nil }

func (c *stubClient) Calls() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.calls...)
}

func readerFromLines(lines ...string) *bufio.Reader {
	return bufio.NewReader(strings.NewReader(strings.Join(lines, "\n") + "\n"))
}

// newTestApp builds an initialized App over c reading the given input lines.
func newTestApp(t *testing.T, c *stubClient, input ...string) (*App, *bytes.Buffer) {
	t.Helper()
	out := &bytes.Buffer{}
	cfg := &config.Config{ResetRedirectURL: "codehunt://reset-password", OnlineCheckInterval: time.Hour}
	a, err := newApp(cfg, c, logging.Nop{}, readerFromLines(input...), out)
	require.NoError(t, err)
	a.store.Initialize(context.Background())
	t.Cleanup(func() {
		a.detach()
		a.store.Close()
	})
	return a, out
}

// stubPasswords feeds the given answers to password prompts in order.
func stubPasswords(t *testing.T, answers ...string) {
	t.Helper()
	orig := getPassword
	getPassword = func(string, io.Writer) ([]byte, error) {
		if len(answers) == 0 {
			return nil, context.Canceled
		}
		pw := answers[0]
		answers = answers[1:]
		return []byte(pw), nil
	}
	t.Cleanup(func() { getPassword = orig })
}

type sessionState = session.State

type discard struct{}

func (discard) Write(p []byte) (int, error) { return len(p), nil }

var (
	configForTest = config.Config{ResetRedirectURL: "codehunt://reset-password", OnlineCheckInterval: time.Hour}
	nopLogger     = logging.Nop{}
)
