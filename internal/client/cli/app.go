package cli

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/dmitrijs2005/codehunt/internal/client/client"
	"github.com/dmitrijs2005/codehunt/internal/client/config"
	metarepo "github.com/dmitrijs2005/codehunt/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/codehunt/internal/client/router"
	"github.com/dmitrijs2005/codehunt/internal/client/services"
	"github.com/dmitrijs2005/codehunt/internal/client/session"
	"github.com/dmitrijs2005/codehunt/internal/logging"
)

type Mode string

const (
	ModeOffline Mode = "offline"
	ModeOnline  Mode = "online"
)

type App struct {
	config *config.Config
	logger logging.Logger
	db     *sql.DB
	client client.Client

	store   *session.Store
	history *router.History
	guard   *router.Guard
	detach  func()

	auth     *services.AuthService
	listings *services.ListingsService
	avatars  *services.AvatarService

	reader *bufio.Reader
	out    io.Writer

	mu   sync.Mutex
	mode Mode
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger := logging.NewText(os.Stderr, slog.LevelWarn)

	db, err := client.InitDatabase(ctx, c.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("error initializing database: %w", err)
	}

	apiClient, err := client.NewGRPCClient(c.ServerEndpointAddr, metarepo.NewSQLiteRepository(db), logger)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	a, err := newApp(c, apiClient, logger, bufio.NewReader(os.Stdin), os.Stdout)
	if err != nil {
		_ = apiClient.Close()
		_ = db.Close()
		return nil, err
	}
	a.db = db
	return a, nil
}

// newApp wires everything above the transport. Tests call it with a fake
// client.
func newApp(c *config.Config, apiClient client.Client, l logging.Logger, r *bufio.Reader, w io.Writer) (*App, error) {
	listings, err := services.NewListingsService(apiClient, services.DefaultListingCacheSize, l)
	if err != nil {
		return nil, err
	}

	store := session.NewStore(apiClient, l)
	history := router.NewHistory(router.ScreenLogin)

	a := &App{
		config:   c,
		logger:   l,
		client:   apiClient,
		store:    store,
		history:  history,
		guard:    router.NewGuard(history, l),
		auth:     services.NewAuthService(apiClient, c.ResetRedirectURL, l),
		listings: listings,
		avatars:  services.NewAvatarService(apiClient, store, l),
		reader:   r,
		out:      w,
	}
	a.detach = a.guard.Attach(store)
	return a, nil
}

// Run restores any saved session and serves the REPL until the user exits
// or ctx is done.
func (a *App) Run(ctx context.Context) {
	defer a.close()

	a.println("Welcome to CodeHunt (type 'help' for commands)")
	a.store.Initialize(ctx)

	watchCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	go a.StartOnlineStatusWatcher(watchCtx, a.config.OnlineCheckInterval)

	runREPL(ctx, a, a.getStatus, a.reader)
}

func (a *App) close() {
	a.detach()
	a.store.Close()
	if err := a.client.Close(); err != nil {
		a.logger.Warn(context.Background(), "closing client", "error", err)
	}
	if a.db != nil {
		_ = a.db.Close()
	}
}

func (a *App) setMode(mode Mode) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.mode != mode {
		a.mode = mode
		a.logger.Info(context.Background(), "connectivity changed", "mode", string(mode))
	}
}

func (a *App) Mode() Mode {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.mode
}

func (a *App) StartOnlineStatusWatcher(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			a.checkOnline(ctx)
		case <-ctx.Done():
			return
		}
	}
}

func (a *App) checkOnline(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := a.auth.Ping(ctx); err != nil {
		a.setMode(ModeOffline)
		return
	}
	a.setMode(ModeOnline)
}

func (a *App) isSignedIn() bool {
	return a.store.State().Session != nil
}

// getStatus renders the prompt prefix, e.g. "asha@example.com home online".
func (a *App) getStatus() string {
	s := a.store.State()
	status := ""
	if s.Session != nil {
		status = s.Session.User.Email + " "
	}
	status += string(a.history.Current())
	if m := a.Mode(); m != "" {
		status += " " + string(m)
	}
	return status
}

func (a *App) println(args ...any) {
	fmt.Fprintln(a.out, args...)
}

func (a *App) printf(format string, args ...any) {
	fmt.Fprintf(a.out, format, args...)
}

// open moves to screen if its area allows it for the current session.
func (a *App) open(screen router.Screen) bool {
	signedIn := a.isSignedIn()
	switch screen.Area() {
	case router.AreaAuthenticated:
		if !signedIn {
			a.println("Please sign in first.")
			return false
		}
	case router.AreaUnauthenticated:
		if signedIn {
			a.println("You are already signed in. Use 'signout' first.")
			return false
		}
	}
	a.history.Push(screen)
	return true
}

// Back returns to the previous screen.
func (a *App) Back(context.Context) error {
	if _, ok := a.history.Back(); !ok {
		a.println("Nothing to go back to.")
	}
	a.guard.Evaluate(a.store.State())
	return nil
}
