package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/dmitrijs2005/codehunt/internal/client/client"
	"github.com/dmitrijs2005/codehunt/internal/client/session"
	"github.com/dmitrijs2005/codehunt/internal/logging"
	"golang.org/x/sync/singleflight"
)

const fetchTimeout = 30 * time.Second

// RowClient is the part of client.Client the editors need.
type RowClient interface {
	FetchRow(ctx context.Context, table, id string, dst any) error
	UpsertRow(ctx context.Context, table string, record any) error
}

// SessionSource reports who is signed in. *session.Store satisfies it.
type SessionSource interface {
	State() session.State
}

// rowEditor keeps an edit buffer of type F in sync with the caller's row
// of type R in one table. One fetch is in flight at a time and saves run
// one after another.
type rowEditor[R any, F any] struct {
	rows     RowClient
	sessions SessionSource
	table    string
	logger   logging.Logger
	now      func() time.Time

	fromRow func(*R) F
	toRow   func(userID string, f F, now time.Time) any
	clone   func(F) F

	group  singleflight.Group
	saveMu sync.Mutex

	mu        sync.Mutex
	form      F
	loadedFor string
	closed    bool
}

func (e *rowEditor[R, F]) userID() string {
	return e.sessions.State().Session.UserID()
}

// Load fetches the row of the signed-in user into the buffer. A missing row
// yields a blank buffer.
func (e *rowEditor[R, F]) Load(ctx context.Context) (F, error) {
	var zero F
	uid := e.userID()
	if uid == "" {
		return zero, client.ErrNoSession
	}

	// The shared fetch outlives any single caller's ctx; each caller
	// stops waiting on its own cancellation.
	fetch := e.group.DoChan(uid, func() (any, error) {
		fctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), fetchTimeout)
		defer cancel()
		var row R
		err := e.rows.FetchRow(fctx, e.table, uid, &row)
		if errors.Is(err, client.ErrNotFound) {
			return (*R)(nil), nil
		}
		if err != nil {
			return nil, err
		}
		return &row, nil
	})
	var res singleflight.Result
	select {
	case res = <-fetch:
	case <-ctx.Done():
		return zero, classify(ctx.Err(), "")
	}
	v, err := res.Val, res.Err

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return zero, ErrEditorClosed
	}
	if e.userID() != uid {
		e.logger.Debug(ctx, "dropping stale row", "table", e.table)
		return zero, ErrSessionChanged
	}
	if err != nil {
		e.logger.Warn(ctx, "row fetch failed", "table", e.table, "error", err)
		return zero, classify(err, "")
	}

	e.form = e.fromRow(v.(*R))
	e.loadedFor = uid
	return e.clone(e.form), nil
}

// Form returns a copy of the edit buffer.
func (e *rowEditor[R, F]) Form() F {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.clone(e.form)
}

// Edit applies fn to the buffer.
func (e *rowEditor[R, F]) Edit(fn func(f *F)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	fn(&e.form)
}

// Save writes the buffer as it is when the save starts running. The buffer
// is left untouched whatever the outcome.
func (e *rowEditor[R, F]) Save(ctx context.Context) error {
	e.saveMu.Lock()
	defer e.saveMu.Unlock()

	uid := e.userID()
	if uid == "" {
		return client.ErrNoSession
	}

	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return ErrEditorClosed
	}
	if e.loadedFor != "" && e.loadedFor != uid {
		e.mu.Unlock()
		return ErrSessionChanged
	}
	snapshot := e.clone(e.form)
	e.mu.Unlock()

	if err := e.rows.UpsertRow(ctx, e.table, e.toRow(uid, snapshot, e.now())); err != nil {
		e.logger.Warn(ctx, "row save failed", "table", e.table, "error", err)
		return classify(err, "")
	}
	return nil
}

// Close makes later Load results and saves fail with ErrEditorClosed.
func (e *rowEditor[R, F]) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.closed = true
}
