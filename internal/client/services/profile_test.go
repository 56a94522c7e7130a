package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/codehunt/internal/client/client"
	"github.com/dmitrijs2005/codehunt/internal/client/models"
	"github.com/dmitrijs2005/codehunt/internal/logging"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProfileEditor_NoSessionNoFetch(t *testing.T) {
	rows := newMemRows()
	e := NewProfileEditor(rows, &fakeSessions{}, logging.Nop{})

	_, err := e.Load(context.Background())
	require.ErrorIs(t, err, client.ErrNoSession)
	require.ErrorIs(t, e.Save(context.Background()), client.ErrNoSession)
	assert.Equal(t, 0, rows.Fetches())
	assert.Empty(t, rows.upserts)
}

func TestProfileEditor_FirstEditRoundTrip(t *testing.T) {
	rows := newMemRows()
	sessions := signedInAs("u1")
	e := NewProfileEditor(rows, sessions, logging.Nop{})
	ctx := context.Background()

	form, err := e.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.ProfileForm{}, form)

	e.Edit(func(f *models.ProfileForm) { f.FullName = "Asha Rao" })
	require.NoError(t, e.Save(ctx))

	again := NewProfileEditor(rows, sessions, logging.Nop{})
	form, err = again.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Asha Rao", form.FullName)
}

func TestProfileEditor_BlankFieldsSentAsNull(t *testing.T) {
	rows := newMemRows()
	rows.rows["profiles/u1"] = map[string]any{"id": "u1", "full_name": "Asha", "phone": "999", "city": "Pune"}
	e := NewProfileEditor(rows, signedInAs("u1"), logging.Nop{})
	fixed := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	e.now = func() time.Time { return fixed }
	ctx := context.Background()

	_, err := e.Load(ctx)
	require.NoError(t, err)
	e.Edit(func(f *models.ProfileForm) { *f = models.ProfileForm{FullName: "  "} })
	require.NoError(t, e.Save(ctx))

	require.Len(t, rows.upserts, 1)
	sent := rows.upserts[0]
	for _, col := range []string{"full_name", "phone", "city"} {
		v, present := sent[col]
		assert.True(t, present, col)
		assert.Nil(t, v, col)
	}
	assert.Equal(t, "u1", sent["id"])
	assert.Equal(t, "2025-03-01T10:00:00Z", sent["updated_at"])
	assert.NotContains(t, sent, "avatar_url")

	form, err := NewProfileEditor(rows, signedInAs("u1"), logging.Nop{}).Load(ctx)
	require.NoError(t, err)
	if diff := cmp.Diff(models.ProfileForm{}, form); diff != "" {
		t.Errorf("reloaded form mismatch (-want +got):\n%s", diff)
	}
}

func TestProfileEditor_FailuresKeepBuffer(t *testing.T) {
	rows := newMemRows()
	e := NewProfileEditor(rows, signedInAs("u1"), logging.Nop{})
	ctx := context.Background()
	e.Edit(func(f *models.ProfileForm) { f.FullName = "typed" })

	rows.upsertErr = client.ErrUnavailable
	err := e.Save(ctx)
	var te *TransientError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, "typed", e.Form().FullName)

	rows.fetchErr = errors.New("boom")
	_, err = e.Load(ctx)
	require.ErrorAs(t, err, &te)
	assert.Equal(t, "typed", e.Form().FullName)
}

func TestProfileEditor_ConcurrentLoadsCollapse(t *testing.T) {
	rows := newMemRows()
	rows.rows["profiles/u1"] = map[string]any{"id": "u1", "full_name": "Asha"}
	rows.fetchGate = make(chan struct{})
	e := NewProfileEditor(rows, signedInAs("u1"), logging.Nop{})

	var wg sync.WaitGroup
	results := make([]models.ProfileForm, 4)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			f, err := e.Load(context.Background())
			assert.NoError(t, err)
			results[i] = f
		}(i)
	}
	require.Eventually(t, func() bool { return rows.Fetches() >= 1 }, time.Second, time.Millisecond)
	// Let the other callers join the in-flight fetch.
	time.Sleep(20 * time.Millisecond)
	close(rows.fetchGate)
	wg.Wait()

	assert.Equal(t, 1, rows.Fetches())
	for _, f := range results {
		assert.Equal(t, "Asha", f.FullName)
	}
}

func TestProfileEditor_CancelledCallerLeavesSharedFetch(t *testing.T) {
	rows := newMemRows()
	rows.rows["profiles/u1"] = map[string]any{"id": "u1", "full_name": "Asha"}
	rows.fetchGate = make(chan struct{})
	e := NewProfileEditor(rows, signedInAs("u1"), logging.Nop{})

	ctx, cancel := context.WithCancel(context.Background())
	first := make(chan error, 1)
	go func() {
		_, err := e.Load(ctx)
		first <- err
	}()
	require.Eventually(t, func() bool { return rows.Fetches() == 1 }, time.Second, time.Millisecond)

	second := make(chan models.ProfileForm, 1)
	go func() {
		f, err := e.Load(context.Background())
		assert.NoError(t, err)
		second <- f
	}()
	time.Sleep(20 * time.Millisecond)

	cancel()
	select {
	case err := <-first:
		var te *TransientError
		require.ErrorAs(t, err, &te)
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("cancelled Load did not return")
	}

	close(rows.fetchGate)
	select {
	case f := <-second:
		assert.Equal(t, "Asha", f.FullName)
	case <-time.After(time.Second):
		t.Fatal("second Load did not return")
	}
	assert.Equal(t, 1, rows.Fetches())
	assert.Equal(t, "Asha", e.Form().FullName)
}

func TestProfileEditor_DropsLoadAfterClose(t *testing.T) {
	rows := newMemRows()
	rows.rows["profiles/u1"] = map[string]any{"id": "u1", "full_name": "Asha"}
	rows.fetchGate = make(chan struct{})
	e := NewProfileEditor(rows, signedInAs("u1"), logging.Nop{})

	done := make(chan error, 1)
	go func() {
		_, err := e.Load(context.Background())
		done <- err
	}()
	require.Eventually(t, func() bool { return rows.Fetches() == 1 }, time.Second, time.Millisecond)
	e.Close()
	close(rows.fetchGate)

	require.ErrorIs(t, <-done, ErrEditorClosed)
	assert.Equal(t, "", e.Form().FullName)
	require.ErrorIs(t, e.Save(context.Background()), ErrEditorClosed)
}

func TestProfileEditor_DropsLoadForPreviousUser(t *testing.T) {
	rows := newMemRows()
	rows.rows["profiles/u1"] = map[string]any{"id": "u1", "full_name": "Asha"}
	rows.fetchGate = make(chan struct{})
	sessions := signedInAs("u1")
	e := NewProfileEditor(rows, sessions, logging.Nop{})

	done := make(chan error, 1)
	go func() {
		_, err := e.Load(context.Background())
		done <- err
	}()
	require.Eventually(t, func() bool { return rows.Fetches() == 1 }, time.Second, time.Millisecond)
	sessions.set("u2")
	close(rows.fetchGate)

	require.ErrorIs(t, <-done, ErrSessionChanged)
	assert.Equal(t, "", e.Form().FullName)
}

func TestProfileEditor_SaveRefusesOtherUsersBuffer(t *testing.T) {
	rows := newMemRows()
	rows.rows["profiles/u1"] = map[string]any{"id": "u1", "full_name": "Asha"}
	sessions := signedInAs("u1")
	e := NewProfileEditor(rows, sessions, logging.Nop{})

	_, err := e.Load(context.Background())
	require.NoError(t, err)
	sessions.set("u2")

	require.ErrorIs(t, e.Save(context.Background()), ErrSessionChanged)
	assert.Empty(t, rows.upserts)
}

func TestProfileEditor_SavesAreSerialized(t *testing.T) {
	rows := newMemRows()
	e := NewProfileEditor(rows, signedInAs("u1"), logging.Nop{})

	release := make(chan struct{})
	entered := make(chan struct{}, 2)
	var inFlight, maxInFlight int
	var mu sync.Mutex
	rows.onUpsert = func() {
		mu.Lock()
		inFlight++
		if inFlight > maxInFlight {
			maxInFlight = inFlight
		}
		mu.Unlock()
		entered <- struct{}{}
		<-release
		mu.Lock()
		inFlight--
		mu.Unlock()
	}

	e.Edit(func(f *models.ProfileForm) { f.FullName = "first" })
	first := make(chan error, 1)
	go func() { first <- e.Save(context.Background()) }()
	<-entered

	e.Edit(func(f *models.ProfileForm) { f.FullName = "second" })
	second := make(chan error, 1)
	go func() { second <- e.Save(context.Background()) }()

	close(release)
	require.NoError(t, <-first)
	require.NoError(t, <-second)

	assert.Equal(t, 1, maxInFlight)
	require.Len(t, rows.upserts, 2)
	assert.Equal(t, "first", rows.upserts[0]["full_name"])
	assert.Equal(t, "second", rows.upserts[1]["full_name"])
	assert.Equal(t, "second", rows.rows["profiles/u1"]["full_name"])
}
