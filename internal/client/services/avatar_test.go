package services

import (
	"context"
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/dmitrijs2005/codehunt/internal/client/client"
	"github.com/dmitrijs2005/codehunt/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writePNG(t *testing.T) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "me.png")
	require.NoError(t, os.WriteFile(p, []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR"), 0o600))
	return p
}

func TestAvatar_Upload(t *testing.T) {
	var table string
	var record any
	c := &fakeClient{upsert: func(tb string, r any) error { table, record = tb, r; return nil }}
	a := NewAvatarService(c, signedInAs("u1"), logging.Nop{})
	a.now = func() time.Time { return time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC) }

	var gotURL, gotType string
	a.upload = func(_ context.Context, _ *http.Client, url, ct string, body []byte) error {
		gotURL, gotType = url, ct
		return nil
	}

	key, err := a.Upload(context.Background(), writePNG(t))
	require.NoError(t, err)
	assert.Equal(t, "avatars/u1/k", key)
	assert.Equal(t, "http://storage/avatars/u1/k", gotURL)
	assert.Equal(t, "image/png", gotType)
	assert.Equal(t, "profiles", table)
	assert.Equal(t, map[string]any{
		"id":         "u1",
		"avatar_url": "avatars/u1/k",
		"updated_at": time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC),
	}, record)
}

func TestAvatar_Errors(t *testing.T) {
	ctx := context.Background()

	_, err := NewAvatarService(&fakeClient{}, &fakeSessions{}, logging.Nop{}).Upload(ctx, "x")
	require.ErrorIs(t, err, client.ErrNoSession)

	c := &fakeClient{}
	a := NewAvatarService(c, signedInAs("u1"), logging.Nop{})
	_, err = a.Upload(ctx, filepath.Join(t.TempDir(), "missing.png"))
	requireValidation(t, err)
	assert.Empty(t, c.Calls())

	a.upload = func(context.Context, *http.Client, string, string, []byte) error {
		return errors.New("403 Forbidden")
	}
	_, err = a.Upload(ctx, writePNG(t))
	var te *TransientError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, []string{"AvatarUploadURL"}, c.Calls())
}
