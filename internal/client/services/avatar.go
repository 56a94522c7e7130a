package services

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/dmitrijs2005/codehunt/internal/client/client"
	"github.com/dmitrijs2005/codehunt/internal/common"
	"github.com/dmitrijs2005/codehunt/internal/filex"
	"github.com/dmitrijs2005/codehunt/internal/logging"
	"github.com/dmitrijs2005/codehunt/internal/netx"
)

const maxAvatarBytes = 5 << 20

// AvatarClient is the part of client.Client avatar upload needs.
type AvatarClient interface {
	AvatarUploadURL(ctx context.Context) (key string, url string, err error)
	UpsertRow(ctx context.Context, table string, record any) error
}

type AvatarService struct {
	client   AvatarClient
	sessions SessionSource
	http     *http.Client
	logger   logging.Logger
	now      func() time.Time

	upload func(ctx context.Context, hc *http.Client, url, contentType string, body []byte) error
}

func NewAvatarService(c AvatarClient, sessions SessionSource, l logging.Logger) *AvatarService {
	return &AvatarService{
		client:   c,
		sessions: sessions,
		http:     &http.Client{Timeout: time.Minute},
		logger:   l.With("module", "avatar_service"),
		now:      time.Now,
		upload:   netx.UploadToPresignedURL,
	}
}

// Upload sends the image at path to object storage and records its key as
// the profile's avatar_url. Other profile columns are left alone.
func (a *AvatarService) Upload(ctx context.Context, path string) (string, error) {
	uid := a.sessions.State().Session.UserID()
	if uid == "" {
		return "", client.ErrNoSession
	}

	data, contentType, err := filex.ReadImage(path, maxAvatarBytes)
	if err != nil {
		return "", &ValidationError{Fields: map[string]string{"avatar": err.Error()}}
	}

	key, url, err := a.client.AvatarUploadURL(ctx)
	if err != nil {
		return "", classify(err, "")
	}
	if err := a.upload(ctx, a.http, url, contentType, data); err != nil {
		a.logger.Warn(ctx, "avatar upload failed", "key", key, "error", err)
		return "", &TransientError{Err: fmt.Errorf("upload avatar: %w", err)}
	}

	row := map[string]any{
		"id":         uid,
		"avatar_url": key,
		"updated_at": a.now().UTC(),
	}
	if err := a.client.UpsertRow(ctx, common.TableProfiles, row); err != nil {
		return "", classify(err, "")
	}
	return key, nil
}
