package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	sc "github.com/dmitrijs2005/codehunt/internal/server/config"
	"github.com/google/uuid"
)

const avatarURLExpiry = 15 * time.Minute

type putPresigner interface {
	PresignPutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error)
}

// AvatarService hands out presigned upload URLs for profile pictures. The
// S3 presign client is built on first use and reused afterwards; a failed
// build is retried by the next call.
type AvatarService struct {
	bucket    string
	connect   func(ctx context.Context) (putPresigner, error)
	mu        sync.Mutex
	presigner putPresigner
}

func NewAvatarService(c *sc.Config) *AvatarService {
	return &AvatarService{
		bucket: c.S3Bucket,
		connect: func(ctx context.Context) (putPresigner, error) {
			return newS3Presigner(ctx, c)
		},
	}
}

// newS3Presigner targets an S3-compatible endpoint with path-style
// addressing, which MinIO needs.
func newS3Presigner(ctx context.Context, c *sc.Config) (*s3.PresignClient, error) {
	awsCfg, err := config.LoadDefaultConfig(ctx,
		config.WithRegion(c.S3Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(c.S3RootUser, c.S3RootPassword, "")),
	)
	if err != nil {
		return nil, err
	}
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(c.S3BaseEndpoint)
		o.UsePathStyle = true
	})
	return s3.NewPresignClient(client), nil
}

// AvatarKey returns a fresh object key under the user's prefix.
func AvatarKey(userID string) string {
	return fmt.Sprintf("avatars/%s/%s", userID, uuid.New())
}

func (s *AvatarService) client(ctx context.Context) (putPresigner, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.presigner == nil {
		p, err := s.connect(ctx)
		if err != nil {
			return nil, err
		}
		s.presigner = p
	}
	return s.presigner, nil
}

// UploadURL returns a new object key for userID and a presigned PUT URL
// for it. The key is what the profile stores as avatar_url.
func (s *AvatarService) UploadURL(ctx context.Context, userID string) (key string, url string, err error) {
	p, err := s.client(ctx)
	if err != nil {
		return "", "", fmt.Errorf("s3 config: %w", err)
	}

	key = AvatarKey(userID)
	req, err := p.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(avatarURLExpiry))
	if err != nil {
		return "", "", fmt.Errorf("presign: %w", err)
	}
	return key, req.URL, nil
}
