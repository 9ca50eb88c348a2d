// Package assets relays binary files (cover images, PDFs) between local
// multipart staging and the S3-compatible object store. The staging file is
// deleted exactly once per upload attempt, on success and on failure alike.
package assets

import (
	"context"
	"fmt"
	"mime"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"github.com/mzfirozuddin/elib-apis/internal/filex"
	"github.com/mzfirozuddin/elib-apis/internal/server/config"
	"github.com/mzfirozuddin/elib-apis/internal/server/models"
)

// Kind selects the store namespace and content handling for an asset.
type Kind int

const (
	// KindImage keeps the file's own format and lands under covers/.
	KindImage Kind = iota
	// KindPDF is stored as a raw binary under books/.
	KindPDF
)

func (k Kind) namespace() string {
	if k == KindPDF {
		return "books"
	}
	return "covers"
}

func (k Kind) contentType(ext string) string {
	if k == KindPDF {
		return "application/pdf"
	}
	if ct := mime.TypeByExtension(ext); ct != "" {
		return ct
	}
	return "application/octet-stream"
}

// Relay is the upload/delete contract the services depend on.
type Relay interface {
	// Upload transmits the staged file and returns its reference. The local
	// file is gone when Upload returns, whatever the outcome. Any error means
	// the surrounding operation must abort.
	Upload(ctx context.Context, localPath string, kind Kind) (*models.AssetRef, error)

	// Remove deletes a previously uploaded asset.
	Remove(ctx context.Context, ref models.AssetRef, kind Kind) error
}

// Seams for testing the S3 round-trips without a live store.
var (
	loadDefaultAWSConfig = awsconfig.LoadDefaultConfig

	putObject = func(ctx context.Context, c *s3.Client, in *s3.PutObjectInput) (*s3.PutObjectOutput, error) {
		return c.PutObject(ctx, in)
	}
	deleteObject = func(ctx context.Context, c *s3.Client, in *s3.DeleteObjectInput) (*s3.DeleteObjectOutput, error) {
		return c.DeleteObject(ctx, in)
	}
)

// S3Relay implements Relay against an S3-compatible endpoint (MinIO in dev).
type S3Relay struct {
	client   *s3.Client
	bucket   string
	endpoint string
}

// NewS3Relay builds the S3 client from static credentials in cfg.
func NewS3Relay(ctx context.Context, cfg *config.Config) (*S3Relay, error) {
	awsCfg, err := loadDefaultAWSConfig(ctx,
		awsconfig.WithRegion(cfg.S3Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.S3AccessKey,
			cfg.S3SecretKey,
			"",
		)))
	if err != nil {
		return nil, fmt.Errorf("aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(cfg.S3BaseEndpoint)
		o.UsePathStyle = true
	})

	return &S3Relay{
		client:   client,
		bucket:   cfg.S3Bucket,
		endpoint: strings.TrimRight(cfg.S3BaseEndpoint, "/"),
	}, nil
}

// newStorageKey returns the object key for a fresh upload:
// <namespace>/<yyyy>/<mm>/<dd>/<uuid><ext>.
func newStorageKey(kind Kind, ext string) string {
	d := time.Now()
	return fmt.Sprintf("%s/%d/%02d/%02d/%s%s", kind.namespace(), d.Year(), d.Month(), d.Day(), uuid.New(), ext)
}

func (r *S3Relay) Upload(ctx context.Context, localPath string, kind Kind) (ref *models.AssetRef, err error) {
	f, err := os.Open(localPath)
	if err != nil {
		filex.RemoveQuietly(localPath)
		return nil, fmt.Errorf("open staged file: %w", err)
	}
	defer func() {
		_ = f.Close()
		filex.RemoveQuietly(localPath)
	}()

	ext := filepath.Ext(localPath)
	key := newStorageKey(kind, ext)

	_, err = putObject(ctx, r.client, &s3.PutObjectInput{
		Bucket:      aws.String(r.bucket),
		Key:         aws.String(key),
		Body:        f,
		ContentType: aws.String(kind.contentType(ext)),
	})
	if err != nil {
		return nil, fmt.Errorf("put object: %w", err)
	}

	return &models.AssetRef{
		URL:        fmt.Sprintf("%s/%s/%s", r.endpoint, r.bucket, key),
		StorageKey: key,
	}, nil
}

func (r *S3Relay) Remove(ctx context.Context, ref models.AssetRef, kind Kind) error {
	key := ref.StorageKey
	if key == "" {
		// Records written before keys were persisted carry a URL only.
		key = DeriveStorageKey(ref.URL)
	}
	if key == "" {
		return nil
	}

	_, err := deleteObject(ctx, r.client, &s3.DeleteObjectInput{
		Bucket: aws.String(r.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("delete object: %w", err)
	}
	return nil
}

// DeriveStorageKey recovers the object key from a stored asset URL by
// dropping the endpoint and the leading bucket segment. It exists only for
// legacy rows without a persisted key; the derivation depends on the store's
// URL shape and must stay isolated here.
func DeriveStorageKey(assetURL string) string {
	u, err := url.Parse(assetURL)
	if err != nil {
		return ""
	}
	path := strings.TrimPrefix(u.Path, "/")
	_, key, found := strings.Cut(path, "/")
	if !found {
		return ""
	}
	return key
}
