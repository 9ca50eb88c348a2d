package assets

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/mzfirozuddin/elib-apis/internal/server/config"
	"github.com/mzfirozuddin/elib-apis/internal/server/models"
)

func testConfig() *config.Config {
	return &config.Config{
		S3AccessKey:    "test",
		S3SecretKey:    "test",
		S3Bucket:       "elib-assets",
		S3Region:       "us-east-1",
		S3BaseEndpoint: "http://127.0.0.1:9000/",
	}
}

func newTestRelay(t *testing.T) *S3Relay {
	t.Helper()
	r, err := NewS3Relay(context.Background(), testConfig())
	if err != nil {
		t.Fatalf("NewS3Relay error: %v", err)
	}
	return r
}

func stageFile(t *testing.T, name string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(p, []byte("content"), 0o600); err != nil {
		t.Fatalf("write staged file: %v", err)
	}
	return p
}

func TestUpload_Success_DeletesStagedFile(t *testing.T) {
	relay := newTestRelay(t)
	staged := stageFile(t, "cover.png")

	var gotKey, gotContentType string
	orig := putObject
	putObject = func(ctx context.Context, c *s3.Client, in *s3.PutObjectInput) (*s3.PutObjectOutput, error) {
		gotKey = *in.Key
		gotContentType = *in.ContentType
		return &s3.PutObjectOutput{}, nil
	}
	defer func() { putObject = orig }()

	ref, err := relay.Upload(context.Background(), staged, KindImage)
	if err != nil {
		t.Fatalf("Upload error: %v", err)
	}

	if !strings.HasPrefix(gotKey, "covers/") || !strings.HasSuffix(gotKey, ".png") {
		t.Fatalf("unexpected storage key: %q", gotKey)
	}
	if gotContentType != "image/png" {
		t.Fatalf("unexpected content type: %q", gotContentType)
	}
	if ref.StorageKey != gotKey {
		t.Fatalf("ref key mismatch: %q vs %q", ref.StorageKey, gotKey)
	}
	if want := "http://127.0.0.1:9000/elib-assets/" + gotKey; ref.URL != want {
		t.Fatalf("unexpected URL: %q want %q", ref.URL, want)
	}

	if _, err := os.Stat(staged); !os.IsNotExist(err) {
		t.Fatal("staged file should be deleted after a successful upload")
	}
}

func TestUpload_PDFKindUsesRawContentType(t *testing.T) {
	relay := newTestRelay(t)
	staged := stageFile(t, "book.pdf")

	var gotKey, gotContentType string
	orig := putObject
	putObject = func(ctx context.Context, c *s3.Client, in *s3.PutObjectInput) (*s3.PutObjectOutput, error) {
		gotKey = *in.Key
		gotContentType = *in.ContentType
		return &s3.PutObjectOutput{}, nil
	}
	defer func() { putObject = orig }()

	if _, err := relay.Upload(context.Background(), staged, KindPDF); err != nil {
		t.Fatalf("Upload error: %v", err)
	}
	if !strings.HasPrefix(gotKey, "books/") {
		t.Fatalf("pdf should land under books/, got %q", gotKey)
	}
	if gotContentType != "application/pdf" {
		t.Fatalf("unexpected content type: %q", gotContentType)
	}
}

func TestUpload_Failure_StillDeletesStagedFile(t *testing.T) {
	relay := newTestRelay(t)
	staged := stageFile(t, "cover.jpg")

	orig := putObject
	putObject = func(ctx context.Context, c *s3.Client, in *s3.PutObjectInput) (*s3.PutObjectOutput, error) {
		return nil, errors.New("store unavailable")
	}
	defer func() { putObject = orig }()

	if _, err := relay.Upload(context.Background(), staged, KindImage); err == nil {
		t.Fatal("expected upload error")
	}

	if _, err := os.Stat(staged); !os.IsNotExist(err) {
		t.Fatal("staged file should be deleted after a failed upload")
	}
}

func TestUpload_MissingStagedFile(t *testing.T) {
	relay := newTestRelay(t)

	if _, err := relay.Upload(context.Background(), "/nonexistent/file.png", KindImage); err == nil {
		t.Fatal("expected error for missing staged file")
	}
}

func TestRemove_UsesPersistedKey(t *testing.T) {
	relay := newTestRelay(t)

	var gotKey string
	orig := deleteObject
	deleteObject = func(ctx context.Context, c *s3.Client, in *s3.DeleteObjectInput) (*s3.DeleteObjectOutput, error) {
		gotKey = *in.Key
		return &s3.DeleteObjectOutput{}, nil
	}
	defer func() { deleteObject = orig }()

	ref := models.AssetRef{
		URL:        "http://127.0.0.1:9000/elib-assets/covers/2026/08/30/x.png",
		StorageKey: "covers/2026/08/30/x.png",
	}
	if err := relay.Remove(context.Background(), ref, KindImage); err != nil {
		t.Fatalf("Remove error: %v", err)
	}
	if gotKey != ref.StorageKey {
		t.Fatalf("unexpected key: %q", gotKey)
	}
}

func TestRemove_DerivesKeyFromLegacyURL(t *testing.T) {
	relay := newTestRelay(t)

	var gotKey string
	orig := deleteObject
	deleteObject = func(ctx context.Context, c *s3.Client, in *s3.DeleteObjectInput) (*s3.DeleteObjectOutput, error) {
		gotKey = *in.Key
		return &s3.DeleteObjectOutput{}, nil
	}
	defer func() { deleteObject = orig }()

	ref := models.AssetRef{URL: "http://127.0.0.1:9000/elib-assets/books/2026/08/30/y.pdf"}
	if err := relay.Remove(context.Background(), ref, KindPDF); err != nil {
		t.Fatalf("Remove error: %v", err)
	}
	if gotKey != "books/2026/08/30/y.pdf" {
		t.Fatalf("unexpected derived key: %q", gotKey)
	}
}

func TestRemove_EmptyRefIsNoop(t *testing.T) {
	relay := newTestRelay(t)

	called := false
	orig := deleteObject
	deleteObject = func(ctx context.Context, c *s3.Client, in *s3.DeleteObjectInput) (*s3.DeleteObjectOutput, error) {
		called = true
		return &s3.DeleteObjectOutput{}, nil
	}
	defer func() { deleteObject = orig }()

	if err := relay.Remove(context.Background(), models.AssetRef{}, KindImage); err != nil {
		t.Fatalf("Remove error: %v", err)
	}
	if called {
		t.Fatal("delete should not be called for an empty reference")
	}
}

func TestDeriveStorageKey(t *testing.T) {
	tests := []struct {
		name string
		url  string
		want string
	}{
		{"normal", "http://127.0.0.1:9000/elib-assets/covers/2026/08/30/x.png", "covers/2026/08/30/x.png"},
		{"no key", "http://127.0.0.1:9000/elib-assets", ""},
		{"empty", "", ""},
		{"garbage", "://nope", ""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := DeriveStorageKey(tc.url); got != tc.want {
				t.Fatalf("DeriveStorageKey(%q) = %q, want %q", tc.url, got, tc.want)
			}
		})
	}
}
