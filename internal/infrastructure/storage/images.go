// Package storage uploads entry images to Google Cloud Storage.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	gcs "cloud.google.com/go/storage"
	"github.com/google/uuid"
	"google.golang.org/api/option"

	"github.com/oksasatya/go-ddd-diary/internal/domain/apperror"
)

// ErrNotConfigured is returned when no bucket is set up.
var ErrNotConfigured = errors.New("image storage not configured")

// NewClient opens a GCS client from a service-account file, or from
// application default credentials when credsPath is empty.
func NewClient(ctx context.Context, credsPath string) (*gcs.Client, error) {
	var opts []option.ClientOption
	if credsPath != "" {
		opts = append(opts, option.WithCredentialsFile(credsPath))
	}
	c, err := gcs.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("gcs client: %w", err)
	}
	return c, nil
}

// PublicURL is the object's address under public-read bucket access.
func PublicURL(bucket, objectPath string) string {
	return "https://storage.googleapis.com/" + bucket + "/" + objectPath
}

// ErrUnsupportedImage is a client error: only common web image types are stored.
var ErrUnsupportedImage = apperror.InvalidInput("unsupported image type", map[string]string{"image": "must be jpeg, png, gif or webp"})

var allowedTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// ObjectPath returns where an image for ownerID's resource of the given kind
// is stored. The extension follows the content type, not the client's filename.
func ObjectPath(kind, ownerID, contentType string) (string, error) {
	ext, ok := allowedTypes[strings.ToLower(contentType)]
	if !ok {
		return "", ErrUnsupportedImage
	}
	return path.Join(kind, ownerID, uuid.NewString()+ext), nil
}

type GCSImages struct {
	Client *gcs.Client
	Bucket string
}

func NewGCSImages(client *gcs.Client, bucket string) *GCSImages {
	return &GCSImages{Client: client, Bucket: bucket}
}

// Upload stores r and returns its public URL. Objects are immutable (each
// upload gets a fresh name) so they may be cached for a long time.
func (g *GCSImages) Upload(ctx context.Context, kind, ownerID, contentType string, r io.Reader) (string, error) {
	if g == nil || g.Client == nil || g.Bucket == "" {
		return "", ErrNotConfigured
	}
	objectPath, err := ObjectPath(kind, ownerID, contentType)
	if err != nil {
		return "", err
	}

	w := g.Client.Bucket(g.Bucket).Object(objectPath).If(gcs.Conditions{DoesNotExist: true}).NewWriter(ctx)
	w.ContentType = strings.ToLower(contentType)
	w.CacheControl = "public, max-age=31536000, immutable"
	w.Metadata = map[string]string{"owner_id": ownerID, "kind": kind}
	w.ChunkSize = 0 // entry images are capped well below one chunk
	if _, err := io.Copy(w, r); err != nil {
		_ = w.Close()
		return "", fmt.Errorf("upload %s: %w", objectPath, err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("upload %s: %w", objectPath, err)
	}
	return PublicURL(g.Bucket, objectPath), nil
}
