package publisher

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"

	"github.com/guscaldeira/teste-tecnico-intuitive-care/internal/config"
	apperrors "github.com/guscaldeira/teste-tecnico-intuitive-care/internal/errors"
	"github.com/guscaldeira/teste-tecnico-intuitive-care/internal/infrastructure"
	"github.com/guscaldeira/teste-tecnico-intuitive-care/internal/validation"
)

const uploadTimeout = 2 * time.Minute

// Publisher uploads the packaged artifact and returns where it landed
type Publisher interface {
	Publish(ctx context.Context, localPath string) (string, error)
}

// New returns a GCS publisher when a bucket is configured and a no-op otherwise
func New(cfg config.PublishConfig, logger *slog.Logger) Publisher {
	if !cfg.Enabled() {
		return Noop{}
	}
	return NewGCSPublisher(cfg, logger)
}

// Noop publishes nothing
type Noop struct{}

// Publish returns the local path unchanged
func (Noop) Publish(_ context.Context, localPath string) (string, error) {
	return localPath, nil
}

// objectStore is the slice of the storage client the publisher needs
type objectStore interface {
	NewWriter(ctx context.Context, bucket, object string) io.WriteCloser
	Close() error
}

type gcsStore struct {
	client *storage.Client
}

func (s *gcsStore) NewWriter(ctx context.Context, bucket, object string) io.WriteCloser {
	w := s.client.Bucket(bucket).Object(object).NewWriter(ctx)
	w.ContentType = "application/zip"
	return w
}

func (s *gcsStore) Close() error {
	return s.client.Close()
}

// ClientOptions maps the publish settings onto storage client options.
// A custom endpoint (an emulator such as fake-gcs-server) is used without
// authentication; otherwise a credentials file overrides Application Default
// Credentials.
func ClientOptions(cfg config.PublishConfig) []option.ClientOption {
	var opts []option.ClientOption
	if cfg.Endpoint != "" {
		opts = append(opts, option.WithEndpoint(cfg.Endpoint), option.WithoutAuthentication())
		return opts
	}
	if cfg.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	}
	return opts
}

// GCSPublisher uploads to a Google Cloud Storage bucket
type GCSPublisher struct {
	bucket    string
	prefix    string
	logger    *slog.Logger
	validator *validation.FileValidator
	newStore  func(ctx context.Context) (objectStore, error)
}

// NewGCSPublisher creates a publisher for cfg.Bucket
func NewGCSPublisher(cfg config.PublishConfig, logger *slog.Logger) *GCSPublisher {
	logger = infrastructure.WithComponent(logger, "publisher")
	opts := ClientOptions(cfg)
	return &GCSPublisher{
		bucket:    cfg.Bucket,
		prefix:    cfg.Prefix,
		logger:    logger,
		validator: validation.NewFileValidator(logger),
		newStore: func(ctx context.Context) (objectStore, error) {
			client, err := storage.NewClient(ctx, opts...)
			if err != nil {
				return nil, err
			}
			return &gcsStore{client: client}, nil
		},
	}
}

// ObjectName returns the object key used for localPath
func (p *GCSPublisher) ObjectName(localPath string) string {
	name := filepath.Base(localPath)
	prefix := strings.Trim(p.prefix, "/")
	if prefix == "" {
		return name
	}
	return path.Join(prefix, name)
}

// Publish uploads localPath and returns its gs:// URI
func (p *GCSPublisher) Publish(ctx context.Context, localPath string) (string, error) {
	if err := p.validator.ValidateArchiveFile(localPath); err != nil {
		return "", apperrors.NewStorageError("invalid artifact", err).WithContext("path", localPath)
	}

	f, err := os.Open(localPath)
	if err != nil {
		return "", apperrors.NewStorageError("failed to open artifact", err).WithContext("path", localPath)
	}
	defer f.Close()

	store, err := p.newStore(ctx)
	if err != nil {
		return "", apperrors.NewStorageError("failed to create storage client", err)
	}
	defer store.Close()

	ctx, cancel := context.WithTimeout(ctx, uploadTimeout)
	defer cancel()

	object := p.ObjectName(localPath)
	w := store.NewWriter(ctx, p.bucket, object)

	n, err := io.Copy(w, f)
	if err != nil {
		w.Close()
		return "", apperrors.NewStorageError("failed to upload artifact", err).WithContext("object", object)
	}
	if err := w.Close(); err != nil {
		return "", apperrors.NewStorageError("failed to finalize upload", err).WithContext("object", object)
	}

	uri := fmt.Sprintf("gs://%s/%s", p.bucket, object)
	p.logger.InfoContext(ctx, "Artifact published",
		slog.String("uri", uri),
		slog.Int64("size_bytes", n))
	return uri, nil
}
