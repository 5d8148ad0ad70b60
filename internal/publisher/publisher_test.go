package publisher

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/guscaldeira/teste-tecnico-intuitive-care/internal/config"
)

type memoryWriter struct {
	bytes.Buffer
	closeErr error
	onClose  func(*memoryWriter)
}

func (w *memoryWriter) Close() error {
	if w.closeErr == nil && w.onClose != nil {
		w.onClose(w)
	}
	return w.closeErr
}

type memoryStore struct {
	objects  map[string][]byte
	closeErr error
	closed   bool
}

func (s *memoryStore) NewWriter(_ context.Context, bucket, object string) io.WriteCloser {
	return &memoryWriter{
		closeErr: s.closeErr,
		onClose: func(w *memoryWriter) {
			s.objects[bucket+"/"+object] = w.Bytes()
		},
	}
}

func (s *memoryStore) Close() error {
	s.closed = true
	return nil
}

func newTestPublisher(cfg config.PublishConfig, store *memoryStore) *GCSPublisher {
	p := NewGCSPublisher(cfg, nil)
	p.newStore = func(context.Context) (objectStore, error) { return store, nil }
	return p
}

func writeArtifact(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "consolidado_despesas.zip")
	require.NoError(t, os.WriteFile(path, []byte("PK-artifact"), 0644))
	return path
}

func TestGCSPublisher_Publish(t *testing.T) {
	store := &memoryStore{objects: map[string][]byte{}}
	p := newTestPublisher(config.PublishConfig{Bucket: "ans-etl", Prefix: "/consolidated/"}, store)

	uri, err := p.Publish(context.Background(), writeArtifact(t))
	require.NoError(t, err)

	assert.Equal(t, "gs://ans-etl/consolidated/consolidado_despesas.zip", uri)
	assert.Equal(t, []byte("PK-artifact"), store.objects["ans-etl/consolidated/consolidado_despesas.zip"])
	assert.True(t, store.closed)
}

func TestGCSPublisher_Failures(t *testing.T) {
	t.Run("missing artifact", func(t *testing.T) {
		p := newTestPublisher(config.PublishConfig{Bucket: "b"}, &memoryStore{objects: map[string][]byte{}})
		_, err := p.Publish(context.Background(), filepath.Join(t.TempDir(), "missing.zip"))
		assert.Error(t, err)
	})

	t.Run("not an archive", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "consolidado.csv")
		require.NoError(t, os.WriteFile(path, []byte("CNPJ"), 0644))

		store := &memoryStore{objects: map[string][]byte{}}
		p := newTestPublisher(config.PublishConfig{Bucket: "b"}, store)
		_, err := p.Publish(context.Background(), path)
		assert.Error(t, err)
		assert.Empty(t, store.objects)
	})

	t.Run("client error", func(t *testing.T) {
		p := NewGCSPublisher(config.PublishConfig{Bucket: "b"}, nil)
		p.newStore = func(context.Context) (objectStore, error) { return nil, errors.New("no credentials") }
		_, err := p.Publish(context.Background(), writeArtifact(t))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "no credentials")
	})

	t.Run("finalize error", func(t *testing.T) {
		store := &memoryStore{objects: map[string][]byte{}, closeErr: errors.New("precondition failed")}
		p := newTestPublisher(config.PublishConfig{Bucket: "b"}, store)
		_, err := p.Publish(context.Background(), writeArtifact(t))
		require.Error(t, err)
		assert.Empty(t, store.objects)
	})
}

func TestGCSPublisher_ObjectName(t *testing.T) {
	tests := []struct {
		prefix string
		want   string
	}{
		{"", "out.zip"},
		{"etl", "etl/out.zip"},
		{"/etl/2025/", "etl/2025/out.zip"},
	}
	for _, tt := range tests {
		p := NewGCSPublisher(config.PublishConfig{Bucket: "b", Prefix: tt.prefix}, nil)
		assert.Equal(t, tt.want, p.ObjectName("/tmp/out.zip"))
	}
}

func TestNew(t *testing.T) {
	assert.IsType(t, Noop{}, New(config.PublishConfig{}, nil))
	assert.IsType(t, &GCSPublisher{}, New(config.PublishConfig{Bucket: "b"}, nil))

	loc, err := Noop{}.Publish(context.Background(), "/tmp/out.zip")
	require.NoError(t, err)
	assert.Equal(t, "/tmp/out.zip", loc)
}

func TestClientOptions(t *testing.T) {
	assert.Empty(t, ClientOptions(config.PublishConfig{Bucket: "b"}))
	assert.Len(t, ClientOptions(config.PublishConfig{CredentialsFile: "/etc/sa.json"}), 1)
	assert.Len(t, ClientOptions(config.PublishConfig{
		Endpoint:        "http://localhost:4443/storage/v1/",
		CredentialsFile: "/etc/sa.json",
	}), 2, "an emulator endpoint ignores credentials")
}
