// Package modelstore resolves a model reference to a local topology/weights
// file pair. Local paths pass through after an existence check; gs:// URLs
// are fetched into a cache directory so the engine can open them from disk.
package modelstore

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"cloud.google.com/go/storage"

	"github.com/23skdu/arbalest/internal/logger"
)

var log = logger.Component("modelstore")

// ModelPair is a resolved, locally readable model.
type ModelPair struct {
	XML string
	Bin string
}

// Store resolves model references. CacheDir holds downloaded remote models;
// it is created on first use.
type Store struct {
	CacheDir string
}

// New returns a store caching remote models under dir. An empty dir falls
// back to the user cache directory.
func New(dir string) (*Store, error) {
	if dir == "" {
		base, err := os.UserCacheDir()
		if err != nil {
			return nil, fmt.Errorf("modelstore: no cache dir: %w", err)
		}
		dir = filepath.Join(base, "arbalest", "models")
	}
	return &Store{CacheDir: dir}, nil
}

// IsRemote reports whether the reference needs a network fetch.
func IsRemote(ref string) bool {
	return strings.HasPrefix(ref, "gs://")
}

// Resolve turns topology and weights references into local paths, fetching
// remote objects into the cache. Both references must use the same scheme.
func (s *Store) Resolve(ctx context.Context, xmlRef, binRef string) (ModelPair, error) {
	xml, err := s.resolveOne(ctx, xmlRef)
	if err != nil {
		return ModelPair{}, err
	}
	bin, err := s.resolveOne(ctx, binRef)
	if err != nil {
		return ModelPair{}, err
	}
	return ModelPair{XML: xml, Bin: bin}, nil
}

func (s *Store) resolveOne(ctx context.Context, ref string) (string, error) {
	if !IsRemote(ref) {
		if _, err := os.Stat(ref); err != nil {
			return "", fmt.Errorf("modelstore: local model file: %w", err)
		}
		return ref, nil
	}
	return s.fetchGCS(ctx, ref)
}

// splitGCS splits "gs://bucket/path/to/object" into bucket and object key.
func splitGCS(ref string) (string, string, error) {
	rest := strings.TrimPrefix(ref, "gs://")
	bucket, key, ok := strings.Cut(rest, "/")
	if !ok || bucket == "" || key == "" {
		return "", "", fmt.Errorf("modelstore: malformed gs reference %q", ref)
	}
	return bucket, key, nil
}

// cachePath maps an object reference onto the cache layout. The key's path
// structure is preserved under a per-bucket directory.
func (s *Store) cachePath(bucket, key string) string {
	return filepath.Join(s.CacheDir, bucket, filepath.FromSlash(key))
}

func (s *Store) fetchGCS(ctx context.Context, ref string) (string, error) {
	bucket, key, err := splitGCS(ref)
	if err != nil {
		return "", err
	}

	dest := s.cachePath(bucket, key)
	if _, err := os.Stat(dest); err == nil {
		log.Debug("model cache hit", "ref", ref, "path", dest)
		return dest, nil
	}
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return "", fmt.Errorf("modelstore: creating cache dir: %w", err)
	}

	client, err := storage.NewClient(ctx)
	if err != nil {
		return "", fmt.Errorf("modelstore: creating storage client: %w", err)
	}
	defer client.Close()

	log.Info("downloading model", "ref", ref, "dest", dest)
	startedAt := time.Now()

	r, err := client.Bucket(bucket).Object(key).NewReader(ctx)
	if err != nil {
		return "", fmt.Errorf("modelstore: opening %q: %w", ref, err)
	}
	defer r.Close()

	n, err := writeToFile(r, dest)
	if err != nil {
		return "", fmt.Errorf("modelstore: downloading %q: %w", ref, err)
	}

	log.Info("downloaded model", "ref", ref, "bytes", n, "duration", time.Since(startedAt))
	return dest, nil
}

// writeToFile streams src into destinationPath through a temp file in the
// same directory, so a partial download never lands at the final path.
func writeToFile(src io.Reader, destinationPath string) (int64, error) {
	dir := filepath.Dir(destinationPath)
	tempFile, err := os.CreateTemp(dir, "download")
	if err != nil {
		return 0, fmt.Errorf("creating temp file: %w", err)
	}

	shouldDeleteTempFile := true
	defer func() {
		if shouldDeleteTempFile {
			if err := os.Remove(tempFile.Name()); err != nil {
				log.Error("removing temp file", "path", tempFile.Name(), "error", err)
			}
		}
	}()

	shouldCloseTempFile := true
	defer func() {
		if shouldCloseTempFile {
			if err := tempFile.Close(); err != nil {
				log.Error("closing temp file", "path", tempFile.Name(), "error", err)
			}
		}
	}()

	n, err := io.Copy(tempFile, src)
	if err != nil {
		return n, fmt.Errorf("copying from source: %w", err)
	}

	if err := tempFile.Close(); err != nil {
		return n, fmt.Errorf("closing temp file: %w", err)
	}
	shouldCloseTempFile = false

	if err := os.Rename(tempFile.Name(), destinationPath); err != nil {
		return n, fmt.Errorf("renaming temp file: %w", err)
	}
	shouldDeleteTempFile = false

	return n, nil
}
