package modelstore

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

func TestIsRemote(t *testing.T) {
	tests := []struct {
		ref  string
		want bool
	}{
		{"gs://bucket/model.xml", true},
		{"/var/models/model.xml", false},
		{"model.xml", false},
		{"gs://", true},
	}
	for _, tt := range tests {
		if got := IsRemote(tt.ref); got != tt.want {
			t.Errorf("IsRemote(%q) = %v, want %v", tt.ref, got, tt.want)
		}
	}
}

func TestSplitGCS(t *testing.T) {
	bucket, key, err := splitGCS("gs://models/resnet/v2/model.xml")
	if err != nil {
		t.Fatalf("splitGCS failed: %v", err)
	}
	if bucket != "models" || key != "resnet/v2/model.xml" {
		t.Errorf("got %q, %q", bucket, key)
	}

	for _, bad := range []string{"gs://", "gs://bucket", "gs://bucket/", "gs:///key"} {
		if _, _, err := splitGCS(bad); err == nil {
			t.Errorf("splitGCS(%q) expected error", bad)
		}
	}
}

func TestResolveLocal(t *testing.T) {
	dir := t.TempDir()
	xml := filepath.Join(dir, "model.xml")
	bin := filepath.Join(dir, "model.bin")
	for _, p := range []string{xml, bin} {
		if err := os.WriteFile(p, []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	s, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	pair, err := s.Resolve(t.Context(), xml, bin)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if pair.XML != xml || pair.Bin != bin {
		t.Errorf("got %+v", pair)
	}
}

func TestResolveLocalMissing(t *testing.T) {
	s, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	missing := filepath.Join(t.TempDir(), "nope.xml")
	if _, err := s.Resolve(t.Context(), missing, missing); err == nil {
		t.Error("expected error for missing local file")
	}
}

func TestResolveRemoteCacheHit(t *testing.T) {
	cache := t.TempDir()
	s, err := New(cache)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	// Pre-seed the cache so no network fetch happens.
	for _, key := range []string{"resnet/model.xml", "resnet/model.bin"} {
		p := s.cachePath("models", key)
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(p, []byte("cached"), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	pair, err := s.Resolve(t.Context(), "gs://models/resnet/model.xml", "gs://models/resnet/model.bin")
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if pair.XML != s.cachePath("models", "resnet/model.xml") {
		t.Errorf("XML path = %q", pair.XML)
	}
	got, err := os.ReadFile(pair.Bin)
	if err != nil || string(got) != "cached" {
		t.Errorf("cached content = %q, %v", got, err)
	}
}

func TestWriteToFile(t *testing.T) {
	dir := t.TempDir()
	dest := filepath.Join(dir, "out.bin")
	payload := []byte("model weights")

	n, err := writeToFile(bytes.NewReader(payload), dest)
	if err != nil {
		t.Fatalf("writeToFile failed: %v", err)
	}
	if n != int64(len(payload)) {
		t.Errorf("wrote %d bytes, want %d", n, len(payload))
	}
	got, err := os.ReadFile(dest)
	if err != nil || !bytes.Equal(got, payload) {
		t.Errorf("content = %q, %v", got, err)
	}

	// No temp file debris.
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Errorf("expected only the destination file, found %d entries", len(entries))
	}
}
