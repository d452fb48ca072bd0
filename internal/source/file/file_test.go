package file

import (
	"compress/gzip"
	"context"
	"os"
	"path/filepath"
	"testing"
)

const dump = `[
  {"id": "a1", "device": {"id": "d1", "name": "Living Room"}, "nickname": "Aircon", "type": "AC", "signals": []},
  {"id": "a2", "device": {"id": "d1", "name": "Living Room"}, "nickname": "TV", "type": "TV", "signals": []}
]`

func TestFileSourceFetch(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "appliances.json")
	if err := os.WriteFile(path, []byte(dump), 0644); err != nil {
		t.Fatal(err)
	}

	source := New(path)
	apps, err := source.FetchAppliances(context.Background())
	if err != nil {
		t.Fatalf("FetchAppliances failed: %v", err)
	}

	if len(apps) != 2 {
		t.Fatalf("Expected 2 appliances, got %d", len(apps))
	}
	if apps[1].Nickname != "TV" {
		t.Errorf("apps[1].Nickname = %q, want TV", apps[1].Nickname)
	}
}

func TestFileSourceGzip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "appliances.json.gz")

	file, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	gz := gzip.NewWriter(file)
	if _, err := gz.Write([]byte(dump)); err != nil {
		t.Fatal(err)
	}
	gz.Close()
	file.Close()

	apps, err := New(path).FetchAppliances(context.Background())
	if err != nil {
		t.Fatalf("FetchAppliances failed: %v", err)
	}
	if len(apps) != 2 {
		t.Errorf("Expected 2 appliances, got %d", len(apps))
	}
}

func TestFileSourceErrors(t *testing.T) {
	dir := t.TempDir()

	t.Run("missing file", func(t *testing.T) {
		_, err := New(filepath.Join(dir, "nope.json")).FetchAppliances(context.Background())
		if err == nil {
			t.Error("Expected error for missing file")
		}
	})

	t.Run("invalid json", func(t *testing.T) {
		path := filepath.Join(dir, "bad.json")
		os.WriteFile(path, []byte("{not json"), 0644)
		_, err := New(path).FetchAppliances(context.Background())
		if err == nil {
			t.Error("Expected decode error")
		}
	})

	t.Run("cancelled context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := New(filepath.Join(dir, "nope.json")).FetchAppliances(ctx)
		if err != context.Canceled {
			t.Errorf("Expected context.Canceled, got %v", err)
		}
	})
}

func TestFileSourceName(t *testing.T) {
	if name := New("x").Name(); name != "file" {
		t.Errorf("Name() = %q, want file", name)
	}
}
