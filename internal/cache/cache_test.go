package cache

import (
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestCache_SetGet(t *testing.T) {
	dir := t.TempDir()
	c, err := New(true, dir, 86400)
	if err != nil {
		t.Fatalf("New error: %v", err)
	}

	key := "https://api.github.com/repos/org/repo"
	value := []byte("HTTP/1.1 200 OK\r\n\r\n{}")

	if _, ok := c.Get(key); ok {
		t.Error("Expected cache miss before set")
	}

	c.Set(key, value)

	got, ok := c.Get(key)
	if !ok {
		t.Fatal("Expected cache hit after set")
	}
	if string(got) != string(value) {
		t.Errorf("Got = %q, want %q", got, value)
	}

	c.Delete(key)
	if _, ok := c.Get(key); ok {
		t.Error("Expected cache miss after delete")
	}
}

func TestCache_TTLExpiration(t *testing.T) {
	dir := t.TempDir()
	c, err := New(true, dir, 60)
	if err != nil {
		t.Fatalf("New error: %v", err)
	}

	key := "expire-test"
	c.Set(key, []byte("data"))
	old := time.Now().Add(-2 * time.Minute)
	if err := os.Chtimes(c.entryPath(key), old, old); err != nil {
		t.Fatal(err)
	}

	stats, err := c.GetStats()
	if err != nil {
		t.Fatalf("GetStats error: %v", err)
	}
	if stats.Expired != 1 {
		t.Errorf("Expired = %d, want 1", stats.Expired)
	}

	if _, ok := c.Get(key); ok {
		t.Error("Expected cache miss after TTL expiration")
	}
	if _, err := os.Stat(c.entryPath(key)); !os.IsNotExist(err) {
		t.Error("Expired entry should be removed on read")
	}
}

func TestCache_Disabled(t *testing.T) {
	c, err := New(false, "", 0)
	if err != nil {
		t.Fatalf("New error: %v", err)
	}
	if c.Enabled() {
		t.Error("Cache should be disabled")
	}

	c.Set("key", []byte("value"))
	if _, ok := c.Get("key"); ok {
		t.Error("Get on disabled cache should always miss")
	}
	if err := c.Clear(); err != nil {
		t.Errorf("Clear on disabled cache should not error: %v", err)
	}

	base := http.DefaultTransport
	if c.Transport(base) != base {
		t.Error("Transport on disabled cache should return base unchanged")
	}
}

func TestCache_Clear(t *testing.T) {
	dir := t.TempDir()
	c, err := New(true, dir, 86400)
	if err != nil {
		t.Fatalf("New error: %v", err)
	}

	c.Set("key1", []byte("value1"))
	c.Set("key2", []byte("value2"))
	if err := os.WriteFile(filepath.Join(dir, "keep.txt"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := c.Clear(); err != nil {
		t.Fatalf("Clear error: %v", err)
	}

	if _, ok := c.Get("key1"); ok {
		t.Error("Expected miss after clear")
	}
	if _, err := os.Stat(filepath.Join(dir, "keep.txt")); err != nil {
		t.Error("Clear should leave non-cache files alone")
	}
}

func TestCache_GetStats(t *testing.T) {
	dir := t.TempDir()
	c, err := New(true, dir, 86400)
	if err != nil {
		t.Fatalf("New error: %v", err)
	}

	c.Set("a", []byte("1"))
	c.Set("b", []byte("22"))

	stats, err := c.GetStats()
	if err != nil {
		t.Fatalf("GetStats error: %v", err)
	}
	if stats.Dir != dir {
		t.Errorf("Dir = %q, want %q", stats.Dir, dir)
	}
	if stats.Entries != 2 {
		t.Errorf("Entries = %d, want 2", stats.Entries)
	}
	if stats.TotalBytes == 0 {
		t.Error("TotalBytes should be non-zero")
	}
	if stats.Expired != 0 {
		t.Errorf("Expired = %d, want 0", stats.Expired)
	}
}

func TestCache_Transport(t *testing.T) {
	hits := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		w.Header().Set("Cache-Control", "private, max-age=3600")
		w.Header().Set("ETag", `"abc"`)
		w.Write([]byte(`{"full_name":"org/repo"}`))
	}))
	defer server.Close()

	c, err := New(true, t.TempDir(), 86400)
	if err != nil {
		t.Fatalf("New error: %v", err)
	}
	client := &http.Client{Transport: c.Transport(server.Client().Transport)}

	for i := 0; i < 2; i++ {
		resp, err := client.Get(server.URL + "/repos/org/repo")
		if err != nil {
			t.Fatalf("GET %d error: %v", i, err)
		}
		body, _ := io.ReadAll(resp.Body)
		resp.Body.Close()
		if string(body) != `{"full_name":"org/repo"}` {
			t.Errorf("body %d = %q", i, body)
		}
		if i == 1 && resp.Header.Get("X-From-Cache") != "1" {
			t.Error("second response should be served from cache")
		}
	}
	if hits != 1 {
		t.Errorf("server hits = %d, want 1", hits)
	}
}

func TestCache_NoTTLKeepsEntries(t *testing.T) {
	c, err := New(true, t.TempDir(), 0)
	if err != nil {
		t.Fatalf("New error: %v", err)
	}
	c.Set("k", []byte("v"))
	old := time.Now().Add(-24 * 365 * time.Hour)
	if err := os.Chtimes(c.entryPath("k"), old, old); err != nil {
		t.Fatal(err)
	}
	if _, ok := c.Get("k"); !ok {
		t.Error("Entry should not expire without a TTL")
	}
}

func TestHashKey(t *testing.T) {
	h1 := HashKey("test")
	h2 := HashKey("test")
	h3 := HashKey("other")

	if h1 != h2 {
		t.Error("Same input should produce same hash")
	}
	if h1 == h3 {
		t.Error("Different input should produce different hash")
	}
	if len(h1) != 64 {
		t.Errorf("Hash length = %d, want 64", len(h1))
	}
}
