package cache

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNullCache(t *testing.T) {
	ctx := context.Background()
	c := NewNullCache()
	defer c.Close()

	require.NoError(t, c.Set(ctx, "key", []byte("value"), time.Hour))
	data, hit, err := c.Get(ctx, "key")
	require.NoError(t, err)
	assert.False(t, hit, "NullCache never stores data")
	assert.Nil(t, data)
	assert.NoError(t, c.Delete(ctx, "key"))
}

func TestFileCache(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(filepath.Join(t.TempDir(), "nested", "cache"))
	require.NoError(t, err)

	_, hit, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, hit)

	require.NoError(t, c.Set(ctx, "k", []byte("<svg/>"), time.Hour))
	data, hit, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, []byte("<svg/>"), data)

	require.NoError(t, c.Delete(ctx, "k"))
	_, hit, _ = c.Get(ctx, "k")
	assert.False(t, hit)
	assert.NoError(t, c.Delete(ctx, "k"), "deleting a missing key is fine")
}

func TestFileCacheExpiry(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, c.Set(ctx, "old", []byte("x"), time.Nanosecond))
	time.Sleep(5 * time.Millisecond)
	_, hit, err := c.Get(ctx, "old")
	require.NoError(t, err)
	assert.False(t, hit)
	_, statErr := os.Stat(c.path("old"))
	assert.True(t, os.IsNotExist(statErr), "expired entry is removed")

	require.NoError(t, c.Set(ctx, "forever", []byte("x"), 0))
	_, hit, _ = c.Get(ctx, "forever")
	assert.True(t, hit)
}

func TestFileCacheCorruptEntry(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	require.NoError(t, err)

	path := c.path("bad")
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	_, hit, err := c.Get(ctx, "bad")
	require.NoError(t, err)
	assert.False(t, hit)
}

func TestFileCacheClear(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	c, err := NewFileCache(dir)
	require.NoError(t, err)

	for _, k := range []string{"a", "b", "c"} {
		require.NoError(t, c.Set(ctx, k, []byte(k), 0))
	}
	require.NoError(t, os.WriteFile(filepath.Join(dir, "keep.txt"), nil, 0o644))

	n, err := c.Clear()
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	_, hit, _ := c.Get(ctx, "a")
	assert.False(t, hit)
	assert.FileExists(t, filepath.Join(dir, "keep.txt"), "only entry directories are removed")
}

func TestHash(t *testing.T) {
	h1 := Hash([]byte("hello"))
	assert.Equal(t, h1, Hash([]byte("hello")))
	assert.NotEqual(t, h1, Hash([]byte("world")))
	assert.Len(t, h1, 64)
}

func TestArtifactKey(t *testing.T) {
	dot := []byte("digraph G {}")
	svg := ArtifactKey(dot, "svg")

	assert.Equal(t, svg, ArtifactKey(dot, "svg"))
	assert.NotEqual(t, svg, ArtifactKey(dot, "png"))
	assert.NotEqual(t, svg, ArtifactKey([]byte("digraph H {}"), "svg"))
	assert.Regexp(t, `^artifact:[0-9a-f]{64}$`, svg)

	k := NewDefaultKeyer()
	a := k.ArtifactKey(Hash(dot), ArtifactKeyOpts{Format: "svg", Renderer: "exec"})
	b := k.ArtifactKey(Hash(dot), ArtifactKeyOpts{Format: "svg", Renderer: "embedded"})
	assert.NotEqual(t, a, b)
}

func TestScopedKeyer(t *testing.T) {
	scoped := NewScopedKeyer(nil, "dotflow:test:")
	key := scoped.ArtifactKey("abc", ArtifactKeyOpts{Format: "svg"})
	assert.Equal(t, "dotflow:test:"+NewDefaultKeyer().ArtifactKey("abc", ArtifactKeyOpts{Format: "svg"}), key)
}

func TestRetryableError(t *testing.T) {
	assert.Nil(t, Retryable(nil))

	err := Retryable(ErrNetwork)
	require.Error(t, err)
	assert.True(t, IsRetryable(err))
	assert.ErrorIs(t, err, ErrNetwork)
	assert.Equal(t, ErrNetwork.Error(), err.Error())
	assert.False(t, IsRetryable(ErrNetwork))
}

func TestRetryWithBackoff(t *testing.T) {
	old := retryDelay
	retryDelay = time.Millisecond
	t.Cleanup(func() { retryDelay = old })
	ctx := context.Background()

	calls := 0
	require.NoError(t, RetryWithBackoff(ctx, func() error { calls++; return nil }))
	assert.Equal(t, 1, calls)

	permanent := errors.New("permanent")
	calls = 0
	err := RetryWithBackoff(ctx, func() error { calls++; return permanent })
	assert.Same(t, permanent, err)
	assert.Equal(t, 1, calls)

	calls = 0
	err = RetryWithBackoff(ctx, func() error {
		calls++
		if calls < 2 {
			return Retryable(ErrNetwork)
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 2, calls)

	calls = 0
	err = RetryWithBackoff(ctx, func() error { calls++; return Retryable(ErrNetwork) })
	assert.ErrorIs(t, err, ErrNetwork)
	assert.Equal(t, 3, calls)
}

func TestRetryWithBackoffContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := RetryWithBackoff(ctx, func() error { return Retryable(ErrNetwork) })
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNewRedisCacheBadURL(t *testing.T) {
	_, err := NewRedisCache(context.Background(), "not a url")
	assert.Error(t, err)
}

func TestNewRedisCacheUnreachable(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewRedisCache(ctx, "redis://127.0.0.1:1/0")
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

// TestRedisCache runs against a live server when DOTFLOW_TEST_REDIS_URL is set.
func TestRedisCache(t *testing.T) {
	url := os.Getenv("DOTFLOW_TEST_REDIS_URL")
	if url == "" {
		t.Skip("DOTFLOW_TEST_REDIS_URL not set")
	}
	ctx := context.Background()
	c, err := NewRedisCache(ctx, url)
	require.NoError(t, err)
	defer c.Close()

	key := "dotflow:test:" + Hash([]byte(t.Name()))
	t.Cleanup(func() { _ = c.Delete(ctx, key) })

	_, hit, err := c.Get(ctx, key)
	require.NoError(t, err)
	assert.False(t, hit)

	require.NoError(t, c.Set(ctx, key, []byte("png"), time.Minute))
	data, hit, err := c.Get(ctx, key)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, []byte("png"), data)
}
