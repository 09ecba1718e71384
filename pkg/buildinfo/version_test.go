package buildinfo

import (
	"runtime/debug"
	"testing"

	"github.com/stretchr/testify/assert"
)

func stamp(t *testing.T, version, commit, date string) {
	t.Helper()
	v, c, d := Version, Commit, Date
	Version, Commit, Date = version, commit, date
	t.Cleanup(func() { Version, Commit, Date = v, c, d })
}

func TestFillFrom(t *testing.T) {
	info := &debug.BuildInfo{
		Main: debug.Module{Version: "v0.3.0"},
		Settings: []debug.BuildSetting{
			{Key: "vcs.revision", Value: "abc123"},
			{Key: "vcs.time", Value: "2026-01-02T03:04:05Z"},
		},
	}

	t.Run("unset", func(t *testing.T) {
		stamp(t, "dev", "none", "unknown")
		fillFrom(info)
		assert.Equal(t, "v0.3.0", Version)
		assert.Equal(t, "abc123", Commit)
		assert.Equal(t, "2026-01-02T03:04:05Z", Date)
	})

	t.Run("ldflags win", func(t *testing.T) {
		stamp(t, "v1.0.0", "fff", "today")
		fillFrom(info)
		assert.Equal(t, "v1.0.0", Version)
		assert.Equal(t, "fff", Commit)
		assert.Equal(t, "today", Date)
	})

	t.Run("devel", func(t *testing.T) {
		stamp(t, "dev", "none", "unknown")
		fillFrom(&debug.BuildInfo{Main: debug.Module{Version: "(devel)"}})
		assert.Equal(t, "dev", Version)
	})
}

func TestTemplate(t *testing.T) {
	stamp(t, "v1.2.3", "abc", "now")
	assert.Equal(t, "{{.Name}} version v1.2.3\ncommit: abc\nbuilt: now\n", Template())
	assert.Equal(t, "version: v1.2.3\ncommit: abc\nbuilt: now", String())
}
