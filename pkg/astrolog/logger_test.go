package astrolog

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStripCallerPath(t *testing.T) {
	assert.Equal(t, "reduce", stripCallerPath("pkg/astrogeom/reduce.go"))
	assert.Equal(t, "main", stripCallerPath("main.go"))
	assert.Equal(t, "", stripCallerPath(""))
}

func TestFormatLogEntry(t *testing.T) {
	p := []byte(`{"level":"warn","time":"2026-01-02 03:04:05.678","caller":"batch:42","message":"case failed","case":3,"error":"boom"}`)

	line, err := formatLogEntry(zerolog.WarnLevel, p)
	require.NoError(t, err)
	assert.Equal(t, "2026-01-02 03:04:05.678 | warn  | batch:42                  | case failed | case=3 error=boom\n", line)

	_, err = formatLogEntry(zerolog.InfoLevel, []byte("not json"))
	assert.Error(t, err)
}

func TestWriteRunSeparator(t *testing.T) {
	var buf bytes.Buffer
	writeRunSeparator(&buf, time.Date(2026, 10, 19, 8, 30, 0, 0, time.UTC))

	out := buf.String()
	assert.Contains(t, out, "MBR BATCH STARTED")
	assert.Contains(t, out, "Started : 2026-10-19 08:30:00")
	assert.True(t, strings.HasSuffix(out, "\n\n"))
}

func TestDeleteOldLogFiles(t *testing.T) {
	dir := t.TempDir()
	base := time.Now().Add(-time.Hour)
	for i, name := range []string{"a.log", "b.log", "c.log", "keep.txt"} {
		path := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(path, []byte(name), 0o644))
		mod := base.Add(time.Duration(i) * time.Minute)
		require.NoError(t, os.Chtimes(path, mod, mod))
	}

	require.NoError(t, deleteOldLogFiles(dir, 2))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	assert.ElementsMatch(t, []string{"b.log", "c.log", "keep.txt"}, names)

	assert.NoError(t, deleteOldLogFiles(dir, 0))
}

func TestUpdateLogLevel(t *testing.T) {
	t.Cleanup(func() { zerolog.SetGlobalLevel(zerolog.InfoLevel) })

	UpdateLogLevel("DEBUG")
	assert.Equal(t, zerolog.DebugLevel, zerolog.GlobalLevel())

	UpdateLogLevel("warn")
	assert.Equal(t, zerolog.WarnLevel, zerolog.GlobalLevel())

	UpdateLogLevel("chatty")
	assert.Equal(t, zerolog.InfoLevel, zerolog.GlobalLevel())

	UpdateLogLevel("")
	assert.Equal(t, zerolog.InfoLevel, zerolog.GlobalLevel())
}

func TestInitLoggerWritesConsoleAndFile(t *testing.T) {
	t.Cleanup(func() { zerolog.SetGlobalLevel(zerolog.InfoLevel) })

	var console bytes.Buffer
	dir := t.TempDir()
	logger := InitLogger(Config{
		Level:     "debug",
		ToFile:    true,
		Dir:       dir,
		FileName:  "test",
		Formatted: true,
		Console:   &console,
		NoColor:   true,
	})

	logger.Debug().Int("shapes", 3).Msg("case reduced")

	assert.Contains(t, console.String(), "case reduced")
	assert.Contains(t, console.String(), "shapes=3")

	matches, err := filepath.Glob(filepath.Join(dir, "test_*.log"))
	require.NoError(t, err)
	require.Len(t, matches, 1)

	data, err := os.ReadFile(matches[0])
	require.NoError(t, err)
	assert.Contains(t, string(data), "MBR BATCH STARTED")
	assert.Contains(t, string(data), "| debug | ")
	assert.Contains(t, string(data), "case reduced | shapes=3")

	global := GetLogger()
	assert.Equal(t, logger.GetLevel(), global.GetLevel())
}
