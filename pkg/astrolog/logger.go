package astrolog

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gopkg.in/natefinch/lumberjack.v2"
)

const timeLayout = "2006-01-02 15:04:05.000"

var mu sync.Mutex

// Config controls where batch runs log to.
type Config struct {
	Level       string
	ToFile      bool
	Dir         string // defaults to ./logs
	FileName    string // prefix; the date is appended
	Formatted   bool   // human-readable file lines instead of JSON
	MaxFileSize int    // megabytes before lumberjack rotates
	MaxFiles    int    // oldest *.log files in Dir beyond this are removed
	Console     io.Writer
	NoColor     bool
}

// =============================
// Console Writer
// =============================

// ConsoleWriterWithLevel adapts zerolog.ConsoleWriter to zerolog.LevelWriter.
type ConsoleWriterWithLevel struct {
	zerolog.ConsoleWriter
}

// WriteLevel reports len(p) back to zerolog: the console output is a
// different length than the JSON it was rendered from, and returning that
// length makes zerolog fail with "short write".
func (c ConsoleWriterWithLevel) WriteLevel(_ zerolog.Level, p []byte) (int, error) {
	_, err := c.ConsoleWriter.Write(p)
	return len(p), err
}

// =============================
// File Writer
// =============================

// FileWriterWithLevel writes to a rotating lumberjack file, optionally
// reformatting each JSON entry into a single readable line.
type FileWriterWithLevel struct {
	*lumberjack.Logger
	Formatted bool
}

func (f FileWriterWithLevel) WriteLevel(level zerolog.Level, p []byte) (int, error) {
	if !f.Formatted {
		return f.Logger.Write(p)
	}
	formatted, err := formatLogEntry(level, p)
	if err != nil {
		return f.Logger.Write(p)
	}
	_, err = f.Logger.Write([]byte(formatted))
	return len(p), err
}

// =============================
// Formatting Helpers
// =============================

// formatLogEntry turns a zerolog JSON entry into
// "time | level | caller | message | k=v ...".
func formatLogEntry(level zerolog.Level, p []byte) (string, error) {
	var entry map[string]interface{}
	if err := json.Unmarshal(p, &entry); err != nil {
		return "", err
	}

	timestamp, _ := entry[zerolog.TimestampFieldName].(string)
	message, _ := entry[zerolog.MessageFieldName].(string)
	caller, _ := entry[zerolog.CallerFieldName].(string)

	return strings.TrimRight(fmt.Sprintf("%s | %-5s | %-25s | %s | %s",
		timestamp,
		level.String(),
		caller,
		message,
		strings.Join(collectExtraFields(entry), " "),
	), " ") + "\n", nil
}

// stripCallerPath turns "pkg/sub/file.go" into "file".
func stripCallerPath(file string) string {
	if file == "" {
		return file
	}
	base := filepath.Base(filepath.ToSlash(file))
	return strings.TrimSuffix(base, ".go")
}

// collectExtraFields returns sorted key=value pairs beyond the standard fields.
func collectExtraFields(entry map[string]interface{}) []string {
	standard := map[string]bool{
		zerolog.TimestampFieldName: true,
		zerolog.MessageFieldName:   true,
		zerolog.LevelFieldName:     true,
		zerolog.CallerFieldName:    true,
	}
	var extras []string
	for k, v := range entry {
		if !standard[k] {
			extras = append(extras, fmt.Sprintf("%s=%v", k, v))
		}
	}
	sort.Strings(extras)
	return extras
}

// =============================
// Run Separator
// =============================

// writeRunSeparator marks the start of a batch run in the log file.
func writeRunSeparator(w io.Writer, now time.Time) {
	started := fmt.Sprintf("  Started : %s", now.Format("2006-01-02 15:04:05"))
	pid := fmt.Sprintf("  PID     : %d", os.Getpid())

	width := 50
	for _, l := range []string{started, pid} {
		if len(l)+4 > width {
			width = len(l) + 4
		}
	}

	row := func(s string) string { return "│" + fmt.Sprintf("%-*s", width, s) + "│" }
	bar := strings.Repeat("─", width)

	banner := strings.Join([]string{
		"",
		"┌" + bar + "┐",
		row("  ▶  MBR BATCH STARTED"),
		"├" + bar + "┤",
		row(started),
		row(pid),
		"└" + bar + "┘",
		"",
		"",
	}, "\n")

	_, _ = io.WriteString(w, banner)
}

// =============================
// File Cleanup
// =============================

// deleteOldLogFiles keeps only the newest maxFiles *.log files in logDir.
func deleteOldLogFiles(logDir string, maxFiles int) error {
	if maxFiles <= 0 {
		return nil
	}
	entries, err := os.ReadDir(logDir)
	if err != nil {
		return err
	}

	type logFile struct {
		name string
		mod  time.Time
	}
	var files []logFile
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".log") {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		files = append(files, logFile{name: entry.Name(), mod: info.ModTime()})
	}

	if len(files) <= maxFiles {
		return nil
	}

	sort.Slice(files, func(i, j int) bool { return files[i].mod.Before(files[j].mod) })

	for _, f := range files[:len(files)-maxFiles] {
		if err := os.Remove(filepath.Join(logDir, f.name)); err != nil {
			log.Err(err).Str("file", f.name).Msg("failed to delete old log file")
		}
	}
	return nil
}

// =============================
// Init Logger
// =============================

// InitLogger builds a logger from cfg, installs it as the zerolog global and
// returns it.
func InitLogger(cfg Config) zerolog.Logger {
	zerolog.TimeFieldFormat = timeLayout
	zerolog.CallerMarshalFunc = func(_ uintptr, file string, line int) string {
		return fmt.Sprintf("%s:%d", stripCallerPath(file), line)
	}

	writers := []io.Writer{buildConsoleWriter(cfg)}

	if cfg.ToFile {
		if fw := buildFileWriter(cfg); fw != nil {
			writers = append(writers, fw)
		}
	}

	logger := zerolog.New(zerolog.MultiLevelWriter(writers...)).
		With().
		Timestamp().
		Caller().
		Logger()

	mu.Lock()
	log.Logger = logger
	mu.Unlock()

	UpdateLogLevel(cfg.Level)
	return logger
}

func buildConsoleWriter(cfg Config) ConsoleWriterWithLevel {
	out := cfg.Console
	if out == nil {
		out = os.Stderr
	}
	cw := zerolog.ConsoleWriter{
		Out:        out,
		TimeFormat: timeLayout,
		NoColor:    cfg.NoColor,
	}
	if !cfg.NoColor {
		cw.FormatCaller = func(i interface{}) string {
			caller, _ := i.(string)
			return "\033[34m" + caller + "\033[0m"
		}
	}
	return ConsoleWriterWithLevel{ConsoleWriter: cw}
}

// buildFileWriter returns nil when the log directory cannot be created.
// One file per day: later runs on the same date append to it.
func buildFileWriter(cfg Config) *FileWriterWithLevel {
	logDir := cfg.Dir
	if logDir == "" {
		logDir = "./logs"
	}
	if err := os.MkdirAll(logDir, 0o755); err != nil {
		log.Err(err).Str("dir", logDir).Msg("failed to create log directory")
		return nil
	}

	if err := deleteOldLogFiles(logDir, cfg.MaxFiles); err != nil {
		log.Err(err).Str("dir", logDir).Msg("failed to clean old log files")
	}

	name := cfg.FileName
	if name == "" {
		name = "astrombr"
	}
	suffix := "_json"
	if cfg.Formatted {
		suffix = ""
	}

	lj := &lumberjack.Logger{
		Filename:   filepath.Join(logDir, fmt.Sprintf("%s_%s%s.log", name, time.Now().Format("02-01-2006"), suffix)),
		MaxSize:    cfg.MaxFileSize,
		MaxBackups: 3,
		MaxAge:     30,
	}

	writeRunSeparator(lj, time.Now())

	return &FileWriterWithLevel{
		Logger:    lj,
		Formatted: cfg.Formatted,
	}
}

// =============================
// Log Level
// =============================

// GetLogger returns the current global logger.
func GetLogger() zerolog.Logger {
	mu.Lock()
	defer mu.Unlock()
	return log.Logger
}

// UpdateLogLevel sets the global level from a name such as "debug" or
// "warn". Unknown names fall back to info.
func UpdateLogLevel(level string) {
	parsed, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil || level == "" {
		parsed = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(parsed)
}
