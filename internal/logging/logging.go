package logging

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

var (
	mu      sync.Mutex
	logFile *os.File
	debug   bool
)

// Init sends the standard logger to stdout and, when logPath is set, appends to that file too.
func Init(logPath string) error {
	mu.Lock()
	defer mu.Unlock()

	if logFile != nil {
		_ = logFile.Close()
		logFile = nil
	}

	var writers []io.Writer
	writers = append(writers, os.Stdout)

	if logPath != "" {
		if dir := filepath.Dir(logPath); dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return err
			}
		}
		file, err := os.OpenFile(logPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return err
		}
		logFile = file
		writers = append(writers, logFile)
	}

	log.SetOutput(io.MultiWriter(writers...))
	return nil
}

func Close() error {
	mu.Lock()
	defer mu.Unlock()
	if logFile == nil {
		return nil
	}
	log.SetOutput(os.Stderr)
	err := logFile.Close()
	logFile = nil
	return err
}

// SetDebug toggles LogDebug output.
func SetDebug(enabled bool) {
	mu.Lock()
	debug = enabled
	mu.Unlock()
}

func debugEnabled() bool {
	mu.Lock()
	defer mu.Unlock()
	return debug
}

func LogEvent(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	log.Println(msg)
}

// LogDebug is LogEvent gated on debug mode.
func LogDebug(format string, args ...any) {
	if !debugEnabled() {
		return
	}
	log.Println("[DEBUG] " + fmt.Sprintf(format, args...))
}

// RunFields identifies the benchmark run a log line belongs to.
type RunFields struct {
	SweepID       string
	Group         string
	Configuration string
	Level         string
}

func LogRun(event string, fields RunFields, payload any) {
	msg := buildRunMessage(event, fields, payload)
	log.Println(msg)
}

func buildRunMessage(event string, fields RunFields, payload any) string {
	ev := strings.ToUpper(strings.TrimSpace(event))
	if ev == "" {
		ev = "RUN"
	}
	group := strings.TrimSpace(fields.Group)
	if group == "" {
		group = "unknown"
	}
	config := strings.TrimSpace(fields.Configuration)
	level := strings.TrimSpace(fields.Level)
	parts := []string{fmt.Sprintf("[%s]", ev)}
	if id := strings.TrimSpace(fields.SweepID); id != "" {
		parts = append(parts, fmt.Sprintf("sweep=%s", id))
	}
	parts = append(parts, fmt.Sprintf("group=%s", group))
	// An empty configuration is the baseline only on a run; group events have none.
	switch {
	case config != "":
		parts = append(parts, fmt.Sprintf("config=%s", config))
	case level != "":
		parts = append(parts, "config=(baseline)")
	}
	if level != "" {
		parts = append(parts, fmt.Sprintf("level=%s", level))
	}
	if payload != nil {
		parts = append(parts, fmt.Sprintf("payload=%s", formatPayload(payload)))
	}
	return strings.Join(parts, " ")
}

func formatPayload(payload any) string {
	switch v := payload.(type) {
	case nil:
		return "null"
	case string:
		if strings.TrimSpace(v) == "" {
			return `""`
		}
		return v
	case []byte:
		if len(v) == 0 {
			return "[]"
		}
		return string(v)
	case fmt.Stringer:
		return v.String()
	case error:
		return v.Error()
	default:
		data, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprintf("%v", v)
		}
		return string(data)
	}
}
