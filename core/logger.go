package core

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"
)

// ProductionLogger writes structured logs to an io.Writer. JSON format for
// deployed environments, human-readable text for local development.
// Thread-safe.
type ProductionLogger struct {
	mu     sync.Mutex
	out    io.Writer
	format string // "json" or "text"
	level  int
}

var logLevels = map[string]int{
	"debug": 0,
	"info":  1,
	"warn":  2,
	"error": 3,
}

// NewProductionLogger creates a logger. Level is one of debug, info, warn,
// error; format is "json" or "text". Unknown values fall back to info/json.
func NewProductionLogger(out io.Writer, level, format string) *ProductionLogger {
	if out == nil {
		out = os.Stderr
	}
	lvl, ok := logLevels[strings.ToLower(level)]
	if !ok {
		lvl = logLevels["info"]
	}
	if format != "text" {
		format = "json"
	}
	return &ProductionLogger{out: out, format: format, level: lvl}
}

func (l *ProductionLogger) log(level, msg string, fields map[string]interface{}) {
	if logLevels[level] < l.level {
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if l.format == "text" {
		var b strings.Builder
		fmt.Fprintf(&b, "%s %-5s %s", time.Now().Format(time.RFC3339), strings.ToUpper(level), msg)
		for k, v := range fields {
			fmt.Fprintf(&b, " %s=%v", k, v)
		}
		fmt.Fprintln(l.out, b.String())
		return
	}

	entry := map[string]interface{}{
		"timestamp": time.Now().Format(time.RFC3339Nano),
		"level":     level,
		"message":   msg,
	}
	for k, v := range fields {
		entry[k] = v
	}
	data, err := json.Marshal(entry)
	if err != nil {
		fmt.Fprintf(l.out, `{"level":"error","message":"log marshal failed: %v"}`+"\n", err)
		return
	}
	l.out.Write(append(data, '\n'))
}

func (l *ProductionLogger) Debug(msg string, fields map[string]interface{}) { l.log("debug", msg, fields) }
func (l *ProductionLogger) Info(msg string, fields map[string]interface{})  { l.log("info", msg, fields) }
func (l *ProductionLogger) Warn(msg string, fields map[string]interface{})  { l.log("warn", msg, fields) }
func (l *ProductionLogger) Error(msg string, fields map[string]interface{}) { l.log("error", msg, fields) }
