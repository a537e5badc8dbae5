// Package logging provides structured JSON logging. Log lines go to
// stderr: in stdio mode stdout carries MCP JSON-RPC framing and must
// stay clean.
package logging

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// Logger is the structured logging interface used across the server.
type Logger interface {
	Debug(msg string, fields ...interface{})
	Info(msg string, fields ...interface{})
	Warn(msg string, fields ...interface{})
	Error(msg string, fields ...interface{})

	WithComponent(component string) Logger
}

// Level represents logging severity.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "debug"
	case LevelInfo:
		return "info"
	case LevelWarn:
		return "warn"
	case LevelError:
		return "error"
	default:
		return "unknown"
	}
}

// ParseLevel maps a level name to a Level, defaulting to info.
func ParseLevel(s string) Level {
	switch s {
	case "debug":
		return LevelDebug
	case "warn", "warning":
		return LevelWarn
	case "error":
		return LevelError
	default:
		return LevelInfo
	}
}

type entry struct {
	Timestamp string                 `json:"timestamp"`
	Level     string                 `json:"level"`
	Message   string                 `json:"message"`
	Component string                 `json:"component,omitempty"`
	Fields    map[string]interface{} `json:"fields,omitempty"`
}

type jsonLogger struct {
	level     Level
	component string
}

// NewLogger creates a JSON logger filtering below the given level.
func NewLogger(level Level) Logger {
	return &jsonLogger{level: level}
}

func (l *jsonLogger) WithComponent(component string) Logger {
	return &jsonLogger{level: l.level, component: component}
}

func (l *jsonLogger) Debug(msg string, fields ...interface{}) { l.log(LevelDebug, msg, fields...) }
func (l *jsonLogger) Info(msg string, fields ...interface{})  { l.log(LevelInfo, msg, fields...) }
func (l *jsonLogger) Warn(msg string, fields ...interface{})  { l.log(LevelWarn, msg, fields...) }
func (l *jsonLogger) Error(msg string, fields ...interface{}) { l.log(LevelError, msg, fields...) }

func (l *jsonLogger) log(level Level, msg string, fields ...interface{}) {
	if level < l.level {
		return
	}
	e := entry{
		Timestamp: time.Now().UTC().Format(time.RFC3339Nano),
		Level:     level.String(),
		Message:   msg,
		Component: l.component,
		Fields:    pairFields(fields),
	}
	line, err := json.Marshal(e)
	if err != nil {
		fmt.Fprintf(os.Stderr, `{"level":"error","message":"log marshal failed: %v"}`+"\n", err)
		return
	}
	fmt.Fprintln(os.Stderr, string(line))
}

// pairFields converts variadic key/value pairs into a map. A trailing
// odd value is kept under "extra" rather than dropped.
func pairFields(fields []interface{}) map[string]interface{} {
	if len(fields) == 0 {
		return nil
	}
	m := make(map[string]interface{}, len(fields)/2+1)
	for i := 0; i+1 < len(fields); i += 2 {
		key, ok := fields[i].(string)
		if !ok {
			key = fmt.Sprintf("%v", fields[i])
		}
		m[key] = fields[i+1]
	}
	if len(fields)%2 == 1 {
		m["extra"] = fields[len(fields)-1]
	}
	return m
}
