//go:build tinygo

package logx

import (
	"fmt"
	"io"
)

type level uint8

const (
	levelDebug level = iota
	levelInfo
	levelWarn
	levelError
)

func parseLevel(s string) level {
	switch s {
	case "debug":
		return levelDebug
	case "warn":
		return levelWarn
	case "error":
		return levelError
	default:
		return levelInfo
	}
}

// lineLogger writes "LEVEL message\n" to w. Writes are not buffered.
type lineLogger struct {
	w   io.Writer
	min level
}

// New returns a line logger on w (typically a UART).
func New(w io.Writer, lvl string) Logger {
	return &lineLogger{w: w, min: parseLevel(lvl)}
}

// Nop discards everything.
func Nop() Logger { return &lineLogger{w: io.Discard, min: levelError + 1} }

func (l *lineLogger) Debugf(f string, a ...any) { l.logf(levelDebug, "DEBUG ", f, a) }
func (l *lineLogger) Infof(f string, a ...any)  { l.logf(levelInfo, "INFO ", f, a) }
func (l *lineLogger) Warnf(f string, a ...any)  { l.logf(levelWarn, "WARN ", f, a) }
func (l *lineLogger) Errorf(f string, a ...any) { l.logf(levelError, "ERROR ", f, a) }

func (l *lineLogger) logf(lv level, tag, f string, a []any) {
	if lv < l.min {
		return
	}
	_, _ = io.WriteString(l.w, tag+fmt.Sprintf(f, a...)+"\n")
}
