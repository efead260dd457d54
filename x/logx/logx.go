// Package logx is the logging seam shared by host and MCU builds.
// Host builds are backed by zap; MCU builds write plain lines to a writer.
package logx

// Logger is the subset of *zap.SugaredLogger the firmware uses.
type Logger interface {
	Debugf(template string, args ...any)
	Infof(template string, args ...any)
	Warnf(template string, args ...any)
	Errorf(template string, args ...any)
}
