package cgraph

import "go.uber.org/zap"

// Logger is the minimal logging surface the graph runner needs. Callers
// that already carry a *zap.SugaredLogger satisfy this directly.
type Logger interface {
	Infow(msg string, keysAndValues ...interface{})
	Errorw(msg string, keysAndValues ...interface{})
}

// nopLogger is used when a Graph is built without WithLogger.
type nopLogger struct{}

func (nopLogger) Infow(string, ...interface{})  {}
func (nopLogger) Errorw(string, ...interface{}) {}

// NewSugaredLogger returns a production zap logger wrapped for use as a
// Logger, the default ambient logging setup for cmd/cgraph-pcm.
func NewSugaredLogger() (*zap.SugaredLogger, error) {
	base, err := zap.NewProduction()
	if err != nil {
		return nil, err
	}
	return base.Sugar(), nil
}
