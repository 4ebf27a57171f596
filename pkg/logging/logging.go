package logging

// Logger is the logging contract shared by every package. Components
// receive it from their caller and never construct backends themselves.
type Logger interface {
	Debugf(format string, args ...interface{})
	Infof(format string, args ...interface{})
	Warnf(format string, args ...interface{})
	Errorf(format string, args ...interface{})
}

type prefixedLogger struct {
	prefix  string
	backend Logger
}

// WithPrefix returns a Logger that prepends prefix to every message
// before delegating to backend. The CLI entrypoints use it to tag each
// tool's output.
func WithPrefix(prefix string, backend Logger) Logger {
	return &prefixedLogger{
		prefix:  prefix,
		backend: backend,
	}
}

func (l *prefixedLogger) Debugf(format string, args ...interface{}) {
	l.backend.Debugf(l.prefix+format, args...)
}

func (l *prefixedLogger) Infof(format string, args ...interface{}) {
	l.backend.Infof(l.prefix+format, args...)
}

func (l *prefixedLogger) Warnf(format string, args ...interface{}) {
	l.backend.Warnf(l.prefix+format, args...)
}

func (l *prefixedLogger) Errorf(format string, args ...interface{}) {
	l.backend.Errorf(l.prefix+format, args...)
}
