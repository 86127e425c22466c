package core

// Logger is any service that can log messages with increasing severity.
// Implementations may interpret trailing args as structured context
// (errors, maps, domain objects).
type Logger interface {
	Debug(msg string, args ...interface{})
	Info(msg string, args ...interface{})
	Warn(msg string, args ...interface{})
	Error(msg string, args ...interface{})
	Fatal(msg string, args ...interface{})
}
