package core

// Logger is any structured logger that can also report errors to a tracking service.
// expected args: error, map[string]interface{}, or the Claims of the current caller.
type Logger interface {
	Debug(msg string, args ...interface{})
	Info(msg string, args ...interface{})
	Warn(msg string, args ...interface{})
	Error(msg string, args ...interface{})
	Fatal(msg string, args ...interface{})
}
