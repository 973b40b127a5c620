package logger

import "go.uber.org/zap"

// Log defaults to a nop logger so packages can log before Init runs.
var Log = zap.NewNop()

func Init() {
	l, _ := zap.NewProduction()
	Log = l
}

// Sync flushes buffered entries, for use on shutdown.
func Sync() {
	Log.Sync()
}
