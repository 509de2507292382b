package logger

import (
	"io"
	"log"
	"os"
)

// Null discards everything.
func Null() *log.Logger {
	return log.New(io.Discard, "", log.LstdFlags)
}

// Default writes to stderr.
func Default() *log.Logger {
	return log.New(os.Stderr, "", log.LstdFlags)
}
