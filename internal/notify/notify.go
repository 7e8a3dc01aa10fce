package notify

import "log"

// Notifier receives the transient user-facing messages that async failures
// and successes produce (the toast analog).
type Notifier interface {
	Success(msg string)
	Error(msg string)
}

// LogNotifier is the default sink.
type LogNotifier struct{}

func (LogNotifier) Success(msg string) { log.Printf("notice: %s", msg) }
func (LogNotifier) Error(msg string)   { log.Printf("error: %s", msg) }

// Discard drops everything; handy for callers that surface errors themselves.
type Discard struct{}

func (Discard) Success(string) {}
func (Discard) Error(string)   {}
