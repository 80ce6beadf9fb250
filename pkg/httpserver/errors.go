package httpserver

import "errors"

var (
	ErrServerStart    = errors.New("httpserver.start_failed")
	ErrServerShutdown = errors.New("httpserver.shutdown_failed")
)
