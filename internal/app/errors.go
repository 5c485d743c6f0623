package service

import "errors"

var (
	// ErrNotStarted is returned when Analyze is called before Start.
	ErrNotStarted = errors.New("service not started")
	// ErrNoFetcher is returned by Start when neither an engine nor a fetcher was configured.
	ErrNoFetcher = errors.New("no analyzer or fetcher configured")
)
