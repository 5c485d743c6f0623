package codeforces

import "errors"

// Sentinel causes attached to *model.Failure values built by this package.
var (
	ErrMalformedResponse = errors.New("malformed response")
	ErrRemoteStatus      = errors.New("remote status not OK")
)
