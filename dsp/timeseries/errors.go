package timeseries

import "errors"

var (
	// ErrOutOfRange is returned by FindValueForTime when the requested time
	// lies past the newest buffered timestamp.
	ErrOutOfRange = errors.New("time is past the newest sample")

	// ErrOutOfOrder is returned by Add when a timestamp is older than the
	// newest buffered one. The buffer is left unchanged.
	ErrOutOfOrder = errors.New("timestamp is older than the newest sample")
)
