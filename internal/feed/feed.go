// Package feed provides access to the option-chain analytics endpoint. The
// Source interface abstracts where snapshots come from so the dashboard can
// run against the live HTTP endpoint or the built-in simulator.
package feed

import (
	"context"
	"fmt"

	"optiondeck/internal/domain"
)

// Source produces analytics payloads for an instrument. Fetch returns the
// (analysis, signals, timestamp) triple the endpoint serves; signals may be
// nil when no signals have been computed for the instrument yet.
type Source interface {
	// Name returns the source identifier (e.g. "http", "simulator").
	Name() string

	// Fetch retrieves the latest analytics for the instrument. It must
	// respect ctx cancellation and deadlines.
	Fetch(ctx context.Context, instrument string) (*domain.Snapshot, *domain.SignalSet, string, error)
}

// NetworkError reports a transport failure or a non-2xx response from the
// analytics endpoint.
type NetworkError struct {
	URL    string
	Status int // 0 when the request never produced a response
	Err    error
}

func (e *NetworkError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("feed: %s returned HTTP %d", e.URL, e.Status)
	}
	return fmt.Sprintf("feed: fetching %s: %v", e.URL, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// MalformedResponseError reports a 2xx response whose body could not be
// decoded or is missing required fields.
type MalformedResponseError struct {
	URL    string
	Reason string
	Err    error
}

func (e *MalformedResponseError) Error() string {
	return fmt.Sprintf("feed: malformed response from %s: %s", e.URL, e.Reason)
}

func (e *MalformedResponseError) Unwrap() error { return e.Err }
