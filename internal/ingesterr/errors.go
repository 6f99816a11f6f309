// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package ingesterr defines the error taxonomy of an ingest run. Every failure
// that aborts a run is marked with one of these sentinels, or propagates
// unmarked from the crosswalk or graph database.
package ingesterr

import "github.com/cockroachdb/errors"

var (
	// ErrConfiguration covers missing or contradictory settings detected at startup.
	ErrConfiguration = errors.New("configuration error")

	// ErrSnapshotResolution means latest.txt was missing, empty or unreachable.
	ErrSnapshotResolution = errors.New("snapshot resolution error")

	// ErrDiscovery covers an unreadable local root or a failed object listing.
	ErrDiscovery = errors.New("discovery error")

	// ErrTransform means the stylesheet could not be compiled or applied.
	ErrTransform = errors.New("transform error")
)

// Configuration returns a new error marked as ErrConfiguration.
func Configuration(format string, args ...interface{}) error {
	return errors.Mark(errors.Newf(format, args...), ErrConfiguration)
}

// Mark wraps err with msg and marks it with kind, so errors.Is(err, kind)
// holds while the original cause stays reachable.
func Mark(err error, kind error, msg string) error {
	if err == nil {
		return nil
	}
	return errors.Mark(errors.Wrap(err, msg), kind)
}

// Markf is Mark with a formatted message.
func Markf(err error, kind error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return errors.Mark(errors.Wrapf(err, format, args...), kind)
}
