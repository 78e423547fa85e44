package sentinel

import "errors"

// Sentinel errors for infrastructure facts. Stores and infrastructure layers return
// these (optionally wrapped) so services can translate them into domain errors.
//
//   - ErrUnavailable: a dependency (audit store, buffer) cannot accept work right now
//   - ErrClosed: the component was shut down
//   - ErrExpired: a token has expired
//
// For validation errors (bad input, missing fields), use pkg/domain-errors directly.
var (
	ErrUnavailable = errors.New("unavailable")
	ErrClosed      = errors.New("closed")
	ErrExpired     = errors.New("expired")
)
