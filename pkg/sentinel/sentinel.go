// Package sentinel holds sentinel errors for infrastructure facts. Stores
// return these (optionally wrapped) so services can translate them into coded
// domain errors without depending on a concrete store implementation.
//
// These represent factual states about resources, not validation failures:
//   - ErrNotFound: record does not exist in the store
//   - ErrExpired: token or link past its validity window
//   - ErrAlreadyUsed: single-use token already consumed
//   - ErrUnavailable: backing store temporarily unreachable
package sentinel

import "errors"

var (
	ErrNotFound    = errors.New("not found")
	ErrExpired     = errors.New("expired")
	ErrAlreadyUsed = errors.New("already used")
	ErrUnavailable = errors.New("unavailable")
)
