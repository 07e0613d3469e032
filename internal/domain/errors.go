package domain

import "errors"

// Sentinel errors for domain-level error discrimination.
// Services wrap these so handlers can map to HTTP status codes without leaking infrastructure details.
var (
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrUnauthorized = errors.New("unauthorized")
	ErrBadRequest   = errors.New("bad request")

	// ErrDuplicate means the (type, external_id) pair already exists in the
	// sent-notifications table. A concurrent job run got there first, so
	// callers skip the dispatch instead of failing the run.
	ErrDuplicate = errors.New("duplicate notification")

	// ErrProvider wraps market-data fetch failures. When the first required
	// fetch of a run fails the whole run aborts with no side effects.
	ErrProvider = errors.New("market data provider error")

	// ErrDelivery wraps push transport failures. A delivery failure never
	// rolls back prior state changes; it is surfaced in the job's error list.
	ErrDelivery = errors.New("push delivery error")
)
