package errors

import "errors"

var (
	// something requested is not found.
	ErrMissing = errors.New("not found")

	// something requested is found, but more than expected.
	ErrTooMuch = errors.New("found too much")

	// the request collides with existing records.
	//
	// For example, overlapping schedules or duplicated active mappings.
	ErrConflict = errors.New("conflicts with existing record")

	// the record is not in the status where the operation is allowed.
	ErrInvalidState = errors.New("invalid state")

	// the caller is not allowed to do the operation.
	ErrForbidden = errors.New("forbidden")

	// the mapping has no sessions left to be booked or used.
	ErrNoSession = errors.New("no remaining sessions")

	// refund is requested after the refund window closed.
	ErrRefundWindow = errors.New("refund window is closed")

	// the value is not acceptable (format, range, or enum).
	ErrInvalidValue = errors.New("invalid value")
)
