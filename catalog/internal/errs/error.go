package errs

import (
	"errors"
)

var (
	ErrNotFound       = errors.New("not found")
	ErrNotFoundByName = errors.New("not found by name")
	ErrAlreadyExists  = errors.New("already exists")
	ErrHasDependents  = errors.New("has dependent books")

	ErrAlreadyBorrowed     = errors.New("book is already borrowed by this user")
	ErrBorrowLimitExceeded = errors.New("borrow limit exceeded")
	ErrUnavailable         = errors.New("book is unavailable")
	ErrNotBorrower         = errors.New("book is borrowed by another user")
	ErrNotBorrowed         = errors.New("book is not borrowed")
	ErrBadDateRange        = errors.New("invalid borrow date range")

	ErrBadCursor        = errors.New("invalid cursor")
	ErrCounterUnderflow = errors.New("books counter underflow")
	ErrStorageIO        = errors.New("blob storage failure")
)

// IsInvalidRequest reports whether err belongs to the borrow/return
// business-rule family that maps to a 400 at the boundary.
func IsInvalidRequest(err error) bool {
	for _, e := range []error{
		ErrAlreadyBorrowed,
		ErrBorrowLimitExceeded,
		ErrUnavailable,
		ErrNotBorrower,
		ErrNotBorrowed,
		ErrBadDateRange,
		ErrCounterUnderflow,
	} {
		if errors.Is(err, e) {
			return true
		}
	}
	return false
}
