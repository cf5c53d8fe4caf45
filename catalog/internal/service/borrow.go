package service

import (
	"context"
	"math"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/bookgrove/catalog-service/catalog/internal/errs"
	"github.com/bookgrove/catalog-service/catalog/internal/events"
	"github.com/bookgrove/catalog-service/catalog/internal/model"
)

const (
	maxBorrowedBooks = 3
	maxBorrowDays    = 30

	dateLayout = time.DateOnly
)

// Borrow runs the checkout workflow: a sequence of checks against freshly
// read state followed by a single conditional write. No lock is held across
// the checks; the write guards only that the record still exists, so two
// requests racing for the last copy reproduce the source system's
// lost-update window.
func (s *BookService) Borrow(ctx context.Context, id, borrowerID string, req model.BorrowRequest) (model.Book, error) {
	book, err := s.repo.Get(ctx, id)
	if err != nil {
		return model.Book{}, err
	}

	borrowed, err := s.repo.BorrowedBy(ctx, borrowerID)
	if err != nil {
		return model.Book{}, errors.Wrap(err, "borrow book")
	}
	for _, b := range borrowed {
		if b.ID == id {
			return model.Book{}, errors.Wrap(errs.ErrAlreadyBorrowed, id)
		}
	}
	if len(borrowed) >= maxBorrowedBooks {
		return model.Book{}, errors.Wrapf(errs.ErrBorrowLimitExceeded, "user %s has %d books", borrowerID, len(borrowed))
	}

	if book.Quantity <= 0 {
		return model.Book{}, errors.Wrap(errs.ErrUnavailable, id)
	}

	startDate, returnDate, err := parseBorrowDates(req.StartDate, req.ReturnDate, time.Now())
	if err != nil {
		return model.Book{}, err
	}

	updated, err := s.repo.Borrow(ctx, id, borrowerID, startDate, returnDate)
	if err != nil {
		return model.Book{}, err
	}

	s.log.Info("borrowed",
		zap.String("bookId", id),
		zap.String("borrowerId", borrowerID),
		zap.Time("returnDate", returnDate))
	s.events.Publish(events.BookBorrowed, id, borrowerID)
	return updated, nil
}

// Return hands a borrowed book back. Only the recorded borrower may return
// it; the persisted status is checked, not the derived projection.
func (s *BookService) Return(ctx context.Context, id, userID string) (model.Book, error) {
	book, err := s.repo.Get(ctx, id)
	if err != nil {
		return model.Book{}, err
	}
	if book.Status != model.StatusBorrowed {
		return model.Book{}, errors.Wrap(errs.ErrNotBorrowed, id)
	}
	if book.BorrowerID == nil || *book.BorrowerID != userID {
		return model.Book{}, errors.Wrap(errs.ErrNotBorrower, id)
	}

	updated, err := s.repo.Return(ctx, id)
	if err != nil {
		return model.Book{}, err
	}

	s.log.Info("returned", zap.String("bookId", id), zap.String("userId", userID))
	s.events.Publish(events.BookReturned, id, userID)
	return updated, nil
}

// parseBorrowDates validates the requested borrow window: the start may not
// be in the past, the return must follow the start, and the span may not
// exceed 30 days (ceiling of whole days; exactly 30 is accepted).
func parseBorrowDates(start, ret string, now time.Time) (time.Time, time.Time, error) {
	startDate, err := time.Parse(dateLayout, start)
	if err != nil {
		return time.Time{}, time.Time{}, errors.Wrapf(errs.ErrBadDateRange, "startDate %q", start)
	}
	returnDate, err := time.Parse(dateLayout, ret)
	if err != nil {
		return time.Time{}, time.Time{}, errors.Wrapf(errs.ErrBadDateRange, "returnDate %q", ret)
	}
	if startDate.Before(now) {
		return time.Time{}, time.Time{}, errors.Wrap(errs.ErrBadDateRange, "startDate is in the past")
	}
	if !returnDate.After(startDate) {
		return time.Time{}, time.Time{}, errors.Wrap(errs.ErrBadDateRange, "returnDate must be after startDate")
	}
	days := int(math.Ceil(returnDate.Sub(startDate).Hours() / 24))
	if days > maxBorrowDays {
		return time.Time{}, time.Time{}, errors.Wrapf(errs.ErrBadDateRange, "span of %d days exceeds %d", days, maxBorrowDays)
	}
	return startDate, returnDate, nil
}
