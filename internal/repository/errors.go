package repository

import (
	"context"
	"database/sql/driver"
	"errors"
	"net"
	"syscall"
)

// ErrStoreUnavailable marks failures where the backing store could not be
// reached at all, as opposed to a query that ran and found nothing. Sign-in
// branches on this to report a connection failure instead of bad credentials.
var ErrStoreUnavailable = errors.New("store unavailable")

// classify wraps err with ErrStoreUnavailable when it looks like the
// database was unreachable; other errors pass through unchanged.
func classify(err error) error {
	if err == nil {
		return nil
	}
	if isUnreachable(err) {
		return errors.Join(ErrStoreUnavailable, err)
	}
	return err
}

func isUnreachable(err error) bool {
	if errors.Is(err, driver.ErrBadConn) ||
		errors.Is(err, context.DeadlineExceeded) ||
		errors.Is(err, syscall.ECONNREFUSED) ||
		errors.Is(err, syscall.ECONNRESET) {
		return true
	}

	var netErr net.Error
	return errors.As(err, &netErr)
}
