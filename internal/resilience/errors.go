package resilience

import (
	"errors"
	"net"
	"strings"
	"syscall"

	"github.com/jackc/pgx/v5/pgconn"
)

// IsTransient reports whether a store error is worth retrying: lock
// contention, serialization conflicts, dropped connections and timeouts.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return transientSQLState(pgErr.Code)
	}
	if pgconn.SafeToRetry(err) {
		return true
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	if errors.Is(err, syscall.ECONNRESET) || errors.Is(err, syscall.ECONNREFUSED) {
		return true
	}

	// modernc sqlite reports contention only through the message.
	msg := strings.ToLower(err.Error())
	for _, p := range []string{"database is locked", "sqlite_busy", "database table is locked"} {
		if strings.Contains(msg, p) {
			return true
		}
	}
	return false
}

// transientSQLState classifies Postgres error codes.
func transientSQLState(code string) bool {
	switch {
	case code == "40001", code == "40P01": // serialization_failure, deadlock_detected
		return true
	case code == "57P03": // cannot_connect_now
		return true
	case strings.HasPrefix(code, "08"): // connection exception
		return true
	case strings.HasPrefix(code, "53"): // insufficient resources
		return true
	}
	return false
}
