package sqlxrepos

import (
	"database/sql"
	"database/sql/driver"
	"net"

	"github.com/lib/pq"
	"github.com/pkg/errors"

	"github.com/trezcool/daftari/core"
)

// psql error codes of interest
const (
	pqUniqueViolation = "23505"
	pqFKViolation     = "23503"
	pqConnExceptions  = "08" // error class
)

// wrapDBErr surfaces transport-level faults as core.StorageError so they come
// out as 503s; anything else is wrapped as-is.
func wrapDBErr(err error, msg string) error {
	if err == nil {
		return nil
	}
	if isConnErr(err) {
		return core.NewStorageError(err)
	}
	return errors.Wrap(err, msg)
}

func isConnErr(err error) bool {
	if err == driver.ErrBadConn || err == sql.ErrConnDone {
		return true
	}
	if _, ok := err.(net.Error); ok {
		return true
	}
	if pqErr, ok := err.(*pq.Error); ok {
		return pqErr.Code.Class() == pqConnExceptions
	}
	return false
}

// trapNoRowsErr maps psql "no rows" to the entity's not-found sentinel.
func trapNoRowsErr(err, notFound error, msg string) error {
	if err == sql.ErrNoRows {
		return notFound
	}
	return wrapDBErr(err, msg)
}

// trapConstraintErr maps psql unique/FK violations to the app error registered
// for the violated constraint. The services check constraints up front for
// deterministic field errors; this is the backstop that makes concurrent
// writers racing on the same constraint lose cleanly.
func trapConstraintErr(err error, constraints map[string]error, msg string) error {
	if pqErr, ok := err.(*pq.Error); ok {
		switch pqErr.Code {
		case pqUniqueViolation, pqFKViolation:
			if mapped, ok := constraints[pqErr.Constraint]; ok {
				return mapped
			}
		}
	}
	return wrapDBErr(err, msg)
}
