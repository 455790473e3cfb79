package errors

// SQLite-specific helpers for the modernc driver

import (
	stderrs "errors"
	"strings"

	"modernc.org/sqlite"
)

// primary result codes (extended codes carry these in the low byte)
const (
	sqliteError      = 1
	sqliteBusy       = 5
	sqliteLocked     = 6
	sqliteReadOnly   = 8
	sqliteCantOpen   = 14
	sqliteConstraint = 19
	sqliteMismatch   = 20

	sqliteConstraintUnique     = 2067
	sqliteConstraintPrimaryKey = 1555
)

// ExtractSQLiteError returns the driver error if err wraps one
func ExtractSQLiteError(err error) (*sqlite.Error, bool) {
	var se *sqlite.Error
	if stderrs.As(err, &se) {
		return se, true
	}
	return nil, false
}

// SQLiteErrorCode maps a SQLite error to an ErrorCode; !ok means err wasn't from the driver
func SQLiteErrorCode(err error) (ErrorCode, bool) {
	se, ok := ExtractSQLiteError(err)
	if !ok {
		return ErrorCodeUnknown, false
	}
	code := se.Code()
	switch code {
	case sqliteConstraintUnique, sqliteConstraintPrimaryKey:
		return ErrorCodeDuplicateKey, true
	}
	switch code & 0xff {
	case sqliteConstraint:
		return ErrorCodeValidation, true
	case sqliteMismatch:
		return ErrorCodeInvalidArgument, true
	case sqliteBusy, sqliteLocked, sqliteReadOnly:
		return ErrorCodeUnavailable, true
	case sqliteCantOpen:
		return ErrorCodeNotFound, true
	case sqliteError:
		if strings.Contains(strings.ToLower(se.Error()), "no such table") {
			return ErrorCodeNotFound, true
		}
	}
	return ErrorCodeDB, true
}

// IsSQLiteRetryable reports whether a SQLite error is lock contention
func IsSQLiteRetryable(err error) bool {
	se, ok := ExtractSQLiteError(err)
	if !ok {
		return false
	}
	switch se.Code() & 0xff {
	case sqliteBusy, sqliteLocked:
		return true
	}
	return false
}
