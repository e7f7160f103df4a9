// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow handlers to translate storage
// outcomes into HTTP statuses without inspecting driver errors.
package repository

import (
	"errors"

	"github.com/go-sql-driver/mysql"
)

// ErrNotFound is returned when the addressed row does not exist. Handlers
// translate it into HTTP 404.
var ErrNotFound = errors.New("not found")

// ErrConflict is returned when an update cannot be applied because of the
// row's current state, such as cancelling a reservation that is already
// cancelled. Handlers translate it into HTTP 409.
var ErrConflict = errors.New("conflict")

// ErrEmailExists is returned when a user insert or update collides with the
// unique email index.
var ErrEmailExists = errors.New("email already exists")

// ErrInvalidReference is returned when a row points at another row that
// does not exist (a reservation for an unknown flight). Handlers translate
// it into HTTP 400.
var ErrInvalidReference = errors.New("invalid reference")

// isDuplicateKey reports whether err is MySQL error 1062 (duplicate entry).
func isDuplicateKey(err error) bool {
	var me *mysql.MySQLError
	return errors.As(err, &me) && me.Number == 1062
}
