// Package repository holds the MySQL persistence for users, spaces,
// resources, reservations and their history.  Repositories speak in
// model types and return the sentinel errors below; translating them into
// HTTP-facing errors is the service layer's job.
package repository

import (
	"errors"

	"github.com/go-sql-driver/mysql"
)

// ErrNotFound is returned when the addressed row does not exist.
var ErrNotFound = errors.New("not found")

// ErrConflict is returned when a delete or update cannot proceed because of
// dependent state, such as deleting a space that still has active
// reservations.
var ErrConflict = errors.New("conflict")

// ErrEmailExists is returned by UserRepo.Create on a duplicate email.
var ErrEmailExists = errors.New("email already exists")

// isDuplicate reports whether err is a MySQL unique key violation (1062).
func isDuplicate(err error) bool {
	var me *mysql.MySQLError
	return errors.As(err, &me) && me.Number == 1062
}
