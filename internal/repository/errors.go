// Package repository contains the data access layer. Each repository issues
// parameterized SQL against MySQL and reports failures through a small set
// of sentinel errors so the service layer can discriminate a duplicate key
// from a missing row from a connectivity problem.
package repository

import (
	"errors"

	"github.com/go-sql-driver/mysql"
)

// ErrNotFound is returned when a row is absent by id or unique key.
var ErrNotFound = errors.New("not found")

// ErrDuplicate is returned when an insert or update violates a uniqueness
// constraint: a registered email or phone, or an already booked seat.
var ErrDuplicate = errors.New("duplicate key")

// MySQL error 1062: duplicate entry for a unique key.
const mysqlDupEntry = 1062

// isDuplicate reports whether err is a MySQL duplicate-key violation.
func isDuplicate(err error) bool {
	var me *mysql.MySQLError
	return errors.As(err, &me) && me.Number == mysqlDupEntry
}
