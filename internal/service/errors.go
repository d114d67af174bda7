// Package service implements the business rules between the HTTP handlers
// and the repositories. Failures are reported through sentinel errors so
// handlers can pick a redirect or status code with errors.Is instead of
// guessing from an absent result.
package service

import "errors"

// ErrNotFound is returned when a requested entity is absent by id or
// unique key. Phone lookups use it too, the same as email and id lookups.
var ErrNotFound = errors.New("not found")

// ErrDuplicateAccount is returned when the email or phone of a new or
// updated user already belongs to another account.
var ErrDuplicateAccount = errors.New("email or phone already registered")

// ErrPasswordMismatch is returned when password and its confirmation do
// not match during registration.
var ErrPasswordMismatch = errors.New("passwords do not match")

// ErrBadCredentials is returned on login when the email is unknown or the
// password does not verify against the stored hash.
var ErrBadCredentials = errors.New("invalid email or password")

// ErrSeatTaken is returned when the requested (show, row, cell) seat is
// already booked.
var ErrSeatTaken = errors.New("seat already booked")
