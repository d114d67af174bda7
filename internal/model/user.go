package model

import "time"

// User represents a registered account as stored in the `users` table.
// Email and phone are each unique across all users; the database
// constraints are the source of truth, service-level checks are advisory.
// Passwords are stored only as bcrypt hashes.
//
// Fields:
//  ID           – primary key identifier of the user.
//  Username     – display name shown on pages.
//  Email        – unique email address, used for login.
//  Phone        – unique phone number.
//  PasswordHash – bcrypt hash of the password.
//  Role         – USER or ADMIN; ADMIN unlocks the show management API.
//  CreatedAt    – timestamp of creation.
//  UpdatedAt    – timestamp of last update.
type User struct {
	ID           uint64    // users.id
	Username     string    // users.username
	Email        string    // users.email
	Phone        string    // users.phone
	PasswordHash string    // users.password_hash
	Role         string    // users.role
	CreatedAt    time.Time // users.created_at
	UpdatedAt    time.Time // users.updated_at
}

// Roles stored in users.role.
const (
	RoleUser  = "USER"
	RoleAdmin = "ADMIN"
)
