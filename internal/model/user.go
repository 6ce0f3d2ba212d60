// Package model defines the data structures used throughout the application.
// In Go, we use structs to represent our data — similar to classes in other languages,
// but without inheritance. Go favours composition over inheritance.
package model

import "time"

// User represents a registered account.
//
// WHY PasswordHash AND NOT Password?
// We never store (or even hold in memory longer than necessary) the raw
// password. The auth package hashes it with PBKDF2 before it reaches the
// repository, and this struct only ever carries the opaque hash string.
// The `json:"-"` tag makes double-sure the hash never leaks if a User is
// ever serialised to JSON.
//
// WHY int64 FOR ID?
// SQLite's INTEGER PRIMARY KEY is a 64-bit rowid. Using int64 end-to-end
// avoids conversions at the database boundary.
type User struct {
	ID           int64     `json:"id"    db:"id"`
	Name         string    `json:"name"  db:"name"`  // display name shown on posts and comments
	Email        string    `json:"email" db:"email"` // unique, case-sensitive as stored
	PasswordHash string    `json:"-"     db:"password_hash"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
}
