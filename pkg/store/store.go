// Package store persists user accounts and saved diagrams.
//
// The [Store] interface has two implementations: a SQLite-backed store for
// the server, and an in-memory store used by tests and the editor when no
// database is configured. Diagram access is always scoped to an owner.
package store

import (
	"context"
	"time"
)

// User is a registered account.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Premium      bool      `json:"premium"`
	CreatedAt    time.Time `json:"created_at"`
}

// Diagram is a saved diagram: the source text is the document of record,
// everything else derives from it.
type Diagram struct {
	ID        string    `json:"id"`
	OwnerID   string    `json:"owner_id"`
	Title     string    `json:"title"`
	Source    string    `json:"source"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Store is the persistence boundary.
//
// Lookups that miss return an error with code DIAGRAM_NOT_FOUND or
// NOT_FOUND; creating a user with a taken username returns CONFLICT.
type Store interface {
	CreateUser(ctx context.Context, u *User) error
	UserByID(ctx context.Context, id string) (*User, error)
	UserByUsername(ctx context.Context, username string) (*User, error)

	CreateDiagram(ctx context.Context, d *Diagram) error
	Diagram(ctx context.Context, ownerID, id string) (*Diagram, error)
	ListDiagrams(ctx context.Context, ownerID string) ([]Diagram, error)
	UpdateDiagram(ctx context.Context, d *Diagram) error
	DeleteDiagram(ctx context.Context, ownerID, id string) error

	Close() error
}
