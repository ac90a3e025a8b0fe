package store

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/okrause/tikzcanvas/pkg/apperr"
)

// SQLite is the database-backed Store.
type SQLite struct {
	db *sql.DB
}

var _ Store = (*SQLite)(nil)

// OpenSQLite opens (and if necessary creates) the database at path and
// applies the schema.
func OpenSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(ON)")
	if err != nil {
		return nil, apperr.Wrap(apperr.CodeInternal, err, "open database %s", path)
	}
	// modernc's driver is not safe for concurrent writes on one connection
	// pool without this.
	db.SetMaxOpenConns(1)

	s := &SQLite{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, apperr.Wrap(apperr.CodeInternal, err, "migrate database %s", path)
	}
	return s, nil
}

// migrate creates the schema if it does not exist.
func (s *SQLite) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS users (
		id TEXT PRIMARY KEY,
		username TEXT NOT NULL UNIQUE,
		email TEXT NOT NULL DEFAULT '',
		password_hash TEXT NOT NULL,
		premium INTEGER NOT NULL DEFAULT 0,
		created_at DATETIME NOT NULL
	);

	CREATE TABLE IF NOT EXISTS diagrams (
		id TEXT PRIMARY KEY,
		owner_id TEXT NOT NULL,
		title TEXT NOT NULL,
		source TEXT NOT NULL,
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL,
		FOREIGN KEY (owner_id) REFERENCES users(id)
	);

	CREATE INDEX IF NOT EXISTS idx_diagrams_owner ON diagrams(owner_id, updated_at);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *SQLite) Close() error {
	return s.db.Close()
}

func (s *SQLite) CreateUser(ctx context.Context, u *User) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO users (id, username, email, password_hash, premium, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
		u.ID, u.Username, u.Email, u.PasswordHash, u.Premium, u.CreatedAt)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE") {
			return apperr.New(apperr.CodeConflict, "username %s is taken", u.Username)
		}
		return apperr.Wrap(apperr.CodeInternal, err, "create user")
	}
	return nil
}

func (s *SQLite) UserByID(ctx context.Context, id string) (*User, error) {
	return s.scanUser(s.db.QueryRowContext(ctx,
		`SELECT id, username, email, password_hash, premium, created_at FROM users WHERE id = ?`, id))
}

func (s *SQLite) UserByUsername(ctx context.Context, username string) (*User, error) {
	return s.scanUser(s.db.QueryRowContext(ctx,
		`SELECT id, username, email, password_hash, premium, created_at FROM users WHERE username = ?`, username))
}

func (s *SQLite) scanUser(row *sql.Row) (*User, error) {
	var u User
	err := row.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.Premium, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.New(apperr.CodeNotFound, "user not found")
	}
	if err != nil {
		return nil, apperr.Wrap(apperr.CodeInternal, err, "load user")
	}
	return &u, nil
}

func (s *SQLite) CreateDiagram(ctx context.Context, d *Diagram) error {
	if d.ID == "" {
		d.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if d.CreatedAt.IsZero() {
		d.CreatedAt = now
	}
	d.UpdatedAt = now
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO diagrams (id, owner_id, title, source, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?)`,
		d.ID, d.OwnerID, d.Title, d.Source, d.CreatedAt, d.UpdatedAt)
	if err != nil {
		return apperr.Wrap(apperr.CodeInternal, err, "create diagram")
	}
	return nil
}

func (s *SQLite) Diagram(ctx context.Context, ownerID, id string) (*Diagram, error) {
	var d Diagram
	err := s.db.QueryRowContext(ctx,
		`SELECT id, owner_id, title, source, created_at, updated_at FROM diagrams WHERE id = ? AND owner_id = ?`,
		id, ownerID).
		Scan(&d.ID, &d.OwnerID, &d.Title, &d.Source, &d.CreatedAt, &d.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.New(apperr.CodeDiagramNotFound, "diagram %s not found", id)
	}
	if err != nil {
		return nil, apperr.Wrap(apperr.CodeInternal, err, "load diagram %s", id)
	}
	return &d, nil
}

func (s *SQLite) ListDiagrams(ctx context.Context, ownerID string) ([]Diagram, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, owner_id, title, source, created_at, updated_at FROM diagrams WHERE owner_id = ? ORDER BY updated_at DESC`,
		ownerID)
	if err != nil {
		return nil, apperr.Wrap(apperr.CodeInternal, err, "list diagrams")
	}
	defer rows.Close()

	var out []Diagram
	for rows.Next() {
		var d Diagram
		if err := rows.Scan(&d.ID, &d.OwnerID, &d.Title, &d.Source, &d.CreatedAt, &d.UpdatedAt); err != nil {
			return nil, apperr.Wrap(apperr.CodeInternal, err, "scan diagram")
		}
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Wrap(apperr.CodeInternal, err, "list diagrams")
	}
	return out, nil
}

func (s *SQLite) UpdateDiagram(ctx context.Context, d *Diagram) error {
	d.UpdatedAt = time.Now().UTC()
	res, err := s.db.ExecContext(ctx,
		`UPDATE diagrams SET title = ?, source = ?, updated_at = ? WHERE id = ? AND owner_id = ?`,
		d.Title, d.Source, d.UpdatedAt, d.ID, d.OwnerID)
	if err != nil {
		return apperr.Wrap(apperr.CodeInternal, err, "update diagram %s", d.ID)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperr.New(apperr.CodeDiagramNotFound, "diagram %s not found", d.ID)
	}
	return nil
}

func (s *SQLite) DeleteDiagram(ctx context.Context, ownerID, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM diagrams WHERE id = ? AND owner_id = ?`, id, ownerID)
	if err != nil {
		return apperr.Wrap(apperr.CodeInternal, err, "delete diagram %s", id)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperr.New(apperr.CodeDiagramNotFound, "diagram %s not found", id)
	}
	return nil
}
