package auth

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

var (
	// ErrRoomTaken reports a registration attempt for an existing room.
	ErrRoomTaken = errors.New("room already registered")

	// ErrBadCredentials covers unknown identities and wrong passwords alike.
	ErrBadCredentials = errors.New("bad credentials")
)

// UserStore persists room and administrator credentials.
type UserStore struct {
	DB *sql.DB
}

func NewUserStore(db *sql.DB) *UserStore {
	return &UserStore{DB: db}
}

// Init creates the credential tables when absent.
func (s *UserStore) Init(ctx context.Context) error {
	_, err := s.DB.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS rooms (
			id BIGSERIAL PRIMARY KEY,
			room_number TEXT UNIQUE NOT NULL,
			password_hash TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)
	`)
	if err != nil {
		return fmt.Errorf("create rooms table: %w", err)
	}
	_, err = s.DB.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS admins (
			id BIGSERIAL PRIMARY KEY,
			username TEXT UNIQUE NOT NULL,
			password_hash TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)
	`)
	if err != nil {
		return fmt.Errorf("create admins table: %w", err)
	}
	return nil
}

// EnsureAdmin seeds an administrator account if the username is not present.
func (s *UserStore) EnsureAdmin(ctx context.Context, username, password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	_, err = s.DB.ExecContext(ctx, `
		INSERT INTO admins (username, password_hash) VALUES ($1, $2)
		ON CONFLICT (username) DO NOTHING
	`, username, string(hash))
	if err != nil {
		return fmt.Errorf("seed admin %s: %w", username, err)
	}
	return nil
}

// RegisterRoom stores a new room credential. The room number is unique.
func (s *UserStore) RegisterRoom(ctx context.Context, room, password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	res, err := s.DB.ExecContext(ctx, `
		INSERT INTO rooms (room_number, password_hash) VALUES ($1, $2)
		ON CONFLICT (room_number) DO NOTHING
	`, room, string(hash))
	if err != nil {
		return fmt.Errorf("register room %s: %w", room, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrRoomTaken
	}
	return nil
}

// AuthenticateRoom verifies a room login. Unknown rooms and wrong passwords
// are indistinguishable to the caller.
func (s *UserStore) AuthenticateRoom(ctx context.Context, room, password string) error {
	var hash string
	err := s.DB.QueryRowContext(ctx,
		`SELECT password_hash FROM rooms WHERE room_number = $1`, room).Scan(&hash)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrBadCredentials
	}
	if err != nil {
		return err
	}
	if bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) != nil {
		return ErrBadCredentials
	}
	return nil
}

// AuthenticateAdmin verifies an administrator login.
func (s *UserStore) AuthenticateAdmin(ctx context.Context, username, password string) error {
	var hash string
	err := s.DB.QueryRowContext(ctx,
		`SELECT password_hash FROM admins WHERE username = $1`, username).Scan(&hash)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrBadCredentials
	}
	if err != nil {
		return err
	}
	if bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) != nil {
		return ErrBadCredentials
	}
	return nil
}
