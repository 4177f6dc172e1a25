package repository

import (
	"database/sql"
	"errors"

	"golang.org/x/crypto/bcrypt"

	"parkconnect/internal/db"
)

type UserRepository interface {
	GetByEmail(email string) (*db.User, error)
	GetByID(id string) (*db.User, error)
	CreateUser(id, name, email, phone, password, role string) error
}

type userRepository struct {
	db *sql.DB
}

func NewUserRepository(database *sql.DB) UserRepository {
	return &userRepository{db: database}
}

func (r *userRepository) GetByEmail(email string) (*db.User, error) {
	var u db.User
	err := r.db.QueryRow(
		`SELECT id, name, email, phone, password_hash, role, created_at FROM users WHERE email = $1`,
		email).Scan(&u.ID, &u.Name, &u.Email, &u.Phone, &u.PasswordHash, &u.Role, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}

func (r *userRepository) GetByID(id string) (*db.User, error) {
	var u db.User
	err := r.db.QueryRow(
		`SELECT id, name, email, phone, password_hash, role, created_at FROM users WHERE id = $1`,
		id).Scan(&u.ID, &u.Name, &u.Email, &u.Phone, &u.PasswordHash, &u.Role, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}

func (r *userRepository) CreateUser(id, name, email, phone, password, role string) error {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	_, err = r.db.Exec(
		`INSERT INTO users (id, name, email, phone, password_hash, role, created_at) VALUES ($1, $2, $3, $4, $5, $6, NOW())`,
		id, name, email, phone, hashedPassword, role)
	return err
}
