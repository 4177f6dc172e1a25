package service

import (
	"errors"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"parkconnect/internal/booking"
	"parkconnect/internal/repository"
)

type AuthService interface {
	Signup(name, email, phone, password string, role booking.Role) (string, error)
	Login(email, password string) (string, error)
}

type authService struct {
	repo repository.UserRepository
}

func NewAuthService(repo repository.UserRepository) AuthService {
	return &authService{repo: repo}
}

func (s *authService) Signup(name, email, phone, password string, role booking.Role) (string, error) {
	if email == "" || password == "" {
		return "", errors.New("email and password cannot be empty")
	}
	if role != booking.RoleDriver && role != booking.RoleOwner {
		return "", errors.New("role must be driver or owner")
	}
	existing, err := s.repo.GetByEmail(email)
	if err != nil {
		return "", err
	}
	if existing != nil {
		return "", errors.New("email already registered")
	}

	id := uuid.NewString()
	if err := s.repo.CreateUser(id, name, email, phone, password, string(role)); err != nil {
		return "", err
	}
	return signToken(id, string(role))
}

func (s *authService) Login(email, password string) (string, error) {
	user, err := s.repo.GetByEmail(email)
	if err != nil {
		return "", err
	}
	if user == nil {
		return "", errors.New("invalid credentials")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", errors.New("invalid credentials")
	}
	return signToken(user.ID, user.Role)
}

func signToken(userID, role string) (string, error) {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		return "", errors.New("JWT_SECRET not set")
	}
	claims := jwt.MapClaims{
		"user_id": userID,
		"role":    role,
		"exp":     time.Now().Add(24 * time.Hour).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}
