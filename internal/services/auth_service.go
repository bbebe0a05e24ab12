package services

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/lib/pq"
	"github.com/sirupsen/logrus"

	"github.com/chekline/backend/internal/models"
)

// AuthService handles registration and login.
type AuthService struct {
	db        *sql.DB
	hasher    *PasswordHasher
	tokens    *TokenService
	validator *ValidationHelper
}

// RegisterRequest represents the registration request payload
// @Description Registration request structure
type RegisterRequest struct {
	Username string `json:"username" validate:"required,min=3,max=64" example:"boris"`
	FullName string `json:"full_name" validate:"required,min=1,max=128" example:"Boris Johnsoniuk"`
	Password string `json:"password" validate:"required,min=8,max=72" example:"password123"`
}

// TokenResponse represents a successful login response
// @Description Bearer token response structure
type TokenResponse struct {
	AccessToken string `json:"access_token" example:"eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9..."`
	TokenType   string `json:"token_type" example:"bearer"`
}

func NewAuthService(db *sql.DB, hasher *PasswordHasher, tokens *TokenService) *AuthService {
	return &AuthService{
		db:        db,
		hasher:    hasher,
		tokens:    tokens,
		validator: NewValidationHelper(),
	}
}

// Register handles user registration
// @Summary Register a new user
// @Description Register a new user with username, full name and password
// @Tags auth
// @Accept json
// @Produce json
// @Param request body RegisterRequest true "Registration request"
// @Success 201 {object} models.User "Registration successful"
// @Failure 400 {object} ErrorResponse "Invalid request"
// @Failure 409 {object} ErrorResponse "Username already registered"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Router /auth/register [post]
func (s *AuthService) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := DecodeStrictJSON(w, r, &req); err != nil {
		logrus.Warnf("[AUTH] Registration failed, invalid request: %v", err)
		SendErrorResponse(w, "Invalid request", http.StatusBadRequest, nil)
		return
	}

	if err := s.validator.ValidateStruct(&req); err != nil {
		logrus.Warnf("[AUTH] Registration validation failed: %v", err)
		SendErrorResponse(w, "Validation failed", http.StatusBadRequest, err)
		return
	}

	hashedPassword, err := s.hasher.Hash(req.Password)
	if err != nil {
		logrus.Errorf("[AUTH] Password hashing failed for %s: %v", req.Username, err)
		SendErrorResponse(w, "An Internal Error Occurred", http.StatusInternalServerError, nil)
		return
	}

	user := models.User{
		Username: strings.ToLower(req.Username),
		FullName: req.FullName,
	}

	// No pre-check read: the unique constraint is the single source of
	// truth for username uniqueness.
	err = s.db.QueryRow(`
        INSERT INTO users (username, full_name, password_hash)
        VALUES ($1, $2, $3)
        RETURNING id, created_at
    `, user.Username, user.FullName, hashedPassword).Scan(&user.ID, &user.CreatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			logrus.Warnf("[AUTH] Username already registered: %s", user.Username)
			SendErrorResponse(w, ErrUsernameTaken.Error(), http.StatusConflict, nil)
			return
		}
		logrus.Errorf("[AUTH] User creation failed for %s: %v", user.Username, err)
		SendErrorResponse(w, "Failed to create user", http.StatusInternalServerError, nil)
		return
	}

	logrus.Infof("[AUTH] User created, id: %d, username: %s", user.ID, user.Username)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(user)
}

// Login handles user authentication
// @Summary Login user
// @Description Authenticate with username and password form fields
// @Tags auth
// @Accept x-www-form-urlencoded
// @Produce json
// @Param username formData string true "Username"
// @Param password formData string true "Password"
// @Success 200 {object} TokenResponse "Login successful"
// @Failure 400 {object} ErrorResponse "Invalid credentials"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Router /auth/login [post]
func (s *AuthService) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		SendErrorResponse(w, "Invalid request", http.StatusBadRequest, nil)
		return
	}

	username := strings.ToLower(r.PostFormValue("username"))
	password := r.PostFormValue("password")
	if username == "" || password == "" {
		SendErrorResponse(w, "Invalid credentials", http.StatusBadRequest, nil)
		return
	}

	var user models.User
	err := s.db.QueryRow(`
        SELECT id, username, full_name, password_hash, created_at
        FROM users
        WHERE username = $1
    `, username).Scan(&user.ID, &user.Username, &user.FullName, &user.PasswordHash, &user.CreatedAt)

	// A missing user and a wrong password produce the same response.
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			logrus.Errorf("[AUTH] User lookup failed for %s: %v", username, err)
			SendErrorResponse(w, "An Internal Error Occurred", http.StatusInternalServerError, nil)
			return
		}
		logrus.Warnf("[AUTH] Login failed, unknown user: %s", username)
		SendErrorResponse(w, "Invalid credentials", http.StatusBadRequest, nil)
		return
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		logrus.Warnf("[AUTH] Login failed, wrong password for: %s", username)
		SendErrorResponse(w, "Invalid credentials", http.StatusBadRequest, nil)
		return
	}

	token, err := s.tokens.Issue(user.Username)
	if err != nil {
		logrus.Errorf("[AUTH] Token generation failed for %s: %v", username, err)
		SendErrorResponse(w, "Failed to generate token", http.StatusInternalServerError, nil)
		return
	}

	logrus.Infof("[AUTH] Login successful for user %d", user.ID)
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(TokenResponse{
		AccessToken: token,
		TokenType:   "bearer",
	})
}
