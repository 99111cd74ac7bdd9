package controllers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/iismail06/Skincare-tracker-SKYN/auth"
	"github.com/iismail06/Skincare-tracker-SKYN/logger"
	"github.com/iismail06/Skincare-tracker-SKYN/middleware"
	"github.com/iismail06/Skincare-tracker-SKYN/models"

	"gorm.io/gorm"
)

const tokenTTL = 7 * 24 * time.Hour

type AuthController struct {
	db *gorm.DB
}

func NewAuthController(db *gorm.DB) *AuthController {
	return &AuthController{db: db}
}

type registerRequest struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authResponse struct {
	Token string      `json:"token"`
	User  models.User `json:"user"`
}

// Register creates a new account and returns a session token.
func (c *AuthController) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	if req.Email == "" || !strings.Contains(req.Email, "@") {
		writeError(w, http.StatusBadRequest, "A valid email is required")
		return
	}
	if len(req.Password) < 8 {
		writeError(w, http.StatusBadRequest, "Password must be at least 8 characters")
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		logger.Error("Failed to hash password", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to create account")
		return
	}

	user := models.User{
		Email:        req.Email,
		Username:     strings.TrimSpace(req.Username),
		PasswordHash: hash,
	}
	if err := c.db.Create(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			writeError(w, http.StatusConflict, "An account with this email already exists")
			return
		}
		logger.Error("Failed to create user", "email", req.Email, "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to create account")
		return
	}

	token, err := auth.GenerateToken(middleware.JWTSecret(), user.ID, tokenTTL)
	if err != nil {
		logger.Error("Failed to issue token", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to create account")
		return
	}

	logger.Info("User registered", "user_id", user.ID)
	writeJSON(w, http.StatusCreated, authResponse{Token: token, User: user})
}

// Login checks credentials and returns a session token. Wrong email and wrong
// password produce the same response.
func (c *AuthController) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	var user models.User
	err := c.db.Where("email = ?", strings.TrimSpace(strings.ToLower(req.Email))).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		writeError(w, http.StatusUnauthorized, "Invalid email or password")
		return
	}
	if err != nil {
		logger.Error("Failed to look up user", "error", err)
		writeError(w, http.StatusInternalServerError, "Login failed")
		return
	}

	if err := auth.ComparePassword(user.PasswordHash, req.Password); err != nil {
		writeError(w, http.StatusUnauthorized, "Invalid email or password")
		return
	}

	token, err := auth.GenerateToken(middleware.JWTSecret(), user.ID, tokenTTL)
	if err != nil {
		logger.Error("Failed to issue token", "error", err)
		writeError(w, http.StatusInternalServerError, "Login failed")
		return
	}

	writeJSON(w, http.StatusOK, authResponse{Token: token, User: user})
}
