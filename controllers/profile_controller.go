package controllers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/iismail06/Skincare-tracker-SKYN/logger"
	"github.com/iismail06/Skincare-tracker-SKYN/middleware"
	"github.com/iismail06/Skincare-tracker-SKYN/models"

	"gorm.io/gorm"
)

type ProfileController struct {
	db *gorm.DB
}

func NewProfileController(db *gorm.DB) *ProfileController {
	return &ProfileController{db: db}
}

type profileRequest struct {
	DateOfBirth     string `json:"date_of_birth,omitempty"` // YYYY-MM-DD
	AgeRange        string `json:"age_range"`
	SkinType        string `json:"skin_type"`
	SkinConcerns    string `json:"skin_concerns"`
	MainConcern     string `json:"main_concern"`
	CurrentRoutine  string `json:"current_routine"`
	MainGoal        string `json:"main_goal"`
	AdditionalNotes string `json:"additional_notes"`
	PrefersNatural  bool   `json:"prefers_natural"`
}

// Get returns the user's profile, creating an empty one on first access.
func (c *ProfileController) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var profile models.UserProfile
	err := c.db.Where(models.UserProfile{UserID: userID}).FirstOrCreate(&profile).Error
	if err != nil {
		logger.Error("Failed to load profile", "user_id", userID, "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to load profile")
		return
	}

	writeJSON(w, http.StatusOK, profile)
}

// Update creates or overwrites the user's profile answers.
func (c *ProfileController) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req profileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	var dob *time.Time
	if req.DateOfBirth != "" {
		parsed, err := time.Parse("2006-01-02", req.DateOfBirth)
		if err != nil {
			writeError(w, http.StatusBadRequest, "date_of_birth must be YYYY-MM-DD")
			return
		}
		dob = &parsed
	}

	var profile models.UserProfile
	if err := c.db.Where(models.UserProfile{UserID: userID}).FirstOrCreate(&profile).Error; err != nil {
		logger.Error("Failed to load profile", "user_id", userID, "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to save profile")
		return
	}

	profile.DateOfBirth = dob
	profile.AgeRange = req.AgeRange
	profile.SkinType = req.SkinType
	profile.SkinConcerns = req.SkinConcerns
	profile.MainConcern = req.MainConcern
	profile.CurrentRoutine = req.CurrentRoutine
	profile.MainGoal = req.MainGoal
	profile.AdditionalNotes = req.AdditionalNotes
	profile.PrefersNatural = req.PrefersNatural

	if err := c.db.Save(&profile).Error; err != nil {
		logger.Error("Failed to save profile", "user_id", userID, "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to save profile")
		return
	}

	logger.Info("Profile saved", "user_id", userID)
	writeJSON(w, http.StatusOK, profile)
}
