package models

import (
	"time"

	"gorm.io/gorm"
)

// Routine types. Morning and evening are the two daily-tracked types that feed
// the dashboard progress and streak numbers.
const (
	RoutineMorning  = "morning"
	RoutineEvening  = "evening"
	RoutineWeekly   = "weekly"
	RoutineMonthly  = "monthly"
	RoutineHair     = "hair"
	RoutineBody     = "body"
	RoutineSpecial  = "special"
	RoutineSeasonal = "seasonal"
)

// Step tracking frequencies.
const (
	FrequencyDaily   = "daily"
	FrequencyWeekly  = "weekly"
	FrequencyMonthly = "monthly"
)

// RoutineTypes lists every valid routine type.
var RoutineTypes = []string{
	RoutineMorning, RoutineEvening, RoutineWeekly, RoutineMonthly,
	RoutineHair, RoutineBody, RoutineSpecial, RoutineSeasonal,
}

// ProductTypes lists every valid product category.
var ProductTypes = []string{
	"cleanser", "toner", "serum", "moisturizer", "sunscreen", "exfoliant",
	"mask", "eye_cream", "oil", "essence", "spot_treatment", "retinol",
	"vitamin_c", "other",
}

// User represents an authenticated user in the system.
type User struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	Email        string         `gorm:"size:255;uniqueIndex;not null" json:"email"`
	Username     string         `gorm:"size:150" json:"username"`
	PasswordHash string         `gorm:"size:255;not null" json:"-"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`

	Profile  *UserProfile `json:"profile,omitempty"`
	Products []Product    `json:"products,omitempty"`
	Routines []Routine    `json:"routines,omitempty"`
}

// UserProfile holds the onboarding questionnaire answers for one user.
type UserProfile struct {
	ID              uint       `gorm:"primaryKey" json:"id"`
	UserID          uint       `gorm:"not null;uniqueIndex" json:"user_id"`
	DateOfBirth     *time.Time `json:"date_of_birth,omitempty"`
	AgeRange        string     `gorm:"size:20" json:"age_range"`                  // under_16, 16_24, 25_30, 31_40, 41_50, above_50
	SkinType        string     `gorm:"size:50" json:"skin_type"`                  // oily, dry, combination, sensitive, normal
	SkinConcerns    string     `gorm:"type:text" json:"skin_concerns"`
	MainConcern     string     `gorm:"size:50" json:"main_concern"`               // acne, dryness, aging, sensitivity, oiliness
	CurrentRoutine  string     `gorm:"size:20" json:"current_routine"`            // none, basic, moderate, extensive
	MainGoal        string     `gorm:"size:50" json:"main_goal"`                  // clear_skin, moisturized, anti_aging, simple_routine
	AdditionalNotes string     `gorm:"type:text" json:"additional_notes"`
	PrefersNatural  bool       `gorm:"default:false" json:"prefers_natural"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// Product is a skincare product in a user's catalog. A user cannot hold two
// products with the same name and brand. Deletes are hard deletes so the
// (user, name, brand) slot frees up for a later re-add.
type Product struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	UserID      uint       `gorm:"not null;uniqueIndex:idx_user_name_brand" json:"user_id"`
	Name        string     `gorm:"size:200;not null;uniqueIndex:idx_user_name_brand" json:"name"`
	Brand       string     `gorm:"size:100;not null;uniqueIndex:idx_user_name_brand" json:"brand"`
	ProductType string     `gorm:"size:20;not null" json:"product_type"`
	Notes       string     `gorm:"type:text" json:"notes"`
	Ingredients string     `gorm:"type:text" json:"ingredients"`
	Description string     `gorm:"type:text" json:"description"`
	Rating      *int       `json:"rating,omitempty"` // 1-5
	ExpiryDate  *time.Time `json:"expiry_date,omitempty"`
	IsFavorite  bool       `gorm:"default:false" json:"is_favorite"`
	SkinType    string     `gorm:"size:50" json:"skin_type"`
	ExternalID  string     `gorm:"size:255;index" json:"external_id,omitempty"` // Open Beauty Facts ID for imported rows
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// Routine is a named, typed, ordered collection of steps belonging to one user.
type Routine struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	UserID      uint      `gorm:"not null;index" json:"user_id"`
	Name        string    `gorm:"size:100;not null" json:"name"`
	RoutineType string    `gorm:"size:10;not null" json:"routine_type"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	Steps []RoutineStep `json:"steps,omitempty"`
}

// IsDailyTracked reports whether the routine counts toward daily progress and
// streaks (only morning and evening routines do).
func (r *Routine) IsDailyTracked() bool {
	return r.RoutineType == RoutineMorning || r.RoutineType == RoutineEvening
}

// StepFrequency returns the tracking frequency steps of this routine carry,
// derived from the routine type regardless of what was submitted.
func (r *Routine) StepFrequency() string {
	switch r.RoutineType {
	case RoutineWeekly:
		return FrequencyWeekly
	case RoutineMonthly:
		return FrequencyMonthly
	default:
		return FrequencyDaily
	}
}

// RoutineStep is one action within a routine. The routine owns its steps;
// the product link is a weak reference and is nulled when the product goes away.
type RoutineStep struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	RoutineID uint      `gorm:"not null;index" json:"routine_id"`
	StepName  string    `gorm:"size:200;not null" json:"step_name"`
	Order     int       `gorm:"column:step_order;not null" json:"order"`
	Frequency string    `gorm:"size:10;not null;default:'daily'" json:"frequency"`
	ProductID *uint     `gorm:"index" json:"product_id,omitempty"`
	Completed bool      `gorm:"default:false" json:"completed"` // transient UI flag; DailyCompletion is the record
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Product *Product `gorm:"foreignKey:ProductID" json:"product,omitempty"`
}

// DailyCompletion records whether a step was done on a given calendar day.
// One row per (user, step, day), created lazily the first time the day's
// status for the step is touched, never pruned.
type DailyCompletion struct {
	ID            uint       `gorm:"primaryKey" json:"id"`
	UserID        uint       `gorm:"not null;uniqueIndex:idx_user_step_date" json:"user_id"`
	RoutineStepID uint       `gorm:"not null;uniqueIndex:idx_user_step_date" json:"routine_step_id"`
	Date          time.Time  `gorm:"type:date;not null;uniqueIndex:idx_user_step_date" json:"date"`
	Completed     bool       `gorm:"default:false" json:"completed"`
	CompletedAt   *time.Time `json:"completed_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// ValidRoutineType reports whether t is one of the known routine types.
func ValidRoutineType(t string) bool {
	for _, v := range RoutineTypes {
		if v == t {
			return true
		}
	}
	return false
}

// ValidProductType reports whether t is one of the known product categories.
func ValidProductType(t string) bool {
	for _, v := range ProductTypes {
		if v == t {
			return true
		}
	}
	return false
}
