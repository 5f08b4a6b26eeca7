// Package exercise holds the catalogue of exercises workout plans are built from.
package exercise

import (
	"errors"
	"net/url"
	"strings"
)

// MaxNameLength bounds exercise and muscle group names.
const MaxNameLength = 100

// Domain errors
var (
	ErrNotFound        = errors.New("exercise not found")
	ErrEmptyName       = errors.New("exercise name cannot be empty")
	ErrNameTooLong     = errors.New("exercise name cannot exceed 100 characters")
	ErrInvalidVideoURL = errors.New("exercise video url must be an http or https link")
	ErrInUse           = errors.New("exercise is used by a workout plan")
)

// Exercise is one movement staff can put in a workout plan.
type Exercise struct {
	ID          string
	Name        string
	MuscleGroup string
	VideoURL    string // optional demo link
}

// Validate checks if the Exercise has valid data.
// PRE: Exercise struct is initialized
// POST: Returns error if validation fails, nil otherwise
func (e *Exercise) Validate() error {
	if strings.TrimSpace(e.Name) == "" {
		return ErrEmptyName
	}
	if len(e.Name) > MaxNameLength || len(e.MuscleGroup) > MaxNameLength {
		return ErrNameTooLong
	}
	if e.VideoURL != "" {
		u, err := url.Parse(e.VideoURL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return ErrInvalidVideoURL
		}
	}
	return nil
}
