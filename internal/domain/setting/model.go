package setting

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Well-known setting keys.
const (
	KeyGraceDays = "inactive_grace_days"
)

// DefaultGraceDays is used until an administrator saves a value.
const DefaultGraceDays = 5

// Domain errors
var (
	ErrNotFound         = errors.New("setting not found")
	ErrMissingKey       = errors.New("setting key is required")
	ErrInvalidGraceDays = errors.New("grace days must be a non-negative integer")
)

// Setting is a single system-wide key/value pair.
type Setting struct {
	Key   string
	Value string
}

// Validate checks the key is present and well-known keys carry valid values.
// PRE: Setting struct is initialized
// POST: Returns error if validation fails, nil otherwise
func (s *Setting) Validate() error {
	if strings.TrimSpace(s.Key) == "" {
		return ErrMissingKey
	}
	if s.Key == KeyGraceDays {
		if _, err := ParseGraceDays(s.Value); err != nil {
			return err
		}
	}
	return nil
}

// ParseGraceDays reads a stored grace-days value.
// PRE: none
// POST: Returns n >= 0, or ErrInvalidGraceDays
func ParseGraceDays(v string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidGraceDays, v)
	}
	if n < 0 {
		return 0, fmt.Errorf("%w: %d", ErrInvalidGraceDays, n)
	}
	return n, nil
}
