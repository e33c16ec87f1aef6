package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrHabitNotFound      = errors.New("habit not found")
	ErrHabitNameEmpty     = errors.New("habit name cannot be empty")
	ErrHabitNameTooLong   = errors.New("habit name is too long (max 100 chars)")
	ErrCategoryTooLong    = errors.New("habit category is too long (max 50 chars)")
	ErrInvalidFrequency   = errors.New("frequency must be one of daily, weekly, custom")
	ErrDuplicateHabitName = errors.New("you already have a habit with this name")
	ErrHabitInvalidUserID = errors.New("invalid user id")
)

const (
	FrequencyDaily  = "daily"
	FrequencyWeekly = "weekly"
	FrequencyCustom = "custom"

	MaxHabitNameLen = 100
	MaxCategoryLen  = 50
	MaxTags         = 10
)

type Habit struct {
	ID        string    `json:"id" db:"id"`
	UserID    string    `json:"user_id" db:"user_id"`
	Name      string    `json:"name" db:"name"`
	Category  string    `json:"category,omitempty" db:"category"`
	Frequency string    `json:"frequency" db:"frequency"`
	Tags      []string  `json:"tags" db:"-"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// NormalizeTags lowercases, trims, dedupes and caps a tag list.
func NormalizeTags(tags []string) []string {
	if len(tags) == 0 {
		return nil
	}

	seen := make(map[string]bool)
	var clean []string
	for _, t := range tags {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		clean = append(clean, t)
		if len(clean) == MaxTags {
			break
		}
	}
	return clean
}

func ValidFrequency(freq string) bool {
	switch freq {
	case FrequencyDaily, FrequencyWeekly, FrequencyCustom:
		return true
	}
	return false
}

func validateHabit(name, category, frequency string) (string, string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", "", ErrHabitNameEmpty
	}
	if len(name) > MaxHabitNameLen {
		return "", "", ErrHabitNameTooLong
	}

	category = strings.TrimSpace(category)
	if len(category) > MaxCategoryLen {
		return "", "", ErrCategoryTooLong
	}

	if !ValidFrequency(frequency) {
		return "", "", ErrInvalidFrequency
	}

	return name, category, nil
}

func NewHabit(userID, name, category, frequency string, tags []string) (*Habit, error) {
	if userID == "" {
		return nil, ErrHabitInvalidUserID
	}

	if frequency == "" {
		frequency = FrequencyDaily
	}

	cleanName, cleanCategory, err := validateHabit(name, category, frequency)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()

	return &Habit{
		ID:        uuid.NewString(),
		UserID:    userID,
		Name:      cleanName,
		Category:  cleanCategory,
		Frequency: frequency,
		Tags:      NormalizeTags(tags),
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

func (h *Habit) Update(name, category, frequency string, tags []string) error {
	if frequency == "" {
		frequency = h.Frequency
	}

	cleanName, cleanCategory, err := validateHabit(name, category, frequency)
	if err != nil {
		return err
	}

	h.Name = cleanName
	h.Category = cleanCategory
	h.Frequency = frequency
	if tags != nil {
		h.Tags = NormalizeTags(tags)
	}
	h.UpdatedAt = time.Now().UTC()

	return nil
}
