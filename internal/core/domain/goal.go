package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrTitleRequired      = errors.New("title_required")
	ErrDailyTargetInvalid = errors.New("daily_target_invalid")
	ErrGoalNotFound       = errors.New("goal_not_found")
)

const (
	DefaultGoalIcon   = "Target"
	DefaultGoalColor  = "#10b981"
	DefaultGoalTarget = 1
)

type Goal struct {
	ID           string    `json:"id" db:"id"`
	OwnerID      string    `json:"owner_id" db:"owner_id"`
	Title        string    `json:"title" db:"title"`
	Description  string    `json:"description,omitempty" db:"description"`
	TargetPerDay int       `json:"target_per_day" db:"target_per_day"`
	Icon         string    `json:"icon" db:"icon"`
	Color        string    `json:"color" db:"color"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

// NewGoal builds a goal with defaults applied: an unset or non-positive daily
// target falls back to 1, icon and color fall back to the stock palette.
func NewGoal(ownerID, title, description, icon, color string, targetPerDay int) (*Goal, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, ErrTitleRequired
	}

	if targetPerDay < 1 {
		targetPerDay = DefaultGoalTarget
	}
	if strings.TrimSpace(icon) == "" {
		icon = DefaultGoalIcon
	}
	if strings.TrimSpace(color) == "" {
		color = DefaultGoalColor
	}

	now := time.Now().UTC()

	return &Goal{
		ID:           uuid.NewString(),
		OwnerID:      ownerID,
		Title:        title,
		Description:  strings.TrimSpace(description),
		TargetPerDay: targetPerDay,
		Icon:         icon,
		Color:        color,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

// GoalPatch carries a partial update; nil fields are left untouched.
type GoalPatch struct {
	Title        *string
	Description  *string
	Icon         *string
	Color        *string
	TargetPerDay *int
}

// Apply validates and merges a patch. Empty icon/color reset to defaults, an
// empty resulting title or a non-positive target is rejected.
func (g *Goal) Apply(p GoalPatch) error {
	if p.Title != nil {
		title := strings.TrimSpace(*p.Title)
		if title == "" {
			return ErrTitleRequired
		}
		g.Title = title
	}
	if p.TargetPerDay != nil {
		if *p.TargetPerDay < 1 {
			return ErrDailyTargetInvalid
		}
		g.TargetPerDay = *p.TargetPerDay
	}
	if p.Description != nil {
		g.Description = strings.TrimSpace(*p.Description)
	}
	if p.Icon != nil {
		icon := strings.TrimSpace(*p.Icon)
		if icon == "" {
			icon = DefaultGoalIcon
		}
		g.Icon = icon
	}
	if p.Color != nil {
		color := strings.TrimSpace(*p.Color)
		if color == "" {
			color = DefaultGoalColor
		}
		g.Color = color
	}

	g.UpdatedAt = time.Now().UTC()
	return nil
}

// ActiveOn reports whether the goal existed on the given local date: a goal
// counts from the local day it was created on.
func (g *Goal) ActiveOn(dateKey string, offsetMinutes int) bool {
	created := ToDateKey(g.CreatedAt, offsetMinutes)
	return created != "" && created <= dateKey
}
