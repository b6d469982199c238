package domain

import (
	"errors"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

var (
	ErrContentRequired = errors.New("content_required")
	ErrContentTooLong  = errors.New("content_too_long")
	ErrNoteNotFound    = errors.New("note_not_found")
)

// MaxNoteLength bounds the effective character count of a note.
const MaxNoteLength = 280

var (
	noteURLRegex     = regexp.MustCompile(`https?://\S+`)
	noteMentionRegex = regexp.MustCompile(`@\w+`)
)

type TimelineNote struct {
	ID        string    `json:"id" db:"id"`
	OwnerID   string    `json:"owner_id" db:"owner_id"`
	DateKey   string    `json:"date" db:"date_key"`
	Content   string    `json:"content" db:"content"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// EffectiveLength counts the runes of content with URLs and @mentions blanked
// out. The surrounding whitespace still counts.
func EffectiveLength(content string) int {
	stripped := noteURLRegex.ReplaceAllString(content, "")
	stripped = noteMentionRegex.ReplaceAllString(stripped, "")
	return utf8.RuneCountInString(stripped)
}

func NewTimelineNote(ownerID, dateKey, content string) (*TimelineNote, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, ErrContentRequired
	}
	if EffectiveLength(content) > MaxNoteLength {
		return nil, ErrContentTooLong
	}

	return &TimelineNote{
		ID:        uuid.NewString(),
		OwnerID:   ownerID,
		DateKey:   dateKey,
		Content:   content,
		CreatedAt: time.Now().UTC(),
	}, nil
}
