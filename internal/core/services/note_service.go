package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/strideapp/stride-engine/internal/core/domain"
)

type NoteService struct {
	notes  domain.NoteRepository
	events domain.EventRepository
}

func NewNoteService(notes domain.NoteRepository, events domain.EventRepository) *NoteService {
	return &NoteService{
		notes:  notes,
		events: events,
	}
}

type CreateNoteInput struct {
	OwnerID       string
	Content       string
	DateKey       string // empty means today in the caller's local frame
	OffsetMinutes int
}

func (s *NoteService) Create(ctx context.Context, input CreateNoteInput) (*domain.TimelineNote, error) {
	dateKey := input.DateKey
	if dateKey == "" {
		dateKey = domain.ToDateKey(time.Now().UTC(), input.OffsetMinutes)
	} else if _, err := domain.ParseDateKey(dateKey); err != nil {
		return nil, err
	}

	note, err := domain.NewTimelineNote(input.OwnerID, dateKey, input.Content)
	if err != nil {
		return nil, err
	}

	if err := s.notes.Create(ctx, note); err != nil {
		return nil, fmt.Errorf("note service: create failed: %w", err)
	}

	event := domain.NewTimelineEvent(input.OwnerID, dateKey, domain.EventTypeNote, nil, domain.NotePayload{
		NoteID:  note.ID,
		Content: note.Content,
	})
	if err := s.events.Append(ctx, event); err != nil {
		return nil, fmt.Errorf("note service: note event failed: %w", err)
	}

	return note, nil
}

// Delete removes the note row and the feed event that references it.
// Deleting a note that is already gone is a no-op.
func (s *NoteService) Delete(ctx context.Context, ownerID, id string) error {
	if _, err := s.notes.GetByID(ctx, ownerID, id); err != nil {
		if errors.Is(err, domain.ErrNoteNotFound) {
			return nil
		}
		return err
	}

	if err := s.notes.Delete(ctx, ownerID, id); err != nil {
		return fmt.Errorf("note service: delete failed: %w", err)
	}
	if err := s.events.DeleteNoteEvents(ctx, ownerID, id); err != nil {
		return fmt.Errorf("note service: event cleanup failed: %w", err)
	}
	return nil
}
