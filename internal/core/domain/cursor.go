package domain

import (
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// EventCursor is the keyset position for paginated event reads: the sort-key
// tuple of the last row the client has seen. It round-trips through an opaque
// base64 token.
type EventCursor struct {
	DateKey   string
	CreatedAt time.Time
	ID        int64
}

func (c EventCursor) Encode() string {
	raw := fmt.Sprintf("%s|%d|%d", c.DateKey, c.CreatedAt.UTC().UnixNano(), c.ID)
	return base64.URLEncoding.EncodeToString([]byte(raw))
}

// DecodeEventCursor parses a client-supplied cursor. Malformed tokens return
// nil: the caller restarts from the beginning instead of failing the request.
func DecodeEventCursor(token string) *EventCursor {
	if token == "" {
		return nil
	}

	raw, err := base64.URLEncoding.DecodeString(token)
	if err != nil {
		return nil
	}

	parts := strings.Split(string(raw), "|")
	if len(parts) != 3 {
		return nil
	}

	if _, err := ParseDateKey(parts[0]); err != nil {
		return nil
	}
	nanos, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil {
		return nil
	}
	id, err := strconv.ParseInt(parts[2], 10, 64)
	if err != nil {
		return nil
	}

	return &EventCursor{
		DateKey:   parts[0],
		CreatedAt: time.Unix(0, nanos).UTC(),
		ID:        id,
	}
}

// After reports whether the event sits strictly after the cursor position in
// the descending (date, createdAt, id) feed order, i.e. its tuple compares
// lower than the cursor's.
func (c EventCursor) After(e *TimelineEvent) bool {
	if e.DateKey != c.DateKey {
		return e.DateKey < c.DateKey
	}
	if !e.CreatedAt.Equal(c.CreatedAt) {
		return e.CreatedAt.Before(c.CreatedAt)
	}
	return e.ID < c.ID
}
