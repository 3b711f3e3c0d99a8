package catalog

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

var (
	// ErrNotFound means the entity or short link does not exist (or expired).
	ErrNotFound = errors.New("not found or expired")

	// ErrInvalid means the backend answered with a payload of the wrong shape.
	ErrInvalid = errors.New("invalid link")

	// ErrNetwork covers transport failures and any other non-2xx answer.
	ErrNetwork = errors.New("network failure")

	ErrUnknownType = errors.New("unknown entity type")
)

// EntityType tags a resolvable entity.
type EntityType string

const (
	EntityEvent EntityType = "event"
	EntityClub  EntityType = "club"
)

// ParseEntityType validates a raw entity type.
func ParseEntityType(s string) (EntityType, error) {
	switch t := EntityType(s); t {
	case EntityEvent, EntityClub:
		return t, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownType, s)
	}
}

// Entity is a tagged union of Event and Club. Exactly one of Event or Club is
// set and it always agrees with Type.
type Entity struct {
	Type  EntityType
	Event *Event
	Club  *Club

	// Raw is the payload as received from the backend.
	Raw json.RawMessage
}

// ID returns the identifier of the wrapped entity.
func (e Entity) ID() string {
	switch e.Type {
	case EntityEvent:
		return e.Event.ID
	case EntityClub:
		return e.Club.ID
	}

	return ""
}

// Name returns a display name for the wrapped entity.
func (e Entity) Name() string {
	switch e.Type {
	case EntityEvent:
		return e.Event.Title
	case EntityClub:
		return e.Club.Name
	}

	return ""
}

// DecodeEntity decodes raw as the shape declared by t and rejects payloads
// that lack the fields required for that shape.
func DecodeEntity(t EntityType, raw json.RawMessage) (Entity, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return Entity{}, fmt.Errorf("%w: %s data is not an object", ErrInvalid, t)
	}

	entity := Entity{Type: t, Raw: raw}

	switch t {
	case EntityEvent:
		var event Event
		if err := json.Unmarshal(raw, &event); err != nil {
			return Entity{}, fmt.Errorf("%w: %w", ErrInvalid, err)
		}

		if event.ID == "" || event.Title == "" || event.Date == "" {
			return Entity{}, fmt.Errorf("%w: event data requires id, title and date", ErrInvalid)
		}

		entity.Event = &event
	case EntityClub:
		var club Club
		if err := json.Unmarshal(raw, &club); err != nil {
			return Entity{}, fmt.Errorf("%w: %w", ErrInvalid, err)
		}

		if club.ID == "" || club.Name == "" {
			return Entity{}, fmt.Errorf("%w: club data requires id and name", ErrInvalid)
		}

		entity.Club = &club
	default:
		return Entity{}, fmt.Errorf("%w: %w %q", ErrInvalid, ErrUnknownType, t)
	}

	return entity, nil
}

// ResolvedLink is a short link resolved to its entity.
type ResolvedLink struct {
	ShortLink
	Entity Entity
}
