package event

import (
	"database/sql/driver"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Registration is one user's entry in an event roster. It lives in exactly
// one of the event's two sequences; Status mirrors which one.
type Registration struct {
	UserID          uuid.UUID `json:"user_id"`
	DisplayName     string    `json:"display_name"`
	Status          Status    `json:"status"`
	ConfirmationRef ViewRef   `json:"confirmation_ref,omitempty"`
	JoinedAt        time.Time `json:"joined_at"`
}

// NewRegistration creates a registration with the given identity snapshot.
func NewRegistration(userID uuid.UUID, displayName string, status Status) *Registration {
	return &Registration{
		UserID:      userID,
		DisplayName: displayName,
		Status:      status,
		JoinedAt:    time.Now().UTC(),
	}
}

// ViewRef is an opaque reference to an external notification view. The core
// stores and replays it but never interprets its contents.
type ViewRef string

// None reports whether the reference is absent (delivery never succeeded).
func (r ViewRef) None() bool {
	return r == ""
}

// Status represents which roster sequence holds a registration
type Status byte

const (
	StatusAttending Status = iota
	StatusWaitlisted
)

func (s Status) String() string {
	switch s {
	case StatusAttending:
		return "attending"
	case StatusWaitlisted:
		return "waitlisted"
	default:
		return "unknown"
	}
}

// MarshalJSON implements the json.Marshaler interface
func (s Status) MarshalJSON() ([]byte, error) {
	return []byte(`"` + s.String() + `"`), nil
}

// UnmarshalJSON implements the json.Unmarshaler interface
func (s *Status) UnmarshalJSON(data []byte) error {
	str := string(data)
	if len(str) >= 2 && str[0] == '"' && str[len(str)-1] == '"' {
		str = str[1 : len(str)-1]
	}

	status, valid := StatusFromString(str)
	if !valid {
		return fmt.Errorf("invalid status: %s", str)
	}
	*s = status
	return nil
}

// StatusFromString converts a string to a Status
func StatusFromString(s string) (Status, bool) {
	switch s {
	case "attending":
		return StatusAttending, true
	case "waitlisted":
		return StatusWaitlisted, true
	default:
		return StatusAttending, false
	}
}

// Scan implements the sql.Scanner interface for database deserialization
func (s *Status) Scan(value interface{}) error {
	if value == nil {
		*s = StatusAttending
		return nil
	}

	var str string
	switch v := value.(type) {
	case string:
		str = v
	case []byte:
		str = string(v)
	default:
		return fmt.Errorf("cannot scan %T into Status", value)
	}

	status, valid := StatusFromString(str)
	if !valid {
		return fmt.Errorf("invalid status value: %s", str)
	}
	*s = status
	return nil
}

// Value implements the driver.Valuer interface for database serialization
func (s Status) Value() (driver.Value, error) {
	return s.String(), nil
}
