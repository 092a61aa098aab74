package event

import (
	"database/sql/driver"
	"fmt"
	"strconv"
)

// Capacity is the admission limit of an event: either a finite positive
// number of seats or unbounded.
type Capacity struct {
	limit     int
	unbounded bool
}

// Unbounded returns a capacity without an admission limit.
func Unbounded() Capacity {
	return Capacity{unbounded: true}
}

// Limited returns a finite capacity. The limit must be positive.
func Limited(limit int) (Capacity, error) {
	if limit <= 0 {
		return Capacity{}, fmt.Errorf("%w: %d", ErrInvalidCapacity, limit)
	}
	return Capacity{limit: limit}, nil
}

// IsUnbounded reports whether the capacity has no admission limit.
func (c Capacity) IsUnbounded() bool {
	return c.unbounded
}

// Limit returns the finite seat count and false for unbounded capacities.
func (c Capacity) Limit() (int, bool) {
	if c.unbounded {
		return 0, false
	}
	return c.limit, true
}

// Admits reports whether an event with the given attendee count has room
// for one more admission.
func (c Capacity) Admits(attendees int) bool {
	return c.unbounded || attendees < c.limit
}

// Exceeds reports whether this capacity allows strictly more admissions
// than the other one.
func (c Capacity) Exceeds(other Capacity) bool {
	if c.unbounded {
		return !other.unbounded
	}
	if other.unbounded {
		return false
	}
	return c.limit > other.limit
}

func (c Capacity) String() string {
	if c.unbounded {
		return "unbounded"
	}
	return strconv.Itoa(c.limit)
}

// MarshalJSON implements the json.Marshaler interface
func (c Capacity) MarshalJSON() ([]byte, error) {
	if c.unbounded {
		return []byte(`"unbounded"`), nil
	}
	return []byte(strconv.Itoa(c.limit)), nil
}

// UnmarshalJSON implements the json.Unmarshaler interface
func (c *Capacity) UnmarshalJSON(data []byte) error {
	str := string(data)
	if str == `"unbounded"` || str == "null" {
		*c = Unbounded()
		return nil
	}
	limit, err := strconv.Atoi(str)
	if err != nil {
		return fmt.Errorf("invalid capacity: %s", str)
	}
	parsed, err := Limited(limit)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// Scan implements the sql.Scanner interface for database deserialization.
// Unbounded capacity is stored as NULL.
func (c *Capacity) Scan(value interface{}) error {
	if value == nil {
		*c = Unbounded()
		return nil
	}

	var limit int
	switch v := value.(type) {
	case int64:
		limit = int(v)
	case int:
		limit = v
	default:
		return fmt.Errorf("cannot scan %T into Capacity", value)
	}

	parsed, err := Limited(limit)
	if err != nil {
		return fmt.Errorf("invalid capacity value: %d", limit)
	}
	*c = parsed
	return nil
}

// Value implements the driver.Valuer interface for database serialization
func (c Capacity) Value() (driver.Value, error) {
	if c.unbounded {
		return nil, nil
	}
	return int64(c.limit), nil
}
