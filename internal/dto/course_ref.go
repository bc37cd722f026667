package dto

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// CourseRef is a course reference as supplied by clients. Older clients send
// the raw numeric id, newer ones send the expanded course object; both resolve
// to the same canonical identifier before any lookup happens.
type CourseRef struct {
	ID uint
}

// UnmarshalJSON accepts a number, a numeric string, or an object carrying an
// "id" field.
func (r *CourseRef) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "" || trimmed == "null" {
		r.ID = 0
		return nil
	}

	var numeric uint
	if err := json.Unmarshal(data, &numeric); err == nil {
		r.ID = numeric
		return nil
	}

	var text string
	if err := json.Unmarshal(data, &text); err == nil {
		parsed, err := strconv.ParseUint(strings.TrimSpace(text), 10, 64)
		if err != nil {
			return fmt.Errorf("invalid course reference %q", text)
		}
		r.ID = uint(parsed)
		return nil
	}

	var expanded struct {
		ID uint `json:"id"`
	}
	if err := json.Unmarshal(data, &expanded); err != nil {
		return fmt.Errorf("invalid course reference: %w", err)
	}

	r.ID = expanded.ID
	return nil
}

// MarshalJSON writes the canonical numeric id.
func (r CourseRef) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.ID)
}
