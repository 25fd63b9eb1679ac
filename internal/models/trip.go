package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// RecordID is a store-assigned record identifier. Stores may hand out numeric
// or textual keys; both decode into the same string form.
type RecordID string

// UnmarshalJSON accepts either a JSON string or a JSON number
func (id *RecordID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}

	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = RecordID(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("invalid record id %s: %w", string(data), err)
	}
	*id = RecordID(n.String())
	return nil
}

// Trip represents a persisted trip row in the trips table
type Trip struct {
	ID          RecordID        `json:"id" db:"id"`
	UserID      string          `json:"user_id" db:"user_id"`
	Destination *string         `json:"destination" db:"destination"`
	StartDate   *string         `json:"start_date" db:"start_date"`
	EndDate     *string         `json:"end_date" db:"end_date"`
	Itinerary   json.RawMessage `json:"itinerary" db:"-"`
	CreatedAt   time.Time       `json:"created_at" db:"created_at"`
}

// TripInput holds the fields this service writes; the store assigns id and created_at
type TripInput struct {
	UserID      string          `json:"user_id"`
	Destination *string         `json:"destination"`
	StartDate   *string         `json:"start_date"`
	EndDate     *string         `json:"end_date"`
	Itinerary   json.RawMessage `json:"itinerary"`
}

// NewTripInput builds a trip row from external request fields.
// Empty optional fields are stored as null.
func NewTripInput(userID, destination, startDate, endDate string, itinerary json.RawMessage) *TripInput {
	return &TripInput{
		UserID:      userID,
		Destination: NullableString(destination),
		StartDate:   NullableString(startDate),
		EndDate:     NullableString(endDate),
		Itinerary:   itinerary,
	}
}

// Validate validates the trip input before it is written
func (t *TripInput) Validate() error {
	if strings.TrimSpace(t.UserID) == "" {
		return fmt.Errorf("user_id is required")
	}
	if IsMissingJSON(t.Itinerary) {
		return fmt.Errorf("itinerary is required")
	}
	if !json.Valid(t.Itinerary) {
		return fmt.Errorf("itinerary must be valid JSON")
	}
	return nil
}

// IsNullJSON reports whether raw is absent or the JSON literal null
func IsNullJSON(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}

// IsMissingJSON reports whether raw is absent, null, or one of the empty
// scalars "", false and 0. Such values do not count as a supplied itinerary.
func IsMissingJSON(raw json.RawMessage) bool {
	if IsNullJSON(raw) {
		return true
	}

	trimmed := bytes.TrimSpace(raw)
	switch trimmed[0] {
	case '"':
		var s string
		return json.Unmarshal(trimmed, &s) == nil && s == ""
	case 'f':
		return bytes.Equal(trimmed, []byte("false"))
	case '-', '0', '1', '2', '3', '4', '5', '6', '7', '8', '9':
		n, err := strconv.ParseFloat(string(trimmed), 64)
		return err == nil && n == 0
	}
	return false
}

// NullableString returns nil for an empty string
func NullableString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
