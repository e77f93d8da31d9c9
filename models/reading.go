package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Reading is a parameter value as reported by a kit. It keeps the stored
// representation ("7.2", "N/A", "") and only becomes a number through Float.
type Reading string

// Float parses the reading. ok is false for empty or non-numeric values.
func (r Reading) Float() (v float64, ok bool) {
	s := strings.TrimSpace(string(r))
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// NewReading formats a float the shortest way that round-trips.
func NewReading(v float64) Reading {
	return Reading(strconv.FormatFloat(v, 'f', -1, 64))
}

// UnmarshalJSON accepts JSON numbers, strings and null.
func (r *Reading) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case len(b) == 0 || bytes.Equal(b, []byte("null")):
		*r = ""
		return nil
	case b[0] == '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*r = Reading(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("Reading.UnmarshalJSON: %s is neither number nor string", b)
	}
	*r = Reading(n.String())
	return nil
}

// MarshalJSON emits numbers as numbers and anything else as a string.
func (r Reading) MarshalJSON() ([]byte, error) {
	if v, ok := r.Float(); ok {
		return json.Marshal(v)
	}
	if r == "" {
		return []byte("null"), nil
	}
	return json.Marshal(string(r))
}
