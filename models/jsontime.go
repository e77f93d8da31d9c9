package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// JSONTime accepts the timestamp shapes kits and forms send us and always
// writes RFC3339 back out.
type JSONTime time.Time

var jsonTimeLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseJSONTime tries each accepted layout in order.
func ParseJSONTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range jsonTimeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("JSONTime: cannot parse %q", s)
}

func (jt *JSONTime) UnmarshalJSON(b []byte) error {
	s := string(b)
	if s == "null" {
		*jt = JSONTime(time.Time{})
		return nil
	}
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = s[1 : len(s)-1]
	}
	if s == "" {
		*jt = JSONTime(time.Time{})
		return nil
	}
	t, err := ParseJSONTime(s)
	if err != nil {
		return err
	}
	*jt = JSONTime(t)
	return nil
}

func (jt JSONTime) MarshalJSON() ([]byte, error) {
	t := time.Time(jt)
	if t.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(t.Format(time.RFC3339))
}

// Time converts back to time.Time.
func (jt JSONTime) Time() time.Time {
	return time.Time(jt)
}

// Value implements driver.Valuer.
func (jt JSONTime) Value() (driver.Value, error) {
	t := time.Time(jt)
	if t.IsZero() {
		return nil, nil
	}
	return t, nil
}

// Scan implements sql.Scanner.
func (jt *JSONTime) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*jt = JSONTime(time.Time{})
		return nil
	case time.Time:
		*jt = JSONTime(v)
		return nil
	case []byte:
		return jt.scanString(string(v))
	case string:
		return jt.scanString(v)
	default:
		return fmt.Errorf("JSONTime.Scan: unsupported type %T", src)
	}
}

func (jt *JSONTime) scanString(s string) error {
	t, err := ParseJSONTime(s)
	if err != nil {
		return err
	}
	*jt = JSONTime(t)
	return nil
}
