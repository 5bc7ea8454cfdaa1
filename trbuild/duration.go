package trbuild

import (
	"encoding/json"
	"fmt"
	"time"
)

// Duration is a time.Duration that is expressed in configuration as a
// string such as "100ms" or "3s".
type Duration time.Duration

// Std returns d as a time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// String returns a string representation of the duration.
func (d Duration) String() string {
	return time.Duration(d).String()
}

// MarshalJSON encodes the duration as a string.
func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}

// UnmarshalJSON decodes the duration from a string. A bare number is
// interpreted as a number of milliseconds.
func (d *Duration) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		var ms int64
		if err := json.Unmarshal(data, &ms); err != nil {
			return fmt.Errorf("invalid duration: %s", data)
		}
		*d = Duration(time.Duration(ms) * time.Millisecond)
		return nil
	}
	value, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration \"%s\": %w", s, err)
	}
	*d = Duration(value)
	return nil
}
