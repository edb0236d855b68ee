package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// TelemetrySample represents one environmental reading, observed or predicted.
// It has no identity beyond its position in a Window.
type TelemetrySample struct {
	Temperature float64
	Humidity    float64
	Light       float64
	// Timestamp is milliseconds since epoch; zero means unset
	Timestamp int64
}

// NewTelemetrySample creates an unstamped sample
func NewTelemetrySample(temperature, humidity, light float64) TelemetrySample {
	return TelemetrySample{
		Temperature: temperature,
		Humidity:    humidity,
		Light:       light,
	}
}

// Stamped returns a copy of the sample carrying t as its timestamp
func (s TelemetrySample) Stamped(t time.Time) TelemetrySample {
	s.Timestamp = t.UnixMilli()
	return s
}

// HasTimestamp reports whether the sample carries a timestamp
func (s TelemetrySample) HasTimestamp() bool {
	return s.Timestamp != 0
}

// Time returns the timestamp as time.Time, or the zero time if unset
func (s TelemetrySample) Time() time.Time {
	if !s.HasTimestamp() {
		return time.Time{}
	}
	return time.UnixMilli(s.Timestamp)
}

// Values returns the three channels in model order
func (s TelemetrySample) Values() [3]float64 {
	return [3]float64{s.Temperature, s.Humidity, s.Light}
}

// String formats the sample the way the loops log it
func (s TelemetrySample) String() string {
	return fmt.Sprintf("T=%.2f, H=%.2f, L=%.2f", s.Temperature, s.Humidity, s.Light)
}

// sampleJSON is the persisted element layout.
type sampleJSON struct {
	Temperature float64 `json:"temperature"`
	Humidity    float64 `json:"humidity"`
	Light       float64 `json:"light"`
	Timestamp   *int64  `json:"timestamp,omitempty"`
}

// MarshalJSON writes the snapshot element layout; timestamp is omitted when unset
func (s TelemetrySample) MarshalJSON() ([]byte, error) {
	out := sampleJSON{
		Temperature: s.Temperature,
		Humidity:    s.Humidity,
		Light:       s.Light,
	}
	if s.HasTimestamp() {
		ts := s.Timestamp
		out.Timestamp = &ts
	}
	return json.Marshal(out)
}

// UnmarshalJSON reads one snapshot element.
// Missing or null numeric fields default to 0 and numeric strings are
// accepted. The legacy "ts" key is used when "timestamp" is absent.
func (s *TelemetrySample) UnmarshalJSON(data []byte) error {
	var in struct {
		Temperature lenientFloat `json:"temperature"`
		Humidity    lenientFloat `json:"humidity"`
		Light       lenientFloat `json:"light"`
		Timestamp   *int64       `json:"timestamp"`
		TS          *int64       `json:"ts"`
	}
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}

	*s = TelemetrySample{
		Temperature: float64(in.Temperature),
		Humidity:    float64(in.Humidity),
		Light:       float64(in.Light),
	}
	switch {
	case in.Timestamp != nil:
		s.Timestamp = *in.Timestamp
	case in.TS != nil:
		s.Timestamp = *in.TS
	}
	return nil
}

// lenientFloat decodes a JSON number or a string holding a finite number
type lenientFloat float64

func (f *lenientFloat) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		*f = 0
		return nil
	}
	if len(data) == 0 || data[0] != '"' {
		var v float64
		if err := json.Unmarshal(data, &v); err != nil {
			return err
		}
		*f = lenientFloat(v)
		return nil
	}

	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	raw = strings.TrimSpace(raw)
	if raw == "" {
		*f = 0
		return nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return fmt.Errorf("value %q is not a finite number", raw)
	}
	*f = lenientFloat(v)
	return nil
}
