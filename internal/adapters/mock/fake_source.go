package mock

import (
	"context"
	"encoding/json"
	"math/rand"
	"strconv"
	"time"
)

// Channel describes one simulated telemetry channel
type Channel struct {
	Key       string
	BaseValue float64
	Variation float64
}

// FakeSource simulates the telemetry REST source for development
// This implements the ports.TelemetrySource interface
type FakeSource struct {
	channels map[string]Channel
	now      func() time.Time
}

// NewFakeSource creates a source that returns realistic values
// variation: +/- range around each channel's base value
func NewFakeSource(channels ...Channel) *FakeSource {
	m := make(map[string]Channel, len(channels))
	for _, c := range channels {
		m[c.Key] = c
	}
	return &FakeSource{channels: m, now: time.Now}
}

// NewIndoorSource simulates a typical indoor room: 24±2 °C, 55±10 %, 500±100 lux
func NewIndoorSource() *FakeSource {
	return NewFakeSource(
		Channel{Key: "temperature", BaseValue: 24, Variation: 2},
		Channel{Key: "humidity", BaseValue: 55, Variation: 10},
		Channel{Key: "light", BaseValue: 500, Variation: 100},
	)
}

// point mirrors the upstream latest-value layout; values arrive as strings
type point struct {
	TS    int64  `json:"ts"`
	Value string `json:"value"`
}

// FetchLatest returns one simulated point per known key.
// Unknown keys get an empty series, as the real source does.
func (s *FakeSource) FetchLatest(ctx context.Context, keys []string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	ts := s.now().UnixMilli()
	doc := make(map[string][]point, len(keys))
	for _, key := range keys {
		c, ok := s.channels[key]
		if !ok {
			doc[key] = []point{}
			continue
		}

		// Random value around base ± variation
		value := c.BaseValue + (rand.Float64()-0.5)*2*c.Variation
		if value < 0 {
			value = 0
		}
		doc[key] = []point{{TS: ts, Value: strconv.FormatFloat(value, 'f', 2, 64)}}
	}

	return json.Marshal(doc)
}
