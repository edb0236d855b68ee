package ports

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/nampham423/IOT-All/internal/domain"
)

// ChannelKeys names the upstream channels mapped onto a sample's fields
type ChannelKeys struct {
	Temperature string
	Humidity    string
	Light       string
}

// DefaultChannelKeys returns the channel names used by the device firmware
func DefaultChannelKeys() ChannelKeys {
	return ChannelKeys{
		Temperature: "temperature",
		Humidity:    "humidity",
		Light:       "light",
	}
}

// List returns the keys in sample field order
func (k ChannelKeys) List() []string {
	return []string{k.Temperature, k.Humidity, k.Light}
}

// ParseLatest converts a latest-values document into a sample.
// A missing channel or an empty series yields 0 for that field. Values may
// be JSON numbers or numeric strings. The sample timestamp is the newest
// ts seen across channels, if any.
func ParseLatest(raw []byte, keys ChannelKeys) (domain.TelemetrySample, error) {
	if !gjson.ValidBytes(raw) {
		return domain.TelemetrySample{}, fmt.Errorf("latest telemetry is not valid JSON")
	}
	doc := gjson.ParseBytes(raw)
	if !doc.IsObject() {
		return domain.TelemetrySample{}, fmt.Errorf("latest telemetry is not a JSON object")
	}

	var sample domain.TelemetrySample
	fields := []struct {
		key string
		dst *float64
	}{
		{keys.Temperature, &sample.Temperature},
		{keys.Humidity, &sample.Humidity},
		{keys.Light, &sample.Light},
	}

	for _, f := range fields {
		value, ts, err := latestPoint(doc, f.key)
		if err != nil {
			return domain.TelemetrySample{}, err
		}
		*f.dst = value
		if ts > sample.Timestamp {
			sample.Timestamp = ts
		}
	}

	return sample, nil
}

// latestPoint reads the first point of a channel series
func latestPoint(doc gjson.Result, key string) (float64, int64, error) {
	series := doc.Get(gjson.Escape(key))
	if !series.IsArray() {
		return 0, 0, nil
	}
	points := series.Array()
	if len(points) == 0 {
		return 0, 0, nil
	}

	point := points[0]
	ts := point.Get("ts").Int()
	value := point.Get("value")

	switch value.Type {
	case gjson.Number:
		return value.Float(), ts, nil
	case gjson.Null:
		return 0, ts, nil
	case gjson.String:
		s := strings.TrimSpace(value.Str)
		if s == "" {
			return 0, ts, nil
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, 0, fmt.Errorf("channel %q: value %q is not numeric", key, value.Str)
		}
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return 0, 0, fmt.Errorf("channel %q: value %q is not finite", key, value.Str)
		}
		return f, ts, nil
	default:
		return 0, 0, fmt.Errorf("channel %q: unexpected value %s", key, value.Raw)
	}
}
