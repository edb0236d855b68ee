package ports

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nampham423/IOT-All/internal/domain"
)

func TestParseLatest(t *testing.T) {
	keys := DefaultChannelKeys()

	tests := []struct {
		name    string
		raw     string
		want    domain.TelemetrySample
		wantErr bool
	}{
		{
			name: "string values",
			raw:  string(latestDoc("28.50", "60.10", "150")),
			want: domain.TelemetrySample{Temperature: 28.5, Humidity: 60.1, Light: 150, Timestamp: 1700000000003},
		},
		{
			name: "numeric values",
			raw:  `{"temperature":[{"ts":5,"value":21}],"humidity":[{"ts":6,"value":40.5}],"light":[{"ts":4,"value":0}]}`,
			want: domain.TelemetrySample{Temperature: 21, Humidity: 40.5, Light: 0, Timestamp: 6},
		},
		{
			name: "missing channel defaults to zero",
			raw:  `{"temperature":[{"ts":5,"value":"22"}]}`,
			want: domain.TelemetrySample{Temperature: 22, Timestamp: 5},
		},
		{
			name: "empty series defaults to zero",
			raw:  `{"temperature":[],"humidity":[],"light":[]}`,
			want: domain.TelemetrySample{},
		},
		{
			name: "empty object",
			raw:  `{}`,
			want: domain.TelemetrySample{},
		},
		{
			name: "blank value defaults to zero",
			raw:  `{"light":[{"ts":1,"value":""}]}`,
			want: domain.TelemetrySample{Timestamp: 1},
		},
		{name: "not json", raw: `<html>`, wantErr: true},
		{name: "array document", raw: `[1,2]`, wantErr: true},
		{name: "non numeric string", raw: `{"temperature":[{"ts":1,"value":"hot"}]}`, wantErr: true},
		{name: "object value", raw: `{"humidity":[{"ts":1,"value":{"x":1}}]}`, wantErr: true},
		{name: "NaN string", raw: `{"temperature":[{"ts":1,"value":"NaN"}]}`, wantErr: true},
		{name: "infinite string", raw: `{"light":[{"ts":1,"value":"-Inf"}]}`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseLatest([]byte(tt.raw), keys)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestParseLatest_CustomKeys(t *testing.T) {
	keys := ChannelKeys{Temperature: "t.air", Humidity: "rh", Light: "lux"}
	raw := `{"t.air":[{"ts":1,"value":"19.5"}],"rh":[{"ts":1,"value":"70"}],"lux":[{"ts":1,"value":"800"}]}`

	got, err := ParseLatest([]byte(raw), keys)
	require.NoError(t, err)
	require.Equal(t, domain.TelemetrySample{Temperature: 19.5, Humidity: 70, Light: 800, Timestamp: 1}, got)
	require.Equal(t, []string{"t.air", "rh", "lux"}, keys.List())
}
