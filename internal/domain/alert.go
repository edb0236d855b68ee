package domain

// Default alert thresholds for predicted values
const (
	DefaultTempThreshold  = 25.0
	DefaultHumiThreshold  = 65.0
	DefaultLightThreshold = 2000.0
)

// AlertPolicy decides whether a forecast warrants a notification.
// It is stateless: every qualifying forecast alerts, with no suppression.
type AlertPolicy struct {
	TempThreshold  float64
	HumiThreshold  float64
	LightThreshold float64
}

// DefaultAlertPolicy returns the policy with default thresholds
func DefaultAlertPolicy() AlertPolicy {
	return AlertPolicy{
		TempThreshold:  DefaultTempThreshold,
		HumiThreshold:  DefaultHumiThreshold,
		LightThreshold: DefaultLightThreshold,
	}
}

// ShouldAlert returns true if any channel strictly exceeds its threshold
func (p AlertPolicy) ShouldAlert(s TelemetrySample) bool {
	return s.Temperature > p.TempThreshold ||
		s.Humidity > p.HumiThreshold ||
		s.Light > p.LightThreshold
}

// Breaches names the channels that exceed their thresholds
func (p AlertPolicy) Breaches(s TelemetrySample) []string {
	var out []string
	if s.Temperature > p.TempThreshold {
		out = append(out, "temperature")
	}
	if s.Humidity > p.HumiThreshold {
		out = append(out, "humidity")
	}
	if s.Light > p.LightThreshold {
		out = append(out, "light")
	}
	return out
}
