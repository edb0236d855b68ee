// Package forecast provides next-sample predictors.
// Every Forecaster takes the window oldest first and returns an unstamped sample.
package forecast

import (
	"context"
	"errors"

	"github.com/nampham423/IOT-All/internal/domain"
)

// ErrEmptyWindow is returned when there is nothing to forecast from
var ErrEmptyWindow = errors.New("cannot forecast from an empty window")

// Persistence predicts that the next sample repeats the newest one
type Persistence struct{}

// Forecast implements ports.Forecaster
func (Persistence) Forecast(ctx context.Context, window []domain.TelemetrySample) (domain.TelemetrySample, error) {
	if len(window) == 0 {
		return domain.TelemetrySample{}, ErrEmptyWindow
	}
	last := window[len(window)-1]
	return domain.NewTelemetrySample(last.Temperature, last.Humidity, last.Light), nil
}

// LinearTrend fits a least-squares line to each channel over window
// position and extrapolates one step past the newest sample.
type LinearTrend struct{}

// Forecast implements ports.Forecaster
func (LinearTrend) Forecast(ctx context.Context, window []domain.TelemetrySample) (domain.TelemetrySample, error) {
	n := len(window)
	if n == 0 {
		return domain.TelemetrySample{}, ErrEmptyWindow
	}
	if n == 1 {
		return Persistence{}.Forecast(ctx, window)
	}

	// x = 0..n-1, so mean and spread of x are closed-form
	meanX := float64(n-1) / 2
	var sxx float64
	for i := 0; i < n; i++ {
		dx := float64(i) - meanX
		sxx += dx * dx
	}

	var next [3]float64
	for ch := 0; ch < 3; ch++ {
		var meanY float64
		for _, s := range window {
			meanY += s.Values()[ch]
		}
		meanY /= float64(n)

		var sxy float64
		for i, s := range window {
			sxy += (float64(i) - meanX) * (s.Values()[ch] - meanY)
		}

		slope := sxy / sxx
		next[ch] = meanY + slope*(float64(n)-meanX)
	}

	return domain.NewTelemetrySample(next[0], next[1], next[2]), nil
}
