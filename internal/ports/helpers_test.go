package ports

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/nampham423/IOT-All/internal/adapters/memory"
	"github.com/nampham423/IOT-All/internal/domain"
)

var fixedNow = time.UnixMilli(1_750_000_000_000)

type stubSource struct {
	raw   []byte
	err   error
	calls int
	keys  []string
}

func (s *stubSource) FetchLatest(ctx context.Context, keys []string) ([]byte, error) {
	s.calls++
	s.keys = keys
	return s.raw, s.err
}

type stubForecaster struct {
	out    domain.TelemetrySample
	err    error
	calls  int
	inputs [][]domain.TelemetrySample
}

func (f *stubForecaster) Forecast(ctx context.Context, window []domain.TelemetrySample) (domain.TelemetrySample, error) {
	f.calls++
	f.inputs = append(f.inputs, window)
	return f.out, f.err
}

type recordingNotifier struct {
	mu    sync.Mutex
	calls []domain.TelemetrySample
	err   error
}

func (n *recordingNotifier) Notify(ctx context.Context, forecast domain.TelemetrySample) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.calls = append(n.calls, forecast)
	return n.err
}

type statusRecorder struct {
	ready []bool
}

func (s *statusRecorder) SetWindowReady(ready bool) {
	s.ready = append(s.ready, ready)
}

func observed(i int) domain.TelemetrySample {
	return domain.TelemetrySample{
		Temperature: 20 + float64(i)/10,
		Humidity:    50,
		Light:       300,
		Timestamp:   int64(1_700_000_000_000 + i),
	}
}

// seedStore writes n observed samples straight into storage
func seedStore(t *testing.T, n int) (*memory.SnapshotStorage, *BufferStore) {
	t.Helper()
	storage := memory.NewSnapshotStorage()

	samples := make([]domain.TelemetrySample, n)
	for i := range samples {
		samples[i] = observed(i)
	}
	data, err := json.Marshal(samples)
	require.NoError(t, err)
	require.NoError(t, storage.WriteSnapshot(context.Background(), data))

	return storage, NewBufferStore(storage, domain.DefaultWindowSize)
}

// stored decodes whatever is currently persisted, without the readiness check
func stored(t *testing.T, store *BufferStore) []domain.TelemetrySample {
	t.Helper()
	w, err := store.LoadPartial(context.Background())
	require.NoError(t, err)
	return w.Samples()
}

func latestDoc(temp, humi, light string) []byte {
	return []byte(`{
		"temperature": [{"ts": 1700000000001, "value": "` + temp + `"}],
		"humidity":    [{"ts": 1700000000003, "value": "` + humi + `"}],
		"light":       [{"ts": 1700000000002, "value": "` + light + `"}]
	}`)
}
