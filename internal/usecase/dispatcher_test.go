package usecase

import (
	"context"
	"testing"

	"TradeLens/internal/domain/models"
	drepo "TradeLens/internal/domain/repository"
	applogger "TradeLens/pkg/logger"
)

type fakeSignalPublisher struct {
	published []*models.Signal
}

func (f *fakeSignalPublisher) Publish(ctx context.Context, s *models.Signal) error {
	f.published = append(f.published, s)
	return nil
}

func (f *fakeSignalPublisher) Close() error { return nil }

func testLogger(t *testing.T) *applogger.Logger {
	t.Helper()
	l, err := applogger.New(&applogger.Config{Level: "error", Format: "json", Output: "stdout"})
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	return l
}

func TestDispatchSkipsWithoutSignal(t *testing.T) {
	// a flat doji series never generates a signal
	analyzer, _ := seededAnalyzer(t, 30, nil)
	pub := &fakeSignalPublisher{}

	d := NewSignalDispatcher(analyzer, []string{"BTCUSDT"}, drepo.TF1m, pub, nil, nil, 10, 0, testLogger(t))
	d.dispatch(context.Background())

	if len(pub.published) != 0 {
		t.Errorf("published %d signals from a signal-free series", len(pub.published))
	}
}

func TestDispatchSurvivesAnalyzeError(t *testing.T) {
	analyzer, _ := seededAnalyzer(t, 0, nil)
	pub := &fakeSignalPublisher{}

	d := NewSignalDispatcher(analyzer, []string{"BTCUSDT"}, drepo.TF1m, pub, nil, nil, 10, 0, testLogger(t))
	d.dispatch(context.Background())

	if len(pub.published) != 0 {
		t.Errorf("published %d signals despite analyze failure", len(pub.published))
	}
}
