package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestInitIsIdempotent(t *testing.T) {
	Init()
	Init()

	if detailPagesTotal == nil || enrichmentLookupsTotal == nil ||
		rehostUploadsTotal == nil || httpRequestsTotal == nil {
		t.Fatal("Init() did not initialize metrics collectors")
	}
}

func TestObserveDetailPage(t *testing.T) {
	Init()
	before := testutil.ToFloat64(detailPagesTotal.WithLabelValues(StatusNoName))
	ObserveDetailPage(StatusNoName)
	if got := testutil.ToFloat64(detailPagesTotal.WithLabelValues(StatusNoName)); got != before+1 {
		t.Errorf("expected no_name counter %f, got %f", before+1, got)
	}
}

func TestObserveRun(t *testing.T) {
	Init()
	before := testutil.ToFloat64(runsTotal)
	ObserveRun(1500 * time.Millisecond)
	if got := testutil.ToFloat64(runsTotal); got != before+1 {
		t.Errorf("expected runs counter %f, got %f", before+1, got)
	}
	if n := testutil.CollectAndCount(runDurationSeconds); n != 1 {
		t.Errorf("expected one histogram series, got %d", n)
	}
}

func TestActiveWorkersGauge(t *testing.T) {
	Init()
	before := testutil.ToFloat64(activeWorkers)
	IncActiveWorkers()
	IncActiveWorkers()
	DecActiveWorkers()
	if got := testutil.ToFloat64(activeWorkers); got != before+1 {
		t.Errorf("expected gauge %f, got %f", before+1, got)
	}
}
