package observability

import (
	"testing"
	"time"

	"github.com/danmuck/canectl/internal/testutil/testlog"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRegisterMetricsAndRecordersAreSafe(t *testing.T) {
	testlog.Start(t)

	RegisterMetrics()
	RegisterMetrics()

	RecordHTTPRequest("cane-a", "GET", "/health", 200, 12*time.Millisecond)
	RecordModeChange("falling")
	RecordUnknownMode()
	RecordMonitorSample(2, false)
	RecordMonitorSample(3, true)
}

func TestRecordFrameCountsPerChannel(t *testing.T) {
	testlog.Start(t)

	before := testutil.ToFloat64(transportFrames.WithLabelValues("pressure"))
	RecordFrame("pressure")
	RecordFrame("pressure")
	RecordTransportError("pressure")

	if got := testutil.ToFloat64(transportFrames.WithLabelValues("pressure")); got != before+2 {
		t.Fatalf("unexpected frame count: got %v want %v", got, before+2)
	}
}

func TestRecordTickSetsGauges(t *testing.T) {
	testlog.Start(t)

	RecordTick(4, 42.5)
	if got := testutil.ToFloat64(simMode); got != 4 {
		t.Fatalf("unexpected mode gauge: %v", got)
	}
	if got := testutil.ToFloat64(simBattery); got != 42.5 {
		t.Fatalf("unexpected battery gauge: %v", got)
	}
}
