package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestInitializeMetrics(t *testing.T) {
	// Must be safe to call repeatedly.
	InitializeMetrics()
	InitializeMetrics()
}

func TestJobCounters(t *testing.T) {
	before := testutil.ToFloat64(JobsTotal.WithLabelValues("raster", "success"))

	JobsTotal.WithLabelValues("raster", "success").Inc()

	after := testutil.ToFloat64(JobsTotal.WithLabelValues("raster", "success"))
	if after != before+1 {
		t.Errorf("JobsTotal did not increment: before=%v after=%v", before, after)
	}
}

func TestByteCounters(t *testing.T) {
	before := testutil.ToFloat64(InputBytesTotal.WithLabelValues("video"))

	InputBytesTotal.WithLabelValues("video").Add(1024)

	after := testutil.ToFloat64(InputBytesTotal.WithLabelValues("video"))
	if after != before+1024 {
		t.Errorf("InputBytesTotal did not add: before=%v after=%v", before, after)
	}
}
