package telemetry

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
)

func TestNewLoggerDebugAndProduction(t *testing.T) {
	for _, debug := range []bool{true, false} {
		l, err := NewLogger(debug)
		if err != nil {
			t.Fatalf("NewLogger(%v): %v", debug, err)
		}
		child := Component(l, "conn")
		child.Infow("test message", "phase", "login")
	}
}

func TestNewMetricsRegistersAgainstIsolatedRegistry(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)

	m.TicksTotal.Inc()
	m.PacketsIn.Add(3)
	m.EntitiesTracked.Set(5)

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("Gather: %v", err)
	}
	if len(families) == 0 {
		t.Fatal("expected registered metric families, got none")
	}
}

func TestNewMetricsNilRegistererDoesNotPanic(t *testing.T) {
	m := NewMetrics(nil)
	m.TicksTotal.Inc()
}
