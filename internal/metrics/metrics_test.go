package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestObservers(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.ObserveMutation("add", "ok")
	m.ObserveMutation("add", "ok")
	m.ObserveMutation("add", "conflict")
	m.ObservePayload("scale")

	require.Equal(t, 2.0, testutil.ToFloat64(m.Mutations.WithLabelValues("add", "ok")))
	require.Equal(t, 1.0, testutil.ToFloat64(m.Mutations.WithLabelValues("add", "conflict")))
	require.Equal(t, 1.0, testutil.ToFloat64(m.Transforms.WithLabelValues("scale")))
}

func TestNewPanicsOnDoubleRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	New(reg)
	require.Panics(t, func() { New(reg) })
}
