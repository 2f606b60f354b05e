package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_RegistersOnGivenRegistry(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.OrdersCreated.WithLabelValues("COD").Inc()
	m.OrdersCreated.WithLabelValues("COD").Inc()
	m.SideEffectFailures.WithLabelValues(SideEffectStockDecrement).Inc()

	assert.Equal(t, 2.0, testutil.ToFloat64(m.OrdersCreated.WithLabelValues("COD")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.SideEffectFailures.WithLabelValues(SideEffectStockDecrement)))

	families, err := reg.Gather()
	require.NoError(t, err)
	names := make([]string, 0, len(families))
	for _, f := range families {
		names = append(names, f.GetName())
	}
	assert.Contains(t, names, "shopsphere_orders_created_total")
	assert.Contains(t, names, "shopsphere_side_effect_failures_total")
}

func TestNew_TwoRegistriesDoNotCollide(t *testing.T) {
	assert.NotPanics(t, func() {
		New(prometheus.NewRegistry())
		New(prometheus.NewRegistry())
	})
}
