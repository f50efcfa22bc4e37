package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManager_Registers(t *testing.T) {
	m, reg := NewTestManagerAndRegistry()

	m.CounterImports.WithLabelValues("ok").Inc()
	m.CounterImports.WithLabelValues("ok").Inc()
	m.CounterImports.WithLabelValues("invalid").Inc()
	m.GaugeLiveSessions.Set(3)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.CounterImports.WithLabelValues("ok")))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.GaugeLiveSessions))

	families, err := reg.Gather()
	require.NoError(t, err)
	names := make([]string, 0, len(families))
	for _, f := range families {
		names = append(names, f.GetName())
	}
	assert.Contains(t, names, "gymmora_test_server_program_imports")
	assert.Contains(t, names, "gymmora_test_server_live_sessions")
}

func TestSetupPrometheus(t *testing.T) {
	reg := SetupPrometheus()
	families, err := reg.Gather()
	require.NoError(t, err)
	assert.NotEmpty(t, families)
}
