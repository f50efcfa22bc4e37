package workout

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestStartTicker_DrivesEngineUntilStopped(t *testing.T) {
	defer goleak.VerifyNone(t)

	e := startPush(t)
	var fired atomic.Int32
	ticker := StartTicker(time.Second, func() {
		e.Tick()
		fired.Add(1)
	})

	require.Eventually(t, func() bool { return fired.Load() >= 1 }, 3*time.Second, 20*time.Millisecond)
	ticker.Stop()
	ticker.Stop()

	assert.GreaterOrEqual(t, e.Snapshot().ElapsedSeconds, 1)
	stopped := fired.Load()
	time.Sleep(1200 * time.Millisecond)
	assert.Equal(t, stopped, fired.Load(), "no tick after Stop")
}
