package metrics

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollector_RecordRequest(t *testing.T) {
	c := NewCollector()
	c.RecordRequest("tools/call", 10*time.Millisecond, false)
	c.RecordRequest("tools/call", 30*time.Millisecond, true)
	c.RecordRequest("initialize", time.Millisecond, false)

	snap := c.Snapshot()
	assert.Equal(t, int64(3), snap.Requests)
	require.Len(t, snap.Methods, 2)

	assert.Equal(t, "initialize", snap.Methods[0].Method)

	call := snap.Methods[1]
	assert.Equal(t, "tools/call", call.Method)
	assert.Equal(t, int64(2), call.Count)
	assert.Equal(t, int64(1), call.Errors)
	assert.Equal(t, int64(40), call.TotalTimeMs)
	assert.Equal(t, float64(20), call.AvgTimeMs)
	assert.Equal(t, int64(10), call.MinTimeMs)
	assert.Equal(t, int64(30), call.MaxTimeMs)
}

func TestCollector_EmptySnapshot(t *testing.T) {
	snap := NewCollector().Snapshot()
	assert.Zero(t, snap.Requests)
	assert.Empty(t, snap.Methods)
	assert.GreaterOrEqual(t, snap.UptimeSeconds, float64(0))
}

func TestCollector_Concurrent(t *testing.T) {
	c := NewCollector()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c.RecordRequest("tools/list", time.Microsecond, false)
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(50), c.Snapshot().Requests)
}
