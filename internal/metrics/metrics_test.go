package metrics

import (
	"errors"
	"testing"
	"time"
)

func TestBasic_Snapshot(t *testing.T) {
	b := NewBasic()
	b.RecordInit(2, 10*time.Millisecond, nil)
	b.RecordInit(0, time.Millisecond, errors.New("empty"))
	b.RecordSearch(1, 1, 2*time.Millisecond, nil)
	b.RecordSearch(1, 1, 4*time.Millisecond, nil)
	b.RecordSearch(0, 0, 0, errors.New("top_n"))
	b.SetStoreSize(2)

	s := b.Snapshot()
	want := map[string]float64{
		InitTotal:          2,
		InitErrors:         1,
		InitLatencySeconds: 0.01,
		SearchTotal:        3,
		SearchErrors:       1,
		SearchLatencyAvg:   0.003,
		SearchLatencyLast:  0.004,
		StoreSize:          2,
	}
	for k, v := range want {
		if s[k] != v {
			t.Errorf("%s = %v, want %v", k, s[k], v)
		}
	}
}

func TestNoop(t *testing.T) {
	var c Collector = Noop{}
	c.RecordInit(1, time.Second, nil)
	c.RecordSearch(1, 1, time.Second, nil)
	c.SetStoreSize(10)
	if _, ok := c.(Snapshotter); ok {
		t.Error("Noop should not report snapshots")
	}
}
