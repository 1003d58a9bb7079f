package userpage_test

import (
	"context"
	"testing"
	"time"

	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joestump/trail-mix/internal/metrics"
	"github.com/joestump/trail-mix/internal/userpage"
)

func readyController(t *testing.T) *userpage.Controller {
	t.Helper()
	c := userpage.NewController(
		&fakeSessions{info: &userpage.SessionInfo{ID: 5}},
		&fakeProfiles{data: galleryRecord()},
		userpage.Options{},
	)
	_, err := c.Activate(context.Background(), "5")
	require.NoError(t, err)
	return c
}

func TestRegistry_PutGet(t *testing.T) {
	reg := userpage.NewRegistry(8, time.Minute)
	defer reg.Purge()

	key := userpage.Key("tok", "5")
	c := readyController(t)
	require.NoError(t, reg.Put(key, c))

	got, err := reg.Get(key)
	require.NoError(t, err)
	assert.Same(t, c, got)

	_, err = reg.Get(userpage.Key("other", "5"))
	assert.ErrorIs(t, err, userpage.ErrNoController)
}

func TestRegistry_ReplaceDeactivatesPrevious(t *testing.T) {
	reg := userpage.NewRegistry(8, time.Minute)
	defer reg.Purge()

	key := userpage.Key("tok", "5")
	old := readyController(t)
	require.NoError(t, reg.Put(key, old))
	require.NoError(t, reg.Put(key, readyController(t)))

	_, err := old.SelectPhoto(0)
	assert.ErrorIs(t, err, userpage.ErrDeactivated)
	assert.Equal(t, 1, reg.Len())
}

func TestRegistry_RemoveDeactivates(t *testing.T) {
	reg := userpage.NewRegistry(8, time.Minute)
	defer reg.Purge()

	key := userpage.Key("tok", "5")
	c := readyController(t)
	require.NoError(t, reg.Put(key, c))

	reg.Remove(key)
	_, err := reg.Get(key)
	assert.ErrorIs(t, err, userpage.ErrNoController)
	_, err = c.AppendComment(10, userpage.Comment{Author: "Bo", Text: "hi"})
	assert.ErrorIs(t, err, userpage.ErrDeactivated)
}

func TestRegistry_LRUEvictionDeactivates(t *testing.T) {
	reg := userpage.NewRegistry(1, time.Minute)
	defer reg.Purge()

	first := readyController(t)
	require.NoError(t, reg.Put(userpage.Key("a", "5"), first))
	require.NoError(t, reg.Put(userpage.Key("b", "5"), readyController(t)))

	_, err := reg.Get(userpage.Key("a", "5"))
	assert.ErrorIs(t, err, userpage.ErrNoController)
	_, err = first.SelectPhoto(0)
	assert.ErrorIs(t, err, userpage.ErrDeactivated)
}

func TestRegistry_Expiry(t *testing.T) {
	reg := userpage.NewRegistry(8, 10*time.Millisecond)
	defer reg.Purge()

	key := userpage.Key("tok", "5")
	c := readyController(t)
	require.NoError(t, reg.Put(key, c))

	time.Sleep(30 * time.Millisecond)
	_, err := reg.Get(key)
	assert.ErrorIs(t, err, userpage.ErrNoController)
	_, err = c.SelectPhoto(0)
	assert.ErrorIs(t, err, userpage.ErrDeactivated)
}

func TestRegistry_PurgeDeactivatesAll(t *testing.T) {
	reg := userpage.NewRegistry(8, time.Minute)

	a, b := readyController(t), readyController(t)
	require.NoError(t, reg.Put(userpage.Key("a", "5"), a))
	require.NoError(t, reg.Put(userpage.Key("b", "5"), b))

	reg.Purge()
	for _, c := range []*userpage.Controller{a, b} {
		_, err := c.SelectPhoto(0)
		assert.ErrorIs(t, err, userpage.ErrDeactivated)
	}
}

func activeControllers(t *testing.T) float64 {
	t.Helper()
	var m dto.Metric
	require.NoError(t, metrics.ActiveControllers.Write(&m))
	return m.GetGauge().GetValue()
}

func TestRegistry_SweepCollectsIdleExpired(t *testing.T) {
	reg := userpage.NewRegistry(8, 20*time.Millisecond)
	defer reg.Purge()

	base := activeControllers(t)
	a, b := readyController(t), readyController(t)
	require.NoError(t, reg.Put(userpage.Key("a", "5"), a))
	require.NoError(t, reg.Put(userpage.Key("b", "5"), b))
	assert.Equal(t, base+2, activeControllers(t))
	assert.Equal(t, 0, reg.Sweep(), "nothing has expired yet")

	time.Sleep(50 * time.Millisecond)
	fresh := readyController(t)
	require.NoError(t, reg.Put(userpage.Key("c", "5"), fresh))

	assert.Equal(t, 2, reg.Sweep())
	assert.Equal(t, 1, reg.Len())
	assert.Equal(t, base+1, activeControllers(t))
	for _, c := range []*userpage.Controller{a, b} {
		_, err := c.SelectPhoto(0)
		assert.ErrorIs(t, err, userpage.ErrDeactivated)
	}
	got, err := reg.Get(userpage.Key("c", "5"))
	require.NoError(t, err)
	assert.Same(t, fresh, got)
}

func TestRegistry_RunSweepsUntilCancelled(t *testing.T) {
	reg := userpage.NewRegistry(8, 10*time.Millisecond)
	defer reg.Purge()

	c := readyController(t)
	require.NoError(t, reg.Put(userpage.Key("a", "5"), c))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		reg.Run(ctx, 5*time.Millisecond)
		close(done)
	}()

	assert.Eventually(t, func() bool { return reg.Len() == 0 }, time.Second, 5*time.Millisecond)
	_, err := c.SelectPhoto(0)
	assert.ErrorIs(t, err, userpage.ErrDeactivated)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestRegistry_RunDisabled(t *testing.T) {
	reg := userpage.NewRegistry(8, time.Minute)
	defer reg.Purge()

	done := make(chan struct{})
	go func() {
		reg.Run(context.Background(), 0)
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run with zero interval should return immediately")
	}
}
