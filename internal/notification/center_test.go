package notification

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingDispatcher struct {
	got []Notification
}

func (r *recordingDispatcher) Dispatch(n Notification) {
	r.got = append(r.got, n)
}

func TestCenter_NotifyAndActive(t *testing.T) {
	push := &recordingDispatcher{}
	c := NewCenter(time.Minute, push)

	c.Notify(Success("Reservation created", "Room A"))
	c.Notify(Failure("Failed to load reservations", "boom"))

	active := c.Active()
	require.Len(t, active, 2)
	assert.Equal(t, "Reservation created", active[0].Title)
	assert.Equal(t, LevelSuccess, active[0].Level)
	assert.Equal(t, LevelError, active[1].Level)
	assert.NotEmpty(t, active[0].ID)
	assert.False(t, active[0].CreatedAt.IsZero())

	latest, ok := c.Latest()
	require.True(t, ok)
	assert.Equal(t, "Failed to load reservations", latest.Title)

	assert.Len(t, push.got, 2)
}

func TestCenter_Expiry(t *testing.T) {
	c := NewCenter(20*time.Millisecond, nil)
	c.Notify(Info("short lived", ""))
	require.Len(t, c.Active(), 1)

	time.Sleep(50 * time.Millisecond)
	assert.Empty(t, c.Active())
	_, ok := c.Latest()
	assert.False(t, ok)
}

func TestCenter_DismissAndClear(t *testing.T) {
	c := NewCenter(time.Minute, nil)
	c.Notify(Info("one", ""))
	c.Notify(Info("two", ""))

	first := c.Active()[0]
	c.Dismiss(first.ID)
	active := c.Active()
	require.Len(t, active, 1)
	assert.Equal(t, "two", active[0].Title)

	c.Clear()
	assert.Empty(t, c.Active())
}

func TestCenter_DefaultsLevel(t *testing.T) {
	c := NewCenter(time.Minute, nil)
	c.Notify(Notification{Title: "plain"})
	assert.Equal(t, LevelInfo, c.Active()[0].Level)
}
