package progress

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/frostline/holidayquest/internal/store"
)

func TestHubPublishesToUser(t *testing.T) {
	h := NewHub(4)
	a, cancelA := h.Subscribe("a")
	defer cancelA()
	b, cancelB := h.Subscribe("b")
	defer cancelB()

	h.Publish("a", Update{Type: "completion"})

	select {
	case u := <-a:
		assert.Equal(t, "completion", u.Type)
	default:
		t.Fatal("expected update for a")
	}
	select {
	case <-b:
		t.Fatal("b must not receive a's update")
	default:
	}
}

func TestHubDropsOldestWhenFull(t *testing.T) {
	h := NewHub(1)
	ch, cancel := h.Subscribe("a")
	defer cancel()

	h.Publish("a", Update{Type: "first"})
	h.Publish("a", Update{Type: "second"})

	u := <-ch
	assert.Equal(t, "second", u.Type)
}

func TestHubCancelClosesChannel(t *testing.T) {
	h := NewHub(1)
	ch, cancel := h.Subscribe("a")
	cancel()
	cancel()

	_, open := <-ch
	assert.False(t, open)
	assert.Empty(t, h.Users())

	// Publishing to a user without subscribers is a no-op.
	h.Publish("a", Update{})
}

func TestHubAsListenerAndResync(t *testing.T) {
	g, s, sess := newTestGate(t)
	h := NewHub(4)
	g.Subscribe(h)

	ch, cancel := h.Subscribe(sess.UserID)
	defer cancel()

	_, err := g.CompleteGame(context.Background(), sess, 1, 100)
	require.NoError(t, err)

	u := <-ch
	assert.Equal(t, "completion", u.Type)
	assert.Equal(t, 2, u.Unlocked)
	assert.Equal(t, 1, u.Summary.Completed)
	require.Len(t, u.Slots, 6)
	assert.Equal(t, StateUnlocked, u.Slots[1].State)

	require.NoError(t, h.Resync(context.Background(), s.ProgressRepo()))
	u = <-ch
	assert.Equal(t, "resync", u.Type)
	assert.Equal(t, 100, u.Summary.TotalScore)
}

func TestSummarizeEmpty(t *testing.T) {
	assert.Equal(t, Summary{Total: 6}, Summarize(nil))
}

func TestSlotsMissingRows(t *testing.T) {
	slots := Slots([]store.ProgressRecord{{GameNumber: 2, Completed: true, Unlocked: true, Score: 90}})
	require.Len(t, slots, 6)
	assert.Equal(t, StateUnlocked, slots[0].State)
	assert.Equal(t, StateCompleted, slots[1].State)
	assert.Equal(t, StateLocked, slots[5].State)
}
