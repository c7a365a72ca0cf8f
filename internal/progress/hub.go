package progress

import (
	"context"
	"sync"
	"time"

	"github.com/frostline/holidayquest/internal/store"
)

// Update is pushed to subscribers when a user's progress changes.
type Update struct {
	Type     string             `json:"type"` // "snapshot", "completion", "resync"
	Slots    []Slot             `json:"slots"`
	Summary  Summary            `json:"summary"`
	Unlocked int                `json:"unlocked,omitempty"`
	Cert     *store.Certificate `json:"certificate,omitempty"`
	At       time.Time          `json:"at"`
}

// Hub fans progress updates out to per-user subscribers.
type Hub struct {
	mu   sync.Mutex
	subs map[string]map[chan Update]struct{}
	buf  int
}

// NewHub creates a hub whose subscriber channels hold buf updates.
func NewHub(buf int) *Hub {
	if buf < 1 {
		buf = 1
	}
	return &Hub{subs: make(map[string]map[chan Update]struct{}), buf: buf}
}

// Subscribe registers a channel for userID. Call cancel to unsubscribe; the
// channel is closed afterwards.
func (h *Hub) Subscribe(userID string) (<-chan Update, func()) {
	ch := make(chan Update, h.buf)

	h.mu.Lock()
	if h.subs[userID] == nil {
		h.subs[userID] = make(map[chan Update]struct{})
	}
	h.subs[userID][ch] = struct{}{}
	h.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			h.mu.Lock()
			delete(h.subs[userID], ch)
			if len(h.subs[userID]) == 0 {
				delete(h.subs, userID)
			}
			h.mu.Unlock()
			close(ch)
		})
	}
	return ch, cancel
}

// Publish delivers u to every subscriber of userID. Slow subscribers drop the
// oldest pending update.
func (h *Hub) Publish(userID string, u Update) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for ch := range h.subs[userID] {
		select {
		case ch <- u:
		default:
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- u:
			default:
			}
		}
	}
}

// Users lists users with at least one subscriber.
func (h *Hub) Users() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]string, 0, len(h.subs))
	for id := range h.subs {
		out = append(out, id)
	}
	return out
}

// GameCompleted publishes the committed state to the user's subscribers.
func (h *Hub) GameCompleted(_ context.Context, ev Event) {
	h.Publish(ev.Session.UserID, Update{
		Type:     "completion",
		Slots:    Slots(ev.Result.Progress),
		Summary:  Summarize(ev.Result.Progress),
		Unlocked: ev.Result.UnlockedGame,
		Cert:     ev.Result.Certificate,
		At:       ev.At,
	})
}

// Resync republishes full progress to every subscribed user.
func (h *Hub) Resync(ctx context.Context, repo store.ProgressRepo) error {
	for _, id := range h.Users() {
		recs, err := repo.Get(ctx, id)
		if err != nil {
			return err
		}
		h.Publish(id, Update{
			Type:    "resync",
			Slots:   Slots(recs),
			Summary: Summarize(recs),
			At:      time.Now().UTC(),
		})
	}
	return nil
}
