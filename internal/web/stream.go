package web

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/julienschmidt/httprouter"

	"github.com/frostline/holidayquest/internal/progress"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = pongWait * 9 / 10
)

type progressResponse struct {
	Slots   []progress.Slot  `json:"slots"`
	Summary progress.Summary `json:"summary"`
}

func (s *Server) progress() httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		sess, err := session(r)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		slots, sum, err := s.Gate.Dashboard(r.Context(), sess)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		s.writeJSON(w, http.StatusOK, progressResponse{Slots: slots, Summary: sum})
	}
}

// stream upgrades to a websocket and pushes the user's progress: a snapshot
// on connect, then every committed completion and periodic resync.
func (s *Server) stream() httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		sess, err := session(r)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		slots, sum, err := s.Gate.Dashboard(r.Context(), sess)
		if err != nil {
			s.writeError(w, r, err)
			return
		}

		conn, err := s.upgrader.Upgrade(w, r, nil)
		if err != nil {
			s.logger.Debug("websocket upgrade failed", "err", err)
			return
		}
		defer conn.Close()

		updates, cancel := s.Hub.Subscribe(sess.UserID)
		defer cancel()

		// The client never sends anything meaningful; reading only serves
		// to notice pongs and close frames.
		closed := make(chan struct{})
		go func() {
			defer close(closed)
			conn.SetReadLimit(512)
			_ = conn.SetReadDeadline(time.Now().Add(pongWait))
			conn.SetPongHandler(func(string) error {
				return conn.SetReadDeadline(time.Now().Add(pongWait))
			})
			for {
				if _, _, err := conn.ReadMessage(); err != nil {
					return
				}
			}
		}()

		write := func(v any) error {
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			return conn.WriteJSON(v)
		}

		snapshot := progress.Update{Type: "snapshot", Slots: slots, Summary: sum, At: s.Now().UTC()}
		if err := write(snapshot); err != nil {
			return
		}

		ping := time.NewTicker(pingPeriod)
		defer ping.Stop()
		for {
			select {
			case u, ok := <-updates:
				if !ok {
					return
				}
				if err := write(u); err != nil {
					return
				}
			case <-ping.C:
				_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
				if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
					return
				}
			case <-closed:
				return
			case <-r.Context().Done():
				return
			}
		}
	}
}
