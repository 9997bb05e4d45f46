package notify

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net"
	"sync"
	"time"

	"golang.org/x/net/websocket"

	"github.com/ericogr/chimera-arena/internal/constants"
	"github.com/ericogr/chimera-arena/internal/logging"
)

// KindSnapshot is sent once to a new subscriber with the current battle.
const KindSnapshot Kind = "snapshot"

// Frame is the JSON message written to websocket subscribers.
type Frame struct {
	Type     Kind      `json:"type"`
	BattleID string    `json:"battle_id"`
	Sequence int64     `json:"sequence"`
	SentAt   time.Time `json:"sent_at"`
	Payload  any       `json:"payload,omitempty"`
}

// writeTimeout bounds a single frame write. A subscriber that stops
// reading is dropped once it expires.
const writeTimeout = 5 * time.Second

type wsPeer struct {
	mu      sync.Mutex
	conn    *websocket.Conn
	encoder *json.Encoder
	closed  bool
}

func newWSPeer(conn *websocket.Conn) *wsPeer {
	return &wsPeer{conn: conn, encoder: json.NewEncoder(conn)}
}

func (p *wsPeer) writeFrame(ctx context.Context, frame Frame) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.writeLocked(ctx, frame)
}

// writeLocked writes one frame with a deadline taken from ctx, capped at
// writeTimeout. A failed write closes the connection, which ends the
// peer's Serve loop and evicts it from its room.
func (p *wsPeer) writeLocked(ctx context.Context, frame Frame) error {
	if p.closed {
		return net.ErrClosed
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	deadline := time.Now().Add(writeTimeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	if err := p.conn.SetWriteDeadline(deadline); err != nil {
		p.closeLocked()
		return err
	}
	if err := p.encoder.Encode(frame); err != nil {
		p.closeLocked()
		return err
	}
	return nil
}

func (p *wsPeer) closeLocked() {
	if p.closed {
		return
	}
	p.closed = true
	_ = p.conn.Close()
}

type battleRoom struct {
	mu           sync.Mutex
	nextSequence int64
	subscribers  map[*wsPeer]struct{}
}

func (r *battleRoom) join(peer *wsPeer) {
	r.mu.Lock()
	r.subscribers[peer] = struct{}{}
	r.mu.Unlock()
}

func (r *battleRoom) leave(peer *wsPeer) bool {
	r.mu.Lock()
	delete(r.subscribers, peer)
	empty := len(r.subscribers) == 0
	r.mu.Unlock()
	return empty
}

func (r *battleRoom) next() (int64, []*wsPeer) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextSequence++
	peers := make([]*wsPeer, 0, len(r.subscribers))
	for p := range r.subscribers {
		peers = append(peers, p)
	}
	return r.nextSequence, peers
}

// Hub fans battle events out to websocket subscribers grouped in one room
// per battle.
type Hub struct {
	mu    sync.Mutex
	rooms map[string]*battleRoom
	now   func() time.Time
}

func NewHub() *Hub {
	return &Hub{rooms: make(map[string]*battleRoom), now: time.Now}
}

func (h *Hub) room(battleID string) *battleRoom {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.rooms[battleID]
}

// join and release hold the hub lock so a room is never dropped while a
// peer is joining it.
func (h *Hub) join(battleID string, peer *wsPeer) *battleRoom {
	h.mu.Lock()
	defer h.mu.Unlock()
	room, ok := h.rooms[battleID]
	if !ok {
		room = &battleRoom{subscribers: make(map[*wsPeer]struct{})}
		h.rooms[battleID] = room
	}
	room.join(peer)
	return room
}

func (h *Hub) release(battleID string, room *battleRoom, peer *wsPeer) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if room.leave(peer) && h.rooms[battleID] == room {
		delete(h.rooms, battleID)
	}
}

// Subscribers returns how many peers currently follow the battle.
func (h *Hub) Subscribers(battleID string) int {
	room := h.room(battleID)
	if room == nil {
		return 0
	}
	room.mu.Lock()
	defer room.mu.Unlock()
	return len(room.subscribers)
}

// Serve registers conn as a subscriber of battleID and blocks until the
// client disconnects. The peer joins the room before snapshot is called, so
// no event committed after the snapshot can be missed; events published
// meanwhile are held back until the snapshot frame is written. A nil
// snapshot func sends no snapshot frame.
func (h *Hub) Serve(battleID string, conn *websocket.Conn, snapshot func() (any, error)) {
	peer := newWSPeer(conn)
	defer func() {
		peer.mu.Lock()
		peer.closeLocked()
		peer.mu.Unlock()
	}()

	peer.mu.Lock()
	room := h.join(battleID, peer)
	defer h.release(battleID, room, peer)
	if snapshot != nil {
		snap, err := snapshot()
		if err == nil {
			ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
			err = peer.writeLocked(ctx, Frame{Type: KindSnapshot, BattleID: battleID, SentAt: h.now().UTC(), Payload: snap})
			cancel()
		}
		if err != nil {
			peer.mu.Unlock()
			logging.Debug("websocket snapshot failed", logging.Fields{constants.LogFieldBattleID: battleID, "error": err.Error()})
			return
		}
	}
	peer.mu.Unlock()

	// subscribers never send anything meaningful; reading only detects the
	// close
	buf := make([]byte, 512)
	for {
		if _, err := conn.Read(buf); err != nil {
			if !errors.Is(err, io.EOF) {
				logging.Debug("websocket subscriber dropped", logging.Fields{constants.LogFieldBattleID: battleID, "error": err.Error()})
			}
			return
		}
	}
}

// Publish writes the event to every subscriber of the battle. Peers that
// fail are skipped; their Serve loop cleans them up.
func (h *Hub) Publish(ctx context.Context, battleID string, kind Kind, payload any) error {
	room := h.room(battleID)
	if room == nil {
		return nil
	}
	seq, peers := room.next()
	frame := Frame{Type: kind, BattleID: battleID, Sequence: seq, SentAt: h.now().UTC(), Payload: payload}
	failed := 0
	for _, p := range peers {
		if err := p.writeFrame(ctx, frame); err != nil {
			failed++
		}
	}
	if failed > 0 {
		logging.Warn("websocket delivery failed", logging.Fields{constants.LogFieldBattleID: battleID, constants.LogFieldKind: string(kind), constants.LogFieldCount: failed})
	}
	return nil
}
