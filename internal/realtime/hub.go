// Package realtime streams solver progress over WebSocket connections while
// a solve is in flight, the same register/unregister-channel hub pattern the
// teacher used for its multiplayer rooms, generalized to one topic per
// solve-run id instead of one room per game.
package realtime

import (
	"encoding/json"
	"log"
	"sync"
)

// MessageType identifies the kind of event streamed to a solve's subscribers.
type MessageType string

const (
	MsgProgress   MessageType = "progress"
	MsgSolved     MessageType = "solved"
	MsgUnsolvable MessageType = "unsolvable"
	MsgError      MessageType = "error"
)

// Message is the envelope written to every subscriber of a run.
type Message struct {
	Type    MessageType     `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// ProgressPayload mirrors pkg/solve.Stats plus the current search depth.
type ProgressPayload struct {
	Depth      int `json:"depth"`
	Variables  int `json:"variables"`
	Attempts   int `json:"attempts"`
	Backtracks int `json:"backtracks"`
}

// SolvedPayload carries the final board once a run completes successfully.
type SolvedPayload struct {
	Board      string `json:"board"`
	Attempts   int    `json:"attempts"`
	Backtracks int    `json:"backtracks"`
	ElapsedMs  int64  `json:"elapsedMs"`
}

// ErrorPayload reports a terminal failure for the run (malformed input,
// truly unsolvable instance).
type ErrorPayload struct {
	Message string `json:"message"`
}

// Hub fans out progress events to every client subscribed to a run id.
// Unlike the teacher's room hub, a run is solved by exactly one goroutine;
// the hub's job is purely distribution to however many clients are watching.
type Hub struct {
	clients    map[string]map[*Client]bool // runID -> subscribers
	register   chan *Client
	unregister chan *Client
	mutex      sync.RWMutex
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[string]map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
	}
}

// Run processes register/unregister events until the process exits. Callers
// start it once with `go hub.Run()`.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mutex.Lock()
			set, ok := h.clients[client.RunID]
			if !ok {
				set = make(map[*Client]bool)
				h.clients[client.RunID] = set
			}
			set[client] = true
			h.mutex.Unlock()
			log.Printf("realtime: client subscribed to run %s", client.RunID)

		case client := <-h.unregister:
			h.mutex.Lock()
			if set, ok := h.clients[client.RunID]; ok {
				if _, ok := set[client]; ok {
					delete(set, client)
					close(client.Send)
				}
				if len(set) == 0 {
					delete(h.clients, client.RunID)
				}
			}
			h.mutex.Unlock()
			log.Printf("realtime: client unsubscribed from run %s", client.RunID)
		}
	}
}

func (h *Hub) Register(client *Client) {
	h.register <- client
}

func (h *Hub) Unregister(client *Client) {
	h.unregister <- client
}

// Broadcast sends msgType/payload to every client currently subscribed to
// runID. It is safe to call with no subscribers present — the event is
// simply dropped, matching the solver's "no one is required to be watching"
// contract.
func (h *Hub) Broadcast(runID string, msgType MessageType, payload interface{}) {
	data, err := json.Marshal(payload)
	if err != nil {
		log.Printf("realtime: marshal payload for run %s: %v", runID, err)
		return
	}

	msg := Message{Type: msgType, Payload: data}
	msgData, err := json.Marshal(msg)
	if err != nil {
		log.Printf("realtime: marshal message for run %s: %v", runID, err)
		return
	}

	h.mutex.RLock()
	defer h.mutex.RUnlock()

	for client := range h.clients[runID] {
		select {
		case client.Send <- msgData:
		default:
			// Slow consumer: drop rather than block the solve goroutine.
		}
	}
}

// SubscriberCount reports how many clients are watching a run, mainly for
// tests.
func (h *Hub) SubscriberCount(runID string) int {
	h.mutex.RLock()
	defer h.mutex.RUnlock()
	return len(h.clients[runID])
}
