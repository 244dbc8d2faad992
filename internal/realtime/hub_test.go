package realtime

import (
	"encoding/json"
	"testing"
	"time"
)

func TestMessageTypes_Distinct(t *testing.T) {
	types := []MessageType{MsgProgress, MsgSolved, MsgUnsolvable, MsgError}

	seen := make(map[MessageType]bool)
	for _, msgType := range types {
		if seen[msgType] {
			t.Errorf("duplicate message type: %s", msgType)
		}
		seen[msgType] = true
	}
}

func TestMessageSerialization(t *testing.T) {
	msg := Message{
		Type:    MsgProgress,
		Payload: json.RawMessage(`{"depth":3,"variables":10,"attempts":42,"backtracks":5}`),
	}

	data, err := json.Marshal(msg)
	if err != nil {
		t.Fatalf("Marshal error: %v", err)
	}

	var decoded Message
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal error: %v", err)
	}

	if decoded.Type != msg.Type {
		t.Errorf("Type = %s, want %s", decoded.Type, msg.Type)
	}

	var payload ProgressPayload
	if err := json.Unmarshal(decoded.Payload, &payload); err != nil {
		t.Fatalf("Unmarshal payload error: %v", err)
	}
	if payload.Depth != 3 || payload.Attempts != 42 {
		t.Errorf("payload = %+v, want depth=3 attempts=42", payload)
	}
}

func TestHub_BroadcastDeliversToSubscriber(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	client := &Client{hub: hub, RunID: "run-1", Send: make(chan []byte, 4)}
	hub.Register(client)

	// Give the hub goroutine a moment to process the register.
	waitForSubscriberCount(t, hub, "run-1", 1)

	hub.Broadcast("run-1", MsgSolved, SolvedPayload{Board: "CAT", Attempts: 1, Backtracks: 0, ElapsedMs: 5})

	select {
	case msgData := <-client.Send:
		var msg Message
		if err := json.Unmarshal(msgData, &msg); err != nil {
			t.Fatalf("Unmarshal error: %v", err)
		}
		if msg.Type != MsgSolved {
			t.Errorf("Type = %s, want %s", msg.Type, MsgSolved)
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for broadcast delivery")
	}
}

func TestHub_BroadcastWithNoSubscribersIsNoop(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	// No client registered for this run; broadcasting must not panic or block.
	hub.Broadcast("run-none", MsgUnsolvable, ErrorPayload{Message: "no solution"})
}

func TestHub_UnregisterStopsDelivery(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	client := &Client{hub: hub, RunID: "run-2", Send: make(chan []byte, 4)}
	hub.Register(client)
	waitForSubscriberCount(t, hub, "run-2", 1)

	hub.Unregister(client)
	waitForSubscriberCount(t, hub, "run-2", 0)

	if _, ok := <-client.Send; ok {
		t.Error("expected Send channel to be closed after unregister")
	}
}

func TestHub_MultipleSubscribersSameRun(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	a := &Client{hub: hub, RunID: "run-3", Send: make(chan []byte, 4)}
	b := &Client{hub: hub, RunID: "run-3", Send: make(chan []byte, 4)}
	hub.Register(a)
	hub.Register(b)
	waitForSubscriberCount(t, hub, "run-3", 2)

	hub.Broadcast("run-3", MsgProgress, ProgressPayload{Depth: 1})

	for _, c := range []*Client{a, b} {
		select {
		case <-c.Send:
		case <-time.After(time.Second):
			t.Fatal("timed out waiting for broadcast to reach all subscribers")
		}
	}
}

func waitForSubscriberCount(t *testing.T, hub *Hub, runID string, want int) {
	t.Helper()
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if hub.SubscriberCount(runID) == want {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatalf("SubscriberCount(%s) never reached %d", runID, want)
}
