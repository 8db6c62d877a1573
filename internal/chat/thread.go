// Package chat owns conversation threads: persistence, the send
// pipeline and the reply formatter.
package chat

import (
	"encoding/json"
	"fmt"
	"time"
)

// Message roles.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is a single chat message.
type Message struct {
	ID        string
	Type      string // user | assistant
	Content   string
	Timestamp time.Time
}

// Thread is one conversation. BackendThreadID, once set, is reused for
// every later message so the remote service keeps its own context.
type Thread struct {
	ID              string
	Title           string
	Messages        []Message
	CreatedAt       time.Time
	LastUpdated     time.Time
	BackendThreadID string
}

// timeLayout is the fixed textual encoding for persisted dates.
const timeLayout = time.RFC3339Nano

// persistedMessage mirrors Message with string-encoded dates for the
// storage boundary.
type persistedMessage struct {
	ID        string `json:"id"`
	Type      string `json:"type"`
	Content   string `json:"content"`
	Timestamp string `json:"timestamp"`
}

// persistedThread mirrors Thread with string-encoded dates.
type persistedThread struct {
	ID              string             `json:"id"`
	Title           string             `json:"title"`
	Messages        []persistedMessage `json:"messages"`
	CreatedAt       string             `json:"createdAt"`
	LastUpdated     string             `json:"lastUpdated"`
	BackendThreadID string             `json:"backendThreadId,omitempty"`
}

// encodeThreads serializes the thread list for storage.
func encodeThreads(threads []*Thread) ([]byte, error) {
	out := make([]persistedThread, 0, len(threads))
	for _, t := range threads {
		pt := persistedThread{
			ID:              t.ID,
			Title:           t.Title,
			CreatedAt:       t.CreatedAt.UTC().Format(timeLayout),
			LastUpdated:     t.LastUpdated.UTC().Format(timeLayout),
			BackendThreadID: t.BackendThreadID,
		}
		for _, m := range t.Messages {
			pt.Messages = append(pt.Messages, persistedMessage{
				ID:        m.ID,
				Type:      m.Type,
				Content:   m.Content,
				Timestamp: m.Timestamp.UTC().Format(timeLayout),
			})
		}
		out = append(out, pt)
	}
	return json.Marshal(out)
}

// decodeThreads deserializes a stored thread list, reconstructing date
// fields from their string form.
func decodeThreads(data []byte) ([]*Thread, error) {
	var stored []persistedThread
	if err := json.Unmarshal(data, &stored); err != nil {
		return nil, fmt.Errorf("unmarshal threads: %w", err)
	}

	threads := make([]*Thread, 0, len(stored))
	for _, pt := range stored {
		createdAt, err := time.Parse(timeLayout, pt.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("parse createdAt: %w", err)
		}
		lastUpdated, err := time.Parse(timeLayout, pt.LastUpdated)
		if err != nil {
			return nil, fmt.Errorf("parse lastUpdated: %w", err)
		}

		t := &Thread{
			ID:              pt.ID,
			Title:           pt.Title,
			CreatedAt:       createdAt,
			LastUpdated:     lastUpdated,
			BackendThreadID: pt.BackendThreadID,
		}
		for _, pm := range pt.Messages {
			ts, err := time.Parse(timeLayout, pm.Timestamp)
			if err != nil {
				return nil, fmt.Errorf("parse timestamp: %w", err)
			}
			t.Messages = append(t.Messages, Message{
				ID:        pm.ID,
				Type:      pm.Type,
				Content:   pm.Content,
				Timestamp: ts,
			})
		}
		threads = append(threads, t)
	}
	return threads, nil
}
