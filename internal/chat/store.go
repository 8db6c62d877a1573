package chat

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/codifyapp/codify-go/internal/api"
	"github.com/codifyapp/codify-go/internal/notify"
	"github.com/codifyapp/codify-go/internal/storage"
)

// Seed and fallback texts shown in the conversation itself.
const (
	defaultThreadTitle = "Code Review Discussion"
	newThreadTitle     = "New Conversation"

	defaultGreeting = "Hi! I'm your AI code review assistant. I can help you understand code issues, suggest improvements, explain best practices, and answer any programming questions you have. What would you like to discuss?"
	newGreeting     = "Hello! I'm here to help you with code review and programming questions. What would you like to discuss?"

	fallbackReply = "Sorry, I'm having trouble responding right now. Please try again later."
)

// titleLimit caps the thread title derived from the first user message.
const titleLimit = 50

// ErrThreadNotFound is returned for lookups of unknown thread ids.
var ErrThreadNotFound = errors.New("thread not found")

// Gateway is the slice of the API client the chat store needs.
type Gateway interface {
	Chat(ctx context.Context, req api.ChatRequest) (*api.ChatResponse, error)
}

// Limiter consumes one request after each successful send.
type Limiter interface {
	Decrement()
}

// Store owns the thread list. Every mutation is written through to
// storage so a restart picks up where the last session left off.
type Store struct {
	gateway Gateway
	storage storage.Store
	notify  notify.Notifier
	limiter Limiter
	log     *slog.Logger

	mu       sync.Mutex
	threads  []*Thread
	activeID string

	now   func() time.Time
	newID func() string
}

// NewStore loads persisted threads, seeding the default conversation
// when nothing (or nothing readable) is stored. The thread list is
// never empty.
func NewStore(gw Gateway, st storage.Store, n notify.Notifier, lim Limiter, log *slog.Logger) *Store {
	if n == nil {
		n = notify.Discard{}
	}
	if log == nil {
		log = slog.Default()
	}
	s := &Store{
		gateway: gw,
		storage: st,
		notify:  n,
		limiter: lim,
		log:     log,
		now:     time.Now,
		newID:   uuid.NewString,
	}
	s.load()
	return s
}

func (s *Store) load() {
	data, err := s.storage.Get(storage.KeyChatThreads)
	if err == nil {
		threads, decodeErr := decodeThreads(data)
		if decodeErr == nil && len(threads) > 0 {
			s.threads = threads
			s.activeID = threads[0].ID
			return
		}
		if decodeErr != nil {
			// Corrupt state is discarded, not fatal.
			s.log.Error("failed to load chat threads", "error", decodeErr)
		}
	} else if !errors.Is(err, storage.ErrNotFound) {
		s.log.Error("failed to read chat threads", "error", err)
	}

	seed := s.seedThread()
	s.threads = []*Thread{seed}
	s.activeID = seed.ID
	s.persist()
}

func (s *Store) seedThread() *Thread {
	now := s.now()
	return &Thread{
		ID:          s.newID(),
		Title:       defaultThreadTitle,
		CreatedAt:   now,
		LastUpdated: now,
		Messages: []Message{{
			ID:        s.newID(),
			Type:      RoleAssistant,
			Content:   defaultGreeting,
			Timestamp: now,
		}},
	}
}

// persist writes the full thread list through to storage. Callers hold
// the lock. A write failure is logged, not surfaced: the in-memory
// state stays authoritative for the session.
func (s *Store) persist() {
	data, err := encodeThreads(s.threads)
	if err != nil {
		s.log.Error("failed to encode chat threads", "error", err)
		return
	}
	if err := s.storage.Set(storage.KeyChatThreads, data); err != nil {
		s.log.Error("failed to save chat threads", "error", err)
	}
}

// Threads returns a snapshot of all threads, most recent first.
func (s *Store) Threads() []Thread {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Thread, 0, len(s.threads))
	for _, t := range s.threads {
		out = append(out, snapshotThread(t))
	}
	return out
}

// Active returns the currently selected thread.
func (s *Store) Active() Thread {
	s.mu.Lock()
	defer s.mu.Unlock()
	return snapshotThread(s.mustActive())
}

// SetActive selects a thread by id.
func (s *Store) SetActive(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, t := range s.threads {
		if t.ID == id {
			s.activeID = id
			return nil
		}
	}
	return fmt.Errorf("%w: %s", ErrThreadNotFound, id)
}

// NewThread creates a fresh conversation, makes it active and returns
// it. New threads go to the front of the list.
func (s *Store) NewThread() Thread {
	s.mu.Lock()
	defer s.mu.Unlock()

	t := s.newThreadLocked()
	return snapshotThread(t)
}

func (s *Store) newThreadLocked() *Thread {
	now := s.now()
	t := &Thread{
		ID:          s.newID(),
		Title:       newThreadTitle,
		CreatedAt:   now,
		LastUpdated: now,
		Messages: []Message{{
			ID:        s.newID(),
			Type:      RoleAssistant,
			Content:   newGreeting,
			Timestamp: now,
		}},
	}
	s.threads = append([]*Thread{t}, s.threads...)
	s.activeID = t.ID
	s.persist()
	return t
}

// DeleteThread removes a thread. Deleting the active thread activates
// the first remaining one; deleting the last thread creates a fresh
// conversation so the list never empties.
func (s *Store) DeleteThread(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := -1
	for i, t := range s.threads {
		if t.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return fmt.Errorf("%w: %s", ErrThreadNotFound, id)
	}

	s.threads = append(s.threads[:idx], s.threads[idx+1:]...)

	if len(s.threads) == 0 {
		s.newThreadLocked()
		return nil
	}
	if s.activeID == id {
		s.activeID = s.threads[0].ID
	}
	s.persist()
	return nil
}

// SendMessage appends the user's message to the active thread, calls
// the backend and appends the reply. Errors never surface as a bare
// failure: the thread always gets an assistant message, real or
// fallback, and the user is notified out-of-band.
func (s *Store) SendMessage(ctx context.Context, content string) Message {
	s.mu.Lock()
	active := s.mustActive()

	now := s.now()
	// The first user message names the thread.
	if len(active.Messages) == 1 {
		active.Title = truncateTitle(content)
	}
	active.Messages = append(active.Messages, Message{
		ID:        s.newID(),
		Type:      RoleUser,
		Content:   content,
		Timestamp: now,
	})
	active.LastUpdated = now
	backendID := active.BackendThreadID
	s.persist()
	s.mu.Unlock()

	resp, err := s.gateway.Chat(ctx, api.ChatRequest{
		Message:  content,
		ThreadID: backendID,
	})

	s.mu.Lock()
	defer s.mu.Unlock()

	reply := Message{
		ID:        s.newID(),
		Type:      RoleAssistant,
		Timestamp: s.now(),
	}

	if err != nil {
		s.log.Error("failed to send message", "error", err)
		s.notifySendFailure(err)
		reply.Content = fallbackReply
	} else {
		reply.Content = resp.Message
		active.BackendThreadID = resp.ThreadID
		if s.limiter != nil {
			s.limiter.Decrement()
		}
	}

	active.Messages = append(active.Messages, reply)
	active.LastUpdated = reply.Timestamp
	s.persist()
	return reply
}

func (s *Store) notifySendFailure(err error) {
	if api.IsRateLimited(err) {
		s.notify.RateLimitModal(err.Error())
		return
	}
	msg := "Failed to send message. Please try again."
	var apiErr *api.APIError
	if errors.As(err, &apiErr) {
		msg = apiErr.Message
	}
	s.notify.Error(msg)
}

// mustActive returns the active thread; callers hold the lock. The
// list is never empty and activeID always points into it.
func (s *Store) mustActive() *Thread {
	for _, t := range s.threads {
		if t.ID == s.activeID {
			return t
		}
	}
	// Self-heal rather than panic if the invariant is ever broken.
	s.activeID = s.threads[0].ID
	return s.threads[0]
}

func truncateTitle(content string) string {
	runes := []rune(content)
	if len(runes) > titleLimit {
		runes = runes[:titleLimit]
	}
	return string(runes) + "..."
}

func snapshotThread(t *Thread) Thread {
	out := *t
	out.Messages = make([]Message, len(t.Messages))
	copy(out.Messages, t.Messages)
	return out
}
