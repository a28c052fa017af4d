package history

import (
	"context"
	"slices"
	"sync"
	"time"

	ai "github.com/spetersoncode/agentchat"
)

// DefaultPageSize is the page size the memory store serves.
const DefaultPageSize = 50

// MemoryStore is a thread-safe in-memory Store, useful for tests and demos.
// Threads are created implicitly on first append.
type MemoryStore struct {
	mu       sync.RWMutex
	threads  map[string]*Thread
	messages map[string][]ai.Message
	pageSize int
}

// MemoryOption configures a MemoryStore.
type MemoryOption func(*MemoryStore)

// WithPageSize sets the page size served by ListThreads and GetHistory.
func WithPageSize(n int) MemoryOption {
	return func(s *MemoryStore) {
		s.pageSize = n
	}
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore(opts ...MemoryOption) *MemoryStore {
	s := &MemoryStore{
		threads:  make(map[string]*Thread),
		messages: make(map[string][]ai.Message),
		pageSize: DefaultPageSize,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Append stores a finalized message, creating its thread if needed.
// The first user message's text becomes the thread title.
func (s *MemoryStore) Append(msg ai.Message) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	th, ok := s.threads[msg.ThreadID]
	if !ok {
		th = &Thread{ID: msg.ThreadID, CreatedAt: now}
		s.threads[msg.ThreadID] = th
	}
	th.UpdatedAt = now
	if th.Title == "" && msg.Role == ai.RoleUser {
		th.Title = msg.Text()
	}
	s.messages[msg.ThreadID] = append(s.messages[msg.ThreadID], msg)
}

// ListThreads returns a page of threads ordered by most recent activity.
func (s *MemoryStore) ListThreads(_ context.Context, offset int) (ThreadPage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	all := make([]Thread, 0, len(s.threads))
	for _, th := range s.threads {
		all = append(all, *th)
	}
	slices.SortFunc(all, func(a, b Thread) int {
		return b.UpdatedAt.Compare(a.UpdatedAt)
	})

	page := ThreadPage{Total: len(all)}
	if offset < len(all) {
		end := min(offset+s.pageSize, len(all))
		page.Threads = all[offset:end]
	}
	return page, nil
}

// GetHistory returns a page of a thread's messages, oldest first.
func (s *MemoryStore) GetHistory(_ context.Context, threadID string, offset int) (MessagePage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	msgs := s.messages[threadID]
	page := MessagePage{Total: len(msgs)}
	if offset < len(msgs) {
		end := min(offset+s.pageSize, len(msgs))
		page.Messages = slices.Clone(msgs[offset:end])
	}
	return page, nil
}

// DeleteThread removes a thread and its messages.
func (s *MemoryStore) DeleteThread(_ context.Context, threadID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.threads, threadID)
	delete(s.messages, threadID)
	return nil
}
