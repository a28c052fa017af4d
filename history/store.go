// Package history defines the external conversation store a chat client
// reads finalized messages and thread listings from.
//
// The store owns all persistence. The chat facade only fetches pages from it
// and never writes messages back; the agent backend records the conversation
// on its side of the transport.
package history

import (
	"context"
	"time"

	ai "github.com/spetersoncode/agentchat"
)

// Thread is one conversation known to the store.
type Thread struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ThreadPage is one page of a thread listing, newest first.
type ThreadPage struct {
	Threads []Thread `json:"threads"`
	// Total is the number of threads in the store, not in this page.
	Total int `json:"total"`
}

// HasMore reports whether pages remain after the given offset.
func (p ThreadPage) HasMore(offset int) bool {
	return offset+len(p.Threads) < p.Total
}

// MessagePage is one page of a thread's finalized messages, oldest first.
type MessagePage struct {
	Messages []ai.Message `json:"messages"`
	// Total is the number of messages in the thread, not in this page.
	Total int `json:"total"`
}

// HasMore reports whether pages remain after the given offset.
func (p MessagePage) HasMore(offset int) bool {
	return offset+len(p.Messages) < p.Total
}

// Store is the external history store contract.
type Store interface {
	// ListThreads returns one page of threads starting at offset.
	ListThreads(ctx context.Context, offset int) (ThreadPage, error)

	// GetHistory returns one page of finalized messages for a thread
	// starting at offset. An unknown thread returns an empty page, not an
	// error, so a freshly created chat can be activated before its first
	// run persists anything.
	GetHistory(ctx context.Context, threadID string, offset int) (MessagePage, error)

	// DeleteThread removes a thread and its messages. Deleting an unknown
	// thread is a no-op.
	DeleteThread(ctx context.Context, threadID string) error
}

// FetchAll drains GetHistory page by page and returns the full message
// sequence for the thread, oldest first.
func FetchAll(ctx context.Context, s Store, threadID string) ([]ai.Message, error) {
	var all []ai.Message
	offset := 0
	for {
		page, err := s.GetHistory(ctx, threadID, offset)
		if err != nil {
			return nil, err
		}
		all = append(all, page.Messages...)
		if len(page.Messages) == 0 || !page.HasMore(offset) {
			return all, nil
		}
		offset += len(page.Messages)
	}
}
