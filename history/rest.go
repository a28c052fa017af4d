package history

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/ag-ui-protocol/ag-ui/sdks/community/go/pkg/core/events"

	ai "github.com/spetersoncode/agentchat"
	"github.com/spetersoncode/agentchat/run"
)

// RESTStore reads history from an HTTP store exposing:
//
//	GET    {base}/threads?offset=N
//	GET    {base}/threads/{id}/messages?offset=N
//	DELETE {base}/threads/{id}
//
// Messages are served in the AG-UI wire format and converted to finalized
// messages on read. All failures are wrapped as [ai.HistoryError].
type RESTStore struct {
	baseURL    string
	httpClient *http.Client
}

// RESTOption configures a RESTStore.
type RESTOption func(*RESTStore)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(c *http.Client) RESTOption {
	return func(s *RESTStore) {
		s.httpClient = c
	}
}

// NewRESTStore creates a store client for the given base URL.
func NewRESTStore(baseURL string, opts ...RESTOption) *RESTStore {
	s := &RESTStore{
		baseURL:    baseURL,
		httpClient: http.DefaultClient,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// wireMessagePage is the message page as served on the wire.
type wireMessagePage struct {
	Messages []events.Message `json:"messages"`
	Total    int              `json:"total"`
}

// ListThreads returns one page of threads starting at offset.
func (s *RESTStore) ListThreads(ctx context.Context, offset int) (ThreadPage, error) {
	var page ThreadPage
	u := s.baseURL + "/threads?offset=" + strconv.Itoa(offset)
	if err := s.getJSON(ctx, u, &page); err != nil {
		return ThreadPage{}, &ai.HistoryError{Op: "list_threads", Cause: err}
	}
	return page, nil
}

// GetHistory returns one page of a thread's messages starting at offset.
func (s *RESTStore) GetHistory(ctx context.Context, threadID string, offset int) (MessagePage, error) {
	var wire wireMessagePage
	u := s.baseURL + "/threads/" + url.PathEscape(threadID) + "/messages?offset=" + strconv.Itoa(offset)
	if err := s.getJSON(ctx, u, &wire); err != nil {
		return MessagePage{}, &ai.HistoryError{Op: "get_history", ThreadID: threadID, Cause: err}
	}

	page := MessagePage{Total: wire.Total}
	for _, m := range wire.Messages {
		page.Messages = append(page.Messages, run.FromWireMessage(threadID, m))
	}
	return page, nil
}

// DeleteThread removes a thread from the store.
func (s *RESTStore) DeleteThread(ctx context.Context, threadID string) error {
	u := s.baseURL + "/threads/" + url.PathEscape(threadID)
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, u, nil)
	if err != nil {
		return &ai.HistoryError{Op: "delete_thread", ThreadID: threadID, Cause: err}
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return &ai.HistoryError{Op: "delete_thread", ThreadID: threadID, Cause: err}
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent {
		return &ai.HistoryError{
			Op:       "delete_thread",
			ThreadID: threadID,
			Cause:    fmt.Errorf("unexpected status %d", resp.StatusCode),
		}
	}
	return nil
}

// getJSON fetches a URL and decodes the JSON response into out.
func (s *RESTStore) getJSON(ctx context.Context, u string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
