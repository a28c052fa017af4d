package chat

import (
	"context"
	"errors"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/ag-ui-protocol/ag-ui/sdks/community/go/pkg/core/events"

	ai "github.com/spetersoncode/agentchat"
	"github.com/spetersoncode/agentchat/event"
	"github.com/spetersoncode/agentchat/history"
	"github.com/spetersoncode/agentchat/run"
	"github.com/spetersoncode/agentchat/tool"
)

// ErrRunActive is returned by SendMessage while a run is still streaming.
// Exactly one run session may be active per chat; start the next one after
// the current run reaches a terminal event or the chat is switched.
var ErrRunActive = errors.New("a run is already active for this chat")

// ErrClosed is returned by operations on a closed Chat.
var ErrClosed = errors.New("chat is closed")

// refreshTimeout bounds the background thread-list refresh after a run.
const refreshTimeout = 10 * time.Second

// Config holds configuration for creating a Chat.
type Config struct {
	// Transport opens runs against the agent endpoint. Required.
	Transport run.Transport

	// History is the external conversation store. Optional; without it
	// there is no history fetch and Threads is always empty.
	History history.Store

	// Registry is the tool registry to use. Optional; a fresh registry is
	// created when nil. Registries must not be shared between chats.
	Registry *tool.Registry

	// Seed is shown when both history and live state are empty, as a
	// first-run placeholder. Dropped permanently once either is non-empty.
	Seed []ai.Message

	// Logger receives handler failures and fetch diagnostics.
	// Defaults to slog.Default().
	Logger *slog.Logger
}

// Chat is the state facade for one active conversation. It owns the live
// state, the tool registry, and at most one active run session.
//
// All methods are safe for concurrent use. State mutation is serialized by
// one mutex shared between the caller's goroutine and the run's delivery
// goroutine.
type Chat struct {
	transport run.Transport
	store     history.Store
	registry  *tool.Registry
	log       *slog.Logger
	events    chan event.Event
	seed      []ai.Message

	mu          sync.Mutex
	threadID    string
	generation  int
	active      *run.Handle
	starting    bool
	red         *reducer
	historyMsgs []ai.Message
	historyErr  error
	threads     []history.Thread
	fetchCancel context.CancelFunc
	seedSpent   bool
	closed      bool
}

// New creates a Chat bound to a fresh thread ID.
func New(cfg Config) (*Chat, error) {
	if cfg.Transport == nil {
		return nil, errors.New("chat: Transport is required")
	}
	log := cfg.Logger
	if log == nil {
		log = slog.Default()
	}
	registry := cfg.Registry
	if registry == nil {
		registry = tool.NewRegistry()
	}

	c := &Chat{
		transport: cfg.Transport,
		store:     cfg.History,
		registry:  registry,
		log:       log,
		events:    event.NewChannel(),
		seed:      slices.Clone(cfg.Seed),
		threadID:  events.GenerateThreadID(),
		red:       newReducer(registry, log),
	}
	c.red.reset(c.threadID)
	return c, nil
}

// Events returns the lifecycle signal channel. Signals are emitted without
// blocking; a slow reader loses granularity, not state.
func (c *Chat) Events() <-chan event.Event {
	return c.events
}

// ThreadID returns the active thread ID.
func (c *Chat) ThreadID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.threadID
}

// IsRunning reports whether a run is currently streaming.
func (c *Chat) IsRunning() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.red.state.running
}

// View returns the rendered message sequence: seed placeholder, then
// history, then finalized live messages, then the in-progress message if one
// is streaming. The seed is a first-run placeholder only: it drops
// permanently the first time history or live state becomes non-empty, and
// does not reappear on later empty projections.
func (c *Chat) View() []ai.Message {
	c.mu.Lock()
	defer c.mu.Unlock()

	st := &c.red.state
	var out []ai.Message
	if !c.seedSpent && len(c.historyMsgs) == 0 && len(st.finalized) == 0 && st.inProgress == nil {
		out = append(out, c.seed...)
	}
	out = append(out, c.historyMsgs...)
	out = append(out, st.finalized...)
	if st.inProgress != nil {
		msg := *st.inProgress
		msg.Parts = slices.Clone(msg.Parts)
		out = append(out, msg)
	}
	return out
}

// Progress returns a copy of the active chat's progress tracks.
func (c *Chat) Progress() map[string][]ProgressStep {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.red.progressView()
}

// Snapshot returns the last state snapshot declared by the agent, or nil.
func (c *Chat) Snapshot() any {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.red.state.snapshot
}

// HistoryErr returns the error of the last history fetch for the active
// chat, or nil. A failed fetch is a loading-failed state, never a message.
func (c *Chat) HistoryErr() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.historyErr
}

// SendMessage appends text as a user message and starts a run. The append
// is optimistic: the message is visible immediately, before the agent
// responds. The call returns once the run is started; completion is
// observed through signals, never awaited here.
func (c *Chat) SendMessage(ctx context.Context, text string) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	if c.active != nil || c.starting {
		c.mu.Unlock()
		return ErrRunActive
	}

	msg := ai.NewUserMessage(c.threadID, text)
	c.red.state.finalized = append(c.red.state.finalized, msg)
	c.seedSpent = true
	c.red.begin()

	input := run.Input{
		ThreadID: c.threadID,
		Messages: slices.Concat(c.historyMsgs, c.red.state.finalized),
		Tools:    c.registry.Enabled(),
		State:    c.red.state.snapshot,
	}
	c.starting = true
	gen := c.generation
	c.mu.Unlock()

	// Dial outside the facade lock so View, IsRunning and SwitchChat stay
	// responsive during a slow connect. Delivery is gated until the handle
	// is installed as active, so no event can race the installation.
	ready := make(chan struct{})
	h, err := run.Start(ctx, c.transport, input, func(h *run.Handle, e events.Event) {
		<-ready
		c.onEvent(h, e)
	})

	c.mu.Lock()
	c.starting = false
	if err != nil {
		if gen == c.generation {
			c.red.state.running = false
			c.red.state.phase = phaseIdle
		}
		c.mu.Unlock()
		return err
	}
	if c.closed || gen != c.generation {
		// The chat was switched or closed during the dial; the state this
		// run was started from is gone. Release the gate before Cancel so
		// a delivery blocked on it cannot hold the handle lock forever.
		c.mu.Unlock()
		close(ready)
		h.Cancel()
		return nil
	}
	c.active = h
	c.mu.Unlock()
	close(ready)
	return nil
}

// onEvent is the run session's delivery callback. Deliveries whose handle is
// no longer the active one are discarded unconditionally; this is the check
// that keeps an abandoned run's events out of the next chat's state.
func (c *Chat) onEvent(h *run.Handle, ev events.Event) {
	c.mu.Lock()

	if h != c.active {
		c.mu.Unlock()
		return
	}

	sigs := c.red.apply(ev)
	terminal := c.red.state.phase == phaseFinished || c.red.state.phase == phaseErrored
	if terminal {
		c.active = nil
	}
	finished := c.red.state.phase == phaseFinished
	c.mu.Unlock()

	for _, sig := range sigs {
		event.Emit(c.events, sig)
	}
	if finished && c.store != nil {
		go c.refreshThreads()
	}
}

// SwitchChat activates a different thread. Any active run is hard-cancelled
// and the live state is discarded before this returns, so no in-flight event
// from the old chat can land in the new one. History for the new thread is
// fetched in the background; completions of superseded fetches are dropped.
func (c *Chat) SwitchChat(ctx context.Context, threadID string) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	h := c.active
	cancelFetch := c.fetchCancel
	c.active = nil
	c.fetchCancel = nil
	c.threadID = threadID
	c.generation++
	gen := c.generation
	c.red.reset(threadID)
	c.historyMsgs = nil
	c.historyErr = nil

	var fetchCtx context.Context
	if c.store != nil {
		fetchCtx, c.fetchCancel = context.WithCancel(ctx)
	}
	c.mu.Unlock()

	// Cancel outside the facade lock: Cancel waits for an in-flight
	// delivery, and that delivery may be waiting for the facade lock.
	if h != nil {
		h.Cancel()
	}
	if cancelFetch != nil {
		cancelFetch()
	}
	if fetchCtx != nil {
		go c.fetchHistory(fetchCtx, gen, threadID)
	}
}

// fetchHistory loads a thread's full history and installs it if the chat
// has not been switched again in the meantime.
func (c *Chat) fetchHistory(ctx context.Context, gen int, threadID string) {
	msgs, err := history.FetchAll(ctx, c.store, threadID)

	c.mu.Lock()
	if c.closed || gen != c.generation {
		c.mu.Unlock()
		return
	}
	if err != nil {
		if ai.IsCancellation(err) {
			c.mu.Unlock()
			return
		}
		c.historyErr = err
		c.log.Warn("history fetch failed", "thread_id", threadID, "error", err)
		c.mu.Unlock()
		return
	}
	c.historyMsgs = msgs
	if len(msgs) > 0 {
		c.seedSpent = true
	}
	c.mu.Unlock()

	event.Emit(c.events, event.Event{Type: event.HistoryLoaded, ThreadID: threadID})
}

// Threads returns the cached thread list. The cache is refreshed after each
// finished run and by RefreshThreads.
func (c *Chat) Threads() []history.Thread {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Clone(c.threads)
}

// RefreshThreads fetches the thread listing from the history store.
func (c *Chat) RefreshThreads(ctx context.Context) error {
	if c.store == nil {
		return nil
	}

	var all []history.Thread
	offset := 0
	for {
		page, err := c.store.ListThreads(ctx, offset)
		if err != nil {
			return err
		}
		all = append(all, page.Threads...)
		if len(page.Threads) == 0 || !page.HasMore(offset) {
			break
		}
		offset += len(page.Threads)
	}

	c.mu.Lock()
	c.threads = all
	c.mu.Unlock()
	return nil
}

// refreshThreads is the post-run background refresh.
func (c *Chat) refreshThreads() {
	ctx, cancel := context.WithTimeout(context.Background(), refreshTimeout)
	defer cancel()
	if err := c.RefreshThreads(ctx); err != nil && !ai.IsCancellation(err) {
		c.log.Warn("thread list refresh failed", "error", err)
	}
}

// DeleteThread removes a thread from the history store. Deleting the active
// thread also discards its loaded history and live state.
func (c *Chat) DeleteThread(ctx context.Context, threadID string) error {
	if c.store == nil {
		return nil
	}
	if err := c.store.DeleteThread(ctx, threadID); err != nil {
		return err
	}

	c.mu.Lock()
	if threadID == c.threadID {
		h := c.active
		c.active = nil
		cancelFetch := c.fetchCancel
		c.fetchCancel = nil
		c.generation++
		c.red.reset(c.threadID)
		c.historyMsgs = nil
		c.historyErr = nil
		c.mu.Unlock()
		if h != nil {
			h.Cancel()
		}
		if cancelFetch != nil {
			cancelFetch()
		}
	} else {
		c.mu.Unlock()
	}
	return c.RefreshThreads(ctx)
}

// RegisterTool registers a tool descriptor for the duration of a UI mount.
// Pair with UnregisterTool on unmount.
func (c *Chat) RegisterTool(t ai.Tool) {
	c.registry.Register(t)
}

// UnregisterTool removes a tool descriptor and its binding.
func (c *Chat) UnregisterTool(name string) {
	c.registry.Unregister(name)
}

// BindTool upserts the runtime binding for a tool. Safe to call on every
// render pass.
func (c *Chat) BindTool(name string, b tool.Binding) {
	c.registry.Bind(name, b)
}

// ResolveTool returns the merged descriptor and binding for a name.
func (c *Chat) ResolveTool(name string) (tool.Registered, bool) {
	return c.registry.Resolve(name)
}

// Registry returns the chat's tool registry.
func (c *Chat) Registry() *tool.Registry {
	return c.registry
}

// Close cancels any active run and pending fetches and marks the chat
// closed. The signal channel is left open; readers drain and move on.
func (c *Chat) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	h := c.active
	cancelFetch := c.fetchCancel
	c.active = nil
	c.fetchCancel = nil
	c.mu.Unlock()

	if h != nil {
		h.Cancel()
	}
	if cancelFetch != nil {
		cancelFetch()
	}
}
