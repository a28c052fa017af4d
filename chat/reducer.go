package chat

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/ag-ui-protocol/ag-ui/sdks/community/go/pkg/core/events"

	ai "github.com/spetersoncode/agentchat"
	"github.com/spetersoncode/agentchat/event"
	"github.com/spetersoncode/agentchat/tool"
)

// phase is the reducer's run lifecycle state.
type phase int

const (
	phaseIdle phase = iota
	phaseRunning
	phaseFinished
	phaseErrored
)

// pendingCall accumulates one streamed tool call between its start and end
// events. Nothing is dispatched until the end event closes the args stream.
type pendingCall struct {
	id   string
	name string
	args strings.Builder
}

// liveState is the mutable per-chat state the reducer owns. It is created
// empty when a chat becomes active and discarded wholesale on switch, never
// merged forward.
type liveState struct {
	threadID   string
	phase      phase
	running    bool
	finalized  []ai.Message
	inProgress *ai.Message
	pending    map[string]*pendingCall
	snapshot   any
	progress   map[string][]ProgressStep
}

// reducer folds a run's event stream into liveState in strict receipt order.
// It is not safe for concurrent use; the facade serializes calls under its
// mutex. Tool handlers are the one exception: they run on their own
// goroutines and never touch the state.
type reducer struct {
	state    liveState
	registry *tool.Registry
	log      *slog.Logger
}

func newReducer(registry *tool.Registry, log *slog.Logger) *reducer {
	r := &reducer{registry: registry, log: log}
	r.reset("")
	return r
}

// reset discards all live state and rebinds the reducer to a thread.
func (r *reducer) reset(threadID string) {
	r.state = liveState{
		threadID: threadID,
		phase:    phaseIdle,
		pending:  make(map[string]*pendingCall),
		progress: make(map[string][]ProgressStep),
	}
}

// begin marks the start of a run. Finalized messages from earlier runs on
// the same thread are kept; only per-run bookkeeping is cleared.
func (r *reducer) begin() {
	r.state.phase = phaseRunning
	r.state.running = true
	r.state.inProgress = nil
	clear(r.state.pending)
}

// apply folds one event into the state and returns the signals to raise.
// Events outside a running phase are discarded; the facade's handle identity
// check makes this unreachable in practice, but a second net costs nothing.
func (r *reducer) apply(ev events.Event) []event.Event {
	if r.state.phase != phaseRunning {
		return nil
	}

	switch e := ev.(type) {
	case *events.RunStartedEvent:
		return r.signal(event.Event{Type: event.RunStart})

	case *events.TextMessageStartEvent:
		return r.applyMessageStart(e)

	case *events.TextMessageContentEvent:
		return r.applyMessageContent(e)

	case *events.TextMessageEndEvent:
		return r.applyMessageEnd()

	case *events.ToolCallStartEvent:
		r.state.pending[e.ToolCallID] = &pendingCall{id: e.ToolCallID, name: e.ToolCallName}
		return nil

	case *events.ToolCallArgsEvent:
		if pc, ok := r.state.pending[e.ToolCallID]; ok {
			pc.args.WriteString(e.Delta)
		}
		return nil

	case *events.ToolCallEndEvent:
		return r.applyToolCallEnd(e)

	case *events.StateSnapshotEvent:
		r.state.snapshot = e.Snapshot
		return r.signal(event.Event{Type: event.StateUpdated})

	case *events.CustomEvent:
		return r.applyCustom(e)

	case *events.RunFinishedEvent:
		return r.applyRunFinished()

	case *events.RunErrorEvent:
		return r.applyRunError(e)

	default:
		return nil
	}
}

func (r *reducer) applyMessageStart(e *events.TextMessageStartEvent) []event.Event {
	id := e.MessageID
	if id == "" {
		id = ai.GenerateMessageID()
	}
	r.state.inProgress = &ai.Message{
		ID:        id,
		Role:      ai.RoleAssistant,
		ThreadID:  r.state.threadID,
		CreatedAt: time.Now(),
	}
	return r.signal(event.Event{Type: event.MessageStart, MessageID: id})
}

func (r *reducer) applyMessageContent(e *events.TextMessageContentEvent) []event.Event {
	msg := r.state.inProgress
	if msg == nil {
		// Delta without a start; tolerate skew rather than fail the run.
		r.log.Debug("content delta with no open message", "message_id", e.MessageID)
		return nil
	}
	if n := len(msg.Parts); n > 0 && msg.Parts[n-1].Type == ai.ContentPartTypeText {
		msg.Parts[n-1].Text += e.Delta
	} else {
		msg.Parts = append(msg.Parts, ai.NewTextPart(e.Delta))
	}
	return r.signal(event.Event{Type: event.MessageDelta, MessageID: msg.ID, Delta: e.Delta})
}

func (r *reducer) applyMessageEnd() []event.Event {
	msg := r.state.inProgress
	if msg == nil {
		return nil
	}
	r.state.inProgress = nil
	r.state.finalized = append(r.state.finalized, *msg)
	return r.signal(event.Event{Type: event.MessageEnd, MessageID: msg.ID})
}

// applyToolCallEnd closes a streamed tool call and dispatches it: a handler
// binding is invoked fire-and-forget, a render binding yields a widget
// message, and an unbound call still finalizes as a complete invocation part
// so the transcript shows what the agent did.
func (r *reducer) applyToolCallEnd(e *events.ToolCallEndEvent) []event.Event {
	pc, ok := r.state.pending[e.ToolCallID]
	if !ok {
		return nil
	}
	delete(r.state.pending, e.ToolCallID)

	call := ai.ToolCall{ID: pc.id, Name: pc.name, Arguments: pc.args.String()}
	args := slices.Clone(call.Args())

	var part ai.ContentPart
	reg, bound := r.registry.Resolve(pc.name)
	switch {
	case bound && reg.Handler != nil:
		go r.invokeHandler(reg.Handler, call)
		part = ai.NewToolInvocationPart(pc.name, args, ai.InvocationComplete)
	case bound && (reg.Render != nil || reg.RenderAndWait != nil):
		part = ai.NewWidgetPart(pc.name, args)
	default:
		part = ai.NewToolInvocationPart(pc.name, args, ai.InvocationComplete)
	}

	if msg := r.state.inProgress; msg != nil {
		msg.Parts = append(msg.Parts, part)
	} else {
		r.state.finalized = append(r.state.finalized, ai.Message{
			ID:        ai.GenerateMessageID(),
			Role:      ai.RoleAssistant,
			ThreadID:  r.state.threadID,
			CreatedAt: time.Now(),
			Parts:     []ai.ContentPart{part},
		})
	}
	return r.signal(event.Event{Type: event.ToolCall, ToolName: pc.name})
}

// invokeHandler runs a tool handler on its own goroutine. Failures and
// panics are logged and contained; they never abort the run and never
// produce an error message.
func (r *reducer) invokeHandler(h tool.Handler, call ai.ToolCall) {
	defer func() {
		if rec := recover(); rec != nil {
			err := &ai.ToolHandlerError{Name: call.Name, Cause: fmt.Errorf("panic: %v", rec)}
			r.log.Error("tool handler panicked", "tool", call.Name, "error", err)
		}
	}()
	if _, err := h(context.Background(), call); err != nil {
		herr := &ai.ToolHandlerError{Name: call.Name, Cause: err}
		r.log.Error("tool handler failed", "tool", call.Name, "error", herr)
	}
}

// applyCustom handles the recognized custom event names. Anything else is
// ignored, as are progress references to tracks or steps that do not exist;
// protocol skew must never crash a run.
func (r *reducer) applyCustom(e *events.CustomEvent) []event.Event {
	switch e.Name {
	case customProgressStart:
		var p progressStartPayload
		if !decodeValue(e.Value, &p) || p.ID == "" {
			return nil
		}
		steps := make([]ProgressStep, len(p.Steps))
		for i, s := range p.Steps {
			steps[i] = ProgressStep{Label: s.Label}
		}
		r.state.progress[p.ID] = steps
		return r.signal(event.Event{Type: event.ProgressUpdated, ProgressID: p.ID})

	case customProgressDone:
		var p progressStepPayload
		if !decodeValue(e.Value, &p) {
			return nil
		}
		return r.markStep(p.ID, p.Step, func(s *ProgressStep) { s.Done = true })

	case customProgressError:
		var p progressStepPayload
		if !decodeValue(e.Value, &p) {
			return nil
		}
		return r.markStep(p.ID, p.Step, func(s *ProgressStep) { s.Error = p.Message })

	default:
		return nil
	}
}

// markStep applies a terminal marking to one progress step. Unknown tracks,
// out-of-range indexes, and already-terminal steps are silent no-ops.
func (r *reducer) markStep(id string, idx int, mark func(*ProgressStep)) []event.Event {
	steps, ok := r.state.progress[id]
	if !ok || idx < 0 || idx >= len(steps) {
		return nil
	}
	if steps[idx].Terminal() {
		return nil
	}
	mark(&steps[idx])
	return r.signal(event.Event{Type: event.ProgressUpdated, ProgressID: id})
}

func (r *reducer) applyRunFinished() []event.Event {
	sigs := r.applyMessageEnd()
	r.state.phase = phaseFinished
	r.state.running = false
	clear(r.state.pending)
	return append(sigs, r.signal(event.Event{Type: event.RunEnd})...)
}

// applyRunError surfaces a remote run failure as exactly one error message.
// Local cancellation never reaches here: a cancelled handle stops delivering
// before any event, including a terminal one, can arrive.
func (r *reducer) applyRunError(e *events.RunErrorEvent) []event.Event {
	sigs := r.applyMessageEnd()
	r.state.phase = phaseErrored
	r.state.running = false
	clear(r.state.pending)

	text := e.Message
	if text == "" {
		text = "run failed"
	}
	r.state.finalized = append(r.state.finalized, ai.NewErrorMessage(r.state.threadID, text))
	return append(sigs, r.signal(event.Event{Type: event.RunError, Error: errors.New(text)})...)
}

// signal stamps the thread ID onto an outgoing lifecycle signal.
func (r *reducer) signal(e event.Event) []event.Event {
	e.ThreadID = r.state.threadID
	return []event.Event{e}
}

// progressView returns a deep copy of the progress tracks.
func (r *reducer) progressView() map[string][]ProgressStep {
	out := make(map[string][]ProgressStep, len(r.state.progress))
	for id, steps := range r.state.progress {
		out[id] = slices.Clone(steps)
	}
	return out
}

// decodeValue converts a custom event's value, which arrives as whatever
// encoding/json produced for an any, into a typed payload by re-marshaling.
func decodeValue(v any, out any) bool {
	if v == nil {
		return false
	}
	data, err := json.Marshal(v)
	if err != nil {
		return false
	}
	return json.Unmarshal(data, out) == nil
}
