package agentchat

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Role represents the role of a message in a conversation.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
	// RoleError marks a message carrying a surfaced run error.
	RoleError Role = "error"
)

// ContentPartType represents the type of a message content part.
type ContentPartType string

const (
	ContentPartTypeText ContentPartType = "text"
	// ContentPartTypeToolInvocation records a tool call made during a run.
	ContentPartTypeToolInvocation ContentPartType = "toolInvocation"
	// ContentPartTypeWidget defers rendering of a tool call to a
	// presentation-layer component registered for the tool name.
	ContentPartTypeWidget ContentPartType = "widget"
)

// InvocationStatus tracks the lifecycle of a tool-invocation part.
// The status transitions executing -> complete and never reverts.
type InvocationStatus string

const (
	InvocationExecuting InvocationStatus = "executing"
	InvocationComplete  InvocationStatus = "complete"
)

// ContentPart represents a single part of a message.
// Use either Text (for text parts) or ToolName/Args (for tool parts).
type ContentPart struct {
	// Type indicates the content type: "text", "toolInvocation" or "widget".
	Type ContentPartType `json:"type"`
	// Text contains the text content. Only used when Type is "text".
	Text string `json:"text,omitempty"`
	// ToolName identifies the tool for invocation and widget parts.
	ToolName string `json:"toolName,omitempty"`
	// Args contains the raw JSON arguments of the tool call.
	Args json.RawMessage `json:"args,omitempty"`
	// Status is the invocation lifecycle state for tool-invocation parts.
	Status InvocationStatus `json:"status,omitempty"`
}

// NewTextPart creates a text content part.
func NewTextPart(text string) ContentPart {
	return ContentPart{
		Type: ContentPartTypeText,
		Text: text,
	}
}

// NewToolInvocationPart creates a tool-invocation content part.
func NewToolInvocationPart(name string, args json.RawMessage, status InvocationStatus) ContentPart {
	return ContentPart{
		Type:     ContentPartTypeToolInvocation,
		ToolName: name,
		Args:     args,
		Status:   status,
	}
}

// NewWidgetPart creates a widget content part for a render-bound tool.
func NewWidgetPart(name string, args json.RawMessage) ContentPart {
	return ContentPart{
		Type:     ContentPartTypeWidget,
		ToolName: name,
		Args:     args,
	}
}

// Message represents a single message in a conversation.
// Once a message has been appended to a finalized sequence it is immutable;
// only the one in-progress assistant message of an active run is mutated.
type Message struct {
	// ID is a unique identifier, generated client-side for user messages.
	ID string `json:"id"`
	// Role identifies the message sender.
	Role Role `json:"role"`
	// ThreadID references the conversation this message belongs to.
	ThreadID string `json:"threadId,omitempty"`
	// CreatedAt is the client-side creation timestamp.
	CreatedAt time.Time `json:"createdAt"`
	// Parts contains the ordered content of the message.
	Parts []ContentPart `json:"parts,omitempty"`
}

// GenerateMessageID creates a unique message identifier.
func GenerateMessageID() string {
	return "msg-" + uuid.New().String()
}

// NewUserMessage creates a finalized user message from input text.
func NewUserMessage(threadID, text string) Message {
	return Message{
		ID:        GenerateMessageID(),
		Role:      RoleUser,
		ThreadID:  threadID,
		CreatedAt: time.Now(),
		Parts:     []ContentPart{NewTextPart(text)},
	}
}

// NewErrorMessage creates a message surfacing a run error to the user.
func NewErrorMessage(threadID, text string) Message {
	return Message{
		ID:        GenerateMessageID(),
		Role:      RoleError,
		ThreadID:  threadID,
		CreatedAt: time.Now(),
		Parts:     []ContentPart{NewTextPart(text)},
	}
}

// Text returns the concatenation of all text parts of the message.
func (m Message) Text() string {
	var sb strings.Builder
	for _, p := range m.Parts {
		if p.Type == ContentPartTypeText {
			sb.WriteString(p.Text)
		}
	}
	return sb.String()
}

// HasParts returns true if the message has any content parts.
func (m Message) HasParts() bool {
	return len(m.Parts) > 0
}
