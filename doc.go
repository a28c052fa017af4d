// Package agentchat provides the core data model for building chat frontends
// on top of streaming AG-UI agents.
//
// AG-UI (Agent-User Interface) is an open, lightweight, event-based protocol
// that standardizes how AI agents connect to user-facing applications. This
// module is the client side of that protocol: it opens runs against a remote
// agent endpoint, consumes the ordered event stream, and reduces it into a
// consistent, render-ready chat state.
//
// # Packages
//
// The root package defines the shared types (messages, content parts, tool
// descriptors, error taxonomy). The higher-level pieces live in subpackages:
//
//   - [github.com/spetersoncode/agentchat/tool]: tool registry with separate
//     descriptor and handler-binding stores
//   - [github.com/spetersoncode/agentchat/run]: run sessions over a pluggable
//     streaming transport (SSE, WebSocket) with hard-barrier cancellation
//   - [github.com/spetersoncode/agentchat/chat]: the stream reducer and chat
//     state facade consumed by the presentation layer
//   - [github.com/spetersoncode/agentchat/history]: the external history
//     store (threads, finalized messages)
//   - [github.com/spetersoncode/agentchat/mcp]: import tools from an MCP
//     server into the registry
//
// # Basic Usage
//
// Wire a transport and a history store into a chat facade:
//
//	transport := run.NewSSETransport("http://localhost:8080/writer-agent")
//	c, err := chat.New(chat.Config{
//	    Transport: transport,
//	    History:   history.NewRESTStore("http://localhost:8080/api/v1"),
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer c.Close()
//
//	c.SwitchChat(ctx, "thread-1")
//	if err := c.SendMessage(ctx, "hello"); err != nil {
//	    log.Fatal(err)
//	}
//
//	for sig := range c.Events() {
//	    render(c.View(), sig)
//	}
package agentchat
