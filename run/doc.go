// Package run owns the in-flight request to a remote AG-UI agent for one
// chat turn: the streaming transport, the wire envelope, and the cancellable
// session handle that delivers typed events in strict receipt order.
//
// A [Session] is started with a [Transport] and an [Input] snapshot; events
// are pushed to the caller through a single delivery goroutine, so they are
// never reordered or applied concurrently. [Handle.Cancel] is a hard
// barrier: once it returns, no further events are delivered for that handle,
// including events the transport had already buffered.
//
// Two transports are provided. [SSETransport] POSTs the run envelope and
// reads server-sent events, matching the FastAPI/SSE endpoint shape used by
// AG-UI reference servers. [WebSocketTransport] speaks the same event
// vocabulary over a WebSocket connection.
package run
