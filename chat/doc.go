// Package chat provides the chat state facade: the single owner of one
// conversation's live state, fed by a streaming run session and read by the
// presentation layer.
//
// A [Chat] holds the active thread's live state (finalized messages, the one
// in-progress assistant message, the agent state snapshot, and progress
// tracks), starts runs through a [run.Transport], and reduces the run's event
// stream into that state in strict receipt order. Lifecycle signals are
// raised on the channel returned by [Chat.Events]; the UI reads state back
// through [Chat.View], [Chat.Progress], [Chat.Snapshot] and [Chat.IsRunning].
//
// Switching chats is a hard barrier: [Chat.SwitchChat] cancels the active
// run before returning, and events from an abandoned run can never reach the
// new chat's state. Two independent mechanisms enforce this: run handles stop
// delivering once cancelled, and the facade discards any delivery whose
// handle is not the active one.
//
//	c, err := chat.New(chat.Config{
//		Transport: run.NewSSETransport("http://localhost:8000/agui"),
//		History:   history.NewMemoryStore(),
//	})
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer c.Close()
//
//	go func() {
//		for sig := range c.Events() {
//			render(c.View(), sig)
//		}
//	}()
//
//	if err := c.SendMessage(ctx, "hello"); err != nil {
//		log.Fatal(err)
//	}
package chat
