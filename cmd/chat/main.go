// Command chat is a terminal client for an AG-UI agent endpoint.
//
// It streams one conversation at a time: type a message and the assistant's
// reply renders as it arrives. Slash commands switch and manage threads:
//
//	/threads        list known threads
//	/switch <id>    activate a thread (cancels any streaming run)
//	/delete <id>    delete a thread
//	/quit           exit
//
// Configuration is via flags and environment variables (a .env file is
// loaded when present):
//
//	AGENT_URL    - AG-UI run endpoint (default: http://localhost:8000/agui)
//	HISTORY_URL  - history store base URL (optional; in-memory when unset)
//	MCP_URL      - MCP server SSE URL for extra tools (optional)
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"

	ai "github.com/spetersoncode/agentchat"
	"github.com/spetersoncode/agentchat/chat"
	"github.com/spetersoncode/agentchat/event"
	"github.com/spetersoncode/agentchat/history"
	"github.com/spetersoncode/agentchat/mcp"
	"github.com/spetersoncode/agentchat/run"
)

func main() {
	godotenv.Load()

	agentURL := flag.String("agent", envOr("AGENT_URL", "http://localhost:8000/agui"), "AG-UI run endpoint")
	historyURL := flag.String("history", os.Getenv("HISTORY_URL"), "history store base URL (in-memory when empty)")
	mcpURL := flag.String("mcp", os.Getenv("MCP_URL"), "MCP server SSE URL for extra tools")
	useWS := flag.Bool("ws", false, "use the WebSocket transport instead of SSE")
	verbose := flag.Bool("v", false, "verbose logging")
	flag.Parse()

	level := slog.LevelWarn
	if *verbose {
		level = slog.LevelDebug
	}
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	var transport run.Transport
	if *useWS {
		transport = run.NewWebSocketTransport(*agentURL, run.WithWebSocketLogger(log))
	} else {
		transport = run.NewSSETransport(*agentURL, run.WithLogger(log))
	}

	var store history.Store = history.NewMemoryStore()
	if *historyURL != "" {
		store = history.NewRESTStore(*historyURL)
	}

	c, err := chat.New(chat.Config{
		Transport: transport,
		History:   store,
		Logger:    log,
		Seed: []ai.Message{{
			ID:    "seed-welcome",
			Role:  ai.RoleAssistant,
			Parts: []ai.ContentPart{ai.NewTextPart("Hi! Ask me anything.")},
		}},
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer c.Close()

	registerAlertTool(c)

	ctx := context.Background()
	if *mcpURL != "" {
		remote, err := mcp.ConnectSSE(ctx, *mcpURL)
		if err != nil {
			log.Warn("MCP connection failed", "url", *mcpURL, "error", err)
		} else {
			defer remote.Close()
			remote.Mount(c.Registry())
			fmt.Printf("Mounted %d MCP tools\n", len(remote.Tools()))
		}
	}

	go renderSignals(c)

	fmt.Printf("Connected to %s (thread %s)\n", *agentURL, c.ThreadID())
	fmt.Println("Type a message, or /threads, /switch <id>, /delete <id>, /quit.")
	repl(ctx, c)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// repl reads lines from stdin and dispatches messages and slash commands.
func repl(ctx context.Context, c *chat.Chat) {
	reader := bufio.NewReader(os.Stdin)
	for {
		fmt.Print("\n> ")
		line, err := reader.ReadString('\n')
		if err != nil {
			return
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if strings.HasPrefix(line, "/") {
			if quit := command(ctx, c, line); quit {
				return
			}
			continue
		}

		if err := c.SendMessage(ctx, line); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
	}
}

func command(ctx context.Context, c *chat.Chat, line string) (quit bool) {
	cmd, arg, _ := strings.Cut(line, " ")
	arg = strings.TrimSpace(arg)

	switch cmd {
	case "/quit", "/exit":
		return true

	case "/threads":
		if err := c.RefreshThreads(ctx); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return false
		}
		threads := c.Threads()
		if len(threads) == 0 {
			fmt.Println("No threads yet.")
		}
		for _, th := range threads {
			title := th.Title
			if title == "" {
				title = "(untitled)"
			}
			fmt.Printf("  %s  %s\n", th.ID, title)
		}

	case "/switch":
		if arg == "" {
			fmt.Println("Usage: /switch <thread-id>")
			return false
		}
		c.SwitchChat(ctx, arg)
		fmt.Printf("Switched to %s\n", arg)

	case "/delete":
		if arg == "" {
			fmt.Println("Usage: /delete <thread-id>")
			return false
		}
		if err := c.DeleteThread(ctx, arg); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		} else {
			fmt.Printf("Deleted %s\n", arg)
		}

	default:
		fmt.Printf("Unknown command %s\n", cmd)
	}
	return false
}

// renderSignals paints streaming output as lifecycle signals arrive.
func renderSignals(c *chat.Chat) {
	for sig := range c.Events() {
		switch sig.Type {
		case event.MessageStart:
			fmt.Print("\nAssistant: ")
		case event.MessageDelta:
			fmt.Print(sig.Delta)
		case event.MessageEnd:
			fmt.Println()
		case event.ToolCall:
			fmt.Printf("\n[tool: %s]\n", sig.ToolName)
		case event.ProgressUpdated:
			renderProgress(c, sig.ProgressID)
		case event.RunError:
			fmt.Printf("\n[error: %v]\n", sig.Error)
		case event.HistoryLoaded:
			fmt.Printf("\n[loaded %d messages for %s]\n", len(c.View()), sig.ThreadID)
		}
	}
}

func renderProgress(c *chat.Chat, id string) {
	steps := c.Progress()[id]
	for _, s := range steps {
		switch {
		case s.Error != "":
			fmt.Printf("\n  ✗ %s (%s)", s.Label, s.Error)
		case s.Done:
			fmt.Printf("\n  ✓ %s", s.Label)
		default:
			fmt.Printf("\n  … %s", s.Label)
		}
	}
	fmt.Println()
}
