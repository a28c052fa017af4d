// Command mcptools is a reference MCP server exposing a small tool set over
// stdio, for wiring external tools into the chat client:
//
//	MCP_URL=... or mount via mcp.Connect("go", nil, "run", "./cmd/mcptools")
package main

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/spetersoncode/agentchat/mcp"
	"github.com/spetersoncode/agentchat/schema"
	"github.com/spetersoncode/agentchat/tool"

	ai "github.com/spetersoncode/agentchat"
)

func main() {
	registry := tool.NewRegistry()

	registry.Register(tool.MustDescribe[EchoArgs]("echo", "Echo back the input text"))
	registry.Bind("echo", tool.Binding{Handler: tool.Typed(echoHandler)})

	registry.Register(ai.Tool{
		Name:        "time",
		Description: "Get the current time",
		Parameters: schema.Object().
			Field("format", schema.String().
				Desc("Time format: 'rfc3339', 'unix', or 'human'").
				Enum("rfc3339", "unix", "human").
				Default("human")).
			MustBuild(),
	})
	registry.Bind("time", tool.Binding{Handler: timeHandler})

	if err := mcp.ServeStdio(registry,
		mcp.WithName("agentchat-tools"),
		mcp.WithVersion("1.0.0"),
	); err != nil {
		log.Fatal(err)
	}
}

// EchoArgs are the arguments for the echo tool.
type EchoArgs struct {
	Text string `json:"text" desc:"The text to echo back" required:"true"`
}

func echoHandler(ctx context.Context, args EchoArgs) (string, error) {
	return args.Text, nil
}

func timeHandler(ctx context.Context, call ai.ToolCall) (string, error) {
	now := time.Now()
	args := string(call.Args())

	switch {
	case strings.Contains(args, "rfc3339"):
		return now.Format(time.RFC3339), nil
	case strings.Contains(args, "unix"):
		return fmt.Sprintf("%d", now.Unix()), nil
	default:
		return now.Format("Monday, January 2, 2006 at 3:04 PM MST"), nil
	}
}
