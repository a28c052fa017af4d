package main

import (
	"context"
	"fmt"

	"github.com/spetersoncode/agentchat/chat"
	"github.com/spetersoncode/agentchat/tool"
)

// AlertArgs are the arguments for the alert tool.
type AlertArgs struct {
	Message string `json:"message" desc:"The text to show the user" required:"true"`
	Level   string `json:"level" desc:"Severity of the alert" enum:"info,warning,error"`
}

// registerAlertTool mounts a frontend tool the agent can call to show the
// user an alert. It stays registered for the life of the process.
func registerAlertTool(c *chat.Chat) {
	c.RegisterTool(tool.MustDescribe[AlertArgs]("alert", "Show the user an alert message"))
	c.BindTool("alert", tool.Binding{
		Handler: tool.Typed(func(ctx context.Context, args AlertArgs) (string, error) {
			level := args.Level
			if level == "" {
				level = "info"
			}
			fmt.Printf("\n[%s] %s\n", level, args.Message)
			return "shown", nil
		}),
	})
}
