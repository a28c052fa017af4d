package mcp

import (
	"context"
	"fmt"
	"sync"

	"github.com/mark3labs/mcp-go/client"
	"github.com/mark3labs/mcp-go/mcp"

	ai "github.com/spetersoncode/agentchat"
	"github.com/spetersoncode/agentchat/tool"
)

// Importer holds a live MCP session and the remote tools discovered on it.
// Mount registers those tools into a chat's registry with handler bindings
// that proxy each call back to the server.
//
// Importer is safe for concurrent use. The tool list is cached at connect
// time and can be updated with [Importer.Refresh].
type Importer struct {
	client *client.Client
	mu     sync.RWMutex
	tools  []ai.Tool
}

// Connect dials an MCP server over stdio. The command is the server
// executable; args are passed through to it.
func Connect(ctx context.Context, command string, env []string, args ...string) (*Importer, error) {
	c, err := client.NewStdioMCPClient(command, env, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to create MCP client: %w", err)
	}
	return newImporter(ctx, c)
}

// ConnectSSE dials an MCP server over SSE.
func ConnectSSE(ctx context.Context, baseURL string) (*Importer, error) {
	c, err := client.NewSSEMCPClient(baseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to create SSE MCP client: %w", err)
	}
	return newImporter(ctx, c)
}

// NewImporter wraps an existing MCP client. The client is started and the
// session initialized here.
func NewImporter(ctx context.Context, c *client.Client) (*Importer, error) {
	return newImporter(ctx, c)
}

func newImporter(ctx context.Context, c *client.Client) (*Importer, error) {
	if err := c.Start(ctx); err != nil {
		return nil, fmt.Errorf("failed to start MCP client: %w", err)
	}

	_, err := c.Initialize(ctx, mcp.InitializeRequest{
		Params: mcp.InitializeParams{
			ProtocolVersion: mcp.LATEST_PROTOCOL_VERSION,
			Capabilities:    mcp.ClientCapabilities{},
			ClientInfo: mcp.Implementation{
				Name:    "agentchat-mcp-client",
				Version: "1.0.0",
			},
		},
	})
	if err != nil {
		c.Close()
		return nil, fmt.Errorf("failed to initialize MCP session: %w", err)
	}

	imp := &Importer{client: c}
	if err := imp.Refresh(ctx); err != nil {
		c.Close()
		return nil, fmt.Errorf("failed to list tools: %w", err)
	}
	return imp, nil
}

// Close closes the connection to the MCP server.
func (imp *Importer) Close() error {
	return imp.client.Close()
}

// Refresh re-fetches the tool list from the server. Tools already mounted
// into a registry keep their old descriptors until Mount is called again.
func (imp *Importer) Refresh(ctx context.Context) error {
	result, err := imp.client.ListTools(ctx, mcp.ListToolsRequest{})
	if err != nil {
		return err
	}

	imp.mu.Lock()
	defer imp.mu.Unlock()
	imp.tools = FromMCPTools(result.Tools)
	return nil
}

// Tools returns the cached remote tool descriptors.
func (imp *Importer) Tools() []ai.Tool {
	imp.mu.RLock()
	defer imp.mu.RUnlock()
	return append([]ai.Tool(nil), imp.tools...)
}

// Mount registers every remote tool into the registry and binds a handler
// that proxies the call to the MCP server. Re-mounting after Refresh upserts
// the descriptors in place.
func (imp *Importer) Mount(registry *tool.Registry) {
	for _, t := range imp.Tools() {
		registry.Register(t)
		registry.Bind(t.Name, tool.Binding{Handler: imp.handler()})
	}
}

// Unmount removes the remote tools from the registry.
func (imp *Importer) Unmount(registry *tool.Registry) {
	for _, t := range imp.Tools() {
		registry.Unregister(t.Name)
	}
}

// Call invokes a tool on the remote server and returns its text result.
func (imp *Importer) Call(ctx context.Context, call ai.ToolCall) (string, error) {
	result, err := imp.client.CallTool(ctx, toCallToolRequest(call))
	if err != nil {
		return "", &ai.ToolHandlerError{Name: call.Name, Cause: err}
	}

	text, isError := resultText(result)
	if isError {
		return "", &ai.ToolHandlerError{Name: call.Name, Cause: fmt.Errorf("server error: %s", text)}
	}
	return text, nil
}

// handler adapts Call into a registry handler binding.
func (imp *Importer) handler() tool.Handler {
	return func(ctx context.Context, call ai.ToolCall) (string, error) {
		return imp.Call(ctx, call)
	}
}
