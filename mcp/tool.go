// Package mcp bridges MCP (Model Context Protocol) servers and the chat
// tool registry.
//
// The main direction is importing: [Connect] dials an MCP server, and
// [Importer.Mount] registers every remote tool into a [tool.Registry] with a
// handler binding that proxies calls back to the server. Imported tools are
// then offered to the agent like any locally registered tool.
//
//	remote, err := mcp.ConnectSSE(ctx, "http://localhost:8080/mcp")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer remote.Close()
//
//	remote.Mount(c.Registry())
//	defer remote.Unmount(c.Registry())
//
// The reverse direction, exposing a registry's tools as an MCP server over
// stdio, is provided by [ServeStdio].
package mcp

import (
	"encoding/json"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	ai "github.com/spetersoncode/agentchat"
)

// FromMCPTool converts an MCP tool definition to a tool descriptor.
// The JSON schema is taken from RawInputSchema when present, otherwise from
// the structured InputSchema.
func FromMCPTool(t mcp.Tool) ai.Tool {
	var schema json.RawMessage
	if len(t.RawInputSchema) > 0 {
		schema = t.RawInputSchema
	} else if data, err := json.Marshal(t.InputSchema); err == nil {
		schema = data
	}

	return ai.Tool{
		Name:        t.Name,
		Description: t.Description,
		Parameters:  schema,
	}
}

// FromMCPTools converts a slice of MCP tool definitions.
func FromMCPTools(tools []mcp.Tool) []ai.Tool {
	result := make([]ai.Tool, len(tools))
	for i, t := range tools {
		result[i] = FromMCPTool(t)
	}
	return result
}

// ToMCPTool converts a tool descriptor to an MCP tool definition, using the
// descriptor's parameter schema as the raw input schema.
func ToMCPTool(t ai.Tool) mcp.Tool {
	return mcp.NewToolWithRawSchema(t.Name, t.Description, t.Parameters)
}

// toCallToolRequest converts a streamed tool call to an MCP call request.
func toCallToolRequest(call ai.ToolCall) mcp.CallToolRequest {
	var args any
	if call.Arguments != "" {
		if err := json.Unmarshal([]byte(call.Arguments), &args); err != nil {
			args = call.Arguments
		}
	}

	return mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name:      call.Name,
			Arguments: args,
		},
	}
}

// resultText flattens a call result's content into text, and reports whether
// the server marked the result as an error.
func resultText(result *mcp.CallToolResult) (string, bool) {
	if result == nil {
		return "", true
	}

	var parts []string
	for _, c := range result.Content {
		switch content := c.(type) {
		case mcp.TextContent:
			parts = append(parts, content.Text)
		case *mcp.TextContent:
			parts = append(parts, content.Text)
		default:
			if data, err := json.Marshal(content); err == nil {
				parts = append(parts, string(data))
			}
		}
	}
	if result.StructuredContent != nil {
		if data, err := json.Marshal(result.StructuredContent); err == nil {
			parts = append(parts, string(data))
		}
	}
	return strings.Join(parts, "\n"), result.IsError
}
