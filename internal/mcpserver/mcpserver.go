// Package mcpserver exposes a skill.Registry over the Model Context
// Protocol. Grounded in original_source/nexus3/mcp/test_server/server.py (a
// thin MCP server wrapping the skill registry, one MCP tool per skill) and
// built on github.com/modelcontextprotocol/go-sdk rather than the
// metoro-io/mcp-golang library intelligencedev-manifold uses, since go-sdk
// is the dependency actually carried in this module's go.mod.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/incurian/nexus3/internal/skill"
)

// New builds an *mcp.Server with one MCP tool registered per skill in
// registry, each call translated 1:1 into a skill.Result — the adapter does
// no business logic of its own.
func New(registry *skill.Registry) *mcp.Server {
	server := mcp.NewServer(&mcp.Implementation{Name: "nexus3", Version: "0.1.0"}, nil)

	for _, def := range registry.Definitions() {
		name := def.Function.Name
		schema, err := toInputSchema(def.Function.Parameters)
		if err != nil {
			// A skill's hand-written Parameters() map failed to round-trip
			// through jsonschema.Schema; register the tool with no input
			// schema rather than dropping it from the surface entirely.
			schema = nil
		}
		tool := &mcp.Tool{
			Name:        name,
			Description: def.Function.Description,
			InputSchema: schema,
		}
		server.AddTool(tool, handlerFor(registry, name))
	}

	return server
}

// toInputSchema converts a skill's hand-built JSON-schema map into the
// typed jsonschema.Schema the go-sdk's mcp.Tool expects, round-tripping
// through encoding/json since every skill already emits
// jsonschema.Schema-compatible JSON (type/properties/required/enum/items).
func toInputSchema(params map[string]any) (*jsonschema.Schema, error) {
	raw, err := json.Marshal(params)
	if err != nil {
		return nil, fmt.Errorf("marshaling parameter schema: %w", err)
	}
	var schema jsonschema.Schema
	if err := json.Unmarshal(raw, &schema); err != nil {
		return nil, fmt.Errorf("decoding parameter schema: %w", err)
	}
	return &schema, nil
}

// handlerFor returns an mcp.ToolHandler that decodes raw JSON call
// arguments into skill.Args, runs name through registry, and translates
// the skill.Result back into an mcp.CallToolResult. Skills use a dynamic
// map[string]any parameter shape (from their own JSON-schema Parameters()),
// so this uses the SDK's untyped tool handler rather than AddTool's
// generic, struct-typed form.
func handlerFor(registry *skill.Registry, name string) mcp.ToolHandler {
	return func(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := skill.Args{}
		if raw := req.Params.Arguments; len(raw) > 0 {
			if err := json.Unmarshal(raw, &args); err != nil {
				return &mcp.CallToolResult{
					IsError: true,
					Content: []mcp.Content{&mcp.TextContent{Text: "invalid arguments: " + err.Error()}},
				}, nil
			}
		}

		result := registry.Execute(ctx, name, args)
		if !result.Success {
			return &mcp.CallToolResult{
				IsError: true,
				Content: []mcp.Content{&mcp.TextContent{Text: result.Error}},
			}, nil
		}
		return &mcp.CallToolResult{
			Content: []mcp.Content{&mcp.TextContent{Text: result.Output}},
		}, nil
	}
}

// Serve runs server over stdio until ctx is cancelled or the transport
// closes, matching `cmd/nexus3 serve`'s role as the long-lived MCP host
// process.
func Serve(ctx context.Context, server *mcp.Server) error {
	return server.Run(ctx, &mcp.StdioTransport{})
}
