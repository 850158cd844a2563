package server

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/raphaelgruber/stepmcp/internal/tools"
)

// ProtocolVersion is the MCP protocol revision reported by initialize.
const ProtocolVersion = "2024-11-05"

// Protocol methods.
const (
	MethodInitialize = "initialize"
	MethodToolsList  = "tools/list"
	MethodToolsCall  = "tools/call"
)

// Handler turns one request into one response.
type Handler func(ctx context.Context, req *Request) *Response

// Dispatcher routes requests to the tool registry. It holds no per-request
// state.
type Dispatcher struct {
	info     *mcp.Implementation
	registry *tools.Registry
}

// NewDispatcher creates a dispatcher advertising info.
func NewDispatcher(info *mcp.Implementation, registry *tools.Registry) *Dispatcher {
	return &Dispatcher{info: info, registry: registry}
}

// Handle routes req: protocol methods first, then direct tool methods.
func (d *Dispatcher) Handle(ctx context.Context, req *Request) *Response {
	switch req.Method {
	case MethodInitialize:
		return NewResult(req.ID, d.initialize())
	case MethodToolsList:
		return NewResult(req.ID, &mcp.ListToolsResult{Tools: d.registry.List()})
	case MethodToolsCall:
		return d.callTool(ctx, req)
	}

	if tool, ok := d.registry.Lookup(req.Method); ok {
		result, err := tool.Direct(ctx)
		if err != nil {
			return NewError(req.ID, CodeInternalError, tools.UnavailableText)
		}
		return NewResult(req.ID, result)
	}

	return NewError(req.ID, CodeMethodNotFound, fmt.Sprintf("Method not found: %s", req.Method))
}

func (d *Dispatcher) initialize() *mcp.InitializeResult {
	return &mcp.InitializeResult{
		ProtocolVersion: ProtocolVersion,
		ServerInfo:      d.info,
		Capabilities: &mcp.ServerCapabilities{
			Tools: &mcp.ToolCapabilities{},
		},
	}
}

// callTool handles the tools/call wrapper. Step failures are reported inside
// the result content, never as protocol errors.
func (d *Dispatcher) callTool(ctx context.Context, req *Request) *Response {
	raw := req.Params["name"]
	name, ok := stringValue(raw)
	if !ok {
		name = displayValue(raw)
	}

	tool, found := d.registry.Lookup(name)
	if !ok || !found {
		return NewError(req.ID, CodeMethodNotFound, fmt.Sprintf("Tool not found: %s", name))
	}

	return NewResult(req.ID, tool.Call(ctx))
}
