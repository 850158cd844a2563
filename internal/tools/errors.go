package tools

import (
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/raphaelgruber/stepmcp/internal/steps"
)

// UnavailableText is the fixed text reported for any step loading failure.
var UnavailableText = steps.ErrStepsUnavailable.Error()

// TextResult creates a tool result with a single text content element.
func TextResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: text},
		},
	}
}

// UnavailableResult reports a step loading failure as tool content rather
// than a protocol error, so clients that only render content still see it.
func UnavailableResult() *mcp.CallToolResult {
	return TextResult(UnavailableText)
}
