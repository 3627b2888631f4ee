package mcp

import (
	"context"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rpggio/workboard/internal/metrics"
)

// metricsMiddleware counts every inbound method. Tool calls are labelled
// with the tool name so a failing tool stands out.
func metricsMiddleware() sdkmcp.Middleware {
	return func(next sdkmcp.MethodHandler) sdkmcp.MethodHandler {
		return func(ctx context.Context, method string, req sdkmcp.Request) (sdkmcp.Result, error) {
			label := method
			if call, ok := req.(*sdkmcp.CallToolRequest); ok && call.Params != nil {
				label = method + ":" + call.Params.Name
			}

			result, err := next(ctx, method, req)

			status := metrics.Status(err)
			if res, ok := result.(*sdkmcp.CallToolResult); ok && res != nil && res.IsError {
				status = "tool_error"
			}
			metrics.MCPRequests.WithLabelValues(label, status).Inc()
			return result, err
		}
	}
}
