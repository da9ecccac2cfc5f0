// Package domain translates MCP tool calls into odds engine queries.
//
// Handlers validate MCP inputs at the boundary, call the engine, and return
// structured outputs that MCP clients can render. Every call opens a span.
package domain
