// Package service wires the MCP stdio transport to the odds domain handlers.
package service
