package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/louisbranch/riskodds/internal/odds"
	"github.com/louisbranch/riskodds/internal/services/mcp/domain"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const (
	// serverName identifies this MCP server to clients.
	serverName = "Risk Odds MCP"
	// serverVersion identifies the MCP server version.
	serverVersion = "0.1.0"
)

// Config configures the MCP server.
type Config struct {
	// Engine answers every query. A fresh engine is used when nil.
	Engine *odds.Engine
	// Seeds supplies simulation seeds when a call does not pin one.
	Seeds domain.SeedFunc
}

// Server hosts the MCP server.
type Server struct {
	mcpServer *mcp.Server
}

// New builds an MCP server with every odds tool and resource registered.
func New(cfg Config) (*Server, error) {
	engine := cfg.Engine
	if engine == nil {
		engine = odds.New()
	}

	mcpServer := mcp.NewServer(&mcp.Implementation{Name: serverName, Version: serverVersion}, nil)
	if err := registerModules(mcpServer, newMCPRegistrationModules(engine, cfg.Seeds)); err != nil {
		return nil, err
	}
	return &Server{mcpServer: mcpServer}, nil
}

// Run serves MCP over stdio and blocks until the context is canceled or the
// client disconnects.
func Run(ctx context.Context, cfg Config) error {
	server, err := New(cfg)
	if err != nil {
		return err
	}
	return server.serveWithTransport(ctx, &mcp.StdioTransport{})
}

// serveWithTransport starts the MCP server using the provided transport.
func (s *Server) serveWithTransport(ctx context.Context, transport mcp.Transport) error {
	if s == nil || s.mcpServer == nil {
		return fmt.Errorf("MCP server is not configured")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	err := s.mcpServer.Run(ctx, transport)
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return nil
	}
	return err
}
