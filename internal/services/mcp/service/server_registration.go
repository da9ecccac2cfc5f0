package service

import (
	"fmt"

	"github.com/louisbranch/riskodds/internal/odds"
	"github.com/louisbranch/riskodds/internal/services/mcp/domain"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type mcpRegistrationKind int

const (
	mcpRegistrationKindTools mcpRegistrationKind = iota
	mcpRegistrationKindResources
)

type mcpRegistrationModule struct {
	name     string
	kind     mcpRegistrationKind
	register func(*mcp.Server) error
}

const (
	mcpRoundToolsModuleName      = "round-tools"
	mcpCampaignToolsModuleName   = "campaign-tools"
	mcpSimulationToolsModuleName = "simulation-tools"
	mcpRoundResourceModuleName   = "round-resources"
)

func newMCPRegistrationModules(engine *odds.Engine, seeds domain.SeedFunc) []mcpRegistrationModule {
	return []mcpRegistrationModule{
		{
			name: mcpRoundToolsModuleName,
			kind: mcpRegistrationKindTools,
			register: func(server *mcp.Server) error {
				mcp.AddTool(server, domain.RoundOddsTool(), domain.RoundOddsHandler(engine))
				return nil
			},
		},
		{
			name: mcpCampaignToolsModuleName,
			kind: mcpRegistrationKindTools,
			register: func(server *mcp.Server) error {
				mcp.AddTool(server, domain.CampaignOddsTool(), domain.CampaignOddsHandler(engine))
				return nil
			},
		},
		{
			name: mcpSimulationToolsModuleName,
			kind: mcpRegistrationKindTools,
			register: func(server *mcp.Server) error {
				mcp.AddTool(server, domain.SimulateTool(), domain.SimulateHandler(engine, seeds))
				return nil
			},
		},
		{
			name: mcpRoundResourceModuleName,
			kind: mcpRegistrationKindResources,
			register: func(server *mcp.Server) error {
				server.AddResource(domain.RoundTableResource(), domain.RoundTableResourceHandler(engine))
				return nil
			},
		},
	}
}

func registerModules(server *mcp.Server, modules []mcpRegistrationModule) error {
	for _, module := range modules {
		if err := module.register(server); err != nil {
			return fmt.Errorf("register %s module %s: %w", module.kind, module.name, err)
		}
	}
	return nil
}

func (k mcpRegistrationKind) String() string {
	switch k {
	case mcpRegistrationKindTools:
		return "tools"
	case mcpRegistrationKindResources:
		return "resources"
	default:
		return "unknown"
	}
}
