package domain

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/louisbranch/riskodds/internal/odds"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// RoundTableURI addresses the full single-round table.
const RoundTableURI = "risk://round-table"

// RoundTablePayload represents the MCP resource payload for the round table.
type RoundTablePayload struct {
	Pairings []RoundOddsResult `json:"pairings"`
}

// RoundTableResource defines the MCP resource for the round table.
func RoundTableResource() *mcp.Resource {
	return &mcp.Resource{
		Name:        "round_table",
		Title:       "Round Table",
		Description: "Loss distribution and expected losses for every valid dice pairing",
		MIMEType:    "application/json",
		URI:         RoundTableURI,
	}
}

// RoundTableResourceHandler renders every pairing, defending dice outermost.
func RoundTableResourceHandler(engine *odds.Engine) mcp.ResourceHandler {
	roundOdds := RoundOddsHandler(engine)
	return func(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
		uri := RoundTableURI
		if req != nil && req.Params != nil && req.Params.URI != "" {
			uri = req.Params.URI
		}
		if uri != RoundTableURI {
			return nil, fmt.Errorf("unknown resource uri %q", uri)
		}

		payload := RoundTablePayload{}
		for _, pairing := range odds.Pairings() {
			_, result, err := roundOdds(ctx, nil, RoundOddsInput{
				AttackDice:  pairing.AttackDice,
				DefenseDice: pairing.DefenseDice,
			})
			if err != nil {
				return nil, fmt.Errorf("round odds %dv%d: %w", pairing.AttackDice, pairing.DefenseDice, err)
			}
			payload.Pairings = append(payload.Pairings, result)
		}

		data, err := json.MarshalIndent(payload, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("marshal round table: %w", err)
		}

		return &mcp.ReadResourceResult{
			Contents: []*mcp.ResourceContents{
				{
					URI:      uri,
					MIMEType: "application/json",
					Text:     string(data),
				},
			},
		}, nil
	}
}
