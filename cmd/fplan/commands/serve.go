package commands

import (
	"bufio"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/goblinsan/fplan/pkg/fplan"
	"github.com/goblinsan/fplan/pkg/header"
	"github.com/goblinsan/fplan/pkg/types"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(serveCmd)
}

// JSON-RPC 2.0 types for MCP protocol
type jsonRPCRequest struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id,omitempty"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

type jsonRPCResponse struct {
	JSONRPC string      `json:"jsonrpc"`
	ID      json.RawMessage `json:"id,omitempty"`
	Result  interface{} `json:"result,omitempty"`
	Error   *jsonRPCError `json:"error,omitempty"`
}

type jsonRPCError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// MCP protocol types
type mcpInitializeResult struct {
	ProtocolVersion string          `json:"protocolVersion"`
	Capabilities    mcpCapabilities `json:"capabilities"`
	ServerInfo      mcpServerInfo   `json:"serverInfo"`
}

type mcpCapabilities struct {
	Tools *struct{} `json:"tools,omitempty"`
}

type mcpServerInfo struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

type mcpToolsListResult struct {
	Tools []mcpToolDef `json:"tools"`
}

type mcpToolDef struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	InputSchema json.RawMessage `json:"inputSchema"`
}

type mcpToolCallParams struct {
	Name      string          `json:"name"`
	Arguments json.RawMessage `json:"arguments"`
}

type mcpToolCallResult struct {
	Content []mcpContent `json:"content"`
	IsError bool         `json:"isError,omitempty"`
}

type mcpContent struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

const (
	toolParsePlan    = "parse_plan"
	toolValidatePlan = "validate_plan"
)

var planToolSchema = json.RawMessage(`{
  "type": "object",
  "properties": {
    "plan": {"type": "string", "description": "Plan text in the fplan format (feature:, task:, effort:, ...)"},
    "header": {"type": "string", "description": "Optional plan-header.toml content"}
  },
  "required": ["plan"]
}`)

type planToolArgs struct {
	Plan   string `json:"plan"`
	Header string `json:"header"`
}

func handleMCPRequest(req jsonRPCRequest) jsonRPCResponse {
	switch req.Method {
	case "initialize":
		return jsonRPCResponse{
			JSONRPC: "2.0",
			ID:      req.ID,
			Result: mcpInitializeResult{
				ProtocolVersion: "2024-11-05",
				Capabilities:    mcpCapabilities{Tools: &struct{}{}},
				ServerInfo:      mcpServerInfo{Name: "fplan", Version: Version},
			},
		}

	case "notifications/initialized":
		// Client acknowledgment, no response needed (notification, no ID)
		return jsonRPCResponse{}

	case "tools/list":
		return jsonRPCResponse{
			JSONRPC: "2.0",
			ID:      req.ID,
			Result: mcpToolsListResult{
				Tools: []mcpToolDef{
					{
						Name:        toolParsePlan,
						Description: "Parses a plan written in the fplan format and returns its features, tasks, efforts and dependencies as JSON.",
						InputSchema: planToolSchema,
					},
					{
						Name:        toolValidatePlan,
						Description: "Checks a plan against its header: titles, services, resources, iterations and team dependencies.",
						InputSchema: planToolSchema,
					},
				},
			},
		}

	case "tools/call":
		return handleToolCall(req)

	default:
		return jsonRPCResponse{
			JSONRPC: "2.0",
			ID:      req.ID,
			Error:   &jsonRPCError{Code: -32601, Message: fmt.Sprintf("method not found: %s", req.Method)},
		}
	}
}

func toolResult(id json.RawMessage, text string, isError bool) jsonRPCResponse {
	return jsonRPCResponse{
		JSONRPC: "2.0",
		ID:      id,
		Result: mcpToolCallResult{
			Content: []mcpContent{{Type: "text", Text: text}},
			IsError: isError,
		},
	}
}

func handleToolCall(req jsonRPCRequest) jsonRPCResponse {
	var params mcpToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return jsonRPCResponse{
			JSONRPC: "2.0",
			ID:      req.ID,
			Error:   &jsonRPCError{Code: -32602, Message: fmt.Sprintf("invalid params: %v", err)},
		}
	}

	if params.Name != toolParsePlan && params.Name != toolValidatePlan {
		return toolResult(req.ID, fmt.Sprintf("unknown tool: %s", params.Name), true)
	}

	var args planToolArgs
	if err := json.Unmarshal(params.Arguments, &args); err != nil {
		return toolResult(req.ID, fmt.Sprintf("failed to parse arguments: %v", err), true)
	}

	plan := types.Plan{Features: fplan.Parse(args.Plan)}
	if args.Header != "" {
		h, err := header.Parse(args.Header)
		if err != nil {
			return toolResult(req.ID, fmt.Sprintf("invalid header: %v", err), true)
		}
		plan.Header = h
	}

	if params.Name == toolValidatePlan {
		errs := validatePlan(plan)
		if len(errs) > 0 {
			return toolResult(req.ID, strings.Join(errs, "\n"), true)
		}
		return toolResult(req.ID, "Plan is valid.", false)
	}

	planJSON, err := json.Marshal(plan)
	if err != nil {
		return toolResult(req.ID, fmt.Sprintf("failed to encode plan: %v", err), true)
	}
	return toolResult(req.ID, string(planJSON), false)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the MCP server over stdio",
	Long:  `Run the MCP server to let agents parse and validate plans via the Model Context Protocol over stdin/stdout.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		scanner := bufio.NewScanner(cmd.InOrStdin())
		// Increase buffer for large plan payloads (1 MB)
		scanner.Buffer(make([]byte, 0, 1024*1024), 1024*1024)
		encoder := json.NewEncoder(cmd.OutOrStdout())

		for scanner.Scan() {
			line := scanner.Bytes()
			if len(line) == 0 {
				continue
			}

			var req jsonRPCRequest
			if err := json.Unmarshal(line, &req); err != nil {
				resp := jsonRPCResponse{
					JSONRPC: "2.0",
					Error:   &jsonRPCError{Code: -32700, Message: fmt.Sprintf("parse error: %v", err)},
				}
				encoder.Encode(resp)
				continue
			}

			resp := handleMCPRequest(req)
			// Notifications (no ID) don't get a response
			if resp.JSONRPC == "" {
				continue
			}
			encoder.Encode(resp)
		}

		return scanner.Err()
	},
}
