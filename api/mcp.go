package api

import (
	"encoding/json"
	"fmt"
	"html"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"

	"parks/app"
)

// MCP protocol version
const MCPVersion = "2025-03-26"

// JSON-RPC types
type jsonrpcRequest struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      any             `json:"id"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

type jsonrpcResponse struct {
	JSONRPC string    `json:"jsonrpc"`
	ID      any       `json:"id"`
	Result  any       `json:"result,omitempty"`
	Error   *rpcError `json:"error,omitempty"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// MCP types
type mcpInitializeResult struct {
	ProtocolVersion string          `json:"protocolVersion"`
	ServerInfo      mcpServerInfo   `json:"serverInfo"`
	Capabilities    mcpCapabilities `json:"capabilities"`
}

type mcpServerInfo struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

type mcpCapabilities struct {
	Tools *mcpToolCapability `json:"tools,omitempty"`
}

type mcpToolCapability struct{}

type mcpToolsListResult struct {
	Tools []mcpTool `json:"tools"`
}

type mcpTool struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	InputSchema mcpInputSchema `json:"inputSchema"`
}

type mcpInputSchema struct {
	Type       string                 `json:"type"`
	Properties map[string]mcpProperty `json:"properties,omitempty"`
	Required   []string               `json:"required,omitempty"`
}

type mcpProperty struct {
	Type        string `json:"type"`
	Description string `json:"description"`
}

type mcpToolCallParams struct {
	Name      string         `json:"name"`
	Arguments map[string]any `json:"arguments"`
}

type mcpToolResult struct {
	Content []mcpContent `json:"content"`
	IsError bool         `json:"isError,omitempty"`
}

type mcpContent struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// Tool maps an MCP tool onto a GET endpoint
type Tool struct {
	Name        string
	Description string
	Path        string
	Params      []ToolParam
}

// ToolParam defines a parameter for an MCP tool
type ToolParam struct {
	Name        string
	Type        string
	Description string
	Required    bool
}

var tools = []Tool{
	{
		Name:        "search_parks",
		Description: "Find parks inside a rectangle given by its south-west and north-east corners",
		Path:        "/places/nearby",
		Params: []ToolParam{
			{Name: "sw", Type: "string", Description: "South-west corner as lat,lng", Required: true},
			{Name: "ne", Type: "string", Description: "North-east corner as lat,lng", Required: true},
		},
	},
	{
		Name:        "park_details",
		Description: "Phone, rating, website and address of a park",
		Path:        "/places/details",
		Params: []ToolParam{
			{Name: "id", Type: "string", Description: "Place ID from search_parks", Required: true},
		},
	},
	{
		Name:        "suggest_address",
		Description: "Complete a partial address",
		Path:        "/places/suggest",
		Params: []ToolParam{
			{Name: "q", Type: "string", Description: "Partial address", Required: true},
		},
	},
	{
		Name:        "resolve_address",
		Description: "Get the location of a suggested address",
		Path:        "/places/resolve",
		Params: []ToolParam{
			{Name: "id", Type: "string", Description: "place_id from suggest_address", Required: true},
		},
	},
}

// MCPHandler serves the tool list page on GET and JSON-RPC on POST. Tool
// calls are executed against mux.
func MCPHandler(mux http.Handler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case "GET":
			mcpPage(w)
			return
		case "POST":
		default:
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusMethodNotAllowed)
			json.NewEncoder(w).Encode(jsonrpcResponse{
				JSONRPC: "2.0",
				Error:   &rpcError{Code: -32600, Message: "Only POST method is supported"},
			})
			return
		}

		body, err := io.ReadAll(io.LimitReader(r.Body, 1<<20))
		if err != nil {
			writeError(w, nil, -32700, "Failed to read request body")
			return
		}
		defer r.Body.Close()

		var req jsonrpcRequest
		if err := json.Unmarshal(body, &req); err != nil {
			writeError(w, nil, -32700, "Parse error")
			return
		}

		w.Header().Set("Content-Type", "application/json")

		switch req.Method {
		case "initialize":
			handleInitialize(w, req)
		case "notifications/initialized":
			// Client acknowledgement, no response needed
			w.WriteHeader(http.StatusNoContent)
		case "tools/list":
			handleToolsList(w, req)
		case "tools/call":
			handleToolsCall(w, mux, req)
		case "ping":
			writeResult(w, req.ID, map[string]any{})
		default:
			writeError(w, req.ID, -32601, fmt.Sprintf("Method not found: %s", req.Method))
		}
	}
}

func mcpPage(w http.ResponseWriter) {
	var b strings.Builder
	b.WriteString(`<h2>Model Context Protocol</h2>`)
	b.WriteString(`<p>POST JSON-RPC to <code>/mcp</code>, starting with <code>initialize</code> and <code>tools/list</code>.</p>`)
	b.WriteString(`<ul>`)
	for _, t := range tools {
		b.WriteString(`<li><b>` + html.EscapeString(t.Name) + `</b>: ` + html.EscapeString(t.Description) + `</li>`)
	}
	b.WriteString(`</ul>`)
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write([]byte(app.RenderHTML("MCP", "Model Context Protocol tools", b.String())))
}

func handleInitialize(w http.ResponseWriter, req jsonrpcRequest) {
	result := mcpInitializeResult{
		ProtocolVersion: MCPVersion,
		ServerInfo: mcpServerInfo{
			Name:    "parks",
			Version: "1.0.0",
		},
		Capabilities: mcpCapabilities{
			Tools: &mcpToolCapability{},
		},
	}
	writeResult(w, req.ID, result)
}

func handleToolsList(w http.ResponseWriter, req jsonrpcRequest) {
	mcpTools := make([]mcpTool, 0, len(tools))
	for _, t := range tools {
		tool := mcpTool{
			Name:        t.Name,
			Description: t.Description,
			InputSchema: mcpInputSchema{
				Type:       "object",
				Properties: make(map[string]mcpProperty),
			},
		}
		var required []string
		for _, p := range t.Params {
			tool.InputSchema.Properties[p.Name] = mcpProperty{
				Type:        p.Type,
				Description: p.Description,
			}
			if p.Required {
				required = append(required, p.Name)
			}
		}
		if len(required) > 0 {
			tool.InputSchema.Required = required
		}
		mcpTools = append(mcpTools, tool)
	}
	writeResult(w, req.ID, mcpToolsListResult{Tools: mcpTools})
}

func handleToolsCall(w http.ResponseWriter, mux http.Handler, req jsonrpcRequest) {
	var params mcpToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		writeError(w, req.ID, -32602, "Invalid params")
		return
	}

	var tool *Tool
	for i := range tools {
		if tools[i].Name == params.Name {
			tool = &tools[i]
			break
		}
	}
	if tool == nil {
		writeError(w, req.ID, -32602, fmt.Sprintf("Unknown tool: %s", params.Name))
		return
	}
	for _, p := range tool.Params {
		if _, ok := params.Arguments[p.Name]; p.Required && !ok {
			writeError(w, req.ID, -32602, fmt.Sprintf("Missing argument: %s", p.Name))
			return
		}
	}

	query := url.Values{}
	for k, v := range params.Arguments {
		query.Set(k, fmt.Sprintf("%v", v))
	}
	path := tool.Path
	if len(query) > 0 {
		path += "?" + query.Encode()
	}

	internalReq, err := http.NewRequest("GET", path, nil)
	if err != nil {
		writeError(w, req.ID, -32603, "Failed to create request")
		return
	}
	internalReq.Header.Set("Accept", "application/json")

	recorder := httptest.NewRecorder()
	mux.ServeHTTP(recorder, internalReq)
	app.Log("api", "mcp %s -> %d", tool.Name, recorder.Code)

	result := mcpToolResult{
		Content: []mcpContent{{
			Type: "text",
			Text: recorder.Body.String(),
		}},
	}
	if recorder.Code >= 400 {
		result.IsError = true
	}
	writeResult(w, req.ID, result)
}

func writeResult(w http.ResponseWriter, id any, result any) {
	json.NewEncoder(w).Encode(jsonrpcResponse{
		JSONRPC: "2.0",
		ID:      id,
		Result:  result,
	})
}

func writeError(w http.ResponseWriter, id any, code int, message string) {
	json.NewEncoder(w).Encode(jsonrpcResponse{
		JSONRPC: "2.0",
		ID:      id,
		Error:   &rpcError{Code: code, Message: message},
	})
}
