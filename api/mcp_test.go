package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

// echoMux answers every request with its own URL, or 404 for /places/resolve.
func echoMux(seen *[]*http.Request) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*seen = append(*seen, r)
		if r.URL.Path == "/places/resolve" {
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte(`{"error":"Could not find that address."}`))
			return
		}
		w.Write([]byte(r.URL.String()))
	})
}

func rpc(t *testing.T, mux http.Handler, body string) jsonrpcResponse {
	t.Helper()
	req := httptest.NewRequest("POST", "/mcp", strings.NewReader(body))
	w := httptest.NewRecorder()
	MCPHandler(mux).ServeHTTP(w, req)

	var resp jsonrpcResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode %q: %v", w.Body.String(), err)
	}
	return resp
}

func TestMCPHandler_GETReturnsPage(t *testing.T) {
	req := httptest.NewRequest("GET", "/mcp", nil)
	w := httptest.NewRecorder()

	MCPHandler(http.NotFoundHandler()).ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}
	body := w.Body.String()
	if !strings.Contains(body, "Model Context Protocol") {
		t.Error("Expected MCP page content in GET response")
	}
	if !strings.Contains(body, "search_parks") {
		t.Error("Expected tools listed on the MCP page")
	}
}

func TestMCPHandler_MethodNotAllowed(t *testing.T) {
	req := httptest.NewRequest("DELETE", "/mcp", nil)
	w := httptest.NewRecorder()

	MCPHandler(http.NotFoundHandler()).ServeHTTP(w, req)

	if w.Code != http.StatusMethodNotAllowed {
		t.Errorf("Expected status 405, got %d", w.Code)
	}
	var resp jsonrpcResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Error == nil {
		t.Fatal("Expected error response")
	}
}

func TestMCPHandler_InvalidJSON(t *testing.T) {
	resp := rpc(t, http.NotFoundHandler(), "not json")
	if resp.Error == nil || resp.Error.Code != -32700 {
		t.Errorf("Expected parse error -32700, got %+v", resp.Error)
	}
}

func TestMCPHandler_Initialize(t *testing.T) {
	resp := rpc(t, http.NotFoundHandler(), `{"jsonrpc":"2.0","id":1,"method":"initialize","params":{"protocolVersion":"2025-03-26","clientInfo":{"name":"test","version":"1.0"},"capabilities":{}}}`)
	if resp.Error != nil {
		t.Fatalf("Unexpected error: %s", resp.Error.Message)
	}
	result, _ := json.Marshal(resp.Result)
	var init mcpInitializeResult
	if err := json.Unmarshal(result, &init); err != nil {
		t.Fatal(err)
	}
	if init.ProtocolVersion != MCPVersion || init.ServerInfo.Name != "parks" {
		t.Errorf("initialize result = %+v", init)
	}
	if init.Capabilities.Tools == nil {
		t.Error("Expected tools capability")
	}
}

func TestMCPHandler_ToolsList(t *testing.T) {
	resp := rpc(t, http.NotFoundHandler(), `{"jsonrpc":"2.0","id":2,"method":"tools/list"}`)
	if resp.Error != nil {
		t.Fatalf("Unexpected error: %s", resp.Error.Message)
	}
	result, _ := json.Marshal(resp.Result)
	var list mcpToolsListResult
	if err := json.Unmarshal(result, &list); err != nil {
		t.Fatal(err)
	}
	if len(list.Tools) != len(tools) {
		t.Fatalf("Expected %d tools, got %d", len(tools), len(list.Tools))
	}
	for _, tool := range list.Tools {
		if tool.Name == "search_parks" {
			if len(tool.InputSchema.Required) != 2 {
				t.Errorf("search_parks required = %v", tool.InputSchema.Required)
			}
			return
		}
	}
	t.Error("search_parks missing from tools/list")
}

func TestMCPHandler_ToolsCall(t *testing.T) {
	var seen []*http.Request
	resp := rpc(t, echoMux(&seen), `{"jsonrpc":"2.0","id":3,"method":"tools/call","params":{"name":"search_parks","arguments":{"sw":"40.70,-74.02","ne":"40.71,-74.01"}}}`)
	if resp.Error != nil {
		t.Fatalf("Unexpected error: %s", resp.Error.Message)
	}
	if len(seen) != 1 {
		t.Fatalf("Expected one internal request, got %d", len(seen))
	}
	r := seen[0]
	if r.Method != "GET" || r.URL.Path != "/places/nearby" {
		t.Errorf("internal request = %s %s", r.Method, r.URL.Path)
	}
	if r.URL.Query().Get("sw") != "40.70,-74.02" || r.URL.Query().Get("ne") != "40.71,-74.01" {
		t.Errorf("query = %v", r.URL.Query())
	}
	if r.Header.Get("Accept") != "application/json" {
		t.Error("Expected JSON Accept header")
	}

	result, _ := json.Marshal(resp.Result)
	var tr mcpToolResult
	json.Unmarshal(result, &tr)
	if tr.IsError || len(tr.Content) != 1 || !strings.Contains(tr.Content[0].Text, "/places/nearby") {
		t.Errorf("tool result = %+v", tr)
	}
}

func TestMCPHandler_ToolsCallUpstreamError(t *testing.T) {
	var seen []*http.Request
	resp := rpc(t, echoMux(&seen), `{"jsonrpc":"2.0","id":4,"method":"tools/call","params":{"name":"resolve_address","arguments":{"id":"gone"}}}`)
	result, _ := json.Marshal(resp.Result)
	var tr mcpToolResult
	json.Unmarshal(result, &tr)
	if !tr.IsError {
		t.Errorf("Expected isError for a 404, got %+v", tr)
	}
}

func TestMCPHandler_ToolsCallErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
		code int
	}{
		{"unknown tool", `{"jsonrpc":"2.0","id":5,"method":"tools/call","params":{"name":"nonexistent"}}`, -32602},
		{"invalid params", `{"jsonrpc":"2.0","id":6,"method":"tools/call","params":"bad"}`, -32602},
		{"missing argument", `{"jsonrpc":"2.0","id":7,"method":"tools/call","params":{"name":"park_details","arguments":{}}}`, -32602},
		{"method not found", `{"jsonrpc":"2.0","id":8,"method":"nope"}`, -32601},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var seen []*http.Request
			resp := rpc(t, echoMux(&seen), tt.body)
			if resp.Error == nil || resp.Error.Code != tt.code {
				t.Errorf("error = %+v, want code %d", resp.Error, tt.code)
			}
			if len(seen) != 0 {
				t.Errorf("request reached the mux: %v", seen[0].URL)
			}
		})
	}
}

func TestMCPHandler_Ping(t *testing.T) {
	resp := rpc(t, http.NotFoundHandler(), `{"jsonrpc":"2.0","id":9,"method":"ping"}`)
	if resp.Error != nil {
		t.Errorf("Unexpected error: %s", resp.Error.Message)
	}
}

func TestMCPHandler_NotificationsInitialized(t *testing.T) {
	req := httptest.NewRequest("POST", "/mcp", strings.NewReader(`{"jsonrpc":"2.0","method":"notifications/initialized"}`))
	w := httptest.NewRecorder()
	MCPHandler(http.NotFoundHandler()).ServeHTTP(w, req)
	if w.Code != http.StatusNoContent {
		t.Errorf("Expected 204, got %d", w.Code)
	}
}
