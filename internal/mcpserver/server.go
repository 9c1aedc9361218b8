package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/davrv/domprobe/fetch"
	"github.com/davrv/domprobe/probe"
)

// MCPServer exposes domprobe queries as an MCP tool over SSE.
type MCPServer struct {
	host      string
	port      int
	mcpServer *server.MCPServer
}

// NewMCPServer creates a new MCP server instance.
func NewMCPServer(host string, port int) *MCPServer {
	return &MCPServer{
		host: host,
		port: port,
	}
}

// queryResult is the JSON payload returned to MCP clients.
type queryResult struct {
	URL      string   `json:"url"`
	FinalURL string   `json:"finalUrl"`
	Selector string   `json:"selector"`
	Extract  string   `json:"extract"`
	Count    int      `json:"count"`
	Values   []string `json:"values"`
}

// Start initializes the tool registry and serves until the listener fails.
func (s *MCPServer) Start() error {
	mcpServer := server.NewMCPServer(
		"domprobe",
		"1.0.0",
		server.WithLogging(),
		server.WithRecovery(),
	)

	queryTool := mcp.NewTool("domprobe_query",
		mcp.WithDescription("Fetch a page and run a CSS selector against it, returning the matched elements"),
		mcp.WithString("url",
			mcp.Required(),
			mcp.Description("The URL of the page to query"),
		),
		mcp.WithString("selector",
			mcp.Required(),
			mcp.Description("CSS selector to run against the fetched document"),
		),
		mcp.WithString("extract",
			mcp.Description("What to extract from each matched element"),
			mcp.Enum("text", "html", "attr"),
		),
		mcp.WithString("attr",
			mcp.Description("Attribute name to extract when extract is 'attr'"),
		),
		mcp.WithBoolean("stealth",
			mcp.Description("Use a browser TLS fingerprint for the fetch"),
		),
	)
	mcpServer.AddTool(queryTool, s.handleQueryToolRequest)

	s.mcpServer = mcpServer

	addr := fmt.Sprintf("%s:%d", s.host, s.port)
	log.Printf("Starting MCP server on %s", addr)

	sseServer := server.NewSSEServer(s.mcpServer)
	return sseServer.Start(addr)
}

// handleQueryToolRequest handles domprobe_query calls from MCP clients.
func (s *MCPServer) handleQueryToolRequest(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	targetURL, ok := request.Params.Arguments["url"].(string)
	if !ok || targetURL == "" {
		return mcp.NewToolResultError("Missing or invalid target URL"), nil
	}
	selector, ok := request.Params.Arguments["selector"].(string)
	if !ok || selector == "" {
		return mcp.NewToolResultError("Missing or invalid selector"), nil
	}

	extract := "text"
	if e, ok := request.Params.Arguments["extract"].(string); ok && e != "" {
		extract = e
	}
	attrName, _ := request.Params.Arguments["attr"].(string)
	if extract == "attr" && attrName == "" {
		return mcp.NewToolResultError("extract=attr requires an attr name"), nil
	}
	stealth, _ := request.Params.Arguments["stealth"].(bool)

	log.Printf("Received query request: %s %q (extract: %s)", targetURL, selector, extract)

	var fetcher fetch.Fetcher
	if stealth {
		fetcher = fetch.NewStealthFetcher()
	} else {
		fetcher = fetch.NewClientFetcher()
	}

	doc, err := probe.Open(fetcher, nil, targetURL)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Error fetching %s: %v", targetURL, err)), nil
	}

	ns := doc.Find(selector)

	var values []string
	switch extract {
	case "text":
		values = ns.Text().Strings()
	case "html":
		values = ns.InnerHTML().Strings()
	case "attr":
		values = ns.Attr(attrName).Strings()
	default:
		return mcp.NewToolResultError(fmt.Sprintf("Unknown extract mode %q", extract)), nil
	}

	result := queryResult{
		URL:      targetURL,
		FinalURL: doc.BaseURL(),
		Selector: selector,
		Extract:  extract,
		Count:    ns.Size(),
		Values:   values,
	}

	jsonData, jsonErr := json.MarshalIndent(result, "", "  ")
	if jsonErr != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Error converting results to JSON: %v", jsonErr)), nil
	}
	return mcp.NewToolResultText(string(jsonData)), nil
}
