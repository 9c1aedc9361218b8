package main

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/urfave/cli/v2"

	"github.com/davrv/domprobe/fetch"
	"github.com/davrv/domprobe/internal/mcpserver"
	"github.com/davrv/domprobe/probe"
)

// Build information, initialized to defaults and potentially overridden by ldflags.
var (
	version = "development"
	commit  = "n/a"
	date    = "n/a"
)

func printBanner() {
	nameColor := color.New(color.FgWhite, color.Bold)
	metaColor := color.New(color.FgWhite)
	nameColor.Println("domprobe")
	metaColor.Printf("Version: %s | Commit: %s | Date: %s\n\n", version, commit, date)
}

// queryOutput is the JSON shape written by the query action.
type queryOutput struct {
	Target   string   `json:"target"`
	FinalURL string   `json:"finalUrl"`
	Selector string   `json:"selector"`
	Count    int      `json:"count"`
	Values   []string `json:"values"`
}

func runQuery(c *cli.Context) error {
	if c.NArg() != 1 {
		cli.ShowAppHelpAndExit(c, 1)
	}
	targetURL := c.Args().Get(0)
	if !strings.HasPrefix(targetURL, "http://") && !strings.HasPrefix(targetURL, "https://") {
		targetURL = "https://" + targetURL
	}

	selector := c.String("selector")
	attrName := c.String("attr")
	wantHTML := c.Bool("html")
	outputFormat := c.String("format")
	outputFile := c.String("output")

	if outputFormat != "text" && outputFormat != "json" {
		return cli.Exit(fmt.Sprintf("Error: Invalid output format '%s'. Use 'text' or 'json'.", outputFormat), 1)
	}
	if wantHTML && attrName != "" {
		return cli.Exit("Error: --html and --attr are mutually exclusive.", 1)
	}

	var fetcher fetch.Fetcher
	if c.Bool("stealth") {
		fetcher = fetch.NewStealthFetcher()
	} else {
		fetcher = fetch.NewClientFetcher()
	}

	log.Printf("Querying target: %s", targetURL)
	doc, err := probe.Open(fetcher, nil, targetURL)
	if err != nil {
		return cli.Exit(fmt.Sprintf("Error fetching target: %v", err), 1)
	}

	ns := doc.Find(selector)
	var values []string
	switch {
	case wantHTML:
		values = ns.InnerHTML().Strings()
	case attrName != "":
		values = ns.Attr(attrName).Strings()
	default:
		values = ns.Text().Strings()
	}

	out := queryOutput{
		Target:   targetURL,
		FinalURL: doc.BaseURL(),
		Selector: selector,
		Count:    ns.Size(),
		Values:   values,
	}

	if outputFile != "" {
		return writeOutput(out, outputFile, outputFormat)
	}
	return printResults(out, outputFormat)
}

// printResults formats and prints the query results to stdout.
func printResults(out queryOutput, outputFormat string) error {
	if outputFormat == "json" {
		jsonData, err := json.MarshalIndent(out, "", "  ")
		if err != nil {
			return cli.Exit(fmt.Sprintf("Error marshaling results: %v", err), 1)
		}
		fmt.Println(string(jsonData))
		return nil
	}

	title := color.New(color.FgWhite, color.Bold).SprintFunc()
	label := color.New(color.FgYellow).SprintFunc()
	value := color.New(color.FgCyan).SprintFunc()
	matchText := color.New(color.FgMagenta).SprintFunc()

	fmt.Printf("%s: %s\n", title("Query results for"), value(out.FinalURL))
	fmt.Printf("%s %s\n", label("Selector:"), value(out.Selector))
	fmt.Printf("%s %s\n", label("Matches:"), value(out.Count))
	for i, v := range out.Values {
		fmt.Printf("  [%d] %s\n", i, matchText(v))
	}
	return nil
}

// writeOutput writes the query results to a file.
func writeOutput(out queryOutput, outputFile, outputFormat string) error {
	var data []byte
	var err error

	if outputFormat == "json" {
		data, err = json.MarshalIndent(out, "", "  ")
		if err != nil {
			return cli.Exit(fmt.Sprintf("Error marshaling results: %v", err), 1)
		}
	} else {
		var sb strings.Builder
		sb.WriteString(fmt.Sprintf("Query results for: %s\n", out.FinalURL))
		sb.WriteString(fmt.Sprintf("Selector: %s\n", out.Selector))
		sb.WriteString(fmt.Sprintf("Matches: %d\n", out.Count))
		for i, v := range out.Values {
			sb.WriteString(fmt.Sprintf("  [%d] %s\n", i, v))
		}
		data = []byte(sb.String())
	}

	if err := os.WriteFile(outputFile, data, 0644); err != nil {
		return cli.Exit(fmt.Sprintf("Error writing output file: %v", err), 1)
	}
	log.Printf("Results written to %s", outputFile)
	return nil
}

func main() {
	printBanner()

	app := &cli.App{
		Name:      "domprobe",
		Usage:     "Query and assert on the DOM of live pages.",
		UsageText: "domprobe [command options] <target_url>",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "selector",
				Aliases:  []string{"s"},
				Required: true,
				Usage:    "CSS `SELECTOR` to run against the fetched document",
			},
			&cli.StringFlag{
				Name:    "attr",
				Aliases: []string{"a"},
				Usage:   "Extract attribute `NAME` instead of text",
			},
			&cli.BoolFlag{
				Name:  "html",
				Usage: "Extract inner HTML instead of text",
			},
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Value:   "text",
				Usage:   "Output format (`text` or `json`)",
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Write output to `FILE`",
			},
			&cli.BoolFlag{
				Name:  "stealth",
				Usage: "Fetch with a browser TLS fingerprint",
			},
		},
		Action: runQuery,
		Commands: []*cli.Command{
			{
				Name:  "mcp",
				Usage: "Serve domprobe queries as an MCP tool over SSE",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "host",
						Value: "127.0.0.1",
						Usage: "Host to listen on",
					},
					&cli.IntFlag{
						Name:  "port",
						Value: 8943,
						Usage: "Port to listen on",
					},
				},
				Action: func(c *cli.Context) error {
					srv := mcpserver.NewMCPServer(c.String("host"), c.Int("port"))
					return srv.Start()
				},
			},
		},
	}

	cli.AppHelpTemplate = fmt.Sprintf(`%s
%s`, cli.AppHelpTemplate, `EXAMPLE:
   domprobe -s "h1.title" https://example.com
   domprobe -s "a.nav" -a href -f json -o results.json https://example.com
   domprobe mcp --port 8943
`)

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
