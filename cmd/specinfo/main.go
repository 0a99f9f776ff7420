package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"text/tabwriter"

	"github.com/go-logr/logr"
	"github.com/spf13/cobra"

	"github.com/roivaz/openapi-mcp-bridge/internal/adapter"
	"github.com/roivaz/openapi-mcp-bridge/internal/config"
	"github.com/roivaz/openapi-mcp-bridge/internal/logging"
	"github.com/roivaz/openapi-mcp-bridge/internal/mcp"
	"github.com/roivaz/openapi-mcp-bridge/internal/openapi"
)

// specinfo prints how each operation of an OpenAPI document would surface
// on the MCP side: its tool name, verb classification and whether it is
// addressable as a resource.
func main() {
	root := &cobra.Command{
		Use:   "specinfo",
		Short: "Inspect how an OpenAPI document maps onto MCP tools and resources",
		RunE:  run,
	}

	root.PersistentFlags().String(config.KeySpecLocation, "", "OpenAPI document location (file path or http(s) URL)")
	root.PersistentFlags().String(config.KeyBaseURL, "", "Base URL override for outbound API requests")
	root.PersistentFlags().String(config.KeyOverridesFile, "", "YAML file with per-operation extension overrides")
	root.PersistentFlags().Bool("schemas", false, "Also print each operation's merged argument schema")

	config.Init(root)

	if err := root.Execute(); err != nil {
		log.Fatalf("command failed: %v", err)
	}
}

func run(cmd *cobra.Command, args []string) error {
	location := config.SpecLocation()
	if location == "" {
		return fmt.Errorf("no OpenAPI document configured (set %s)", config.KeySpecLocation)
	}

	logger := logging.New(logr.Discard())
	loader := openapi.NewLoader(logger)
	loader.BaseURLOverride = config.BaseURL()
	doc, err := loader.Load(cmd.Context(), location)
	if err != nil {
		return err
	}

	ops := doc.Operations()
	if path := config.OverridesFile(); path != "" {
		overrides, err := openapi.LoadOverrides(path)
		if err != nil {
			return err
		}
		openapi.ApplyOverrides(ops, overrides, logger)
	}
	views := adapter.BuildViews(ops, logger)

	fmt.Printf("%s %s — base URL %q, %d operation(s)\n\n", doc.Title, doc.Version, doc.BaseURL, len(views))

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tMETHOD\tPATH\tSURFACE\tSAFETY")
	for _, view := range views {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			mcp.SanitizeName(view.ID),
			view.Verb.Method(),
			view.Path,
			surface(view),
			safety(view),
		)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if showSchemas, _ := cmd.Flags().GetBool("schemas"); showSchemas {
		for _, view := range views {
			fmt.Printf("\n%s:\n", mcp.SanitizeName(view.ID))
			if view.ParameterSchema == nil {
				fmt.Println("  (no argument validation)")
				continue
			}
			var pretty bytes.Buffer
			if err := json.Indent(&pretty, view.ParameterSchema, "  ", "  "); err != nil {
				fmt.Printf("  %s\n", view.ParameterSchema)
				continue
			}
			fmt.Printf("  %s\n", pretty.String())
		}
	}
	return nil
}

func surface(view *adapter.OperationView) string {
	switch {
	case view.Extensions.Ignore == adapter.IgnoreAll:
		return "hidden"
	case view.IsResource:
		return "resource"
	case view.Extensions.Ignore == adapter.IgnoreTool:
		return "hidden"
	default:
		return "tool"
	}
}

func safety(view *adapter.OperationView) string {
	kind := string(view.Safety.Kind)
	if view.Safety.Kind == adapter.SafetyUpdate && view.Safety.Idempotent {
		return kind + " (idempotent)"
	}
	return kind
}
