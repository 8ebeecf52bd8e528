// cmd/tools/catalog-tool/main.go
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"recruitment-portal/pkg/catalog"
)

func main() {
	validateCmd := flag.NewFlagSet("validate", flag.ExitOnError)
	listCmd := flag.NewFlagSet("list", flag.ExitOnError)
	exportCmd := flag.NewFlagSet("export", flag.ExitOnError)

	validatePath := validateCmd.String("path", "", "Catalog file (empty checks the embedded catalog)")
	listPath := listCmd.String("path", "", "Catalog file (empty uses the embedded catalog)")
	exportPath := exportCmd.String("path", "", "Catalog file (empty uses the embedded catalog)")
	exportOut := exportCmd.String("out", "", "Output file (default stdout)")

	if len(os.Args) < 2 {
		help()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "validate":
		validateCmd.Parse(os.Args[2:])
		if err := validateCatalog(*validatePath, os.Stdout); err != nil {
			fmt.Printf("Catalog validation failed: %v\n", err)
			os.Exit(1)
		}

	case "list":
		listCmd.Parse(os.Args[2:])
		if err := listPositions(*listPath, os.Stdout); err != nil {
			fmt.Printf("Error listing positions: %v\n", err)
			os.Exit(1)
		}

	case "export":
		exportCmd.Parse(os.Args[2:])
		if err := exportSummaries(*exportPath, *exportOut); err != nil {
			fmt.Printf("Error exporting catalog: %v\n", err)
			os.Exit(1)
		}

	case "help":
		fallthrough
	default:
		help()
	}
}

func validateCatalog(path string, w io.Writer) error {
	c, err := catalog.Load(path)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "Catalog validation passed. Found %d positions for %s.\n", c.Len(), c.RecruitmentYear())
	return nil
}

func listPositions(path string, w io.Writer) error {
	c, err := catalog.Load(path)
	if err != nil {
		return err
	}
	for _, p := range c.All() {
		fmt.Fprintf(w, "%3d  %s (%d questions)\n", p.ID, p.Name, len(p.DomainQuestions))
	}
	return nil
}

func exportSummaries(path, out string) error {
	c, err := catalog.Load(path)
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(map[string]interface{}{
		"recruitmentYear": c.RecruitmentYear(),
		"positions":       c.Summaries(),
	}, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal catalog: %w", err)
	}

	if out == "" {
		_, err = fmt.Println(string(data))
		return err
	}
	if err := os.MkdirAll(filepath.Dir(out), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	if err := os.WriteFile(out, data, 0644); err != nil {
		return fmt.Errorf("failed to write export file: %w", err)
	}
	fmt.Printf("Exported %d positions to %s\n", c.Len(), out)
	return nil
}

func help() {
	fmt.Println(`
Usage: catalog-tool <command> [flags]

Commands:
  validate  Check a catalog file against the schema
  list      Print position ids and names
  export    Write the position cards (no questions) as JSON
  help      Show this help message

Examples:
  catalog-tool validate -path configs/positions.json
  catalog-tool list
  catalog-tool export -out dist/positions.json

Use 'catalog-tool <command> -h' for more information about a command.
`)
}
