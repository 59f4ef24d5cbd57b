// Package main regenerates the bundled document schemas from the
// schemagen package definitions. The schema package embeds the output
// files at build time.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/spf13/cobra"

	"go.flagc.dev/flagc/schema"
	"go.flagc.dev/flagc/schemagen"
)

func main() {
	var outDir string

	rootCmd := &cobra.Command{
		Use:           "schemagen",
		Short:         "Regenerate the bundled flagc document schemas",
		Args:          cobra.NoArgs,
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(_ *cobra.Command, _ []string) error {
			return run(outDir)
		},
	}

	rootCmd.Flags().StringVarP(&outDir, "output", "o", "schema",
		"directory to write the schema files to")

	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}

func run(outDir string) error {
	outputs := []struct {
		name   string
		schema *jsonschema.Schema
	}{
		{schema.DefinitionsName, schemagen.Definitions()},
		{schema.DeploymentName, schemagen.Deployment()},
	}

	for _, out := range outputs {
		data, err := schemagen.Render(out.schema)
		if err != nil {
			return err
		}

		path := filepath.Join(outDir, out.name)

		err = os.WriteFile(path, data, 0o644)
		if err != nil {
			return fmt.Errorf("writing %s: %w", path, err)
		}

		fmt.Printf("wrote %s\n", path)
	}

	return nil
}
