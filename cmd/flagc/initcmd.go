package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

var errExists = errors.New("file already exists")

const starterDefinitions = `# Flag definitions catalog.
flags:
  - name: new_dashboard
    type: boolean
    defaultValue: OFF
    description: Serve the redesigned dashboard.

  - name: button_color
    type: multivariate
    defaultValue: blue
    variations:
      - name: blue
        value: blue
      - name: red
        value: red
`

const starterDeployment = `# Deployment for the %[1]s environment.
environment: %[1]s

rules:
  new_dashboard:
    rules:
      - when: "user.role == 'admin'"
        serve: ON

  button_color: {}

segments:
  beta_users:
    when: "user.group == 'beta'"
`

func newInitCmd() *cobra.Command {
	var environment string

	cmd := &cobra.Command{
		Use:   "init [dir]",
		Short: "Scaffold a starter definitions and deployment pair",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) == 1 {
				dir = args[0]
			}

			return runInit(cmd, dir, environment)
		},
	}

	cmd.Flags().StringVarP(&environment, "environment", "e", "production",
		"environment name for the deployment document")

	return cmd
}

func runInit(cmd *cobra.Command, dir, environment string) error {
	err := os.MkdirAll(dir, 0o755)
	if err != nil {
		return fmt.Errorf("creating %s: %w", dir, err)
	}

	files := []struct {
		path    string
		content string
	}{
		{filepath.Join(dir, "flags.yaml"), starterDefinitions},
		{
			filepath.Join(dir, environment+".deployment.yaml"),
			fmt.Sprintf(starterDeployment, environment),
		},
	}

	for _, f := range files {
		_, err := os.Stat(f.path)
		if err == nil {
			return fmt.Errorf("%w: %s", errExists, f.path)
		}
	}

	for _, f := range files {
		err := os.WriteFile(f.path, []byte(f.content), 0o644)
		if err != nil {
			return fmt.Errorf("writing %s: %w", f.path, err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "✓ Created %s\n", f.path)
	}

	return nil
}
