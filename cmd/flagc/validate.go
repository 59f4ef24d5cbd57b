package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"go.flagc.dev/flagc/config"
	"go.flagc.dev/flagc/validate"
)

var errValidation = errors.New("validation failed")

func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <definitions-file> [deployment-file ...]",
		Short: "Validate flag definition and deployment documents",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(cmd, args[0], args[1:])
		},
	}
}

func runValidate(cmd *cobra.Command, definitionsPath string, deploymentPaths []string) error {
	var errs []validate.Error

	defsDoc, err := config.ReadFile(definitionsPath)
	if err != nil {
		return err
	}

	errs = append(errs, validate.Definitions(defsDoc).Errors...)

	for _, path := range deploymentPaths {
		doc, err := config.ReadFile(path)
		if err != nil {
			return err
		}

		errs = append(errs, validate.Deployment(doc).Errors...)
	}

	if len(errs) > 0 {
		fmt.Fprint(cmd.ErrOrStderr(), validate.FormatErrors(errs))

		return fmt.Errorf("%w: %d error(s)", errValidation, len(errs))
	}

	files := 1 + len(deploymentPaths)
	fmt.Fprintf(cmd.OutOrStdout(), "✓ %d document(s) valid: %s\n",
		files, strings.Join(append([]string{definitionsPath}, deploymentPaths...), ", "))

	return nil
}
