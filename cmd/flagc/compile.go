package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"go.flagc.dev/flagc/compiler"
	"go.flagc.dev/flagc/config"
	"go.flagc.dev/flagc/profile"
	"go.flagc.dev/flagc/validate"
)

type compileConfig struct {
	Definitions string
	Output      string
	SkipChecks  bool
	Profile     *profile.Config
}

func newCompileCmd() *cobra.Command {
	cfg := &compileConfig{Profile: profile.NewConfig()}

	cmd := &cobra.Command{
		Use:   "compile <deployment-file>",
		Short: "Compile a deployment into an evaluation artifact",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompile(cmd, cfg, args[0])
		},
	}

	cmd.Flags().StringVarP(&cfg.Definitions, "definitions", "d", "flags.yaml",
		"flag definitions file")
	cmd.Flags().StringVarP(&cfg.Output, "output", "o", "",
		"artifact output path (default: deployment file with .ast extension)")
	cmd.Flags().BoolVar(&cfg.SkipChecks, "skip-validation", false,
		"compile without validating the documents first")

	cfg.Profile.RegisterFlags(cmd.Flags())

	completionErr := cfg.Profile.RegisterCompletions(cmd)
	if completionErr != nil {
		fmt.Fprintf(os.Stderr, "register completions: %v\n", completionErr)
	}

	return cmd
}

func runCompile(cmd *cobra.Command, cfg *compileConfig, deploymentPath string) error {
	profiler := cfg.Profile.NewProfiler()

	err := profiler.Start()
	if err != nil {
		return err
	}

	defer func() {
		stopErr := profiler.Stop()
		if stopErr != nil {
			slog.Warn("stopping profiler", slog.Any("error", stopErr))
		}
	}()

	defsDoc, err := config.ReadFile(cfg.Definitions)
	if err != nil {
		return err
	}

	depDoc, err := config.ReadFile(deploymentPath)
	if err != nil {
		return err
	}

	if !cfg.SkipChecks {
		errs := append(
			validate.Definitions(defsDoc).Errors,
			validate.Deployment(depDoc).Errors...,
		)

		if len(errs) > 0 {
			fmt.Fprint(cmd.ErrOrStderr(), validate.FormatErrors(errs))

			return fmt.Errorf("%w: %d error(s)", errValidation, len(errs))
		}
	}

	defs, err := config.DecodeDefinitions(defsDoc)
	if err != nil {
		return err
	}

	dep, err := config.DecodeDeployment(depDoc)
	if err != nil {
		return err
	}

	data, err := compiler.CompileAndSerialize(dep, defs)
	if err != nil {
		return err
	}

	output := cfg.Output
	if output == "" {
		output = artifactPath(deploymentPath)
	}

	err = os.WriteFile(output, data, 0o644)
	if err != nil {
		return fmt.Errorf("writing artifact: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "✓ Compiled %s → %s (%d bytes)\n",
		deploymentPath, output, len(data))

	return nil
}

// artifactPath derives the artifact output path from a deployment
// file path: "envs/production.deployment.yaml" -> "envs/production.ast".
func artifactPath(deploymentPath string) string {
	base := filepath.Base(deploymentPath)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	base = strings.TrimSuffix(base, ".deployment")

	return filepath.Join(filepath.Dir(deploymentPath), base+".ast")
}
