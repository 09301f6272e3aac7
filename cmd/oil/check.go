package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/oil-lang/oil/internal/arena"
	"github.com/oil-lang/oil/internal/checker"
	"github.com/oil-lang/oil/internal/config"
	"github.com/oil-lang/oil/internal/diag"
	"github.com/oil-lang/oil/internal/lexer"
	"github.com/oil-lang/oil/internal/parser"
	"github.com/oil-lang/oil/internal/types"
)

func newCheckCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "check <file>",
		Short: "Type-check a module without running it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(args[0], configPath)
		},
	}
	cmd.Flags().StringVar(&configPath, "config", "oil.yaml", "project config file")
	return cmd
}

func runCheck(path, configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	src, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}

	l := lexer.New(src, path)
	file, errs := parser.ParseFile(l)
	if len(errs) > 0 {
		for _, e := range errs {
			fmt.Fprintf(os.Stderr, "%s: %s\n", color.New(color.FgRed).Sprint("parse error"), e)
		}
		return fmt.Errorf("%d parse error(s) in %s", len(errs), path)
	}

	moduleName := cfg.Module
	if moduleName == "" {
		moduleName = path
	}

	c := checker.New(moduleName, arena.New[types.StructEntry](), arena.New[types.EnumEntry](), arena.New[types.FunctionEntry]())
	diags := c.CheckFile(file, nil)

	renderer := diag.New()
	renderer.Sources[path] = string(src)
	for _, w := range c.Warnings {
		renderer.Warning(os.Stdout, w)
	}
	for _, d := range diags {
		renderer.Diagnostic(os.Stdout, d)
	}

	if len(diags) > 0 {
		return fmt.Errorf("%d diagnostic(s) in %s", len(diags), path)
	}

	structsN, enumsN, fnsN := c.Structs.Len(), c.Enums.Len(), c.Functions.Len()
	fmt.Printf("%s %s: %d struct(s), %d enum(s), %d function(s)\n",
		color.New(color.FgGreen).Sprint("ok"), path, structsN, enumsN, fnsN)
	return nil
}
