// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
potrans fills in gettext PO catalogs by rewriting each msgid with regular
expression rules.

	potrans [-c potrans.toml] [-i] [--verify] FILES...

Flags may also follow the files. Arguments after "--" are always files.
*/
package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"

	"codeberg.org/pixivfe/potrans/config"
	"codeberg.org/pixivfe/potrans/core/audit"
	"codeberg.org/pixivfe/potrans/core/rules"
	"codeberg.org/pixivfe/potrans/core/transform"
	"codeberg.org/pixivfe/potrans/i18n"
)

// Exit statuses.
const (
	exitSuccess = 0
	exitFailure = 1
	exitUsage   = 2
)

var errNoFiles = errors.New("at least one FILE is required")

// UsageError is returned for command lines that cannot be run.
type UsageError struct {
	Err error
	App *cli.App
}

func (e *UsageError) Error() string {
	return e.Err.Error()
}

func (e *UsageError) Unwrap() error {
	return e.Err
}

// main is the entry point of the application.
func main() {
	os.Exit(runApp(os.Args, os.Stdout, os.Stderr))
}

// runApp runs potrans with the given arguments and returns the exit status.
//
// Catalogs are written to stdout; usage errors go to stderr.
func runApp(args []string, stdout, stderr io.Writer) int {
	audit.SetDefaultLogger()

	app := newApp(stdout, stderr)

	err := app.Run(flagsFirst(args, app.Flags))
	if err == nil {
		return exitSuccess
	}

	var usageErr *UsageError
	if errors.As(err, &usageErr) {
		fmt.Fprintf(stderr, "Incorrect Usage: %s\n\n", usageErr.Err)
		cli.HelpPrinter(stderr, cli.AppHelpTemplate, usageErr.App)

		return exitUsage
	}

	log.Error().Err(err).Msg("potrans failed")

	return exitFailure
}

// flagsFirst moves flags given among or after the files in front of them,
// since flag parsing stops at the first file. The files follow a "--" so
// none of them is parsed as a flag.
func flagsFirst(args []string, flags []cli.Flag) []string {
	if len(args) < 2 {
		return args
	}

	takesValue := make(map[string]bool)

	for _, f := range flags {
		if _, ok := f.(*cli.StringFlag); ok {
			for _, name := range f.Names() {
				takesValue[name] = true
			}
		}
	}

	var opts, files []string

	rest := args[1:]
	for i := 0; i < len(rest); i++ {
		arg := rest[i]

		if arg == "--" {
			files = append(files, rest[i+1:]...)

			break
		}

		if len(arg) < 2 || arg[0] != '-' {
			files = append(files, arg)

			continue
		}

		opts = append(opts, arg)

		name := strings.TrimLeft(arg, "-")
		if !strings.Contains(name, "=") && takesValue[name] && i+1 < len(rest) {
			i++
			opts = append(opts, rest[i])
		}
	}

	out := append([]string{args[0]}, opts...)
	if len(files) > 0 {
		out = append(out, "--")
		out = append(out, files...)
	}

	return out
}

func newApp(stdout, stderr io.Writer) *cli.App {
	cli.VersionFlag = &cli.BoolFlag{
		Name:               "version",
		Usage:              "print the version and exit",
		DisableDefaultText: true,
	}
	cli.VersionPrinter = func(c *cli.Context) {
		fmt.Fprintf(c.App.Writer, "%s %s\n", c.App.Name, c.App.Version)
	}

	return &cli.App{
		Name:            "potrans",
		Usage:           "translate gettext catalogs with regular expression rules",
		UsageText:       "potrans [options] FILES...",
		ArgsUsage:       "FILES...",
		Version:         config.BuildVersion,
		HideHelpCommand: true,
		Writer:          stdout,
		ErrWriter:       stderr,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "conf",
				Aliases: []string{"c"},
				Usage:   "read rules from `FILE` (TOML, or YAML for .yaml and .yml)",
				Value:   config.DefaultConfigFile,
			},
			&cli.BoolFlag{
				Name:    "inplace",
				Aliases: []string{"i"},
				Usage:   "overwrite the input files instead of printing them",
			},
			&cli.BoolFlag{
				Name:  "verify",
				Usage: "check every result with a gettext runtime before writing it",
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "log `LEVEL`: debug, info, warn or error",
			},
		},
		OnUsageError: func(c *cli.Context, err error, _ bool) error {
			return &UsageError{Err: err, App: c.App}
		},
		Action: run,
	}
}

// run loads the configuration, compiles the rules and transforms every file.
func run(c *cli.Context) error {
	if c.NArg() == 0 {
		return &UsageError{Err: errNoFiles, App: c.App}
	}

	opts := config.Options{
		Files:    c.Args().Slice(),
		InPlace:  c.Bool("inplace"),
		Verify:   c.Bool("verify"),
		LogLevel: c.String("log-level"),
	}

	if c.IsSet("conf") {
		opts.ConfigPath = c.String("conf")
	}

	cfg, err := config.Load(opts)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	cfg.SetupAudit()
	i18n.Setup()
	cfg.Print()

	set, err := rules.Compile(cfg.Rules)
	if err != nil {
		return fmt.Errorf("failed to compile rules: %w", err)
	}

	return transform.New(cfg, set, c.App.Writer).Run(c.Context)
}
