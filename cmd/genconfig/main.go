// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package main

import (
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/goccy/go-yaml"
	"github.com/rs/zerolog/log"

	"codeberg.org/pixivfe/potrans/config"
	"codeberg.org/pixivfe/potrans/core/audit"
)

const (
	outputDir      = "deploy"
	envOutputFile  = "deploy/.env.example"
	tomlOutputFile = "deploy/potrans.toml.example"
	yamlOutputFile = "deploy/potrans.yaml.example"
	filePerm       = 0o644
	dirPerm        = 0o755

	envFileHeader = `# potrans configuration (via environment variables)
#
# Environment variables override the [log] table of the configuration file.
#
# This file was auto-generated using go run ./cmd/genconfig.

`
	tomlFileHeader = `# potrans configuration
#
# Copy this file to potrans.toml and customize the rules below.
# Rules are tried in order; the first one whose msgid pattern matches wins.
#
# This file was auto-generated using go run ./cmd/genconfig.

`
	yamlFileHeader = `# potrans configuration (YAML)
#
# Copy this file to potrans.yaml and pass it with --conf potrans.yaml.
# Rules are tried in order; the first one whose msgid pattern matches wins.
#
# This file was auto-generated using go run ./cmd/genconfig.

`
)

// exampleFile is the layout of a generated configuration file.
type exampleFile struct {
	Rules []config.Rule `toml:"rules" yaml:"rules"`
	Log   exampleLog    `toml:"log" yaml:"log"`
}

type exampleLog struct {
	Level   string   `toml:"level" yaml:"level"`
	Format  string   `toml:"format" yaml:"format"`
	Outputs []string `toml:"outputs" yaml:"outputs"`
}

func main() {
	audit.SetDefaultLogger()

	if err := os.MkdirAll(outputDir, dirPerm); err != nil {
		log.Fatal().Err(err).Str("path", outputDir).Msg("Failed to create output directory")
	}

	cfg := config.Example()

	generate(envOutputFile, func() (string, error) { return renderEnv(cfg), nil })
	generate(tomlOutputFile, func() (string, error) { return renderTOML(cfg) })
	generate(yamlOutputFile, func() (string, error) { return renderYAML(cfg) })
}

// generate writes the output of render to path.
func generate(path string, render func() (string, error)) {
	content, err := render()
	if err != nil {
		log.Fatal().Err(err).Str("path", path).Msg("Failed to render example file")
	}

	if err := os.WriteFile(path, []byte(content), filePerm); err != nil {
		log.Fatal().Err(err).Str("path", path).Msg("Failed to write example file")
	}

	log.Info().Str("path", filepath.Clean(path)).Msg("Successfully generated example file")
}

func newExampleFile(cfg config.Config) exampleFile {
	return exampleFile{
		Rules: cfg.Rules,
		Log: exampleLog{
			Level:   cfg.Log.Level,
			Format:  cfg.Log.Format,
			Outputs: cfg.Log.Outputs,
		},
	}
}

// renderEnv lists every environment variable read by the configuration,
// commented out with its default value.
func renderEnv(cfg config.Config) string {
	var sb strings.Builder
	sb.WriteString(envFileHeader)

	fmt.Fprintf(&sb, "# POTRANS_CONFIG=%s\n\n", config.DefaultConfigFile)

	val := reflect.ValueOf(cfg)
	typ := val.Type()

	// Iterate over the top-level struct fields.
	for i := range typ.NumField() {
		structField := typ.Field(i)
		structValue := val.Field(i)

		if structValue.Kind() != reflect.Struct || structField.Name == "Build" {
			continue
		}

		fmt.Fprintf(&sb, "## %s\n", structField.Name)

		// Iterate over the fields of the nested struct.
		innerTyp := structValue.Type()
		for j := range innerTyp.NumField() {
			field := innerTyp.Field(j)
			value := structValue.Field(j)

			tag, ok := field.Tag.Lookup("env")
			if !ok {
				continue
			}

			envVarName := strings.Split(tag, ",")[0]

			if value.Kind() == reflect.Slice {
				parts := make([]string, value.Len())
				for k := range parts {
					parts[k] = fmt.Sprint(value.Index(k).Interface())
				}

				fmt.Fprintf(&sb, "# %s=%s\n", envVarName, strings.Join(parts, ","))

				continue
			}

			fmt.Fprintf(&sb, "# %s=%v\n", envVarName, value.Interface())
		}

		sb.WriteString("\n")
	}

	return sb.String()
}

func renderTOML(cfg config.Config) (string, error) {
	var sb strings.Builder
	sb.WriteString(tomlFileHeader)

	enc := toml.NewEncoder(&sb)
	enc.Indent = ""

	if err := enc.Encode(newExampleFile(cfg)); err != nil {
		return "", fmt.Errorf("failed to marshal config to TOML: %w", err)
	}

	return sb.String(), nil
}

func renderYAML(cfg config.Config) (string, error) {
	var sb strings.Builder
	sb.WriteString(yamlFileHeader)

	if err := yaml.NewEncoder(&sb, yaml.Indent(2)).Encode(newExampleFile(cfg)); err != nil {
		return "", fmt.Errorf("failed to marshal config to YAML: %w", err)
	}

	return sb.String(), nil
}
