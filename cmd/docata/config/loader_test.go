// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pranc1ngpegasus/docata/services/docata/telemetry"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), ".docata.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, "./docs", cfg.Docs.Dir)
	assert.Equal(t, "./docs/catalog.json", cfg.Catalog.Location)
	assert.False(t, cfg.Catalog.IncludeNodeMetadata)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, ":8080", cfg.Serve.Addr)
	assert.NoError(t, Validate(cfg))
}

func TestLoad_MissingFileYieldsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoad_OverridesDefaults(t *testing.T) {
	t.Setenv("OTEL_TRACES_EXPORTER", "")
	path := writeConfig(t, `
docs:
  dir: handbook
  exclude: ["drafts/", "*.tmp.md"]
  workers: 4
catalog:
  location: sqlite://build/catalog.db
  include_node_metadata: true
log:
  level: debug
telemetry:
  metric_exporter: prometheus
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "handbook", cfg.Docs.Dir)
	assert.Equal(t, []string{"drafts/", "*.tmp.md"}, cfg.Docs.Exclude)
	assert.Equal(t, 4, cfg.Docs.Workers)
	assert.Equal(t, "sqlite://build/catalog.db", cfg.Catalog.Location)
	assert.True(t, cfg.Catalog.IncludeNodeMetadata)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, telemetry.ExporterPrometheus, cfg.Telemetry.MetricExporter)

	// Untouched keys keep their defaults.
	assert.Equal(t, telemetry.ExporterNone, cfg.Telemetry.TraceExporter)
	assert.Equal(t, "docata", cfg.Telemetry.ServiceName)
	assert.Equal(t, ":8080", cfg.Serve.Addr)
}

func TestLoad_EmptyFile(t *testing.T) {
	cfg, err := Load(writeConfig(t, ""))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		invalid bool
	}{
		{name: "unknown key", content: "docs:\n  directory: x\n"},
		{name: "malformed yaml", content: "docs: [\n"},
		{name: "bad log level", content: "log:\n  level: loud\n", invalid: true},
		{name: "bad exporter", content: "telemetry:\n  trace_exporter: jaeger\n", invalid: true},
		{name: "negative workers", content: "docs:\n  workers: -1\n", invalid: true},
		{name: "empty location", content: "catalog:\n  location: \"\"\n", invalid: true},
		{name: "empty exclude pattern", content: "docs:\n  exclude: [\"\"]\n", invalid: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content))
			require.Error(t, err)
			if tt.invalid {
				assert.ErrorIs(t, err, ErrInvalidConfig)
			} else {
				assert.NotErrorIs(t, err, ErrInvalidConfig)
			}
		})
	}
}

func TestValidate_NamesField(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Serve.Addr = ""
	err := Validate(cfg)
	require.ErrorIs(t, err, ErrInvalidConfig)
	assert.Contains(t, err.Error(), "Serve.Addr")
	assert.Contains(t, err.Error(), `"required"`)
}

func TestWriteDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", ".docata.yaml")
	require.NoError(t, WriteDefault(path))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig().Docs, cfg.Docs)
	assert.Equal(t, DefaultConfig().Catalog, cfg.Catalog)

	assert.ErrorIs(t, WriteDefault(path), ErrConfigExists)
}
