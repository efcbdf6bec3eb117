// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package config loads the .docata.yaml project configuration.
package config

import (
	"github.com/pranc1ngpegasus/docata/services/docata/telemetry"
)

// DefaultPath is the configuration file read when --config is not given.
const DefaultPath = ".docata.yaml"

// Config is the project configuration.
//
// Every field has a default (see DefaultConfig), so an absent file or an
// absent key leaves the default in place.
type Config struct {
	Docs      DocsConfig       `yaml:"docs"`
	Catalog   CatalogConfig    `yaml:"catalog"`
	Log       LogConfig        `yaml:"log"`
	Telemetry telemetry.Config `yaml:"telemetry"`
	Serve     ServeConfig      `yaml:"serve"`
}

// DocsConfig describes the document root.
type DocsConfig struct {
	Dir string `yaml:"dir" validate:"required"`

	// Exclude holds gitignore-style patterns skipped by the scanner.
	Exclude []string `yaml:"exclude" validate:"dive,required"`

	// Workers bounds parallel parsing. 0 means runtime.NumCPU().
	Workers int `yaml:"workers" validate:"gte=0,lte=1024"`
}

// CatalogConfig describes where the catalog is stored.
type CatalogConfig struct {
	// Location is a file path, badger://DIR or sqlite://FILE.
	Location            string `yaml:"location" validate:"required"`
	IncludeNodeMetadata bool   `yaml:"include_node_metadata"`
}

// LogConfig controls CLI logging.
type LogConfig struct {
	Level string `yaml:"level" validate:"omitempty,oneof=debug info warn warning error"`
	JSON  bool   `yaml:"json"`

	// Dir enables a JSON log file in this directory.
	Dir string `yaml:"dir"`
}

// ServeConfig controls `docata serve`.
type ServeConfig struct {
	Addr string `yaml:"addr" validate:"required"`
}

// DefaultConfig returns the configuration used when no file exists.
func DefaultConfig() Config {
	return Config{
		Docs: DocsConfig{
			Dir:     "./docs",
			Exclude: []string{},
		},
		Catalog: CatalogConfig{
			Location: "./docs/catalog.json",
		},
		Log: LogConfig{
			Level: "info",
		},
		Telemetry: telemetry.DefaultConfig(),
		Serve: ServeConfig{
			Addr: ":8080",
		},
	}
}
