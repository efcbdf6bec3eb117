// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/pranc1ngpegasus/docata/cmd/docata/config"
	"github.com/pranc1ngpegasus/docata/pkg/ux"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default .docata.yaml",
	Long: `Write the default configuration to the --config path (.docata.yaml).
An existing file is never overwritten.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		exitCode = executeInit(configPath, cmd.OutOrStdout(), cmd.ErrOrStderr())
	},
}

func executeInit(path string, stdout, stderr io.Writer) int {
	if err := config.WriteDefault(path); err != nil {
		ux.NewPrinter(stderr).Error(err.Error())
		return ExitFailure
	}
	ux.NewPrinter(stdout).Success(fmt.Sprintf("wrote %s", path))
	return ExitSuccess
}
