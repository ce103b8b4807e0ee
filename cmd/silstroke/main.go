// jot-lib-sub005 - silhouette strokes with temporal coherence
// Copyright (C) 2026  Jochen Voss <voss@seehuhn.de>
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

// Command silstroke renders the silhouette strokes of the built-in test
// scenes into PNG images, and optionally into PDF and TAG files.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/QuLogic/jot-lib-sub005/zxedge"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

type rootOptions struct {
	configPath string
	verbose    bool
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:          "silstroke",
		Short:        "Render temporally coherent silhouette strokes",
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := slog.LevelInfo
			if opts.verbose {
				level = slog.LevelDebug
			}
			h := slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level})
			zxedge.SetLogger(slog.New(h))
		},
	}
	cmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "TOML configuration file")
	cmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "log per-frame statistics")

	cmd.AddCommand(newRunCmd(opts), newScenesCmd(), newConfigCmd(opts))
	return cmd
}

func errorf(format string, args ...any) error {
	return fmt.Errorf("silstroke: "+format, args...)
}
