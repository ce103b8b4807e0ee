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

package main

import (
	"github.com/spf13/cobra"

	"github.com/QuLogic/jot-lib-sub005/testcases"
)

func newConfigCmd(root *rootOptions) *cobra.Command {
	var scene string
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration as TOML",
		Long: `Print the configuration used for a scene, after applying the
configuration file and the JOT_* environment variables.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sc, ok := testcases.Lookup(scene)
			if !ok {
				return errorf("unknown scene %q", scene)
			}
			cfg, err := sceneConfig(sc, root.configPath)
			if err != nil {
				return err
			}
			return cfg.Encode(cmd.OutOrStdout())
		},
	}
	cmd.Flags().StringVarP(&scene, "scene", "s", "basic_sphere", "scene whose defaults are shown")
	return cmd
}
