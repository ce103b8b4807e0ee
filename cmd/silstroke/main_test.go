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
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/QuLogic/jot-lib-sub005/testcases"
	"github.com/QuLogic/jot-lib-sub005/zxedge"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Cleanup(func() { zxedge.SetLogger(nil) })
	cmd := newRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestRun(t *testing.T) {
	dir := t.TempDir()
	_, err := execute(t, "run", "--scene", "basic_sphere", "--frames", "2",
		"--out", dir, "--tags", "--pdf", "--ids")
	require.NoError(t, err)

	for _, name := range []string{
		"basic_sphere_00.png", "basic_sphere_01.png",
		"basic_sphere_00_ids.png", "basic_sphere_00.pdf", "basic_sphere_00.tag",
	} {
		assert.FileExists(t, filepath.Join(dir, name))
	}

	fd, err := os.Open(filepath.Join(dir, "basic_sphere_00.tag"))
	require.NoError(t, err)
	defer fd.Close()
	paths, err := zxedge.ReadPaths(fd)
	require.NoError(t, err)
	assert.Positive(t, paths.Len())
}

func TestRunErrors(t *testing.T) {
	dir := t.TempDir()
	_, err := execute(t, "run", "--out", dir)
	assert.Error(t, err)
	_, err = execute(t, "run", "--scene", "basic_nothing", "--out", dir)
	assert.Error(t, err)
	_, err = execute(t, "run", "--scene", "basic_sphere", "--frames", "0", "--out", dir)
	assert.Error(t, err)
}

func TestRunConfigFile(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "bad.toml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("vis_sampling = -1\n"), 0644))
	_, err := execute(t, "--config="+cfgPath, "run", "--scene", "basic_sphere", "--out", dir)
	assert.Error(t, err)

	require.NoError(t, os.WriteFile(cfgPath, []byte("vis_sampling = 3\n"), 0644))
	out, err := execute(t, "--config="+cfgPath, "config", "--scene", "occlusion_see_thru")
	require.NoError(t, err)
	assert.Contains(t, out, "vis_sampling = 3.0")
	assert.Contains(t, out, "see_thru = true")
}

func TestScenes(t *testing.T) {
	out, err := execute(t, "scenes")
	require.NoError(t, err)
	assert.Contains(t, out, "motion_torus_spin")
	assert.Contains(t, out, "spin mesh 0 by 2°")

	out, err = execute(t, "scenes", "--json")
	require.NoError(t, err)
	var got struct {
		Scenes []jsonScene `json:"scenes"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Len(t, got.Scenes, len(testcases.Names()))
	for _, s := range got.Scenes {
		assert.Len(t, s.Eye, 3)
		assert.Positive(t, s.Meshes)
	}
}
