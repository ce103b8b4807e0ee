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

// Package config holds the tuning knobs of the silhouette pipeline.
//
// Values start from Default, are optionally read from a TOML file, and
// can then be overridden by environment variables. The variable for a
// knob is "JOT_" followed by its TOML key in upper case, for example
// JOT_VIS_SAMPLING for vis_sampling.
package config

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"reflect"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// ErrInvalid is returned for configurations that fail validation.
var ErrInvalid = errors.New("invalid configuration")

// EnvPrefix is prepended to the upper-cased TOML key to form the name of
// the overriding environment variable.
const EnvPrefix = "JOT_"

// Config collects all knobs. Distances are in pixels unless stated
// otherwise.
type Config struct {
	// VisSampling is the spacing of visibility samples.
	VisSampling float64 `toml:"vis_sampling"`
	// StrokeSampling is the spacing of points in emitted strokes. It is
	// rounded to a multiple of VisSampling.
	StrokeSampling float64 `toml:"stroke_sampling"`
	// MaxSteps bounds the ray march of the coherence engine.
	MaxSteps int `toml:"max_steps"`
	// VoteSpacing is the spacing of regenerated samples, as a multiple of
	// VisSampling.
	VoteSpacing float64 `toml:"vote_spacing"`
	// CreaseMaxBend is the bend angle, in degrees, at which crease and
	// border strips are broken.
	CreaseMaxBend float64 `toml:"crease_max_bend"`

	LoopSeamFix   bool `toml:"loop_seam_fix"`
	LongPaths     bool `toml:"long_paths"`
	SeeThru       bool `toml:"see_thru"`
	SplitGradient bool `toml:"split_gradient"`

	// IDSegmentLength is the longest stretch of a path drawn with a single
	// encoded id.
	IDSegmentLength float64 `toml:"id_segment_length"`
	// GapTolerance is the longest occluded stretch between two visible
	// samples that is treated as noise.
	GapTolerance float64 `toml:"gap_tolerance"`
	// StartRadius is the radius of the neighbourhood searched at the start
	// of a ray march.
	StartRadius   int  `toml:"start_radius"`
	ResampleWorld bool `toml:"resample_world"`

	// DepthBias is the relative depth tolerance of the depth-tested path
	// draw.
	DepthBias float64 `toml:"depth_bias"`
	// LineWidth is the width of paths drawn into the ID image.
	LineWidth float64 `toml:"line_width"`

	DebugBruteForce bool `toml:"debug_brute_force"`
	ForceDirty      bool `toml:"force_dirty"`

	// Vote group acceptance.
	MinGroupVotes   int     `toml:"min_group_votes"`
	MinGroupLength  float64 `toml:"min_group_length"`
	MinGroupDensity float64 `toml:"min_group_density"`
	MaxTJump        float64 `toml:"max_t_jump"`
}

// Default returns the default configuration.
func Default() Config {
	return Config{
		VisSampling:     2,
		StrokeSampling:  6,
		MaxSteps:        6,
		VoteSpacing:     4,
		CreaseMaxBend:   35,
		LoopSeamFix:     true,
		SplitGradient:   true,
		IDSegmentLength: 48,
		GapTolerance:    4,
		StartRadius:     1,
		DepthBias:       0.02,
		LineWidth:       2,
		MinGroupVotes:   3,
		MinGroupLength:  8,
		MinGroupDensity: 0.25,
		MaxTJump:        4,
	}
}

// Load returns the default configuration, updated from the TOML file at
// path (if path is not empty) and from the environment, and validated.
func Load(path string) (Config, error) {
	c := Default()
	if path != "" {
		fd, err := os.Open(path)
		if err != nil {
			return c, err
		}
		err = c.Decode(fd)
		fd.Close()
		if err != nil {
			return c, fmt.Errorf("%s: %w", path, err)
		}
	}
	if err := c.ApplyEnv(os.LookupEnv); err != nil {
		return c, err
	}
	return c, c.Validate()
}

// Decode updates c from TOML data. Keys not present keep their current
// value; unknown keys are an error.
func (c *Config) Decode(r io.Reader) error {
	dec := toml.NewDecoder(r).DisallowUnknownFields()
	return dec.Decode(c)
}

// Encode writes c as TOML.
func (c *Config) Encode(w io.Writer) error {
	return toml.NewEncoder(w).Encode(c)
}

// ApplyEnv overrides fields from environment variables, using lookup to
// read them.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	rv := reflect.ValueOf(c).Elem()
	rt := rv.Type()
	for i := range rt.NumField() {
		key := rt.Field(i).Tag.Get("toml")
		if key == "" {
			continue
		}
		name := EnvPrefix + strings.ToUpper(key)
		s, ok := lookup(name)
		if !ok {
			continue
		}
		f := rv.Field(i)
		var err error
		switch f.Kind() {
		case reflect.Bool:
			var b bool
			b, err = strconv.ParseBool(s)
			f.SetBool(b)
		case reflect.Int:
			var n int64
			n, err = strconv.ParseInt(s, 10, 0)
			f.SetInt(n)
		case reflect.Float64:
			var x float64
			x, err = strconv.ParseFloat(s, 64)
			f.SetFloat(x)
		}
		if err != nil {
			return fmt.Errorf("%s=%q: %w", name, s, ErrInvalid)
		}
	}
	return nil
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	var bad []string
	check := func(ok bool, field string) {
		if !ok {
			bad = append(bad, field)
		}
	}
	finite := func(x float64) bool { return !math.IsNaN(x) && !math.IsInf(x, 0) }

	check(finite(c.VisSampling) && c.VisSampling > 0, "vis_sampling")
	check(finite(c.StrokeSampling) && c.StrokeSampling > 0, "stroke_sampling")
	check(c.MaxSteps >= 1, "max_steps")
	check(finite(c.VoteSpacing) && c.VoteSpacing > 0, "vote_spacing")
	check(c.CreaseMaxBend >= 0 && c.CreaseMaxBend <= 180, "crease_max_bend")
	check(finite(c.IDSegmentLength) && c.IDSegmentLength > 0, "id_segment_length")
	check(c.GapTolerance >= 0, "gap_tolerance")
	check(c.StartRadius >= 0 && c.StartRadius <= 8, "start_radius")
	check(c.DepthBias >= 0, "depth_bias")
	check(finite(c.LineWidth) && c.LineWidth > 0, "line_width")
	check(c.MinGroupVotes >= 1, "min_group_votes")
	check(c.MinGroupLength >= 0, "min_group_length")
	check(c.MinGroupDensity >= 0 && c.MinGroupDensity <= 1, "min_group_density")
	check(c.MaxTJump > 0, "max_t_jump")

	if len(bad) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalid, strings.Join(bad, ", "))
	}
	return nil
}

// StrokeStep is the number of visibility samples per emitted stroke
// point.
func (c *Config) StrokeStep() int {
	return max(1, int(math.Round(c.StrokeSampling/c.VisSampling)))
}

// VoteSampling is the spacing, in pixels, of regenerated samples.
func (c *Config) VoteSampling() float64 {
	return c.VoteSpacing * c.VisSampling
}
