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

package zxedge

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/deeean/go-vector/vector3"
	"seehuhn.de/go/geom/vec"

	"github.com/QuLogic/jot-lib-sub005/idref"
	"github.com/QuLogic/jot-lib-sub005/mesh"
)

// ErrFormat reports malformed tag data.
var ErrFormat = errors.New("malformed tag data")

// The tag format is a whitespace separated token stream of the form
//
//	LuboPath {
//	  type sil
//	  vis visible
//	  pts { x y x y ... }
//	  ids { ... }
//	  lens { ... }
//	  id_set { ... }
//	  id_offsets { ... }
//	  vote_groups {
//	    VoteGroup {
//	      id 3 status good begin 0 end 12.5
//	      fits { s t s t ... }
//	      votes { LuboVote { s 0 t 0 conf 1 stroke_id 3 path_id 0 ndc_dist 0 world_dist 0 } ... }
//	    }
//	  }
//	}
//
// Surface anchors and world positions are not stored.

type tagWriter struct {
	w   *bufio.Writer
	ind int
}

func (t *tagWriter) line(format string, args ...any) {
	for range t.ind {
		t.w.WriteString("  ")
	}
	fmt.Fprintf(t.w, format, args...)
	t.w.WriteByte('\n')
}

func (t *tagWriter) open(name string) {
	t.line("%s {", name)
	t.ind++
}

func (t *tagWriter) close() {
	t.ind--
	t.line("}")
}

func ftoa(x float64) string { return strconv.FormatFloat(x, 'g', -1, 64) }

func (t *tagWriter) floats(name string, xs []float64) {
	buf := []byte(name + " {")
	for _, x := range xs {
		buf = append(buf, ' ')
		buf = strconv.AppendFloat(buf, x, 'g', -1, 64)
	}
	buf = append(buf, " }"...)
	t.line("%s", buf)
}

func (t *tagWriter) uints(name string, xs []uint64) {
	buf := []byte(name + " {")
	for _, x := range xs {
		buf = append(buf, ' ')
		buf = strconv.AppendUint(buf, x, 10)
	}
	buf = append(buf, " }"...)
	t.line("%s", buf)
}

// WriteTags writes p, including its vote groups and their votes, in tag
// format.
func WriteTags(w io.Writer, p *LuboPath) error {
	t := &tagWriter{w: bufio.NewWriter(w)}
	t.open("LuboPath")
	t.line("type %s", p.Type)
	t.line("vis %s", p.Vis)

	pts := make([]float64, 0, 2*len(p.Pts))
	for _, q := range p.Pts {
		pts = append(pts, q.X, q.Y)
	}
	t.floats("pts", pts)

	ids := make([]uint64, len(p.IDs))
	for i, e := range p.IDs {
		ids[i] = uint64(e)
	}
	t.uints("ids", ids)
	t.floats("lens", p.Lens)

	set := make([]uint64, len(p.IDSet))
	for i, e := range p.IDSet {
		set[i] = uint64(e)
	}
	t.uints("id_set", set)
	offs := make([]uint64, len(p.IDOffsets))
	for i, o := range p.IDOffsets {
		offs[i] = uint64(o)
	}
	t.uints("id_offsets", offs)

	t.open("vote_groups")
	for _, g := range p.Groups {
		t.open("VoteGroup")
		t.line("id %d", g.ID)
		t.line("status %s", g.Status)
		t.line("begin %s", ftoa(g.Begin))
		t.line("end %s", ftoa(g.End))
		fits := make([]float64, 0, 2*len(g.Fits))
		for _, f := range g.Fits {
			fits = append(fits, f.S, f.T)
		}
		t.floats("fits", fits)
		t.open("votes")
		for _, v := range g.Votes {
			t.line("LuboVote { s %s t %s conf %s stroke_id %d path_id %d ndc_dist %s world_dist %s }",
				ftoa(v.S), ftoa(v.T), ftoa(v.Conf), v.StrokeID, v.PathID,
				ftoa(v.NDCDist), ftoa(v.WorldDist))
		}
		t.close()
		t.close()
	}
	t.close()
	t.close()
	return t.w.Flush()
}

type tagReader struct {
	sc *bufio.Scanner
}

func (r *tagReader) next() (string, error) {
	if !r.sc.Scan() {
		if err := r.sc.Err(); err != nil {
			return "", err
		}
		return "", io.ErrUnexpectedEOF
	}
	return r.sc.Text(), nil
}

func (r *tagReader) expect(want string) error {
	tok, err := r.next()
	if err != nil {
		return err
	}
	if tok != want {
		return fmt.Errorf("%w: expected %q, got %q", ErrFormat, want, tok)
	}
	return nil
}

func (r *tagReader) float() (float64, error) {
	tok, err := r.next()
	if err != nil {
		return 0, err
	}
	x, err := strconv.ParseFloat(tok, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrFormat, err)
	}
	return x, nil
}

func (r *tagReader) int() (int, error) {
	tok, err := r.next()
	if err != nil {
		return 0, err
	}
	x, err := strconv.Atoi(tok)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrFormat, err)
	}
	return x, nil
}

// list reads "{ tok tok ... }" and calls fn for each token.
func (r *tagReader) list(fn func(tok string) error) error {
	if err := r.expect("{"); err != nil {
		return err
	}
	for {
		tok, err := r.next()
		if err != nil {
			return err
		}
		if tok == "}" {
			return nil
		}
		if err := fn(tok); err != nil {
			return err
		}
	}
}

func (r *tagReader) floats() ([]float64, error) {
	var res []float64
	err := r.list(func(tok string) error {
		x, err := strconv.ParseFloat(tok, 64)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrFormat, err)
		}
		res = append(res, x)
		return nil
	})
	return res, err
}

func (r *tagReader) uint32s() ([]uint32, error) {
	var res []uint32
	err := r.list(func(tok string) error {
		x, err := strconv.ParseUint(tok, 10, 32)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrFormat, err)
		}
		res = append(res, uint32(x))
		return nil
	})
	return res, err
}

// fields reads "{ name value ... }", calling fn for each field name.
func (r *tagReader) fields(fn func(name string) error) error {
	return r.list(fn)
}

// enum parses a name produced by a String method.
func enum[T ~uint8](tok string, n T) (T, error) {
	for v := T(0); v < n; v++ {
		if fmt.Sprint(v) == tok {
			return v, nil
		}
	}
	return 0, fmt.Errorf("%w: unknown value %q", ErrFormat, tok)
}

// ReadPath reads one path written by WriteTags. The returned path has no
// anchors or world positions.
func ReadPath(rd io.Reader) (*LuboPath, error) {
	sc := bufio.NewScanner(rd)
	sc.Split(bufio.ScanWords)
	return readPath(&tagReader{sc: sc})
}

// ReadPaths reads all paths from a stream of WriteTags output.
func ReadPaths(rd io.Reader) (*LuboPathList, error) {
	sc := bufio.NewScanner(rd)
	sc.Split(bufio.ScanWords)
	r := &tagReader{sc: sc}
	list := &LuboPathList{}
	for {
		p, err := readPath(r)
		if errors.Is(err, io.EOF) {
			return list, nil
		}
		if err != nil {
			return nil, err
		}
		list.Add(p)
	}
}

func readPath(r *tagReader) (*LuboPath, error) {
	tok, err := r.next()
	if errors.Is(err, io.ErrUnexpectedEOF) {
		return nil, io.EOF
	} else if err != nil {
		return nil, err
	}
	if tok != "LuboPath" {
		return nil, fmt.Errorf("%w: expected %q, got %q", ErrFormat, "LuboPath", tok)
	}

	p := &LuboPath{}
	err = r.fields(func(name string) error {
		var err error
		switch name {
		case "type":
			var tok string
			if tok, err = r.next(); err == nil {
				p.Type, err = enum(tok, Polyline+1)
			}
		case "vis":
			var tok string
			if tok, err = r.next(); err == nil {
				p.Vis, err = enum(tok, Clipped+1)
			}
		case "pts":
			var xs []float64
			xs, err = r.floats()
			if err == nil && len(xs)%2 != 0 {
				err = fmt.Errorf("%w: odd number of coordinates", ErrFormat)
			}
			for i := 0; err == nil && i < len(xs); i += 2 {
				p.Pts = append(p.Pts, vec.Vec2{X: xs[i], Y: xs[i+1]})
			}
		case "ids":
			p.IDs, err = r.uint32s()
		case "lens":
			p.Lens, err = r.floats()
		case "id_set":
			p.IDSet, err = r.uint32s()
		case "id_offsets":
			var xs []uint32
			xs, err = r.uint32s()
			for _, x := range xs {
				p.IDOffsets = append(p.IDOffsets, int(x))
			}
		case "vote_groups":
			err = r.fields(func(name string) error {
				if name != "VoteGroup" {
					return fmt.Errorf("%w: unexpected %q", ErrFormat, name)
				}
				g, err := readGroup(r)
				if err != nil {
					return err
				}
				g.Path = p
				p.Groups = append(p.Groups, g)
				return nil
			})
		default:
			err = fmt.Errorf("%w: unknown LuboPath field %q", ErrFormat, name)
		}
		return err
	})
	if err != nil {
		return nil, err
	}
	if err := p.checkTags(); err != nil {
		return nil, err
	}
	p.Anchors = make([]mesh.Anchor, len(p.Pts))
	p.World = make([]*vector3.Vector3, len(p.Pts))
	return p, nil
}

func readGroup(r *tagReader) (*VoteGroup, error) {
	g := &VoteGroup{}
	err := r.fields(func(name string) error {
		var err error
		switch name {
		case "id":
			g.ID, err = r.int()
		case "status":
			var tok string
			if tok, err = r.next(); err == nil {
				g.Status, err = enum(tok, GroupNotMajority+1)
			}
		case "begin":
			g.Begin, err = r.float()
		case "end":
			g.End, err = r.float()
		case "fits":
			var xs []float64
			xs, err = r.floats()
			if err == nil && len(xs)%2 != 0 {
				err = fmt.Errorf("%w: odd number of fit values", ErrFormat)
			}
			for i := 0; err == nil && i < len(xs); i += 2 {
				g.Fits = append(g.Fits, Fit{S: xs[i], T: xs[i+1]})
			}
		case "votes":
			err = r.fields(func(name string) error {
				if name != "LuboVote" {
					return fmt.Errorf("%w: unexpected %q", ErrFormat, name)
				}
				v, err := readVote(r)
				g.Votes = append(g.Votes, v)
				return err
			})
		default:
			err = fmt.Errorf("%w: unknown VoteGroup field %q", ErrFormat, name)
		}
		return err
	})
	return g, err
}

func readVote(r *tagReader) (LuboVote, error) {
	var v LuboVote
	err := r.fields(func(name string) error {
		var err error
		switch name {
		case "s":
			v.S, err = r.float()
		case "t":
			v.T, err = r.float()
		case "conf":
			v.Conf, err = r.float()
		case "stroke_id":
			v.StrokeID, err = r.int()
		case "path_id":
			v.PathID, err = r.int()
		case "ndc_dist":
			v.NDCDist, err = r.float()
		case "world_dist":
			v.WorldDist, err = r.float()
		default:
			err = fmt.Errorf("%w: unknown LuboVote field %q", ErrFormat, name)
		}
		return err
	})
	return v, err
}

// checkTags verifies the array lengths of a path read from tags and
// recomputes the id ranges.
func (p *LuboPath) checkTags() error {
	n := len(p.Pts)
	if len(p.IDs) != n || len(p.Lens) != n {
		return fmt.Errorf("%w: %d points, %d ids, %d lengths", ErrFormat, n, len(p.IDs), len(p.Lens))
	}
	if len(p.IDOffsets) != len(p.IDSet)+1 || p.IDOffsets[len(p.IDSet)] != n {
		return fmt.Errorf("%w: bad id offsets", ErrFormat)
	}
	p.IDRanges = make([][2]uint8, len(p.IDSet))
	for k := range p.IDSet {
		lo, hi := p.IDOffsets[k], p.IDOffsets[k+1]
		if lo >= hi || hi > n {
			return fmt.Errorf("%w: bad id offsets", ErrFormat)
		}
		r := [2]uint8{255, 0}
		for _, e := range p.IDs[lo:hi] {
			pos := idref.Position(e)
			r[0], r[1] = min(r[0], pos), max(r[1], pos)
		}
		p.IDRanges[k] = r
	}
	return nil
}
