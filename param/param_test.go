/*
 * param_test.go, part of gonnp.
 *
 * Copyright 2024 Raul Mera <rmera{at}usachDOTcl>
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation; either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General
 * Public License along with this program.  If not, see
 * <http://www.gnu.org/licenses/>.
 *
 * gonnp is currently developed at the Universidad de Santiago de Chile
 * (USACH)
 *
 */

package param

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rmera/gonnp/neural"
	"github.com/rmera/gonnp/symfunc"
	"gonum.org/v1/gonum/mat"
)

//testParams builds a small two-element parameter set with awkward
//float values, to exercise the round-trip precision of the writer.
func testParams(Te *testing.T) *Parameters {
	Te.Helper()
	pots := make(map[string]*Potential)
	for i, el := range []string{"Cu", "O"} {
		set := symfunc.Set{
			symfunc.NewRadial("Cu", 0.05+0.011*float64(i), 0.0),
			symfunc.NewRadial("O", 4.0/3.0, 1.1),
			symfunc.NewAngular("Cu", "O", 0.005, 1.0, -1.0),
		}
		net, err := neural.NewNetwork([]neural.Layer{
			{
				W:          mat.NewDense(2, 3, []float64{0.1, -0.2, 1.0 / 7.0, 0.4, 0.5, -0.6}),
				B:          mat.NewVecDense(2, []float64{0.01, -0.02}),
				Activation: neural.Tanh,
			},
			{
				W:          mat.NewDense(1, 2, []float64{1.5, -2.5}),
				B:          mat.NewVecDense(1, []float64{0.3}),
				Activation: neural.Linear,
			},
		})
		if err != nil {
			Te.Fatal(err)
		}
		model, err := neural.NewModel(net, []float64{1.0, 0.5, 2.0 / 3.0}, []float64{0.0, -0.1, 0.2}, -1.25, 3.5)
		if err != nil {
			Te.Fatal(err)
		}
		pots[el] = &Potential{SymFuncs: set, Model: model}
	}
	return &Parameters{
		LengthUnit:   "angstrom",
		EnergyUnit:   "ev",
		CutoffKind:   "cosine",
		CutoffRadius: 6.5,
		Elements:     []string{"Cu", "O"},
		Potentials:   pots,
	}
}

func sameParams(Te *testing.T, want, got *Parameters) {
	Te.Helper()
	if got.LengthUnit != want.LengthUnit || got.EnergyUnit != want.EnergyUnit {
		Te.Errorf("units: got %s %s, want %s %s", got.LengthUnit, got.EnergyUnit, want.LengthUnit, want.EnergyUnit)
	}
	if got.CutoffKind != want.CutoffKind || got.CutoffRadius != want.CutoffRadius {
		Te.Errorf("cutoff: got %s %v, want %s %v", got.CutoffKind, got.CutoffRadius, want.CutoffKind, want.CutoffRadius)
	}
	if len(got.Elements) != len(want.Elements) {
		Te.Fatalf("got %d elements, want %d", len(got.Elements), len(want.Elements))
	}
	for _, el := range want.Elements {
		wp := want.Potentials[el]
		gp, ok := got.Potentials[el]
		if !ok {
			Te.Fatalf("missing potential for %s", el)
		}
		if len(gp.SymFuncs) != len(wp.SymFuncs) {
			Te.Fatalf("%s: got %d symfuncs, want %d", el, len(gp.SymFuncs), len(wp.SymFuncs))
		}
		for i, f := range wp.SymFuncs {
			if gp.SymFuncs[i] != f {
				Te.Errorf("%s symfunc %d: got %+v, want %+v", el, i, gp.SymFuncs[i], f)
			}
		}
		wm, gm := wp.Model, gp.Model
		if gm.Slope != wm.Slope || gm.Intercept != wm.Intercept {
			Te.Errorf("%s energy line: got %v %v, want %v %v", el, gm.Slope, gm.Intercept, wm.Slope, wm.Intercept)
		}
		for i := range wm.InScale {
			if gm.InScale[i] != wm.InScale[i] || gm.InOffset[i] != wm.InOffset[i] {
				Te.Errorf("%s scaling %d differs after round trip", el, i)
			}
		}
		if gm.Net.NLayers() != wm.Net.NLayers() {
			Te.Fatalf("%s: got %d layers, want %d", el, gm.Net.NLayers(), wm.Net.NLayers())
		}
		for l := 0; l < wm.Net.NLayers(); l++ {
			wl, gl := wm.Net.Layer(l), gm.Net.Layer(l)
			if gl.Activation != wl.Activation {
				Te.Errorf("%s layer %d: activation %s, want %s", el, l, gl.Activation, wl.Activation)
			}
			if !mat.Equal(gl.W, wl.W) {
				Te.Errorf("%s layer %d: weights differ after round trip", el, l)
			}
			if !mat.Equal(gl.B, wl.B) {
				Te.Errorf("%s layer %d: biases differ after round trip", el, l)
			}
		}
	}
}

func TestRoundTrip(Te *testing.T) {
	want := testParams(Te)
	var buf bytes.Buffer
	if err := WriteTo(&buf, want); err != nil {
		Te.Fatal(err)
	}
	got, err := ReadFrom(&buf, "buffer")
	if err != nil {
		Te.Fatal(err)
	}
	sameParams(Te, want, got)
}

func TestZstdRoundTrip(Te *testing.T) {
	want := testParams(Te)
	name := filepath.Join(Te.TempDir(), "test.nnp.zst")
	if err := Write(name, want); err != nil {
		Te.Fatal(err)
	}
	got, err := Read(name)
	if err != nil {
		Te.Fatal(err)
	}
	sameParams(Te, want, got)
}

//mutate returns the serialized test parameters with the first line
//containing old replaced by new.
func mutate(Te *testing.T, old, new string) string {
	Te.Helper()
	var buf bytes.Buffer
	if err := WriteTo(&buf, testParams(Te)); err != nil {
		Te.Fatal(err)
	}
	lines := strings.Split(buf.String(), "\n")
	for i, l := range lines {
		if strings.Contains(l, old) {
			lines[i] = strings.Replace(l, old, new, 1)
			return strings.Join(lines, "\n")
		}
	}
	Te.Fatalf("no line contains %q", old)
	return ""
}

func TestMalformedRejected(Te *testing.T) {
	cases := []struct {
		name     string
		old, new string
	}{
		{"bad magic", "gonnp 1", "gonnp 2"},
		{"negative cutoff", "cutoff cosine 6.5", "cutoff cosine -6.5"},
		{"unknown cutoff", "cutoff cosine 6.5", "cutoff gaussian 6.5"},
		{"element count mismatch", "elementlist Cu O", "elementlist Cu O H"},
		{"undeclared species", "g2 O 1.3333333333333333", "g2 Zn 1.3333333333333333"},
		{"negative eta", "g2 O 1.3333333333333333", "g2 O -1.3333333333333333"},
		{"unknown symfunc", "g4 Cu O", "g5 Cu O"},
		{"unknown activation", "layer 3 2 tanh", "layer 3 2 softplus"},
		{"width mismatch", "layer 2 1 linear", "layer 3 1 linear"},
		{"wide last layer", "layer 2 1 linear", "layer 2 2 linear"},
		{"unparseable number", "energy -1.25 3.5", "energy -1.25 x"},
		{"missing end", "end", ""},
	}
	for _, c := range cases {
		text := mutate(Te, c.old, c.new)
		_, err := ReadFrom(strings.NewReader(text), c.name)
		if err == nil {
			Te.Errorf("%s: accepted", c.name)
			continue
		}
		perr, ok := err.(Error)
		if !ok {
			Te.Errorf("%s: error is not a param.Error: %v", c.name, err)
			continue
		}
		if perr.FileName() != c.name {
			Te.Errorf("%s: error reports file %q", c.name, perr.FileName())
		}
		Te.Logf("%s: %v", c.name, err)
	}
}

func TestTruncatedRejected(Te *testing.T) {
	var buf bytes.Buffer
	if err := WriteTo(&buf, testParams(Te)); err != nil {
		Te.Fatal(err)
	}
	text := buf.String()
	if _, err := ReadFrom(strings.NewReader(text[:len(text)/2]), "half"); err == nil {
		Te.Error("accepted a truncated file")
	}
}

func TestCommentsAndBlanksIgnored(Te *testing.T) {
	var buf bytes.Buffer
	if err := WriteTo(&buf, testParams(Te)); err != nil {
		Te.Fatal(err)
	}
	lines := strings.Split(buf.String(), "\n")
	sprinkled := make([]string, 0, 3*len(lines))
	for _, l := range lines {
		sprinkled = append(sprinkled, "# a comment", "", l)
	}
	got, err := ReadFrom(strings.NewReader(strings.Join(sprinkled, "\n")), "commented")
	if err != nil {
		Te.Fatal(err)
	}
	sameParams(Te, testParams(Te), got)
}
