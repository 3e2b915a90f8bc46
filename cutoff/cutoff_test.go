/*
 * cutoff_test.go, part of gonnp.
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
 */

package cutoff

import (
	"math"
	"testing"
)

const rc = 6.5

func variants(Te *testing.T) []Func {
	fns := make([]Func, 0, 2)
	for _, kind := range []string{"cosine", "polynomial"} {
		f, err := New(kind, rc)
		if err != nil {
			Te.Fatal(err)
		}
		fns = append(fns, f)
	}
	return fns
}

//Every variant must vanish, together with its derivative, at the
//cutoff radius and beyond, and be 1 at r=0.
func TestBoundary(Te *testing.T) {
	for _, f := range variants(Te) {
		if v := f.Value(0); math.Abs(v-1) > 1e-15 {
			Te.Errorf("%s: value at 0 is %g, want 1", f.Kind(), v)
		}
		for _, r := range []float64{rc, rc + 0.1, 2 * rc} {
			if v := f.Value(r); v != 0 {
				Te.Errorf("%s: value at %f is %g, want exactly 0", f.Kind(), r, v)
			}
			if d := f.Derivative(r); d != 0 {
				Te.Errorf("%s: derivative at %f is %g, want exactly 0", f.Kind(), r, d)
			}
		}
		//continuity from the inside
		eps := 1e-9
		if v := f.Value(rc - eps); math.Abs(v) > 1e-8 {
			Te.Errorf("%s: value just inside the cutoff is %g", f.Kind(), v)
		}
		if d := f.Derivative(rc - eps); math.Abs(d) > 1e-7 {
			Te.Errorf("%s: derivative just inside the cutoff is %g", f.Kind(), d)
		}
	}
}

func TestDerivativeNumerically(Te *testing.T) {
	const h = 1e-6
	for _, f := range variants(Te) {
		for r := 0.1; r < rc; r += 0.37 {
			num := (f.Value(r+h) - f.Value(r-h)) / (2 * h)
			ana := f.Derivative(r)
			if math.Abs(num-ana) > 1e-8 {
				Te.Errorf("%s at r=%f: analytic derivative %g vs numeric %g", f.Kind(), r, ana, num)
			}
		}
	}
}

func TestNewRejectsBadInput(Te *testing.T) {
	if _, err := New("lorentzian", rc); err == nil {
		Te.Error("Expected an error for an unknown cutoff kind")
	}
	if _, err := New("cosine", -1); err == nil {
		Te.Error("Expected an error for a negative radius")
	}
}
