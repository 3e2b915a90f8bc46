/*
 * v3_test.go, part of gonnp.
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

package v3

import (
	"math"
	"testing"
)

func TestNewMatrix(Te *testing.T) {
	a := []float64{1, 2, 3, 4, 5, 6}
	A, err := NewMatrix(a)
	if err != nil {
		Te.Error(err)
	}
	if A.NVecs() != 2 {
		Te.Errorf("Expected 2 vectors, got %d", A.NVecs())
	}
	_, err = NewMatrix([]float64{1, 2, 3, 4})
	if err == nil {
		Te.Error("Expected an error for a slice of length 4")
	}
}

func TestVecViewAliases(Te *testing.T) {
	A, _ := NewMatrix([]float64{1, 2, 3, 4, 5, 6})
	view := A.VecView(1)
	view.Set(0, 0, 100)
	if A.At(1, 0) != 100 {
		Te.Error("VecView does not alias the original matrix")
	}
}

func TestDotNormUnit(Te *testing.T) {
	a, _ := NewMatrix([]float64{3, 4, 0})
	b, _ := NewMatrix([]float64{1, 0, 0})
	if d := a.Dot(b); d != 3 {
		Te.Errorf("Dot: expected 3, got %f", d)
	}
	if n := a.Norm(); n != 5 {
		Te.Errorf("Norm: expected 5, got %f", n)
	}
	u := Zeros(1)
	u.Unit(a)
	if math.Abs(u.Norm()-1) > 1e-15 {
		Te.Errorf("Unit: norm is %f", u.Norm())
	}
}

func TestCross(Te *testing.T) {
	x, _ := NewMatrix([]float64{1, 0, 0})
	y, _ := NewMatrix([]float64{0, 1, 0})
	z := Zeros(1)
	z.Cross(x, y)
	want := []float64{0, 0, 1}
	for i, v := range want {
		if z.At(0, i) != v {
			Te.Errorf("Cross: component %d is %f, want %f", i, z.At(0, i), v)
		}
	}
}

func TestAddScaledVec(Te *testing.T) {
	F := Zeros(2)
	B, _ := NewMatrix([]float64{1, 2, 3})
	F.AddScaledVec(1, 2.0, B, 0)
	F.AddScaledVec(1, 1.0, B, 0)
	want := []float64{3, 6, 9}
	for i, v := range want {
		if F.At(1, i) != v {
			Te.Errorf("AddScaledVec: component %d is %f, want %f", i, F.At(1, i), v)
		}
	}
	for i := range want {
		if F.At(0, i) != 0 {
			Te.Error("AddScaledVec modified the wrong row")
		}
	}
}
