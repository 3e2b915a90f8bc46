/*
 * cutoff.go, part of gonnp.
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

//Package cutoff implements the taper functions that bound the local
//environment of an atom. A cutoff function goes smoothly from 1 at
//r=0 to exactly 0 at the cutoff radius, with a continuous first
//derivative, so the forces derived from it remain continuous while
//atoms enter and leave each other's environment.
package cutoff

import (
	"fmt"
	"math"
)

//Func is the capability shared by all cutoff variants. The variant in
//use is fixed per model instance, at parameter-load time.
type Func interface {
	//Value returns the value of the taper at distance r. It is 1 at
	//r=0, decays monotonically, and is exactly 0 for r>=Rc().
	Value(r float64) float64
	//Derivative returns the analytic derivative of Value with respect
	//to r. It is exactly 0 for r>=Rc().
	Derivative(r float64) float64
	//Rc returns the cutoff radius.
	Rc() float64
	//Kind returns the tag under which the variant is serialized.
	Kind() string
}

//New returns the cutoff function tagged with kind, with cutoff radius
//rc. It returns an error for an unknown tag or a non-positive radius.
func New(kind string, rc float64) (Func, error) {
	if rc <= 0 {
		return nil, fmt.Errorf("cutoff: non-positive cutoff radius %f", rc)
	}
	switch kind {
	case "cosine":
		return Cosine{rc: rc}, nil
	case "polynomial":
		return Polynomial{rc: rc}, nil
	}
	return nil, fmt.Errorf("cutoff: unknown cutoff function %q", kind)
}

//Cosine is the Behler-Parrinello cosine taper,
//0.5*(cos(pi*r/rc)+1) for r<rc and 0 elsewhere.
type Cosine struct {
	rc float64
}

func (C Cosine) Value(r float64) float64 {
	if r >= C.rc {
		return 0
	}
	return 0.5 * (math.Cos(math.Pi*r/C.rc) + 1)
}

func (C Cosine) Derivative(r float64) float64 {
	if r >= C.rc {
		return 0
	}
	return -0.5 * math.Pi / C.rc * math.Sin(math.Pi*r/C.rc)
}

func (C Cosine) Rc() float64 { return C.rc }

func (C Cosine) Kind() string { return "cosine" }

//Polynomial is a quintic taper, 1-x^3*(10-15x+6x^2) with x=r/rc.
//Unlike the cosine variant it also has a vanishing second derivative
//at both ends of the [0,rc] interval.
type Polynomial struct {
	rc float64
}

func (P Polynomial) Value(r float64) float64 {
	if r >= P.rc {
		return 0
	}
	x := r / P.rc
	return 1 - x*x*x*(10-x*(15-6*x))
}

func (P Polynomial) Derivative(r float64) float64 {
	if r >= P.rc {
		return 0
	}
	x := r / P.rc
	return -30 * x * x * (1 - x) * (1 - x) / P.rc
}

func (P Polynomial) Rc() float64 { return P.rc }

func (P Polynomial) Kind() string { return "polynomial" }
