/*
 * symfunc.go, part of gonnp.
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

//Package symfunc implements Behler-Parrinello symmetry functions: the
//radial (G2) and angular (G4) Gaussian basis that maps the variable-size
//neighbor environment of an atom onto a fixed-length fingerprint,
//invariant to rotation and to atom relabeling. Every fingerprint
//component also has an exact analytic gradient with respect to the
//Cartesian coordinates of the central atom and of each neighbor, which
//is what makes the forces of the potential exact derivatives of its
//energy.
package symfunc

import (
	"fmt"
	"math"

	"github.com/rmera/gonnp/cutoff"
	v3 "github.com/rmera/gonnp/v3"
)

//Kind tags the functional form of a symmetry function. The set of
//forms is closed: parameters select among them, they don't extend it.
type Kind int

const (
	//Radial is the G2 form: a Gaussian on the pair distance,
	//summed over neighbors of one species.
	Radial Kind = iota
	//Angular is the G4 form: a Gaussian on the three pair distances
	//of a neighbor pair, modulated by the angle at the central atom,
	//summed over neighbor pairs of one (unordered) species pair.
	Angular
)

func (k Kind) String() string {
	switch k {
	case Radial:
		return "g2"
	case Angular:
		return "g4"
	}
	return fmt.Sprintf("symfunc.Kind(%d)", int(k))
}

//Func is one symmetry-function specification. Which fields are
//meaningful depends on Kind: Radial uses Species1, Eta and Rs;
//Angular uses the unordered pair Species1/Species2, Eta, Zeta and
//Lambda.
type Func struct {
	Kind     Kind
	Species1 string
	Species2 string
	Eta      float64 //Gaussian width, both forms
	Rs       float64 //Gaussian center, radial only
	Zeta     float64 //angular exponent, angular only
	Lambda   float64 //+1 or -1, angular only
}

//NewRadial returns a G2 specification for neighbors of the given
//species.
func NewRadial(species string, eta, rs float64) Func {
	return Func{Kind: Radial, Species1: species, Eta: eta, Rs: rs}
}

//NewAngular returns a G4 specification for neighbor pairs of the
//given species pair. The pair is unordered; it is stored sorted.
func NewAngular(species1, species2 string, eta, zeta, lambda float64) Func {
	if species2 < species1 {
		species1, species2 = species2, species1
	}
	return Func{Kind: Angular, Species1: species1, Species2: species2,
		Eta: eta, Zeta: zeta, Lambda: lambda}
}

//Validate returns an error if the function parameters are not usable.
func (f Func) Validate() error {
	switch f.Kind {
	case Radial:
		if f.Species1 == "" {
			return Error{"g2 without a neighbor species", []string{"Validate"}, true}
		}
	case Angular:
		if f.Species1 == "" || f.Species2 == "" {
			return Error{"g4 without a full species pair", []string{"Validate"}, true}
		}
		if f.Zeta < 1 {
			return Error{fmt.Sprintf("g4 with zeta %f < 1", f.Zeta), []string{"Validate"}, true}
		}
		if f.Lambda != 1 && f.Lambda != -1 {
			return Error{fmt.Sprintf("g4 with lambda %f, must be +1 or -1", f.Lambda), []string{"Validate"}, true}
		}
	default:
		return Error{fmt.Sprintf("unknown symmetry function kind %d", int(f.Kind)), []string{"Validate"}, true}
	}
	if f.Eta < 0 {
		return Error{fmt.Sprintf("negative eta %f", f.Eta), []string{"Validate"}, true}
	}
	return nil
}

//Set is the ordered sequence of symmetry functions of one species.
//The order fixes the fingerprint layout; network weights are indexed
//positionally against it, so a Set must never be resorted once a
//model is loaded.
type Set []Func

//Len returns the fingerprint length produced by the set.
func (S Set) Len() int { return len(S) }

//Shell is the local environment of one atom: for each neighbor within
//the cutoff, its index in the global atom numbering, its species, and
//its displacement vector from the central atom. A Shell is read-only
//input; the evaluation never modifies it.
type Shell struct {
	Indexes []int
	Species []string
	Disp    *v3.Matrix
}

//NNeigh returns the number of neighbors in the shell.
func (sh *Shell) NNeigh() int {
	if sh.Disp == nil {
		return 0
	}
	return sh.Disp.NVecs()
}

//ZeroGrad returns a gradient buffer for a shell with nneigh
//neighbors: one (nneigh+1)x3 matrix per fingerprint component, row 0
//for the central atom and row j+1 for the jth neighbor.
func (S Set) ZeroGrad(nneigh int) []*v3.Matrix {
	g := make([]*v3.Matrix, S.Len())
	for i := range g {
		g[i] = v3.Zeros(nneigh + 1)
	}
	return g
}

//Fingerprint evaluates the set over the shell, writing one value per
//symmetry function into fp, which must have length S.Len(). An empty
//shell yields an all-zero fingerprint. A neighbor at exactly zero
//distance from the central atom is invalid input and yields a
//*ZeroDistance error.
func (S Set) Fingerprint(sh *Shell, cf cutoff.Func, fp []float64) error {
	return S.eval(sh, cf, fp, nil)
}

//FingerprintGrad is Fingerprint plus the analytic gradient of every
//component with respect to the coordinates of every atom in the
//shell. grad must come from ZeroGrad (or have the same shape); it is
//zeroed and filled so that grad[c] row 0 holds d fp[c]/d center and
//row j+1 holds d fp[c]/d neighbor j.
func (S Set) FingerprintGrad(sh *Shell, cf cutoff.Func, fp []float64, grad []*v3.Matrix) error {
	if grad == nil {
		panic(ErrNilGradient)
	}
	return S.eval(sh, cf, fp, grad)
}

func (S Set) eval(sh *Shell, cf cutoff.Func, fp []float64, grad []*v3.Matrix) error {
	if len(fp) != S.Len() {
		panic(ErrFingerprintLen)
	}
	for i := range fp {
		fp[i] = 0
	}
	n := sh.NNeigh()
	if grad != nil {
		if len(grad) != S.Len() {
			panic(ErrGradientLen)
		}
		for _, g := range grad {
			if g.NVecs() != n+1 {
				panic(ErrGradientLen)
			}
			g.Zero()
		}
	}
	if n == 0 {
		return nil
	}
	r := make([]float64, n)
	for j := 0; j < n; j++ {
		d := sh.Disp.RawRowView(j)
		r[j] = math.Sqrt(d[0]*d[0] + d[1]*d[1] + d[2]*d[2])
		if r[j] == 0 {
			return &ZeroDistance{Neighbor: sh.Indexes[j], Pair: -1, deco: []string{"eval"}}
		}
	}
	for c, f := range S {
		var gc *v3.Matrix
		if grad != nil {
			gc = grad[c]
		}
		switch f.Kind {
		case Radial:
			fp[c] = radial(f, sh, cf, r, gc)
		case Angular:
			var err error
			fp[c], err = angular(f, sh, cf, r, gc)
			if err != nil {
				return err
			}
		default:
			return Error{fmt.Sprintf("unknown symmetry function kind %d", int(f.Kind)), []string{"eval"}, true}
		}
	}
	return nil
}

//radial accumulates one G2 component, and its gradient if g is not
//nil: sum over matching neighbors of exp(-eta*(rij-rs)^2)*fc(rij).
func radial(f Func, sh *Shell, cf cutoff.Func, r []float64, g *v3.Matrix) float64 {
	rc := cf.Rc()
	val := 0.0
	for j := 0; j < sh.NNeigh(); j++ {
		if sh.Species[j] != f.Species1 || r[j] >= rc {
			continue
		}
		rij := r[j]
		d := rij - f.Rs
		e := math.Exp(-f.Eta * d * d)
		fc := cf.Value(rij)
		val += e * fc
		if g == nil {
			continue
		}
		//d(component)/d(rij), then scattered along the unit vector
		dv := e * (-2*f.Eta*d*fc + cf.Derivative(rij))
		dij := sh.Disp.RawRowView(j)
		gj := g.RawRowView(j + 1)
		g0 := g.RawRowView(0)
		for x := 0; x < 3; x++ {
			t := dv * dij[x] / rij
			gj[x] += t
			g0[x] -= t
		}
	}
	return val
}

//angular accumulates one G4 component and its gradient: sum over
//matching neighbor pairs (j,k) of
//2^(1-zeta) * (1+lambda*cos)^zeta * exp(-eta*(rij^2+rik^2+rjk^2)) *
//fc(rij)*fc(rik)*fc(rjk).
func angular(f Func, sh *Shell, cf cutoff.Func, r []float64, g *v3.Matrix) (float64, error) {
	rc := cf.Rc()
	pref := math.Pow(2, 1-f.Zeta)
	val := 0.0
	n := sh.NNeigh()
	var djk [3]float64
	for j := 0; j < n; j++ {
		if r[j] >= rc {
			continue
		}
		for k := j + 1; k < n; k++ {
			if r[k] >= rc || !f.pairMatches(sh.Species[j], sh.Species[k]) {
				continue
			}
			dij := sh.Disp.RawRowView(j)
			dik := sh.Disp.RawRowView(k)
			for x := 0; x < 3; x++ {
				djk[x] = dij[x] - dik[x]
			}
			rjk := math.Sqrt(djk[0]*djk[0] + djk[1]*djk[1] + djk[2]*djk[2])
			if rjk == 0 {
				return 0, &ZeroDistance{Neighbor: sh.Indexes[k], Pair: sh.Indexes[j], deco: []string{"angular"}}
			}
			if rjk >= rc {
				continue
			}
			rij, rik := r[j], r[k]
			cost := (dij[0]*dik[0] + dij[1]*dik[1] + dij[2]*dik[2]) / (rij * rik)
			ccos := 1 + f.Lambda*cost
			if ccos < 0 { //only by floating point error; cost is in [-1,1]
				ccos = 0
			}
			pc := math.Pow(ccos, f.Zeta)
			ex := math.Exp(-f.Eta * (rij*rij + rik*rik + rjk*rjk))
			fcij := cf.Value(rij)
			fcik := cf.Value(rik)
			fcjk := cf.Value(rjk)
			fcs := fcij * fcik * fcjk
			val += pref * pc * ex * fcs
			if g == nil {
				continue
			}
			pc1 := 1.0
			if f.Zeta != 1 {
				pc1 = math.Pow(ccos, f.Zeta-1)
			}
			//partials with respect to cos(theta) and the three distances
			dcos := pref * f.Lambda * f.Zeta * pc1 * ex * fcs
			dvij := pref * pc * ex * (-2*f.Eta*rij*fcs + cf.Derivative(rij)*fcik*fcjk)
			dvik := pref * pc * ex * (-2*f.Eta*rik*fcs + fcij*cf.Derivative(rik)*fcjk)
			dvjk := pref * pc * ex * (-2*f.Eta*rjk*fcs + fcij*fcik*cf.Derivative(rjk))
			g0 := g.RawRowView(0)
			gj := g.RawRowView(j + 1)
			gk := g.RawRowView(k + 1)
			inv := 1 / (rij * rik)
			for x := 0; x < 3; x++ {
				//gradient of cos(theta) w.r.t. neighbor j, neighbor k
				//and (by translation invariance) the central atom
				gcj := dik[x]*inv - cost*dij[x]/(rij*rij)
				gck := dij[x]*inv - cost*dik[x]/(rik*rik)
				uij := dij[x] / rij
				uik := dik[x] / rik
				ujk := djk[x] / rjk
				gj[x] += dcos*gcj + dvij*uij + dvjk*ujk
				gk[x] += dcos*gck + dvik*uik - dvjk*ujk
				g0[x] += -dcos*(gcj+gck) - dvij*uij - dvik*uik
			}
		}
	}
	return val, nil
}

func (f Func) pairMatches(s1, s2 string) bool {
	if s2 < s1 {
		s1, s2 = s2, s1
	}
	return s1 == f.Species1 && s2 == f.Species2
}

//Errors

//Error is the concrete error type of the package. It implements the
//gonnp Error interface.
type Error struct {
	message  string
	deco     []string
	critical bool
}

func (err Error) Error() string { return err.message }

//Decorate adds dec to the decoration of the error and returns the
//resulting slice. An empty dec only retrieves the current decoration.
func (err Error) Decorate(dec string) []string {
	if dec != "" {
		err.deco = append(err.deco, dec)
	}
	return err.deco
}

//Critical returns whether the error is critical or can be ignored.
func (err Error) Critical() bool { return err.critical }

//ZeroDistance signals a neighbor at exactly zero distance, either from
//the central atom or, for angular terms, from another neighbor (in
//which case Pair holds the other atom). Coincident atoms are
//physically invalid input, so this is reported rather than
//approximated around.
type ZeroDistance struct {
	Neighbor int //global index of the offending neighbor
	Pair     int //the other atom of a coincident pair, or -1 for the central atom
	deco     []string
}

func (err *ZeroDistance) Error() string {
	return fmt.Sprintf("symfunc: neighbor %d at exactly zero distance", err.Neighbor)
}

func (err *ZeroDistance) Decorate(dec string) []string {
	if dec != "" {
		err.deco = append(err.deco, dec)
	}
	return err.deco
}

func (err *ZeroDistance) Critical() bool { return true }

//PanicMsg is a message used for panics. For errors use Error.
type PanicMsg string

func (v PanicMsg) Error() string { return string(v) }

const (
	ErrFingerprintLen = PanicMsg("gonnp/symfunc: fingerprint buffer length does not match the set")
	ErrGradientLen    = PanicMsg("gonnp/symfunc: gradient buffer does not match set and shell")
	ErrNilGradient    = PanicMsg("gonnp/symfunc: nil gradient buffer")
)
