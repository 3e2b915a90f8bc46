/*
 * driver.go, part of gonnp.
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

package nnp

import (
	"fmt"

	"github.com/rmera/gonnp/cutoff"
	"github.com/rmera/gonnp/param"
	"github.com/rmera/gonnp/symfunc"
	"github.com/rmera/gonnp/v3"
)

//Neighbor is one entry of a neighbor list: the neighbor's index in the
//global atom numbering, its species, and its displacement from the
//central atom, in the host's length units. Periodic images carry the
//index of their source atom and the displacement of the image, so the
//driver never needs to know about boundary conditions.
type Neighbor struct {
	Index   int
	Species string
	Dx      float64
	Dy      float64
	Dz      float64
}

//NeighborLister supplies, for each atom, its neighbors within the
//driver's cutoff radius. The driver treats the returned slice as
//read-only and does not keep it after the call.
type NeighborLister interface {
	Neighbors(atom int) ([]Neighbor, error)
}

//Result is the output of one Compute call: the total potential energy
//and the per-atom forces (one row per atom), both in the host's units.
//The caller owns it; nothing in it is reused by later calls.
type Result struct {
	Energy float64
	Forces *v3.Matrix
}

type state int

const (
	ready state = iota
	destroyed
)

//Driver evaluates a trained neural-network potential on behalf of a
//host simulation engine. Its parameters are immutable after New, so a
//single Driver may serve concurrent Compute calls on disjoint atom
//subsets without locking.
type Driver struct {
	state  state
	params *param.Parameters
	cut    cutoff.Func
	host   Units
	conv   conversion
}

//New loads the parameter artifact with the given name and returns a
//ready driver working in the host units. Every species in the species
//slice must have a potential in the artifact; the slice may be nil if
//the host does not know its species in advance, in which case the
//check happens per atom at Compute time.
func New(filename string, species []string, host Units) (*Driver, error) {
	P, err := param.Read(filename)
	if err != nil {
		return nil, errDecorate(err, "New")
	}
	conv, err := newConversion(host, Units{Length: P.LengthUnit, Energy: P.EnergyUnit})
	if err != nil {
		return nil, errDecorate(err, "New")
	}
	for _, sp := range species {
		if _, ok := P.Potentials[sp]; !ok {
			return nil, UnsupportedSpecies{Symbol: sp, Atom: -1}
		}
	}
	cut, err := cutoff.New(P.CutoffKind, P.CutoffRadius)
	if err != nil {
		return nil, errDecorate(err, "New")
	}
	return &Driver{state: ready, params: P, cut: cut, host: host, conv: conv}, nil
}

//CutoffRadius returns the cutoff radius in the host's length units.
//Neighbor lists handed to Compute must include every atom within this
//distance of the central atom.
func (D *Driver) CutoffRadius() float64 {
	return D.params.CutoffRadius / D.conv.pos2model
}

//InfluenceDistance returns how far an atom can influence the energy,
//in host length units. For this potential it equals the cutoff radius,
//but hosts that pad ghost regions should query it separately, as other
//potentials differ.
func (D *Driver) InfluenceDistance() float64 {
	return D.CutoffRadius()
}

//SupportedSpecies returns the chemical species the loaded potential
//covers, in the order of the parameter file.
func (D *Driver) SupportedSpecies() []string {
	out := make([]string, len(D.params.Elements))
	copy(out, D.params.Elements)
	return out
}

//FingerprintLength returns the descriptor length for the given
//species.
func (D *Driver) FingerprintLength(species string) (int, error) {
	pot, ok := D.params.Potential(species)
	if !ok {
		return 0, UnsupportedSpecies{Symbol: species, Atom: -1}
	}
	return pot.SymFuncs.Len(), nil
}

//ModelUnits returns the unit system the potential was trained in.
func (D *Driver) ModelUnits() Units {
	return Units{Length: D.params.LengthUnit, Energy: D.params.EnergyUnit}
}

//Compute evaluates the total potential energy and the per-atom forces
//for one configuration. coord has one row per atom, in host length
//units; species gives the chemical species of each atom; nl supplies
//the neighbor shells (displacements are taken from nl, not from coord,
//so periodic images work). The result is in host units and freshly
//allocated, so concurrent calls never share buffers. Identical inputs
//produce bit-identical results.
func (D *Driver) Compute(coord *v3.Matrix, species []string, nl NeighborLister) (*Result, error) {
	if D.state == destroyed {
		return nil, UseAfterDestroy{Op: "Compute"}
	}
	natoms := len(species)
	if natoms == 0 {
		return nil, CError{"no atoms to compute", []string{"Compute"}}
	}
	if coord != nil && coord.NVecs() != natoms {
		return nil, CError{fmt.Sprintf("coordinates for %d atoms but %d species", coord.NVecs(), natoms), []string{"Compute"}}
	}
	forces := v3.Zeros(natoms) //model units until the final scaling
	var energy float64
	for i := 0; i < natoms; i++ {
		pot, ok := D.params.Potential(species[i])
		if !ok {
			return nil, UnsupportedSpecies{Symbol: species[i], Atom: i}
		}
		neighs, err := nl.Neighbors(i)
		if err != nil {
			return nil, CError{fmt.Sprintf("neighbor list for atom %d: %s", i, err.Error()), []string{"Compute"}}
		}
		shell, err := D.shell(i, natoms, neighs)
		if err != nil {
			return nil, err
		}
		fp := make([]float64, pot.SymFuncs.Len())
		grads := pot.SymFuncs.ZeroGrad(shell.NNeigh())
		if err := pot.SymFuncs.FingerprintGrad(shell, D.cut, fp, grads); err != nil {
			if zd, ok := err.(*symfunc.ZeroDistance); ok {
				nd := NumericalDomain{Atom: i, Neighbor: zd.Neighbor, Message: "coincident atoms"}
				if zd.Pair >= 0 {
					nd.Atom = zd.Pair
				}
				return nil, nd
			}
			return nil, errDecorate(err, "Compute")
		}
		dEdfp := make([]float64, len(fp))
		energy += pot.Model.EnergyGrad(fp, dEdfp)
		//scatter the shell's chain-rule contributions onto the global
		//force accumulators. A given pair shows up in both members'
		//shells; the two contributions sum, they do not overwrite.
		for c, g := range grads {
			w := dEdfp[c]
			if w == 0 {
				continue
			}
			forces.AddScaledVec(i, -w, g, 0)
			for k, nb := range neighs {
				forces.AddScaledVec(nb.Index, -w, g, k+1)
			}
		}
	}
	forces.Scale(D.conv.f2host, forces.Dense)
	return &Result{Energy: energy * D.conv.e2host, Forces: forces}, nil
}

//shell converts one atom's neighbor list into the evaluator's layout,
//converting displacements into model length units and validating
//indexes and species.
func (D *Driver) shell(atom, natoms int, neighs []Neighbor) (*symfunc.Shell, error) {
	nn := len(neighs)
	sh := &symfunc.Shell{}
	if nn == 0 {
		return sh, nil
	}
	sh.Indexes = make([]int, nn)
	sh.Species = make([]string, nn)
	data := make([]float64, 3*nn)
	for k, nb := range neighs {
		if nb.Index < 0 || nb.Index >= natoms {
			return nil, CError{fmt.Sprintf("atom %d: neighbor index %d out of range", atom, nb.Index), []string{"shell"}}
		}
		if _, ok := D.params.Potential(nb.Species); !ok {
			return nil, UnsupportedSpecies{Symbol: nb.Species, Atom: nb.Index}
		}
		sh.Indexes[k] = nb.Index
		sh.Species[k] = nb.Species
		data[3*k] = nb.Dx * D.conv.pos2model
		data[3*k+1] = nb.Dy * D.conv.pos2model
		data[3*k+2] = nb.Dz * D.conv.pos2model
	}
	var err error
	sh.Disp, err = v3.NewMatrix(data)
	if err != nil {
		return nil, errDecorate(err, "shell")
	}
	return sh, nil
}

//Refresh drops any cached per-call intermediates. The driver keeps
//none, so this only checks the driver is still usable.
func (D *Driver) Refresh() error {
	if D.state == destroyed {
		return UseAfterDestroy{Op: "Refresh"}
	}
	return nil
}

//Destroy releases the parameter structures. Any later call on the
//driver fails with UseAfterDestroy.
func (D *Driver) Destroy() {
	D.state = destroyed
	D.params = nil
	D.cut = nil
}

//errDecorate adds the name of the calling function to an error using
//the Decorate method if the error implements the Error interface of
//this library, and returns it unchanged otherwise.
func errDecorate(err error, caller string) error {
	err2, ok := err.(Error)
	if !ok {
		return err
	}
	err2.Decorate(caller)
	return err2
}
