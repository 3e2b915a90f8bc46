/*
 * units.go, part of gonnp.
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

import "fmt"

//Unit tokens, as they appear in parameter files and initialization
//requests.
const (
	Angstrom  = "angstrom"
	Bohr      = "bohr"
	Nanometer = "nm"
	EV        = "ev"
	Hartree   = "hartree"
	KcalMol   = "kcalmol"
	KJMol     = "kjmol"
)

//2018 CODATA values.
var lengthInAngstrom = map[string]float64{
	Angstrom:  1.0,
	Bohr:      0.529177210903,
	Nanometer: 10.0,
}

var energyInEV = map[string]float64{
	EV:      1.0,
	Hartree: 27.211386245988,
	KcalMol: 0.04336410424180094,
	KJMol:   0.010364269574711572,
}

//Units is a length/energy unit system pair. The zero value is not
//valid; hosts that do not care should pass the model's own units,
//obtainable from the parameter file.
type Units struct {
	Length string
	Energy string
}

//conversion holds the factors fixed at initialization: host positions
//into model length units, and model energies and forces back into host
//units. Force picks up both factors, since it is an energy per length.
type conversion struct {
	pos2model float64
	e2host    float64
	f2host    float64
}

func newConversion(host, model Units) (conversion, error) {
	hl, ok := lengthInAngstrom[host.Length]
	if !ok {
		return conversion{}, IncompatibleUnits{Requested: host, Reason: fmt.Sprintf("unknown length unit %q", host.Length)}
	}
	he, ok := energyInEV[host.Energy]
	if !ok {
		return conversion{}, IncompatibleUnits{Requested: host, Reason: fmt.Sprintf("unknown energy unit %q", host.Energy)}
	}
	ml, ok := lengthInAngstrom[model.Length]
	if !ok {
		return conversion{}, IncompatibleUnits{Requested: host, Reason: fmt.Sprintf("model trained in unknown length unit %q", model.Length)}
	}
	me, ok := energyInEV[model.Energy]
	if !ok {
		return conversion{}, IncompatibleUnits{Requested: host, Reason: fmt.Sprintf("model trained in unknown energy unit %q", model.Energy)}
	}
	pos2model := hl / ml
	e2host := me / he
	return conversion{pos2model: pos2model, e2host: e2host, f2host: e2host * pos2model}, nil
}
