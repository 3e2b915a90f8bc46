/*
 * errors.go, part of gonnp.
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

//Errors

// Error is the interface for errors that all packages in this library implement. The Decorate method allows to add and retrieve info from the
// error, without changing it's type or wrapping it around something else.
type Error interface {
	Error() string
	Decorate(string) []string //Allows adding information when the error is passed up. Each call also returns the "decoration" slice of strings resulting from the current call. If passed an empty string, it just returns the current value, without adding the empty string to the slice.
}

// ParameterFileError is the interface for errors found while reading or
// writing a parameter artifact. The concrete type behind it is
// param.Error.
type ParameterFileError interface {
	Error
	Critical() bool
	FileName() string
	Line() int
}

// CError (Concrete Error) is the concrete type for errors in this
// package that do not belong to a named taxon.
type CError struct {
	msg  string
	deco []string
}

func (err CError) Error() string { return err.msg }

func (err CError) Decorate(dec string) []string {
	if dec != "" {
		err.deco = append(err.deco, dec)
	}
	return err.deco
}

// UnsupportedSpecies means the host presented a chemical species for
// which no potential is loaded. Atom is the index of the offending
// atom, or -1 when the species was rejected at initialization, before
// any atom existed.
type UnsupportedSpecies struct {
	Symbol string
	Atom   int
	deco   []string
}

func (err UnsupportedSpecies) Error() string {
	if err.Atom < 0 {
		return fmt.Sprintf("no potential loaded for species %s", err.Symbol)
	}
	return fmt.Sprintf("no potential loaded for species %s (atom %d)", err.Symbol, err.Atom)
}

func (err UnsupportedSpecies) Decorate(dec string) []string {
	if dec != "" {
		err.deco = append(err.deco, dec)
	}
	return err.deco
}

// IncompatibleUnits means the unit system requested by the host cannot
// be mapped onto the units the model was trained in.
type IncompatibleUnits struct {
	Requested Units
	Reason    string
	deco      []string
}

func (err IncompatibleUnits) Error() string {
	return fmt.Sprintf("cannot work in units %s/%s: %s", err.Requested.Length, err.Requested.Energy, err.Reason)
}

func (err IncompatibleUnits) Decorate(dec string) []string {
	if dec != "" {
		err.deco = append(err.deco, dec)
	}
	return err.deco
}

// UseAfterDestroy means the host called a method on a driver after
// destroying it. This is a programming error on the host's side.
type UseAfterDestroy struct {
	Op   string
	deco []string
}

func (err UseAfterDestroy) Error() string {
	return fmt.Sprintf("call to %s on a destroyed driver", err.Op)
}

func (err UseAfterDestroy) Decorate(dec string) []string {
	if dec != "" {
		err.deco = append(err.deco, dec)
	}
	return err.deco
}

// NumericalDomain means the geometry handed in by the host is outside
// the domain of the potential, such as two atoms at exactly zero
// distance. The input is physically invalid, so the condition is
// reported rather than approximated around. Neighbor is a global atom
// index, or -1 when the problem involves only Atom itself.
type NumericalDomain struct {
	Atom     int
	Neighbor int
	Message  string
	deco     []string
}

func (err NumericalDomain) Error() string {
	return fmt.Sprintf("atom %d, neighbor %d: %s", err.Atom, err.Neighbor, err.Message)
}

func (err NumericalDomain) Decorate(dec string) []string {
	if dec != "" {
		err.deco = append(err.deco, dec)
	}
	return err.deco
}
