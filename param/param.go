/*
 * param.go, part of gonnp.
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

//Package param reads and writes trained-potential parameter files: the
//cutoff, the per-species symmetry-function sets, scalings and network
//weights produced by the training side. The format is line-oriented
//text, with '#' comments; files ending in ".zst" are zstd-compressed.
//Parsing is strict: any structural inconsistency is rejected with an
//error carrying the file name and line number, never silently padded
//or truncated.
package param

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/klauspost/compress/zstd"
	"github.com/rmera/gonnp/cutoff"
	"github.com/rmera/gonnp/neural"
	"github.com/rmera/gonnp/symfunc"
	"gonum.org/v1/gonum/mat"
)

//Potential is everything needed to evaluate one chemical species: its
//symmetry-function set and the network (with scalings) trained on it.
type Potential struct {
	SymFuncs symfunc.Set
	Model    *neural.Model
}

//Parameters is the full content of a parameter file. It is immutable
//once loaded and meant to be shared read-only.
type Parameters struct {
	LengthUnit   string
	EnergyUnit   string
	CutoffKind   string
	CutoffRadius float64
	Elements     []string
	Potentials   map[string]*Potential
}

//Potential returns the potential for the given species, or false if
//the species was not in the file.
func (P *Parameters) Potential(species string) (*Potential, bool) {
	pot, ok := P.Potentials[species]
	return pot, ok
}

//Read parses the parameter file with the given name. Files ending in
//".zst" are transparently decompressed.
func Read(name string) (*Parameters, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, Error{"Unable to open file: " + err.Error(), name, 0, []string{"Read"}, true}
	}
	defer f.Close()
	var r io.Reader = f
	if strings.HasSuffix(name, ".zst") {
		dec, err := zstd.NewReader(f)
		if err != nil {
			return nil, Error{"Unable to open compressed file: " + err.Error(), name, 0, []string{"Read"}, true}
		}
		defer dec.Close()
		r = dec
	}
	return ReadFrom(r, name)
}

//ReadFrom parses a parameter file from r. name is only used in error
//reporting.
func ReadFrom(r io.Reader, name string) (*Parameters, error) {
	sc := &scanner{sc: bufio.NewScanner(r), name: name}
	P := &Parameters{Potentials: make(map[string]*Potential)}
	if err := readHeader(sc, P); err != nil {
		return nil, err
	}
	for range P.Elements {
		if err := readPotential(sc, P); err != nil {
			return nil, err
		}
	}
	fields, err := sc.next()
	if err != nil {
		return nil, err
	}
	if len(fields) != 1 || fields[0] != "end" {
		return nil, sc.errorf("expected \"end\", got %q", strings.Join(fields, " "))
	}
	return P, nil
}

func readHeader(sc *scanner, P *Parameters) error {
	fields, err := sc.next()
	if err != nil {
		return err
	}
	if len(fields) != 2 || fields[0] != "gonnp" {
		return sc.errorf("not a gonnp parameter file")
	}
	if fields[1] != "1" {
		return sc.errorf("unsupported format version %q", fields[1])
	}
	if fields, err = sc.expect("units", 3); err != nil {
		return err
	}
	P.LengthUnit, P.EnergyUnit = fields[1], fields[2]
	if fields, err = sc.expect("cutoff", 3); err != nil {
		return err
	}
	P.CutoffKind = fields[1]
	if P.CutoffRadius, err = sc.float(fields[2]); err != nil {
		return err
	}
	if _, err := cutoff.New(P.CutoffKind, P.CutoffRadius); err != nil {
		return sc.errorf("%s", err.Error())
	}
	if fields, err = sc.expect("elements", 2); err != nil {
		return err
	}
	nel, err := sc.int(fields[1])
	if err != nil {
		return err
	}
	if nel < 1 {
		return sc.errorf("element count %d, must be at least 1", nel)
	}
	if fields, err = sc.expect("elementlist", nel+1); err != nil {
		return err
	}
	P.Elements = make([]string, nel)
	copy(P.Elements, fields[1:])
	seen := make(map[string]bool, nel)
	for _, el := range P.Elements {
		if seen[el] {
			return sc.errorf("element %s listed twice", el)
		}
		seen[el] = true
	}
	return nil
}

func readPotential(sc *scanner, P *Parameters) error {
	fields, err := sc.expect("potential", 2)
	if err != nil {
		return err
	}
	species := fields[1]
	if !contains(P.Elements, species) {
		return sc.errorf("potential for %s, which is not in the element list", species)
	}
	if _, dup := P.Potentials[species]; dup {
		return sc.errorf("second potential block for %s", species)
	}
	set, err := readSymFuncs(sc, P)
	if err != nil {
		return err
	}
	inScale, inOffset, slope, intercept, err := readScalings(sc, set.Len())
	if err != nil {
		return err
	}
	net, err := readNetwork(sc, set.Len())
	if err != nil {
		return err
	}
	model, err := neural.NewModel(net, inScale, inOffset, slope, intercept)
	if err != nil {
		return Error{err.Error(), sc.name, sc.line, []string{"readPotential"}, true}
	}
	P.Potentials[species] = &Potential{SymFuncs: set, Model: model}
	return nil
}

func readSymFuncs(sc *scanner, P *Parameters) (symfunc.Set, error) {
	fields, err := sc.expect("symfunctions", 2)
	if err != nil {
		return nil, err
	}
	nsym, err := sc.int(fields[1])
	if err != nil {
		return nil, err
	}
	if nsym < 1 {
		return nil, sc.errorf("symmetry function count %d, must be at least 1", nsym)
	}
	set := make(symfunc.Set, 0, nsym)
	for i := 0; i < nsym; i++ {
		if fields, err = sc.next(); err != nil {
			return nil, err
		}
		var f symfunc.Func
		switch fields[0] {
		case "g2":
			if len(fields) != 4 {
				return nil, sc.errorf("g2 takes a species and 2 parameters")
			}
			eta, err1 := sc.float(fields[2])
			rs, err2 := sc.float(fields[3])
			if err1 != nil || err2 != nil {
				return nil, sc.errorf("unparseable g2 parameters")
			}
			f = symfunc.NewRadial(fields[1], eta, rs)
			if !contains(P.Elements, fields[1]) {
				return nil, sc.errorf("g2 neighbor species %s is not in the element list", fields[1])
			}
		case "g4":
			if len(fields) != 6 {
				return nil, sc.errorf("g4 takes a species pair and 3 parameters")
			}
			eta, err1 := sc.float(fields[3])
			zeta, err2 := sc.float(fields[4])
			lambda, err3 := sc.float(fields[5])
			if err1 != nil || err2 != nil || err3 != nil {
				return nil, sc.errorf("unparseable g4 parameters")
			}
			f = symfunc.NewAngular(fields[1], fields[2], eta, zeta, lambda)
			if !contains(P.Elements, fields[1]) || !contains(P.Elements, fields[2]) {
				return nil, sc.errorf("g4 species pair %s %s is not in the element list", fields[1], fields[2])
			}
		default:
			return nil, sc.errorf("unknown symmetry function %q", fields[0])
		}
		if err := f.Validate(); err != nil {
			return nil, Error{err.Error(), sc.name, sc.line, []string{"readSymFuncs"}, true}
		}
		set = append(set, f)
	}
	return set, nil
}

func readScalings(sc *scanner, nsym int) (inScale, inOffset []float64, slope, intercept float64, err error) {
	if _, err = sc.expect("scaling", 1); err != nil {
		return
	}
	inScale = make([]float64, nsym)
	inOffset = make([]float64, nsym)
	for i := 0; i < nsym; i++ {
		var row []float64
		if row, err = sc.floats(2); err != nil {
			return
		}
		inScale[i], inOffset[i] = row[0], row[1]
	}
	fields, err := sc.expect("energy", 3)
	if err != nil {
		return
	}
	if slope, err = sc.float(fields[1]); err != nil {
		return
	}
	intercept, err = sc.float(fields[2])
	return
}

func readNetwork(sc *scanner, nsym int) (*neural.Network, error) {
	fields, err := sc.expect("network", 2)
	if err != nil {
		return nil, err
	}
	nlayers, err := sc.int(fields[1])
	if err != nil {
		return nil, err
	}
	if nlayers < 1 {
		return nil, sc.errorf("layer count %d, must be at least 1", nlayers)
	}
	layers := make([]neural.Layer, 0, nlayers)
	prevOut := nsym
	for l := 0; l < nlayers; l++ {
		if fields, err = sc.expect("layer", 4); err != nil {
			return nil, err
		}
		ins, err1 := sc.int(fields[1])
		outs, err2 := sc.int(fields[2])
		if err1 != nil || err2 != nil {
			return nil, sc.errorf("unparseable layer widths")
		}
		if ins < 1 || outs < 1 {
			return nil, sc.errorf("layer %d: widths %dx%d, must be positive", l, ins, outs)
		}
		if ins != prevOut {
			return nil, sc.errorf("layer %d: input width %d does not match previous output width %d", l, ins, prevOut)
		}
		act := fields[3]
		if !neural.ValidActivation(act) {
			return nil, sc.errorf("layer %d: unknown activation %q", l, act)
		}
		w := mat.NewDense(outs, ins, nil)
		for o := 0; o < outs; o++ {
			row, err := sc.floats(ins)
			if err != nil {
				return nil, err
			}
			w.SetRow(o, row)
		}
		brow, err := sc.floats(outs)
		if err != nil {
			return nil, err
		}
		layers = append(layers, neural.Layer{W: w, B: mat.NewVecDense(outs, brow), Activation: act})
		prevOut = outs
	}
	if prevOut != 1 {
		return nil, sc.errorf("last layer has %d outputs, want 1", prevOut)
	}
	net, err := neural.NewNetwork(layers)
	if err != nil {
		return nil, Error{err.Error(), sc.name, sc.line, []string{"readNetwork"}, true}
	}
	return net, nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

//scanner walks a parameter file line by line, skipping blanks and
//comments, and keeps the current line number for error reports.
type scanner struct {
	sc   *bufio.Scanner
	name string
	line int
}

//next returns the fields of the next meaningful line.
func (s *scanner) next() ([]string, error) {
	for s.sc.Scan() {
		s.line++
		text := strings.TrimSpace(s.sc.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		return strings.Fields(text), nil
	}
	if err := s.sc.Err(); err != nil {
		return nil, Error{err.Error(), s.name, s.line, []string{"next"}, true}
	}
	return nil, Error{"unexpected end of file", s.name, s.line, []string{"next"}, true}
}

//expect returns the fields of the next line, which must start with
//the keyword and have exactly nfields fields.
func (s *scanner) expect(keyword string, nfields int) ([]string, error) {
	fields, err := s.next()
	if err != nil {
		return nil, err
	}
	if fields[0] != keyword {
		return nil, s.errorf("expected %q, got %q", keyword, fields[0])
	}
	if len(fields) != nfields {
		return nil, s.errorf("%q takes %d fields, got %d", keyword, nfields-1, len(fields)-1)
	}
	return fields, nil
}

//floats reads the next line as exactly n real numbers.
func (s *scanner) floats(n int) ([]float64, error) {
	fields, err := s.next()
	if err != nil {
		return nil, err
	}
	if len(fields) != n {
		return nil, s.errorf("expected %d numbers, got %d", n, len(fields))
	}
	out := make([]float64, n)
	for i, f := range fields {
		if out[i], err = s.float(f); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (s *scanner) float(tok string) (float64, error) {
	v, err := strconv.ParseFloat(tok, 64)
	if err != nil {
		return 0, s.errorf("unparseable number %q", tok)
	}
	return v, nil
}

func (s *scanner) int(tok string) (int, error) {
	v, err := strconv.Atoi(tok)
	if err != nil {
		return 0, s.errorf("unparseable integer %q", tok)
	}
	return v, nil
}

func (s *scanner) errorf(format string, args ...interface{}) Error {
	return Error{fmt.Sprintf(format, args...), s.name, s.line, nil, true}
}

//Errors

//Error is the concrete error type of the package. It carries the file
//name and the line at which the problem was found, and implements the
//gonnp ParameterFileError interface.
type Error struct {
	message  string
	filename string
	line     int
	deco     []string
	critical bool
}

func (err Error) Error() string {
	return fmt.Sprintf("parameter file %s, line %d: %s", err.filename, err.line, err.message)
}

//Decorate adds dec to the decoration of the error and returns the
//resulting slice. An empty dec only retrieves the current decoration.
func (err Error) Decorate(dec string) []string {
	if dec != "" {
		err.deco = append(err.deco, dec)
	}
	return err.deco
}

//FileName returns the file associated to the error.
func (err Error) FileName() string { return err.filename }

//Line returns the line at which the problem was found, or 0 if it
//does not correspond to a particular line.
func (err Error) Line() int { return err.line }

//Critical returns whether the error is critical or can be ignored.
func (err Error) Critical() bool { return err.critical }
