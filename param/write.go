/*
 * write.go, part of gonnp.
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
	"bufio"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/klauspost/compress/zstd"
	"github.com/rmera/gonnp/symfunc"
)

//Write writes P to the file with the given name, in the format Read
//understands. Files ending in ".zst" are zstd-compressed. Numbers are
//written with enough digits to round-trip exactly.
func Write(name string, P *Parameters) error {
	f, err := os.Create(name)
	if err != nil {
		return Error{"Unable to create file: " + err.Error(), name, 0, []string{"Write"}, true}
	}
	defer f.Close()
	var w io.Writer = f
	if strings.HasSuffix(name, ".zst") {
		enc, err := zstd.NewWriter(f)
		if err != nil {
			return Error{"Unable to compress file: " + err.Error(), name, 0, []string{"Write"}, true}
		}
		defer enc.Close()
		w = enc
	}
	if err := WriteTo(w, P); err != nil {
		return Error{err.Error(), name, 0, []string{"Write"}, true}
	}
	return nil
}

//WriteTo writes P to w in the parameter-file format.
func WriteTo(w io.Writer, P *Parameters) error {
	bw := bufio.NewWriter(w)
	pr := func(fields ...string) {
		bw.WriteString(strings.Join(fields, " "))
		bw.WriteByte('\n')
	}
	pr("gonnp", "1")
	pr("units", P.LengthUnit, P.EnergyUnit)
	pr("cutoff", P.CutoffKind, ftoa(P.CutoffRadius))
	pr("elements", strconv.Itoa(len(P.Elements)))
	pr(append([]string{"elementlist"}, P.Elements...)...)
	for _, el := range P.Elements {
		pot, ok := P.Potentials[el]
		if !ok {
			return Error{"no potential for element " + el, "", 0, []string{"WriteTo"}, true}
		}
		if err := writePotential(pr, el, pot); err != nil {
			return err
		}
	}
	pr("end")
	return bw.Flush()
}

func writePotential(pr func(...string), species string, pot *Potential) error {
	pr("potential", species)
	pr("symfunctions", strconv.Itoa(pot.SymFuncs.Len()))
	for _, f := range pot.SymFuncs {
		switch f.Kind {
		case symfunc.Radial:
			pr("g2", f.Species1, ftoa(f.Eta), ftoa(f.Rs))
		case symfunc.Angular:
			pr("g4", f.Species1, f.Species2, ftoa(f.Eta), ftoa(f.Zeta), ftoa(f.Lambda))
		default:
			return Error{"unknown symmetry function kind", "", 0, []string{"writePotential"}, true}
		}
	}
	m := pot.Model
	pr("scaling")
	for i := 0; i < m.Ins(); i++ {
		pr(ftoa(m.InScale[i]), ftoa(m.InOffset[i]))
	}
	pr("energy", ftoa(m.Slope), ftoa(m.Intercept))
	pr("network", strconv.Itoa(m.Net.NLayers()))
	for l := 0; l < m.Net.NLayers(); l++ {
		lay := m.Net.Layer(l)
		pr("layer", strconv.Itoa(lay.Ins()), strconv.Itoa(lay.Outs()), lay.Activation)
		row := make([]string, lay.Ins())
		for o := 0; o < lay.Outs(); o++ {
			for i := range row {
				row[i] = ftoa(lay.W.At(o, i))
			}
			pr(row...)
		}
		brow := make([]string, lay.Outs())
		for o := range brow {
			brow[o] = ftoa(lay.B.AtVec(o))
		}
		pr(brow...)
	}
	return nil
}

func ftoa(v float64) string {
	return strconv.FormatFloat(v, 'g', 17, 64)
}
