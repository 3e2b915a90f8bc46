/*
 * nnplot.go, part of gonnp.
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

//Package nnplot draws the ingredients of a loaded potential: cutoff
//tapers and radial symmetry-function profiles. Useful to eyeball what
//a parameter file actually encodes before running anything with it.
package nnplot

import (
	"fmt"

	"github.com/rmera/gonnp/cutoff"
	"github.com/rmera/gonnp/symfunc"
	"github.com/rmera/gonnp/v3"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
)

const points = 300

//Cutoff plots a cutoff function and its derivative from 0 to the
//cutoff radius, saving the plot as plotname.png.
func Cutoff(cf cutoff.Func, plotname string) error {
	p := basicPlot(fmt.Sprintf("%s cutoff, rc=%.2f", cf.Kind(), cf.Rc()))
	val := make(plotter.XYs, points)
	der := make(plotter.XYs, points)
	for i := 0; i < points; i++ {
		r := cf.Rc() * float64(i) / (points - 1)
		val[i].X, val[i].Y = r, cf.Value(r)
		der[i].X, der[i].Y = r, cf.Derivative(r)
	}
	err := plotutil.AddLines(p, "value", val, "derivative", der)
	if err != nil {
		return errDecorate(err, "Cutoff")
	}
	return save(p, plotname)
}

//Radial plots the single-neighbor profile of every radial symmetry
//function in the set, exp(-eta*(r-rs)^2)*fc(r) against r, saving the
//plot as plotname.png. Angular functions are skipped, as they have no
//one-dimensional profile.
func Radial(S symfunc.Set, cf cutoff.Func, plotname string) error {
	p := basicPlot("radial symmetry functions")
	var args []interface{}
	for c, f := range S {
		if f.Kind != symfunc.Radial {
			continue
		}
		xys := make(plotter.XYs, points)
		for i := 0; i < points; i++ {
			r := cf.Rc() * float64(i) / (points - 1)
			fp := make([]float64, S.Len())
			sh := shellAt(r, f.Species1)
			if err := S.Fingerprint(sh, cf, fp); err != nil {
				return errDecorate(err, "Radial")
			}
			xys[i].X, xys[i].Y = r, fp[c]
		}
		args = append(args, fmt.Sprintf("g2 %s eta=%.3g rs=%.3g", f.Species1, f.Eta, f.Rs), xys)
	}
	if len(args) == 0 {
		return Error{"no radial functions in the set", []string{"Radial"}}
	}
	if err := plotutil.AddLines(p, args...); err != nil {
		return errDecorate(err, "Radial")
	}
	return save(p, plotname)
}

//shellAt is a single neighbor of the given species at distance r
//along x. The profile of a radial function is its fingerprint there.
func shellAt(r float64, species string) *symfunc.Shell {
	if r == 0 {
		return &symfunc.Shell{}
	}
	disp, err := v3.NewMatrix([]float64{r, 0, 0})
	if err != nil {
		return &symfunc.Shell{}
	}
	return &symfunc.Shell{Indexes: []int{1}, Species: []string{species}, Disp: disp}
}

func basicPlot(title string) *plot.Plot {
	p := plot.New()
	p.Title.Padding = 3 * vg.Millimeter
	p.Title.Text = title
	p.X.Label.Text = "r"
	p.Add(plotter.NewGrid())
	p.Legend.Top = true
	return p
}

func save(p *plot.Plot, plotname string) error {
	filename := fmt.Sprintf("%s.png", plotname)
	if err := p.Save(14*vg.Centimeter, 10*vg.Centimeter, filename); err != nil {
		return errDecorate(err, "save")
	}
	return nil
}

//Errors

//Error is the concrete error type of the package.
type Error struct {
	message string
	deco    []string
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

func errDecorate(err error, caller string) error {
	type decorable interface {
		Decorate(string) []string
	}
	if err2, ok := err.(decorable); ok {
		err2.Decorate(caller)
		return err
	}
	return Error{err.Error(), []string{caller}}
}
