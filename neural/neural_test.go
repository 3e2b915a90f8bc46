/*
 * neural_test.go, part of gonnp.
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

package neural

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"
)

//a small 2-5-1 tanh network with deterministic, non-symmetric weights
func testNetwork(Te *testing.T) *Network {
	w1 := mat.NewDense(5, 2, nil)
	b1 := mat.NewVecDense(5, nil)
	for o := 0; o < 5; o++ {
		for i := 0; i < 2; i++ {
			w1.Set(o, i, 0.1*float64(o+1)-0.05*float64(i+1))
		}
		b1.SetVec(o, 0.01*float64(o)-0.02)
	}
	w2 := mat.NewDense(1, 5, nil)
	b2 := mat.NewVecDense(1, []float64{0.3})
	for i := 0; i < 5; i++ {
		w2.Set(0, i, 0.2-0.07*float64(i))
	}
	net, err := NewNetwork([]Layer{
		{W: w1, B: b1, Activation: Tanh},
		{W: w2, B: b2, Activation: Linear},
	})
	if err != nil {
		Te.Fatal(err)
	}
	return net
}

func TestForwardSingleLinearLayer(Te *testing.T) {
	w := mat.NewDense(1, 2, []float64{2, -3})
	b := mat.NewVecDense(1, []float64{0.5})
	net, err := NewNetwork([]Layer{{W: w, B: b, Activation: Linear}})
	if err != nil {
		Te.Fatal(err)
	}
	y := net.Forward([]float64{1, 2})
	if want := 2.0*1 - 3.0*2 + 0.5; math.Abs(y-want) > 1e-15 {
		Te.Errorf("Forward: got %g, want %g", y, want)
	}
}

func TestForwardTanh(Te *testing.T) {
	//1-1-1: y = w2*tanh(w1*x+b1)+b2
	w1 := mat.NewDense(1, 1, []float64{0.7})
	b1 := mat.NewVecDense(1, []float64{0.1})
	w2 := mat.NewDense(1, 1, []float64{-1.3})
	b2 := mat.NewVecDense(1, []float64{0.2})
	net, err := NewNetwork([]Layer{
		{W: w1, B: b1, Activation: Tanh},
		{W: w2, B: b2, Activation: Linear},
	})
	if err != nil {
		Te.Fatal(err)
	}
	x := 0.4
	y := net.Forward([]float64{x})
	want := -1.3*math.Tanh(0.7*x+0.1) + 0.2
	if math.Abs(y-want) > 1e-15 {
		Te.Errorf("Forward: got %g, want %g", y, want)
	}
}

func TestForwardGradNumerically(Te *testing.T) {
	net := testNetwork(Te)
	x := []float64{0.3, -0.8}
	grad := make([]float64, 2)
	y := net.ForwardGrad(x, grad)
	if math.Abs(y-net.Forward(x)) != 0 {
		Te.Error("ForwardGrad and Forward disagree on the same input")
	}
	const h = 1e-6
	for i := range x {
		xp := []float64{x[0], x[1]}
		xm := []float64{x[0], x[1]}
		xp[i] += h
		xm[i] -= h
		num := (net.Forward(xp) - net.Forward(xm)) / (2 * h)
		if math.Abs(num-grad[i]) > 1e-9 {
			Te.Errorf("component %d: analytic %g vs numeric %g", i, grad[i], num)
		}
	}
}

func TestModelScalingChain(Te *testing.T) {
	net := testNetwork(Te)
	model, err := NewModel(net, []float64{2, 0.5}, []float64{-1, 0.3}, 3.19, 4.24)
	if err != nil {
		Te.Fatal(err)
	}
	fp := []float64{1.7, -0.4}
	grad := make([]float64, 2)
	e := model.EnergyGrad(fp, grad)
	if math.Abs(e-model.Energy(fp)) != 0 {
		Te.Error("EnergyGrad and Energy disagree on the same input")
	}
	const h = 1e-6
	for i := range fp {
		fpp := []float64{fp[0], fp[1]}
		fpm := []float64{fp[0], fp[1]}
		fpp[i] += h
		fpm[i] -= h
		num := (model.Energy(fpp) - model.Energy(fpm)) / (2 * h)
		if math.Abs(num-grad[i]) > 1e-8 {
			Te.Errorf("component %d: analytic %g vs numeric %g", i, grad[i], num)
		}
	}
}

//With an all-zero fingerprint the energy is a constant fixed by the
//parameters alone.
func TestZeroInputConstant(Te *testing.T) {
	w := mat.NewDense(1, 3, []float64{1, 2, 3})
	b := mat.NewVecDense(1, []float64{0.25})
	net, err := NewNetwork([]Layer{{W: w, B: b, Activation: Linear}})
	if err != nil {
		Te.Fatal(err)
	}
	model, err := NewModel(net, []float64{1, 1, 1}, []float64{0, 0, 0}, 2, -1)
	if err != nil {
		Te.Fatal(err)
	}
	e := model.Energy([]float64{0, 0, 0})
	if want := 2*0.25 - 1; math.Abs(e-want) > 1e-15 {
		Te.Errorf("Zero-input energy: got %g, want %g", e, want)
	}
}

func TestNewNetworkRejectsBadStacks(Te *testing.T) {
	w1 := mat.NewDense(2, 3, nil)
	b1 := mat.NewVecDense(2, nil)
	w2bad := mat.NewDense(1, 4, nil) //input width 4, previous output 2
	b2 := mat.NewVecDense(1, nil)
	_, err := NewNetwork([]Layer{
		{W: w1, B: b1, Activation: Tanh},
		{W: w2bad, B: b2, Activation: Linear},
	})
	if err == nil {
		Te.Error("Expected an error for a mismatched layer-width chain")
	}
	_, err = NewNetwork([]Layer{{W: w1, B: b1, Activation: Tanh}}) //2 outputs at the end
	if err == nil {
		Te.Error("Expected an error for a non-scalar final layer")
	}
	_, err = NewNetwork([]Layer{{W: mat.NewDense(1, 3, nil), B: mat.NewVecDense(1, nil), Activation: "softplus"}})
	if err == nil {
		Te.Error("Expected an error for an unknown activation")
	}
	_, err = NewNetwork(nil)
	if err == nil {
		Te.Error("Expected an error for an empty stack")
	}
}
