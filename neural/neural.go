/*
 * neural.go, part of gonnp.
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

//Package neural evaluates the per-species feed-forward networks of a
//neural-network potential: a forward pass from a fingerprint to an
//atomic energy contribution, and exact reverse-mode differentiation
//(plain backpropagation, no weight updates) giving the gradient of
//that energy with respect to every fingerprint component. Everything
//is float64; forward and backward passes share the same intermediates
//so energies and forces stay mutually consistent.
package neural

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

//Supported activation tags. Tanh is the usual hidden-layer choice,
//Linear the usual (and for the last layer, mandatory sensible) output
//choice.
const (
	Tanh    = "tanh"
	Sigmoid = "sigmoid"
	Linear  = "linear"
)

func activate(tag string, x float64) float64 {
	switch tag {
	case Tanh:
		return math.Tanh(x)
	case Sigmoid:
		return 1 / (1 + math.Exp(-x))
	case Linear:
		return x
	}
	panic(ErrUnknownActivation)
}

//derivative of the activation with respect to its argument, written
//in terms of the already-computed output y.
func activateDer(tag string, y float64) float64 {
	switch tag {
	case Tanh:
		return 1 - y*y
	case Sigmoid:
		return y * (1 - y)
	case Linear:
		return 1
	}
	panic(ErrUnknownActivation)
}

//ValidActivation returns whether tag names a supported activation.
func ValidActivation(tag string) bool {
	return tag == Tanh || tag == Sigmoid || tag == Linear
}

//Layer is one affine-then-activation stage: out = act(W*in + B).
//W has one row per output neuron.
type Layer struct {
	W          *mat.Dense
	B          *mat.VecDense
	Activation string
}

//Ins and Outs return the input and output width of the layer.
func (L *Layer) Ins() int  { _, c := L.W.Dims(); return c }
func (L *Layer) Outs() int { r, _ := L.W.Dims(); return r }

//Network is an ordered stack of layers for one chemical species.
//It is immutable after construction and safe for concurrent use,
//as evaluation keeps its state in per-call buffers.
type Network struct {
	layers []Layer
}

//NewNetwork builds a network from layers, checking that each layer's
//input width matches the previous layer's output width, that the last
//layer has a single output, and that every activation tag is known.
func NewNetwork(layers []Layer) (*Network, error) {
	if len(layers) == 0 {
		return nil, Error{"network with no layers", []string{"NewNetwork"}, true}
	}
	for i, l := range layers {
		if !ValidActivation(l.Activation) {
			return nil, Error{fmt.Sprintf("layer %d: unknown activation %q", i, l.Activation), []string{"NewNetwork"}, true}
		}
		if bl := l.B.Len(); bl != l.Outs() {
			return nil, Error{fmt.Sprintf("layer %d: %d outputs but %d biases", i, l.Outs(), bl), []string{"NewNetwork"}, true}
		}
		if i > 0 && l.Ins() != layers[i-1].Outs() {
			return nil, Error{fmt.Sprintf("layer %d: input width %d does not match previous output width %d",
				i, l.Ins(), layers[i-1].Outs()), []string{"NewNetwork"}, true}
		}
	}
	last := layers[len(layers)-1]
	if last.Outs() != 1 {
		return nil, Error{fmt.Sprintf("last layer has %d outputs, want 1", last.Outs()), []string{"NewNetwork"}, true}
	}
	return &Network{layers: layers}, nil
}

//Ins returns the input width of the network.
func (N *Network) Ins() int { return N.layers[0].Ins() }

//NLayers returns the number of layers.
func (N *Network) NLayers() int { return len(N.layers) }

//Layer returns the ith layer. The returned value must not be modified.
func (N *Network) Layer(i int) Layer { return N.layers[i] }

//Forward evaluates the network on x and returns the scalar output.
func (N *Network) Forward(x []float64) float64 {
	y, _ := N.run(x, nil)
	return y
}

//ForwardGrad evaluates the network on x, returning the scalar output
//and writing d(output)/d(x_i) into grad, which must have length
//N.Ins().
func (N *Network) ForwardGrad(x, grad []float64) float64 {
	if len(grad) != N.Ins() {
		panic(ErrGradientLen)
	}
	y, acts := N.run(x, make([][]float64, len(N.layers)))
	//backpropagation: delta starts as the derivative of the output
	//with respect to the last pre-activation.
	last := len(N.layers) - 1
	delta := []float64{activateDer(N.layers[last].Activation, acts[last][0])}
	for l := last; l > 0; l-- {
		lay := N.layers[l]
		prev := N.layers[l-1]
		nd := make([]float64, prev.Outs())
		for i := 0; i < prev.Outs(); i++ {
			s := 0.0
			for o := 0; o < lay.Outs(); o++ {
				s += lay.W.At(o, i) * delta[o]
			}
			nd[i] = s * activateDer(prev.Activation, acts[l-1][i])
		}
		delta = nd
	}
	first := N.layers[0]
	for i := 0; i < first.Ins(); i++ {
		s := 0.0
		for o := 0; o < first.Outs(); o++ {
			s += first.W.At(o, i) * delta[o]
		}
		grad[i] = s
	}
	return y
}

//run performs the forward pass. If acts is not nil it is filled with
//the post-activation output of every layer, for the backward pass.
func (N *Network) run(x []float64, acts [][]float64) (float64, [][]float64) {
	if len(x) != N.Ins() {
		panic(ErrInputLen)
	}
	in := mat.NewVecDense(len(x), x)
	var z mat.VecDense
	for l, lay := range N.layers {
		z.Reset()
		z.MulVec(lay.W, in)
		z.AddVec(&z, lay.B)
		out := make([]float64, lay.Outs())
		for i := range out {
			out[i] = activate(lay.Activation, z.AtVec(i))
		}
		if acts != nil {
			acts[l] = out
		}
		in = mat.NewVecDense(len(out), out)
	}
	return in.AtVec(0), acts
}

//Model is the complete per-species evaluator: the input scaling that
//maps raw fingerprint components onto the range the network was
//trained on, the network itself, and the output scaling that maps the
//network output back onto physical energy units. All of it is loaded
//once and never recomputed during evaluation.
type Model struct {
	Net *Network
	//per-component affine transform on the raw fingerprint
	InScale, InOffset []float64
	//affine transform on the network output: E = Slope*y + Intercept
	Slope, Intercept float64
}

//NewModel checks that the scaling vectors match the network input
//width and returns the assembled model.
func NewModel(net *Network, inScale, inOffset []float64, slope, intercept float64) (*Model, error) {
	if len(inScale) != net.Ins() || len(inOffset) != net.Ins() {
		return nil, Error{fmt.Sprintf("scaling length %d/%d does not match network input width %d",
			len(inScale), len(inOffset), net.Ins()), []string{"NewModel"}, true}
	}
	return &Model{Net: net, InScale: inScale, InOffset: inOffset, Slope: slope, Intercept: intercept}, nil
}

//Ins returns the fingerprint length the model expects.
func (M *Model) Ins() int { return M.Net.Ins() }

//Energy returns the atomic energy contribution for the raw
//fingerprint fp.
func (M *Model) Energy(fp []float64) float64 {
	return M.Slope*M.Net.Forward(M.scale(fp, nil)) + M.Intercept
}

//EnergyGrad returns the atomic energy contribution for the raw
//fingerprint fp and writes d(energy)/d(fp_i) into grad, which must
//have the same length as fp.
func (M *Model) EnergyGrad(fp, grad []float64) float64 {
	scaled := M.scale(fp, nil)
	y := M.Net.ForwardGrad(scaled, grad)
	for i := range grad {
		grad[i] *= M.Slope * M.InScale[i]
	}
	return M.Slope*y + M.Intercept
}

func (M *Model) scale(fp, dst []float64) []float64 {
	if len(fp) != M.Ins() {
		panic(ErrInputLen)
	}
	if dst == nil {
		dst = make([]float64, len(fp))
	}
	for i, v := range fp {
		dst[i] = M.InScale[i]*v + M.InOffset[i]
	}
	return dst
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

//PanicMsg is a message used for panics. For errors use Error.
type PanicMsg string

func (v PanicMsg) Error() string { return string(v) }

const (
	ErrUnknownActivation = PanicMsg("gonnp/neural: unknown activation function")
	ErrInputLen          = PanicMsg("gonnp/neural: input length does not match the network")
	ErrGradientLen       = PanicMsg("gonnp/neural: gradient buffer length does not match the network")
)
