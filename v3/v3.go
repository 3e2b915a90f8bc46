/*
 * v3.go, part of gonnp.
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

//Package v3 implements a container for sets of 3D vectors, such as the
//Cartesian coordinates of a group of atoms or the forces acting on them.
//It is a thin wrapper over gonum's mat.Dense, restricted to 3 columns.
//Within the package a "vector" is a row vector, the coordinates of one
//point in 3D space.
package v3

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

//Matrix is a set of vectors in 3D space, one per row.
type Matrix struct {
	*mat.Dense
}

//NewMatrix builds a Matrix with 3 columns from data, which is parsed
//in row-major order. It returns an error if the length of data is not
//divisible by 3.
func NewMatrix(data []float64) (*Matrix, error) {
	const cols int = 3
	l := len(data)
	rows := l / cols
	if l%cols != 0 {
		return nil, Error{fmt.Sprintf("Input slice length %d not divisible by 3", l), []string{"NewMatrix"}, true}
	}
	return &Matrix{mat.NewDense(rows, cols, data)}, nil
}

//Zeros returns a zero-filled Matrix with vecs vectors.
func Zeros(vecs int) *Matrix {
	const cols int = 3
	f := make([]float64, cols*vecs)
	return &Matrix{mat.NewDense(vecs, cols, f)}
}

//Dense2Matrix returns a Matrix backed by the same data as A.
//It panics if A does not have 3 columns.
func Dense2Matrix(A *mat.Dense) *Matrix {
	_, c := A.Dims()
	if c != 3 {
		panic(ErrNotXx3Matrix)
	}
	return &Matrix{A}
}

//Matrix2Dense returns the mat.Dense backing A.
func Matrix2Dense(A *Matrix) *mat.Dense {
	return A.Dense
}

//NVecs returns the number of vectors in F.
func (F *Matrix) NVecs() int {
	r, c := F.Dims()
	if c != 3 {
		panic(ErrNotXx3Matrix)
	}
	return r
}

//VecView returns a view of the ith vector of F. Changes in the view
//are reflected in F and vice-versa.
func (F *Matrix) VecView(i int) *Matrix {
	r := F.Dense.Slice(i, i+1, 0, 3).(*mat.Dense)
	return &Matrix{r}
}

//Vec copies the ith vector of F into the 3-element slice dst,
//which is also returned. If dst is nil a new slice is allocated.
func (F *Matrix) Vec(dst []float64, i int) []float64 {
	if dst == nil {
		dst = make([]float64, 3)
	}
	copy(dst, F.RawRowView(i))
	return dst
}

//SetVec sets the ith vector of F to v.
func (F *Matrix) SetVec(i int, v []float64) {
	if len(v) != 3 {
		panic(ErrNotXx3Matrix)
	}
	F.SetRow(i, v)
}

//AddVec adds the 1x3 vector vec to every vector of A, putting
//the result in the receiver.
func (F *Matrix) AddVec(A, vec *Matrix) {
	ar, _ := A.Dims()
	if vec.NVecs() != 1 || F.NVecs() != ar {
		panic(ErrShape)
	}
	for i := 0; i < ar; i++ {
		f := F.VecView(i)
		f.Add(A.VecView(i), vec)
	}
}

//SubVec subtracts the 1x3 vector vec from every vector of A, putting
//the result in the receiver.
func (F *Matrix) SubVec(A, vec *Matrix) {
	ar, _ := A.Dims()
	if vec.NVecs() != 1 || F.NVecs() != ar {
		panic(ErrShape)
	}
	for i := 0; i < ar; i++ {
		f := F.VecView(i)
		f.Sub(A.VecView(i), vec)
	}
}

//Dot returns the dot product between the first vectors of F and B.
func (F *Matrix) Dot(B *Matrix) float64 {
	a := F.RawRowView(0)
	b := B.RawRowView(0)
	return a[0]*b[0] + a[1]*b[1] + a[2]*b[2]
}

//Norm returns the Euclidean norm of the first vector of F.
func (F *Matrix) Norm() float64 {
	a := F.RawRowView(0)
	return math.Sqrt(a[0]*a[0] + a[1]*a[1] + a[2]*a[2])
}

//Unit puts a unit vector in the direction of the first vector of A
//in the receiver. It panics if A has norm zero.
func (F *Matrix) Unit(A *Matrix) {
	n := A.Norm()
	if n == 0 {
		panic(ErrZeroNorm)
	}
	F.Scale(1.0/n, A)
}

//Cross puts the cross product of the first vectors of a and b
//in the receiver.
func (F *Matrix) Cross(a, b *Matrix) {
	if a.NVecs() < 1 || b.NVecs() < 1 || F.NVecs() < 1 {
		panic(ErrNotEnoughElements)
	}
	av := a.RawRowView(0)
	bv := b.RawRowView(0)
	f := F.RawRowView(0)
	f[0] = av[1]*bv[2] - av[2]*bv[1]
	f[1] = av[2]*bv[0] - av[0]*bv[2]
	f[2] = av[0]*bv[1] - av[1]*bv[0]
}

//AddScaledVec adds t times the ith vector of B to the ith vector
//of the receiver, in place.
func (F *Matrix) AddScaledVec(i int, t float64, B *Matrix, j int) {
	f := F.RawRowView(i)
	b := B.RawRowView(j)
	f[0] += t * b[0]
	f[1] += t * b[1]
	f[2] += t * b[2]
}

//Errors

//Error implements the error interface used throughout gonnp, with a
//"decoration" slice to record the calling stack as the error is
//passed up.
type Error struct {
	message  string
	deco     []string
	critical bool
}

//Error returns a string with an error message.
func (err Error) Error() string {
	return err.message
}

//Decorate adds the dec string to the decoration slice of strings of the
//error, and returns the resulting slice. If dec is empty, only the
//current decoration is returned.
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
	ErrNotXx3Matrix      = PanicMsg("gonnp/v3: A Matrix should have 3 columns")
	ErrNotEnoughElements = PanicMsg("gonnp/v3: not enough elements in Matrix")
	ErrZeroNorm          = PanicMsg("gonnp/v3: vector of norm zero")
	ErrShape             = PanicMsg("gonnp/v3: Dimension mismatch")
)
