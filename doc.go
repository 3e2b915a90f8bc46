/*
 * doc.go, part of gonnp.
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

/*Package nnp evaluates trained neural-network interatomic potentials
for molecular-dynamics engines. Given atomic positions and neighbor
lists it returns the total potential energy and analytic per-atom
forces for a Behler-Parrinello style potential: each atom's local
environment is encoded into a fixed-length fingerprint of radial and
angular symmetry functions, a small per-species feed-forward network
maps the fingerprint to an atomic energy contribution, and forces come
from exact backpropagation through the network chained with the
analytic fingerprint Jacobian.

	**gonnp capabilities**

    Loads trained-potential parameter files, plain or zstd-compressed.

    Cosine and polynomial cutoff functions.

    Radial (G2) and angular (G4) symmetry functions with
	neighbor-species filters, with analytic gradients.

    Per-species networks of any depth, tanh, sigmoid or linear
	activations, with input and output scalings.

    Unit negotiation: the host works in its own length/energy units
	(angstrom, bohr or nm; eV, hartree, kcal/mol or kJ/mol) and the
	driver converts to and from the units the model was trained in.

    A KIM-style driver life cycle: New, Compute, Refresh, Destroy,
	plus metadata queries for the host (supported species, cutoff
	radius, influence distance).

The driver retains no state between Compute calls other than the
immutable parameters, so one driver can serve concurrent Compute calls
on disjoint atom sets without locking.

The subpackages cutoff, symfunc, neural and param implement the pieces
and can be used on their own, for instance to inspect a trained
potential. nnplot draws cutoff and symmetry-function profiles.
*/
package nnp
