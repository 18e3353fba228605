// denovo: Bayesian de novo variant calling for parent-child trios.
// Copyright (c) 2020 imec vzw.

// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as
// published by the Free Software Foundation, either version 3 of the
// License, or (at your option) any later version, and Additional Terms
// (see below).

// This program is distributed in the hope that it will be useful, but
// WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the GNU
// Affero General Public License for more details.

// You should have received a copy of the GNU Affero General Public
// License and Additional Terms along with this program. If not, see
// <https://github.com/exascience/denovo/blob/master/LICENSE.txt>.

package genotype

// IsConsistentWithInheritance is true if one allele of the child can
// be traced to each parent, in either order.
func IsConsistentWithInheritance(dad, mom, child Genotype) bool {
	c1, c2 := child.Alleles()
	return (mom.Contains(c1) && dad.Contains(c2)) ||
		(mom.Contains(c2) && dad.Contains(c1))
}

// IsDenovo is true if the child genotype of the trio cannot be
// explained by inheritance from the parents.
func IsDenovo(trio Trio) bool {
	return !IsConsistentWithInheritance(trio[Dad], trio[Mom], trio[Child])
}
