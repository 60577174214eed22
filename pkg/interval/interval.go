// Copyright Consensys Software Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with
// the License. You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0

// Package interval provides an unbounded mathematical interval over
// arbitrary-precision integers, used to present the result of a machine-
// integer abstract domain (tnum, wrapped_interval, stnum) to an external
// consumer that reasons in terms of plain integers rather than bitwidths.
//
// The representation is built directly on math.InfInt rather than the
// teacher's own math.Interval (based on "Integer Range Analysis for
// Whiley on Embedded Systems", David J. Pearce), whose bitwidth-bound
// sentinel handling this package does not need.
package interval

import (
	"fmt"
	"math/big"

	numath "github.com/gosigned/numdomain/pkg/util/math"
)

// Interval represents a closed range [Lower, Upper] of the (potentially
// infinite) integers.  An interval with Lower > Upper (once both are finite)
// is empty (bottom).
type Interval struct {
	Lower numath.InfInt
	Upper numath.InfInt
}

// Top returns the unbounded interval (-inf, +inf).
func Top() Interval {
	return Interval{Lower: numath.NegInfinity, Upper: numath.PosInfinity}
}

// Bottom returns the canonical empty interval, encoded as the finite [1, 0]:
// an interval whose lower bound strictly exceeds its upper bound is empty by
// construction.
func Bottom() Interval {
	one := numath.NewInfIntFromInt64(1)
	zero := numath.NewInfIntFromInt64(0)

	return Interval{Lower: one, Upper: zero}
}

// Singleton returns the one-point interval [n, n].
func Singleton(n int64) Interval {
	v := numath.NewInfIntFromInt64(n)
	return Interval{Lower: v, Upper: v}
}

// IsBottom reports whether this interval is empty.  This is only decidable
// when both bounds are finite; an interval with an infinite bound is never
// constructed as bottom by this package's own operations.
func (i Interval) IsBottom() bool {
	if !i.Lower.IsNotAnInfinity() || !i.Upper.IsNotAnInfinity() {
		return false
	}

	return i.Lower.Cmp(i.Upper) > 0
}

// IsTop reports whether this interval is unbounded on both sides.
func (i Interval) IsTop() bool {
	return i.Lower.Equal(numath.NegInfinity) && i.Upper.Equal(numath.PosInfinity)
}

// Contains reports whether n lies within this interval.
func (i Interval) Contains(n int64) bool {
	v := numath.NewInfIntFromInt64(n)
	return i.Lower.Cmp(v) <= 0 && i.Upper.Cmp(v) >= 0
}

// Union computes the convex hull of two intervals (their join).
func (i Interval) Union(o Interval) Interval {
	if i.IsBottom() {
		return o
	}

	if o.IsBottom() {
		return i
	}

	return Interval{Lower: i.Lower.Min(o.Lower), Upper: i.Upper.Max(o.Upper)}
}

// Intersect computes the meet of two intervals; the result is bottom when
// they do not overlap.
func (i Interval) Intersect(o Interval) Interval {
	if i.IsBottom() || o.IsBottom() {
		return Bottom()
	}

	return Interval{Lower: i.Lower.Max(o.Lower), Upper: i.Upper.Min(o.Upper)}
}

// Add computes the interval sum.
func (i Interval) Add(o Interval) Interval {
	if i.IsBottom() || o.IsBottom() {
		return Bottom()
	}

	return Interval{Lower: i.Lower.Add(o.Lower), Upper: i.Upper.Add(o.Upper)}
}

// Sub computes the interval difference.
func (i Interval) Sub(o Interval) Interval {
	if i.IsBottom() || o.IsBottom() {
		return Bottom()
	}

	return Interval{Lower: i.Lower.Sub(o.Lower), Upper: i.Upper.Sub(o.Upper)}
}

// Mul computes the interval product as the hull of the four corner products.
func (i Interval) Mul(o Interval) Interval {
	if i.IsBottom() || o.IsBottom() {
		return Bottom()
	}

	ll := i.Lower.Mul(o.Lower)
	lu := i.Lower.Mul(o.Upper)
	ul := i.Upper.Mul(o.Lower)
	uu := i.Upper.Mul(o.Upper)

	lo := ll.Min(lu)
	lo = lo.Min(ul.Min(uu))
	hi := ll.Max(lu)
	hi = hi.Max(ul.Max(uu))

	return Interval{Lower: lo, Upper: hi}
}

// FromBig builds an interval from two finite big.Int bounds.
func FromBig(lo, hi *big.Int) Interval {
	return Interval{Lower: numath.NewInfIntFromBig(lo), Upper: numath.NewInfIntFromBig(hi)}
}

func (i Interval) String() string {
	if i.IsBottom() {
		return "_|_"
	}

	return fmt.Sprintf("[%s, %s]", i.Lower.String(), i.Upper.String())
}
