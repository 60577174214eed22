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
package tnum

import "github.com/gosigned/numdomain/pkg/wrapint"

// Leq is the pointwise bit-inclusion order: t <= o iff every concrete value
// of t lies in gamma(o).
func (t Tnum) Leq(o Tnum) bool {
	if t.IsBottom() {
		return true
	}

	if o.IsBottom() {
		return false
	}

	if t.Equal(o) {
		return true
	}

	// a bit unknown in t but known in o means t is not a subset of o.
	if !t.mask.And(o.mask.Not()).IsZero() {
		return false
	}

	return t.value.And(o.mask.Not()).Equal(o.value)
}

// Equal reports pointwise equality of value, mask and bottom-ness.
func (t Tnum) Equal(o Tnum) bool {
	if t.IsBottom() || o.IsBottom() {
		return t.IsBottom() == o.IsBottom()
	}

	return t.value.Equal(o.value) && t.mask.Equal(o.mask)
}

// Join computes the least upper bound (|).
func (t Tnum) Join(o Tnum) Tnum {
	if t.IsBottom() {
		return o
	}

	if o.IsBottom() {
		return t
	}

	if t.Leq(o) {
		return o
	}

	if o.Leq(t) {
		return t
	}

	mu := t.mask.Or(o.mask)
	thisKnown := t.value.And(mu.Not())
	oKnown := o.value.And(mu.Not())
	disagree := thisKnown.Xor(oKnown)

	return Tnum{value: thisKnown.And(oKnown), mask: mu.Or(disagree)}
}

// Meet computes the greatest lower bound (&); the result is bottom when the
// known bits of t and o disagree.
func (t Tnum) Meet(o Tnum) Tnum {
	if t.IsBottom() || o.IsBottom() {
		return Bottom(t.rawWidth())
	}

	mu1 := t.mask.And(o.mask)
	mu2 := t.mask.Or(o.mask)
	thisKnownV := t.value.And(mu2.Not())
	oKnownV := o.value.And(mu2.Not())
	disagree := thisKnownV.Xor(oKnownV)

	if !disagree.IsZero() {
		return Bottom(t.rawWidth())
	}

	return Tnum{value: t.value.Or(o.value).And(mu1.Not()), mask: mu1}
}

// Widen is the tnum widening operator (||).  It is non-standard: it detects
// the specific situation where both operands share the same nonzero count
// of trailing-zero (known) low bits and the mask's leading-zero count shrank
// by exactly one bit (i.e. one additional high bit became unknown), and in
// that case keeps only the common known low bits and marks every bit above
// them unknown, a coarser result than plain join.  In every other case it falls
// back to Join.  This matches the source exactly and is preserved as-is: it
// still only grows the mask monotonically and is therefore bounded by the
// bitwidth, so the termination property holds the same way it holds for
// plain join.
func (t Tnum) Widen(o Tnum) Tnum {
	if t.IsBottom() {
		return o
	}

	if o.IsBottom() {
		return t
	}

	w := t.rawWidth()
	trZero := t.mask.CountTrailingZeros()
	ldZero := t.mask.CountLeadingZeros()
	xtrZero := o.mask.CountTrailingZeros()
	xldZero := o.mask.CountLeadingZeros()

	if trZero == xtrZero && ldZero == xldZero+1 && trZero != 0 {
		commonValue := t.value.And(o.value)
		// clear the high (w - trZero) bits of commonValue
		for i := trZero; i < w; i++ {
			commonValue = commonValue.ClearBit(i)
		}

		mask := wrapint.GetUnsignedMax(w)
		// clear the low trZero bits of mask
		for i := uint(0); i < trZero; i++ {
			mask = mask.ClearBit(i)
		}

		return Tnum{value: commonValue, mask: mask}
	}

	return t.Join(o)
}

// WideningThresholds is a stub matching the source: thresholds are not
// implemented, so it simply widens.
func (t Tnum) WideningThresholds(o Tnum, _ []int64) Tnum {
	return t.Widen(o)
}

// Narrow is a stub matching the source: narrowing is not implemented, so it
// simply meets.
func (t Tnum) Narrow(o Tnum) Tnum {
	return t.Meet(o)
}
