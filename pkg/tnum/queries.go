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

import (
	"github.com/gosigned/numdomain/pkg/interval"
	"github.com/gosigned/numdomain/pkg/wrapint"
)

// CountMinTrailingZeros returns the minimum number of trailing zero bits any
// concrete value of t could have.
func (t Tnum) CountMinTrailingZeros() uint {
	return t.value.Add(t.mask).CountTrailingZeros()
}

// CountMaxTrailingZeros returns the maximum number of trailing zero bits any
// concrete value of t could have.
func (t Tnum) CountMaxTrailingZeros() uint {
	return t.value.CountTrailingZeros()
}

// CountMinLeadingZeros returns the minimum number of leading zero bits any
// concrete value of t could have.
func (t Tnum) CountMinLeadingZeros() uint {
	return t.value.Add(t.mask).CountLeadingZeros()
}

// CountMaxLeadingZeros returns the maximum number of leading zero bits any
// concrete value of t could have.
func (t Tnum) CountMaxLeadingZeros() uint {
	return t.value.CountLeadingZeros()
}

// GetSignedMaxValue returns the maximum signed value in gamma(t).
func (t Tnum) GetSignedMaxValue() wrapint.Wrapint {
	w := t.rawWidth()
	max := t.value.Add(t.mask)

	if t.mask.Msb() {
		max = max.ClearBit(w - 1)
	}

	return max
}

// GetSignedMinValue returns the minimum signed value in gamma(t).
func (t Tnum) GetSignedMinValue() wrapint.Wrapint {
	w := t.rawWidth()
	min := t.value

	if t.mask.Msb() {
		min = min.SetBit(w - 1)
	}

	return min
}

// GetUnsignedMaxValue returns the maximum unsigned value in gamma(t).
func (t Tnum) GetUnsignedMaxValue() wrapint.Wrapint {
	return t.value.Add(t.mask)
}

// GetUnsignedMinValue returns the minimum unsigned value in gamma(t).
func (t Tnum) GetUnsignedMinValue() wrapint.Wrapint {
	return t.value
}

// GetZeroCircle projects t onto the MSB=0 (non-negative under signed
// interpretation) half, returning bottom if t cannot contain such a value.
func (t Tnum) GetZeroCircle() Tnum {
	if t.value.Msb() {
		return Bottom(t.rawWidth())
	}

	if t.mask.Msb() {
		return Tnum{value: t.value, mask: t.mask.ClearBit(t.rawWidth() - 1)}
	}

	return t
}

// GetOneCircle projects t onto the MSB=1 half, returning bottom if t cannot
// contain such a value.
func (t Tnum) GetOneCircle() Tnum {
	if t.value.Msb() {
		return t
	}

	if t.mask.Msb() {
		w := t.rawWidth()
		return Tnum{value: t.value.SetBit(w - 1), mask: t.mask.ClearBit(w - 1)}
	}

	return Bottom(t.rawWidth())
}

// IsNegative reports whether every concrete value is strictly negative.
func (t Tnum) IsNegative() bool { return t.value.Msb() && !t.mask.Msb() }

// IsNonNegative reports whether every concrete value is non-negative.
func (t Tnum) IsNonNegative() bool { return !t.value.Msb() && !t.mask.Msb() }

// IsZero reports whether t is the exact singleton zero.
func (t Tnum) IsZero() bool { return t.value.IsZero() && t.mask.IsZero() }

// IsPositive reports whether every concrete value is strictly positive.
func (t Tnum) IsPositive() bool { return t.IsNonNegative() && !t.value.IsZero() }

// IsSingleton reports whether t denotes exactly one concrete value.
func (t Tnum) IsSingleton() bool {
	return !t.IsBottom() && !t.IsTop() && t.mask.IsZero()
}

// At reports whether x is a member of gamma(t).
func (t Tnum) At(x wrapint.Wrapint) bool {
	if t.IsBottom() {
		return false
	}

	if t.IsTop() {
		return true
	}

	return t.value.Equal(x.And(t.mask.Not()))
}

// ToInterval converts t into a mathematical interval using the signed
// interpretation, splitting across the signed pole precisely when the mask's
// top bit is unknown.
func (t Tnum) ToInterval() interval.Interval {
	if t.IsBottom() {
		return interval.Bottom()
	}

	if t.IsTop() {
		return interval.Top()
	}

	w := t.rawWidth()

	if t.mask.Msb() {
		negMax := wrapint.GetSignedMin(w).Or(t.value)
		posMax := wrapint.GetSignedMax(w).And(t.value.Add(t.mask))

		return interval.FromBig(negMax.SignedValue(), posMax.SignedValue())
	}

	return interval.FromBig(t.value.SignedValue(), t.value.Add(t.mask).SignedValue())
}

// LowerHalfLine is the imprecise single-argument form: it is not used by the
// constraint solver (see the two-argument form below) and conservatively
// returns top whenever t is neither bottom nor top, matching the source.
func (t Tnum) LowerHalfLine(_ bool) Tnum {
	if t.IsBottom() {
		return t
	}

	if t.IsTop() {
		return t
	}

	return Top(t.rawWidth())
}

// UpperHalfLine mirrors LowerHalfLine.
func (t Tnum) UpperHalfLine(_ bool) Tnum {
	return t.LowerHalfLine(false)
}

// boundOfMin extracts a lower-bound witness from x: unsigned or signed minimum
// when x is top, bottom when x is bottom, else x's (signed) minimum value —
// matching the source, which always uses the signed minimum regardless of
// is_signed when x is a concrete tnum.
func boundOfMin(x Tnum, w uint, isSigned bool) (wrapint.Wrapint, bool) {
	if x.IsBottom() {
		return wrapint.Wrapint{}, true
	}

	if x.IsTop() {
		if isSigned {
			return wrapint.GetSignedMin(w), false
		}

		return wrapint.GetUnsignedMin(w), false
	}

	return x.GetSignedMinValue(), false
}

func boundOfMax(x Tnum, w uint, isSigned bool) (wrapint.Wrapint, bool) {
	if x.IsBottom() {
		return wrapint.Wrapint{}, true
	}

	if x.IsTop() {
		if isSigned {
			return wrapint.GetSignedMax(w), false
		}

		return wrapint.GetUnsignedMax(w), false
	}

	return x.GetSignedMaxValue(), false
}

// splitRange builds the tnum spanning [lb, ub] (signed-ordered bounds),
// splitting across the unsigned pole into a non-negative and a negative half
// (joined together) when lb and ub disagree in sign.
func splitRange(lb, ub wrapint.Wrapint) Tnum {
	w := lb.Width()

	if lb.Msb() == ub.Msb() {
		return FromRange(wrapint.Min(lb, ub), wrapint.Max(lb, ub))
	}

	zero := wrapint.FromUint64(0, w)
	pos := FromRange(zero, ub)
	neg := FromRange(lb, wrapint.GetUnsignedMax(w))

	return pos.Join(neg)
}

// LowerHalfLine2 is the two-argument form used by the constraint solver: it
// returns the portion of t consistent with the bound "t >= lowerBoundOf(x)".
func (t Tnum) LowerHalfLine2(x Tnum, isSigned bool) Tnum {
	if t.IsBottom() {
		return t
	}

	w := t.rawWidth()

	xmin, bot := boundOfMin(x, w, isSigned)
	if bot {
		return Bottom(w)
	}

	if isSigned {
		max := t.GetSignedMaxValue()
		if max.SignedValue().Cmp(xmin.SignedValue()) < 0 {
			return Bottom(w)
		}

		return splitRange(xmin, max)
	}

	max := t.value.Add(t.mask)
	if xmin.ULt(max) || xmin.Equal(max) {
		return FromRange(xmin, max)
	}

	return Bottom(w)
}

// UpperHalfLine2 is the two-argument form used by the constraint solver: it
// returns the portion of t consistent with the bound "t <= upperBoundOf(x)".
func (t Tnum) UpperHalfLine2(x Tnum, isSigned bool) Tnum {
	if t.IsBottom() {
		return t
	}

	w := t.rawWidth()

	xmax, bot := boundOfMax(x, w, isSigned)
	if bot {
		return Bottom(w)
	}

	if isSigned {
		min := t.GetSignedMinValue()
		if min.SignedValue().Cmp(xmax.SignedValue()) > 0 {
			return Bottom(w)
		}

		return splitRange(min, xmax)
	}

	min := t.value
	if min.ULe(xmax) {
		return FromRange(min, xmax)
	}

	return Bottom(w)
}
