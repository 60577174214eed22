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
package witv

import (
	"github.com/gosigned/numdomain/pkg/interval"
	"github.com/gosigned/numdomain/pkg/wrapint"
)

// GetSignedMaxValue returns the greatest value under signed interpretation.
func (w Witv) GetSignedMaxValue() wrapint.Wrapint {
	switch {
	case !w.C0.Bottom:
		return w.C0.End
	case !w.C1.Bottom:
		return w.C1.End
	default:
		return wrapint.GetSignedMax(w.width)
	}
}

// GetSignedMinValue returns the least value under signed interpretation.
func (w Witv) GetSignedMinValue() wrapint.Wrapint {
	switch {
	case !w.C1.Bottom:
		return w.C1.Start
	case !w.C0.Bottom:
		return w.C0.Start
	default:
		return wrapint.GetSignedMin(w.width)
	}
}

// GetUnsignedMaxValue returns the greatest value under unsigned
// interpretation: circle 1 (MSB=1) always dominates circle 0 when present.
func (w Witv) GetUnsignedMaxValue() wrapint.Wrapint {
	switch {
	case !w.C1.Bottom:
		return w.C1.End
	case !w.C0.Bottom:
		return w.C0.End
	default:
		return wrapint.GetUnsignedMax(w.width)
	}
}

// GetUnsignedMinValue returns the least value under unsigned interpretation:
// circle 0 always dominates circle 1 when present.
func (w Witv) GetUnsignedMinValue() wrapint.Wrapint {
	switch {
	case !w.C0.Bottom:
		return w.C0.Start
	case !w.C1.Bottom:
		return w.C1.Start
	default:
		return wrapint.GetUnsignedMin(w.width)
	}
}

// ToInterval computes the smallest mathematical interval (signed,
// unbounded) containing every concretization of w.
func (w Witv) ToInterval() interval.Interval {
	if w.IsBottom() {
		return interval.Bottom()
	}

	if w.IsTop() {
		return interval.Top()
	}

	return interval.FromBig(w.GetSignedMinValue().SignedValue(), w.GetSignedMaxValue().SignedValue())
}

// LowerHalfLine returns the wrapped interval covering every value less than
// or equal to x, under the requested signedness.
func LowerHalfLine(x wrapint.Wrapint, isSigned bool) Witv {
	w := x.Width()
	if isSigned {
		return split(wrapint.GetSignedMin(w), x)
	}

	return split(wrapint.GetUnsignedMin(w), x)
}

// UpperHalfLine returns the wrapped interval covering every value greater
// than or equal to x, under the requested signedness.
func UpperHalfLine(x wrapint.Wrapint, isSigned bool) Witv {
	w := x.Width()
	if isSigned {
		return split(x, wrapint.GetSignedMax(w))
	}

	return split(x, wrapint.GetUnsignedMax(w))
}

func boundOfMinWitv(x Witv, w uint, isSigned bool) (wrapint.Wrapint, bool) {
	if x.IsBottom() {
		return wrapint.Wrapint{}, true
	}

	if x.IsTop() {
		if isSigned {
			return wrapint.GetSignedMin(w), false
		}

		return wrapint.GetUnsignedMin(w), false
	}

	if isSigned {
		return x.GetSignedMinValue(), false
	}

	return x.GetUnsignedMinValue(), false
}

func boundOfMaxWitv(x Witv, w uint, isSigned bool) (wrapint.Wrapint, bool) {
	if x.IsBottom() {
		return wrapint.Wrapint{}, true
	}

	if x.IsTop() {
		if isSigned {
			return wrapint.GetSignedMax(w), false
		}

		return wrapint.GetUnsignedMax(w), false
	}

	if isSigned {
		return x.GetSignedMaxValue(), false
	}

	return x.GetUnsignedMaxValue(), false
}

// LowerHalfLine2 is the two-argument form used by the constraint solver: it
// returns the portion of w consistent with the bound "w >= lowerBoundOf(x)",
// computed by meeting w with the half-line built from x's witness bound.
func (w Witv) LowerHalfLine2(x Witv, isSigned bool) Witv {
	if w.IsBottom() {
		return w
	}

	width := w.width

	xmin, bot := boundOfMinWitv(x, width, isSigned)
	if bot {
		return Bottom(width)
	}

	var bound Witv
	if isSigned {
		bound = split(xmin, wrapint.GetSignedMax(width))
	} else {
		bound = split(xmin, wrapint.GetUnsignedMax(width))
	}

	return w.Meet(bound)
}

// UpperHalfLine2 mirrors LowerHalfLine2 for the bound "w <= upperBoundOf(x)".
func (w Witv) UpperHalfLine2(x Witv, isSigned bool) Witv {
	if w.IsBottom() {
		return w
	}

	width := w.width

	xmax, bot := boundOfMaxWitv(x, width, isSigned)
	if bot {
		return Bottom(width)
	}

	var bound Witv
	if isSigned {
		bound = split(wrapint.GetSignedMin(width), xmax)
	} else {
		bound = split(wrapint.GetUnsignedMin(width), xmax)
	}

	return w.Meet(bound)
}

// Trim removes the exact point pt from w when pt is a singleton matching one
// of w's circle endpoints, shrinking that circle inward by one step; used by
// the constraint solver to sharpen a disequation. Interior points (neither
// endpoint) cannot be excluded without splitting a circle in two, which this
// representation does not support, so w is returned unchanged in that case.
func (w Witv) Trim(pt Witv) Witv {
	if w.IsBottom() || w.IsTop() {
		return w
	}

	if !pt.IsSingleton() {
		return w
	}

	if w.Equal(pt) {
		return Bottom(w.width)
	}

	var v wrapint.Wrapint
	if !pt.C0.Bottom {
		v = pt.C0.Start
	} else {
		v = pt.C1.Start
	}

	c0 := trimCircle(w.C0, v, w.width)
	c1 := trimCircle(w.C1, v, w.width)

	if c0.Bottom && c1.Bottom {
		return Bottom(w.width)
	}

	return Witv{C0: c0, C1: c1, width: w.width}
}

func trimCircle(c Circle, v wrapint.Wrapint, width uint) Circle {
	if c.Bottom {
		return c
	}

	one := wrapint.FromUint64(1, width)

	if c.Start.Equal(c.End) {
		if c.Start.Equal(v) {
			return bottomCircle(width)
		}

		return c
	}

	switch {
	case c.Start.Equal(v):
		return Circle{Start: c.Start.Add(one), End: c.End}
	case c.End.Equal(v):
		return Circle{Start: c.Start, End: c.End.Sub(one)}
	default:
		return c
	}
}
