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

// Package witv implements the split wrapped-interval abstract domain: a
// signedness-agnostic interval on the circular bit-vector space Z/2^w, kept
// internally as two "circles" — circle 0 covering values whose MSB is 0
// (non-negative under signed interpretation, the low half under unsigned),
// circle 1 covering MSB=1 — so that precision is preserved across the
// signed pole. A single-circle ("legacy") view is available as a derived
// accessor; only the split form is stored, per the design note that the
// legacy single-circle widening is known to be imprecise.
//
// Based on the paper "Signedness-Agnostic Program Analysis: Precise Integer
// Bounds for Low-Level Code" by J.A.Navas, P.Schachte, H.Sondergaard, and
// P.J.Stuckey (APLAS'12).
package witv

import (
	"fmt"
	"math/big"

	log "github.com/sirupsen/logrus"

	"github.com/gosigned/numdomain/pkg/wrapint"
)

// Circle holds one half (MSB=0 or MSB=1) of a split wrapped interval.
type Circle struct {
	Start, End wrapint.Wrapint
	Bottom     bool
}

// Witv is an immutable split wrapped interval.
type Witv struct {
	C0, C1 Circle
	width  uint
}

func bottomCircle(w uint) Circle {
	return Circle{Start: wrapint.FromUint64(0, w), End: wrapint.FromUint64(0, w), Bottom: true}
}

// Width returns the bitwidth of this value.
func (w Witv) Width() uint { return w.width }

// Top returns the wrapped interval denoting "any value of width width".
func Top(width uint) Witv {
	return Witv{
		C0:    Circle{Start: wrapint.GetUnsignedMin(width), End: wrapint.GetSignedMax(width)},
		C1:    Circle{Start: wrapint.GetSignedMin(width), End: wrapint.GetUnsignedMax(width)},
		width: width,
	}
}

// Bottom returns the empty wrapped interval.
func Bottom(width uint) Witv {
	return Witv{C0: bottomCircle(width), C1: bottomCircle(width), width: width}
}

// FromCircles constructs a Witv directly from explicit circle bounds,
// bypassing the start/end-to-circle routing split() performs. Used by
// pkg/product to rebuild a value from independently-reduced circles.
func FromCircles(start0, end0, start1, end1 wrapint.Wrapint, width uint) Witv {
	return Witv{C0: Circle{Start: start0, End: end0}, C1: Circle{Start: start1, End: end1}, width: width}
}

// FromCircle0 constructs a Witv whose circle 1 is empty.
func FromCircle0(start0, end0 wrapint.Wrapint, width uint) Witv {
	return Witv{C0: Circle{Start: start0, End: end0}, C1: bottomCircle(width), width: width}
}

// FromCircle1 constructs a Witv whose circle 0 is empty.
func FromCircle1(start1, end1 wrapint.Wrapint, width uint) Witv {
	return Witv{C0: bottomCircle(width), C1: Circle{Start: start1, End: end1}, width: width}
}

// IsBottomC0 reports whether circle 0 is empty.
func (w Witv) IsBottomC0() bool { return w.C0.Bottom }

// IsBottomC1 reports whether circle 1 is empty.
func (w Witv) IsBottomC1() bool { return w.C1.Bottom }

// IsTopC0 reports whether circle 0 spans its entire range.
func (w Witv) IsTopC0() bool {
	return !w.C0.Bottom && w.C0.Start.Equal(wrapint.GetUnsignedMin(w.width)) && w.C0.End.Equal(wrapint.GetSignedMax(w.width))
}

// IsTopC1 reports whether circle 1 spans its entire range.
func (w Witv) IsTopC1() bool {
	return !w.C1.Bottom && w.C1.Start.Equal(wrapint.GetSignedMin(w.width)) && w.C1.End.Equal(wrapint.GetUnsignedMax(w.width))
}

// IsBottom reports whether both circles are empty.
func (w Witv) IsBottom() bool { return w.C0.Bottom && w.C1.Bottom }

// IsTop reports whether both circles span their entire range.
func (w Witv) IsTop() bool { return w.IsTopC0() && w.IsTopC1() }

// split routes a raw (start, end) pair — given as signed-ordered wraparound
// endpoints of a single arc — into the two-circle representation, based on
// the MSB of each endpoint.
func split(start, end wrapint.Wrapint) Witv {
	w := start.Width()
	sm, em := start.Msb(), end.Msb()

	switch {
	case !sm && !em:
		if start.ULe(end) {
			return Witv{C0: Circle{Start: start, End: end}, C1: bottomCircle(w), width: w}
		}

		return Top(w)
	case !sm && em:
		return Witv{
			C0: Circle{Start: start, End: wrapint.GetSignedMax(w)},
			C1: Circle{Start: wrapint.GetSignedMin(w), End: end},
			width: w,
		}
	case sm && !em:
		return Witv{
			C0: Circle{Start: wrapint.GetUnsignedMin(w), End: end},
			C1: Circle{Start: start, End: wrapint.GetUnsignedMax(w)},
			width: w,
		}
	default: // sm && em
		if start.ULe(end) {
			return Witv{C0: bottomCircle(w), C1: Circle{Start: start, End: end}, width: w}
		}

		return Top(w)
	}
}

// Singleton constructs the exact wrapped interval for one concrete wrapint.
func Singleton(n wrapint.Wrapint) Witv {
	w := n.Width()
	if n.Msb() {
		return Witv{C0: bottomCircle(w), C1: Circle{Start: n, End: n}, width: w}
	}

	return Witv{C0: Circle{Start: n, End: n}, C1: bottomCircle(w), width: w}
}

// MkSwinterval constructs the singleton wrapped interval for a mathematical
// integer at width w, returning top (with a warning) if n does not fit.
func MkSwinterval(n *big.Int, w uint) Witv {
	v, err := wrapint.NewSigned(n, w)
	if err != nil {
		log.WithField("width", w).Warn("witv: singleton does not fit bitwidth, returning top")
		return Top(w)
	}

	return Singleton(v)
}

// MkSwintervalRange constructs the wrapped interval spanning [lb, ub],
// returning top (with a warning) if either bound does not fit.
func MkSwintervalRange(lb, ub *big.Int, w uint) Witv {
	lbw, err1 := wrapint.NewSigned(lb, w)
	ubw, err2 := wrapint.NewSigned(ub, w)

	if err1 != nil || err2 != nil {
		log.WithField("width", w).Warn("witv: range bound does not fit bitwidth, returning top")
		return Top(w)
	}

	return split(lbw, ubw)
}

// IsSingleton reports whether exactly one circle is a singleton and the
// other is bottom.
func (w Witv) IsSingleton() bool {
	if w.IsBottom() || w.IsTop() {
		return false
	}

	s0 := !w.C0.Bottom && w.C0.Start.Equal(w.C0.End)
	s1 := !w.C1.Bottom && w.C1.Start.Equal(w.C1.End)

	return (s0 && w.C1.Bottom) || (s1 && w.C0.Bottom)
}

// IsSingletonBothCircle reports whether both circles are simultaneously
// exact singletons, which can arise from range constructions even though a
// plain Singleton only ever populates one circle.
func (w Witv) IsSingletonBothCircle() bool {
	if w.IsBottom() || w.IsTop() {
		return false
	}

	s0 := !w.C0.Bottom && w.C0.Start.Equal(w.C0.End)
	s1 := !w.C1.Bottom && w.C1.Start.Equal(w.C1.End)

	return s0 && s1
}

// At reports circular membership: starting from the circle's start and
// going clockwise, x is encountered before the circle's end.
func (w Witv) At(x wrapint.Wrapint) bool {
	if w.IsBottom() {
		return false
	}

	if w.IsTop() {
		return true
	}

	if x.Msb() {
		if w.C1.Bottom {
			return false
		}

		return w.C1.Start.ULe(x) && x.ULe(w.C1.End)
	}

	if w.C0.Bottom {
		return false
	}

	return w.C0.Start.ULe(x) && x.ULe(w.C0.End)
}

// Legacy derives the single-circle (non-split) view of this interval: the
// convex hull of both circles on the wraparound space, encoding wraparound
// by Start > End.  Retained only because some consumers find it convenient;
// it is strictly less precise than the split form, per the design note that
// a rewrite should keep only the split form internally.
func (w Witv) Legacy() (start, end wrapint.Wrapint, bottom bool) {
	switch {
	case w.IsBottom():
		return wrapint.FromUint64(0, w.width), wrapint.FromUint64(0, w.width), true
	case w.C0.Bottom:
		return w.C1.Start, w.C1.End, false
	case w.C1.Bottom:
		return w.C0.Start, w.C0.End, false
	default:
		return w.C0.Start, w.C1.End, false
	}
}

func (c Circle) String() string {
	if c.Bottom {
		return "_|_"
	}

	return fmt.Sprintf("[%s, %s]", c.Start.String(), c.End.String())
}

func (w Witv) String() string {
	if w.IsBottom() {
		return "_|_"
	}

	if w.IsTop() {
		return "top"
	}

	return fmt.Sprintf("<%s, %s>_%d", w.C0.String(), w.C1.String(), w.width)
}
