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

// Package stnum implements the split tnum: a pair of ordinary tnums, one
// constrained to the MSB=0 circle and one to the MSB=1 circle, mirroring
// pkg/witv's split representation but for the known-bits domain instead of
// the interval domain. A normalize step re-routes bits back to their proper
// circle after any operation that might move a value across the sign pole.
//
// Based on the paper "Signedness-Agnostic Program Analysis: Precise Integer
// Bounds for Low-Level Code" by J.A.Navas, P.Schachte, H.Sondergaard, and
// P.J.Stuckey (APLAS'12).
package stnum

import (
	"fmt"
	"math/big"

	log "github.com/sirupsen/logrus"

	"github.com/gosigned/numdomain/pkg/interval"
	"github.com/gosigned/numdomain/pkg/tnum"
	"github.com/gosigned/numdomain/pkg/wrapint"
)

// Stnum is an immutable split known-bits value.
type Stnum struct {
	T0, T1 tnum.Tnum
	width  uint
}

func top0(w uint) tnum.Tnum { return tnum.New(wrapint.GetUnsignedMin(w), wrapint.GetSignedMax(w)) }
func top1(w uint) tnum.Tnum { return tnum.New(wrapint.GetSignedMin(w), wrapint.GetSignedMax(w)) }

// Width returns the bitwidth of this value.
func (s Stnum) Width() uint { return s.width }

// Top returns the stnum denoting "any value of width w".
func Top(w uint) Stnum { return Stnum{T0: top0(w), T1: top1(w), width: w} }

// Bottom returns the empty stnum of width w.
func Bottom(w uint) Stnum { return Stnum{T0: tnum.Bottom(w), T1: tnum.Bottom(w), width: w} }

// IsBottomC0 reports whether circle 0 is empty.
func (s Stnum) IsBottomC0() bool { return s.T0.IsBottom() }

// IsBottomC1 reports whether circle 1 is empty.
func (s Stnum) IsBottomC1() bool { return s.T1.IsBottom() }

// IsTopC0 reports whether circle 0 spans its entire range.
func (s Stnum) IsTopC0() bool { return !s.T0.IsBottom() && s.T0.Equal(top0(s.width)) }

// IsTopC1 reports whether circle 1 spans its entire range.
func (s Stnum) IsTopC1() bool { return !s.T1.IsBottom() && s.T1.Equal(top1(s.width)) }

// IsBottom reports whether both circles are empty.
func (s Stnum) IsBottom() bool { return s.IsBottomC0() && s.IsBottomC1() }

// IsTop reports whether both circles span their entire range.
func (s Stnum) IsTop() bool { return s.IsTopC0() && s.IsTopC1() }

// Normalize rebuilds an stnum from two plain tnums that may each straddle
// both circles (e.g. the result of an arithmetic operation performed before
// re-routing), projecting each onto its zero/one circle and joining the
// projections that land in the same circle.
func Normalize(a, b tnum.Tnum) Stnum {
	w := a.Bitwidth()

	switch {
	case a.IsBottom() && b.IsBottom():
		return Bottom(w)
	case a.IsTop() || b.IsTop():
		return Top(w)
	case a.IsBottom():
		return Stnum{T0: b.GetZeroCircle(), T1: b.GetOneCircle(), width: w}
	case b.IsBottom():
		return Stnum{T0: a.GetZeroCircle(), T1: a.GetOneCircle(), width: w}
	default:
		return Stnum{
			T0:    a.GetZeroCircle().Join(b.GetZeroCircle()),
			T1:    a.GetOneCircle().Join(b.GetOneCircle()),
			width: w,
		}
	}
}

// FromTnums constructs an Stnum directly from an already-separated
// (circle0, circle1) tnum pair. Used by pkg/product to rebuild a value from
// independently-reduced circles.
func FromTnums(t0, t1 tnum.Tnum, width uint) Stnum {
	return Stnum{T0: t0, T1: t1, width: width}
}

// ConstructFromTnum builds an stnum from a single plain tnum by projecting
// it onto both circles.
func ConstructFromTnum(a tnum.Tnum) Stnum {
	w := a.Bitwidth()

	if a.IsBottom() {
		return Bottom(w)
	}

	if a.IsTop() {
		return Top(w)
	}

	return Stnum{T0: a.GetZeroCircle(), T1: a.GetOneCircle(), width: w}
}

// MkStnum constructs the exact stnum for one mathematical integer at width
// w, returning top (with a warning) if n does not fit.
func MkStnum(n *big.Int, w uint) Stnum {
	v, err := wrapint.NewSigned(n, w)
	if err != nil {
		log.WithField("width", w).Warn("stnum: singleton does not fit bitwidth, returning top")
		return Top(w)
	}

	if v.Msb() {
		return Stnum{T0: tnum.Bottom(w), T1: tnum.Singleton(v), width: w}
	}

	return Stnum{T0: tnum.Singleton(v), T1: tnum.Bottom(w), width: w}
}

// MkStnumRange constructs the smallest stnum containing every mathematical
// integer in [lb, ub], returning top (with a warning) if either bound does
// not fit.
func MkStnumRange(lb, ub *big.Int, w uint) Stnum {
	lbw, err1 := wrapint.NewSigned(lb, w)
	ubw, err2 := wrapint.NewSigned(ub, w)

	if err1 != nil || err2 != nil {
		log.WithField("width", w).Warn("stnum: range bound does not fit bitwidth, returning top")
		return Top(w)
	}

	if lb.Sign() < 0 == (ub.Sign() < 0) {
		t := tnum.FromRange(wrapint.Min(lbw, ubw), wrapint.Max(lbw, ubw))
		if lbw.Msb() {
			return Stnum{T0: tnum.Bottom(w), T1: t, width: w}
		}

		return Stnum{T0: t, T1: tnum.Bottom(w), width: w}
	}

	zero := wrapint.FromUint64(0, w)
	pos := tnum.FromRange(zero, ubw)
	neg := tnum.FromRange(lbw, wrapint.GetUnsignedMax(w))

	return Stnum{T0: pos, T1: neg, width: w}
}

// GetSignedMaxValue returns the greatest value under signed interpretation.
func (s Stnum) GetSignedMaxValue() wrapint.Wrapint {
	switch {
	case !s.IsBottomC0():
		return s.T0.GetUnsignedMaxValue()
	case !s.IsBottomC1():
		return s.T1.GetUnsignedMaxValue()
	default:
		panic("stnum: getSignedMaxValue called on bottom")
	}
}

// GetSignedMinValue returns the least value under signed interpretation.
func (s Stnum) GetSignedMinValue() wrapint.Wrapint {
	switch {
	case !s.IsBottomC1():
		return s.T1.GetUnsignedMinValue()
	case !s.IsBottomC0():
		return s.T0.GetUnsignedMinValue()
	default:
		panic("stnum: getSignedMinValue called on bottom")
	}
}

// GetUnsignedMaxValue returns the greatest value under unsigned
// interpretation.
func (s Stnum) GetUnsignedMaxValue() wrapint.Wrapint {
	switch {
	case !s.IsBottomC1():
		return s.T1.GetUnsignedMaxValue()
	case !s.IsBottomC0():
		return s.T0.GetUnsignedMaxValue()
	default:
		panic("stnum: getUnsignedMaxValue called on bottom")
	}
}

// GetUnsignedMinValue returns the least value under unsigned interpretation.
func (s Stnum) GetUnsignedMinValue() wrapint.Wrapint {
	switch {
	case !s.IsBottomC0():
		return s.T0.GetUnsignedMinValue()
	case !s.IsBottomC1():
		return s.T1.GetUnsignedMinValue()
	default:
		panic("stnum: getUnsignedMinValue called on bottom")
	}
}

// IsNegative reports whether every concrete value is strictly negative.
func (s Stnum) IsNegative() bool { return s.IsBottomC0() && !s.IsBottomC1() }

// IsNonNegative reports whether every concrete value is non-negative.
func (s Stnum) IsNonNegative() bool { return !s.IsBottomC0() && s.IsBottomC1() }

// IsZero reports whether s is the exact singleton zero.
func (s Stnum) IsZero() bool { return s.IsBottomC1() && s.T0.IsZero() }

// IsPositive reports whether every concrete value is strictly positive.
func (s Stnum) IsPositive() bool {
	return s.IsBottomC1() && !s.IsBottomC0() && s.T0.IsPositive()
}

// IsSingleton reports whether s denotes exactly one concrete value.
func (s Stnum) IsSingleton() bool {
	if s.T0.IsSingleton() && s.IsBottomC1() {
		return true
	}

	return s.T1.IsSingleton() && s.IsBottomC0()
}

// At reports whether x is a member of gamma(s).
func (s Stnum) At(x wrapint.Wrapint) bool {
	if s.IsBottom() {
		return false
	}

	if s.IsTop() {
		return true
	}

	if x.Msb() {
		return s.T1.At(x)
	}

	return s.T0.At(x)
}

// ToInterval computes the smallest mathematical interval containing every
// concretization of s.
func (s Stnum) ToInterval() interval.Interval {
	if s.IsBottom() {
		return interval.Bottom()
	}

	if s.IsTop() {
		return interval.Top()
	}

	return s.T0.ToInterval().Union(s.T1.ToInterval())
}

func (s Stnum) String() string {
	if s.IsBottom() {
		return "_|_"
	}

	if s.IsTop() {
		return "top"
	}

	return fmt.Sprintf("{%s, %s}", s.T0.String(), s.T1.String())
}
