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

// Package tnum implements the "known bits" abstract domain: a pair
// (value, mask) of equal-bitwidth wrapping integers where bit i is known
// iff mask_i = 0, and its value is value_i.  The concretization of a tnum t
// is gamma(t) = { x : x & ~mask == value & ~mask }.
//
// Based on the paper "Signedness-Agnostic Program Analysis: Precise Integer
// Bounds for Low-Level Code" by J.A.Navas, P.Schachte, H.Sondergaard, and
// P.J.Stuckey (APLAS'12).
package tnum

import (
	"fmt"
	"math/big"

	log "github.com/sirupsen/logrus"

	"github.com/gosigned/numdomain/pkg/wrapint"
)

// Tnum is an immutable known-bits value.  The zero value is not meaningful;
// use Top or Bottom to construct one.
type Tnum struct {
	value  wrapint.Wrapint
	mask   wrapint.Wrapint
	bottom bool
}

// Width returns the bitwidth of this tnum.  Panics (BitwidthFromVacuous) if
// called on top or bottom, matching the source's get_bitwidth contract.
func (t Tnum) Width() uint {
	if t.bottom || t.IsTop() {
		panic("tnum: bitwidth requested from top or bottom value")
	}

	return t.value.Width()
}

// rawWidth returns the bitwidth without the top/bottom guard, for internal
// use by operators that must work uniformly across all cases.
func (t Tnum) rawWidth() uint { return t.value.Width() }

// Bitwidth returns the bitwidth without panicking on top or bottom,
// unlike Width.  Cross-package callers (stnum, product) that need a width
// even from an otherwise-opaque top/bottom tnum should use this instead.
func (t Tnum) Bitwidth() uint { return t.rawWidth() }

// Value returns the known-bits value.  Panics if top.
func (t Tnum) Value() wrapint.Wrapint {
	if t.IsTop() {
		panic("tnum: value requested from top")
	}

	return t.value
}

// Mask returns the unknown-bit mask.  Panics if top.
func (t Tnum) Mask() wrapint.Wrapint {
	if t.IsTop() {
		panic("tnum: mask requested from top")
	}

	return t.mask
}

// New constructs a tnum from an explicit value/mask pair.  The tnum is
// bottom when the invariant value & mask == 0 is violated (known bits
// cannot also be unknown).
func New(value, mask wrapint.Wrapint) Tnum {
	if value.Width() != mask.Width() {
		panic(fmt.Sprintf("tnum: bitwidth mismatch %d vs %d", value.Width(), mask.Width()))
	}

	if !value.And(mask).IsZero() {
		return Bottom(value.Width())
	}

	return Tnum{value: value, mask: mask}
}

// Singleton constructs the exact tnum for one concrete wrapint.
func Singleton(n wrapint.Wrapint) Tnum {
	return Tnum{value: n, mask: wrapint.FromUint64(0, n.Width())}
}

// Top returns the tnum representing "any value of width w".
func Top(w uint) Tnum {
	return Tnum{value: wrapint.FromUint64(0, w), mask: wrapint.GetUnsignedMax(w)}
}

// Bottom returns the empty tnum of width w.
func Bottom(w uint) Tnum {
	return Tnum{value: wrapint.FromUint64(0, w), mask: wrapint.FromUint64(0, w), bottom: true}
}

// IsBottom reports emptiness, re-checking the value&mask invariant as a
// self-detecting guard (mirrors the source's defensive is_bottom()).
func (t Tnum) IsBottom() bool {
	return t.bottom || !t.value.And(t.mask).IsZero()
}

// IsTop reports whether every bit is unknown.
func (t Tnum) IsTop() bool {
	return !t.bottom && t.value.IsZero() && t.mask.Equal(wrapint.GetUnsignedMax(t.value.Width()))
}

// FromRange constructs the smallest tnum containing every value between min
// and max inclusive (unsigned order), via the longest-common-prefix
// construction: the bits where min and max first differ, and every bit
// below that, are marked unknown.
func FromRange(min, max wrapint.Wrapint) Tnum {
	w := min.Width()
	if max.ULt(min) {
		return Bottom(w)
	}

	chi := min.Xor(max)
	bits := chi.Fls()

	var delta wrapint.Wrapint
	if bits == 0 {
		delta = wrapint.FromUint64(0, w)
	} else {
		one := wrapint.FromUint64(1, w)
		delta = one.Shl(bits).Sub(one)
	}

	value := min.And(delta.Not())

	return Tnum{value: value, mask: delta}
}

// MkTnum constructs the tnum for a single mathematical integer at width w,
// returning top (with a warning) if n does not fit.
func MkTnum(n *big.Int, w uint) Tnum {
	v, err := wrapint.NewSigned(n, w)
	if err != nil {
		log.WithField("width", w).Warn("tnum: singleton does not fit bitwidth, returning top")
		return Top(w)
	}

	return Singleton(v)
}

// MkTnumRange constructs the smallest tnum containing every mathematical
// integer in [lb, ub], returning top (with a warning) if either bound does
// not fit.  When lb and ub disagree in sign, the range is split at the
// unsigned pole into a non-negative and a negative half and joined, to avoid
// producing an overly coarse single tnum.
func MkTnumRange(lb, ub *big.Int, w uint) Tnum {
	lbw, err1 := wrapint.NewSigned(lb, w)
	ubw, err2 := wrapint.NewSigned(ub, w)

	if err1 != nil || err2 != nil {
		log.WithField("width", w).Warn("tnum: range bound does not fit bitwidth, returning top")
		return Top(w)
	}

	if lb.Sign() < 0 == (ub.Sign() < 0) {
		return FromRange(lbw, ubw)
	}

	zero := wrapint.FromUint64(0, w)
	pos := FromRange(zero, ubw)
	neg := FromRange(lbw, wrapint.GetUnsignedMax(w))

	return pos.Join(neg)
}

// Trim removes the exact point pt from t when t is already known to equal
// pt, collapsing to bottom; used by the constraint solver to sharpen a
// disequation once the other side of "x != pt" is pinned to a singleton.
// This is sound only when the caller knows no wraparound is in play (it is
// valid over unbounded integers, not modular arithmetic) — matching the
// source's own "sound only over z_number" caveat. In every other case t is
// returned unchanged, since a known-bits abstraction cannot otherwise
// exclude a single interior point without losing its bit structure.
func (t Tnum) Trim(pt Tnum) Tnum {
	if t.IsBottom() || t.IsTop() {
		return t
	}

	if !pt.IsSingleton() {
		return t
	}

	if t.Equal(pt) {
		return Bottom(t.rawWidth())
	}

	return t
}

// TrimZero is Trim specialised to the point zero.
func (t Tnum) TrimZero() Tnum {
	return t.Trim(Singleton(wrapint.FromUint64(0, t.rawWidth())))
}

func (t Tnum) String() string {
	if t.IsBottom() {
		return "_|_"
	}

	if t.IsTop() {
		return "top"
	}

	return fmt.Sprintf("(%s, %s)_%d", t.value.String(), t.mask.String(), t.rawWidth())
}
