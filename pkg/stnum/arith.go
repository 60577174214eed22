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
package stnum

import (
	log "github.com/sirupsen/logrus"

	"github.com/gosigned/numdomain/pkg/tnum"
)

// Add computes s + o, routing all four circle-pair combinations through
// Normalize to re-project the sums onto their proper circle.
func (s Stnum) Add(o Stnum) Stnum {
	if s.IsBottom() || o.IsBottom() {
		return Bottom(s.width)
	}

	t00 := s.T0.Add(o.T0)
	t11 := s.T1.Add(o.T1)
	t01 := s.T0.Add(o.T1)
	t10 := s.T1.Add(o.T0)

	return Normalize(t00, t11).Join(Normalize(t01, t10))
}

// Negate computes -s.
func (s Stnum) Negate() Stnum {
	if s.IsBottom() {
		return Bottom(s.width)
	}

	return Normalize(s.T0.Negate(), s.T1.Negate())
}

// Sub computes s - o.
func (s Stnum) Sub(o Stnum) Stnum {
	if s.IsBottom() || o.IsBottom() {
		return Bottom(s.width)
	}

	t00 := s.T0.Sub(o.T0)
	t11 := s.T1.Sub(o.T1)
	t01 := s.T0.Sub(o.T1)
	t10 := s.T1.Sub(o.T0)

	return Normalize(t01, t10).Join(Normalize(t00, t11))
}

// Not computes the bitwise complement.  Complementing swaps the circles: the
// complement of a non-negative value always has its sign bit set, and
// vice-versa.
func (s Stnum) Not() Stnum {
	if s.IsBottom() {
		return Bottom(s.width)
	}

	return Stnum{T0: s.T1.Not(), T1: s.T0.Not(), width: s.width}
}

// Mul computes s * o.
func (s Stnum) Mul(o Stnum) Stnum {
	if s.IsBottom() || o.IsBottom() {
		return Bottom(s.width)
	}

	t00 := s.T0.Mul(o.T0)
	t11 := s.T1.Mul(o.T1)
	t01 := s.T0.Mul(o.T1)
	t10 := s.T1.Mul(o.T0)

	return Normalize(t00.Join(t11), t01.Join(t10))
}

// SDiv computes signed division, using the same combo grouping as Mul.
func (s Stnum) SDiv(o Stnum) Stnum {
	if s.IsBottom() || o.IsBottom() {
		return Bottom(s.width)
	}

	t00 := s.T0.SDiv(o.T0)
	t11 := s.T1.SDiv(o.T1)
	t01 := s.T0.SDiv(o.T1)
	t10 := s.T1.SDiv(o.T0)

	return Normalize(t00.Join(t11), t01.Join(t10))
}

// UDiv computes unsigned division.  The combo grouping is asymmetric:
// unsigned division treats every combo except circle1-divided-by-circle0 as
// landing back in circle 0, since an unsigned quotient can only be negative
// (land in circle 1) when the dividend is interpreted as a large unsigned
// magnitude (circle 1) and the divisor stays small (circle 0).
func (s Stnum) UDiv(o Stnum) Stnum {
	if s.IsBottom() || o.IsBottom() {
		return Bottom(s.width)
	}

	t00 := s.T0.UDiv(o.T0)
	t11 := s.T1.UDiv(o.T1)
	t01 := s.T0.UDiv(o.T1)
	t10 := s.T1.UDiv(o.T0)

	return Normalize(t00.Join(t01).Join(t11), t10)
}

// SRem computes the signed remainder.  A divisor that is exactly zero is
// caught here before delegating and logged with the stnum's width; the
// per-circle tnum calls would also return top for it, logging their own
// warning without the width.
func (s Stnum) SRem(o Stnum) Stnum {
	if s.IsBottom() || o.IsBottom() {
		return Bottom(s.width)
	}

	if !o.IsBottomC0() && o.T0.IsZero() && o.IsBottomC1() {
		log.WithField("width", s.width).Warn("stnum: SRem by zero, returning top")
		return Top(s.width)
	}

	t00 := s.T0.SRem(o.T0)
	t11 := s.T1.SRem(o.T1)
	t01 := s.T0.SRem(o.T1)
	t10 := s.T1.SRem(o.T0)

	return Normalize(t00.Join(t01), t10.Join(t11))
}

// URem computes the unsigned remainder, with the same asymmetric combo
// grouping rationale as UDiv.
func (s Stnum) URem(o Stnum) Stnum {
	if s.IsBottom() || o.IsBottom() {
		return Bottom(s.width)
	}

	if !o.IsBottomC0() && o.T0.IsZero() && o.IsBottomC1() {
		log.WithField("width", s.width).Warn("stnum: URem by zero, returning top")
		return Top(s.width)
	}

	t00 := s.T0.URem(o.T0)
	t11 := s.T1.URem(o.T1)
	t01 := s.T0.URem(o.T1)
	t10 := s.T1.URem(o.T0)

	return Normalize(t00.Join(t01).Join(t10), t11)
}

// ZExt zero-extends s to a wider bitwidth.  Zero extension can never
// produce a negative result under the new, wider width, so both circles
// collapse into circle 0 of the result.
func (s Stnum) ZExt(newWidth uint) Stnum {
	if s.IsBottom() {
		return Bottom(newWidth)
	}

	var merged tnum.Tnum

	switch {
	case s.IsBottomC0():
		merged = s.T1.ZExt(newWidth)
	case s.IsBottomC1():
		merged = s.T0.ZExt(newWidth)
	default:
		merged = s.T0.ZExt(newWidth).Join(s.T1.ZExt(newWidth))
	}

	return Stnum{T0: merged, T1: tnum.Bottom(newWidth), width: newWidth}
}

// SExt sign-extends s to a wider bitwidth.  Each circle keeps its sign, so
// the circles are extended independently without re-normalizing.
func (s Stnum) SExt(newWidth uint) Stnum {
	if s.IsBottom() {
		return Bottom(newWidth)
	}

	return Stnum{T0: s.T0.SExt(newWidth), T1: s.T1.SExt(newWidth), width: newWidth}
}

// Trunc truncates s to a narrower bitwidth circle by circle, then
// re-routes the results through Normalize, since the new most significant
// bit need not match the circle a value came from.
func (s Stnum) Trunc(newWidth uint) Stnum {
	if s.IsBottom() {
		return Bottom(newWidth)
	}

	return Normalize(s.T0.Trunc(newWidth), s.T1.Trunc(newWidth))
}

// Shl computes s shifted left by the constant k.  It handles only values
// whose circle 1 is empty: when s may be negative it logs a warning and
// returns top.
func (s Stnum) Shl(k uint) Stnum {
	if s.IsBottom() {
		return Bottom(s.width)
	}

	if !s.IsBottomC1() {
		log.WithField("width", s.width).Warn("stnum: Shl with negative-interpreted circle, returning top")
		return Top(s.width)
	}

	return Normalize(s.T0.Shl(k), tnum.Bottom(s.width))
}

// LShr computes the logical right shift of s by the constant k.  A logical
// shift by k >= 1 clears the sign bit, so both circles merge into circle 0
// of the result; with k = 0 Normalize routes the values back to their own
// circles.
func (s Stnum) LShr(k uint) Stnum {
	if s.IsBottom() {
		return Bottom(s.width)
	}

	var merged tnum.Tnum

	switch {
	case s.IsBottomC0():
		merged = s.T1.LShr(k)
	case s.IsBottomC1():
		merged = s.T0.LShr(k)
	default:
		merged = s.T0.LShr(k).Join(s.T1.LShr(k))
	}

	return Normalize(merged, tnum.Bottom(s.width))
}

// AShr computes the arithmetic right shift of s by the constant k,
// independently per circle since the sign bit is preserved by definition.
func (s Stnum) AShr(k uint) Stnum {
	if s.IsBottom() {
		return Bottom(s.width)
	}

	return Stnum{T0: s.T0.AShr(k), T1: s.T1.AShr(k), width: s.width}
}

// And computes the bitwise conjunction.  The sign of a conjunction is
// non-negative unless both operands are negative, so only the circle1/circle1
// combo can land in circle 1; every other combo lands in circle 0.
func (s Stnum) And(o Stnum) Stnum {
	if s.IsBottom() || o.IsBottom() {
		return Bottom(s.width)
	}

	t00 := s.T0.And(o.T0)
	t11 := s.T1.And(o.T1)
	t01 := s.T0.And(o.T1)
	t10 := s.T1.And(o.T0)

	return Normalize(t00.Join(t01).Join(t10), t11)
}

// Or computes the bitwise disjunction.  The sign of a disjunction is
// negative whenever either operand is negative, so only the circle0/circle0
// combo can land in circle 0; every other combo lands in circle 1.
func (s Stnum) Or(o Stnum) Stnum {
	if s.IsBottom() || o.IsBottom() {
		return Bottom(s.width)
	}

	t00 := s.T0.Or(o.T0)
	t11 := s.T1.Or(o.T1)
	t01 := s.T0.Or(o.T1)
	t10 := s.T1.Or(o.T0)

	return Normalize(t00, t01.Join(t10).Join(t11))
}

// Xor computes the bitwise exclusive-or.  The sign of an exclusive-or is
// negative exactly when the operand signs disagree, so the same-sign combos
// land in circle 0 and the differing-sign combos land in circle 1.
func (s Stnum) Xor(o Stnum) Stnum {
	if s.IsBottom() || o.IsBottom() {
		return Bottom(s.width)
	}

	t00 := s.T0.Xor(o.T0)
	t11 := s.T1.Xor(o.T1)
	t01 := s.T0.Xor(o.T1)
	t10 := s.T1.Xor(o.T0)

	return Normalize(t00.Join(t11), t01.Join(t10))
}
