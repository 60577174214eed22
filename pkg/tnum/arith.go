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
	log "github.com/sirupsen/logrus"

	"github.com/gosigned/numdomain/pkg/wrapint"
)

func (t Tnum) passthrough(o Tnum) (Tnum, bool) {
	w := t.rawWidth()

	if t.IsBottom() || o.IsBottom() {
		return Bottom(w), true
	}

	if t.IsTop() || o.IsTop() {
		return Top(w), true
	}

	return Tnum{}, false
}

// Add computes t + o using the carry-propagation-from-mask trick: given
// (v1,m1),(v2,m2) let sigma = v1+v2+m1+m2, chi = sigma XOR (v1+v2); the
// result mask is chi | m1 | m2 and the result value is (v1+v2) & ~mask.
func (t Tnum) Add(o Tnum) Tnum {
	if r, ok := t.passthrough(o); ok {
		return r
	}

	sm := t.mask.Add(o.mask)
	sv := t.value.Add(o.value)
	sigma := sm.Add(sv)
	chi := sigma.Xor(sv)
	mu := chi.Or(t.mask).Or(o.mask)

	return Tnum{value: sv.And(mu.Not()), mask: mu}
}

// Sub computes t - o using the symmetric borrow-propagation trick: dv =
// v1-v2, alpha = dv+m1, beta = dv-m2, chi = alpha XOR beta, mask = chi | m1
// | m2.
func (t Tnum) Sub(o Tnum) Tnum {
	if r, ok := t.passthrough(o); ok {
		return r
	}

	dv := t.value.Sub(o.value)
	alpha := dv.Add(t.mask)
	beta := dv.Sub(o.mask)
	chi := alpha.Xor(beta)
	mu := chi.Or(t.mask).Or(o.mask)

	return Tnum{value: dv.And(mu.Not()), mask: mu}
}

// Negate computes -t as 0 - t.
func (t Tnum) Negate() Tnum {
	if t.IsBottom() || t.IsTop() {
		return t
	}

	zero := Singleton(wrapint.FromUint64(0, t.rawWidth()))

	return zero.Sub(t)
}

// Mul computes t * o via bit-by-bit long multiplication over known bits:
// the raw product of the known values forms one term; each bit position of
// t contributes either the full unknown range of o (if that bit of t is
// itself unknown) or o's mask shifted into place (if that bit of t is known
// 1), accumulated as a second mask-only term; the two terms are then
// combined with tnum Add to propagate any resulting carries.
func (t Tnum) Mul(o Tnum) Tnum {
	if r, ok := t.passthrough(o); ok {
		return r
	}

	w := t.rawWidth()
	accV := t.value.Mul(o.value)
	accM := wrapint.FromUint64(0, w)

	thisValue, thisMask := t.value, t.mask
	xValue, xMask := o.value, o.mask

	for i := uint(0); i < w; i++ {
		switch {
		case thisMask.Bit(0) == 1:
			accM = accM.Or(xValue.Or(xMask))
		case thisValue.Bit(0) == 1:
			accM = accM.Or(xMask)
		}

		thisValue = thisValue.LShr(1)
		thisMask = thisMask.LShr(1)
		xValue = xValue.Shl(1)
		xMask = xMask.Shl(1)
	}

	lhs := Tnum{value: accV, mask: wrapint.FromUint64(0, w)}
	rhs := Tnum{value: wrapint.FromUint64(0, w), mask: accM}

	return lhs.Add(rhs)
}

// And computes the bitwise conjunction.
func (t Tnum) And(o Tnum) Tnum {
	if r, ok := t.passthrough(o); ok {
		return r
	}

	alpha := t.value.Or(t.mask)
	beta := o.value.Or(o.mask)
	v := t.value.And(o.value)

	return Tnum{value: v, mask: alpha.And(beta).And(v.Not())}
}

// Or computes the bitwise disjunction.
func (t Tnum) Or(o Tnum) Tnum {
	if r, ok := t.passthrough(o); ok {
		return r
	}

	v := t.value.Or(o.value)
	mu := t.mask.Or(o.mask)

	return Tnum{value: v, mask: mu.And(v.Not())}
}

// Xor computes the bitwise exclusive-or.
func (t Tnum) Xor(o Tnum) Tnum {
	if r, ok := t.passthrough(o); ok {
		return r
	}

	v := t.value.Xor(o.value)
	mu := t.mask.Or(o.mask)

	return Tnum{value: v.And(mu.Not()), mask: mu}
}

// Not computes the bitwise complement.
func (t Tnum) Not() Tnum {
	if t.IsBottom() || t.IsTop() {
		return t
	}

	return Tnum{value: t.value.Xor(t.mask).Not(), mask: t.mask}
}

// divComputeLowBit refines the low bits of a quotient bound Known using the
// trailing-zero counts of LHS and RHS; marked "not exact" in the source but
// still a sound refinement.
func divComputeLowBit(known Tnum, lhs, rhs Tnum) Tnum {
	w := lhs.rawWidth()
	minTZ := int(lhs.CountMinTrailingZeros()) - int(rhs.CountMaxTrailingZeros())
	maxTZ := int(lhs.CountMaxTrailingZeros()) - int(rhs.CountMinTrailingZeros())

	if minTZ >= 0 {
		v, m := known.value, known.mask

		for i := uint(0); i < uint(minTZ) && i < w; i++ {
			v = v.ClearBit(i)
			m = m.ClearBit(i)
		}

		known = Tnum{value: v, mask: m}

		if minTZ == maxTZ && uint(minTZ) < w {
			known = Tnum{value: known.value.SetBit(uint(minTZ)), mask: known.mask.ClearBit(uint(minTZ))}
		}
	}

	return known
}

// remGetLowBits bounds the low bits of LHS % RHS when RHS is known-even:
// with q the minimum trailing-zero count of RHS, the q lowest bits of the
// remainder equal those of LHS, and every higher bit is left unknown.
func remGetLowBits(lhs, rhs Tnum) Tnum {
	w := lhs.rawWidth()

	if rhs.value.Bit(0) == 0 && rhs.mask.Bit(0) == 0 {
		qzero := rhs.CountMinTrailingZeros()
		if qzero != 0 {
			one := wrapint.FromUint64(1, w)
			lowMask := one.Shl(qzero).Sub(one)

			return Tnum{value: lhs.value.And(lowMask), mask: lhs.mask.And(lowMask).Or(lowMask.Not())}
		}
	}

	return Top(w)
}

// UDiv computes unsigned division.
func (t Tnum) UDiv(o Tnum) Tnum {
	w := t.rawWidth()

	if r, ok := t.passthrough(o); ok {
		return r
	}

	if o.value.IsZero() && o.mask.IsZero() {
		log.Warn("tnum: unsigned division by known zero, returning top")
		return Top(w)
	}

	divisor := o.value
	if divisor.IsZero() {
		divisor = wrapint.FromUint64(1, w)
	}

	maxRes, err := t.value.Add(t.mask).UDiv(divisor)
	if err != nil {
		return Top(w)
	}

	leadZ := maxRes.CountLeadingZeros()
	res := Top(w)

	for i := uint(0); i < leadZ; i++ {
		res = Tnum{value: res.value, mask: res.mask.ClearBit(w - 1 - i)}
	}

	if leadZ == w {
		return res
	}

	return divComputeLowBit(res, t, o)
}

// signedDiv is the per-circle helper used by SDiv.  When either operand has
// an unknown bit it uses unsigned division if both operands are
// non-negative and returns top otherwise; two fully known operands are
// divided exactly.
func (t Tnum) signedDiv(o Tnum) Tnum {
	w := t.rawWidth()

	if !t.mask.IsZero() || !o.mask.IsZero() {
		if t.IsNonNegative() && o.IsNonNegative() {
			return t.UDiv(o)
		}

		return Top(w)
	}

	q, err := t.value.SDiv(o.value)
	if err != nil {
		return Top(w)
	}

	return Singleton(q)
}

// SDiv computes signed division as the join of the four sign-quadrant
// results, handling the zero divisor recoverably.
func (t Tnum) SDiv(o Tnum) Tnum {
	w := t.rawWidth()

	if r, ok := t.passthrough(o); ok {
		return r
	}

	if o.value.IsZero() && o.mask.IsZero() {
		log.Warn("tnum: signed division by known zero, returning top")
		return Top(w)
	}

	if t.mask.IsZero() && o.mask.IsZero() {
		q, err := t.value.SDiv(o.value)
		if err != nil {
			return Top(w)
		}

		return Singleton(q)
	}

	t0, t1 := t.GetZeroCircle(), t.GetOneCircle()
	x0, x1 := o.GetZeroCircle(), o.GetOneCircle()

	res := Bottom(w)
	for _, pair := range [][2]Tnum{{t0, x0}, {t0, x1}, {t1, x0}, {t1, x1}} {
		if pair[0].IsBottom() || pair[1].IsBottom() {
			continue
		}

		res = res.Join(pair[0].signedDiv(pair[1]))
	}

	return res
}

// URem computes unsigned remainder via LHS - (LHS/RHS)*RHS when the quotient
// narrows to a singleton, otherwise bounds the result by RHS's magnitude.
func (t Tnum) URem(o Tnum) Tnum {
	w := t.rawWidth()

	if r, ok := t.passthrough(o); ok {
		return r
	}

	if o.value.IsZero() && o.mask.IsZero() {
		log.Warn("tnum: unsigned remainder by known zero, returning top")
		return Top(w)
	}

	if t.mask.IsZero() && o.mask.IsZero() {
		rem, err := t.value.URem(o.value)
		if err != nil {
			return Top(w)
		}

		return Singleton(rem)
	}

	res := remGetLowBits(t, o)
	leadZ := t.CountMinLeadingZeros()
	if xz := o.CountMinLeadingZeros(); xz > leadZ {
		leadZ = xz
	}

	for i := uint(0); i < leadZ; i++ {
		res = Tnum{value: res.value, mask: res.mask.ClearBit(w - 1 - i)}
	}

	return res
}

// SRem computes signed remainder analogously to URem.
func (t Tnum) SRem(o Tnum) Tnum {
	w := t.rawWidth()

	if r, ok := t.passthrough(o); ok {
		return r
	}

	if o.value.IsZero() && o.mask.IsZero() {
		log.Warn("tnum: signed remainder by known zero, returning top")
		return Top(w)
	}

	if t.mask.IsZero() && o.mask.IsZero() {
		rem, err := t.value.SRem(o.value)
		if err != nil {
			return Top(w)
		}

		return Singleton(rem)
	}

	res := remGetLowBits(t, o)
	leadZ := t.CountMinLeadingZeros()

	for i := uint(0); i < leadZ; i++ {
		res = Tnum{value: res.value, mask: res.mask.ClearBit(w - 1 - i)}
	}

	return res
}

// ZExt zero-extends t to a larger bitwidth.
func (t Tnum) ZExt(newWidth uint) Tnum {
	if t.IsBottom() {
		return Bottom(newWidth)
	}

	v, err := t.value.ZExt(newWidth)
	if err != nil {
		panic(err)
	}

	m, err := t.mask.ZExt(newWidth)
	if err != nil {
		panic(err)
	}

	return Tnum{value: v, mask: m}
}

// SExt sign-extends t to a larger bitwidth, replicating the top bit's
// known-status.
func (t Tnum) SExt(newWidth uint) Tnum {
	if t.IsBottom() {
		return Bottom(newWidth)
	}

	v, err := t.value.SExt(newWidth)
	if err != nil {
		panic(err)
	}

	m, err := t.mask.SExt(newWidth)
	if err != nil {
		panic(err)
	}

	return Tnum{value: v, mask: m}
}

// Trunc truncates t to a smaller bitwidth, keeping the low bits.
func (t Tnum) Trunc(newWidth uint) Tnum {
	if t.IsBottom() {
		return Bottom(newWidth)
	}

	v, err := t.value.Trunc(newWidth)
	if err != nil {
		panic(err)
	}

	m, err := t.mask.Trunc(newWidth)
	if err != nil {
		panic(err)
	}

	return Tnum{value: v, mask: m}
}

// Shl computes a constant-amount logical left shift.
func (t Tnum) Shl(k uint) Tnum {
	if t.IsBottom() || t.IsTop() {
		return t
	}

	return Tnum{value: t.value.Shl(k), mask: t.mask.Shl(k)}
}

// LShr computes a constant-amount logical right shift.
func (t Tnum) LShr(k uint) Tnum {
	if t.IsBottom() || t.IsTop() {
		return t
	}

	return Tnum{value: t.value.LShr(k), mask: t.mask.LShr(k)}
}

// AShr computes a constant-amount arithmetic right shift, with three cases
// depending on the known-status and value of the sign bit.
func (t Tnum) AShr(k uint) Tnum {
	if t.IsBottom() || t.IsTop() {
		return t
	}

	switch {
	case !t.value.Msb() && !t.mask.Msb():
		return Tnum{value: t.value.LShr(k), mask: t.mask.LShr(k)}
	case t.value.Msb() && !t.mask.Msb():
		return Tnum{value: t.value.AShr(k), mask: t.mask.LShr(k)}
	default: // mask.Msb()
		return Tnum{value: t.value.LShr(k), mask: t.mask.AShr(k)}
	}
}

// shiftBound reads o as a small shift amount bound, clipped to the
// bitwidth, used by the variable-amount shift operators below.
func shiftBound(o Tnum, w uint) (min, max uint) {
	if o.IsTop() {
		return 0, w
	}

	lo := o.GetUnsignedMinValue().Big()
	hi := o.GetUnsignedMaxValue().Big()

	min = uint(lo.Uint64())
	if hi.Uint64() > uint64(w) {
		max = w
	} else {
		max = uint(hi.Uint64())
	}

	return min, max
}

// variableShift folds the unknown-shift-amount case into a join over every
// shift count the amount could take, skipping counts the amount tnum
// excludes, and conservatively returning top when there are too many
// disjuncts to enumerate (a simplification of the source's tighter
// max-result bound, but equally sound).
func variableShift(t, o Tnum, w uint, by func(Tnum, uint) Tnum) Tnum {
	if t.IsBottom() || o.IsBottom() {
		return Bottom(w)
	}

	if o.IsSingleton() {
		return by(t, uint(o.Value().Uint64()))
	}

	lo, hi := shiftBound(o, w)
	if hi-lo > 8 {
		return Top(w)
	}

	res := Bottom(w)

	for i := lo; i <= hi; i++ {
		amount := wrapint.FromUint64(uint64(i), w)
		if !o.At(amount) {
			continue
		}

		res = res.Join(by(t, i))
	}

	return res
}

// ShlVar computes a variable-amount logical left shift.
func (t Tnum) ShlVar(o Tnum) Tnum {
	return variableShift(t, o, t.rawWidth(), Tnum.Shl)
}

// LShrVar computes a variable-amount logical right shift.
func (t Tnum) LShrVar(o Tnum) Tnum {
	return variableShift(t, o, t.rawWidth(), Tnum.LShr)
}

// AShrVar computes a variable-amount arithmetic right shift.
func (t Tnum) AShrVar(o Tnum) Tnum {
	return variableShift(t, o, t.rawWidth(), Tnum.AShr)
}
