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
	"math/big"

	log "github.com/sirupsen/logrus"

	"github.com/gosigned/numdomain/pkg/wrapint"
)

// circleCard returns the number of concrete values a circle denotes.
func circleCard(c Circle, w uint) *big.Int {
	if c.Bottom {
		return big.NewInt(0)
	}

	diff := new(big.Int).Sub(c.End.Big(), c.Start.Big())
	if diff.Sign() < 0 {
		diff.Add(diff, new(big.Int).Lsh(big.NewInt(1), w))
	}

	return diff.Add(diff, big.NewInt(1))
}

// addCircles computes the raw wraparound sum of two circles and routes it
// back through split.  The sum is exact only when the combined cardinality
// does not exceed the whole space; otherwise every wraparound combination is
// reachable and the sound result is top.
func addCircles(a, b Circle, w uint) Witv {
	if a.Bottom || b.Bottom {
		return Bottom(w)
	}

	card := new(big.Int).Add(circleCard(a, w), circleCard(b, w))
	card.Sub(card, big.NewInt(1))

	if card.Cmp(new(big.Int).Lsh(big.NewInt(1), w)) >= 0 {
		return Top(w)
	}

	return split(a.Start.Add(b.Start), a.End.Add(b.End))
}

// subCircles is the same reasoning as addCircles, applied to a-b.
func subCircles(a, b Circle, w uint) Witv {
	if a.Bottom || b.Bottom {
		return Bottom(w)
	}

	card := new(big.Int).Add(circleCard(a, w), circleCard(b, w))
	card.Sub(card, big.NewInt(1))

	if card.Cmp(new(big.Int).Lsh(big.NewInt(1), w)) >= 0 {
		return Top(w)
	}

	return split(a.Start.Sub(b.End), a.End.Sub(b.Start))
}

func joinAll(w uint, results ...Witv) Witv {
	res := Bottom(w)
	for _, r := range results {
		res = res.Join(r)
	}

	return res
}

// Add computes the join of all four circle-pair sums.
func (w Witv) Add(o Witv) Witv {
	width := w.width

	return joinAll(width,
		addCircles(w.C0, o.C0, width), addCircles(w.C0, o.C1, width),
		addCircles(w.C1, o.C0, width), addCircles(w.C1, o.C1, width))
}

// Sub computes the join of all four circle-pair differences.
func (w Witv) Sub(o Witv) Witv {
	width := w.width

	return joinAll(width,
		subCircles(w.C0, o.C0, width), subCircles(w.C0, o.C1, width),
		subCircles(w.C1, o.C0, width), subCircles(w.C1, o.C1, width))
}

// Negate computes -w as 0 - w.
func (w Witv) Negate() Witv {
	if w.IsBottom() || w.IsTop() {
		return w
	}

	return Singleton(wrapint.FromUint64(0, w.width)).Sub(w)
}

// circleSignedBounds returns this circle's endpoints as ordered signed
// mathematical integers.
func circleSignedBounds(c Circle) (lo, hi *big.Int) {
	s, e := c.Start.SignedValue(), c.End.SignedValue()
	if s.Cmp(e) <= 0 {
		return s, e
	}

	return e, s
}

// mulHull multiplies every corner of the two circles' signed bounds and
// rebuilds a wrapped interval from the resulting mathematical hull.  This is
// less precise than a dedicated wraparound multiplication but is sound and
// mirrors the convert-multiply-convert-back technique used by the plain
// mathematical interval domain.
func mulHull(a, b Circle, w uint) Witv {
	if a.Bottom || b.Bottom {
		return Bottom(w)
	}

	alo, ahi := circleSignedBounds(a)
	blo, bhi := circleSignedBounds(b)

	corners := []*big.Int{
		new(big.Int).Mul(alo, blo), new(big.Int).Mul(alo, bhi),
		new(big.Int).Mul(ahi, blo), new(big.Int).Mul(ahi, bhi),
	}

	lo, hi := corners[0], corners[0]
	for _, c := range corners[1:] {
		if c.Cmp(lo) < 0 {
			lo = c
		}

		if c.Cmp(hi) > 0 {
			hi = c
		}
	}

	span := new(big.Int).Sub(hi, lo)
	if span.Cmp(new(big.Int).Lsh(big.NewInt(1), w)) >= 0 {
		return Top(w)
	}

	lbw, err1 := wrapint.NewSigned(lo, w)
	ubw, err2 := wrapint.NewSigned(hi, w)

	if err1 != nil || err2 != nil {
		return Top(w)
	}

	return split(lbw, ubw)
}

// Mul computes the join of the four circle-pair hull products.
func (w Witv) Mul(o Witv) Witv {
	width := w.width

	return joinAll(width,
		mulHull(w.C0, o.C0, width), mulHull(w.C0, o.C1, width),
		mulHull(w.C1, o.C0, width), mulHull(w.C1, o.C1, width))
}

// bitwiseFallback implements the bitwise operators exactly on singletons and
// conservatively (top) otherwise: wrapped intervals carry no per-bit
// structure, so nothing sharper is sound without routing through a separate
// domain such as tnum.
func (w Witv) bitwiseFallback(o Witv, op func(a, b wrapint.Wrapint) wrapint.Wrapint) Witv {
	width := w.width

	if w.IsBottom() || o.IsBottom() {
		return Bottom(width)
	}

	wa, wb, bottom := w.Legacy()
	oa, ob, obottom := o.Legacy()

	if !bottom && !obottom && wa.Equal(wb) && oa.Equal(ob) {
		return Singleton(op(wa, oa))
	}

	return Top(width)
}

// And computes the bitwise conjunction, exact only on singleton operands.
func (w Witv) And(o Witv) Witv { return w.bitwiseFallback(o, wrapint.Wrapint.And) }

// Or computes the bitwise disjunction, exact only on singleton operands.
func (w Witv) Or(o Witv) Witv { return w.bitwiseFallback(o, wrapint.Wrapint.Or) }

// Xor computes the bitwise exclusive-or, exact only on singleton operands.
func (w Witv) Xor(o Witv) Witv { return w.bitwiseFallback(o, wrapint.Wrapint.Xor) }

// Not computes the bitwise complement circle-wise (it is a bijection, so it
// stays exact: complementing reverses and reflects each circle across the
// opposite pole).
func (w Witv) Not() Witv {
	width := w.width

	if w.IsBottom() || w.IsTop() {
		return w
	}

	notC := func(c Circle) Witv {
		if c.Bottom {
			return Bottom(width)
		}

		return split(c.End.Not(), c.Start.Not())
	}

	return notC(w.C0).Join(notC(w.C1))
}

// quadrantDivRem applies a wrapint binary op (division or remainder) to
// every non-bottom pair of circles and joins the results.  Division by a
// singleton is monotonic in the dividend, so that case is resolved exactly
// by applying op to both endpoints of the dividend circle and joining the
// two singleton results; anything less precise than that (range divided by
// range) falls back to top, matching the same conservatism tnum's signed
// division uses for its uncertain cases.
func quadrantDivRem(a, b Witv, op func(x, y wrapint.Wrapint) (wrapint.Wrapint, error)) Witv {
	width := a.width
	res := Bottom(width)

	circlesOf := func(w Witv) []Circle { return []Circle{w.C0, w.C1} }

	for _, ac := range circlesOf(a) {
		if ac.Bottom {
			continue
		}

		for _, bc := range circlesOf(b) {
			if bc.Bottom {
				continue
			}

			if !bc.Start.Equal(bc.End) {
				res = res.Join(Top(width))
				continue
			}

			r0, err0 := op(ac.Start, bc.Start)
			r1, err1 := op(ac.End, bc.Start)

			switch {
			case err0 != nil && err1 != nil:
				continue
			case err0 != nil:
				res = res.Join(Singleton(r1))
			case err1 != nil:
				res = res.Join(Singleton(r0))
			default:
				res = res.Join(Singleton(r0).Join(Singleton(r1)))
			}
		}
	}

	return res
}

// UDiv computes unsigned division.
func (w Witv) UDiv(o Witv) Witv {
	if w.IsBottom() || o.IsBottom() {
		return Bottom(w.width)
	}

	if o.IsSingleton() {
		wa, wb, _ := o.Legacy()
		if wa.Equal(wb) && wa.IsZero() {
			log.Warn("witv: unsigned division by known zero, returning top")
			return Top(w.width)
		}
	}

	return quadrantDivRem(w, o, wrapint.Wrapint.UDiv)
}

// SDiv computes signed division.
func (w Witv) SDiv(o Witv) Witv {
	if w.IsBottom() || o.IsBottom() {
		return Bottom(w.width)
	}

	if o.IsSingleton() {
		wa, wb, _ := o.Legacy()
		if wa.Equal(wb) && wa.IsZero() {
			log.Warn("witv: signed division by known zero, returning top")
			return Top(w.width)
		}

		if wa.Equal(wb) && wa.Equal(wrapint.GetUnsignedMax(w.width)) && w.At(wrapint.GetSignedMin(w.width)) {
			log.Warn("witv: signed minimum divided by -1 overflows, returning top")
			return Top(w.width)
		}
	}

	return quadrantDivRem(w, o, wrapint.Wrapint.SDiv)
}

// URem computes unsigned remainder.
func (w Witv) URem(o Witv) Witv {
	if w.IsBottom() || o.IsBottom() {
		return Bottom(w.width)
	}

	if o.IsSingleton() {
		wa, wb, _ := o.Legacy()
		if wa.Equal(wb) && wa.IsZero() {
			log.Warn("witv: unsigned remainder by known zero, returning top")
			return Top(w.width)
		}
	}

	return quadrantDivRem(w, o, wrapint.Wrapint.URem)
}

// SRem computes signed remainder.
func (w Witv) SRem(o Witv) Witv {
	if w.IsBottom() || o.IsBottom() {
		return Bottom(w.width)
	}

	if o.IsSingleton() {
		wa, wb, _ := o.Legacy()
		if wa.Equal(wb) && wa.IsZero() {
			log.Warn("witv: signed remainder by known zero, returning top")
			return Top(w.width)
		}
	}

	return quadrantDivRem(w, o, wrapint.Wrapint.SRem)
}

// ZExt zero-extends to a larger bitwidth.
func (w Witv) ZExt(newWidth uint) Witv {
	if w.IsBottom() {
		return Bottom(newWidth)
	}

	zext := func(c Circle) Witv {
		if c.Bottom {
			return Bottom(newWidth)
		}

		s, err := c.Start.ZExt(newWidth)
		if err != nil {
			panic(err)
		}

		e, err := c.End.ZExt(newWidth)
		if err != nil {
			panic(err)
		}

		return split(s, e)
	}

	return zext(w.C0).Join(zext(w.C1))
}

// SExt sign-extends to a larger bitwidth.
func (w Witv) SExt(newWidth uint) Witv {
	if w.IsBottom() {
		return Bottom(newWidth)
	}

	sext := func(c Circle) (wrapint.Wrapint, wrapint.Wrapint, bool) {
		if c.Bottom {
			return wrapint.Wrapint{}, wrapint.Wrapint{}, true
		}

		s, err := c.Start.SExt(newWidth)
		if err != nil {
			panic(err)
		}

		e, err := c.End.SExt(newWidth)
		if err != nil {
			panic(err)
		}

		return s, e, false
	}

	res := Bottom(newWidth)

	if s, e, bot := sext(w.C0); !bot {
		res = res.Join(split(s, e))
	}

	if s, e, bot := sext(w.C1); !bot {
		res = res.Join(split(s, e))
	}

	return res
}

// Trunc truncates to a smaller bitwidth, keeping the low bits; truncation
// can map either circle anywhere in the result, so precision is bounded to
// a join over each circle's own truncated hull.
func (w Witv) Trunc(newWidth uint) Witv {
	if w.IsBottom() {
		return Bottom(newWidth)
	}

	trunc := func(c Circle) Witv {
		if c.Bottom {
			return Bottom(newWidth)
		}

		card := circleCard(c, w.width)
		if card.Cmp(new(big.Int).Lsh(big.NewInt(1), newWidth)) >= 0 {
			return Top(newWidth)
		}

		s, err := c.Start.Trunc(newWidth)
		if err != nil {
			panic(err)
		}

		e, err := c.End.Trunc(newWidth)
		if err != nil {
			panic(err)
		}

		return split(s, e)
	}

	return trunc(w.C0).Join(trunc(w.C1))
}

// Shl computes a constant-amount logical left shift per circle.
func (w Witv) Shl(k uint) Witv {
	if w.IsBottom() || w.IsTop() {
		return w
	}

	shiftCircle := func(c Circle) Witv {
		if c.Bottom {
			return Bottom(w.width)
		}

		card := circleCard(c, w.width)
		if card.Cmp(new(big.Int).Lsh(big.NewInt(1), w.width-minUint(k, w.width))) > 0 {
			return Top(w.width)
		}

		return split(c.Start.Shl(k), c.End.Shl(k))
	}

	return shiftCircle(w.C0).Join(shiftCircle(w.C1))
}

func minUint(a, b uint) uint {
	if a < b {
		return a
	}

	return b
}

// LShr computes a constant-amount logical right shift per circle.
func (w Witv) LShr(k uint) Witv {
	if w.IsBottom() || w.IsTop() {
		return w
	}

	shiftCircle := func(c Circle) Witv {
		if c.Bottom {
			return Bottom(w.width)
		}

		return split(c.Start.LShr(k), c.End.LShr(k))
	}

	return shiftCircle(w.C0).Join(shiftCircle(w.C1))
}

// AShr computes a constant-amount arithmetic right shift per circle.
func (w Witv) AShr(k uint) Witv {
	if w.IsBottom() || w.IsTop() {
		return w
	}

	shiftCircle := func(c Circle) Witv {
		if c.Bottom {
			return Bottom(w.width)
		}

		return split(c.Start.AShr(k), c.End.AShr(k))
	}

	return shiftCircle(w.C0).Join(shiftCircle(w.C1))
}
