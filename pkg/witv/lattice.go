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

	"github.com/gosigned/numdomain/pkg/wrapint"
)

// Leq is the pointwise subset order, checked independently per circle.
func (w Witv) Leq(o Witv) bool {
	return leqOneCircle(w.C0, w.IsBottomC0(), w.IsTopC0(), o.C0, o.IsBottomC0(), o.IsTopC0()) &&
		leqOneCircle(w.C1, w.IsBottomC1(), w.IsTopC1(), o.C1, o.IsBottomC1(), o.IsTopC1())
}

func leqOneCircle(a Circle, aBottom, aTop bool, b Circle, bBottom, bTop bool) bool {
	switch {
	case bTop || aBottom:
		return true
	case bBottom || aTop:
		return false
	default:
		return b.Start.ULe(a.Start) && a.End.ULe(b.End)
	}
}

// Equal reports pointwise equality of both circles.
func (w Witv) Equal(o Witv) bool {
	return circleEqual(w.C0, o.C0) && circleEqual(w.C1, o.C1)
}

func circleEqual(a, b Circle) bool {
	if a.Bottom || b.Bottom {
		return a.Bottom == b.Bottom
	}

	return a.Start.Equal(b.Start) && a.End.Equal(b.End)
}

// Join computes the convex hull per circle (the least upper bound).
func (w Witv) Join(o Witv) Witv {
	res := Top(w.width)

	res.C0 = joinCircle(w.C0, o.C0, w.IsTopC0(), o.IsTopC0(), res.C0)
	res.C1 = joinCircle(w.C1, o.C1, w.IsTopC1(), o.IsTopC1(), res.C1)

	return res
}

func joinCircle(a, b Circle, aTop, bTop bool, top Circle) Circle {
	switch {
	case a.Bottom && b.Bottom:
		return Circle{Bottom: true, Start: a.Start, End: a.End}
	case a.Bottom:
		return b
	case b.Bottom:
		return a
	case !aTop && !bTop:
		return Circle{Start: wrapint.Min(a.Start, b.Start), End: wrapint.Max(a.End, b.End)}
	default:
		return top
	}
}

// Meet computes the per-circle intersection (the greatest lower bound).
func (w Witv) Meet(o Witv) Witv {
	return Witv{
		C0:    meetCircle(w.C0, o.C0, w.IsTopC0(), o.IsTopC0()),
		C1:    meetCircle(w.C1, o.C1, w.IsTopC1(), o.IsTopC1()),
		width: w.width,
	}
}

func meetCircle(a, b Circle, aTop, bTop bool) Circle {
	if a.Bottom || b.Bottom {
		return Circle{Bottom: true, Start: a.Start, End: a.End}
	}

	var s, e wrapint.Wrapint

	switch {
	case aTop:
		s, e = b.Start, b.End
	case bTop:
		s, e = a.Start, a.End
	default:
		s, e = wrapint.Max(a.Start, b.Start), wrapint.Min(a.End, b.End)
	}

	if s.ULe(e) {
		return Circle{Start: s, End: e}
	}

	return Circle{Bottom: true, Start: a.Start, End: a.End}
}

func minBig(a, b *big.Int) *big.Int {
	if a.Cmp(b) <= 0 {
		return a
	}

	return b
}

func maxBig(a, b *big.Int) *big.Int {
	if a.Cmp(b) >= 0 {
		return a
	}

	return b
}

// widenCircle implements the "extrapolate by doubling the gap up to the
// pole" policy: if the new bound already fits inside the old one, nothing
// changes; if it grows cleanly off one end, the gap at that end is doubled
// and clamped at the circle's pole; if it grows off both ends, the same
// doubling is applied from the old start.  Anything else falls back to the
// plain join hull, which is still sound and still strictly widens.
func widenCircle(thisC, xC Circle, lowPole, highPole *big.Int, w uint) Circle {
	if thisC.Bottom && xC.Bottom {
		return Circle{Bottom: true}
	}

	if thisC.Bottom {
		return xC
	}

	if xC.Bottom {
		return thisC
	}

	ts, te := thisC.Start.Big(), thisC.End.Big()
	xs, xe := xC.Start.Big(), xC.End.Big()

	isTop := func(s, e *big.Int) bool { return s.Cmp(lowPole) == 0 && e.Cmp(highPole) == 0 }

	if isTop(ts, te) {
		return thisC
	}

	if isTop(xs, xe) {
		sw, _ := wrapint.New(lowPole, w)
		ew, _ := wrapint.New(highPole, w)

		return Circle{Start: sw, End: ew}
	}

	if ts.Cmp(xs) <= 0 && xe.Cmp(te) <= 0 {
		return thisC
	}

	joinStart := minBig(ts, xs)
	joinEnd := maxBig(te, xe)

	var newStart, newEnd *big.Int

	switch {
	case joinStart.Cmp(ts) == 0 && joinEnd.Cmp(xe) == 0:
		gap := new(big.Int).Sub(te, ts)
		cand := new(big.Int).Add(te, gap)
		cand.Add(cand, big.NewInt(1))

		newStart = ts
		if cand.Cmp(highPole) >= 0 {
			newEnd = new(big.Int).Set(highPole)
		} else {
			newEnd = maxBig(joinEnd, cand)
		}
	case joinStart.Cmp(xs) == 0 && joinEnd.Cmp(te) == 0:
		gap := new(big.Int).Sub(te, ts)
		cand := new(big.Int).Sub(ts, gap)
		cand.Sub(cand, big.NewInt(1))

		newEnd = te
		if cand.Cmp(lowPole) <= 0 {
			newStart = new(big.Int).Set(lowPole)
		} else {
			newStart = minBig(joinStart, cand)
		}
	case xs.Cmp(ts) < 0 && xe.Cmp(te) > 0:
		gap := new(big.Int).Sub(te, ts)
		cand := new(big.Int).Add(gap, gap)
		cand.Add(cand, big.NewInt(1))

		newEnd = new(big.Int).Add(ts, cand)
		if newEnd.Cmp(highPole) > 0 {
			newEnd = new(big.Int).Set(highPole)
		}

		newStart = xs
	default:
		newStart, newEnd = joinStart, joinEnd
	}

	sw, _ := wrapint.New(newStart, w)
	ew, _ := wrapint.New(newEnd, w)

	return Circle{Start: sw, End: ew}
}

// Widen is the wrapped-interval widening operator, applied independently per
// circle.  Termination is guaranteed because each circle's width is bounded
// by 2^(w-1) and every non-trivial extrapolation at least doubles the gap.
func (w Witv) Widen(o Witv) Witv {
	width := w.width

	c0 := widenCircle(w.C0, o.C0, big.NewInt(0), wrapint.GetSignedMax(width).Big(), width)
	c1 := widenCircle(w.C1, o.C1, wrapint.GetSignedMin(width).Big(), wrapint.GetUnsignedMax(width).Big(), width)

	return Witv{C0: c0, C1: c1, width: width}
}

// WideningThresholds is a stub matching the source: thresholds are not
// implemented, so it simply widens.
func (w Witv) WideningThresholds(o Witv, _ []int64) Witv {
	return w.Widen(o)
}

// Narrow is a stub matching the source: narrowing is not implemented, so it
// simply meets.
func (w Witv) Narrow(o Witv) Witv {
	return w.Meet(o)
}
