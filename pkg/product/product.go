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

// Package product implements the reduced product between the wrapped
// interval (pkg/witv) and split known-bits (pkg/stnum) abstractions of the
// same variable: after either side changes, ReduceVariable lets each circle
// mutually tighten the other, so bounds learned by one domain sharpen the
// bit pattern known by the other and vice versa.
package product

import (
	"github.com/gosigned/numdomain/pkg/stnum"
	"github.com/gosigned/numdomain/pkg/tnum"
	"github.com/gosigned/numdomain/pkg/witv"
	"github.com/gosigned/numdomain/pkg/wrapint"
)

// ReduceVariable tightens sw and st against each other, circle by circle,
// until no more mutual information can be extracted in one pass. It is
// idempotent: calling it again on its own output is a no-op.
func ReduceVariable(sw witv.Witv, st stnum.Stnum) (witv.Witv, stnum.Stnum) {
	if sw.IsBottom() || st.IsBottom() {
		w := sw.Width()
		return witv.Bottom(w), stnum.Bottom(w)
	}

	width := sw.Width()

	swTop, stTop := sw.IsTop(), st.IsTop()
	if swTop && stTop {
		return sw, st
	}

	var start0, end0, start1, end1 wrapint.Wrapint

	var st0, st1 tnum.Tnum

	switch {
	case swTop && !stTop:
		width = st.Width()

		t := witv.Top(width)
		start0, end0 = t.C0.Start, t.C0.End
		start1, end1 = t.C1.Start, t.C1.End
		st0, st1 = st.T0, st.T1
	case !swTop && stTop:
		start0, end0 = sw.C0.Start, sw.C0.End
		start1, end1 = sw.C1.Start, sw.C1.End

		top := stnum.Top(width)
		st0, st1 = top.T0, top.T1
	default:
		start0, end0 = sw.C0.Start, sw.C0.End
		start1, end1 = sw.C1.Start, sw.C1.End
		st0, st1 = st.T0, st.T1
	}

	bottom0 := sw.IsBottomC0() || st.IsBottomC0()
	bottom1 := sw.IsBottomC1() || st.IsBottomC1()

	if !bottom0 {
		var ok bool

		start0, end0, st0, ok = reduceCircle(start0, end0, st0)
		if !ok {
			bottom0 = true
		}
	}

	if !bottom1 {
		var ok bool

		start1, end1, st1, ok = reduceCircle(start1, end1, st1)
		if !ok {
			bottom1 = true
		}
	}

	if bottom0 && bottom1 {
		return witv.Bottom(width), stnum.Bottom(width)
	}

	newSw := reconstructWitv(width, start0, end0, bottom0, start1, end1, bottom1)
	newSt := reconstructStnum(width, st0, bottom0, st1, bottom1)

	return newSw, newSt
}

// reduceCircle tightens one circle's (start, end) bound pair against its
// tnum bit pattern and vice versa, per the numbered steps:
//  1. tighten the range by the tnum's min/max,
//  2. recompute the tnum of the new range and meet it with the existing one,
//  3. re-tighten the range by the refined tnum's bounds.
//
// ok is false when the two sides contradict (the meet in step 2 collapses
// to bottom).
func reduceCircle(start, end wrapint.Wrapint, t tnum.Tnum) (wrapint.Wrapint, wrapint.Wrapint, tnum.Tnum, bool) {
	start, end = tightenRangeByTnum(start, end, t)

	rangeTnum := tnum.FromRange(start, end)
	if !t.Equal(rangeTnum) {
		t = t.Meet(rangeTnum)
	}

	if t.IsBottom() {
		return start, end, t, false
	}

	start, end = tightenRangeByTnum(start, end, t)

	return start, end, t, true
}

func tightenRangeByTnum(start, end wrapint.Wrapint, t tnum.Tnum) (wrapint.Wrapint, wrapint.Wrapint) {
	tMin := t.Value()
	tMax := t.Value().Or(t.Mask())

	if start.ULt(tMin) {
		start = tMin
	}

	if tMax.ULt(end) {
		end = tMax
	}

	return start, end
}

func reconstructWitv(width uint, start0, end0 wrapint.Wrapint, bottom0 bool, start1, end1 wrapint.Wrapint, bottom1 bool) witv.Witv {
	switch {
	case bottom0 && bottom1:
		return witv.Bottom(width)
	case bottom0:
		return witv.FromCircle1(start1, end1, width)
	case bottom1:
		return witv.FromCircle0(start0, end0, width)
	default:
		return witv.FromCircles(start0, end0, start1, end1, width)
	}
}

func reconstructStnum(width uint, t0 tnum.Tnum, bottom0 bool, t1 tnum.Tnum, bottom1 bool) stnum.Stnum {
	if bottom0 {
		t0 = tnum.Bottom(width)
	}

	if bottom1 {
		t1 = tnum.Bottom(width)
	}

	return stnum.FromTnums(t0, t1, width)
}
