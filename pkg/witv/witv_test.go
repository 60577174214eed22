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
package witv_test

import (
	"math/big"
	"testing"

	"github.com/gosigned/numdomain/pkg/util/assert"
	"github.com/gosigned/numdomain/pkg/witv"
	"github.com/gosigned/numdomain/pkg/wrapint"
)

// TestE2WidenTerminates is end-to-end scenario E2: widening an interval
// against itself must be a no-op (no runaway growth).
func TestE2WidenTerminates(t *testing.T) {
	wi1 := witv.MkSwintervalRange(big.NewInt(-127), big.NewInt(1), 8)
	wi2 := wi1

	got := wi1.Widen(wi2)
	iv := got.ToInterval()

	assert.True(t, iv.Contains(-127), "expected -127 in %v", got)
	assert.True(t, iv.Contains(1), "expected 1 in %v", got)
	assert.False(t, iv.Contains(-128), "widen against self must not grow: got %v", got)
	assert.False(t, iv.Contains(2), "widen against self must not grow: got %v", got)
}

// TestE3SDivBySingleton is end-to-end scenario E3: swrapped[[4,7]]_4 divided
// by the singleton 2 yields swrapped[[2,3]]_4.
func TestE3SDivBySingleton(t *testing.T) {
	wi := witv.MkSwintervalRange(big.NewInt(4), big.NewInt(7), 4)
	ki := witv.MkSwinterval(big.NewInt(2), 4)

	got := wi.SDiv(ki)
	want := witv.MkSwintervalRange(big.NewInt(2), big.NewInt(3), 4)

	assert.True(t, got.Equal(want), "E3: got %v want %v", got, want)
}

// TestDivideByKnownZeroReturnsTop covers the DivideByZero recoverable error
// path for all four division/remainder operators: dividing or taking the
// remainder by the exact singleton zero must return top, not bottom, so a
// single known-zero divisor never collapses an otherwise-reachable state.
func TestDivideByKnownZeroReturnsTop(t *testing.T) {
	five := witv.MkSwinterval(big.NewInt(5), 8)
	zero := witv.MkSwinterval(big.NewInt(0), 8)
	top := witv.Top(8)

	assert.True(t, five.UDiv(zero).Equal(top), "UDiv by known zero must be top")
	assert.True(t, five.SDiv(zero).Equal(top), "SDiv by known zero must be top")
	assert.True(t, five.URem(zero).Equal(top), "URem by known zero must be top")
	assert.True(t, five.SRem(zero).Equal(top), "SRem by known zero must be top")
}

// TestE5Truncate is end-to-end scenario E5: swrapped[[0,0]]_8 truncated to
// 1 bit yields the swrapped singleton 0 at width 1.
func TestE5Truncate(t *testing.T) {
	wi := witv.MkSwinterval(big.NewInt(0), 8)

	got := wi.Trunc(1)
	want := witv.Singleton(wrapint.FromUint64(0, 1))

	assert.True(t, got.Equal(want), "E5: got %v want %v", got, want)
}

func TestTopBottomRoundtrip(t *testing.T) {
	top := witv.Top(8)
	assert.True(t, top.IsTop())
	assert.True(t, top.Leq(top))

	bot := witv.Bottom(8)
	assert.True(t, bot.IsBottom())
	assert.True(t, bot.Leq(top))
}

func TestJoinMeetSingletons(t *testing.T) {
	a := witv.Singleton(wrapint.FromUint64(3, 8))
	b := witv.Singleton(wrapint.FromUint64(5, 8))

	j := a.Join(b)
	assert.True(t, j.At(wrapint.FromUint64(3, 8)))
	assert.True(t, j.At(wrapint.FromUint64(4, 8)))
	assert.True(t, j.At(wrapint.FromUint64(5, 8)))

	assert.True(t, a.Meet(b).IsBottom())
}

func TestAddWraps(t *testing.T) {
	a := witv.MkSwinterval(big.NewInt(-1), 8)
	b := witv.MkSwinterval(big.NewInt(1), 8)

	got := a.Add(b)
	want := witv.Singleton(wrapint.FromUint64(0, 8))

	assert.True(t, got.Equal(want), "got %v want %v", got, want)
}
