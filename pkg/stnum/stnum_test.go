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
package stnum_test

import (
	"math/big"
	"testing"

	"github.com/gosigned/numdomain/pkg/stnum"
	"github.com/gosigned/numdomain/pkg/util/assert"
	"github.com/gosigned/numdomain/pkg/wrapint"
)

func TestTopBottomRoundtrip(t *testing.T) {
	top := stnum.Top(8)
	assert.True(t, top.IsTop())
	assert.True(t, top.Leq(top))

	bot := stnum.Bottom(8)
	assert.True(t, bot.IsBottom())
	assert.True(t, bot.Leq(top))
}

func TestMkStnumCirclePlacement(t *testing.T) {
	pos := stnum.MkStnum(big.NewInt(5), 8)
	assert.True(t, pos.IsNonNegative())
	assert.True(t, pos.At(wrapint.FromUint64(5, 8)))

	neg := stnum.MkStnum(big.NewInt(-5), 8)
	assert.True(t, neg.IsNegative())
	assert.True(t, neg.At(wrapint.FromInt64(-5, 8)))
}

func TestMkStnumRangeCrossSign(t *testing.T) {
	s := stnum.MkStnumRange(big.NewInt(-2), big.NewInt(2), 8)

	for _, v := range []int64{-2, -1, 0, 1, 2} {
		assert.True(t, s.At(wrapint.FromInt64(v, 8)), "expected %d in %v", v, s)
	}
}

func TestJoinMeetSingletons(t *testing.T) {
	a := stnum.MkStnum(big.NewInt(3), 8)
	b := stnum.MkStnum(big.NewInt(5), 8)

	j := a.Join(b)
	assert.True(t, j.At(wrapint.FromUint64(3, 8)))
	assert.True(t, j.At(wrapint.FromUint64(5, 8)))

	assert.True(t, a.Meet(b).IsBottom())
}

func TestAddAcrossPole(t *testing.T) {
	a := stnum.MkStnum(big.NewInt(-1), 8)
	b := stnum.MkStnum(big.NewInt(1), 8)

	got := a.Add(b)
	want := stnum.MkStnum(big.NewInt(0), 8)

	assert.True(t, got.Equal(want), "got %v want %v", got, want)
}

func TestSDivBySingleton(t *testing.T) {
	a := stnum.MkStnumRange(big.NewInt(4), big.NewInt(7), 8)
	b := stnum.MkStnum(big.NewInt(2), 8)

	got := a.SDiv(b)

	assert.True(t, got.At(wrapint.FromUint64(2, 8)))
	assert.True(t, got.At(wrapint.FromUint64(3, 8)))
}

func TestNotSwapsCircles(t *testing.T) {
	pos := stnum.MkStnum(big.NewInt(0), 8)
	got := pos.Not()

	assert.True(t, got.IsNegative(), "complement of 0 must be negative: %v", got)
	assert.True(t, got.At(wrapint.FromInt64(-1, 8)))
}

func TestWidenAgainstSelfIsNoOp(t *testing.T) {
	a := stnum.MkStnumRange(big.NewInt(-4), big.NewInt(4), 8)

	got := a.Widen(a)
	assert.True(t, got.Equal(a), "widen against self must be a no-op: got %v want %v", got, a)
}
