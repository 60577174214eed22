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
package tnum_test

import (
	"math/big"
	"testing"

	"github.com/gosigned/numdomain/pkg/tnum"
	"github.com/gosigned/numdomain/pkg/util/assert"
	"github.com/gosigned/numdomain/pkg/wrapint"
)

// TestE1AddSelf is end-to-end scenario E1: a = tnum(0b0000_0100, 0b0000_0011);
// a + a should be tnum(0b0000_1000, 0b0000_0110).
func TestE1AddSelf(t *testing.T) {
	a := tnum.New(wrapint.FromUint64(0b0000_0100, 8), wrapint.FromUint64(0b0000_0011, 8))
	got := a.Add(a)
	want := tnum.New(wrapint.FromUint64(0b0000_1000, 8), wrapint.FromUint64(0b0000_0110, 8))

	assert.True(t, got.Equal(want), "E1: got %v want %v", got, want)
}

// TestE6MeetDisagree is end-to-end scenario E6: tnums that disagree on a
// known bit meet to bottom.
func TestE6MeetDisagree(t *testing.T) {
	a := tnum.New(wrapint.FromUint64(0b0000_1000, 8), wrapint.FromUint64(0b0000_0001, 8))
	b := tnum.New(wrapint.FromUint64(0b0000_1100, 8), wrapint.FromUint64(0b0000_0001, 8))

	assert.True(t, a.Meet(b).IsBottom())
}

func TestTnumInvariant(t *testing.T) {
	v := wrapint.FromUint64(0b101, 8)
	m := wrapint.FromUint64(0b101, 8) // overlaps with v -> invariant violated
	got := tnum.New(v, m)

	assert.True(t, got.IsBottom())
}

func TestJoinCommutativeIdempotent(t *testing.T) {
	a := tnum.MkTnum(big.NewInt(3), 8)
	b := tnum.MkTnum(big.NewInt(5), 8)

	assert.True(t, a.Join(b).Equal(b.Join(a)))
	assert.True(t, a.Join(a).Equal(a))
}

func TestLeqReflexive(t *testing.T) {
	a := tnum.MkTnum(big.NewInt(7), 8)
	assert.True(t, a.Leq(a))
}

func TestRoundTripFromRange(t *testing.T) {
	r := tnum.MkTnumRange(big.NewInt(2), big.NewInt(5), 8)
	iv := r.ToInterval()

	assert.True(t, iv.Contains(2))
	assert.True(t, iv.Contains(5))
}
