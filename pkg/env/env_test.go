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
package env_test

import (
	"math/big"
	"testing"

	"github.com/gosigned/numdomain/pkg/env"
	"github.com/gosigned/numdomain/pkg/tnum"
	"github.com/gosigned/numdomain/pkg/util/assert"
)

func newTestEnv() *env.Env[tnum.Tnum] {
	return env.New[tnum.Tnum](tnum.Top(8), tnum.Bottom(8))
}

func TestAbsentKeyReadsTop(t *testing.T) {
	e := newTestEnv()
	assert.True(t, e.At("x").IsTop())
}

func TestSetThenAt(t *testing.T) {
	e := newTestEnv()
	three := tnum.MkTnum(big.NewInt(3), 8)

	e.Set("x", three)
	assert.True(t, e.At("x").Equal(three))
}

func TestSetBottomCollapsesWholeEnv(t *testing.T) {
	e := newTestEnv()
	e.Set("x", tnum.MkTnum(big.NewInt(3), 8))
	e.Set("y", tnum.Bottom(8))

	assert.True(t, e.IsBottom())
	assert.True(t, e.At("x").IsBottom(), "every lookup must read bottom once env collapses")
}

func TestForgetRestoresTop(t *testing.T) {
	e := newTestEnv()
	e.Set("x", tnum.MkTnum(big.NewInt(3), 8))
	e.Forget([]env.Variable{"x"})

	assert.True(t, e.At("x").IsTop())
}

func TestRenameRejectsNonBijective(t *testing.T) {
	e := newTestEnv()
	err := e.Rename([]env.Variable{"x", "y"}, []env.Variable{"z", "z"})
	assert.True(t, err != nil, "expected a non-bijective rename to be rejected")
}

func TestRenameMovesValue(t *testing.T) {
	e := newTestEnv()
	three := tnum.MkTnum(big.NewInt(3), 8)
	e.Set("x", three)

	err := e.Rename([]env.Variable{"x"}, []env.Variable{"y"})
	assert.True(t, err == nil)
	assert.True(t, e.At("y").Equal(three))
	assert.True(t, e.At("x").IsTop())
}

func TestJoinWidensAcrossMissingKeys(t *testing.T) {
	a := newTestEnv()
	a.Set("x", tnum.MkTnum(big.NewInt(3), 8))

	b := newTestEnv()

	joined := a.Join(b)
	assert.True(t, joined.At("x").IsTop(), "joining with an env that never mentions x must yield top")
}

func TestMeetContradictionIsBottom(t *testing.T) {
	a := newTestEnv()
	a.Set("x", tnum.MkTnum(big.NewInt(3), 8))

	b := newTestEnv()
	b.Set("x", tnum.MkTnum(big.NewInt(4), 8))

	assert.True(t, a.Meet(b).IsBottom())
}
