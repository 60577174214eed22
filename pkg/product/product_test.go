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
package product_test

import (
	"math/big"
	"testing"

	"github.com/gosigned/numdomain/pkg/product"
	"github.com/gosigned/numdomain/pkg/stnum"
	"github.com/gosigned/numdomain/pkg/util/assert"
	"github.com/gosigned/numdomain/pkg/witv"
	"github.com/gosigned/numdomain/pkg/wrapint"
)

func TestReduceVariableBothTopIsNoOp(t *testing.T) {
	sw := witv.Top(8)
	st := stnum.Top(8)

	gotSw, gotSt := product.ReduceVariable(sw, st)

	assert.True(t, gotSw.Equal(sw))
	assert.True(t, gotSt.Equal(st))
}

func TestReduceVariableTightensRangeFromBits(t *testing.T) {
	sw := witv.MkSwintervalRange(big.NewInt(0), big.NewInt(15), 8)
	st := stnum.MkStnum(big.NewInt(4), 8)

	gotSw, gotSt := product.ReduceVariable(sw, st)

	assert.True(t, gotSw.At(wrapint.FromUint64(4, 8)))
	assert.False(t, gotSw.At(wrapint.FromUint64(5, 8)), "exact bit pattern must exclude 5 once reduced")
	assert.True(t, gotSt.IsSingleton())
}

func TestReduceVariableContradictionIsBottom(t *testing.T) {
	sw := witv.MkSwinterval(big.NewInt(4), 8)
	st := stnum.MkStnum(big.NewInt(5), 8)

	gotSw, gotSt := product.ReduceVariable(sw, st)

	assert.True(t, gotSw.IsBottom())
	assert.True(t, gotSt.IsBottom())
}

func TestReduceVariableIdempotent(t *testing.T) {
	sw := witv.MkSwintervalRange(big.NewInt(-8), big.NewInt(8), 8)
	st := stnum.Top(8)

	sw1, st1 := product.ReduceVariable(sw, st)
	sw2, st2 := product.ReduceVariable(sw1, st1)

	assert.True(t, sw1.Equal(sw2))
	assert.True(t, st1.Equal(st2))
}
