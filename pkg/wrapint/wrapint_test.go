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
package wrapint_test

import (
	"math/big"
	"testing"

	"github.com/gosigned/numdomain/pkg/util/assert"
	"github.com/gosigned/numdomain/pkg/wrapint"
)

func TestAddWraps(t *testing.T) {
	a := wrapint.FromUint64(0xFF, 8)
	b := wrapint.FromUint64(1, 8)
	c := a.Add(b)
	assert.Equal(t, uint64(0), c.Uint64())
}

func TestSignedValue(t *testing.T) {
	a := wrapint.FromUint64(0xFF, 8)
	assert.Equal(t, int64(-1), a.SignedValue().Int64())
}

func TestSExt(t *testing.T) {
	a := wrapint.FromUint64(0xFF, 8)
	b, err := a.SExt(16)
	assert.Equal(t, nil, err)
	assert.Equal(t, uint64(0xFFFF), b.Uint64())
}

func TestZExt(t *testing.T) {
	a := wrapint.FromUint64(0xFF, 8)
	b, err := a.ZExt(16)
	assert.Equal(t, nil, err)
	assert.Equal(t, uint64(0x00FF), b.Uint64())
}

func TestTrunc(t *testing.T) {
	a := wrapint.FromUint64(0x1FF, 9)
	b, err := a.Trunc(8)
	assert.Equal(t, nil, err)
	assert.Equal(t, uint64(0xFF), b.Uint64())
}

func TestFitsWrapint(t *testing.T) {
	assert.True(t, wrapint.FitsWrapint(big.NewInt(255), 8))
	assert.False(t, wrapint.FitsWrapint(big.NewInt(256), 8))
	assert.False(t, wrapint.FitsWrapint(big.NewInt(-1), 8))
}

func TestDivideByZero(t *testing.T) {
	a := wrapint.FromUint64(10, 8)
	z := wrapint.FromUint64(0, 8)

	_, err := a.UDiv(z)
	assert.True(t, err != nil)
}

func TestCountTrailingZeros(t *testing.T) {
	a := wrapint.FromUint64(0b1000, 8)
	assert.Equal(t, uint(3), a.CountTrailingZeros())
}

func TestCountLeadingZeros(t *testing.T) {
	a := wrapint.FromUint64(0b0000_1000, 8)
	assert.Equal(t, uint(4), a.CountLeadingZeros())
}

func TestAShrNegative(t *testing.T) {
	a := wrapint.FromUint64(0xFE, 8) // -2 signed
	b := a.AShr(1)
	assert.Equal(t, int64(-1), b.SignedValue().Int64())
}
