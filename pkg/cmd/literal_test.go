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
package cmd

import (
	"testing"

	"github.com/gosigned/numdomain/pkg/util/assert"
)

func TestParseTnumSingleton(t *testing.T) {
	v, err := parseTnum("w8:5")
	assert.Equal(t, nil, err)
	assert.True(t, v.IsSingleton())
}

func TestParseTnumRange(t *testing.T) {
	v, err := parseTnum("w8:-3,10")
	assert.Equal(t, nil, err)
	assert.False(t, v.IsSingleton())
}

func TestParseWitvSingleton(t *testing.T) {
	v, err := parseWitv("w8:5")
	assert.Equal(t, nil, err)
	assert.True(t, v.IsSingleton())
}

func TestParseLiteralRejectsMissingPrefix(t *testing.T) {
	_, _, _, err := parseLiteral("8:5")
	assert.False(t, err == nil)
}

func TestParseLiteralRejectsMissingSeparator(t *testing.T) {
	_, _, _, err := parseLiteral("w85")
	assert.False(t, err == nil)
}

func TestParseLiteralRejectsBadInteger(t *testing.T) {
	_, _, _, err := parseLiteral("w8:abc")
	assert.False(t, err == nil)
}
