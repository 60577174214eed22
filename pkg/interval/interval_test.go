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
package interval_test

import (
	"testing"

	"github.com/gosigned/numdomain/pkg/interval"
	"github.com/gosigned/numdomain/pkg/util/assert"
)

func TestSingletonContains(t *testing.T) {
	i := interval.Singleton(5)
	assert.True(t, i.Contains(5))
	assert.False(t, i.Contains(6))
}

func TestUnion(t *testing.T) {
	a := interval.Singleton(1)
	b := interval.Singleton(5)
	u := a.Union(b)
	assert.True(t, u.Contains(1))
	assert.True(t, u.Contains(5))
	assert.False(t, u.Contains(6))
}

func TestBottomIsBottom(t *testing.T) {
	assert.True(t, interval.Bottom().IsBottom())
	assert.False(t, interval.Top().IsBottom())
}

func TestIntersectDisjoint(t *testing.T) {
	a := interval.Singleton(1)
	b := interval.Singleton(5)
	assert.True(t, a.Intersect(b).IsBottom())
}
