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
package domain_test

import (
	"math/big"
	"testing"

	"github.com/gosigned/numdomain/pkg/constraint"
	"github.com/gosigned/numdomain/pkg/domain"
	"github.com/gosigned/numdomain/pkg/env"
	"github.com/gosigned/numdomain/pkg/util/assert"
)

func constExpr(n int64) domain.Expr {
	return domain.Expr{Constant: big.NewInt(n)}
}

func TestTopIsTopAndBottomIsBottom(t *testing.T) {
	top := domain.Top(8)
	assert.True(t, top.IsTop())
	assert.False(t, top.IsBottom())

	bot := domain.Bottom(8)
	assert.True(t, bot.IsBottom())
}

func TestAssignConstantThenAtIsSingleton(t *testing.T) {
	d := domain.Top(8)
	d.Assign("x", constExpr(5))

	i := d.At("x")
	assert.True(t, i.Contains(5))
	assert.False(t, i.Contains(4))
	assert.False(t, i.Contains(6))
}

func TestApplyArithAddOfTwoSingletons(t *testing.T) {
	d := domain.Top(8)
	d.Assign("y", constExpr(3))
	d.Assign("z", constExpr(4))
	d.ApplyArith(domain.OpAdd, "x", "y", "z")

	i := d.At("x")
	assert.True(t, i.Contains(7))
	assert.False(t, i.Contains(8))
}

func TestAssignCopyPreservesExactValue(t *testing.T) {
	d := domain.Top(8)
	d.Assign("y", constExpr(9))
	d.Assign("x", domain.Expr{Constant: big.NewInt(0), Terms: []domain.Term{{Coeff: big.NewInt(1), Var: "y"}}})

	assert.True(t, d.At("x").Contains(9))
}

// TestAddConstraintsContradictionCollapsesDomain is the façade-level replay
// of end-to-end scenario E4: x pinned to -127, y pinned to 1, and "y <= x"
// is unsatisfiable over 8-bit signed integers.
func TestAddConstraintsContradictionCollapsesDomain(t *testing.T) {
	d := domain.Top(8)
	d.Assign("x", constExpr(-127))
	d.Assign("y", constExpr(1))

	cst := constraint.NewConstraint(big.NewInt(0), []constraint.Term{
		{Coeff: big.NewInt(1), Var: "y"},
		{Coeff: big.NewInt(-1), Var: "x"},
	}, constraint.Inequality)

	d.AddConstraints([]constraint.Constraint{cst})

	assert.True(t, d.IsBottom())
}

func TestAddConstraintsTighensUnconstrainedVariable(t *testing.T) {
	d := domain.Top(8)

	// x - 10 <= 0, i.e. x <= 10.
	cst := constraint.NewConstraint(big.NewInt(10), []constraint.Term{
		{Coeff: big.NewInt(1), Var: "x"},
	}, constraint.Inequality)

	d.AddConstraints([]constraint.Constraint{cst})

	assert.False(t, d.IsBottom())
	assert.True(t, d.At("x").Contains(10))
	assert.False(t, d.At("x").Contains(11))
}

func TestEntailsTautologyAndContradiction(t *testing.T) {
	d := domain.Top(8)
	d.Assign("x", constExpr(5))

	// x <= 5: true of a variable pinned to exactly 5.
	taut := constraint.NewConstraint(big.NewInt(5), []constraint.Term{
		{Coeff: big.NewInt(1), Var: "x"},
	}, constraint.Inequality)
	assert.True(t, d.Entails(taut))

	// x <= 4: false of a variable pinned to exactly 5.
	contra := constraint.NewConstraint(big.NewInt(4), []constraint.Term{
		{Coeff: big.NewInt(1), Var: "x"},
	}, constraint.Inequality)
	assert.False(t, d.Entails(contra))
}

func TestToLinearConstraintSystemOnSingleton(t *testing.T) {
	d := domain.Top(8)
	d.Assign("x", constExpr(5))

	csts := d.ToLinearConstraintSystem()
	assert.Equal(t, 2, len(csts))

	for _, c := range csts {
		assert.Equal(t, []env.Variable{"x"}, c.Variables())
	}

	// Replaying the emitted system against a fresh, unconstrained domain
	// must reconstruct exactly the same bound: 5 <= x <= 5.
	replay := domain.Top(8)
	replay.AddConstraints(csts)
	assert.False(t, replay.IsBottom())
	assert.True(t, replay.At("x").Contains(5))
	assert.False(t, replay.At("x").Contains(4))
	assert.False(t, replay.At("x").Contains(6))
}

func TestForgetRestoresTop(t *testing.T) {
	d := domain.Top(8)
	d.Assign("x", constExpr(5))
	d.Forget([]env.Variable{"x"})

	assert.True(t, d.At("x").IsTop())
}

func TestJoinOfDisjointSingletonsWidensRange(t *testing.T) {
	a := domain.Top(8)
	a.Assign("x", constExpr(3))

	b := domain.Top(8)
	b.Assign("x", constExpr(5))

	joined := a.Join(b)
	assert.True(t, joined.At("x").Contains(3))
	assert.True(t, joined.At("x").Contains(5))
}
