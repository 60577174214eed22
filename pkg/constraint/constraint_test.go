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
package constraint_test

import (
	"math/big"
	"testing"

	"github.com/gosigned/numdomain/pkg/constraint"
	"github.com/gosigned/numdomain/pkg/env"
	"github.com/gosigned/numdomain/pkg/util/assert"
	"github.com/gosigned/numdomain/pkg/witv"
	"github.com/gosigned/numdomain/pkg/wrapint"
)

func witvDomain() constraint.Domain[witv.Witv] {
	return constraint.Domain[witv.Witv]{FromConstant: witv.MkSwinterval, Top: witv.Top}
}

// TestSolveContradictionCollapsesWholeEnvironment is end-to-end scenario E4:
// x is pinned to -127, y is pinned to 1, and the constraint y <= x is
// unsatisfiable, so solving must collapse the whole environment to bottom —
// not just the variable the contradiction was detected on.
func TestSolveContradictionCollapsesWholeEnvironment(t *testing.T) {
	e := env.New[witv.Witv](witv.Top(8), witv.Bottom(8))
	e.Set("x", witv.MkSwinterval(big.NewInt(-127), 8))
	e.Set("y", witv.MkSwinterval(big.NewInt(1), 8))

	// y - x <= 0, i.e. y <= x.
	cst := constraint.NewConstraint(big.NewInt(0), []constraint.Term{
		{Coeff: big.NewInt(1), Var: "y"},
		{Coeff: big.NewInt(-1), Var: "x"},
	}, constraint.Inequality)

	solver := constraint.New([]constraint.Constraint{cst}, 8, constraint.DefaultConfig(), witvDomain())
	solver.Run(e)

	assert.True(t, e.IsBottom())
	assert.True(t, e.At("x").IsBottom())
	assert.True(t, e.At("y").IsBottom())
}

// TestSolveInequalityTightensUnconstrainedVariable exercises the ordinary,
// non-contradictory path: x starts unconstrained (top) and "x <= 10"
// tightens it to the upper half-line.
func TestSolveInequalityTightensUnconstrainedVariable(t *testing.T) {
	e := env.New[witv.Witv](witv.Top(8), witv.Bottom(8))

	// x - 10 <= 0, i.e. x <= 10.
	cst := constraint.NewConstraint(big.NewInt(10), []constraint.Term{
		{Coeff: big.NewInt(1), Var: "x"},
	}, constraint.Inequality)

	solver := constraint.New([]constraint.Constraint{cst}, 8, constraint.DefaultConfig(), witvDomain())
	solver.Run(e)

	assert.False(t, e.IsBottom())
	assert.True(t, e.At("x").At(mustWrap(10)))
	assert.False(t, e.At("x").At(mustWrap(11)), "x<=10 must exclude 11")
	assert.True(t, e.At("x").At(mustWrap(-50)), "x<=10 leaves the lower side unconstrained")
}

// TestSolveEqualityOnTwoUnconstrainedVariablesIsSatisfiable checks that a
// satisfiable system of two equalities over previously-unconstrained
// variables does not spuriously collapse to bottom.
func TestSolveEqualityOnTwoUnconstrainedVariablesIsSatisfiable(t *testing.T) {
	e := env.New[witv.Witv](witv.Top(8), witv.Bottom(8))

	// x - 5 = 0
	cstX := constraint.NewConstraint(big.NewInt(5), []constraint.Term{
		{Coeff: big.NewInt(1), Var: "x"},
	}, constraint.Equality)
	// y - x = 0, i.e. y == x
	cstY := constraint.NewConstraint(big.NewInt(0), []constraint.Term{
		{Coeff: big.NewInt(1), Var: "y"},
		{Coeff: big.NewInt(-1), Var: "x"},
	}, constraint.Equality)

	solver := constraint.New([]constraint.Constraint{cstX, cstY}, 8, constraint.DefaultConfig(), witvDomain())
	solver.Run(e)

	assert.False(t, e.IsBottom())
	assert.True(t, e.At("x").IsSingleton())
	assert.True(t, e.At("y").IsSingleton())
	assert.True(t, e.At("x").At(mustWrap(5)))
	assert.True(t, e.At("y").At(mustWrap(5)))
}

// TestSolveFixpointIsIdempotent is testable property 8: once a solve has
// tightened an environment to a non-bottom fixpoint, re-running it against
// the same constraints must leave the environment unchanged.
func TestSolveFixpointIsIdempotent(t *testing.T) {
	e := env.New[witv.Witv](witv.Top(8), witv.Bottom(8))

	// x - 10 <= 0, i.e. x <= 10.
	cst := constraint.NewConstraint(big.NewInt(10), []constraint.Term{
		{Coeff: big.NewInt(1), Var: "x"},
	}, constraint.Inequality)

	solver := constraint.New([]constraint.Constraint{cst}, 8, constraint.DefaultConfig(), witvDomain())
	solver.Run(e)

	assert.False(t, e.IsBottom())

	before := e.At("x")

	solver.Run(e)

	assert.False(t, e.IsBottom())
	assert.True(t, e.At("x").Equal(before))
}

func TestNewConstraintDetectsTautologyAndContradiction(t *testing.T) {
	taut := constraint.NewConstraint(big.NewInt(0), nil, constraint.Equality)
	assert.True(t, taut.IsTautology())
	assert.False(t, taut.IsContradiction())

	contra := constraint.NewConstraint(big.NewInt(3), nil, constraint.Equality)
	assert.True(t, contra.IsContradiction())
	assert.False(t, contra.IsTautology())
}

// TestNewConstraintDetectsInequalityTautologyAndContradiction covers the
// degenerate case where every variable term cancels and only the constant
// remains: "0 <= constant" is a tautology for a non-negative constant and a
// contradiction for a negative one.
func TestNewConstraintDetectsInequalityTautologyAndContradiction(t *testing.T) {
	taut := constraint.NewConstraint(big.NewInt(5), []constraint.Term{
		{Coeff: big.NewInt(1), Var: "x"},
		{Coeff: big.NewInt(-1), Var: "x"},
	}, constraint.Inequality)
	assert.True(t, taut.IsTautology())
	assert.False(t, taut.IsContradiction())

	contra := constraint.NewConstraint(big.NewInt(-5), []constraint.Term{
		{Coeff: big.NewInt(1), Var: "x"},
		{Coeff: big.NewInt(-1), Var: "x"},
	}, constraint.Inequality)
	assert.True(t, contra.IsContradiction())
	assert.False(t, contra.IsTautology())
}

func mustWrap(n int64) wrapint.Wrapint {
	w, err := wrapint.NewSigned(big.NewInt(n), 8)
	if err != nil {
		panic(err)
	}

	return w
}
