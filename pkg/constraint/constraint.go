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

// Package constraint implements the linear constraint solver: propagation of
// a system of affine constraints Σcᵢ·xᵢ ⊙ constant against a pkg/env
// environment to a fixpoint, following W. Harvey & P. J. Stuckey's
// constraint-propagation scheme as adapted by the split-domain solver this
// package is modelled on.
package constraint

import (
	"math/big"

	log "github.com/sirupsen/logrus"

	"github.com/gosigned/numdomain/pkg/env"
)

// Value is the per-abstract-value contract the solver needs: every domain
// value produced by pkg/tnum, pkg/witv and pkg/stnum satisfies it already.
type Value[T any] interface {
	IsBottom() bool
	IsTop() bool
	Equal(T) bool
	Meet(T) T
	Sub(T) T
	Mul(T) T
	SDiv(T) T
	LowerHalfLine2(T, bool) T
	UpperHalfLine2(T, bool) T
	Trim(T) T
}

// Domain supplies the free-function constructors a Value[T] type exposes at
// package level rather than as methods (mk-from-constant, top-of-width),
// since Go's generics cannot express "the static constructor of T" as part
// of an interface constraint.
type Domain[T Value[T]] struct {
	FromConstant func(c *big.Int, w uint) T
	Top          func(w uint) T
}

// Kind identifies the relational operator comparing a constraint's
// left-hand expression against its constant.
type Kind int

// The four constraint kinds a linear expression may be compared with its constant.
const (
	Equality Kind = iota
	Inequality
	StrictInequality
	Disequation
)

// Term is one cᵢ·xᵢ summand of a linear expression.
type Term struct {
	Coeff *big.Int
	Var   env.Variable
}

// Constraint is a preprocessed Σcᵢ·xᵢ ⊙ constant. Contradiction and
// tautology are decided once, at construction, for the degenerate case
// where every variable term canceled out and only the constant remains.
type Constraint struct {
	Constant *big.Int
	Terms    []Term
	Kind     Kind

	isContradiction bool
	isTautology     bool
}

// NewConstraint builds a constraint, merging duplicate variable terms and
// dropping zero-coefficient ones, then deciding tautology/contradiction when
// no variable term survives.
func NewConstraint(constant *big.Int, terms []Term, kind Kind) Constraint {
	merged := make(map[env.Variable]*big.Int, len(terms))

	var order []env.Variable

	for _, t := range terms {
		if _, ok := merged[t.Var]; !ok {
			order = append(order, t.Var)
			merged[t.Var] = new(big.Int)
		}

		merged[t.Var].Add(merged[t.Var], t.Coeff)
	}

	out := make([]Term, 0, len(order))

	for _, v := range order {
		if merged[v].Sign() != 0 {
			out = append(out, Term{Coeff: merged[v], Var: v})
		}
	}

	c := Constraint{Constant: constant, Terms: out, Kind: kind}

	if len(out) == 0 {
		c.isTautology, c.isContradiction = classifyConstant(constant, kind)
	}

	return c
}

func classifyConstant(constant *big.Int, kind Kind) (tautology, contradiction bool) {
	sign := constant.Sign()

	switch kind {
	case Equality:
		return sign == 0, sign != 0
	case Inequality:
		return sign >= 0, sign < 0
	case StrictInequality:
		return sign > 0, sign <= 0
	default: // Disequation
		return sign != 0, sign == 0
	}
}

// IsContradiction reports whether this constraint can never be satisfied.
func (c Constraint) IsContradiction() bool { return c.isContradiction }

// IsTautology reports whether this constraint is always satisfied and can
// be dropped.
func (c Constraint) IsTautology() bool { return c.isTautology }

// Size returns the number of variable terms, the unit the solver's
// per-cycle operation budget is costed in.
func (c Constraint) Size() int { return len(c.Terms) }

// Negate returns ¬(expr ⊙ constant), used by a façade's entails check (meet
// the environment with the negated constraint and test for bottom).
// Negating an inequality or strict inequality flips the sign of every term
// and of the constant, as well as the relational kind, since "expr <=
// constant" negates to "-expr < -constant", not "expr > constant".
func (c Constraint) Negate() Constraint {
	switch c.Kind {
	case Equality:
		return NewConstraint(c.Constant, c.Terms, Disequation)
	case Disequation:
		return NewConstraint(c.Constant, c.Terms, Equality)
	case Inequality:
		return NewConstraint(negConstant(c.Constant), negTerms(c.Terms), StrictInequality)
	default: // StrictInequality
		return NewConstraint(negConstant(c.Constant), negTerms(c.Terms), Inequality)
	}
}

func negConstant(c *big.Int) *big.Int { return new(big.Int).Neg(c) }

func negTerms(terms []Term) []Term {
	out := make([]Term, len(terms))
	for i, t := range terms {
		out[i] = Term{Coeff: new(big.Int).Neg(t.Coeff), Var: t.Var}
	}

	return out
}

// Variables returns the distinct variables appearing in this constraint.
func (c Constraint) Variables() []env.Variable {
	vars := make([]env.Variable, len(c.Terms))
	for i, t := range c.Terms {
		vars[i] = t.Var
	}

	return vars
}

// Config controls the solver's cycle and operation budget.
type Config struct {
	// MaxCycles bounds round-robin passes in small-system mode and, scaled
	// by the per-cycle op cost, the operation budget in large-system mode.
	MaxCycles uint
}

// DefaultConfig returns the solver's default budget.
func DefaultConfig() Config { return Config{MaxCycles: 10} }

const (
	largeSystemCstThreshold = 3
	// cost of one propagation cycle for a dense 3x3 system of constraints.
	largeSystemOpThreshold = 27
)

// Solver holds a preprocessed constraint system and the bookkeeping its
// propagation strategy (small round-robin vs. large trigger-driven) needs.
type Solver[T Value[T]] struct {
	domain    Domain[T]
	width     uint
	maxCycles uint
	maxOp     uint

	isContradiction bool
	isLargeSystem   bool

	cstTable     []Constraint
	triggerTable map[env.Variable]map[int]struct{}

	refinedVariables map[env.Variable]struct{}
	opCount          uint
}

// New preprocesses csts into a Solver: strict inequalities are split into
// their inequality/disequation pair, tautologies are dropped, and a single
// contradictory constraint marks the whole system unsatisfiable.
func New[T Value[T]](csts []Constraint, width uint, cfg Config, domain Domain[T]) *Solver[T] {
	s := &Solver[T]{domain: domain, width: width, maxCycles: cfg.MaxCycles}

	opPerCycle := uint(0)

	for _, cst := range csts {
		switch {
		case cst.IsContradiction():
			s.isContradiction = true
			return s
		case cst.IsTautology():
			continue
		case cst.Kind == StrictInequality:
			c1 := Constraint{Constant: cst.Constant, Terms: cst.Terms, Kind: Inequality}
			c2 := Constraint{Constant: cst.Constant, Terms: cst.Terms, Kind: Disequation}
			s.cstTable = append(s.cstTable, c1, c2)
			opPerCycle += uint(c1.Size()*c1.Size() + c2.Size()*c2.Size())
		default:
			s.cstTable = append(s.cstTable, cst)
			opPerCycle += uint(cst.Size() * cst.Size())
		}
	}

	s.isLargeSystem = len(s.cstTable) > largeSystemCstThreshold || opPerCycle > largeSystemOpThreshold

	if s.isLargeSystem {
		s.maxOp = opPerCycle * cfg.MaxCycles
		s.triggerTable = make(map[env.Variable]map[int]struct{})

		for i, cst := range s.cstTable {
			for _, v := range cst.Variables() {
				if s.triggerTable[v] == nil {
					s.triggerTable[v] = make(map[int]struct{})
				}

				s.triggerTable[v][i] = struct{}{}
			}
		}
	}

	return s
}

// Run drives e to a fixpoint against the preprocessed constraint system,
// collapsing e to bottom if a contradiction was found during preprocessing
// or propagation.
func (s *Solver[T]) Run(e *env.Env[T]) {
	if s.isContradiction {
		e.SetBottom()
		return
	}

	var isBottom bool
	if s.isLargeSystem {
		isBottom = s.solveLargeSystem(e)
	} else {
		isBottom = s.solveSmallSystem(e)
	}

	if isBottom {
		e.SetBottom()
	}
}

func (s *Solver[T]) solveSmallSystem(e *env.Env[T]) bool {
	cycle := uint(0)

	for {
		cycle++
		s.refinedVariables = make(map[env.Variable]struct{})

		for _, cst := range s.cstTable {
			if s.propagate(cst, e) {
				return true
			}
		}

		if len(s.refinedVariables) == 0 || cycle > s.maxCycles {
			return false
		}
	}
}

func (s *Solver[T]) solveLargeSystem(e *env.Env[T]) bool {
	s.opCount = 0
	s.refinedVariables = make(map[env.Variable]struct{})

	for _, cst := range s.cstTable {
		if s.propagate(cst, e) {
			return true
		}
	}

	for {
		varsToProcess := s.refinedVariables
		s.refinedVariables = make(map[env.Variable]struct{})

		for v := range varsToProcess {
			for idx := range s.triggerTable[v] {
				if s.propagate(s.cstTable[idx], e) {
					return true
				}
			}
		}

		if len(s.refinedVariables) == 0 || s.opCount > s.maxOp {
			if s.opCount > s.maxOp {
				log.WithFields(log.Fields{"opCount": s.opCount, "maxOp": s.maxOp}).
					Debug("constraint: large-system op budget exhausted before fixpoint")
			}

			return false
		}
	}
}

// propagate evaluates cst against e once, pivoting on each of its variables
// in turn. It reports whether a contradiction (bottom) was found.
func (s *Solver[T]) propagate(cst Constraint, e *env.Env[T]) bool {
	for _, term := range cst.Terms {
		pivot := term.Var
		c := term.Coeff

		residual := s.computeResidual(cst, pivot, e)

		rhs := s.domain.Top(s.width)
		if !residual.IsTop() {
			coeff := s.domain.FromConstant(c, s.width)
			rhs = residual.SDiv(coeff)
		}

		switch cst.Kind {
		case Equality:
			if s.refine(pivot, rhs, e) {
				return true
			}
		case Inequality:
			// c > 0 keeps the relation's direction (x_p <= rhs); c < 0
			// flips it on division (x_p >= rhs). UpperHalfLine2/
			// LowerHalfLine2 are named for the bound direction they
			// enforce (t <= bound / t >= bound) rather than for which
			// side of the pole they sit on, so the "for x <= rhs" case
			// below calls UpperHalfLine2, not LowerHalfLine2.
			oldPivot := e.At(pivot)
			if c.Sign() > 0 {
				if s.refine(pivot, oldPivot.UpperHalfLine2(rhs, true), e) {
					return true
				}
			} else if s.refine(pivot, oldPivot.LowerHalfLine2(rhs, true), e) {
				return true
			}
		case StrictInequality:
			// no direct refinement: preprocessing already added the
			// inequality/disequation pair that carries the information.
		default: // Disequation
			oldI := e.At(pivot)

			newI := oldI.Trim(rhs)
			if newI.IsBottom() {
				return true
			}

			if !oldI.Equal(newI) {
				e.Set(pivot, newI)
				s.refinedVariables[pivot] = struct{}{}
			}

			s.opCount++
		}
	}

	return false
}

// computeResidual moves every non-pivot term to the other side:
// r = constant - Σ_{i != p} cᵢ·E(xᵢ).
func (s *Solver[T]) computeResidual(cst Constraint, pivot env.Variable, e *env.Env[T]) T {
	residual := s.domain.FromConstant(cst.Constant, s.width)

	for _, term := range cst.Terms {
		if term.Var == pivot {
			continue
		}

		coeff := s.domain.FromConstant(term.Coeff, s.width)
		residual = residual.Sub(coeff.Mul(e.At(term.Var)))
		s.opCount++

		if residual.IsTop() {
			break
		}
	}

	return residual
}

// refine meets v's current value with i, reporting whether the meet
// collapsed to bottom, and otherwise recording v as refined this pass.
func (s *Solver[T]) refine(v env.Variable, i T, e *env.Env[T]) bool {
	oldI := e.At(v)

	newI := oldI.Meet(i)
	if newI.IsBottom() {
		return true
	}

	if !oldI.Equal(newI) {
		e.Set(v, newI)
		s.refinedVariables[v] = struct{}{}
		s.opCount++
	}

	return false
}
