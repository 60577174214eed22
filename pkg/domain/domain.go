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

// Package domain assembles the numerical-domain façade presented to an
// external CFG driver: a pair of pkg/env environments, one holding the
// wrapped-interval abstraction (pkg/witv) and one holding the split-tnum
// abstraction (pkg/stnum) for the same variables, kept mutually tightened
// via the reduced product (pkg/product) after every destination-variable
// update. Linear constraint systems are propagated against both
// environments independently through pkg/constraint's solver.
//
// A Domain is scoped to a single integer bitwidth, the same simplification
// pkg/constraint makes for the same reason: the variable's static type,
// which the original analyzer consults for its bitwidth, is metadata this
// port does not separately track. A driver reasoning about more than one
// bitwidth instantiates one Domain per class.
package domain

import (
	"math/big"

	log "github.com/sirupsen/logrus"

	"github.com/gosigned/numdomain/pkg/constraint"
	"github.com/gosigned/numdomain/pkg/domainerr"
	"github.com/gosigned/numdomain/pkg/env"
	"github.com/gosigned/numdomain/pkg/interval"
	"github.com/gosigned/numdomain/pkg/product"
	"github.com/gosigned/numdomain/pkg/stnum"
	"github.com/gosigned/numdomain/pkg/witv"
	"github.com/gosigned/numdomain/pkg/wrapint"
)

// ArithOp identifies one of the recognised arithmetic transfer functions.
type ArithOp int

// The arithmetic operations recognised by apply.
const (
	OpAdd ArithOp = iota
	OpSub
	OpMul
	OpSDiv
	OpUDiv
	OpSRem
	OpURem
)

// BitwiseOp identifies one of the recognised bitwise transfer functions.
type BitwiseOp int

// The bitwise operations recognised by apply.
const (
	OpAnd BitwiseOp = iota
	OpOr
	OpXor
	OpShl
	OpLShr
	OpAShr
)

// ConvOp identifies one of the recognised integer-conversion transfer
// functions.
type ConvOp int

// The conversion operations recognised by apply.
const (
	OpZExt ConvOp = iota
	OpSExt
	OpTrunc
)

// Term is one cᵢ·xᵢ summand, shared with pkg/constraint so that an Expr's
// terms can be handed straight to a Constraint without translation.
type Term = constraint.Term

// Expr is a linear expression Σcᵢ·xᵢ + constant, the right-hand side of an
// assign or weak_assign.
type Expr struct {
	Constant *big.Int
	Terms    []Term
}

// variable reports the single variable v such that Expr is exactly "v + 0"
// — the case the source special-cases as a plain copy, evaluated by reading
// v's current abstract value directly instead of round-tripping it through
// arithmetic.
func (e Expr) variable() (env.Variable, bool) {
	if len(e.Terms) == 1 && e.Constant.Sign() == 0 && e.Terms[0].Coeff.Cmp(big.NewInt(1)) == 0 {
		return e.Terms[0].Var, true
	}

	return "", false
}

// Domain is the reduced-product numerical domain: a wrapped-interval
// environment and a split-tnum environment for the same variable set.
type Domain struct {
	width uint
	sw    *env.Env[witv.Witv]
	st    *env.Env[stnum.Stnum]
}

// Top returns the domain in which every variable is unconstrained.
func Top(width uint) *Domain {
	return &Domain{
		width: width,
		sw:    env.New[witv.Witv](witv.Top(width), witv.Bottom(width)),
		st:    env.New[stnum.Stnum](stnum.Top(width), stnum.Bottom(width)),
	}
}

// Bottom returns the unreachable domain.
func Bottom(width uint) *Domain {
	return &Domain{
		width: width,
		sw:    env.Bottom[witv.Witv](witv.Top(width), witv.Bottom(width)),
		st:    env.Bottom[stnum.Stnum](stnum.Top(width), stnum.Bottom(width)),
	}
}

// Clone returns an independent copy of d.
func (d *Domain) Clone() *Domain {
	return &Domain{width: d.width, sw: d.sw.Clone(), st: d.st.Clone()}
}

// IsBottom reports unreachability: either side alone going bottom is enough,
// since reduceVariable and env.Set already keep a collapsed side's whole
// environment bottom.
func (d *Domain) IsBottom() bool { return d.sw.IsBottom() || d.st.IsBottom() }

// IsTop reports that every variable is unconstrained on both sides.
func (d *Domain) IsTop() bool { return d.sw.IsTop() && d.st.IsTop() }

// Leq reports whether d is contained in o on both sides.
func (d *Domain) Leq(o *Domain) bool { return d.sw.Leq(o.sw) && d.st.Leq(o.st) }

// Join computes the least upper bound of d and o.
func (d *Domain) Join(o *Domain) *Domain {
	return &Domain{width: d.width, sw: d.sw.Join(o.sw), st: d.st.Join(o.st)}
}

// Meet computes the greatest lower bound of d and o.
func (d *Domain) Meet(o *Domain) *Domain {
	return &Domain{width: d.width, sw: d.sw.Meet(o.sw), st: d.st.Meet(o.st)}
}

// Widen computes the widening of d by o.
func (d *Domain) Widen(o *Domain) *Domain {
	return &Domain{width: d.width, sw: d.sw.Widen(o.sw), st: d.st.Widen(o.st)}
}

// WidenThresholds computes the thresholds-guided widening of d by o.
func (d *Domain) WidenThresholds(o *Domain, ts []int64) *Domain {
	return &Domain{width: d.width, sw: d.sw.WidenThresholds(o.sw, ts), st: d.st.WidenThresholds(o.st, ts)}
}

// Narrow computes the narrowing of d by o.
func (d *Domain) Narrow(o *Domain) *Domain {
	return &Domain{width: d.width, sw: d.sw.Narrow(o.sw), st: d.st.Narrow(o.st)}
}

// reduceVariable re-derives v's wrapped-interval and stnum values from each
// other via the reduced product, writing the tightened pair back. A
// variable becoming bottom on either side collapses that side's whole
// environment, which IsBottom then observes.
func (d *Domain) reduceVariable(v env.Variable) {
	if d.IsBottom() {
		return
	}

	newSw, newSt := product.ReduceVariable(d.sw.At(v), d.st.At(v))
	d.sw.Set(v, newSw)
	d.st.Set(v, newSt)
}

func evalExprSw(e Expr, width uint, e2 *env.Env[witv.Witv]) witv.Witv {
	r := witv.MkSwinterval(e.Constant, width)

	for _, t := range e.Terms {
		c := witv.MkSwinterval(t.Coeff, width)
		r = r.Add(c.Mul(e2.At(t.Var)))
	}

	return r
}

func evalExprSt(e Expr, width uint, e2 *env.Env[stnum.Stnum]) stnum.Stnum {
	r := stnum.MkStnum(e.Constant, width)

	for _, t := range e.Terms {
		c := stnum.MkStnum(t.Coeff, width)
		r = r.Add(c.Mul(e2.At(t.Var)))
	}

	return r
}

// Assign performs x := e as a strong update, then reduces x.
func (d *Domain) Assign(x env.Variable, e Expr) {
	if d.IsBottom() {
		return
	}

	if v, ok := e.variable(); ok {
		d.sw.Set(x, d.sw.At(v))
		d.st.Set(x, d.st.At(v))
	} else {
		d.sw.Set(x, evalExprSw(e, d.width, d.sw))
		d.st.Set(x, evalExprSt(e, d.width, d.st))
	}

	d.reduceVariable(x)
}

// WeakAssign performs x := x | e as a weak update, then reduces x.
func (d *Domain) WeakAssign(x env.Variable, e Expr) {
	if d.IsBottom() {
		return
	}

	if v, ok := e.variable(); ok {
		d.sw.JoinAt(x, d.sw.At(v))
		d.st.JoinAt(x, d.st.At(v))
	} else {
		d.sw.JoinAt(x, evalExprSw(e, d.width, d.sw))
		d.st.JoinAt(x, evalExprSt(e, d.width, d.st))
	}

	d.reduceVariable(x)
}

func applyArithWitv(op ArithOp, y, z witv.Witv) witv.Witv {
	switch op {
	case OpAdd:
		return y.Add(z)
	case OpSub:
		return y.Sub(z)
	case OpMul:
		return y.Mul(z)
	case OpSDiv:
		return y.SDiv(z)
	case OpUDiv:
		return y.UDiv(z)
	case OpSRem:
		return y.SRem(z)
	default: // OpURem
		return y.URem(z)
	}
}

func applyArithStnum(op ArithOp, y, z stnum.Stnum) stnum.Stnum {
	switch op {
	case OpAdd:
		return y.Add(z)
	case OpSub:
		return y.Sub(z)
	case OpMul:
		return y.Mul(z)
	case OpSDiv:
		return y.SDiv(z)
	case OpUDiv:
		return y.UDiv(z)
	case OpSRem:
		return y.SRem(z)
	default: // OpURem
		return y.URem(z)
	}
}

// ApplyArith performs x := y op z for a variable right-hand side, then
// reduces x.
func (d *Domain) ApplyArith(op ArithOp, x, y, z env.Variable) {
	if d.IsBottom() {
		return
	}

	d.sw.Set(x, applyArithWitv(op, d.sw.At(y), d.sw.At(z)))
	d.st.Set(x, applyArithStnum(op, d.st.At(y), d.st.At(z)))
	d.reduceVariable(x)
}

// ApplyArithConst performs x := y op k for a constant right-hand side, then
// reduces x.
func (d *Domain) ApplyArithConst(op ArithOp, x, y env.Variable, k *big.Int) {
	if d.IsBottom() {
		return
	}

	d.sw.Set(x, applyArithWitv(op, d.sw.At(y), witv.MkSwinterval(k, d.width)))
	d.st.Set(x, applyArithStnum(op, d.st.At(y), stnum.MkStnum(k, d.width)))
	d.reduceVariable(x)
}

// shiftAmountWitv extracts the concrete shift count from a singleton shift
// operand; a non-singleton shift amount is unsound to resolve precisely, so
// callers fall back to top.
func shiftAmountWitv(z witv.Witv) (uint, bool) {
	if !z.IsSingleton() {
		return 0, false
	}

	return uint(z.GetUnsignedMinValue().Uint64()), true
}

func shiftAmountStnum(z stnum.Stnum) (uint, bool) {
	if !z.IsSingleton() {
		return 0, false
	}

	return uint(z.GetUnsignedMinValue().Uint64()), true
}

func shiftWitv(op BitwiseOp, y, z witv.Witv) witv.Witv {
	k, ok := shiftAmountWitv(z)
	if !ok {
		return witv.Top(y.Width())
	}

	switch op {
	case OpShl:
		return y.Shl(k)
	case OpLShr:
		return y.LShr(k)
	default: // OpAShr
		return y.AShr(k)
	}
}

func shiftStnum(op BitwiseOp, y, z stnum.Stnum) stnum.Stnum {
	k, ok := shiftAmountStnum(z)
	if !ok {
		return stnum.Top(y.Width())
	}

	switch op {
	case OpShl:
		return y.Shl(k)
	case OpLShr:
		return y.LShr(k)
	default: // OpAShr
		return y.AShr(k)
	}
}

func applyBitwiseWitv(op BitwiseOp, y, z witv.Witv) witv.Witv {
	if y.IsBottom() || z.IsBottom() {
		return witv.Bottom(y.Width())
	}

	switch op {
	case OpAnd:
		return y.And(z)
	case OpOr:
		return y.Or(z)
	case OpXor:
		return y.Xor(z)
	default: // OpShl, OpLShr, OpAShr
		return shiftWitv(op, y, z)
	}
}

func applyBitwiseStnum(op BitwiseOp, y, z stnum.Stnum) stnum.Stnum {
	if y.IsBottom() || z.IsBottom() {
		return stnum.Bottom(y.Width())
	}

	switch op {
	case OpAnd:
		return y.And(z)
	case OpOr:
		return y.Or(z)
	case OpXor:
		return y.Xor(z)
	default: // OpShl, OpLShr, OpAShr
		return shiftStnum(op, y, z)
	}
}

// ApplyBitwise performs x := y op z for a variable right-hand side, then
// reduces x.
func (d *Domain) ApplyBitwise(op BitwiseOp, x, y, z env.Variable) {
	if d.IsBottom() {
		return
	}

	d.sw.Set(x, applyBitwiseWitv(op, d.sw.At(y), d.sw.At(z)))
	d.st.Set(x, applyBitwiseStnum(op, d.st.At(y), d.st.At(z)))
	d.reduceVariable(x)
}

// ApplyBitwiseConst performs x := y op k for a constant right-hand side,
// then reduces x.
func (d *Domain) ApplyBitwiseConst(op BitwiseOp, x, y env.Variable, k *big.Int) {
	if d.IsBottom() {
		return
	}

	d.sw.Set(x, applyBitwiseWitv(op, d.sw.At(y), witv.MkSwinterval(k, d.width)))
	d.st.Set(x, applyBitwiseStnum(op, d.st.At(y), stnum.MkStnum(k, d.width)))
	d.reduceVariable(x)
}

// ApplyConv performs x := conv(y), converting between dstWidth and srcWidth.
// Since a conversion crosses bitwidth classes by construction, both widths
// are supplied explicitly rather than read from the domain's own width (the
// same static-type metadata pkg/constraint's solver does not track either).
// ZExt/SExt require dstWidth >= srcWidth; Trunc requires the reverse;
// violating either is a driver bug and returns
// domainerr.ErrUnsupportedConversion, leaving the domain unchanged.
func (d *Domain) ApplyConv(op ConvOp, dst, src env.Variable, dstWidth, srcWidth uint) error {
	if d.IsBottom() {
		return nil
	}

	switch op {
	case OpZExt, OpSExt:
		if dstWidth < srcWidth {
			return domainerr.ErrUnsupportedConversion
		}
	default: // OpTrunc
		if srcWidth < dstWidth {
			return domainerr.ErrUnsupportedConversion
		}
	}

	srcSw := d.sw.At(src)
	srcSt := d.st.At(src)

	var dstSw witv.Witv

	var dstSt stnum.Stnum

	switch {
	case srcSw.IsBottom():
		dstSw = witv.Bottom(dstWidth)
	case srcSw.IsTop():
		dstSw = witv.Top(dstWidth)
	default:
		switch op {
		case OpZExt:
			dstSw = srcSw.ZExt(dstWidth)
		case OpSExt:
			dstSw = srcSw.SExt(dstWidth)
		default: // OpTrunc
			dstSw = srcSw.Trunc(dstWidth)
		}
	}

	switch {
	case srcSt.IsBottom():
		dstSt = stnum.Bottom(dstWidth)
	case srcSt.IsTop():
		dstSt = stnum.Top(dstWidth)
	default:
		switch op {
		case OpZExt:
			dstSt = srcSt.ZExt(dstWidth)
		case OpSExt:
			dstSt = srcSt.SExt(dstWidth)
		default: // OpTrunc
			dstSt = srcSt.Trunc(dstWidth)
		}
	}

	d.sw.Set(dst, dstSw)
	d.st.Set(dst, dstSt)
	d.reduceVariable(dst)

	return nil
}

// Forget removes every variable in vars (they read as top again).
func (d *Domain) Forget(vars []env.Variable) {
	d.sw.Forget(vars)
	d.st.Forget(vars)
}

// Project keeps only the variables in vars.
func (d *Domain) Project(vars []env.Variable) {
	d.sw.Project(vars)
	d.st.Project(vars)
}

// Expand copies x's value to newX.
func (d *Domain) Expand(x, newX env.Variable) {
	d.sw.Expand(x, newX)
	d.st.Expand(x, newX)
}

// Rename remaps every variable in from to the corresponding variable in to.
func (d *Domain) Rename(from, to []env.Variable) error {
	if err := d.sw.Rename(from, to); err != nil {
		return err
	}

	return d.st.Rename(from, to)
}

// Remove deletes v (it reads as top again).
func (d *Domain) Remove(v env.Variable) {
	d.sw.Remove(v)
	d.st.Remove(v)
}

// At returns the unlimited mathematical interval for v, the meet of what
// each side can presently say about it.
func (d *Domain) At(v env.Variable) interval.Interval {
	if d.IsBottom() {
		return interval.Bottom()
	}

	return d.sw.At(v).ToInterval().Intersect(d.st.At(v).ToInterval())
}

// GetWrapped returns v's wrapped-interval representation.
func (d *Domain) GetWrapped(v env.Variable) witv.Witv { return d.sw.At(v) }

// GetTnum returns v's split-tnum (known-bits) representation.
func (d *Domain) GetTnum(v env.Variable) stnum.Stnum { return d.st.At(v) }

func witvDomain() constraint.Domain[witv.Witv] {
	return constraint.Domain[witv.Witv]{FromConstant: witv.MkSwinterval, Top: witv.Top}
}

func stnumDomain() constraint.Domain[stnum.Stnum] {
	return constraint.Domain[stnum.Stnum]{FromConstant: stnum.MkStnum, Top: stnum.Top}
}

// AddConstraints propagates csts to a fixpoint against both environments
// independently, then mutually re-tightens every variable the constraints
// mention, mirroring the source's add-then-reduce-each-touched-variable
// sequence.
func (d *Domain) AddConstraints(csts []constraint.Constraint) {
	if d.IsBottom() {
		return
	}

	constraint.New(csts, d.width, constraint.DefaultConfig(), witvDomain()).Run(d.sw)
	constraint.New(csts, d.width, constraint.DefaultConfig(), stnumDomain()).Run(d.st)

	if d.IsBottom() {
		log.Debug("domain: add_constraints found a contradiction")
		return
	}

	for _, cst := range csts {
		for _, v := range cst.Variables() {
			d.reduceVariable(v)
			if d.IsBottom() {
				return
			}
		}
	}
}

// Entails reports whether cst is implied by d: it holds exactly when meeting
// d with cst's negation is unsatisfiable.
func (d *Domain) Entails(cst constraint.Constraint) bool {
	if d.IsBottom() {
		return true
	}

	probe := d.Clone()
	probe.AddConstraints([]constraint.Constraint{cst.Negate()})

	return probe.IsBottom()
}

// falseConstraintSystem returns a single, permanently contradictory
// constraint, used to represent bottom in a linear constraint system.
func falseConstraintSystem() []constraint.Constraint {
	return []constraint.Constraint{constraint.NewConstraint(big.NewInt(1), nil, constraint.Equality)}
}

// ToLinearConstraintSystem emits, for each variable neither side leaves
// fully unconstrained, two inequalities bounding it by its own signed
// min/max. A variable whose wrapped-interval circle-0 upper end already
// touches the signed max, or whose circle-1 lower start already touches the
// signed min, is skipped: the signed bound would span the entire range and
// so carries no information beyond "unconstrained" — the straddling-pole
// case the source treats as imprecise for either witness.
func (d *Domain) ToLinearConstraintSystem() []constraint.Constraint {
	if d.IsBottom() {
		return falseConstraintSystem()
	}

	signedMax := wrapint.GetSignedMax(d.width)
	signedMin := wrapint.GetSignedMin(d.width)

	var out []constraint.Constraint

	d.sw.Each(func(v env.Variable, w witv.Witv) {
		if w.IsTop() {
			return
		}

		if !w.IsBottomC0() && w.C0.End.Equal(signedMax) {
			return
		}

		if !w.IsBottomC1() && w.C1.Start.Equal(signedMin) {
			return
		}

		lo := w.GetSignedMinValue().SignedValue()
		hi := w.GetSignedMaxValue().SignedValue()

		// v >= lo  <=>  -v <= -lo
		out = append(out, constraint.NewConstraint(new(big.Int).Neg(lo),
			[]constraint.Term{{Coeff: big.NewInt(-1), Var: v}}, constraint.Inequality))
		// v <= hi
		out = append(out, constraint.NewConstraint(new(big.Int).Set(hi),
			[]constraint.Term{{Coeff: big.NewInt(1), Var: v}}, constraint.Inequality))
	})

	return out
}

// String renders the domain as its two constituent environments.
func (d *Domain) String() string {
	if d.IsBottom() {
		return "_|_"
	}

	return d.sw.String() + " ⊓ " + d.st.String()
}
