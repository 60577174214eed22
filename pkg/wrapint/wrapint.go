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

// Package wrapint provides a bitwidth-parameterised unsigned/signed integer
// with modular (two's complement) arithmetic.  It is the sole place wrap-
// around behaviour occurs; every abstract domain in this module reasons
// about concrete wrapping through this package.
package wrapint

import (
	"fmt"
	"math/big"

	"github.com/bits-and-blooms/bitset"
	log "github.com/sirupsen/logrus"

	"github.com/gosigned/numdomain/pkg/domainerr"
)

// Wrapint is an immutable value of bitwidth Width(), interpreted unsigned by
// default with two's complement available via SignedValue.
type Wrapint struct {
	width uint
	bits  big.Int // always satisfies 0 <= bits < 2^width
}

// maskFor returns 2^w - 1.
func maskFor(w uint) *big.Int {
	m := new(big.Int).Lsh(big.NewInt(1), w)
	return m.Sub(m, big.NewInt(1))
}

// reduce reduces n modulo 2^w into [0, 2^w).
func reduce(n *big.Int, w uint) big.Int {
	m := new(big.Int).Lsh(big.NewInt(1), w)
	var r big.Int
	r.Mod(n, m)

	return r
}

// FitsSignedWrapint determines whether n fits the signed range representable
// at bitwidth w, i.e. -2^(w-1) <= n <= 2^(w-1)-1.
func FitsSignedWrapint(n *big.Int, w uint) bool {
	half := new(big.Int).Lsh(big.NewInt(1), w-1)
	min := new(big.Int).Neg(half)
	max := new(big.Int).Sub(half, big.NewInt(1))

	return n.Cmp(min) >= 0 && n.Cmp(max) <= 0
}

// NewSigned constructs a wrapint from a (possibly negative) mathematical
// integer interpreted as two's complement at width w.  It fails with
// domainerr.ErrDoesNotFit (recoverable, logged) if n does not fit the signed
// range of width w.
func NewSigned(n *big.Int, w uint) (Wrapint, error) {
	if !FitsSignedWrapint(n, w) {
		log.WithFields(log.Fields{"value": n.String(), "width": w}).Warn("wrapint: signed value does not fit bitwidth")
		return Wrapint{width: w}, domainerr.ErrDoesNotFit
	}

	return Wrapint{width: w, bits: reduce(n, w)}, nil
}

// FitsWrapint determines whether the mathematical integer n can be
// represented losslessly as an unsigned bitwidth-w value, i.e. 0 <= n < 2^w.
func FitsWrapint(n *big.Int, w uint) bool {
	if n.Sign() < 0 {
		return false
	}

	return n.Cmp(new(big.Int).Lsh(big.NewInt(1), w)) < 0
}

// New constructs a wrapint from a mathematical integer and a bitwidth.  It
// fails with domainerr.ErrDoesNotFit (recoverable, logged) if n does not fit;
// in that case the zero value of the given width is returned alongside the
// error so a caller that chooses to ignore the error still gets a defined
// value.
func New(n *big.Int, w uint) (Wrapint, error) {
	if !FitsWrapint(n, w) {
		log.WithFields(log.Fields{"value": n.String(), "width": w}).Warn("wrapint: value does not fit bitwidth")
		return Wrapint{width: w}, domainerr.ErrDoesNotFit
	}

	return Wrapint{width: w, bits: *new(big.Int).Set(n)}, nil
}

// FromUint64 constructs a wrapint from a native unsigned integer, reducing it
// modulo 2^w.
func FromUint64(n uint64, w uint) Wrapint {
	r := reduce(new(big.Int).SetUint64(n), w)
	return Wrapint{width: w, bits: r}
}

// FromInt64 constructs a wrapint from a native signed integer, taking its
// two's complement representation at width w.
func FromInt64(n int64, w uint) Wrapint {
	r := reduce(big.NewInt(n), w)
	return Wrapint{width: w, bits: r}
}

// Width returns the bitwidth of this value.
func (p Wrapint) Width() uint { return p.width }

// Big returns the unsigned mathematical value of this wrapint (always in
// [0, 2^w)).
func (p Wrapint) Big() *big.Int {
	return new(big.Int).Set(&p.bits)
}

// Uint64 returns the value truncated to a native uint64 (valid when
// Width() <= 64).
func (p Wrapint) Uint64() uint64 { return p.bits.Uint64() }

// Msb reports whether the most-significant bit (the sign bit under two's
// complement) is set.
func (p Wrapint) Msb() bool {
	return p.bits.Bit(int(p.width-1)) == 1
}

// SignedValue interprets this value's bits as a two's complement signed
// integer.
func (p Wrapint) SignedValue() *big.Int {
	if !p.Msb() {
		return p.Big()
	}

	full := new(big.Int).Lsh(big.NewInt(1), p.width)

	return new(big.Int).Sub(p.Big(), full)
}

func (p Wrapint) String() string {
	return fmt.Sprintf("%s_%d", p.bits.String(), p.width)
}

// checkWidth returns a domainerr.ErrBitwidthMismatch error when p and o
// disagree on bitwidth; combining values of unequal width is a driver bug.
func checkWidth(p, o Wrapint) error {
	if p.width != o.width {
		return fmt.Errorf("%w: %d vs %d", domainerr.ErrBitwidthMismatch, p.width, o.width)
	}

	return nil
}

// Equal reports bitwise (and bitwidth) equality.
func (p Wrapint) Equal(o Wrapint) bool {
	return p.width == o.width && p.bits.Cmp(&o.bits) == 0
}

// Min returns the unsigned-lesser of two equal-width values.
func Min(a, b Wrapint) Wrapint {
	if a.bits.Cmp(&b.bits) <= 0 {
		return a
	}

	return b
}

// Max returns the unsigned-greater of two equal-width values.
func Max(a, b Wrapint) Wrapint {
	if a.bits.Cmp(&b.bits) >= 0 {
		return a
	}

	return b
}

// ULt is the unsigned less-than comparison.
func (p Wrapint) ULt(o Wrapint) bool { return p.bits.Cmp(&o.bits) < 0 }

// ULe is the unsigned less-than-or-equal comparison.
func (p Wrapint) ULe(o Wrapint) bool { return p.bits.Cmp(&o.bits) <= 0 }

// SLt is the signed less-than comparison (two's complement interpretation).
func (p Wrapint) SLt(o Wrapint) bool { return p.SignedValue().Cmp(o.SignedValue()) < 0 }

// SLe is the signed less-than-or-equal comparison.
func (p Wrapint) SLe(o Wrapint) bool { return p.SignedValue().Cmp(o.SignedValue()) <= 0 }

// Add computes (p + o) mod 2^w.
func (p Wrapint) Add(o Wrapint) Wrapint {
	if err := checkWidth(p, o); err != nil {
		panic(err)
	}

	sum := new(big.Int).Add(&p.bits, &o.bits)
	r := reduce(sum, p.width)

	return Wrapint{width: p.width, bits: r}
}

// Sub computes (p - o) mod 2^w.
func (p Wrapint) Sub(o Wrapint) Wrapint {
	if err := checkWidth(p, o); err != nil {
		panic(err)
	}

	d := new(big.Int).Sub(&p.bits, &o.bits)
	r := reduce(d, p.width)

	return Wrapint{width: p.width, bits: r}
}

// Neg computes (-p) mod 2^w.
func (p Wrapint) Neg() Wrapint {
	z, _ := New(big.NewInt(0), p.width)
	return z.Sub(p)
}

// Mul computes (p * o) mod 2^w.
func (p Wrapint) Mul(o Wrapint) Wrapint {
	if err := checkWidth(p, o); err != nil {
		panic(err)
	}

	m := new(big.Int).Mul(&p.bits, &o.bits)
	r := reduce(m, p.width)

	return Wrapint{width: p.width, bits: r}
}

// UDiv computes unsigned division, failing domainerr.ErrDivideByZero when o
// is zero (returns the zero value of the operand width in that case).
func (p Wrapint) UDiv(o Wrapint) (Wrapint, error) {
	if err := checkWidth(p, o); err != nil {
		return Wrapint{}, err
	}

	if o.bits.Sign() == 0 {
		log.WithField("width", p.width).Warn("wrapint: unsigned division by zero")
		return Wrapint{width: p.width}, domainerr.ErrDivideByZero
	}

	q := new(big.Int).Div(&p.bits, &o.bits)

	return Wrapint{width: p.width, bits: *q}, nil
}

// URem computes unsigned remainder.
func (p Wrapint) URem(o Wrapint) (Wrapint, error) {
	if err := checkWidth(p, o); err != nil {
		return Wrapint{}, err
	}

	if o.bits.Sign() == 0 {
		log.WithField("width", p.width).Warn("wrapint: unsigned remainder by zero")
		return Wrapint{width: p.width}, domainerr.ErrDivideByZero
	}

	r := new(big.Int).Mod(&p.bits, &o.bits)

	return Wrapint{width: p.width, bits: *r}, nil
}

// SDiv computes truncating signed division.
func (p Wrapint) SDiv(o Wrapint) (Wrapint, error) {
	if err := checkWidth(p, o); err != nil {
		return Wrapint{}, err
	}

	if o.bits.Sign() == 0 {
		log.WithField("width", p.width).Warn("wrapint: signed division by zero")
		return Wrapint{width: p.width}, domainerr.ErrDivideByZero
	}

	q := new(big.Int).Quo(p.SignedValue(), o.SignedValue())
	red := reduce(q, p.width)

	return Wrapint{width: p.width, bits: red}, nil
}

// SRem computes truncating signed remainder.
func (p Wrapint) SRem(o Wrapint) (Wrapint, error) {
	if err := checkWidth(p, o); err != nil {
		return Wrapint{}, err
	}

	if o.bits.Sign() == 0 {
		log.WithField("width", p.width).Warn("wrapint: signed remainder by zero")
		return Wrapint{width: p.width}, domainerr.ErrDivideByZero
	}

	r := new(big.Int).Rem(p.SignedValue(), o.SignedValue())
	red := reduce(r, p.width)

	return Wrapint{width: p.width, bits: red}, nil
}

// And computes the bitwise conjunction.
func (p Wrapint) And(o Wrapint) Wrapint {
	var r big.Int
	r.And(&p.bits, &o.bits)

	return Wrapint{width: p.width, bits: r}
}

// Or computes the bitwise disjunction.
func (p Wrapint) Or(o Wrapint) Wrapint {
	var r big.Int
	r.Or(&p.bits, &o.bits)

	return Wrapint{width: p.width, bits: r}
}

// Xor computes the bitwise exclusive-or.
func (p Wrapint) Xor(o Wrapint) Wrapint {
	var r big.Int
	r.Xor(&p.bits, &o.bits)

	return Wrapint{width: p.width, bits: r}
}

// Not computes the bitwise complement within this value's width.
func (p Wrapint) Not() Wrapint {
	m := maskFor(p.width)

	var r big.Int
	r.Xor(&p.bits, m)

	return Wrapint{width: p.width, bits: r}
}

// shiftCount saturates a shift amount at the bitwidth, matching the "shift
// count taken modulo w, or saturating at w" rule of the wrapping-integer
// contract.
func (p Wrapint) shiftCount(k uint) uint {
	if k > p.width {
		return p.width
	}

	return k
}

// Shl computes a logical left shift, discarding bits shifted past the top.
func (p Wrapint) Shl(k uint) Wrapint {
	k = p.shiftCount(k)

	var r big.Int
	r.Lsh(&p.bits, k)

	return Wrapint{width: p.width, bits: reduce(&r, p.width)}
}

// LShr computes a logical right shift.
func (p Wrapint) LShr(k uint) Wrapint {
	k = p.shiftCount(k)

	var r big.Int
	r.Rsh(&p.bits, k)

	return Wrapint{width: p.width, bits: r}
}

// AShr computes an arithmetic (sign-extending) right shift.
func (p Wrapint) AShr(k uint) Wrapint {
	k = p.shiftCount(k)

	s := p.SignedValue()

	var r big.Int
	r.Rsh(s, k) // big.Int.Rsh on a negative value rounds toward -inf, i.e. arithmetic shift

	return Wrapint{width: p.width, bits: reduce(&r, p.width)}
}

// toBitSet renders the unsigned value as a bitset for scan operations.
func (p Wrapint) toBitSet() *bitset.BitSet {
	b := bitset.New(p.width)

	for i := uint(0); i < p.width; i++ {
		if p.bits.Bit(int(i)) == 1 {
			b.Set(i)
		}
	}

	return b
}

// CountTrailingZeros returns the number of trailing (low-order) zero bits.
func (p Wrapint) CountTrailingZeros() uint {
	b := p.toBitSet()
	if idx, ok := b.NextSet(0); ok {
		return idx
	}

	return p.width
}

// CountLeadingZeros returns the number of leading (high-order) zero bits.
func (p Wrapint) CountLeadingZeros() uint {
	b := p.toBitSet()

	for i := p.width; i > 0; i-- {
		if b.Test(i - 1) {
			return p.width - i
		}
	}

	return p.width
}

// Fls ("find last set") returns the index one past the highest set bit, i.e.
// the minimum number of bits needed to represent this value unsigned; 0 when
// the value is zero.
func (p Wrapint) Fls() uint {
	return p.width - p.CountLeadingZeros()
}

// ZExt zero-extends this value to a larger bitwidth.
func (p Wrapint) ZExt(newWidth uint) (Wrapint, error) {
	if newWidth < p.width {
		return Wrapint{}, domainerr.ErrUnsupportedConversion
	}

	return Wrapint{width: newWidth, bits: *p.Big()}, nil
}

// SExt sign-extends this value to a larger bitwidth, replicating the sign
// bit.
func (p Wrapint) SExt(newWidth uint) (Wrapint, error) {
	if newWidth < p.width {
		return Wrapint{}, domainerr.ErrUnsupportedConversion
	}

	if !p.Msb() {
		return Wrapint{width: newWidth, bits: *p.Big()}, nil
	}

	diff := newWidth - p.width
	highOnes := new(big.Int).Lsh(maskFor(diff), p.width)

	var r big.Int
	r.Or(p.Big(), highOnes)

	return Wrapint{width: newWidth, bits: r}, nil
}

// Trunc keeps the low newWidth bits of this value.
func (p Wrapint) Trunc(newWidth uint) (Wrapint, error) {
	if newWidth > p.width {
		return Wrapint{}, domainerr.ErrUnsupportedConversion
	}

	return Wrapint{width: newWidth, bits: reduce(p.Big(), newWidth)}, nil
}

// IsZero reports whether this value is exactly zero.
func (p Wrapint) IsZero() bool { return p.bits.Sign() == 0 }

// Bit returns the value (0 or 1) of bit i.
func (p Wrapint) Bit(i uint) uint {
	return uint(p.bits.Bit(int(i)))
}

// SetBit returns a copy of p with bit i forced to 1.
func (p Wrapint) SetBit(i uint) Wrapint {
	var r big.Int
	r.SetBit(&p.bits, int(i), 1)

	return Wrapint{width: p.width, bits: r}
}

// ClearBit returns a copy of p with bit i forced to 0.
func (p Wrapint) ClearBit(i uint) Wrapint {
	var r big.Int
	r.SetBit(&p.bits, int(i), 0)

	return Wrapint{width: p.width, bits: r}
}

// GetUnsignedMin returns the unsigned minimum (always zero) at width w.
func GetUnsignedMin(w uint) Wrapint {
	return Wrapint{width: w}
}

// GetUnsignedMax returns the unsigned maximum (2^w - 1) at width w.
func GetUnsignedMax(w uint) Wrapint {
	return Wrapint{width: w, bits: *maskFor(w)}
}

// GetSignedMin returns the signed minimum (-2^(w-1)) at width w, encoded as
// its unsigned bit pattern.
func GetSignedMin(w uint) Wrapint {
	v := new(big.Int).Lsh(big.NewInt(1), w-1)
	return Wrapint{width: w, bits: *v}
}

// GetSignedMax returns the signed maximum (2^(w-1) - 1) at width w.
func GetSignedMax(w uint) Wrapint {
	v := new(big.Int).Lsh(big.NewInt(1), w-1)
	v.Sub(v, big.NewInt(1))

	return Wrapint{width: w, bits: *v}
}
