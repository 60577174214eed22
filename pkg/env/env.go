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

// Package env implements the separate environment: a partial function from
// program variables to abstract values, with lattice operations lifted
// point-wise.  A missing key reads as top (the variable is unconstrained)
// unless the whole environment is bottom, in which case every lookup is
// bottom.
package env

import (
	"fmt"
	"hash/fnv"
	"sort"
	"strings"

	"github.com/gosigned/numdomain/pkg/domainerr"
	"github.com/gosigned/numdomain/pkg/util"
)

// Variable names a program variable.  It implements util.Hasher so it can
// key a util.HashMap.
type Variable string

// Equals implements util.Hasher.
func (v Variable) Equals(o Variable) bool { return v == o }

// Hash implements util.Hasher.
func (v Variable) Hash() uint64 {
	h := fnv.New64a()
	h.Write([]byte(v))

	return h.Sum64()
}

// Value is the lattice interface an abstract-value type must satisfy to be
// stored in an Env.
type Value[T any] interface {
	IsBottom() bool
	IsTop() bool
	Leq(T) bool
	Equal(T) bool
	Join(T) T
	Meet(T) T
	Widen(T) T
	WideningThresholds(T, []int64) T
	Narrow(T) T
}

// Env is a partial map variable -> T, plus an explicit bottom flag so that
// "no variables have been constrained yet" (a map with no entries, reading
// as top everywhere) can be told apart from "this program point is
// unreachable" (bottom, reading as bottom everywhere).
type Env[T Value[T]] struct {
	vals   *util.HashMap[Variable, T]
	top    T
	bot    T
	bottom bool
}

// New creates an empty environment (every variable reads as top) given the
// top value to hand back for an absent key and the bottom value to hand
// back from every lookup once the whole environment collapses to bottom.
func New[T Value[T]](top, bot T) *Env[T] {
	return &Env[T]{vals: util.NewHashMap[Variable, T](8), top: top, bot: bot}
}

// Bottom creates the bottom environment.
func Bottom[T Value[T]](top, bot T) *Env[T] {
	return &Env[T]{vals: util.NewHashMap[Variable, T](0), top: top, bot: bot, bottom: true}
}

// IsBottom reports whether this environment is unreachable.
func (e *Env[T]) IsBottom() bool { return e.bottom }

// IsTop reports whether every variable is unconstrained.
func (e *Env[T]) IsTop() bool { return !e.bottom && e.vals.Size() == 0 }

// At looks up v, returning bottom's zero value's bottom (per IsBottom) when
// the whole environment is bottom, the stored value when present, or top
// otherwise.
func (e *Env[T]) At(v Variable) T {
	if e.bottom {
		return e.bot
	}

	if val, ok := e.vals.Get(v); ok {
		return val
	}

	return e.top
}

// Set performs a strong update: v now maps exactly to val.
func (e *Env[T]) Set(v Variable, val T) {
	if e.bottom {
		return
	}

	if val.IsBottom() {
		e.collapseToBottom()
		return
	}

	e.vals.Insert(v, val)
}

// JoinAt performs a weak update: v now maps to at(v) | val.
func (e *Env[T]) JoinAt(v Variable, val T) {
	if e.bottom {
		return
	}

	e.Set(v, e.At(v).Join(val))
}

// Remove deletes v, so it reads as top again (the "-=v" operator).
func (e *Env[T]) Remove(v Variable) {
	if e.bottom {
		return
	}

	e.vals.Delete(v)
}

// Forget removes every variable in vars.
func (e *Env[T]) Forget(vars []Variable) {
	for _, v := range vars {
		e.Remove(v)
	}
}

// Project keeps only the variables in vars, forgetting everything else.
func (e *Env[T]) Project(vars []Variable) {
	if e.bottom {
		return
	}

	keep := make(map[Variable]bool, len(vars))
	for _, v := range vars {
		keep[v] = true
	}

	var drop []Variable

	e.vals.Each(func(k Variable, _ T) {
		if !keep[k] {
			drop = append(drop, k)
		}
	})

	e.Forget(drop)
}

// Expand copies x's value to new_x (new_x must be previously unconstrained
// in the caller's intent; this simply overwrites it as a strong update).
func (e *Env[T]) Expand(x, newX Variable) {
	if e.bottom {
		return
	}

	e.Set(newX, e.At(x))
}

// Rename remaps every variable in from to the corresponding variable in to.
// from and to must together describe a bijection: same length, no repeated
// source, no repeated target. A non-bijective request returns
// domainerr.ErrRenameNotBijective and leaves the environment unchanged.
func (e *Env[T]) Rename(from, to []Variable) error {
	if len(from) != len(to) {
		return domainerr.ErrRenameNotBijective
	}

	seenFrom := make(map[Variable]bool, len(from))
	seenTo := make(map[Variable]bool, len(to))

	for i := range from {
		if seenFrom[from[i]] || seenTo[to[i]] {
			return domainerr.ErrRenameNotBijective
		}

		seenFrom[from[i]] = true
		seenTo[to[i]] = true
	}

	if e.bottom {
		return nil
	}

	next := util.NewHashMap[Variable, T](e.vals.Size())
	mapping := make(map[Variable]Variable, len(from))

	for i := range from {
		mapping[from[i]] = to[i]
	}

	e.vals.Each(func(k Variable, val T) {
		if nk, ok := mapping[k]; ok {
			next.Insert(nk, val)
		} else {
			next.Insert(k, val)
		}
	})

	e.vals = next

	return nil
}

// SetBottom collapses the whole environment to bottom, so every lookup
// returns bottom regardless of key. Used by consumers (e.g. the constraint
// solver) that detect unreachability by means other than a single Set call.
func (e *Env[T]) SetBottom() {
	e.collapseToBottom()
}

func (e *Env[T]) collapseToBottom() {
	e.bottom = true
	e.vals = util.NewHashMap[Variable, T](0)
}

// Top returns the default value used for an absent key.
func (e *Env[T]) Top() T { return e.top }

// Clone returns an independent copy of e; mutating the result never affects
// e, matching the teacher's pervasive copy-constructor semantics for
// abstract values.
func (e *Env[T]) Clone() *Env[T] { return e.clone() }

// Each visits every explicitly-constrained variable and its value. It is a
// no-op on a bottom environment, since a bottom environment constrains every
// variable without naming any of them.
func (e *Env[T]) Each(f func(Variable, T)) {
	if e.bottom {
		return
	}

	e.vals.Each(f)
}

// String renders the environment as a sorted-by-name map literal, so output
// is deterministic for tests and diagnostics.
func (e *Env[T]) String() string {
	if e.bottom {
		return "_|_"
	}

	type kv struct {
		k Variable
		v T
	}

	var entries []kv

	e.vals.Each(func(k Variable, val T) {
		entries = append(entries, kv{k, val})
	})

	sort.Slice(entries, func(i, j int) bool { return entries[i].k < entries[j].k })

	var b strings.Builder

	b.WriteString("{")

	for i, e := range entries {
		if i > 0 {
			b.WriteString(", ")
		}

		fmt.Fprintf(&b, "%s=%v", e.k, e.v)
	}

	b.WriteString("}")

	return b.String()
}
