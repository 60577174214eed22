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
package env

func (e *Env[T]) unionKeys(o *Env[T]) []Variable {
	seen := make(map[Variable]bool)

	var keys []Variable

	e.vals.Each(func(k Variable, _ T) {
		if !seen[k] {
			seen[k] = true
			keys = append(keys, k)
		}
	})

	o.vals.Each(func(k Variable, _ T) {
		if !seen[k] {
			seen[k] = true
			keys = append(keys, k)
		}
	})

	return keys
}

// Leq reports whether e is contained in o, point-wise over every variable
// either side constrains.
func (e *Env[T]) Leq(o *Env[T]) bool {
	if e.bottom {
		return true
	}

	if o.bottom {
		return false
	}

	for _, v := range e.unionKeys(o) {
		if !e.At(v).Leq(o.At(v)) {
			return false
		}
	}

	return true
}

// Equal reports whether e and o constrain every variable identically.
func (e *Env[T]) Equal(o *Env[T]) bool {
	if e.bottom || o.bottom {
		return e.bottom == o.bottom
	}

	for _, v := range e.unionKeys(o) {
		if !e.At(v).Equal(o.At(v)) {
			return false
		}
	}

	return true
}

// Join computes the least upper bound of e and o, variable by variable.
func (e *Env[T]) Join(o *Env[T]) *Env[T] {
	if e.bottom {
		return o.clone()
	}

	if o.bottom {
		return e.clone()
	}

	r := New[T](e.top, e.bot)
	for _, v := range e.unionKeys(o) {
		r.Set(v, e.At(v).Join(o.At(v)))
	}

	return r
}

// Meet computes the greatest lower bound of e and o, variable by variable.
func (e *Env[T]) Meet(o *Env[T]) *Env[T] {
	if e.bottom || o.bottom {
		return Bottom[T](e.top, e.bot)
	}

	r := New[T](e.top, e.bot)
	for _, v := range e.unionKeys(o) {
		r.Set(v, e.At(v).Meet(o.At(v)))
	}

	return r
}

// Widen computes the widening of e by o, variable by variable, using each
// value's own Widen operator.
func (e *Env[T]) Widen(o *Env[T]) *Env[T] {
	if e.bottom {
		return o.clone()
	}

	if o.bottom {
		return e.clone()
	}

	r := New[T](e.top, e.bot)
	for _, v := range e.unionKeys(o) {
		r.Set(v, e.At(v).Widen(o.At(v)))
	}

	return r
}

// WidenThresholds computes the thresholds-guided widening of e by o,
// variable by variable.
func (e *Env[T]) WidenThresholds(o *Env[T], ts []int64) *Env[T] {
	if e.bottom {
		return o.clone()
	}

	if o.bottom {
		return e.clone()
	}

	r := New[T](e.top, e.bot)
	for _, v := range e.unionKeys(o) {
		r.Set(v, e.At(v).WideningThresholds(o.At(v), ts))
	}

	return r
}

// Narrow computes the narrowing of e by o, variable by variable.
func (e *Env[T]) Narrow(o *Env[T]) *Env[T] {
	if e.bottom || o.bottom {
		return Bottom[T](e.top, e.bot)
	}

	r := New[T](e.top, e.bot)
	for _, v := range e.unionKeys(o) {
		r.Set(v, e.At(v).Narrow(o.At(v)))
	}

	return r
}

func (e *Env[T]) clone() *Env[T] {
	if e.bottom {
		return Bottom[T](e.top, e.bot)
	}

	r := New[T](e.top, e.bot)
	r.vals = e.vals.Clone()

	return r
}
