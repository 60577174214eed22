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
package stnum

// Leq reports whether s is contained in o, circle by circle.
func (s Stnum) Leq(o Stnum) bool {
	if s.IsBottom() {
		return true
	}

	if o.IsTop() {
		return true
	}

	return s.T0.Leq(o.T0) && s.T1.Leq(o.T1)
}

// Equal reports whether s and o denote the same concretization.
func (s Stnum) Equal(o Stnum) bool {
	if s.IsBottom() && o.IsBottom() {
		return true
	}

	return s.T0.Equal(o.T0) && s.T1.Equal(o.T1)
}

// Join computes the least upper bound of s and o.
func (s Stnum) Join(o Stnum) Stnum {
	if s.IsBottom() {
		return o
	}

	if o.IsBottom() {
		return s
	}

	return Stnum{T0: s.T0.Join(o.T0), T1: s.T1.Join(o.T1), width: s.width}
}

// Meet computes the greatest lower bound of s and o.
func (s Stnum) Meet(o Stnum) Stnum {
	if s.IsBottom() || o.IsBottom() {
		return Bottom(s.width)
	}

	return Stnum{T0: s.T0.Meet(o.T0), T1: s.T1.Meet(o.T1), width: s.width}
}

// Widen applies the tnum widening operator independently on each circle,
// reusing pkg/tnum's exact widening policy.
func (s Stnum) Widen(o Stnum) Stnum {
	if s.IsBottom() {
		return o
	}

	if o.IsBottom() {
		return s
	}

	return Stnum{T0: s.T0.Widen(o.T0), T1: s.T1.Widen(o.T1), width: s.width}
}

// WideningThresholds ignores the thresholds and applies plain Widen, as the
// tnum and witv versions do.
func (s Stnum) WideningThresholds(o Stnum, _ []int64) Stnum {
	return s.Widen(o)
}

// Narrow is a stub that falls back to plain meet, matching the source's own
// "TODO: for now we call the meet operator".
func (s Stnum) Narrow(o Stnum) Stnum {
	return s.Meet(o)
}
