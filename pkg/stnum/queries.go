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

// LowerHalfLine is the imprecise single-argument form: not used by the
// constraint solver (see LowerHalfLine2 below), it conservatively returns
// top whenever s is neither bottom nor top, matching the source.
func (s Stnum) LowerHalfLine(_ bool) Stnum {
	if s.IsBottom() {
		return s
	}

	if s.IsTop() {
		return s
	}

	return Top(s.width)
}

// UpperHalfLine mirrors LowerHalfLine.
func (s Stnum) UpperHalfLine(_ bool) Stnum {
	return s.LowerHalfLine(false)
}

// LowerHalfLine2 is the two-argument form used by the constraint solver: it
// returns the portion of s consistent with the bound "s >= lowerBoundOf(x)".
// Each circle's half-line is computed independently via the corresponding
// tnum query and re-routed through Normalize, since refining one circle can
// push mass across the pole (e.g. a tightened circle-0 lower bound can empty
// circle 0 entirely, leaving only circle 1 populated).
func (s Stnum) LowerHalfLine2(x Stnum, isSigned bool) Stnum {
	if s.IsBottom() {
		return s
	}

	if s.IsTop() {
		return s
	}

	t0 := s.T0.LowerHalfLine2(x.T0.Join(x.T1), isSigned)
	t1 := s.T1.LowerHalfLine2(x.T0.Join(x.T1), isSigned)

	return Normalize(t0, t1)
}

// UpperHalfLine2 is the two-argument form used by the constraint solver: it
// returns the portion of s consistent with the bound "s <= upperBoundOf(x)".
func (s Stnum) UpperHalfLine2(x Stnum, isSigned bool) Stnum {
	if s.IsBottom() {
		return s
	}

	if s.IsTop() {
		return s
	}

	t0 := s.T0.UpperHalfLine2(x.T0.Join(x.T1), isSigned)
	t1 := s.T1.UpperHalfLine2(x.T0.Join(x.T1), isSigned)

	return Normalize(t0, t1)
}

// Trim removes the exact point pt from s when s is already known to equal
// pt, collapsing to bottom; otherwise each circle is trimmed independently
// against pt's corresponding circle. Used by the constraint solver to
// sharpen a disequation once the other side is pinned to a singleton.
func (s Stnum) Trim(pt Stnum) Stnum {
	if s.IsBottom() || s.IsTop() {
		return s
	}

	if !pt.IsSingleton() {
		return s
	}

	if s.Equal(pt) {
		return Bottom(s.width)
	}

	return Stnum{T0: s.T0.Trim(pt.T0), T1: s.T1.Trim(pt.T1), width: s.width}
}
