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

// Package domainerr defines the error kinds shared by every abstract-domain
// package in this module.  Recoverable kinds are logged and mapped to a sound
// top/bottom result by the caller; fatal kinds are returned to the driver and
// indicate a programming defect rather than a shortfall of precision.
package domainerr

import "errors"

// ErrDivideByZero is recoverable: an arithmetic div/rem transfer function was
// asked to divide by a definite zero.  Callers fall back to top.
var ErrDivideByZero = errors.New("divide by zero")

// ErrBitwidthMismatch is fatal: two abstract values of different bitwidths
// were combined.
var ErrBitwidthMismatch = errors.New("bitwidth mismatch")

// ErrBitwidthFromVacuous is fatal: the bitwidth of an empty (bottom) or full
// (top) value was requested.
var ErrBitwidthFromVacuous = errors.New("bitwidth requested from top or bottom value")

// ErrDoesNotFit is recoverable: a mathematical integer does not fit the
// requested bitwidth.  Callers fall back to top.
var ErrDoesNotFit = errors.New("value does not fit requested bitwidth")

// ErrUnsupportedConversion is fatal: a sign/zero extension or truncation was
// requested between incompatible bitwidths.
var ErrUnsupportedConversion = errors.New("unsupported bitwidth conversion")

// ErrNotWellTyped is recoverable: a linear constraint referenced
// incompatible variable types.  Callers drop the constraint.
var ErrNotWellTyped = errors.New("constraint is not well typed")

// ErrBudgetExceeded is recoverable: the solver's operation or cycle budget
// was exhausted before reaching a fixpoint.  Callers keep the last sound
// state.
var ErrBudgetExceeded = errors.New("solver operation budget exceeded")

// ErrRenameNotBijective is fatal: an environment rename was given a from/to
// vector pair that is not a bijection (a repeated source, a repeated target,
// or mismatched lengths).
var ErrRenameNotBijective = errors.New("rename vectors are not bijective")
