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

// Package cmd implements numdomain-debug, a small command-line tool for
// exercising the tnum and wrapped-interval domains from the shell: parse a
// couple of textual literals, apply a lattice operation, print the result.
package cmd

import (
	"fmt"
	"math/big"
	"strconv"
	"strings"

	"github.com/gosigned/numdomain/pkg/tnum"
	"github.com/gosigned/numdomain/pkg/witv"
)

// parseLiteral reads a literal of the form "w<width>:<value>" (a singleton)
// or "w<width>:<lo>,<hi>" (a range), e.g. "w8:5" or "w8:-3,10".
func parseLiteral(lit string) (width uint, lo, hi *big.Int, err error) {
	rest, ok := strings.CutPrefix(lit, "w")
	if !ok {
		return 0, nil, nil, fmt.Errorf("literal %q must start with \"w<width>:\"", lit)
	}

	widthStr, body, ok := strings.Cut(rest, ":")
	if !ok {
		return 0, nil, nil, fmt.Errorf("literal %q is missing the \":\" separating width from value", lit)
	}

	w, err := strconv.ParseUint(widthStr, 10, 8)
	if err != nil {
		return 0, nil, nil, fmt.Errorf("literal %q has an invalid bitwidth: %w", lit, err)
	}

	loStr, hiStr, isRange := strings.Cut(body, ",")

	lo, ok = new(big.Int).SetString(strings.TrimSpace(loStr), 10)
	if !ok {
		return 0, nil, nil, fmt.Errorf("literal %q has an invalid integer %q", lit, loStr)
	}

	if !isRange {
		return uint(w), lo, lo, nil
	}

	hi, ok = new(big.Int).SetString(strings.TrimSpace(hiStr), 10)
	if !ok {
		return 0, nil, nil, fmt.Errorf("literal %q has an invalid integer %q", lit, hiStr)
	}

	return uint(w), lo, hi, nil
}

// parseTnum parses lit into a tnum, per parseLiteral's syntax.
func parseTnum(lit string) (tnum.Tnum, error) {
	w, lo, hi, err := parseLiteral(lit)
	if err != nil {
		return tnum.Tnum{}, err
	}

	if lo.Cmp(hi) == 0 {
		return tnum.MkTnum(lo, w), nil
	}

	return tnum.MkTnumRange(lo, hi, w), nil
}

// parseWitv parses lit into a wrapped interval, per parseLiteral's syntax.
func parseWitv(lit string) (witv.Witv, error) {
	w, lo, hi, err := parseLiteral(lit)
	if err != nil {
		return witv.Witv{}, err
	}

	if lo.Cmp(hi) == 0 {
		return witv.MkSwinterval(lo, w), nil
	}

	return witv.MkSwintervalRange(lo, hi, w), nil
}
