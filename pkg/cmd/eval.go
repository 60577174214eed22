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
package cmd

import (
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/gosigned/numdomain/pkg/tnum"
	"github.com/gosigned/numdomain/pkg/witv"
)

var evalCmd = &cobra.Command{
	Use:   "eval [flags] literal1 literal2",
	Short: "Evaluate a lattice operation over two tnum/wrapped-interval literals.",
	Long: `Parse two literals of the form "w<width>:<value>" or
"w<width>:<lo>,<hi>" and print the result of applying --op to them, under
--domain.`,
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) != 2 {
			fmt.Println(cmd.UsageString())
			os.Exit(1)
		}

		if GetFlag(cmd, "verbose") {
			log.SetLevel(log.DebugLevel)
		}

		domain := GetString(cmd, "domain")
		op := GetString(cmd, "op")

		result, err := evalLiterals(domain, op, args[0], args[1])
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}

		printResult(cmd, args[0], args[1], op, result)
	},
}

func init() {
	rootCmd.AddCommand(evalCmd)
	evalCmd.Flags().String("domain", "tnum", "which domain to evaluate in: tnum or witv")
	evalCmd.Flags().String("op", "join", "lattice operation to apply: join, meet, widen or leq")
}

// evalLiterals dispatches to the named domain's implementation of op,
// returning its rendered result.
func evalLiterals(domain, op, lit1, lit2 string) (string, error) {
	switch domain {
	case "tnum":
		return evalTnum(op, lit1, lit2)
	case "witv":
		return evalWitv(op, lit1, lit2)
	default:
		return "", fmt.Errorf("unknown domain %q: must be tnum or witv", domain)
	}
}

func evalTnum(op, lit1, lit2 string) (string, error) {
	a, err := parseTnum(lit1)
	if err != nil {
		return "", err
	}

	b, err := parseTnum(lit2)
	if err != nil {
		return "", err
	}

	switch op {
	case "join":
		return a.Join(b).String(), nil
	case "meet":
		return a.Meet(b).String(), nil
	case "widen":
		return a.Widen(b).String(), nil
	case "leq":
		return fmt.Sprintf("%v", a.Leq(b)), nil
	default:
		return "", fmt.Errorf("unknown op %q: must be join, meet, widen or leq", op)
	}
}

func evalWitv(op, lit1, lit2 string) (string, error) {
	a, err := parseWitv(lit1)
	if err != nil {
		return "", err
	}

	b, err := parseWitv(lit2)
	if err != nil {
		return "", err
	}

	switch op {
	case "join":
		return a.Join(b).String(), nil
	case "meet":
		return a.Meet(b).String(), nil
	case "widen":
		return a.Widen(b).String(), nil
	case "leq":
		return fmt.Sprintf("%v", a.Leq(b)), nil
	default:
		return "", fmt.Errorf("unknown op %q: must be join, meet, widen or leq", op)
	}
}

// printResult prints the evaluated result, coloured bold when stdout is an
// interactive terminal and --no-color was not given.
func printResult(cmd *cobra.Command, lit1, lit2, op, result string) {
	plain := fmt.Sprintf("%s %s %s = %s", lit1, op, lit2, result)

	if GetFlag(cmd, "no-color") || !term.IsTerminal(int(os.Stdout.Fd())) {
		fmt.Println(plain)
		return
	}

	const bold = "\x1b[1m"
	const reset = "\x1b[0m"

	fmt.Printf("%s %s %s = %s%s%s\n", lit1, op, lit2, bold, result, reset)
}
