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
	"math"
	"os"
	"strings"

	"github.com/consensys/go-blif/pkg/blif"
	"github.com/consensys/go-blif/pkg/util/file"
	"github.com/consensys/go-blif/pkg/util/source"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var infoCmd = &cobra.Command{
	Use:   "info [flags] blif_file(s)",
	Short: "summarise the signals of BLIF circuit(s).",
	Long: `Summarise one or more BLIF circuits: model name, signal counts and the
declared input/output names.  Each circuit is parsed and its dependencies
analysed, but no truth table is evaluated.`,
	Args: cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		// Configure log level
		if GetFlag(cmd, "verbose") {
			log.SetLevel(log.DebugLevel)
		}
		//
		width := summaryWidth(GetFlag(cmd, "full"))
		failed := 0
		// Summarise each file in turn, reporting (but continuing past) any
		// failures.
		for _, input := range args {
			if err := printInfo(input, width); err != nil {
				printError(err)
				failed++
			}
		}
		//
		if failed > 0 {
			os.Exit(2)
		}
	},
}

// printInfo summarises a single BLIF file.  The circuit is parsed and
// analysed (so cyclic dependencies are diagnosed), but never evaluated, and
// hence arbitrarily wide circuits can be summarised.
func printInfo(input string, width int) error {
	_, bytes, err := file.SourceBytes(input)
	if err != nil {
		return err
	}
	//
	circuit, serr := blif.Parse(source.NewSourceFile(input, bytes))
	if serr != nil {
		return serr
	}
	//
	if _, err := blif.NewEvaluator(circuit); err != nil {
		return fmt.Errorf("%s: %w", input, err)
	}
	//
	name := circuit.Name
	if name == "" {
		name = "(unnamed)"
	}
	//
	fmt.Printf("%s: model %s\n", input, name)
	fmt.Println(truncate(fmt.Sprintf("  inputs:  %d (%s)",
		len(circuit.Inputs), strings.Join(circuit.Inputs, " ")), width))
	fmt.Println(truncate(fmt.Sprintf("  outputs: %d (%s)",
		len(circuit.Outputs), strings.Join(circuit.Outputs, " ")), width))
	fmt.Printf("  gates:   %d\n", len(circuit.Gates))
	fmt.Printf("  table:   2^%d rows\n", len(circuit.Inputs))
	//
	return nil
}

// summaryWidth determines how wide a summary line may be: the terminal width
// when attached to one, and otherwise (or when printing in full) unbounded.
func summaryWidth(full bool) int {
	if full || !term.IsTerminal(0) {
		return math.MaxInt
	}
	//
	width, _, err := term.GetSize(0)
	if err != nil {
		return math.MaxInt
	}
	//
	return width
}

// truncate elides the tail of a string which would extend beyond a given
// width.
func truncate(str string, width int) string {
	if len(str) <= width {
		return str
	}
	//
	return str[:max(width-3, 0)] + "..."
}

//nolint:errcheck
func init() {
	rootCmd.AddCommand(infoCmd)
	infoCmd.Flags().Bool("full", false, "print name lists in full.")
}
