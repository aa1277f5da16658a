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
	"strings"
	"sync/atomic"

	"github.com/consensys/go-blif/pkg/blif"
	"github.com/consensys/go-blif/pkg/util/file"
	"github.com/consensys/go-blif/pkg/util/source"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var convertCmd = &cobra.Command{
	Use:   "convert [flags] [blif_file]",
	Short: "convert BLIF circuit(s) into truth table(s).",
	Long: `Convert a BLIF circuit into an exhaustive truth table, one row per
combination of the primary inputs.  Without an argument, every *.blif file in
the working directory is converted, each independently of the others.`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		// Configure log level
		if GetFlag(cmd, "verbose") {
			log.SetLevel(log.DebugLevel)
		}
		//
		cfg := blif.TableConfig{MaxInputs: GetUint(cmd, "max-inputs")}
		output := GetString(cmd, "output")
		jobs := GetUint(cmd, "jobs")
		// An explicit file converts on its own.
		if len(args) == 1 {
			if err := convertFile(args[0], output, cfg); err != nil {
				printError(err)
				os.Exit(2)
			}
			//
			return
		}
		// Otherwise the working directory converts in batch.
		if output != "" {
			fmt.Println("--output requires an explicit input file")
			os.Exit(1)
		}
		//
		if failed := convertBatch(jobs, cfg); failed > 0 {
			os.Exit(1)
		}
	},
}

// convertFile converts a single BLIF file into a truth-table file.  An empty
// output name derives one from the input by replacing its .blif suffix with
// .txt.  Nothing is written unless the entire table has been produced.
func convertFile(input string, output string, cfg blif.TableConfig) error {
	// Read (possibly compressed) source
	effective, bytes, err := file.SourceBytes(input)
	if err != nil {
		return err
	}
	//
	if output == "" {
		output = file.DeriveOutput(effective, ".blif", ".txt")
		log.Debugf("%s derives output %s", input, output)
	}
	//
	circuit, serr := blif.Parse(source.NewSourceFile(input, bytes))
	if serr != nil {
		return serr
	}
	//
	generator, err := circuit.TruthTable(cfg)
	if err != nil {
		return fmt.Errorf("%s: %w", input, err)
	}
	//
	table := formatTable(input, circuit, generator)
	//
	if err := os.WriteFile(output, []byte(table), 0644); err != nil {
		return err
	}
	//
	log.Infof("wrote %s (%d rows over %d inputs, %d outputs)",
		output, generator.Rows(), len(circuit.Inputs), len(circuit.Outputs))
	//
	return nil
}

// convertBatch converts every *.blif file in the working directory.  Each
// file converts independently: a failure is reported without stopping the
// others, and the number of failures is returned.  Conversions run on up to
// jobs goroutines at once.
func convertBatch(jobs uint, cfg blif.TableConfig) uint64 {
	inputs, err := file.FindBySuffix(".", ".blif")
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}
	//
	log.Debugf("found %d blif files", len(inputs))
	//
	var (
		group  errgroup.Group
		failed atomic.Uint64
	)
	//
	group.SetLimit(int(max(jobs, 1)))
	//
	for _, input := range inputs {
		group.Go(func() error {
			if err := convertFile(input, "", cfg); err != nil {
				log.Errorf("%v", err)
				failed.Add(1)
			}
			// Conversions are independent, so a failure never cancels the
			// group.
			return nil
		})
	}
	// Group members never error, hence nor can the wait.
	_ = group.Wait()
	//
	log.Infof("converted %d of %d files", uint64(len(inputs))-failed.Load(), len(inputs))
	//
	return failed.Load()
}

// formatTable renders the complete truth table of a given circuit, headed by
// comment lines identifying the source file and its signals.
func formatTable(filename string, circuit *blif.Circuit, generator *blif.TableGenerator) string {
	var builder strings.Builder
	//
	builder.WriteString(fmt.Sprintf("# File: %s\n", filename))
	builder.WriteString(fmt.Sprintf("# Total inputs: %d\n", len(circuit.Inputs)))
	builder.WriteString(fmt.Sprintf("# Total outputs: %d\n", len(circuit.Outputs)))
	builder.WriteString(fmt.Sprintf("# Input names: %s\n", strings.Join(circuit.Inputs, " ")))
	builder.WriteString(fmt.Sprintf("# Output names: %s\n", strings.Join(circuit.Outputs, " ")))
	//
	for generator.HasNext() {
		row := generator.Next()
		builder.WriteString(row.Inputs)
		builder.WriteString(" : ")
		builder.WriteString(row.Outputs)
		builder.WriteByte('\n')
	}
	//
	return builder.String()
}

//nolint:errcheck
func init() {
	rootCmd.AddCommand(convertCmd)
	convertCmd.Flags().StringP("output", "o", "", "specify output file.")
	convertCmd.Flags().UintP("jobs", "j", 1, "number of concurrent conversions in batch mode.")
	convertCmd.Flags().Uint("max-inputs", blif.DefaultMaxInputs, "maximum number of primary inputs accepted.")
}
