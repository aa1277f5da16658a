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
	"bytes"
	"compress/gzip"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/consensys/go-blif/pkg/blif"
	"github.com/consensys/go-blif/pkg/util/source"
	"github.com/stretchr/testify/require"
)

const and2Blif = ".model and2\n.inputs a b\n.outputs c\n.names a b c\n11 1\n.end\n"

func TestFormatTable_01(t *testing.T) {
	circuit, generator := tableOf(t, and2Blif)
	//
	expected := strings.Join([]string{
		"# File: and2.blif",
		"# Total inputs: 2",
		"# Total outputs: 1",
		"# Input names: a b",
		"# Output names: c",
		"00 : 0",
		"01 : 0",
		"10 : 0",
		"11 : 1",
		"",
	}, "\n")
	//
	require.Equal(t, expected, formatTable("and2.blif", circuit, generator))
}

func TestFormatTable_02(t *testing.T) {
	circuit, generator := tableOf(t, ".inputs\n.outputs one zero\n.names one\n1\n.names zero\n")
	//
	expected := strings.Join([]string{
		"# File: const.blif",
		"# Total inputs: 0",
		"# Total outputs: 2",
		"# Input names: ",
		"# Output names: one zero",
		" : 10",
		"",
	}, "\n")
	//
	require.Equal(t, expected, formatTable("const.blif", circuit, generator))
}

func TestConvertFile_01(t *testing.T) {
	// Output name derives from the input name.
	input := writeTempFile(t, "and2.blif", []byte(and2Blif))
	//
	require.NoError(t, convertFile(input, "", blif.TableConfig{}))
	//
	actual, err := os.ReadFile(strings.TrimSuffix(input, ".blif") + ".txt")
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(string(actual), "# File: "+input+"\n"))
	require.True(t, strings.HasSuffix(string(actual), "11 : 1\n"))
}

func TestConvertFile_02(t *testing.T) {
	input := writeTempFile(t, "and2.blif", []byte(and2Blif))
	output := filepath.Join(filepath.Dir(input), "custom.txt")
	//
	require.NoError(t, convertFile(input, output, blif.TableConfig{}))
	//
	_, err := os.Stat(output)
	require.NoError(t, err)
}

func TestConvertFile_03(t *testing.T) {
	// Compressed inputs derive their output from the decompressed name.
	var buffer bytes.Buffer
	//
	gzw := gzip.NewWriter(&buffer)
	_, err := gzw.Write([]byte(and2Blif))
	require.NoError(t, err)
	require.NoError(t, gzw.Close())
	//
	input := writeTempFile(t, "and2.blif.gz", buffer.Bytes())
	//
	require.NoError(t, convertFile(input, "", blif.TableConfig{}))
	//
	_, err = os.Stat(strings.TrimSuffix(input, ".blif.gz") + ".txt")
	require.NoError(t, err)
}

func TestConvertFile_04(t *testing.T) {
	err := convertFile(filepath.Join(t.TempDir(), "missing.blif"), "", blif.TableConfig{})
	require.Error(t, err)
}

func TestConvertFile_05(t *testing.T) {
	// Syntax errors surface as such, and nothing is written.
	input := writeTempFile(t, "bad.blif", []byte(".inputs a\n.outputs c\n.names a c\n1 2\n"))
	//
	err := convertFile(input, "", blif.TableConfig{})
	require.Error(t, err)
	//
	var serr *source.SyntaxError
	require.True(t, errors.As(err, &serr))
	//
	_, err = os.Stat(strings.TrimSuffix(input, ".blif") + ".txt")
	require.True(t, os.IsNotExist(err))
}

func TestConvertFile_06(t *testing.T) {
	// Failures carry the name of the offending file.
	input := writeTempFile(t, "loop.blif", []byte(".inputs i\n.outputs a\n.names b a\n1 1\n.names a b\n1 1\n"))
	//
	err := convertFile(input, "", blif.TableConfig{})
	require.True(t, errors.Is(err, blif.ErrCombinationalLoop))
	require.Contains(t, err.Error(), "loop.blif")
}

func TestConvertBatch_01(t *testing.T) {
	dir := t.TempDir()
	//
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.blif"), []byte(and2Blif), 0600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.blif"), []byte(and2Blif), 0600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.blif"), []byte(".names c\n"), 0600))
	//
	t.Chdir(dir)
	// Failures never stop the remaining conversions.
	require.Equal(t, uint64(1), convertBatch(2, blif.TableConfig{}))
	//
	for _, name := range []string{"a.txt", "b.txt"} {
		_, err := os.Stat(filepath.Join(dir, name))
		require.NoError(t, err)
	}
	//
	_, err := os.Stat(filepath.Join(dir, "bad.txt"))
	require.True(t, os.IsNotExist(err))
}

func TestConvertBatch_02(t *testing.T) {
	// A single worker still converts everything.
	dir := t.TempDir()
	//
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.blif"), []byte(and2Blif), 0600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.blif"), []byte(and2Blif), 0600))
	//
	t.Chdir(dir)
	require.Equal(t, uint64(0), convertBatch(1, blif.TableConfig{}))
	//
	for _, name := range []string{"a.txt", "b.txt"} {
		_, err := os.Stat(filepath.Join(dir, name))
		require.NoError(t, err)
	}
}

// ===================================================================
// Test Helpers
// ===================================================================

// tableOf parses a circuit and prepares its truth-table sequence, which must
// succeed.
func tableOf(t *testing.T, text string) (*blif.Circuit, *blif.TableGenerator) {
	circuit, serr := blif.Parse(source.NewSourceFile("test.blif", []byte(text)))
	require.Nil(t, serr)
	//
	generator, err := circuit.TruthTable(blif.TableConfig{})
	require.NoError(t, err)
	//
	return circuit, generator
}

// writeTempFile writes given contents into a temporary directory, returning
// the full path.
func writeTempFile(t *testing.T, name string, contents []byte) string {
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, contents, 0600))
	//
	return path
}
