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
package file

import (
	"compress/bzip2"
	"compress/gzip"
	"io"
	"os"
	"path"
	"strings"
)

// SourceBytes reads the raw contents of a given file, transparently
// decompressing it based on the filename extension (.bz2 and .gz are
// recognised).  The effective filename is returned alongside the contents,
// with any compression extension stripped, so that names derived from it
// reflect the underlying file.
func SourceBytes(filename string) (string, []byte, error) {
	file, err := os.Open(filename)
	if err != nil {
		return "", nil, err
	}
	// Ensure file closed
	defer file.Close()
	// Apply decompression (if applicable)
	var reader io.Reader = file
	// Check extension
	switch path.Ext(filename) {
	case ".bz2":
		reader = bzip2.NewReader(file)
		filename = strings.TrimSuffix(filename, ".bz2")
	case ".gz":
		if reader, err = gzip.NewReader(file); err != nil {
			return "", nil, err
		}
		//
		filename = strings.TrimSuffix(filename, ".gz")
	}
	//
	bytes, err := io.ReadAll(reader)
	if err != nil {
		return "", nil, err
	}
	//
	return filename, bytes, nil
}

// DeriveOutput determines an output filename from a given input filename by
// replacing a trailing inSuffix with outSuffix.  When the input does not carry
// the expected suffix, outSuffix is simply appended.
func DeriveOutput(input string, inSuffix string, outSuffix string) string {
	if base, ok := strings.CutSuffix(input, inSuffix); ok {
		return base + outSuffix
	}
	// Unexpected suffix, hence append.
	return input + outSuffix
}

// FindBySuffix returns the name of every regular file in a given directory
// whose name ends with the given suffix.  The result is in lexicographic
// order, and the search does not recurse into subdirectories.
func FindBySuffix(dir string, suffix string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	//
	var matches []string
	//
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), suffix) {
			matches = append(matches, e.Name())
		}
	}
	// NOTE: os.ReadDir guarantees filename order.
	return matches, nil
}
