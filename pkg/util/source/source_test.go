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
package source

import (
	"testing"
)

func TestSourceFile_00(t *testing.T) {
	// An empty file still has one (empty) line.
	checkLines(t, "", "")
}

func TestSourceFile_01(t *testing.T) {
	checkLines(t, "hello", "hello")
}

func TestSourceFile_02(t *testing.T) {
	checkLines(t, "hello\n", "hello", "")
}

func TestSourceFile_03(t *testing.T) {
	checkLines(t, "hello\nworld", "hello", "world")
}

func TestSourceFile_04(t *testing.T) {
	checkLines(t, "\n\nworld", "", "", "world")
}

func TestSourceFile_05(t *testing.T) {
	checkEnclosing(t, "hello\nworld", 0, 1)
}

func TestSourceFile_06(t *testing.T) {
	checkEnclosing(t, "hello\nworld", 4, 1)
}

func TestSourceFile_07(t *testing.T) {
	// Line terminator belongs to the line it ends.
	checkEnclosing(t, "hello\nworld", 5, 1)
}

func TestSourceFile_08(t *testing.T) {
	checkEnclosing(t, "hello\nworld", 6, 2)
}

func TestSourceFile_09(t *testing.T) {
	// Beyond the end of the file, the last line encloses.
	checkEnclosing(t, "hello\nworld", 100, 2)
}

func TestSourceFile_10(t *testing.T) {
	file := NewSourceFile("test.blif", []byte(".inputs a b\n.outputs c\n"))
	err := file.SyntaxError(NewSpan(8, 9), "unknown signal")
	//
	if err.Message() != "unknown signal" {
		t.Errorf("got message %q", err.Message())
	}
	//
	if err.Error() != "test.blif:1:9: unknown signal" {
		t.Errorf("got error %q", err.Error())
	}
	//
	line := err.FirstEnclosingLine()
	if line.String() != ".inputs a b" {
		t.Errorf("got enclosing line %q", line.String())
	}
}

func TestSpan_01(t *testing.T) {
	span := NewSpan(2, 10)
	if span.Start() != 2 || span.End() != 10 || span.Length() != 8 {
		t.Errorf("got span %v", span)
	}
}

func TestSpan_02(t *testing.T) {
	lhs := NewSpan(2, 5)
	rhs := NewSpan(8, 10)
	//
	joined := lhs.Join(rhs)
	if joined.Start() != 2 || joined.End() != 10 {
		t.Errorf("got joined span %v", joined)
	}
	// Join is symmetric
	joined = rhs.Join(lhs)
	if joined.Start() != 2 || joined.End() != 10 {
		t.Errorf("got joined span %v", joined)
	}
}

// ==================================================================
// Framework
// ==================================================================

func checkLines(t *testing.T, input string, expected ...string) {
	file := NewSourceFile("test", []byte(input))
	//
	if file.LineCount() != len(expected) {
		t.Errorf("got %d lines, expected %d", file.LineCount(), len(expected))
		return
	}
	// Check each line in turn
	for i, text := range expected {
		line := file.Line(i + 1)
		if line.String() != text {
			t.Errorf("line %d: got %q, expected %q", i+1, line.String(), text)
		}
		//
		if line.Number() != i+1 {
			t.Errorf("line %d: got number %d", i+1, line.Number())
		}
	}
}

func checkEnclosing(t *testing.T, input string, index int, expected int) {
	file := NewSourceFile("test", []byte(input))
	line := file.FindFirstEnclosingLine(NewSpan(index, index))
	//
	if line.Number() != expected {
		t.Errorf("index %d: got line %d, expected %d", index, line.Number(), expected)
	}
}
