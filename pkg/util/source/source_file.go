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
	"fmt"
	"sort"
)

// Line provides information about a given line within the original string.
// This includes the line number (counting from 1), and the span of the line
// within the original string.
type Line struct {
	// Original text
	text []rune
	// Span within original text of this line.
	span Span
	// Line number of this line (counting from 1).
	number int
}

// Get the string representing this line.
func (p *Line) String() string {
	// Extract runes representing line
	runes := p.text[p.span.start:p.span.end]
	// Convert into string
	return string(runes)
}

// Number gets the line number of this line, where the first line in a string
// has line number 1.
func (p *Line) Number() int {
	return p.number
}

// Span returns the span of this line within the original string, excluding any
// line terminator.
func (p *Line) Span() Span {
	return p.span
}

// Start returns the starting index of this line in the original string.
func (p *Line) Start() int {
	return p.span.start
}

// Length returns the number of characters in this line.
func (p *Line) Length() int {
	return p.span.Length()
}

// File represents a given source file (typically stored on disk).
type File struct {
	// File name for this source file.
	filename string
	// Contents of this file.
	contents []rune
	// Starting offset of each physical line within the contents.  There is
	// always at least one line, even for an empty file.
	lines []int
}

// NewSourceFile constructs a new source file from a given byte array.
func NewSourceFile(filename string, bytes []byte) *File {
	// Convert bytes into runes for easier parsing
	contents := []rune(string(bytes))
	// Index the starting offset of every physical line.
	lines := []int{0}
	//
	for i, c := range contents {
		if c == '\n' {
			lines = append(lines, i+1)
		}
	}
	//
	return &File{filename, contents, lines}
}

// Filename returns the filename associated with this source file.
func (s *File) Filename() string {
	return s.filename
}

// Contents returns the contents of this source file.
func (s *File) Contents() []rune {
	return s.contents
}

// LineCount returns the number of physical lines in this source file.
func (s *File) LineCount() int {
	return len(s.lines)
}

// Line returns a given physical line in this source file, where the first
// line has number 1.  The line's span excludes its terminator.
func (s *File) Line(number int) Line {
	start := s.lines[number-1]
	end := findEndOfLine(start, s.contents)
	//
	return Line{s.contents, Span{start, end}, number}
}

// SyntaxError constructs a syntax error over a given span of this file with a
// given message.
func (s *File) SyntaxError(span Span, msg string) *SyntaxError {
	return &SyntaxError{s, span, msg}
}

// FindFirstEnclosingLine determines the first line in this source file which
// encloses the start of a span.  Observe that, if the position is beyond the
// bounds of the source file then the last physical line is returned.  Also,
// the returned line is not guaranteed to enclose the entire span, as these can
// cross multiple lines.
func (s *File) FindFirstEnclosingLine(span Span) Line {
	// Binary search for the first line beginning after the span starts.
	number := sort.Search(len(s.lines), func(i int) bool {
		return s.lines[i] > span.start
	})
	// Span starts on the preceding line (or beyond the last).
	return s.Line(number)
}

// SyntaxError is a structured error which retains the index into the original
// string where an error occurred, along with an error message.
type SyntaxError struct {
	srcfile *File
	// Byte index into string being parsed where error arose.
	span Span
	// Error message being reported
	msg string
}

// SourceFile returns the underlying source file that this syntax error covers.
func (p *SyntaxError) SourceFile() *File {
	return p.srcfile
}

// Span returns the span of the original text on which this error is reported.
func (p *SyntaxError) Span() Span {
	return p.span
}

// Message returns the message to be reported.
func (p *SyntaxError) Message() string {
	return p.msg
}

// Error implements the error interface.
func (p *SyntaxError) Error() string {
	line := p.FirstEnclosingLine()
	col := p.span.start - line.Start()
	//
	return fmt.Sprintf("%s:%d:%d: %s", p.srcfile.filename, line.Number(), col+1, p.msg)
}

// FirstEnclosingLine determines the first line in this source file to which
// this error is associated. Observe that, if the position is beyond the bounds
// of the source file then the last physical line is returned.  Also, the
// returned line is not guaranteed to enclose the entire span, as these can
// cross multiple lines.
func (p *SyntaxError) FirstEnclosingLine() Line {
	return p.srcfile.FindFirstEnclosingLine(p.span)
}

// Find the end of the enclosing line
func findEndOfLine(index int, text []rune) int {
	for i := index; i < len(text); i++ {
		if text[i] == '\n' {
			return i
		}
	}
	// No end in sight!
	return len(text)
}
