/*
 * rico2 - Command parser.
 *
 * Copyright 2024, Richard Cornwell
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in
 * all copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 */

// Package parser implements the console command language: a hand-rolled
// recursive-descent scanner over one input line, dispatching to one
// handler per verb.
package parser

import (
	"errors"
	"strconv"
	"strings"
	"unicode"

	"github.com/ora600pl/rico2/internal/bsession"
)

// ErrUsage reports a command-syntax mistake: conflicting flags, a missing
// or malformed argument, or an unknown set/print target. An unrecognized
// or ambiguous verb is reported by ProcessCommand as a separate error.
var ErrUsage = errors.New("usage error")

type cmd struct {
	name    string
	min     int
	process func(*cmdLine, *bsession.Session) (string, error)
}

type cmdLine struct {
	line string
	pos  int
}

var cmdList = []cmd{
	{name: "set", min: 3, process: cmdSet},
	{name: "p", min: 1, process: cmdPrint},
	{name: "x", min: 1, process: cmdExamine},
	{name: "map", min: 3, process: cmdMap},
	{name: "d", min: 1, process: cmdDump},
	{name: "sum", min: 3, process: cmdSum},
	{name: "modify", min: 3, process: cmdModify},
	{name: "find", min: 4, process: cmdFind},
	{name: "select", min: 3, process: cmdSelect},
	{name: "save", min: 4, process: cmdSave},
	{name: "dupa", min: 4, process: cmdDupa},
}

// ProcessCommand parses and executes one input line. It returns any output
// text to print, and whether the console should quit (the "exit" verb).
func ProcessCommand(commandLine string, sess *bsession.Session) (output string, quit bool, err error) {
	line := cmdLine{line: commandLine}
	name := line.getWord()
	if name == "" {
		return "", false, nil
	}

	if strings.HasPrefix("exit", name) && len(name) >= 4 {
		return "", true, nil
	}

	match := matchList(name)
	if len(match) == 0 {
		return "", false, errors.New("command not found: " + name)
	}
	if len(match) > 1 {
		return "", false, errors.New("ambiguous command: " + name)
	}

	out, err := match[0].process(&line, sess)
	return out, false, err
}

// CompleteCmd returns the set of command names that complete the given
// input line's first word, for use as a liner completer callback.
func CompleteCmd(commandLine string) []string {
	line := cmdLine{line: commandLine}
	name := line.getWord()
	out := []string{}
	if strings.HasPrefix("exit", name) {
		out = append(out, "exit")
	}
	for _, c := range matchList(name) {
		out = append(out, c.name)
	}
	return out
}

func matchCommand(c cmd, name string) bool {
	if len(name) > len(c.name) || len(name) < c.min {
		return false
	}
	return strings.HasPrefix(c.name, name)
}

func matchList(name string) []cmd {
	if name == "" {
		return nil
	}
	var out []cmd
	for _, c := range cmdList {
		if matchCommand(c, name) {
			out = append(out, c)
		}
	}
	return out
}

func (l *cmdLine) skipSpace() {
	for l.pos < len(l.line) && unicode.IsSpace(rune(l.line[l.pos])) {
		l.pos++
	}
}

func (l *cmdLine) isEOL() bool {
	return l.pos >= len(l.line)
}

// getWord returns the next run of non-space characters, or "" at EOL.
func (l *cmdLine) getWord() string {
	l.skipSpace()
	if l.isEOL() {
		return ""
	}
	start := l.pos
	for !l.isEOL() && !unicode.IsSpace(rune(l.line[l.pos])) {
		l.pos++
	}
	return l.line[start:l.pos]
}

// rest returns everything from the current position to end of line, with
// leading space stripped.
func (l *cmdLine) rest() string {
	l.skipSpace()
	if l.isEOL() {
		return ""
	}
	return l.line[l.pos:]
}

// parseQuoteString parses a "quoted string" or a bare space-terminated
// token.
func (l *cmdLine) parseQuoteString() (string, bool) {
	l.skipSpace()
	if l.isEOL() {
		return "", false
	}
	if l.line[l.pos] != '"' {
		return l.getWord(), true
	}

	l.pos++ // Skip opening quote.
	start := l.pos
	for !l.isEOL() && l.line[l.pos] != '"' {
		l.pos++
	}
	if l.isEOL() {
		return "", false
	}
	value := l.line[start:l.pos]
	l.pos++ // Skip closing quote.
	return value, true
}

func (l *cmdLine) getInt() (int, error) {
	w := l.getWord()
	if w == "" {
		return 0, ErrUsage
	}
	n, err := strconv.Atoi(w)
	if err != nil {
		return 0, ErrUsage
	}
	return n, nil
}

// OptionalBytes is a tagged optional distinguishing "flag absent" from
// "flag present with a literal value". The modify and find handlers do not
// use it; they track which of -s/-h was given with plain booleans.
type OptionalBytes struct {
	Present bool
	Value   []byte
}
