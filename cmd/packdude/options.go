/*
 * MIT License
 *
 * Copyright (c) 2020 Nicolas JUHEL
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 *
 */

package main

import (
	liberr "github.com/nabbar/packdude/errors"
	"github.com/nabbar/packdude/result"
)

const pkgName = "packdude/cmd"

// Error codes for this package's own concern: option validation ahead
// of dispatch into the manager. Registered under errors.MinPkgCmd, the
// range errors/modules.go reserves for the entry point.
const (
	ErrorNoOperation liberr.CodeError = iota + liberr.MinPkgCmd
	ErrorMultipleOperations
	ErrorMissingArgument
	ErrorLockHeld
	ErrorMissingURL
)

func init() {
	if liberr.ExistInMapMessage(ErrorNoOperation) {
		panic("error code collision " + pkgName)
	}
	liberr.RegisterIdFctMessage(ErrorNoOperation, getMessage)
	result.Register(liberr.MinPkgCmd, classify)
}

func getMessage(code liberr.CodeError) string {
	switch code {
	case liberr.UnknownError:
		return liberr.NullMessage
	case ErrorNoOperation:
		return "no operation selected: one of -i -r -q -l -c -f is required"
	case ErrorMultipleOperations:
		return "more than one operation flag was given"
	case ErrorMissingArgument:
		return "operation flag requires a NAME argument"
	case ErrorLockHeld:
		return "cannot acquire the prefix lock"
	case ErrorMissingURL:
		return "repository URL is required (-u or $REPO)"
	default:
		return liberr.NullMessage
	}
}

func classify(code liberr.CodeError) result.Kind {
	switch code {
	case ErrorLockHeld:
		return result.IoError
	default:
		return result.CorruptData
	}
}

// operation is the single operation selected off the short option
// grammar: packdude dispatches exactly one of these per invocation.
type operation int

const (
	opNone operation = iota
	opInstall
	opRemove
	opListInstalled
	opListAvailable
	opListRemovable
	opListFiles
)

// options is the flag-bound configuration for one invocation, the
// struct cobra's root command populates directly. No config file; -u
// falls back to the REPO environment variable.
type options struct {
	debug  bool
	core   bool
	prefix string
	url    string

	install string
	remove  string
	files   string

	listInstalled bool
	listAvailable bool
	listRemovable bool

	// legacyProbe is a diagnostic outside the mutually-exclusive
	// operation grammar: it reads a blob through container.OpenLegacy
	// and reports whether it parses as the historic trailer-header
	// layout, without touching the prefix lock or registry.
	legacyProbe string
}

// operation resolves which single operation was selected, failing if
// zero or more than one of the mutually-exclusive flags were given.
func (o *options) operation() (operation, string, liberr.Error) {
	type candidate struct {
		op   operation
		name string
		set  bool
	}

	candidates := []candidate{
		{opInstall, o.install, o.install != ""},
		{opRemove, o.remove, o.remove != ""},
		{opListFiles, o.files, o.files != ""},
		{opListInstalled, "", o.listInstalled},
		{opListAvailable, "", o.listAvailable},
		{opListRemovable, "", o.listRemovable},
	}

	var chosen *candidate
	count := 0
	for i := range candidates {
		if candidates[i].set {
			count++
			chosen = &candidates[i]
		}
	}

	switch {
	case count == 0:
		return opNone, "", ErrorNoOperation.Error(nil)
	case count > 1:
		return opNone, "", ErrorMultipleOperations.Error(nil)
	default:
		return chosen.op, chosen.name, nil
	}
}
