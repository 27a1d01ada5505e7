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

// Package result implements the closed outcome taxonomy every packdude
// operation reports: a fixed set of Kind values shared by the manager,
// store, fetch, archive and container packages instead of ad-hoc booleans.
package result

import (
	"sort"

	liberr "github.com/nabbar/packdude/errors"
)

// Kind is the closed outcome type: every fallible operation resolves
// to exactly one of these values.
type Kind uint8

const (
	Ok Kind = iota
	MemError
	IoError
	NetworkError
	CorruptData
	Incompatible
	Yes
	No
	AlreadyInstalled
	StoreError
	Aborted
	NotFound
)

func (k Kind) String() string {
	switch k {
	case Ok:
		return "Ok"
	case MemError:
		return "MemError"
	case IoError:
		return "IoError"
	case NetworkError:
		return "NetworkError"
	case CorruptData:
		return "CorruptData"
	case Incompatible:
		return "Incompatible"
	case Yes:
		return "Yes"
	case No:
		return "No"
	case AlreadyInstalled:
		return "AlreadyInstalled"
	case StoreError:
		return "StoreError"
	case Aborted:
		return "Aborted"
	case NotFound:
		return "NotFound"
	default:
		return "Unknown"
	}
}

// IsFailure reports whether the Kind represents a propagate-worthy
// failure, as opposed to a success or a success-with-boolean value.
func (k Kind) IsFailure() bool {
	switch k {
	case Ok, Yes, No, AlreadyInstalled:
		return false
	default:
		return true
	}
}

// Classifier maps a registered package's error codes to a Kind. Every
// concern package (store, fetch, archive, container, repo, manager)
// registers one classifier for the MinPkg* range it owns in
// errors/modules.go, the same way errors.RegisterIdFctMessage works for
// human-readable messages.
type Classifier func(code liberr.CodeError) Kind

var classifiers = make(map[liberr.CodeError]Classifier)

// Register associates a classifier function with every error code at or
// above minCode, until the next registered boundary.
func Register(minCode liberr.CodeError, c Classifier) {
	classifiers[minCode] = c
}

func boundaries() []liberr.CodeError {
	keys := make([]int, 0, len(classifiers))
	for k := range classifiers {
		keys = append(keys, k.Int())
	}
	sort.Ints(keys)

	res := make([]liberr.CodeError, 0, len(keys))
	for _, k := range keys {
		res = append(res, liberr.NewCodeError(uint16(k)))
	}
	return res
}

func findBoundary(code liberr.CodeError) liberr.CodeError {
	var res liberr.CodeError = 0
	for _, k := range boundaries() {
		if k <= code && k > res {
			res = k
		}
	}
	return res
}

// Classify dispatches a packdude error to its Kind by looking up the
// classifier registered for the error's code range. A nil error
// classifies as Ok; an error with no registered classifier classifies
// as StoreError (the generic "something failed" bucket).
func Classify(err liberr.Error) Kind {
	if err == nil {
		return Ok
	}

	code := err.GetCode()
	if c, ok := classifiers[findBoundary(code)]; ok {
		return c(code)
	}

	return StoreError
}
