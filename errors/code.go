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

// Package errors is packdude's error taxonomy: a CodeError numeric
// range per concern package, a Message lookup registered against that
// range, and an Error type that chains a parent cause.
package errors

import (
	"strconv"
	"strings"
)

// Message generates the human-readable text for a CodeError.
type Message func(code CodeError) (message string)

// CodeError is a numeric error code, uint16 wide, grouped into
// per-package ranges by errors/modules.go's MinPkg* constants.
type CodeError uint16

const (
	// UnknownError is the fallback code for an unregistered range.
	UnknownError CodeError = 0

	// UnknownMessage is UnknownError's message.
	UnknownMessage = "unknown error"

	// NullMessage is the empty message a Message func returns when it
	// doesn't recognize the code it was given.
	NullMessage = ""
)

var idMsgFct = make(map[CodeError]Message)

// NewCodeError wraps a raw uint16 as a CodeError.
func NewCodeError(code uint16) CodeError {
	return CodeError(code)
}

// Uint16 returns the code as a uint16.
func (c CodeError) Uint16() uint16 {
	return uint16(c)
}

// Int returns the code as an int.
func (c CodeError) Int() int {
	return int(c)
}

// String returns the code's decimal representation.
func (c CodeError) String() string {
	return strconv.Itoa(c.Int())
}

// Message returns the text registered for c's range, or UnknownMessage
// if no package has registered that far.
func (c CodeError) Message() string {
	if c == UnknownError {
		return UnknownMessage
	}

	if f, ok := idMsgFct[findCodeErrorInMapMessage(c)]; ok {
		if m := f(c); m != NullMessage {
			return m
		}
	}

	return UnknownMessage
}

// Error builds a new Error from c, optionally chaining one parent
// cause (the first non-nil error in p).
func (c CodeError) Error(p ...error) Error {
	return New(c.Uint16(), c.Message(), p...)
}

// Errorf builds a new Error from c, formatting c's registered message
// (treated as a fmt pattern) with args.
func (c CodeError) Errorf(args ...interface{}) Error {
	m := c.Message()

	if !strings.Contains(m, "%") {
		return New(c.Uint16(), m)
	}

	return Newf(c.Uint16(), m, args...)
}

// RegisterIdFctMessage registers fct as the Message function for every
// code at or above minCode, until the next registered boundary.
func RegisterIdFctMessage(minCode CodeError, fct Message) {
	idMsgFct[minCode] = fct
}

// ExistInMapMessage reports whether code resolves to a non-empty
// message, i.e. whether some package has already claimed its range.
// Concern packages call this in init() to panic on a range collision.
func ExistInMapMessage(code CodeError) bool {
	if f, ok := idMsgFct[findCodeErrorInMapMessage(code)]; ok {
		return f(code) != NullMessage
	}
	return false
}

// findCodeErrorInMapMessage finds the largest registered boundary at
// or below code, i.e. the range code falls into.
func findCodeErrorInMapMessage(code CodeError) CodeError {
	var res CodeError

	for k := range idMsgFct {
		if k <= code && k > res {
			res = k
		}
	}

	return res
}
