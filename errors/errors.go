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

package errors

import "fmt"

// Error is a CodeError-carrying error with an optional parent cause.
// It implements the standard Unwrap() error shape so errors.Is/As work
// against the parent chain.
type Error interface {
	error

	// GetCode returns the error's CodeError.
	GetCode() CodeError

	// Unwrap returns the parent cause, or nil.
	Unwrap() error
}

type ers struct {
	code   CodeError
	msg    string
	parent error
}

// New builds an Error from a raw code and message, chaining the first
// non-nil entry of parent as its cause.
func New(code uint16, message string, parent ...error) Error {
	e := &ers{code: CodeError(code), msg: message}

	for _, p := range parent {
		if p != nil {
			e.parent = p
			break
		}
	}

	return e
}

// Newf is New with the message built by fmt.Sprintf.
func Newf(code uint16, pattern string, args ...interface{}) Error {
	return &ers{code: CodeError(code), msg: fmt.Sprintf(pattern, args...)}
}

func (e *ers) GetCode() CodeError {
	return e.code
}

func (e *ers) Error() string {
	if e.parent != nil {
		return fmt.Sprintf("%s: %s", e.msg, e.parent.Error())
	}
	return e.msg
}

func (e *ers) Unwrap() error {
	return e.parent
}
