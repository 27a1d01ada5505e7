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

package store

import (
	liberr "github.com/nabbar/packdude/errors"
	"github.com/nabbar/packdude/result"
)

const pkgName = "packdude/store"

const (
	ErrorOpen liberr.CodeError = iota + liberr.MinPkgStore
	ErrorMigrate
	ErrorNotFound
	ErrorInsert
	ErrorDelete
	ErrorQuery
	ErrorAborted
)

func init() {
	if liberr.ExistInMapMessage(ErrorOpen) {
		panic("error code collision " + pkgName)
	}
	liberr.RegisterIdFctMessage(ErrorOpen, getMessage)
	result.Register(liberr.MinPkgStore, classify)
}

func getMessage(code liberr.CodeError) string {
	switch code {
	case liberr.UnknownError:
		return liberr.NullMessage
	case ErrorOpen:
		return "cannot open store database"
	case ErrorMigrate:
		return "cannot initialize store schema"
	case ErrorNotFound:
		return "no row for the requested name"
	case ErrorInsert:
		return "cannot insert row"
	case ErrorDelete:
		return "cannot delete row"
	case ErrorQuery:
		return "cannot query store"
	case ErrorAborted:
		return "row callback aborted the iteration"
	default:
		return liberr.NullMessage
	}
}

func classify(code liberr.CodeError) result.Kind {
	switch code {
	case ErrorNotFound:
		return result.NotFound
	case ErrorAborted:
		return result.Aborted
	default:
		return result.StoreError
	}
}
