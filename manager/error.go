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

// Package manager implements the installer/remover/cleanup core:
// the recursive dependency-aware install, the safe remover, the
// iterative orphan-dependency cleanup sweep, and the listing
// operations. Every collaborator (store, repository client, logger)
// is passed in as a concrete handle; nothing here is package-global.
package manager

import (
	liberr "github.com/nabbar/packdude/errors"
	"github.com/nabbar/packdude/result"
)

const pkgName = "packdude/manager"

const (
	ErrorArchMismatch liberr.CodeError = iota + liberr.MinPkgManager
	ErrorDependencyFailed
	ErrorExtract
	ErrorFileDelete
	ErrorDirRemove
	ErrorRequiredByOther
	ErrorNotInstalled
)

func init() {
	if liberr.ExistInMapMessage(ErrorArchMismatch) {
		panic("error code collision " + pkgName)
	}
	liberr.RegisterIdFctMessage(ErrorArchMismatch, getMessage)
	result.Register(liberr.MinPkgManager, classify)
}

func getMessage(code liberr.CodeError) string {
	switch code {
	case liberr.UnknownError:
		return liberr.NullMessage
	case ErrorArchMismatch:
		return "package architecture does not match the host or \"all\""
	case ErrorDependencyFailed:
		return "a dependency failed to install"
	case ErrorExtract:
		return "cannot extract package archive"
	case ErrorFileDelete:
		return "cannot delete installed file"
	case ErrorDirRemove:
		return "cannot remove installed directory"
	case ErrorRequiredByOther:
		return "package is required by another installed package"
	case ErrorNotInstalled:
		return "package is not installed"
	default:
		return liberr.NullMessage
	}
}

func classify(code liberr.CodeError) result.Kind {
	switch code {
	case ErrorArchMismatch:
		return result.Incompatible
	case ErrorRequiredByOther:
		return result.No
	case ErrorNotInstalled:
		return result.No
	default:
		return result.IoError
	}
}
