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

// Package lockfile implements the single-instance advisory lock: an
// exclusive, kernel-released flock on a file under the prefix,
// acquired non-blockingly first to detect contention before falling
// back to a blocking acquire.
package lockfile

import (
	"os"
	"path/filepath"

	liberr "github.com/nabbar/packdude/errors"
	"github.com/nabbar/packdude/pdlog"
	"github.com/nabbar/packdude/result"
	"golang.org/x/sys/unix"
)

const pkgName = "packdude/lockfile"

const (
	ErrorOpen liberr.CodeError = iota + liberr.MinPkgLockfile
	ErrorLock
	ErrorUnlock
)

func init() {
	if liberr.ExistInMapMessage(ErrorOpen) {
		panic("error code collision " + pkgName)
	}
	liberr.RegisterIdFctMessage(ErrorOpen, getMessage)
	result.Register(liberr.MinPkgLockfile, classify)
}

func getMessage(code liberr.CodeError) string {
	switch code {
	case liberr.UnknownError:
		return liberr.NullMessage
	case ErrorOpen:
		return "cannot open lock file"
	case ErrorLock:
		return "another packdude instance holds the prefix lock"
	case ErrorUnlock:
		return "cannot release lock file"
	default:
		return liberr.NullMessage
	}
}

func classify(code liberr.CodeError) result.Kind {
	return result.IoError
}

// Name is the lock file's fixed path component under the persisted
// state subtree.
const Name = "lock"

// Lock is a held advisory exclusive lock on a file under a prefix. The
// zero value is not usable; construct with Acquire.
type Lock struct {
	f *os.File
}

// Path returns the lock file path for a given packdude state
// directory (normally "{prefix}/var/packdude").
func Path(stateDir string) string {
	return filepath.Join(stateDir, Name)
}

// Acquire opens (creating if needed) the lock file under stateDir and
// takes an exclusive advisory lock on it, blocking while another
// process already holds it. It probes non-blockingly first so a
// contended acquire can be logged before the process blocks.
func Acquire(stateDir string, log pdlog.Logger) (*Lock, liberr.Error) {
	if e := os.MkdirAll(stateDir, 0o755); e != nil {
		return nil, ErrorOpen.Error(e)
	}

	path := Path(stateDir)
	f, e := os.OpenFile(path, os.O_CREATE|os.O_RDWR, 0o644)
	if e != nil {
		return nil, ErrorOpen.Error(e)
	}

	if e = unix.Flock(int(f.Fd()), unix.LOCK_EX|unix.LOCK_NB); e != nil {
		log.Info("prefix lock held by another instance, waiting", "path", path)

		if e = unix.Flock(int(f.Fd()), unix.LOCK_EX); e != nil {
			_ = f.Close()
			return nil, ErrorLock.Error(e)
		}
	}

	return &Lock{f: f}, nil
}

// Release drops the lock and closes the underlying file. It is also
// released implicitly if the process exits without calling Release
// (the kernel drops flock locks on file-descriptor close).
func (l *Lock) Release() liberr.Error {
	if l == nil || l.f == nil {
		return nil
	}

	e := unix.Flock(int(l.f.Fd()), unix.LOCK_UN)
	cerr := l.f.Close()
	l.f = nil

	if e != nil {
		return ErrorUnlock.Error(e)
	}
	if cerr != nil {
		return ErrorUnlock.Error(cerr)
	}
	return nil
}
