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

// Package archive implements the container format's archive adapter: it
// walks a tar stream held in memory, invokes a per-entry
// callback, and extracts the entries the callback accepts to a
// destination directory with preserved metadata. Every entry path
// must be rooted at "./"; the bare "./" root entry is skipped without
// invoking the callback.
package archive

import (
	"archive/tar"
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"

	liberr "github.com/nabbar/packdude/errors"
	"github.com/nabbar/packdude/result"
	"github.com/pkg/xattr"
)

const pkgName = "packdude/archive"

const (
	ErrorTarNext liberr.CodeError = iota + liberr.MinPkgArchive
	ErrorAbsolutePath
	ErrorDirCreate
	ErrorFileOpen
	ErrorFileWrite
	ErrorFileClose
	ErrorLinkCreate
	ErrorSymlinkCreate
	ErrorChmod
	ErrorChtimes
	ErrorUnlink
	ErrorXAttr
	ErrorPathEscape
)

func init() {
	if liberr.ExistInMapMessage(ErrorTarNext) {
		panic("error code collision " + pkgName)
	}
	liberr.RegisterIdFctMessage(ErrorTarNext, getMessage)
	result.Register(liberr.MinPkgArchive, classify)
}

func getMessage(code liberr.CodeError) string {
	switch code {
	case liberr.UnknownError:
		return liberr.NullMessage
	case ErrorTarNext:
		return "cannot read next tar entry"
	case ErrorAbsolutePath:
		return "entry path is not rooted at \"./\""
	case ErrorDirCreate:
		return "cannot create directory"
	case ErrorFileOpen:
		return "cannot open destination file"
	case ErrorFileWrite:
		return "cannot write destination file"
	case ErrorFileClose:
		return "cannot close destination file"
	case ErrorLinkCreate:
		return "cannot create hard link"
	case ErrorSymlinkCreate:
		return "cannot create symbolic link"
	case ErrorChmod:
		return "cannot set file mode"
	case ErrorChtimes:
		return "cannot set file times"
	case ErrorUnlink:
		return "cannot remove existing path before overwrite"
	case ErrorXAttr:
		return "cannot set extended attribute"
	case ErrorPathEscape:
		return "entry path escapes the destination directory"
	default:
		return liberr.NullMessage
	}
}

func classify(code liberr.CodeError) result.Kind {
	switch code {
	case ErrorTarNext, ErrorAbsolutePath, ErrorPathEscape:
		return result.CorruptData
	default:
		return result.IoError
	}
}

// FileCallback is invoked once per tar entry, in archive order, before
// extraction. Returning result.Ok extracts the entry; any other Kind
// stops the walk and that Kind (with its error) is returned to the
// caller. The root entry "./" is never passed to the callback.
type FileCallback func(path string, arg interface{}) (result.Kind, liberr.Error)

// Walk reads data as a tar stream and, for each entry, calls cb. On
// result.Ok the entry is extracted under destDir, preserving owner,
// mode, mtime and extended attributes, unlinking any existing file
// first; an existing directory is reused. A callback return other
// than result.Ok stops the walk immediately and is returned as-is.
func Walk(data []byte, destDir string, cb FileCallback, arg interface{}) (result.Kind, liberr.Error) {
	r := tar.NewReader(bytes.NewReader(data))

	for {
		hdr, e := r.Next()
		if e == io.EOF {
			return result.Ok, nil
		}
		if e != nil {
			return result.CorruptData, ErrorTarNext.Error(e)
		}

		name := hdr.Name
		if name == "./" {
			continue
		}

		if !strings.HasPrefix(name, "./") {
			return result.CorruptData, ErrorAbsolutePath.Errorf(name)
		}

		dest, ok := containedPath(destDir, name)
		if !ok {
			return result.CorruptData, ErrorPathEscape.Errorf(name)
		}

		kind, err := cb(name, arg)
		if kind != result.Ok {
			return kind, err
		}

		if err := extractEntry(r, hdr, destDir, dest); err != nil {
			return result.IoError, err
		}
	}
}

// containedPath resolves a "./"-rooted entry name against destDir and
// reports whether the cleaned result is still inside destDir, so a
// "./../x"-style entry cannot escape the prefix.
func containedPath(destDir, name string) (string, bool) {
	dest := filepath.Join(destDir, filepath.FromSlash(strings.TrimPrefix(name, "./")))

	rel, e := filepath.Rel(destDir, dest)
	if e != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", false
	}

	return dest, true
}

func extractEntry(r *tar.Reader, hdr *tar.Header, destDir, dest string) liberr.Error {
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return ErrorDirCreate.Error(err)
	}

	// Unlink-before-write applies to file, symlink and hardlink
	// entries only; an existing directory is reused, never wiped, so a
	// directory entry shared with an already-installed package leaves
	// that package's files alone.
	if hdr.Typeflag != tar.TypeDir {
		_ = os.Remove(dest)
	}

	switch hdr.Typeflag {
	case tar.TypeDir:
		if err := os.MkdirAll(dest, hdr.FileInfo().Mode().Perm()); err != nil {
			return ErrorDirCreate.Error(err)
		}
	case tar.TypeLink:
		target, ok := containedPath(destDir, hdr.Linkname)
		if !ok {
			return ErrorLinkCreate.Errorf(hdr.Linkname)
		}
		if err := os.Link(target, dest); err != nil {
			return ErrorLinkCreate.Error(err)
		}
		return nil
	case tar.TypeSymlink:
		if err := os.Symlink(hdr.Linkname, dest); err != nil {
			return ErrorSymlinkCreate.Error(err)
		}
		return nil
	default:
		f, err := os.OpenFile(dest, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, hdr.FileInfo().Mode().Perm())
		if err != nil {
			return ErrorFileOpen.Error(err)
		}
		if _, err = io.Copy(f, r); err != nil {
			_ = f.Close()
			return ErrorFileWrite.Error(err)
		}
		if err = f.Close(); err != nil {
			return ErrorFileClose.Error(err)
		}
	}

	// Ownership restore needs CAP_CHOWN; an unprivileged prefix install
	// keeps the extracting user's ownership.
	_ = os.Lchown(dest, hdr.Uid, hdr.Gid)

	if err := os.Chmod(dest, hdr.FileInfo().Mode().Perm()); err != nil {
		return ErrorChmod.Error(err)
	}

	if err := os.Chtimes(dest, hdr.AccessTime, hdr.ModTime); err != nil {
		return ErrorChtimes.Error(err)
	}

	for k, v := range hdr.PAXRecords {
		if !strings.HasPrefix(k, "SCHILY.xattr.") {
			continue
		}
		attr := strings.TrimPrefix(k, "SCHILY.xattr.")
		if err := xattr.LSet(dest, attr, []byte(v)); err != nil {
			// extended-attribute support is filesystem-dependent (e.g.
			// tmpfs without xattr); not fatal to the extraction.
			continue
		}
	}

	return nil
}
