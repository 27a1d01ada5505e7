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

package repo

import (
	"archive/tar"
	"bufio"
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/nabbar/packdude/container"
	liberr "github.com/nabbar/packdude/errors"
	"github.com/nabbar/packdude/result"
	"github.com/nabbar/packdude/store"
)

// metaEntry is the in-archive path ScanLocal looks for to recover a
// blob's catalog row without a running repository server. It is a
// packdude-specific convention, not part of the container format
// itself: dudepack embeds it as a plain key:value file alongside the
// payload.
const metaEntry = "./.pkginfo"

// ScanLocal builds catalog rows by opening every package blob in dir
// and reading its embedded ".pkginfo" metadata entry, for tests and
// offline/file:// repositories that have no pre-built repo.sqlite3.
// Building the container format itself (dudepack) remains out of
// scope; this only reads what dudepack would have written.
func ScanLocal(dir string) ([]store.PackageInfo, liberr.Error) {
	entries, e := os.ReadDir(dir)
	if e != nil {
		return nil, ErrorScanLocal.Error(e)
	}

	var rows []store.PackageInfo

	for _, ent := range entries {
		if ent.IsDir() {
			continue
		}

		path := filepath.Join(dir, ent.Name())
		data, e := os.ReadFile(path)
		if e != nil {
			return nil, ErrorScanLocal.Error(e)
		}

		pkg, kind, _ := container.Open(data)
		if kind != result.Ok {
			continue
		}

		info, found := readMeta(pkg.Archive())
		pkg.Close()
		if !found {
			continue
		}

		info.FileName = ent.Name()
		rows = append(rows, info)
	}

	return rows, nil
}

func readMeta(archiveRegion []byte) (store.PackageInfo, bool) {
	r := tar.NewReader(bytes.NewReader(archiveRegion))

	for {
		hdr, e := r.Next()
		if e != nil {
			return store.PackageInfo{}, false
		}
		if hdr.Name != metaEntry {
			continue
		}

		content, e := io.ReadAll(r)
		if e != nil {
			return store.PackageInfo{}, false
		}

		return parseMeta(content), true
	}
}

func parseMeta(content []byte) store.PackageInfo {
	info := store.PackageInfo{Deps: store.EmptyDeps, Arch: "all"}

	scanner := bufio.NewScanner(bytes.NewReader(content))
	for scanner.Scan() {
		line := scanner.Text()
		k, v, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		k = strings.TrimSpace(k)
		v = strings.TrimSpace(v)

		switch k {
		case "name":
			info.Name = v
		case "version":
			info.Version = v
		case "desc":
			info.Description = v
		case "arch":
			info.Arch = v
		case "deps":
			info.Deps = v
		}
	}

	return info
}
