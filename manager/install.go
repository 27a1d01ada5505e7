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

package manager

import (
	"github.com/nabbar/packdude/archive"
	"github.com/nabbar/packdude/container"
	liberr "github.com/nabbar/packdude/errors"
	"github.com/nabbar/packdude/result"
	"github.com/nabbar/packdude/store"
)

// Install recursively fetches and installs name and its dependencies.
// reason is recorded
// against name itself; every transitively pulled-in dependency is
// always recorded with store.ReasonDependency regardless of reason.
func (m *Manager) Install(name string, reason store.Reason) (result.Kind, liberr.Error) {
	cat, kind, err := m.client.GetDatabase()
	if kind != result.Ok {
		return kind, err
	}
	defer func() { _ = cat.Close() }()

	return m.install(cat, name, reason)
}

func (m *Manager) install(cat *store.Catalog, name string, reason store.Reason) (result.Kind, liberr.Error) {
	// Step 1: cycle guard.
	if m.stack.contains(name) {
		return result.Ok, nil
	}

	// Step 2: idempotent on an already-installed package.
	installed, ierr := m.reg.IsInstalled(name)
	if ierr != nil {
		return result.StoreError, ierr
	}
	if installed {
		m.log.Debug("already installed", "name", name)
		return result.Ok, nil
	}

	// Step 3: catalog lookup.
	info, kind, err := cat.Get(name)
	if kind != result.Ok {
		return kind, err
	}

	// Step 4.
	m.stack.push(name)
	defer m.stack.pop()

	// Step 5: arch check.
	if info.Arch != "all" && info.Arch != m.hostArch {
		m.log.Error("architecture mismatch", "name", name, "arch", info.Arch, "host", m.hostArch)
		return result.Incompatible, ErrorArchMismatch.Errorf(name)
	}

	// Step 6: fetch blob.
	blob, kind, err := m.client.GetPackage(info)
	if kind != result.Ok {
		return kind, err
	}

	// Step 7: open and verify container.
	pkg, kind, err := container.Open(blob)
	if kind != result.Ok {
		return kind, err
	}
	defer pkg.Close()

	// Step 8: caller-supplied reason overrides the catalog's (the
	// catalog carries none; this is where it is decided).
	row := store.RegistryPackage{
		Name:        info.Name,
		Version:     info.Version,
		Description: info.Description,
		FileName:    info.FileName,
		Arch:        info.Arch,
		Deps:        info.Deps,
		Reason:      string(reason),
	}

	// Step 9: dependencies, in textual order, before extraction.
	for _, dep := range store.SplitDeps(info.Deps) {
		dkind, derr := m.install(cat, dep, store.ReasonDependency)
		if dkind != result.Ok {
			return dkind, ErrorDependencyFailed.Error(derr)
		}
	}

	// Step 10: extract, collecting each path as its entry arrives; the
	// manifest rows are registered as one batch once the walk finishes
	// without short-circuiting.
	var paths []string
	cb := func(path string, _ interface{}) (result.Kind, liberr.Error) {
		paths = append(paths, path)
		return result.Ok, nil
	}

	kind, err = archive.Walk(pkg.Archive(), m.prefix, cb, nil)
	if kind != result.Ok {
		return kind, ErrorExtract.Error(err)
	}

	if ierr = m.reg.RegisterPaths(name, paths); ierr != nil {
		return result.StoreError, ierr
	}

	// Step 11: registry insertion is the final act.
	if ierr = m.reg.Insert(row); ierr != nil {
		return result.StoreError, ierr
	}

	m.log.Info("installed", "name", name, "reason", reason)
	return result.Ok, nil

	// Step 12 (stack pop) runs via the deferred call above on every
	// exit path, including the early returns.
}

// IsInstalled reports whether name has a registry row.
func (m *Manager) IsInstalled(name string) (result.Kind, liberr.Error) {
	ok, err := m.reg.IsInstalled(name)
	if err != nil {
		return result.StoreError, err
	}
	if ok {
		return result.Yes, nil
	}
	return result.No, nil
}
