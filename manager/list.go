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
	liberr "github.com/nabbar/packdude/errors"
	"github.com/nabbar/packdude/result"
	"github.com/nabbar/packdude/store"
)

// Summary is one listing row: name, version, description, the shape
// every list operation dumps.
type Summary struct {
	Name        string
	Version     string
	Description string
}

// ListInstalled dumps every registry.packages row.
func (m *Manager) ListInstalled() ([]Summary, liberr.Error) {
	var out []Summary

	_, err := m.reg.ForEachInstalled(func(row store.RegistryPackage) bool {
		out = append(out, Summary{Name: row.Name, Version: row.Version, Description: row.Description})
		return true
	})
	if err != nil {
		return nil, err
	}

	return out, nil
}

// ListAvailable dumps catalog rows that have no registry row.
func (m *Manager) ListAvailable() ([]Summary, liberr.Error) {
	cat, kind, err := m.client.GetDatabase()
	if kind != result.Ok {
		return nil, err
	}
	defer func() { _ = cat.Close() }()

	var out []Summary

	_, err = cat.ForEach(func(row store.PackageInfo) bool {
		installed, ierr := m.reg.IsInstalled(row.Name)
		if ierr != nil || installed {
			return true
		}
		out = append(out, Summary{Name: row.Name, Version: row.Version, Description: row.Description})
		return true
	})
	if err != nil {
		return nil, err
	}

	return out, nil
}

// ListRemovable dumps user-installed packages can_remove reports Yes
// for.
func (m *Manager) ListRemovable() ([]Summary, liberr.Error) {
	var out []Summary

	_, err := m.reg.ForEachInstalled(func(row store.RegistryPackage) bool {
		if row.Reason != string(store.ReasonUser) {
			return true
		}
		kind, cerr := m.CanRemove(row.Name)
		if cerr != nil || kind != result.Yes {
			return true
		}
		out = append(out, Summary{Name: row.Name, Version: row.Version, Description: row.Description})
		return true
	})
	if err != nil {
		return nil, err
	}

	return out, nil
}

// ListFiles dumps every registry.files path recorded for name. Listing
// files for a package that isn't installed is a usage error, not a
// silent empty list: the caller is expected to
// print help and exit nonzero on ErrorNotInstalled.
func (m *Manager) ListFiles(name string) ([]string, result.Kind, liberr.Error) {
	installed, ierr := m.reg.IsInstalled(name)
	if ierr != nil {
		return nil, result.StoreError, ierr
	}
	if !installed {
		return nil, result.No, ErrorNotInstalled.Errorf(name)
	}

	var out []string

	kind, err := m.reg.ForEachFile(name, func(row store.FileRow) bool {
		out = append(out, row.Path)
		return true
	})
	if kind != result.Ok && kind != result.Aborted {
		return nil, kind, err
	}

	return out, result.Ok, nil
}

// ForEachDependency calls cb once for each of name's direct
// dependencies, in textual order, as recorded in the registry (or the
// catalog, if name is not installed). Returning false from cb stops
// the iteration early without error.
func (m *Manager) ForEachDependency(name string, cb func(dep string) bool) (result.Kind, liberr.Error) {
	row, kind, err := m.reg.Get(name)
	var deps string

	switch kind {
	case result.Ok:
		deps = row.Deps
	case result.NotFound:
		if m.client == nil {
			return result.NotFound, err
		}
		cat, ckind, cerr := m.client.GetDatabase()
		if ckind != result.Ok {
			return ckind, cerr
		}
		defer func() { _ = cat.Close() }()

		info, ikind, ierr := cat.Get(name)
		if ikind != result.Ok {
			return ikind, ierr
		}
		deps = info.Deps
	default:
		return kind, err
	}

	for _, dep := range store.SplitDeps(deps) {
		if !cb(dep) {
			return result.Aborted, nil
		}
	}

	return result.Ok, nil
}
