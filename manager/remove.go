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
	"os"

	liberr "github.com/nabbar/packdude/errors"
	"github.com/nabbar/packdude/result"
	"github.com/nabbar/packdude/store"
)

// CanRemove reports result.Yes iff no other installed package's deps
// list names name.
func (m *Manager) CanRemove(name string) (result.Kind, liberr.Error) {
	found := false

	kind, err := m.reg.ForEachInstalled(func(row store.RegistryPackage) bool {
		if row.Name == name {
			return true
		}
		if store.DependsOn(row.Deps, name) {
			found = true
			return false
		}
		return true
	})
	if kind == result.Aborted {
		return result.No, nil
	}
	if kind != result.Ok {
		return kind, err
	}
	if found {
		return result.No, nil
	}

	return result.Yes, nil
}

// Remove deletes an installed package's files (in descending registry
// id order, children before parents) and its registry row, refusing if
// another installed package still depends on it.
func (m *Manager) Remove(name string) (result.Kind, liberr.Error) {
	installed, err := m.reg.IsInstalled(name)
	if err != nil {
		return result.StoreError, err
	}
	if !installed {
		m.log.Info("not installed", "name", name)
		return result.Ok, nil
	}

	kind, err := m.CanRemove(name)
	if err != nil {
		return kind, err
	}
	if kind != result.Yes {
		m.log.Error("required by another installed package", "name", name)
		return result.Ok, nil
	}

	var toUnregister []string
	kind, err = m.reg.ForEachFile(name, func(row store.FileRow) bool {
		toUnregister = append(toUnregister, row.Path)
		return true
	})
	if kind != result.Ok {
		return kind, err
	}

	for _, path := range toUnregister {
		if rerr := removePath(m.prefix, path); rerr != nil {
			return result.IoError, ErrorFileDelete.Error(rerr)
		}
		if uerr := m.reg.UnregisterPath(path); uerr != nil {
			return result.StoreError, uerr
		}
	}

	if derr := m.reg.Delete(name); derr != nil {
		return result.StoreError, derr
	}

	m.log.Info("removed", "name", name)
	return result.Ok, nil
}

func removePath(prefix, relPath string) error {
	full := resolvePath(prefix, relPath)

	info, statErr := os.Lstat(full)
	if os.IsNotExist(statErr) {
		return nil
	}
	if statErr != nil {
		return statErr
	}

	if info.IsDir() {
		// "directory not empty" and read-only-filesystem failures are
		// tolerated: another package may still occupy the directory.
		_ = os.Remove(full)
		return nil
	}

	return os.Remove(full)
}

// Cleanup iteratively removes every installed package whose Reason is
// store.ReasonDependency and that nothing else still depends on,
// sweeping until a pass removes nothing. Returns the total number of
// packages removed.
func (m *Manager) Cleanup() (int, liberr.Error) {
	total := 0

	for {
		removedThisSweep := 0

		var candidates []string
		kind, err := m.reg.ForEachInstalled(func(row store.RegistryPackage) bool {
			if row.Reason == string(store.ReasonDependency) {
				candidates = append(candidates, row.Name)
			}
			return true
		})
		if kind != result.Ok {
			return total, err
		}

		for _, name := range candidates {
			ckind, cerr := m.CanRemove(name)
			if cerr != nil {
				return total, cerr
			}
			if ckind != result.Yes {
				continue
			}

			if _, rerr := m.Remove(name); rerr != nil {
				return total, rerr
			}
			removedThisSweep++
		}

		total += removedThisSweep
		if removedThisSweep == 0 {
			break
		}
	}

	return total, nil
}
