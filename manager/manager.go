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
	"path/filepath"
	"strings"

	"github.com/nabbar/packdude/pdlog"
	"github.com/nabbar/packdude/repo"
	"github.com/nabbar/packdude/store"
)

// Manager is the single owner of a prefix's registry and (optionally)
// a repository client: one manager instance mutates a given prefix at
// a time, the lock file package enforces that across processes.
type Manager struct {
	prefix   string
	hostArch string

	reg    *store.Registry
	client *repo.Client

	log   pdlog.Logger
	stack *installStack
}

// New builds a manager rooted at prefix for hostArch, with reg already
// open read-write. client may be nil for operations that only need the
// registry (list-installed, list-files, remove, cleanup).
func New(prefix, hostArch string, reg *store.Registry, client *repo.Client, log pdlog.Logger) *Manager {
	return &Manager{
		prefix:   prefix,
		hostArch: hostArch,
		reg:      reg,
		client:   client,
		log:      log,
		stack:    newInstallStack(),
	}
}

// Prefix returns the installation root this manager was constructed
// with.
func (m *Manager) Prefix() string { return m.prefix }

// resolvePath joins a "./"-rooted registry.files path against prefix,
// the same interpretation archive.Walk gives it during extraction.
func resolvePath(prefix, relPath string) string {
	rel := strings.TrimPrefix(relPath, "./")
	return filepath.Join(prefix, filepath.FromSlash(rel))
}
