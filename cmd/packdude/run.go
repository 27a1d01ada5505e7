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

package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/nabbar/packdude/container"
	liberr "github.com/nabbar/packdude/errors"
	"github.com/nabbar/packdude/fetch"
	"github.com/nabbar/packdude/lockfile"
	"github.com/nabbar/packdude/manager"
	"github.com/nabbar/packdude/pdlog"
	"github.com/nabbar/packdude/repo"
	"github.com/nabbar/packdude/result"
	"github.com/nabbar/packdude/store"
)

// stateDirName is the fixed "var" subtree every persisted path lives
// under, relative to the installation prefix.
const stateDirName = "var/packdude"

// run acquires the prefix lock, opens the registry (and, when the
// chosen operation needs one, a repository client), builds a manager,
// and dispatches to op. It returns the process exit code: 0 on
// success, nonzero otherwise. usage prints the command's
// help text, for operations that can fail with a usage error after
// dispatch (e.g. -f against a package that was never installed).
func run(w io.Writer, log pdlog.Logger, opts *options, op operation, name string, usage func()) int {
	stateDir := filepath.Join(opts.prefix, stateDirName)

	lock, lerr := lockfile.Acquire(stateDir, log)
	if lerr != nil {
		log.Error("cannot acquire prefix lock", "prefix", opts.prefix, "error", lerr)
		return 1
	}
	defer func() { _ = lock.Release() }()

	regPath := filepath.Join(stateDir, "data.sqlite3")
	reg, rerr := store.OpenRegistry(regPath)
	if rerr != nil {
		log.Error("cannot open registry", "path", regPath, "error", rerr)
		return 1
	}
	defer func() { _ = reg.Close() }()

	var client *repo.Client
	if needsRepo(op) {
		if opts.url == "" {
			log.Error(ErrorMissingURL.Message())
			return 2
		}

		fetcher := fetch.NewHandle(log.Named("fetch"))
		defer fetcher.Close()

		client = repo.NewClient(opts.url, stateDir, fetcher, log.Named("repo"))
	}

	mgr := manager.New(opts.prefix, hostArch(), reg, client, log.Named("manager"))

	switch op {
	case opInstall:
		return runInstall(log, mgr, opts, name)
	case opRemove:
		return runRemove(log, mgr, name)
	case opListInstalled:
		rows, err := mgr.ListInstalled()
		return printSummaries(w, log, rows, err)
	case opListAvailable:
		rows, err := mgr.ListAvailable()
		return printSummaries(w, log, rows, err)
	case opListRemovable:
		rows, err := mgr.ListRemovable()
		return printSummaries(w, log, rows, err)
	case opListFiles:
		return runListFiles(w, log, mgr, name, usage)
	default:
		return 1
	}
}

func needsRepo(op operation) bool {
	return op == opInstall || op == opListAvailable
}

func runInstall(log pdlog.Logger, mgr *manager.Manager, opts *options, name string) int {
	reason := store.ReasonUser
	if opts.core {
		reason = store.ReasonCore
	}

	kind, err := mgr.Install(name, reason)
	if kind != result.Ok {
		log.Error("install failed", "name", name, "result", kind.String(), "error", err)
		return 1
	}

	return 0
}

// runRemove dispatches to Manager.Remove and then inspects registry
// state to decide the exit code: Remove itself reports result.Ok both
// when it actually deletes the package and when it logs-and-refuses
// (not installed, or required by another package), so the CLI, the
// one layer responsible for the process exit code, tells the two
// apart by checking whether the package is still installed afterward.
func runRemove(log pdlog.Logger, mgr *manager.Manager, name string) int {
	wasInstalled, ierr := mgr.IsInstalled(name)
	if ierr != nil {
		log.Error("cannot query registry", "name", name, "error", ierr)
		return 1
	}

	kind, err := mgr.Remove(name)
	if kind != result.Ok {
		log.Error("remove failed", "name", name, "result", kind.String(), "error", err)
		return 1
	}

	stillInstalled, serr := mgr.IsInstalled(name)
	if serr != nil {
		log.Error("cannot query registry", "name", name, "error", serr)
		return 1
	}

	if wasInstalled == result.Yes && stillInstalled == result.Yes {
		log.Error("package is required by another installed package", "name", name)
		return 1
	}

	n, cerr := mgr.Cleanup()
	if cerr != nil {
		log.Error("cleanup failed", "error", cerr)
		return 1
	}
	if n > 0 {
		log.Info("cleanup removed orphan dependencies", "count", n)
	}

	return 0
}

// runListFiles lists the files owned by name. -f against a package
// that was never installed is a usage error (help text, exit 2)
// rather than a silent empty list, so ErrorNotInstalled is handled
// before any other failure.
func runListFiles(w io.Writer, log pdlog.Logger, mgr *manager.Manager, name string, usage func()) int {
	paths, kind, err := mgr.ListFiles(name)
	if kind == result.No {
		usage()
		return 2
	}
	if err != nil {
		log.Error("cannot list files", "name", name, "error", err)
		return 1
	}

	for _, p := range paths {
		_, _ = fmt.Fprintln(w, p)
	}

	return 0
}

// runLegacyProbe is the --legacy-probe diagnostic: it tries both
// compression variants historic dudepack releases used and reports
// whether path parses as the legacy trailer-header container.
func runLegacyProbe(w io.Writer, log pdlog.Logger, path string) int {
	data, rerr := os.ReadFile(path)
	if rerr != nil {
		log.Error("cannot read file", "path", path, "error", rerr)
		return 1
	}

	for _, algo := range []container.LegacyAlgorithm{container.LegacyGzip, container.LegacyBzip2} {
		pkg, kind, _ := container.OpenLegacy(data, algo)
		if kind == result.Ok {
			hdr := pkg.Header()
			size := len(pkg.Archive())
			pkg.Close()
			_, _ = fmt.Fprintf(w, "legacy container: version %d, archive %d bytes\n", hdr.Version, size)
			return 0
		}
	}

	_, _ = fmt.Fprintln(w, "not a legacy container")
	return 1
}

func printSummaries(w io.Writer, log pdlog.Logger, rows []manager.Summary, err liberr.Error) int {
	if err != nil {
		log.Error("list failed", "error", err)
		return 1
	}

	for _, r := range rows {
		_, _ = fmt.Fprintf(w, "%s|%s|%s\n", r.Name, r.Version, r.Description)
	}

	return 0
}
