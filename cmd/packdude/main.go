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

// Command packdude is the program entry point: it parses the short
// option grammar, acquires the per-prefix advisory lock, opens the
// registry (and, where needed, a repository client), constructs a
// manager, and dispatches to exactly one operation. One root
// cobra.Command with flags bound directly to an options struct, no
// subcommands.
package main

import (
	"fmt"
	"os"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/nabbar/packdude/pdlog"
)

var exitCode int

func main() {
	opts := &options{}
	log := pdlog.New("packdude")

	root := &cobra.Command{
		Use:           "packdude",
		Short:         "minimalist source-agnostic package manager",
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			pdlog.SetDebug(log, opts.debug)

			if opts.legacyProbe != "" {
				exitCode = runLegacyProbe(cmd.OutOrStdout(), log, opts.legacyProbe)
				return nil
			}

			op, name, operr := opts.operation()
			if operr != nil {
				_ = cmd.Usage()
				exitCode = 2
				return nil
			}

			usage := func() { _ = cmd.Usage() }
			exitCode = run(cmd.OutOrStdout(), log, opts, op, name, usage)
			return nil
		},
	}
	root.SetOut(os.Stdout)

	flags := root.Flags()
	flags.BoolVarP(&opts.debug, "debug", "d", false, "raise verbosity to debug")
	flags.BoolVarP(&opts.core, "core", "n", false, "mark installation reason as core instead of user")
	flags.StringVarP(&opts.prefix, "prefix", "p", "/", "installation prefix")
	flags.StringVarP(&opts.url, "url", "u", os.Getenv("REPO"), "repository URL (default from $REPO)")
	flags.StringVarP(&opts.install, "install", "i", "", "install NAME")
	flags.StringVarP(&opts.remove, "remove", "r", "", "remove NAME (runs cleanup afterward)")
	flags.StringVarP(&opts.files, "files", "f", "", "list files owned by NAME")
	flags.BoolVarP(&opts.listInstalled, "query", "q", false, "list installed packages")
	flags.BoolVarP(&opts.listAvailable, "list", "l", false, "list available packages")
	flags.BoolVarP(&opts.listRemovable, "removable", "c", false, "list removable packages")
	flags.StringVar(&opts.legacyProbe, "legacy-probe", "", "diagnostic: report whether FILE parses as a legacy trailer-header container")

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	os.Exit(exitCode)
}

// hostArch is the architecture tag a package's arch field must match,
// unless the field carries the sentinel "all".
func hostArch() string {
	return runtime.GOARCH
}
