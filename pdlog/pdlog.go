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

// Package pdlog is a thin leveled-logging facade over
// github.com/hashicorp/go-hclog: a small interface with
// Debug/Info/Warn/Error plus a level threshold that -d raises.
package pdlog

import (
	"os"

	"github.com/hashicorp/go-hclog"
)

// Logger is the leveled logging surface every packdude component takes
// as a dependency instead of writing to stderr directly.
type Logger interface {
	Debug(msg string, args ...interface{})
	Info(msg string, args ...interface{})
	Warn(msg string, args ...interface{})
	Error(msg string, args ...interface{})

	// Named returns a sub-logger prefixed with name.
	Named(name string) Logger

	// Raw exposes the underlying hclog.Logger for components (e.g. the
	// FTP/HTTP fetchers) that want to pass a logger through verbatim.
	Raw() hclog.Logger
}

type logger struct {
	hc hclog.Logger
}

// New builds a Logger called name, at InfoLevel, writing to stderr.
func New(name string) Logger {
	return &logger{
		hc: hclog.New(&hclog.LoggerOptions{
			Name:            name,
			Level:           hclog.Info,
			Output:          os.Stderr,
			IncludeLocation: false,
		}),
	}
}

// SetDebug raises or lowers the logger's threshold, driven by the CLI's
// -d flag.
func (l *logger) SetDebug(debug bool) {
	if debug {
		l.hc.SetLevel(hclog.Debug)
	} else {
		l.hc.SetLevel(hclog.Info)
	}
}

func (l *logger) Debug(msg string, args ...interface{}) { l.hc.Debug(msg, args...) }
func (l *logger) Info(msg string, args ...interface{})  { l.hc.Info(msg, args...) }
func (l *logger) Warn(msg string, args ...interface{})  { l.hc.Warn(msg, args...) }
func (l *logger) Error(msg string, args ...interface{}) { l.hc.Error(msg, args...) }

func (l *logger) Named(name string) Logger {
	return &logger{hc: l.hc.Named(name)}
}

func (l *logger) Raw() hclog.Logger { return l.hc }

// SetDebug is a package-level helper for loggers returned by New, since
// the CLI only ever raises the threshold on the single root logger it
// constructs.
func SetDebug(l Logger, debug bool) {
	if ll, ok := l.(*logger); ok {
		ll.SetDebug(debug)
	}
}
