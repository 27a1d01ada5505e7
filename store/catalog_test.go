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

package store_test

import (
	"path/filepath"

	"github.com/nabbar/packdude/result"
	"github.com/nabbar/packdude/store"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Catalog", func() {
	var path string

	BeforeEach(func() {
		path = filepath.Join(GinkgoT().TempDir(), "catalog.sqlite3")
	})

	It("creates the schema on first read-write open and round-trips a row", func() {
		cat, err := store.OpenCatalog(path, false)
		Expect(err).To(BeNil())
		defer func() { _ = cat.Close() }()

		info := store.PackageInfo{
			Name: "hello", Version: "1.0", Description: "Hi",
			FileName: "hello-1.0.bin", Arch: "all", Deps: "-",
		}
		Expect(cat.Insert(info)).To(BeNil())

		got, kind, gerr := cat.Get("hello")
		Expect(gerr).To(BeNil())
		Expect(kind).To(Equal(result.Ok))
		Expect(got.FileName).To(Equal("hello-1.0.bin"))
	})

	It("reports NotFound for a missing row", func() {
		cat, err := store.OpenCatalog(path, false)
		Expect(err).To(BeNil())
		defer func() { _ = cat.Close() }()

		_, kind, gerr := cat.Get("nope")
		Expect(kind).To(Equal(result.NotFound))
		Expect(gerr).ToNot(BeNil())
	})

	It("refuses to open a read-only catalog that doesn't exist yet", func() {
		_, err := store.OpenCatalog(path, true)
		Expect(err).ToNot(BeNil())
	})

	It("iterates rows in order and supports early abort", func() {
		cat, err := store.OpenCatalog(path, false)
		Expect(err).To(BeNil())
		defer func() { _ = cat.Close() }()

		for _, n := range []string{"b", "a", "c"} {
			Expect(cat.Insert(store.PackageInfo{
				Name: n, Version: "1", Description: "", FileName: n + ".bin", Arch: "all", Deps: "-",
			})).To(BeNil())
		}

		var seen []string
		kind, ierr := cat.ForEach(func(p store.PackageInfo) bool {
			seen = append(seen, p.Name)
			return true
		})
		Expect(ierr).To(BeNil())
		Expect(kind).To(Equal(result.Ok))
		Expect(seen).To(Equal([]string{"a", "b", "c"}))

		kind, ierr = cat.ForEach(func(p store.PackageInfo) bool {
			return false
		})
		Expect(kind).To(Equal(result.Aborted))
		Expect(ierr).ToNot(BeNil())
	})
})
