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

var _ = Describe("Registry", func() {
	var path string

	BeforeEach(func() {
		path = filepath.Join(GinkgoT().TempDir(), "data.sqlite3")
	})

	It("creates both tables on first open", func() {
		reg, err := store.OpenRegistry(path)
		Expect(err).To(BeNil())
		defer func() { _ = reg.Close() }()

		installed, ierr := reg.IsInstalled("hello")
		Expect(ierr).To(BeNil())
		Expect(installed).To(BeFalse())
	})

	It("records an install and its file manifest, then removes both", func() {
		reg, err := store.OpenRegistry(path)
		Expect(err).To(BeNil())
		defer func() { _ = reg.Close() }()

		Expect(reg.Insert(store.RegistryPackage{
			Name: "hello", Version: "1.0", Description: "Hi",
			FileName: "hello-1.0.bin", Arch: "all", Deps: "-", Reason: string(store.ReasonUser),
		})).To(BeNil())

		Expect(reg.RegisterPath("hello", "./usr/bin/hello")).To(BeNil())

		row, kind, gerr := reg.Get("hello")
		Expect(gerr).To(BeNil())
		Expect(kind).To(Equal(result.Ok))
		Expect(row.Reason).To(Equal(string(store.ReasonUser)))

		var files []string
		_, ferr := reg.ForEachFile("hello", func(f store.FileRow) bool {
			files = append(files, f.Path)
			return true
		})
		Expect(ferr).To(BeNil())
		Expect(files).To(Equal([]string{"./usr/bin/hello"}))

		Expect(reg.UnregisterPath("./usr/bin/hello")).To(BeNil())
		Expect(reg.Delete("hello")).To(BeNil())

		installed, ierr := reg.IsInstalled("hello")
		Expect(ierr).To(BeNil())
		Expect(installed).To(BeFalse())
	})

	It("orders files by descending id", func() {
		reg, err := store.OpenRegistry(path)
		Expect(err).To(BeNil())
		defer func() { _ = reg.Close() }()

		Expect(reg.RegisterPaths("app", []string{"./a", "./b", "./c"})).To(BeNil())

		var files []string
		_, ferr := reg.ForEachFile("app", func(f store.FileRow) bool {
			files = append(files, f.Path)
			return true
		})
		Expect(ferr).To(BeNil())
		Expect(files).To(Equal([]string{"./c", "./b", "./a"}))
	})
})
