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

package repo_test

import (
	"archive/tar"
	"bytes"
	"os"
	"path/filepath"

	"github.com/nabbar/packdude/container"
	"github.com/nabbar/packdude/repo"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

// buildMetaBlob produces a container blob whose tar archive embeds a
// "./.pkginfo" metadata entry next to a payload file, the shape
// dudepack's local-scan generation wrote.
func buildMetaBlob(meta string) []byte {
	buf := &bytes.Buffer{}
	w := tar.NewWriter(buf)

	_ = w.WriteHeader(&tar.Header{Name: "./", Typeflag: tar.TypeDir, Mode: 0o755})
	_ = w.WriteHeader(&tar.Header{Name: "./.pkginfo", Typeflag: tar.TypeReg, Mode: 0o644, Size: int64(len(meta))})
	_, _ = w.Write([]byte(meta))
	_ = w.WriteHeader(&tar.Header{Name: "./usr/bin/hello", Typeflag: tar.TypeReg, Mode: 0o755, Size: 2})
	_, _ = w.Write([]byte("HI"))
	_ = w.Close()

	return container.Build(buf.Bytes())
}

var _ = Describe("ScanLocal", func() {
	var dir string

	BeforeEach(func() {
		dir = GinkgoT().TempDir()
	})

	It("builds catalog rows from blobs carrying an embedded .pkginfo entry", func() {
		meta := "name: hello\nversion: 1.0\ndesc: Hi\narch: all\ndeps: -\n"
		Expect(os.WriteFile(filepath.Join(dir, "hello-1.0.bin"), buildMetaBlob(meta), 0o644)).ToNot(HaveOccurred())

		rows, err := repo.ScanLocal(dir)
		Expect(err).To(BeNil())
		Expect(rows).To(HaveLen(1))
		Expect(rows[0].Name).To(Equal("hello"))
		Expect(rows[0].Version).To(Equal("1.0"))
		Expect(rows[0].Description).To(Equal("Hi"))
		Expect(rows[0].Arch).To(Equal("all"))
		Expect(rows[0].Deps).To(Equal("-"))
		Expect(rows[0].FileName).To(Equal("hello-1.0.bin"))
	})

	It("skips files that are not well-formed containers", func() {
		Expect(os.WriteFile(filepath.Join(dir, "junk.txt"), []byte("not a container"), 0o644)).ToNot(HaveOccurred())

		rows, err := repo.ScanLocal(dir)
		Expect(err).To(BeNil())
		Expect(rows).To(BeEmpty())
	})

	It("skips containers without a metadata entry", func() {
		buf := &bytes.Buffer{}
		w := tar.NewWriter(buf)
		_ = w.WriteHeader(&tar.Header{Name: "./plain", Typeflag: tar.TypeReg, Mode: 0o644, Size: 1})
		_, _ = w.Write([]byte("x"))
		_ = w.Close()
		Expect(os.WriteFile(filepath.Join(dir, "plain.bin"), container.Build(buf.Bytes()), 0o644)).ToNot(HaveOccurred())

		rows, err := repo.ScanLocal(dir)
		Expect(err).To(BeNil())
		Expect(rows).To(BeEmpty())
	})
})
