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

package container_test

import (
	"bytes"
	"compress/gzip"
	"encoding/binary"
	"hash/crc32"

	"github.com/dsnet/compress/bzip2"
	"github.com/nabbar/packdude/container"
	"github.com/nabbar/packdude/result"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

// buildLegacy assembles the historic trailer-header layout: compressed
// archive region first, {magic,version,checksum} appended at EOF, with
// the checksum covering the compressed bytes.
func buildLegacy(archiveRegion []byte, algo container.LegacyAlgorithm) []byte {
	buf := &bytes.Buffer{}

	switch algo {
	case container.LegacyBzip2:
		w, err := bzip2.NewWriter(buf, nil)
		Expect(err).ToNot(HaveOccurred())
		_, _ = w.Write(archiveRegion)
		Expect(w.Close()).ToNot(HaveOccurred())
	default:
		w := gzip.NewWriter(buf)
		_, _ = w.Write(archiveRegion)
		Expect(w.Close()).ToNot(HaveOccurred())
	}

	compressed := buf.Bytes()
	out := make([]byte, len(compressed)+container.HeaderSize)
	copy(out, compressed)

	trailer := out[len(compressed):]
	binary.BigEndian.PutUint32(trailer[0:4], container.Magic)
	trailer[4] = container.FormatVersion
	binary.BigEndian.PutUint32(trailer[5:9], crc32.ChecksumIEEE(compressed))
	return out
}

var _ = Describe("OpenLegacy", func() {
	It("recovers a gzip-compressed trailer-header blob", func() {
		pkg, kind, err := container.OpenLegacy(buildLegacy([]byte("old tar bytes"), container.LegacyGzip), container.LegacyGzip)
		Expect(err).To(BeNil())
		Expect(kind).To(Equal(result.Ok))
		Expect(pkg.Archive()).To(Equal([]byte("old tar bytes")))
	})

	It("recovers a bzip2-compressed trailer-header blob", func() {
		pkg, kind, err := container.OpenLegacy(buildLegacy([]byte("old tar bytes"), container.LegacyBzip2), container.LegacyBzip2)
		Expect(err).To(BeNil())
		Expect(kind).To(Equal(result.Ok))
		Expect(pkg.Archive()).To(Equal([]byte("old tar bytes")))
	})

	It("rejects a blob smaller than the trailer", func() {
		_, kind, err := container.OpenLegacy([]byte{1, 2, 3}, container.LegacyGzip)
		Expect(kind).To(Equal(result.CorruptData))
		Expect(err).ToNot(BeNil())
	})

	It("rejects a bad trailer magic", func() {
		blob := buildLegacy([]byte("old tar bytes"), container.LegacyGzip)
		blob[len(blob)-container.HeaderSize] ^= 0xFF

		_, kind, err := container.OpenLegacy(blob, container.LegacyGzip)
		Expect(kind).To(Equal(result.CorruptData))
		Expect(err).ToNot(BeNil())
	})

	It("rejects a flipped byte in the compressed region before inflating", func() {
		blob := buildLegacy([]byte("old tar bytes"), container.LegacyGzip)
		blob[0] ^= 0xFF

		_, kind, err := container.OpenLegacy(blob, container.LegacyGzip)
		Expect(kind).To(Equal(result.CorruptData))
		Expect(err).ToNot(BeNil())
	})
})
