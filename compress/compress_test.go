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

package compress_test

import (
	"testing"

	"github.com/nabbar/packdude/compress"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestCompress(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Compress Package Suite")
}

var _ = Describe("Compress/Decompress", func() {
	It("round-trips arbitrary bytes", func() {
		src := []byte("the quick brown fox jumps over the lazy dog, twice over the lazy dog")

		packed, err := compress.Compress(src)
		Expect(err).To(BeNil())
		Expect(packed).ToNot(BeEmpty())

		unpacked, err := compress.Decompress(packed)
		Expect(err).To(BeNil())
		Expect(unpacked).To(Equal(src))
	})

	It("round-trips the empty slice", func() {
		packed, err := compress.Compress(nil)
		Expect(err).To(BeNil())

		unpacked, err := compress.Decompress(packed)
		Expect(err).To(BeNil())
		Expect(unpacked).To(BeEmpty())
	})

	It("fails to decompress garbage input", func() {
		_, err := compress.Decompress([]byte{0xff, 0xff, 0xff, 0xff, 0xff})
		Expect(err).ToNot(BeNil())
	})
})
