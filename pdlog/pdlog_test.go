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

package pdlog_test

import (
	"testing"

	"github.com/nabbar/packdude/pdlog"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestPdlog(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Pdlog Package Suite")
}

var _ = Describe("Logger", func() {
	It("builds a named logger without panicking", func() {
		l := pdlog.New("packdude")
		Expect(l).ToNot(BeNil())
		Expect(l.Raw()).ToNot(BeNil())
	})

	It("derives a named sub-logger", func() {
		l := pdlog.New("packdude").Named("manager")
		Expect(l.Raw().Name()).To(Equal("packdude.manager"))
	})

	It("raises the threshold to debug", func() {
		l := pdlog.New("packdude")
		pdlog.SetDebug(l, true)
		Expect(l.Raw().IsDebug()).To(BeTrue())
	})
})
