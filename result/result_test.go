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

package result_test

import (
	liberr "github.com/nabbar/packdude/errors"
	"github.com/nabbar/packdude/result"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

const testMin liberr.CodeError = 5000

var _ = Describe("Kind", func() {
	It("prints a readable name for every variant", func() {
		Expect(result.Ok.String()).To(Equal("Ok"))
		Expect(result.NotFound.String()).To(Equal("NotFound"))
		Expect(result.Kind(250).String()).To(Equal("Unknown"))
	})

	It("treats Ok, Yes, No and AlreadyInstalled as non-failures", func() {
		Expect(result.Ok.IsFailure()).To(BeFalse())
		Expect(result.Yes.IsFailure()).To(BeFalse())
		Expect(result.No.IsFailure()).To(BeFalse())
		Expect(result.AlreadyInstalled.IsFailure()).To(BeFalse())
		Expect(result.CorruptData.IsFailure()).To(BeTrue())
	})
})

var _ = Describe("Classify", func() {
	BeforeEach(func() {
		result.Register(testMin, func(code liberr.CodeError) result.Kind {
			switch code {
			case testMin + 1:
				return result.NotFound
			case testMin + 2:
				return result.CorruptData
			default:
				return result.StoreError
			}
		})
	})

	It("classifies a nil error as Ok", func() {
		Expect(result.Classify(nil)).To(Equal(result.Ok))
	})

	It("dispatches to the classifier registered for the code's range", func() {
		err := liberr.New((testMin + 1).Uint16(), "missing")
		Expect(result.Classify(err)).To(Equal(result.NotFound))
	})

	It("falls back to StoreError when no classifier matches", func() {
		err := liberr.New((testMin - 1).Uint16(), "unregistered range")
		Expect(result.Classify(err)).To(Equal(result.StoreError))
	})
})
