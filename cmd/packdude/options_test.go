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
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestCmd(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Cmd Package Suite")
}

var _ = Describe("options.operation", func() {
	It("rejects zero operation flags", func() {
		o := &options{}
		_, _, err := o.operation()
		Expect(err).To(HaveOccurred())
	})

	It("rejects more than one operation flag", func() {
		o := &options{install: "foo", remove: "bar"}
		_, _, err := o.operation()
		Expect(err).To(HaveOccurred())
	})

	It("resolves install", func() {
		o := &options{install: "hello"}
		op, name, err := o.operation()
		Expect(err).ToNot(HaveOccurred())
		Expect(op).To(Equal(opInstall))
		Expect(name).To(Equal("hello"))
	})

	It("resolves remove", func() {
		o := &options{remove: "hello"}
		op, name, err := o.operation()
		Expect(err).ToNot(HaveOccurred())
		Expect(op).To(Equal(opRemove))
		Expect(name).To(Equal("hello"))
	})

	It("resolves list-files", func() {
		o := &options{files: "hello"}
		op, name, err := o.operation()
		Expect(err).ToNot(HaveOccurred())
		Expect(op).To(Equal(opListFiles))
		Expect(name).To(Equal("hello"))
	})

	It("resolves the three boolean list flags", func() {
		Expect(mustOp(&options{listInstalled: true})).To(Equal(opListInstalled))
		Expect(mustOp(&options{listAvailable: true})).To(Equal(opListAvailable))
		Expect(mustOp(&options{listRemovable: true})).To(Equal(opListRemovable))
	})
})

func mustOp(o *options) operation {
	op, _, err := o.operation()
	if err != nil {
		panic(err)
	}
	return op
}

var _ = Describe("hostArch", func() {
	It("returns a non-empty architecture tag", func() {
		Expect(hostArch()).ToNot(BeEmpty())
	})
})
