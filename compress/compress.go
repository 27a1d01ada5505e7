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

// Package compress implements the container format's compression
// adapter: two pure buffer-in/buffer-out functions over raw
// DEFLATE with no on-disk framing.
package compress

import (
	"bytes"
	"compress/flate"
	"io"

	liberr "github.com/nabbar/packdude/errors"
	"github.com/nabbar/packdude/result"
)

const pkgName = "packdude/compress"

const (
	ErrorWriterCreate liberr.CodeError = iota + liberr.MinPkgCompress
	ErrorWrite
	ErrorWriterClose
	ErrorReaderCreate
	ErrorRead
)

func init() {
	if liberr.ExistInMapMessage(ErrorWriterCreate) {
		panic("error code collision " + pkgName)
	}
	liberr.RegisterIdFctMessage(ErrorWriterCreate, getMessage)
	result.Register(liberr.MinPkgCompress, classify)
}

func classify(liberr.CodeError) result.Kind {
	return result.CorruptData
}

func getMessage(code liberr.CodeError) string {
	switch code {
	case liberr.UnknownError:
		return liberr.NullMessage
	case ErrorWriterCreate:
		return "cannot create deflate writer"
	case ErrorWrite:
		return "cannot write to deflate stream"
	case ErrorWriterClose:
		return "cannot close deflate writer"
	case ErrorReaderCreate:
		return "cannot create inflate reader"
	case ErrorRead:
		return "cannot read from inflate stream"
	default:
		return liberr.NullMessage
	}
}

// Compress deflates src with no framing (raw DEFLATE, no zlib/gzip
// header or trailer) and returns the compressed bytes. A nil error
// return always carries a non-empty byte slice (even for an empty
// src); a non-nil error means the result is CorruptData and the
// returned slice must be treated as empty.
func Compress(src []byte) ([]byte, liberr.Error) {
	buf := &bytes.Buffer{}

	w, e := flate.NewWriter(buf, flate.DefaultCompression)
	if e != nil {
		return nil, ErrorWriterCreate.Error(e)
	}

	if _, e = w.Write(src); e != nil {
		return nil, ErrorWrite.Error(e)
	}

	if e = w.Close(); e != nil {
		return nil, ErrorWriterClose.Error(e)
	}

	return buf.Bytes(), nil
}

// Decompress inflates a raw-DEFLATE byte slice produced by Compress (or
// by the reference dudepack tool). Any failure to read the stream maps
// to ErrorRead, which result.Classify resolves to CorruptData.
func Decompress(src []byte) ([]byte, liberr.Error) {
	r := flate.NewReader(bytes.NewReader(src))
	defer func() { _ = r.Close() }()

	out, e := io.ReadAll(r)
	if e != nil {
		return nil, ErrorRead.Error(e)
	}

	return out, nil
}
