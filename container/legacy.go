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

package container

import (
	"bytes"
	"compress/gzip"
	"encoding/binary"
	"hash/crc32"
	"io"

	"github.com/dsnet/compress/bzip2"
	liberr "github.com/nabbar/packdude/errors"
	"github.com/nabbar/packdude/result"
)

// LegacyHeader is the trailer-positioned preamble used by older
// dudepack releases: the archive region comes first, the
// {magic,version,checksum} header is appended at EOF. The current
// layout is header-first, so this is read-support only.
type LegacyHeader = Header

// LegacyAlgorithm selects which compression the legacy archive region
// was written with; older dudepack releases used either.
type LegacyAlgorithm uint8

const (
	LegacyGzip LegacyAlgorithm = iota
	LegacyBzip2
)

// OpenLegacy parses the older trailer-header, compressed-archive
// container layout. The checksum in the trailer covers the compressed
// (on-disk) archive region, matching the historic implementation's
// mmap-then-verify order: verify before inflate.
func OpenLegacy(data []byte, algo LegacyAlgorithm) (*Package, result.Kind, liberr.Error) {
	if len(data) <= HeaderSize {
		return nil, result.CorruptData, ErrorLegacyTooShort.Error(nil)
	}

	trailer := data[len(data)-HeaderSize:]
	compressed := data[:len(data)-HeaderSize]

	hdr := Header{
		Magic:    binary.BigEndian.Uint32(trailer[0:4]),
		Version:  trailer[4],
		Checksum: binary.BigEndian.Uint32(trailer[5:9]),
	}

	if hdr.Magic != Magic {
		return nil, result.CorruptData, ErrorBadMagic.Error(nil)
	}

	if crc32.ChecksumIEEE(compressed) != hdr.Checksum {
		return nil, result.CorruptData, ErrorBadChecksum.Error(nil)
	}

	archive, e := legacyDecompress(compressed, algo)
	if e != nil {
		return nil, result.CorruptData, ErrorLegacyDecompress.Error(e)
	}

	return &Package{buf: data, header: hdr, archive: archive}, result.Ok, nil
}

func legacyDecompress(compressed []byte, algo LegacyAlgorithm) ([]byte, error) {
	switch algo {
	case LegacyBzip2:
		r, e := bzip2.NewReader(bytes.NewReader(compressed), nil)
		if e != nil {
			return nil, e
		}
		defer func() { _ = r.Close() }()
		return io.ReadAll(r)
	default:
		r, e := gzip.NewReader(bytes.NewReader(compressed))
		if e != nil {
			return nil, e
		}
		defer func() { _ = r.Close() }()
		return io.ReadAll(r)
	}
}
