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

// Package container implements the package container format:
// parsing the fixed header, locating the tar archive region, and
// verifying the format version and CRC-32 checksum before anything is
// installed. A Package is a buffer-owning handle with header and
// archive pointers into one allocation.
package container

import (
	"encoding/binary"
	"hash/crc32"

	liberr "github.com/nabbar/packdude/errors"
	"github.com/nabbar/packdude/result"
)

const pkgName = "packdude/container"

const (
	ErrorTooShort liberr.CodeError = iota + liberr.MinPkgContainer
	ErrorBadMagic
	ErrorBadVersion
	ErrorBadChecksum
	ErrorLegacyTooShort
	ErrorLegacyDecompress
)

func init() {
	if liberr.ExistInMapMessage(ErrorTooShort) {
		panic("error code collision " + pkgName)
	}
	liberr.RegisterIdFctMessage(ErrorTooShort, getMessage)
	result.Register(liberr.MinPkgContainer, classify)
}

func getMessage(code liberr.CodeError) string {
	switch code {
	case liberr.UnknownError:
		return liberr.NullMessage
	case ErrorTooShort:
		return "package blob is smaller than the container header"
	case ErrorBadMagic:
		return "package blob has an invalid magic preamble"
	case ErrorBadVersion:
		return "package blob's format version is incompatible with this implementation"
	case ErrorBadChecksum:
		return "package archive region fails its CRC-32 checksum"
	case ErrorLegacyTooShort:
		return "legacy package blob is smaller than the trailer header"
	case ErrorLegacyDecompress:
		return "legacy package archive region failed to decompress"
	default:
		return liberr.NullMessage
	}
}

func classify(code liberr.CodeError) result.Kind {
	switch code {
	case ErrorBadVersion:
		return result.Incompatible
	default:
		return result.CorruptData
	}
}

// Magic is the fixed 32-bit big-endian ASCII sequence "dude" every
// container's header must carry at offset 0.
const Magic uint32 = 0x64756465

// FormatVersion is the on-disk format version this implementation
// reads and writes. A blob whose header carries a different version is
// Incompatible.
const FormatVersion uint8 = 1

// HeaderSize is sizeof(header): 4-byte magic + 1-byte version + 4-byte
// checksum, packed with no padding.
const HeaderSize = 4 + 1 + 4

// Header is the fixed on-disk preamble of a package container.
type Header struct {
	Magic    uint32
	Version  uint8
	Checksum uint32
}

// Package is the in-memory handle for an opened, verified container:
// the whole mapped blob plus pointers into it for the header and the
// archive region. The handle owns buf for its lifetime.
type Package struct {
	buf     []byte
	header  Header
	archive []byte
}

// Header returns the parsed header.
func (p *Package) Header() Header { return p.header }

// Archive returns the tar archive region (archive_size = total_size -
// sizeof(header)).
func (p *Package) Archive() []byte { return p.archive }

// Close releases the package's owned buffer. The handle does not
// persist any on-disk state.
func (p *Package) Close() {
	p.buf = nil
	p.archive = nil
}

// Open parses and verifies a package blob in the current container
// layout: header first, archive region (a plain tar stream) follows.
func Open(data []byte) (*Package, result.Kind, liberr.Error) {
	if len(data) <= HeaderSize {
		return nil, result.CorruptData, ErrorTooShort.Error(nil)
	}

	hdr := Header{
		Magic:    binary.BigEndian.Uint32(data[0:4]),
		Version:  data[4],
		Checksum: binary.BigEndian.Uint32(data[5:9]),
	}

	if hdr.Magic != Magic {
		return nil, result.CorruptData, ErrorBadMagic.Error(nil)
	}

	if hdr.Version != FormatVersion {
		return nil, result.Incompatible, ErrorBadVersion.Errorf(hdr.Version)
	}

	archive := data[HeaderSize:]
	if crc32.ChecksumIEEE(archive) != hdr.Checksum {
		return nil, result.CorruptData, ErrorBadChecksum.Error(nil)
	}

	return &Package{buf: data, header: hdr, archive: archive}, result.Ok, nil
}

// Build assembles a container blob from a tar archive region, the way
// the sibling dudepack builder would; tests use it to construct
// fixtures without a second implementation of the header layout.
func Build(archiveRegion []byte) []byte {
	out := make([]byte, HeaderSize+len(archiveRegion))
	binary.BigEndian.PutUint32(out[0:4], Magic)
	out[4] = FormatVersion
	binary.BigEndian.PutUint32(out[5:9], crc32.ChecksumIEEE(archiveRegion))
	copy(out[HeaderSize:], archiveRegion)
	return out
}
