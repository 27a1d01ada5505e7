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

// Package repo implements the repository client: it mirrors the
// remote catalog database with an mtime-gated local cache, and fetches
// individual package blobs by file name. The cache path is derived
// from the repository URL; the mirror is reused within a freshness
// window and refetched unconditionally once stale.
package repo

import (
	"fmt"
	"hash/crc32"
	"os"
	"path/filepath"
	"time"

	liberr "github.com/nabbar/packdude/errors"
	"github.com/nabbar/packdude/fetch"
	"github.com/nabbar/packdude/pdlog"
	"github.com/nabbar/packdude/result"
	"github.com/nabbar/packdude/store"
)

const pkgName = "packdude/repo"

const (
	ErrorFetchCatalog liberr.CodeError = iota + liberr.MinPkgRepo
	ErrorFetchPackage
	ErrorOpenCache
	ErrorURLFormat
	ErrorScanLocal
)

func init() {
	if liberr.ExistInMapMessage(ErrorFetchCatalog) {
		panic("error code collision " + pkgName)
	}
	liberr.RegisterIdFctMessage(ErrorFetchCatalog, getMessage)
	result.Register(liberr.MinPkgRepo, classify)
}

func getMessage(code liberr.CodeError) string {
	switch code {
	case liberr.UnknownError:
		return liberr.NullMessage
	case ErrorFetchCatalog:
		return "cannot fetch repository catalog"
	case ErrorFetchPackage:
		return "cannot fetch package blob"
	case ErrorOpenCache:
		return "cannot open cached catalog database"
	case ErrorURLFormat:
		return "cannot format repository URL"
	case ErrorScanLocal:
		return "cannot scan local package directory"
	default:
		return liberr.NullMessage
	}
}

func classify(code liberr.CodeError) result.Kind {
	switch code {
	case ErrorURLFormat:
		return result.CorruptData
	case ErrorOpenCache:
		return result.StoreError
	default:
		return result.NetworkError
	}
}

// DefaultFreshness is the freshness window a cached catalog is reused
// within before being refetched unconditionally.
const DefaultFreshness = 6 * time.Hour

// CatalogFileName is the well-known catalog database name served at
// the repository root.
const CatalogFileName = "repo.sqlite3"

// Client is a repository's base URL plus a fetcher handle.
type Client struct {
	baseURL   string
	cacheDir  string
	freshness time.Duration
	fetcher   *fetch.Handle
	log       pdlog.Logger
}

// NewClient builds a repository client rooted at baseURL, caching the
// catalog mirror under cacheDir.
func NewClient(baseURL, cacheDir string, fetcher *fetch.Handle, log pdlog.Logger) *Client {
	return &Client{
		baseURL:   baseURL,
		cacheDir:  cacheDir,
		freshness: DefaultFreshness,
		fetcher:   fetcher,
		log:       log,
	}
}

// CachePath derives the local cache path for this client's URL: the
// CRC-32 of the URL bytes, in decimal, used as the cache file name's
// hash component. It is recomputed on every call rather than memoized
// once per Client.
func (c *Client) CachePath() string {
	hash := crc32.ChecksumIEEE([]byte(c.baseURL))
	return filepath.Join(c.cacheDir, fmt.Sprintf("%d.sqlite3", hash))
}

// GetDatabase mirrors the remote catalog locally, reusing the cache if
// it is within the freshness window, and returns it opened read-only.
func (c *Client) GetDatabase() (*store.Catalog, result.Kind, liberr.Error) {
	path := c.CachePath()

	stale := true
	if info, e := os.Stat(path); e == nil {
		stale = time.Since(info.ModTime()) >= c.freshness
	}

	if stale {
		if e := os.MkdirAll(c.cacheDir, 0o755); e != nil {
			return nil, result.IoError, ErrorOpenCache.Error(e)
		}

		url := c.baseURL + "/" + CatalogFileName
		if err := c.fetcher.FetchToFile(url, path); err != nil {
			return nil, result.NetworkError, ErrorFetchCatalog.Error(err)
		}

		c.log.Info("fetched catalog", "url", url, "path", path)
	} else {
		c.log.Debug("reusing cached catalog", "path", path)
	}

	cat, err := store.OpenCatalog(path, true)
	if err != nil {
		return nil, result.StoreError, ErrorOpenCache.Error(err)
	}

	return cat, result.Ok, nil
}

// GetPackage fetches the blob named by info.FileName to memory.
func (c *Client) GetPackage(info store.PackageInfo) ([]byte, result.Kind, liberr.Error) {
	if info.FileName == "" {
		return nil, result.CorruptData, ErrorURLFormat.Error(nil)
	}

	url := c.baseURL + "/" + info.FileName
	body, err := c.fetcher.FetchToMemory(url)
	if err != nil {
		return nil, result.NetworkError, ErrorFetchPackage.Error(err)
	}

	return body, result.Ok, nil
}
