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

// Package fetch implements the fetcher: HTTP/FTP GET to memory or
// to file, sharing a user-agent and common transport options across
// every handle: a configuration shim around net/http.Client for the
// HTTP half, github.com/jlaffaye/ftp for the FTP half.
package fetch

import (
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"sync/atomic"
	"time"

	"github.com/jlaffaye/ftp"

	liberr "github.com/nabbar/packdude/errors"
	"github.com/nabbar/packdude/pdlog"
	"github.com/nabbar/packdude/result"
)

const pkgName = "packdude/fetch"

const (
	ErrorNetwork liberr.CodeError = iota + liberr.MinPkgFetch
	ErrorHTTPStatus
	ErrorFTPConnect
	ErrorFTPRetrieve
	ErrorFileCreate
	ErrorFileWrite
	ErrorURLParse
)

func init() {
	if liberr.ExistInMapMessage(ErrorNetwork) {
		panic("error code collision " + pkgName)
	}
	liberr.RegisterIdFctMessage(ErrorNetwork, getMessage)
	result.Register(liberr.MinPkgFetch, classify)
}

func getMessage(code liberr.CodeError) string {
	switch code {
	case liberr.UnknownError:
		return liberr.NullMessage
	case ErrorNetwork:
		return "transport failure while fetching"
	case ErrorHTTPStatus:
		return "server returned a failing HTTP status"
	case ErrorFTPConnect:
		return "cannot connect to FTP server"
	case ErrorFTPRetrieve:
		return "cannot retrieve FTP resource"
	case ErrorFileCreate:
		return "cannot create local destination file"
	case ErrorFileWrite:
		return "cannot write local destination file"
	case ErrorURLParse:
		return "cannot parse fetch URL"
	default:
		return liberr.NullMessage
	}
}

func classify(code liberr.CodeError) result.Kind {
	switch code {
	case ErrorFileCreate, ErrorFileWrite:
		return result.IoError
	case ErrorURLParse:
		return result.CorruptData
	default:
		return result.NetworkError
	}
}

// Product/Version compose the fetcher's shared User-Agent string,
// "{product}/{version}".
const (
	Product = "packdude"
	Version = "1.0"
)

// refcount tracks how many live Handles share the process-wide
// transport state, the Go analogue of libcurl's refcounted
// curl_global_init/curl_global_cleanup.
var refcount int32

// Handle carries one fetcher's HTTP client and FTP connection options.
// Common options (user-agent, TCP_NODELAY, fail-on-HTTP-error) are the
// same for every request a handle makes.
type Handle struct {
	http *http.Client
	log  pdlog.Logger
}

// NewHandle constructs a fetcher handle and increments the
// process-wide refcount.
func NewHandle(log pdlog.Logger) *Handle {
	atomic.AddInt32(&refcount, 1)

	return &Handle{
		http: &http.Client{
			Timeout: 30 * time.Second,
			Transport: &http.Transport{
				// net.Dialer's TCP connections default to Nagle
				// disabled (SetNoDelay(true)); no extra option needed
				// for TCP_NODELAY behavior from net/http.
				MaxIdleConns:        10,
				MaxIdleConnsPerHost: 5,
				IdleConnTimeout:     30 * time.Second,
			},
		},
		log: log,
	}
}

// Close decrements the process-wide refcount. A single-threaded
// packdude invocation only ever constructs one Handle.
func (h *Handle) Close() {
	atomic.AddInt32(&refcount, -1)
}

func (h *Handle) userAgent() string {
	return fmt.Sprintf("%s/%s", Product, Version)
}

// FetchToMemory retrieves rawURL (http(s):// or ftp://) into memory.
func (h *Handle) FetchToMemory(rawURL string) ([]byte, liberr.Error) {
	u, e := url.Parse(rawURL)
	if e != nil {
		return nil, ErrorURLParse.Error(e)
	}

	switch u.Scheme {
	case "ftp":
		return h.fetchFTP(u)
	default:
		return h.fetchHTTP(rawURL)
	}
}

func (h *Handle) fetchHTTP(rawURL string) ([]byte, liberr.Error) {
	req, e := http.NewRequest(http.MethodGet, rawURL, nil)
	if e != nil {
		return nil, ErrorNetwork.Error(e)
	}
	req.Header.Set("User-Agent", h.userAgent())

	resp, e := h.http.Do(req)
	if e != nil {
		return nil, ErrorNetwork.Error(e)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 400 {
		return nil, ErrorHTTPStatus.Errorf(resp.StatusCode)
	}

	body, e := io.ReadAll(resp.Body)
	if e != nil {
		return nil, ErrorNetwork.Error(e)
	}

	return body, nil
}

func (h *Handle) fetchFTP(u *url.URL) ([]byte, liberr.Error) {
	addr := u.Host
	if u.Port() == "" {
		addr += ":21"
	}

	conn, e := ftp.Dial(addr, ftp.DialWithTimeout(10*time.Second))
	if e != nil {
		return nil, ErrorFTPConnect.Error(e)
	}
	defer func() { _ = conn.Quit() }()

	user := "anonymous"
	pass := "anonymous"
	if u.User != nil {
		user = u.User.Username()
		if p, ok := u.User.Password(); ok {
			pass = p
		}
	}

	if e = conn.Login(user, pass); e != nil {
		return nil, ErrorFTPConnect.Error(e)
	}

	r, e := conn.Retr(u.Path)
	if e != nil {
		return nil, ErrorFTPRetrieve.Error(e)
	}
	defer func() { _ = r.Close() }()

	body, e := io.ReadAll(r)
	if e != nil {
		return nil, ErrorFTPRetrieve.Error(e)
	}

	return body, nil
}

// FetchToFile retrieves rawURL to memory and writes it to path in one
// shot; on write failure the destination file is unlinked.
func (h *Handle) FetchToFile(rawURL, path string) liberr.Error {
	body, err := h.FetchToMemory(rawURL)
	if err != nil {
		return err
	}

	f, e := os.Create(path)
	if e != nil {
		return ErrorFileCreate.Error(e)
	}

	if _, e = f.Write(body); e != nil {
		_ = f.Close()
		_ = os.Remove(path)
		return ErrorFileWrite.Error(e)
	}

	if e = f.Close(); e != nil {
		_ = os.Remove(path)
		return ErrorFileWrite.Error(e)
	}

	return nil
}

// RefCount returns the number of live Handles, for diagnostics and
// tests.
func RefCount() int32 {
	return atomic.LoadInt32(&refcount)
}
