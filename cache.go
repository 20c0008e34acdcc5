package oai

import (
	"bytes"
	"compress/gzip"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"io"
	"log"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// CompressThreshold is the size from which cached values are gzipped.
const CompressThreshold = 1024

var ErrBadKey = errors.New("bad key")

// DirCache caches values under a root directory. The key must be a valid
// relative path, that stays inside the directory.
type DirCache struct {
	directory string
}

// NewDirCache uses directory as the cache root.
func NewDirCache(directory string) (c DirCache, err error) {
	abs, err := filepath.Abs(directory)
	if err != nil {
		return c, err
	}
	return DirCache{abs}, err
}

func (c DirCache) cleanKey(k string) (s string, err error) {
	s = filepath.Clean(path.Join(c.directory, k))
	if s != c.directory && !strings.HasPrefix(s, c.directory+string(filepath.Separator)) {
		return "", ErrBadKey
	}
	return s, nil
}

// Get returns the cached value. Missing keys yield an error satisfying
// errors.Is(err, os.ErrNotExist).
func (c DirCache) Get(k string) ([]byte, error) {
	pth, err := c.cleanKey(k)
	if err != nil {
		return nil, err
	}
	b, err := os.ReadFile(pth)
	if err != nil {
		return nil, err
	}
	gz, err := gzip.NewReader(bytes.NewReader(b))
	switch err {
	case nil:
		defer gz.Close()
		return io.ReadAll(gz)
	case gzip.ErrHeader, io.ErrUnexpectedEOF, io.EOF:
		return b, nil
	default:
		return nil, err
	}
}

// Set stores a value, creating directories as needed. Values of at least
// CompressThreshold bytes are stored gzipped, Get decompresses transparently.
func (c DirCache) Set(k string, v []byte) error {
	pth, err := c.cleanKey(k)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(path.Dir(pth), 0755); err != nil {
		return err
	}
	if len(v) >= CompressThreshold {
		var buf bytes.Buffer
		gz := gzip.NewWriter(&buf)
		if _, err := gz.Write(v); err != nil {
			return err
		}
		if err := gz.Close(); err != nil {
			return err
		}
		v = buf.Bytes()
	}
	return WriteFileAtomic(pth, v, 0644)
}

// WriteFileAtomic writes data to a temporary file in the same directory and
// renames it to filename.
func WriteFileAtomic(filename string, data []byte, perm os.FileMode) error {
	dir, name := path.Split(filename)
	f, err := os.CreateTemp(dir, name)
	if err != nil {
		return err
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(f.Name())
		return err
	}
	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return err
	}
	if err := os.Chmod(f.Name(), perm); err != nil {
		os.Remove(f.Name())
		return err
	}
	return os.Rename(f.Name(), filename)
}

// CachingDoer serves GET requests from a DirCache and stores successful
// responses of the wrapped Doer, see cacheable. Keys are derived from the
// full URL, so every resumption token gets its own entry.
type CachingDoer struct {
	Cache DirCache
	Doer  Doer
}

// NewCachingDoer caches responses of doer below directory.
func NewCachingDoer(directory string, doer Doer) (*CachingDoer, error) {
	cache, err := NewDirCache(directory)
	if err != nil {
		return nil, err
	}
	return &CachingDoer{Cache: cache, Doer: doer}, nil
}

func cacheKey(u string) string {
	hash := sha256.Sum256([]byte(u))
	s := hex.EncodeToString(hash[:])
	return path.Join(s[:2], s)
}

func cachedResponse(req *http.Request, b []byte, header http.Header) *http.Response {
	return &http.Response{
		Request:       req,
		Header:        header,
		Body:          io.NopCloser(bytes.NewReader(b)),
		StatusCode:    http.StatusOK,
		Status:        "200 OK",
		Proto:         "HTTP/1.1",
		ContentLength: int64(len(b)),
	}
}

// cacheable reports whether a response body may be stored. OAI errors other
// than noRecordsMatch are not stored, and neither are first pages of open
// ended lists, which lack an until date.
func cacheable(u *url.URL, b []byte) bool {
	q := u.Query()
	if q.Get("verb") == "ListRecords" && q.Get("resumptionToken") == "" && q.Get("until") == "" {
		return false
	}
	root, err := readDocument(string(b))
	if err != nil {
		return false
	}
	if e := oaiError(root); e != nil && e.Code != "noRecordsMatch" {
		return false
	}
	return true
}

// Do answers from cache if possible.
func (c *CachingDoer) Do(req *http.Request) (*http.Response, error) {
	if req.Method != http.MethodGet {
		return c.Doer.Do(req)
	}
	key := cacheKey(req.URL.String())
	if b, err := c.Cache.Get(key); err == nil {
		if Verbose {
			log.Printf("[cache] [hit] %s", req.URL)
		}
		return cachedResponse(req, b, make(http.Header)), nil
	}
	resp, err := c.Doer.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return resp, nil
	}
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if !cacheable(req.URL, b) {
		if Verbose {
			log.Printf("[cache] [skip] %s", req.URL)
		}
		return cachedResponse(req, b, resp.Header.Clone()), nil
	}
	if err := c.Cache.Set(key, b); err != nil {
		return nil, err
	}
	if Verbose {
		log.Printf("[cache] [store] %s", req.URL)
	}
	return cachedResponse(req, b, resp.Header.Clone()), nil
}
