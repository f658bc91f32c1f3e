package stream

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/go-retryablehttp"
	"golang.org/x/time/rate"
)

// urlStream is the URL InputStream variant. Readiness and body bytes
// both arrive asynchronously through a background fetch goroutine;
// Buffer is the non-blocking, rate-paced poll the readiness loop drives.
type urlStream struct {
	id     uuid.UUID
	url    string
	client *retryablehttp.Client
	pacer  *rate.Limiter
	debug  bool

	cancel context.CancelFunc

	mu        sync.Mutex
	buf       []byte
	position  int64
	lastSeen  int
	totalSize int64
	mime      string
	seekable  bool
	ready     bool
	done      bool
	err       error
}

// OpenURL opens a URL as an InputStream. The body fetch runs in the
// background; Ready only flips once the response headers are parsed
// (the stream's transport-level metadata), per spec.md §3's definition
// of readiness.
func OpenURL(ctx context.Context, url string, client *retryablehttp.Client, pacer *rate.Limiter, debug bool) (InputStream, error) {
	fetchCtx, cancel := context.WithCancel(ctx)
	s := &urlStream{
		id:     uuid.New(),
		url:    url,
		client: client,
		pacer:  pacer,
		cancel: cancel,
		debug:  debug,
	}
	go s.fetch(fetchCtx)
	return s, nil
}

func (s *urlStream) debugLog(format string, args ...interface{}) {
	if !s.debug {
		return
	}
	log.Printf("[STREAM %s] "+format, append([]interface{}{s.id}, args...)...)
}

func (s *urlStream) fetch(ctx context.Context) {
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		s.fail(fmt.Errorf("build request: %w", err))
		return
	}
	req.Header.Set("User-Agent", "phonond/1.0")
	req.Header.Set("Accept", "audio/*")
	req.Header.Set("Accept-Encoding", "identity")
	req.Header.Set("Range", "bytes=0-")

	resp, err := s.client.Do(req)
	if err != nil {
		s.fail(fmt.Errorf("do request: %w", err))
		return
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusPartialContent {
		s.fail(fmt.Errorf("http %d: %s", resp.StatusCode, resp.Status))
		return
	}

	s.mu.Lock()
	s.mime = resp.Header.Get("Content-Type")
	if cl := resp.Header.Get("Content-Length"); cl != "" {
		if v, perr := strconv.ParseInt(cl, 10, 64); perr == nil {
			s.totalSize = v
		}
	}
	s.seekable = resp.StatusCode == http.StatusPartialContent || resp.Header.Get("Accept-Ranges") == "bytes"
	s.ready = true
	s.mu.Unlock()

	s.debugLog("ready mime=%q size=%d seekable=%v", s.mime, s.totalSize, s.seekable)

	chunk := make([]byte, 64*1024)
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		n, rerr := resp.Body.Read(chunk)
		if n > 0 {
			s.mu.Lock()
			s.buf = append(s.buf, chunk[:n]...)
			s.mu.Unlock()
		}
		if rerr != nil {
			s.mu.Lock()
			s.done = true
			if rerr != io.EOF {
				s.err = rerr
			}
			s.mu.Unlock()
			s.debugLog("fetch ended: %v", rerr)
			return
		}
	}
}

func (s *urlStream) fail(err error) {
	s.mu.Lock()
	s.err = err
	s.done = true
	s.mu.Unlock()
	s.debugLog("fetch failed: %v", err)
}

func (s *urlStream) Ready() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ready
}

func (s *urlStream) Seekable() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.seekable
}

func (s *urlStream) MIME() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mime
}

func (s *urlStream) Size() (int64, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.totalSize, s.totalSize > 0
}

// Buffer performs one rate-paced, non-blocking-ish poll of the fetch
// goroutine's progress. The pacer bounds how often it actually touches
// the mutex so a tight readiness loop doesn't spin; it never blocks
// longer than the pacer's interval, keeping a pending STOP responsive.
func (s *urlStream) Buffer() (int, error) {
	if s.pacer != nil {
		_ = s.pacer.Wait(context.Background())
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return 0, s.err
	}
	n := len(s.buf) - s.lastSeen
	s.lastSeen = len(s.buf)
	return n, nil
}

func (s *urlStream) Read(p []byte) (int, error) {
	for {
		s.mu.Lock()
		avail := int64(len(s.buf)) - s.position
		if avail > 0 {
			n := copy(p, s.buf[s.position:])
			s.position += int64(n)
			s.mu.Unlock()
			return n, nil
		}
		if s.done {
			err := s.err
			s.mu.Unlock()
			if err != nil {
				return 0, err
			}
			return 0, io.EOF
		}
		s.mu.Unlock()
		time.Sleep(2 * time.Millisecond)
	}
}

func (s *urlStream) Seek(offset int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.seekable {
		return ErrNotSeekable
	}
	if offset < 0 || offset > int64(len(s.buf)) {
		return ErrNotSeekable
	}
	s.position = offset
	return nil
}

func (s *urlStream) Close() error {
	s.cancel()
	s.mu.Lock()
	s.done = true
	s.mu.Unlock()
	s.debugLog("closed")
	return nil
}
