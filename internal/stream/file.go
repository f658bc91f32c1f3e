package stream

import "os"

// fileStream is the local-file InputStream variant. It is ready the
// instant it is opened; Buffer is a no-op.
type fileStream struct {
	f    *os.File
	size int64
}

// OpenFile opens a local file as an InputStream. Readiness is immediate,
// matching spec.md's "essentially immediately for files".
func OpenFile(path string) (InputStream, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	info, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	return &fileStream{f: f, size: info.Size()}, nil
}

func (s *fileStream) Ready() bool    { return true }
func (s *fileStream) Seekable() bool { return true }
func (s *fileStream) MIME() string   { return "" }

func (s *fileStream) Size() (int64, bool) { return s.size, true }

func (s *fileStream) Buffer() (int, error) { return 0, nil }

func (s *fileStream) Read(p []byte) (int, error) { return s.f.Read(p) }

func (s *fileStream) Seek(offset int64) error {
	_, err := s.f.Seek(offset, 0)
	return err
}

func (s *fileStream) Close() error { return s.f.Close() }
