// Package linereader reads delimited text datasets line by line from
// local files, HTTP URLs and S3 objects. It is strictly forward: one
// optional header, then data lines until the stream ends.
package linereader

import (
	"bufio"
	"bytes"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/pkg/errors"
)

// ErrNotFound is returned when the path names a file, URL or object
// that does not exist.
var ErrNotFound = errors.New("file or url does not exist")

// lines can carry thousands of feature columns
const maxLineSize = 64 << 20

// DsvFormat describes the framing of a delimited dataset.
type DsvFormat struct {
	Delimiter byte
	HasHeader bool
}

// DefaultDsvFormat is tab separated with no header.
func DefaultDsvFormat() DsvFormat {
	return DsvFormat{Delimiter: '\t'}
}

// Reader hands out the lines of one dataset in file order.
type Reader interface {
	// Header returns the header line when the format declares one and
	// the dataset is not empty.
	Header() (string, bool)
	// ReadLine returns the next data line. ok is false once the data
	// is exhausted.
	ReadLine() (line string, ok bool, err error)
	Close() error
}

// openers maps a path scheme to a stream opener. Built once at init,
// never mutated.
var openers = map[string]func(path string) (io.ReadCloser, error){
	"":      openFile,
	"file":  openFile,
	"http":  openHTTP,
	"https": openHTTP,
	"s3":    openS3,
}

func pathScheme(path string) string {
	if i := strings.Index(path, "://"); i >= 0 {
		return path[:i]
	}
	return ""
}

func openStream(path string) (io.ReadCloser, error) {
	scheme := pathScheme(path)
	open, ok := openers[scheme]
	if !ok {
		return nil, errors.Errorf("unknown path scheme %q in %s", scheme, path)
	}
	return open(path)
}

// Open opens the dataset at path, consuming the header line up front
// when the format declares one.
func Open(path string, format DsvFormat) (Reader, error) {
	src, err := openStream(path)
	if err != nil {
		return nil, err
	}
	scanner := bufio.NewScanner(src)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	r := &reader{src: src, scanner: scanner}
	if format.HasHeader {
		line, ok, err := r.ReadLine()
		if err != nil {
			src.Close()
			return nil, err
		}
		if ok {
			r.header = line
			r.hasHeader = true
		}
	}
	return r, nil
}

// Exists reports whether path can be opened for reading.
func Exists(path string) bool {
	src, err := openStream(path)
	if err != nil {
		return false
	}
	src.Close()
	return true
}

// CountLines scans the whole dataset and returns the number of data
// lines, excluding the header when the format declares one. It opens
// its own stream, so it can run before, after or alongside Open.
func CountLines(path string, format DsvFormat) (int, error) {
	src, err := openStream(path)
	if err != nil {
		return 0, err
	}
	defer src.Close()

	count := 0
	lastByte := byte('\n')
	empty := true
	buf := make([]byte, 64*1024)
	for {
		n, err := src.Read(buf)
		if n > 0 {
			empty = false
			count += bytes.Count(buf[:n], []byte{'\n'})
			lastByte = buf[n-1]
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return 0, errors.Wrapf(err, "counting lines in %s", path)
		}
	}
	if !empty && lastByte != '\n' {
		count++
	}
	if format.HasHeader && count > 0 {
		count--
	}
	return count, nil
}

type reader struct {
	src       io.ReadCloser
	scanner   *bufio.Scanner
	header    string
	hasHeader bool
}

func (r *reader) Header() (string, bool) {
	return r.header, r.hasHeader
}

func (r *reader) ReadLine() (string, bool, error) {
	if r.scanner.Scan() {
		return r.scanner.Text(), true, nil
	}
	if err := r.scanner.Err(); err != nil {
		return "", false, errors.Wrap(err, "reading line")
	}
	return "", false, nil
}

func (r *reader) Close() error {
	return r.src.Close()
}

func openFile(path string) (io.ReadCloser, error) {
	path = strings.TrimPrefix(path, "file://")
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, errors.Wrapf(err, "opening file %v", path)
	}
	return f, nil
}

func openHTTP(path string) (io.ReadCloser, error) {
	resp, err := http.Get(path)
	if err != nil {
		return nil, errors.Wrapf(err, "getting %s", path)
	}
	if resp.StatusCode == http.StatusNotFound {
		resp.Body.Close()
		return nil, ErrNotFound
	}
	if resp.StatusCode > 299 {
		resp.Body.Close()
		return nil, errors.Errorf("got status %d fetching %s", resp.StatusCode, path)
	}
	return resp.Body, nil
}
