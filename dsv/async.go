package dsv

import (
	"github.com/pkg/errors"
)

// asyncRowProcessor keeps the pool reader one block ahead of the
// parser. Two line buffers alternate roles: the parse buffer is walked
// on the calling goroutine, a single background goroutine fills the
// read buffer, and NextBlock swaps them once the fill lands. At most
// one fill is ever in flight, so lines stay in file order and memory
// stays bounded at two blocks.
type asyncRowProcessor struct {
	read      func() (line string, ok bool, err error)
	blockSize int

	parseBuf []string
	readBuf  []string

	readDone chan error
	pending  bool

	linesProcessed int
}

func newAsyncRowProcessor(read func() (string, bool, error), blockSize int) *asyncRowProcessor {
	return &asyncRowProcessor{
		read:      read,
		blockSize: blockSize,
		parseBuf:  make([]string, 0, blockSize),
		readBuf:   make([]string, 0, blockSize),
		readDone:  make(chan error, 1),
	}
}

// AddFirstLine seeds the read buffer with a line that was consumed
// before the first fill was issued, so no row is lost or reordered.
func (p *asyncRowProcessor) AddFirstLine(line string) {
	p.readBuf = append(p.readBuf, line)
}

// ReadBlockAsync starts filling the read buffer up to the block size
// on a background goroutine. A second call before NextBlock consumes
// the fill is a no-op.
func (p *asyncRowProcessor) ReadBlockAsync() {
	if p.pending {
		return
	}
	p.pending = true
	go func() {
		var err error
		for len(p.readBuf) < p.blockSize {
			line, ok, rerr := p.read()
			if rerr != nil {
				err = rerr
				break
			}
			if !ok {
				break
			}
			p.readBuf = append(p.readBuf, line)
		}
		p.readDone <- err
	}()
}

// NextBlock waits for the pending fill and swaps the buffers. It
// returns the size of the block now ready to parse; 0 means the data
// is exhausted.
func (p *asyncRowProcessor) NextBlock() (int, error) {
	if !p.pending {
		return 0, errors.New("no block read in flight")
	}
	err := <-p.readDone
	p.pending = false
	if err != nil {
		return 0, err
	}
	p.parseBuf, p.readBuf = p.readBuf, p.parseBuf[:0]
	return len(p.parseBuf), nil
}

// ProcessBlock runs fn over every line of the current parse block, in
// file order, on the calling goroutine, then issues the fill for the
// following block so the read runs while the caller finishes up with
// this one.
func (p *asyncRowProcessor) ProcessBlock(fn func(line string, lineIdx int) error) error {
	for i, line := range p.parseBuf {
		if err := fn(line, i); err != nil {
			return err
		}
	}
	p.ReadBlockAsync()
	p.linesProcessed += len(p.parseBuf)
	return nil
}

// ParseBufferSize is the number of lines in the block being parsed.
func (p *asyncRowProcessor) ParseBufferSize() int {
	return len(p.parseBuf)
}

// LinesProcessed counts the lines of fully processed blocks. The
// absolute row number of line lineIdx of the current block is
// LinesProcessed() + lineIdx + 1.
func (p *asyncRowProcessor) LinesProcessed() int {
	return p.linesProcessed
}
