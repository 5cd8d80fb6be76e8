package load

import (
	"io"
	"net/http"
	_ "net/http/pprof"
	"os"
	"strconv"
	"sync"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"github.com/lekhraj-d/catboost"
	"github.com/lekhraj-d/catboost/linereader"
	"github.com/lekhraj-d/catboost/logger"
)

// Main holds the flags of the poolload command.
type Main struct {
	Pools           []string `help:"Paths or URLs of the datasets to load. file, http(s) and s3 schemes are supported."`
	CD              string   `flag:"cd" help:"Path of the column description file. Without one column 0 is Label and the rest are Num."`
	Pairs           string   `help:"Path of the pairs file. Requires a single pool."`
	Format          string   `help:"Registered pool format name. Empty means dsv."`
	Delimiter       string   `help:"Single byte column delimiter."`
	HasHeader       bool     `help:"Treat the first pool line as a header."`
	ClassNames      []string `help:"Class names mapping Label values to class indexes."`
	IgnoredFeatures []string `help:"Feature indexes to skip during parsing."`
	BlockSize       int      `help:"Lines per read block."`
	Concurrency     int      `help:"Number of pools loaded in parallel."`
	DryRun          bool     `help:"Resolve and print the schema, then exit."`
	Verbose         bool     `help:"Enable debug logging."`
	LogPath         string   `help:"Log file to write to. Empty means stderr."`
	Stats           string   `help:"Address for metrics and profiling endpoints. Empty disables them."`

	logOnce sync.Once
	log     logger.Logger
}

// NewMain returns a Main with default flag values.
func NewMain() *Main {
	return &Main{
		Delimiter:   "\t",
		BlockSize:   catboost.DefaultBlockSize,
		Concurrency: 1,
	}
}

// Log returns the command's logger, building it on first use from the
// LogPath and Verbose flags.
func (m *Main) Log() logger.Logger {
	m.logOnce.Do(func() {
		var w io.Writer = os.Stderr
		if m.LogPath != "" {
			fw, err := logger.NewFileWriter(m.LogPath)
			if err != nil {
				logger.NewStandardLogger(os.Stderr).Errorf("opening log file %s: %v, logging to stderr", m.LogPath, err)
			} else {
				w = fw
			}
		}
		if m.Verbose {
			m.log = logger.NewVerboseLogger(w)
		} else {
			m.log = logger.NewStandardLogger(w)
		}
	})
	return m.log
}

// PoolArgs translates the flags into provider args for one pool path.
func (m *Main) PoolArgs(path string) (catboost.DocPoolArgs, error) {
	if len(m.Delimiter) != 1 {
		return catboost.DocPoolArgs{}, errors.Errorf("delimiter must be a single byte, got %q", m.Delimiter)
	}
	ignored := make([]int, len(m.IgnoredFeatures))
	for i, s := range m.IgnoredFeatures {
		idx, err := strconv.Atoi(s)
		if err != nil {
			return catboost.DocPoolArgs{}, errors.Errorf("cannot parse ignored feature index '%s'", s)
		}
		ignored[i] = idx
	}
	return catboost.DocPoolArgs{
		PoolPath:        path,
		PairsPath:       m.Pairs,
		CdPath:          m.CD,
		Format:          linereader.DsvFormat{Delimiter: m.Delimiter[0], HasHeader: m.HasHeader},
		ClassNames:      m.ClassNames,
		IgnoredFeatures: ignored,
		BlockSize:       m.BlockSize,
		Log:             m.Log(),
	}, nil
}

// ResolveSchema opens the first pool just far enough to resolve its
// column roles, without loading data.
func (m *Main) ResolveSchema() (catboost.Schema, error) {
	if len(m.Pools) == 0 {
		return catboost.Schema{}, errors.New("no pool file given")
	}
	args, err := m.PoolArgs(m.Pools[0])
	if err != nil {
		return catboost.Schema{}, err
	}
	provider, err := NewDocDataProvider(m.Format, args)
	if err != nil {
		return catboost.Schema{}, err
	}
	defer provider.Close()
	return provider.Schema(), nil
}

// Run loads every pool named by the flags and logs a one line summary
// of each. Pools load in parallel up to Concurrency.
func (m *Main) Run() error {
	log := m.Log()
	if len(m.Pools) == 0 {
		return errors.New("no pool file given")
	}
	if m.Pairs != "" && len(m.Pools) > 1 {
		return errors.New("a pairs file can only be combined with a single pool")
	}
	if m.Concurrency < 1 {
		return errors.Errorf("concurrency %d is less than one", m.Concurrency)
	}
	if m.Stats != "" {
		m.serveStats()
	}

	workQueue := make(chan struct{}, m.Concurrency)
	var eg errgroup.Group
	for _, loopPath := range m.Pools {
		path := loopPath
		workQueue <- struct{}{}
		eg.Go(func() error {
			defer func() {
				<-workQueue
			}()
			args, err := m.PoolArgs(path)
			if err != nil {
				return err
			}
			p, err := LoadPool(m.Format, args)
			if err != nil {
				return errors.Wrapf(err, "loading %s", path)
			}
			log.Printf("%s: %s checksum=%s", path, p.Summarize(), p.CheckSum())
			return nil
		})
	}
	return eg.Wait()
}

// serveStats exposes prometheus metrics and the pprof endpoints on
// the Stats address.
func (m *Main) serveStats() {
	log := m.Log()
	http.Handle("/metrics", promhttp.Handler())
	go func() {
		log.Printf("serving stats on http://%s/metrics", m.Stats)
		if err := http.ListenAndServe(m.Stats, nil); err != nil {
			log.Errorf("stats endpoint: %v", err)
		}
	}()
}
