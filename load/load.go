// Package load ties the pool format registry and the in-memory pool
// builder together behind a small facade, and carries the flag struct
// for the poolload command.
package load

import (
	"sort"
	"strings"

	"github.com/pkg/errors"

	"github.com/lekhraj-d/catboost"
	"github.com/lekhraj-d/catboost/dsv"
	"github.com/lekhraj-d/catboost/pool"
)

// docDataProviders maps a format name to a provider constructor. The
// empty name aliases the default dsv format.
var docDataProviders = map[string]func(catboost.DocPoolArgs) (catboost.DocDataProvider, error){
	"":    newDsvProvider,
	"dsv": newDsvProvider,
}

func newDsvProvider(args catboost.DocPoolArgs) (catboost.DocDataProvider, error) {
	provider, err := dsv.NewDataProvider(args)
	if err != nil {
		return nil, err
	}
	return provider, nil
}

// KnownFormats lists the registered pool format names.
func KnownFormats() []string {
	names := make([]string, 0, len(docDataProviders))
	for name := range docDataProviders {
		if name == "" {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// NewDocDataProvider constructs the provider registered under format.
func NewDocDataProvider(format string, args catboost.DocPoolArgs) (catboost.DocDataProvider, error) {
	ctor, ok := docDataProviders[format]
	if !ok {
		return nil, errors.Errorf("unknown pool format %q, known formats: %s",
			format, strings.Join(KnownFormats(), ", "))
	}
	return ctor(args)
}

// ReadPool streams the dataset described by args into builder. Pairs
// reading, group weight folding, and Finish happen inside the
// provider.
func ReadPool(format string, args catboost.DocPoolArgs, builder catboost.PoolBuilder) error {
	provider, err := NewDocDataProvider(format, args)
	if err != nil {
		return err
	}
	return provider.Do(builder)
}

// LoadPool reads the dataset into memory and returns it.
func LoadPool(format string, args catboost.DocPoolArgs) (*pool.Pool, error) {
	builder := pool.NewBuilder(args.Log)
	if err := ReadPool(format, args, builder); err != nil {
		return nil, err
	}
	return builder.Pool()
}
