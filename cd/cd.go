// Package cd parses column description files: one line per described
// column, tab separated, carrying the column index, the column role
// and an optional name. Columns the file leaves out get a default
// role, normally Num.
package cd

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/lekhraj-d/catboost"
	"github.com/lekhraj-d/catboost/linereader"
)

// Defaults controls what ReadCD assumes about columns the description
// file does not mention.
type Defaults struct {
	Role        catboost.ColumnRole
	ColumnCount int
}

// DefaultsNum treats every undescribed column as a numeric feature.
func DefaultsNum(columnCount int) Defaults {
	return Defaults{Role: catboost.RoleNum, ColumnCount: columnCount}
}

// ReadCD loads a column description from any path linereader can
// open. Empty lines are skipped; anything else malformed is a hard
// error, including indexes outside the pool's column range and
// indexes described twice.
func ReadCD(path string, defaults Defaults) ([]catboost.Column, error) {
	reader, err := linereader.Open(path, linereader.DsvFormat{Delimiter: '\t'})
	if err != nil {
		return nil, errors.Wrapf(err, "opening column description %s", path)
	}
	defer reader.Close()

	columns := make([]catboost.Column, defaults.ColumnCount)
	for i := range columns {
		columns[i].Role = defaults.Role
	}
	seen := make(map[int]bool)
	for lineNum := 1; ; lineNum++ {
		line, ok, err := reader.ReadLine()
		if err != nil {
			return nil, errors.Wrap(err, "reading column description")
		}
		if !ok {
			break
		}
		if line == "" {
			continue
		}
		tokens := strings.Split(line, "\t")
		if len(tokens) < 2 || len(tokens) > 3 {
			return nil, errors.Errorf("column description line %d: expected two or three columns, found %d", lineNum, len(tokens))
		}
		index, err := strconv.Atoi(tokens[0])
		if err != nil {
			return nil, errors.Errorf("column description line %d: cannot parse column index '%s'", lineNum, tokens[0])
		}
		if index < 0 || index >= defaults.ColumnCount {
			return nil, errors.Errorf("column description line %d: column index %d out of range, pool has %d columns", lineNum, index, defaults.ColumnCount)
		}
		if seen[index] {
			return nil, errors.Errorf("column description line %d: duplicate column index %d", lineNum, index)
		}
		seen[index] = true
		role, err := catboost.ParseColumnRole(tokens[1])
		if err != nil {
			return nil, errors.Wrapf(err, "column description line %d", lineNum)
		}
		columns[index].Role = role
		if len(tokens) == 3 {
			columns[index].Name = tokens[2]
		}
	}
	return columns, nil
}

// DefaultColumns is the description used when no file is given: the
// first column is the label, every other column a numeric feature.
func DefaultColumns(columnCount int) []catboost.Column {
	columns := make([]catboost.Column, columnCount)
	for i := range columns {
		columns[i].Role = catboost.RoleNum
	}
	if columnCount > 0 {
		columns[0].Role = catboost.RoleLabel
	}
	return columns
}
