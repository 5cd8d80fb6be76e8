// Package dsv streams delimited text pools into a PoolBuilder. Cells
// are validated against the column description as they are parsed, and
// the reader runs one block ahead of the parser.
package dsv

import (
	"math"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/lekhraj-d/catboost"
	"github.com/lekhraj-d/catboost/cd"
	"github.com/lekhraj-d/catboost/linereader"
	"github.com/lekhraj-d/catboost/logger"
)

// DataProvider reads one delimited pool file. Construction resolves
// the schema and starts the first background block read; Do then
// drives a builder through the whole file.
type DataProvider struct {
	args  catboost.DocPoolArgs
	delim string
	log   logger.Logger

	reader  linereader.Reader
	proc    *asyncRowProcessor
	convert *catboost.TargetConverter

	schema         catboost.Schema
	featureIgnored []bool
	featureIDs     []string

	calcGroupID    func(string) catboost.GroupID
	calcSubgroupID func(string) catboost.SubgroupID
}

// NewDataProvider opens the pool, resolves its column schema from the
// description file or the defaults, validates the ignored feature set
// and begins reading the first block.
func NewDataProvider(args catboost.DocPoolArgs) (*DataProvider, error) {
	if args.Format.Delimiter == 0 {
		args.Format.Delimiter = '\t'
	}
	if args.BlockSize <= 0 {
		args.BlockSize = catboost.DefaultBlockSize
	}
	p := &DataProvider{
		args:           args,
		delim:          string([]byte{args.Format.Delimiter}),
		log:            args.Log,
		convert:        catboost.NewTargetConverter(args.ClassNames),
		calcGroupID:    args.CalcGroupID,
		calcSubgroupID: args.CalcSubgroupID,
	}
	if p.log == nil {
		p.log = logger.NopLogger
	}
	if p.calcGroupID == nil {
		p.calcGroupID = catboost.CalcGroupIDFor
	}
	if p.calcSubgroupID == nil {
		p.calcSubgroupID = catboost.CalcSubgroupIDFor
	}

	if args.PairsPath != "" && !linereader.Exists(args.PairsPath) {
		return nil, errors.Errorf("pairs file %s does not exist", args.PairsPath)
	}

	reader, err := linereader.Open(args.PoolPath, args.Format)
	if err != nil {
		return nil, errors.Wrapf(err, "opening pool %s", args.PoolPath)
	}
	p.reader = reader
	opened := false
	defer func() {
		if !opened {
			reader.Close()
		}
	}()

	firstLine, ok, err := reader.ReadLine()
	if err != nil {
		return nil, errors.Wrap(err, "reading pool")
	}
	if !ok {
		return nil, errors.New("no data rows in pool")
	}
	columnsCount := strings.Count(firstLine, p.delim) + 1

	var columns []catboost.Column
	if args.CdPath != "" {
		columns, err = cd.ReadCD(args.CdPath, cd.DefaultsNum(columnsCount))
		if err != nil {
			return nil, err
		}
	} else {
		columns = cd.DefaultColumns(columnsCount)
	}
	p.schema, err = catboost.NewSchema(columns)
	if err != nil {
		return nil, err
	}

	p.proc = newAsyncRowProcessor(func() (string, bool, error) {
		return reader.ReadLine()
	}, args.BlockSize)
	p.proc.AddFirstLine(firstLine)

	featureCount := p.schema.FeatureCount
	ignoredCount := 0
	p.featureIgnored = make([]bool, featureCount)
	for _, featureID := range args.IgnoredFeatures {
		if featureID < 0 || featureID >= featureCount {
			return nil, errors.Errorf("Invalid ignored feature id: %d", featureID)
		}
		if !p.featureIgnored[featureID] {
			ignoredCount++
		}
		p.featureIgnored[featureID] = true
	}
	if featureCount-ignoredCount <= 0 {
		return nil, errors.New("All features are requested to be ignored")
	}

	var header []string
	if h, ok := reader.Header(); ok {
		header = strings.Split(h, p.delim)
	}
	p.featureIDs = p.schema.FeatureNames(header)

	p.proc.ReadBlockAsync()
	opened = true
	return p, nil
}

// Schema exposes the resolved column schema.
func (p *DataProvider) Schema() catboost.Schema {
	return p.schema
}

// Close releases the underlying reader. Do closes the provider on its
// own; Close is for abandoning a provider without running it.
func (p *DataProvider) Close() error {
	return p.reader.Close()
}

// Do streams the whole pool into builder: the declared size first,
// then every block in file order, then pairs, then Finish. A row that
// fails validation aborts the ingest with its error.
func (p *DataProvider) Do(builder catboost.PoolBuilder) error {
	defer p.reader.Close()

	docCount, err := linereader.CountLines(p.args.PoolPath, p.args.Format)
	if err != nil {
		return errors.Wrap(err, "counting pool lines")
	}
	p.startBuilder(docCount, 0, builder)

	for {
		n, err := p.proc.NextBlock()
		if err != nil {
			return errors.Wrap(err, "reading pool block")
		}
		if n == 0 {
			break
		}
		if err := p.processBlock(builder); err != nil {
			return err
		}
		processed := p.proc.LinesProcessed()
		if (processed%10000 == 0 && processed < 100000) || processed%100000 == 0 {
			p.log.Debugf("processed %d rows of %s", processed, p.args.PoolPath)
		}
	}

	return p.finalizeBuilder(builder)
}

func (p *DataProvider) startBuilder(docCount, offset int, builder catboost.PoolBuilder) {
	builder.Start(p.schema, docCount, p.schema.CatFeatures)
	if len(p.featureIDs) > 0 {
		builder.SetFeatureIDs(p.featureIDs)
	}
	if !p.schema.HasDocIDs {
		builder.GenerateDocIDs(offset)
	}
}

func (p *DataProvider) finalizeBuilder(builder catboost.PoolBuilder) error {
	if p.args.PairsPath != "" {
		pairs, err := catboost.ReadPairs(p.args.PairsPath, builder.DocCount(), p.log)
		if err != nil {
			return errors.Wrap(err, "reading pairs")
		}
		if p.schema.HasGroupWeight {
			catboost.WeightPairs(builder.Weights(), pairs)
		}
		builder.SetPairs(pairs)
	}
	builder.Finish()
	return nil
}

func (p *DataProvider) processBlock(builder catboost.PoolBuilder) error {
	builder.StartNextBlock(p.proc.ParseBufferSize())
	err := p.proc.ProcessBlock(func(line string, lineIdx int) error {
		return p.parseLine(builder, line, lineIdx)
	})
	if err != nil {
		CounterPoolParseErrors.Inc()
		return err
	}
	CounterPoolRowsParsed.Add(float64(p.proc.ParseBufferSize()))
	CounterPoolBlocksRead.Inc()
	return nil
}

// parseLine walks one row's tokens against the column description,
// routing each cell to the builder. The feature vector is zeroed up
// front so ignored slots stay deterministic.
func (p *DataProvider) parseLine(builder catboost.PoolBuilder, line string, lineIdx int) error {
	featureID := 0
	baselineIdx := 0
	features := make([]float32, p.schema.FeatureCount)

	columns := p.schema.Columns
	tokens := strings.Split(line, p.delim)
	for tokenCount := 0; tokenCount < len(tokens) && tokenCount < len(columns); tokenCount++ {
		token := tokens[tokenCount]
		switch columns[tokenCount].Role {
		case catboost.RoleCateg:
			if !p.featureIgnored[featureID] {
				if catboost.IsNaNValue(token) {
					features[featureID] = builder.GetCatFeatureValue("nan")
				} else {
					features[featureID] = builder.GetCatFeatureValue(token)
				}
			}
			featureID++
		case catboost.RoleNum:
			if !p.featureIgnored[featureID] {
				val, err := parseFloat32(token)
				if err != nil {
					if catboost.IsNaNValue(token) || len(token) == 0 {
						val = float32(math.NaN())
					} else {
						return errors.Errorf("Factor %d (column %d) is declared `Num`, but has value '%s' in row %d that cannot be parsed as float. Try correcting column description file.",
							featureID, tokenCount+1, token, p.rowNumber(lineIdx))
					}
				}
				if val == 0 {
					val = 0 // remove negative zeros
				}
				features[featureID] = val
			}
			featureID++
		case catboost.RoleLabel:
			if len(token) == 0 {
				return errors.New("empty values not supported for Label. Label should be float.")
			}
			target, err := p.convert.ConvertTarget(token)
			if err != nil {
				return errors.Wrapf(err, "row %d", p.rowNumber(lineIdx))
			}
			builder.AddTarget(lineIdx, target)
		case catboost.RoleWeight:
			if len(token) == 0 {
				return errors.New("empty values not supported for weight")
			}
			val, err := parseFloat32(token)
			if err != nil {
				return errors.Errorf("cannot parse Weight value '%s' as float in row %d", token, p.rowNumber(lineIdx))
			}
			builder.AddWeight(lineIdx, val)
		case catboost.RoleAuxiliary:
			// consumed, never stored
		case catboost.RoleGroupID:
			if len(token) == 0 {
				return errors.New("empty values not supported for GroupId")
			}
			builder.AddQueryID(lineIdx, p.calcGroupID(token))
		case catboost.RoleGroupWeight:
			if len(token) == 0 {
				return errors.New("empty values not supported for GroupWeight")
			}
			val, err := parseFloat32(token)
			if err != nil {
				return errors.Errorf("cannot parse GroupWeight value '%s' as float in row %d", token, p.rowNumber(lineIdx))
			}
			builder.AddWeight(lineIdx, val)
		case catboost.RoleSubgroupID:
			if len(token) == 0 {
				return errors.New("empty values not supported for SubgroupId")
			}
			builder.AddSubgroupID(lineIdx, p.calcSubgroupID(token))
		case catboost.RoleBaseline:
			if len(token) == 0 {
				return errors.New("empty values not supported for Baseline")
			}
			val, err := strconv.ParseFloat(token, 64)
			if err != nil {
				return errors.Errorf("cannot parse Baseline value '%s' as float in row %d", token, p.rowNumber(lineIdx))
			}
			builder.AddBaseline(lineIdx, baselineIdx, val)
			baselineIdx++
		case catboost.RoleDocID:
			if len(token) == 0 {
				return errors.New("empty values not supported for DocId")
			}
			builder.AddDocID(lineIdx, token)
		case catboost.RoleTimestamp:
			if len(token) == 0 {
				return errors.New("empty values not supported for Timestamp")
			}
			val, err := strconv.ParseUint(token, 10, 64)
			if err != nil {
				return errors.Errorf("cannot parse Timestamp value '%s' in row %d", token, p.rowNumber(lineIdx))
			}
			builder.AddTimestamp(lineIdx, val)
		default:
			return errors.New("wrong column type")
		}
	}
	builder.AddAllFloatFeatures(lineIdx, features)
	if len(tokens) != len(columns) {
		return errors.Errorf("wrong columns number in pool line %d: expected %d, found %d",
			p.rowNumber(lineIdx), len(columns), len(tokens))
	}
	return nil
}

// rowNumber is the absolute 1-based row number of a line in the
// current block, for error messages.
func (p *DataProvider) rowNumber(lineIdx int) int {
	return p.proc.LinesProcessed() + lineIdx + 1
}

func parseFloat32(s string) (float32, error) {
	val, err := strconv.ParseFloat(s, 32)
	return float32(val), err
}
