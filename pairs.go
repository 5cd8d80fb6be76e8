package catboost

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/pkg/errors"

	"github.com/lekhraj-d/catboost/linereader"
	"github.com/lekhraj-d/catboost/logger"
)

// Pair is one pairwise preference: the winner document beat the loser
// document, with the given weight (1 unless the file says otherwise).
type Pair struct {
	WinnerID int
	LoserID  int
	Weight   float32
}

// splitPairsLine is the strict tokenizer the pairs format demands: a
// line that is not plain text (bad UTF-8 or a NUL byte) fails instead
// of splitting.
func splitPairsLine(line string) ([]string, error) {
	if !utf8.ValidString(line) {
		return nil, errors.New("line is not valid UTF-8")
	}
	if strings.IndexByte(line, 0) >= 0 {
		return nil, errors.New("line contains a NUL byte")
	}
	return strings.Split(line, "\t"), nil
}

// ReadPairs loads pairwise preferences from a tab separated file: per
// line a winner index, a loser index and an optional weight. Indexes
// refer to document positions in the pool and must be in [0, docCount).
// A line that fails to tokenize ends the file early: whatever was
// collected before it is returned with no error.
func ReadPairs(path string, docCount int, log logger.Logger) ([]Pair, error) {
	if log == nil {
		log = logger.NopLogger
	}
	reader, err := linereader.Open(path, linereader.DsvFormat{Delimiter: '\t'})
	if err != nil {
		return nil, errors.Wrapf(err, "opening pairs file %s", path)
	}
	defer reader.Close()

	var pairs []Pair
	for {
		line, ok, err := reader.ReadLine()
		if err != nil {
			return nil, errors.Wrap(err, "reading pairs file")
		}
		if !ok {
			break
		}
		if line == "" {
			continue
		}
		tokens, err := splitPairsLine(line)
		if err != nil {
			log.Debugf("Got error %v while parsing pairs line %s", err, line)
			break
		}
		if len(tokens) != 2 && len(tokens) != 3 {
			return nil, errors.Errorf("Each line should have two or three columns. Invalid line number %s", line)
		}
		winnerID, err := strconv.Atoi(tokens[0])
		if err != nil {
			return nil, errors.Errorf("cannot parse winner index '%s'", tokens[0])
		}
		loserID, err := strconv.Atoi(tokens[1])
		if err != nil {
			return nil, errors.Errorf("cannot parse loser index '%s'", tokens[1])
		}
		weight := float32(1)
		if len(tokens) == 3 {
			w, err := strconv.ParseFloat(tokens[2], 32)
			if err != nil {
				return nil, errors.Errorf("cannot parse pair weight '%s'", tokens[2])
			}
			weight = float32(w)
		}
		if winnerID < 0 || winnerID >= docCount {
			return nil, errors.Errorf("Invalid winner index %d", winnerID)
		}
		if loserID < 0 || loserID >= docCount {
			return nil, errors.Errorf("Invalid loser index %d", loserID)
		}
		pairs = append(pairs, Pair{WinnerID: winnerID, LoserID: loserID, Weight: weight})
	}
	return pairs, nil
}

// WeightPairs folds group weights into the pair weights: each pair is
// scaled by the weight of its winner's document.
func WeightPairs(groupWeight []float32, pairs []Pair) {
	for i := range pairs {
		pairs[i].Weight *= groupWeight[pairs[i].WinnerID]
	}
}
