package catboost

import (
	"strconv"

	"github.com/pkg/errors"
)

// IsNaNValue reports whether a token is one of the spellings the pool
// format treats as not-a-number.
func IsNaNValue(s string) bool {
	switch s {
	case "nan", "NaN", "NAN", "NA", "Na", "na":
		return true
	}
	return false
}

// TargetConverter turns raw label tokens into numeric targets. With no
// class names it parses floats; with class names it maps each token to
// the index of its exact match.
type TargetConverter struct {
	classNames []string
}

func NewTargetConverter(classNames []string) *TargetConverter {
	return &TargetConverter{classNames: classNames}
}

// ConvertTarget is a pure function of the token: equal tokens always
// produce equal targets.
func (c *TargetConverter) ConvertTarget(word string) (float32, error) {
	if len(c.classNames) == 0 {
		if IsNaNValue(word) {
			return 0, errors.New("NaN not supported for target")
		}
		val, err := strconv.ParseFloat(word, 32)
		if err != nil {
			return 0, errors.Errorf("cannot parse target value '%s' as float", word)
		}
		return float32(val), nil
	}
	for i, name := range c.classNames {
		if name == word {
			return float32(i), nil
		}
	}
	return 0, errors.Errorf("Unknown class name: %s", word)
}
