package catboost

import (
	"github.com/pkg/errors"
)

// ColumnRole says how one column of a delimited pool file is
// interpreted during ingestion.
type ColumnRole string

const (
	RoleLabel       ColumnRole = "Label"
	RoleNum         ColumnRole = "Num"
	RoleCateg       ColumnRole = "Categ"
	RoleAuxiliary   ColumnRole = "Auxiliary"
	RoleBaseline    ColumnRole = "Baseline"
	RoleWeight      ColumnRole = "Weight"
	RoleGroupWeight ColumnRole = "GroupWeight"
	RoleGroupID     ColumnRole = "GroupId"
	RoleSubgroupID  ColumnRole = "SubgroupId"
	RoleDocID       ColumnRole = "DocId"
	RoleTimestamp   ColumnRole = "Timestamp"
)

// ParseColumnRole resolves a role keyword from a column description
// file, accepting the historical aliases.
func ParseColumnRole(s string) (ColumnRole, error) {
	switch s {
	case "Label", "Target":
		return RoleLabel, nil
	case "Num":
		return RoleNum, nil
	case "Categ":
		return RoleCateg, nil
	case "Auxiliary":
		return RoleAuxiliary, nil
	case "Baseline":
		return RoleBaseline, nil
	case "Weight":
		return RoleWeight, nil
	case "GroupWeight":
		return RoleGroupWeight, nil
	case "GroupId", "QueryId":
		return RoleGroupID, nil
	case "SubgroupId":
		return RoleSubgroupID, nil
	case "DocId", "SampleId":
		return RoleDocID, nil
	case "Timestamp":
		return RoleTimestamp, nil
	}
	return "", errors.Errorf("unknown column role %q", s)
}

// Column describes a single column of the pool file. Name is optional
// and comes from the column description file when given there.
type Column struct {
	Role ColumnRole
	Name string
}

// Schema is the full ordered column description of a pool plus the
// counts and flags derived from it. Build one with NewSchema so the
// derived fields are consistent with Columns.
type Schema struct {
	Columns []Column

	FeatureCount  int
	BaselineCount int
	// CatFeatures holds the feature indexes (not column indexes) of
	// the Categ columns, in order.
	CatFeatures []int

	HasDocIDs      bool
	HasGroupIDs    bool
	HasSubgroupIDs bool
	HasWeights     bool
	HasGroupWeight bool
	HasTimestamps  bool
}

// NewSchema derives a Schema from an ordered column description,
// validating role multiplicity as it goes.
func NewSchema(columns []Column) (Schema, error) {
	s := Schema{Columns: columns}
	counts := make(map[ColumnRole]int)
	for _, col := range columns {
		switch col.Role {
		case RoleNum:
			s.FeatureCount++
		case RoleCateg:
			s.CatFeatures = append(s.CatFeatures, s.FeatureCount)
			s.FeatureCount++
		case RoleBaseline:
			s.BaselineCount++
		case RoleLabel, RoleAuxiliary, RoleWeight, RoleGroupWeight,
			RoleGroupID, RoleSubgroupID, RoleDocID, RoleTimestamp:
		default:
			return Schema{}, errors.Errorf("unknown column role %q", col.Role)
		}
		counts[col.Role]++
	}
	for _, role := range []ColumnRole{
		RoleLabel, RoleWeight, RoleGroupWeight, RoleGroupID,
		RoleSubgroupID, RoleDocID, RoleTimestamp,
	} {
		if counts[role] > 1 {
			return Schema{}, errors.Errorf("too many %s columns", role)
		}
	}
	if counts[RoleWeight] > 0 && counts[RoleGroupWeight] > 0 {
		return Schema{}, errors.New("Pool must have either Weight column or GroupWeight column")
	}
	s.HasDocIDs = counts[RoleDocID] > 0
	s.HasGroupIDs = counts[RoleGroupID] > 0
	s.HasSubgroupIDs = counts[RoleSubgroupID] > 0
	s.HasWeights = counts[RoleWeight] > 0
	s.HasGroupWeight = counts[RoleGroupWeight] > 0
	s.HasTimestamps = counts[RoleTimestamp] > 0
	return s, nil
}

// ColumnCount returns the number of file columns the schema describes.
func (s Schema) ColumnCount() int {
	return len(s.Columns)
}

// FeatureNames resolves a display name for every feature column.
// Names from the column description win as a set: if any column was
// named there, only those names are used. Otherwise names come from
// the header tokens at the feature columns. Returns nil when neither
// source names anything, so callers can skip SetFeatureIDs entirely.
func (s Schema) FeatureNames(header []string) []string {
	anyNamed := false
	for _, c := range s.Columns {
		if c.Name != "" {
			anyNamed = true
			break
		}
	}
	var names []string
	switch {
	case anyNamed:
		for _, c := range s.Columns {
			if c.Role == RoleNum || c.Role == RoleCateg {
				names = append(names, c.Name)
			}
		}
	case len(header) > 0:
		for i, c := range s.Columns {
			if i >= len(header) {
				break
			}
			if c.Role == RoleNum || c.Role == RoleCateg {
				names = append(names, header[i])
			}
		}
	}
	return names
}
