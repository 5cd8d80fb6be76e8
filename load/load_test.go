package load

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lekhraj-d/catboost"
	"github.com/lekhraj-d/catboost/logger"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing %s: %v", path, err)
	}
}

func testMain(t *testing.T) *Main {
	t.Helper()
	m := NewMain()
	m.logOnce.Do(func() { m.log = logger.NewLogfLogger(t) })
	return m
}

func TestKnownFormats(t *testing.T) {
	if diff := cmp.Diff([]string{"dsv"}, KnownFormats()); diff != "" {
		t.Errorf("formats mismatch (-want +got):\n%s", diff)
	}
}

func TestNewDocDataProviderUnknownFormat(t *testing.T) {
	_, err := NewDocDataProvider("xml", catboost.DocPoolArgs{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown pool format "xml"`)
	assert.Contains(t, err.Error(), "dsv")
}

func TestLoadPool(t *testing.T) {
	dir := t.TempDir()
	poolPath := filepath.Join(dir, "pool.tsv")
	cdPath := filepath.Join(dir, "pool.cd")
	pairsPath := filepath.Join(dir, "pool.pairs")
	writeFile(t, poolPath, "1\tg1\t4\t0.5\tred\n0\tg1\t4\t0.25\tblue\n1\tg2\t2\t0.125\tred\n")
	writeFile(t, cdPath, "0\tLabel\n1\tGroupId\n2\tGroupWeight\n3\tNum\theight\n4\tCateg\tcolor\n")
	writeFile(t, pairsPath, "0\t1\n2\t0\t0.5\n")

	p, err := LoadPool("", catboost.DocPoolArgs{
		PoolPath:  poolPath,
		CdPath:    cdPath,
		PairsPath: pairsPath,
		Log:       logger.NewLogfLogger(t),
	})
	require.NoError(t, err)

	assert.Equal(t, 3, p.Docs.DocCount())
	assert.Equal(t, []float32{1, 0, 1}, p.Docs.Target)
	assert.Equal(t, []float32{4, 4, 2}, p.Docs.Weight,
		"group weights fold into document weights")
	assert.Equal(t, []string{"height", "color"}, p.FeatureID)
	assert.Equal(t, []int{1}, p.CatFeatures)
	assert.True(t, p.Schema.HasGroupWeight)

	gid := catboost.CalcGroupIDFor("g1")
	assert.Equal(t, []catboost.GroupID{gid, gid, catboost.CalcGroupIDFor("g2")}, p.Docs.QueryID)

	token, ok := p.CatFeatureString(catboost.CalcCatFeatureHash("red"))
	require.True(t, ok)
	assert.Equal(t, "red", token)

	wantPairs := []catboost.Pair{
		{WinnerID: 0, LoserID: 1, Weight: 4},
		{WinnerID: 2, LoserID: 0, Weight: 1},
	}
	if diff := cmp.Diff(wantPairs, p.Pairs); diff != "" {
		t.Errorf("pairs mismatch (-want +got):\n%s", diff)
	}

	if p.CheckSum() != p.CheckSum() {
		t.Error("checksum is not stable")
	}
}

func TestLoadPoolDefaultSchema(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pool.tsv")
	writeFile(t, path, "1\t0.5\n0\t0.25\n")

	p, err := LoadPool("dsv", catboost.DocPoolArgs{
		PoolPath: path,
		Log:      logger.NewLogfLogger(t),
	})
	require.NoError(t, err)
	assert.Equal(t, []float32{1, 0}, p.Docs.Target)
	assert.Equal(t, [][]float32{{0.5}, {0.25}}, p.Docs.Factors)
	assert.Equal(t, []string{"0", "1"}, p.Docs.ID)
}

func TestMainRun(t *testing.T) {
	dir := t.TempDir()
	first := filepath.Join(dir, "first.tsv")
	second := filepath.Join(dir, "second.tsv")
	writeFile(t, first, "1\t0.5\n0\t0.25\n")
	writeFile(t, second, "1\t7\n")

	m := testMain(t)
	m.Pools = []string{first, second}
	m.Concurrency = 2
	if err := m.Run(); err != nil {
		t.Fatalf("running: %v", err)
	}
}

func TestMainRunPropagatesError(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "good.tsv")
	bad := filepath.Join(dir, "bad.tsv")
	writeFile(t, good, "1\t0.5\n")
	writeFile(t, bad, "1\tboom\n")

	m := testMain(t)
	m.Pools = []string{good, bad}
	err := m.Run()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "loading "+bad)
}

func TestMainRunFlagValidation(t *testing.T) {
	t.Run("NoPools", func(t *testing.T) {
		m := testMain(t)
		if err := m.Run(); err == nil {
			t.Fatal("expected error without pools")
		}
	})
	t.Run("PairsWithManyPools", func(t *testing.T) {
		m := testMain(t)
		m.Pools = []string{"a", "b"}
		m.Pairs = "p"
		err := m.Run()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "single pool")
	})
	t.Run("BadConcurrency", func(t *testing.T) {
		m := testMain(t)
		m.Pools = []string{"a"}
		m.Concurrency = 0
		if err := m.Run(); err == nil {
			t.Fatal("expected error for zero concurrency")
		}
	})
	t.Run("BadDelimiter", func(t *testing.T) {
		m := testMain(t)
		m.Delimiter = "ab"
		_, err := m.PoolArgs("pool.tsv")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "single byte")
	})
	t.Run("IgnoredFeatures", func(t *testing.T) {
		m := testMain(t)
		m.IgnoredFeatures = []string{"1", "3"}
		args, err := m.PoolArgs("pool.tsv")
		require.NoError(t, err)
		assert.Equal(t, []int{1, 3}, args.IgnoredFeatures)
	})
	t.Run("BadIgnoredFeature", func(t *testing.T) {
		m := testMain(t)
		m.IgnoredFeatures = []string{"x"}
		_, err := m.PoolArgs("pool.tsv")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "ignored feature index")
	})
}

func TestMainResolveSchema(t *testing.T) {
	dir := t.TempDir()
	poolPath := filepath.Join(dir, "pool.tsv")
	cdPath := filepath.Join(dir, "pool.cd")
	writeFile(t, poolPath, "1\tg\t0.5\tred\n")
	writeFile(t, cdPath, "0\tLabel\n1\tGroupId\n2\tNum\n3\tCateg\n")

	m := testMain(t)
	m.Pools = []string{poolPath}
	m.CD = cdPath

	schema, err := m.ResolveSchema()
	require.NoError(t, err)
	assert.Equal(t, 2, schema.FeatureCount)
	assert.True(t, schema.HasGroupIDs)
	wantRoles := []catboost.ColumnRole{
		catboost.RoleLabel, catboost.RoleGroupID, catboost.RoleNum, catboost.RoleCateg,
	}
	roles := make([]catboost.ColumnRole, len(schema.Columns))
	for i, c := range schema.Columns {
		roles[i] = c.Role
	}
	assert.Equal(t, wantRoles, roles)
}
