package commands

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/eavexpr/internal/cli/testutil"
	roottestutil "github.com/leapstack-labs/eavexpr/internal/testutil"
)

const seedYAML = `
entries:
  - id: tx-1
    tags:
      transactionId: 1
      date: 2001-08-01
      transactionRef: '123-sdf'
  - id: tx-2
    tags:
      transactionId: 2
      date: 2001-07-15
      transactionRef: abc
`

func storeConfig(t *testing.T, out string) string {
	t.Helper()
	dsn := testutil.TempDSN(t)
	testutil.UseConfig(t, fmt.Sprintf(`
output: %s
prefix: select entry_id from entry_tags
database:
  driver: sqlite
  dsn: %q
`, out, dsn))
	return dsn
}

func seedStore(t *testing.T) {
	t.Helper()
	path := roottestutil.WriteFile(t, t.TempDir(), "entries.yaml", seedYAML)
	res := testutil.ExecuteCommand(t, NewSeedCommand(), "", path)
	require.NoError(t, res.Err)
}

func queryIDs(t *testing.T, out string) []string {
	t.Helper()
	var rows []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &rows))
	ids := make([]string, 0, len(rows))
	for _, row := range rows {
		id, ok := row["entry_id"].(string)
		require.True(t, ok, "entry_id should be a string, got %T", row["entry_id"])
		ids = append(ids, id)
	}
	return ids
}

func TestSeedCommand(t *testing.T) {
	storeConfig(t, "json")
	path := roottestutil.WriteFile(t, t.TempDir(), "entries.yaml", seedYAML)

	res := testutil.ExecuteCommand(t, NewSeedCommand(), "", path)
	require.NoError(t, res.Err)

	var got SeedOutput
	require.NoError(t, json.Unmarshal([]byte(res.Out), &got))
	assert.Equal(t, path, got.File)
	assert.Equal(t, 6, got.Tags)
	assert.Equal(t, int64(1), got.Version)
}

func TestSeedCommandText(t *testing.T) {
	dsn := storeConfig(t, "text")
	path := roottestutil.WriteFile(t, t.TempDir(), "entries.yaml", seedYAML)

	res := testutil.ExecuteCommand(t, NewSeedCommand(), "", path)
	require.NoError(t, res.Err)
	assert.Contains(t, res.Out, "✓ Loaded 6 tags from "+path)
	assert.Contains(t, res.Out, dsn)
}

func TestSeedCommandErrors(t *testing.T) {
	storeConfig(t, "text")

	res := testutil.ExecuteCommand(t, NewSeedCommand(), "", "does-not-exist.yaml")
	require.Error(t, res.Err)
	assert.Contains(t, res.Err.Error(), "failed to open seed file")

	bad := roottestutil.WriteFile(t, t.TempDir(), "bad.yaml", "entries:\n  - tags: [1, 2]\n")
	res = testutil.ExecuteCommand(t, NewSeedCommand(), "", bad)
	require.Error(t, res.Err)
	assert.Contains(t, res.Err.Error(), "tags must be a mapping")

	res = testutil.ExecuteCommand(t, NewSeedCommand(), "")
	require.Error(t, res.Err, "seed requires a file argument")
}

func TestQueryCommand(t *testing.T) {
	storeConfig(t, "json")
	seedStore(t)

	tests := []struct {
		name string
		expr string
		want []string
	}{
		{"number", "transactionId = 1", []string{"tx-1"}},
		{"in list", "transactionId in (1, 2)", []string{"tx-1", "tx-2"}},
		{"date", "date >= '2001-08-01'", []string{"tx-1"}},
		{"string", "transactionRef like 'ab%'", []string{"tx-2"}},
		{"no match", "transactionId = 9", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := testutil.ExecuteCommand(t, NewQueryCommand(), "", tt.expr)
			require.NoError(t, res.Err)
			assert.ElementsMatch(t, tt.want, queryIDs(t, res.Out))
		})
	}
}

func TestQueryCommandShowSQL(t *testing.T) {
	storeConfig(t, "text")
	seedStore(t)

	res := testutil.ExecuteCommand(t, NewQueryCommand(), "", "--show-sql", "transactionId = 2")
	require.NoError(t, res.Err)
	assert.Contains(t, res.ErrOut, "select entry_id from entry_tags where name = 'transactionId' and num_value = 2")
	assert.Contains(t, res.Out, "tx-2")
	assert.Contains(t, res.Out, "(1 rows)")
}

func TestQueryCommandEmptyStore(t *testing.T) {
	storeConfig(t, "text")

	res := testutil.ExecuteCommand(t, NewQueryCommand(), "", "userId = 1")
	require.NoError(t, res.Err)
	assert.Equal(t, "(0 rows)\n", res.Out)
}

func TestQueryCommandBadExpression(t *testing.T) {
	storeConfig(t, "text")

	res := testutil.ExecuteCommand(t, NewQueryCommand(), "", "userId =")
	require.Error(t, res.Err)
	assert.Contains(t, res.ErrOut, "^ missing operand/operator")
}
