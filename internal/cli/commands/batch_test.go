package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/eavexpr/internal/cli/testutil"
	roottestutil "github.com/leapstack-labs/eavexpr/internal/testutil"
	"github.com/leapstack-labs/eavexpr/pkg/eav"
)

const batchFile = `# filters
transactionId = 1

userId in (1, 2)
a in (1, 2
  date >= '2001-08-01'
`

func TestReadBatch(t *testing.T) {
	items, err := readBatch(strings.NewReader(batchFile))
	require.NoError(t, err)

	require.Len(t, items, 4)
	assert.Equal(t, BatchResult{Line: 2, Expression: "transactionId = 1"}, items[0])
	assert.Equal(t, BatchResult{Line: 4, Expression: "userId in (1, 2)"}, items[1])
	assert.Equal(t, BatchResult{Line: 5, Expression: "a in (1, 2"}, items[2])
	assert.Equal(t, BatchResult{Line: 6, Expression: "date >= '2001-08-01'"}, items[3])
}

func TestCompileBatchKeepsOrder(t *testing.T) {
	gen, err := eav.New()
	require.NoError(t, err)

	items := make([]BatchResult, 50)
	for i := range items {
		items[i] = BatchResult{Line: i + 1, Expression: fmt.Sprintf("userId = %d", i)}
	}

	results, err := compileBatch(context.Background(), gen, "q", items, 4)
	require.NoError(t, err)
	require.Len(t, results, len(items))
	for i, res := range results {
		assert.Equal(t, i+1, res.Line)
		assert.Equal(t, fmt.Sprintf("q where name = 'userId' and num_value = %d", i), res.SQL)
		assert.Empty(t, res.Error)
	}
}

func TestCompileBatchCanceled(t *testing.T) {
	gen, err := eav.New()
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = compileBatch(ctx, gen, "q", []BatchResult{{Line: 1, Expression: "a = 1"}}, 1)
	require.ErrorIs(t, err, context.Canceled)
}

func TestBatchCommandJSON(t *testing.T) {
	testutil.UseConfig(t, "output: json\n")
	path := roottestutil.WriteFile(t, t.TempDir(), "filters.txt", batchFile)

	res := testutil.ExecuteCommand(t, NewBatchCommand(), "", path)
	require.Error(t, res.Err)
	assert.Equal(t, "1 of 4 expressions failed", res.Err.Error())

	var got []BatchResult
	require.NoError(t, json.Unmarshal([]byte(res.Out), &got))
	require.Len(t, got, 4)

	assert.Equal(t, "select * from entry_tags where name = 'transactionId' and num_value = 1", got[0].SQL)
	assert.Equal(t, "select * from entry_tags where (name = 'userId' and num_value in (2, 1))", got[1].SQL)
	assert.Equal(t, 5, got[2].Line)
	assert.Empty(t, got[2].SQL)
	assert.Contains(t, got[2].Error, "missing closing ')'")
	assert.Equal(t, "select * from entry_tags where name = 'date' and date_value >= '2001-08-01'", got[3].SQL)
}

func TestBatchCommandText(t *testing.T) {
	testutil.UseConfig(t, "output: text\nprefix: q\n")
	path := roottestutil.WriteFile(t, t.TempDir(), "filters.txt", batchFile)

	res := testutil.ExecuteCommand(t, NewBatchCommand(), "", "--jobs", "2", path)
	require.Error(t, res.Err)

	assert.Equal(t, "q where name = 'transactionId' and num_value = 1\n"+
		"q where (name = 'userId' and num_value in (2, 1))\n"+
		"q where name = 'date' and date_value >= '2001-08-01'\n", res.Out)
	assert.Contains(t, res.ErrOut, "line 5: syntax error at token 6")
}

func TestBatchCommandAllValid(t *testing.T) {
	testutil.UseConfig(t, "output: md\n")
	path := roottestutil.WriteFile(t, t.TempDir(), "filters.txt", "a = 1\nb = 2\n")

	res := testutil.ExecuteCommand(t, NewBatchCommand(), "", path)
	require.NoError(t, res.Err)
	assert.Contains(t, res.Out, "name = 'b' and num_value = 2")
	testutil.AssertNoANSI(t, res.Out)
}

func TestBatchCommandMissingFile(t *testing.T) {
	testutil.UseConfig(t, "output: text\n")

	res := testutil.ExecuteCommand(t, NewBatchCommand(), "", filepath.Join(t.TempDir(), "nope.txt"))
	require.Error(t, res.Err)
	assert.Contains(t, res.Err.Error(), "failed to open batch file")
}

func TestWatchFile(t *testing.T) {
	dir := t.TempDir()
	path := roottestutil.WriteFile(t, dir, "filters.txt", "a = 1\n")
	// A write to a sibling must not trigger a run.
	other := filepath.Join(dir, "other.txt")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	changed := make(chan struct{}, 4)
	done := make(chan error, 1)
	go func() {
		done <- watchFile(ctx, path, func() { changed <- struct{}{} }, func(string, ...any) {})
	}()

	require.Eventually(t, func() bool {
		require.NoError(t, os.WriteFile(other, []byte("x"), 0o600))
		require.NoError(t, os.WriteFile(path, []byte("a = 2\n"), 0o600))
		select {
		case <-changed:
			return true
		default:
			return false
		}
	}, 5*time.Second, 200*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watchFile did not stop after cancel")
	}
}
