package commands

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/eavexpr/internal/cli/config"
	"github.com/leapstack-labs/eavexpr/internal/cli/output"
	"github.com/leapstack-labs/eavexpr/internal/cli/testutil"
	"github.com/leapstack-labs/eavexpr/internal/store"
	roottestutil "github.com/leapstack-labs/eavexpr/internal/testutil"
	"github.com/leapstack-labs/eavexpr/pkg/eav"
)

func newTestSession(t *testing.T, cfg *config.Config) (*replSession, *testutil.TestRenderer) {
	t.Helper()
	gen, err := eav.New(eav.WithDateMask(cfg.DateMask))
	require.NoError(t, err)

	tr := testutil.NewTestRenderer(output.ModeText, false)
	session := newREPLSession(context.Background(), &CommandContext{
		Cfg:       cfg,
		Logger:    roottestutil.NewTestLogger(t),
		Generator: gen,
		Renderer:  tr.Renderer,
	})
	t.Cleanup(session.Close)
	return session, tr
}

func TestREPLEval(t *testing.T) {
	tests := []struct {
		name    string
		line    string
		wantOut string
		wantErr string
	}{
		{
			name:    "bare expression renders sql",
			line:    "userId = 1",
			wantOut: "select * from entry_tags where name = 'userId' and num_value = 1\n",
		},
		{
			name:    "sql command",
			line:    ".sql  userId <> 2 ",
			wantOut: "select * from entry_tags where name = 'userId' and num_value != 2\n",
		},
		{
			name:    "tokens",
			line:    ".tokens a.b",
			wantOut: "(3 rows)",
		},
		{
			name:    "tree",
			line:    ".tree a = 1",
			wantOut: "<query>",
		},
		{
			name:    "json tree",
			line:    ".json a = 1",
			wantOut: `"op": "eq"`,
		},
		{
			name:    "lint",
			line:    ".lint userId = null",
			wantOut: "warning EX01",
		},
		{
			name:    "lint clean",
			line:    ".lint userId = 1",
			wantOut: "No lint issues found",
		},
		{
			name:    "leading decimal point is an expression",
			line:    ".5 = x",
			wantOut: "select * from entry_tags where name = '.5' and str_value = x\n",
		},
		{
			name:    "help",
			line:    ".help",
			wantOut: ".tokens <expression>",
		},
		{
			name:    "blank line",
			line:    "   ",
			wantOut: "",
		},
		{
			name:    "missing argument",
			line:    ".tree",
			wantErr: "Usage: .tree <expression>",
		},
		{
			name:    "unknown command",
			line:    ".tables",
			wantErr: "Unknown command: .tables",
		},
		{
			name:    "syntax error",
			line:    "a b",
			wantErr: "  ^ bad operator: 'b'",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			session, tr := newTestSession(t, config.Default())

			quit := session.Eval(tt.line)
			assert.False(t, quit)

			if tt.wantOut == "" {
				assert.Empty(t, tr.Output())
			} else {
				assert.Contains(t, tr.Output(), tt.wantOut)
			}
			if tt.wantErr == "" {
				assert.Empty(t, tr.ErrorOutput())
			} else {
				assert.Contains(t, tr.ErrorOutput(), tt.wantErr)
			}
		})
	}
}

func TestREPLQuit(t *testing.T) {
	session, _ := newTestSession(t, config.Default())
	assert.True(t, session.Eval(".quit"))
	assert.True(t, session.Eval(".EXIT"))
}

func TestREPLPrefix(t *testing.T) {
	session, tr := newTestSession(t, config.Default())

	session.Eval(".prefix select entry_id from entry_tags")
	session.Eval("a = 1")

	assert.Equal(t, "select entry_id from entry_tags\n"+
		"select entry_id from entry_tags where name = 'a' and num_value = 1\n", tr.Output())
}

func TestREPLRun(t *testing.T) {
	cfg := config.Default()
	cfg.Prefix = "select entry_id from entry_tags"
	cfg.Database.DSN = testutil.TempDSN(t)

	session, tr := newTestSession(t, cfg)

	session.Eval(".run transactionId = 1")
	require.Empty(t, tr.ErrorOutput())
	assert.Equal(t, "(0 rows)\n", tr.Output())
	require.NotNil(t, session.store)

	err := session.store.PutTag(context.Background(), store.Tag{
		EntryID: "tx-1",
		Name:    "transactionId",
		Column:  eav.NumberColumn,
		Value:   "1",
	})
	require.NoError(t, err)

	tr.Out.Reset()
	session.Eval(".run transactionId = 1")
	assert.Contains(t, tr.Output(), "tx-1")
	assert.Contains(t, tr.Output(), "(1 rows)")
}
