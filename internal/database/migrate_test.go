package database

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitStatements(t *testing.T) {
	script := `-- header comment
CREATE TABLE a (id INT);

  -- another
INSERT INTO a VALUES (1);
;
`
	assert.Equal(t, []string{"CREATE TABLE a (id INT)", "INSERT INTO a VALUES (1)"}, SplitStatements(script))
}

func TestSchema_SeedsLookups(t *testing.T) {
	stmts := SplitStatements(Schema)
	require.NotEmpty(t, stmts)
	for _, stmt := range stmts {
		assert.False(t, strings.HasPrefix(stmt, "--"))
	}
	assert.Contains(t, Schema, "'NC-17'")
	assert.Contains(t, Schema, "'Боевик'")
	assert.Contains(t, Schema, "CREATE TABLE IF NOT EXISTS friendships")
}

func TestPool_Defaults(t *testing.T) {
	p := Pool{}.withDefaults()
	assert.Equal(t, Pool{MaxOpen: 25, MaxIdle: 25, MaxLifetime: 30 * time.Minute}, p)

	p = Pool{MaxOpen: 4, MaxIdle: 10}.withDefaults()
	assert.Equal(t, 4, p.MaxIdle)
}
