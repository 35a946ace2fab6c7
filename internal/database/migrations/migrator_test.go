package migrations

import (
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitStatements(t *testing.T) {
	content := `-- leading comment
CREATE INDEX a ON t (x);

CREATE INDEX b
  ON t (y);
-- trailing comment
`
	assert.Equal(t, []string{
		"CREATE INDEX a ON t (x)",
		"CREATE INDEX b\n  ON t (y)",
	}, splitStatements(content))
}

func TestLoadSQL_RegistersByFileName(t *testing.T) {
	fsys := fstest.MapFS{
		"m/9000_test_only.sql": {Data: []byte("SELECT 1;")},
		"m/readme.txt":         {Data: []byte("ignored")},
	}

	require.NoError(t, loadSQL(fsys, "m"))

	mu.Lock()
	_, ok := migrations["9000_test_only"]
	_, txt := migrations["readme"]
	delete(migrations, "9000_test_only")
	mu.Unlock()

	assert.True(t, ok)
	assert.False(t, txt)
}

func TestEmbeddedMigrationsLoad(t *testing.T) {
	require.NoError(t, LoadSQLMigrations())

	mu.Lock()
	defer mu.Unlock()
	assert.Contains(t, migrations, "0001_one_open_training")
	assert.Contains(t, migrations, "0002_trainings_history")
}
