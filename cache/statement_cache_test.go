package cache

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatementCacheGetOrBuild(t *testing.T) {
	c := NewStatementCache(2)
	builds := 0
	build := func() (string, error) {
		builds++
		return `SELECT AVG("ColumnInt") FROM "CompleteTable"`, nil
	}

	text, err := c.GetOrBuild(1, build)
	require.NoError(t, err)
	again, err := c.GetOrBuild(1, build)
	require.NoError(t, err)
	assert.Equal(t, text, again)
	assert.Equal(t, 1, builds)

	_, err = c.GetOrBuild(2, func() (string, error) { return "", errors.New("bad") })
	assert.Error(t, err)
	_, ok := c.Get(2)
	assert.False(t, ok)
}

func TestStatementCacheEvictsAndFlushes(t *testing.T) {
	c := NewStatementCache(2)
	c.Set(1, "a")
	c.Set(2, "b")
	c.Set(3, "c")
	assert.Equal(t, 2, c.Len())
	_, ok := c.Get(1)
	assert.False(t, ok, "least recently used entry is evicted")

	c.SetTemplate(4, Template{SQL: "SELECT 1 WHERE x = $1", Names: []string{"x"}})
	assert.Equal(t, 1, c.Templates())

	c.Flush()
	assert.Equal(t, 0, c.Len())
	assert.Equal(t, 0, c.Templates())
}

func TestStatementCacheTemplates(t *testing.T) {
	c := NewStatementCache(4)
	_, ok := c.Template(1)
	assert.False(t, ok)

	want := Template{SQL: `DELETE FROM "t" WHERE "id" = $1`, Names: []string{"id"}}
	c.SetTemplate(1, want)
	got, ok := c.Template(1)
	require.True(t, ok)
	assert.Equal(t, want, got)
	assert.Zero(t, c.Len(), "templates do not count as heads")
}
