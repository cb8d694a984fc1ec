package db

import (
	"testing"

	"gajanji-server/src/insights"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestViewCacheInvalidateUser(t *testing.T) {
	c, err := NewViewCache(100)
	require.NoError(t, err)
	defer c.Close()

	monthly := insights.PeriodSelector{Period: insights.PeriodMonthly, Year: "2025", Month: "10"}
	all := insights.PeriodSelector{}

	view := insights.CategoryView{Summary: insights.Summary{IncomeTotal: 10, Net: 10}}
	c.SetCategories("alice", monthly, view, c.Generation("alice"))
	c.SetCategories("alice", all, view, c.Generation("alice"))
	c.SetCategories("bob", monthly, view, c.Generation("bob"))
	c.Wait()

	got, ok := c.GetCategories("alice", monthly)
	require.True(t, ok)
	assert.Equal(t, 10.0, got.Summary.Net)

	c.InvalidateUser("alice")
	c.Wait()

	_, ok = c.GetCategories("alice", monthly)
	assert.False(t, ok)
	_, ok = c.GetCategories("alice", all)
	assert.False(t, ok)
	_, ok = c.GetCategories("bob", monthly)
	assert.True(t, ok)

	c.Clear()
	_, ok = c.GetCategories("bob", monthly)
	assert.False(t, ok)
}

func TestViewCacheDropsViewComputedBeforeInvalidation(t *testing.T) {
	c, err := NewViewCache(100)
	require.NoError(t, err)
	defer c.Close()

	sel := insights.PeriodSelector{}

	// a read misses and starts computing from the rows it sees
	_, ok := c.GetCategories("alice", sel)
	require.False(t, ok)
	gen := c.Generation("alice")
	stale := insights.CategoryView{Summary: insights.Summary{ExpenseTotal: 10}}

	// a write lands before the read stores its view
	c.InvalidateUser("alice")
	c.Wait()

	assert.False(t, c.SetCategories("alice", sel, stale, gen))
	c.Wait()
	_, ok = c.GetCategories("alice", sel)
	assert.False(t, ok, "view computed before the write must not be served")

	fresh := insights.CategoryView{Summary: insights.Summary{ExpenseTotal: 25}}
	assert.True(t, c.SetCategories("alice", sel, fresh, c.Generation("alice")))
	c.Wait()
	got, ok := c.GetCategories("alice", sel)
	require.True(t, ok)
	assert.Equal(t, 25.0, got.Summary.ExpenseTotal)
}

func TestViewCacheClearRejectsInFlightViews(t *testing.T) {
	c, err := NewViewCache(100)
	require.NoError(t, err)
	defer c.Close()

	gen := c.Generation("bob")
	c.Clear()
	assert.False(t, c.SetCategories("bob", insights.PeriodSelector{}, insights.CategoryView{}, gen))
}

func TestCategoryKeyDistinguishesPeriods(t *testing.T) {
	a := categoryKey("u", insights.PeriodSelector{Period: insights.PeriodWeekly, Year: "2025", Week: "1"})
	b := categoryKey("u", insights.PeriodSelector{Period: insights.PeriodWeekly, Year: "2025", Week: "2"})
	assert.NotEqual(t, a, b)
}

func TestMigrationURL(t *testing.T) {
	assert.Equal(t, "pgx5://u:p@host:5432/app?sslmode=disable", migrationURL("postgres://u:p@host:5432/app?sslmode=disable"))
	assert.Equal(t, "pgx5://host/app", migrationURL("postgresql://host/app"))
	assert.Equal(t, "pgx5://host/app", migrationURL("pgx5://host/app"))
}
