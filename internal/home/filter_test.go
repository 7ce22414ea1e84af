package home_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/surplusmkt/surplus/internal/home"
	"github.com/surplusmkt/surplus/internal/model"
)

func fixtures() []*model.Item {
	chairs := &model.Item{UserID: "alice", Name: "Chairs", Location: "USA, California, San Francisco"}
	chairs.ID = "1"
	tables := &model.Item{UserID: "bob", Name: "Tables", Location: "USA, Oregon, Portland"}
	tables.ID = "2"
	chalk := &model.Item{UserID: "alice", Name: "chalkboards", Location: "France, Paris"}
	chalk.ID = "3"

	return []*model.Item{chairs, tables, chalk}
}

func TestFilterEmptyQueriesAreIdentity(t *testing.T) {
	items := fixtures()
	assert.Equal(t, items, home.Filter(items, "", "", false, "alice"))
}

func TestFilterByNameIsCaseInsensitive(t *testing.T) {
	items := fixtures()

	filtered := home.Filter(items, "CHA", "", false, "")
	assert.Len(t, filtered, 2)
	assert.Equal(t, "Chairs", filtered[0].Name)
	assert.Equal(t, "chalkboards", filtered[1].Name)
}

func TestFilterByLocationOnlyNarrows(t *testing.T) {
	items := fixtures()

	unscoped := home.Filter(items, "cha", "", false, "")
	narrowed := home.Filter(items, "cha", "usa", false, "")

	assert.Len(t, narrowed, 1)
	for _, item := range narrowed {
		assert.Contains(t, unscoped, item)
	}
}

func TestFilterScopeToSelf(t *testing.T) {
	items := fixtures()

	mine := home.Filter(items, "", "", true, "alice")
	assert.Len(t, mine, 2)
	for _, item := range mine {
		assert.Equal(t, "alice", item.UserID)
	}

	all := home.Filter(items, "", "", false, "alice")
	assert.Len(t, all, 3)
}

func TestFilterNoMatch(t *testing.T) {
	filtered := home.Filter(fixtures(), "pianos", "", false, "")
	assert.Empty(t, filtered)
}

func TestFilterDoesNotMutateSnapshot(t *testing.T) {
	items := fixtures()
	home.Filter(items, "tab", "portland", true, "bob")

	assert.Len(t, items, 3)
	assert.Equal(t, "Chairs", items[0].Name)
}
