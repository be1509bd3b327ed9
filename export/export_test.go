package export

import (
	"context"
	"os"
	"path"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/afs"
	"github.com/viant/idregistry/model"
)

func newTestWrapper(t *testing.T) *model.Wrapper {
	t.Helper()
	w, err := model.FromSnapshot(&model.Snapshot{Databases: []model.DatabaseRecord{
		{Name: "Items", Code: "01", Registries: []model.RegistryRecord{
			{Label: "Sword", Category: "Weapons", Code: "00a1"},
			{Label: "Apple", Code: "0002"},
		}},
		{Name: "Spells", Code: "a0", Registries: []model.RegistryRecord{
			{Label: "Fire", Code: "0fff"},
		}},
		{Name: "Empty", Code: "ff"},
	}})
	require.NoError(t, err)
	return w
}

func TestLine(t *testing.T) {
	var testCases = []struct {
		description string
		actual      string
		expect      string
	}{
		{description: "elements", actual: Line("a", "b", "c"), expect: "a;b;c;\n"},
		{description: "empty element", actual: Line("a", "", "c"), expect: "a;;c;\n"},
		{description: "header", actual: Header, expect: "Identifier;Label;GUID;Database;Database GUID;\n"},
		{description: "extend", actual: Extend("a;b;\n", "c", "d"), expect: "a;b;c;d;\n"},
	}
	for _, testCase := range testCases {
		t.Run(testCase.description, func(t *testing.T) {
			assert.Equal(t, testCase.expect, testCase.actual)
		})
	}
}

func TestWrapper(t *testing.T) {
	w := newTestWrapper(t)
	db, ok := w.DatabaseByName("Items")
	require.True(t, ok)
	sword, ok := db.RegistryByLabel("Sword")
	require.True(t, ok)

	assert.Equal(t, "Sword;Weapons;0100a1;\n", Registry(sword))
	assert.Equal(t, "Sword;Weapons;0100a1;Items;01;\nApple;;010002;Items;01;\n", Database(db))
	assert.Equal(t, "Identifier;Label;GUID;Database;Database GUID;\n"+
		"Sword;Weapons;0100a1;Items;01;\n"+
		"Apple;;010002;Items;01;\n"+
		"Fire;;a00fff;Spells;a0;\n", Wrapper(w))
}

func TestGenerateFile(t *testing.T) {
	ctx := context.Background()
	dir := path.Join(t.TempDir(), "csv")
	URL, err := GenerateFile(ctx, afs.New(), dir, "My Identifiers.csv", "a;b;\n")
	require.NoError(t, err)
	assert.Equal(t, "MyIdentifiers.csv", path.Base(URL))

	data, err := os.ReadFile(filepath.Join(dir, "MyIdentifiers.csv"))
	require.NoError(t, err)
	assert.Equal(t, "a;b;\n", string(data))

	_, err = GenerateFile(ctx, nil, dir, "   ", "")
	assert.Error(t, err)
}

func TestDiff(t *testing.T) {
	w := newTestWrapper(t)
	before := Wrapper(w)

	patch, stats, err := Diff(before, before, "identifiers.csv")
	require.NoError(t, err)
	assert.Empty(t, patch)
	assert.Equal(t, DiffStats{}, stats)

	db, _ := w.DatabaseByName("Items")
	apple, _ := db.RegistryByLabel("Apple")
	require.NoError(t, db.Rename(apple, "Pear"))

	patch, stats, err = Diff(before, Wrapper(w), "identifiers.csv")
	require.NoError(t, err)
	assert.Equal(t, DiffStats{Added: 1, Removed: 1}, stats)
	assert.Contains(t, patch, "-Apple;;010002;Items;01;")
	assert.Contains(t, patch, "+Pear;;010002;Items;01;")
}
