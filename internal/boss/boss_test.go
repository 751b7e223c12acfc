package boss

import (
	"bossbot/internal/common"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const catalogJson = `[
    {"name": "Zulrah", "api_name": "zulrah", "level": 725, "location": "Zul-Andra", "image": "zulrah.png"},
    {"name": "Vorkath", "api_name": "vorkath", "level": 732, "location": "Ungael", "image": "vorkath.png"},
    {"name": "Scorpia", "api_name": "scorpia", "level": 225, "location": "Wilderness", "image": "scorpia.png"},
    {"name": "Sarachnis", "api_name": "sarachnis", "level": 318, "location": "Forthos Dungeon", "image": "sarachnis.png"},
    {"name": "Obor", "api_name": "obor", "level": 106, "location": "Edgeville Dungeon", "image": "obor.png"}
]`

func writeCatalog(t *testing.T, content string) string {
	filename := filepath.Join(t.TempDir(), "local_bosses.json")
	require.NoError(t, os.WriteFile(filename, []byte(content), 0o644))
	return filename
}

func TestLoadCatalog(t *testing.T) {
	catalog, err := LoadCatalog(writeCatalog(t, catalogJson))
	require.NoError(t, err)
	require.Len(t, catalog, 5)

	assert.Equal(t, Boss{Name: "Zulrah", APIKey: "zulrah", Level: 725, Location: "Zul-Andra", Image: "zulrah.png"}, catalog[0])
	assert.Equal(t, "Vorkath | 732 | Ungael", catalog[1].String())
}

func TestLoadCatalogMissing(t *testing.T) {
	_, err := LoadCatalog(filepath.Join(t.TempDir(), "none.json"))
	kind, ok := common.KindOf(err)
	require.True(t, ok)
	assert.Equal(t, common.ResourceError, kind)
}

func TestCatalogValidate(t *testing.T) {
	valid := func() Catalog {
		return Catalog{
			{Name: "A", APIKey: "a"},
			{Name: "B", APIKey: "b"},
			{Name: "C", APIKey: "c"},
			{Name: "D", APIKey: "d"},
		}
	}

	tests := []struct {
		name    string
		mutate  func(Catalog) Catalog
		wantErr string
	}{
		{name: "valid", mutate: func(c Catalog) Catalog { return c }},
		{name: "too small", mutate: func(c Catalog) Catalog { return c[:3] }, wantErr: "at least 4"},
		{name: "missing name", mutate: func(c Catalog) Catalog { c[0].Name = " "; return c }, wantErr: "has no name"},
		{name: "missing key", mutate: func(c Catalog) Catalog { c[1].APIKey = ""; return c }, wantErr: "has no api name"},
		{name: "duplicate", mutate: func(c Catalog) Catalog { c[2].Name = "a"; return c }, wantErr: "appears twice"},
		{name: "negative level", mutate: func(c Catalog) Catalog { c[3].Level = -1; return c }, wantErr: "negative level"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.mutate(valid()).Validate()
			if tc.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tc.wantErr)
			kind, _ := common.KindOf(err)
			assert.Equal(t, common.ValidationError, kind)
		})
	}
}

func TestCatalogFind(t *testing.T) {
	catalog, err := LoadCatalog(writeCatalog(t, catalogJson))
	require.NoError(t, err)

	found, ok := catalog.Find("  vorkath ")
	require.True(t, ok)
	assert.Equal(t, "Vorkath", found.Name)

	_, ok = catalog.Find("Jad")
	assert.False(t, ok)

	assert.True(t, Contains(catalog, Boss{Name: "OBOR"}))
	assert.False(t, Contains(catalog[:2], Boss{Name: "Obor"}))
}
