package model

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/idregistry/internal/clock"
	"github.com/viant/idregistry/service/allocator"
)

func TestWrapper_Snapshot(t *testing.T) {
	now := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	clock.NowFunc = func() time.Time { return now }
	defer func() { clock.NowFunc = time.Now }()

	w := NewWrapper()
	a, _ := w.CreateDatabase("A", "first")
	x, _ := a.CreateRegistry("x", "cat")
	y, _ := a.CreateRegistry("y", "")
	b, _ := w.CreateDatabase("B", "")

	snapshot := w.Snapshot("main")
	assert.Equal(t, "main", snapshot.ID)
	assert.Equal(t, now, snapshot.SavedAt)
	assert.Equal(t, w.Revision(), snapshot.Revision)
	assert.Equal(t, []DatabaseRecord{
		{Name: "A", Description: "first", Code: a.Code(), Registries: []RegistryRecord{
			{Label: "x", Category: "cat", Code: x.Code()},
			{Label: "y", Code: y.Code()},
		}},
		{Name: "B", Code: b.Code(), Registries: []RegistryRecord{}},
	}, snapshot.Databases)

	restored, err := FromSnapshot(snapshot)
	require.NoError(t, err)
	assert.Equal(t, w.EnumerateAllRegistryPaths("-"), restored.EnumerateAllRegistryPaths("-"))
	assert.Equal(t, w.Revision(), restored.Revision())

	db, ok := restored.DatabaseByName("A")
	require.True(t, ok)
	created, err := db.CreateRegistry("z", "")
	require.NoError(t, err)
	assert.NotContains(t, []string{x.Code(), y.Code()}, created.Code())
	assert.Greater(t, restored.Revision(), snapshot.Revision)
}

func TestSnapshot_Clone(t *testing.T) {
	snapshot := &Snapshot{ID: "s", Databases: []DatabaseRecord{{Name: "A", Code: "01", Registries: []RegistryRecord{{Label: "x", Code: "0001"}}}}}
	clone := snapshot.Clone()
	clone.Databases[0].Registries[0].Label = "changed"
	clone.Databases[0].Name = "B"
	assert.Equal(t, "x", snapshot.Databases[0].Registries[0].Label)
	assert.Equal(t, "A", snapshot.Databases[0].Name)
	assert.Nil(t, (*Snapshot)(nil).Clone())
}

func TestFromSnapshot_Validation(t *testing.T) {
	var testCases = []struct {
		description string
		databases   []DatabaseRecord
		field       string
	}{
		{
			description: "empty database name",
			databases:   []DatabaseRecord{{Code: "01"}},
			field:       "databases[0].name",
		},
		{
			description: "duplicate database name",
			databases:   []DatabaseRecord{{Name: "A", Code: "01"}, {Name: "A", Code: "02"}},
			field:       "databases[1].name",
		},
		{
			description: "duplicate database code",
			databases:   []DatabaseRecord{{Name: "A", Code: "01"}, {Name: "B", Code: "01"}},
			field:       "databases[1].code",
		},
		{
			description: "malformed database code",
			databases:   []DatabaseRecord{{Name: "A", Code: "0X"}},
			field:       "databases[0].code",
		},
		{
			description: "duplicate registry label",
			databases: []DatabaseRecord{{Name: "A", Code: "01", Registries: []RegistryRecord{
				{Label: "x", Code: "0001"}, {Label: "x", Code: "0002"},
			}}},
			field: "databases[0].registries[1].label",
		},
		{
			description: "duplicate registry code",
			databases: []DatabaseRecord{{Name: "A", Code: "01", Registries: []RegistryRecord{
				{Label: "x", Code: "0001"}, {Label: "y", Code: "0001"},
			}}},
			field: "databases[0].registries[1].code",
		},
		{
			description: "database code wider than configured",
			databases:   []DatabaseRecord{{Name: "A", Code: "010"}},
			field:       "databases[0].code",
		},
		{
			description: "registry code narrower than configured",
			databases: []DatabaseRecord{{Name: "A", Code: "01", Registries: []RegistryRecord{
				{Label: "x", Code: "0a1"},
			}}},
			field: "databases[0].registries[0].code",
		},
		{
			description: "overlapping full codes across databases",
			databases: []DatabaseRecord{
				{Name: "A", Code: "01", Registries: []RegistryRecord{{Label: "x", Code: "00a1"}}},
				{Name: "B", Code: "010", Registries: []RegistryRecord{{Label: "y", Code: "a1"}}},
			},
			field: "databases[1].code",
		},
		{
			description: "legacy out of width code with strict probing",
			databases: []DatabaseRecord{{Name: "A", Code: "01", Registries: []RegistryRecord{
				{Label: "x", Code: "10000"},
			}}},
			field: "databases[0].registries[0].code",
		},
		{
			description: "empty registry label",
			databases: []DatabaseRecord{{Name: "A", Code: "01", Registries: []RegistryRecord{
				{Code: "0001"},
			}}},
			field: "databases[0].registries[0].label",
		},
	}
	for _, testCase := range testCases {
		t.Run(testCase.description, func(t *testing.T) {
			_, err := FromSnapshot(&Snapshot{Databases: testCase.databases})
			var validation *ValidationError
			require.True(t, errors.As(err, &validation), "got %v", err)
			assert.Equal(t, testCase.field, validation.Field)
		})
	}
}

func TestFromSnapshot_Nil(t *testing.T) {
	w, err := FromSnapshot(nil)
	require.NoError(t, err)
	assert.Empty(t, w.Databases())
}

func TestFromSnapshot_SameCodeAcrossDatabases(t *testing.T) {
	w, err := FromSnapshot(&Snapshot{Databases: []DatabaseRecord{
		{Name: "A", Code: "01", Registries: []RegistryRecord{{Label: "x", Code: "0001"}}},
		{Name: "B", Code: "02", Registries: []RegistryRecord{{Label: "x", Code: "0001"}}},
	}})
	require.NoError(t, err)
	assert.Equal(t, []Path{
		{Path: "A/-/x", Code: "010001"},
		{Path: "B/-/x", Code: "020001"},
	}, w.EnumerateAllRegistryPaths("-"))
}

func TestFromSnapshot_LegacyWidth(t *testing.T) {
	legacy := WithAllocator(allocator.New(allocator.WithProbe(allocator.ProbeLegacy)))
	var testCases = []struct {
		description string
		code        string
		valid       bool
	}{
		{description: "regular width", code: "ffff", valid: true},
		{description: "extra legacy slot", code: "10000", valid: true},
		{description: "other wide code", code: "10001"},
		{description: "short code", code: "fff"},
	}
	for _, testCase := range testCases {
		t.Run(testCase.description, func(t *testing.T) {
			_, err := FromSnapshot(&Snapshot{Databases: []DatabaseRecord{{Name: "A", Code: "01", Registries: []RegistryRecord{
				{Label: "x", Code: testCase.code},
			}}}}, legacy)
			if testCase.valid {
				assert.NoError(t, err)
				return
			}
			assert.True(t, errors.Is(err, ErrValidation), "got %v", err)
		})
	}
}

func TestWrapper_SnapshotRevisionCoversContent(t *testing.T) {
	w := NewWrapper()
	db, err := w.CreateDatabase("A", "")
	require.NoError(t, err)

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 500; i++ {
			_, _ = db.CreateRegistry(allocator.Format(int64(i), 4), "")
		}
	}()
	for i := 0; i < 200; i++ {
		snapshot := w.Snapshot("s")
		// one revision for the database plus one per registry
		assert.GreaterOrEqual(t, snapshot.Revision, uint64(1+len(snapshot.Databases[0].Registries)))
	}
	<-done
}
