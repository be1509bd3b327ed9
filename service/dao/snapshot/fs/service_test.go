package fs

import (
	"context"
	"errors"
	"path"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/idregistry/model"
	"github.com/viant/idregistry/service/dao"
)

func testSnapshot(id string) *model.Snapshot {
	return &model.Snapshot{
		ID:       id,
		SavedAt:  time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC),
		Revision: 7,
		Databases: []model.DatabaseRecord{
			{Name: "Items", Description: "inventory", Code: "01", Registries: []model.RegistryRecord{
				{Label: "Sword", Category: "Weapons", Code: "00a1"},
				{Label: "Shield", Code: "1f00"},
			}},
			{Name: "Empty", Code: "a0", Registries: []model.RegistryRecord{}},
		},
	}
}

func TestService(t *testing.T) {
	var testCases = []struct {
		description string
		format      Format
	}{
		{description: "json", format: FormatJSON},
		{description: "yaml", format: FormatYAML},
	}
	for _, testCase := range testCases {
		t.Run(testCase.description, func(t *testing.T) {
			ctx := context.Background()
			baseURL := path.Join(t.TempDir(), "snapshots")
			srv, err := New(ctx, baseURL, WithFormat(testCase.format))
			require.NoError(t, err)

			expect := testSnapshot("main")
			require.NoError(t, srv.Save(ctx, expect))
			require.NoError(t, srv.Save(ctx, testSnapshot("backup")))

			actual, err := srv.Load(ctx, "main")
			require.NoError(t, err)
			assert.Equal(t, expect, actual)

			list, err := srv.List(ctx)
			require.NoError(t, err)
			assert.Len(t, list, 2)

			require.NoError(t, srv.Delete(ctx, "backup"))
			_, err = srv.Load(ctx, "backup")
			assert.True(t, errors.Is(err, dao.ErrNotFound))
			assert.True(t, errors.Is(srv.Delete(ctx, "backup"), dao.ErrNotFound))
		})
	}
}

func TestService_Invalid(t *testing.T) {
	ctx := context.Background()
	_, err := New(ctx, "")
	assert.Error(t, err)

	srv, err := New(ctx, t.TempDir())
	require.NoError(t, err)
	assert.True(t, errors.Is(srv.Save(ctx, nil), dao.ErrNilEntity))
	assert.True(t, errors.Is(srv.Save(ctx, &model.Snapshot{}), dao.ErrInvalidID))
	_, err = srv.Load(ctx, "")
	assert.True(t, errors.Is(err, dao.ErrInvalidID))
}
