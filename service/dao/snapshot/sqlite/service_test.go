package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/idregistry/model"
	"github.com/viant/idregistry/service/dao"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	srv, err := New(context.Background(), filepath.Join(t.TempDir(), "identifiers.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = srv.Close() })
	return srv
}

func testSnapshot(id string) *model.Snapshot {
	return &model.Snapshot{
		ID:       id,
		SavedAt:  time.Date(2024, 3, 1, 10, 0, 0, 123, time.UTC),
		Revision: 42,
		Databases: []model.DatabaseRecord{
			{Name: "Items", Description: "inventory", Code: "01", Registries: []model.RegistryRecord{
				{Label: "Sword", Category: "Weapons", Code: "00a1"},
				{Label: "Shield", Code: "1f00"},
				{Label: "Bow", Category: "Weapons", Code: "0002"},
			}},
			{Name: "Spells", Code: "0a", Registries: []model.RegistryRecord{
				{Label: "Fire", Code: "00a1"},
			}},
			{Name: "Empty", Code: "ff", Registries: []model.RegistryRecord{}},
		},
	}
}

func TestService_SaveLoad(t *testing.T) {
	srv := newTestService(t)
	ctx := context.Background()

	expect := testSnapshot("main")
	require.NoError(t, srv.Save(ctx, expect))
	actual, err := srv.Load(ctx, "main")
	require.NoError(t, err)
	assert.Equal(t, expect, actual)

	// overwrite drops rows of the previous version
	expect.Databases = expect.Databases[:1]
	expect.Databases[0].Registries = expect.Databases[0].Registries[:1]
	require.NoError(t, srv.Save(ctx, expect))
	actual, err = srv.Load(ctx, "main")
	require.NoError(t, err)
	assert.Equal(t, expect, actual)
}

func TestService_ListDelete(t *testing.T) {
	srv := newTestService(t)
	ctx := context.Background()
	require.NoError(t, srv.Save(ctx, testSnapshot("b")))
	require.NoError(t, srv.Save(ctx, testSnapshot("a")))

	list, err := srv.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "a", list[0].ID)
	assert.Equal(t, "b", list[1].ID)

	require.NoError(t, srv.Delete(ctx, "a"))
	_, err = srv.Load(ctx, "a")
	assert.True(t, errors.Is(err, dao.ErrNotFound))
	assert.True(t, errors.Is(srv.Delete(ctx, "a"), dao.ErrNotFound))

	list, err = srv.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestService_Invalid(t *testing.T) {
	srv := newTestService(t)
	ctx := context.Background()
	assert.True(t, errors.Is(srv.Save(ctx, nil), dao.ErrNilEntity))
	assert.True(t, errors.Is(srv.Save(ctx, &model.Snapshot{}), dao.ErrInvalidID))
	_, err := srv.Load(ctx, "")
	assert.True(t, errors.Is(err, dao.ErrInvalidID))
	_, err = New(ctx, "")
	assert.Error(t, err)
}
