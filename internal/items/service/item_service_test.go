package service_test

import (
	"context"
	"encoding/json"
	"errors"
	"math/big"
	"strings"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/adminpanel-sm/adminpanel-backend/internal/apperr"
	"github.com/adminpanel-sm/adminpanel-backend/internal/docstore"
	"github.com/adminpanel-sm/adminpanel-backend/internal/docstore/docstoretest"
	"github.com/adminpanel-sm/adminpanel-backend/internal/items/domain"
	"github.com/adminpanel-sm/adminpanel-backend/internal/items/repository"
	"github.com/adminpanel-sm/adminpanel-backend/internal/items/service"
	schemadomain "github.com/adminpanel-sm/adminpanel-backend/internal/schemas/domain"
	schemarepo "github.com/adminpanel-sm/adminpanel-backend/internal/schemas/repository"
	schemasvc "github.com/adminpanel-sm/adminpanel-backend/internal/schemas/service"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func newService(t *testing.T, store docstore.Store) *service.ItemService {
	t.Helper()
	return service.NewItemService(repository.NewItemRepository(store), nil)
}

func TestCreate_AssignsIDAndDiscardsClientID(t *testing.T) {
	svc := newService(t, docstoretest.NewSQLite(t))
	ctx := context.Background()

	item, err := svc.Create(ctx, "mayapan", "home", map[string]any{
		"id":    "client-chosen",
		"title": "Temple",
		"idNum": json.Number("3"),
	})
	require.NoError(t, err)
	assert.NotEmpty(t, item.ID)
	assert.NotEqual(t, "client-chosen", item.ID)
	assert.NotContains(t, item.Fields, "id")

	got, err := svc.Get(ctx, "mayapan", "home", item.ID)
	require.NoError(t, err)
	want := map[string]any{"title": "Temple", "idNum": int64(3)}
	if diff := cmp.Diff(want, got.Fields); diff != "" {
		t.Errorf("stored fields mismatch (-want +got):\n%s", diff)
	}
}

func TestCreate_RejectsInvalidFieldsWithoutWriting(t *testing.T) {
	store := docstoretest.NewSQLite(t)
	svc := newService(t, store)
	ctx := context.Background()

	_, err := svc.Create(ctx, "mayapan", "home", map[string]any{
		"title":  "ok",
		"gone":   nil,
		"nested": map[string]any{"a.b": "dotted key"},
		"big":    new(big.Int),
		"deep":   []any{map[string]any{"x": []any{nil}}},
	})
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.KindValidation))
	assert.Equal(t, []string{"big", "deep", "gone", "nested"}, apperr.FieldsOf(err))

	items, err := svc.List(ctx, "mayapan", "home", service.ListOptions{})
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestUpdate_MergesAndKeepsID(t *testing.T) {
	svc := newService(t, docstoretest.NewSQLite(t))
	ctx := context.Background()

	created, err := svc.Create(ctx, "mayapan", "home", map[string]any{"title": "Temple", "year": int64(1200)})
	require.NoError(t, err)

	updated, err := svc.Update(ctx, "mayapan", "home", created.ID, map[string]any{
		"id":    "hijack",
		"title": "Castillo",
	})
	require.NoError(t, err)
	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, map[string]any{"title": "Castillo", "year": int64(1200)}, updated.Fields)

	got, err := svc.Get(ctx, "mayapan", "home", created.ID)
	require.NoError(t, err)
	assert.Equal(t, updated.Fields, got.Fields)
}

func TestUpdate_DeleteMissing(t *testing.T) {
	svc := newService(t, docstoretest.NewSQLite(t))
	ctx := context.Background()

	_, err := svc.Update(ctx, "mayapan", "home", "nope", map[string]any{"title": "x"})
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
	assert.Equal(t, "Item with id nope not found to update", apperr.PublicMessage(err))

	err = svc.Delete(ctx, "mayapan", "home", "nope")
	assert.True(t, apperr.Is(err, apperr.KindNotFound))

	_, err = svc.Get(ctx, "mayapan", "home", "nope")
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
}

func TestDelete(t *testing.T) {
	svc := newService(t, docstoretest.NewSQLite(t))
	ctx := context.Background()

	a, err := svc.Create(ctx, "mayapan", "home", map[string]any{"title": "a"})
	require.NoError(t, err)
	b, err := svc.Create(ctx, "mayapan", "home", map[string]any{"title": "b"})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, "mayapan", "home", a.ID))

	items, err := svc.List(ctx, "mayapan", "home", service.ListOptions{})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, b.ID, items[0].ID)
}

func TestInvalidPathSegments(t *testing.T) {
	svc := newService(t, docstoretest.NewSQLite(t))
	ctx := context.Background()

	_, err := svc.List(ctx, "__proj__", "home", service.ListOptions{})
	assert.True(t, apperr.Is(err, apperr.KindValidation))
	_, err = svc.Get(ctx, "mayapan", "home", "..")
	assert.True(t, apperr.Is(err, apperr.KindValidation))
	assert.Equal(t, []string{"id"}, apperr.FieldsOf(err))

	for _, project := range []string{"projects", "schemas", "auth"} {
		_, err = svc.Create(ctx, project, "home", map[string]any{"title": "x"})
		assert.True(t, apperr.Is(err, apperr.KindValidation), project)
		assert.Equal(t, []string{"project"}, apperr.FieldsOf(err))
	}
}

func TestList_SortByNumber(t *testing.T) {
	svc := newService(t, docstoretest.NewSQLite(t))
	ctx := context.Background()

	for _, f := range []map[string]any{
		{"name": "c", "idNum": int64(3)},
		{"name": "none"},
		{"name": "a", "idNum": "1"},
		{"name": "b", "idNum": 2.5},
		{"name": "junk", "idNum": "n/a"},
	} {
		_, err := svc.Create(ctx, "mayapan", "team", f)
		require.NoError(t, err)
	}

	names := func(items []domain.Item) []string {
		out := make([]string, 0, len(items))
		for _, it := range items {
			out = append(out, it.Fields["name"].(string))
		}
		return out
	}

	asc, err := svc.List(ctx, "mayapan", "team", service.ListOptions{SortField: "idNum", Order: domain.Asc})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, names(asc)[:3])
	assert.ElementsMatch(t, []string{"none", "junk"}, names(asc)[3:])

	desc, err := svc.List(ctx, "mayapan", "team", service.ListOptions{SortField: "idNum", Order: domain.Desc})
	require.NoError(t, err)
	assert.Equal(t, []string{"c", "b", "a"}, names(desc)[:3])
	assert.ElementsMatch(t, []string{"none", "junk"}, names(desc)[3:])
}

// Two updates that read the same version race; the later write replaces the
// whole document, so exactly one field set survives.
func TestUpdate_ConcurrentLastWriteWins(t *testing.T) {
	base := docstoretest.NewSQLite(t)
	ctx := context.Background()

	created, err := newService(t, base).Create(ctx, "mayapan", "home", map[string]any{"title": "orig"})
	require.NoError(t, err)

	path := "projects/mayapan/sections/home/items/" + created.ID
	gated := &docstoretest.Gated{Store: base, Path: path, Readers: 2}
	svc := newService(t, gated)

	patches := []map[string]any{
		{"title": "A", "color": "red"},
		{"title": "B", "size": int64(3)},
	}

	var wg sync.WaitGroup
	errs := make([]error, len(patches))
	for i, p := range patches {
		wg.Add(1)
		go func(i int, p map[string]any) {
			defer wg.Done()
			_, errs[i] = svc.Update(ctx, "mayapan", "home", created.ID, p)
		}(i, p)
	}
	wg.Wait()
	for _, err := range errs {
		require.NoError(t, err)
	}

	got, err := newService(t, base).Get(ctx, "mayapan", "home", created.ID)
	require.NoError(t, err)

	wantA := map[string]any{"title": "A", "color": "red"}
	wantB := map[string]any{"title": "B", "size": int64(3)}
	if !cmp.Equal(wantA, got.Fields) && !cmp.Equal(wantB, got.Fields) {
		t.Fatalf("expected one field set to win entirely, got %v", got.Fields)
	}
}

func TestStoreFailures(t *testing.T) {
	boom := errors.New("deadline exceeded")
	base := docstoretest.NewSQLite(t)
	ctx := context.Background()

	created, err := newService(t, base).Create(ctx, "mayapan", "home", map[string]any{"title": "orig"})
	require.NoError(t, err)

	svc := newService(t, &docstoretest.Failing{Store: base, Err: boom})

	_, err = svc.Create(ctx, "mayapan", "home", map[string]any{"title": "x"})
	assert.Equal(t, apperr.KindStore, apperr.KindOf(err))
	assert.Equal(t, "Error creating item", apperr.PublicMessage(err))

	_, err = svc.Update(ctx, "mayapan", "home", created.ID, map[string]any{"title": "x"})
	assert.Equal(t, apperr.KindStore, apperr.KindOf(err))
	assert.ErrorIs(t, err, boom)

	err = svc.Delete(ctx, "mayapan", "home", created.ID)
	assert.Equal(t, apperr.KindStore, apperr.KindOf(err))
}

func TestSchemaEnforcement(t *testing.T) {
	store := docstoretest.NewSQLite(t)
	ctx := context.Background()
	schemas := schemasvc.NewSchemaService(schemarepo.NewSchemaRepository(store))
	svc := service.NewItemService(repository.NewItemRepository(store), schemas)

	// no schema yet: anything goes
	_, err := svc.Create(ctx, "mayapan", "home", map[string]any{"free": "form"})
	require.NoError(t, err)

	_, err = schemas.Set(ctx, "mayapan", "home", []schemadomain.Field{{Key: "title"}, {Key: "body", Type: schemadomain.FieldTextarea}})
	require.NoError(t, err)

	_, err = svc.Create(ctx, "mayapan", "home", map[string]any{"title": "t", "zeta": 1, "alpha": 2})
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.KindValidation))
	assert.Equal(t, []string{"alpha", "zeta"}, apperr.FieldsOf(err))
	assert.True(t, strings.HasPrefix(apperr.PublicMessage(err), "Fields not declared"))

	item, err := svc.Create(ctx, "mayapan", "home", map[string]any{"id": "ignored", "title": "t", "body": "b"})
	require.NoError(t, err)
	_, err = svc.Update(ctx, "mayapan", "home", item.ID, map[string]any{"extra": true})
	assert.True(t, apperr.Is(err, apperr.KindValidation))
}
