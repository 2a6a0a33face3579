package catalog_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ProductCatalog/internal/catalog"
)

func strPtr(s string) *string { return &s }

func TestFileStore_LoadCreatesMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "products.json")
	s := catalog.NewFileStore(path)

	c, err := s.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, c)
	assert.NotNil(t, c)

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.JSONEq(t, `{}`, string(b))
}

func TestFileStore_LoadCreatesDataDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "nested", "products.json")
	s := catalog.NewFileStore(path)

	_, err := s.Load(context.Background())
	require.NoError(t, err)
	assert.FileExists(t, path)
}

func TestFileStore_SaveLoadRoundTrip(t *testing.T) {
	s := catalog.NewFileStore(filepath.Join(t.TempDir(), "products.json"))
	ctx := context.Background()

	want := catalog.Catalog{
		1: {ID: 1, Name: "Keyboard", Description: strPtr("Mechanical"), Price: 49.9, Quantity: 10},
		2: {ID: 2, Name: "Mouse", Price: 19.5, Quantity: 0},
	}
	require.NoError(t, s.Save(ctx, want))

	got, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestFileStore_SaveIsPrettyAndOrdered(t *testing.T) {
	path := filepath.Join(t.TempDir(), "products.json")
	s := catalog.NewFileStore(path)

	c := catalog.Catalog{}
	for _, id := range []int{10, 2, 1} {
		c[id] = catalog.Product{ID: id, Name: "p", Price: 1, Quantity: 1}
	}
	require.NoError(t, s.Save(context.Background(), c))

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	raw := string(b)

	assert.True(t, strings.HasPrefix(raw, "{\n  \"1\": {\n    \"id\": 1,\n    \"name\": \"p\",\n    \"description\": null,"), raw)
	assert.Less(t, strings.Index(raw, `"2":`), strings.Index(raw, `"10":`))
	assert.True(t, strings.HasSuffix(raw, "}\n"))
}

func TestFileStore_SaveLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	s := catalog.NewFileStore(filepath.Join(dir, "products.json"))

	for i := 1; i <= 3; i++ {
		c := catalog.Catalog{i: {ID: i, Name: "x"}}
		require.NoError(t, s.Save(context.Background(), c))
	}

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "products.json", entries[0].Name())
}

func TestFileStore_LoadEmptyForms(t *testing.T) {
	for _, content := range []string{"[]", "null", "", "  \n", "{}"} {
		path := filepath.Join(t.TempDir(), "products.json")
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

		c, err := catalog.NewFileStore(path).Load(context.Background())
		require.NoError(t, err, "content %q", content)
		assert.Empty(t, c, "content %q", content)
		assert.NotNil(t, c, "content %q", content)
	}
}

func TestFileStore_LoadMalformed(t *testing.T) {
	for _, content := range []string{`{"1": {"id": 1,`, `{"abc": {"id": 1}}`, `"text"`} {
		path := filepath.Join(t.TempDir(), "products.json")
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

		_, err := catalog.NewFileStore(path).Load(context.Background())

		var serr *catalog.StorageError
		require.True(t, errors.As(err, &serr), "content %q: got %v", content, err)
		assert.Equal(t, "decode", serr.Op)
		assert.Equal(t, path, serr.Path)
	}
}

func TestFileStore_LoadNumericStrings(t *testing.T) {
	path := filepath.Join(t.TempDir(), "products.json")
	legacy := `{
    "1": {"id": 1, "name": "a", "description": null, "price": 10, "quantity": "3"},
    "2": {"id": 2, "name": "b", "description": "old", "price": "12.5", "quantity": "4.0"}
}`
	require.NoError(t, os.WriteFile(path, []byte(legacy), 0o644))

	c, err := catalog.NewFileStore(path).Load(context.Background())
	require.NoError(t, err)

	assert.Equal(t, catalog.Product{ID: 1, Name: "a", Price: 10, Quantity: 3}, c[1])
	assert.Equal(t, catalog.Product{ID: 2, Name: "b", Description: strPtr("old"), Price: 12.5, Quantity: 4}, c[2])
}

func TestFileStore_LoadBadFieldValues(t *testing.T) {
	for _, content := range []string{
		`{"1": {"id": 1, "name": "a", "price": "cheap", "quantity": 1}}`,
		`{"1": {"id": 1, "name": "a", "price": 1, "quantity": "2.5"}}`,
		`{"1": {"id": 1, "name": "a", "price": 1, "quantity": true}}`,
	} {
		path := filepath.Join(t.TempDir(), "products.json")
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

		_, err := catalog.NewFileStore(path).Load(context.Background())

		var serr *catalog.StorageError
		require.True(t, errors.As(err, &serr), "content %q: got %v", content, err)
		assert.Equal(t, "decode", serr.Op)
	}
}

func TestFileStore_LoadUnreadable(t *testing.T) {
	// a directory where the file should be
	path := filepath.Join(t.TempDir(), "products.json")
	require.NoError(t, os.Mkdir(path, 0o755))

	_, err := catalog.NewFileStore(path).Load(context.Background())

	var serr *catalog.StorageError
	require.True(t, errors.As(err, &serr), "got %v", err)
	assert.Equal(t, "read", serr.Op)
}

func TestFileStore_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s := catalog.NewFileStore(filepath.Join(t.TempDir(), "products.json"))

	_, err := s.Load(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.ErrorIs(t, s.Save(ctx, catalog.Catalog{}), context.Canceled)
	assert.NoFileExists(t, s.Path())
}

func TestFileStore_Ping(t *testing.T) {
	dir := t.TempDir()
	assert.NoError(t, catalog.NewFileStore(filepath.Join(dir, "products.json")).Ping(context.Background()))

	notDir := filepath.Join(dir, "plain")
	require.NoError(t, os.WriteFile(notDir, nil, 0o644))
	err := catalog.NewFileStore(filepath.Join(notDir, "products.json")).Ping(context.Background())

	var serr *catalog.StorageError
	assert.True(t, errors.As(err, &serr), "got %v", err)

	err = catalog.NewFileStore(filepath.Join(dir, "missing", "products.json")).Ping(context.Background())
	assert.Error(t, err)
}

func TestNewFileStore_DefaultPath(t *testing.T) {
	assert.Equal(t, catalog.DefaultDataFile, catalog.NewFileStore("").Path())
}
