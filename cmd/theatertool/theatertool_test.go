package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arthouse/theaters/internal/config"
	"github.com/arthouse/theaters/internal/photos"
	"github.com/arthouse/theaters/internal/repository"
)

type fakeInspector struct {
	states []repository.StateCount
	err    error
}

func (f fakeInspector) Count(context.Context) (int64, error) { return 488, nil }

func (f fakeInspector) Sample(_ context.Context, limit int) ([]map[string]any, []string, error) {
	return []map[string]any{{"slug": "cinema-21"}}, []string{"slug"}, nil
}

func (f fakeInspector) CountByState(context.Context) ([]repository.StateCount, error) {
	return f.states, nil
}

func (f fakeInspector) Completeness(context.Context) (repository.Completeness, error) {
	return repository.Completeness{Total: 488, MissingWebsite: 12}, f.err
}

func TestCheckDatabase(t *testing.T) {
	var states []repository.StateCount
	for i := 0; i < 20; i++ {
		states = append(states, repository.StateCount{State: fmt.Sprintf("S%02d", i), Count: 20 - i})
	}

	r, err := checkDatabase(context.Background(), fakeInspector{states: states})
	require.NoError(t, err)
	assert.Equal(t, int64(488), r.Count)
	assert.Equal(t, []string{"slug"}, r.Columns)
	assert.Equal(t, 20, r.TotalStates)
	assert.Len(t, r.TopStates, topStates)
	assert.Equal(t, "S00", r.TopStates[0].State)
	assert.Equal(t, 12, r.Completeness.MissingWebsite)

	var buf bytes.Buffer
	require.NoError(t, writeJSON(&buf, r))
	assert.Contains(t, buf.String(), `"total_states": 20`)
}

func TestCheckDatabase_Error(t *testing.T) {
	_, err := checkDatabase(context.Background(), fakeInspector{err: errors.New("boom")})
	assert.EqualError(t, err, "boom")
}

func TestPrintDryRun(t *testing.T) {
	var buf bytes.Buffer
	printDryRun(&buf, []repository.SlugRef{{Slug: "cinema-21", Name: "Cinema 21", City: "Portland", State: "OR"}})
	assert.Contains(t, buf.String(), "  - Cinema 21 (Portland, OR) [cinema-21]\n")
}

func TestSelectionStore(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	s, closeFn, err := selectionStore(ctx, config.PhotosConfig{Dir: dir, ReviewStore: "file"})
	require.NoError(t, err)
	closeFn()
	require.NoError(t, s.Save(ctx, "aero", photos.Selection{Selected: []int{1}}))
	assert.FileExists(t, filepath.Join(dir, "selections.json"))

	mr := miniredis.RunT(t)
	t.Setenv("REDIS_URL", "redis://"+mr.Addr())
	s, closeFn, err = selectionStore(ctx, config.PhotosConfig{ReviewStore: "redis", RedisKey: "sel"})
	require.NoError(t, err)
	defer closeFn()
	require.NoError(t, s.Save(ctx, "aero", photos.Selection{Skip: true}))
	assert.True(t, mr.Exists("sel"))

	_, _, err = selectionStore(ctx, config.PhotosConfig{ReviewStore: "s3"})
	assert.ErrorContains(t, err, "unknown REVIEW_STORE")
}

func TestCommandTree(t *testing.T) {
	for _, path := range [][]string{{"db", "check"}, {"photos", "download"}, {"photos", "consume"}, {"photos", "review"}} {
		cmd, _, err := rootCmd.Find(path)
		require.NoError(t, err)
		assert.Equal(t, path[len(path)-1], cmd.Name())
	}
	assert.NotNil(t, photosDownloadCmd.Flags().Lookup("dry-run"))
	assert.NotNil(t, photosDownloadCmd.Flags().Lookup("limit"))
}
