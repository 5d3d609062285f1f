package storage_test

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/portfolio/backend/internal/storage"
)

func TestMain(m *testing.M) {
	// The cloud clients linked into this package start the opencensus view
	// worker from an init func.
	goleak.VerifyTestMain(m, goleak.IgnoreTopFunction("go.opencensus.io/stats/view.(*worker).start"))
}

type note struct {
	ID        string     `bson:"_id,omitempty"`
	Title     string     `bson:"title"`
	Rank      int        `bson:"rank,omitempty"`
	Tags      []string   `bson:"tags,omitempty"`
	Active    bool       `bson:"active"`
	CreatedAt time.Time  `bson:"createdAt"`
	DoneAt    *time.Time `bson:"doneAt"`
}

func newStore(t *testing.T, opts ...storage.LocalOption) *storage.LocalStore {
	t.Helper()
	s, err := storage.NewLocalStore(opts...)
	require.NoError(t, err)
	return s
}

func TestLocalStoreInsertGet(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)

	created := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	id, err := s.Insert(ctx, "notes", note{Title: "first", Rank: 3, Tags: []string{"a", "b"}, CreatedAt: created})
	require.NoError(t, err)
	require.NotEmpty(t, id)

	var got note
	require.NoError(t, s.Get(ctx, "notes", id, &got))
	assert.Equal(t, id, got.ID)
	assert.Equal(t, "first", got.Title)
	assert.Equal(t, []string{"a", "b"}, got.Tags)
	assert.True(t, created.Equal(got.CreatedAt))
	assert.Nil(t, got.DoneAt)

	err = s.Get(ctx, "notes", "missing", &got)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestLocalStoreFindOrderingAndFilters(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)

	for _, n := range []note{
		{Title: "low", Rank: 10},
		{Title: "unranked"},
		{Title: "high", Rank: 90, Active: true},
		{Title: "mid-a", Rank: 50},
		{Title: "mid-b", Rank: 50, Active: true},
	} {
		_, err := s.Insert(ctx, "notes", n)
		require.NoError(t, err)
	}

	tests := []struct {
		name  string
		query storage.Query
		want  []string
	}{
		{"insertion order", storage.Query{}, []string{"low", "unranked", "high", "mid-a", "mid-b"}},
		{"descending keeps ties and puts missing last", storage.Query{OrderBy: "rank", Desc: true}, []string{"high", "mid-a", "mid-b", "low", "unranked"}},
		{"ascending", storage.Query{OrderBy: "rank"}, []string{"low", "mid-a", "mid-b", "high", "unranked"}},
		{"equality filter", storage.Query{Where: []storage.Filter{{Field: "active", Value: true}}}, []string{"high", "mid-b"}},
		{"numeric filter", storage.Query{Where: []storage.Filter{{Field: "rank", Value: 50.0}}}, []string{"mid-a", "mid-b"}},
		{"limit", storage.Query{OrderBy: "rank", Desc: true, Limit: 1}, []string{"high"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out []note
			require.NoError(t, s.Find(ctx, "notes", tt.query, &out))
			titles := make([]string, 0, len(out))
			for _, n := range out {
				titles = append(titles, n.Title)
			}
			assert.Equal(t, tt.want, titles)
		})
	}
}

func TestLocalStoreFindEmptyCollection(t *testing.T) {
	s := newStore(t)
	var out []note
	require.NoError(t, s.Find(context.Background(), "nothing", storage.Query{}, &out))
	assert.Empty(t, out)
}

func TestLocalStoreUpdateKeepsUnrelatedFields(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)

	id, err := s.Insert(ctx, "notes", note{Title: "draft", Rank: 7, Tags: []string{"x"}})
	require.NoError(t, err)

	done := time.Date(2024, 5, 5, 0, 0, 0, 0, time.UTC)
	require.NoError(t, s.Update(ctx, "notes", id, storage.Fields{"title": "final", "doneAt": done}))

	var got note
	require.NoError(t, s.Get(ctx, "notes", id, &got))
	assert.Equal(t, "final", got.Title)
	assert.Equal(t, 7, got.Rank)
	assert.Equal(t, []string{"x"}, got.Tags)
	require.NotNil(t, got.DoneAt)
	assert.True(t, done.Equal(*got.DoneAt))

	require.NoError(t, s.Update(ctx, "notes", id, storage.Fields{"doneAt": nil}))
	require.NoError(t, s.Get(ctx, "notes", id, &got))
	assert.Nil(t, got.DoneAt)

	assert.ErrorIs(t, s.Update(ctx, "notes", "missing", storage.Fields{"title": "x"}), storage.ErrNotFound)
}

func TestLocalStoreSetAndDelete(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)

	require.NoError(t, s.Set(ctx, "notes", "singleton", note{Title: "one"}))
	require.NoError(t, s.Set(ctx, "notes", "singleton", note{Title: "two"}))

	n, err := s.Count(ctx, "notes")
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	var got note
	require.NoError(t, s.Get(ctx, "notes", "singleton", &got))
	assert.Equal(t, "two", got.Title)

	require.NoError(t, s.Delete(ctx, "notes", "singleton"))
	assert.ErrorIs(t, s.Delete(ctx, "notes", "singleton"), storage.ErrNotFound)

	n, err = s.Count(ctx, "notes")
	require.NoError(t, err)
	assert.Zero(t, n)
}

func activeTitles(t *testing.T, s storage.DocumentStore) []string {
	t.Helper()
	var out []note
	require.NoError(t, s.Find(context.Background(), "notes", storage.Query{Where: []storage.Filter{{Field: "active", Value: true}}}, &out))
	titles := []string{}
	for _, n := range out {
		titles = append(titles, n.Title)
	}
	return titles
}

func TestLocalStoreSetExclusive(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)

	a, err := s.Insert(ctx, "notes", note{Title: "a", Active: true})
	require.NoError(t, err)
	b, err := s.Insert(ctx, "notes", note{Title: "b"})
	require.NoError(t, err)

	require.NoError(t, s.SetExclusive(ctx, "notes", "active", b))
	assert.Equal(t, []string{"b"}, activeTitles(t, s))

	require.NoError(t, s.SetExclusive(ctx, "notes", "active", a))
	assert.Equal(t, []string{"a"}, activeTitles(t, s))

	assert.ErrorIs(t, s.SetExclusive(ctx, "notes", "active", "missing"), storage.ErrNotFound)
	assert.Equal(t, []string{"a"}, activeTitles(t, s))
}

func TestLocalStoreSetExclusiveRollsBackOnFailure(t *testing.T) {
	ctx := context.Background()
	errInjected := errors.New("injected")
	var target string
	s := newStore(t, storage.WithWriteHook(func(op storage.WriteOp) error {
		if op.Kind == "update" && op.ID == target {
			return errInjected
		}
		return nil
	}))

	_, err := s.Insert(ctx, "notes", note{Title: "a", Active: true})
	require.NoError(t, err)
	target, err = s.Insert(ctx, "notes", note{Title: "b"})
	require.NoError(t, err)

	err = s.SetExclusive(ctx, "notes", "active", target)
	assert.ErrorIs(t, err, errInjected)
	assert.Equal(t, []string{"a"}, activeTitles(t, s))
}

func TestLocalStoreWithoutTransactions(t *testing.T) {
	ctx := context.Background()
	s := newStore(t, storage.WithoutTransactions())

	id, err := s.Insert(ctx, "notes", note{Title: "a"})
	require.NoError(t, err)
	assert.ErrorIs(t, s.SetExclusive(ctx, "notes", "active", id), storage.ErrTxUnsupported)
}

func TestLocalStoreSnapshotRoundTrip(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	file, err := storage.NewJSONStore(dir, "portfolio.json")
	require.NoError(t, err)
	s := newStore(t, storage.WithSnapshot(file))

	created := time.Date(2023, 11, 2, 8, 30, 0, 0, time.UTC)
	first, err := s.Insert(ctx, "notes", note{Title: "first", Rank: 5, CreatedAt: created})
	require.NoError(t, err)
	_, err = s.Insert(ctx, "notes", note{Title: "second", Rank: 1})
	require.NoError(t, err)
	require.NoError(t, s.Close(ctx))

	reopened := newStore(t, storage.WithSnapshot(file))

	var got note
	require.NoError(t, reopened.Get(ctx, "notes", first, &got))
	assert.Equal(t, "first", got.Title)
	assert.Equal(t, 5, got.Rank)
	assert.True(t, created.Equal(got.CreatedAt))

	var all []note
	require.NoError(t, reopened.Find(ctx, "notes", storage.Query{}, &all))
	require.Len(t, all, 2)
	assert.Equal(t, "first", all[0].Title)
	assert.Equal(t, "second", all[1].Title)
}

// breakDir replaces dir with a regular file so snapshot saves fail, and
// returns a func that restores it.
func breakDir(t *testing.T, dir string) func() {
	t.Helper()
	require.NoError(t, os.RemoveAll(dir))
	require.NoError(t, os.WriteFile(dir, []byte("not a directory"), 0o644))
	return func() {
		require.NoError(t, os.Remove(dir))
		require.NoError(t, os.Mkdir(dir, 0o755))
	}
}

func titles(t *testing.T, s storage.DocumentStore, collection string) []string {
	t.Helper()
	var out []note
	require.NoError(t, s.Find(context.Background(), collection, storage.Query{}, &out))
	list := []string{}
	for _, n := range out {
		list = append(list, n.Title)
	}
	return list
}

func TestLocalStoreFailedSaveLeavesStoreUnchanged(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	file, err := storage.NewJSONStore(dir, "portfolio.json")
	require.NoError(t, err)
	s := newStore(t, storage.WithSnapshot(file))

	a, err := s.Insert(ctx, "notes", note{Title: "a", Active: true})
	require.NoError(t, err)
	b, err := s.Insert(ctx, "notes", note{Title: "b"})
	require.NoError(t, err)

	restore := breakDir(t, dir)

	t.Run("insert", func(t *testing.T) {
		for i := 0; i < 2; i++ {
			id, err := s.Insert(ctx, "notes", note{Title: "retry"})
			assert.Error(t, err)
			assert.Empty(t, id)
		}
		assert.Equal(t, []string{"a", "b"}, titles(t, s, "notes"))
		n, err := s.Count(ctx, "notes")
		require.NoError(t, err)
		assert.EqualValues(t, 2, n)
	})

	t.Run("update", func(t *testing.T) {
		assert.Error(t, s.Update(ctx, "notes", a, storage.Fields{"title": "changed"}))
		var got note
		require.NoError(t, s.Get(ctx, "notes", a, &got))
		assert.Equal(t, "a", got.Title)
	})

	t.Run("set", func(t *testing.T) {
		assert.Error(t, s.Set(ctx, "notes", b, note{Title: "replaced"}))
		assert.Error(t, s.Set(ctx, "profile", "singleton", note{Title: "me"}))
		assert.Equal(t, []string{"a", "b"}, titles(t, s, "notes"))
		var got note
		assert.ErrorIs(t, s.Get(ctx, "profile", "singleton", &got), storage.ErrNotFound)
	})

	t.Run("delete", func(t *testing.T) {
		assert.Error(t, s.Delete(ctx, "notes", b))
		assert.Equal(t, []string{"a", "b"}, titles(t, s, "notes"))
	})

	t.Run("set exclusive", func(t *testing.T) {
		assert.Error(t, s.SetExclusive(ctx, "notes", "active", b))
		assert.Equal(t, []string{"a"}, activeTitles(t, s))
	})

	restore()

	_, err = s.Insert(ctx, "notes", note{Title: "c"})
	require.NoError(t, err)
	require.NoError(t, s.SetExclusive(ctx, "notes", "active", b))

	reopened := newStore(t, storage.WithSnapshot(file))
	assert.Equal(t, []string{"a", "b", "c"}, titles(t, reopened, "notes"))
	assert.Equal(t, []string{"b"}, activeTitles(t, reopened))
}
