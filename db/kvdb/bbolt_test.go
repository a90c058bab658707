package kvdb

import (
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/meghashyamc/knowledgebase/config"
	"github.com/stretchr/testify/require"
)

func newTestDB(t *testing.T, assert *require.Assertions) *BoltDB {
	t.Setenv("KVDB_PATH", filepath.Join(t.TempDir(), "nested", "kb.db"))
	cfg, err := config.Load("test", nil)
	assert.NoError(err, "could not load config")

	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
	db, err := New(logger, cfg)
	assert.NoError(err, "could not open kv database")
	t.Cleanup(func() {
		assert.NoError(db.Close())
	})
	return db
}

func TestSetGetDelete(t *testing.T) {
	assert := require.New(t)
	db := newTestDB(t, assert)

	assert.NoError(db.Set(DocumentsBucket, "doc-1", `{"title":"one"}`))
	value, err := db.Get(DocumentsBucket, "doc-1")
	assert.NoError(err)
	assert.Equal(`{"title":"one"}`, value)

	_, err = db.Get(CategoriesBucket, "doc-1")
	assert.ErrorIs(err, ErrNotFound, "buckets should not share keys")

	assert.NoError(db.Delete(DocumentsBucket, "doc-1"))
	_, err = db.Get(DocumentsBucket, "doc-1")
	assert.ErrorIs(err, ErrNotFound)
	var notFound *NotFoundError
	assert.ErrorAs(err, &notFound)
	assert.Equal(DocumentsBucket, notFound.Bucket)
}

func TestEmptyKeyIsRejected(t *testing.T) {
	assert := require.New(t)
	db := newTestDB(t, assert)

	assert.ErrorIs(db.Set(DocumentsBucket, "", "value"), ErrInvalidKey)
	_, err := db.Get(DocumentsBucket, "")
	assert.ErrorIs(err, ErrInvalidKey)
	assert.ErrorIs(db.Delete(DocumentsBucket, ""), ErrInvalidKey)
	_, err = db.Increment(CountersBucket, "")
	assert.ErrorIs(err, ErrInvalidKey)
}

func TestUnknownBucket(t *testing.T) {
	assert := require.New(t)
	db := newTestDB(t, assert)

	assert.Error(db.Set("missing", "key", "value"))
	_, err := db.GetAll("missing")
	assert.Error(err)
}

func TestGetAllAndCount(t *testing.T) {
	assert := require.New(t)
	db := newTestDB(t, assert)

	assert.NoError(db.Set(CategoriesBucket, "1", "AI"))
	assert.NoError(db.Set(CategoriesBucket, "2", "Programming"))

	values, err := db.GetAll(CategoriesBucket)
	assert.NoError(err)
	assert.Equal(map[string]string{"1": "AI", "2": "Programming"}, values)

	count, err := db.Count(CategoriesBucket)
	assert.NoError(err)
	assert.Equal(2, count)

	count, err = db.Count(DocumentsBucket)
	assert.NoError(err)
	assert.Zero(count)
}

func TestIncrementIsAtomic(t *testing.T) {
	assert := require.New(t)
	db := newTestDB(t, assert)

	counter, err := db.GetCounter(CountersBucket, "searches")
	assert.NoError(err)
	assert.Zero(counter)

	var wg sync.WaitGroup
	for range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = db.Increment(CountersBucket, "searches")
		}()
	}
	wg.Wait()

	counter, err = db.GetCounter(CountersBucket, "searches")
	assert.NoError(err)
	assert.Equal(uint64(20), counter)
}
