package store

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type record struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func TestGetPut(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	var got record
	err := s.Get(ctx, "missing", &got)
	assert.True(t, errors.Is(err, ErrNotFound), "got %v", err)

	require.NoError(t, s.Put(ctx, "current-session", record{Name: "a", Count: 1}))
	require.NoError(t, s.Get(ctx, "current-session", &got))
	assert.Equal(t, record{Name: "a", Count: 1}, got)

	require.NoError(t, s.Put(ctx, "current-session", record{Name: "b", Count: 2}))
	require.NoError(t, s.Get(ctx, "current-session", &got))
	assert.Equal(t, "b", got.Name)
}

func TestGet_CorruptValueIsAbsent(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	_, err := s.DB().Exec(`INSERT INTO kv (key, value, updated_at) VALUES ('bad', '{not json', 0)`)
	require.NoError(t, err)

	var got record
	err = s.Get(ctx, "bad", &got)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDelete(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Put(ctx, "k", record{Name: "x"}))
	require.NoError(t, s.Delete(ctx, "k"))
	require.NoError(t, s.Delete(ctx, "k"))

	var got record
	assert.ErrorIs(t, s.Get(ctx, "k", &got), ErrNotFound)
}

func TestAppend(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	for i := 1; i <= 3; i++ {
		require.NoError(t, s.Append(ctx, "submissions", record{Name: "s", Count: i}))
	}

	var list []record
	require.NoError(t, s.Get(ctx, "submissions", &list))
	require.Len(t, list, 3)
	for i, r := range list {
		assert.Equal(t, i+1, r.Count)
	}
}

func TestAppend_ReplacesCorruptList(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	_, err := s.DB().Exec(`INSERT INTO kv (key, value, updated_at) VALUES ('submissions', '"oops"', 0)`)
	require.NoError(t, err)

	require.NoError(t, s.Append(ctx, "submissions", record{Name: "first"}))

	var list []record
	require.NoError(t, s.Get(ctx, "submissions", &list))
	require.Len(t, list, 1)
	assert.Equal(t, "first", list[0].Name)
}

func TestAppend_Concurrent(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			assert.NoError(t, s.Append(ctx, "submissions", record{Count: i}))
		}(i)
	}
	wg.Wait()

	var list []record
	require.NoError(t, s.Get(ctx, "submissions", &list))
	assert.Len(t, list, 20)
}
