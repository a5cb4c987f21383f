package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLLMEvents_AppendAndQuery(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	events := []LLMRequestEventData{
		{Provider: "openai", Model: "gpt-4o-mini", Purpose: "grading", SessionID: "s1", InputTokens: 100, OutputTokens: 20, LatencyMs: 300, Success: true},
		{Provider: "openai", Model: "gpt-4o-mini", Purpose: "grading", InputTokens: 50, OutputTokens: 10, LatencyMs: 100, Success: false, ErrorMessage: "rate limited"},
		{Provider: "mock", Model: "mock", Purpose: "other", InputTokens: 1, OutputTokens: 1, Success: true,
			RequestBody: "[user]\nhello", ResponseBody: `{"ok":true}`},
	}
	for _, e := range events {
		require.NoError(t, repo.AppendLLMRequest(ctx, e))
	}

	all, err := repo.QueryLLMEvents(ctx, QueryOpts{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	// Newest first.
	assert.Equal(t, "other", all[0].Purpose)
	assert.Greater(t, all[0].Sequence, all[1].Sequence)

	limited, err := repo.QueryLLMEvents(ctx, QueryOpts{Limit: 2})
	require.NoError(t, err)
	assert.Len(t, limited, 2)

	grading, err := repo.QueryLLMEvents(ctx, QueryOpts{Purpose: "grading"})
	require.NoError(t, err)
	assert.Len(t, grading, 2)

	bySession, err := repo.QueryLLMEvents(ctx, QueryOpts{Session: "s1"})
	require.NoError(t, err)
	require.Len(t, bySession, 1)
	assert.Equal(t, "s1", bySession[0].SessionID)
	assert.Equal(t, 300, int(bySession[0].LatencyMs))

	after, err := repo.QueryLLMEvents(ctx, QueryOpts{After: all[1].Sequence})
	require.NoError(t, err)
	require.Len(t, after, 1)
	assert.Equal(t, all[0].ID, after[0].ID)

	got, err := repo.GetLLMEvent(ctx, all[0].ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, `{"ok":true}`, got.ResponseBody)
	assert.Equal(t, "[user]\nhello", got.RequestBody)
	assert.True(t, got.Success)
	assert.False(t, got.Timestamp.IsZero())

	failed, err := repo.GetLLMEvent(ctx, all[1].ID)
	require.NoError(t, err)
	assert.False(t, failed.Success)
	assert.Equal(t, "rate limited", failed.ErrorMessage)
}

func TestLLMEvents_GetMissing(t *testing.T) {
	s := openTestStore(t)

	got, err := s.EventRepo().GetLLMEvent(context.Background(), 42)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestLLMUsage(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	require.NoError(t, repo.AppendLLMRequest(ctx, LLMRequestEventData{Model: "a", Purpose: "grading", InputTokens: 10, OutputTokens: 5, LatencyMs: 100}))
	require.NoError(t, repo.AppendLLMRequest(ctx, LLMRequestEventData{Model: "a", Purpose: "grading", InputTokens: 20, OutputTokens: 5, LatencyMs: 300}))
	require.NoError(t, repo.AppendLLMRequest(ctx, LLMRequestEventData{Model: "b", Purpose: "other", InputTokens: 1, OutputTokens: 1, LatencyMs: 10}))

	byPurpose, err := repo.LLMUsageByPurpose(ctx)
	require.NoError(t, err)
	require.Len(t, byPurpose, 2)
	assert.Equal(t, PurposeUsage{Purpose: "grading", Calls: 2, InputTokens: 30, OutputTokens: 10, AvgLatencyMs: 200}, byPurpose[0])

	byModel, err := repo.LLMUsageByModel(ctx)
	require.NoError(t, err)
	require.Len(t, byModel, 2)
	assert.Equal(t, ModelUsage{Model: "b", Calls: 1, InputTokens: 1, OutputTokens: 1}, byModel[1])
}
