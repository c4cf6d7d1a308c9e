package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/ganot/pmdash/internal/domain/activity"
	"github.com/ganot/pmdash/internal/repository"
	"github.com/stretchr/testify/require"
)

func TestActivityRepository_LogList(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()

	repo := NewActivityRepository(db)
	projectID := "p1"
	now := time.Now()
	entry1 := &activity.Entry{
		ProjectID: &projectID,
		UserID:    "u1",
		Kind:      activity.KindStatusChanged,
		Outcome:   activity.OutcomeSucceeded,
		Summary:   "status changed to IN_PROGRESS",
		CreatedAt: now,
	}
	entry2 := &activity.Entry{
		ProjectID: &projectID,
		Kind:      activity.KindArchived,
		Outcome:   activity.OutcomeFailed,
		Summary:   "Not allowed",
		ErrorKind: "forbidden",
		RequestID: "req-1",
		CreatedAt: now.Add(time.Second),
	}

	require.NoError(t, repo.Log(ctx, "w1", entry1))
	require.NoError(t, repo.Log(ctx, "w1", entry2))
	require.NotZero(t, entry1.ID)
	require.Equal(t, "w1", entry2.WorkspaceID)

	entries, err := repo.List(ctx, "w1", activity.ListOptions{ProjectID: &projectID})
	require.NoError(t, err)
	require.Len(t, entries, 2)
	require.Equal(t, activity.KindArchived, entries[0].Kind)
	require.Equal(t, "forbidden", entries[0].ErrorKind)
	require.Equal(t, "req-1", entries[0].RequestID)
	require.Equal(t, activity.KindStatusChanged, entries[1].Kind)
	require.Equal(t, "u1", entries[1].UserID)
}

func TestActivityRepository_FiltersAndWorkspaceIsolation(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	repo := NewActivityRepository(db)

	p1, p2 := "p1", "p2"
	base := time.Now()
	for i, e := range []*activity.Entry{
		{ProjectID: &p1, Kind: activity.KindSaved, Outcome: activity.OutcomeSucceeded, Summary: "saved"},
		{ProjectID: &p2, Kind: activity.KindDeleted, Outcome: activity.OutcomeSucceeded, Summary: "deleted"},
		{Kind: activity.KindRandomAssign, Outcome: activity.OutcomeNotice, Summary: "nobody available"},
	} {
		e.CreatedAt = base.Add(time.Duration(i) * time.Second)
		require.NoError(t, repo.Log(ctx, "w1", e))
	}
	require.NoError(t, repo.Log(ctx, "w2", &activity.Entry{Kind: activity.KindSaved, Outcome: activity.OutcomeSucceeded, Summary: "other"}))

	all, err := repo.List(ctx, "w1", activity.ListOptions{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	require.Nil(t, all[0].ProjectID)

	kind := activity.KindDeleted
	deleted, err := repo.List(ctx, "w1", activity.ListOptions{Kind: &kind})
	require.NoError(t, err)
	require.Len(t, deleted, 1)
	require.Equal(t, "p2", *deleted[0].ProjectID)

	notice := activity.OutcomeNotice
	notices, err := repo.List(ctx, "w1", activity.ListOptions{Outcome: &notice})
	require.NoError(t, err)
	require.Len(t, notices, 1)

	page, err := repo.List(ctx, "w1", activity.ListOptions{Limit: 1, Offset: 1})
	require.NoError(t, err)
	require.Len(t, page, 1)
	require.Equal(t, activity.KindDeleted, page[0].Kind)

	offsetOnly, err := repo.List(ctx, "w1", activity.ListOptions{Offset: 2})
	require.NoError(t, err)
	require.Len(t, offsetOnly, 1)
}

func TestActivityRepository_RejectsUnknownOutcome(t *testing.T) {
	repo := NewActivityRepository(NewTestDB(t))
	err := repo.Log(context.Background(), "w1", &activity.Entry{Kind: activity.KindSaved, Outcome: "maybe", Summary: "x"})
	require.ErrorIs(t, err, repository.ErrInvalidInput)
}
