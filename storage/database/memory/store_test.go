package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KS-2006-TD/LMS/core/lms"
)

func TestStore_SaveLoad(t *testing.T) {
	ctx := context.Background()
	s := Open()

	snap, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(0), snap.Version)
	assert.Empty(t, snap.Courses)

	snap.Courses = append(snap.Courses, lms.Course{ID: "c1", Title: "Go"})
	require.NoError(t, s.Save(ctx, snap))
	assert.Equal(t, int64(1), snap.Version)

	// mutating the saved snapshot must not leak into the store
	snap.Courses[0].Title = "changed"

	got, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), got.Version)
	assert.Equal(t, []lms.Course{{ID: "c1", Title: "Go"}}, got.Courses)
}

func TestStore_SaveStale(t *testing.T) {
	ctx := context.Background()
	s := Open()

	first, _ := s.Load(ctx)
	second, _ := s.Load(ctx)

	require.NoError(t, s.Save(ctx, first))
	err := s.Save(ctx, second)
	assert.Equal(t, lms.ErrVersionConflict, err)
	assert.Equal(t, int64(0), second.Version)
}
