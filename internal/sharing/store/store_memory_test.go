package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"skillchain/internal/sharing/models"
	"skillchain/pkg/platform/sentinel"
	"skillchain/pkg/testutil"
)

func TestRecordAccess(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	t.Run("increments and stamps the access", func(t *testing.T) {
		s := New()
		require.NoError(t, s.Save(ctx, &models.ShareLink{ShareID: "share_a_1", IsActive: true}))

		link, err := s.RecordAccess(ctx, "share_a_1", now)
		require.NoError(t, err)
		assert.Equal(t, 1, link.AccessCount)
		require.NotNil(t, link.LastAccessedAt)
		assert.True(t, link.LastAccessedAt.Equal(now))

		stored, err := s.FindByID(ctx, "share_a_1")
		require.NoError(t, err)
		assert.Equal(t, 1, stored.AccessCount)
	})

	t.Run("denied access leaves the link unchanged", func(t *testing.T) {
		s := New()
		past := now.Add(-time.Minute)
		require.NoError(t, s.Save(ctx, &models.ShareLink{ShareID: "share_b_1", IsActive: true, ExpiryDate: &past}))

		_, err := s.RecordAccess(ctx, "share_b_1", now)
		assert.ErrorIs(t, err, sentinel.ErrInvalidState)

		stored, err := s.FindByID(ctx, "share_b_1")
		require.NoError(t, err)
		assert.Zero(t, stored.AccessCount)
		assert.Nil(t, stored.LastAccessedAt)
	})

	t.Run("missing link", func(t *testing.T) {
		_, err := New().RecordAccess(ctx, "share_c_1", now)
		assert.ErrorIs(t, err, sentinel.ErrNotFound)
	})

	t.Run("concurrent accesses never exceed the limit", func(t *testing.T) {
		s := New()
		require.NoError(t, s.Save(ctx, &models.ShareLink{ShareID: "share_d_1", IsActive: true, MaxAccessCount: 5}))

		res := testutil.RunConcurrent(50, func(int) error {
			_, err := s.RecordAccess(ctx, "share_d_1", now)
			return err
		})

		assert.Equal(t, int32(5), res.Successes)
		assert.Equal(t, int32(45), res.InvalidStates)
		stored, err := s.FindByID(ctx, "share_d_1")
		require.NoError(t, err)
		assert.Equal(t, 5, stored.AccessCount)
	})

	t.Run("concurrent accesses to an unlimited link are all counted", func(t *testing.T) {
		s := New()
		require.NoError(t, s.Save(ctx, &models.ShareLink{ShareID: "share_f_1", IsActive: true, AccessCount: 7}))

		res := testutil.RunConcurrent(50, func(int) error {
			_, err := s.RecordAccess(ctx, "share_f_1", now)
			return err
		})

		assert.Equal(t, int32(50), res.Successes)
		assert.Equal(t, int32(50), res.Total())
		stored, err := s.FindByID(ctx, "share_f_1")
		require.NoError(t, err)
		assert.Equal(t, 57, stored.AccessCount)
	})

	t.Run("returned links are copies", func(t *testing.T) {
		s := New()
		require.NoError(t, s.Save(ctx, &models.ShareLink{ShareID: "share_e_1", IsActive: true, CredentialIDs: []string{"c1"}}))
		link, err := s.FindByID(ctx, "share_e_1")
		require.NoError(t, err)
		link.CredentialIDs[0] = "changed"

		again, err := s.FindByID(ctx, "share_e_1")
		require.NoError(t, err)
		assert.Equal(t, []string{"c1"}, again.CredentialIDs)
	})
}
