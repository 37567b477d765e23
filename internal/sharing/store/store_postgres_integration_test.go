//go:build integration

package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"skillchain/internal/sharing/models"
	"skillchain/internal/sharing/store"
	"skillchain/pkg/platform/sentinel"
	"skillchain/pkg/testutil"
	"skillchain/pkg/testutil/containers"
)

type PostgresStoreSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	store    *store.PostgresStore
	now      time.Time
}

func TestPostgresStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresStoreSuite))
}

func (s *PostgresStoreSuite) SetupSuite() {
	s.postgres = containers.GetManager().GetPostgres(s.T())
	s.store = store.NewPostgres(s.postgres.DB)
	s.now = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
}

func (s *PostgresStoreSuite) SetupTest() {
	s.Require().NoError(s.postgres.TruncateModuleTables(context.Background()))
}

func (s *PostgresStoreSuite) TestRoundTrip() {
	ctx := context.Background()
	expiry := s.now.Add(24 * time.Hour)
	s.Require().NoError(s.store.Save(ctx, &models.ShareLink{
		ShareID:        "share_rt_1",
		Owner:          "0xa11ce",
		CredentialIDs:  []string{"c1", "c2"},
		Description:    "for recruiters",
		CreatedAt:      s.now,
		ExpiryDate:     &expiry,
		IsActive:       true,
		MaxAccessCount: 3,
	}))

	got, err := s.store.FindByID(ctx, "share_rt_1")
	s.Require().NoError(err)
	s.Equal([]string{"c1", "c2"}, got.CredentialIDs)
	s.Equal(3, got.MaxAccessCount)
	s.Require().NotNil(got.ExpiryDate)
	s.True(got.ExpiryDate.Equal(expiry))
	s.Nil(got.LastAccessedAt)

	_, err = s.store.FindByID(ctx, "share_missing_1")
	s.ErrorIs(err, sentinel.ErrNotFound)
}

func (s *PostgresStoreSuite) TestUnlimitedLinksStoreNull() {
	ctx := context.Background()
	s.Require().NoError(s.store.Save(ctx, &models.ShareLink{ShareID: "share_un_1", Owner: "0xa11ce", CreatedAt: s.now, IsActive: true}))

	var isNull bool
	s.Require().NoError(s.postgres.DB.QueryRowContext(ctx,
		`SELECT max_access_count IS NULL FROM shared_links WHERE share_id = 'share_un_1'`).Scan(&isNull))
	s.True(isNull)

	link, err := s.store.RecordAccess(ctx, "share_un_1", s.now)
	s.Require().NoError(err)
	s.Equal(1, link.AccessCount)
	s.Zero(link.MaxAccessCount)
}

func (s *PostgresStoreSuite) TestRecordAccessRejectsInactiveLinks() {
	ctx := context.Background()
	past := s.now.Add(-time.Second)
	links := []*models.ShareLink{
		{ShareID: "share_rev_1", IsActive: false},
		{ShareID: "share_exp_1", IsActive: true, ExpiryDate: &past},
		{ShareID: "share_lim_1", IsActive: true, AccessCount: 2, MaxAccessCount: 2},
	}
	for _, l := range links {
		l.Owner = "0xa11ce"
		l.CreatedAt = s.now
		s.Require().NoError(s.store.Save(ctx, l))
	}

	for _, l := range links {
		_, err := s.store.RecordAccess(ctx, l.ShareID, s.now)
		s.ErrorIs(err, sentinel.ErrInvalidState, l.ShareID.String())

		stored, err := s.store.FindByID(ctx, l.ShareID)
		s.Require().NoError(err)
		s.Equal(l.AccessCount, stored.AccessCount)
	}
}

func (s *PostgresStoreSuite) TestConcurrentAccessNeverExceedsLimit() {
	ctx := context.Background()
	s.Require().NoError(s.store.Save(ctx, &models.ShareLink{
		ShareID: "share_conc_1", Owner: "0xa11ce", CreatedAt: s.now, IsActive: true, MaxAccessCount: 5,
	}))

	res := testutil.RunConcurrent(40, func(int) error {
		_, err := s.store.RecordAccess(ctx, "share_conc_1", s.now)
		return err
	})

	s.Equal(int32(5), res.Successes)
	s.Equal(int32(35), res.InvalidStates)
	s.Zero(res.Errors)

	stored, err := s.store.FindByID(ctx, "share_conc_1")
	s.Require().NoError(err)
	s.Equal(5, stored.AccessCount)
}

func (s *PostgresStoreSuite) TestConcurrentAccessToUnlimitedLinkCountsEveryAccess() {
	ctx := context.Background()
	s.Require().NoError(s.store.Save(ctx, &models.ShareLink{
		ShareID: "share_conc_2", Owner: "0xa11ce", CreatedAt: s.now, IsActive: true, AccessCount: 7,
	}))

	res := testutil.RunConcurrent(50, func(int) error {
		_, err := s.store.RecordAccess(ctx, "share_conc_2", s.now)
		return err
	})

	s.Equal(int32(50), res.Successes)
	s.Zero(res.InvalidStates)
	s.Zero(res.Errors)

	stored, err := s.store.FindByID(ctx, "share_conc_2")
	s.Require().NoError(err)
	s.Equal(57, stored.AccessCount)
}
