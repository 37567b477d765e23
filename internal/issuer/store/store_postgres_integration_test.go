//go:build integration

package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"skillchain/internal/issuer/models"
	"skillchain/internal/issuer/store"
	"skillchain/pkg/domain"
	"skillchain/pkg/platform/sentinel"
	"skillchain/pkg/testutil/containers"
)

type PostgresStoreSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	store    *store.PostgresStore
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
}

func (s *PostgresStoreSuite) SetupTest() {
	s.Require().NoError(s.postgres.TruncateModuleTables(context.Background()))
}

func (s *PostgresStoreSuite) TestFindByAddresses() {
	ctx := context.Background()
	s.postgres.SeedIssuer(ctx, s.T(), "0xaaa", "Acme")
	s.postgres.SeedIssuer(ctx, s.T(), "0xbbb", "Globex")

	got, err := s.store.FindByAddresses(ctx, []domain.Address{"0xaaa", "0xbbb", "0xccc"})
	s.Require().NoError(err)
	s.Len(got, 2)
	s.Equal("Acme", got["0xaaa"].OrganizationName)
	s.Equal("Globex", got["0xbbb"].OrganizationName)

	empty, err := s.store.FindByAddresses(ctx, nil)
	s.Require().NoError(err)
	s.Empty(empty)
}

func (s *PostgresStoreSuite) TestUpsertVerificationStatus() {
	ctx := context.Background()
	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	s.postgres.SeedIssuer(ctx, s.T(), "0xaaa", "Acme")

	s.Require().NoError(s.store.UpsertVerificationStatus(ctx, models.VerificationStatus{
		Address: "0xaaa", Domain: "acme.io", IsVerified: true, VerifiedAt: now, UpdatedAt: now,
	}))
	got, err := s.store.FindByAddress(ctx, "0xaaa")
	s.Require().NoError(err)
	s.Equal("Acme", got.OrganizationName)
	s.Equal("acme.io", got.Domain)
	s.True(got.IsVerified)
	s.Require().NotNil(got.VerifiedAt)
	s.True(got.VerifiedAt.Equal(now))

	s.Require().NoError(s.store.UpsertVerificationStatus(ctx, models.VerificationStatus{
		Address: "0xnew", Domain: "new.io", IsVerified: true, VerifiedAt: now, UpdatedAt: now,
	}))
	created, err := s.store.FindByAddress(ctx, "0xnew")
	s.Require().NoError(err)
	s.Equal(models.UnknownIssuer, created.DisplayName())

	_, err = s.store.FindByAddress(ctx, "0xmissing")
	s.ErrorIs(err, sentinel.ErrNotFound)
}
