//go:build integration

package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"skillchain/internal/credential/models"
	"skillchain/internal/credential/store"
	"skillchain/pkg/domain"
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

func (s *PostgresStoreSuite) TestListByHolder() {
	ctx := context.Background()
	issued := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	expiry := issued.AddDate(2, 0, 0)
	onChain := domain.CredentialID(42)
	s.postgres.SeedIssuer(ctx, s.T(), "0xaaa", "Acme")

	s.Require().NoError(s.store.Save(ctx, &models.Credential{
		ID: "cred-2", OnChainID: &onChain, CredentialName: "Go", Holder: "0xh01d", IssuerRef: "0xaaa",
		IssuedDate: issued, CanExpire: true, ExpiryDate: &expiry, SkillLevel: "Expert", Status: true,
	}))
	s.Require().NoError(s.store.Save(ctx, &models.Credential{
		ID: "cred-1", CredentialName: "SQL", Holder: "0xh01d", IssuedDate: issued, Status: true,
	}))
	s.Require().NoError(s.store.Save(ctx, &models.Credential{
		ID: "cred-3", CredentialName: "Rust", Holder: "0xother", IssuedDate: issued,
	}))

	got, err := s.store.ListByHolder(ctx, "0xh01d")
	s.Require().NoError(err)
	s.Require().Len(got, 2)
	s.Equal("cred-1", got[0].ID)
	s.Nil(got[0].OnChainID)
	s.True(got[0].IssuerRef.IsZero())

	s.Equal("cred-2", got[1].ID)
	s.Require().NotNil(got[1].OnChainID)
	s.Equal(onChain, *got[1].OnChainID)
	s.Equal(domain.Address("0xaaa"), got[1].IssuerRef)
	s.Require().NotNil(got[1].ExpiryDate)
	s.True(got[1].ExpiryDate.Equal(expiry))
}
