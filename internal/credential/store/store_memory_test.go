package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"skillchain/internal/credential/models"
	"skillchain/pkg/domain"
)

func TestInMemoryStore(t *testing.T) {
	ctx := context.Background()
	s := New()
	alice := domain.Address("0xa11ce")

	list, err := s.ListByHolder(ctx, alice)
	require.NoError(t, err)
	assert.Empty(t, list)

	require.NoError(t, s.Save(ctx, &models.Credential{ID: "b", Holder: alice}))
	require.NoError(t, s.Save(ctx, &models.Credential{ID: "a", Holder: alice}))
	require.NoError(t, s.Save(ctx, &models.Credential{ID: "c", Holder: "0xb0b"}))
	assert.Error(t, s.Save(ctx, &models.Credential{Holder: alice}))

	list, err = s.ListByHolder(ctx, alice)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "a", list[0].ID)
	assert.Equal(t, "b", list[1].ID)

	list[0].CredentialName = "mutated"
	again, err := s.ListByHolder(ctx, alice)
	require.NoError(t, err)
	assert.Empty(t, again[0].CredentialName)
}
