package portstest

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GibaTrindade/bot-seplag/internal/domain"
	"github.com/GibaTrindade/bot-seplag/internal/ports"
)

// SessionStoreContractTest is a reusable suite that verifies an adapter
// complies with ports.SessionStore. Expiry timing is implementation-specific
// and tested by each adapter separately.
func SessionStoreContractTest(t *testing.T, store ports.SessionStore) {
	t.Helper()
	ctx := context.Background()

	t.Run("Get_NotFound", func(t *testing.T) {
		_, err := store.Get(ctx, "ghost")
		assert.ErrorIs(t, err, domain.ErrSessionNotFound)
	})

	t.Run("Create_StartsAtCPF", func(t *testing.T) {
		sess, err := store.Create(ctx, "user-a")
		require.NoError(t, err)
		assert.Equal(t, "user-a", sess.UserID)
		assert.Equal(t, domain.StepCPF, sess.Step)

		loaded, err := store.Get(ctx, "user-a")
		require.NoError(t, err)
		assert.Equal(t, domain.StepCPF, loaded.Step)
	})

	t.Run("Replace_RoundTrip", func(t *testing.T) {
		_, err := store.Create(ctx, "user-b")
		require.NoError(t, err)

		sess := domain.NewSession("user-b")
		sess.Step = domain.StepMenu
		sess.CPF = "11122233344"
		require.NoError(t, store.Replace(ctx, "user-b", sess))

		loaded, err := store.Get(ctx, "user-b")
		require.NoError(t, err)
		assert.Equal(t, domain.StepMenu, loaded.Step)
		assert.Equal(t, "11122233344", loaded.CPF)
	})

	t.Run("Replace_IsolatesCaller", func(t *testing.T) {
		_, err := store.Create(ctx, "user-c")
		require.NoError(t, err)

		sess := domain.NewSession("user-c")
		sess.Candidates = []domain.CandidateRecord{{DisplayName: "Fulano", ExternalID: "1"}}
		require.NoError(t, store.Replace(ctx, "user-c", sess))

		// Mutating the caller's copy must not leak into the store.
		sess.Candidates[0].DisplayName = "mutated"

		loaded, err := store.Get(ctx, "user-c")
		require.NoError(t, err)
		assert.Equal(t, "Fulano", loaded.Candidates[0].DisplayName)
	})

	t.Run("Touch_AbsentIsNoop", func(t *testing.T) {
		assert.NoError(t, store.Touch(ctx, "ghost"))
	})

	t.Run("Delete_Idempotent", func(t *testing.T) {
		_, err := store.Create(ctx, "user-d")
		require.NoError(t, err)

		require.NoError(t, store.Delete(ctx, "user-d"))
		_, err = store.Get(ctx, "user-d")
		assert.ErrorIs(t, err, domain.ErrSessionNotFound)

		// Deleting again must not error.
		assert.NoError(t, store.Delete(ctx, "user-d"))
	})
}
