package seed

import (
	"context"
	"testing"
	"time"

	"github.com/rpggio/workboard/internal/domain/record"
	"github.com/rpggio/workboard/internal/memory"
	"github.com/rpggio/workboard/internal/recordstore"
	"github.com/rpggio/workboard/internal/relation"
	"github.com/stretchr/testify/require"
)

func TestApply(t *testing.T) {
	ctx := context.Background()
	docs := memory.New()
	defer docs.Close()

	now := time.Now()
	require.NoError(t, Apply(ctx, docs, now))
	// Reapplying replaces rather than duplicates.
	require.NoError(t, Apply(ctx, docs, now))

	for collection, want := range map[string]int{"projects": 5, "employees": 4, "contracts": 3} {
		all, err := docs.FetchAll(ctx, collection)
		require.NoError(t, err)
		require.Len(t, all, want, collection)
	}
}

func TestSeedMembersResolve(t *testing.T) {
	employees := recordstore.New(record.KindEmployee)
	employees.ReplaceAll(Employees(time.Now()))

	var placeholders int
	for _, p := range Projects(time.Now()) {
		for _, m := range relation.ResolveMembers(p.Strings("members"), employees) {
			if m.Placeholder {
				placeholders++
				require.Equal(t, "e.tu@company.com", m.Email)
			}
		}
	}
	require.Equal(t, 1, placeholders)
}
