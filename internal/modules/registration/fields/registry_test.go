package fields

import (
	"context"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zivana-montessori/core/internal/database/databasetest"
	"go.uber.org/zap"
)

func ptr[T any](v T) *T { return &v }

func names(defs []Definition) []string {
	out := make([]string, 0, len(defs))
	for _, d := range defs {
		out = append(out, d.Name)
	}
	return out
}

// stores runs fn against both Store implementations.
func stores(t *testing.T, fn func(t *testing.T, store Store)) {
	t.Run("memory", func(t *testing.T) { fn(t, NewMemoryStore()) })
	t.Run("gorm", func(t *testing.T) { fn(t, NewGormStore(databasetest.Open(t))) })
}

func TestListAllSeedsDefaultsOnce(t *testing.T) {
	stores(t, func(t *testing.T, store Store) {
		ctx := context.Background()
		reg := NewRegistry(store, zap.NewNop())

		first, err := reg.ListAll(ctx)
		require.NoError(t, err)
		if diff := cmp.Diff(Defaults(), first); diff != "" {
			t.Fatalf("seeded fields mismatch (-want +got):\n%s", diff)
		}

		second, err := reg.ListAll(ctx)
		require.NoError(t, err)
		assert.Len(t, second, 6)
	})
}

func TestListAllSeedsOnceUnderConcurrency(t *testing.T) {
	stores(t, func(t *testing.T, store Store) {
		ctx := context.Background()
		reg := NewRegistry(store, zap.NewNop())

		var wg sync.WaitGroup
		for i := 0; i < 8; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, _ = reg.ListAll(ctx)
			}()
		}
		wg.Wait()

		all, err := store.List(ctx)
		require.NoError(t, err)
		assert.Len(t, all, 6)
	})
}

func TestListAllIsStableForEveryInsertionOrder(t *testing.T) {
	base := []Definition{
		{Name: "a", Label: "A", Kind: KindText, Enabled: true, Order: 2},
		{Name: "b", Label: "B", Kind: KindText, Enabled: true, Order: 1},
		{Name: "c", Label: "C", Kind: KindText, Enabled: true, Order: 2},
		{Name: "d", Label: "D", Kind: KindText, Enabled: true, Order: 1},
	}
	permutations := [][]int{
		{0, 1, 2, 3}, {3, 2, 1, 0}, {2, 0, 3, 1}, {1, 3, 0, 2}, {0, 2, 1, 3}, {2, 3, 0, 1},
	}

	for _, perm := range permutations {
		store := NewMemoryStore()
		var inserted []Definition
		for _, i := range perm {
			_, err := store.Insert(context.Background(), base[i])
			require.NoError(t, err)
			inserted = append(inserted, base[i])
		}

		got, err := NewRegistry(store, zap.NewNop()).ListAll(context.Background())
		require.NoError(t, err)

		// Expected: order-1 fields in insertion order, then order-2 fields in insertion order.
		var want []string
		for _, order := range []int{1, 2} {
			for _, d := range inserted {
				if d.Order == order {
					want = append(want, d.Name)
				}
			}
		}
		assert.Equal(t, want, names(got), "insertion permutation %v", perm)
	}
}

func TestGormStoreBreaksTiesByInsertion(t *testing.T) {
	ctx := context.Background()
	store := NewGormStore(databasetest.Open(t))
	for _, d := range []Definition{
		{Name: "zeta", Label: "Z", Kind: KindText, Order: 3},
		{Name: "alpha", Label: "A", Kind: KindText, Order: 3},
		{Name: "mid", Label: "M", Kind: KindText, Order: 1},
	} {
		_, err := store.Insert(ctx, d)
		require.NoError(t, err)
	}

	got, err := NewRegistry(store, zap.NewNop()).ListAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"mid", "zeta", "alpha"}, names(got))
}

func TestDisablingKeepsFieldInListAll(t *testing.T) {
	stores(t, func(t *testing.T, store Store) {
		ctx := context.Background()
		reg := NewRegistry(store, zap.NewNop())

		_, err := reg.Upsert(ctx, "address", Patch{Enabled: ptr(false)})
		require.NoError(t, err)

		all, err := reg.ListAll(ctx)
		require.NoError(t, err)
		assert.Contains(t, names(all), "address")

		enabled, err := reg.ListEnabled(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"childName", "parentName", "email", "phone", "message"}, names(enabled))
	})
}

func TestCreate(t *testing.T) {
	stores(t, func(t *testing.T, store Store) {
		ctx := context.Background()
		reg := NewRegistry(store, zap.NewNop())

		created, err := reg.Create(ctx, CreateInput{Name: "birthDate", Label: "Tanggal Lahir", Kind: "text"})
		require.NoError(t, err)
		assert.True(t, created.Required)
		assert.True(t, created.Enabled)
		assert.Equal(t, 7, created.Order)

		optional, err := reg.Create(ctx, CreateInput{Name: "siblings", Label: "Saudara", Kind: "number", Required: ptr(false), Order: ptr(0)})
		require.NoError(t, err)
		assert.False(t, optional.Required)

		all, err := reg.ListAll(ctx)
		require.NoError(t, err)
		assert.Equal(t, "siblings", all[0].Name)
		assert.Equal(t, "birthDate", all[len(all)-1].Name)

		_, err = reg.Create(ctx, CreateInput{Name: "email", Label: "Email lagi", Kind: "email"})
		assert.ErrorIs(t, err, ErrConflict)
	})
}

func TestCreateRejectsInvalidInput(t *testing.T) {
	reg := NewRegistry(NewMemoryStore(), zap.NewNop())
	tests := []struct {
		name string
		in   CreateInput
	}{
		{"missing label", CreateInput{Name: "x", Kind: "text"}},
		{"blank label", CreateInput{Name: "x", Label: "  ", Kind: "text"}},
		{"missing kind", CreateInput{Name: "x", Label: "X"}},
		{"unknown kind", CreateInput{Name: "x", Label: "X", Kind: "date"}},
		{"missing name", CreateInput{Label: "X", Kind: "text"}},
		{"name with brace", CreateInput{Name: "a}b", Label: "X", Kind: "text"}},
		{"name starting with digit", CreateInput{Name: "1a", Label: "X", Kind: "text"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := reg.Create(context.Background(), tt.in)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestUpsert(t *testing.T) {
	stores(t, func(t *testing.T, store Store) {
		ctx := context.Background()
		reg := NewRegistry(store, zap.NewNop())
		_, err := reg.ListAll(ctx)
		require.NoError(t, err)

		updated, err := reg.Upsert(ctx, "phone", Patch{
			Label:    ptr("WhatsApp"),
			Kind:     ptr("TEXT"),
			Required: ptr(false),
			Order:    ptr(10),
		})
		require.NoError(t, err)
		assert.Equal(t, Definition{
			Name: "phone", Label: "WhatsApp", Placeholder: "08123456789",
			Kind: KindText, Required: false, Enabled: true, Order: 10,
		}, updated)

		got, err := reg.Get(ctx, "phone")
		require.NoError(t, err)
		assert.Equal(t, updated, got)

		_, err = reg.Upsert(ctx, "nope", Patch{Label: ptr("x")})
		assert.ErrorIs(t, err, ErrNotFound)

		_, err = reg.Upsert(ctx, "phone", Patch{Name: ptr("mobile")})
		assert.ErrorIs(t, err, ErrInvalidInput)

		_, err = reg.Upsert(ctx, "phone", Patch{Name: ptr("phone"), Label: ptr("Telepon")})
		assert.NoError(t, err)

		_, err = reg.Upsert(ctx, "phone", Patch{Kind: ptr("select")})
		assert.ErrorIs(t, err, ErrInvalidInput)

		_, err = reg.Upsert(ctx, "phone", Patch{Label: ptr("")})
		assert.ErrorIs(t, err, ErrInvalidInput)
	})
}

func TestRemove(t *testing.T) {
	stores(t, func(t *testing.T, store Store) {
		ctx := context.Background()
		reg := NewRegistry(store, zap.NewNop())
		_, err := reg.ListAll(ctx)
		require.NoError(t, err)

		require.NoError(t, reg.Remove(ctx, "message"))
		assert.ErrorIs(t, reg.Remove(ctx, "message"), ErrNotFound)

		_, err = reg.Get(ctx, "message")
		assert.ErrorIs(t, err, ErrNotFound)
	})
}
