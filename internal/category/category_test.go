package category

import (
	"context"
	"testing"

	"github.com/Veraticus/finance-flex/internal/common"
	"github.com/Veraticus/finance-flex/internal/service"
	"github.com/Veraticus/finance-flex/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_Add(t *testing.T) {
	tests := []struct {
		wantErr  error
		name     string
		input    string
		stored   string
		existing []string
	}{
		{name: "new category", input: "Food", stored: "Food"},
		{name: "trims whitespace", input: "  Pets  ", stored: "Pets"},
		{name: "exact duplicate", input: "Food", existing: []string{"Food"}, wantErr: common.ErrDuplicate},
		{name: "duplicate after trim", input: " Food ", existing: []string{"Food"}, wantErr: common.ErrDuplicate},
		{name: "case differs", input: "food", existing: []string{"Food"}, stored: "food"},
		{name: "empty", input: "", wantErr: common.ErrValidation},
		{name: "whitespace only", input: " \t ", wantErr: common.ErrValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := testutil.SetupTestStore(t)
			if tt.existing != nil {
				testutil.Seed(t, store, service.CollectionCategories, tt.existing...)
			}
			r := New(store)

			got, err := r.Add(context.Background(), tt.input)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				categories, err := r.List(context.Background())
				require.NoError(t, err)
				assert.Len(t, categories, len(tt.existing))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.stored, got)

			categories, err := r.List(context.Background())
			require.NoError(t, err)
			assert.Equal(t, append(tt.existing, tt.stored), categories)
		})
	}
}

func TestRegistry_AddTwiceKeepsOne(t *testing.T) {
	ctx := context.Background()
	r := New(testutil.SetupTestStore(t))

	_, err := r.Add(ctx, "Food")
	require.NoError(t, err)
	_, err = r.Add(ctx, "Food")
	assert.ErrorIs(t, err, common.ErrDuplicate)

	categories, err := r.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Food"}, categories)
}

func TestRegistry_Remove(t *testing.T) {
	ctx := context.Background()
	store := testutil.SetupTestStore(t)
	testutil.Seed(t, store, service.CollectionCategories, "A", "B", "C")
	r := New(store)

	removed, err := r.Remove(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "B", removed)

	for _, index := range []int{-1, 2, 99} {
		_, err = r.Remove(ctx, index)
		assert.ErrorIs(t, err, common.ErrValidation, "index %d", index)
	}

	categories, err := r.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "C"}, categories)
}

func TestRegistry_SeedDefaults(t *testing.T) {
	ctx := context.Background()
	r := New(testutil.SetupTestStore(t))

	seeded, err := r.SeedDefaults(ctx)
	require.NoError(t, err)
	assert.True(t, seeded)

	categories, err := r.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, Defaults, categories)

	_, err = r.Remove(ctx, 0)
	require.NoError(t, err)

	seeded, err = r.SeedDefaults(ctx)
	require.NoError(t, err)
	assert.False(t, seeded, "an existing list is never reseeded")

	categories, err = r.List(ctx)
	require.NoError(t, err)
	assert.Len(t, categories, len(Defaults)-1)
}

func TestRegistry_SeedSkipsEmptyList(t *testing.T) {
	store := testutil.SetupTestStore(t)
	testutil.Seed[string](t, store, service.CollectionCategories)

	seeded, err := New(store).SeedDefaults(context.Background())
	require.NoError(t, err)
	assert.False(t, seeded)
}
