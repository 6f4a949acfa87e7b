package memory

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/utafrali/storefront/internal/domain"
)

func TestCartRepository_AppendAndList(t *testing.T) {
	repo := NewCartRepository()
	ctx := context.Background()

	require.NoError(t, repo.Append(ctx, "c1", domain.CartItem{ID: "1", Slug: "tee", SelectedSize: "S"}))
	require.NoError(t, repo.Append(ctx, "c1", domain.CartItem{ID: "2", Slug: "tee", SelectedSize: "S"}))
	require.NoError(t, repo.Append(ctx, "c2", domain.CartItem{ID: "3", Slug: "cap"}))

	items, err := repo.List(ctx, "c1")
	require.NoError(t, err)
	require.Len(t, items, 2, "two adds produce two lines")
	assert.Equal(t, "1", items[0].ID)
	assert.Equal(t, "2", items[1].ID)
}

func TestCartRepository_ListUnknownCartIsEmpty(t *testing.T) {
	items, err := NewCartRepository().List(context.Background(), "nope")
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestCartRepository_ListReturnsCopy(t *testing.T) {
	repo := NewCartRepository()
	ctx := context.Background()
	require.NoError(t, repo.Append(ctx, "c1", domain.CartItem{ID: "1"}))

	items, _ := repo.List(ctx, "c1")
	items[0].ID = "mutated"

	again, _ := repo.List(ctx, "c1")
	assert.Equal(t, "1", again[0].ID)
}

func TestCartRepository_ConcurrentAppends(t *testing.T) {
	repo := NewCartRepository()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_ = repo.Append(ctx, "c1", domain.CartItem{ID: fmt.Sprint(i)})
		}(i)
	}
	wg.Wait()

	items, err := repo.List(ctx, "c1")
	require.NoError(t, err)
	assert.Len(t, items, 50)
}
