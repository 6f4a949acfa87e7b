package page

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/utafrali/storefront/internal/domain"
	"github.com/utafrali/storefront/internal/repository/memory"
	"github.com/utafrali/storefront/internal/service"
)

type recordingDispatcher struct {
	mu    sync.Mutex
	calls []string
	err   error
}

func (d *recordingDispatcher) AddItem(_ context.Context, cartID string, p *domain.Product, size string, unitPrice domain.Money) (*domain.CartItem, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.calls = append(d.calls, p.Slug+"/"+size)
	if d.err != nil {
		return nil, d.err
	}
	item := domain.CartItem{Slug: p.Slug, SelectedSize: size, OneQuantityPrice: unitPrice}
	return &item, nil
}

func tee() *domain.Product {
	original := domain.Money(4000)
	return &domain.Product{
		ID:            7,
		Slug:          "tee",
		Name:          "Tee",
		Price:         2000,
		OriginalPrice: &original,
		Sizes: []domain.SizeVariant{
			{Label: "S", Enabled: true},
			{Label: "M", Enabled: false},
		},
	}
}

// ============================================================================
// ClickSize
// ============================================================================

func TestInitialState(t *testing.T) {
	c := NewController(tee(), "cart-1", &recordingDispatcher{})
	assert.Equal(t, State{}, c.State())
	assert.False(t, c.State().Selection.IsSelected())
}

func TestClickSize_Enabled(t *testing.T) {
	c := NewController(tee(), "cart-1", &recordingDispatcher{})
	assert.True(t, c.ClickSize("S"))
	assert.Equal(t, State{Selection: domain.Selected("S")}, c.State())
}

func TestClickSize_DisabledOrUnknownIsNoOp(t *testing.T) {
	c := NewController(tee(), "cart-1", &recordingDispatcher{})

	assert.False(t, c.ClickSize("M"))
	assert.Equal(t, State{}, c.State())

	c.ClickSize("S")
	before := c.State()
	assert.False(t, c.ClickSize("M"))
	assert.False(t, c.ClickSize("XXL"))
	assert.Equal(t, before, c.State())
}

func TestClickSize_RepeatedIsIdempotent(t *testing.T) {
	c := NewController(tee(), "cart-1", &recordingDispatcher{})
	c.ClickSize("S")
	first := c.State()
	c.ClickSize("S")
	assert.Equal(t, first, c.State())
}

func TestClickSize_ClearsError(t *testing.T) {
	c := NewController(tee(), "cart-1", &recordingDispatcher{})
	_, err := c.AddToCart(context.Background())
	require.NoError(t, err)
	require.True(t, c.State().ErrorShown)

	c.ClickSize("S")
	assert.False(t, c.State().ErrorShown)
}

// ============================================================================
// AddToCart
// ============================================================================

func TestAddToCart_WithoutSelectionShowsError(t *testing.T) {
	d := &recordingDispatcher{}
	c := NewController(tee(), "cart-1", d)

	out, err := c.AddToCart(context.Background())
	require.NoError(t, err)
	assert.True(t, c.State().ErrorShown)
	assert.Equal(t, "sizesGrid", out.ScrollTo)
	assert.Nil(t, out.Notification)
	assert.Empty(t, d.calls)
}

func TestAddToCart_SelectThenAddDispatchesOnce(t *testing.T) {
	d := &recordingDispatcher{}
	c := NewController(tee(), "cart-1", d)

	_, _ = c.AddToCart(context.Background())
	c.ClickSize("S")
	out, err := c.AddToCart(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"tee/S"}, d.calls)
	assert.False(t, c.State().ErrorShown)
	assert.Equal(t, domain.Selected("S"), c.State().Selection, "selection is kept")
	require.NotNil(t, out.Notification)
	assert.Equal(t, "Success. Check your cart!", out.Notification.Message)
	assert.Equal(t, 3000, out.Notification.AutoCloseMS)
	assert.Equal(t, "bottom-right", out.Notification.Position)
	assert.Equal(t, "dark", out.Notification.Theme)
	assert.Empty(t, out.ScrollTo)
}

func TestAddToCart_DispatchFailure(t *testing.T) {
	d := &recordingDispatcher{err: errors.New("store down")}
	c := NewController(tee(), "cart-1", d)
	c.ClickSize("S")

	out, err := c.AddToCart(context.Background())
	require.Error(t, err)
	assert.Nil(t, out.Notification)
	assert.Equal(t, State{Selection: domain.Selected("S")}, c.State())
}

func TestAddToCart_TeeScenario(t *testing.T) {
	repo := memory.NewCartRepository()
	svc := service.NewCartService(repo, nil, nil)
	c := NewController(tee(), "cart-1", svc)

	c.ClickSize("M")
	c.ClickSize("S")
	out, err := c.AddToCart(context.Background())
	require.NoError(t, err)
	require.NotNil(t, out.Notification)

	items, err := repo.List(context.Background(), "cart-1")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "tee", items[0].Slug)
	assert.Equal(t, "S", items[0].SelectedSize)
	assert.Equal(t, domain.Money(2000), items[0].OneQuantityPrice)
}

func TestWithNotification(t *testing.T) {
	n := DefaultNotification()
	n.AutoCloseMS = 5000
	c := NewController(tee(), "cart-1", &recordingDispatcher{}, WithNotification(n))
	c.ClickSize("S")

	out, err := c.AddToCart(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 5000, out.Notification.AutoCloseMS)
}

// ============================================================================
// Restore
// ============================================================================

func TestRestore_DropsUnselectableSize(t *testing.T) {
	c := NewController(tee(), "cart-1", &recordingDispatcher{})

	c.Restore(State{Selection: domain.Selected("M"), ErrorShown: true})
	assert.Equal(t, State{ErrorShown: true}, c.State())

	c.Restore(State{Selection: domain.Selected("S")})
	assert.Equal(t, State{Selection: domain.Selected("S")}, c.State())
}
