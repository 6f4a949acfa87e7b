package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/utafrali/storefront/internal/domain"
	"github.com/utafrali/storefront/internal/repository/memory"
	apperrors "github.com/utafrali/storefront/pkg/errors"
)

// --- Mocks ---

type mockCartRepository struct {
	mock.Mock
}

func (m *mockCartRepository) Append(ctx context.Context, cartID string, item domain.CartItem) error {
	args := m.Called(ctx, cartID, item)
	return args.Error(0)
}

func (m *mockCartRepository) List(ctx context.Context, cartID string) ([]domain.CartItem, error) {
	args := m.Called(ctx, cartID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.CartItem), args.Error(1)
}

type mockPublisher struct {
	mock.Mock
}

func (m *mockPublisher) PublishItemAdded(ctx context.Context, cartID string, item domain.CartItem) error {
	args := m.Called(ctx, cartID, item)
	return args.Error(0)
}

// --- Test Helpers ---

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func tee() *domain.Product {
	return &domain.Product{
		ID:    7,
		Slug:  "tee",
		Name:  "Tee",
		Price: 2000,
		Sizes: []domain.SizeVariant{{Label: "S", Enabled: true}, {Label: "M", Enabled: false}},
	}
}

var fixedNow = time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

// --- AddItem ---

func TestAddItem_AppendsSnapshot(t *testing.T) {
	repo := &mockCartRepository{}
	pub := &mockPublisher{}
	svc := NewCartService(repo, pub, newTestLogger())
	svc.now = func() time.Time { return fixedNow }

	repo.On("Append", mock.Anything, "cart-1", mock.MatchedBy(func(item domain.CartItem) bool {
		return item.Slug == "tee" && item.SelectedSize == "S" && item.OneQuantityPrice == 2000 && item.AddedAt.Equal(fixedNow)
	})).Return(nil).Once()
	pub.On("PublishItemAdded", mock.Anything, "cart-1", mock.AnythingOfType("domain.CartItem")).Return(nil).Once()

	item, err := svc.AddItem(context.Background(), "cart-1", tee(), "S", 2000)
	require.NoError(t, err)
	assert.Equal(t, "S", item.SelectedSize)
	assert.NotEmpty(t, item.ID)

	repo.AssertExpectations(t)
	pub.AssertExpectations(t)
}

func TestAddItem_TwiceProducesTwoLines(t *testing.T) {
	repo := memory.NewCartRepository()
	svc := NewCartService(repo, nil, newTestLogger())
	ctx := context.Background()

	_, err := svc.AddItem(ctx, "cart-1", tee(), "S", 2000)
	require.NoError(t, err)
	_, err = svc.AddItem(ctx, "cart-1", tee(), "S", 2000)
	require.NoError(t, err)

	cart, err := svc.Items(ctx, "cart-1")
	require.NoError(t, err)
	require.Equal(t, 2, cart.ItemCount())
	assert.NotEqual(t, cart.Items[0].ID, cart.Items[1].ID)
	assert.Equal(t, domain.Money(4000), cart.Subtotal())
}

func TestAddItem_RejectsUnusableSize(t *testing.T) {
	repo := &mockCartRepository{}
	svc := NewCartService(repo, nil, newTestLogger())

	for _, size := range []string{"", "M", "XXL"} {
		_, err := svc.AddItem(context.Background(), "cart-1", tee(), size, 2000)
		require.Error(t, err, "size %q", size)

		var appErr *apperrors.AppError
		require.True(t, errors.As(err, &appErr))
		assert.Equal(t, CodeSizeRequired, appErr.Code)
		assert.Equal(t, http.StatusUnprocessableEntity, appErr.Status)
	}
	repo.AssertNotCalled(t, "Append", mock.Anything, mock.Anything, mock.Anything)
}

func TestAddItem_InvalidInput(t *testing.T) {
	svc := NewCartService(&mockCartRepository{}, nil, newTestLogger())
	ctx := context.Background()

	_, err := svc.AddItem(ctx, "", tee(), "S", 2000)
	assert.True(t, errors.Is(err, apperrors.ErrInvalidInput))

	_, err = svc.AddItem(ctx, "cart-1", nil, "S", 2000)
	assert.True(t, errors.Is(err, apperrors.ErrInvalidInput))

	_, err = svc.AddItem(ctx, "cart-1", tee(), "S", 0)
	assert.True(t, errors.Is(err, apperrors.ErrInvalidInput))
}

func TestAddItem_StoreFailurePropagates(t *testing.T) {
	repo := &mockCartRepository{}
	pub := &mockPublisher{}
	svc := NewCartService(repo, pub, newTestLogger())

	repo.On("Append", mock.Anything, "cart-1", mock.Anything).Return(errors.New("redis: connection refused"))

	_, err := svc.AddItem(context.Background(), "cart-1", tee(), "S", 2000)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "append cart item")
	assert.Equal(t, http.StatusInternalServerError, apperrors.HTTPStatus(err))
	pub.AssertNotCalled(t, "PublishItemAdded", mock.Anything, mock.Anything, mock.Anything)
}

func TestAddItem_PublishFailureIsNotFatal(t *testing.T) {
	repo := &mockCartRepository{}
	pub := &mockPublisher{}
	svc := NewCartService(repo, pub, newTestLogger())

	repo.On("Append", mock.Anything, "cart-1", mock.Anything).Return(nil)
	pub.On("PublishItemAdded", mock.Anything, "cart-1", mock.Anything).Return(errors.New("broker down"))

	item, err := svc.AddItem(context.Background(), "cart-1", tee(), "S", 2000)
	require.NoError(t, err)
	assert.NotNil(t, item)
}

// --- Items ---

func TestItems(t *testing.T) {
	repo := &mockCartRepository{}
	svc := NewCartService(repo, nil, newTestLogger())

	repo.On("List", mock.Anything, "cart-1").Return([]domain.CartItem{{ID: "a"}}, nil)
	cart, err := svc.Items(context.Background(), "cart-1")
	require.NoError(t, err)
	assert.Equal(t, "cart-1", cart.ID)
	assert.Len(t, cart.Items, 1)
}

func TestItems_Error(t *testing.T) {
	repo := &mockCartRepository{}
	svc := NewCartService(repo, nil, newTestLogger())

	repo.On("List", mock.Anything, "cart-1").Return(nil, errors.New("boom"))
	_, err := svc.Items(context.Background(), "cart-1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "list cart items")
}
