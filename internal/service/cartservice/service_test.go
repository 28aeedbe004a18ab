package cartservice_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"vitrine/internal/domain"
	apperror "vitrine/internal/errors"
	"vitrine/internal/pkg/logger"
	"vitrine/internal/service/cartservice"
)

// MockProductFinder é uma implementação mock de ProductFinder
type MockProductFinder struct {
	mock.Mock
}

func (m *MockProductFinder) GetProduct(ctx context.Context, id string) (domain.Product, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.Product), args.Error(1)
}

var camiseta = domain.Product{
	ID:    "p1",
	Name:  "Camiseta Oversized",
	Price: decimal.RequireFromString("79.90"),
	Image: "https://cdn.example.com/p1.jpg",
	Sizes: []string{"P", "M", "G"},
}

var bone = domain.Product{
	ID:    "p3",
	Name:  "Boné",
	Price: decimal.RequireFromString("39.90"),
	Image: "https://cdn.example.com/p3.jpg",
}

func money(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// --- Redutor ---

func TestReducer_Scenario(t *testing.T) {
	c := cartservice.Empty()

	c = cartservice.AddItem(c, camiseta, "M")
	c = cartservice.AddItem(c, camiseta, "M")
	require.Len(t, c.Items, 1)
	assert.Equal(t, 2, c.Items[0].Quantity)
	assert.True(t, c.Total.Equal(money("159.80")), "total: %s", c.Total)

	c = cartservice.AddItem(c, camiseta, "G")
	require.Len(t, c.Items, 2)
	assert.True(t, c.Total.Equal(money("239.70")), "total: %s", c.Total)

	c = cartservice.UpdateQuantity(c, domain.CartKey{ProductID: "p1", Size: "M"}, 0)
	require.Len(t, c.Items, 1)
	assert.Equal(t, "G", c.Items[0].Size)
	assert.True(t, c.Total.Equal(money("79.90")), "total: %s", c.Total)
}

func TestReducer_RepeatedAddEqualsCallCount(t *testing.T) {
	for n := 1; n <= 7; n++ {
		t.Run(fmt.Sprintf("%d adições", n), func(t *testing.T) {
			c := cartservice.Empty()
			for i := 0; i < n; i++ {
				c = cartservice.AddItem(c, bone, "")
			}
			require.Len(t, c.Items, 1)
			assert.Equal(t, n, c.Items[0].Quantity)
			assert.True(t, c.Total.Equal(bone.Price.Mul(decimal.NewFromInt(int64(n)))))
		})
	}
}

func TestReducer_NegativeQuantityRemovesLine(t *testing.T) {
	c := cartservice.AddItem(cartservice.Empty(), bone, "")

	c = cartservice.UpdateQuantity(c, domain.CartKey{ProductID: "p3"}, -4)

	assert.Empty(t, c.Items)
	assert.True(t, c.Total.IsZero())
}

func TestReducer_UpdateQuantitySetsValue(t *testing.T) {
	c := cartservice.AddItem(cartservice.Empty(), bone, "")

	c = cartservice.UpdateQuantity(c, domain.CartKey{ProductID: "p3"}, 3)

	require.Len(t, c.Items, 1)
	assert.Equal(t, 3, c.Items[0].Quantity)
	assert.True(t, c.Total.Equal(money("119.70")))
}

func TestReducer_RemoveIgnoresQuantity(t *testing.T) {
	c := cartservice.Empty()
	c = cartservice.AddItem(c, bone, "")
	c = cartservice.AddItem(c, bone, "")
	c = cartservice.AddItem(c, camiseta, "P")

	c = cartservice.RemoveItem(c, domain.CartKey{ProductID: "p3"})

	require.Len(t, c.Items, 1)
	assert.Equal(t, "p1", c.Items[0].ProductID)
	assert.True(t, c.Total.Equal(money("79.90")))
}

func TestReducer_TotalAlwaysMatchesLines(t *testing.T) {
	c := cartservice.Empty()
	steps := []func(domain.Cart) domain.Cart{
		func(c domain.Cart) domain.Cart { return cartservice.AddItem(c, camiseta, "P") },
		func(c domain.Cart) domain.Cart { return cartservice.AddItem(c, bone, "") },
		func(c domain.Cart) domain.Cart { return cartservice.AddItem(c, camiseta, "G") },
		func(c domain.Cart) domain.Cart {
			return cartservice.UpdateQuantity(c, domain.CartKey{ProductID: "p3"}, 5)
		},
		func(c domain.Cart) domain.Cart {
			return cartservice.RemoveItem(c, domain.CartKey{ProductID: "p1", Size: "P"})
		},
		func(c domain.Cart) domain.Cart {
			return cartservice.UpdateQuantity(c, domain.CartKey{ProductID: "p1", Size: "G"}, 0)
		},
	}

	for i, step := range steps {
		c = step(c)
		sum := decimal.Zero
		for _, it := range c.Items {
			assert.Greater(t, it.Quantity, 0)
			sum = sum.Add(it.Price.Mul(decimal.NewFromInt(int64(it.Quantity))))
		}
		assert.True(t, c.Total.Equal(sum), "passo %d: total %s, esperado %s", i, c.Total, sum)
	}
}

func TestReducer_MergeSumsMatchingLines(t *testing.T) {
	first := cartservice.AddItem(cartservice.AddItem(cartservice.Empty(), camiseta, "M"), bone, "")
	second := cartservice.AddItem(cartservice.AddItem(cartservice.Empty(), bone, ""), camiseta, "G")

	c := cartservice.Merge(first, second)

	require.Len(t, c.Items, 3)
	assert.Equal(t, "M", c.Items[0].Size)
	assert.Equal(t, 2, c.Items[1].Quantity)
	assert.Equal(t, "G", c.Items[2].Size)
	assert.True(t, c.Total.Equal(money("239.60")), "total: %s", c.Total)
	assert.Equal(t, 1, first.Items[1].Quantity)
}

func TestReducer_DoesNotMutateInput(t *testing.T) {
	before := cartservice.AddItem(cartservice.Empty(), bone, "")

	_ = cartservice.AddItem(before, bone, "")
	_ = cartservice.UpdateQuantity(before, domain.CartKey{ProductID: "p3"}, 9)

	assert.Equal(t, 1, before.Items[0].Quantity)
}

// --- Serviço ---

func newService() (*cartservice.Service, *MockProductFinder) {
	finder := new(MockProductFinder)
	finder.On("GetProduct", mock.Anything, "p1").Return(camiseta, nil)
	finder.On("GetProduct", mock.Anything, "p3").Return(bone, nil)
	finder.On("GetProduct", mock.Anything, mock.Anything).
		Return(domain.Product{}, apperror.NewNotFoundError("Produto não encontrado."))
	return cartservice.NewService(finder, logger.NewNopLogger()), finder
}

func TestService_AddScopesCartsSeparately(t *testing.T) {
	svc, _ := newService()
	ctx := context.Background()

	_, err := svc.Add(ctx, domain.UserScope("u1"), "p1", "M")
	require.NoError(t, err)
	_, err = svc.Add(ctx, domain.GuestScope("g1"), "p3", "")
	require.NoError(t, err)

	userCart := svc.Get(domain.UserScope("u1"))
	guestCart := svc.Get(domain.GuestScope("g1"))

	require.Len(t, userCart.Items, 1)
	require.Len(t, guestCart.Items, 1)
	assert.Equal(t, "p1", userCart.Items[0].ProductID)
	assert.Equal(t, "p3", guestCart.Items[0].ProductID)
}

func TestService_AddUnknownProduct(t *testing.T) {
	svc, _ := newService()

	_, err := svc.Add(context.Background(), "guest:x", "nao-existe", "")

	assert.True(t, apperror.IsNotFound(err))
	assert.Empty(t, svc.Get("guest:x").Items)
}

func TestService_AddRequiresValidSizeForSizedProduct(t *testing.T) {
	svc, _ := newService()
	ctx := context.Background()

	_, err := svc.Add(ctx, "guest:x", "p1", "")
	assert.IsType(t, &apperror.ValidationError{}, err)

	_, err = svc.Add(ctx, "guest:x", "p1", "XGG")
	assert.IsType(t, &apperror.ValidationError{}, err)
}

func TestService_AddDropsSizeForUnsizedProduct(t *testing.T) {
	svc, _ := newService()
	ctx := context.Background()

	_, err := svc.Add(ctx, "guest:x", "p3", "M")
	require.NoError(t, err)
	cart, err := svc.Add(ctx, "guest:x", "p3", "")
	require.NoError(t, err)

	require.Len(t, cart.Items, 1)
	assert.Equal(t, 2, cart.Items[0].Quantity)
	assert.Equal(t, "", cart.Items[0].Size)
}

func TestService_UpdateRemoveAndClear(t *testing.T) {
	svc, _ := newService()
	ctx := context.Background()
	scope := "user:u1"

	_, err := svc.Add(ctx, scope, "p1", "M")
	require.NoError(t, err)
	_, err = svc.Add(ctx, scope, "p3", "")
	require.NoError(t, err)

	cart := svc.UpdateQuantity(scope, domain.CartKey{ProductID: "p1", Size: "M"}, 2)
	assert.True(t, cart.Total.Equal(money("199.70")))

	cart = svc.Remove(scope, domain.CartKey{ProductID: "p3"})
	assert.True(t, cart.Total.Equal(money("159.80")))

	svc.Clear(scope)
	cleared := svc.Get(scope)
	assert.Empty(t, cleared.Items)
	assert.True(t, cleared.Total.IsZero())
}

func TestService_SnapshotIsIndependent(t *testing.T) {
	svc, _ := newService()
	_, err := svc.Add(context.Background(), "guest:x", "p3", "")
	require.NoError(t, err)

	snap := svc.Snapshot("guest:x")
	snap.Items[0].Quantity = 50

	assert.Equal(t, 1, svc.Get("guest:x").Items[0].Quantity)
}

func TestService_TakeEmptiesCartOnce(t *testing.T) {
	svc, _ := newService()
	_, err := svc.Add(context.Background(), "guest:x", "p3", "")
	require.NoError(t, err)

	var (
		wg    sync.WaitGroup
		mu    sync.Mutex
		taken int
	)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if c := svc.Take("guest:x"); len(c.Items) > 0 {
				mu.Lock()
				taken++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, taken)
	assert.Empty(t, svc.Get("guest:x").Items)
}

func TestService_RestoreKeepsItemsAddedMeanwhile(t *testing.T) {
	svc, _ := newService()
	ctx := context.Background()
	_, err := svc.Add(ctx, "guest:x", "p1", "M")
	require.NoError(t, err)

	taken := svc.Take("guest:x")
	_, err = svc.Add(ctx, "guest:x", "p3", "")
	require.NoError(t, err)
	_, err = svc.Add(ctx, "guest:x", "p1", "M")
	require.NoError(t, err)

	svc.Restore("guest:x", taken)

	cart := svc.Get("guest:x")
	require.Len(t, cart.Items, 2)
	assert.Equal(t, "p1", cart.Items[0].ProductID)
	assert.Equal(t, 2, cart.Items[0].Quantity)
	assert.True(t, cart.Total.Equal(money("199.70")), "total: %s", cart.Total)
}

func TestService_SweepIdleRemovesOnlyStaleGuestCarts(t *testing.T) {
	now := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)
	finder := new(MockProductFinder)
	finder.On("GetProduct", mock.Anything, "p3").Return(bone, nil)
	svc := cartservice.NewService(finder, logger.NewNopLogger()).WithClock(func() time.Time { return now })
	ctx := context.Background()

	_, err := svc.Add(ctx, domain.GuestScope("antigo"), "p3", "")
	require.NoError(t, err)
	_, err = svc.Add(ctx, domain.UserScope("u1"), "p3", "")
	require.NoError(t, err)

	now = now.Add(3 * time.Hour)
	_, err = svc.Add(ctx, domain.GuestScope("recente"), "p3", "")
	require.NoError(t, err)

	removed := svc.SweepIdle(2 * time.Hour)

	assert.Equal(t, 1, removed)
	assert.Empty(t, svc.Get(domain.GuestScope("antigo")).Items)
	assert.Len(t, svc.Get(domain.GuestScope("recente")).Items, 1)
	assert.Len(t, svc.Get(domain.UserScope("u1")).Items, 1)
}
