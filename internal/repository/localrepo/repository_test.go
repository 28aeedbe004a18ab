package localrepo_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vitrine/internal/domain"
	apperror "vitrine/internal/errors"
	"vitrine/internal/pkg/localstore"
	"vitrine/internal/pkg/logger"
	"vitrine/internal/repository/localrepo"
)

func newStore(t *testing.T) *localstore.Store {
	t.Helper()
	store, err := localstore.New(t.TempDir(), logger.NewNopLogger())
	require.NoError(t, err)
	return store
}

func TestCatalogRepository_EmptyThenRoundTrip(t *testing.T) {
	repo := localrepo.NewCatalogRepository(newStore(t))
	ctx := context.Background()

	products, err := repo.LoadProducts(ctx)
	require.NoError(t, err)
	assert.Empty(t, products)
	assert.NotNil(t, products)

	original := decimal.RequireFromString("99.90")
	in := []domain.Product{{
		ID:            "camiseta",
		Name:          "Camiseta",
		Price:         decimal.RequireFromString("79.90"),
		OriginalPrice: &original,
		Category:      "camisetas",
		Sizes:         []string{"P", "M"},
		StockBySize:   map[string]int{"P": 1, "M": 2},
		Stock:         3,
	}}
	require.NoError(t, repo.SaveProducts(ctx, in))

	out, err := repo.LoadProducts(ctx)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.True(t, out[0].Price.Equal(in[0].Price))
	require.NotNil(t, out[0].OriginalPrice)
	assert.True(t, out[0].OriginalPrice.Equal(original))
	assert.Equal(t, in[0].StockBySize, out[0].StockBySize)
}

func TestCatalogRepository_CorruptFileFallsBackToEmpty(t *testing.T) {
	store := newStore(t)
	require.NoError(t, os.WriteFile(filepath.Join(store.Dir(), "categories.json"), []byte("{não é json"), 0o644))
	repo := localrepo.NewCatalogRepository(store)

	categories, err := repo.LoadCategories(context.Background())

	require.NoError(t, err)
	assert.Empty(t, categories)
}

func TestRepositories_TypeMismatchResetsToEmpty(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()
	write := func(name, payload string) {
		require.NoError(t, os.WriteFile(filepath.Join(store.Dir(), name), []byte(payload), 0o644))
	}
	write("products.json", `[{"id":"camiseta","name":"Camiseta","stock":"muitos"}]`)
	write("orders.json", `[{"id":"o1","status":"paid","items":[{"product_id":"camiseta","quantity":"x"}]}]`)
	write("favorites.json", `{"guest:g1":[1,2]}`)

	products, err := localrepo.NewCatalogRepository(store).LoadProducts(ctx)
	require.NoError(t, err)
	assert.Empty(t, products)
	assert.NotNil(t, products)

	orders, err := localrepo.NewOrderRepository(store).FindAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, orders)

	favorites, err := localrepo.NewFavoriteRepository(store).LoadFavorites(ctx)
	require.NoError(t, err)
	assert.Empty(t, favorites)
	assert.NotNil(t, favorites)
}

func TestOrderRepository_Lifecycle(t *testing.T) {
	repo := localrepo.NewOrderRepository(newStore(t))
	ctx := context.Background()
	base := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)

	require.NoError(t, repo.Save(ctx, domain.Order{ID: "o1", Status: domain.StatusPendingPayment, CreatedAt: base}))
	require.NoError(t, repo.Save(ctx, domain.Order{ID: "o2", Status: domain.StatusPendingPayment, CreatedAt: base.Add(time.Hour)}))

	all, err := repo.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "o2", all[0].ID)

	later := base.Add(2 * time.Hour)
	require.NoError(t, repo.UpdateStatus(ctx, "o1", domain.StatusPaid, later))
	o1, err := repo.FindByID(ctx, "o1")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPaid, o1.Status)
	assert.True(t, o1.UpdatedAt.Equal(later))

	require.NoError(t, repo.Delete(ctx, "o1"))
	_, err = repo.FindByID(ctx, "o1")
	assert.True(t, apperror.IsNotFound(err))
	assert.True(t, apperror.IsNotFound(repo.Delete(ctx, "o1")))
	assert.True(t, apperror.IsNotFound(repo.UpdateStatus(ctx, "o1", domain.StatusPaid, later)))
}

func TestFavoriteAndSettingsRepositories(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()

	favs := localrepo.NewFavoriteRepository(store)
	require.NoError(t, favs.SaveFavorites(ctx, map[string][]string{"guest:g1": {"p1", "p2"}}))
	loaded, err := favs.LoadFavorites(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"p1", "p2"}, loaded["guest:g1"])

	settings := localrepo.NewSettingsRepository(store)
	_, found, err := settings.LoadSettings(ctx)
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, settings.SaveSettings(ctx, domain.StoreSettings{StoreName: "Vitrine", ShippingFee: decimal.RequireFromString("10")}))
	got, found, err := settings.LoadSettings(ctx)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "Vitrine", got.StoreName)
}

func TestUserRepository_KeepsPasswordHashAndRejectsDuplicates(t *testing.T) {
	repo := localrepo.NewUserRepository(newStore(t))
	ctx := context.Background()

	saved, err := repo.Save(ctx, domain.User{Email: "ana@example.com", PasswordHash: "hash", Role: domain.RoleUser})
	require.NoError(t, err)
	assert.NotEmpty(t, saved.ID)

	found, err := repo.FindByEmail(ctx, "ANA@example.com")
	require.NoError(t, err)
	assert.Equal(t, "hash", found.PasswordHash)
	assert.Equal(t, saved.ID, found.ID)

	_, err = repo.Save(ctx, domain.User{Email: "Ana@Example.com", PasswordHash: "x"})
	assert.IsType(t, &apperror.ConflictError{}, err)

	_, err = repo.FindByEmail(ctx, "ninguem@example.com")
	assert.True(t, apperror.IsNotFound(err))
}
