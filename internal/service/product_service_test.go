package service

import (
	"testing"
	"time"

	"github.com/ecofinds/internal/models"
	"github.com/ecofinds/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListProductsHidesSoldAndPaginates(t *testing.T) {
	f := newFixture(t)
	seller := f.seedUser(t, "seller")
	category := f.seedCategory(t, "Electronics")
	for i := 0; i < 5; i++ {
		f.seedProduct(t, seller.ID, category.ID, "Phone", "10")
	}
	sold := f.seedProduct(t, seller.ID, category.ID, "Sold phone", "10")
	f.setStatus(t, sold.ID, models.ProductSold)

	page, err := f.productService().ListProducts(ProductQuery{Page: 2, Limit: 2})
	require.NoError(t, err)
	assert.EqualValues(t, 5, page.Total)
	assert.Equal(t, 3, page.Pages)
	assert.Equal(t, 2, page.Page)
	assert.Equal(t, 2, page.Count)
	for _, p := range page.Products {
		assert.Equal(t, models.ProductAvailable, p.Status)
		require.NotNil(t, p.Seller)
		assert.Equal(t, "seller", p.Seller.Username)
	}

	page, err = f.productService().ListProducts(ProductQuery{Search: "sold"})
	require.NoError(t, err)
	assert.Zero(t, page.Total)
	assert.Equal(t, 0, page.Pages)
}

func TestListProductsClampsLimit(t *testing.T) {
	f := newFixture(t)
	svc := f.productService()
	page, limit := svc.normalizePage(0, 500)
	assert.Equal(t, 1, page)
	assert.Equal(t, 100, limit)
	_, limit = svc.normalizePage(1, 0)
	assert.Equal(t, 12, limit)
}

func TestGetProductIncrementsViewsForAnyStatus(t *testing.T) {
	f := newFixture(t)
	seller := f.seedUser(t, "seller")
	category := f.seedCategory(t, "Books")
	product := f.seedProduct(t, seller.ID, category.ID, "Atlas", "25")
	f.setStatus(t, product.ID, models.ProductSold)
	svc := f.productService()

	first, err := svc.GetProduct(product.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, first.Views)
	require.NotNil(t, first.Category)
	assert.Equal(t, "Books", first.Category.Name)

	second, err := svc.GetProduct(product.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 2, second.Views)

	_, err = svc.GetProduct(9999)
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestCreateProductDefaults(t *testing.T) {
	f := newFixture(t)
	seller := f.seedUser(t, "seller")
	category := f.seedCategory(t, "Home")
	svc := f.productService()

	product, err := svc.CreateProduct(seller.ID, CreateProductInput{
		Title:       "  Lamp ",
		Description: "Desk lamp",
		Price:       models.MustMoney("19.99"),
		CategoryID:  category.ID,
		Tags:        []string{" light ", "", "desk"},
	})
	require.NoError(t, err)
	assert.Equal(t, "Lamp", product.Title)
	assert.Equal(t, "good", product.Condition)
	assert.Equal(t, models.ProductAvailable, product.Status)
	assert.Equal(t, models.StringArray{"/placeholder-image.png"}, product.Images)
	assert.Equal(t, models.StringArray{"light", "desk"}, product.Tags)

	_, err = svc.CreateProduct(seller.ID, CreateProductInput{Title: "x", Description: "y", CategoryID: category.ID, Condition: "broken"})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.CreateProduct(seller.ID, CreateProductInput{Title: "x", Description: "y", CategoryID: 999})
	assert.ErrorIs(t, err, ErrCategoryNotFound)

	_, err = svc.CreateProduct(seller.ID, CreateProductInput{Title: "x", Description: "y", CategoryID: category.ID, Price: models.MustMoney("-1")})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestUpdateProductOwnershipAndStatus(t *testing.T) {
	f := newFixture(t)
	seller := f.seedUser(t, "seller")
	other := f.seedUser(t, "other")
	category := f.seedCategory(t, "Sports")
	product := f.seedProduct(t, seller.ID, category.ID, "Ball", "5")
	svc := f.productService()

	title := "Football"
	_, err := svc.UpdateProduct(other.ID, product.ID, UpdateProductInput{Title: &title})
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = svc.GetProduct(product.ID)
	require.NoError(t, err)

	withdrawn := "withdrawn"
	updated, err := svc.UpdateProduct(seller.ID, product.ID, UpdateProductInput{Title: &title, Status: &withdrawn})
	require.NoError(t, err)
	assert.Equal(t, "Football", updated.Title)
	assert.Equal(t, models.ProductWithdrawn, updated.Status)
	assert.EqualValues(t, 1, updated.Views)

	sold := "sold"
	_, err = svc.UpdateProduct(seller.ID, product.ID, UpdateProductInput{Status: &sold})
	assert.ErrorIs(t, err, ErrInvalidProductStatus)

	f.setStatus(t, product.ID, models.ProductSold)
	available := "available"
	_, err = svc.UpdateProduct(seller.ID, product.ID, UpdateProductInput{Status: &available})
	assert.ErrorIs(t, err, ErrInvalidProductStatus)
}

// soldAfterReadRepo 在首次读取商品后立即将其售出，模拟编辑与结账交错
type soldAfterReadRepo struct {
	*repository.GormProductRepository
	claimed bool
}

func (r *soldAfterReadRepo) GetByID(id uint) (*models.Product, error) {
	product, err := r.GormProductRepository.GetByID(id)
	if err != nil || product == nil || r.claimed {
		return product, err
	}
	r.claimed = true
	if _, err := r.GormProductRepository.ClaimForSale(id, time.Now()); err != nil {
		return nil, err
	}
	return product, nil
}

func TestUpdateProductDoesNotReviveSoldProduct(t *testing.T) {
	f := newFixture(t)
	seller := f.seedUser(t, "seller")
	category := f.seedCategory(t, "Books")
	product := f.seedProduct(t, seller.ID, category.ID, "Novel", "12")
	repo := &soldAfterReadRepo{GormProductRepository: f.productRepo}
	svc := NewProductService(repo, f.categoryRepo, f.cartRepo, f.cfg.Listing, f.cfg.App.PlaceholderImage)

	title := "Signed Novel"
	_, err := svc.UpdateProduct(seller.ID, product.ID, UpdateProductInput{Title: &title})
	assert.ErrorIs(t, err, ErrInvalidProductStatus)

	got := f.reloadProduct(t, product.ID)
	assert.Equal(t, models.ProductSold, got.Status)
	assert.Equal(t, "Novel", got.Title)

	claimed, err := f.productRepo.ClaimForSale(product.ID, time.Now())
	require.NoError(t, err)
	assert.False(t, claimed)
}

func TestDeleteProductRemovesCartLinesAndKeepsPurchases(t *testing.T) {
	f := newFixture(t)
	seller := f.seedUser(t, "seller")
	buyer := f.seedUser(t, "buyer")
	category := f.seedCategory(t, "Tools")
	drill := f.seedProduct(t, seller.ID, category.ID, "Drill", "60")
	saw := f.seedProduct(t, seller.ID, category.ID, "Saw", "30")
	svc := f.productService()

	_, err := f.cartService().AddToCart(buyer.ID, drill.ID, 1)
	require.NoError(t, err)
	_, err = f.cartService().AddToCart(buyer.ID, saw.ID, 1)
	require.NoError(t, err)

	assert.ErrorIs(t, svc.DeleteProduct(buyer.ID, drill.ID), ErrForbidden)
	require.NoError(t, svc.DeleteProduct(seller.ID, drill.ID))
	assert.ErrorIs(t, svc.DeleteProduct(seller.ID, drill.ID), ErrProductNotFound)

	view, err := f.cartService().GetCart(buyer.ID)
	require.NoError(t, err)
	require.Equal(t, 1, view.Count)
	assert.Equal(t, saw.ID, view.Items[0].ProductID)

	result, err := f.checkoutService().Checkout(t.Context(), buyer.ID, "")
	require.NoError(t, err)
	require.NoError(t, svc.DeleteProduct(seller.ID, saw.ID))

	purchase, err := NewPurchaseService(f.purchaseRepo).GetPurchase(buyer.ID, result.Purchases[0].ID)
	require.NoError(t, err)
	require.NotNil(t, purchase.Product)
	assert.Equal(t, "Saw", purchase.Product.Title)
}
