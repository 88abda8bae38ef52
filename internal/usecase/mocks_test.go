package usecase_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"app/internal/domain/model"
	"app/internal/fulfillment"
	repo "app/internal/repository"
	"app/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// =====================
// Mocks
// =====================

type ProductRepoMock struct{ mock.Mock }

func (m *ProductRepoMock) ListVisible(ctx context.Context) ([]model.Product, error) {
	args := m.Called(ctx)
	items, _ := args.Get(0).([]model.Product)
	return items, args.Error(1)
}

func (m *ProductRepoMock) ListVisibleByCategoryID(ctx context.Context, categoryID int64) ([]model.Product, error) {
	args := m.Called(ctx, categoryID)
	items, _ := args.Get(0).([]model.Product)
	return items, args.Error(1)
}

func (m *ProductRepoMock) ListVisibleBySubCategoryID(ctx context.Context, subCategoryID int64) ([]model.Product, error) {
	args := m.Called(ctx, subCategoryID)
	items, _ := args.Get(0).([]model.Product)
	return items, args.Error(1)
}

func (m *ProductRepoMock) FindBySerial(ctx context.Context, serial int64) (model.Product, error) {
	args := m.Called(ctx, serial)
	p, _ := args.Get(0).(model.Product)
	return p, args.Error(1)
}

func (m *ProductRepoMock) FindVisibleBySerial(ctx context.Context, serial int64) (model.Product, error) {
	args := m.Called(ctx, serial)
	p, _ := args.Get(0).(model.Product)
	return p, args.Error(1)
}

func (m *ProductRepoMock) ListRelated(ctx context.Context, p model.Product, limit int) ([]model.Product, error) {
	args := m.Called(ctx, p, limit)
	items, _ := args.Get(0).([]model.Product)
	return items, args.Error(1)
}

func (m *ProductRepoMock) UpsertBySKU(ctx context.Context, p model.Product) (model.Product, bool, error) {
	args := m.Called(ctx, p)
	saved, _ := args.Get(0).(model.Product)
	return saved, args.Bool(1), args.Error(2)
}

func (m *ProductRepoMock) AddImageIfAbsent(ctx context.Context, productSerial int64, imageURL string) error {
	args := m.Called(ctx, productSerial, imageURL)
	return args.Error(0)
}

type CategoryRepoMock struct{ mock.Mock }

func (m *CategoryRepoMock) FindByNameFold(ctx context.Context, name string) (model.Category, error) {
	args := m.Called(ctx, name)
	c, _ := args.Get(0).(model.Category)
	return c, args.Error(1)
}

func (m *CategoryRepoMock) GetOrCreateByName(ctx context.Context, name string) (model.Category, error) {
	args := m.Called(ctx, name)
	c, _ := args.Get(0).(model.Category)
	return c, args.Error(1)
}

func (m *CategoryRepoMock) FindSubCategoryByNameFold(ctx context.Context, categoryID int64, name string) (model.SubCategory, error) {
	args := m.Called(ctx, categoryID, name)
	s, _ := args.Get(0).(model.SubCategory)
	return s, args.Error(1)
}

func (m *CategoryRepoMock) GetOrCreateSubCategory(ctx context.Context, categoryID int64, name string) (model.SubCategory, error) {
	args := m.Called(ctx, categoryID, name)
	s, _ := args.Get(0).(model.SubCategory)
	return s, args.Error(1)
}

type CartRepoMock struct{ mock.Mock }

func (m *CartRepoMock) GetOrCreateByUserID(ctx context.Context, userID int64) (model.Cart, error) {
	args := m.Called(ctx, userID)
	c, _ := args.Get(0).(model.Cart)
	return c, args.Error(1)
}

func (m *CartRepoMock) FindByUserID(ctx context.Context, userID int64) (model.Cart, error) {
	args := m.Called(ctx, userID)
	c, _ := args.Get(0).(model.Cart)
	return c, args.Error(1)
}

func (m *CartRepoMock) Clear(ctx context.Context, cartID int64) error {
	args := m.Called(ctx, cartID)
	return args.Error(0)
}

type CartItemRepoMock struct{ mock.Mock }

func (m *CartItemRepoMock) ListByCartID(ctx context.Context, cartID int64) ([]model.CartItem, error) {
	args := m.Called(ctx, cartID)
	items, _ := args.Get(0).([]model.CartItem)
	return items, args.Error(1)
}

func (m *CartItemRepoMock) UpsertAdd(ctx context.Context, cartID int64, productSerial int64, addQty int64) error {
	args := m.Called(ctx, cartID, productSerial, addQty)
	return args.Error(0)
}

func (m *CartItemRepoMock) DeleteByID(ctx context.Context, cartItemID int64) error {
	args := m.Called(ctx, cartItemID)
	return args.Error(0)
}

func (m *CartItemRepoMock) IsOwnedByUser(ctx context.Context, cartItemID int64, userID int64) (bool, error) {
	args := m.Called(ctx, cartItemID, userID)
	return args.Bool(0), args.Error(1)
}

type OrderRepoMock struct{ mock.Mock }

func (m *OrderRepoMock) Create(ctx context.Context, order model.Order) (int64, error) {
	args := m.Called(ctx, order)
	return args.Get(0).(int64), args.Error(1)
}

func (m *OrderRepoMock) ListByUserID(ctx context.Context, userID int64) ([]model.Order, error) {
	args := m.Called(ctx, userID)
	items, _ := args.Get(0).([]model.Order)
	return items, args.Error(1)
}

func (m *OrderRepoMock) FindByID(ctx context.Context, orderID int64) (model.Order, error) {
	args := m.Called(ctx, orderID)
	o, _ := args.Get(0).(model.Order)
	return o, args.Error(1)
}

type OrderItemRepoMock struct{ mock.Mock }

func (m *OrderItemRepoMock) CreateBulk(ctx context.Context, orderID int64, items []model.OrderItem) error {
	args := m.Called(ctx, orderID, items)
	return args.Error(0)
}

func (m *OrderItemRepoMock) ListByOrderID(ctx context.Context, orderID int64) ([]model.OrderItem, error) {
	args := m.Called(ctx, orderID)
	items, _ := args.Get(0).([]model.OrderItem)
	return items, args.Error(1)
}

type FulfillmentLogRepoMock struct{ mock.Mock }

func (m *FulfillmentLogRepoMock) Create(ctx context.Context, log model.FulfillmentLog) error {
	args := m.Called(ctx, log)
	return args.Error(0)
}

func (m *FulfillmentLogRepoMock) ListNeedsReconcile(ctx context.Context) ([]model.FulfillmentLog, error) {
	args := m.Called(ctx)
	items, _ := args.Get(0).([]model.FulfillmentLog)
	return items, args.Error(1)
}

type UserRepoMock struct{ mock.Mock }

func (m *UserRepoMock) Create(ctx context.Context, user *model.User, profile *model.UserProfile) error {
	args := m.Called(ctx, user, profile)
	return args.Error(0)
}

func (m *UserRepoMock) FindByID(ctx context.Context, userID int64) (*model.User, error) {
	args := m.Called(ctx, userID)
	u, _ := args.Get(0).(*model.User)
	return u, args.Error(1)
}

func (m *UserRepoMock) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	args := m.Called(ctx, email)
	u, _ := args.Get(0).(*model.User)
	return u, args.Error(1)
}

func (m *UserRepoMock) FindByPhoneNumber(ctx context.Context, phoneNumber string) (*model.User, error) {
	args := m.Called(ctx, phoneNumber)
	u, _ := args.Get(0).(*model.User)
	return u, args.Error(1)
}

func (m *UserRepoMock) Update(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

// =====================
// Txまわりのフェイク
// =====================

// WithinTxをそのまま実行するだけ（commit/rollbackはしない）。
type TxManagerFake struct {
	Repos TxReposFake
}

type TxReposFake struct {
	OrdersRepo     repo.OrderRepository
	OrderItemsRepo repo.OrderItemRepository
	CartsRepo      repo.CartRepository
	CartItemsRepo  repo.CartItemRepository
	ProductsRepo   repo.ProductRepository
}

func (f *TxReposFake) Orders() repo.OrderRepository         { return f.OrdersRepo }
func (f *TxReposFake) OrderItems() repo.OrderItemRepository { return f.OrderItemsRepo }
func (f *TxReposFake) Carts() repo.CartRepository           { return f.CartsRepo }
func (f *TxReposFake) CartItems() repo.CartItemRepository   { return f.CartItemsRepo }
func (f *TxReposFake) Products() repo.ProductRepository     { return f.ProductsRepo }

func (m *TxManagerFake) WithinTx(ctx context.Context, fn func(r repo.TxRepos) error) error {
	return fn(&m.Repos)
}

// =====================
// 業者クライアントのモック
// =====================

type FulfillmentClientMock struct{ mock.Mock }

func (m *FulfillmentClientMock) AccessToken(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

func (m *FulfillmentClientMock) SubmitOrder(ctx context.Context, token string, payload fulfillment.OrderPayload) (fulfillment.CreateOrderResponse, error) {
	args := m.Called(ctx, token, payload)
	resp, _ := args.Get(0).(fulfillment.CreateOrderResponse)
	return resp, args.Error(1)
}

// 予測可能な注文番号（テスト用）
type SeqOrderNumberGenerator struct {
	Prefix string
	n      int
}

func (g *SeqOrderNumberGenerator) Next() string {
	g.n++
	return fmt.Sprintf("%s-%d", g.Prefix, g.n)
}

// =====================
// Helpers
// =====================

var ErrDBDown = errors.New("db down")

func assertHTTPError(t *testing.T, err error, wantStatus int) {
	t.Helper()
	assert.Error(t, err)
	he, ok := usecase.AsHTTPError(err)
	if assert.True(t, ok, "expected HTTPError, got %v", err) {
		assert.Equal(t, wantStatus, he.Status)
	}
}
