package usecase

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"sync"
	"time"

	"app/internal/domain/model"
	"app/internal/fulfillment"
	repo "app/internal/repository"

	"github.com/labstack/gommon/log"
	"github.com/shopspring/decimal"
)

// 注文番号の採番。Orderテーブルのunique制約を満たすため、
// 衝突しない値を返すことが約束。
type OrderNumberGenerator interface {
	Next() string
}

// OrderUsecase は注文確定のワークフローを担当します。
// カート検証 → 明細と合計の組み立て → 業者API送信 → ローカル確定 → カートクリア。
type OrderUsecase struct {
	tx           repo.TransactionManager
	cartRepo     repo.CartRepository
	cartItemRepo repo.CartItemRepository
	productRepo  repo.ProductRepository
	flogRepo     repo.FulfillmentLogRepository
	client       fulfillment.Client
	orderNumbers OrderNumberGenerator

	//同一ユーザーの同時注文を直列化する（業者への二重送信防止）
	userLocks sync.Map

	logger *log.Logger
}

func NewOrderUsecase(
	tx repo.TransactionManager,
	cartRepo repo.CartRepository,
	cartItemRepo repo.CartItemRepository,
	productRepo repo.ProductRepository,
	flogRepo repo.FulfillmentLogRepository,
	client fulfillment.Client,
	orderNumbers OrderNumberGenerator,
) *OrderUsecase {
	return &OrderUsecase{
		tx:           tx,
		cartRepo:     cartRepo,
		cartItemRepo: cartItemRepo,
		productRepo:  productRepo,
		flogRepo:     flogRepo,
		client:       client,
		orderNumbers: orderNumbers,
		logger:       log.New("order"),
	}
}

// 配送先はリクエスト入力から渡す（住所は保存しない）。
type PlaceOrderInput struct {
	FirstName   string
	LastName    string
	Address1    string
	Phone       string
	Email       string
	City        string
	Zip         string
	Province    string
	CountryCode string
}

type PlaceOrderOutput struct {
	Message     string `json:"message"`
	OrderNumber string `json:"order_number"`
	TrackingURL string `json:"tracking_url"`
}

type OrderItemOutput struct {
	ProductSerial int64 `json:"product_serial"`
	Quantity      int64 `json:"quantity"`
}

type OrderOutput struct {
	ID              int64             `json:"id"`
	OrderNumber     string            `json:"order_number"`
	TotalOrderValue decimal.Decimal   `json:"total_order_value"`
	TrackingURL     string            `json:"tracking_url"`
	CreatedAt       time.Time         `json:"created_at"`
	Items           []OrderItemOutput `json:"items"`
}

func (u *OrderUsecase) lockUser(userID int64) *sync.Mutex {
	v, _ := u.userLocks.LoadOrStore(userID, &sync.Mutex{})
	return v.(*sync.Mutex)
}

// PlaceOrder は注文を確定する。
// 業者が成功を返したときだけ、Order+OrderItemsの作成とカートクリアを
// 1トランザクションで行う。失敗時はローカルに何も残さない。
func (u *OrderUsecase) PlaceOrder(ctx context.Context, userID int64, in PlaceOrderInput) (PlaceOrderOutput, error) {
	if userID <= 0 {
		return PlaceOrderOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if in.FirstName == "" || in.Address1 == "" || in.Phone == "" ||
		in.City == "" || in.Zip == "" || in.CountryCode == "" {
		return PlaceOrderOutput{}, NewHTTPError(http.StatusBadRequest, "incomplete shipping address")
	}

	mu := u.lockUser(userID)
	mu.Lock()
	defer mu.Unlock()

	//カート検証
	cart, err := u.cartRepo.FindByUserID(ctx, userID)
	if err == repo.ErrNotFound {
		return PlaceOrderOutput{}, NewHTTPError(http.StatusBadRequest, "cart is empty")
	}
	if err != nil {
		return PlaceOrderOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	cartItems, err := u.cartItemRepo.ListByCartID(ctx, cart.ID)
	if err != nil {
		return PlaceOrderOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if len(cartItems) == 0 {
		return PlaceOrderOutput{}, NewHTTPError(http.StatusBadRequest, "cart is empty")
	}

	//明細と合計の組み立て（価格は現在の商品価格 × 数量）。
	//削除済み・非公開の商品はカート表示と同じく対象外。請求もしない。
	lineItems := make([]fulfillment.LineItem, 0, len(cartItems))
	orderItems := make([]model.OrderItem, 0, len(cartItems))
	total := decimal.Zero

	for _, ci := range cartItems {
		p, err := u.productRepo.FindBySerial(ctx, ci.ProductSerial)
		if err == repo.ErrNotFound {
			continue
		}
		if err != nil {
			return PlaceOrderOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if !p.IsVisible {
			continue
		}

		lineTotal := p.PriceWithShipping.Mul(decimal.NewFromInt(ci.Quantity))

		lineItems = append(lineItems, fulfillment.LineItem{
			SearchFromMyProducts: 1,
			SKU:                  p.SKU,
			Quantity:             strconv.FormatInt(ci.Quantity, 10),
			Price:                lineTotal.StringFixed(2),
			Designs:              []string{},
		})

		orderItems = append(orderItems, model.OrderItem{
			ProductSerial: ci.ProductSerial,
			Quantity:      ci.Quantity,
		})

		total = total.Add(lineTotal)
	}

	//対象の商品が1つも残らなければ空カート扱い
	if len(lineItems) == 0 {
		return PlaceOrderOutput{}, NewHTTPError(http.StatusBadRequest, "cart is empty")
	}

	//注文番号の採番（unique制約があるので必ず衝突しない値）
	orderNumber := u.orderNumbers.Next()

	//トークンはキャッシュ優先、ミス時に取得
	token, err := u.client.AccessToken(ctx)
	if err != nil {
		u.logger.Errorf("access token unavailable: %v", err)
		return PlaceOrderOutput{}, NewHTTPError(http.StatusInternalServerError, "failed to retrieve access token")
	}

	payload := fulfillment.OrderPayload{
		OrderNumber:      orderNumber,
		ProviderShipping: "1",
		Gateway:          "COD",
		TotalOrderValue:  total.StringFixed(2),
		LineItems:        lineItems,
		AddOns: []fulfillment.AddOn{
			{BoxPacking: 1, GiftWrap: 0, RushOrder: 1, CustomLetter: ""},
		},
		ShippingAddress: fulfillment.ShippingAddress{
			FirstName:   in.FirstName,
			LastName:    in.LastName,
			Address1:    in.Address1,
			Phone:       in.Phone,
			Email:       in.Email,
			City:        in.City,
			Zip:         in.Zip,
			Province:    in.Province,
			CountryCode: in.CountryCode,
		},
	}

	//業者API送信。失敗してもカートには手を付けない。
	resp, err := u.client.SubmitOrder(ctx, token, payload)
	if err != nil {
		u.logger.Errorf("order submit failed: order_number=%s err=%v", orderNumber, err)
		return PlaceOrderOutput{}, NewHTTPError(http.StatusInternalServerError, "failed to place order")
	}

	//業者が明示的に拒否。詳細を返してユーザーに再試行してもらう。
	if resp.Message != fulfillment.MessageOrderCreated {
		u.logger.Errorf("order rejected by provider: order_number=%s message=%s", orderNumber, resp.Message)
		return PlaceOrderOutput{}, NewHTTPError(http.StatusBadRequest, "order placement failed: "+resp.Message)
	}

	//ローカル確定（Order作成・明細作成・カートクリアを1トランザクション）
	now := time.Now()
	txErr := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		orderID, err := r.Orders().Create(ctx, model.Order{
			UserID:          userID,
			OrderNumber:     orderNumber,
			TotalOrderValue: total,
			TrackingURL:     resp.TrackingURL,
			CreatedAt:       now,
		})
		if err != nil {
			return err
		}

		if err := r.OrderItems().CreateBulk(ctx, orderID, orderItems); err != nil {
			return err
		}

		if err := r.Carts().Clear(ctx, cart.ID); err != nil {
			return err
		}

		return nil
	})

	if txErr != nil {
		//業者側には注文ができている。突き合わせ用に全部残す。
		u.recordReconcile(ctx, userID, orderNumber, payload, resp, txErr)
		return PlaceOrderOutput{}, NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	return PlaceOrderOutput{
		Message:     "Order placed successfully",
		OrderNumber: orderNumber,
		TrackingURL: resp.TrackingURL,
	}, nil
}

// 業者側で作成済みの注文をローカルに記録できなかったときの証跡。
// ログとfulfillment_logsの両方に残す（テーブル書き込みはベストエフォート）。
func (u *OrderUsecase) recordReconcile(ctx context.Context, userID int64, orderNumber string, payload fulfillment.OrderPayload, resp fulfillment.CreateOrderResponse, cause error) {
	payloadJSON, _ := json.Marshal(payload)
	respJSON, _ := json.Marshal(resp)

	u.logger.Errorf(
		"order commit failed, provider-side order needs reconcile: order_number=%s err=%v payload=%s response=%s",
		orderNumber, cause, string(payloadJSON), string(respJSON),
	)

	if err := u.flogRepo.Create(ctx, model.FulfillmentLog{
		UserID:       userID,
		OrderNumber:  orderNumber,
		Status:       model.FulfillmentLogNeedsReconcile,
		PayloadJSON:  string(payloadJSON),
		ResponseJSON: string(respJSON),
	}); err != nil {
		u.logger.Errorf("fulfillment log write failed: order_number=%s err=%v", orderNumber, err)
	}
}

// ListOrderHistory は自分の注文を新しい順に返す。
func (u *OrderUsecase) ListOrderHistory(ctx context.Context, userID int64) ([]OrderOutput, error) {
	if userID <= 0 {
		return []OrderOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	var outs []OrderOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		orders, err := r.Orders().ListByUserID(ctx, userID)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		outs = make([]OrderOutput, 0, len(orders))
		for _, o := range orders {
			items, err := r.OrderItems().ListByOrderID(ctx, o.ID)
			if err != nil {
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}
			outs = append(outs, toOrderOutput(o, items))
		}
		return nil
	})

	if err != nil {
		return []OrderOutput{}, err
	}
	return outs, nil
}

func toOrderOutput(o model.Order, items []model.OrderItem) OrderOutput {
	outItems := make([]OrderItemOutput, 0, len(items))
	for _, it := range items {
		outItems = append(outItems, OrderItemOutput{
			ProductSerial: it.ProductSerial,
			Quantity:      it.Quantity,
		})
	}

	return OrderOutput{
		ID:              o.ID,
		OrderNumber:     o.OrderNumber,
		TotalOrderValue: o.TotalOrderValue,
		TrackingURL:     o.TrackingURL,
		CreatedAt:       o.CreatedAt,
		Items:           outItems,
	}
}
