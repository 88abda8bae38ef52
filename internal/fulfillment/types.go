package fulfillment

// 注文作成APIに送る明細。
// quantity/priceは業者仕様どおり文字列で送る。
type LineItem struct {
	//SKU指定で業者側の登録済み商品を使うので1固定
	SearchFromMyProducts int      `json:"search_from_my_products"`
	SKU                  string   `json:"sku"`
	Quantity             string   `json:"quantity"`
	Price                string   `json:"price"`
	Designs              []string `json:"designs"`
}

type AddOn struct {
	BoxPacking   int    `json:"box_packing"`
	GiftWrap     int    `json:"gift_wrap"`
	RushOrder    int    `json:"rush_order"`
	CustomLetter string `json:"custom_letter"`
}

type ShippingAddress struct {
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	Address1    string `json:"address1"`
	Phone       string `json:"phone"`
	Email       string `json:"email"`
	City        string `json:"city"`
	Zip         string `json:"zip"`
	Province    string `json:"province"`
	CountryCode string `json:"country_code"`
}

// 注文作成APIのリクエストボディ。
// フィールド名は業者のワイヤ仕様に合わせる。
type OrderPayload struct {
	OrderNumber      string          `json:"order_number"`
	ProviderShipping string          `json:"qikink_shipping"`
	Gateway          string          `json:"gateway"`
	TotalOrderValue  string          `json:"total_order_value"`
	LineItems        []LineItem      `json:"line_items"`
	AddOns           []AddOn         `json:"add_ons"`
	ShippingAddress  ShippingAddress `json:"shipping_address"`
}

// 注文作成APIのレスポンス。成功時はmessageが固定文言になる。
type CreateOrderResponse struct {
	Message     string `json:"message"`
	TrackingURL string `json:"tracking_url"`
}

// 成功判定に使う業者側の固定文言
const MessageOrderCreated = "Order created successfully"

type tokenResponse struct {
	AccessToken string `json:"Accesstoken"`
}
