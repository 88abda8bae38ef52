package fulfillment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"app/internal/cache"

	"github.com/labstack/gommon/log"
)

// 業者APIが落ちている・想定外の応答、のとき
var ErrUpstream = fmt.Errorf("fulfillment upstream error")

// トークンを取得できなかったとき
var ErrTokenUnavailable = fmt.Errorf("fulfillment access token unavailable")

// 注文ワークフローが依存する約束。
type Client interface {
	//キャッシュ済みトークンを返す。無ければ取得してキャッシュする。
	AccessToken(ctx context.Context) (string, error)
	SubmitOrder(ctx context.Context, token string, payload OrderPayload) (CreateOrderResponse, error)
}

const (
	//プロセス全体で共有する固定キー
	tokenCacheKey = "fulfillment_access_token"

	//業者側のトークン寿命に合わせた近似値
	tokenCacheTTL = time.Hour

	//遅い業者にワーカーを握られないための上限
	defaultTimeout = 15 * time.Second
)

type HTTPClient struct {
	baseURL      string
	clientID     string
	clientSecret string
	hc           *http.Client
	tokens       cache.TokenCache
	logger       *log.Logger
}

// DI
func NewHTTPClient(baseURL string, clientID string, clientSecret string, tokens cache.TokenCache) *HTTPClient {
	return &HTTPClient{
		baseURL:      strings.TrimRight(baseURL, "/"),
		clientID:     clientID,
		clientSecret: clientSecret,
		hc:           &http.Client{Timeout: defaultTimeout},
		tokens:       tokens,
		logger:       log.New("fulfillment"),
	}
}

// GetAccessToken はキャッシュを見ずにトークンを取りに行く。
func (c *HTTPClient) GetAccessToken(ctx context.Context) (string, error) {
	form := url.Values{}
	form.Set("ClientId", c.clientID)
	form.Set("client_secret", c.clientSecret)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/token", strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrTokenUnavailable, err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.hc.Do(req)
	if err != nil {
		c.logger.Errorf("token exchange failed: %v", err)
		return "", fmt.Errorf("%w: %v", ErrTokenUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		c.logger.Errorf("token exchange failed: status=%d body=%s", resp.StatusCode, string(body))
		return "", fmt.Errorf("%w: token endpoint returned %d", ErrTokenUnavailable, resp.StatusCode)
	}

	var tr tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tr); err != nil {
		return "", fmt.Errorf("%w: %v", ErrTokenUnavailable, err)
	}
	if tr.AccessToken == "" {
		return "", fmt.Errorf("%w: access token not found in response", ErrTokenUnavailable)
	}

	return tr.AccessToken, nil
}

// AccessToken はキャッシュ済みトークンを返す。
// ミス時は取得して1時間キャッシュする。同時リフレッシュは両方とも
// 業者に行くことがあるが、注文量が少ないので許容している。
func (c *HTTPClient) AccessToken(ctx context.Context) (string, error) {
	token, err := c.tokens.Get(ctx, tokenCacheKey)
	if err == nil && token != "" {
		return token, nil
	}
	if err != nil && err != cache.ErrCacheMiss {
		//キャッシュ障害は取得にフォールバック
		c.logger.Warnf("token cache read failed: %v", err)
	}

	token, err = c.GetAccessToken(ctx)
	if err != nil {
		return "", err
	}

	if err := c.tokens.Set(ctx, tokenCacheKey, token, tokenCacheTTL); err != nil {
		c.logger.Warnf("token cache write failed: %v", err)
	}

	return token, nil
}

// SubmitOrder は注文作成リクエストを送る。
// ネットワーク断・非2xxは ErrUpstream。2xxのレスポンスボディはそのまま返し、
// 成功/拒否の判定は呼び出し側に任せる。
func (c *HTTPClient) SubmitOrder(ctx context.Context, token string, payload OrderPayload) (CreateOrderResponse, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return CreateOrderResponse{}, fmt.Errorf("%w: %v", ErrUpstream, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/order/create", bytes.NewReader(body))
	if err != nil {
		return CreateOrderResponse{}, fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("ClientId", c.clientID)
	req.Header.Set("Accesstoken", token)

	resp, err := c.hc.Do(req)
	if err != nil {
		c.logger.Errorf("order submit failed: %v", err)
		return CreateOrderResponse{}, fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(resp.Body)
		c.logger.Errorf("order submit failed: status=%d body=%s", resp.StatusCode, string(respBody))
		return CreateOrderResponse{}, fmt.Errorf("%w: order endpoint returned %d", ErrUpstream, resp.StatusCode)
	}

	var out CreateOrderResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return CreateOrderResponse{}, fmt.Errorf("%w: %v", ErrUpstream, err)
	}

	return out, nil
}
