package processor

import (
	"context"
	"fmt"
	"francoggm/versapay-checkout/internal/models"
	"net/http"
	"time"

	"github.com/bytedance/sonic"
	"github.com/valyala/fasthttp"
)

type Client struct {
	endpoint Endpoint
	creds    Credentials
	timeout  time.Duration
	client   *fasthttp.Client
}

func NewClient(endpoint Endpoint, creds Credentials, timeout time.Duration) *Client {
	return &Client{
		endpoint: endpoint,
		creds:    creds,
		timeout:  timeout,
		client:   &fasthttp.Client{},
	}
}

func (c *Client) Endpoint() Endpoint {
	return c.endpoint
}

func (c *Client) HasCredentials() bool {
	return c.creds.Valid()
}

func (c *Client) CreateWallet(ctx context.Context) (string, error) {
	if !c.creds.Valid() {
		return "", models.NewCheckoutError(models.ErrConfiguration, "missing api credentials", nil)
	}

	status, body, err := c.post(ctx, "wallets", walletRequest{GatewayAuthorization: c.creds})
	if err != nil {
		return "", models.NewCheckoutError(models.ErrTransport, "wallet request failed", err)
	}

	if status != http.StatusOK && status != http.StatusCreated {
		return "", models.NewCheckoutError(models.ErrTransport, fmt.Sprintf("wallet request failed with status code: %d", status), nil)
	}

	var resp walletResponse
	if err := sonic.Unmarshal(body, &resp); err != nil {
		return "", models.NewCheckoutError(models.ErrTransport, "failed to decode wallet response", err)
	}

	if resp.WalletID == "" {
		return "", models.NewCheckoutError(models.ErrTransport, "wallet response without walletId", nil)
	}

	return resp.WalletID, nil
}

func (c *Client) CreateSession(ctx context.Context, opts models.SessionOptions) (string, error) {
	if !c.creds.Valid() {
		return "", models.NewCheckoutError(models.ErrConfiguration, "missing api credentials", nil)
	}

	req := sessionRequest{
		GatewayAuthorization: c.creds,
		Options:              newSessionOptions(opts),
	}

	status, body, err := c.post(ctx, "sessions", req)
	if err != nil {
		return "", models.NewCheckoutError(models.ErrTransport, "session request failed", err)
	}

	if status != http.StatusOK && status != http.StatusCreated {
		return "", models.NewCheckoutError(models.ErrSessionRejected, fmt.Sprintf("session request failed with status code: %d, body: %s", status, body), nil)
	}

	var resp sessionResponse
	if err := sonic.Unmarshal(body, &resp); err != nil {
		return "", models.NewCheckoutError(models.ErrSessionRejected, "failed to decode session response", err)
	}

	key := resp.key()
	if key == "" {
		return "", models.NewCheckoutError(models.ErrSessionRejected, fmt.Sprintf("session response without id: %s", body), nil)
	}

	return key, nil
}

// CreateSale submits the tokens to the processor. It is never retried.
func (c *Client) CreateSale(ctx context.Context, sessionID string, req *SaleRequest) (*models.SaleResult, error) {
	if !c.creds.Valid() {
		return nil, models.NewCheckoutError(models.ErrConfiguration, "missing api credentials", nil)
	}
	if sessionID == "" {
		return nil, models.NewCheckoutError(models.ErrConfiguration, "missing session key", nil)
	}

	req.GatewayAuthorization = c.creds

	status, body, err := c.post(ctx, "sessions/"+sessionID+"/sales", req)
	if err != nil {
		return nil, models.NewCheckoutError(models.ErrTransport, "sale request failed", err)
	}

	var resp saleResponse
	if err := sonic.Unmarshal(body, &resp); err != nil {
		return nil, models.NewCheckoutError(models.ErrTransport, fmt.Sprintf("failed to decode sale response with status code: %d", status), err)
	}

	if resp.Message != nil {
		message, _ := sonic.MarshalString(resp.Message)
		return nil, models.NewCheckoutError(models.ErrProcessorDeclined, message, nil)
	}

	if status < http.StatusOK || status >= http.StatusMultipleChoices {
		return nil, models.NewCheckoutError(models.ErrTransport, fmt.Sprintf("sale request failed with status code: %d, body: %s", status, body), nil)
	}

	return resp.result(req.ApplePayPayment != nil), nil
}

func (c *Client) post(ctx context.Context, path string, payload any) (int, []byte, error) {
	if err := ctx.Err(); err != nil {
		return 0, nil, err
	}

	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer func() {
		fasthttp.ReleaseRequest(req)
		fasthttp.ReleaseResponse(resp)
	}()

	data, err := sonic.Marshal(payload)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to marshal %s payload: %w", path, err)
	}

	req.SetRequestURI(c.endpoint.APIBase + path)
	req.Header.SetMethod(http.MethodPost)
	req.Header.SetContentType("application/json")
	req.Header.Set("Accept", "application/json")
	req.SetBody(data)

	timeout := c.timeout
	if deadline, ok := ctx.Deadline(); ok {
		if remaining := time.Until(deadline); remaining < timeout {
			timeout = remaining
		}
	}

	if err := c.client.DoTimeout(req, resp, timeout); err != nil {
		return 0, nil, fmt.Errorf("failed to make %s request: %w", path, err)
	}

	body := append([]byte(nil), resp.Body()...)
	return resp.StatusCode(), body, nil
}
