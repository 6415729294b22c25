package shopify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/slotadmin/backend/internal/domain/expressfee"
)

const (
	// maxResponseSize limits Admin API response bodies to 10MB
	maxResponseSize = 10 * 1024 * 1024

	defaultTimeout = 30 * time.Second

	// pageSize is the Admin API maximum for product listings
	pageSize = 250

	// maxProductPages bounds cursor pagination at 10k products
	maxProductPages = 40
)

// Config holds Admin API client settings
type Config struct {
	Timeout time.Duration
}

// Client talks to the Shopify Admin REST API. It implements the
// expressfee.RemoteCatalog port; credentials are passed per call so one
// client instance serves every tenant.
type Client struct {
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient creates a new Admin API client
func NewClient(cfg Config, logger *zap.Logger) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger.Named("shopify"),
	}
}

// product is the wire representation of an Admin API product
type product struct {
	ID          int64     `json:"id,omitempty"`
	Title       string    `json:"title"`
	Vendor      string    `json:"vendor"`
	ProductType string    `json:"product_type,omitempty"`
	Tags        string    `json:"tags,omitempty"`
	Status      string    `json:"status,omitempty"`
	Variants    []variant `json:"variants,omitempty"`
}

type variant struct {
	ID               int64  `json:"id,omitempty"`
	Price            string `json:"price"`
	SKU              string `json:"sku,omitempty"`
	Taxable          *bool  `json:"taxable,omitempty"`
	RequiresShipping *bool  `json:"requires_shipping,omitempty"`
}

type productEnvelope struct {
	Product product `json:"product"`
}

type productListEnvelope struct {
	Products []product `json:"products"`
}

type variantEnvelope struct {
	Variant variant `json:"variant"`
}

// FindBySignature looks up the fee product for an amount by its deterministic
// title. Returns expressfee.ErrProductNotFound when absent.
func (c *Client) FindBySignature(ctx context.Context, creds expressfee.CatalogCredentials, amount decimal.Decimal) (*expressfee.FeeProduct, error) {
	query := url.Values{}
	query.Set("title", expressfee.ProductTitle(amount))
	query.Set("vendor", expressfee.ProductVendor)
	query.Set("limit", "10")

	body, err := c.doRequest(ctx, creds, http.MethodGet, "products.json?"+query.Encode(), nil)
	if err != nil {
		return nil, err
	}

	var envelope productListEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("%w: invalid product list response: %v", expressfee.ErrCatalogRequestFailed, err)
	}

	title := expressfee.ProductTitle(amount)
	for i := range envelope.Products {
		if envelope.Products[i].Title == title {
			return toFeeProduct(&envelope.Products[i]), nil
		}
	}
	return nil, expressfee.ErrProductNotFound
}

// Create creates a hidden draft fee product for the amount
func (c *Client) Create(ctx context.Context, creds expressfee.CatalogCredentials, amount decimal.Decimal) (*expressfee.FeeProduct, error) {
	no := false
	payload := productEnvelope{Product: product{
		Title:       expressfee.ProductTitle(amount),
		Vendor:      expressfee.ProductVendor,
		ProductType: expressfee.ProductType,
		Tags:        expressfee.ProductTag,
		Status:      "draft",
		Variants: []variant{{
			Price:            amount.Round(2).StringFixed(2),
			SKU:              expressfee.ProductSKU(amount),
			Taxable:          &no,
			RequiresShipping: &no,
		}},
	}}

	requestBody, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to encode product: %v", expressfee.ErrCatalogRequestFailed, err)
	}

	body, err := c.doRequest(ctx, creds, http.MethodPost, "products.json", requestBody)
	if err != nil {
		return nil, err
	}

	var envelope productEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("%w: invalid product response: %v", expressfee.ErrCatalogRequestFailed, err)
	}

	c.logger.Info("Created fee product",
		zap.String("shop_domain", creds.ShopDomain),
		zap.Int64("product_id", envelope.Product.ID),
		zap.String("amount", amount.Round(2).StringFixed(2)),
	)

	return toFeeProduct(&envelope.Product), nil
}

// UpdatePrice sets the price of an existing fee product's variant
func (c *Client) UpdatePrice(ctx context.Context, creds expressfee.CatalogCredentials, feeProduct *expressfee.FeeProduct, amount decimal.Decimal) error {
	variantID := feeProduct.VariantID
	if variantID == 0 {
		refreshed, err := c.getProduct(ctx, creds, feeProduct.RemoteID)
		if err != nil {
			return err
		}
		variantID = refreshed.VariantID
	}
	if variantID == 0 {
		return fmt.Errorf("%w: product %d has no variant", expressfee.ErrCatalogRequestFailed, feeProduct.RemoteID)
	}

	payload := variantEnvelope{Variant: variant{
		ID:    variantID,
		Price: amount.Round(2).StringFixed(2),
	}}
	requestBody, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("%w: failed to encode variant: %v", expressfee.ErrCatalogRequestFailed, err)
	}

	if _, err := c.doRequest(ctx, creds, http.MethodPut, fmt.Sprintf("variants/%d.json", variantID), requestBody); err != nil {
		return err
	}

	c.logger.Info("Updated fee product price",
		zap.String("shop_domain", creds.ShopDomain),
		zap.Int64("product_id", feeProduct.RemoteID),
		zap.String("amount", amount.Round(2).StringFixed(2)),
	)
	return nil
}

// ListByMarker returns every product carrying the fee product marker tag.
// The Admin API filters by vendor; the marker tag is checked client-side.
// Listings over one page are followed via the Link header cursor.
func (c *Client) ListByMarker(ctx context.Context, creds expressfee.CatalogCredentials) ([]expressfee.FeeProduct, error) {
	query := url.Values{}
	query.Set("vendor", expressfee.ProductVendor)
	query.Set("limit", fmt.Sprintf("%d", pageSize))
	path := "products.json?" + query.Encode()

	products := make([]expressfee.FeeProduct, 0, pageSize)
	for page := 0; page < maxProductPages; page++ {
		body, header, err := c.do(ctx, creds, http.MethodGet, path, nil)
		if err != nil {
			return nil, err
		}

		var envelope productListEnvelope
		if err := json.Unmarshal(body, &envelope); err != nil {
			return nil, fmt.Errorf("%w: invalid product list response: %v", expressfee.ErrCatalogRequestFailed, err)
		}
		for i := range envelope.Products {
			if hasTag(envelope.Products[i].Tags, expressfee.ProductTag) {
				products = append(products, *toFeeProduct(&envelope.Products[i]))
			}
		}

		cursor := nextPageCursor(header.Get("Link"))
		if cursor == "" {
			return products, nil
		}
		// Cursor requests reject the original filter parameters
		next := url.Values{}
		next.Set("limit", fmt.Sprintf("%d", pageSize))
		next.Set("page_info", cursor)
		path = "products.json?" + next.Encode()
	}
	return nil, fmt.Errorf("%w: product listing exceeded %d pages", expressfee.ErrCatalogRequestFailed, maxProductPages)
}

// Delete removes a fee product from the catalog. A product that is
// already gone satisfies the delete, so a missing-product answer is not
// an error.
func (c *Client) Delete(ctx context.Context, creds expressfee.CatalogCredentials, remoteID int64) error {
	_, err := c.doRequest(ctx, creds, http.MethodDelete, fmt.Sprintf("products/%d.json", remoteID), nil)
	if errors.Is(err, expressfee.ErrProductNotFound) {
		c.logger.Debug("Fee product already absent",
			zap.String("shop_domain", creds.ShopDomain),
			zap.Int64("product_id", remoteID),
		)
		return nil
	}
	if err != nil {
		return err
	}

	c.logger.Info("Deleted fee product",
		zap.String("shop_domain", creds.ShopDomain),
		zap.Int64("product_id", remoteID),
	)
	return nil
}

func (c *Client) getProduct(ctx context.Context, creds expressfee.CatalogCredentials, remoteID int64) (*expressfee.FeeProduct, error) {
	body, err := c.doRequest(ctx, creds, http.MethodGet, fmt.Sprintf("products/%d.json", remoteID), nil)
	if err != nil {
		return nil, err
	}

	var envelope productEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("%w: invalid product response: %v", expressfee.ErrCatalogRequestFailed, err)
	}
	return toFeeProduct(&envelope.Product), nil
}

// doRequest executes one Admin API call and returns the response body.
func (c *Client) doRequest(ctx context.Context, creds expressfee.CatalogCredentials, method, path string, body []byte) ([]byte, error) {
	responseBody, _, err := c.do(ctx, creds, method, path, body)
	return responseBody, err
}

// do executes one Admin API call and returns the response body and headers.
// HTTP status codes map onto the catalog port's sentinel errors.
func (c *Client) do(ctx context.Context, creds expressfee.CatalogCredentials, method, path string, body []byte) ([]byte, http.Header, error) {
	base := creds.ShopDomain
	if !strings.Contains(base, "://") {
		base = "https://" + base
	}
	endpoint := fmt.Sprintf("%s/admin/api/%s/%s", base, creds.APIVersion, path)

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", expressfee.ErrCatalogRequestFailed, err)
	}
	req.Header.Set("X-Shopify-Access-Token", creds.AccessToken)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", expressfee.ErrCatalogUnavailable, err)
	}
	defer resp.Body.Close()

	responseBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, nil, fmt.Errorf("%w: failed to read response: %v", expressfee.ErrCatalogUnavailable, err)
	}

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return responseBody, resp.Header, nil
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return nil, nil, fmt.Errorf("%w: status %d", expressfee.ErrCatalogUnauthorized, resp.StatusCode)
	case resp.StatusCode == http.StatusNotFound:
		return nil, nil, expressfee.ErrProductNotFound
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
		return nil, nil, fmt.Errorf("%w: status %d", expressfee.ErrCatalogUnavailable, resp.StatusCode)
	default:
		return nil, nil, fmt.Errorf("%w: status %d: %s", expressfee.ErrCatalogRequestFailed, resp.StatusCode, truncate(responseBody, 200))
	}
}

// nextPageCursor extracts the page_info cursor from an Admin API Link
// header, e.g.
//
//	<https://shop/admin/api/2024-10/products.json?page_info=abc&limit=250>; rel="next"
//
// Returns empty when there is no next page.
func nextPageCursor(linkHeader string) string {
	for _, segment := range strings.Split(linkHeader, ",") {
		if !strings.Contains(segment, `rel="next"`) {
			continue
		}
		start := strings.Index(segment, "<")
		end := strings.Index(segment, ">")
		if start < 0 || end <= start {
			return ""
		}
		parsed, err := url.Parse(segment[start+1 : end])
		if err != nil {
			return ""
		}
		return parsed.Query().Get("page_info")
	}
	return ""
}

func toFeeProduct(p *product) *expressfee.FeeProduct {
	fp := &expressfee.FeeProduct{
		RemoteID: p.ID,
		Title:    p.Title,
		Vendor:   p.Vendor,
		Tags:     p.Tags,
	}
	if len(p.Variants) > 0 {
		fp.VariantID = p.Variants[0].ID
		fp.SKU = p.Variants[0].SKU
		if price, err := decimal.NewFromString(p.Variants[0].Price); err == nil {
			fp.Price = price
		}
	}
	return fp
}

func hasTag(tags, wanted string) bool {
	for _, tag := range strings.Split(tags, ",") {
		if strings.EqualFold(strings.TrimSpace(tag), wanted) {
			return true
		}
	}
	return false
}

func truncate(body []byte, max int) string {
	if len(body) <= max {
		return string(body)
	}
	return string(body[:max]) + "..."
}

var _ expressfee.RemoteCatalog = (*Client)(nil)
