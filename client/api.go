package client

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/ManishKrBarman/LokRise-sub002/checkout"
)

// SaveAddress writes checkout shipping details to the profile.
func (c *Client) SaveAddress(ctx context.Context, d checkout.ShippingDetails) error {
	body := struct {
		Phone   string  `json:"phone,omitempty"`
		Address Address `json:"address"`
	}{
		Phone: d.Phone,
		Address: Address{
			Street:     d.Street,
			City:       d.City,
			State:      d.State,
			PostalCode: d.PostalCode,
			Country:    d.Country,
		},
	}
	var u User
	if err := c.do(ctx, http.MethodPut, "/user/", body, &u, true); err != nil {
		return err
	}
	return c.saveSession(c.Session().Token, u)
}

type PaymentRequest struct {
	Amount   decimal.Decimal `json:"amount"`
	Note     string          `json:"note,omitempty"`
	OrderRef string          `json:"order_ref,omitempty"`
}

type Payment struct {
	PaymentRef string `json:"payment_ref"`
	Amount     string `json:"amount"`
	Currency   string `json:"currency"`
	UPILink    string `json:"upi_link"`
	QR         string `json:"qr"`
}

// InitiatePayment asks for a UPI link and QR code for the amount.
func (c *Client) InitiatePayment(ctx context.Context, req PaymentRequest) (Payment, error) {
	var p Payment
	err := c.do(ctx, http.MethodPost, "/payment/payment", req, &p, false)
	return p, err
}

// PayHandoff starts payment for a finished checkout.
func (c *Client) PayHandoff(ctx context.Context, h checkout.Handoff) (Payment, error) {
	return c.InitiatePayment(ctx, PaymentRequest{Amount: h.Totals.Total, Note: "LokRise order for " + h.Shipping.FullName})
}

type Product struct {
	ID          uint     `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Price       float64  `json:"price"`
	Images      []string `json:"images"`
	Type        string   `json:"type"`
	Stock       int      `json:"stock"`
}

// ProductQuery mirrors the catalogue filters. Zero values are left out.
type ProductQuery struct {
	Search     string
	Type       string
	CategoryID uint
	SortBy     string
	Order      string
}

func (q ProductQuery) values() url.Values {
	v := url.Values{}
	set := func(k, val string) {
		if val != "" {
			v.Set(k, val)
		}
	}
	set("search", q.Search)
	set("type", q.Type)
	set("sort_by", q.SortBy)
	set("order", q.Order)
	if q.CategoryID != 0 {
		v.Set("category_id", strconv.FormatUint(uint64(q.CategoryID), 10))
	}
	return v
}

func (c *Client) ListProducts(ctx context.Context, q ProductQuery) ([]Product, error) {
	path := "/products"
	if enc := q.values().Encode(); enc != "" {
		path += "?" + enc
	}
	var products []Product
	err := c.do(ctx, http.MethodGet, path, nil, &products, false)
	return products, err
}
