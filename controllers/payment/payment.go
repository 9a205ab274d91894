package paymentControllers

import (
	"encoding/base64"
	"errors"
	"log"
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	qrcode "github.com/skip2/go-qrcode"
	"gorm.io/gorm"

	"github.com/ManishKrBarman/LokRise-sub002/models"
)

const qrSize = 256

// UPISettings names the account payments are collected into.
type UPISettings struct {
	VPA       string
	PayeeName string
	Currency  string
}

type CreatePaymentRequest struct {
	Amount   decimal.Decimal `json:"amount"`
	Note     string          `json:"note"`
	OrderRef string          `json:"order_ref"`
}

type PaymentResponse struct {
	PaymentRef string `json:"payment_ref"`
	Amount     string `json:"amount"`
	Currency   string `json:"currency"`
	UPILink    string `json:"upi_link"`
	QR         string `json:"qr"`
}

func escape(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}

// BuildUPILink renders a upi://pay deep link. Parameter order is fixed.
func BuildUPILink(s UPISettings, amount decimal.Decimal, note, ref string) string {
	var b strings.Builder
	b.WriteString("upi://pay?pa=")
	b.WriteString(escape(s.VPA))
	b.WriteString("&pn=")
	b.WriteString(escape(s.PayeeName))
	b.WriteString("&am=")
	b.WriteString(amount.StringFixed(2))
	b.WriteString("&cu=")
	b.WriteString(escape(s.Currency))
	if note != "" {
		b.WriteString("&tn=")
		b.WriteString(escape(note))
	}
	b.WriteString("&tr=")
	b.WriteString(escape(ref))
	return b.String()
}

// QRDataURL encodes content as a PNG QR code inside a data URL.
func QRDataURL(content string) (string, error) {
	png, err := qrcode.Encode(content, qrcode.Medium, qrSize)
	if err != nil {
		return "", err
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(png), nil
}

// POST /payment/payment
// With an order_ref the amount comes from the order.
func CreatePayment(db *gorm.DB, s UPISettings) gin.HandlerFunc {
	return func(c *gin.Context) {
		if s.VPA == "" {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "UPI payments are not configured"})
			return
		}

		var req CreatePaymentRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload"})
			return
		}

		amount := req.Amount
		if req.OrderRef != "" {
			var order models.Order
			if err := db.Where("order_ref = ?", req.OrderRef).First(&order).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
					return
				}
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
				return
			}
			amount = decimal.NewFromFloat(order.TotalAmount)
		}
		amount = amount.Round(2)
		if !amount.IsPositive() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "amount must be greater than zero"})
			return
		}

		ref := uuid.NewString()
		link := BuildUPILink(s, amount, req.Note, ref)
		qr, err := QRDataURL(link)
		if err != nil {
			log.Printf("❌ QR generation failed: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate QR code"})
			return
		}

		payment := models.Payment{
			Ref:      ref,
			OrderRef: req.OrderRef,
			Amount:   amount.InexactFloat64(),
			Currency: s.Currency,
			UPILink:  link,
			Status:   models.PaymentStatusPending,
		}
		if err := models.SavePayment(db, &payment); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save payment"})
			return
		}

		c.JSON(http.StatusCreated, PaymentResponse{
			PaymentRef: ref,
			Amount:     amount.StringFixed(2),
			Currency:   s.Currency,
			UPILink:    link,
			QR:         qr,
		})
	}
}

// GET /payment/:ref
func GetPayment(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, err := models.GetPaymentByRef(db, c.Param("ref"))
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "payment not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
			return
		}
		c.JSON(http.StatusOK, p)
	}
}
