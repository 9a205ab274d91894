package orderControllers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/ManishKrBarman/LokRise-sub002/auth"
	"github.com/ManishKrBarman/LokRise-sub002/cart"
	"github.com/ManishKrBarman/LokRise-sub002/models"
	"github.com/ManishKrBarman/LokRise-sub002/testutil"
)

const shippingJSON = `{"full_name":"Asha Rao","phone":"9999999999","street":"12 MG Road","city":"Pune","postal_code":"411001","country":"IN"}`

func init() {
	gin.SetMode(gin.TestMode)
}

func newRouter(db *gorm.DB, hub *Hub, userID string) *gin.Engine {
	r := gin.New()
	user := r.Group("/orders", func(c *gin.Context) { c.Set(auth.CtxUserID, userID) })
	user.POST("/place", PlaceOrderHandler(db, cart.NewPricing(50, 0.1), hub))
	user.GET("/", GetUserOrdersHandler(db))
	user.GET("/:ref", GetUserOrderHandler(db))

	admin := r.Group("/admin/orders")
	admin.GET("", GetAllOrdersHandler(db))
	admin.PUT("/:orderID/status", UpdateOrderStatusHandler(db))
	admin.PUT("/:orderID/payment-status", UpdatePaymentStatusHandler(db))
	admin.DELETE("/:orderID", DeleteOrderHandler(db))
	admin.GET("/ws", OrderWebSocketHandler(hub))
	return r
}

func send(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	return rr
}

func fillCart(t *testing.T, db *gorm.DB, userID string, products map[*models.Product]int) {
	t.Helper()
	var userCart models.Cart
	require.NoError(t, db.Where("user_id = ?", userID).First(&userCart).Error)
	for p, qty := range products {
		require.NoError(t, db.Create(&models.CartItem{
			CartID:      userCart.CartID,
			ProductID:   p.ID,
			ProductName: p.Name,
			ProductType: p.Type,
			Price:       p.Price,
			Quantity:    qty,
			AddedAt:     time.Now(),
		}).Error)
	}
}

func placeBody(method string) string {
	return fmt.Sprintf(`{"shipping":%s,"payment_method":%q}`, shippingJSON, method)
}

func TestPlaceOrder(t *testing.T) {
	db := testutil.NewDB(t)
	u := testutil.SeedUser(t, db, "buyer@example.com", models.AccountBuyer)
	course := testutil.SeedProduct(t, db, "go-course", 10, 0)
	mug := models.Product{Name: "Mug", Price: 5, Type: models.ProductTypeProduct, Stock: 3}
	require.NoError(t, db.Create(&mug).Error)
	fillCart(t, db, u.ID, map[*models.Product]int{&course: 1, &mug: 2})

	r := newRouter(db, NewHub(), u.ID)
	rr := send(r, http.MethodPost, "/orders/place", placeBody("cod"))
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	var resp struct {
		Order models.Order `json:"order"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	order := resp.Order
	assert.NotEmpty(t, order.OrderRef)
	assert.Equal(t, "cod", order.PaymentMethod)
	assert.Equal(t, models.OrderStatusPending, order.Status)
	assert.Equal(t, "Pune", order.Shipping.City)
	assert.Len(t, order.Items, 2)
	assert.Equal(t, 20.0, order.Subtotal)
	assert.Equal(t, 2.0, order.Tax)
	assert.Equal(t, 50.0, order.ShippingCost)
	assert.Equal(t, 72.0, order.TotalAmount)

	var reloaded models.Product
	require.NoError(t, db.First(&reloaded, mug.ID).Error)
	assert.Equal(t, 1, reloaded.Stock)

	var left int64
	require.NoError(t, db.Model(&models.CartItem{}).Count(&left).Error)
	assert.Zero(t, left, "cart is cleared")

	rr = send(r, http.MethodGet, "/orders/", "")
	require.Equal(t, http.StatusOK, rr.Code)
	var mine []models.Order
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &mine))
	require.Len(t, mine, 1)

	assert.Equal(t, http.StatusOK, send(r, http.MethodGet, "/orders/"+order.OrderRef, "").Code)
	other := newRouter(db, nil, "someone-else")
	assert.Equal(t, http.StatusNotFound, send(other, http.MethodGet, "/orders/"+order.OrderRef, "").Code)
}

func TestPlaceOrderInsufficientStockRollsBack(t *testing.T) {
	db := testutil.NewDB(t)
	u := testutil.SeedUser(t, db, "buyer@example.com", models.AccountBuyer)
	mug := models.Product{Name: "Mug", Price: 5, Type: models.ProductTypeProduct, Stock: 1}
	require.NoError(t, db.Create(&mug).Error)
	fillCart(t, db, u.ID, map[*models.Product]int{&mug: 2})

	r := newRouter(db, nil, u.ID)
	rr := send(r, http.MethodPost, "/orders/place", placeBody(""))
	assert.Equal(t, http.StatusConflict, rr.Code)
	assert.Contains(t, rr.Body.String(), "Mug")

	var orders int64
	require.NoError(t, db.Model(&models.Order{}).Count(&orders).Error)
	assert.Zero(t, orders)

	var items int64
	require.NoError(t, db.Model(&models.CartItem{}).Count(&items).Error)
	assert.Equal(t, int64(1), items, "cart survives a failed order")
}

func TestPlaceOrderRejects(t *testing.T) {
	db := testutil.NewDB(t)
	u := testutil.SeedUser(t, db, "buyer@example.com", models.AccountBuyer)
	r := newRouter(db, nil, u.ID)

	rr := send(r, http.MethodPost, "/orders/place", placeBody("upi"))
	assert.Equal(t, http.StatusBadRequest, rr.Code, "empty cart")

	p := testutil.SeedProduct(t, db, "go-course", 10, 0)
	fillCart(t, db, u.ID, map[*models.Product]int{&p: 1})

	rr = send(r, http.MethodPost, "/orders/place", placeBody("barter"))
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = send(r, http.MethodPost, "/orders/place", `{"shipping":{"full_name":"Asha"}}`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "phone")
}

func TestAdminStatusUpdates(t *testing.T) {
	db := testutil.NewDB(t)
	order := models.Order{OrderRef: "ref-1", UserID: "u", Status: models.OrderStatusPending, PaymentStatus: models.PaymentStatusPending}
	require.NoError(t, db.Create(&order).Error)
	r := newRouter(db, nil, "")
	path := fmt.Sprintf("/admin/orders/%d", order.ID)

	assert.Equal(t, http.StatusOK, send(r, http.MethodPut, path+"/status", `{"status":"Shipped"}`).Code)
	assert.Equal(t, http.StatusOK, send(r, http.MethodPut, path+"/payment-status", `{"payment_status":"paid"}`).Code)
	assert.Equal(t, http.StatusBadRequest, send(r, http.MethodPut, path+"/status", `{"status":"lost"}`).Code)
	assert.Equal(t, http.StatusNotFound, send(r, http.MethodPut, "/admin/orders/999/status", `{"status":"shipped"}`).Code)

	var reloaded models.Order
	require.NoError(t, db.First(&reloaded, order.ID).Error)
	assert.Equal(t, models.OrderStatusShipped, reloaded.Status)
	assert.Equal(t, models.PaymentStatusPaid, reloaded.PaymentStatus)

	rr := send(r, http.MethodGet, "/admin/orders?status=shipped", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "ref-1")
	assert.Equal(t, http.StatusBadRequest, send(r, http.MethodGet, "/admin/orders?status=lost", "").Code)

	assert.Equal(t, http.StatusOK, send(r, http.MethodDelete, path, "").Code)
	assert.Equal(t, http.StatusNotFound, send(r, http.MethodDelete, path, "").Code)
}

func TestOrderFeedBroadcast(t *testing.T) {
	db := testutil.NewDB(t)
	hub := NewHub()
	srv := httptest.NewServer(newRouter(db, hub, ""))
	defer srv.Close()
	defer hub.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/admin/orders/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	require.Eventually(t, func() bool { return hub.Count() == 1 }, time.Second, 10*time.Millisecond)

	hub.Broadcast(models.Order{OrderRef: "ref-live"})
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, msg, err := conn.ReadMessage()
	require.NoError(t, err)
	assert.Contains(t, string(msg), "ref-live")

	conn.Close()
	require.Eventually(t, func() bool { return hub.Count() == 0 }, 2*time.Second, 10*time.Millisecond)
}

func TestBroadcastDoesNotWaitOnBusyClient(t *testing.T) {
	db := testutil.NewDB(t)
	hub := NewHub()
	srv := httptest.NewServer(newRouter(db, hub, ""))
	defer srv.Close()
	defer hub.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/admin/orders/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()
	require.Eventually(t, func() bool { return hub.Count() == 1 }, time.Second, 10*time.Millisecond)

	// hold the connection's writer as if a previous write were stuck
	var busy *sync.Mutex
	hub.mu.Lock()
	for _, l := range hub.clients {
		busy = l
	}
	hub.mu.Unlock()
	busy.Lock()

	done := make(chan struct{})
	go func() {
		hub.Broadcast(models.Order{OrderRef: "ref-late"})
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Broadcast blocked on a busy client")
	}
	assert.Equal(t, 1, hub.Count())

	busy.Unlock()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, msg, err := conn.ReadMessage()
	require.NoError(t, err)
	assert.Contains(t, string(msg), "ref-late")
}
