package integration

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"
	"time"

	"storefront/internal/api"
	"storefront/internal/config"
	"storefront/internal/middleware"
	"storefront/internal/model"
	"storefront/internal/orderflow"
	"storefront/internal/state"

	"github.com/rs/zerolog"
)

const adminToken = "admin-token"

// fakeAPI is an in-memory restaurant API covering the endpoints the
// storefront flow touches.
type fakeAPI struct {
	server *httptest.Server

	mu               sync.Mutex
	cart             model.Cart
	orders           map[int64]*model.Order
	visitors         int
	visits           []model.PageVisit
	quantityUpdates  []int
	idempotencyKeys  []string
	unauthorizedPuts int
}

func newFakeAPI(t *testing.T) *fakeAPI {
	t.Helper()

	f := &fakeAPI{
		cart:   model.Cart{ID: 77},
		orders: make(map[int64]*model.Order),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/items", f.listMenu)
	mux.HandleFunc("GET /api/cart/", f.getCart)
	mux.HandleFunc("POST /api/cart/", f.addToCart)
	mux.HandleFunc("PUT /api/cart/update-quantity/", f.updateQuantity)
	mux.HandleFunc("POST /api/cart/apply-discount", f.applyDiscount)
	mux.HandleFunc("POST /api/orders", f.createOrder)
	mux.HandleFunc("GET /api/orders/{id}", f.getOrder)
	mux.HandleFunc("PUT /api/orders/{id}", f.updateOrder)
	mux.HandleFunc("POST /api/login", f.login)
	mux.HandleFunc("POST /api/visitors", f.createVisitor)
	mux.HandleFunc("PATCH /api/visitors/{id}", f.updateVisitor)

	f.server = httptest.NewServer(mux)
	t.Cleanup(f.server.Close)
	return f
}

// client returns an API client authenticated with the token of st.
func (f *fakeAPI) client(t *testing.T, st *state.State) *api.Client {
	t.Helper()

	logger := zerolog.Nop()
	transport := middleware.Chain(http.DefaultTransport,
		middleware.Recovery(logger),
		middleware.RequestID(),
		middleware.Accept("storefront-test/1.0"),
		middleware.BearerAuth(st.Token),
		middleware.Logging(logger),
	)
	c, err := api.New(config.APIConfig{BaseURL: f.server.URL, Timeout: 5 * time.Second}, transport, logger)
	if err != nil {
		t.Fatalf("failed to create api client: %v", err)
	}
	return c
}

func writeData(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(model.Envelope[any]{Success: status < 400, Status: status, Data: data})
}

func writeFail(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{"success": false, "status": status, "message": msg})
}

func (f *fakeAPI) listMenu(w http.ResponseWriter, r *http.Request) {
	writeData(w, http.StatusOK, model.MenuList{
		Items: []model.MenuItem{{
			ID:     9,
			Name:   "Pad Thai",
			Status: model.StatusPublished,
			Prices: []model.MenuPrice{{ID: 12, Price: 5, Size: "Regular"}},
		}},
		Total: 1,
	})
}

func (f *fakeAPI) getCart(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	writeData(w, http.StatusOK, f.priced())
}

// priced returns the cart with server-side totals. Callers hold mu.
func (f *fakeAPI) priced() model.Cart {
	c := f.cart
	c.Items = append([]model.CartLine(nil), f.cart.Items...)
	c.ItemsPrice = 0
	for _, l := range c.Items {
		c.ItemsPrice += l.Total()
	}
	c.PayablePrice = c.ItemsPrice - c.Discount.Amount
	return c
}

func (f *fakeAPI) addToCart(w http.ResponseWriter, r *http.Request) {
	var req model.AddToCartRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeFail(w, http.StatusBadRequest, "invalid body")
		return
	}
	if (req.UserID == nil) == (req.GuestID == "") {
		writeFail(w, http.StatusUnprocessableEntity, "exactly one of user_id and guest_id is required")
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	for _, it := range req.Items {
		f.cart.Items = append(f.cart.Items, model.CartLine{
			ID:       int64(len(f.cart.Items) + 1),
			ItemID:   it.ItemID,
			Title:    "Pad Thai",
			Quantity: it.Quantity,
			Price:    model.MenuPrice{ID: it.ItemPriceID, Price: 5},
		})
	}
	writeData(w, http.StatusOK, f.priced())
}

func (f *fakeAPI) updateQuantity(w http.ResponseWriter, r *http.Request) {
	var req model.UpdateQuantityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeFail(w, http.StatusBadRequest, "invalid body")
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.quantityUpdates = append(f.quantityUpdates, req.Quantity)
	for i := range f.cart.Items {
		if f.cart.Items[i].MenuItemID() == req.ItemID && f.cart.Items[i].Price.ID == req.ItemPriceID {
			f.cart.Items[i].Quantity = req.Quantity
		}
	}
	writeData(w, http.StatusOK, f.priced())
}

func (f *fakeAPI) applyDiscount(w http.ResponseWriter, r *http.Request) {
	var req model.ApplyDiscountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeFail(w, http.StatusBadRequest, "invalid body")
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.cart.Discount.Active() {
		writeFail(w, http.StatusUnprocessableEntity, "Discount already applied")
		return
	}
	f.cart.Discount = model.Discount{Coupon: req.Code, Amount: 2}
	writeData(w, http.StatusOK, f.priced())
}

func (f *fakeAPI) createOrder(w http.ResponseWriter, r *http.Request) {
	var req model.CreateOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeFail(w, http.StatusBadRequest, "invalid body")
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.idempotencyKeys = append(f.idempotencyKeys, r.Header.Get(api.HeaderIdempotencyKey))

	total := f.priced().PayablePrice
	order := &model.Order{
		ID:            int64(500 + len(f.orders) + 1),
		GuestID:       &req.GuestID,
		CartID:        &req.CartID,
		TotalAmount:   total,
		Status:        model.OrderStatusPending,
		PaymentStatus: model.PaymentStatusUnpaid,
		Email:         req.Email,
		Phone:         req.Phone,
	}
	f.orders[order.ID] = order
	f.cart = model.Cart{ID: f.cart.ID + 1}
	writeData(w, http.StatusCreated, order)
}

func (f *fakeAPI) order(w http.ResponseWriter, r *http.Request) (*model.Order, bool) {
	id, _ := strconv.ParseInt(r.PathValue("id"), 10, 64)
	o, ok := f.orders[id]
	if !ok {
		writeFail(w, http.StatusNotFound, "Order not found")
	}
	return o, ok
}

func (f *fakeAPI) getOrder(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if o, ok := f.order(w, r); ok {
		writeData(w, http.StatusOK, o)
	}
}

func (f *fakeAPI) updateOrder(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if r.Header.Get("Authorization") != "Bearer "+adminToken {
		f.unauthorizedPuts++
		writeFail(w, http.StatusUnauthorized, "Unauthenticated.")
		return
	}

	o, ok := f.order(w, r)
	if !ok {
		return
	}

	var req model.UpdateOrderStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeFail(w, http.StatusBadRequest, "invalid body")
		return
	}
	if err := orderflow.Check(orderflow.Normalize(string(o.Status)), orderflow.Transition{Status: req.Status, PaymentStatus: req.PaymentStatus}); err != nil {
		writeFail(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	o.Status = req.Status
	if req.PaymentStatus != "" {
		o.PaymentStatus = req.PaymentStatus
	}
	writeData(w, http.StatusOK, o)
}

func (f *fakeAPI) login(w http.ResponseWriter, r *http.Request) {
	var creds model.Credentials
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil || creds.Password != "secret1" {
		writeFail(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}
	writeData(w, http.StatusOK, model.AuthResult{
		User:        model.User{ID: 1, Name: "Admin", Email: creds.Email, Role: model.RoleAdmin},
		AccessToken: adminToken,
	})
}

func (f *fakeAPI) createVisitor(w http.ResponseWriter, r *http.Request) {
	var req model.CreateVisitorRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeFail(w, http.StatusBadRequest, "invalid body")
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.visitors++
	writeData(w, http.StatusCreated, model.Visitor{ID: int64(f.visitors), VisitorID: req.VisitorID, Session: 1})
}

func (f *fakeAPI) updateVisitor(w http.ResponseWriter, r *http.Request) {
	var req model.UpdateVisitorRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeFail(w, http.StatusBadRequest, "invalid body")
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.visits = append(f.visits, req.PageVisits...)
	writeData(w, http.StatusOK, model.Visitor{VisitorID: r.PathValue("id"), PageVisits: f.visits})
}

func (f *fakeAPI) visitorsCreated() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.visitors
}
