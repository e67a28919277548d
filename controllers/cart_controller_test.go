package controllers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/QuangMinh07/BE-NOM-sub000/configs"
	"github.com/QuangMinh07/BE-NOM-sub000/entity"
	"github.com/QuangMinh07/BE-NOM-sub000/pkg/payos"
	"github.com/QuangMinh07/BE-NOM-sub000/repository"
	"github.com/QuangMinh07/BE-NOM-sub000/services"
)

func init() { gin.SetMode(gin.TestMode) }

type env struct {
	db     *gorm.DB
	router *gin.Engine
	user   *entity.User
	food   *entity.Food
}

// asUser stands in for AuthMiddleware.
func asUser(id uint, role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("userId", id)
		c.Set("role", role)
		c.Next()
	}
}

func newEnv(t *testing.T) *env {
	t.Helper()
	dsn := filepath.Join(t.TempDir(), "api.db") + "?_busy_timeout=5000"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatal(err)
	}
	if err := configs.Migrate(db); err != nil {
		t.Fatal(err)
	}

	users := repository.NewUserRepository(db)
	stores := repository.NewStoreRepository(db)
	foods := repository.NewFoodRepository(db)
	carts := repository.NewCartRepository(db)
	payments := repository.NewPaymentRepository(db)

	customer := &entity.User{UserName: "an", Email: "an@nom.test", PhoneNumber: "1", Role: entity.RoleCustomer, IsApproved: true}
	seller := &entity.User{UserName: "binh", Email: "binh@nom.test", PhoneNumber: "2", Role: entity.RoleSeller, IsApproved: true}
	for _, u := range []*entity.User{customer, seller} {
		if err := users.Create(u); err != nil {
			t.Fatal(err)
		}
	}
	store := &entity.Store{UserID: seller.ID, StoreName: "Pho Binh"}
	if err := stores.Create(store); err != nil {
		t.Fatal(err)
	}
	food := &entity.Food{StoreID: store.ID, FoodName: "Pho bo", Price: 50000, IsAvailable: true}
	if err := foods.Create(food); err != nil {
		t.Fatal(err)
	}

	cartCtl := NewCartController(services.NewCartService(db, carts, foods, payments))
	payCtl := NewPaymentController(&services.PaymentService{
		DB:          db,
		CartRepo:    carts,
		PaymentRepo: payments,
		UserRepo:    users,
		StoreRepo:   stores,
		OrderRepo:   repository.NewOrderRepository(db),
		Gateway:     payos.New(payos.Config{}),
		Codes:       services.NewOrderCodeGenerator(nil),
	})

	r := gin.New()
	g := r.Group("/carts", asUser(customer.ID, entity.RoleCustomer))
	g.GET("/store/:storeId", cartCtl.GetByStore)
	g.POST("/items", cartCtl.Add)
	g.PATCH("/:id/items", cartCtl.UpdateQty)
	g.DELETE("/:id", cartCtl.Delete)
	r.POST("/webhook/payos", payCtl.Webhook)

	return &env{db: db, router: r, user: customer, food: food}
}

type envelope struct {
	OK    bool            `json:"ok"`
	Data  json.RawMessage `json:"data"`
	Error string          `json:"error"`
}

func (e *env) call(t *testing.T, method, path string, body any) (int, envelope) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if s, ok := body.(string); ok {
			buf.WriteString(s)
		} else if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatal(err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)

	var out envelope
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("%s %s: decode %q: %v", method, path, w.Body.String(), err)
	}
	return w.Code, out
}

func TestCartEndpoints(t *testing.T) {
	e := newEnv(t)

	code, res := e.call(t, http.MethodPost, "/carts/items", gin.H{"foodId": e.food.ID, "quantity": 2})
	if code != http.StatusCreated || !res.OK {
		t.Fatalf("add: %d %+v", code, res)
	}
	var cart entity.Cart
	if err := json.Unmarshal(res.Data, &cart); err != nil {
		t.Fatal(err)
	}
	if cart.TotalPrice != 100000 || len(cart.Items) != 1 {
		t.Fatalf("cart = %+v", cart)
	}

	code, res = e.call(t, http.MethodGet, fmt.Sprintf("/carts/store/%d", e.food.StoreID), nil)
	if code != http.StatusOK {
		t.Fatalf("get: %d %+v", code, res)
	}

	code, _ = e.call(t, http.MethodPatch, fmt.Sprintf("/carts/%d/items", cart.ID), gin.H{"foodId": e.food.ID, "quantity": 3})
	if code != http.StatusOK {
		t.Fatalf("update: %d", code)
	}

	code, res = e.call(t, http.MethodDelete, fmt.Sprintf("/carts/%d", cart.ID), nil)
	if code != http.StatusOK || !res.OK {
		t.Fatalf("delete: %d %+v", code, res)
	}
	code, _ = e.call(t, http.MethodGet, fmt.Sprintf("/carts/store/%d", e.food.StoreID), nil)
	if code != http.StatusNotFound {
		t.Fatalf("get after delete: %d", code)
	}
}

func TestCartEndpointErrors(t *testing.T) {
	e := newEnv(t)
	cases := []struct {
		name, method, path string
		body               any
		want               int
	}{
		{"malformed json", http.MethodPost, "/carts/items", "{", http.StatusBadRequest},
		{"missing food id", http.MethodPost, "/carts/items", gin.H{"quantity": 1}, http.StatusBadRequest},
		{"zero quantity", http.MethodPost, "/carts/items", gin.H{"foodId": e.food.ID}, http.StatusBadRequest},
		{"unknown food", http.MethodPost, "/carts/items", gin.H{"foodId": 999, "quantity": 1}, http.StatusNotFound},
		{"bad store id", http.MethodGet, "/carts/store/abc", nil, http.StatusBadRequest},
		{"unknown cart", http.MethodDelete, "/carts/42", nil, http.StatusNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			code, res := e.call(t, tc.method, tc.path, tc.body)
			if code != tc.want || res.OK || res.Error == "" {
				t.Fatalf("status = %d %+v, want %d", code, res, tc.want)
			}
		})
	}
}

func TestWebhookAcknowledgesUnknownOrder(t *testing.T) {
	e := newEnv(t)
	body := gin.H{"code": "00", "desc": "success", "data": gin.H{"orderCode": 123, "code": "00"}, "signature": "x"}

	code, res := e.call(t, http.MethodPost, "/webhook/payos", body)
	if code != http.StatusOK || !res.OK {
		t.Fatalf("webhook: %d %+v", code, res)
	}

	code, _ = e.call(t, http.MethodPost, "/webhook/payos", gin.H{"code": "00", "data": "not-an-object"})
	if code != http.StatusBadRequest {
		t.Fatalf("bad data: %d", code)
	}
}
