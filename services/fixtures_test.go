package services

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/QuangMinh07/BE-NOM-sub000/configs"
	"github.com/QuangMinh07/BE-NOM-sub000/entity"
	"github.com/QuangMinh07/BE-NOM-sub000/pkg/payos"
	"github.com/QuangMinh07/BE-NOM-sub000/repository"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := filepath.Join(t.TempDir(), "nom.db") + "?_busy_timeout=5000&_foreign_keys=off"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := configs.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

// ----- fakes -----

type sentMail struct{ To, Subject, Body string }

type fakeMailer struct {
	mu   sync.Mutex
	sent []sentMail
	err  error
}

func (m *fakeMailer) Send(_ context.Context, to, subject, body string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, sentMail{to, subject, body})
	return m.err
}

func (m *fakeMailer) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sent)
}

type fakeGateway struct {
	requests  []payos.PaymentRequest
	err       error
	verifyErr error
	lookupErr error
	// links holds what GetPaymentLink reports, keyed by payment link id.
	links map[string]*payos.PaymentLink
	// onCreate runs before a link is returned, while the caller waits on the gateway.
	onCreate func(payos.PaymentRequest)
}

func (g *fakeGateway) CreatePaymentLink(_ context.Context, req payos.PaymentRequest) (*payos.CheckoutData, error) {
	g.requests = append(g.requests, req)
	if g.err != nil {
		return nil, g.err
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if g.onCreate != nil {
		g.onCreate(req)
	}
	return &payos.CheckoutData{
		OrderCode:     req.OrderCode,
		Amount:        req.Amount,
		PaymentLinkID: fmt.Sprintf("link-%d", req.OrderCode),
		CheckoutURL:   fmt.Sprintf("https://pay.example/%d", req.OrderCode),
	}, nil
}

func (g *fakeGateway) GetPaymentLink(_ context.Context, id string) (*payos.PaymentLink, error) {
	if g.lookupErr != nil {
		return nil, g.lookupErr
	}
	if l, ok := g.links[id]; ok {
		return l, nil
	}
	return nil, &payos.APIError{Status: 404, Code: "101", Desc: "payment link not found"}
}

// setLink makes the gateway report status for txn's link.
func (g *fakeGateway) setLink(txn *entity.PaymentTransaction, status string) {
	if g.links == nil {
		g.links = map[string]*payos.PaymentLink{}
	}
	l := &payos.PaymentLink{
		ID:              txn.PaymentLinkID,
		OrderCode:       txn.OrderCode,
		Amount:          txn.TransactionAmount,
		AmountRemaining: txn.TransactionAmount,
		Status:          status,
	}
	if status == payos.LinkPaid {
		l.AmountPaid, l.AmountRemaining = txn.TransactionAmount, 0
	}
	g.links[txn.PaymentLinkID] = l
}

func (g *fakeGateway) VerifyWebhook(*payos.Webhook) error { return g.verifyErr }

type fakeNotifier struct {
	mu     sync.Mutex
	events []OrderStatusEvent
}

func (n *fakeNotifier) NotifyOrderStatus(_ context.Context, ev OrderStatusEvent) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, ev)
	return nil
}

func (n *fakeNotifier) statuses() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]string, 0, len(n.events))
	for _, ev := range n.events {
		out = append(out, ev.OrderStatus)
	}
	return out
}

// ----- fixture -----

type fixture struct {
	t   *testing.T
	db  *gorm.DB
	now time.Time

	users     *repository.UserRepository
	stores    *repository.StoreRepository
	foods     *repository.FoodRepository
	carts     *repository.CartRepository
	payments  *repository.PaymentRepository
	orderRepo *repository.OrderRepository
	timeouts  *repository.OrderTimeoutRepository
	chats     *repository.ChatRepository

	seq int

	mail     *fakeMailer
	gateway  *fakeGateway
	notifier *fakeNotifier

	cart     *CartService
	pay      *PaymentService
	orders   *OrderService
	cancel   *CancellationService
	checkout *CheckoutService

	admin, customer, seller, shipper *entity.User
	store                            *entity.Store
	pho, egg, tea                    *entity.Food
}

// Monday noon.
var fixtureNow = time.Date(2024, 1, 8, 12, 0, 0, 0, time.UTC)

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := newTestDB(t)
	f := &fixture{
		t:         t,
		db:        db,
		now:       fixtureNow,
		users:     repository.NewUserRepository(db),
		stores:    repository.NewStoreRepository(db),
		foods:     repository.NewFoodRepository(db),
		carts:     repository.NewCartRepository(db),
		payments:  repository.NewPaymentRepository(db),
		orderRepo: repository.NewOrderRepository(db),
		timeouts:  repository.NewOrderTimeoutRepository(db),
		chats:     repository.NewChatRepository(db),
		mail:      &fakeMailer{},
		gateway:   &fakeGateway{},
		notifier:  &fakeNotifier{},
	}
	clock := func() time.Time { return f.now }

	f.admin = f.user("admin", entity.RoleAdmin, true)
	f.customer = f.user("an", entity.RoleCustomer, true)
	f.seller = f.user("binh", entity.RoleSeller, true)
	f.shipper = f.user("cuong", entity.RoleShipper, true)

	f.store = &entity.Store{UserID: f.seller.ID, StoreName: "Pho Binh", StoreAddress: "1 Le Loi"}
	f.must(f.stores.Create(f.store))
	f.pho = f.food("Pho bo", 50000, 0)
	f.egg = f.food("Trung", 5000, 0)
	f.tea = f.food("Tra da", 10000, 8000)

	f.cart = NewCartService(db, f.carts, f.foods, f.payments)
	f.pay = &PaymentService{
		DB:          db,
		CartRepo:    f.carts,
		PaymentRepo: f.payments,
		UserRepo:    f.users,
		StoreRepo:   f.stores,
		OrderRepo:   f.orderRepo,
		Gateway:     f.gateway,
		Codes:       NewOrderCodeGenerator(clock),
		ReturnURL:   "http://localhost/payment-success",
		CancelURL:   "http://localhost/payment-cancel",
	}
	f.orders = &OrderService{
		DB:          db,
		Repo:        f.orderRepo,
		CartRepo:    f.carts,
		PaymentRepo: f.payments,
		UserRepo:    f.users,
		StoreRepo:   f.stores,
		ChatRepo:    f.chats,
		TimeoutRepo: f.timeouts,
		Notifier:    f.notifier,
		CancelAfter: 15 * time.Minute,
		Now:         clock,
	}
	f.cancel = &CancellationService{
		DB:          db,
		Repo:        repository.NewCancellationRepository(db),
		OrderRepo:   f.orderRepo,
		UserRepo:    f.users,
		StoreRepo:   f.stores,
		PaymentRepo: f.payments,
		TimeoutRepo: f.timeouts,
		Mailer:      f.mail,
		Now:         clock,
	}
	f.checkout = &CheckoutService{DB: db, Payments: f.pay, Orders: f.orders, Cancellations: f.cancel}
	return f
}

func (f *fixture) must(err error) {
	f.t.Helper()
	if err != nil {
		f.t.Fatal(err)
	}
}

func (f *fixture) user(name, role string, approved bool) *entity.User {
	f.t.Helper()
	f.seq++
	u := &entity.User{
		UserName:    name,
		FullName:    name,
		Email:       name + "@nom.test",
		PhoneNumber: fmt.Sprintf("09%08d", f.seq),
		Password:    "x",
		Role:        role,
		IsApproved:  approved,
		IsVerified:  true,
	}
	f.must(f.users.Create(u))
	return u
}

func (f *fixture) food(name string, price, discounted int64) *entity.Food {
	f.t.Helper()
	fd := &entity.Food{
		StoreID:         f.store.ID,
		FoodName:        name,
		Price:           price,
		DiscountedPrice: discounted,
		IsDiscounted:    discounted > 0,
		IsAvailable:     true,
	}
	f.must(f.foods.Create(fd))
	return fd
}

// checkedOutCart builds a cart with two pho plus an egg each, ready for payment.
func (f *fixture) checkedOutCart() *entity.Cart {
	f.t.Helper()
	cart, err := f.cart.AddItem(f.customer.ID, &AddToCartIn{
		FoodID:   f.pho.ID,
		Quantity: 2,
		Combos:   []ComboIn{{FoodID: f.egg.ID, Quantity: 1}},
	})
	f.must(err)
	addr, name, phone := "12 Hai Ba Trung", "An", "0901234567"
	cart, err = f.cart.UpdateDeliveryInfo(f.customer.ID, f.store.ID, &DeliveryInfoIn{
		DeliveryAddress: &addr, ReceiverName: &name, ReceiverPhone: &phone,
	}, true)
	f.must(err)
	return cart
}

// placeOrder creates a cash order from a fresh cart.
func (f *fixture) placeOrder() *entity.Order {
	f.t.Helper()
	cart := f.checkedOutCart()
	_, err := f.pay.CreateOrUpdate(context.Background(), f.customer.ID, &CreatePaymentIn{
		CartID: cart.ID, PaymentMethod: entity.PaymentMethodCash,
	})
	f.must(err)
	order, err := f.orders.CreateFromCart(context.Background(), f.customer.ID, cart.ID, false)
	f.must(err)
	return order
}

func (f *fixture) setLoyalty(userID uint, points int64) {
	f.t.Helper()
	f.must(f.users.Update(userID, map[string]any{"loyalty_points": points}))
}

func (f *fixture) loyalty(userID uint) int64 {
	f.t.Helper()
	u, err := f.users.FindByID(userID)
	f.must(err)
	return u.LoyaltyPoints
}
