package billing

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"github.com/taskfox/taskfox/app/models"
	"github.com/taskfox/taskfox/internal/pkg/invoicepdf"
	"github.com/taskfox/taskfox/internal/pkg/storage"
	"gorm.io/gorm"
)

// fakeRepo is an in-memory Repository. It stores values, not pointers, so a
// Transaction can snapshot and restore state for real rollback semantics.
type fakeRepo struct {
	mu sync.Mutex

	plans    map[uint]models.Plan
	users    map[uint]models.User
	orders   map[uint]models.Order
	payments map[uint]models.Payment
	invoices map[uint]models.Invoice

	taskCount map[uint]int64

	nextOrderID   uint
	nextPaymentID uint
	nextInvoiceID uint
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		plans:     make(map[uint]models.Plan),
		users:     make(map[uint]models.User),
		orders:    make(map[uint]models.Order),
		payments:  make(map[uint]models.Payment),
		invoices:  make(map[uint]models.Invoice),
		taskCount: make(map[uint]int64),
	}
}

func (r *fakeRepo) GetPlan(id uint) (*models.Plan, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	plan, ok := r.plans[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &plan, nil
}

func (r *fakeRepo) ListPlans() ([]models.Plan, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var plans []models.Plan
	for _, p := range r.plans {
		plans = append(plans, p)
	}
	sort.Slice(plans, func(i, j int) bool { return plans[i].Price.LessThan(plans[j].Price) })
	return plans, nil
}

func (r *fakeRepo) GetFreePlan() (*models.Plan, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var free *models.Plan
	for id, p := range r.plans {
		if p.Price.IsZero() && (free == nil || id < free.ID) {
			plan := p
			free = &plan
		}
	}
	if free == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return free, nil
}

func (r *fakeRepo) GetUser(id uint) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	if plan, ok := r.plans[user.PlanID]; ok {
		user.Plan = &plan
	}
	return &user, nil
}

func (r *fakeRepo) SaveUser(user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored := *user
	stored.Plan = nil
	r.users[user.ID] = stored
	return nil
}

func (r *fakeRepo) CountTasksByUser(userID uint) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.taskCount[userID], nil
}

func (r *fakeRepo) CreateOrder(order *models.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextOrderID++
	order.ID = r.nextOrderID
	order.CreatedAt = time.Now()
	stored := *order
	stored.Plan = nil
	stored.Payment = nil
	stored.Invoice = nil
	r.orders[order.ID] = stored
	return nil
}

func (r *fakeRepo) SaveOrder(order *models.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored := *order
	stored.Plan = nil
	stored.Payment = nil
	stored.Invoice = nil
	r.orders[order.ID] = stored
	return nil
}

func (r *fakeRepo) DeleteOrder(order *models.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.orders, order.ID)
	return nil
}

func (r *fakeRepo) GetOrder(id uint) (*models.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	order, ok := r.orders[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	if plan, ok := r.plans[order.PlanID]; ok {
		order.Plan = &plan
	}
	return &order, nil
}

func (r *fakeRepo) GetUserOrder(userID, orderID uint) (*models.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	order, ok := r.orders[orderID]
	if !ok || order.UserID != userID {
		return nil, gorm.ErrRecordNotFound
	}
	if plan, ok := r.plans[order.PlanID]; ok {
		order.Plan = &plan
	}
	for _, p := range r.payments {
		if p.OrderID == order.ID {
			payment := p
			order.Payment = &payment
			break
		}
	}
	for _, inv := range r.invoices {
		if inv.OrderID == order.ID {
			invoice := inv
			order.Invoice = &invoice
			break
		}
	}
	return &order, nil
}

func (r *fakeRepo) ListOrdersByUser(userID uint) ([]models.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var orders []models.Order
	for _, o := range r.orders {
		if o.UserID == userID {
			orders = append(orders, o)
		}
	}
	sort.Slice(orders, func(i, j int) bool { return orders[i].CreatedAt.After(orders[j].CreatedAt) })
	return orders, nil
}

func (r *fakeRepo) FindPendingOrder(userID, planID uint) (*models.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, o := range r.orders {
		if o.UserID == userID && o.PlanID == planID && o.Status == models.OrderStatusPending {
			order := o
			return &order, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeRepo) ExpirePendingOrdersBefore(cutoff time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var count int64
	for id, o := range r.orders {
		if o.Status == models.OrderStatusPending && o.ExpiresAt != nil && o.ExpiresAt.Before(cutoff) {
			o.Status = models.OrderStatusExpired
			r.orders[id] = o
			count++
		}
	}
	return count, nil
}

func (r *fakeRepo) CreatePayment(payment *models.Payment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextPaymentID++
	payment.ID = r.nextPaymentID
	payment.CreatedAt = time.Now()
	stored := *payment
	stored.Order = nil
	r.payments[payment.ID] = stored
	return nil
}

func (r *fakeRepo) SavePayment(payment *models.Payment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored := *payment
	stored.Order = nil
	r.payments[payment.ID] = stored
	return nil
}

func (r *fakeRepo) GetPaymentByID(id uint) (*models.Payment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	payment, ok := r.payments[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	if order, ok := r.orders[payment.OrderID]; ok {
		if plan, ok := r.plans[order.PlanID]; ok {
			order.Plan = &plan
		}
		payment.Order = &order
	}
	return &payment, nil
}

func (r *fakeRepo) GetPaymentByOrderID(orderID uint) (*models.Payment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.payments {
		if p.OrderID == orderID {
			payment := p
			return &payment, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeRepo) GetPaymentByReferenceKey(key string) (*models.Payment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.payments {
		if p.ReferenceKey == key {
			payment := p
			return &payment, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeRepo) LockPaymentByReferenceKey(key string) (*models.Payment, error) {
	return r.GetPaymentByReferenceKey(key)
}

func (r *fakeRepo) ListPaymentsByUser(userID uint) ([]models.Payment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var payments []models.Payment
	for _, p := range r.payments {
		if order, ok := r.orders[p.OrderID]; ok && order.UserID == userID {
			payments = append(payments, p)
		}
	}
	sort.Slice(payments, func(i, j int) bool { return payments[i].CreatedAt.After(payments[j].CreatedAt) })
	return payments, nil
}

func (r *fakeRepo) CreateInvoice(invoice *models.Invoice) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, inv := range r.invoices {
		if inv.OrderID == invoice.OrderID {
			return gorm.ErrDuplicatedKey
		}
	}
	r.nextInvoiceID++
	invoice.ID = r.nextInvoiceID
	invoice.CreatedAt = time.Now()
	r.invoices[invoice.ID] = *invoice
	return nil
}

func (r *fakeRepo) GetInvoiceByOrderID(orderID uint) (*models.Invoice, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, inv := range r.invoices {
		if inv.OrderID == orderID {
			invoice := inv
			return &invoice, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeRepo) Transaction(fn func(Repository) error) error {
	snapshot := r.snapshot()
	if err := fn(r); err != nil {
		r.restore(snapshot)
		return err
	}
	return nil
}

type repoSnapshot struct {
	users    map[uint]models.User
	orders   map[uint]models.Order
	payments map[uint]models.Payment
	invoices map[uint]models.Invoice

	nextOrderID   uint
	nextPaymentID uint
	nextInvoiceID uint
}

func (r *fakeRepo) snapshot() repoSnapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	s := repoSnapshot{
		users:         make(map[uint]models.User, len(r.users)),
		orders:        make(map[uint]models.Order, len(r.orders)),
		payments:      make(map[uint]models.Payment, len(r.payments)),
		invoices:      make(map[uint]models.Invoice, len(r.invoices)),
		nextOrderID:   r.nextOrderID,
		nextPaymentID: r.nextPaymentID,
		nextInvoiceID: r.nextInvoiceID,
	}
	for k, v := range r.users {
		s.users[k] = v
	}
	for k, v := range r.orders {
		s.orders[k] = v
	}
	for k, v := range r.payments {
		s.payments[k] = v
	}
	for k, v := range r.invoices {
		s.invoices[k] = v
	}
	return s
}

func (r *fakeRepo) restore(s repoSnapshot) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users = s.users
	r.orders = s.orders
	r.payments = s.payments
	r.invoices = s.invoices
	r.nextOrderID = s.nextOrderID
	r.nextPaymentID = s.nextPaymentID
	r.nextInvoiceID = s.nextInvoiceID
}

// fakeGateway records requests and returns a canned token or error.
type fakeGateway struct {
	token    string
	err      error
	requests []SnapRequest
}

func (g *fakeGateway) CreateTransaction(_ context.Context, req SnapRequest) (string, string, error) {
	g.requests = append(g.requests, req)
	if g.err != nil {
		return "", "", g.err
	}
	if g.token == "" {
		return "snap-test-token", "https://app.sandbox.midtrans.com/snap/v2/vtweb/snap-test-token", nil
	}
	return g.token, "https://app.sandbox.midtrans.com/snap/v2/vtweb/" + g.token, nil
}

// fakeRenderer produces a minimal fake PDF or fails on demand.
type fakeRenderer struct {
	err      error
	rendered []invoicepdf.Document
}

func (r *fakeRenderer) Render(doc invoicepdf.Document) ([]byte, error) {
	if r.err != nil {
		return nil, r.err
	}
	r.rendered = append(r.rendered, doc)
	return []byte("%PDF-1.4 test"), nil
}

// fakeBlobs is an in-memory BlobStore.
type fakeBlobs struct {
	objects map[string][]byte
	putErr  error
}

func newFakeBlobs() *fakeBlobs {
	return &fakeBlobs{objects: make(map[string][]byte)}
}

func (b *fakeBlobs) Put(_ context.Context, key string, data []byte, _ string) error {
	if b.putErr != nil {
		return b.putErr
	}
	b.objects[key] = data
	return nil
}

func (b *fakeBlobs) Get(_ context.Context, key string) ([]byte, error) {
	data, ok := b.objects[key]
	if !ok {
		return nil, errBlobMissing
	}
	return data, nil
}

func (b *fakeBlobs) Exists(_ context.Context, key string) (bool, error) {
	_, ok := b.objects[key]
	return ok, nil
}

var errBlobMissing = storage.ErrBlobNotFound

// planFixture describes one seeded catalog row.
type planFixture struct {
	id    uint
	name  string
	price int64
	limit int
}

var planFixtures = []planFixture{
	{1, "Free", 0, 5},
	{2, "Basic", 29000, 50},
	{3, "Pro", 79000, 200},
	{4, "Enterprise", 199000, 1000},
}

// newTestService wires a Service over fresh fakes, seeds the plan catalog and
// one active user on the free plan.
func newTestService() (*Service, *fakeRepo, *fakeGateway, *fakeRenderer, *fakeBlobs) {
	repo := newFakeRepo()
	for _, f := range planFixtures {
		repo.plans[f.id] = models.Plan{
			ID:         f.id,
			Name:       f.name,
			Price:      decimal.NewFromInt(f.price),
			TasksLimit: f.limit,
		}
	}
	repo.users[1] = models.User{
		ID:     1,
		Name:   "Budi Santoso",
		Email:  "budi@example.com",
		Phone:  "+62811111111",
		Status: models.STATUS_ACTIVE,
		PlanID: 1,
	}

	gateway := &fakeGateway{}
	renderer := &fakeRenderer{}
	blobs := newFakeBlobs()
	svc := NewService(repo, gateway, renderer, blobs)
	return svc, repo, gateway, renderer, blobs
}

func testUser(repo *fakeRepo, id uint) *models.User {
	user, err := repo.GetUser(id)
	if err != nil {
		panic(err)
	}
	return user
}
