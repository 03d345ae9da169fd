package service

import (
	"context"
	"mime/multipart"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/Aymix/whitecart/config"
	"github.com/Aymix/whitecart/internal/domain"
	"github.com/Aymix/whitecart/internal/dto"
	pkgdto "github.com/Aymix/whitecart/pkg/dto"
	"github.com/Aymix/whitecart/pkg/errs"
	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// memoryStore backs the fake repositories. HandleTrx runs one transaction at a
// time and restores the snapshot taken before fn when fn fails.
type memoryStore struct {
	mu       sync.Mutex
	trxMu    sync.Mutex
	products map[primitive.ObjectID]domain.Product
	orders   map[primitive.ObjectID]domain.Order
	users    map[primitive.ObjectID]domain.User

	addOrderErr error
	usersErr    error
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		products: map[primitive.ObjectID]domain.Product{},
		orders:   map[primitive.ObjectID]domain.Order{},
		users:    map[primitive.ObjectID]domain.User{},
	}
}

func (m *memoryStore) addProduct(p domain.Product) domain.Product {
	m.mu.Lock()
	defer m.mu.Unlock()
	if p.ID.IsZero() {
		p.ID = primitive.NewObjectID()
	}
	m.products[p.ID] = p
	return p
}

func (m *memoryStore) addUser(u domain.User) domain.User {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u.ID.IsZero() {
		u.ID = primitive.NewObjectID()
	}
	m.users[u.ID] = u
	return u
}

func (m *memoryStore) addOrder(o domain.Order) domain.Order {
	m.mu.Lock()
	defer m.mu.Unlock()
	if o.ID.IsZero() {
		o.ID = primitive.NewObjectID()
	}
	m.orders[o.ID] = o
	return o
}

func (m *memoryStore) product(id primitive.ObjectID) domain.Product {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.products[id]
}

func (m *memoryStore) order(id primitive.ObjectID) domain.Order {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.orders[id]
}

func (m *memoryStore) orderCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.orders)
}

type fakeProductRepo struct {
	store *memoryStore

	// afterGet runs once after the next GetProductByID returns, outside the store lock.
	afterGet func()
}

func (r *fakeProductRepo) AddProduct(ctx context.Context, data domain.Product) (primitive.ObjectID, error) {
	return r.store.addProduct(data).ID, nil
}

func (r *fakeProductRepo) GetProducts(ctx context.Context, filter pkgdto.Filter) ([]domain.Product, error) {
	return r.list(func(p domain.Product) bool {
		return filter.Category == "" || p.Category == filter.Category
	}), nil
}

func (r *fakeProductRepo) SearchProductsByName(ctx context.Context, filter pkgdto.Filter) ([]domain.Product, error) {
	q := strings.ToLower(filter.Q)
	return r.list(func(p domain.Product) bool {
		return strings.Contains(strings.ToLower(p.Name), q)
	}), nil
}

func (r *fakeProductRepo) list(keep func(domain.Product) bool) []domain.Product {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	data := []domain.Product{}
	for _, p := range r.store.products {
		if keep(p) {
			data = append(data, p)
		}
	}
	sort.Slice(data, func(i, j int) bool { return data[i].Name < data[j].Name })
	return data
}

func (r *fakeProductRepo) GetProductByID(ctx context.Context, id string) (domain.Product, error) {
	productID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.Product{}, errs.ErrNotFound
	}
	r.store.mu.Lock()
	p, ok := r.store.products[productID]
	r.store.mu.Unlock()

	if hook := r.afterGet; hook != nil {
		r.afterGet = nil
		hook()
	}

	if !ok {
		return domain.Product{}, errs.ErrNotFound
	}
	return p, nil
}

func (r *fakeProductRepo) UpdateProduct(ctx context.Context, id primitive.ObjectID, update domain.ProductUpdate) (domain.Product, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	p, ok := r.store.products[id]
	if !ok {
		return domain.Product{}, errs.ErrNotFound
	}
	update.Apply(&p)
	r.store.products[id] = p
	return p, nil
}

func (r *fakeProductRepo) DeleteProduct(ctx context.Context, id primitive.ObjectID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, ok := r.store.products[id]; !ok {
		return errs.ErrNotFound
	}
	delete(r.store.products, id)
	return nil
}

func (r *fakeProductRepo) DecreaseProductStock(ctx context.Context, id primitive.ObjectID, quantity int64) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	p, ok := r.store.products[id]
	if !ok || p.Stock < quantity {
		return errs.ErrInsufficientStock
	}
	p.Stock -= quantity
	r.store.products[id] = p
	return nil
}

type fakeOrderRepo struct{ store *memoryStore }

func (r *fakeOrderRepo) HandleTrx(ctx context.Context, fn func(ctx context.Context) error) error {
	r.store.trxMu.Lock()
	defer r.store.trxMu.Unlock()

	r.store.mu.Lock()
	products := make(map[primitive.ObjectID]domain.Product, len(r.store.products))
	for k, v := range r.store.products {
		products[k] = v
	}
	orders := make(map[primitive.ObjectID]domain.Order, len(r.store.orders))
	for k, v := range r.store.orders {
		orders[k] = v
	}
	r.store.mu.Unlock()

	err := fn(ctx)
	if err != nil {
		r.store.mu.Lock()
		r.store.products = products
		r.store.orders = orders
		r.store.mu.Unlock()
	}
	return err
}

func (r *fakeOrderRepo) AddOrder(ctx context.Context, data domain.Order) (primitive.ObjectID, error) {
	if r.store.addOrderErr != nil {
		return primitive.NilObjectID, r.store.addOrderErr
	}
	return r.store.addOrder(data).ID, nil
}

func (r *fakeOrderRepo) GetOrderByID(ctx context.Context, id string) (domain.Order, error) {
	orderID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.Order{}, errs.ErrNotFound
	}
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	o, ok := r.store.orders[orderID]
	if !ok {
		return domain.Order{}, errs.ErrNotFound
	}
	return o, nil
}

func (r *fakeOrderRepo) GetOrderByTransactionNumber(ctx context.Context, transactionNumber string) (domain.Order, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, o := range r.store.orders {
		if o.TransactionNumber == transactionNumber {
			return o, nil
		}
	}
	return domain.Order{}, errs.ErrNotFound
}

func (r *fakeOrderRepo) GetOrdersByUserID(ctx context.Context, userID primitive.ObjectID) ([]domain.Order, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	data := []domain.Order{}
	for _, o := range r.store.orders {
		if o.User == userID {
			data = append(data, o)
		}
	}
	sort.Slice(data, func(i, j int) bool { return data[i].CreatedAt.After(data[j].CreatedAt) })
	return data, nil
}

func (r *fakeOrderRepo) GetUnpaidOrders(ctx context.Context, paymentMethod string, createdAfter time.Time) ([]domain.Order, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	data := []domain.Order{}
	for _, o := range r.store.orders {
		if !o.IsPaid && o.PaymentMethod == paymentMethod && !o.CreatedAt.Before(createdAfter) {
			data = append(data, o)
		}
	}
	return data, nil
}

func (r *fakeOrderRepo) MarkOrderPaid(ctx context.Context, id primitive.ObjectID, result domain.PaymentResult) (bool, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	o, ok := r.store.orders[id]
	if !ok || o.IsPaid {
		return false, nil
	}
	paidAt := result.UpdateTime
	o.IsPaid = true
	o.PaidAt = &paidAt
	o.PaymentResult = &result
	r.store.orders[id] = o
	return true, nil
}

type fakeUserRepo struct{ store *memoryStore }

func (r *fakeUserRepo) AddUser(ctx context.Context, data domain.User) (primitive.ObjectID, error) {
	return r.store.addUser(data).ID, nil
}

func (r *fakeUserRepo) GetUserByEmail(ctx context.Context, email string) (domain.User, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, u := range r.store.users {
		if u.Email == strings.ToLower(strings.TrimSpace(email)) {
			return u, nil
		}
	}
	return domain.User{}, nil
}

func (r *fakeUserRepo) GetUserByID(ctx context.Context, id string) (domain.User, error) {
	userID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.User{}, errs.ErrNotFound
	}
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	u, ok := r.store.users[userID]
	if !ok {
		return domain.User{}, errs.ErrNotFound
	}
	return u, nil
}

func (r *fakeUserRepo) GetUsersByIDs(ctx context.Context, ids []primitive.ObjectID) ([]domain.User, error) {
	if r.store.usersErr != nil {
		return nil, r.store.usersErr
	}
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	data := []domain.User{}
	for _, id := range ids {
		if u, ok := r.store.users[id]; ok {
			data = append(data, u)
		}
	}
	return data, nil
}

func (r *fakeUserRepo) GetUsersByRole(ctx context.Context, role string) ([]domain.User, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	data := []domain.User{}
	for _, u := range r.store.users {
		if u.Role == role {
			data = append(data, u)
		}
	}
	return data, nil
}

type fakeCache struct {
	mu          sync.Mutex
	lists       map[string][]dto.ProductResponse
	products    map[string]dto.ProductResponse
	invalidated [][]string
}

func newFakeCache() *fakeCache {
	return &fakeCache{lists: map[string][]dto.ProductResponse{}, products: map[string]dto.ProductResponse{}}
}

func (c *fakeCache) GetProducts(ctx context.Context, key string) ([]dto.ProductResponse, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	data, ok := c.lists[key]
	return data, ok
}

func (c *fakeCache) SetProducts(ctx context.Context, key string, data []dto.ProductResponse) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lists[key] = data
}

func (c *fakeCache) GetProduct(ctx context.Context, id string) (dto.ProductResponse, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	data, ok := c.products[id]
	return data, ok
}

func (c *fakeCache) SetProduct(ctx context.Context, data dto.ProductResponse) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.products[data.ID] = data
}

func (c *fakeCache) Invalidate(ctx context.Context, ids ...string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.invalidated = append(c.invalidated, ids)
	c.lists = map[string][]dto.ProductResponse{}
	for _, id := range ids {
		delete(c.products, id)
	}
}

type fakeSearch struct {
	indexed map[string]dto.ProductResponse
	deleted []string
	err     error
}

func newFakeSearch() *fakeSearch {
	return &fakeSearch{indexed: map[string]dto.ProductResponse{}}
}

func (s *fakeSearch) IndexProduct(ctx context.Context, data dto.ProductResponse) error {
	if s.err != nil {
		return s.err
	}
	s.indexed[data.ID] = data
	return nil
}

func (s *fakeSearch) DeleteProduct(ctx context.Context, id string) error {
	if s.err != nil {
		return s.err
	}
	if _, ok := s.indexed[id]; !ok {
		return errs.ErrNotFound
	}
	delete(s.indexed, id)
	s.deleted = append(s.deleted, id)
	return nil
}

func (s *fakeSearch) SearchProducts(ctx context.Context, filter pkgdto.Filter) ([]dto.ProductResponse, error) {
	if s.err != nil {
		return nil, s.err
	}
	data := []dto.ProductResponse{}
	for _, p := range s.indexed {
		if strings.Contains(strings.ToLower(p.Name), strings.ToLower(filter.Q)) {
			data = append(data, p)
		}
	}
	return data, nil
}

type fakeStorage struct {
	saveErr error
	saved   []string
	deleted []string
}

func (s *fakeStorage) SaveImage(ctx context.Context, fh *multipart.FileHeader) (string, error) {
	if s.saveErr != nil {
		return "", s.saveErr
	}
	url := "/uploads/test-" + fh.Filename
	s.saved = append(s.saved, url)
	return url, nil
}

func (s *fakeStorage) DeleteImage(ctx context.Context, url string) {
	s.deleted = append(s.deleted, url)
}

type fakePublisher struct {
	mu       sync.Mutex
	messages []dto.KafkaMessage
}

func (p *fakePublisher) Publish(ctx context.Context, key string, msg dto.KafkaMessage) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.messages = append(p.messages, msg)
	return nil
}

func (p *fakePublisher) eventTypes() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	types := make([]string, 0, len(p.messages))
	for _, m := range p.messages {
		types = append(types, m.EventType)
	}
	return types
}

type MockPaymentGateway struct {
	mock.Mock
}

func (m *MockPaymentGateway) CreateTransaction(ctx context.Context, req dto.ChargeRequest) (dto.ChargeResponse, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(dto.ChargeResponse), args.Error(1)
}

func (m *MockPaymentGateway) CheckTransaction(ctx context.Context, transactionNumber string) (dto.TransactionStatus, error) {
	args := m.Called(ctx, transactionNumber)
	return args.Get(0).(dto.TransactionStatus), args.Error(1)
}

func (m *MockPaymentGateway) VerifySignature(n dto.PaymentNotification) bool {
	args := m.Called(n)
	return args.Bool(0)
}

type MockMailer struct {
	mock.Mock
}

func (m *MockMailer) Send(to string, subject string, htmlBody string) error {
	args := m.Called(to, subject, htmlBody)
	return args.Error(0)
}

func testConfig() *config.Config {
	return &config.Config{
		TaxRate: 0.02,
		JWTConfig: config.JWTConfig{
			Secret: "test-secret",
			Expire: time.Hour,
		},
	}
}

func callerOf(u domain.User) dto.Caller {
	return dto.Caller{UserID: u.ID.Hex(), Role: u.Role}
}
