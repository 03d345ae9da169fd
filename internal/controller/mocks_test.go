package controller

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Aymix/whitecart/config"
	"github.com/Aymix/whitecart/internal/dto"
	"github.com/Aymix/whitecart/internal/middleware"
	pkgdto "github.com/Aymix/whitecart/pkg/dto"
	"github.com/Aymix/whitecart/pkg/utils"
	"github.com/Aymix/whitecart/pkg/validator"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

type MockProductService struct {
	mock.Mock
}

func (m *MockProductService) GetProducts(ctx context.Context, filter pkgdto.Filter) ([]dto.ProductResponse, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]dto.ProductResponse), args.Error(1)
}

func (m *MockProductService) GetProductByID(ctx context.Context, id string) (dto.ProductResponse, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(dto.ProductResponse), args.Error(1)
}

func (m *MockProductService) SearchProducts(ctx context.Context, filter pkgdto.Filter) ([]dto.ProductResponse, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]dto.ProductResponse), args.Error(1)
}

func (m *MockProductService) AddProduct(ctx context.Context, caller dto.Caller, req dto.ProductRequest) (dto.ProductResponse, error) {
	args := m.Called(ctx, caller, req)
	return args.Get(0).(dto.ProductResponse), args.Error(1)
}

func (m *MockProductService) UpdateProduct(ctx context.Context, caller dto.Caller, id string, req dto.ProductRequest) (dto.ProductResponse, error) {
	args := m.Called(ctx, caller, id, req)
	return args.Get(0).(dto.ProductResponse), args.Error(1)
}

func (m *MockProductService) DeleteProduct(ctx context.Context, caller dto.Caller, id string) error {
	args := m.Called(ctx, caller, id)
	return args.Error(0)
}

type MockOrderService struct {
	mock.Mock
}

func (m *MockOrderService) AddOrder(ctx context.Context, caller dto.Caller, req dto.OrderRequest) (dto.OrderResponse, error) {
	args := m.Called(ctx, caller, req)
	return args.Get(0).(dto.OrderResponse), args.Error(1)
}

func (m *MockOrderService) GetMyOrders(ctx context.Context, caller dto.Caller) ([]dto.OrderResponse, error) {
	args := m.Called(ctx, caller)
	return args.Get(0).([]dto.OrderResponse), args.Error(1)
}

func (m *MockOrderService) GetOrderByID(ctx context.Context, caller dto.Caller, id string) (dto.OrderResponse, error) {
	args := m.Called(ctx, caller, id)
	return args.Get(0).(dto.OrderResponse), args.Error(1)
}

func (m *MockOrderService) QuoteCart(ctx context.Context, req dto.CartQuoteRequest) (dto.CartQuoteResponse, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(dto.CartQuoteResponse), args.Error(1)
}

type MockPaymentService struct {
	mock.Mock
}

func (m *MockPaymentService) CreatePaymentIntent(ctx context.Context, caller dto.Caller, req dto.PaymentIntentRequest) (dto.PaymentIntentResponse, error) {
	args := m.Called(ctx, caller, req)
	return args.Get(0).(dto.PaymentIntentResponse), args.Error(1)
}

func (m *MockPaymentService) ConfirmPayment(ctx context.Context, caller dto.Caller, req dto.ConfirmPaymentRequest) (dto.OrderResponse, error) {
	args := m.Called(ctx, caller, req)
	return args.Get(0).(dto.OrderResponse), args.Error(1)
}

func (m *MockPaymentService) HandleNotification(ctx context.Context, req dto.PaymentNotification) error {
	args := m.Called(ctx, req)
	return args.Error(0)
}

func (m *MockPaymentService) ReconcilePendingPayments() {
	m.Called()
}

type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) Register(ctx context.Context, req dto.UserRequest, role string) (dto.AuthResponse, error) {
	args := m.Called(ctx, req, role)
	return args.Get(0).(dto.AuthResponse), args.Error(1)
}

func (m *MockUserService) Login(ctx context.Context, req dto.LoginRequest, role string) (dto.AuthResponse, error) {
	args := m.Called(ctx, req, role)
	return args.Get(0).(dto.AuthResponse), args.Error(1)
}

func (m *MockUserService) GetMe(ctx context.Context, caller dto.Caller) (dto.UserResponse, error) {
	args := m.Called(ctx, caller)
	return args.Get(0).(dto.UserResponse), args.Error(1)
}

func (m *MockUserService) GetSellers(ctx context.Context) ([]dto.UserResponse, error) {
	args := m.Called(ctx)
	return args.Get(0).([]dto.UserResponse), args.Error(1)
}

func testConfig() *config.Config {
	return &config.Config{
		Environment: "development",
		JWTConfig: config.JWTConfig{
			Secret:       testSecret,
			Expire:       time.Hour,
			CookieExpire: 24 * time.Hour,
		},
	}
}

func newTestServer() (*echo.Echo, *echo.Group, echo.MiddlewareFunc) {
	e := echo.New()
	e.Validator = validator.CreateValidator()
	return e, e.Group("/api"), middleware.IsLoggedIn(testSecret)
}

func noLimit(next echo.HandlerFunc) echo.HandlerFunc {
	return next
}

func bearer(t *testing.T, userID string, role string) string {
	t.Helper()
	token, err := utils.CreateJWTToken(userID, role, testSecret, time.Hour)
	require.NoError(t, err)
	return "Bearer " + token
}

func doRequest(e *echo.Echo, method string, path string, body string, auth string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if auth != "" {
		req.Header.Set(echo.HeaderAuthorization, auth)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}
