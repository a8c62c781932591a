package order

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/imobsites/platform/internal/asaas"
	"github.com/imobsites/platform/internal/models"
	"github.com/imobsites/platform/internal/storage"
)

type RepoMock struct{ mock.Mock }

func (m *RepoMock) CreateOrder(ctx context.Context, o models.Order) (int, error) {
	args := m.Called(ctx, o)
	return args.Int(0), args.Error(1)
}
func (m *RepoMock) GetOrder(ctx context.Context, id int) (*models.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Order), args.Error(1)
}
func (m *RepoMock) GetOrderByProviderPaymentID(ctx context.Context, providerPaymentID string) (*models.Order, error) {
	args := m.Called(ctx, providerPaymentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Order), args.Error(1)
}
func (m *RepoMock) AttachPaymentData(ctx context.Context, id int, providerPaymentID, paymentURL string, maxInstallments int) (int, error) {
	args := m.Called(ctx, id, providerPaymentID, paymentURL, maxInstallments)
	return args.Int(0), args.Error(1)
}
func (m *RepoMock) MarkOrderPaid(ctx context.Context, id int, providerPaymentID string, paidAt time.Time) (int, error) {
	args := m.Called(ctx, id, providerPaymentID, paidAt)
	return args.Int(0), args.Error(1)
}
func (m *RepoMock) ListOrders(ctx context.Context, limit, offset int) ([]*models.Order, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Order), args.Error(1)
}
func (m *RepoMock) GetActivePlanByCode(ctx context.Context, code string) (*models.Plan, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Plan), args.Error(1)
}

type GatewayMock struct{ mock.Mock }

func (m *GatewayMock) CreatePayment(orderID int, customerName, customerEmail, customerWhatsapp, description string, totalAmount float64, maxInstallments int) (*asaas.CreatePaymentResponse, error) {
	args := m.Called(orderID, customerName, customerEmail, customerWhatsapp, description, totalAmount, maxInstallments)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*asaas.CreatePaymentResponse), args.Error(1)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func annualPlan() *models.Plan {
	return &models.Plan{
		ID:            3,
		Code:          "annual",
		Name:          "Anual",
		BillingCycle:  "annual",
		Months:        12,
		PricePerMonth: 99.90,
		TotalAmount:   1198.80,
		IsActive:      true,
	}
}

func TestService_CreateFromCheckout(t *testing.T) {
	req := models.CheckoutRequest{
		CustomerName:     "Ana Silva",
		CustomerEmail:    "ana@example.com",
		CustomerWhatsapp: "+5511988887777",
		PlanCode:         "annual",
		MaxInstallments:  12,
	}

	tests := []struct {
		name       string
		setupMocks func(r *RepoMock, g *GatewayMock)
		req        models.CheckoutRequest
		want       *CheckoutResult
		wantErr    error
	}{
		{
			name: "success with price snapshot and rounding",
			setupMocks: func(r *RepoMock, g *GatewayMock) {
				r.On("GetActivePlanByCode", mock.Anything, "annual").Return(annualPlan(), nil).Once()
				r.On("CreateOrder", mock.Anything, mock.MatchedBy(func(o models.Order) bool {
					return o.Status == models.OrderStatusPending &&
						o.PlanCode == "annual" &&
						o.Months == 12 &&
						o.PricePerMonth == 99.90 &&
						o.TotalAmount == 1198.80
				})).Return(42, nil).Once()
				g.On("CreatePayment", 42, "Ana Silva", "ana@example.com", "5511988887777", "Anual", 1198.80, 12).
					Return(&asaas.CreatePaymentResponse{ID: "pay_1", InvoiceURL: "https://invoice/pay_1"}, nil).Once()
				r.On("AttachPaymentData", mock.Anything, 42, "pay_1", "https://invoice/pay_1", 12).Return(1, nil).Once()
			},
			req:  req,
			want: &CheckoutResult{OrderID: 42, PaymentURL: "https://invoice/pay_1"},
		},
		{
			name: "unknown plan",
			setupMocks: func(r *RepoMock, _ *GatewayMock) {
				r.On("GetActivePlanByCode", mock.Anything, "missing").Return(nil, storage.ErrNotFound).Once()
			},
			req:     models.CheckoutRequest{CustomerName: "Ana", CustomerEmail: "ana@example.com", PlanCode: "missing"},
			wantErr: ErrPlanNotFound,
		},
		{
			name: "gateway failure keeps pending order",
			setupMocks: func(r *RepoMock, g *GatewayMock) {
				r.On("GetActivePlanByCode", mock.Anything, "annual").Return(annualPlan(), nil).Once()
				r.On("CreateOrder", mock.Anything, mock.Anything).Return(43, nil).Once()
				g.On("CreatePayment", 43, mock.Anything, mock.Anything, mock.Anything, mock.Anything, 1198.80, 12).
					Return(nil, asaas.ErrGateway).Once()
			},
			req:     req,
			wantErr: asaas.ErrGateway,
		},
		{
			name: "whatsapp stored and forwarded digits-only",
			setupMocks: func(r *RepoMock, g *GatewayMock) {
				r.On("GetActivePlanByCode", mock.Anything, "annual").Return(annualPlan(), nil).Once()
				r.On("CreateOrder", mock.Anything, mock.MatchedBy(func(o models.Order) bool {
					return o.CustomerWhatsapp == "5511988887777"
				})).Return(45, nil).Once()
				g.On("CreatePayment", 45, mock.Anything, mock.Anything, "5511988887777", mock.Anything, 1198.80, 1).
					Return(&asaas.CreatePaymentResponse{ID: "pay_3", InvoiceURL: "https://invoice/pay_3"}, nil).Once()
				r.On("AttachPaymentData", mock.Anything, 45, "pay_3", "https://invoice/pay_3", 1).Return(1, nil).Once()
			},
			req: models.CheckoutRequest{
				CustomerName:     "Ana Silva",
				CustomerEmail:    "ana@example.com",
				CustomerWhatsapp: "+55 (11) 98888-7777",
				PlanCode:         "annual",
			},
			want: &CheckoutResult{OrderID: 45, PaymentURL: "https://invoice/pay_3"},
		},
		{
			name: "installments above plan months collapse to one",
			setupMocks: func(r *RepoMock, g *GatewayMock) {
				r.On("GetActivePlanByCode", mock.Anything, "annual").Return(annualPlan(), nil).Once()
				r.On("CreateOrder", mock.Anything, mock.MatchedBy(func(o models.Order) bool {
					return o.MaxInstallments == 1
				})).Return(44, nil).Once()
				g.On("CreatePayment", 44, mock.Anything, mock.Anything, mock.Anything, mock.Anything, 1198.80, 1).
					Return(&asaas.CreatePaymentResponse{ID: "pay_2", InvoiceURL: "https://invoice/pay_2"}, nil).Once()
				r.On("AttachPaymentData", mock.Anything, 44, "pay_2", "https://invoice/pay_2", 1).Return(1, nil).Once()
			},
			req: models.CheckoutRequest{
				CustomerName:    "Ana Silva",
				CustomerEmail:   "ana@example.com",
				PlanCode:        "annual",
				MaxInstallments: 24,
			},
			want: &CheckoutResult{OrderID: 44, PaymentURL: "https://invoice/pay_2"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(RepoMock)
			gateway := new(GatewayMock)
			tt.setupMocks(repo, gateway)

			svc := New(repo, gateway, newNoopLogger())
			got, err := svc.CreateFromCheckout(context.Background(), tt.req)

			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.want, got)
			}
			repo.AssertExpectations(t)
			gateway.AssertExpectations(t)
		})
	}
}

func TestNormalizeWhatsapp(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"+55 (11) 98888-7777", "5511988887777"},
		{"5511988887777", "5511988887777"},
		{"", ""},
		{"abc", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, normalizeWhatsapp(tt.in))
	}
}

func TestService_ResolveWebhookOrder(t *testing.T) {
	entry := &models.Order{ID: 42, Status: models.OrderStatusPending}

	tests := []struct {
		name              string
		externalReference string
		providerPaymentID string
		setupMocks        func(r *RepoMock)
		wantID            int
		wantErr           error
	}{
		{
			name:              "external reference wins",
			externalReference: "order:42",
			providerPaymentID: "pay_1",
			setupMocks: func(r *RepoMock) {
				r.On("GetOrder", mock.Anything, 42).Return(entry, nil).Once()
			},
			wantID: 42,
		},
		{
			name:              "fallback to provider payment id",
			externalReference: "garbage",
			providerPaymentID: "pay_1",
			setupMocks: func(r *RepoMock) {
				r.On("GetOrderByProviderPaymentID", mock.Anything, "pay_1").Return(entry, nil).Once()
			},
			wantID: 42,
		},
		{
			name:              "reference id missing falls back",
			externalReference: "order:42",
			providerPaymentID: "pay_1",
			setupMocks: func(r *RepoMock) {
				r.On("GetOrder", mock.Anything, 42).Return(nil, storage.ErrNotFound).Once()
				r.On("GetOrderByProviderPaymentID", mock.Anything, "pay_1").Return(entry, nil).Once()
			},
			wantID: 42,
		},
		{
			name:              "nothing resolves",
			externalReference: "",
			providerPaymentID: "",
			setupMocks:        func(_ *RepoMock) {},
			wantErr:           storage.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(RepoMock)
			tt.setupMocks(repo)

			svc := New(repo, new(GatewayMock), newNoopLogger())
			got, err := svc.ResolveWebhookOrder(context.Background(), tt.externalReference, tt.providerPaymentID)

			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.wantID, got.ID)
			}
			repo.AssertExpectations(t)
		})
	}
}

func TestService_MarkPaid(t *testing.T) {
	tests := []struct {
		name         string
		rowsAffected int
		repoErr      error
		want         bool
		wantErr      bool
	}{
		{name: "transitioned", rowsAffected: 1, want: true},
		{name: "already paid", rowsAffected: 0, want: false},
		{name: "storage error", repoErr: errors.New("db down"), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(RepoMock)
			repo.On("MarkOrderPaid", mock.Anything, 42, "pay_1", mock.Anything).
				Return(tt.rowsAffected, tt.repoErr).Once()

			svc := New(repo, new(GatewayMock), newNoopLogger())
			got, err := svc.MarkPaid(context.Background(), 42, "pay_1")

			if tt.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.want, got)
			}
			repo.AssertExpectations(t)
		})
	}
}
