package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"

	"storefront/internal/feedback"
	"storefront/internal/model"
	"storefront/internal/service"
	"storefront/internal/state"
	"storefront/internal/storage"
	"storefront/internal/validate"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newState(t *testing.T) *state.State {
	t.Helper()
	st := state.New(storage.NewMemoryBackend(), zerolog.Nop())
	require.NoError(t, st.Hydrate(context.Background()))
	return st
}

func newCartHandler(t *testing.T) (*CartHandler, *MockCartService, *MockCatalogService, *state.State, *bytes.Buffer) {
	t.Helper()
	cart := &MockCartService{}
	catalog := &MockCatalogService{}
	st := newState(t)
	var out bytes.Buffer
	return NewCartHandler(cart, catalog, st, &out, zerolog.Nop()), cart, catalog, st, &out
}

func TestCartHandler_Quantity(t *testing.T) {
	line := model.CartLine{ID: 4, ItemID: 9, Quantity: 2, Price: model.MenuPrice{ID: 12, Price: 5}}
	cart := &model.Cart{ID: 1, Items: []model.CartLine{line}}

	tests := []struct {
		name        string
		args        []string
		setupMock   func(m *MockCartService)
		expectUsage bool
		expectErr   bool
		expectedQty int
	}{
		{
			name: "Increment flushes",
			args: []string{"4", "+"},
			setupMock: func(m *MockCartService) {
				m.On("Cart", mock.Anything).Return(cart, nil).Once()
				m.On("ChangeQuantity", mock.Anything, line, 1).Return(3, true, nil).Once()
				m.On("Flush").Return(1, nil).Once()
				m.On("Quantity", int64(4)).Return(3, true).Once()
			},
			expectedQty: 3,
		},
		{
			name: "Decrement by five",
			args: []string{"4", "-5"},
			setupMock: func(m *MockCartService) {
				m.On("Cart", mock.Anything).Return(cart, nil).Once()
				m.On("ChangeQuantity", mock.Anything, line, -5).Return(1, true, nil).Once()
				m.On("Flush").Return(1, nil).Once()
				m.On("Quantity", int64(4)).Return(1, true).Once()
			},
			expectedQty: 1,
		},
		{
			name: "Failed update exits with the error",
			args: []string{"4", "+"},
			setupMock: func(m *MockCartService) {
				m.On("Cart", mock.Anything).Return(cart, nil).Once()
				m.On("ChangeQuantity", mock.Anything, line, 1).Return(3, true, nil).Once()
				m.On("Flush").Return(1, feedback.Reported(errors.New("failed to update quantity"))).Once()
			},
			expectErr: true,
		},
		{
			name: "Unchanged",
			args: []string{"4", "dec"},
			setupMock: func(m *MockCartService) {
				m.On("Cart", mock.Anything).Return(&model.Cart{Items: []model.CartLine{{ID: 4, Quantity: 1}}}, nil).Once()
				m.On("ChangeQuantity", mock.Anything, mock.Anything, -1).Return(1, false, nil).Once()
			},
			expectedQty: 1,
		},
		{name: "Missing line", args: nil, setupMock: func(m *MockCartService) {}, expectUsage: true},
		{name: "Zero delta", args: []string{"4", "0"}, setupMock: func(m *MockCartService) {}, expectUsage: true},
		{
			name: "Unknown line",
			args: []string{"77", "+"},
			setupMock: func(m *MockCartService) {
				m.On("Cart", mock.Anything).Return(cart, nil).Once()
			},
			expectUsage: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, svc, _, _, out := newCartHandler(t)
			tt.setupMock(svc)

			err := h.Quantity(context.Background(), tt.args)
			switch {
			case tt.expectUsage:
				assert.True(t, IsUsage(err), "got %v", err)
			case tt.expectErr:
				require.Error(t, err)
				assert.True(t, feedback.IsReported(err))
				assert.Empty(t, out.String())
			default:
				require.NoError(t, err)
				var got struct {
					Quantity int `json:"quantity"`
				}
				require.NoError(t, json.Unmarshal(out.Bytes(), &got))
				assert.Equal(t, tt.expectedQty, got.Quantity)
			}
			svc.AssertExpectations(t)
		})
	}
}

func TestCartHandler_Add(t *testing.T) {
	h, svc, catalog, _, out := newCartHandler(t)
	item := &model.MenuItem{ID: 9, Prices: []model.MenuPrice{{ID: 12, Price: 5}}}

	catalog.On("MenuItem", mock.Anything, int64(9)).Return(item, nil).Once()
	svc.On("Add", mock.Anything, item, int64(12), 2).Return(&model.Cart{ID: 3, PayablePrice: 10}, nil).Once()
	svc.On("DiscountApplied").Return(false)

	require.NoError(t, h.Add(context.Background(), []string{"-item", "9", "-price", "12", "-qty", "2"}))

	var got map[string]any
	require.NoError(t, json.Unmarshal(out.Bytes(), &got))
	assert.Equal(t, float64(10), got["total"])
	catalog.AssertExpectations(t)
	svc.AssertExpectations(t)
}

func TestCartHandler_Checkout_PrefillsSavedAddress(t *testing.T) {
	h, svc, _, st, out := newCartHandler(t)
	ctx := context.Background()

	require.NoError(t, st.SetAddress(ctx, state.Address{
		CityID:        3,
		State:         "CA",
		ZipCode:       "94016",
		StreetAddress: "1 Main St",
		Phone:         "555-0100",
		Email:         "ana@example.com",
	}))

	expected := validate.CheckoutForm{
		Email:         "ana@example.com",
		Phone:         "555-0199",
		CityID:        3,
		State:         "CA",
		ZipCode:       "94016",
		StreetAddress: "1 Main St",
	}
	svc.On("Checkout", mock.Anything, expected).Return(&service.CheckoutResult{
		Order:         &model.Order{ID: 501, Status: model.OrderStatusPending, TotalAmount: 24},
		TrackingToken: "NTAx",
	}, nil).Once()

	require.NoError(t, h.Checkout(ctx, []string{"-phone", "555-0199"}))

	var got map[string]any
	require.NoError(t, json.Unmarshal(out.Bytes(), &got))
	assert.Equal(t, "NTAx", got["tracking_token"])
	assert.Equal(t, float64(501), got["order_id"])
	svc.AssertExpectations(t)
}

func TestParseDelta(t *testing.T) {
	tests := []struct {
		raw      string
		expected int
		wantErr  bool
	}{
		{"+", 1, false},
		{"inc", 1, false},
		{"-", -1, false},
		{"3", 3, false},
		{"-2", -2, false},
		{"0", 0, true},
		{"x", 0, true},
		{"", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := parseDelta(tt.raw)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}
