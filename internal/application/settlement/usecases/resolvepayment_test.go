package usecases

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"grapplay/internal/application/settlement/gateway"
	"grapplay/internal/domain/settlement"
	"grapplay/internal/shared/errors"
	"grapplay/internal/shared/logger"
)

func TestResolvePaymentUseCase_VerifyPath(t *testing.T) {
	verified := ""
	gw := &mockGatewayClient{
		VerifyPaymentFunc: func(ctx context.Context, paymentID string) (*settlement.SettledPayment, error) {
			verified = paymentID
			return &settlement.SettledPayment{
				GatewayPaymentID: paymentID,
				Status:           settlement.StatusPaid,
				AmountMinor:      10000,
				CurrencyCode:     "KRW",
			}, nil
		},
	}
	uc := NewResolvePaymentUseCase(gw, "KRW", logger.NewLogger())

	settled, err := uc.Execute(context.Background(), ResolvePaymentCommand{
		Request: settlement.SettlementRequest{
			PaymentID: "pay-1",
			UserID:    "user-1",
			Mode:      settlement.ModeCourse,
			ProductID: "course-1",
		},
	})

	assert.NoError(t, err)
	assert.Equal(t, "pay-1", verified)
	assert.Equal(t, int64(10000), settled.AmountMinor)
}

func TestResolvePaymentUseCase_ChargePath(t *testing.T) {
	var charged gateway.ChargeRequest
	gw := &mockGatewayClient{
		ChargeWithStoredCredentialFunc: func(ctx context.Context, req gateway.ChargeRequest) (*settlement.SettledPayment, error) {
			charged = req
			return &settlement.SettledPayment{
				GatewayPaymentID: "recurring-1",
				Status:           settlement.StatusPaid,
				AmountMinor:      req.AmountMinor,
				CurrencyCode:     req.Currency,
			}, nil
		},
	}
	uc := NewResolvePaymentUseCase(gw, "KRW", logger.NewLogger())

	settled, err := uc.Execute(context.Background(), ResolvePaymentCommand{
		Request: settlement.SettlementRequest{
			BillingKey:  "bk-1",
			UserID:      "user-1",
			Mode:        settlement.ModeSubscription,
			AmountMinor: 20000,
			OrderName:   "premium monthly",
		},
	})

	assert.NoError(t, err)
	assert.Equal(t, "bk-1", charged.BillingKey)
	assert.Equal(t, int64(20000), charged.AmountMinor)
	assert.Equal(t, "KRW", charged.Currency)
	assert.Equal(t, "recurring-1", settled.GatewayPaymentID)
}

func TestResolvePaymentUseCase_NotPaid(t *testing.T) {
	gw := &mockGatewayClient{
		VerifyPaymentFunc: func(ctx context.Context, paymentID string) (*settlement.SettledPayment, error) {
			return &settlement.SettledPayment{
				GatewayPaymentID: paymentID,
				Status:           settlement.StatusCancelled,
			}, nil
		},
	}
	uc := NewResolvePaymentUseCase(gw, "KRW", logger.NewLogger())

	settled, err := uc.Execute(context.Background(), ResolvePaymentCommand{
		Request: settlement.SettlementRequest{
			PaymentID: "pay-1",
			UserID:    "user-1",
			Mode:      settlement.ModeCourse,
			ProductID: "course-1",
		},
	})

	assert.Nil(t, settled)
	assert.True(t, errors.IsType(err, errors.ErrorTypePaymentNotSettled))
}

func TestResolvePaymentUseCase_GatewayError(t *testing.T) {
	gw := &mockGatewayClient{
		VerifyPaymentFunc: func(ctx context.Context, paymentID string) (*settlement.SettledPayment, error) {
			return nil, errors.NewGatewayUnreachableError("gateway timeout")
		},
	}
	uc := NewResolvePaymentUseCase(gw, "KRW", logger.NewLogger())

	_, err := uc.Execute(context.Background(), ResolvePaymentCommand{
		Request: settlement.SettlementRequest{
			PaymentID: "pay-1",
			UserID:    "user-1",
			Mode:      settlement.ModeCourse,
			ProductID: "course-1",
		},
	})

	assert.True(t, errors.IsType(err, errors.ErrorTypeGatewayUnreachable))
	assert.True(t, errors.IsRetryable(err))
}

func TestResolvePaymentUseCase_InvalidRequest(t *testing.T) {
	uc := NewResolvePaymentUseCase(&mockGatewayClient{}, "KRW", logger.NewLogger())

	_, err := uc.Execute(context.Background(), ResolvePaymentCommand{
		Request: settlement.SettlementRequest{
			PaymentID:  "pay-1",
			BillingKey: "bk-1",
			UserID:     "user-1",
			Mode:       settlement.ModeCourse,
			ProductID:  "course-1",
		},
	})

	assert.True(t, errors.IsType(err, errors.ErrorTypeInvalidSettlementRequest))
}
