package orderControllers

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/veloracart/ecommerce-api/models"
	"github.com/veloracart/ecommerce-api/payment"
)

type fakeGateway struct {
	refundErr    error
	refundedRef  string
	refundedCents int64
}

func (f *fakeGateway) CreatePayment(ctx context.Context, req payment.CreateRequest) (*payment.Intent, error) {
	return &payment.Intent{Ref: "ref-1", URL: "https://pay.example/ref-1"}, nil
}

func (f *fakeGateway) Refund(ctx context.Context, ref string, amountCents int64) error {
	f.refundedRef = ref
	f.refundedCents = amountCents
	return f.refundErr
}

func paidOrder() *models.Order {
	return &models.Order{
		ID:            1,
		OrderNumber:   "20260101000000-x",
		Status:        models.OrderStatusConfirmed,
		PaymentStatus: models.PaymentPaid,
		PaymentRef:    "pay-123",
		TotalCents:    4950,
	}
}

func TestRefundSucceedsOnPaidOrder(t *testing.T) {
	gw := &fakeGateway{}
	order := paidOrder()
	now := time.Now()

	note, err := ExecuteRefund(context.Background(), gw, order, now)
	require.NoError(t, err)

	assert.Equal(t, models.OrderStatusRefunded, order.Status)
	assert.Equal(t, models.PaymentRefunded, order.PaymentStatus)
	require.NotNil(t, order.CancelledAt)
	assert.Equal(t, now, *order.CancelledAt)
	assert.NotEmpty(t, note)

	assert.Equal(t, "pay-123", gw.refundedRef)
	assert.Equal(t, int64(4950), gw.refundedCents, "refund is for the exact order total")
}

func TestRefundRejectedWhenNotPaid(t *testing.T) {
	gw := &fakeGateway{}
	order := paidOrder()
	order.PaymentStatus = models.PaymentPending

	_, err := ExecuteRefund(context.Background(), gw, order, time.Now())
	assert.ErrorIs(t, err, ErrPaymentNotConfirmed)
	assert.Equal(t, models.OrderStatusConfirmed, order.Status, "order untouched")
	assert.Empty(t, gw.refundedRef, "gateway never called")
}

func TestRefundRejectedWhenAlreadyRefunded(t *testing.T) {
	gw := &fakeGateway{}
	order := paidOrder()

	_, err := ExecuteRefund(context.Background(), gw, order, time.Now())
	require.NoError(t, err)

	// Persisted state would now read refunded/refunded; a second attempt
	// against that state must be rejected before touching the gateway.
	gw.refundedRef = ""
	_, err = ExecuteRefund(context.Background(), gw, order, time.Now())
	assert.ErrorIs(t, err, ErrAlreadyRefunded)
	assert.Empty(t, gw.refundedRef)
}

func TestRefundRejectedWhenPaymentAlreadyRefunded(t *testing.T) {
	gw := &fakeGateway{}
	order := paidOrder()
	order.PaymentStatus = models.PaymentRefunded

	_, err := ExecuteRefund(context.Background(), gw, order, time.Now())
	assert.ErrorIs(t, err, ErrAlreadyRefunded, "refunded payment reads as already refunded, not unpaid")
	assert.Empty(t, gw.refundedRef)
}

func TestGatewayFailureFlagsOrderForManualProcessing(t *testing.T) {
	gw := &fakeGateway{refundErr: errors.New("gateway timeout")}
	order := paidOrder()

	note, err := ExecuteRefund(context.Background(), gw, order, time.Now())
	require.Error(t, err)
	assert.True(t, isGatewayError(err))

	// Not refunded, not left untouched: cancelled with a manual flag.
	assert.Equal(t, models.OrderStatusCancelled, order.Status)
	assert.Equal(t, models.PaymentPaid, order.PaymentStatus)
	assert.NotNil(t, order.CancelledAt)
	assert.Contains(t, order.CancelReason, "manual processing")
	assert.Contains(t, note, "gateway timeout")
}
