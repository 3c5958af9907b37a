package consumer

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ConsultationService/internal/domain"
	"github.com/m04kA/SMC-ConsultationService/internal/testfixtures"
	"github.com/m04kA/SMC-ConsultationService/internal/usecase/confirm_payment"
)

type ackResult struct {
	acked   bool
	nacked  bool
	requeue bool
}

type fakeAcknowledger struct {
	mu     sync.Mutex
	result ackResult
}

func (a *fakeAcknowledger) Ack(tag uint64, multiple bool) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.result.acked = true
	return nil
}

func (a *fakeAcknowledger) Nack(tag uint64, multiple bool, requeue bool) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.result.nacked = true
	a.result.requeue = requeue
	return nil
}

func (a *fakeAcknowledger) Reject(tag uint64, requeue bool) error {
	return a.Nack(tag, false, requeue)
}

func (a *fakeAcknowledger) get() ackResult {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.result
}

type fakeUseCase struct {
	mu     sync.Mutex
	paid   []string
	failed []string
	err    error
}

func (f *fakeUseCase) Execute(ctx context.Context, req *confirm_payment.Request) (*confirm_payment.Response, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.paid = append(f.paid, req.BookingID)
	return &confirm_payment.Response{}, f.err
}

func (f *fakeUseCase) MarkFailed(ctx context.Context, req *confirm_payment.Request) (*confirm_payment.Response, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failed = append(f.failed, req.BookingID)
	return &confirm_payment.Response{}, f.err
}

type chanSource struct {
	ch chan amqp.Delivery
}

func (s *chanSource) Deliveries(ctx context.Context) (<-chan amqp.Delivery, error) {
	return s.ch, nil
}

func delivery(key, body string) (amqp.Delivery, *fakeAcknowledger) {
	ack := &fakeAcknowledger{}
	return amqp.Delivery{Acknowledger: ack, RoutingKey: key, Body: []byte(body), DeliveryTag: 1}, ack
}

func TestDispatch(t *testing.T) {
	tests := []struct {
		name       string
		key        string
		body       string
		ucErr      error
		want       ackResult
		wantPaid   int
		wantFailed int
	}{
		{name: "paid", key: domain.RKPaymentPaid, body: `{"booking_id":"b1","charge_id":"c1"}`, want: ackResult{acked: true}, wantPaid: 1},
		{name: "failed", key: domain.RKPaymentFailed, body: `{"booking_id":"b1","failure_code":"insufficient_fund"}`, want: ackResult{acked: true}, wantFailed: 1},
		{name: "bad json", key: domain.RKPaymentPaid, body: `{`, want: ackResult{nacked: true}},
		{name: "no booking id", key: domain.RKPaymentPaid, body: `{"charge_id":"c1"}`, want: ackResult{nacked: true}},
		{name: "unknown key", key: "payment.refunded", body: `{}`, want: ackResult{acked: true}},
		{name: "invalid transition dropped", key: domain.RKPaymentPaid, body: `{"booking_id":"b1"}`, ucErr: confirm_payment.ErrInvalidTransition, want: ackResult{nacked: true}, wantPaid: 1},
		{name: "not found dropped", key: domain.RKPaymentFailed, body: `{"booking_id":"b1"}`, ucErr: confirm_payment.ErrBookingNotFound, want: ackResult{nacked: true}, wantFailed: 1},
		{name: "internal requeued", key: domain.RKPaymentPaid, body: `{"booking_id":"b1"}`, ucErr: confirm_payment.ErrInternal, want: ackResult{nacked: true, requeue: true}, wantPaid: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := &fakeUseCase{err: tt.ucErr}
			c := NewPaymentConsumer(uc, nil, testfixtures.NopLogger{})

			d, ack := delivery(tt.key, tt.body)
			c.dispatch(context.Background(), d)

			assert.Equal(t, tt.want, ack.get())
			assert.Len(t, uc.paid, tt.wantPaid)
			assert.Len(t, uc.failed, tt.wantFailed)
		})
	}
}

func TestRun_ProcessesUntilCancelled(t *testing.T) {
	uc := &fakeUseCase{}
	source := &chanSource{ch: make(chan amqp.Delivery, 1)}
	c := NewPaymentConsumer(uc, source, testfixtures.NopLogger{})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- c.Run(ctx) }()

	d, ack := delivery(domain.RKPaymentPaid, `{"booking_id":"b1"}`)
	source.ch <- d

	require.Eventually(t, func() bool { return ack.get().acked }, time.Second, 5*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("consumer did not stop")
	}
}

func TestClassify(t *testing.T) {
	assert.NoError(t, classify(nil))
	assert.ErrorIs(t, classify(confirm_payment.ErrInvalidInput), errDrop)
	other := errors.New("db down")
	assert.Equal(t, other, classify(other))
}
