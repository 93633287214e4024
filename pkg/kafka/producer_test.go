package kafka

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeWriter struct {
	mu       sync.Mutex
	messages []kafka.Message
	err      error
	closed   bool
}

func (w *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.err != nil {
		return w.err
	}
	w.messages = append(w.messages, msgs...)
	return nil
}

func (w *fakeWriter) Close() error {
	w.closed = true
	return nil
}

func header(msg kafka.Message, key string) string {
	for _, h := range msg.Headers {
		if h.Key == key {
			return string(h.Value)
		}
	}
	return ""
}

func buildMessage(t *testing.T) Message {
	t.Helper()
	msg, err := NewMessage().
		WithKey("main-room").
		WithValue(map[string]string{"booking_id": "b1"}).
		WithEventType("booking.created").
		WithSource("roombook").
		Build()
	require.NoError(t, err)
	return msg
}

func TestProducer_Publish(t *testing.T) {
	w := &fakeWriter{}
	p := NewProducerWithWriters(w, nil, "bookings", "", time.Second)

	require.NoError(t, p.Publish(context.Background(), buildMessage(t)))

	require.Len(t, w.messages, 1)
	sent := w.messages[0]
	assert.Equal(t, "main-room", string(sent.Key))
	assert.JSONEq(t, `{"booking_id":"b1"}`, string(sent.Value))
	assert.Equal(t, "booking.created", header(sent, HeaderEventType))
	assert.NotEmpty(t, header(sent, HeaderEventID))
}

func TestProducer_RejectsInvalidMessages(t *testing.T) {
	p := NewProducerWithWriters(&fakeWriter{}, nil, "bookings", "", time.Second)

	assert.ErrorIs(t, p.Publish(context.Background(), Message{Value: []byte("x")}), ErrEmptyKey)
	assert.ErrorIs(t, p.Publish(context.Background(), Message{Key: "k"}), ErrEmptyValue)
}

func TestProducer_MiddlewareOrder(t *testing.T) {
	p := NewProducerWithWriters(&fakeWriter{}, nil, "bookings", "", time.Second)

	var order []string
	for _, name := range []string{"outer", "inner"} {
		name := name
		p.Use(func(ctx context.Context, msg Message, next func(context.Context, Message) error) error {
			order = append(order, name)
			assert.Equal(t, "bookings", msg.Topic)
			return next(ctx, msg)
		})
	}

	require.NoError(t, p.Publish(context.Background(), buildMessage(t)))
	assert.Equal(t, []string{"outer", "inner"}, order)
}

func TestProducer_FailedWriteGoesToDLQ(t *testing.T) {
	writeErr := errors.New("connection refused")
	main := &fakeWriter{err: writeErr}
	dlq := &fakeWriter{}
	p := NewProducerWithWriters(main, dlq, "bookings", "bookings.dlq", time.Second)

	msg := buildMessage(t)
	err := p.Publish(context.Background(), msg)
	assert.ErrorIs(t, err, writeErr)

	require.Len(t, dlq.messages, 1)
	assert.Equal(t, "bookings", header(dlq.messages[0], HeaderOriginalTopic))
	assert.Equal(t, "connection refused", header(dlq.messages[0], HeaderDLQError))
	_, touched := msg.Headers[HeaderOriginalTopic]
	assert.False(t, touched, "caller's headers must not be modified")
}

// blockingWriter waits until its context ends, like a broker that never
// acknowledges.
type blockingWriter struct{}

func (blockingWriter) WriteMessages(ctx context.Context, _ ...kafka.Message) error {
	<-ctx.Done()
	return ctx.Err()
}

func (blockingWriter) Close() error { return nil }

// deadlineWriter records whether it was handed a live context.
type deadlineWriter struct {
	fakeWriter
	ctxErr error
}

func (w *deadlineWriter) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	w.ctxErr = ctx.Err()
	if w.ctxErr != nil {
		return w.ctxErr
	}
	return w.fakeWriter.WriteMessages(ctx, msgs...)
}

func TestProducer_TimedOutWriteStillReachesDLQ(t *testing.T) {
	dlq := &deadlineWriter{}
	p := NewProducerWithWriters(blockingWriter{}, dlq, "bookings", "bookings.dlq", 20*time.Millisecond)

	err := p.Publish(context.Background(), buildMessage(t))
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	require.NoError(t, dlq.ctxErr)
	require.Len(t, dlq.messages, 1)
	assert.Equal(t, context.DeadlineExceeded.Error(), header(dlq.messages[0], HeaderDLQError))
}

func TestProducer_Close(t *testing.T) {
	main, dlq := &fakeWriter{}, &fakeWriter{}
	p := NewProducerWithWriters(main, dlq, "bookings", "bookings.dlq", time.Second)

	require.NoError(t, p.Close())
	require.NoError(t, p.Close())
	assert.True(t, main.closed)
	assert.True(t, dlq.closed)
	assert.ErrorIs(t, p.Publish(context.Background(), buildMessage(t)), ErrProducerClosed)
}

func TestMessageBuilder_EncodingError(t *testing.T) {
	_, err := NewMessage().WithKey("k").WithValue(make(chan int)).Build()
	assert.Error(t, err)
}

func TestClassifyError(t *testing.T) {
	assert.Equal(t, ErrorTypeUnknown, ClassifyError(nil))
	assert.Equal(t, ErrorTypeTransient, ClassifyError(errors.New("dial tcp: i/o TIMEOUT")))
	assert.Equal(t, ErrorTypePermanent, ClassifyError(errors.New("unknown topic or partition")))
	assert.Equal(t, ErrorTypePermanent, ClassifyError(ErrEmptyKey))
}
