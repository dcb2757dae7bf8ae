package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/rgehrsitz/ukpayroll/internal/domain"
	"github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeWriter struct {
	messages []kafka.Message
	err      error
	closed   bool
}

func (w *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
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

func sampleResult() *domain.PayrollCalculationResult {
	return &domain.PayrollCalculationResult{
		EmployeeID:      "EMP001",
		Period:          domain.Period{Type: domain.PeriodMonthly, Number: 1},
		GrossPay:        decimal.NewFromInt(3000),
		TotalDeductions: decimal.RequireFromString("546.56"),
		NetPay:          decimal.RequireFromString("2453.44"),
		NationalInsurance: domain.NICalculationResult{
			EmployerNIThisPeriod: decimal.RequireFromString("309.40"),
		},
	}
}

func TestNewPayrollCalculatedEvent(t *testing.T) {
	now := time.Date(2024, time.May, 1, 12, 0, 0, 0, time.UTC)
	event := NewPayrollCalculatedEvent("run-1", "2024-25", sampleResult(), now)

	assert.NotEmpty(t, event.EventID)
	assert.Equal(t, PayrollCalculatedType, event.EventType)
	assert.Equal(t, "run-1", event.RunID)
	assert.Equal(t, "EMP001", event.EmployeeID)
	assert.Equal(t, domain.PeriodMonthly, event.PeriodType)
	assert.Equal(t, 1, event.PeriodNumber)
	assert.True(t, event.NetPay.Equal(decimal.RequireFromString("2453.44")))
	assert.True(t, event.EmployerNI.Equal(decimal.RequireFromString("309.40")))
	assert.Equal(t, now, event.OccurredAt)

	other := NewPayrollCalculatedEvent("run-1", "2024-25", sampleResult(), now)
	assert.NotEqual(t, event.EventID, other.EventID)
}

func TestKafkaPublisher_Publish(t *testing.T) {
	writer := &fakeWriter{}
	publisher := NewKafkaPublisherWithWriter(writer, "")
	event := NewPayrollCalculatedEvent("run-1", "2024-25", sampleResult(), time.Now())

	require.NoError(t, publisher.PublishPayrollCalculated(context.Background(), event))

	require.Len(t, writer.messages, 1)
	msg := writer.messages[0]
	assert.Equal(t, PayrollCalculatedTopic, msg.Topic)
	assert.Equal(t, []byte("EMP001"), msg.Key)
	assert.Contains(t, msg.Headers, kafka.Header{Key: "event_type", Value: []byte(PayrollCalculatedType)})

	var decoded PayrollCalculatedEvent
	require.NoError(t, json.Unmarshal(msg.Value, &decoded))
	assert.Equal(t, event.EventID, decoded.EventID)
	assert.True(t, decoded.GrossPay.Equal(decimal.NewFromInt(3000)))

	require.NoError(t, publisher.Close())
	assert.True(t, writer.closed)
}

func TestKafkaPublisher_WriteError(t *testing.T) {
	writer := &fakeWriter{err: errors.New("broker down")}
	publisher := NewKafkaPublisherWithWriter(writer, "custom.topic")

	err := publisher.PublishPayrollCalculated(context.Background(), NewPayrollCalculatedEvent("run-1", "2024-25", sampleResult(), time.Now()))

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "broker down")
}

func TestRecordingPublisher(t *testing.T) {
	p := &RecordingPublisher{}
	require.NoError(t, p.PublishPayrollCalculated(context.Background(), PayrollCalculatedEvent{EmployeeID: "A"}))
	require.NoError(t, p.PublishPayrollCalculated(context.Background(), PayrollCalculatedEvent{EmployeeID: "B"}))

	assert.Len(t, p.Events(), 2)
	assert.NoError(t, NopPublisher{}.PublishPayrollCalculated(context.Background(), PayrollCalculatedEvent{}))
}
