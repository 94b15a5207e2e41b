package intake

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sync"
	"testing"
	"time"

	"location-dedup/internal/models"
	"location-dedup/internal/service"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// mockReader replays a fixed list of messages and then reports io.EOF like a closed kafka reader.
type mockReader struct {
	mu        sync.Mutex
	messages  []kafka.Message
	committed []int64
	closed    bool
}

func (mr *mockReader) FetchMessage(ctx context.Context) (kafka.Message, error) {
	mr.mu.Lock()
	defer mr.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return kafka.Message{}, err
	}
	if mr.closed || len(mr.messages) == 0 {
		return kafka.Message{}, io.EOF
	}
	msg := mr.messages[0]
	mr.messages = mr.messages[1:]
	return msg, nil
}

func (mr *mockReader) CommitMessages(_ context.Context, msgs ...kafka.Message) error {
	mr.mu.Lock()
	defer mr.mu.Unlock()
	for _, m := range msgs {
		mr.committed = append(mr.committed, m.Offset)
	}
	return nil
}

func (mr *mockReader) Close() error {
	mr.mu.Lock()
	defer mr.mu.Unlock()
	mr.closed = true
	return nil
}

// mockWriter fails the first failures calls, or every call when failures is negative.
type mockWriter struct {
	written  []kafka.Message
	failures int
	calls    int
}

func (mw *mockWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	mw.calls++
	if mw.failures < 0 || mw.calls <= mw.failures {
		return assert.AnError
	}
	mw.written = append(mw.written, msgs...)
	return nil
}

func (mw *mockWriter) Close() error { return nil }

type MockChecker struct {
	mock.Mock
}

func (m *MockChecker) Check(ctx context.Context, candidate models.Location) (*models.DuplicateReport, error) {
	args := m.Called(ctx, candidate)
	report, _ := args.Get(0).(*models.DuplicateReport)
	return report, args.Error(1)
}

type MockArchiver struct {
	mock.Mock
}

func (m *MockArchiver) StoreReport(ctx context.Context, report *models.DuplicateReport) (string, error) {
	args := m.Called(ctx, report)
	return args.String(0), args.Error(1)
}

func message(t *testing.T, offset int64, loc any) kafka.Message {
	t.Helper()
	var value []byte
	if s, ok := loc.(string); ok {
		value = []byte(s)
	} else {
		var err error
		value, err = json.Marshal(loc)
		require.NoError(t, err)
	}
	return kafka.Message{Topic: "locations.intake", Offset: offset, Value: value}
}

func TestWorker_Run(t *testing.T) {
	acme := models.Location{ID: "c-1", Name: "Acme"}
	bosch := models.Location{Name: "Bosch"}
	failing := models.Location{ID: "c-3", Name: "Broken"}

	reader := &mockReader{messages: []kafka.Message{
		message(t, 0, acme),
		message(t, 1, "{not json"),
		message(t, 2, bosch),
		message(t, 3, failing),
	}}
	writer := &mockWriter{}

	acmeReport := &models.DuplicateReport{ID: "r-1", Candidate: acme, Matches: []models.MatchCandidate{}, Unique: true}
	boschReport := &models.DuplicateReport{ID: "r-2", Candidate: bosch, Matches: []models.MatchCandidate{}, Unique: true}

	checker := new(MockChecker)
	checker.On("Check", mock.Anything, acme).Return(acmeReport, nil)
	checker.On("Check", mock.Anything, bosch).Return(boschReport, nil)
	checker.On("Check", mock.Anything, failing).Return(nil, fmt.Errorf("%w: 91, 0", service.ErrInvalidCoordinates))

	archive := new(MockArchiver)
	archive.On("StoreReport", mock.Anything, acmeReport).Return("reports/unknown/r-1.json", nil)
	archive.On("StoreReport", mock.Anything, boschReport).Return("reports/unknown/r-2.json", nil)

	worker := NewWorker(reader, writer, checker, archive)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, worker.Run(ctx))

	// undecodable and rejected candidates are committed without a report
	assert.Equal(t, []int64{0, 1, 2, 3}, reader.committed)

	require.Len(t, writer.written, 2)
	assert.Equal(t, "c-1", string(writer.written[0].Key))
	assert.Equal(t, "r-2", string(writer.written[1].Key), "report id keys candidates without id")

	var published models.DuplicateReport
	require.NoError(t, json.Unmarshal(writer.written[0].Value, &published))
	assert.Equal(t, "r-1", published.ID)
	assert.True(t, published.Unique)

	checker.AssertExpectations(t)
	archive.AssertExpectations(t)
}

func newTestWorker(reader KafkaReader, writer KafkaWriter, checker Checker, archive Archiver) *Worker {
	w := NewWorker(reader, writer, checker, archive)
	w.backoff = time.Millisecond
	return w
}

func TestWorker_RetriesTransientFailureInPlace(t *testing.T) {
	first := models.Location{ID: "c-5", Name: "Acme"}
	second := models.Location{ID: "c-6", Name: "Bosch"}
	reader := &mockReader{messages: []kafka.Message{
		message(t, 5, first),
		message(t, 6, second),
	}}
	writer := &mockWriter{}

	firstReport := &models.DuplicateReport{ID: "r-5", Unique: true}
	secondReport := &models.DuplicateReport{ID: "r-6", Unique: true}

	checker := new(MockChecker)
	upstream := fmt.Errorf("service: failed to load existing locations: %w: %w", service.ErrUpstream, assert.AnError)
	checker.On("Check", mock.Anything, first).Return(nil, upstream).Twice()
	checker.On("Check", mock.Anything, first).Return(firstReport, nil).Once()
	checker.On("Check", mock.Anything, second).Return(secondReport, nil).Once()

	worker := newTestWorker(reader, writer, checker, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, worker.Run(ctx))

	// offset 5 must be finished before offset 6 is committed
	assert.Equal(t, []int64{5, 6}, reader.committed)
	require.Len(t, writer.written, 2)
	assert.Equal(t, "c-5", string(writer.written[0].Key))
	assert.Equal(t, "c-6", string(writer.written[1].Key))
	checker.AssertExpectations(t)
}

func TestWorker_RetriesPublishAndArchive(t *testing.T) {
	candidate := models.Location{ID: "c-1", Name: "Acme"}
	reader := &mockReader{messages: []kafka.Message{message(t, 7, candidate)}}
	writer := &mockWriter{failures: 2}
	report := &models.DuplicateReport{ID: "r-1"}

	checker := new(MockChecker)
	checker.On("Check", mock.Anything, candidate).Return(report, nil).Once()

	archive := new(MockArchiver)
	archive.On("StoreReport", mock.Anything, report).Return("", assert.AnError).Once()
	archive.On("StoreReport", mock.Anything, report).Return("reports/unknown/r-1.json", nil).Once()

	worker := newTestWorker(reader, writer, checker, archive)
	require.NoError(t, worker.Run(context.Background()))

	assert.Equal(t, 3, writer.calls)
	require.Len(t, writer.written, 1, "a failed archive does not publish again")
	assert.Equal(t, []int64{7}, reader.committed)
	checker.AssertExpectations(t)
	archive.AssertExpectations(t)
}

func TestWorker_StopsWhileRetrying(t *testing.T) {
	candidate := models.Location{ID: "c-1", Name: "Acme"}
	reader := &mockReader{messages: []kafka.Message{
		message(t, 7, candidate),
		message(t, 8, models.Location{ID: "c-2", Name: "Bosch"}),
	}}
	writer := &mockWriter{failures: -1}

	checker := new(MockChecker)
	checker.On("Check", mock.Anything, candidate).Return(&models.DuplicateReport{ID: "r-1"}, nil)

	worker := newTestWorker(reader, writer, checker, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	require.NoError(t, worker.Run(ctx))

	assert.Empty(t, reader.committed)
	assert.Greater(t, writer.calls, 1)
	assert.Len(t, reader.messages, 1, "the next message is not fetched while one is pending")
}

func TestIsRejected(t *testing.T) {
	assert.True(t, isRejected(fmt.Errorf("intake: check failed: %w", service.ErrEmptyCandidate)))
	assert.True(t, isRejected(fmt.Errorf("%w: 91, 0", service.ErrInvalidCoordinates)))
	assert.False(t, isRejected(fmt.Errorf("x: %w: %w", service.ErrUpstream, assert.AnError)))
	assert.False(t, isRejected(assert.AnError))
	assert.False(t, isRejected(nil))
}

func TestWorker_StopsOnCancel(t *testing.T) {
	reader := &mockReader{messages: []kafka.Message{message(t, 0, models.Location{Name: "Acme"})}}
	worker := NewWorker(reader, &mockWriter{}, new(MockChecker), nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	require.NoError(t, worker.Run(ctx))
	assert.Empty(t, reader.committed)
}

func TestWorker_Close(t *testing.T) {
	reader := &mockReader{}
	worker := NewWorker(reader, &mockWriter{}, new(MockChecker), nil)

	require.NoError(t, worker.Close())
	assert.True(t, reader.closed)
}
