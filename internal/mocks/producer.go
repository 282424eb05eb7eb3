package mocks

import (
	"context"
	"fmt"
	"sync"

	"github.com/phrazzld/scry-deck/internal/domain"
	"github.com/phrazzld/scry-deck/internal/generation"
)

// MockProducer implements generation.BatchProducer for testing
type MockProducer struct {
	// GenerateBatchFn allows test cases to mock the GenerateBatch behavior
	GenerateBatchFn func(ctx context.Context, chunkText string, count int) ([]domain.QuizQuestion, error)

	// Default response values
	Questions []domain.QuizQuestion
	Err       error

	// Call tracking for verification
	GenerateBatchCalls struct {
		// mu protects the call tracking state for concurrent test cases
		mu sync.Mutex

		// Count tracks how many times GenerateBatch was called
		Count int

		// Chunks contains all chunk texts passed to GenerateBatch calls
		Chunks []string

		// Counts contains all requested question counts, in call order
		Counts []int
	}
}

// GenerateBatch implements the generation.BatchProducer interface
func (m *MockProducer) GenerateBatch(
	ctx context.Context,
	chunkText string,
	count int,
) ([]domain.QuizQuestion, error) {
	m.GenerateBatchCalls.mu.Lock()
	m.GenerateBatchCalls.Count++
	m.GenerateBatchCalls.Chunks = append(m.GenerateBatchCalls.Chunks, chunkText)
	m.GenerateBatchCalls.Counts = append(m.GenerateBatchCalls.Counts, count)
	m.GenerateBatchCalls.mu.Unlock()

	if m.GenerateBatchFn != nil {
		return m.GenerateBatchFn(ctx, chunkText, count)
	}

	return m.Questions, m.Err
}

// CallCount returns how many times GenerateBatch was called
func (m *MockProducer) CallCount() int {
	m.GenerateBatchCalls.mu.Lock()
	defer m.GenerateBatchCalls.mu.Unlock()
	return m.GenerateBatchCalls.Count
}

// RequestedCounts returns a copy of the requested counts, in call order
func (m *MockProducer) RequestedCounts() []int {
	m.GenerateBatchCalls.mu.Lock()
	defer m.GenerateBatchCalls.mu.Unlock()
	return append([]int(nil), m.GenerateBatchCalls.Counts...)
}

// RequestedChunks returns a copy of the chunk texts, in call order
func (m *MockProducer) RequestedChunks() []string {
	m.GenerateBatchCalls.mu.Lock()
	defer m.GenerateBatchCalls.mu.Unlock()
	return append([]string(nil), m.GenerateBatchCalls.Chunks...)
}

// Reset resets the call tracking state
func (m *MockProducer) Reset() {
	m.GenerateBatchCalls.mu.Lock()
	defer m.GenerateBatchCalls.mu.Unlock()

	m.GenerateBatchCalls.Count = 0
	m.GenerateBatchCalls.Chunks = nil
	m.GenerateBatchCalls.Counts = nil
}

// NewExactProducer creates a MockProducer that always returns exactly the
// number of questions requested.
func NewExactProducer() *MockProducer {
	m := &MockProducer{}
	m.GenerateBatchFn = func(_ context.Context, _ string, count int) ([]domain.QuizQuestion, error) {
		return SampleQuestions(count, fmt.Sprintf("call-%d", m.CallCount())), nil
	}
	return m
}

// NewMockProducerWithQuestions creates a MockProducer that returns the specified questions
func NewMockProducerWithQuestions(questions []domain.QuizQuestion) *MockProducer {
	return &MockProducer{
		Questions: questions,
	}
}

// NewMockProducerWithError creates a MockProducer that returns the specified error
func NewMockProducerWithError(err error) *MockProducer {
	return &MockProducer{
		Err: err,
	}
}

// MockProducerThatFails creates a MockProducer that simulates a generation failure
func MockProducerThatFails() *MockProducer {
	return NewMockProducerWithError(generation.ErrGenerationFailed)
}

// SampleQuestions builds n valid questions whose text is tagged with tag so
// tests can tell batches apart.
func SampleQuestions(n int, tag string) []domain.QuizQuestion {
	questions := make([]domain.QuizQuestion, 0, n)
	for i := 0; i < n; i++ {
		answer := fmt.Sprintf("%s answer %d", tag, i)
		questions = append(questions, domain.QuizQuestion{
			Question: fmt.Sprintf("%s question %d?", tag, i),
			Answer:   answer,
			Options: []string{
				answer,
				fmt.Sprintf("%s distractor %d-a", tag, i),
				fmt.Sprintf("%s distractor %d-b", tag, i),
				fmt.Sprintf("%s distractor %d-c", tag, i),
			},
		})
	}
	return questions
}

var _ generation.BatchProducer = (*MockProducer)(nil)
