// Package mocks provides hand-written test doubles for the interfaces that
// connect the deck pipeline to the outside world: batch producers, transcript
// sources, playlist resolvers and the transcript cache.
//
// Every mock records its calls behind a mutex so tests can assert on request
// order from concurrent code, and most expose a function field to override
// the default behavior:
//
//	producer := mocks.NewExactProducer()
//	producer.GenerateBatchFn = func(ctx context.Context, chunk string, count int) ([]domain.QuizQuestion, error) {
//	    return mocks.SampleQuestions(count, "fixture"), nil
//	}
//
//	source := mocks.NewMockSource(map[string]string{"dQw4w9WgXcQ": "transcript text"})
//
// Video IDs missing from a MockSource report transcript.ErrNoTranscript, the
// same way a video without captions does.
package mocks
