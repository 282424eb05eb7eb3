package generation

import "fmt"

// Options controls how a transcript is divided into batches and how many
// questions are requested overall.
type Options struct {
	// TargetQuestions is the total number of questions wanted for the transcript.
	TargetQuestions int

	// MaxCharsPerChunk bounds the size of a single batch in characters (runes).
	MaxCharsPerChunk int

	// QuestionsPerBatch is the preferred upper bound of questions asked per batch.
	QuestionsPerBatch int
}

// Validate checks the option preconditions.
func (o Options) Validate() error {
	if o.TargetQuestions < 0 {
		return fmt.Errorf("%w: target question count must be >= 0, got %d",
			ErrInvalidOptions, o.TargetQuestions)
	}
	if o.MaxCharsPerChunk <= 0 {
		return fmt.Errorf("%w: max characters per chunk must be > 0, got %d",
			ErrInvalidOptions, o.MaxCharsPerChunk)
	}
	if o.QuestionsPerBatch <= 0 {
		return fmt.Errorf("%w: questions per batch must be > 0, got %d",
			ErrInvalidOptions, o.QuestionsPerBatch)
	}
	return nil
}

// Plan describes how one transcript is divided into batches.
type Plan struct {
	// NumBatches is the number of windows the transcript is split into. Always >= 1.
	NumBatches int `json:"num_batches"`

	// ChunkSize is the width of every window except possibly the last.
	// It is zero only for an empty transcript.
	ChunkSize int `json:"chunk_size"`
}

// NewPlan computes the batch plan for a transcript of totalChars characters.
//
// The number of batches is the stricter of two independent limits: enough
// batches to keep each window within MaxCharsPerChunk, and enough batches to
// keep each request near QuestionsPerBatch questions. At least one batch is
// always planned.
func NewPlan(totalChars int, opts Options) (Plan, error) {
	if err := opts.Validate(); err != nil {
		return Plan{}, err
	}
	if totalChars < 0 {
		return Plan{}, fmt.Errorf("%w: total characters must be >= 0, got %d",
			ErrInvalidOptions, totalChars)
	}

	byLength := ceilDiv(totalChars, opts.MaxCharsPerChunk)
	byQuota := ceilDiv(opts.TargetQuestions, opts.QuestionsPerBatch)
	numBatches := max(byLength, byQuota, 1)

	return Plan{
		NumBatches: numBatches,
		ChunkSize:  ceilDiv(totalChars, numBatches),
	}, nil
}

// Windows slices text into exactly p.NumBatches contiguous, non-overlapping
// windows in document order. Trailing windows may be shorter or empty, and
// concatenating all windows reproduces text exactly. Boundaries fall on rune
// boundaries, never inside a UTF-8 sequence.
func (p Plan) Windows(text string) []string {
	runes := []rune(text)
	windows := make([]string, p.NumBatches)
	for i := range windows {
		windows[i] = p.window(runes, i)
	}
	return windows
}

// window returns window i of runes without materializing the others.
func (p Plan) window(runes []rune, i int) string {
	total := len(runes)
	start := p.offset(i, total)
	end := p.offset(i+1, total)
	if i >= p.NumBatches-1 {
		end = total
	}
	return string(runes[start:end])
}

// offset returns min(i*ChunkSize, total) without overflowing.
func (p Plan) offset(i, total int) int {
	if p.ChunkSize == 0 || i > total/p.ChunkSize {
		return total
	}
	return min(i*p.ChunkSize, total)
}

// Quota returns how many questions to request for batch index when
// generated questions have been collected so far. A non-positive result
// means the target is already met.
func (p Plan) Quota(index, target, generated int) int {
	remaining := target - generated
	if remaining <= 0 {
		return 0
	}
	remainingBatches := p.NumBatches - index
	if remainingBatches <= 0 {
		return remaining
	}
	return ceilDiv(remaining, remainingBatches)
}

// ceilDiv returns ceil(a/b) for a >= 0 and b > 0.
func ceilDiv(a, b int) int {
	if a <= 0 {
		return 0
	}
	q := a / b
	if a%b != 0 {
		q++
	}
	return q
}
