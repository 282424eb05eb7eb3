// Package generation turns a transcript into quiz questions by splitting it
// into bounded batches and asking an AI/LLM-backed BatchProducer for a share
// of the target question count per batch.
//
// The Scheduler is the heart of the package. For one transcript it:
//
//  1. Computes a Plan: the number of batches is the larger of what the
//     transcript length requires (MaxCharsPerChunk) and what the question
//     quota requires (QuestionsPerBatch), never less than one.
//  2. Slices the transcript into that many contiguous windows.
//  3. Walks the windows in order, requesting ceil(remaining/remainingBatches)
//     questions from the producer each time, so that under-delivery in early
//     batches raises the ask in later ones.
//  4. Stops asking once the target is met, skips blank windows, and treats a
//     failing batch as zero questions instead of aborting the run.
//  5. Reports progress synchronously to an optional ProgressObserver.
//
// Producers live in the platform packages (Gemini, OpenAI, Ollama). They
// share the Retry helper and the sentinel errors declared here.
package generation
