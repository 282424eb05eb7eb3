// Package langchain provides generation.BatchProducer implementations for
// OpenAI and Ollama models through the langchaingo llms abstraction.
//
// Both providers share one Producer: it renders the quiz prompt, sends it
// with the shared system instruction in JSON mode, and decodes the reply with
// the prompt package. Transient failures are retried through
// generation.Retry.
package langchain
