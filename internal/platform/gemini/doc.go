// Package gemini provides an implementation of the generation.BatchProducer
// interface that uses Google's Gemini API for generating quiz questions from
// transcript chunks.
//
// This package is an infrastructure adapter connecting the batch scheduler to
// Google's external Gemini AI service. It translates between the application's
// domain models and the Gemini API without exposing the details of the
// external service to the core application.
//
// Key components:
//
// 1. Producer:
//   - Implements the generation.BatchProducer interface
//   - Renders the shared quiz prompt for each batch
//   - Requests JSON output constrained by a response schema
//
// 2. Response Processing:
//   - Concatenates the text parts of the first candidate
//   - Maps safety blocks to generation.ErrContentBlocked
//   - Decodes the question list with the prompt package
//
// 3. Error Handling:
//   - Retries transient API errors through generation.Retry
//   - Bounds every attempt with the configured request timeout
//
// The package depends on the google.golang.org/genai client library.
package gemini
