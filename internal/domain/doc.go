// Package domain contains the core entities of the application: the
// multiple-choice quiz question produced from a transcript chunk and the
// validation rules every generated question must satisfy before it is
// placed in a study deck. It is independent of any LLM provider,
// transcript source or export format.
package domain
