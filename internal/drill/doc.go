// Package drill decides which vocabulary item to present next and tracks
// mastery for words (stages 1-4) and grammar topics (0-100).
//
// The package holds no state of its own: it reads and writes through the
// WordStore, GrammarStore and UserStore interfaces and returns plain values
// from pkg/models.
package drill
