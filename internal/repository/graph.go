package repository

import "context"

// DependencyGraph exposes the edges between vocabulary items and the
// phrases built from them, plus the one-hop hierarchy between simple
// and complex phrases. All methods return IDs only; callers hydrate
// entities as needed.
type DependencyGraph interface {
	// ComponentsOf returns the vocab item IDs of a phrase in position order.
	ComponentsOf(ctx context.Context, phraseID int64) ([]int64, error)
	// PhrasesContaining returns IDs of every phrase that uses the vocab item.
	PhrasesContaining(ctx context.Context, vocabItemID int64) ([]int64, error)
	// SimplePhrasesOf returns IDs of simple phrases embedded in a complex phrase.
	SimplePhrasesOf(ctx context.Context, complexPhraseID int64) ([]int64, error)
	// ComplexPhrasesContaining returns IDs of complex phrases embedding a simple phrase.
	ComplexPhrasesContaining(ctx context.Context, simplePhraseID int64) ([]int64, error)
}
