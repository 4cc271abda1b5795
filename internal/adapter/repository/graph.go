package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/eslsoft/phrasenet/internal/repository"
)

type dependencyGraph struct {
	db *gorm.DB
}

// NewDependencyGraph exposes the component and hierarchy edge tables as
// a repository.DependencyGraph.
func NewDependencyGraph(db *gorm.DB) repository.DependencyGraph {
	return &dependencyGraph{db: db}
}

func (g *dependencyGraph) ComponentsOf(ctx context.Context, phraseID int64) ([]int64, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var ids []int64
	err := conn(ctx, g.db).
		Model(&phraseComponentModel{}).
		Where("phrase_id = ?", phraseID).
		Order("position ASC").
		Pluck("vocab_item_id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("components of phrase: %w", err)
	}
	return ids, nil
}

func (g *dependencyGraph) PhrasesContaining(ctx context.Context, vocabItemID int64) ([]int64, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var ids []int64
	err := conn(ctx, g.db).
		Model(&phraseComponentModel{}).
		Distinct().
		Where("vocab_item_id = ?", vocabItemID).
		Order("phrase_id ASC").
		Pluck("phrase_id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("phrases containing item: %w", err)
	}
	return ids, nil
}

func (g *dependencyGraph) SimplePhrasesOf(ctx context.Context, complexPhraseID int64) ([]int64, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var ids []int64
	err := conn(ctx, g.db).
		Model(&phraseHierarchyModel{}).
		Where("complex_phrase_id = ?", complexPhraseID).
		Order("simple_phrase_id ASC").
		Pluck("simple_phrase_id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("simple phrases of phrase: %w", err)
	}
	return ids, nil
}

func (g *dependencyGraph) ComplexPhrasesContaining(ctx context.Context, simplePhraseID int64) ([]int64, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var ids []int64
	err := conn(ctx, g.db).
		Model(&phraseHierarchyModel{}).
		Where("simple_phrase_id = ?", simplePhraseID).
		Order("complex_phrase_id ASC").
		Pluck("complex_phrase_id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("complex phrases containing phrase: %w", err)
	}
	return ids, nil
}
