package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/eslsoft/phrasenet/internal/entity"
	"github.com/eslsoft/phrasenet/pkg/sm2"
)

func newStudyUsecaseForTest(store *fakeStore, now time.Time) StudyUsecase {
	uc := NewStudyUsecase(
		fakeTx{},
		&fakeVocabRepo{s: store},
		&fakeStudyRepo{s: store},
		&fakeCardRepo{s: store},
		&fakeProgressRepo{s: store},
		&fakeReviewRepo{s: store},
	)
	uc.(*studyUsecase).clock = func() time.Time { return now }
	return uc
}

func TestAddVocabToStudy(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	store := newFakeStore()
	uc := newStudyUsecaseForTest(store, now)

	word := seedVocabItem(store, "我")

	cards, err := uc.AddVocabToStudy(ctx, word.ID)
	if err != nil {
		t.Fatalf("AddVocabToStudy: %v", err)
	}
	if len(cards) != 6 {
		t.Fatalf("got %d cards, want 6", len(cards))
	}
	modalities := entity.CardModalities()
	for i, card := range cards {
		if card.ID == 0 {
			t.Errorf("card %d has no id", i)
		}
		if card.OwnerKind != entity.OwnerVocab || card.OwnerID != word.ID {
			t.Errorf("card %d owner = %s/%d, want vocab/%d", i, card.OwnerKind, card.OwnerID, word.ID)
		}
		if card.Modality != modalities[i] {
			t.Errorf("card %d modality = %v, want %v", i, card.Modality, modalities[i])
		}
		if !card.Active {
			t.Errorf("card %d should start active", i)
		}
		if !card.CreatedAt.Equal(now) {
			t.Errorf("card %d created at %v, want %v", i, card.CreatedAt, now)
		}
	}

	entry, err := (&fakeStudyRepo{s: store}).FindByVocabItemID(ctx, word.ID)
	if err != nil {
		t.Fatalf("FindByVocabItemID: %v", err)
	}
	if entry == nil {
		t.Fatal("study entry not created")
	}
	if !entry.Active || !entry.AddedAt.Equal(now) {
		t.Errorf("unexpected entry %+v", entry)
	}
	if len(store.progress) != 0 {
		t.Errorf("progress rows are created lazily, got %d", len(store.progress))
	}
}

func TestAddVocabToStudyTwice(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	store := newFakeStore()
	uc := newStudyUsecaseForTest(store, now)

	word := seedVocabItem(store, "喝")
	if _, err := uc.AddVocabToStudy(ctx, word.ID); err != nil {
		t.Fatalf("AddVocabToStudy: %v", err)
	}
	_, err := uc.AddVocabToStudy(ctx, word.ID)
	if !errors.Is(err, entity.ErrAlreadyActive) {
		t.Fatalf("err = %v, want ErrAlreadyActive", err)
	}
	if len(store.cards) != 6 {
		t.Errorf("duplicate add must not create cards, got %d", len(store.cards))
	}
}

func TestAddVocabToStudyRetiredItem(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	store := newFakeStore()
	uc := newStudyUsecaseForTest(store, now)

	// A retired entry still owns its history: re-adding is rejected, the
	// propagator is the one to bring it back.
	word := seedVocabItem(store, "茶")
	seedStudyEntry(store, word.ID, false)

	_, err := uc.AddVocabToStudy(ctx, word.ID)
	if !errors.Is(err, entity.ErrAlreadyActive) {
		t.Fatalf("err = %v, want ErrAlreadyActive", err)
	}
}

func TestAddVocabToStudyUnknownItem(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	uc := newStudyUsecaseForTest(newFakeStore(), now)

	if _, err := uc.AddVocabToStudy(ctx, 404); !errors.Is(err, entity.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
	if _, err := uc.AddVocabToStudy(ctx, 0); !errors.Is(err, entity.ErrNotFound) {
		t.Fatalf("zero id err = %v, want ErrNotFound", err)
	}
}

func TestRemoveVocabFromStudy(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	store := newFakeStore()
	uc := newStudyUsecaseForTest(store, now)

	word := seedVocabItem(store, "我")
	seedStudyEntry(store, word.ID, true)
	cards := seedCardSet(store, entity.OwnerVocab, word.ID, true, now)
	seedCardProgress(store, cards, sm2.StateLearning, now)
	store.events = append(store.events,
		&entity.ReviewEvent{ID: store.nextID(), CardID: cards[0].ID, Quality: sm2.QualityGood},
		&entity.ReviewEvent{ID: store.nextID(), CardID: cards[1].ID, Quality: sm2.QualityHard},
	)

	// An unrelated item must survive untouched.
	other := seedVocabItem(store, "喝")
	seedStudyEntry(store, other.ID, true)
	otherCards := seedCardSet(store, entity.OwnerVocab, other.ID, true, now)
	seedCardProgress(store, otherCards, sm2.StateLearning, now)

	if err := uc.RemoveVocabFromStudy(ctx, word.ID); err != nil {
		t.Fatalf("RemoveVocabFromStudy: %v", err)
	}

	for _, card := range cards {
		if _, ok := store.cards[card.ID]; ok {
			t.Errorf("card %d should be deleted", card.ID)
		}
		if _, ok := store.progress[card.ID]; ok {
			t.Errorf("progress of card %d should be deleted", card.ID)
		}
	}
	if len(store.events) != 0 {
		t.Errorf("review history should be deleted, %d events left", len(store.events))
	}
	if len(store.cards) != 6 || len(store.progress) != 6 {
		t.Errorf("the other item lost data: %d cards, %d progress rows", len(store.cards), len(store.progress))
	}

	wantOps := []string{"delete reviews", "delete progress", "delete cards", "delete entry"}
	if len(store.ops) != len(wantOps) {
		t.Fatalf("ops = %v, want %v", store.ops, wantOps)
	}
	for i, op := range wantOps {
		if store.ops[i] != op {
			t.Errorf("ops[%d] = %q, want %q", i, store.ops[i], op)
		}
	}
}

func TestRemoveVocabFromStudyNotEnrolled(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	store := newFakeStore()
	uc := newStudyUsecaseForTest(store, now)

	word := seedVocabItem(store, "茶")
	if err := uc.RemoveVocabFromStudy(ctx, word.ID); !errors.Is(err, entity.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestUpdateNote(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	store := newFakeStore()
	uc := newStudyUsecaseForTest(store, now)

	word := seedVocabItem(store, "喝")
	entry := seedStudyEntry(store, word.ID, true)

	if err := uc.UpdateNote(ctx, word.ID, "  easy to confuse with 渴  "); err != nil {
		t.Fatalf("UpdateNote: %v", err)
	}
	if got := store.entries[entry.ID].Note; got != "easy to confuse with 渴" {
		t.Errorf("note = %q", got)
	}

	if err := uc.UpdateNote(ctx, 404, "x"); !errors.Is(err, entity.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestListStudyEntries(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	store := newFakeStore()
	uc := newStudyUsecaseForTest(store, now)

	first := seedVocabItem(store, "我")
	second := seedVocabItem(store, "喝")
	seedStudyEntry(store, first.ID, true)
	seedStudyEntry(store, second.ID, false)

	active, err := uc.ListStudyEntries(ctx, true)
	if err != nil {
		t.Fatalf("ListStudyEntries: %v", err)
	}
	if len(active) != 1 || active[0].VocabItemID != first.ID {
		t.Errorf("active entries = %+v", active)
	}

	all, err := uc.ListStudyEntries(ctx, false)
	if err != nil {
		t.Fatalf("ListStudyEntries: %v", err)
	}
	if len(all) != 2 {
		t.Errorf("all entries = %d, want 2", len(all))
	}
}
