package usecase

import (
	"context"
	"io"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/eslsoft/phrasenet/internal/entity"
	"github.com/eslsoft/phrasenet/internal/repository"
	"github.com/eslsoft/phrasenet/pkg/sm2"
)

// fakeStore backs all fake repositories with one in-memory dataset so
// cross-repository reads stay consistent, the way one database would.
type fakeStore struct {
	mu          sync.RWMutex
	seq         int64
	vocabs      map[int64]*entity.VocabItem
	phrases     map[int64]*entity.Phrase
	components  []entity.PhraseComponent
	hierarchies []entity.PhraseHierarchy
	entries     map[int64]*entity.StudyEntry
	cards       map[int64]*entity.Card
	progress    map[int64]*entity.Progress
	events      []*entity.ReviewEvent
	sessions    map[int64]*entity.StudySession
	logs        []*entity.ActivationLog
	ops         []string
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		vocabs:   make(map[int64]*entity.VocabItem),
		phrases:  make(map[int64]*entity.Phrase),
		entries:  make(map[int64]*entity.StudyEntry),
		cards:    make(map[int64]*entity.Card),
		progress: make(map[int64]*entity.Progress),
		sessions: make(map[int64]*entity.StudySession),
	}
}

func (s *fakeStore) nextID() int64 {
	s.seq++
	return s.seq
}

func (s *fakeStore) logOp(op string) {
	s.ops = append(s.ops, op)
}

var (
	_ repository.VocabRepository         = (*fakeVocabRepo)(nil)
	_ repository.PhraseRepository        = (*fakePhraseRepo)(nil)
	_ repository.ActivationLogRepository = (*fakeActivationLogRepo)(nil)
	_ repository.DependencyGraph         = (*fakeGraph)(nil)
	_ repository.StudyEntryRepository    = (*fakeStudyRepo)(nil)
	_ repository.CardRepository          = (*fakeCardRepo)(nil)
	_ repository.ProgressRepository      = (*fakeProgressRepo)(nil)
	_ repository.ReviewEventRepository   = (*fakeReviewRepo)(nil)
	_ repository.SessionRepository       = (*fakeSessionRepo)(nil)
	_ repository.TxManager               = (*fakeTx)(nil)
	_ repository.CardLocker              = (*fakeLocker)(nil)
)

type fakeVocabRepo struct{ s *fakeStore }

func (r *fakeVocabRepo) Create(ctx context.Context, item *entity.VocabItem) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	item.ID = r.s.nextID()
	r.s.vocabs[item.ID] = cloneVocab(item)
	return nil
}

func (r *fakeVocabRepo) GetByID(ctx context.Context, id int64) (*entity.VocabItem, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	item, ok := r.s.vocabs[id]
	if !ok {
		return nil, entity.ErrNotFound
	}
	return cloneVocab(item), nil
}

func (r *fakeVocabRepo) GetByIDs(ctx context.Context, ids []int64) ([]*entity.VocabItem, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var items []*entity.VocabItem
	for _, id := range ids {
		if item, ok := r.s.vocabs[id]; ok {
			items = append(items, cloneVocab(item))
		}
	}
	return items, nil
}

func (r *fakeVocabRepo) FindByForm(ctx context.Context, form string) (*entity.VocabItem, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, item := range r.s.vocabs {
		if item.Form == form {
			return cloneVocab(item), nil
		}
	}
	return nil, nil
}

func (r *fakeVocabRepo) List(ctx context.Context, query *repository.ListVocabQuery) ([]*entity.VocabItem, int64, error) {
	if err := ctx.Err(); err != nil {
		return nil, 0, err
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var items []*entity.VocabItem
	for _, item := range r.s.vocabs {
		items = append(items, cloneVocab(item))
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ID < items[j].ID })
	return items, int64(len(items)), nil
}

func (r *fakeVocabRepo) Search(ctx context.Context, term string, limit int32) ([]*entity.VocabItem, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	needle := strings.ToLower(term)
	var items []*entity.VocabItem
	for _, item := range r.s.vocabs {
		if strings.Contains(strings.ToLower(item.Form), needle) ||
			strings.Contains(strings.ToLower(item.Pronunciation), needle) ||
			strings.Contains(strings.ToLower(item.Meaning), needle) {
			items = append(items, cloneVocab(item))
		}
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ID < items[j].ID })
	if int32(len(items)) > limit {
		items = items[:limit]
	}
	return items, nil
}

type fakePhraseRepo struct{ s *fakeStore }

func (r *fakePhraseRepo) Create(ctx context.Context, phrase *entity.Phrase, components []entity.PhraseComponent, hierarchies []entity.PhraseHierarchy) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	phrase.ID = r.s.nextID()
	r.s.phrases[phrase.ID] = clonePhrase(phrase)
	for _, component := range components {
		component.PhraseID = phrase.ID
		r.s.components = append(r.s.components, component)
	}
	for _, hierarchy := range hierarchies {
		hierarchy.ComplexPhraseID = phrase.ID
		r.s.hierarchies = append(r.s.hierarchies, hierarchy)
	}
	return nil
}

func (r *fakePhraseRepo) GetByID(ctx context.Context, id int64) (*entity.Phrase, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	phrase, ok := r.s.phrases[id]
	if !ok {
		return nil, entity.ErrNotFound
	}
	return clonePhrase(phrase), nil
}

func (r *fakePhraseRepo) GetByIDs(ctx context.Context, ids []int64) ([]*entity.Phrase, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var phrases []*entity.Phrase
	for _, id := range ids {
		if phrase, ok := r.s.phrases[id]; ok {
			phrases = append(phrases, clonePhrase(phrase))
		}
	}
	return phrases, nil
}

func (r *fakePhraseRepo) FindByForm(ctx context.Context, form string) (*entity.Phrase, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, phrase := range r.s.phrases {
		if phrase.Form == form {
			return clonePhrase(phrase), nil
		}
	}
	return nil, nil
}

func (r *fakePhraseRepo) List(ctx context.Context, query *repository.ListPhraseQuery) ([]*entity.Phrase, int64, error) {
	if err := ctx.Err(); err != nil {
		return nil, 0, err
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var phrases []*entity.Phrase
	for _, phrase := range r.s.phrases {
		if query.Activated != nil && phrase.Activated != *query.Activated {
			continue
		}
		if query.InStudy != nil && phrase.InStudy != *query.InStudy {
			continue
		}
		phrases = append(phrases, clonePhrase(phrase))
	}
	sort.Slice(phrases, func(i, j int) bool { return phrases[i].ID < phrases[j].ID })
	return phrases, int64(len(phrases)), nil
}

func (r *fakePhraseRepo) SetActivated(ctx context.Context, id int64, activated bool) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	phrase, ok := r.s.phrases[id]
	if !ok {
		return entity.ErrNotFound
	}
	phrase.Activated = activated
	return nil
}

func (r *fakePhraseRepo) SetInStudy(ctx context.Context, id int64, inStudy bool) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	phrase, ok := r.s.phrases[id]
	if !ok {
		return entity.ErrNotFound
	}
	phrase.InStudy = inStudy
	return nil
}

type fakeActivationLogRepo struct{ s *fakeStore }

func (r *fakeActivationLogRepo) Append(ctx context.Context, log *entity.ActivationLog) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	log.ID = r.s.nextID()
	r.s.logs = append(r.s.logs, cloneActivationLog(log))
	return nil
}

func (r *fakeActivationLogRepo) ListByPhrase(ctx context.Context, phraseID int64) ([]*entity.ActivationLog, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var logs []*entity.ActivationLog
	for _, log := range r.s.logs {
		if log.PhraseID == phraseID {
			logs = append(logs, cloneActivationLog(log))
		}
	}
	return logs, nil
}

type fakeGraph struct{ s *fakeStore }

func (g *fakeGraph) ComponentsOf(ctx context.Context, phraseID int64) ([]int64, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	g.s.mu.RLock()
	defer g.s.mu.RUnlock()
	var edges []entity.PhraseComponent
	for _, component := range g.s.components {
		if component.PhraseID == phraseID {
			edges = append(edges, component)
		}
	}
	sort.Slice(edges, func(i, j int) bool { return edges[i].Position < edges[j].Position })
	ids := make([]int64, 0, len(edges))
	for _, edge := range edges {
		ids = append(ids, edge.VocabItemID)
	}
	return ids, nil
}

func (g *fakeGraph) PhrasesContaining(ctx context.Context, vocabItemID int64) ([]int64, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	g.s.mu.RLock()
	defer g.s.mu.RUnlock()
	seen := make(map[int64]struct{})
	var ids []int64
	for _, component := range g.s.components {
		if component.VocabItemID != vocabItemID {
			continue
		}
		if _, dup := seen[component.PhraseID]; dup {
			continue
		}
		seen[component.PhraseID] = struct{}{}
		ids = append(ids, component.PhraseID)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

func (g *fakeGraph) SimplePhrasesOf(ctx context.Context, complexPhraseID int64) ([]int64, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	g.s.mu.RLock()
	defer g.s.mu.RUnlock()
	var ids []int64
	for _, hierarchy := range g.s.hierarchies {
		if hierarchy.ComplexPhraseID == complexPhraseID {
			ids = append(ids, hierarchy.SimplePhraseID)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

func (g *fakeGraph) ComplexPhrasesContaining(ctx context.Context, simplePhraseID int64) ([]int64, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	g.s.mu.RLock()
	defer g.s.mu.RUnlock()
	var ids []int64
	for _, hierarchy := range g.s.hierarchies {
		if hierarchy.SimplePhraseID == simplePhraseID {
			ids = append(ids, hierarchy.ComplexPhraseID)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

type fakeStudyRepo struct{ s *fakeStore }

func (r *fakeStudyRepo) Create(ctx context.Context, studyEntry *entity.StudyEntry) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	studyEntry.ID = r.s.nextID()
	r.s.entries[studyEntry.ID] = cloneStudyEntry(studyEntry)
	return nil
}

func (r *fakeStudyRepo) FindByVocabItemID(ctx context.Context, vocabItemID int64) (*entity.StudyEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, entry := range r.s.entries {
		if entry.VocabItemID == vocabItemID {
			return cloneStudyEntry(entry), nil
		}
	}
	return nil, nil
}

func (r *fakeStudyRepo) List(ctx context.Context, activeOnly bool) ([]*entity.StudyEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var entries []*entity.StudyEntry
	for _, entry := range r.s.entries {
		if activeOnly && !entry.Active {
			continue
		}
		entries = append(entries, cloneStudyEntry(entry))
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].ID < entries[j].ID })
	return entries, nil
}

func (r *fakeStudyRepo) SetActive(ctx context.Context, id int64, active bool) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	entry, ok := r.s.entries[id]
	if !ok {
		return entity.ErrNotFound
	}
	entry.Active = active
	return nil
}

func (r *fakeStudyRepo) UpdateNote(ctx context.Context, id int64, note string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	entry, ok := r.s.entries[id]
	if !ok {
		return entity.ErrNotFound
	}
	entry.Note = note
	return nil
}

func (r *fakeStudyRepo) Delete(ctx context.Context, id int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.entries[id]; !ok {
		return entity.ErrNotFound
	}
	delete(r.s.entries, id)
	r.s.logOp("delete entry")
	return nil
}

type fakeCardRepo struct{ s *fakeStore }

func (r *fakeCardRepo) CreateBatch(ctx context.Context, cards []*entity.Card) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, card := range cards {
		card.ID = r.s.nextID()
		r.s.cards[card.ID] = cloneCard(card)
	}
	return nil
}

func (r *fakeCardRepo) GetByID(ctx context.Context, id int64) (*entity.Card, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	card, ok := r.s.cards[id]
	if !ok {
		return nil, entity.ErrNotFound
	}
	return cloneCard(card), nil
}

func (r *fakeCardRepo) ListByOwner(ctx context.Context, ownerKind entity.OwnerKind, ownerID int64) ([]*entity.Card, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var cards []*entity.Card
	for _, card := range r.s.cards {
		if card.OwnerKind == ownerKind && card.OwnerID == ownerID {
			cards = append(cards, cloneCard(card))
		}
	}
	sort.Slice(cards, func(i, j int) bool { return cards[i].ID < cards[j].ID })
	return cards, nil
}

func (r *fakeCardRepo) SetActiveByOwner(ctx context.Context, ownerKind entity.OwnerKind, ownerID int64, active bool) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, card := range r.s.cards {
		if card.OwnerKind == ownerKind && card.OwnerID == ownerID {
			card.Active = active
		}
	}
	return nil
}

func (r *fakeCardRepo) DeleteByOwner(ctx context.Context, ownerKind entity.OwnerKind, ownerID int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for id, card := range r.s.cards {
		if card.OwnerKind == ownerKind && card.OwnerID == ownerID {
			delete(r.s.cards, id)
		}
	}
	r.s.logOp("delete cards")
	return nil
}

type fakeProgressRepo struct {
	s *fakeStore
	// forceConflicts makes the next n commits fail with ErrConflict.
	forceConflicts int
}

func (r *fakeProgressRepo) GetOrCreate(ctx context.Context, cardID int64, now time.Time) (*entity.Progress, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if existing, ok := r.s.progress[cardID]; ok {
		return cloneProgress(existing), nil
	}
	created := entity.NewProgress(cardID, now)
	r.s.progress[cardID] = cloneProgress(&created)
	return cloneProgress(&created), nil
}

func (r *fakeProgressRepo) ListByCardIDs(ctx context.Context, cardIDs []int64) ([]*entity.Progress, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var progresses []*entity.Progress
	for _, id := range cardIDs {
		if progress, ok := r.s.progress[id]; ok {
			progresses = append(progresses, cloneProgress(progress))
		}
	}
	return progresses, nil
}

func (r *fakeProgressRepo) Commit(ctx context.Context, progress *entity.Progress, expectedVersion int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.forceConflicts > 0 {
		r.forceConflicts--
		return entity.ErrConflict
	}
	stored, ok := r.s.progress[progress.CardID]
	if !ok {
		return entity.ErrNotFound
	}
	if stored.Version != expectedVersion {
		return entity.ErrConflict
	}
	progress.Version = expectedVersion + 1
	r.s.progress[progress.CardID] = cloneProgress(progress)
	return nil
}

func (r *fakeProgressRepo) DueCards(ctx context.Context, activeOnly bool, asOf time.Time) ([]entity.DueCard, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var due []entity.DueCard
	for _, card := range r.s.cards {
		if activeOnly && !card.Active {
			continue
		}
		progress, ok := r.s.progress[card.ID]
		if ok && progress.NextReviewAt.After(asOf) {
			continue
		}
		item := entity.DueCard{Card: *cloneCard(card)}
		switch card.OwnerKind {
		case entity.OwnerVocab:
			if vocab, ok := r.s.vocabs[card.OwnerID]; ok {
				item.Form, item.Pronunciation, item.Meaning = vocab.Form, vocab.Pronunciation, vocab.Meaning
			}
		case entity.OwnerPhrase:
			if phrase, ok := r.s.phrases[card.OwnerID]; ok {
				item.Form, item.Pronunciation, item.Meaning = phrase.Form, phrase.Pronunciation, phrase.Meaning
			}
		}
		due = append(due, item)
	}
	sort.Slice(due, func(i, j int) bool { return due[i].Card.ID < due[j].Card.ID })
	return due, nil
}

func (r *fakeProgressRepo) ResetForReactivation(ctx context.Context, cardIDs []int64, now time.Time) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, id := range cardIDs {
		progress, ok := r.s.progress[id]
		if !ok {
			continue
		}
		progress.Easiness = sm2.InitialEasiness
		progress.Repetitions = 0
		progress.IntervalDays = 0
		progress.State = sm2.StateLearning
		progress.NextReviewAt = now
		progress.Version++
		progress.UpdatedAt = now
	}
	return nil
}

func (r *fakeProgressRepo) DeleteByCardIDs(ctx context.Context, cardIDs []int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, id := range cardIDs {
		delete(r.s.progress, id)
	}
	r.s.logOp("delete progress")
	return nil
}

func (r *fakeProgressRepo) StateCounts(ctx context.Context) (map[sm2.State]int64, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	counts := make(map[sm2.State]int64)
	for _, card := range r.s.cards {
		if progress, ok := r.s.progress[card.ID]; ok {
			counts[progress.State]++
		} else {
			counts[sm2.StateNew]++
		}
	}
	return counts, nil
}

func (r *fakeProgressRepo) DueCount(ctx context.Context, asOf time.Time) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var count int64
	for _, card := range r.s.cards {
		if !card.Active {
			continue
		}
		progress, ok := r.s.progress[card.ID]
		if ok && progress.NextReviewAt.After(asOf) {
			continue
		}
		count++
	}
	return count, nil
}

type fakeReviewRepo struct{ s *fakeStore }

func (r *fakeReviewRepo) Append(ctx context.Context, event *entity.ReviewEvent) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	event.ID = r.s.nextID()
	r.s.events = append(r.s.events, cloneReviewEvent(event))
	return nil
}

func (r *fakeReviewRepo) ListBySession(ctx context.Context, sessionID int64) ([]*entity.ReviewEvent, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var events []*entity.ReviewEvent
	for _, event := range r.s.events {
		if event.SessionID != nil && *event.SessionID == sessionID {
			events = append(events, cloneReviewEvent(event))
		}
	}
	return events, nil
}

func (r *fakeReviewRepo) ListByCard(ctx context.Context, cardID int64, limit int32) ([]*entity.ReviewEvent, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var events []*entity.ReviewEvent
	for i := len(r.s.events) - 1; i >= 0 && int32(len(events)) < limit; i-- {
		if r.s.events[i].CardID == cardID {
			events = append(events, cloneReviewEvent(r.s.events[i]))
		}
	}
	return events, nil
}

func (r *fakeReviewRepo) DeleteByCardIDs(ctx context.Context, cardIDs []int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	drop := make(map[int64]struct{}, len(cardIDs))
	for _, id := range cardIDs {
		drop[id] = struct{}{}
	}
	kept := r.s.events[:0]
	for _, event := range r.s.events {
		if _, gone := drop[event.CardID]; !gone {
			kept = append(kept, event)
		}
	}
	r.s.events = kept
	r.s.logOp("delete reviews")
	return nil
}

func (r *fakeReviewRepo) Totals(ctx context.Context) (int64, int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, 0, err
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var total, correct int64
	for _, event := range r.s.events {
		total++
		if event.Correct() {
			correct++
		}
	}
	return total, correct, nil
}

type fakeSessionRepo struct{ s *fakeStore }

func (r *fakeSessionRepo) Create(ctx context.Context, session *entity.StudySession) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	session.ID = r.s.nextID()
	r.s.sessions[session.ID] = cloneSession(session)
	return nil
}

func (r *fakeSessionRepo) GetByID(ctx context.Context, id int64) (*entity.StudySession, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	session, ok := r.s.sessions[id]
	if !ok {
		return nil, entity.ErrNotFound
	}
	return cloneSession(session), nil
}

func (r *fakeSessionRepo) Update(ctx context.Context, session *entity.StudySession) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.sessions[session.ID]; !ok {
		return entity.ErrNotFound
	}
	r.s.sessions[session.ID] = cloneSession(session)
	return nil
}

func (r *fakeSessionRepo) ListRecent(ctx context.Context, limit int32) ([]*entity.StudySession, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var sessions []*entity.StudySession
	for _, session := range r.s.sessions {
		sessions = append(sessions, cloneSession(session))
	}
	sort.Slice(sessions, func(i, j int) bool { return sessions[i].ID > sessions[j].ID })
	if limit > 0 && int32(len(sessions)) > limit {
		sessions = sessions[:limit]
	}
	return sessions, nil
}

type fakeTx struct{}

func (fakeTx) Within(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakeLocker struct {
	mu     sync.Mutex
	locked []int64
}

func (l *fakeLocker) Lock(cardID int64) func() {
	l.mu.Lock()
	l.locked = append(l.locked, cardID)
	l.mu.Unlock()
	return func() {}
}

func cloneVocab(src *entity.VocabItem) *entity.VocabItem {
	if src == nil {
		return nil
	}
	copy := *src
	if src.AltForms != nil {
		copy.AltForms = append([]string(nil), src.AltForms...)
	}
	return &copy
}

func clonePhrase(src *entity.Phrase) *entity.Phrase {
	if src == nil {
		return nil
	}
	copy := *src
	return &copy
}

func cloneStudyEntry(src *entity.StudyEntry) *entity.StudyEntry {
	if src == nil {
		return nil
	}
	copy := *src
	return &copy
}

func cloneCard(src *entity.Card) *entity.Card {
	if src == nil {
		return nil
	}
	copy := *src
	return &copy
}

func cloneProgress(src *entity.Progress) *entity.Progress {
	if src == nil {
		return nil
	}
	copy := *src
	if src.LastReviewAt != nil {
		last := *src.LastReviewAt
		copy.LastReviewAt = &last
	}
	return &copy
}

func cloneReviewEvent(src *entity.ReviewEvent) *entity.ReviewEvent {
	if src == nil {
		return nil
	}
	copy := *src
	if src.SessionID != nil {
		id := *src.SessionID
		copy.SessionID = &id
	}
	if src.FailedComponentIDs != nil {
		copy.FailedComponentIDs = append([]int64(nil), src.FailedComponentIDs...)
	}
	return &copy
}

func cloneSession(src *entity.StudySession) *entity.StudySession {
	if src == nil {
		return nil
	}
	copy := *src
	if src.EndedAt != nil {
		ended := *src.EndedAt
		copy.EndedAt = &ended
	}
	return &copy
}

func cloneActivationLog(src *entity.ActivationLog) *entity.ActivationLog {
	if src == nil {
		return nil
	}
	copy := *src
	if src.ComponentIDs != nil {
		copy.ComponentIDs = append([]int64(nil), src.ComponentIDs...)
	}
	return &copy
}

func newTestPropagator(s *fakeStore) *Propagator {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return NewPropagator(
		&fakePhraseRepo{s: s},
		&fakeGraph{s: s},
		&fakeStudyRepo{s: s},
		&fakeCardRepo{s: s},
		&fakeProgressRepo{s: s},
		&fakeActivationLogRepo{s: s},
		logger,
	)
}

func seedVocabItem(s *fakeStore, form string) *entity.VocabItem {
	item := &entity.VocabItem{ID: s.nextID(), Form: form, Meaning: "meaning of " + form, Level: 1}
	s.vocabs[item.ID] = item
	return item
}

func seedPhrase(s *fakeStore, form string, componentIDs, simplePhraseIDs []int64) *entity.Phrase {
	phrase := &entity.Phrase{
		ID:      s.nextID(),
		Form:    form,
		Meaning: "meaning of " + form,
		Level:   1,
		Tier:    entity.TierForComponentCount(len(componentIDs)),
	}
	s.phrases[phrase.ID] = phrase
	for i, vocabItemID := range componentIDs {
		s.components = append(s.components, entity.PhraseComponent{
			PhraseID:    phrase.ID,
			VocabItemID: vocabItemID,
			Position:    int32(i),
		})
	}
	for _, simpleID := range simplePhraseIDs {
		s.hierarchies = append(s.hierarchies, entity.PhraseHierarchy{
			ComplexPhraseID: phrase.ID,
			SimplePhraseID:  simpleID,
		})
	}
	return phrase
}

func seedStudyEntry(s *fakeStore, vocabItemID int64, active bool) *entity.StudyEntry {
	entry := &entity.StudyEntry{ID: s.nextID(), VocabItemID: vocabItemID, Active: active}
	s.entries[entry.ID] = entry
	return entry
}

func seedCardSet(s *fakeStore, ownerKind entity.OwnerKind, ownerID int64, active bool, now time.Time) []*entity.Card {
	cards := newCardSet(ownerKind, ownerID, now)
	for _, card := range cards {
		card.ID = s.nextID()
		card.Active = active
		s.cards[card.ID] = cloneCard(card)
	}
	return cards
}

// seedCardProgress marks every card with committed progress in the given
// state, the way past reviews would have left it.
func seedCardProgress(s *fakeStore, cards []*entity.Card, state sm2.State, now time.Time) {
	var interval int32
	switch state {
	case sm2.StateMature:
		interval = sm2.MatureThresholdDays
	case sm2.StateMastered:
		interval = sm2.MasteredThresholdDays
	case sm2.StateLearning:
		interval = 5
	}
	for _, card := range cards {
		last := now
		s.progress[card.ID] = &entity.Progress{
			CardID:         card.ID,
			Easiness:       sm2.InitialEasiness,
			Repetitions:    4,
			IntervalDays:   interval,
			NextReviewAt:   now.AddDate(0, 0, int(interval)),
			State:          state,
			TotalReviews:   4,
			CorrectReviews: 4,
			LastReviewAt:   &last,
			Version:        4,
			CreatedAt:      now,
			UpdatedAt:      now,
		}
	}
}

func effectsOfKind(effects []Effect, kind EffectKind) []Effect {
	var matched []Effect
	for _, effect := range effects {
		if effect.Kind == kind {
			matched = append(matched, effect)
		}
	}
	return matched
}
