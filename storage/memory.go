package storage

import (
	"context"
	"sort"
	"sync"
	"time"
)

// In-memory implementations of the storage interfaces. They back the test
// suite and APP_ENV=local runs without a DynamoDB endpoint, and follow the
// same key semantics as the Dynamo implementations.

type MemoryParticipantStorage struct {
	mu    sync.RWMutex
	items map[int]*Participant
}

func NewMemoryParticipantStorage() *MemoryParticipantStorage {
	return &MemoryParticipantStorage{items: make(map[int]*Participant)}
}

func (s *MemoryParticipantStorage) Get(_ context.Context, id int) (*Participant, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.items[id]
	if !ok {
		return nil, ErrItemNotFound
	}
	cp := *p
	return &cp, nil
}

func (s *MemoryParticipantStorage) GetAll(_ context.Context) ([]*Participant, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*Participant, 0, len(s.items))
	for _, p := range s.items {
		cp := *p
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Number < out[j].Number })
	return out, nil
}

func (s *MemoryParticipantStorage) Create(_ context.Context, participant *Participant) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[participant.ID]; ok {
		return ErrItemWithIDAlreadyExists
	}
	cp := *participant
	s.items[participant.ID] = &cp
	return nil
}

func (s *MemoryParticipantStorage) Update(_ context.Context, participant *Participant) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *participant
	s.items[participant.ID] = &cp
	return nil
}

func (s *MemoryParticipantStorage) Delete(_ context.Context, id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.items, id)
	return nil
}

type MemoryCategoryStorage struct {
	mu    sync.RWMutex
	items map[int]*Category
}

func NewMemoryCategoryStorage() *MemoryCategoryStorage {
	return &MemoryCategoryStorage{items: make(map[int]*Category)}
}

func (s *MemoryCategoryStorage) Get(_ context.Context, id int) (*Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.items[id]
	if !ok {
		return nil, ErrItemNotFound
	}
	cp := *c
	return &cp, nil
}

func (s *MemoryCategoryStorage) GetAll(_ context.Context) ([]*Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*Category, 0, len(s.items))
	for _, c := range s.items {
		cp := *c
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Order < out[j].Order })
	return out, nil
}

func (s *MemoryCategoryStorage) Create(_ context.Context, category *Category) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[category.ID]; ok {
		return ErrItemWithIDAlreadyExists
	}
	cp := *category
	s.items[category.ID] = &cp
	return nil
}

func (s *MemoryCategoryStorage) Update(_ context.Context, category *Category) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *category
	s.items[category.ID] = &cp
	return nil
}

func (s *MemoryCategoryStorage) Delete(_ context.Context, id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.items, id)
	return nil
}

type MemoryCriterionStorage struct {
	mu    sync.RWMutex
	items map[int]*Criterion
}

func NewMemoryCriterionStorage() *MemoryCriterionStorage {
	return &MemoryCriterionStorage{items: make(map[int]*Criterion)}
}

func (s *MemoryCriterionStorage) GetAll(_ context.Context) ([]*Criterion, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*Criterion, 0, len(s.items))
	for _, c := range s.items {
		cp := *c
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Order < out[j].Order })
	return out, nil
}

func (s *MemoryCriterionStorage) GetByCategory(_ context.Context, categoryID int) ([]*Criterion, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*Criterion
	for _, c := range s.items {
		if c.CategoryID == categoryID {
			cp := *c
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Order < out[j].Order })
	return out, nil
}

func (s *MemoryCriterionStorage) Create(_ context.Context, criterion *Criterion) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[criterion.ID]; ok {
		return ErrItemWithIDAlreadyExists
	}
	cp := *criterion
	s.items[criterion.ID] = &cp
	return nil
}

func (s *MemoryCriterionStorage) Delete(_ context.Context, id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.items, id)
	return nil
}

type memoryScoreKey struct {
	judgeID string
	sortKey string
}

type MemoryScoreStorage struct {
	mu    sync.RWMutex
	items map[memoryScoreKey]*ScoreCell

	// FailWrites makes every write return this error; tests use it to
	// exercise the autosave failure path.
	FailWrites error
}

func NewMemoryScoreStorage() *MemoryScoreStorage {
	return &MemoryScoreStorage{items: make(map[memoryScoreKey]*ScoreCell)}
}

func (s *MemoryScoreStorage) GetByJudgeCategory(_ context.Context, judgeID string, categoryID int) ([]*ScoreCell, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*ScoreCell
	for _, c := range s.items {
		if c.JudgeID == judgeID && c.CategoryID == categoryID {
			cp := *c
			out = append(out, &cp)
		}
	}
	sortCells(out)
	return out, nil
}

func (s *MemoryScoreStorage) GetByCategory(_ context.Context, categoryID int) ([]*ScoreCell, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*ScoreCell
	for _, c := range s.items {
		if c.CategoryID == categoryID {
			cp := *c
			out = append(out, &cp)
		}
	}
	sortCells(out)
	return out, nil
}

func (s *MemoryScoreStorage) GetAll(_ context.Context) ([]*ScoreCell, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*ScoreCell, 0, len(s.items))
	for _, c := range s.items {
		cp := *c
		out = append(out, &cp)
	}
	sortCells(out)
	return out, nil
}

func (s *MemoryScoreStorage) Upsert(_ context.Context, cell *ScoreCell) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailWrites != nil {
		return s.FailWrites
	}
	if cell.SortKey == "" {
		cell.SortKey = ScoreSortKey(cell.CategoryID, cell.CriterionID, cell.ParticipantID)
	}
	cp := *cell
	s.items[memoryScoreKey{cell.JudgeID, cell.SortKey}] = &cp
	return nil
}

func (s *MemoryScoreStorage) BatchUpsert(ctx context.Context, cells []*ScoreCell) error {
	for _, cell := range cells {
		if err := s.Upsert(ctx, cell); err != nil {
			return err
		}
	}
	return nil
}

func (s *MemoryScoreStorage) ClearLocks(_ context.Context, judgeID string, categoryID int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailWrites != nil {
		return s.FailWrites
	}
	now := time.Now().UTC()
	for _, c := range s.items {
		if c.JudgeID == judgeID && c.CategoryID == categoryID {
			c.LockedAt = nil
			c.UpdatedAt = now
		}
	}
	return nil
}

func sortCells(cells []*ScoreCell) {
	sort.Slice(cells, func(i, j int) bool {
		if cells[i].JudgeID != cells[j].JudgeID {
			return cells[i].JudgeID < cells[j].JudgeID
		}
		return cells[i].SortKey < cells[j].SortKey
	})
}

type MemoryActivityStorage struct {
	mu    sync.RWMutex
	items []*ActivityRecord
}

func NewMemoryActivityStorage() *MemoryActivityStorage {
	return &MemoryActivityStorage{}
}

func (s *MemoryActivityStorage) Append(_ context.Context, record *ActivityRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *record
	s.items = append(s.items, &cp)
	return nil
}

func (s *MemoryActivityStorage) GetAll(_ context.Context) ([]*ActivityRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*ActivityRecord, 0, len(s.items))
	for _, r := range s.items {
		cp := *r
		out = append(out, &cp)
	}
	return out, nil
}

func (s *MemoryActivityStorage) GetByJudge(_ context.Context, judgeID string) ([]*ActivityRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*ActivityRecord
	for _, r := range s.items {
		if r.JudgeID == judgeID {
			cp := *r
			out = append(out, &cp)
		}
	}
	return out, nil
}
