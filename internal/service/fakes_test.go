package service

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/vietanh2810/school-portal-api/internal/domain"
	"github.com/vietanh2810/school-portal-api/internal/mail"
	"github.com/vietanh2810/school-portal-api/internal/repository"
)

var testNow = time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)

type publishedEvent struct {
	Type    string
	Payload interface{}
}

type fakePublisher struct {
	mu     sync.Mutex
	events []publishedEvent
}

func (p *fakePublisher) Publish(eventType string, payload interface{}) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, publishedEvent{Type: eventType, Payload: payload})
}

type fakeMailer struct {
	messages []*mail.Message
}

func (m *fakeMailer) SendMessages(messages ...*mail.Message) {
	for _, msg := range messages {
		if msg != nil {
			m.messages = append(m.messages, msg)
		}
	}
}

type fakeStudentRepo struct {
	StudentRepository
	students map[uint]domain.Student
	nextID   uint
}

func newFakeStudentRepo(students ...domain.Student) *fakeStudentRepo {
	r := &fakeStudentRepo{students: map[uint]domain.Student{}}
	for _, s := range students {
		r.students[s.ID] = s
		if s.ID > r.nextID {
			r.nextID = s.ID
		}
	}
	return r
}

func (r *fakeStudentRepo) Create(_ context.Context, s domain.Student) (domain.Student, error) {
	for _, existing := range r.students {
		if strings.EqualFold(existing.AdmissionNumber, s.AdmissionNumber) {
			return domain.Student{}, repository.ErrAdmissionNumberExists
		}
	}
	r.nextID++
	s.ID = r.nextID
	r.students[s.ID] = s
	return s, nil
}

func (r *fakeStudentRepo) FindByID(_ context.Context, id uint) (domain.Student, error) {
	s, ok := r.students[id]
	if !ok {
		return domain.Student{}, repository.ErrStudentNotFound
	}
	return s, nil
}

func (r *fakeStudentRepo) FindByAdmissionNumber(_ context.Context, admissionNumber string) (domain.Student, error) {
	for _, s := range r.students {
		if strings.EqualFold(s.AdmissionNumber, admissionNumber) {
			return s, nil
		}
	}
	return domain.Student{}, repository.ErrStudentNotFound
}

func (r *fakeStudentRepo) CountByStatus(_ context.Context) (map[domain.StudentStatus]int64, error) {
	counts := map[domain.StudentStatus]int64{}
	for _, s := range r.students {
		counts[s.Status]++
	}
	return counts, nil
}

type fakeResultRepo struct {
	ResultRepository
	results map[uint]domain.Result
	nextID  uint
}

func newFakeResultRepo(results ...domain.Result) *fakeResultRepo {
	r := &fakeResultRepo{results: map[uint]domain.Result{}}
	for _, res := range results {
		r.results[res.ID] = res
		if res.ID > r.nextID {
			r.nextID = res.ID
		}
	}
	return r
}

func (r *fakeResultRepo) Create(_ context.Context, res domain.Result) (domain.Result, error) {
	for _, existing := range r.results {
		if existing.StudentID == res.StudentID && existing.Session == res.Session && existing.Term == res.Term {
			return domain.Result{}, repository.ErrResultExists
		}
	}
	r.nextID++
	res.ID = r.nextID
	r.results[res.ID] = res
	return res, nil
}

func (r *fakeResultRepo) FindByID(_ context.Context, id uint) (domain.Result, error) {
	res, ok := r.results[id]
	if !ok {
		return domain.Result{}, repository.ErrResultNotFound
	}
	return res, nil
}

func (r *fakeResultRepo) FindByStudentSessionTerm(_ context.Context, studentID uint, session string, term domain.Term) (domain.Result, error) {
	for _, res := range r.results {
		if res.StudentID == studentID && res.Session == session && res.Term == term {
			return res, nil
		}
	}
	return domain.Result{}, repository.ErrResultNotFound
}

func (r *fakeResultRepo) FindGroup(_ context.Context, className, session string, term domain.Term) ([]domain.Result, error) {
	var group []domain.Result
	for id := uint(1); id <= r.nextID; id++ {
		res, ok := r.results[id]
		if ok && res.ClassName == className && res.Session == session && res.Term == term {
			group = append(group, res)
		}
	}
	return group, nil
}

func (r *fakeResultRepo) Update(_ context.Context, res domain.Result) (domain.Result, error) {
	if _, ok := r.results[res.ID]; !ok {
		return domain.Result{}, repository.ErrResultNotFound
	}
	r.results[res.ID] = res
	return res, nil
}

func (r *fakeResultRepo) Delete(_ context.Context, id uint) error {
	if _, ok := r.results[id]; !ok {
		return repository.ErrResultNotFound
	}
	delete(r.results, id)
	return nil
}

func (r *fakeResultRepo) RecomputeGroup(ctx context.Context, className, session string, term domain.Term, assign func([]domain.Result)) error {
	group, _ := r.FindGroup(ctx, className, session, term)
	assign(group)
	for _, res := range group {
		r.results[res.ID] = res
	}
	return nil
}

func (r *fakeResultRepo) Count(_ context.Context) (int64, error) {
	return int64(len(r.results)), nil
}

type fakeCardRepo struct {
	mu         sync.Mutex
	cards      map[uint]domain.ScratchCard
	nextID     uint
	collisions int
	// stealUse simulates a concurrent check winning the last use.
	stealUse bool
}

func newFakeCardRepo(cards ...domain.ScratchCard) *fakeCardRepo {
	r := &fakeCardRepo{cards: map[uint]domain.ScratchCard{}}
	for _, c := range cards {
		r.cards[c.ID] = c
		if c.ID > r.nextID {
			r.nextID = c.ID
		}
	}
	return r
}

func (r *fakeCardRepo) CreateBatch(_ context.Context, cards []domain.ScratchCard) ([]domain.ScratchCard, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.collisions > 0 {
		r.collisions--
		return nil, repository.ErrCardCollision
	}
	out := make([]domain.ScratchCard, len(cards))
	for i, c := range cards {
		r.nextID++
		c.ID = r.nextID
		r.cards[c.ID] = c
		out[i] = c
	}
	return out, nil
}

func (r *fakeCardRepo) FindByID(_ context.Context, id uint) (domain.ScratchCard, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.cards[id]
	if !ok {
		return domain.ScratchCard{}, repository.ErrCardNotFound
	}
	return c, nil
}

func (r *fakeCardRepo) FindByPIN(_ context.Context, pin string) (domain.ScratchCard, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, c := range r.cards {
		if c.PIN == pin {
			return c, nil
		}
	}
	return domain.ScratchCard{}, repository.ErrCardNotFound
}

func (r *fakeCardRepo) List(_ context.Context, _ domain.CardFilter, _ time.Time) ([]domain.ScratchCard, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []domain.ScratchCard
	for id := uint(1); id <= r.nextID; id++ {
		if c, ok := r.cards[id]; ok {
			out = append(out, c)
		}
	}
	return out, int64(len(out)), nil
}

func (r *fakeCardRepo) UpdateStatus(_ context.Context, id uint, status domain.CardStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.cards[id]
	if !ok {
		return repository.ErrCardNotFound
	}
	c.Status = status
	r.cards[id] = c
	return nil
}

func (r *fakeCardRepo) UpdatePIN(_ context.Context, id uint, pin string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.cards[id]
	if !ok {
		return repository.ErrCardNotFound
	}
	c.PIN = pin
	r.cards[id] = c
	return nil
}

func (r *fakeCardRepo) RecordUsage(_ context.Context, id, studentID uint, now time.Time) (domain.ScratchCard, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.cards[id]
	if !ok {
		return domain.ScratchCard{}, repository.ErrCardNotFound
	}
	if r.stealUse {
		c.UsageCount = c.UsageLimit
		r.cards[id] = c
	}
	if c.CheckUsable(now, studentID) != nil {
		return domain.ScratchCard{}, repository.ErrCardUnavailable
	}

	c.UsageCount++
	c.Status = domain.CardUsed
	c.StudentID = &studentID
	c.LastUsedAt = &now
	r.cards[id] = c
	return c, nil
}

func (r *fakeCardRepo) Delete(_ context.Context, id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.cards[id]; !ok {
		return repository.ErrCardNotFound
	}
	delete(r.cards, id)
	return nil
}

func (r *fakeCardRepo) Stats(_ context.Context, now time.Time) (domain.CardStats, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var stats domain.CardStats
	for _, c := range r.cards {
		stats.Total++
		switch c.EffectiveStatus(now) {
		case domain.CardUnused:
			stats.Unused++
		case domain.CardUsed:
			stats.Used++
		case domain.CardExpired:
			stats.Expired++
		case domain.CardDeactivated:
			stats.Deactivated++
		}
	}
	return stats, nil
}
