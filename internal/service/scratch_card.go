package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/vietanh2810/school-portal-api/internal/domain"
	"github.com/vietanh2810/school-portal-api/internal/metrics"
	"github.com/vietanh2810/school-portal-api/internal/notify"
	"github.com/vietanh2810/school-portal-api/internal/repository"
)

const (
	DefaultCardUsageLimit = 5
	MaxCardBatch          = 500
	pinDigits             = 12
	generateAttempts      = 3
)

var (
	ErrCardNotFound       = repository.ErrCardNotFound
	ErrCardDeactivated    = domain.ErrCardDeactivated
	ErrCardExpired        = domain.ErrCardExpired
	ErrCardUsageExhausted = domain.ErrCardUsageExhausted
	ErrCardBoundElsewhere = domain.ErrCardBoundElsewhere
	ErrCardNotToggleable  = domain.ErrCardNotToggleable
	ErrInvalidBatchSize   = fmt.Errorf("number of cards must be between 1 and %d", MaxCardBatch)
	ErrExpiryInPast       = errors.New("expiry date must be in the future")
)

type ScratchCardRepository interface {
	CreateBatch(ctx context.Context, cards []domain.ScratchCard) ([]domain.ScratchCard, error)
	FindByID(ctx context.Context, id uint) (domain.ScratchCard, error)
	FindByPIN(ctx context.Context, pin string) (domain.ScratchCard, error)
	List(ctx context.Context, filter domain.CardFilter, now time.Time) ([]domain.ScratchCard, int64, error)
	UpdateStatus(ctx context.Context, id uint, status domain.CardStatus) error
	UpdatePIN(ctx context.Context, id uint, pin string) error
	RecordUsage(ctx context.Context, id, studentID uint, now time.Time) (domain.ScratchCard, error)
	Delete(ctx context.Context, id uint) error
	Stats(ctx context.Context, now time.Time) (domain.CardStats, error)
}

type GenerateCardsRequest struct {
	Count      int
	UsageLimit int
	ExpiryDate time.Time
}

type CheckResultRequest struct {
	AdmissionNumber string
	PIN             string
	SerialNumber    string
	Session         string
	Term            domain.Term
}

type ScratchCardService struct {
	repo      ScratchCardRepository
	students  StudentRepository
	results   ResultRepository
	publisher notify.Publisher
	now       func() time.Time
}

func NewScratchCardService(
	repo ScratchCardRepository,
	students StudentRepository,
	results ResultRepository,
	publisher notify.Publisher,
) *ScratchCardService {
	return &ScratchCardService{
		repo:      repo,
		students:  students,
		results:   results,
		publisher: publisher,
		now:       time.Now,
	}
}

func (s *ScratchCardService) Generate(ctx context.Context, req GenerateCardsRequest) ([]domain.ScratchCard, error) {
	if req.Count < 1 || req.Count > MaxCardBatch {
		return nil, ErrInvalidBatchSize
	}
	if !req.ExpiryDate.After(s.now()) {
		return nil, ErrExpiryInPast
	}
	if req.UsageLimit <= 0 {
		req.UsageLimit = DefaultCardUsageLimit
	}

	var lastErr error
	for attempt := 0; attempt < generateAttempts; attempt++ {
		cards, err := s.newCards(req)
		if err != nil {
			return nil, err
		}

		created, err := s.repo.CreateBatch(ctx, cards)
		if err == nil {
			metrics.CardsGenerated.Add(float64(len(created)))
			return created, nil
		}
		if !errors.Is(err, repository.ErrCardCollision) {
			return nil, fmt.Errorf("s.repo.CreateBatch -> %w", err)
		}
		lastErr = err
	}

	return nil, fmt.Errorf("s.repo.CreateBatch after %d attempts -> %w", generateAttempts, lastErr)
}

func (s *ScratchCardService) newCards(req GenerateCardsRequest) ([]domain.ScratchCard, error) {
	year := s.now().Year()
	seen := make(map[string]bool, req.Count)
	cards := make([]domain.ScratchCard, 0, req.Count)

	for len(cards) < req.Count {
		pin, err := generatePIN()
		if err != nil {
			return nil, err
		}
		if seen[pin] {
			continue
		}
		seen[pin] = true

		cards = append(cards, domain.ScratchCard{
			SerialNumber: generateSerial(year),
			PIN:          pin,
			Status:       domain.CardUnused,
			UsageLimit:   req.UsageLimit,
			ExpiryDate:   req.ExpiryDate,
		})
	}

	return cards, nil
}

var pinSpace = new(big.Int).Exp(big.NewInt(10), big.NewInt(pinDigits), nil)

func generatePIN() (string, error) {
	n, err := rand.Int(rand.Reader, pinSpace)
	if err != nil {
		return "", fmt.Errorf("rand.Int -> %w", err)
	}
	return fmt.Sprintf("%0*d", pinDigits, n), nil
}

// generateSerial returns SC<year><8 upper-case hex digits>.
func generateSerial(year int) string {
	id := strings.ReplaceAll(uuid.NewString(), "-", "")
	return fmt.Sprintf("SC%d%s", year, strings.ToUpper(id[:8]))
}

func (s *ScratchCardService) Get(ctx context.Context, id uint) (domain.ScratchCard, error) {
	card, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return domain.ScratchCard{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	card.Status = card.EffectiveStatus(s.now())
	return card, nil
}

func (s *ScratchCardService) List(ctx context.Context, filter domain.CardFilter) ([]domain.ScratchCard, int64, error) {
	now := s.now()

	cards, total, err := s.repo.List(ctx, filter, now)
	if err != nil {
		return nil, 0, fmt.Errorf("s.repo.List -> %w", err)
	}

	for i := range cards {
		cards[i].Status = cards[i].EffectiveStatus(now)
	}

	return cards, total, nil
}

// Export returns every card matching filter, ignoring pagination.
func (s *ScratchCardService) Export(ctx context.Context, filter domain.CardFilter) ([]domain.ScratchCard, error) {
	filter.Page = domain.Page{}

	cards, _, err := s.repo.List(ctx, filter, s.now())
	if err != nil {
		return nil, fmt.Errorf("s.repo.List -> %w", err)
	}

	return cards, nil
}

func (s *ScratchCardService) Toggle(ctx context.Context, id uint) (domain.ScratchCard, error) {
	card, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return domain.ScratchCard{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	if err = card.Toggle(); err != nil {
		return domain.ScratchCard{}, err
	}
	if err = s.repo.UpdateStatus(ctx, id, card.Status); err != nil {
		return domain.ScratchCard{}, fmt.Errorf("s.repo.UpdateStatus -> %w", err)
	}

	return s.Get(ctx, id)
}

// RegeneratePIN replaces the PIN of a card, keeping its status and usage.
func (s *ScratchCardService) RegeneratePIN(ctx context.Context, id uint) (domain.ScratchCard, error) {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return domain.ScratchCard{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	var err error
	for attempt := 0; attempt < generateAttempts; attempt++ {
		var pin string
		if pin, err = generatePIN(); err != nil {
			return domain.ScratchCard{}, err
		}
		if err = s.repo.UpdatePIN(ctx, id, pin); err == nil {
			return s.Get(ctx, id)
		}
		if !errors.Is(err, repository.ErrCardCollision) {
			break
		}
	}

	return domain.ScratchCard{}, fmt.Errorf("s.repo.UpdatePIN -> %w", err)
}

func (s *ScratchCardService) Delete(ctx context.Context, id uint) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("s.repo.Delete -> %w", err)
	}

	return nil
}

func (s *ScratchCardService) Stats(ctx context.Context) (domain.CardStats, error) {
	stats, err := s.repo.Stats(ctx, s.now())
	if err != nil {
		return domain.CardStats{}, fmt.Errorf("s.repo.Stats -> %w", err)
	}

	return stats, nil
}

// CheckResult validates a card for a student's term result and consumes
// one use. Nothing is consumed when the student or the result is missing.
func (s *ScratchCardService) CheckResult(ctx context.Context, req CheckResultRequest) (domain.CardVerification, error) {
	v, err := s.checkResult(ctx, req)
	metrics.ResultChecks.WithLabelValues(checkOutcome(err)).Inc()

	return v, err
}

func (s *ScratchCardService) checkResult(ctx context.Context, req CheckResultRequest) (domain.CardVerification, error) {
	now := s.now()

	card, err := s.repo.FindByPIN(ctx, strings.TrimSpace(req.PIN))
	if err != nil {
		return domain.CardVerification{}, fmt.Errorf("s.repo.FindByPIN -> %w", err)
	}
	if req.SerialNumber != "" && !strings.EqualFold(strings.TrimSpace(req.SerialNumber), card.SerialNumber) {
		return domain.CardVerification{}, ErrCardNotFound
	}

	student, err := s.students.FindByAdmissionNumber(ctx, strings.TrimSpace(req.AdmissionNumber))
	if err != nil {
		return domain.CardVerification{}, fmt.Errorf("s.students.FindByAdmissionNumber -> %w", err)
	}

	if err = card.CheckUsable(now, student.ID); err != nil {
		return domain.CardVerification{}, err
	}

	result, err := s.results.FindByStudentSessionTerm(ctx, student.ID, strings.TrimSpace(req.Session), req.Term)
	if err != nil {
		return domain.CardVerification{}, fmt.Errorf("s.results.FindByStudentSessionTerm -> %w", err)
	}

	used, err := s.repo.RecordUsage(ctx, card.ID, student.ID, now)
	if err != nil {
		if !errors.Is(err, repository.ErrCardUnavailable) {
			return domain.CardVerification{}, fmt.Errorf("s.repo.RecordUsage -> %w", err)
		}
		// Lost a race with another check; report the reason from fresh state.
		if fresh, findErr := s.repo.FindByID(ctx, card.ID); findErr == nil {
			if usableErr := fresh.CheckUsable(now, student.ID); usableErr != nil {
				return domain.CardVerification{}, usableErr
			}
		}
		return domain.CardVerification{}, ErrCardUsageExhausted
	}

	result.Student = nil
	s.publisher.Publish(domain.EventResultChecked, map[string]interface{}{
		"admission_number": student.AdmissionNumber,
		"session":          result.Session,
		"term":             result.Term,
		"serial_number":    used.SerialNumber,
		"remaining_uses":   used.RemainingUses(),
	})

	return domain.CardVerification{
		Student: student,
		Result:  result,
		Card:    used.Summary(now),
	}, nil
}

func checkOutcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrCardNotFound):
		return "card_not_found"
	case errors.Is(err, ErrStudentNotFound):
		return "student_not_found"
	case errors.Is(err, ErrResultNotFound):
		return "result_not_found"
	case errors.Is(err, ErrCardDeactivated):
		return "deactivated"
	case errors.Is(err, ErrCardExpired):
		return "expired"
	case errors.Is(err, ErrCardUsageExhausted):
		return "exhausted"
	case errors.Is(err, ErrCardBoundElsewhere):
		return "bound_elsewhere"
	default:
		return "error"
	}
}
