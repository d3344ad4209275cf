package service

import (
	"context"
	"sort"
	"time"

	"github.com/lshigami/Linnet/internal/cefr"
	"github.com/lshigami/Linnet/internal/event"
	"github.com/lshigami/Linnet/internal/model"
	"gorm.io/gorm"
)

// In-memory repository fakes shared by the service tests.

type fakeCandidateRepo struct {
	candidates map[uint]*model.Candidate
	nextID     uint
}

func newFakeCandidateRepo(candidates ...*model.Candidate) *fakeCandidateRepo {
	r := &fakeCandidateRepo{candidates: make(map[uint]*model.Candidate), nextID: 1}
	for _, c := range candidates {
		if c.ID == 0 {
			c.ID = r.nextID
		}
		if c.ID >= r.nextID {
			r.nextID = c.ID + 1
		}
		r.candidates[c.ID] = c
	}
	return r
}

func (r *fakeCandidateRepo) Create(c *model.Candidate) error {
	c.ID = r.nextID
	r.nextID++
	r.candidates[c.ID] = c
	return nil
}

func (r *fakeCandidateRepo) FindByID(id uint) (*model.Candidate, error) {
	c, ok := r.candidates[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return c, nil
}

func (r *fakeCandidateRepo) FindByAccessCode(code string) (*model.Candidate, error) {
	for _, c := range r.candidates {
		if c.AccessCode == code {
			return c, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeCandidateRepo) FindByCertificateRef(ref string) (*model.Candidate, error) {
	for _, c := range r.candidates {
		if c.CertificateRef == ref && ref != "" {
			return c, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeCandidateRepo) FindCompletedByCompany(companyID uint) ([]model.Candidate, error) {
	var out []model.Candidate
	for _, c := range r.candidates {
		if c.CompanyID == companyID && c.Status == model.StatusCompleted {
			out = append(out, *c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeCandidateRepo) Update(c *model.Candidate) error {
	if _, ok := r.candidates[c.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	r.candidates[c.ID] = c
	return nil
}

func (r *fakeCandidateRepo) MarkInProgress(id uint, startedAt, deadline time.Time) (bool, error) {
	c, ok := r.candidates[id]
	if !ok {
		return false, gorm.ErrRecordNotFound
	}
	if c.Status != model.StatusPending {
		return false, nil
	}
	c.Status = model.StatusInProgress
	c.StartedAt = &startedAt
	c.Deadline = &deadline
	return true, nil
}

type fakeQuestionRepo struct {
	questions map[uint]*model.Question
	nextID    uint

	calibrationErr map[uint]error // per-question UpdateCalibration failure
}

func newFakeQuestionRepo(questions ...*model.Question) *fakeQuestionRepo {
	r := &fakeQuestionRepo{questions: make(map[uint]*model.Question), nextID: 1}
	for _, q := range questions {
		if q.ID == 0 {
			q.ID = r.nextID
		}
		if q.ID >= r.nextID {
			r.nextID = q.ID + 1
		}
		r.questions[q.ID] = q
	}
	return r
}

func (r *fakeQuestionRepo) Create(q *model.Question) error {
	q.ID = r.nextID
	r.nextID++
	r.questions[q.ID] = q
	return nil
}

func (r *fakeQuestionRepo) FindByID(id uint) (*model.Question, error) {
	q, ok := r.questions[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return q, nil
}

// FindRandomEligible returns the lowest-ID eligible question so tests
// are deterministic.
func (r *fakeQuestionRepo) FindRandomEligible(companyID uint, difficulty cefr.Level, excludeIDs []uint) (*model.Question, error) {
	excluded := make(map[uint]bool, len(excludeIDs))
	for _, id := range excludeIDs {
		excluded[id] = true
	}
	var ids []uint
	for id := range r.questions {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	for _, id := range ids {
		q := r.questions[id]
		if !q.Active || q.Difficulty != difficulty || excluded[id] {
			continue
		}
		if q.CompanyID != nil && *q.CompanyID != companyID {
			continue
		}
		return q, nil
	}
	return nil, nil
}

func (r *fakeQuestionRepo) FindCalibratable(minResponses int) ([]model.Question, error) {
	var out []model.Question
	for _, q := range r.questions {
		if q.TimesAnswered >= minResponses {
			out = append(out, *q)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeQuestionRepo) UpdateCalibration(id uint, calculated float64, warning bool, at time.Time) error {
	if err := r.calibrationErr[id]; err != nil {
		return err
	}
	q, ok := r.questions[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	q.CalculatedDifficulty = &calculated
	q.CalibrationWarning = warning
	q.LastCalibrated = &at
	return nil
}

func (r *fakeQuestionRepo) IncrementStats(id uint, correct bool) error {
	q, ok := r.questions[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	q.TimesAnswered++
	if correct {
		q.TimesCorrect++
	}
	return nil
}

type fakeAnswerRepo struct {
	answers []*model.Answer
	nextID  uint
}

func newFakeAnswerRepo() *fakeAnswerRepo {
	return &fakeAnswerRepo{nextID: 1}
}

func (r *fakeAnswerRepo) Create(a *model.Answer) error {
	for _, existing := range r.answers {
		if existing.CandidateID == a.CandidateID && existing.QuestionID == a.QuestionID {
			return gorm.ErrDuplicatedKey
		}
	}
	a.ID = r.nextID
	r.nextID++
	a.CreatedAt = time.Now()
	r.answers = append(r.answers, a)
	return nil
}

func (r *fakeAnswerRepo) CountByCandidate(candidateID uint) (int64, error) {
	var count int64
	for _, a := range r.answers {
		if a.CandidateID == candidateID {
			count++
		}
	}
	return count, nil
}

func (r *fakeAnswerRepo) FindByCandidate(candidateID uint) ([]model.Answer, error) {
	var out []model.Answer
	for _, a := range r.answers {
		if a.CandidateID == candidateID {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (r *fakeAnswerRepo) AnsweredQuestionIDs(candidateID uint) ([]uint, error) {
	var out []uint
	for _, a := range r.answers {
		if a.CandidateID == candidateID {
			out = append(out, a.QuestionID)
		}
	}
	return out, nil
}

func (r *fakeAnswerRepo) UpdateAIScore(answerID uint, score float64) error {
	for _, a := range r.answers {
		if a.ID == answerID {
			a.AIScore = &score
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

type fakeCompanyRepo struct {
	companies map[uint]*model.Company
}

func newFakeCompanyRepo(companies ...*model.Company) *fakeCompanyRepo {
	r := &fakeCompanyRepo{companies: make(map[uint]*model.Company)}
	for _, c := range companies {
		r.companies[c.ID] = c
	}
	return r
}

func (r *fakeCompanyRepo) Create(c *model.Company) error {
	r.companies[c.ID] = c
	return nil
}

func (r *fakeCompanyRepo) FindByID(id uint) (*model.Company, error) {
	c, ok := r.companies[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return c, nil
}

func (r *fakeCompanyRepo) HasCredit(id uint) (bool, error) {
	c, ok := r.companies[id]
	if !ok {
		return false, gorm.ErrRecordNotFound
	}
	return c.Credits > 0, nil
}

func (r *fakeCompanyRepo) DeductCredit(id uint) (bool, error) {
	c, ok := r.companies[id]
	if !ok {
		return false, gorm.ErrRecordNotFound
	}
	if c.Credits <= 0 {
		return false, nil
	}
	c.Credits--
	return true, nil
}

type fakeProctoringRepo struct {
	events []*model.ProctoringEvent
	err    error
}

func (r *fakeProctoringRepo) Create(e *model.ProctoringEvent) error {
	if r.err != nil {
		return r.err
	}
	r.events = append(r.events, e)
	return nil
}

func (r *fakeProctoringRepo) FindByCandidate(candidateID uint) ([]model.ProctoringEvent, error) {
	var out []model.ProctoringEvent
	for _, e := range r.events {
		if e.CandidateID == candidateID {
			out = append(out, *e)
		}
	}
	return out, nil
}

type fakePublisher struct {
	published []*event.ExamCompleted
	err       error
}

func (p *fakePublisher) PublishExamCompleted(ctx context.Context, e *event.ExamCompleted) error {
	if p.err != nil {
		return p.err
	}
	p.published = append(p.published, e)
	return nil
}

func (p *fakePublisher) Close() error { return nil }
