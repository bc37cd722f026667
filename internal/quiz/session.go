package quiz

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/rs/zerolog"

	"github.com/noah-isme/lentera-api/internal/dto"
)

// State identifies where a session is in the quiz-taking workflow.
type State string

const (
	// StateOverview shows the stored best attempt and the start action.
	StateOverview State = "overview"
	// StateInProgress collects one answer per sampled question.
	StateInProgress State = "in_progress"
	// StateReview shows the just-computed result and per-question correctness.
	StateReview State = "review"
)

const (
	// DefaultSampleSize is how many questions a quiz run draws from the pool.
	DefaultSampleSize = 5
	// DefaultPassThreshold is the minimum score treated as a pass.
	DefaultPassThreshold = 80.0
)

var (
	// ErrInvalidSample indicates the filtered pool cannot cover the sample size.
	ErrInvalidSample = errors.New("question pool smaller than sample size")
	// ErrWrongState indicates the action is not available in the current state.
	ErrWrongState = errors.New("action not available in current state")
	// ErrUnknownQuestion indicates an answer for a question outside the sample.
	ErrUnknownQuestion = errors.New("question is not part of this attempt")
	// ErrIncompleteAnswers indicates submit was requested before every
	// sampled question had an answer.
	ErrIncompleteAnswers = errors.New("all questions must be answered before submitting")
)

// AttemptRecorder persists a finished attempt. The assessment service
// satisfies this interface.
type AttemptRecorder interface {
	SubmitQuizAttempt(ctx context.Context, payload dto.SubmitQuizAttemptRequest) ([]dto.AttemptEntry, error)
}

// ReviewItem reports one question's outcome after submission.
type ReviewItem struct {
	QuestionID    string   `json:"question_id"`
	Prompt        string   `json:"prompt"`
	Options       []string `json:"options"`
	GivenAnswer   int      `json:"given_answer"`
	CorrectAnswer int      `json:"correct_answer"`
	IsCorrect     bool     `json:"is_correct"`
}

// Result is the locally computed outcome of a quiz run. It never depends on
// the backend round trip.
type Result struct {
	Score        float64      `json:"score"`
	CorrectCount int          `json:"correct_count"`
	SampleSize   int          `json:"sample_size"`
	Passed       bool         `json:"passed"`
	Review       []ReviewItem `json:"review"`
}

// Overview summarizes the stored best attempt for the overview screen.
type Overview struct {
	HasAttempt bool             `json:"has_attempt"`
	Attempt    dto.AttemptEntry `json:"attempt,omitempty"`
	Passed     bool             `json:"passed"`
}

// Config describes one quiz session.
type Config struct {
	QuizID        string
	LearnerID     uint
	CourseID      uint
	Pool          *Pool
	Topics        []string
	SampleSize    int
	PassThreshold float64
	Rand          *rand.Rand
	StoredAttempt *dto.AttemptEntry
	Logger        zerolog.Logger
}

// Session is the per-assessment quiz workflow, owned by the client session
// scope. A new Session is built whenever the learner opens a different quiz;
// nothing survives a restart beyond what the recorder persisted.
type Session struct {
	quizID        string
	learnerID     uint
	courseID      uint
	pool          []Question
	sampleSize    int
	passThreshold float64
	rng           *rand.Rand
	logger        zerolog.Logger

	state   State
	sampled []Question
	answers map[string]int
	result  *Result
	warning string

	storedAttempt  *dto.AttemptEntry
	pendingAttempt *dto.AttemptEntry
}

// NewSession filters the pool by the course topics and validates the sample
// configuration. An undersized pool is a configuration error and fails here,
// before any learner interaction.
func NewSession(cfg Config) (*Session, error) {
	if cfg.Pool == nil {
		return nil, fmt.Errorf("question pool is required")
	}

	sampleSize := cfg.SampleSize
	if sampleSize <= 0 {
		sampleSize = DefaultSampleSize
	}
	passThreshold := cfg.PassThreshold
	if passThreshold <= 0 {
		passThreshold = DefaultPassThreshold
	}

	filtered := cfg.Pool.Filter(cfg.Topics)
	if len(filtered) < sampleSize {
		return nil, fmt.Errorf("%w: pool has %d questions, need %d", ErrInvalidSample, len(filtered), sampleSize)
	}

	rng := cfg.Rand
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	return &Session{
		quizID:        cfg.QuizID,
		learnerID:     cfg.LearnerID,
		courseID:      cfg.CourseID,
		pool:          filtered,
		sampleSize:    sampleSize,
		passThreshold: passThreshold,
		rng:           rng,
		logger:        cfg.Logger.With().Str("component", "quiz_session").Str("quiz_id", cfg.QuizID).Logger(),
		state:         StateOverview,
		storedAttempt: cfg.StoredAttempt,
	}, nil
}

// State returns the current workflow state.
func (s *Session) State() State {
	return s.state
}

// Overview reports the stored best attempt and its pass/fail framing.
func (s *Session) Overview() Overview {
	if s.storedAttempt == nil {
		return Overview{}
	}

	return Overview{
		HasAttempt: true,
		Attempt:    *s.storedAttempt,
		Passed:     s.storedAttempt.Score >= s.passThreshold,
	}
}

// Start samples questions without replacement and moves to InProgress,
// clearing any answers from a previous run.
func (s *Session) Start() error {
	if s.state != StateOverview {
		return ErrWrongState
	}

	order := s.rng.Perm(len(s.pool))
	s.sampled = make([]Question, 0, s.sampleSize)
	for _, index := range order[:s.sampleSize] {
		s.sampled = append(s.sampled, s.pool[index])
	}

	s.answers = make(map[string]int, s.sampleSize)
	s.result = nil
	s.warning = ""
	s.pendingAttempt = nil
	s.state = StateInProgress

	return nil
}

// Questions returns the sampled questions for the current run.
func (s *Session) Questions() []Question {
	questions := make([]Question, len(s.sampled))
	copy(questions, s.sampled)
	return questions
}

// Answer records the learner's choice for a sampled question, overwriting any
// previous choice for the same question.
func (s *Session) Answer(questionID string, choice int) error {
	if s.state != StateInProgress {
		return ErrWrongState
	}

	for _, question := range s.sampled {
		if question.ID == questionID {
			if choice < 0 || choice >= len(question.Options) {
				return fmt.Errorf("choice %d out of range for question %s", choice, questionID)
			}
			s.answers[questionID] = choice
			return nil
		}
	}

	return ErrUnknownQuestion
}

// CanSubmit reports whether every sampled question has an answer.
func (s *Session) CanSubmit() bool {
	if s.state != StateInProgress {
		return false
	}
	return len(s.answers) == len(s.sampled)
}

// Submit grades the run locally, forwards the attempt to the recorder, and
// moves to Review. A recorder failure is captured as a warning; the learner
// still sees the result they just computed.
func (s *Session) Submit(ctx context.Context, recorder AttemptRecorder) (Result, error) {
	if s.state != StateInProgress {
		return Result{}, ErrWrongState
	}
	if !s.CanSubmit() {
		return Result{}, ErrIncompleteAnswers
	}

	review := make([]ReviewItem, 0, len(s.sampled))
	correct := 0
	for _, question := range s.sampled {
		given := s.answers[question.ID]
		isCorrect := given == question.Answer
		if isCorrect {
			correct++
		}
		review = append(review, ReviewItem{
			QuestionID:    question.ID,
			Prompt:        question.Prompt,
			Options:       question.Options,
			GivenAnswer:   given,
			CorrectAnswer: question.Answer,
			IsCorrect:     isCorrect,
		})
	}

	score := 100 * float64(correct) / float64(len(s.sampled))
	result := Result{
		Score:        score,
		CorrectCount: correct,
		SampleSize:   len(s.sampled),
		Passed:       score >= s.passThreshold,
		Review:       review,
	}

	if recorder != nil {
		attempts, err := recorder.SubmitQuizAttempt(ctx, dto.SubmitQuizAttemptRequest{
			LearnerID: s.learnerID,
			CourseID:  dto.CourseRef{ID: s.courseID},
			QuizID:    s.quizID,
			Score:     score,
		})
		if err != nil {
			s.warning = "attempt could not be saved, it is safe to retry"
			s.logger.Warn().Err(err).Msg("failed to persist quiz attempt")
		} else {
			for i := range attempts {
				if attempts[i].QuizID == s.quizID {
					attempt := attempts[i]
					s.pendingAttempt = &attempt
					break
				}
			}
		}
	}

	s.result = &result
	s.state = StateReview

	return result, nil
}

// Result returns the just-computed review, valid only in the Review state.
func (s *Session) Result() (Result, bool) {
	if s.result == nil {
		return Result{}, false
	}
	return *s.result, true
}

// Warning returns the non-blocking submission warning, if any.
func (s *Session) Warning() string {
	return s.warning
}

// Continue discards the in-memory attempt detail and returns to Overview,
// which then reflects the persisted stored attempt.
func (s *Session) Continue() error {
	if s.state != StateReview {
		return ErrWrongState
	}

	if s.pendingAttempt != nil {
		s.storedAttempt = s.pendingAttempt
	}

	s.sampled = nil
	s.answers = nil
	s.result = nil
	s.pendingAttempt = nil
	s.state = StateOverview

	return nil
}
