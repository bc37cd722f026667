package quiz

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/noah-isme/lentera-api/internal/dto"
)

// Factory builds quiz sessions from a shared question pool and the
// platform-wide sampling configuration. Constructing it validates that
// configuration, so an undersized pool fails at startup rather than when a
// learner opens a quiz.
type Factory struct {
	pool          *Pool
	sampleSize    int
	passThreshold float64
	logger        zerolog.Logger
}

// NewFactory validates the pool against the configured sample size and wraps
// both for session construction. Non-positive settings fall back to the
// defaults.
func NewFactory(pool *Pool, sampleSize int, passThreshold float64, logger zerolog.Logger) (*Factory, error) {
	if pool == nil {
		return nil, fmt.Errorf("question pool is required")
	}
	if sampleSize <= 0 {
		sampleSize = DefaultSampleSize
	}
	if passThreshold <= 0 {
		passThreshold = DefaultPassThreshold
	}
	if pool.Len() < sampleSize {
		return nil, fmt.Errorf("%w: pool has %d questions, need %d", ErrInvalidSample, pool.Len(), sampleSize)
	}

	return &Factory{
		pool:          pool,
		sampleSize:    sampleSize,
		passThreshold: passThreshold,
		logger:        logger,
	}, nil
}

// NewSession builds the session for one quiz. The topic filter narrows the
// shared pool to course-relevant questions; an undersized slice still fails
// with ErrInvalidSample per quiz.
func (f *Factory) NewSession(quizID string, learnerID, courseID uint, topics []string, storedAttempt *dto.AttemptEntry) (*Session, error) {
	return NewSession(Config{
		QuizID:        quizID,
		LearnerID:     learnerID,
		CourseID:      courseID,
		Pool:          f.pool,
		Topics:        topics,
		SampleSize:    f.sampleSize,
		PassThreshold: f.passThreshold,
		StoredAttempt: storedAttempt,
		Logger:        f.logger,
	})
}
