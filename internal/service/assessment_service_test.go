package service

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/lentera-api/internal/dto"
	"github.com/noah-isme/lentera-api/internal/models"
)

type stubUploader struct {
	url     string
	err     error
	uploads int
}

func (s *stubUploader) Upload(_ context.Context, _ string, _ io.Reader) (string, error) {
	s.uploads++
	if s.err != nil {
		return "", s.err
	}
	return s.url, nil
}

type assessmentFixture struct {
	service     AssessmentService
	raw         *assessmentService
	assessments *memoryAssessmentRepo
	enrollments *memoryEnrollmentRepo
	courses     *memoryCourseRepo
	uploader    *stubUploader

	learnerID uint
	courseID  uint
}

func newAssessmentFixture(t *testing.T) *assessmentFixture {
	t.Helper()

	assessments := newMemoryAssessmentRepo()
	enrollments := newMemoryEnrollmentRepo()
	enrollments.assessments = assessments
	courses := newMemoryCourseRepo()
	uploader := &stubUploader{url: "https://files.example.com/submission.pdf"}

	svc := NewAssessmentService(assessments, enrollments, courses, validator.New(), uploader, zerolog.Nop())

	course := models.Course{Title: "Go Fundamentals"}
	course.SetContent(fourItemOutline())
	course.SetAssignmentIDs([]string{"a1", "a2"})
	course.SetQuizIDs([]string{"q1"})
	require.NoError(t, courses.Create(context.Background(), &course))

	enrollment := models.Enrollment{LearnerID: 7, CourseID: course.ID}
	enrollment.SetCompleted(nil)
	require.NoError(t, enrollments.Create(context.Background(), &enrollment))

	return &assessmentFixture{
		service:     svc,
		raw:         svc.(*assessmentService),
		assessments: assessments,
		enrollments: enrollments,
		courses:     courses,
		uploader:    uploader,
		learnerID:   7,
		courseID:    course.ID,
	}
}

// pdfFileHeader builds a real multipart.FileHeader carrying a minimal PDF
// payload so mimetype detection sees application/pdf.
func pdfFileHeader(t *testing.T, fileName string) *multipart.FileHeader {
	t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", fileName)
	require.NoError(t, err)
	_, err = part.Write([]byte("%PDF-1.4 test submission"))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	form, err := multipart.NewReader(&buf, writer.Boundary()).ReadForm(1 << 20)
	require.NoError(t, err)
	t.Cleanup(func() { _ = form.RemoveAll() })

	return form.File["file"][0]
}

func TestSubmitAssignmentOverwritesScore(t *testing.T) {
	f := newAssessmentFixture(t)

	payload := dto.SubmitAssignmentRequest{
		LearnerID:    f.learnerID,
		CourseID:     dto.CourseRef{ID: f.courseID},
		AssignmentID: "a1",
		Score:        50,
	}

	entries, err := f.service.SubmitAssignment(context.Background(), payload)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, 50.0, *entries[0].Score)

	// A resubmission replaces the score unconditionally, even downward.
	payload.Score = 70
	entries, err = f.service.SubmitAssignment(context.Background(), payload)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, 70.0, *entries[0].Score)

	payload.Score = 30
	entries, err = f.service.SubmitAssignment(context.Background(), payload)
	require.NoError(t, err)
	require.Equal(t, 30.0, *entries[0].Score)
}

func TestSubmitAssignmentUnknownAssignment(t *testing.T) {
	f := newAssessmentFixture(t)

	_, err := f.service.SubmitAssignment(context.Background(), dto.SubmitAssignmentRequest{
		LearnerID:    f.learnerID,
		CourseID:     dto.CourseRef{ID: f.courseID},
		AssignmentID: "nope",
		Score:        80,
	})
	require.ErrorIs(t, err, ErrAssignmentNotFound)
}

func TestSubmitAssignmentRequiresEnrollment(t *testing.T) {
	f := newAssessmentFixture(t)

	_, err := f.service.SubmitAssignment(context.Background(), dto.SubmitAssignmentRequest{
		LearnerID:    99,
		CourseID:     dto.CourseRef{ID: f.courseID},
		AssignmentID: "a1",
		Score:        80,
	})
	require.ErrorIs(t, err, ErrEnrollmentNotFound)

	_, err = f.service.SubmitAssignment(context.Background(), dto.SubmitAssignmentRequest{
		LearnerID:    f.learnerID,
		CourseID:     dto.CourseRef{ID: 999},
		AssignmentID: "a1",
		Score:        80,
	})
	require.ErrorIs(t, err, ErrCourseNotFound)
}

func TestSubmitAssignmentFilePreservesScore(t *testing.T) {
	f := newAssessmentFixture(t)

	_, err := f.service.SubmitAssignment(context.Background(), dto.SubmitAssignmentRequest{
		LearnerID:    f.learnerID,
		CourseID:     dto.CourseRef{ID: f.courseID},
		AssignmentID: "a1",
		Score:        85,
	})
	require.NoError(t, err)

	entries, err := f.service.SubmitAssignmentFile(context.Background(), dto.SubmitAssignmentFileRequest{
		LearnerID:    f.learnerID,
		CourseID:     f.courseID,
		AssignmentID: "a1",
	}, pdfFileHeader(t, "essay-v2.pdf"))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, 1, f.uploader.uploads)

	require.NotNil(t, entries[0].Score)
	require.Equal(t, 85.0, *entries[0].Score)
	require.Equal(t, "essay-v2.pdf", entries[0].FileName)
	require.Equal(t, f.uploader.url, entries[0].SubmissionURL)
}

func TestSubmitAssignmentFileRejectsUnknownType(t *testing.T) {
	f := newAssessmentFixture(t)

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", "payload.bin")
	require.NoError(t, err)
	_, err = part.Write([]byte{0x7f, 'E', 'L', 'F', 0x02, 0x01, 0x01, 0x00})
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	form, err := multipart.NewReader(&buf, writer.Boundary()).ReadForm(1 << 20)
	require.NoError(t, err)
	t.Cleanup(func() { _ = form.RemoveAll() })

	_, err = f.service.SubmitAssignmentFile(context.Background(), dto.SubmitAssignmentFileRequest{
		LearnerID:    f.learnerID,
		CourseID:     f.courseID,
		AssignmentID: "a1",
	}, form.File["file"][0])
	require.Error(t, err)
	require.Contains(t, err.Error(), "unsupported file type")
	require.Zero(t, f.uploader.uploads)
}

func TestSubmitQuizAttemptBestScoreWins(t *testing.T) {
	f := newAssessmentFixture(t)

	base := time.Date(2026, time.March, 1, 10, 0, 0, 0, time.UTC)
	f.raw.now = func() time.Time { return base }

	payload := dto.SubmitQuizAttemptRequest{
		LearnerID: f.learnerID,
		CourseID:  dto.CourseRef{ID: f.courseID},
		QuizID:    "q1",
		Score:     60,
	}

	entries, err := f.service.SubmitQuizAttempt(context.Background(), payload)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, 60.0, entries[0].Score)
	require.Equal(t, base, entries[0].CompletedAt)

	// Higher retake replaces score and timestamp.
	f.raw.now = func() time.Time { return base.Add(time.Hour) }
	payload.Score = 90
	entries, err = f.service.SubmitQuizAttempt(context.Background(), payload)
	require.NoError(t, err)
	require.Equal(t, 90.0, entries[0].Score)
	require.Equal(t, base.Add(time.Hour), entries[0].CompletedAt)

	// Lower retake leaves the stored attempt untouched, timestamp included.
	f.raw.now = func() time.Time { return base.Add(2 * time.Hour) }
	payload.Score = 40
	entries, err = f.service.SubmitQuizAttempt(context.Background(), payload)
	require.NoError(t, err)
	require.Equal(t, 90.0, entries[0].Score)
	require.Equal(t, base.Add(time.Hour), entries[0].CompletedAt)
}

func TestSubmitQuizAttemptUnknownQuiz(t *testing.T) {
	f := newAssessmentFixture(t)

	_, err := f.service.SubmitQuizAttempt(context.Background(), dto.SubmitQuizAttemptRequest{
		LearnerID: f.learnerID,
		CourseID:  dto.CourseRef{ID: f.courseID},
		QuizID:    "nope",
		Score:     80,
	})
	require.ErrorIs(t, err, ErrQuizNotFound)
}
