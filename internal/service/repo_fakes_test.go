package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"gorm.io/gorm"

	"github.com/noah-isme/lentera-api/internal/models"
)

type memoryUserRepo struct {
	users  map[uint]models.User
	nextID uint
}

func newMemoryUserRepo() *memoryUserRepo {
	return &memoryUserRepo{users: make(map[uint]models.User), nextID: 1}
}

func (m *memoryUserRepo) GetByID(_ context.Context, id uint) (models.User, error) {
	user, ok := m.users[id]
	if !ok {
		return models.User{}, gorm.ErrRecordNotFound
	}
	return user, nil
}

func (m *memoryUserRepo) GetByEmail(_ context.Context, email string) (models.User, error) {
	for _, user := range m.users {
		if user.Email == email {
			return user, nil
		}
	}
	return models.User{}, gorm.ErrRecordNotFound
}

func (m *memoryUserRepo) Create(_ context.Context, user *models.User) error {
	user.ID = m.nextID
	m.users[user.ID] = *user
	m.nextID++
	return nil
}

func (m *memoryUserRepo) Update(_ context.Context, user *models.User) error {
	if _, ok := m.users[user.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	m.users[user.ID] = *user
	return nil
}

type memoryCourseRepo struct {
	courses       map[uint]models.Course
	nextID        uint
	nameUpdateErr error
}

func newMemoryCourseRepo() *memoryCourseRepo {
	return &memoryCourseRepo{courses: make(map[uint]models.Course), nextID: 1}
}

func (m *memoryCourseRepo) GetByID(_ context.Context, id uint) (models.Course, error) {
	course, ok := m.courses[id]
	if !ok {
		return models.Course{}, gorm.ErrRecordNotFound
	}
	return course, nil
}

func (m *memoryCourseRepo) ListByInstructorID(_ context.Context, instructorID uint) ([]models.Course, error) {
	var courses []models.Course
	for _, course := range m.courses {
		if course.InstructorID != nil && *course.InstructorID == instructorID {
			courses = append(courses, course)
		}
	}
	return courses, nil
}

func (m *memoryCourseRepo) Create(_ context.Context, course *models.Course) error {
	course.ID = m.nextID
	m.courses[course.ID] = *course
	m.nextID++
	return nil
}

func (m *memoryCourseRepo) Save(_ context.Context, course *models.Course) error {
	if _, ok := m.courses[course.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	m.courses[course.ID] = *course
	return nil
}

func (m *memoryCourseRepo) UpdateInstructorNameByID(_ context.Context, instructorID uint, name string) (int64, error) {
	var affected int64
	for id, course := range m.courses {
		if course.InstructorID != nil && *course.InstructorID == instructorID {
			course.InstructorName = name
			m.courses[id] = course
			affected++
		}
	}
	return affected, nil
}

func (m *memoryCourseRepo) UpdateInstructorNameByName(_ context.Context, oldName, newName string, instructorID uint) (int64, error) {
	if m.nameUpdateErr != nil {
		return 0, m.nameUpdateErr
	}

	var affected int64
	for id, course := range m.courses {
		if course.InstructorName == oldName {
			backfill := instructorID
			course.InstructorName = newName
			course.InstructorID = &backfill
			m.courses[id] = course
			affected++
		}
	}
	return affected, nil
}

type memoryEnrollmentRepo struct {
	enrollments map[uint]models.Enrollment
	nextID      uint
	assessments *memoryAssessmentRepo
}

func newMemoryEnrollmentRepo() *memoryEnrollmentRepo {
	return &memoryEnrollmentRepo{enrollments: make(map[uint]models.Enrollment), nextID: 1}
}

func (m *memoryEnrollmentRepo) hydrate(enrollment models.Enrollment) models.Enrollment {
	if m.assessments != nil {
		enrollment.Submissions, _ = m.assessments.ListSubmissions(context.Background(), enrollment.ID)
		enrollment.Attempts, _ = m.assessments.ListAttempts(context.Background(), enrollment.ID)
	}
	return enrollment
}

func (m *memoryEnrollmentRepo) GetByLearnerAndCourse(_ context.Context, learnerID, courseID uint) (models.Enrollment, error) {
	for _, enrollment := range m.enrollments {
		if enrollment.LearnerID == learnerID && enrollment.CourseID == courseID {
			return m.hydrate(enrollment), nil
		}
	}
	return models.Enrollment{}, gorm.ErrRecordNotFound
}

func (m *memoryEnrollmentRepo) ListByCourse(_ context.Context, courseID uint) ([]models.Enrollment, error) {
	var enrollments []models.Enrollment
	for _, enrollment := range m.enrollments {
		if enrollment.CourseID == courseID {
			enrollments = append(enrollments, m.hydrate(enrollment))
		}
	}
	sort.Slice(enrollments, func(i, j int) bool {
		return enrollments[i].LearnerID < enrollments[j].LearnerID
	})
	return enrollments, nil
}

func (m *memoryEnrollmentRepo) Create(_ context.Context, enrollment *models.Enrollment) error {
	enrollment.ID = m.nextID
	enrollment.CreatedAt = time.Now()
	enrollment.UpdatedAt = time.Now()
	m.enrollments[enrollment.ID] = *enrollment
	m.nextID++
	return nil
}

func (m *memoryEnrollmentRepo) Save(_ context.Context, enrollment *models.Enrollment) error {
	if _, ok := m.enrollments[enrollment.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	enrollment.UpdatedAt = time.Now()
	stored := *enrollment
	stored.Submissions = nil
	stored.Attempts = nil
	m.enrollments[enrollment.ID] = stored
	return nil
}

type memoryAssessmentRepo struct {
	submissions map[string]models.AssignmentSubmission
	attempts    map[string]models.QuizAttempt
	nextID      uint
}

func newMemoryAssessmentRepo() *memoryAssessmentRepo {
	return &memoryAssessmentRepo{
		submissions: make(map[string]models.AssignmentSubmission),
		attempts:    make(map[string]models.QuizAttempt),
		nextID:      1,
	}
}

func assessmentKey(enrollmentID uint, assessmentID string) string {
	return fmt.Sprintf("%d:%s", enrollmentID, assessmentID)
}

func (m *memoryAssessmentRepo) GetSubmission(_ context.Context, enrollmentID uint, assignmentID string) (models.AssignmentSubmission, error) {
	submission, ok := m.submissions[assessmentKey(enrollmentID, assignmentID)]
	if !ok {
		return models.AssignmentSubmission{}, gorm.ErrRecordNotFound
	}
	return submission, nil
}

func (m *memoryAssessmentRepo) ListSubmissions(_ context.Context, enrollmentID uint) ([]models.AssignmentSubmission, error) {
	var submissions []models.AssignmentSubmission
	for _, submission := range m.submissions {
		if submission.EnrollmentID == enrollmentID {
			submissions = append(submissions, submission)
		}
	}
	sort.Slice(submissions, func(i, j int) bool {
		return submissions[i].AssignmentID < submissions[j].AssignmentID
	})
	return submissions, nil
}

func (m *memoryAssessmentRepo) SaveSubmission(_ context.Context, submission *models.AssignmentSubmission) error {
	if submission.ID == 0 {
		submission.ID = m.nextID
		m.nextID++
	}
	m.submissions[assessmentKey(submission.EnrollmentID, submission.AssignmentID)] = *submission
	return nil
}

func (m *memoryAssessmentRepo) GetAttempt(_ context.Context, enrollmentID uint, quizID string) (models.QuizAttempt, error) {
	attempt, ok := m.attempts[assessmentKey(enrollmentID, quizID)]
	if !ok {
		return models.QuizAttempt{}, gorm.ErrRecordNotFound
	}
	return attempt, nil
}

func (m *memoryAssessmentRepo) ListAttempts(_ context.Context, enrollmentID uint) ([]models.QuizAttempt, error) {
	var attempts []models.QuizAttempt
	for _, attempt := range m.attempts {
		if attempt.EnrollmentID == enrollmentID {
			attempts = append(attempts, attempt)
		}
	}
	sort.Slice(attempts, func(i, j int) bool {
		return attempts[i].QuizID < attempts[j].QuizID
	})
	return attempts, nil
}

func (m *memoryAssessmentRepo) SaveAttempt(_ context.Context, attempt *models.QuizAttempt) error {
	if attempt.ID == 0 {
		attempt.ID = m.nextID
		m.nextID++
	}
	m.attempts[assessmentKey(attempt.EnrollmentID, attempt.QuizID)] = *attempt
	return nil
}

type memoryInstructorRepo struct {
	profiles map[string]models.InstructorProfile
	nextID   uint
	saveErr  error
}

func newMemoryInstructorRepo() *memoryInstructorRepo {
	return &memoryInstructorRepo{profiles: make(map[string]models.InstructorProfile), nextID: 1}
}

func (m *memoryInstructorRepo) GetByEmail(_ context.Context, email string) (models.InstructorProfile, error) {
	profile, ok := m.profiles[email]
	if !ok {
		return models.InstructorProfile{}, gorm.ErrRecordNotFound
	}
	return profile, nil
}

func (m *memoryInstructorRepo) Save(_ context.Context, profile *models.InstructorProfile) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	if profile.ID == 0 {
		profile.ID = m.nextID
		m.nextID++
	}
	m.profiles[profile.Email] = *profile
	return nil
}
