package lms

import (
	"encoding/json"
	"io"
	"math"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/KS-2006-TD/LMS/core"
	"github.com/KS-2006-TD/LMS/core/user"
)

type Course struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Duration    string `json:"duration"`
	TeacherID   string `json:"teacherId"`
}

type Enrollment struct {
	ID        string `json:"id"`
	CourseID  string `json:"courseId"`
	StudentID string `json:"studentId"`
}

type Assignment struct {
	ID          string    `json:"id"`
	CourseID    string    `json:"courseId"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	DueDate     string    `json:"dueDate"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Submission is the only record mutated after creation: grading sets Grade, Feedback and GradedAt.
type Submission struct {
	ID           string       `json:"id"`
	AssignmentID string       `json:"assignmentId"`
	StudentID    string       `json:"studentId"`
	FilePath     null.String  `json:"filePath"`
	SubmittedAt  time.Time    `json:"submittedAt"`
	Grade        null.Float64 `json:"grade"`
	Feedback     null.String  `json:"feedback"`
	GradedAt     null.Time    `json:"gradedAt"`
}

type Material struct {
	ID         string    `json:"id"`
	CourseID   string    `json:"courseId"`
	Filename   string    `json:"filename"`
	Path       string    `json:"path"`
	UploadedAt time.Time `json:"uploadedAt"`
}

type ForumPost struct {
	ID         string    `json:"id"`
	CourseID   string    `json:"courseId"`
	AuthorID   string    `json:"authorId"`
	AuthorName string    `json:"authorName"`
	Message    string    `json:"message"`
	Date       time.Time `json:"date"`
}

// Notification.Read is written once at creation; nothing flips it.
type Notification struct {
	ID      string    `json:"id"`
	UserID  string    `json:"userId"`
	Message string    `json:"message"`
	Date    time.Time `json:"date"`
	Read    bool      `json:"read"`
}

// Projections

type EnrolledCourse struct {
	EnrollmentID string  `json:"enrollmentId"`
	Course       *Course `json:"course"`
}

type SubmissionWithStudent struct {
	Submission
	Student *user.Contact `json:"student"`
}

type GradedSubmission struct {
	Submission
	Assignment *Assignment `json:"assignment"`
}

type Grades struct {
	Submissions []GradedSubmission `json:"submissions"`
	Average     null.Float64       `json:"average"`
}

// Inputs

type NewCourse struct {
	Title       string `json:"title" validate:"required,notblank"`
	Description string `json:"description"`
	Duration    string `json:"duration"`
}

func (nc *NewCourse) Clean() {
	nc.Title = core.CleanString(nc.Title)
	nc.Description = core.CleanString(nc.Description)
	nc.Duration = core.CleanString(nc.Duration)
}

func (nc *NewCourse) Validate(validate *validator.Validate) error {
	nc.Clean()
	return validate.Struct(nc)
}

type EnrollRequest struct {
	CourseID string `json:"courseId" validate:"required"`
}

func (er *EnrollRequest) Validate(validate *validator.Validate) error {
	er.CourseID = core.CleanString(er.CourseID)
	return validate.Struct(er)
}

type NewAssignment struct {
	Title       string `json:"title" validate:"required,notblank"`
	Description string `json:"description"`
	DueDate     string `json:"dueDate"`
}

func (na *NewAssignment) Clean() {
	na.Title = core.CleanString(na.Title)
	na.Description = core.CleanString(na.Description)
	na.DueDate = core.CleanString(na.DueDate)
}

func (na *NewAssignment) Validate(validate *validator.Validate) error {
	na.Clean()
	return validate.Struct(na)
}

// GradeInput accepts the grade as a JSON number or a numeric string.
type GradeInput struct {
	Grade    json.Number `json:"grade" validate:"required,jsonnumber"`
	Feedback string      `json:"feedback"`
}

func (gi *GradeInput) Validate(validate *validator.Validate) error {
	gi.Grade = json.Number(core.CleanString(string(gi.Grade)))
	gi.Feedback = core.CleanString(gi.Feedback)
	return validate.Struct(gi)
}

// Value returns the grade as a finite number.
func (gi GradeInput) Value() (float64, error) {
	f, err := gi.Grade.Float64()
	if err != nil {
		return 0, err
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, errors.Errorf("grade %q is not finite", gi.Grade)
	}
	return f, nil
}

type NewForumPost struct {
	Message string `json:"message" validate:"required,notblank"`
}

func (np *NewForumPost) Validate(validate *validator.Validate) error {
	np.Message = core.CleanString(np.Message)
	return validate.Struct(np)
}

// Upload is a file received from a client.
type Upload struct {
	Filename string
	Content  io.Reader
}
