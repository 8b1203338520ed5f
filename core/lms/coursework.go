package lms

import (
	"context"

	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/KS-2006-TD/LMS/core"
	"github.com/KS-2006-TD/LMS/core/user"
)

// CreateAssignment adds an assignment to a course owned by the caller and
// notifies every enrolled student.
func (svc *Service) CreateAssignment(ctx context.Context, caller user.Profile, courseID string, na NewAssignment) (Assignment, error) {
	var a Assignment
	err := svc.update(ctx, "create_assignment", func(m *mutation) error {
		course, err := ownedCourse(m.Snapshot, caller, courseID)
		if err != nil {
			return err
		}
		a = Assignment{
			ID:          m.newID(),
			CourseID:    course.ID,
			Title:       na.Title,
			Description: na.Description,
			DueDate:     na.DueDate,
			CreatedAt:   m.now,
		}
		m.Assignments = append(m.Assignments, a)
		m.notifyAssignmentCreated(course, a)
		return nil
	})
	if err != nil {
		return Assignment{}, err
	}
	return a, nil
}

// CourseAssignments lists the assignments of a course. Unknown courses have none.
func (svc *Service) CourseAssignments(ctx context.Context, courseID string) ([]Assignment, error) {
	snap, err := svc.view(ctx)
	if err != nil {
		return nil, err
	}
	assignments := make([]Assignment, 0)
	for _, a := range snap.Assignments {
		if a.CourseID == courseID {
			assignments = append(assignments, a)
		}
	}
	return assignments, nil
}

// checkCanSubmit returns the assignment if the caller may submit to it.
func checkCanSubmit(snap *Snapshot, caller user.Profile, assignmentID string) (Assignment, error) {
	a, found := snap.findAssignment(assignmentID)
	if !found {
		return Assignment{}, errAssignmentNotFound
	}
	if err := requireEnrollment(snap, caller, a.CourseID); err != nil {
		return Assignment{}, err
	}
	return a, nil
}

// CheckSubmission fails unless the assignment exists and the caller is
// enrolled in its course. It lets handlers reject a submission before reading its body.
func (svc *Service) CheckSubmission(ctx context.Context, caller user.Profile, assignmentID string) error {
	snap, err := svc.view(ctx)
	if err != nil {
		return err
	}
	_, err = checkCanSubmit(snap, caller, assignmentID)
	return err
}

// Submit records a submission by the caller, with an optional file, and
// notifies the course owner. Students may submit any number of times.
func (svc *Service) Submit(ctx context.Context, caller user.Profile, assignmentID string, upload *Upload) (Submission, error) {
	if err := svc.CheckSubmission(ctx, caller, assignmentID); err != nil {
		return Submission{}, err
	}

	var filePath null.String
	if upload != nil {
		path, err := svc.files.Save(ctx, upload.Filename, upload.Content)
		if err != nil {
			return Submission{}, errors.Wrap(err, "storing submission file")
		}
		filePath = null.StringFrom(path)
	}

	var sub Submission
	err := svc.update(ctx, "submit", func(m *mutation) error {
		a, err := checkCanSubmit(m.Snapshot, caller, assignmentID)
		if err != nil {
			return err
		}
		sub = Submission{
			ID:           m.newID(),
			AssignmentID: a.ID,
			StudentID:    caller.ID,
			FilePath:     filePath,
			SubmittedAt:  m.now,
		}
		m.Submissions = append(m.Submissions, sub)
		if course, found := m.findCourse(a.CourseID); found {
			m.notifySubmissionCreated(course, a, caller)
		}
		return nil
	})
	if err != nil {
		svc.discardFile(ctx, filePath)
		return Submission{}, err
	}
	return sub, nil
}

// AssignmentSubmissions lists the submissions to an assignment of a course owned by the caller.
func (svc *Service) AssignmentSubmissions(ctx context.Context, caller user.Profile, assignmentID string) ([]SubmissionWithStudent, error) {
	snap, err := svc.view(ctx)
	if err != nil {
		return nil, err
	}
	a, found := snap.findAssignment(assignmentID)
	if !found {
		return nil, errAssignmentNotFound
	}
	if _, err := ownedCourse(snap, caller, a.CourseID); err != nil {
		return nil, err
	}

	subs := make([]SubmissionWithStudent, 0)
	for _, sub := range snap.Submissions {
		if sub.AssignmentID != a.ID {
			continue
		}
		sws := SubmissionWithStudent{Submission: sub}
		if usr, found := snap.findUser(sub.StudentID); found {
			contact := usr.Contact()
			sws.Student = &contact
		}
		subs = append(subs, sws)
	}
	return subs, nil
}

// Grade sets the grade and feedback of a submission to an assignment of a
// course owned by the caller, then notifies the student. Regrading overwrites.
func (svc *Service) Grade(ctx context.Context, caller user.Profile, submissionID string, gi GradeInput) (Submission, error) {
	grade, err := gi.Value()
	if err != nil {
		return Submission{}, core.NewValidationError(nil, core.FieldError{Field: "grade", Error: "this field must be a number"})
	}

	var sub Submission
	err = svc.update(ctx, "grade", func(m *mutation) error {
		i, found := m.findSubmission(submissionID)
		if !found {
			return errSubmissionNotFound
		}
		a, found := m.findAssignment(m.Submissions[i].AssignmentID)
		if !found {
			return errAssignmentNotFound
		}
		if _, err := ownedCourse(m.Snapshot, caller, a.CourseID); err != nil {
			return err
		}

		m.Submissions[i].Grade = null.Float64From(grade)
		m.Submissions[i].Feedback = null.NewString(gi.Feedback, gi.Feedback != "")
		m.Submissions[i].GradedAt = null.TimeFrom(m.now)
		sub = m.Submissions[i]
		m.notifySubmissionGraded(a, sub)
		return nil
	})
	if err != nil {
		return Submission{}, err
	}
	return sub, nil
}

// MyGrades returns the caller's submissions with their assignment attached,
// and the mean of the graded ones rounded to 2 decimals (null if none is graded).
func (svc *Service) MyGrades(ctx context.Context, caller user.Profile) (Grades, error) {
	if err := requireRole(caller, user.RoleStudent, "Only students have grades"); err != nil {
		return Grades{}, err
	}
	snap, err := svc.view(ctx)
	if err != nil {
		return Grades{}, err
	}

	grades := Grades{Submissions: make([]GradedSubmission, 0)}
	var sum float64
	var graded int
	for _, sub := range snap.Submissions {
		if sub.StudentID != caller.ID {
			continue
		}
		gs := GradedSubmission{Submission: sub}
		if a, found := snap.findAssignment(sub.AssignmentID); found {
			gs.Assignment = &a
		}
		grades.Submissions = append(grades.Submissions, gs)
		if sub.Grade.Valid {
			sum += sub.Grade.Float64
			graded++
		}
	}
	if graded > 0 {
		grades.Average = null.Float64From(core.Round(sum/float64(graded), 2))
	}
	return grades, nil
}

// discardFile removes a file stored for a mutation that did not commit.
func (svc *Service) discardFile(ctx context.Context, path null.String) {
	if !path.Valid {
		return
	}
	if err := svc.files.Delete(ctx, path.String); err != nil {
		svc.logger.Warn("discarding uploaded file", errors.Wrapf(err, "deleting %s", path.String))
	}
}
