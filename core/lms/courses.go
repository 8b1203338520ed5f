package lms

import (
	"context"

	"github.com/KS-2006-TD/LMS/core"
	"github.com/KS-2006-TD/LMS/core/user"
)

var errAlreadyEnrolled = core.NewConflictError("Already enrolled")

func (svc *Service) CreateCourse(ctx context.Context, caller user.Profile, nc NewCourse) (Course, error) {
	if err := requireRole(caller, user.RoleTeacher, "Only teachers can create courses"); err != nil {
		return Course{}, err
	}

	var course Course
	err := svc.update(ctx, "create_course", func(m *mutation) error {
		course = Course{
			ID:          m.newID(),
			Title:       nc.Title,
			Description: nc.Description,
			Duration:    nc.Duration,
			TeacherID:   caller.ID,
		}
		m.Courses = append(m.Courses, course)
		return nil
	})
	if err != nil {
		return Course{}, err
	}
	return course, nil
}

// QueryCourses lists every course, in creation order.
func (svc *Service) QueryCourses(ctx context.Context) ([]Course, error) {
	snap, err := svc.view(ctx)
	if err != nil {
		return nil, err
	}
	return snap.Courses, nil
}

func (svc *Service) Enroll(ctx context.Context, caller user.Profile, courseID string) (Enrollment, error) {
	if err := requireRole(caller, user.RoleStudent, "Only students can enroll"); err != nil {
		return Enrollment{}, err
	}

	var enr Enrollment
	err := svc.update(ctx, "enroll", func(m *mutation) error {
		if _, found := m.findCourse(courseID); !found {
			return errCourseNotFound
		}
		if m.isEnrolled(caller.ID, courseID) {
			return errAlreadyEnrolled
		}
		enr = Enrollment{ID: m.newID(), CourseID: courseID, StudentID: caller.ID}
		m.Enrollments = append(m.Enrollments, enr)
		return nil
	})
	if err != nil {
		return Enrollment{}, err
	}
	return enr, nil
}

// StudentCourses returns the caller's enrollments with their course attached.
// Enrollments whose course is gone are skipped.
func (svc *Service) StudentCourses(ctx context.Context, caller user.Profile) ([]EnrolledCourse, error) {
	snap, err := svc.view(ctx)
	if err != nil {
		return nil, err
	}
	courses := make([]EnrolledCourse, 0)
	for _, e := range snap.Enrollments {
		if e.StudentID != caller.ID {
			continue
		}
		if course, found := snap.findCourse(e.CourseID); found {
			c := course
			courses = append(courses, EnrolledCourse{EnrollmentID: e.ID, Course: &c})
		}
	}
	return courses, nil
}

// TeacherCourses returns the courses the caller owns.
func (svc *Service) TeacherCourses(ctx context.Context, caller user.Profile) ([]Course, error) {
	snap, err := svc.view(ctx)
	if err != nil {
		return nil, err
	}
	courses := make([]Course, 0)
	for _, c := range snap.Courses {
		if c.TeacherID == caller.ID {
			courses = append(courses, c)
		}
	}
	return courses, nil
}

// MyCourses dispatches on the caller's role: students get their enrollments,
// teachers their courses, anyone else an empty list.
func (svc *Service) MyCourses(ctx context.Context, caller user.Profile) (interface{}, error) {
	switch caller.Role {
	case user.RoleStudent:
		return svc.StudentCourses(ctx, caller)
	case user.RoleTeacher:
		return svc.TeacherCourses(ctx, caller)
	default:
		return []Course{}, nil
	}
}

// CourseStudents lists the students enrolled in a course owned by the caller.
func (svc *Service) CourseStudents(ctx context.Context, caller user.Profile, courseID string) ([]user.Contact, error) {
	snap, err := svc.view(ctx)
	if err != nil {
		return nil, err
	}
	if _, err := ownedCourse(snap, caller, courseID); err != nil {
		return nil, err
	}

	students := make([]user.Contact, 0)
	for _, id := range snap.enrolledStudentIDs(courseID) {
		if usr, found := snap.findUser(id); found {
			students = append(students, usr.Contact())
		}
	}
	return students, nil
}
