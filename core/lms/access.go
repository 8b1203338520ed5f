package lms

import (
	"github.com/KS-2006-TD/LMS/core"
	"github.com/KS-2006-TD/LMS/core/user"
)

// Authorization predicates shared by every operation.

// requireRole fails with a ForbiddenError carrying `msg` unless the caller has `role`.
func requireRole(caller user.Profile, role, msg string) error {
	if caller.Role != role {
		return core.NewForbiddenError(msg)
	}
	return nil
}

// requireCourseOwner fails unless the caller is the teacher owning the course.
func requireCourseOwner(caller user.Profile, course Course) error {
	if course.TeacherID != caller.ID {
		return core.NewForbiddenError("Not your course")
	}
	return nil
}

// requireEnrollment fails unless the caller is enrolled in the course.
func requireEnrollment(snap *Snapshot, caller user.Profile, courseID string) error {
	if !snap.isEnrolled(caller.ID, courseID) {
		return core.NewForbiddenError("Not enrolled in this course")
	}
	return nil
}

// ownedCourse finds the course and checks the caller owns it.
func ownedCourse(snap *Snapshot, caller user.Profile, courseID string) (Course, error) {
	course, ok := snap.findCourse(courseID)
	if !ok {
		return Course{}, errCourseNotFound
	}
	if err := requireCourseOwner(caller, course); err != nil {
		return Course{}, err
	}
	return course, nil
}
