package lms

import (
	"context"
	"fmt"
	"net/mail"
	"strconv"

	"github.com/pkg/errors"

	"github.com/KS-2006-TD/LMS/core"
	"github.com/KS-2006-TD/LMS/core/user"
)

// notify appends a notification for userID to the working snapshot.
func (m *mutation) notify(userID, message string) {
	n := Notification{
		ID:      m.newID(),
		UserID:  userID,
		Message: message,
		Date:    m.now,
		Read:    false,
	}
	m.Notifications = append(m.Notifications, n)
	m.notified = append(m.notified, n)
}

// notifyAssignmentCreated fans out to every student enrolled in the course.
func (m *mutation) notifyAssignmentCreated(course Course, a Assignment) {
	msg := fmt.Sprintf("New assignment %q in %s", a.Title, course.Title)
	for _, studentID := range m.enrolledStudentIDs(course.ID) {
		m.notify(studentID, msg)
	}
}

// notifySubmissionCreated tells the course owner.
func (m *mutation) notifySubmissionCreated(course Course, a Assignment, student user.Profile) {
	m.notify(course.TeacherID, fmt.Sprintf("%s submitted %q", student.Name, a.Title))
}

// notifySubmissionGraded tells the student, grade included.
func (m *mutation) notifySubmissionGraded(a Assignment, sub Submission) {
	grade := strconv.FormatFloat(sub.Grade.Float64, 'f', -1, 64)
	m.notify(sub.StudentID, fmt.Sprintf("Your submission for %q was graded: %s", a.Title, grade))
}

// mailNotifications emails the notifications created by a committed mutation.
// Delivery failures are logged: the notification records are already persisted.
func (svc *Service) mailNotifications(snap *Snapshot, notified []Notification) {
	if svc.mailSvc == nil || len(notified) == 0 {
		return
	}

	messages := make([]*core.EmailMessage, 0, len(notified))
	for _, n := range notified {
		usr, ok := snap.findUser(n.UserID)
		if !ok || usr.Email == "" {
			continue
		}
		messages = append(messages, &core.EmailMessage{
			To:      []mail.Address{{Name: usr.Name, Address: usr.Email}},
			Subject: "New notification",
			Body:    n.Message,
		})
	}
	if err := svc.mailSvc.SendMessages(messages...); err != nil {
		svc.logger.Error("sending notification emails", errors.Wrap(err, "mailing notifications"))
	}
}

// Notifications returns every notification addressed to the caller, in insertion order.
func (svc *Service) Notifications(ctx context.Context, caller user.Profile) ([]Notification, error) {
	snap, err := svc.view(ctx)
	if err != nil {
		return nil, err
	}
	notes := make([]Notification, 0)
	for _, n := range snap.Notifications {
		if n.UserID == caller.ID {
			notes = append(notes, n)
		}
	}
	return notes, nil
}
