package lms

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/pkg/errors"

	"github.com/KS-2006-TD/LMS/core"
	"github.com/KS-2006-TD/LMS/core/user"
)

// ErrVersionConflict is returned by Store.Save when the persisted document
// changed since the snapshot was loaded.
var ErrVersionConflict = errors.New("record store: version conflict")

type (
	// Store persists the whole Snapshot as a single document.
	Store interface {
		// Load returns the current snapshot. A store with no document yet returns an empty baseline.
		Load(ctx context.Context) (*Snapshot, error)
		// Save replaces the persisted document if its version still equals snap.Version,
		// then bumps snap.Version. Otherwise it returns ErrVersionConflict.
		Save(ctx context.Context, snap *Snapshot) error
	}

	// FileStorage stores uploaded bytes and returns the path (or URL) they are served from.
	FileStorage interface {
		Save(ctx context.Context, name string, r io.Reader) (string, error)
		Delete(ctx context.Context, path string) error
	}
)

// Snapshot holds every collection of the record store.
type Snapshot struct {
	Version       int64          `json:"version"`
	Users         []user.User    `json:"users"`
	Courses       []Course       `json:"courses"`
	Enrollments   []Enrollment   `json:"enrollments"`
	Assignments   []Assignment   `json:"assignments"`
	Submissions   []Submission   `json:"submissions"`
	Materials     []Material     `json:"materials"`
	Forums        []ForumPost    `json:"forums"`
	Notifications []Notification `json:"notifications"`
}

// NewSnapshot returns the baseline document: every collection empty.
func NewSnapshot() *Snapshot {
	snap := new(Snapshot)
	snap.Normalize()
	return snap
}

// Normalize replaces missing collections with empty ones, so documents written
// by older versions (or by hand) load cleanly.
func (s *Snapshot) Normalize() {
	if s.Users == nil {
		s.Users = []user.User{}
	}
	if s.Courses == nil {
		s.Courses = []Course{}
	}
	if s.Enrollments == nil {
		s.Enrollments = []Enrollment{}
	}
	if s.Assignments == nil {
		s.Assignments = []Assignment{}
	}
	if s.Submissions == nil {
		s.Submissions = []Submission{}
	}
	if s.Materials == nil {
		s.Materials = []Material{}
	}
	if s.Forums == nil {
		s.Forums = []ForumPost{}
	}
	if s.Notifications == nil {
		s.Notifications = []Notification{}
	}
}

// Clone returns a deep copy of the snapshot. Records hold no pointers, so copying the slices is enough.
// DecodeSnapshot parses a persisted document. A document that cannot be
// parsed fails every request, so it is reported as a shutdown error.
func DecodeSnapshot(data []byte, source string) (*Snapshot, error) {
	snap := new(Snapshot)
	if err := json.Unmarshal(data, snap); err != nil {
		return nil, core.NewShutdownError(fmt.Sprintf("decoding %s: %v", source, err))
	}
	snap.Normalize()
	return snap, nil
}

func (s *Snapshot) Clone() *Snapshot {
	return &Snapshot{
		Version:       s.Version,
		Users:         append([]user.User{}, s.Users...),
		Courses:       append([]Course{}, s.Courses...),
		Enrollments:   append([]Enrollment{}, s.Enrollments...),
		Assignments:   append([]Assignment{}, s.Assignments...),
		Submissions:   append([]Submission{}, s.Submissions...),
		Materials:     append([]Material{}, s.Materials...),
		Forums:        append([]ForumPost{}, s.Forums...),
		Notifications: append([]Notification{}, s.Notifications...),
	}
}

// Lookups. All are linear scans over the collection.

func (s *Snapshot) findUser(id string) (user.User, bool) {
	for _, u := range s.Users {
		if u.ID == id {
			return u, true
		}
	}
	return user.User{}, false
}

func (s *Snapshot) findUserByEmail(email string) (int, bool) {
	for i, u := range s.Users {
		if u.Email == email {
			return i, true
		}
	}
	return -1, false
}

func (s *Snapshot) findCourse(id string) (Course, bool) {
	for _, c := range s.Courses {
		if c.ID == id {
			return c, true
		}
	}
	return Course{}, false
}

func (s *Snapshot) findAssignment(id string) (Assignment, bool) {
	for _, a := range s.Assignments {
		if a.ID == id {
			return a, true
		}
	}
	return Assignment{}, false
}

func (s *Snapshot) findSubmission(id string) (int, bool) {
	for i, sub := range s.Submissions {
		if sub.ID == id {
			return i, true
		}
	}
	return -1, false
}

func (s *Snapshot) isEnrolled(studentID, courseID string) bool {
	for _, e := range s.Enrollments {
		if e.StudentID == studentID && e.CourseID == courseID {
			return true
		}
	}
	return false
}

// enrolledStudentIDs returns the ids of the students enrolled in the course, in enrollment order.
func (s *Snapshot) enrolledStudentIDs(courseID string) []string {
	var ids []string
	for _, e := range s.Enrollments {
		if e.CourseID == courseID {
			ids = append(ids, e.StudentID)
		}
	}
	return ids
}
