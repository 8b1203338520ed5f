package lms

import (
	"context"

	"github.com/KS-2006-TD/LMS/core/user"
)

// PostToForum adds a message from any authenticated user to a course's forum.
func (svc *Service) PostToForum(ctx context.Context, caller user.Profile, courseID string, np NewForumPost) (ForumPost, error) {
	var post ForumPost
	err := svc.update(ctx, "post_to_forum", func(m *mutation) error {
		if _, found := m.findCourse(courseID); !found {
			return errCourseNotFound
		}
		post = ForumPost{
			ID:         m.newID(),
			CourseID:   courseID,
			AuthorID:   caller.ID,
			AuthorName: caller.Name,
			Message:    np.Message,
			Date:       m.now,
		}
		m.Forums = append(m.Forums, post)
		return nil
	})
	if err != nil {
		return ForumPost{}, err
	}
	return post, nil
}

// CourseForum lists a course's posts, oldest first.
func (svc *Service) CourseForum(ctx context.Context, courseID string) ([]ForumPost, error) {
	snap, err := svc.view(ctx)
	if err != nil {
		return nil, err
	}
	posts := make([]ForumPost, 0)
	for _, p := range snap.Forums {
		if p.CourseID == courseID {
			posts = append(posts, p)
		}
	}
	return posts, nil
}
