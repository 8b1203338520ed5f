package lms

import (
	"context"

	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/KS-2006-TD/LMS/core/user"
)

// CheckMaterialUpload fails unless the course exists and the caller owns it.
// It lets handlers reject an upload before reading its body.
func (svc *Service) CheckMaterialUpload(ctx context.Context, caller user.Profile, courseID string) error {
	snap, err := svc.view(ctx)
	if err != nil {
		return err
	}
	_, err = ownedCourse(snap, caller, courseID)
	return err
}

// UploadMaterial stores a file and attaches it to a course owned by the caller.
func (svc *Service) UploadMaterial(ctx context.Context, caller user.Profile, courseID string, upload Upload) (Material, error) {
	if err := svc.CheckMaterialUpload(ctx, caller, courseID); err != nil {
		return Material{}, err
	}

	path, err := svc.files.Save(ctx, upload.Filename, upload.Content)
	if err != nil {
		return Material{}, errors.Wrap(err, "storing material file")
	}

	var mat Material
	err = svc.update(ctx, "upload_material", func(m *mutation) error {
		if _, err := ownedCourse(m.Snapshot, caller, courseID); err != nil {
			return err
		}
		mat = Material{
			ID:         m.newID(),
			CourseID:   courseID,
			Filename:   upload.Filename,
			Path:       path,
			UploadedAt: m.now,
		}
		m.Materials = append(m.Materials, mat)
		return nil
	})
	if err != nil {
		svc.discardFile(ctx, null.StringFrom(path))
		return Material{}, err
	}
	return mat, nil
}

// CourseMaterials lists the materials of a course. Unknown courses have none.
func (svc *Service) CourseMaterials(ctx context.Context, courseID string) ([]Material, error) {
	snap, err := svc.view(ctx)
	if err != nil {
		return nil, err
	}
	materials := make([]Material, 0)
	for _, mat := range snap.Materials {
		if mat.CourseID == courseID {
			materials = append(materials, mat)
		}
	}
	return materials, nil
}
