package files

import (
	"context"

	"github.com/pkg/errors"

	"github.com/KS-2006-TD/LMS/core"
	"github.com/KS-2006-TD/LMS/core/lms"
)

// Drivers
const (
	DriverLocal = "local"
	DriverB2    = "b2"
)

// Open returns the file storage selected by conf.Uploads.Driver.
func Open(ctx context.Context, conf *core.Config) (lms.FileStorage, error) {
	switch conf.Uploads.Driver {
	case DriverLocal, "":
		s, err := NewLocalStorage(conf.Uploads.Dir, conf.Uploads.Prefix)
		if err != nil {
			return nil, errors.Wrap(err, "opening local file storage")
		}
		return s, nil
	case DriverB2:
		s, err := NewB2Storage(ctx, conf.B2.AccountID, conf.B2.AppKey, conf.B2.BucketName)
		if err != nil {
			return nil, errors.Wrap(err, "opening b2 file storage")
		}
		return s, nil
	default:
		return nil, errors.Errorf("unknown uploads driver %q", conf.Uploads.Driver)
	}
}
