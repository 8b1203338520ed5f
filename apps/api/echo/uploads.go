package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/KS-2006-TD/LMS/core"
	"github.com/KS-2006-TD/LMS/core/lms"
)

var errFileRequired = core.NewValidationError(nil, core.FieldError{Field: "file", Error: "this field is required"})

// formFile opens the multipart file `field`. It returns a nil Upload when the field is absent.
func formFile(ctx echo.Context, field string) (*lms.Upload, func(), error) {
	fh, err := ctx.FormFile(field)
	if err != nil {
		if err == http.ErrMissingFile || err == http.ErrNotMultipart {
			return nil, func() {}, nil
		}
		if errors.Is(err, echo.ErrStatusRequestEntityTooLarge) {
			return nil, nil, echo.ErrStatusRequestEntityTooLarge
		}
		return nil, nil, errors.Wrap(err, "reading multipart form")
	}
	f, err := fh.Open()
	if err != nil {
		return nil, nil, errors.Wrap(err, "opening uploaded file")
	}
	return &lms.Upload{Filename: fh.Filename, Content: f}, func() { _ = f.Close() }, nil
}
