package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/KS-2006-TD/LMS/core/lms"
)

type courseAPI struct {
	svc      *lms.Service
	validate *validator.Validate
}

func registerCourseAPI(g *echo.Group, authed, upload echo.MiddlewareFunc, svc *lms.Service, validate *validator.Validate) {
	api := courseAPI{
		svc:      svc,
		validate: validate,
	}

	g.GET("/courses", api.query)
	g.GET("/courses/:id/materials", api.queryMaterials)

	g.POST("/courses", api.create, authed)
	g.POST("/enroll", api.enroll, authed)
	g.GET("/my-courses", api.myCourses, authed)
	g.GET("/courses/:id/students", api.queryStudents, authed)
	g.POST("/courses/:id/materials", api.uploadMaterial, upload, authed)
}

func (api *courseAPI) query(ctx echo.Context) error {
	courses, err := api.svc.QueryCourses(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying courses")
	}
	return ctx.JSON(http.StatusOK, courses)
}

func (api *courseAPI) create(ctx echo.Context) error {
	caller, err := getCaller(ctx)
	if err != nil {
		return err
	}
	var data lms.NewCourse
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewCourse")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	course, err := api.svc.CreateCourse(ctx.Request().Context(), caller, data)
	if err != nil {
		return errors.Wrap(err, "creating course")
	}
	return ctx.JSON(http.StatusCreated, course)
}

func (api *courseAPI) enroll(ctx echo.Context) error {
	caller, err := getCaller(ctx)
	if err != nil {
		return err
	}
	var data lms.EnrollRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to EnrollRequest")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	enr, err := api.svc.Enroll(ctx.Request().Context(), caller, data.CourseID)
	if err != nil {
		return errors.Wrap(err, "enrolling")
	}
	return ctx.JSON(http.StatusCreated, enr)
}

func (api *courseAPI) myCourses(ctx echo.Context) error {
	caller, err := getCaller(ctx)
	if err != nil {
		return err
	}
	courses, err := api.svc.MyCourses(ctx.Request().Context(), caller)
	if err != nil {
		return errors.Wrap(err, "querying caller courses")
	}
	return ctx.JSON(http.StatusOK, courses)
}

func (api *courseAPI) queryStudents(ctx echo.Context) error {
	caller, err := getCaller(ctx)
	if err != nil {
		return err
	}
	students, err := api.svc.CourseStudents(ctx.Request().Context(), caller, ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "querying course students")
	}
	return ctx.JSON(http.StatusOK, students)
}

func (api *courseAPI) uploadMaterial(ctx echo.Context) error {
	caller, err := getCaller(ctx)
	if err != nil {
		return err
	}
	// reject before reading the body
	if err := api.svc.CheckMaterialUpload(ctx.Request().Context(), caller, ctx.Param("id")); err != nil {
		return errors.Wrap(err, "checking material upload")
	}
	upload, closeFile, err := formFile(ctx, "file")
	if err != nil {
		return err
	}
	if upload == nil {
		return errFileRequired
	}
	defer closeFile()

	mat, err := api.svc.UploadMaterial(ctx.Request().Context(), caller, ctx.Param("id"), *upload)
	if err != nil {
		return errors.Wrap(err, "uploading material")
	}
	return ctx.JSON(http.StatusCreated, mat)
}

func (api *courseAPI) queryMaterials(ctx echo.Context) error {
	mats, err := api.svc.CourseMaterials(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "querying course materials")
	}
	return ctx.JSON(http.StatusOK, mats)
}
