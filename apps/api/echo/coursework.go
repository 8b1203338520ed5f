package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/KS-2006-TD/LMS/core/lms"
)

type courseworkAPI struct {
	svc      *lms.Service
	validate *validator.Validate
}

func registerCourseworkAPI(g *echo.Group, authed, upload echo.MiddlewareFunc, svc *lms.Service, validate *validator.Validate) {
	api := courseworkAPI{
		svc:      svc,
		validate: validate,
	}

	g.GET("/courses/:id/assignments", api.queryAssignments)

	g.POST("/courses/:id/assignments", api.createAssignment, authed)
	g.POST("/assignments/:id/submit", api.submit, upload, authed)
	g.GET("/assignments/:id/submissions", api.querySubmissions, authed)
	g.POST("/submissions/:id/grade", api.grade, authed)
	g.GET("/my-grades", api.myGrades, authed)
}

func (api *courseworkAPI) queryAssignments(ctx echo.Context) error {
	assignments, err := api.svc.CourseAssignments(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "querying course assignments")
	}
	return ctx.JSON(http.StatusOK, assignments)
}

func (api *courseworkAPI) createAssignment(ctx echo.Context) error {
	caller, err := getCaller(ctx)
	if err != nil {
		return err
	}
	var data lms.NewAssignment
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewAssignment")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	a, err := api.svc.CreateAssignment(ctx.Request().Context(), caller, ctx.Param("id"), data)
	if err != nil {
		return errors.Wrap(err, "creating assignment")
	}
	return ctx.JSON(http.StatusCreated, a)
}

func (api *courseworkAPI) submit(ctx echo.Context) error {
	caller, err := getCaller(ctx)
	if err != nil {
		return err
	}
	// reject before reading the body
	if err := api.svc.CheckSubmission(ctx.Request().Context(), caller, ctx.Param("id")); err != nil {
		return errors.Wrap(err, "checking submission")
	}
	upload, closeFile, err := formFile(ctx, "file")
	if err != nil {
		return err
	}
	defer closeFile()

	sub, err := api.svc.Submit(ctx.Request().Context(), caller, ctx.Param("id"), upload)
	if err != nil {
		return errors.Wrap(err, "submitting assignment")
	}
	return ctx.JSON(http.StatusCreated, sub)
}

func (api *courseworkAPI) querySubmissions(ctx echo.Context) error {
	caller, err := getCaller(ctx)
	if err != nil {
		return err
	}
	subs, err := api.svc.AssignmentSubmissions(ctx.Request().Context(), caller, ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "querying submissions")
	}
	return ctx.JSON(http.StatusOK, subs)
}

func (api *courseworkAPI) grade(ctx echo.Context) error {
	caller, err := getCaller(ctx)
	if err != nil {
		return err
	}
	var data lms.GradeInput
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to GradeInput")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	sub, err := api.svc.Grade(ctx.Request().Context(), caller, ctx.Param("id"), data)
	if err != nil {
		return errors.Wrap(err, "grading submission")
	}
	return ctx.JSON(http.StatusOK, sub)
}

func (api *courseworkAPI) myGrades(ctx echo.Context) error {
	caller, err := getCaller(ctx)
	if err != nil {
		return err
	}
	grades, err := api.svc.MyGrades(ctx.Request().Context(), caller)
	if err != nil {
		return errors.Wrap(err, "querying grades")
	}
	return ctx.JSON(http.StatusOK, grades)
}
