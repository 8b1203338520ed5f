package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/KS-2006-TD/LMS/core/lms"
)

type forumAPI struct {
	svc      *lms.Service
	validate *validator.Validate
}

func registerForumAPI(g *echo.Group, authed echo.MiddlewareFunc, svc *lms.Service, validate *validator.Validate) {
	api := forumAPI{
		svc:      svc,
		validate: validate,
	}

	g.GET("/courses/:id/forum", api.query)
	g.POST("/courses/:id/forum", api.post, authed)
	g.GET("/notifications", api.notifications, authed)
}

func (api *forumAPI) query(ctx echo.Context) error {
	posts, err := api.svc.CourseForum(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "querying forum")
	}
	return ctx.JSON(http.StatusOK, posts)
}

func (api *forumAPI) post(ctx echo.Context) error {
	caller, err := getCaller(ctx)
	if err != nil {
		return err
	}
	var data lms.NewForumPost
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewForumPost")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	post, err := api.svc.PostToForum(ctx.Request().Context(), caller, ctx.Param("id"), data)
	if err != nil {
		return errors.Wrap(err, "posting to forum")
	}
	return ctx.JSON(http.StatusCreated, post)
}

func (api *forumAPI) notifications(ctx echo.Context) error {
	caller, err := getCaller(ctx)
	if err != nil {
		return err
	}
	notes, err := api.svc.Notifications(ctx.Request().Context(), caller)
	if err != nil {
		return errors.Wrap(err, "querying notifications")
	}
	return ctx.JSON(http.StatusOK, notes)
}
