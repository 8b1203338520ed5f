package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/KS-2006-TD/LMS/core/auth"
	"github.com/KS-2006-TD/LMS/core/lms"
	"github.com/KS-2006-TD/LMS/core/user"
)

type userAPI struct {
	svc      *lms.Service
	issuer   *auth.Issuer
	validate *validator.Validate
}

func registerUserAPI(g *echo.Group, authed echo.MiddlewareFunc, svc *lms.Service, issuer *auth.Issuer, validate *validator.Validate) {
	api := userAPI{
		svc:      svc,
		issuer:   issuer,
		validate: validate,
	}

	// un-authed endpoints
	g.POST("/register", api.register)
	g.POST("/login", api.login)

	// authed endpoints
	g.GET("/me", api.me, authed)
	g.POST("/token-refresh", api.refreshToken, authed)
}

type LoginResponse struct {
	User  user.Profile `json:"user"`
	Token string       `json:"token"`
}

func (api *userAPI) respondWithToken(ctx echo.Context, code int, usr user.Profile) error {
	token, err := api.issuer.IssueToken(api.issuer.UserClaims(usr))
	if err != nil {
		return errors.Wrap(err, "generating token")
	}
	return ctx.JSON(code, LoginResponse{User: usr, Token: token})
}

func (api *userAPI) register(ctx echo.Context) error {
	var data user.NewUser
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewUser")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	usr, err := api.svc.Register(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "registering user")
	}
	return api.respondWithToken(ctx, http.StatusCreated, usr)
}

func (api *userAPI) login(ctx echo.Context) error {
	var data user.Credentials
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to Credentials")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	usr, err := api.svc.Authenticate(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "authenticating")
	}
	return api.respondWithToken(ctx, http.StatusOK, usr)
}

func (api *userAPI) me(ctx echo.Context) error {
	caller, err := getCaller(ctx)
	if err != nil {
		return err
	}
	usr, err := api.svc.GetUser(ctx.Request().Context(), caller.ID)
	if err != nil {
		return errors.Wrap(err, "finding user by ID")
	}
	return ctx.JSON(http.StatusOK, usr)
}

func (api *userAPI) refreshToken(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return err
	}
	// the account must still exist
	usr, err := api.svc.GetUser(ctx.Request().Context(), claims.ID)
	if err != nil {
		return errors.Wrap(err, "finding user by ID")
	}

	claims.Name, claims.Email, claims.Role = usr.Name, usr.Email, usr.Role
	token, err := api.issuer.RefreshToken(claims)
	if err != nil {
		return errors.Wrap(err, "refreshing token")
	}
	return ctx.JSON(http.StatusOK, LoginResponse{User: usr, Token: token})
}
