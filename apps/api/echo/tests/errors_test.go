package tests

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	. "github.com/KS-2006-TD/LMS/apps/api/echo"
	"github.com/KS-2006-TD/LMS/core/auth"
	"github.com/KS-2006-TD/LMS/core/lms"
	"github.com/KS-2006-TD/LMS/core/user"
	"github.com/KS-2006-TD/LMS/tests"
)

// corruptStore fails like a store whose document cannot be parsed.
type corruptStore struct{}

func (corruptStore) Load(context.Context) (*lms.Snapshot, error) {
	return lms.DecodeSnapshot([]byte(`{not json`), "db.json")
}

func (corruptStore) Save(context.Context, *lms.Snapshot) error { return nil }

func Test_errorHandler_shutdown(t *testing.T) {
	conf := testutil.Config()
	logger := new(testutil.Logger)
	validate, translator := testutil.Validator()
	svc := lms.NewService(corruptStore{}, testutil.NewFileStorage(), nil, logger)
	server := NewServer(conf, svc, auth.NewIssuer(conf), validate, translator, logger)
	app := &testApp{server: server}

	runHTTPTests(t, app, []httpTest{{
		name: "corrupt store", method: http.MethodGet, path: "/api/courses",
		wantCode: http.StatusInternalServerError, wantData: marchallObj(t, httpErr{Error: "Internal Server Error"}),
	}})

	select {
	case <-server.ShutdownSignal():
	default:
		t.Error("server did not signal shutdown")
	}
	assert.Len(t, logger.Errors, 1)
}

func Test_errorHandler_domainErrorsKeepServing(t *testing.T) {
	app := setup(t)
	teacher := app.CreateUser(t, "T", "t@test.cd", "pwd", user.RoleTeacher)

	runHTTPTests(t, app, []httpTest{{
		name: "not found", method: http.MethodGet, path: "/api/courses/lol/students", token: app.getToken(t, teacher),
		wantCode: http.StatusNotFound, wantData: marchallObj(t, httpErr{Error: "Course not found"}),
	}})

	select {
	case <-app.server.ShutdownSignal():
		t.Error("server signaled shutdown on a request error")
	default:
	}
}
