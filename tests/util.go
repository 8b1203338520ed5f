// Package testutil holds fixtures shared by the service, API and CLI tests.
package testutil

import (
	"context"
	"fmt"
	"io"
	"io/ioutil"
	"net/mail"
	"sync"
	"testing"
	"time"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/KS-2006-TD/LMS/core"
	"github.com/KS-2006-TD/LMS/core/lms"
	"github.com/KS-2006-TD/LMS/core/user"
	"github.com/KS-2006-TD/LMS/services/email"
	"github.com/KS-2006-TD/LMS/storage/database/memory"
)

// Config returns a test configuration. Nothing in it touches the environment.
func Config() *core.Config {
	return &core.Config{
		Env:              "TEST",
		TestMode:         true,
		AppName:          "LMS",
		SecretKey:        "secret",
		DefaultFromEmail: mail.Address{Name: "LMS", Address: "noreply@localhost"},
		Server: core.ServerConfig{
			JWTExpirationDelta:        7 * 24 * time.Hour,
			JWTRefreshExpirationDelta: 30 * 24 * time.Hour,
		},
		Store:   core.StoreConfig{Driver: "memory"},
		// uploads go to the in-memory FileStorage
		Uploads: core.UploadsConfig{Driver: "memory", Prefix: "/uploads", MaxSize: "1K"},
	}
}

// Validator returns a validator with every custom tag registered.
func Validator() (*validator.Validate, ut.Translator) {
	validate := validator.New()
	translator := core.NewTranslator()
	core.InitValidators(validate, translator)
	user.InitValidators(validate, translator)
	return validate, translator
}

// Logger discards everything but counts errors.
type Logger struct {
	mu     sync.Mutex
	Errors []string
}

var _ core.Logger = (*Logger)(nil)

func (l *Logger) Debug(string, ...interface{}) {}
func (l *Logger) Info(string, ...interface{})  {}
func (l *Logger) Warn(string, ...interface{})  {}
func (l *Logger) Fatal(msg string, _ ...interface{}) {
	panic(msg)
}
func (l *Logger) Error(msg string, _ ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.Errors = append(l.Errors, msg)
}

// FileStorage keeps uploads in memory.
type FileStorage struct {
	mu    sync.Mutex
	Files map[string][]byte
	n     int
}

var _ lms.FileStorage = (*FileStorage)(nil)

func NewFileStorage() *FileStorage {
	return &FileStorage{Files: make(map[string][]byte)}
}

func (fs *FileStorage) Save(_ context.Context, name string, r io.Reader) (string, error) {
	data, err := ioutil.ReadAll(r)
	if err != nil {
		return "", err
	}
	fs.mu.Lock()
	defer fs.mu.Unlock()
	fs.n++
	path := fmt.Sprintf("/uploads/%d-%s", fs.n, name)
	fs.Files[path] = data
	return path, nil
}

func (fs *FileStorage) Delete(_ context.Context, path string) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	delete(fs.Files, path)
	return nil
}

func (fs *FileStorage) Len() int {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	return len(fs.Files)
}

// Env bundles a service wired to in-memory fakes.
type Env struct {
	Svc    *lms.Service
	Store  *memory.Store
	Files  *FileStorage
	Mail   *emailsvc.ConsoleServiceMock
	Logger *Logger
}

func NewEnv(t *testing.T) *Env {
	t.Helper()
	env := &Env{
		Store:  memory.Open(),
		Files:  NewFileStorage(),
		Mail:   emailsvc.NewConsoleServiceMock(Config()),
		Logger: new(Logger),
	}
	env.Svc = lms.NewService(env.Store, env.Files, env.Mail, env.Logger)
	return env
}

func (env *Env) CreateUser(t *testing.T, name, email, pwd, role string) user.Profile {
	t.Helper()
	usr, err := env.Svc.Register(context.Background(), user.NewUser{Name: name, Email: email, Password: pwd, Role: role})
	if err != nil {
		t.Fatalf("CreateUser() failed: %v", err)
	}
	return usr
}

func (env *Env) CreateCourse(t *testing.T, teacher user.Profile, title string) lms.Course {
	t.Helper()
	course, err := env.Svc.CreateCourse(context.Background(), teacher, lms.NewCourse{Title: title})
	if err != nil {
		t.Fatalf("CreateCourse() failed: %v", err)
	}
	return course
}

func (env *Env) Enroll(t *testing.T, student user.Profile, courseID string) lms.Enrollment {
	t.Helper()
	enr, err := env.Svc.Enroll(context.Background(), student, courseID)
	if err != nil {
		t.Fatalf("Enroll() failed: %v", err)
	}
	return enr
}

func (env *Env) CreateAssignment(t *testing.T, teacher user.Profile, courseID, title string) lms.Assignment {
	t.Helper()
	a, err := env.Svc.CreateAssignment(context.Background(), teacher, courseID, lms.NewAssignment{Title: title})
	if err != nil {
		t.Fatalf("CreateAssignment() failed: %v", err)
	}
	return a
}

func (env *Env) Submit(t *testing.T, student user.Profile, assignmentID string) lms.Submission {
	t.Helper()
	sub, err := env.Svc.Submit(context.Background(), student, assignmentID, nil)
	if err != nil {
		t.Fatalf("Submit() failed: %v", err)
	}
	return sub
}
