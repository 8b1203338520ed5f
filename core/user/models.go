package user

import (
	"github.com/go-playground/validator/v10"
	"golang.org/x/crypto/bcrypt"

	"github.com/KS-2006-TD/LMS/core"
)

// Roles
const (
	RoleStudent = "Student"
	RoleTeacher = "Teacher"
)

var AllRoles = []string{RoleStudent, RoleTeacher}

// User is a registered account. Password holds the bcrypt hash and is only
// ever written to the record store, never to API responses (see Profile).
type User struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

func (u *User) SetPassword(pwd string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(pwd), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.Password = string(hash)
	return nil
}

func (u *User) CheckPassword(pwd string) error {
	return bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(pwd))
}

func (u User) Profile() Profile {
	return Profile{ID: u.ID, Name: u.Name, Email: u.Email, Role: u.Role}
}

// Profile is the public projection of a User.
type Profile struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// Contact is the projection of a User embedded in teacher-facing listings.
type Contact struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

func (u User) Contact() Contact {
	return Contact{ID: u.ID, Name: u.Name, Email: u.Email}
}

// NewUser contains information needed to register a new User.
type NewUser struct {
	Name     string `json:"name" validate:"required,notblank"`
	Email    string `json:"email" validate:"required,notblank"`
	Password string `json:"password" validate:"required"`
	Role     string `json:"role" validate:"required,role"`
}

// Clean trims the free text fields. Emails are compared as stored, so they are not lowered.
func (nu *NewUser) Clean() {
	nu.Name = core.CleanString(nu.Name)
	nu.Email = core.CleanString(nu.Email)
}

func (nu *NewUser) Validate(validate *validator.Validate) error {
	nu.Clean()
	return validate.Struct(nu)
}

// Credentials is what a User provides to log in.
type Credentials struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

func (c *Credentials) Clean() {
	c.Email = core.CleanString(c.Email)
}

func (c *Credentials) Validate(validate *validator.Validate) error {
	c.Clean()
	return validate.Struct(c)
}
