package lms

import (
	"context"

	"github.com/pkg/errors"

	"github.com/KS-2006-TD/LMS/core"
	"github.com/KS-2006-TD/LMS/core/user"
)

var errEmailExists = core.NewConflictError("Email already exists")

// Register creates an account. `nu` must already be validated.
func (svc *Service) Register(ctx context.Context, nu user.NewUser) (user.Profile, error) {
	usr := user.User{Name: nu.Name, Email: nu.Email, Role: nu.Role}
	// hashing is slow: keep it out of the write lock
	if err := usr.SetPassword(nu.Password); err != nil {
		return user.Profile{}, errors.Wrap(err, "hashing password")
	}

	err := svc.update(ctx, "register", func(m *mutation) error {
		if _, found := m.findUserByEmail(usr.Email); found {
			return errEmailExists
		}
		usr.ID = m.newID()
		m.Users = append(m.Users, usr)
		return nil
	})
	if err != nil {
		return user.Profile{}, err
	}
	return usr.Profile(), nil
}

// Authenticate returns the profile of the user owning the credentials.
// Unknown emails and wrong passwords fail the same way.
func (svc *Service) Authenticate(ctx context.Context, creds user.Credentials) (user.Profile, error) {
	snap, err := svc.view(ctx)
	if err != nil {
		return user.Profile{}, err
	}
	i, found := snap.findUserByEmail(creds.Email)
	if !found {
		return user.Profile{}, core.ErrInvalidCredentials
	}
	usr := snap.Users[i]
	if err := usr.CheckPassword(creds.Password); err != nil {
		return user.Profile{}, core.ErrInvalidCredentials
	}
	return usr.Profile(), nil
}

func (svc *Service) GetUser(ctx context.Context, id string) (user.Profile, error) {
	snap, err := svc.view(ctx)
	if err != nil {
		return user.Profile{}, err
	}
	usr, found := snap.findUser(id)
	if !found {
		return user.Profile{}, errUserNotFound
	}
	return usr.Profile(), nil
}

// SaveUser creates the user or, if the email is taken, overwrites its name, role and password.
// It backs the admin CLI and bypasses the duplicate-email check of Register.
func (svc *Service) SaveUser(ctx context.Context, nu user.NewUser) (user.Profile, bool, error) {
	usr := user.User{Name: nu.Name, Email: nu.Email, Role: nu.Role}
	if err := usr.SetPassword(nu.Password); err != nil {
		return user.Profile{}, false, errors.Wrap(err, "hashing password")
	}

	var created bool
	err := svc.update(ctx, "save_user", func(m *mutation) error {
		if i, found := m.findUserByEmail(usr.Email); found {
			usr.ID = m.Users[i].ID
			m.Users[i] = usr
			created = false
			return nil
		}
		usr.ID = m.newID()
		m.Users = append(m.Users, usr)
		created = true
		return nil
	})
	if err != nil {
		return user.Profile{}, false, err
	}
	return usr.Profile(), created, nil
}

// ResetPassword replaces the password of the user registered with `email`.
func (svc *Service) ResetPassword(ctx context.Context, email, password string) error {
	var usr user.User
	if err := usr.SetPassword(password); err != nil {
		return errors.Wrap(err, "hashing password")
	}
	return svc.update(ctx, "reset_password", func(m *mutation) error {
		i, found := m.findUserByEmail(email)
		if !found {
			return errUserNotFound
		}
		m.Users[i].Password = usr.Password
		return nil
	})
}
