package user_test

import (
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KS-2006-TD/LMS/core"
	"github.com/KS-2006-TD/LMS/core/user"
)

func TestUser_Password(t *testing.T) {
	var usr user.User
	require.NoError(t, usr.SetPassword("s3cret"))
	assert.NotEqual(t, "s3cret", usr.Password)
	assert.NoError(t, usr.CheckPassword("s3cret"))
	assert.Error(t, usr.CheckPassword("S3cret"))
}

func TestUser_Projections(t *testing.T) {
	usr := user.User{ID: "1", Name: "Ann", Email: "ann@test.cd", Password: "hash", Role: user.RoleTeacher}
	assert.Equal(t, user.Profile{ID: "1", Name: "Ann", Email: "ann@test.cd", Role: user.RoleTeacher}, usr.Profile())
	assert.Equal(t, user.Contact{ID: "1", Name: "Ann", Email: "ann@test.cd"}, usr.Contact())
}

func TestNewUser_Validate(t *testing.T) {
	validate := validator.New()
	translator := core.NewTranslator()
	core.InitValidators(validate, translator)
	user.InitValidators(validate, translator)

	tests := []struct {
		name       string
		data       user.NewUser
		wantFields map[string]string
	}{
		{
			name: "valid",
			data: user.NewUser{Name: " Ann ", Email: "ann@test.cd", Password: "pwd", Role: user.RoleStudent},
		},
		{
			name:       "missing fields",
			data:       user.NewUser{},
			wantFields: map[string]string{"name": "this field is required", "email": "this field is required", "password": "this field is required", "role": "this field is required"},
		},
		{
			name:       "blank name",
			data:       user.NewUser{Name: "   ", Email: "ann@test.cd", Password: "pwd", Role: user.RoleStudent},
			wantFields: map[string]string{"name": "this field is required"},
		},
		{
			name:       "bad role",
			data:       user.NewUser{Name: "Ann", Email: "ann@test.cd", Password: "pwd", Role: "Admin"},
			wantFields: map[string]string{"role": "role must be one of Student or Teacher"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.data.Validate(validate)
			if tt.wantFields == nil {
				require.NoError(t, err)
				assert.Equal(t, "Ann", tt.data.Name)
				return
			}
			vErrs, ok := err.(validator.ValidationErrors)
			require.True(t, ok, "got %v", err)
			got := make(map[string]string, len(vErrs))
			for _, e := range vErrs {
				got[e.Field()] = e.Translate(translator)
			}
			assert.Equal(t, tt.wantFields, got)
		})
	}
}
