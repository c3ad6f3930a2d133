package validate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/legalletter/legalletter/internal/models"
)

func TestEmail(t *testing.T) {
	tests := []struct {
		name    string
		email   string
		wantErr bool
	}{
		{name: "valid", email: "user@example.com", wantErr: false},
		{name: "valid with plus", email: "user+tag@example.com", wantErr: false},
		{name: "missing at", email: "userexample.com", wantErr: true},
		{name: "missing domain", email: "user@", wantErr: true},
		{name: "empty", email: "", wantErr: true},
		{name: "spaces", email: "user @example.com", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Email(tt.email)
			if tt.wantErr {
				var verr *models.ValidationError
				require.ErrorAs(t, err, &verr)
				assert.Equal(t, "email", verr.Field)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestPassword(t *testing.T) {
	tests := []struct {
		name    string
		pw      string
		wantErr bool
	}{
		{name: "valid", pw: "Password1", wantErr: false},
		{name: "too short", pw: "Pass1", wantErr: true},
		{name: "no uppercase", pw: "password1", wantErr: true},
		{name: "no lowercase", pw: "PASSWORD1", wantErr: true},
		{name: "no digit", pw: "Passwordx", wantErr: true},
		{name: "empty", pw: "", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Password(tt.pw)
			if tt.wantErr {
				var verr *models.ValidationError
				require.ErrorAs(t, err, &verr)
				assert.Equal(t, "password", verr.Field)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestName(t *testing.T) {
	tests := []struct {
		name     string
		fullName string
		wantErr  bool
	}{
		{name: "valid", fullName: "John Smith", wantErr: false},
		{name: "valid with surrounding spaces", fullName: "  John Smith  ", wantErr: false},
		{name: "single letter", fullName: "J", wantErr: true},
		{name: "digits", fullName: "John2", wantErr: true},
		{name: "punctuation", fullName: "John-Smith", wantErr: true},
		{name: "only spaces", fullName: "   ", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Name(tt.fullName)
			if tt.wantErr {
				var verr *models.ValidationError
				require.ErrorAs(t, err, &verr)
				assert.Equal(t, "fullName", verr.Field)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestAdminSecret(t *testing.T) {
	assert.NoError(t, AdminSecret("s3cret", "s3cret"))
	assert.ErrorIs(t, AdminSecret("wrong", "s3cret"), models.ErrUnauthorized)
	assert.ErrorIs(t, AdminSecret("", "s3cret"), models.ErrUnauthorized)
}

func TestStruct(t *testing.T) {
	valid := models.SignUpRequest{
		Email:    "user@example.com",
		Password: "Password1",
		FullName: "John Smith",
		Role:     models.RoleUser,
	}
	assert.NoError(t, Struct(valid))

	tests := []struct {
		name      string
		mutate    func(r *models.SignUpRequest)
		wantField string
		wantMsg   string
	}{
		{
			name:      "missing email",
			mutate:    func(r *models.SignUpRequest) { r.Email = "" },
			wantField: "email",
			wantMsg:   "is a required field",
		},
		{
			name:      "malformed email",
			mutate:    func(r *models.SignUpRequest) { r.Email = "not-an-email" },
			wantField: "email",
			wantMsg:   "invalid email format",
		},
		{
			name:      "missing password",
			mutate:    func(r *models.SignUpRequest) { r.Password = "" },
			wantField: "password",
			wantMsg:   "is a required field",
		},
		{
			name:      "unknown role",
			mutate:    func(r *models.SignUpRequest) { r.Role = "superadmin" },
			wantField: "role",
			wantMsg:   "has unsupported value",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := valid
			tt.mutate(&req)
			err := Struct(req)
			var verr *models.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.wantField, verr.Field)
			assert.Equal(t, tt.wantMsg, verr.Message)
		})
	}
}
