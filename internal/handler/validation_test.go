package handler

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/alumnet/alumnet-backend/internal/domain"
)

func TestRequestValidator(t *testing.T) {
	private := domain.VisibilityPrivate
	everyone := domain.Visibility("everyone")
	staff := domain.Role("staff")
	remote := domain.JobType("remote")

	tests := []struct {
		name string
		req  interface{}
		ok   bool
	}{
		{"valid register", &domain.RegisterRequest{Role: domain.RoleAlumni}, true},
		{"unknown register role", &domain.RegisterRequest{Role: "staff"}, false},
		{"empty update", &domain.UpdateProfileRequest{}, true},
		{"valid visibility", &domain.UpdateProfileRequest{PhoneVisibility: &private}, true},
		{"unknown visibility", &domain.UpdateProfileRequest{EmailVisibility: &everyone}, false},
		{"unknown role update", &domain.UpdateProfileRequest{Role: &staff}, false},
		{"valid job", &domain.CreateJobRequest{JobType: domain.JobInternship}, true},
		{"unknown job type", &domain.CreateJobRequest{JobType: "remote"}, false},
		{"unknown job type update", &domain.UpdateJobRequest{JobType: &remote}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := requestValidator.Struct(tt.req)
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}
