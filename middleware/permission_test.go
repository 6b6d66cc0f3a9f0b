package middleware

import (
	"otms/models"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanPolicyTable(t *testing.T) {
	cases := []struct {
		role     string
		resource string
		action   string
		allowed  bool
	}{
		{models.RoleAdmin, "organizations", ActionCreate, true},
		{models.RoleManager, "organizations", ActionCreate, false},
		{models.RoleTrainee, "organizations", ActionRead, true},

		{models.RoleTrainer, "courses", ActionCreate, true},
		{models.RoleTrainee, "courses", ActionCreate, false},
		{models.RoleTrainee, "courses", ActionRead, true},

		{models.RoleTrainee, "enrollments", ActionCreate, true},
		{models.RoleTrainee, "enrollments", ActionUpdate, false},
		{models.RoleTrainer, "enrollments", ActionUpdate, true},

		{models.RoleManager, "requests", ActionApprove, true},
		{models.RoleTrainee, "requests", ActionApprove, false},
		{models.RoleTrainer, "requests", ActionApprove, false},

		{models.RoleManager, "analytics", ActionRead, true},
		{models.RoleTrainee, "analytics", ActionRead, false},
		{models.RoleTrainer, "analytics", ActionRead, false},

		{models.RoleAdmin, "feedback", ActionDelete, true},
		{models.RoleManager, "feedback", ActionDelete, false},

		{models.RoleTrainer, "attendance", ActionCreate, true},
		{models.RoleTrainee, "attendance", ActionCreate, false},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.allowed, Can(tc.role, tc.resource, tc.action),
			"%s %s %s", tc.role, tc.action, tc.resource)
	}
}

func TestCanUnknownResourceOrAction(t *testing.T) {
	assert.False(t, Can(models.RoleAdmin, "unknown", ActionRead))
	assert.False(t, Can(models.RoleAdmin, "courses", "publish"))
	assert.False(t, Can("", "courses", ActionRead))
}
