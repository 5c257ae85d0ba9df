package policy

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseRole(t *testing.T) {
	for _, valid := range []string{"student", "teacher", "admin", "superuser"} {
		role, ok := ParseRole(valid)
		assert.True(t, ok)
		assert.Equal(t, Role(valid), role)
	}

	_, ok := ParseRole("manager")
	assert.False(t, ok)
	_, ok = ParseRole("")
	assert.False(t, ok)
}

func TestSuperuserBypassesEverything(t *testing.T) {
	su := Actor{ID: 1, Role: RoleSuperuser}
	for _, action := range []Action{ActionAuthorCatalog, ActionSubmitAttempt, ActionViewResponses, ActionViewAttempt} {
		assert.True(t, Can(su, action, Facts{}), string(action))
	}
}

func TestAuthorCatalog(t *testing.T) {
	assert.True(t, Can(Actor{Role: RoleTeacher}, ActionAuthorCatalog, Facts{}))
	assert.True(t, Can(Actor{Role: RoleAdmin}, ActionAuthorCatalog, Facts{}))
	assert.False(t, Can(Actor{Role: RoleStudent}, ActionAuthorCatalog, Facts{}))
}

func TestSubmitAttemptNeedsAllFacts(t *testing.T) {
	student := Actor{ID: 7, Role: RoleStudent}

	assert.True(t, Can(student, ActionSubmitAttempt, Facts{ModulePublished: true, Enrolled: true}))
	assert.False(t, Can(student, ActionSubmitAttempt, Facts{ModulePublished: false, Enrolled: true}))
	assert.False(t, Can(student, ActionSubmitAttempt, Facts{ModulePublished: true, Enrolled: false}))

	// Staff do not submit attempts.
	assert.False(t, Can(Actor{Role: RoleTeacher}, ActionSubmitAttempt, Facts{ModulePublished: true, Enrolled: true}))
	assert.False(t, Can(Actor{Role: RoleAdmin}, ActionSubmitAttempt, Facts{ModulePublished: true, Enrolled: true}))
}

func TestViewResponsesIsStaffOnly(t *testing.T) {
	assert.True(t, Can(Actor{Role: RoleTeacher}, ActionViewResponses, Facts{}))
	assert.True(t, Can(Actor{Role: RoleAdmin}, ActionViewResponses, Facts{}))
	assert.False(t, Can(Actor{Role: RoleStudent}, ActionViewResponses, Facts{}))
}

func TestViewAttemptOwnership(t *testing.T) {
	owner := Actor{ID: 7, Role: RoleStudent}
	other := Actor{ID: 8, Role: RoleStudent}

	assert.True(t, Can(owner, ActionViewAttempt, Facts{AttemptOwnerID: 7}))
	assert.False(t, Can(other, ActionViewAttempt, Facts{AttemptOwnerID: 7}))
	assert.True(t, Can(Actor{Role: RoleTeacher}, ActionViewAttempt, Facts{AttemptOwnerID: 7}))
	assert.True(t, Can(Actor{Role: RoleAdmin}, ActionViewAttempt, Facts{AttemptOwnerID: 7}))
}

func TestUnknownActionDenied(t *testing.T) {
	assert.False(t, Can(Actor{Role: RoleAdmin}, Action("drop_database"), Facts{}))
}
