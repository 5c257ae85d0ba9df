// Package policy answers "can this actor perform this action" from role and
// ownership facts supplied by the caller. Pure functions, no database access.
package policy

// Role is the closed set of user roles.
type Role string

const (
	RoleStudent   Role = "student"
	RoleTeacher   Role = "teacher"
	RoleAdmin     Role = "admin"
	RoleSuperuser Role = "superuser"
)

// ParseRole maps a stored role string onto the closed enumeration.
func ParseRole(s string) (Role, bool) {
	switch Role(s) {
	case RoleStudent, RoleTeacher, RoleAdmin, RoleSuperuser:
		return Role(s), true
	}
	return "", false
}

// Action is an operation subject to authorization.
type Action string

const (
	// ActionAuthorCatalog covers create/edit of courses, modules, contents,
	// questionnaires, questions and options, and module publication toggles.
	ActionAuthorCatalog Action = "author_catalog"
	// ActionSubmitAttempt is answering a questionnaire.
	ActionSubmitAttempt Action = "submit_attempt"
	// ActionViewResponses is the teacher-facing view over all answers of a
	// questionnaire, and the reporting screens.
	ActionViewResponses Action = "view_responses"
	// ActionViewAttempt is reading a single attempt and its answers.
	ActionViewAttempt Action = "view_attempt"
)

// Actor is the authenticated user asking for the operation.
type Actor struct {
	ID   uint
	Role Role
}

// Facts carries the ownership and state facts an action depends on. Only the
// fields relevant to the action need to be set.
type Facts struct {
	ModulePublished bool // target module is published
	Enrolled        bool // actor is enrolled in the target course
	AttemptOwnerID  uint // owner of the attempt being viewed
}

// Can reports whether actor may perform action given the facts. Superusers
// bypass every check.
func Can(actor Actor, action Action, f Facts) bool {
	if actor.Role == RoleSuperuser {
		return true
	}

	switch action {
	case ActionAuthorCatalog:
		return actor.Role == RoleTeacher || actor.Role == RoleAdmin
	case ActionSubmitAttempt:
		return actor.Role == RoleStudent && f.ModulePublished && f.Enrolled
	case ActionViewResponses:
		return actor.Role == RoleTeacher || actor.Role == RoleAdmin
	case ActionViewAttempt:
		if actor.Role == RoleTeacher || actor.Role == RoleAdmin {
			return true
		}
		return actor.Role == RoleStudent && f.AttemptOwnerID == actor.ID
	}
	return false
}
