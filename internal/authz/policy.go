package authz

import "github.com/campushub/campushub-api/internal/models"

// Operation identifies what an actor is trying to do to a resource.
type Operation string

// Operations understood by the policy.
const (
	OpRead   Operation = "read"
	OpCreate Operation = "create"
	OpUpdate Operation = "update"
	OpDelete Operation = "delete"
)

// ResourceKind identifies the kind of record an operation targets.
type ResourceKind string

// Resource kinds understood by the policy.
const (
	KindCourse     ResourceKind = "course"
	KindEnrollment ResourceKind = "enrollment"
	KindUser       ResourceKind = "user"
)

// Actor is the authenticated identity performing an operation.
type Actor struct {
	ID   uint
	Role string
}

// Resource describes the target of an operation. OwnerID is the teacher for
// courses, the student for enrollments and the course's teacher for
// enrollment grading; zero means unowned.
type Resource struct {
	Kind    ResourceKind
	OwnerID uint
}

// Decision is the result of a policy evaluation. Reason is only set on deny
// and is safe to surface verbatim to the caller.
type Decision struct {
	Allowed bool
	Reason  string
}

func allow() Decision {
	return Decision{Allowed: true}
}

func deny(reason string) Decision {
	return Decision{Allowed: false, Reason: reason}
}

// Decide evaluates whether the actor may perform op against the resource.
// It is a pure function: no storage access, no side effects. Precedence is
// admin, then teacher ownership rules, then student self rules.
func Decide(actor Actor, op Operation, res Resource) Decision {
	switch actor.Role {
	case models.RoleAdmin:
		return allow()
	case models.RoleTeacher:
		return decideTeacher(actor, op, res)
	case models.RoleStudent:
		return decideStudent(actor, op, res)
	}
	return deny("unknown role")
}

func decideTeacher(actor Actor, op Operation, res Resource) Decision {
	switch res.Kind {
	case KindCourse:
		if op == OpCreate || op == OpRead {
			return allow()
		}
		if res.OwnerID == actor.ID {
			return allow()
		}
		return deny("not the owning teacher")
	case KindEnrollment:
		if op == OpCreate {
			return deny("teachers cannot create enrollments")
		}
		if res.OwnerID == actor.ID {
			return allow()
		}
		return deny("enrollment is not in one of your courses")
	case KindUser:
		return deny("user management requires admin access")
	}
	return deny("unknown resource")
}

func decideStudent(actor Actor, op Operation, res Resource) Decision {
	switch res.Kind {
	case KindCourse:
		if op == OpRead {
			return allow()
		}
		return deny("students cannot modify courses")
	case KindEnrollment:
		if op == OpUpdate {
			return deny("students cannot grade enrollments")
		}
		if res.OwnerID == actor.ID {
			return allow()
		}
		return deny("enrollment belongs to another student")
	case KindUser:
		return deny("user management requires admin access")
	}
	return deny("unknown resource")
}
