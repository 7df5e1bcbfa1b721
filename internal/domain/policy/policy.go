package policy

import (
	"devjobs/internal/domain/user"
)

// Action enumerates every permission-gated operation. Each action has
// exactly one rule in Decide; there is no precedence between rules.
type Action string

const (
	ActionCreateJob               Action = "job:create"
	ActionEditJob                 Action = "job:edit"
	ActionDeleteJob               Action = "job:delete"
	ActionModerateJob             Action = "job:moderate"
	ActionViewPendingJobs         Action = "job:view-pending"
	ActionApplyToJob              Action = "application:create"
	ActionViewOwnApplications     Action = "application:view-own"
	ActionViewJobApplications     Action = "application:view-for-job"
	ActionUpdateApplicationStatus Action = "application:update-status"
	ActionViewApplication         Action = "application:view"
	ActionViewStats               Action = "admin:stats"
	ActionViewUsers               Action = "admin:users"
	ActionDeleteUser              Action = "admin:delete-user"
)

type Actor struct {
	ID   int64
	Role user.Role
}

// Resource carries the ownership facts a rule may consult. Fields not
// relevant to an action are ignored.
type Resource struct {
	JobEmployerID int64
	ApplicantID   int64
}

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

// ForbiddenError carries the table's denial reason to the transport
// layer. Distinct from not-found and not-authenticated failures.
type ForbiddenError struct {
	Reason string
}

func (e *ForbiddenError) Error() string {
	return e.Reason
}

// Err converts a decision into an error for the calling workflow.
func (d Decision) Err() error {
	if d.Allowed {
		return nil
	}
	return &ForbiddenError{Reason: d.Reason}
}

// RoleGate evaluates the table as if the actor owned the resource,
// isolating the role component. Callers use it to deny wrong-role
// actors before any lookup, so probing a role-gated endpoint reveals
// nothing about resource existence.
func RoleGate(actor Actor, action Action) Decision {
	return Decide(actor, action, Resource{JobEmployerID: actor.ID, ApplicantID: actor.ID})
}

// Decide evaluates the fixed authorization table. It is pure: no
// storage access, no ambient state.
func Decide(actor Actor, action Action, res Resource) Decision {
	switch action {
	case ActionCreateJob:
		if actor.Role != user.RoleEmployer {
			return deny("only employers can create jobs")
		}
		return allow()

	case ActionEditJob, ActionDeleteJob:
		if actor.Role != user.RoleEmployer {
			return deny("only employers can manage jobs")
		}
		if actor.ID != res.JobEmployerID {
			return deny("you can only manage your own jobs")
		}
		return allow()

	case ActionModerateJob:
		if actor.Role != user.RoleAdmin {
			return deny("admin access required")
		}
		return allow()

	case ActionViewPendingJobs, ActionViewStats, ActionViewUsers, ActionDeleteUser:
		if actor.Role != user.RoleAdmin {
			return deny("admin access required")
		}
		return allow()

	case ActionApplyToJob:
		if actor.Role != user.RoleSeeker {
			return deny("only job seekers can apply to jobs")
		}
		return allow()

	case ActionViewOwnApplications:
		if actor.Role != user.RoleSeeker {
			return deny("only job seekers can view their applications")
		}
		return allow()

	case ActionViewJobApplications, ActionUpdateApplicationStatus:
		if actor.Role == user.RoleAdmin {
			return allow()
		}
		if actor.Role == user.RoleEmployer {
			if actor.ID != res.JobEmployerID {
				return deny("you can only manage applications for your own jobs")
			}
			return allow()
		}
		return deny("insufficient permissions")

	case ActionViewApplication:
		switch actor.Role {
		case user.RoleAdmin:
			return allow()
		case user.RoleEmployer:
			if actor.ID != res.JobEmployerID {
				return deny("you can only view applications for your own jobs")
			}
			return allow()
		case user.RoleSeeker:
			if actor.ID != res.ApplicantID {
				return deny("you can only view your own applications")
			}
			return allow()
		}
		return deny("insufficient permissions")
	}

	return deny("unknown action")
}
