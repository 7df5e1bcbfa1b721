package policy

import (
	"errors"
	"testing"

	"devjobs/internal/domain/user"
)

func TestDecide_Matrix(t *testing.T) {
	seeker := Actor{ID: 1, Role: user.RoleSeeker}
	employer := Actor{ID: 2, Role: user.RoleEmployer}
	otherEmployer := Actor{ID: 3, Role: user.RoleEmployer}
	admin := Actor{ID: 4, Role: user.RoleAdmin}

	owned := Resource{JobEmployerID: employer.ID, ApplicantID: seeker.ID}
	foreign := Resource{JobEmployerID: otherEmployer.ID, ApplicantID: 99}

	cases := []struct {
		name    string
		actor   Actor
		action  Action
		res     Resource
		allowed bool
	}{
		{"seeker cannot create jobs", seeker, ActionCreateJob, Resource{}, false},
		{"employer can create jobs", employer, ActionCreateJob, Resource{}, true},
		{"admin cannot create jobs", admin, ActionCreateJob, Resource{}, false},

		{"employer edits own job", employer, ActionEditJob, owned, true},
		{"employer cannot edit foreign job", employer, ActionEditJob, foreign, false},
		{"admin cannot edit jobs", admin, ActionEditJob, owned, false},
		{"seeker cannot delete jobs", seeker, ActionDeleteJob, owned, false},
		{"employer deletes own job", employer, ActionDeleteJob, owned, true},
		{"employer cannot delete foreign job", employer, ActionDeleteJob, foreign, false},

		{"only admin moderates", employer, ActionModerateJob, owned, false},
		{"admin moderates", admin, ActionModerateJob, foreign, true},
		{"admin views pending", admin, ActionViewPendingJobs, Resource{}, true},
		{"employer cannot view pending", employer, ActionViewPendingJobs, Resource{}, false},

		{"seeker applies", seeker, ActionApplyToJob, Resource{}, true},
		{"employer cannot apply", employer, ActionApplyToJob, Resource{}, false},
		{"admin cannot apply", admin, ActionApplyToJob, Resource{}, false},

		{"seeker views own applications", seeker, ActionViewOwnApplications, Resource{}, true},
		{"employer has no own applications", employer, ActionViewOwnApplications, Resource{}, false},

		{"employer views applications for own job", employer, ActionViewJobApplications, owned, true},
		{"employer cannot view applications for foreign job", employer, ActionViewJobApplications, foreign, false},
		{"admin views any job applications", admin, ActionViewJobApplications, foreign, true},
		{"seeker cannot view job applications", seeker, ActionViewJobApplications, owned, false},

		{"employer updates status on own job", employer, ActionUpdateApplicationStatus, owned, true},
		{"employer cannot update status on foreign job", employer, ActionUpdateApplicationStatus, foreign, false},
		{"admin updates any status", admin, ActionUpdateApplicationStatus, foreign, true},
		{"seeker cannot update status", seeker, ActionUpdateApplicationStatus, owned, false},

		{"applicant views own application", seeker, ActionViewApplication, owned, true},
		{"seeker cannot view foreign application", seeker, ActionViewApplication, foreign, false},
		{"owning employer views application", employer, ActionViewApplication, owned, true},
		{"foreign employer cannot view application", employer, ActionViewApplication, foreign, false},
		{"admin views any application", admin, ActionViewApplication, foreign, true},

		{"stats admin only", seeker, ActionViewStats, Resource{}, false},
		{"admin views stats", admin, ActionViewStats, Resource{}, true},
		{"user list admin only", employer, ActionViewUsers, Resource{}, false},
		{"admin lists users", admin, ActionViewUsers, Resource{}, true},
		{"delete user admin only", employer, ActionDeleteUser, Resource{}, false},
		{"admin deletes users", admin, ActionDeleteUser, Resource{}, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			d := Decide(tc.actor, tc.action, tc.res)
			if d.Allowed != tc.allowed {
				t.Fatalf("Decide(%v, %s) allowed=%v, want %v (reason %q)", tc.actor, tc.action, d.Allowed, tc.allowed, d.Reason)
			}
			if !d.Allowed && d.Reason == "" {
				t.Fatalf("denial without reason for %s", tc.action)
			}
		})
	}
}

func TestDecide_UnknownAction(t *testing.T) {
	d := Decide(Actor{ID: 1, Role: user.RoleAdmin}, Action("nope"), Resource{})
	if d.Allowed {
		t.Fatalf("unknown action must deny")
	}
}

func TestDecisionErr(t *testing.T) {
	if err := allow().Err(); err != nil {
		t.Fatalf("allow must not error, got %v", err)
	}

	err := deny("no").Err()
	var fe *ForbiddenError
	if !errors.As(err, &fe) {
		t.Fatalf("expected ForbiddenError, got %T", err)
	}
	if fe.Reason != "no" {
		t.Fatalf("unexpected reason %q", fe.Reason)
	}
}

func TestRoleGate(t *testing.T) {
	employer := Actor{ID: 7, Role: user.RoleEmployer}

	// The gate must not reject an employer for ownership it cannot
	// know about yet.
	if d := RoleGate(employer, ActionEditJob); !d.Allowed {
		t.Fatalf("role gate rejected employer: %q", d.Reason)
	}
	if d := RoleGate(employer, ActionModerateJob); d.Allowed {
		t.Fatalf("role gate passed employer for moderation")
	}
}
