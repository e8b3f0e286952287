package model

// ── Role ──

// Role is an organizational level. The same vocabulary is used for a
// user's role, a plan's level and a plan's current reviewer.
type Role string

const (
	RoleIndividual               Role = "individual"
	RoleDesk                     Role = "desk"
	RoleDepartment               Role = "department"
	RoleCorporate                Role = "corporate"
	RoleStateMinisterDestination Role = "state-minister-destination"
	RoleStateMinisterPromotion   Role = "state-minister-promotion"
	RoleStrategicTeam            Role = "strategic-team"
	RoleMinister                 Role = "minister"
)

// Roles lists every role from the bottom of the hierarchy up.
var Roles = []Role{
	RoleIndividual,
	RoleDesk,
	RoleDepartment,
	RoleCorporate,
	RoleStateMinisterDestination,
	RoleStateMinisterPromotion,
	RoleStrategicTeam,
	RoleMinister,
}

// Pillars are the roles a department can report into.
var Pillars = []Role{
	RoleCorporate,
	RoleStateMinisterDestination,
	RoleStateMinisterPromotion,
}

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	for _, v := range Roles {
		if v == r {
			return true
		}
	}
	return false
}

// IsPillar reports whether r is one of the three pillar roles.
func (r Role) IsPillar() bool {
	for _, v := range Pillars {
		if v == r {
			return true
		}
	}
	return false
}

// ── PlanType ──

type PlanType string

const (
	PlanTypeWeekly    PlanType = "weekly"
	PlanTypeMonthly   PlanType = "monthly"
	PlanTypeQuarterly PlanType = "quarterly"
	PlanTypeYearly    PlanType = "yearly"
)

func (t PlanType) Valid() bool {
	switch t {
	case PlanTypeWeekly, PlanTypeMonthly, PlanTypeQuarterly, PlanTypeYearly:
		return true
	}
	return false
}

// ── Status ──

// Status is the approval state shared by plans and reports.
type Status string

const (
	StatusDraft       Status = "DRAFT"
	StatusSubmitted   Status = "SUBMITTED"
	StatusResubmitted Status = "RESUBMITTED"
	StatusInReview    Status = "IN_REVIEW"
	StatusApproved    Status = "APPROVED"
	StatusRejected    Status = "REJECTED"
)

// InReview reports whether a reviewer currently owns the document.
func (s Status) InReview() bool {
	return s == StatusSubmitted || s == StatusResubmitted || s == StatusInReview
}

// Editable reports whether the author may still change the document.
func (s Status) Editable() bool {
	return s == StatusDraft || s == StatusRejected
}

// ── Activity statuses ──

type ActivityStatus string

const (
	ActivityPending    ActivityStatus = "PENDING"
	ActivityInProgress ActivityStatus = "IN_PROGRESS"
	ActivityCompleted  ActivityStatus = "COMPLETED"
)

func (s ActivityStatus) Valid() bool {
	return s == ActivityPending || s == ActivityInProgress || s == ActivityCompleted
}

type DetailReportStatus string

const (
	DetailNotStarted DetailReportStatus = "NOT_STARTED"
	DetailInProgress DetailReportStatus = "IN_PROGRESS"
	DetailCompleted  DetailReportStatus = "COMPLETED"
)

func (s DetailReportStatus) Valid() bool {
	return s == DetailNotStarted || s == DetailInProgress || s == DetailCompleted
}
