package workflow

import (
	"github.com/rehabib/plan-report-tourism/internal/model"
)

// ReportWorkflow applies the approval state machine to reports. The
// reviewer is always derived from the parent plan.
type ReportWorkflow struct {
	graph *RoleGraph
}

func NewReportWorkflow(graph *RoleGraph) *ReportWorkflow {
	return &ReportWorkflow{graph: graph}
}

// ReviewerRole resolves who reviews reports filed against plan. A plan
// still under review hands its reports to its current reviewer; an
// approved plan hands them to the first reviewer of its level. Nil means
// nobody reviews, as for the minister's own plans.
func (w *ReportWorkflow) ReviewerRole(plan *model.Plan) (*model.Role, error) {
	if plan == nil {
		return nil, &ValidationError{Field: "plan", Message: "report has no plan"}
	}
	if plan.CurrentReviewerRole != nil && *plan.CurrentReviewerRole != "" {
		role := *plan.CurrentReviewerRole
		return &role, nil
	}
	role, ok, err := w.graph.NextReviewer(plan.Level, plan.EffectivePillar())
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	return &role, nil
}

// CheckCreate verifies a report may be opened against plan by actor.
// Only the plan's author reports on it.
func (w *ReportWorkflow) CheckCreate(plan *model.Plan, actor *model.User) error {
	if plan.UserID != actor.UserID {
		return &PermissionError{Action: "create report", Reason: "only the plan's author can report on it"}
	}
	if plan.Status != model.StatusApproved {
		return &ValidationError{Field: "plan", Message: "reports can only be filed against approved plans"}
	}
	return nil
}

// CanEdit reports whether actor may change the report's content.
func (w *ReportWorkflow) CanEdit(report *model.Report, actor *model.User) bool {
	return report.UserID == actor.UserID && report.Status.Editable()
}

// CanApprove reports whether actor is the resolved reviewer of a report
// awaiting review. Authors never review their own reports.
func (w *ReportWorkflow) CanApprove(report *model.Report, actor *model.User) bool {
	if !report.Status.InReview() || report.UserID == actor.UserID {
		return false
	}
	role, err := w.ReviewerRole(report.Plan)
	return err == nil && role != nil && *role == actor.Role
}

// Submit hands a draft or rejected report to its reviewer.
func (w *ReportWorkflow) Submit(report *model.Report, actor *model.User) (*Transition, error) {
	if report.UserID != actor.UserID {
		return nil, &PermissionError{Action: "submit report", Reason: "only the author can submit a report"}
	}
	if !report.Status.Editable() {
		return nil, &ValidationError{Field: "status", Message: "a " + string(report.Status) + " report cannot be submitted"}
	}
	role, err := w.ReviewerRole(report.Plan)
	if err != nil {
		return nil, err
	}

	from := report.Status
	action, to := ActionSubmit, model.StatusSubmitted
	if from == model.StatusRejected {
		action, to = ActionResubmit, model.StatusResubmitted
	}
	if role == nil {
		to = model.StatusApproved
	}
	report.Status = to
	return &Transition{Action: action, From: from, To: to, ReviewerRole: role}, nil
}

// Approve completes the report. Reports have a single review step: the
// role resolved from the plan is also the terminal role.
func (w *ReportWorkflow) Approve(report *model.Report, actor *model.User) (*Transition, error) {
	role, err := w.ReviewerRole(report.Plan)
	if err != nil {
		return nil, err
	}
	if report.UserID == actor.UserID {
		return nil, &PermissionError{Action: "approve report", Reason: "you cannot review your own report"}
	}
	if !report.Status.InReview() || role == nil || *role != actor.Role {
		return nil, &PermissionError{Action: "approve report", Reason: reviewerReason(report.Status, role)}
	}
	from := report.Status
	report.Status = model.StatusApproved
	report.ReviewerComment = nil
	return &Transition{Action: ActionApprove, From: from, To: model.StatusApproved}, nil
}

// Reject returns the report to its author with an optional comment.
func (w *ReportWorkflow) Reject(report *model.Report, actor *model.User, comment *string) (*Transition, error) {
	if report.UserID == actor.UserID {
		return nil, &PermissionError{Action: "reject report", Reason: "you cannot review your own report"}
	}
	if !w.CanApprove(report, actor) {
		role, _ := w.ReviewerRole(report.Plan)
		return nil, &PermissionError{Action: "reject report", Reason: reviewerReason(report.Status, role)}
	}
	from := report.Status
	c := nonEmpty(comment)
	report.Status = model.StatusRejected
	if c != nil {
		report.ReviewerComment = c
	}
	return &Transition{Action: ActionReject, From: from, To: model.StatusRejected, Comment: c}, nil
}
