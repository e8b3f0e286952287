package workflow

import (
	"github.com/rehabib/plan-report-tourism/internal/model"
)

// Action names a workflow transition.
type Action string

const (
	ActionSubmit   Action = "submit"
	ActionResubmit Action = "resubmit"
	ActionApprove  Action = "approve"
	ActionReject   Action = "reject"
)

// Transition describes a state change that was applied to a document.
type Transition struct {
	Action       Action
	From         model.Status
	To           model.Status
	ReviewerRole *model.Role
	Comment      *string
}

// PlanWorkflow applies the approval state machine to plans. Every method
// either mutates the plan completely or returns an error and leaves it
// untouched.
type PlanWorkflow struct {
	graph *RoleGraph
}

func NewPlanWorkflow(graph *RoleGraph) *PlanWorkflow {
	return &PlanWorkflow{graph: graph}
}

// Graph exposes the routing graph the workflow was built with.
func (w *PlanWorkflow) Graph() *RoleGraph { return w.graph }

// CanEdit reports whether actor may change or delete the plan.
func (w *PlanWorkflow) CanEdit(plan *model.Plan, actor *model.User) bool {
	return plan.UserID == actor.UserID && plan.Status.Editable()
}

// CanApprove reports whether actor is the plan's current reviewer.
func (w *PlanWorkflow) CanApprove(plan *model.Plan, actor *model.User) bool {
	return plan.Status.InReview() &&
		plan.CurrentReviewerRole != nil &&
		*plan.CurrentReviewerRole == actor.Role
}

// CheckEdit is CanEdit as an error.
func (w *PlanWorkflow) CheckEdit(plan *model.Plan, actor *model.User, action string) error {
	if plan.UserID != actor.UserID {
		return &PermissionError{Action: action, Reason: "only the author can change a plan"}
	}
	if !plan.Status.Editable() {
		return &PermissionError{Action: action, Reason: "plan is " + string(plan.Status)}
	}
	return nil
}

// Submit sends a draft or rejected plan to its first reviewer. Plans
// authored by the minister have nobody above them and are approved
// immediately.
func (w *PlanWorkflow) Submit(plan *model.Plan, actor *model.User) (*Transition, error) {
	if plan.UserID != actor.UserID {
		return nil, &PermissionError{Action: "submit plan", Reason: "only the author can submit a plan"}
	}
	if !plan.Status.Editable() {
		return nil, &ValidationError{Field: "status", Message: "a " + string(plan.Status) + " plan cannot be submitted"}
	}

	from := plan.Status
	action := ActionSubmit
	if from == model.StatusRejected {
		action = ActionResubmit
	}

	if actor.Role == model.RoleMinister {
		plan.Status = model.StatusApproved
		plan.CurrentReviewerRole = nil
		return &Transition{Action: action, From: from, To: model.StatusApproved}, nil
	}

	reviewer, ok, err := w.graph.NextReviewer(plan.Level, plan.EffectivePillar())
	if err != nil {
		return nil, err
	}
	if !ok {
		plan.Status = model.StatusApproved
		plan.CurrentReviewerRole = nil
		return &Transition{Action: action, From: from, To: model.StatusApproved}, nil
	}

	to := model.StatusSubmitted
	if from == model.StatusRejected {
		to = model.StatusResubmitted
		plan.ReviewComments = nil
	}
	plan.Status = to
	plan.CurrentReviewerRole = &reviewer
	return &Transition{Action: action, From: from, To: to, ReviewerRole: &reviewer}, nil
}

// Approve records the current reviewer's approval. The final approver for
// the plan's level completes the plan, anyone else hands it to the next
// role above them.
func (w *PlanWorkflow) Approve(plan *model.Plan, actor *model.User) (*Transition, error) {
	if !w.CanApprove(plan, actor) {
		return nil, &PermissionError{Action: "approve plan", Reason: reviewerReason(plan.Status, plan.CurrentReviewerRole)}
	}
	from := plan.Status

	if w.graph.IsFinalApprover(plan.Level, actor.Role) {
		plan.Status = model.StatusApproved
		plan.CurrentReviewerRole = nil
		return &Transition{Action: ActionApprove, From: from, To: model.StatusApproved}, nil
	}

	next, ok, err := w.graph.NextReviewer(actor.Role, plan.EffectivePillar())
	if err != nil {
		return nil, err
	}
	if !ok {
		plan.Status = model.StatusApproved
		plan.CurrentReviewerRole = nil
		return &Transition{Action: ActionApprove, From: from, To: model.StatusApproved}, nil
	}
	plan.Status = model.StatusInReview
	plan.CurrentReviewerRole = &next
	return &Transition{Action: ActionApprove, From: from, To: model.StatusInReview, ReviewerRole: &next}, nil
}

// Reject returns the plan to its author. A non-empty comment replaces the
// stored review comments.
func (w *PlanWorkflow) Reject(plan *model.Plan, actor *model.User, comment *string) (*Transition, error) {
	if !w.CanApprove(plan, actor) {
		return nil, &PermissionError{Action: "reject plan", Reason: reviewerReason(plan.Status, plan.CurrentReviewerRole)}
	}
	from := plan.Status
	c := nonEmpty(comment)
	plan.Status = model.StatusRejected
	plan.CurrentReviewerRole = nil
	if c != nil {
		plan.ReviewComments = c
	}
	return &Transition{Action: ActionReject, From: from, To: model.StatusRejected, Comment: c}, nil
}

func nonEmpty(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}
	v := *s
	return &v
}

func reviewerReason(status model.Status, reviewer *model.Role) string {
	if !status.InReview() {
		return "document is " + string(status)
	}
	if reviewer == nil {
		return "no reviewer is assigned"
	}
	return "awaiting review by " + string(*reviewer)
}
