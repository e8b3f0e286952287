package dto

// PageQuery holds the common pagination parameters.
type PageQuery struct {
	Page     int `form:"page"`
	PageSize int `form:"page_size"`
}

// Normalize applies defaults and bounds.
func (q *PageQuery) Normalize() {
	if q.Page <= 0 {
		q.Page = 1
	}
	if q.PageSize <= 0 {
		q.PageSize = 20
	}
	if q.PageSize > 100 {
		q.PageSize = 100
	}
}

// Window returns the [start, end) slice bounds of the page within total
// items.
func (q *PageQuery) Window(total int) (int, int) {
	start := (q.Page - 1) * q.PageSize
	if start > total {
		start = total
	}
	end := start + q.PageSize
	if end > total {
		end = total
	}
	return start, end
}

// ReviewRequest carries an optional reviewer comment.
type ReviewRequest struct {
	Comment *string `json:"comment"`
}

// ApprovalLogResponse is one entry of a document's approval history.
type ApprovalLogResponse struct {
	ID           string                 `json:"id"`
	Action       string                 `json:"action"`
	ActorID      string                 `json:"actor_id"`
	ActorRole    string                 `json:"actor_role"`
	FromStatus   string                 `json:"from_status"`
	ToStatus     string                 `json:"to_status"`
	ReviewerRole *string                `json:"reviewer_role,omitempty"`
	Comment      *string                `json:"comment,omitempty"`
	Details      map[string]interface{} `json:"details,omitempty"`
	CreatedAt    string                 `json:"created_at"`
}
