package reports

type VisitInput struct {
	CustomerID int64   `json:"customer_id" validate:"required,gt=0"`
	Content    string  `json:"content" validate:"required,max=2000"`
	Note       *string `json:"note,omitempty" validate:"omitempty,max=2000"`
}

type CreateReportRequest struct {
	ReportDate string       `json:"report_date" validate:"required,datetime=2006-01-02"`
	Problem    *string      `json:"problem,omitempty" validate:"omitempty,max=2000"`
	Plan       *string      `json:"plan,omitempty" validate:"omitempty,max=2000"`
	Visits     []VisitInput `json:"visits,omitempty" validate:"omitempty,max=50,dive"`
}

type UpdateReportRequest struct {
	Problem *string `json:"problem,omitempty" validate:"omitempty,max=2000"`
	Plan    *string `json:"plan,omitempty" validate:"omitempty,max=2000"`
	// Visits, when present, replaces the whole visit list.
	Visits *[]VisitInput `json:"visits,omitempty" validate:"omitempty,max=50,dive"`
}

type AddCommentRequest struct {
	Body string `json:"body" validate:"required,max=1000"`
}

type ListReportsRequest struct {
	From       *string `json:"from,omitempty" validate:"omitempty,datetime=2006-01-02"`
	To         *string `json:"to,omitempty" validate:"omitempty,datetime=2006-01-02"`
	EmployeeID *int64  `json:"employee_id,omitempty" validate:"omitempty,gt=0"`
	Page       int     `json:"page" validate:"gte=0"`
	PerPage    int     `json:"per_page" validate:"gte=0,lte=100"`
}
