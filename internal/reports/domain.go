package reports

import "time"

// Report is one employee's daily report. Ownership is fixed at
// creation: EmployeeID never changes, and at most one report exists
// per employee and business date.
type Report struct {
	ID           int64     `json:"id"`
	EmployeeID   int64     `json:"employee_id"`
	EmployeeName string    `json:"employee_name"`
	ReportDate   time.Time `json:"report_date"`
	Problem      *string   `json:"problem,omitempty"`
	Plan         *string   `json:"plan,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Visit is one customer call logged inside a report.
type Visit struct {
	ID           int64   `json:"id"`
	ReportID     int64   `json:"report_id"`
	CustomerID   int64   `json:"customer_id"`
	CustomerName string  `json:"customer_name"`
	Content      string  `json:"content"`
	Note         *string `json:"note,omitempty"`
}

// Comment is feedback on a report. EmployeeID is the commenter,
// fixed at creation.
type Comment struct {
	ID           int64     `json:"id"`
	ReportID     int64     `json:"report_id"`
	EmployeeID   int64     `json:"employee_id"`
	EmployeeName string    `json:"employee_name"`
	Body         string    `json:"body"`
	CreatedAt    time.Time `json:"created_at"`
}

// Detail is a report with its visits and comments.
type Detail struct {
	Report   Report    `json:"report"`
	Visits   []Visit   `json:"visits"`
	Comments []Comment `json:"comments"`
}

// OwnershipFacts are the minimal facts the authorization policy needs
// about a report. Loaded fresh per check, never cached.
type OwnershipFacts struct {
	OwnerEmployeeID int64
	OwnerManagerID  *int64
}
