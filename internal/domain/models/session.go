package models

// SessionContext carries the caller's access role and date range explicitly into every
// query. Dates are kept in both client renderings.
type SessionContext struct {
	Role         string `json:"role"`
	StartDate    string `json:"startDate"`
	EndDate      string `json:"endDate"`
	StartDateISO string `json:"startDateISO"`
	EndDateISO   string `json:"endDateISO"`
}
