package model

// VisitTimeLayout is the timestamp format the visitors API expects.
const VisitTimeLayout = "2006-01-02 15:04:05"

// PageVisit is one dwell interval on a page section.
type PageVisit struct {
	PageName    string `json:"page_name"`
	SectionName string `json:"section_name,omitempty"`
	InTime      string `json:"in_time"`
	OutTime     string `json:"out_time"`
}

// CreateVisitorRequest opens a visitor session.
type CreateVisitorRequest struct {
	VisitorID  string      `json:"visitor_id"`
	Ref        string      `json:"ref,omitempty"`
	DeviceType string      `json:"device_type,omitempty"`
	Browser    string      `json:"browser,omitempty"`
	PageVisits []PageVisit `json:"page_visits,omitempty"`
}

// UpdateVisitorRequest appends page visits or updates session metadata.
type UpdateVisitorRequest struct {
	Ref        string      `json:"ref,omitempty"`
	DeviceType string      `json:"device_type,omitempty"`
	Browser    string      `json:"browser,omitempty"`
	PageVisits []PageVisit `json:"page_visits,omitempty"`
}

// Visitor is a recorded visitor session.
type Visitor struct {
	ID            int64       `json:"id"`
	VisitorID     string      `json:"visitor_id"`
	Session       int         `json:"session"`
	Ref           *string     `json:"ref"`
	DeviceType    *string     `json:"device_type"`
	Browser       *string     `json:"browser"`
	PageVisits    []PageVisit `json:"page_visits,omitempty"`
	TotalDuration int         `json:"total_duration,omitempty"`
	CreatedAt     string      `json:"created_at"`
	UpdatedAt     string      `json:"updated_at"`
}

// VisitorsQuery filters the admin visitor listing. Dates are YYYY-MM-DD.
type VisitorsQuery struct {
	PerPage int
	Page    int
	GteDate string
	LteDate string
}

// VisitorsPage is the admin visitor listing.
type VisitorsPage struct {
	Visitors []Visitor
	Meta     *Pagination
}

// ValueCount is a (value, occurrences) pair in analytics.
type ValueCount struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

// RepeatedVisitor is a visitor that came back for more than one session.
type RepeatedVisitor struct {
	VisitorID string `json:"visitor_id"`
	Session   int    `json:"session"`
}

// VisitorAnalytics is the aggregated visitor report.
type VisitorAnalytics struct {
	TotalVisitors         int               `json:"total_visitors"`
	MostVisitedSection    ValueCount        `json:"most_visited_section"`
	MostVisitedDeviceType ValueCount        `json:"most_visited_device_type"`
	RepeatedVisitors      []RepeatedVisitor `json:"repeated_visitors"`
	MostCommonRef         ValueCount        `json:"most_common_ref"`
}
