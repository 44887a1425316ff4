package domain

// DashboardStats network overview for the signed-in member
type DashboardStats struct {
	RecentProfiles []*Profile       `json:"recent_profiles"`
	RecentJobs     []*JobWithPoster `json:"recent_jobs"`
	AlumniCount    int64            `json:"alumni_count"`
	StudentCount   int64            `json:"student_count"`
	ActiveJobs     int64            `json:"active_jobs"`
	Connections    int64            `json:"connections"`
	PendingInbound int64            `json:"pending_requests"`
	UnreadMessages int64            `json:"unread_messages"`
}

// NetworkCounts global counters shared by every viewer
type NetworkCounts struct {
	AlumniCount  int64 `json:"alumni_count"`
	StudentCount int64 `json:"student_count"`
	ActiveJobs   int64 `json:"active_jobs"`
}
