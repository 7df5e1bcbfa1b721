package dto

import "devjobs/internal/usecase/admin"

type RejectJobRequest struct {
	Reason string `json:"reason"`
}

type PendingJobResponse struct {
	Job      JobResponse  `json:"job"`
	Employer UserResponse `json:"employer"`
}

type StatsResponse struct {
	TotalUsers           int64            `json:"totalUsers"`
	TotalJobs            int64            `json:"totalJobs"`
	TotalApplications    int64            `json:"totalApplications"`
	PendingJobs          int64            `json:"pendingJobs"`
	UsersByRole          map[string]int64 `json:"usersByRole"`
	JobsByStatus         map[string]int64 `json:"jobsByStatus"`
	ApplicationsByStatus map[string]int64 `json:"applicationsByStatus"`
	RecentActivity       RecentActivity   `json:"recentActivity"`
}

// RecentActivity covers the trailing 30 days.
type RecentActivity struct {
	NewUsers        int64 `json:"newUsers"`
	NewJobs         int64 `json:"newJobs"`
	NewApplications int64 `json:"newApplications"`
}

func NewPendingJobResponses(items []admin.PendingJob) []PendingJobResponse {
	out := make([]PendingJobResponse, 0, len(items))
	for _, it := range items {
		out = append(out, PendingJobResponse{
			Job:      NewJobResponse(it.Job),
			Employer: NewUserResponse(it.Employer),
		})
	}
	return out
}

func NewStatsResponse(st admin.Stats) StatsResponse {
	return StatsResponse{
		TotalUsers:           st.TotalUsers,
		TotalJobs:            st.TotalJobs,
		TotalApplications:    st.TotalApplications,
		PendingJobs:          st.PendingJobs,
		UsersByRole:          orEmpty(st.UsersByRole),
		JobsByStatus:         orEmpty(st.JobsByStatus),
		ApplicationsByStatus: orEmpty(st.ApplicationsByStat),
		RecentActivity: RecentActivity{
			NewUsers:        st.RecentUsers,
			NewJobs:         st.RecentJobs,
			NewApplications: st.RecentApplications,
		},
	}
}

func orEmpty(m map[string]int64) map[string]int64 {
	if m == nil {
		return map[string]int64{}
	}
	return m
}
