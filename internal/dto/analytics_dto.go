package dto

type AnalyticsOverviewResponse struct {
	PeriodDays             int     `json:"period_days"`
	TotalThreads           int     `json:"total_threads"`
	TotalMessages          int     `json:"total_messages"`
	IncomingMessages       int     `json:"incoming_messages"`
	OutgoingMessages       int     `json:"outgoing_messages"`
	ThreadsWithDirectives  int     `json:"threads_with_directives"`
	AvgResponseTimeSeconds float64 `json:"avg_response_time_seconds"`
}

type MessagesByDayPoint struct {
	Date     string `json:"date"`
	Incoming int    `json:"incoming"`
	Outgoing int    `json:"outgoing"`
}

type MessagesByDayResponse struct {
	Data       []MessagesByDayPoint `json:"data"`
	PeriodDays int                  `json:"period_days"`
}

type ThreadsByContextBucket struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

type ThreadsByContextResponse struct {
	Data       []ThreadsByContextBucket `json:"data"`
	PeriodDays int                      `json:"period_days"`
}

type ThreadsGrowthPoint struct {
	Date       string `json:"date"`
	Daily      int    `json:"daily"`
	Cumulative int    `json:"cumulative"`
}

type ThreadsGrowthResponse struct {
	Data       []ThreadsGrowthPoint `json:"data"`
	PeriodDays int                  `json:"period_days"`
}

type TopThreadRow struct {
	Id           int    `json:"id"`
	Subject      string `json:"subject"`
	MessageCount int    `json:"message_count"`
	CreatedAt    string `json:"created_at"`
	UpdatedAt    string `json:"updated_at"`
}

type TopThreadsResponse struct {
	Data       []TopThreadRow `json:"data"`
	Limit      int            `json:"limit"`
	PeriodDays int            `json:"period_days"`
}

type DirectivesUsageResponse struct {
	TotalThreads              int     `json:"total_threads"`
	ThreadsWithDirectives     int     `json:"threads_with_directives"`
	ThreadsWithCustomPrompt   int     `json:"threads_with_custom_prompt"`
	DirectivesUsagePercentage float64 `json:"directives_usage_percentage"`
	PeriodDays                int     `json:"period_days"`
}
