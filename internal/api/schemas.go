package api

type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
	UptimeS int64  `json:"uptime_s"`
}

type ProjectResponse struct {
	Name string `json:"name"`
}

type ProjectsResponse struct {
	Projects []ProjectResponse `json:"projects"`
}

type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}
