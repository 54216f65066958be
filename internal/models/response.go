package models

// Response is the envelope every API endpoint answers with.
type Response struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
	Message string `json:"message,omitempty"`
}

func ErrorResponse(msg string) Response {
	return Response{Success: false, Error: msg}
}

type HealthResponse struct {
	Status    string `json:"status,omitempty"`
	Timestamp string `json:"timestamp,omitempty"`
}

type AuthResult struct {
	User  Profile `json:"user"`
	Token string  `json:"token"`
}

type ProfileResult struct {
	User Profile `json:"user"`
}

type BulkMoveRequest struct {
	TaskIDs  []string `json:"taskIds"`
	Quadrant Quadrant `json:"quadrant"`
}
