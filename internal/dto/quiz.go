package dto

// DocumentResponse represents a playable quiz document in the API response
type DocumentResponse struct {
	Name        string `json:"name"`
	DisplayName string `json:"display_name"`
	Questions   int    `json:"questions"`
	Sets        int    `json:"sets"`
}

// QuestionResponse represents the currently presented question. The correct
// label and explanation are never included here; they are only revealed
// through AnswerResponse after a correct submission.
type QuestionResponse struct {
	ID      string            `json:"id"`
	Ordinal int               `json:"ordinal"`
	Prompt  string            `json:"prompt"`
	Options map[string]string `json:"options"`
}

// StartSessionRequest represents the request body for starting a quiz session
type StartSessionRequest struct {
	Document string `json:"document"`
	Mode     string `json:"mode"`
	SetIndex int    `json:"set_index"`
}

// SessionStateResponse represents the live state of a quiz session
type SessionStateResponse struct {
	SessionID string            `json:"session_id"`
	Document  string            `json:"document"`
	Mode      string            `json:"mode"`
	State     string            `json:"state"`
	Position  int               `json:"position"`
	Total     int               `json:"total"`
	Question  *QuestionResponse `json:"question,omitempty"`
}

// SubmitAnswerRequest represents a player's answer in the API request
type SubmitAnswerRequest struct {
	Label string `json:"label"`
}

// SubmitAnswerResponse represents the grading result in the API response
type SubmitAnswerResponse struct {
	Correct     bool   `json:"correct"`
	FirstTry    bool   `json:"first_try"`
	Message     string `json:"message"`
	Explanation string `json:"explanation,omitempty"`
}

// SummaryResponse represents the end-of-session tallies
type SummaryResponse struct {
	SessionID       string `json:"session_id"`
	Document        string `json:"document"`
	Mode            string `json:"mode"`
	Attempted       int    `json:"attempted"`
	Correct         int    `json:"correct"`
	FirstTryCorrect int    `json:"first_try_correct"`
	MissedCount     int    `json:"missed_count"`
}

// ErrorResponse represents an error in the API response
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
