package domain

// SaveRequest is the body of POST /api/save
type SaveRequest struct {
	Username string        `json:"username"`
	Data     *ClientRecord `json:"data"`
}

// SaveResponse is returned by POST /api/save. Message is shown to the user verbatim.
type SaveResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// LoadResponse is returned by GET /api/load/:username
type LoadResponse struct {
	Success bool          `json:"success"`
	Data    *ClientRecord `json:"data,omitempty"`
	Message string        `json:"message,omitempty"`
}

// User-facing gateway messages
const (
	MsgSaved          = "Your briefing was saved successfully"
	MsgIncomplete     = "Request is missing username or data"
	MsgSaveFailed     = "Server error while saving"
	MsgLoadFailed     = "Server error while loading"
	MsgUserNotFound   = "No briefing found for this user"
	MsgUnsavedChanges = "You have unsaved changes. Save your briefing before signing out."
)
