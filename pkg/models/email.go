package models

// SendEmailRequest is the payload accepted by the notification gateway
type SendEmailRequest struct {
	UserID string `json:"userId" binding:"required"`
	Email  string `json:"email" binding:"required,email"`
}

// EmailServiceResponse is the body returned by the notification gateway
type EmailServiceResponse struct {
	Success bool   `json:"success"`
	TaskID  string `json:"taskId,omitempty"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

// EmailTask is one queued welcome email
type EmailTask struct {
	ID     string
	UserID string
	Email  string
}

// EmailTaskResult is what the dispatcher records after a send attempt
type EmailTaskResult struct {
	Success   bool   `json:"success"`
	MessageID string `json:"messageId,omitempty"`
	Email     string `json:"email"`
	UserID    string `json:"userId"`
	Mode      string `json:"mode,omitempty"`
	Error     string `json:"error,omitempty"`
}
