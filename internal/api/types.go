// Package api is the gateway to the Codify backend. It is the only
// package that performs network I/O; every call either returns a typed
// payload or fails with *APIError.
package api

import "time"

// User is the authenticated identity record.
type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
}

// LoginRequest is the credentials payload for /api/auth/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterRequest is the payload for /api/auth/register.
type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse is returned by login and register.
type AuthResponse struct {
	User  User   `json:"user"`
	Token string `json:"token"`
}

// UpdateProfileRequest carries partial profile fields for PUT /api/auth/profile.
type UpdateProfileRequest struct {
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
}

// ChangePasswordRequest is the payload for /api/auth/change-password.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

// ChatRequest is the payload for /api/ai/chat. ThreadID is empty on the
// first message of a conversation; afterwards it carries the backend's
// correlation id so the service keeps its own context.
type ChatRequest struct {
	Message  string `json:"message"`
	ThreadID string `json:"threadId,omitempty"`
}

// ChatResponse is the assistant's reply.
type ChatResponse struct {
	Message  string `json:"message"`
	ThreadID string `json:"threadId"`
}

// CodeAnalysisRequest is the payload for /api/ai/review-text.
type CodeAnalysisRequest struct {
	Code     string `json:"code"`
	Filename string `json:"filename,omitempty"`
	ThreadID string `json:"threadId,omitempty"`
}

// UploadFile is one file for the multipart /api/ai/review-files call.
type UploadFile struct {
	Name    string
	Content []byte
}

// CodeIssue is a single finding in a backend review.
type CodeIssue struct {
	Type        string `json:"type"`     // bug, warning, suggestion, security
	Severity    string `json:"severity"` // low, medium, high, critical
	Line        int    `json:"line,omitempty"`
	Description string `json:"description"`
	Suggestion  string `json:"suggestion,omitempty"`
}

// CodeQuality holds the backend's quality sub-scores on a 1-10 scale.
type CodeQuality struct {
	Readability     int    `json:"readability"`
	Maintainability int    `json:"maintainability"`
	Complexity      string `json:"complexity"` // Low, Medium, High
}

// AnalyzedFile describes one file covered by a multi-file review.
type AnalyzedFile struct {
	Filename string `json:"filename"`
	Language string `json:"language"`
	Size     int    `json:"size"`
}

// CodeReviewResult is the backend's raw review payload, before the
// client-side transform into AnalysisResults.
type CodeReviewResult struct {
	Summary          string         `json:"summary"`
	Issues           []CodeIssue    `json:"issues"`
	Suggestions      []string       `json:"suggestions"`
	SecurityConcerns []string       `json:"securityConcerns"`
	CodeQuality      CodeQuality    `json:"codeQuality"`
	ThreadID         string         `json:"threadId"`
	FilesAnalyzed    []AnalyzedFile `json:"filesAnalyzed,omitempty"`
}

// LanguagesInfo describes the backend's supported upload formats.
type LanguagesInfo struct {
	SupportedExtensions []string `json:"supportedExtensions"`
	Languages           []struct {
		Extension string `json:"extension"`
		Language  string `json:"language"`
	} `json:"languages"`
	MaxFileSize string `json:"maxFileSize"`
	MaxFiles    int    `json:"maxFiles"`
}

// Guidelines describes the backend's review criteria.
type Guidelines struct {
	ReviewCriteria []string          `json:"reviewCriteria"`
	SeverityLevels map[string]string `json:"severityLevels"`
	IssueTypes     map[string]string `json:"issueTypes"`
	Tips           []string          `json:"tips"`
}

// RateLimitInfo is the backend's authoritative view of the caller's
// remaining quota.
type RateLimitInfo struct {
	Remaining int    `json:"remaining"`
	Total     int    `json:"total"`
	ResetAt   string `json:"resetAt,omitempty"`
	UserType  string `json:"userType,omitempty"`
}

// StatusInfo is the capability descriptor returned by the reachability
// check. It is static: the check only verifies the backend answers.
type StatusInfo struct {
	Status    string   `json:"status"`
	Version   string   `json:"version"`
	Endpoints []string `json:"endpoints"`
}

// HealthInfo is the live /health endpoint's body.
type HealthInfo struct {
	Status    string  `json:"status"`
	Timestamp string  `json:"timestamp"`
	Uptime    float64 `json:"uptime"`
}

// MessageResponse wraps endpoints that return only a human message
// (logout, change-password).
type MessageResponse struct {
	Message string `json:"message"`
}

// envelope is the generic backend response wrapper.
type envelope[T any] struct {
	Success bool   `json:"success"`
	Data    T      `json:"data"`
	Error   string `json:"error,omitempty"`
	Message string `json:"message,omitempty"`
}
