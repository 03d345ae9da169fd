package dto

// Caller is the authenticated identity attached to a request.
type Caller struct {
	UserID string
	Role   string
}
