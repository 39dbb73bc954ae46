package models

import "time"

// Notification is the inbox view of one pending inbound connection request.
// It is rebuilt on every poll cycle and never stored.
type Notification struct {
	SourceRequestID   uint      `json:"source_request_id"`
	SenderID          uint      `json:"sender_id"`
	SenderDisplayName string    `json:"sender_display_name"`
	SenderAvatarRef   string    `json:"sender_avatar_ref,omitempty"`
	Message           string    `json:"message,omitempty"`
	CreatedAt         time.Time `json:"created_at"`
}

// NewNotification builds the view of req as seen by its recipient.
func NewNotification(req ConnectionRequest, sender Profile) Notification {
	return Notification{
		SourceRequestID:   req.ID,
		SenderID:          req.InitiatorID,
		SenderDisplayName: sender.DisplayName,
		SenderAvatarRef:   sender.ProfileImage,
		Message:           req.Message,
		CreatedAt:         req.CreatedAt,
	}
}
