// Package models contains data structures for the application's domain models.
package models

import (
	"fmt"
	"time"
	"unicode/utf8"

	"gorm.io/gorm"
)

// ConnectionStatus represents the status of a connection request.
type ConnectionStatus string

const (
	// ConnectionStatusPending indicates a request awaiting the recipient's decision.
	ConnectionStatusPending ConnectionStatus = "pending"
	// ConnectionStatusAccepted indicates an accepted request. Terminal.
	ConnectionStatusAccepted ConnectionStatus = "accepted"
	// ConnectionStatusDeclined indicates a declined request. Terminal.
	ConnectionStatusDeclined ConnectionStatus = "declined"
)

// MaxMessageLength bounds the free-text annotation on a request, in runes.
const MaxMessageLength = 500

// DefaultConnectMessage is used when a caller sends a request without a message.
const DefaultConnectMessage = "Hey! I'd love to connect and maybe hang out sometime! 👋"

// IsTerminal reports whether no further transition is allowed from s.
func (s ConnectionStatus) IsTerminal() bool {
	return s == ConnectionStatusAccepted || s == ConnectionStatusDeclined
}

// IsDecision reports whether s is a valid outcome for resolving a request.
func (s ConnectionStatus) IsDecision() bool {
	return s.IsTerminal()
}

// ConnectionRequest is a request from one user to connect with another.
type ConnectionRequest struct {
	ID          uint             `gorm:"primaryKey" json:"id" bson:"_id"`
	InitiatorID uint             `gorm:"not null;index:idx_connection_requests_initiator" json:"initiator_id" bson:"initiator_id"`
	RecipientID uint             `gorm:"not null;index:idx_connection_requests_recipient_status,priority:1" json:"recipient_id" bson:"recipient_id"`
	PairKey     string           `gorm:"size:64;not null;index" json:"-" bson:"pair_key"`
	Status      ConnectionStatus `gorm:"type:varchar(20);not null;default:'pending';index:idx_connection_requests_recipient_status,priority:2" json:"status" bson:"status"`
	Message     string           `gorm:"type:text" json:"message,omitempty" bson:"message,omitempty"`
	CreatedAt   time.Time        `gorm:"index" json:"created_at" bson:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at" bson:"updated_at"`
	ResolvedAt  *time.Time       `json:"resolved_at,omitempty" bson:"resolved_at,omitempty"`
}

// TableName specifies the table name for GORM
func (ConnectionRequest) TableName() string {
	return "connection_requests"
}

// BeforeCreate derives the unordered pair key from the two participants.
func (r *ConnectionRequest) BeforeCreate(_ *gorm.DB) error {
	r.PairKey = PairKey(r.InitiatorID, r.RecipientID)
	return nil
}

// Involves reports whether userID is one side of the request.
func (r *ConnectionRequest) Involves(userID uint) bool {
	return r.InitiatorID == userID || r.RecipientID == userID
}

// Counterpart returns the other participant from userID's point of view.
func (r *ConnectionRequest) Counterpart(userID uint) uint {
	if r.InitiatorID == userID {
		return r.RecipientID
	}
	return r.InitiatorID
}

// PairKey returns the order-independent key for a pair of users.
func PairKey(a, b uint) string {
	if a > b {
		a, b = b, a
	}
	return fmt.Sprintf("%d:%d", a, b)
}

// ValidateMessage checks the optional annotation attached to a new request.
func ValidateMessage(message string) error {
	if utf8.RuneCountInString(message) > MaxMessageLength {
		return NewValidationError(fmt.Sprintf("Message must be at most %d characters", MaxMessageLength))
	}
	return nil
}
