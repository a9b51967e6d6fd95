package domain

import (
	"encoding/json"
	"time"
)

// InteractionStatus is the workflow state of an interaction.
type InteractionStatus string

const (
	StatusNew                InteractionStatus = "new"
	StatusInProgress         InteractionStatus = "in_progress"
	StatusWaitingForResponse InteractionStatus = "waiting_for_response"
	StatusResolved           InteractionStatus = "resolved"
	StatusClosed             InteractionStatus = "closed"
)

// ValidStatus reports whether s is one of the known workflow states.
func ValidStatus(s InteractionStatus) bool {
	switch s {
	case StatusNew, StatusInProgress, StatusWaitingForResponse, StatusResolved, StatusClosed:
		return true
	}
	return false
}

// InteractionChannel is the origin channel of an interaction.
type InteractionChannel string

const (
	ChannelWhatsApp InteractionChannel = "whatsapp"
	ChannelTwitter  InteractionChannel = "twitter"
	ChannelFacebook InteractionChannel = "facebook"
	ChannelEmail    InteractionChannel = "email"
)

// ValidChannel reports whether c is one of the known channels.
func ValidChannel(c InteractionChannel) bool {
	switch c {
	case ChannelWhatsApp, ChannelTwitter, ChannelFacebook, ChannelEmail:
		return true
	}
	return false
}

// Interaction is a persisted customer interaction row. Created by a
// single insert, mutated only via status updates.
type Interaction struct {
	ID                   int64              `json:"id"`
	Channel              InteractionChannel `json:"channel"`
	ChannelInteractionID string             `json:"channel_interaction_id"`
	UserIdentifier       string             `json:"user_identifier"`
	Status               InteractionStatus  `json:"status"`
	CreatedAt            time.Time          `json:"created_at"`
	UpdatedAt            time.Time          `json:"updated_at"`
	OriginalCreatedAt    *time.Time         `json:"original_created_at,omitempty"`
	LastReplyCreatedAt   *time.Time         `json:"last_reply_created_at,omitempty"`
	LastReplyDirection   *string            `json:"last_reply_direction,omitempty"`
	FrontendJSON         json.RawMessage    `json:"frontend_json,omitempty"`
	Text                 string             `json:"text"`
	SortKey              int64              `json:"sort_key"`
	TenantID             string             `json:"tenant_id"`
}

// CreateInteractionRequest carries the caller-supplied fields for a
// new interaction. The store assigns id, status, timestamps and sort key.
type CreateInteractionRequest struct {
	Channel              InteractionChannel `json:"channel"`
	ChannelInteractionID string             `json:"channel_interaction_id"`
	UserIdentifier       string             `json:"user_identifier"`
	Text                 string             `json:"text"`
	FrontendJSON         json.RawMessage    `json:"frontend_json,omitempty"`
	OriginalCreatedAt    *time.Time         `json:"original_created_at,omitempty"`
}

// InteractionFilter narrows List queries. Zero values match everything.
type InteractionFilter struct {
	Channel InteractionChannel
	Status  InteractionStatus
}
