package model

import "time"

type Channel string

const (
	ChannelWeb      Channel = "web"
	ChannelTelegram Channel = "telegram"
	ChannelCLI      Channel = "cli"
)

// Turn is one persisted exchange line. Only user text and final assistant
// replies are stored; tool traffic stays inside a single ProcessMessage call.
type Turn struct {
	Role    string    `json:"role"`
	Name    string    `json:"name,omitempty"`
	Content string    `json:"content"`
	At      time.Time `json:"at"`
}

type Conversation struct {
	ID         int64     `json:"id"`
	Channel    Channel   `json:"channel"`
	ExternalID string    `json:"external_id"`
	Turns      []Turn    `json:"turns"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
