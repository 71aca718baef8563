package tui

import "time"

// Role identifies who wrote a chat entry.
type Role int

const (
	RoleUser Role = iota
	RoleAssistant
)

// Entry is one line of the conversation.
type Entry struct {
	Time    time.Time
	Content string
	Role    Role
}

// replyMsg carries the responder's answer back into Update.
type replyMsg struct {
	reply string
}
