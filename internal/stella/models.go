package stella

import (
	"fmt"

	"github.com/sarmeyer/solstice-sky-viewer/internal/sky"
)

// Role identifies the speaker of one conversation turn.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// ChatMessage is one turn of the conversation. History is not kept
// server-side; the caller resends the full sequence on every request.
type ChatMessage struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// ChatRequest bundles the grounding data with the conversation so far.
type ChatRequest struct {
	Location string          `json:"location"`
	Date     string          `json:"date"`
	Objects  []sky.SkyObject `json:"objects"`
	Messages []ChatMessage   `json:"messages"`
}

// ChatReply is the success payload of the chat endpoint.
type ChatReply struct {
	Reply string `json:"reply"`
	Meta  *Meta  `json:"meta,omitempty"`
}

// Meta carries optional extras alongside the reply.
type Meta struct {
	SuggestedObjectID string `json:"suggestedObjectId,omitempty"`
}

// ErrorCode is the machine-readable failure code of the chat endpoint.
type ErrorCode string

const (
	CodeBadRequest    ErrorCode = "BAD_REQUEST"
	CodeModelError    ErrorCode = "MODEL_ERROR"
	CodeInternalError ErrorCode = "INTERNAL_ERROR"
)

// Error is the chat endpoint's flat, caller-facing failure taxonomy.
type Error struct {
	Code    ErrorCode
	Status  int
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}
