package stella

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/sarmeyer/solstice-sky-viewer/internal/sky"
)

// DefaultPersona is the production preamble handed to the completion
// collaborator ahead of the grounding data.
const DefaultPersona = "You are Stella, a warm and knowledgeable backyard-astronomy guide. " +
	"Answer only from the list of objects visible tonight given below. " +
	"Keep replies short, friendly, and concrete; suggest what to look at and when. " +
	"If asked about something not in the list, say it is not visible tonight."

var dateRe = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// Completer is the opaque text-completion collaborator: grounding context
// in, reply text out.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// Service turns a validated chat request into a grounded reply.
type Service struct {
	completer Completer
	persona   string
}

func NewService(completer Completer, persona string) *Service {
	return &Service{completer: completer, persona: persona}
}

// Reply validates the request, builds the grounding context, and delegates
// to the completion collaborator. Every error it returns is a *Error.
func (s *Service) Reply(ctx context.Context, req ChatRequest) (*ChatReply, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	reply, err := s.completer.Complete(ctx, s.buildContext(req))
	if err != nil {
		return nil, &Error{
			Code:    CodeModelError,
			Status:  502,
			Message: "completion failed: " + err.Error(),
		}
	}
	if strings.TrimSpace(reply) == "" {
		return nil, &Error{
			Code:    CodeModelError,
			Status:  502,
			Message: "completion returned an empty reply",
		}
	}

	out := &ChatReply{Reply: reply}
	if id, ok := suggestedObject(req.Objects); ok {
		out.Meta = &Meta{SuggestedObjectID: id}
	}
	return out, nil
}

// validateRequest checks fields in a fixed order and short-circuits on the
// first failure: location, date, objects, messages, user-message presence,
// then per-message role and content.
func validateRequest(req ChatRequest) *Error {
	if strings.TrimSpace(req.Location) == "" {
		return badRequest("location must be a non-blank string")
	}
	if !dateRe.MatchString(req.Date) {
		return badRequest("date must match YYYY-MM-DD")
	}
	if len(req.Objects) == 0 {
		return badRequest("objects must be a non-empty list")
	}
	if len(req.Messages) == 0 {
		return badRequest("messages must be a non-empty list")
	}

	hasUser := false
	for _, m := range req.Messages {
		if m.Role == RoleUser {
			hasUser = true
			break
		}
	}
	if !hasUser {
		return badRequest("messages must contain at least one user message")
	}

	for i, m := range req.Messages {
		if m.Role != RoleUser && m.Role != RoleAssistant {
			return badRequest(fmt.Sprintf("message %d has invalid role %q", i, m.Role))
		}
		if strings.TrimSpace(m.Content) == "" {
			return badRequest(fmt.Sprintf("message %d has blank content", i))
		}
	}

	return nil
}

func badRequest(message string) *Error {
	return &Error{Code: CodeBadRequest, Status: 400, Message: message}
}

// buildContext renders the persona, the object list, and the conversation
// into the single grounding prompt the collaborator consumes.
func (s *Service) buildContext(req ChatRequest) string {
	var b strings.Builder

	b.WriteString(s.persona)
	b.WriteString("\n\n")

	fmt.Fprintf(&b, "Location: %s\nDate: %s\n\nObjects visible tonight:\n", req.Location, req.Date)
	for _, o := range req.Objects {
		fmt.Fprintf(&b, "- %s (%s, visibility: %s) – %s\n", o.Name, o.Type, o.Visibility, o.Note)
	}

	b.WriteString("\nConversation so far:\n")
	for _, m := range req.Messages {
		label := "User"
		if m.Role == RoleAssistant {
			label = "Stella"
		}
		fmt.Fprintf(&b, "%s: %s\n", label, m.Content)
	}

	return b.String()
}

// suggestedObject picks the first object in request order whose visibility
// is good.
func suggestedObject(objects []sky.SkyObject) (string, bool) {
	for _, o := range objects {
		if o.Visibility == sky.VisibilityGood {
			return o.ID, true
		}
	}
	return "", false
}
