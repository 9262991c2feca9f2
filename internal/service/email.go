package service

import (
	"context"
)

// EmailAddress is a name/address pair on the transactional wire.
type EmailAddress struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

// SendEmailRequest are the arguments for SendEmail. Either TemplateID
// or one of HTMLContent/TextContent must be provided.
type SendEmailRequest struct {
	To          []EmailAddress `json:"to"`
	Sender      *EmailAddress  `json:"sender,omitempty"`
	Subject     string         `json:"subject,omitempty"`
	HTMLContent string         `json:"htmlContent,omitempty"`
	TextContent string         `json:"textContent,omitempty"`
	TemplateID  int            `json:"templateId,omitempty"`
	ReplyTo     *EmailAddress  `json:"replyTo,omitempty"`
	Params      map[string]any `json:"params,omitempty"`
	Tags        []string       `json:"tags,omitempty"`
}

type sendEmailResponse struct {
	MessageID string `json:"messageId"`
}

// SendResult reports a successfully queued transactional message.
type SendResult struct {
	MessageID string   `json:"messageId"`
	Status    string   `json:"status"`
	To        []string `json:"to"`
	Subject   string   `json:"subject"`
}

// SendEmail queues a transactional email through /smtp/email.
func (s *Service) SendEmail(ctx context.Context, req SendEmailRequest) (*SendResult, error) {
	if len(req.To) == 0 {
		return nil, validationErr("to", "at least one recipient is required")
	}
	for _, rcpt := range req.To {
		if rcpt.Email == "" {
			return nil, validationErr("to", "recipient email must not be empty")
		}
	}
	if req.TemplateID <= 0 && req.HTMLContent == "" && req.TextContent == "" {
		return nil, validationErr("content", "templateId, htmlContent or textContent is required")
	}

	payload := map[string]any{"to": req.To}
	if req.Sender != nil {
		payload["sender"] = req.Sender
	}
	if req.Subject != "" {
		payload["subject"] = req.Subject
	}
	if req.HTMLContent != "" {
		payload["htmlContent"] = req.HTMLContent
	}
	if req.TextContent != "" {
		payload["textContent"] = req.TextContent
	}
	if req.TemplateID > 0 {
		payload["templateId"] = req.TemplateID
	}
	if req.ReplyTo != nil {
		payload["replyTo"] = req.ReplyTo
	}
	if len(req.Params) > 0 {
		payload["params"] = req.Params
	}
	if len(req.Tags) > 0 {
		payload["tags"] = req.Tags
	}

	var resp sendEmailResponse
	if err := s.client.Post(ctx, "/smtp/email", payload, &resp); err != nil {
		return nil, err
	}

	to := make([]string, 0, len(req.To))
	for _, rcpt := range req.To {
		to = append(to, rcpt.Email)
	}
	subject := req.Subject
	if subject == "" {
		subject = "Template-based email"
	}

	s.logger.Info("transactional email queued", "messageId", resp.MessageID, "recipients", len(to))

	return &SendResult{
		MessageID: resp.MessageID,
		Status:    "sent",
		To:        to,
		Subject:   subject,
	}, nil
}
