package tools

import "encoding/json"

// Definition describes one exposed tool: its protocol name, the
// description shown to clients and the JSON schema of its input.
type Definition struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	InputSchema json.RawMessage `json:"inputSchema"`
}

// Catalogue returns the full tool catalogue in a stable order.
func Catalogue() []Definition {
	return []Definition{
		{
			Name:        "get_account_info",
			Description: "Get Brevo account details including plan, credits and enabled features",
			InputSchema: json.RawMessage(`{
				"type": "object",
				"properties": {},
				"additionalProperties": false
			}`),
		},
		{
			Name:        "get_contacts",
			Description: "List contacts, or look up a single contact by email address",
			InputSchema: json.RawMessage(`{
				"type": "object",
				"properties": {
					"limit": {"type": "integer", "description": "Maximum number of contacts to return (default 50, max 1000)"},
					"offset": {"type": "integer", "description": "Number of contacts to skip"},
					"email": {"type": "string", "description": "Fetch a single contact by email address"}
				},
				"additionalProperties": false
			}`),
		},
		{
			Name:        "send_email",
			Description: "Send a transactional email to one or more recipients",
			InputSchema: json.RawMessage(`{
				"type": "object",
				"properties": {
					"to": {
						"type": "array",
						"items": {
							"type": "object",
							"properties": {
								"email": {"type": "string"},
								"name": {"type": "string"}
							},
							"required": ["email"]
						},
						"description": "Recipient list"
					},
					"sender": {
						"type": "object",
						"properties": {
							"email": {"type": "string"},
							"name": {"type": "string"}
						}
					},
					"subject": {"type": "string"},
					"htmlContent": {"type": "string"},
					"textContent": {"type": "string"},
					"templateId": {"type": "integer"},
					"replyTo": {
						"type": "object",
						"properties": {
							"email": {"type": "string"},
							"name": {"type": "string"}
						}
					},
					"params": {"type": "object", "description": "Template substitution parameters"},
					"tags": {"type": "array", "items": {"type": "string"}, "description": "Message tags for tracking"}
				},
				"required": ["to"],
				"additionalProperties": false
			}`),
		},
		{
			Name:        "get_email_campaigns",
			Description: "List email campaigns with optional type and status filters",
			InputSchema: json.RawMessage(`{
				"type": "object",
				"properties": {
					"type": {"type": "string", "enum": ["classic", "trigger"], "description": "Campaign type (default classic)"},
					"status": {"type": "string", "enum": ["suspended", "archive", "sent", "queued", "draft", "inProcess"]},
					"limit": {"type": "integer", "description": "Maximum number of campaigns to return (default 50, max 1000)"},
					"offset": {"type": "integer"}
				},
				"additionalProperties": false
			}`),
		},
		{
			Name:        "get_campaign_analytics",
			Description: "Get delivery and engagement statistics for one campaign",
			InputSchema: json.RawMessage(`{
				"type": "object",
				"properties": {
					"campaignId": {"type": "integer", "description": "Campaign identifier"}
				},
				"required": ["campaignId"],
				"additionalProperties": false
			}`),
		},
		{
			Name:        "get_campaigns_performance",
			Description: "Compare performance across sent campaigns with aggregate rates and top performers",
			InputSchema: json.RawMessage(`{
				"type": "object",
				"properties": {
					"limit": {"type": "integer", "description": "Maximum number of campaigns to analyze (default 50)"},
					"startDate": {"type": "string", "description": "Earliest sent date to include (YYYY-MM-DD)"},
					"endDate": {"type": "string", "description": "Latest sent date to include (YYYY-MM-DD)"},
					"status": {"type": "string", "description": "Campaign status to analyze (default sent)"},
					"includeStats": {"type": "boolean", "description": "Include per-campaign counters in each row (default true)"}
				},
				"additionalProperties": false
			}`),
		},
		{
			Name:        "get_contact_analytics",
			Description: "Get engagement history and classification for a single contact",
			InputSchema: json.RawMessage(`{
				"type": "object",
				"properties": {
					"contactId": {"type": "integer", "description": "Contact identifier"},
					"email": {"type": "string", "description": "Contact email address (alternative to contactId)"},
					"campaignLimit": {"type": "integer", "description": "Number of recent campaign events to analyze"}
				},
				"additionalProperties": false
			}`),
		},
		{
			Name:        "get_analytics_summary",
			Description: "Get an account-wide analytics summary over a reporting period",
			InputSchema: json.RawMessage(`{
				"type": "object",
				"properties": {
					"period": {"type": "string", "enum": ["today", "yesterday", "last7days", "last30days", "custom"], "description": "Reporting period (default last7days)"},
					"startDate": {"type": "string", "description": "Start date for custom period (YYYY-MM-DD)"},
					"endDate": {"type": "string", "description": "End date for custom period (YYYY-MM-DD)"},
					"compareWithPrevious": {"type": "boolean", "description": "Include percentage changes against the preceding period"}
				},
				"additionalProperties": false
			}`),
		},
		{
			Name:        "get_campaign_recipients",
			Description: "List campaign recipients, falling back to campaign statistics when recipient detail is unavailable",
			InputSchema: json.RawMessage(`{
				"type": "object",
				"properties": {
					"campaignId": {"type": "integer", "description": "Campaign identifier"},
					"notOpened": {"type": "boolean", "description": "Only recipients who did not open"},
					"notClicked": {"type": "boolean", "description": "Only recipients who did not click"}
				},
				"required": ["campaignId"],
				"additionalProperties": false
			}`),
		},
		{
			Name:        "create_email_campaign",
			Description: "Create a draft email campaign; the sender is resolved from existing campaigns when omitted",
			InputSchema: json.RawMessage(`{
				"type": "object",
				"properties": {
					"name": {"type": "string"},
					"subject": {"type": "string"},
					"sender": {
						"type": "object",
						"properties": {
							"email": {"type": "string"},
							"name": {"type": "string"}
						}
					},
					"htmlContent": {"type": "string"},
					"templateId": {"type": "integer"},
					"listIds": {"type": "array", "items": {"type": "integer"}},
					"scheduledAt": {"type": "string", "description": "ISO 8601 timestamp for scheduled delivery"},
					"tag": {"type": "string"}
				},
				"required": ["name", "subject"],
				"additionalProperties": false
			}`),
		},
		{
			Name:        "update_email_campaign",
			Description: "Update fields of a draft email campaign",
			InputSchema: json.RawMessage(`{
				"type": "object",
				"properties": {
					"campaignId": {"type": "integer"},
					"name": {"type": "string"},
					"subject": {"type": "string"},
					"sender": {
						"type": "object",
						"properties": {
							"email": {"type": "string"},
							"name": {"type": "string"}
						}
					},
					"htmlContent": {"type": "string"},
					"listIds": {"type": "array", "items": {"type": "integer"}},
					"scheduledAt": {"type": "string"},
					"tag": {"type": "string"}
				},
				"required": ["campaignId"],
				"additionalProperties": false
			}`),
		},
		{
			Name:        "send_campaign_now",
			Description: "Trigger immediate delivery of a draft campaign",
			InputSchema: json.RawMessage(`{
				"type": "object",
				"properties": {
					"campaignId": {"type": "integer"}
				},
				"required": ["campaignId"],
				"additionalProperties": false
			}`),
		},
		{
			Name:        "send_test_email",
			Description: "Send a campaign preview to test recipients",
			InputSchema: json.RawMessage(`{
				"type": "object",
				"properties": {
					"campaignId": {"type": "integer"},
					"emailTo": {"type": "array", "items": {"type": "string"}, "description": "Test recipient addresses; defaults to the account test list"}
				},
				"required": ["campaignId"],
				"additionalProperties": false
			}`),
		},
		{
			Name:        "update_campaign_status",
			Description: "Change a campaign's status",
			InputSchema: json.RawMessage(`{
				"type": "object",
				"properties": {
					"campaignId": {"type": "integer"},
					"status": {"type": "string", "enum": ["suspended", "archive", "darchive", "sent", "queued", "replicate"]}
				},
				"required": ["campaignId", "status"],
				"additionalProperties": false
			}`),
		},
		{
			Name:        "get_shared_template_url",
			Description: "Get the shareable public preview URL of a campaign",
			InputSchema: json.RawMessage(`{
				"type": "object",
				"properties": {
					"campaignId": {"type": "integer"}
				},
				"required": ["campaignId"],
				"additionalProperties": false
			}`),
		},
	}
}
