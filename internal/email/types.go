package email

// Email represents one outgoing message.
type Email struct {
	From     string
	To       []string
	Subject  string
	Body     string
	HTMLBody string
}

// TemplateData holds values for message templates.
type TemplateData map[string]interface{}
