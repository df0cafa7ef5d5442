package mailer

// EmailJob is the JSON payload put on the RabbitMQ queue.
// Template jobs carry Data for the named layout; raw jobs carry Subject
// plus Text and/or HTML.
type EmailJob struct {
	To       string         `json:"to"`
	Subject  string         `json:"subject,omitempty"`
	Text     string         `json:"text,omitempty"`
	HTML     string         `json:"html,omitempty"`
	Template string         `json:"template,omitempty"` // "universal"
	Data     map[string]any `json:"data,omitempty"`
}
