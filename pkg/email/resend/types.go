package resend

// Message is one outgoing transactional email. Both a plain-text and an
// HTML body are sent so every mail client renders something readable.
type Message struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html,omitempty"`
	Text    string   `json:"text,omitempty"`
}

// SendResponse is the Resend API response for a dispatched message.
type SendResponse struct {
	ID string `json:"id"`
}

type apiError struct {
	Name    string `json:"name"`
	Message string `json:"message"`
}
