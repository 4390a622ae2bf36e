package api

import "context"

// ContactMessage is the payload of the contact form.
type ContactMessage struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Subject string `json:"subject,omitempty"`
	Message string `json:"message"`
}

// SendContactMessage submits a contact-form message.
func (c *Client) SendContactMessage(ctx context.Context, msg ContactMessage) error {
	_, err := c.post(ctx, "/contact", msg)
	return err
}
