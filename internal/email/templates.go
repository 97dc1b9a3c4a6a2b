package email

import (
	"fmt"
	"html"
	"strings"

	"storefront/internal/config"
	"storefront/internal/models"
)

// Templates provides email template generation.
type Templates struct {
	cfg *config.Config
}

// NewTemplates creates a new templates instance.
func NewTemplates(cfg *config.Config) *Templates {
	return &Templates{cfg: cfg}
}

// baseHTML wraps content in a consistent HTML email template.
func (t *Templates) baseHTML(title, content string) string {
	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<head>
    <meta charset="utf-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>%s</title>
    <style>
        body { font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif; line-height: 1.6; color: #1f2937; max-width: 600px; margin: 0 auto; padding: 20px; }
        .header { background: #0f766e; color: white; padding: 20px; text-align: center; border-radius: 8px 8px 0 0; }
        .header h1 { margin: 0; font-size: 22px; }
        .content { background: #f9fafb; padding: 20px; border: 1px solid #e5e7eb; }
        .footer { background: #f3f4f6; padding: 15px; text-align: center; font-size: 12px; color: #6b7280; border-radius: 0 0 8px 8px; border: 1px solid #e5e7eb; border-top: none; }
        .quote { background: white; border-left: 4px solid #d1d5db; padding: 10px 15px; margin: 15px 0; color: #4b5563; }
        .answer { background: white; border: 1px solid #e5e7eb; border-radius: 6px; padding: 15px; margin: 15px 0; }
    </style>
</head>
<body>
    <div class="header">
        <h1>%s</h1>
    </div>
    <div class="content">
        %s
    </div>
    <div class="footer">
        <p>This email was sent by %s</p>
        <p><a href="%s">%s</a></p>
    </div>
</body>
</html>`, html.EscapeString(title), html.EscapeString(t.cfg.StoreName), content, html.EscapeString(t.cfg.StoreName), t.cfg.BaseURL, t.cfg.BaseURL)
}

// paragraphs escapes text and turns line breaks into <br>.
func paragraphs(text string) string {
	return strings.ReplaceAll(html.EscapeString(text), "\n", "<br>")
}

// QueryResolved generates the email sent to a customer when their query is answered.
func (t *Templates) QueryResolved(q *models.Query) (subject, htmlBody, textBody string) {
	subject = fmt.Sprintf("[%s] We have answered your query", t.cfg.StoreName)

	answer := ""
	if q.AutomatedResponse != nil {
		answer = *q.AutomatedResponse
	}

	name := q.Name
	if name == "" {
		name = "there"
	}

	content := fmt.Sprintf(`
        <p>Hi %s,</p>
        <p>Thank you for contacting us. You asked:</p>
        <div class="quote">%s</div>
        <p>Our answer:</p>
        <div class="answer">%s</div>
        <p>If this does not fully answer your question, reply to this email and a member of our team will follow up.</p>
    `,
		html.EscapeString(name),
		paragraphs(q.Message),
		paragraphs(answer),
	)

	htmlBody = t.baseHTML("Your query has been answered", content)

	textBody = fmt.Sprintf(`Hi %s,

Thank you for contacting us. You asked:

  %s

Our answer:

  %s

If this does not fully answer your question, reply to this email and a member of our team will follow up.

%s
%s
`, name, q.Message, answer, t.cfg.StoreName, t.cfg.BaseURL)

	return subject, htmlBody, textBody
}
