package email

import (
	"context"
	"log"

	"storefront/internal/config"
	"storefront/internal/models"
)

// Notifier sends customer notifications for query events.
type Notifier struct {
	service   *Service
	templates *Templates
	cfg       *config.Config
}

// NewNotifier creates a new email notifier.
func NewNotifier(cfg *config.Config) *Notifier {
	return &Notifier{
		service:   NewService(cfg),
		templates: NewTemplates(cfg),
		cfg:       cfg,
	}
}

// NotifyQueryResolved mails the customer the response applied to their query.
func (n *Notifier) NotifyQueryResolved(_ context.Context, q *models.Query) {
	if !n.service.IsEnabled() || !n.cfg.EmailNotifyCustomerOnResolve {
		return
	}

	if q.Email == "" {
		log.Printf("Query %s has no email address, skipping notification", q.ID)
		return
	}

	subject, htmlBody, textBody := n.templates.QueryResolved(q)
	n.service.SendAsync([]string{q.Email}, subject, htmlBody, textBody)
}
