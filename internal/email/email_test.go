package email

import (
	"strings"
	"testing"

	"storefront/internal/config"
)

func TestNewService(t *testing.T) {
	tests := []struct {
		name        string
		cfg         *config.Config
		wantEnabled bool
	}{
		{
			name: "enabled when all SMTP settings configured",
			cfg: &config.Config{
				SMTPEnabled: true,
				SMTPHost:    "smtp.example.com",
				SMTPPort:    587,
				SMTPFrom:    "noreply@example.com",
			},
			wantEnabled: true,
		},
		{
			name: "disabled when SMTPEnabled is false",
			cfg: &config.Config{
				SMTPHost: "smtp.example.com",
				SMTPPort: 587,
				SMTPFrom: "noreply@example.com",
			},
			wantEnabled: false,
		},
		{
			name: "disabled when SMTPHost is empty",
			cfg: &config.Config{
				SMTPEnabled: true,
				SMTPPort:    587,
				SMTPFrom:    "noreply@example.com",
			},
			wantEnabled: false,
		},
		{
			name:        "disabled with empty config",
			cfg:         &config.Config{},
			wantEnabled: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewService(tt.cfg)
			if svc.IsEnabled() != tt.wantEnabled {
				t.Errorf("IsEnabled() = %v, want %v", svc.IsEnabled(), tt.wantEnabled)
			}
		})
	}
}

func TestService_Send_Disabled(t *testing.T) {
	svc := NewService(&config.Config{})

	if err := svc.Send([]string{"test@example.com"}, "Test", "<p>HTML</p>", "Text"); err != nil {
		t.Errorf("Send() with disabled service = %v, want nil", err)
	}
}

func TestService_Send_NoRecipients(t *testing.T) {
	svc := NewService(&config.Config{
		SMTPEnabled: true,
		SMTPHost:    "smtp.example.com",
		SMTPPort:    587,
		SMTPFrom:    "noreply@example.com",
	})

	if err := svc.Send(nil, "Test", "<p>HTML</p>", "Text"); err != nil {
		t.Errorf("Send() with no recipients = %v, want nil", err)
	}
}

func TestService_BuildMessage(t *testing.T) {
	svc := NewService(&config.Config{
		SMTPEnabled:  true,
		SMTPHost:     "smtp.example.com",
		SMTPFrom:     "noreply@example.com",
		SMTPFromName: "IWB Storefront",
	})

	tests := []struct {
		name     string
		htmlBody string
		textBody string
		wantHTML bool
		wantText bool
	}{
		{"both parts", "<p>HTML content</p>", "Text content", true, true},
		{"HTML only", "<p>HTML content</p>", "", true, false},
		{"text only", "", "Text content", false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := svc.buildMessage([]string{"a@example.com", "b@example.com"}, "Hello", tt.htmlBody, tt.textBody)

			if !strings.Contains(msg, "From: IWB Storefront <noreply@example.com>\r\n") {
				t.Error("buildMessage() missing From header with display name")
			}
			if !strings.Contains(msg, "To: a@example.com, b@example.com\r\n") {
				t.Error("buildMessage() missing To header")
			}
			if got := strings.Contains(msg, "Content-Type: text/html"); got != tt.wantHTML {
				t.Errorf("buildMessage() has HTML part = %v, want %v", got, tt.wantHTML)
			}
			if got := strings.Contains(msg, "Content-Type: text/plain"); got != tt.wantText {
				t.Errorf("buildMessage() has text part = %v, want %v", got, tt.wantText)
			}
			if !strings.HasSuffix(msg, "--"+boundary+"--\r\n") {
				t.Error("buildMessage() missing closing boundary")
			}
		})
	}
}

func TestService_FromHeader(t *testing.T) {
	tests := []struct {
		name     string
		fromName string
		want     string
	}{
		{"with display name", "IWB Storefront", "IWB Storefront <noreply@example.com>"},
		{"without display name", "", "noreply@example.com"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &Service{cfg: &config.Config{SMTPFrom: "noreply@example.com", SMTPFromName: tt.fromName}}
			if got := svc.fromHeader(); got != tt.want {
				t.Errorf("fromHeader() = %q, want %q", got, tt.want)
			}
		})
	}
}
