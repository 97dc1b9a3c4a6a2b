package api

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"log/slog"

	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/session"
	"golang.org/x/oauth2"

	"storefront/internal/config"
	"storefront/internal/db"
	"storefront/internal/middleware"
	"storefront/internal/models"
)

// OIDCHandler handles staff single sign-on.
type OIDCHandler struct {
	provider     *oidc.Provider
	oauth2Config oauth2.Config
	verifier     *oidc.IDTokenVerifier
	db           *db.DB
	cfg          *config.Config
}

// NewOIDCHandler creates a new OIDC handler by discovering the issuer.
func NewOIDCHandler(ctx context.Context, cfg *config.Config, database *db.DB) (*OIDCHandler, error) {
	provider, err := oidc.NewProvider(ctx, cfg.OIDCIssuer)
	if err != nil {
		return nil, err
	}

	return &OIDCHandler{
		provider: provider,
		oauth2Config: oauth2.Config{
			ClientID:     cfg.OIDCClientID,
			ClientSecret: cfg.OIDCClientSecret,
			RedirectURL:  cfg.OIDCRedirectURL,
			Endpoint:     provider.Endpoint(),
			Scopes:       []string{oidc.ScopeOpenID, "profile", "email"},
		},
		verifier: provider.Verifier(&oidc.Config{ClientID: cfg.OIDCClientID}),
		db:       database,
		cfg:      cfg,
	}, nil
}

// Login initiates the OIDC login flow.
func (h *OIDCHandler) Login(c fiber.Ctx) error {
	sess := session.FromContext(c)
	if sess == nil {
		return jsonError(c, fiber.StatusInternalServerError, "session not available")
	}

	state := generateState()
	sess.Set("oauth_state", state)

	return c.Redirect().To(h.oauth2Config.AuthCodeURL(state))
}

// Callback handles the OIDC callback after authentication.
func (h *OIDCHandler) Callback(c fiber.Ctx) error {
	sess := session.FromContext(c)
	if sess == nil {
		return jsonError(c, fiber.StatusInternalServerError, "session not available")
	}

	savedState, _ := sess.Get("oauth_state").(string)
	if savedState == "" || savedState != c.Query("state") {
		return jsonError(c, fiber.StatusBadRequest, "invalid state")
	}
	sess.Delete("oauth_state")

	oauth2Token, err := h.oauth2Config.Exchange(c.Context(), c.Query("code"))
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "failed to exchange code")
	}

	rawIDToken, ok := oauth2Token.Extra("id_token").(string)
	if !ok {
		return jsonError(c, fiber.StatusBadRequest, "missing id_token")
	}

	idToken, err := h.verifier.Verify(c.Context(), rawIDToken)
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid id_token")
	}

	var claims struct {
		Sub   string `json:"sub"`
		Email string `json:"email"`
		Name  string `json:"name"`
	}
	if err := idToken.Claims(&claims); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid claims")
	}

	// Some providers only put the subject in the ID token.
	if claims.Email == "" || claims.Name == "" {
		userInfo, err := h.provider.UserInfo(c.Context(), oauth2.StaticTokenSource(oauth2Token))
		if err != nil {
			slog.Warn("failed to fetch userinfo", "error", err)
		} else {
			if claims.Email == "" {
				claims.Email = userInfo.Email
			}
			if claims.Name == "" {
				var extra struct {
					Name string `json:"name"`
				}
				if userInfo.Claims(&extra) == nil {
					claims.Name = extra.Name
				}
			}
		}
	}
	if claims.Email == "" {
		return jsonError(c, fiber.StatusBadRequest, "identity provider did not return an email")
	}
	if claims.Name == "" {
		claims.Name = claims.Email
	}

	user := &models.User{
		Sub:   &claims.Sub,
		Email: claims.Email,
		Name:  claims.Name,
	}
	if err := h.db.UpsertUserBySub(c.Context(), user); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "failed to save user")
	}

	sess.Set(middleware.SessionUserKey, user.ID.String())

	redirectURL := h.cfg.BaseURL
	if redirectURL == "" {
		redirectURL = "/"
	}
	return c.Redirect().To(redirectURL)
}

func generateState() string {
	b := make([]byte, 16)
	rand.Read(b)
	return base64.URLEncoding.EncodeToString(b)
}
