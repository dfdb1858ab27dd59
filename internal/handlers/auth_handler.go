package handlers

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"elever/internal/config"
	"elever/internal/middleware"
	"elever/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

const (
	tokenCookie      = "token"
	oauthStateCookie = "oauth_state"
	tokenMaxAge      = 30 * 24 * time.Hour

	userinfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"
)

// AuthHandler handles the Google sign-in flow and session routes.
type AuthHandler struct {
	authService *services.AuthService
	clientURL   string
	oauth       *oauth2.Config
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *services.AuthService, cfg *config.Config) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		clientURL:   cfg.ClientURL,
		oauth: &oauth2.Config{
			ClientID:     cfg.GoogleClientID,
			ClientSecret: cfg.GoogleClientSecret,
			RedirectURL:  cfg.GoogleRedirectURL,
			Scopes: []string{
				"https://www.googleapis.com/auth/userinfo.profile",
				"https://www.googleapis.com/auth/userinfo.email",
			},
			Endpoint: google.Endpoint,
		},
	}
}

// RegisterRoutes registers the authentication routes.
func (h *AuthHandler) RegisterRoutes(router fiber.Router, protect, optionalAuth fiber.Handler) {
	auth := router.Group("/auth")
	auth.Get("/google", h.HandleGoogleAuth)
	auth.Get("/google/callback", h.HandleGoogleCallback)
	auth.Get("/me", protect, h.HandleMe)
	auth.Get("/logout", protect, h.HandleLogout)
	auth.Get("/status", optionalAuth, h.HandleStatus)
}

// HandleGoogleAuth starts the authorization-code flow. The state nonce is
// bound to the browser through a short-lived cookie.
func (h *AuthHandler) HandleGoogleAuth(c *fiber.Ctx) error {
	state := uuid.NewString()
	c.Cookie(&fiber.Cookie{
		Name:     oauthStateCookie,
		Value:    state,
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
		Expires:  time.Now().Add(10 * time.Minute),
	})
	return c.Redirect(h.oauth.AuthCodeURL(state), fiber.StatusTemporaryRedirect)
}

// HandleGoogleCallback finishes the flow: verifies the state nonce,
// exchanges the code, loads the Google profile, upserts the user and sets
// the session cookie. Any failure redirects back to the client sign-in page.
func (h *AuthHandler) HandleGoogleCallback(c *fiber.Ctx) error {
	failure := h.clientURL + "/login?error=auth_failed"

	state := c.Query("state")
	if state == "" || state != c.Cookies(oauthStateCookie) {
		return c.Redirect(failure, fiber.StatusTemporaryRedirect)
	}
	clearCookie(c, oauthStateCookie)

	token, err := h.oauth.Exchange(context.Background(), c.Query("code"))
	if err != nil {
		log.Printf("oauth code exchange failed: %v", err)
		return c.Redirect(failure, fiber.StatusTemporaryRedirect)
	}

	profile, err := h.fetchProfile(token)
	if err != nil {
		log.Printf("failed to fetch google profile: %v", err)
		return c.Redirect(failure, fiber.StatusTemporaryRedirect)
	}

	user, err := h.authService.SignInWithGoogle(*profile)
	if err != nil {
		log.Printf("sign-in failed for %s: %v", profile.Email, err)
		return c.Redirect(failure, fiber.StatusTemporaryRedirect)
	}

	sessionToken, err := h.authService.GenerateToken(user.ID.Hex())
	if err != nil {
		log.Printf("failed to issue session token: %v", err)
		return c.Redirect(failure, fiber.StatusTemporaryRedirect)
	}

	c.Cookie(&fiber.Cookie{
		Name:     tokenCookie,
		Value:    sessionToken,
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
		Expires:  time.Now().Add(tokenMaxAge),
	})
	return c.Redirect(h.clientURL, fiber.StatusTemporaryRedirect)
}

// fetchProfile loads the Google userinfo document with the token-bound client.
func (h *AuthHandler) fetchProfile(token *oauth2.Token) (*services.GoogleProfile, error) {
	resp, err := h.oauth.Client(context.Background(), token).Get(userinfoURL)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var profile services.GoogleProfile
	if err := json.NewDecoder(resp.Body).Decode(&profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

// HandleMe returns the authenticated user.
func (h *AuthHandler) HandleMe(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"success": true, "data": middleware.CurrentUser(c)})
}

// HandleLogout clears the session cookie.
func (h *AuthHandler) HandleLogout(c *fiber.Ctx) error {
	clearCookie(c, tokenCookie)
	return c.JSON(fiber.Map{"success": true, "message": "Logged out successfully"})
}

// HandleStatus reports authentication state without ever failing.
func (h *AuthHandler) HandleStatus(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)
	if user == nil {
		return c.JSON(fiber.Map{"success": true, "isAuthenticated": false, "data": nil})
	}
	return c.JSON(fiber.Map{"success": true, "isAuthenticated": true, "data": user})
}

func clearCookie(c *fiber.Ctx, name string) {
	c.Cookie(&fiber.Cookie{
		Name:     name,
		Value:    "",
		HTTPOnly: true,
		Expires:  time.Unix(0, 0),
	})
}
