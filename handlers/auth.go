package handlers

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jobtrack/jobtrack/internal/config"
	"github.com/jobtrack/jobtrack/internal/sessions"
	"github.com/jobtrack/jobtrack/internal/tokens"
	"github.com/jobtrack/jobtrack/internal/users"
	"github.com/jobtrack/jobtrack/pkg/logger"
	"github.com/jobtrack/jobtrack/pkg/middleware"
)

// AuthHandler implements the one-time sign-in link flow: a client requests a
// link for an email address, the link token arrives out of band, and
// verifying it mints an access token plus a refresh session.
type AuthHandler struct {
	cfg         *config.Config
	usersSvc    *users.Service
	sessionsSvc *sessions.Service
	links       sessions.LinkStore
	blacklist   *sessions.Blacklist
}

func NewAuthHandler(cfg *config.Config, u *users.Service, s *sessions.Service, links sessions.LinkStore, bl *sessions.Blacklist) *AuthHandler {
	return &AuthHandler{cfg: cfg, usersSvc: u, sessionsSvc: s, links: links, blacklist: bl}
}

// Register mounts the public auth routes. Me is registered separately on the
// authenticated group.
func (h *AuthHandler) Register(rg *gin.RouterGroup) {
	a := rg.Group("/auth")
	a.POST("/link", h.RequestLink)
	a.POST("/verify", h.Verify)
	a.POST("/refresh", h.Refresh)
	a.POST("/logout", h.Logout)
}

// RequestLink creates a one-time sign-in token for the given email. The
// response never reveals whether the email is known; in development the token
// is echoed back so local clients can complete the flow without a mailer.
func (h *AuthHandler) RequestLink(c *gin.Context) {
	var req struct {
		Email string `json:"email" binding:"required"`
		Name  string `json:"name"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" || !strings.Contains(email, "@") {
		c.JSON(http.StatusBadRequest, gin.H{"error": "a valid email is required"})
		return
	}

	token, err := h.links.Create(c.Request.Context(), email, h.cfg.Auth.SignInLinkTTL)
	if err != nil {
		logger.Errorf("sign-in link creation failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create sign-in link"})
		return
	}
	logger.Infof("sign-in link issued for %s (ttl=%s)", email, h.cfg.Auth.SignInLinkTTL)

	resp := gin.H{"message": "sign-in link sent"}
	if h.cfg.IsDevelopment() {
		resp["token"] = token
	}
	c.JSON(http.StatusOK, resp)
}

// Verify consumes a sign-in token. Success upserts the user and returns
// tokens in the camelCase shape the frontend expects.
func (h *AuthHandler) Verify(c *gin.Context) {
	var req struct {
		Token string `json:"token" binding:"required"`
		Name  string `json:"name"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	email, err := h.links.Consume(c.Request.Context(), req.Token)
	if errors.Is(err, sessions.ErrLinkInvalid) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired sign-in link"})
		return
	}
	if err != nil {
		logger.Errorf("sign-in link consume failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "sign-in failed"})
		return
	}

	u, err := h.usersSvc.UpsertByEmail(c.Request.Context(), email, req.Name)
	if err != nil || u == nil {
		logger.Errorf("user upsert for %s failed: %v", email, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "sign-in failed"})
		return
	}

	refresh, err := h.sessionsSvc.CreateSession(c.Request.Context(), u.Sub, h.cfg.Auth.RefreshTokenTTL)
	if err != nil {
		logger.Errorf("session creation for %s failed: %v", u.Sub, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create session"})
		return
	}
	access, err := tokens.GenerateAccessToken(h.cfg, u, h.cfg.Auth.AccessTokenTTL)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create access token"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"accessToken":  access,
		"refreshToken": refresh,
		"user":         u,
		"expiresIn":    int(h.cfg.Auth.AccessTokenTTL.Seconds()),
	})
}

// Refresh exchanges a refresh token for a new access token.
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req struct {
		RefreshToken string `json:"refreshToken" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	sess, err := h.sessionsSvc.ValidateRefresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		logger.Errorf("refresh validation failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "validation failed"})
		return
	}
	if sess == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid refresh token"})
		return
	}
	u, err := h.usersSvc.GetBySub(c.Request.Context(), sess.Sub)
	if err != nil || u == nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "user lookup failed"})
		return
	}
	access, err := tokens.GenerateAccessToken(h.cfg, u, h.cfg.Auth.AccessTokenTTL)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create access token"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"accessToken": access,
		"expiresIn":   int(h.cfg.Auth.AccessTokenTTL.Seconds()),
	})
}

// Logout deletes the refresh session and blacklists the presented access
// token for the remainder of its lifetime.
func (h *AuthHandler) Logout(c *gin.Context) {
	var req struct {
		RefreshToken string `json:"refreshToken" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if raw, ok := strings.CutPrefix(c.GetHeader("Authorization"), "Bearer "); ok && raw != "" {
		if exp, err := parseExpFromJWT(raw); err == nil {
			if ttl := time.Until(exp); ttl > 0 {
				if err := h.blacklist.Add(c.Request.Context(), raw, ttl); err != nil {
					logger.Warnf("access token blacklist failed: %v", err)
				}
			}
		}
	}

	if err := h.sessionsSvc.DeleteRefresh(c.Request.Context(), req.RefreshToken); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to remove session"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "logged out"})
}

// Me returns the authenticated user. Subjects verified externally (OIDC
// bearer mode) have no row from the sign-in-link flow, so an unknown subject
// is upserted from the bearer claims on its first request.
func (h *AuthHandler) Me(c *gin.Context) {
	sub := middleware.Subject(c)
	if sub == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthenticated"})
		return
	}
	u, err := h.usersSvc.GetBySub(c.Request.Context(), sub)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "user lookup failed"})
		return
	}
	if u == nil {
		if claims, ok := c.Get("claims"); ok {
			if cm, ok := claims.(map[string]interface{}); ok {
				u, err = h.usersSvc.UpsertFromClaims(c.Request.Context(), cm)
				if err != nil {
					logger.Errorf("user upsert from claims for %s failed: %v", sub, err)
					c.JSON(http.StatusInternalServerError, gin.H{"error": "user lookup failed"})
					return
				}
			}
		}
	}
	if u == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}
	c.JSON(http.StatusOK, u)
}

// parseExpFromJWT decodes the payload only, which is enough to compute the
// remaining blacklist TTL.
func parseExpFromJWT(tok string) (time.Time, error) {
	parts := strings.Split(tok, ".")
	if len(parts) < 2 {
		return time.Time{}, errors.New("invalid token")
	}
	b, err := base64.RawURLEncoding.DecodeString(parts[1])
	if err != nil {
		return time.Time{}, err
	}
	var claims struct {
		Exp int64 `json:"exp"`
	}
	if err := json.Unmarshal(b, &claims); err != nil {
		return time.Time{}, err
	}
	if claims.Exp == 0 {
		return time.Time{}, errors.New("exp claim not present")
	}
	return time.Unix(claims.Exp, 0), nil
}
