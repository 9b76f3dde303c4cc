package server

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"party-squares/internal/db"
	"party-squares/internal/squares"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const (
	sessionCookieName = "sq_session"

	identityKey = "identity"
	viewerKey   = "viewer"
)

var errMissingToken = errors.New("missing session token")

// Identity is what the auth service vouches for. Approval and admin
// rights come from the guest list, never from the token.
type Identity struct {
	Subject string
	Email   string
	Name    string
	Picture string
}

type identityClaims struct {
	Email   string `json:"email"`
	Name    string `json:"name"`
	Picture string `json:"picture"`
	jwt.RegisteredClaims
}

type viewer struct {
	Identity Identity
	User     db.ApprovedUser
}

func (v viewer) displayName() string {
	if v.User.Name != "" {
		return v.User.Name
	}
	if v.Identity.Name != "" {
		return v.Identity.Name
	}
	return v.Identity.Email
}

func (v viewer) participant() squares.Participant {
	return squares.Participant{
		Email: v.User.Email,
		Name:  v.displayName(),
		Image: v.Identity.Picture,
	}
}

func sessionToken(r *http.Request) string {
	if header := r.Header.Get("Authorization"); header != "" {
		if token, ok := strings.CutPrefix(header, "Bearer "); ok {
			return strings.TrimSpace(token)
		}
	}
	if cookie, err := r.Cookie(sessionCookieName); err == nil {
		return strings.TrimSpace(cookie.Value)
	}
	return ""
}

func (s *Server) parseIdentity(raw string) (Identity, error) {
	if raw == "" {
		return Identity{}, errMissingToken
	}
	if s.cfg.AuthJWTSecret == "" {
		return Identity{}, errors.New("auth secret not configured")
	}
	claims := &identityClaims{}
	_, err := jwt.ParseWithClaims(raw, claims, func(*jwt.Token) (any, error) {
		return []byte(s.cfg.AuthJWTSecret), nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(s.cfg.AuthIssuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return Identity{}, err
	}
	email := strings.ToLower(strings.TrimSpace(claims.Email))
	if email == "" {
		return Identity{}, errors.New("token has no email")
	}
	return Identity{
		Subject: claims.Subject,
		Email:   email,
		Name:    strings.TrimSpace(claims.Name),
		Picture: claims.Picture,
	}, nil
}

// identify attaches the caller's identity when a valid token is present.
// Requests without one continue anonymously.
func (s *Server) identify(c *gin.Context) {
	identity, err := s.parseIdentity(sessionToken(c.Request))
	if err != nil {
		if !errors.Is(err, errMissingToken) {
			log.Printf("session rejected path=%s error=%v", c.Request.URL.Path, err)
		}
		c.Next()
		return
	}
	c.Set(identityKey, identity)
	c.Next()
}

// requireApproved loads the guest list row for the caller. Form routes
// send anonymous callers to the login page instead of answering 401.
func (s *Server) requireApproved(redirect bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		value, ok := c.Get(identityKey)
		if !ok {
			if redirect {
				c.Redirect(http.StatusFound, "/login")
				c.Abort()
				return
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthenticated"})
			return
		}
		identity := value.(Identity)
		user, err := s.store.ApprovedUser(c.Request.Context(), identity.Email)
		if err != nil {
			if errors.Is(err, db.ErrNotApproved) {
				log.Printf("unapproved user email=%s path=%s", identity.Email, c.Request.URL.Path)
				c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "not approved"})
				return
			}
			abortWithError(c, err)
			return
		}
		c.Set(viewerKey, viewer{Identity: identity, User: user})
		c.Next()
	}
}

// requireAdmin answers 404 to non-admins so admin routes stay hidden.
func (s *Server) requireAdmin(c *gin.Context) {
	if !currentViewer(c).User.IsAdmin {
		c.AbortWithStatus(http.StatusNotFound)
		return
	}
	c.Next()
}

func currentViewer(c *gin.Context) viewer {
	value, ok := c.Get(viewerKey)
	if !ok {
		return viewer{}
	}
	return value.(viewer)
}
