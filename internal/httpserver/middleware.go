package httpserver

import (
	"context"
	"net/http"
	"strings"

	"shopfront/internal/domain"
	"shopfront/internal/events"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ctxKey string

const (
	identityCtxKey  ctxKey = "identity"
	headerRequestID        = "X-Request-Id"
)

// requestID echoes the caller's X-Request-Id or generates one, and makes it
// available to events published while serving the request.
func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := strings.TrimSpace(c.GetHeader(headerRequestID))
		if id == "" {
			id = uuid.NewString()
		}
		c.Header(headerRequestID, id)
		c.Request = c.Request.WithContext(events.WithCorrelationID(c.Request.Context(), id))
		c.Next()
	}
}

type tokenVerifier interface {
	Authenticate(ctx context.Context, token string) (domain.Identity, error)
}

type guards struct {
	verifier tokenVerifier
}

func newGuards(v tokenVerifier) guards {
	return guards{verifier: v}
}

// authenticate resolves the bearer token into an identity on the request
// context. The token is whatever follows the first space of the header.
func (g guards) authenticate(c *gin.Context) {
	header := c.GetHeader("Authorization")
	if strings.TrimSpace(header) == "" {
		abortWithMessage(c, http.StatusUnauthorized, "unauthorized")
		return
	}
	var token string
	if _, rest, ok := strings.Cut(header, " "); ok {
		token = rest
	}
	id, err := g.verifier.Authenticate(c.Request.Context(), token)
	if err != nil {
		abortWithMessage(c, http.StatusUnauthorized, "invalid token")
		return
	}
	ctx := context.WithValue(c.Request.Context(), identityCtxKey, id)
	c.Request = c.Request.WithContext(ctx)
	c.Next()
}

// requireRole must run after authenticate; use authorized to get both.
func requireRole(role domain.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := identityFrom(c)
		if !ok {
			abortWithMessage(c, http.StatusUnauthorized, "unauthorized")
			return
		}
		switch id.Role {
		case domain.RoleBuyer, domain.RoleSeller:
			if id.Role != role {
				abortWithMessage(c, http.StatusForbidden, "forbidden")
				return
			}
		default:
			abortWithMessage(c, http.StatusForbidden, "forbidden")
			return
		}
		c.Next()
	}
}

// authorized returns the handler chain that authenticates the caller and then
// checks their role.
func (g guards) authorized(role domain.Role) []gin.HandlerFunc {
	return []gin.HandlerFunc{g.authenticate, requireRole(role)}
}

func identityFrom(c *gin.Context) (domain.Identity, bool) {
	id, ok := c.Request.Context().Value(identityCtxKey).(domain.Identity)
	return id, ok
}
