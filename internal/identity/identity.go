package identity

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

var ErrUnauthenticated = errors.New("no authenticated identity")

// Identity is the submitter of an invoice, as established by the external
// auth collaborator. The zero value means "unauthenticated".
type Identity struct {
	Subject string
	Email   string
}

func (id Identity) IsZero() bool { return id.Subject == "" }

// Verifier validates bearer tokens issued by the auth collaborator.
// Token issuance itself lives outside this service.
type Verifier struct {
	secret []byte
}

func NewVerifier(secret string) *Verifier {
	return &Verifier{secret: []byte(secret)}
}

// Verify parses and validates an HMAC-signed token and extracts the identity.
func (v *Verifier) Verify(tokenString string) (Identity, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %q", t.Method.Alg())
		}

		return v.secret, nil
	})
	if err != nil {
		return Identity{}, fmt.Errorf("parsing token: %w", err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return Identity{}, errors.New("unexpected claims type")
	}

	sub, err := claims.GetSubject()
	if err != nil || sub == "" {
		return Identity{}, errors.New("token has no subject")
	}

	id := Identity{Subject: sub}
	if email, ok := claims["email"].(string); ok {
		id.Email = email
	}

	return id, nil
}

type contextKey struct{}

// Middleware extracts a bearer token, verifies it, and stores the identity
// in the request context. Requests without a token pass through
// unauthenticated; handlers that need an identity check FromContext.
func (v *Verifier) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth := r.Header.Get("Authorization")

		token, found := strings.CutPrefix(auth, "Bearer ")
		if !found || token == "" {
			next.ServeHTTP(w, r)
			return
		}

		id, err := v.Verify(token)
		if err != nil {
			http.Error(w, "invalid token", http.StatusUnauthorized)
			return
		}

		next.ServeHTTP(w, r.WithContext(NewContext(r.Context(), id)))
	})
}

// NewContext stores the identity in the context.
func NewContext(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, contextKey{}, id)
}

// FromContext returns the authenticated identity, or ErrUnauthenticated.
func FromContext(ctx context.Context) (Identity, error) {
	id, ok := ctx.Value(contextKey{}).(Identity)
	if !ok || id.IsZero() {
		return Identity{}, ErrUnauthenticated
	}

	return id, nil
}
