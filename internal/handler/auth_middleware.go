package handler

import (
	"net/http"
	"os"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/igfollow/snapshot-service/internal/model"
)

// authMiddleware resolves the owner directly from the access token's claims;
// user accounts and sessions are managed by an external service.
func (h *Handler) authMiddleware(r *http.Request) (*model.Owner, error) {
	bearerHeader := r.Header.Get("Authorization")

	if !strings.HasPrefix(bearerHeader, "Bearer ") {
		return nil, errNoToken
	}

	tokenString := strings.TrimPrefix(bearerHeader, "Bearer ")
	if tokenString == "" {
		return nil, errNoToken
	}

	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errInvalidJWT
		}
		return []byte(os.Getenv("ACCESS_SECRET")), nil
	})
	if err != nil || !token.Valid {
		return nil, errInvalidJWT
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, errInvalidJWT
	}

	ownerIDString, exists := claims["id"].(string)
	if !exists {
		return nil, errInvalidJWT
	}
	ownerID, err := uuid.Parse(ownerIDString)
	if err != nil {
		return nil, errInvalidUserID
	}

	owner := &model.Owner{ID: ownerID}
	owner.Email, _ = claims["email"].(string)
	owner.IsSubscribed, _ = claims["is_subscribed"].(bool)

	return owner, nil
}
