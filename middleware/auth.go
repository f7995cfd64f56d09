package middleware

import (
	"context"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
	"go.mongodb.org/mongo-driver/bson"

	"shopapi/database"
)

func jwtSecret() []byte {
	return []byte(os.Getenv("JWT_SECRET"))
}

func bearerToken(c *gin.Context) string {
	token := c.GetHeader("Authorization")
	token = strings.TrimPrefix(token, "Bearer ")
	return strings.TrimSpace(token)
}

func parseToken(tokenString string) (jwt.MapClaims, bool) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var blacklisted bson.M
	err := database.DB.Collection("blacklist_tokens").FindOne(ctx, bson.M{"token": tokenString}).Decode(&blacklisted)
	if err == nil {
		return nil, false
	}

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return jwtSecret(), nil
	})
	if err != nil || !token.Valid {
		return nil, false
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	return claims, ok
}

func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := bearerToken(c)
		if tokenString == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Token required"})
			return
		}

		claims, ok := parseToken(tokenString)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Invalid or expired token"})
			return
		}

		c.Set("userId", claims["userId"])
		c.Set("role", claims["role"])
		c.Next()
	}
}

// OptionalAuthMiddleware attaches the identity when a valid token is present but
// lets anonymous requests through, for surfaces shared by guests and users.
func OptionalAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := bearerToken(c)
		if tokenString != "" {
			if claims, ok := parseToken(tokenString); ok {
				c.Set("userId", claims["userId"])
				c.Set("role", claims["role"])
			}
		}
		c.Next()
	}
}

func AdminMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		role, exists := c.Get("role")
		if !exists || role != "admin" {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"success": false, "message": "Access denied: admin only"})
			return
		}
		c.Next()
	}
}
