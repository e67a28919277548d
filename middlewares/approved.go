package middlewares

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/QuangMinh07/BE-NOM-sub000/entity"
	"github.com/QuangMinh07/BE-NOM-sub000/repository"
	"github.com/QuangMinh07/BE-NOM-sub000/utils"
)

// RequireApproved blocks sellers and shippers whose account an admin has not approved yet.
// It must run after AuthMiddleware.
func RequireApproved(users *repository.UserRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !entity.NeedsApproval(utils.CurrentRole(c)) {
			c.Next()
			return
		}
		u, err := users.FindByID(utils.CurrentUserID(c))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"ok": false, "error": "user not found"})
			return
		}
		if !u.IsApproved {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"ok": false, "error": "account is waiting for approval"})
			return
		}
		c.Next()
	}
}
