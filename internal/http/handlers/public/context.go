package public

import (
	handlershared "github.com/ecofinds/internal/http/handlers/shared"

	"github.com/gin-gonic/gin"
)

func getUserID(c *gin.Context) (uint, bool) {
	return handlershared.GetContextUint(c, "user_id")
}

func respondError(c *gin.Context, status int, key string, err error) {
	handlershared.RespondError(c, status, key, err)
}

func respondMapped(c *gin.Context, err error, rules ...[]handlershared.ErrorRule) {
	handlershared.RespondMappedError(c, err, rules...)
}

func tr(c *gin.Context, key string, args ...interface{}) string {
	return handlershared.T(c, key, args...)
}
