package public

import (
	handlershared "github.com/homeclean-next/internal/http/handlers/shared"

	"github.com/gin-gonic/gin"
)

func getUserID(c *gin.Context) (uint, bool) {
	return handlershared.GetContextUint(c, "user_id")
}

func respondError(c *gin.Context, kind string, key string, err error, args ...interface{}) {
	handlershared.RespondError(c, kind, key, err, args...)
}
