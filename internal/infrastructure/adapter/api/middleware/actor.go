package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/amirhossein-jamali/property-purchase/internal/domain/entity"
	domainerr "github.com/amirhossein-jamali/property-purchase/internal/domain/error"
	"github.com/amirhossein-jamali/property-purchase/internal/infrastructure/adapter/api/dto"
)

// Identity headers set by the upstream identity provider
const (
	ActorIDHeader   = "X-Actor-ID"
	ActorRoleHeader = "X-Actor-Role"
)

const actorKey = "actor"

// Actor middleware reads the caller identity from the identity headers and
// rejects requests without a usable one
func Actor() gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, err := entity.NewActor(c.GetHeader(ActorIDHeader), c.GetHeader(ActorRoleHeader))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, dto.ErrorResponse{
				Code:    domainerr.ErrorCode(err),
				Class:   string(domainerr.Classify(err)),
				Message: "Missing or invalid identity headers: " + err.Error(),
			})
			return
		}
		c.Set(actorKey, actor)
		c.Next()
	}
}

// ActorFrom returns the identity stored by the Actor middleware
func ActorFrom(c *gin.Context) (entity.Actor, bool) {
	value, ok := c.Get(actorKey)
	if !ok {
		return entity.Actor{}, false
	}
	actor, ok := value.(entity.Actor)
	return actor, ok
}
