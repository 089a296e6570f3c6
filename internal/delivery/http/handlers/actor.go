package handlers

import (
	"github.com/LavaJover/freelink-contract-service/internal/domain"
	"github.com/gin-gonic/gin"
)

const actorKey = "actor"

func SetActor(c *gin.Context, actor domain.Actor) {
	c.Set(actorKey, actor)
}

// ActorFrom returns the authenticated caller, or a zero Actor before the auth middleware ran.
func ActorFrom(c *gin.Context) domain.Actor {
	if v, ok := c.Get(actorKey); ok {
		if actor, ok := v.(domain.Actor); ok {
			return actor
		}
	}
	return domain.Actor{}
}
