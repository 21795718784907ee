package router

import "github.com/gin-gonic/gin"

// Module mounts one feature's routes on the group it is handed: /api for
// Registry.Add, the engine root for Registry.AddRoot.
type Module interface {
	Register(rg *gin.RouterGroup)
}
