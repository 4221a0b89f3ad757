package router

import "github.com/gin-gonic/gin"

// Module registers its routes on the group it is given: the API group for
// feature modules, the engine root for AddRoot modules.
type Module interface {
	Register(rg *gin.RouterGroup)
}
