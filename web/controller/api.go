package controller

import (
	"net/http"

	"github.com/proveedores/liquidaciones/web/service"
	"github.com/proveedores/liquidaciones/web/session"

	"github.com/gin-gonic/gin"
)

// APIController exposes the dashboard as JSON under /panel/api.
type APIController struct {
	BaseController
}

func NewAPIController(g *gin.RouterGroup, dataService *service.DataService) *APIController {
	a := &APIController{
		BaseController: BaseController{dataService: dataService},
	}
	a.initRouter(g)
	return a
}

// checkAPIAuth answers 404 to unauthenticated requests so the API is not
// discoverable.
func (a *APIController) checkAPIAuth(c *gin.Context) {
	if !session.IsLogin(c) {
		c.AbortWithStatus(http.StatusNotFound)
		return
	}
	c.Next()
}

func (a *APIController) initRouter(g *gin.RouterGroup) {
	api := g.Group("/panel/api")
	api.Use(a.checkAPIAuth)

	api.GET("/view", a.view)
}

func (a *APIController) view(c *gin.Context) {
	d, err := a.dashboard(c)
	jsonObj(c, d, err)
}
