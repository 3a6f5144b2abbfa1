package controller

import (
	"errors"
	"mime"
	"net/http"

	"github.com/proveedores/liquidaciones/logger"
	"github.com/proveedores/liquidaciones/web/service"
	"github.com/proveedores/liquidaciones/web/session"

	"github.com/gin-gonic/gin"
)

// PanelController serves the authenticated dashboard under /panel.
type PanelController struct {
	BaseController

	chartService  service.ChartService
	exportService service.ExportService
}

func NewPanelController(g *gin.RouterGroup, dataService *service.DataService) *PanelController {
	a := &PanelController{
		BaseController: BaseController{dataService: dataService},
	}
	a.initRouter(g)
	return a
}

func (a *PanelController) initRouter(g *gin.RouterGroup) {
	g = g.Group("/panel")
	g.Use(a.checkLogin)

	g.GET("/", a.index)
	g.POST("/estado", a.selectStatus)
	g.GET("/chart.png", a.chart)
	g.GET("/export", a.export)
}

func (a *PanelController) index(c *gin.Context) {
	d, err := a.dashboard(c)
	html(c, http.StatusOK, "panel.html", "pages.panel.title", gin.H{
		"greeting":     I18nWeb(c, "pages.panel.greeting", "Name=="+d.DisplayName),
		"dashboard":    d,
		"has_data":     d.Stage == service.StageLoggedInWithData,
		"source_error": sourceError(c, err),
	})
}

// selectStatus applies the submitted status filter. Statuses that are not
// offered for the user's rows are ignored.
func (a *PanelController) selectStatus(c *gin.Context) {
	status := c.PostForm("estado")
	d, _ := a.dashboard(c)
	if d.Stage == service.StageLoggedInWithData && d.HasStatus(status) {
		if _, err := session.Dispatch(c, session.SelectStatus{Status: status}); err != nil {
			logger.Warning("Unable to save status filter:", err)
		}
	} else {
		logger.Debugf("ignored status filter %q for %q", status, d.Login)
	}
	c.Redirect(http.StatusSeeOther, c.GetString("base_path")+"panel/")
}

// chart sends the pie chart of the user's full status distribution.
func (a *PanelController) chart(c *gin.Context) {
	d, _ := a.dashboard(c)
	if d.Stage != service.StageLoggedInWithData {
		c.AbortWithStatus(http.StatusNotFound)
		return
	}
	png, err := a.chartService.PieChart(d.Distribution)
	if errors.Is(err, service.ErrEmptyChart) {
		c.AbortWithStatus(http.StatusNotFound)
		return
	}
	if err != nil {
		logger.Warning("render chart failed:", err)
		c.AbortWithStatus(http.StatusInternalServerError)
		return
	}
	c.Header("Cache-Control", "private, no-store")
	c.Data(http.StatusOK, "image/png", png)
}

// export sends the rows and columns currently shown as an xlsx download.
func (a *PanelController) export(c *gin.Context) {
	d, _ := a.dashboard(c)
	if d.Stage != service.StageLoggedInWithData {
		c.AbortWithStatus(http.StatusNotFound)
		return
	}
	data, err := a.exportService.ToExcel(d.Columns, d.Rows)
	if err != nil {
		logger.Warning("export failed:", err)
		c.AbortWithStatus(http.StatusInternalServerError)
		return
	}
	c.Header("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": service.ExportFileName}))
	c.Header("Cache-Control", "private, no-store")
	c.Data(http.StatusOK, service.ExportMimeType, data)
}
