// Package controller provides the HTTP handlers of the settlements panel:
// login and logout, the dashboard page, status selection, chart, export and
// a JSON view of the dashboard.
package controller

import (
	"net/http"

	"github.com/proveedores/liquidaciones/web/locale"
	"github.com/proveedores/liquidaciones/web/service"
	"github.com/proveedores/liquidaciones/web/session"

	"github.com/gin-gonic/gin"
)

// BaseController provides common functionality for all controllers, including authentication checks.
type BaseController struct {
	dataService      *service.DataService
	dashboardService service.DashboardService
}

// checkLogin aborts requests from sessions that are not authenticated.
func (a *BaseController) checkLogin(c *gin.Context) {
	if !session.IsLogin(c) {
		if isAjax(c) {
			pureJsonMsg(c, http.StatusUnauthorized, false, I18nWeb(c, "pages.login.toasts.loginAgain"))
		} else {
			c.Redirect(http.StatusSeeOther, c.GetString("base_path"))
		}
		c.Abort()
	} else {
		c.Next()
	}
}

// dashboard loads the source tables and builds the dashboard for the
// request's session. The returned error is the source failure, if any; the
// dashboard is always usable.
func (a *BaseController) dashboard(c *gin.Context) (*service.Dashboard, error) {
	records, users, err := a.dataService.LoadData(c.Request.Context())
	return a.dashboardService.Build(session.Load(c), records, users), err
}

// I18nWeb retrieves an internationalized message for the web interface based on the current locale.
func I18nWeb(c *gin.Context, name string, params ...string) string {
	return locale.I18n(locale.FromContext(c), name, params...)
}

// sourceError formats a data source failure for display, "" when err is nil.
func sourceError(c *gin.Context, err error) string {
	if err == nil {
		return ""
	}
	return I18nWeb(c, "pages.login.sourceError", "Error=="+err.Error())
}
