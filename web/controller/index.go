package controller

import (
	"net/http"
	"strings"
	"text/template"

	"github.com/proveedores/liquidaciones/config"
	"github.com/proveedores/liquidaciones/logger"
	"github.com/proveedores/liquidaciones/web/middleware"
	"github.com/proveedores/liquidaciones/web/service"
	"github.com/proveedores/liquidaciones/web/session"

	"github.com/gin-gonic/gin"
)

// LoginForm represents the login request structure.
type LoginForm struct {
	Username string `json:"username" form:"username"`
	Password string `json:"password" form:"password"`
}

// IndexController handles the login page, login and logout.
type IndexController struct {
	BaseController

	userService service.UserService
}

// NewIndexController creates a new IndexController and initializes its routes.
func NewIndexController(g *gin.RouterGroup, dataService *service.DataService) *IndexController {
	a := &IndexController{
		BaseController: BaseController{dataService: dataService},
	}
	a.initRouter(g)
	return a
}

// initRouter sets up the routes for index, login and logout.
func (a *IndexController) initRouter(g *gin.RouterGroup) {
	g.GET("/", a.index)
	g.GET("/logout", a.logout)
	g.POST("/logout", a.logout)

	limit := middleware.DefaultRateLimitConfig(config.GetLoginLimit())
	limit.LimitHandler = a.tooManyAttempts
	g.POST("/login", middleware.RateLimitMiddleware(limit), a.login)
}

// index shows the login form, or sends authenticated sessions to the panel.
func (a *IndexController) index(c *gin.Context) {
	if session.IsLogin(c) {
		c.Redirect(http.StatusSeeOther, c.GetString("base_path")+"panel/")
		return
	}
	_, _, err := a.dataService.LoadData(c.Request.Context())
	html(c, http.StatusOK, "login.html", "pages.login.title", gin.H{
		"source_error": sourceError(c, err),
	})
}

// login authenticates the submitted credentials and starts the session.
func (a *IndexController) login(c *gin.Context) {
	var form LoginForm

	if err := c.ShouldBind(&form); err != nil {
		a.loginFailed(c, form, "pages.login.toasts.invalidFormData", nil)
		return
	}
	form.Username = strings.TrimSpace(form.Username)
	form.Password = strings.TrimSpace(form.Password)
	if form.Username == "" {
		a.loginFailed(c, form, "pages.login.toasts.emptyUsername", nil)
		return
	}
	if form.Password == "" {
		a.loginFailed(c, form, "pages.login.toasts.emptyPassword", nil)
		return
	}

	_, users, srcErr := a.dataService.LoadData(c.Request.Context())
	ok, login := a.userService.Authenticate(users, form.Username, form.Password)
	safeUser := template.HTMLEscapeString(form.Username)

	if !ok {
		logger.Warningf("wrong username or password for \"%s\", IP: \"%s\"", safeUser, getRemoteIp(c))
		a.loginFailed(c, form, "pages.login.toasts.wrongUsernameOrPassword", srcErr)
		return
	}

	session.SetMaxAge(c, config.GetSessionMaxAge()*60)
	if _, err := session.Dispatch(c, session.Login{User: login}); err != nil {
		logger.Warning("Unable to save session: ", err)
		a.loginFailed(c, form, "pages.login.toasts.loginAgain", nil)
		return
	}

	logger.Infof("%s logged in successfully, Ip Address: %s", safeUser, getRemoteIp(c))
	if isAjax(c) {
		jsonMsg(c, I18nWeb(c, "pages.login.toasts.successLogin"), nil)
		return
	}
	c.Redirect(http.StatusSeeOther, c.GetString("base_path")+"panel/")
}

// loginFailed keeps the session logged out and shows msgKey inline.
func (a *IndexController) loginFailed(c *gin.Context, form LoginForm, msgKey string, srcErr error) {
	msg := I18nWeb(c, msgKey)
	if isAjax(c) {
		pureJsonMsg(c, http.StatusOK, false, msg)
		return
	}
	html(c, http.StatusOK, "login.html", "pages.login.title", gin.H{
		"login_error":  msg,
		"source_error": sourceError(c, srcErr),
		"username":     form.Username,
	})
}

func (a *IndexController) tooManyAttempts(c *gin.Context) {
	msg := I18nWeb(c, "pages.login.toasts.tooManyAttempts")
	if isAjax(c) {
		pureJsonMsg(c, http.StatusTooManyRequests, false, msg)
		return
	}
	html(c, http.StatusTooManyRequests, "login.html", "pages.login.title", gin.H{
		"login_error": msg,
	})
}

// logout resets the session and returns to the login page.
func (a *IndexController) logout(c *gin.Context) {
	st := session.Load(c)
	if st.Authenticated {
		logger.Infof("%s logged out successfully", template.HTMLEscapeString(st.CurrentUser))
	}
	if _, err := session.Dispatch(c, session.Logout{}); err != nil {
		logger.Warning("Unable to save session after clearing:", err)
	}
	c.Redirect(http.StatusSeeOther, c.GetString("base_path"))
}
