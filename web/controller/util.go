package controller

import (
	"net/http"
	"strings"

	"github.com/proveedores/liquidaciones/config"
	"github.com/proveedores/liquidaciones/logger"
	"github.com/proveedores/liquidaciones/web/entity"

	"github.com/gin-gonic/gin"
)

// getRemoteIp returns the client IP, honouring forwarding headers only from
// trusted proxies.
func getRemoteIp(c *gin.Context) string {
	return c.ClientIP()
}

// jsonMsg sends a JSON response with a message and error status.
func jsonMsg(c *gin.Context, msg string, err error) {
	jsonMsgObj(c, msg, nil, err)
}

// jsonObj sends a JSON response with an object and error status.
func jsonObj(c *gin.Context, obj any, err error) {
	jsonMsgObj(c, "", obj, err)
}

// jsonMsgObj sends a JSON response with a message, object, and error status.
func jsonMsgObj(c *gin.Context, msg string, obj any, err error) {
	m := entity.Msg{
		Obj: obj,
	}
	if err == nil {
		m.Success = true
		if msg != "" {
			m.Msg = msg
		}
	} else {
		m.Success = false
		m.Msg = strings.TrimSpace(msg + " (" + err.Error() + ")")
		logger.Warning(msg, err)
	}
	c.JSON(http.StatusOK, m)
}

// pureJsonMsg sends a pure JSON message response with custom status code.
func pureJsonMsg(c *gin.Context, statusCode int, success bool, msg string) {
	c.JSON(statusCode, entity.Msg{
		Success: success,
		Msg:     msg,
	})
}

// html renders a template with the common page data: title key, base path,
// version and a request scoped i18n function.
func html(c *gin.Context, statusCode int, name string, title string, data gin.H) {
	if data == nil {
		data = gin.H{}
	}
	data["title"] = title
	data["request_uri"] = c.Request.RequestURI
	data["base_path"] = c.GetString("base_path")
	data["i18n"] = func(key string, params ...string) string {
		return I18nWeb(c, key, params...)
	}
	c.HTML(statusCode, name, getContext(data))
}

// getContext adds version and other context data to the provided gin.H.
func getContext(h gin.H) gin.H {
	a := gin.H{
		"cur_ver": config.GetVersion(),
	}
	for key, value := range h {
		a[key] = value
	}
	return a
}

// isAjax checks if the request is an AJAX request.
func isAjax(c *gin.Context) bool {
	return c.GetHeader("X-Requested-With") == "XMLHttpRequest"
}
