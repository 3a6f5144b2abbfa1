package session

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReduce(t *testing.T) {
	loggedIn := State{Authenticated: true, CurrentUser: "Acme", StatusFilter: StatusAll}

	tests := []struct {
		name     string
		state    State
		action   Action
		expected State
	}{
		{
			name:     "login from default",
			state:    DefaultState(),
			action:   Login{User: "Acme"},
			expected: loggedIn,
		},
		{
			name:     "login resets filter",
			state:    State{Authenticated: true, CurrentUser: "Other", StatusFilter: "Pagado"},
			action:   Login{User: "Acme"},
			expected: loggedIn,
		},
		{
			name:     "select status",
			state:    loggedIn,
			action:   SelectStatus{Status: "Pendiente"},
			expected: State{Authenticated: true, CurrentUser: "Acme", StatusFilter: "Pendiente"},
		},
		{
			name:     "select same status twice",
			state:    State{Authenticated: true, CurrentUser: "Acme", StatusFilter: "Pendiente"},
			action:   SelectStatus{Status: "Pendiente"},
			expected: State{Authenticated: true, CurrentUser: "Acme", StatusFilter: "Pendiente"},
		},
		{
			name:     "empty status means all",
			state:    State{Authenticated: true, CurrentUser: "Acme", StatusFilter: "Pendiente"},
			action:   SelectStatus{},
			expected: loggedIn,
		},
		{
			name:     "select status while logged out is ignored",
			state:    DefaultState(),
			action:   SelectStatus{Status: "Pagado"},
			expected: DefaultState(),
		},
		{
			name:     "logout",
			state:    State{Authenticated: true, CurrentUser: "Acme", StatusFilter: "Pagado"},
			action:   Logout{},
			expected: DefaultState(),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Reduce(tt.state, tt.action))
		})
	}
}

func newTestEngine() *gin.Engine {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	engine.Use(sessions.Sessions(CookieName, cookie.NewStore([]byte("test-secret-test-secret-test-sec"))))
	engine.GET("/login", func(c *gin.Context) {
		_, err := Dispatch(c, Login{User: "Acme"})
		if err != nil {
			c.Status(http.StatusInternalServerError)
			return
		}
		c.Status(http.StatusOK)
	})
	engine.GET("/logout", func(c *gin.Context) {
		_, _ = Dispatch(c, Logout{})
		c.Status(http.StatusOK)
	})
	engine.GET("/state", func(c *gin.Context) {
		c.JSON(http.StatusOK, Load(c))
	})
	return engine
}

func TestDispatchPersistsState(t *testing.T) {
	engine := newTestEngine()

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/login", nil))
	require.Equal(t, http.StatusOK, w.Code)
	cookies := w.Result().Cookies()
	require.NotEmpty(t, cookies)

	req := httptest.NewRequest(http.MethodGet, "/state", nil)
	for _, ck := range cookies {
		req.AddCookie(ck)
	}
	w = httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	assert.JSONEq(t, `{"Authenticated":true,"CurrentUser":"Acme","StatusFilter":"Todos"}`, w.Body.String())
}

func TestLoadWithoutCookie(t *testing.T) {
	engine := newTestEngine()

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/state", nil))
	assert.JSONEq(t, `{"Authenticated":false,"CurrentUser":"","StatusFilter":"Todos"}`, w.Body.String())
}

func TestLogoutExpiresCookie(t *testing.T) {
	engine := newTestEngine()

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/logout", nil))
	for _, ck := range w.Result().Cookies() {
		if ck.Name == CookieName {
			assert.Less(t, ck.MaxAge, 0)
		}
	}
}
