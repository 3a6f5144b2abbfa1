// Package session stores the per-browser panel state in a signed cookie and
// applies login, logout and status selection as named actions.
package session

import (
	"encoding/gob"
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

const (
	// CookieName is the session cookie set on the browser.
	CookieName = "liquidaciones"

	// StatusAll is the status filter that selects every row.
	StatusAll = "Todos"

	stateKey = "PANEL_STATE"
)

// State is everything the panel remembers between requests.
// CurrentUser is "" until Authenticated is true.
type State struct {
	Authenticated bool
	CurrentUser   string
	StatusFilter  string
}

func init() {
	gob.Register(State{})
}

// DefaultState is the state of a fresh or logged-out session.
func DefaultState() State {
	return State{StatusFilter: StatusAll}
}

// Action is a state transition.
type Action interface {
	isAction()
}

// Login marks the session as authenticated for User, the stored login as it
// appears in the Usuarios worksheet.
type Login struct {
	User string
}

// Logout resets the session to DefaultState.
type Logout struct{}

// SelectStatus changes the status filter.
type SelectStatus struct {
	Status string
}

func (Login) isAction()        {}
func (Logout) isAction()       {}
func (SelectStatus) isAction() {}

// Reduce returns the state that results from applying a to s.
func Reduce(s State, a Action) State {
	switch a := a.(type) {
	case Login:
		return State{Authenticated: true, CurrentUser: a.User, StatusFilter: StatusAll}
	case Logout:
		return DefaultState()
	case SelectStatus:
		if !s.Authenticated {
			return s
		}
		if a.Status == "" {
			a.Status = StatusAll
		}
		s.StatusFilter = a.Status
		return s
	}
	return s
}

// Load returns the request's state, DefaultState when there is none.
func Load(c *gin.Context) State {
	s := sessions.Default(c)
	if obj := s.Get(stateKey); obj != nil {
		if st, ok := obj.(State); ok {
			if st.StatusFilter == "" {
				st.StatusFilter = StatusAll
			}
			return st
		}
	}
	return DefaultState()
}

// Dispatch applies a to the request's state and persists the result.
// Logout clears the cookie instead of storing a default state.
func Dispatch(c *gin.Context, a Action) (State, error) {
	if _, ok := a.(Logout); ok {
		return DefaultState(), ClearSession(c)
	}
	next := Reduce(Load(c), a)
	s := sessions.Default(c)
	s.Set(stateKey, next)
	return next, s.Save()
}

func IsLogin(c *gin.Context) bool {
	return Load(c).Authenticated
}

// SetMaxAge sets the cookie lifetime in seconds.
func SetMaxAge(c *gin.Context, maxAge int) {
	s := sessions.Default(c)
	s.Options(sessions.Options{
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func ClearSession(c *gin.Context) error {
	s := sessions.Default(c)
	s.Clear()
	s.Options(sessions.Options{
		Path:   "/",
		MaxAge: -1,
	})
	return s.Save()
}
