package service

import (
	"strings"

	"github.com/proveedores/liquidaciones/database/model"
	"github.com/proveedores/liquidaciones/util/crypto"
)

// UserService checks credentials against the Usuarios worksheet.
type UserService struct{}

// Authenticate looks for the first row whose trimmed, lowercased Usuario
// equals the normalized username and whose trimmed Contraseña equals
// password. password is compared as given; callers trim it. Bcrypt hashes in
// Contraseña are verified with bcrypt. An empty table never authenticates.
// The returned login is the stored Usuario value, untouched.
func (s *UserService) Authenticate(users *model.UserTable, username string, password string) (bool, string) {
	if users.Empty() {
		return false, ""
	}
	wanted := normalize(username)
	for _, u := range users.Rows {
		if normalize(u.Usuario) != wanted {
			continue
		}
		if passwordMatches(u.Password, password) {
			return true, u.Usuario
		}
	}
	return false, ""
}

// DisplayName returns the Nombre of login, or login itself when the table
// lacks the Usuario/Nombre columns, the login is absent or the name is blank.
func (s *UserService) DisplayName(users *model.UserTable, login string) string {
	if users.Empty() || !users.HasColumn(model.ColumnLogin) || !users.HasColumn(model.ColumnName) {
		return login
	}
	for _, u := range users.Rows {
		if u.Usuario == login {
			if strings.TrimSpace(u.Nombre) == "" {
				return login
			}
			return u.Nombre
		}
	}
	return login
}

// CountPlaintextPasswords returns how many rows store a non-hashed password.
func (s *UserService) CountPlaintextPasswords(users *model.UserTable) int {
	if users == nil {
		return 0
	}
	n := 0
	for _, u := range users.Rows {
		stored := strings.TrimSpace(u.Password)
		if stored != "" && !crypto.IsBcryptHash(stored) {
			n++
		}
	}
	return n
}

func passwordMatches(stored string, submitted string) bool {
	stored = strings.TrimSpace(stored)
	if crypto.IsBcryptHash(stored) {
		return crypto.CheckPasswordHash(stored, submitted)
	}
	return stored == submitted
}

func normalize(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}
