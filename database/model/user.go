package model

import "slices"

// Column names of the Usuarios worksheet.
const (
	ColumnLogin    = "Usuario"
	ColumnPassword = "Contraseña"
	ColumnName     = "Nombre"
)

// User is one row of the Usuarios worksheet. Password holds either a
// plaintext value or a bcrypt hash.
type User struct {
	Usuario  string
	Password string
	Nombre   string
}

type UserTable struct {
	Columns []string
	Rows    []User
}

func EmptyUsers() *UserTable {
	return &UserTable{}
}

// NewUserTable maps raw rows onto users by header name.
func NewUserTable(header []string, rows [][]string) *UserTable {
	t := &UserTable{Columns: header, Rows: make([]User, 0, len(rows))}
	for _, cells := range rows {
		var u User
		for i, column := range header {
			if i >= len(cells) {
				break
			}
			switch column {
			case ColumnLogin:
				u.Usuario = cells[i]
			case ColumnPassword:
				u.Password = cells[i]
			case ColumnName:
				u.Nombre = cells[i]
			}
		}
		t.Rows = append(t.Rows, u)
	}
	return t
}

func (t *UserTable) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Rows)
}

func (t *UserTable) Empty() bool {
	return t.Len() == 0
}

func (t *UserTable) HasColumn(column string) bool {
	return t != nil && slices.Contains(t.Columns, column)
}
