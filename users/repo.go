package users

type Repo interface {
	Upsert(user *User) error
	Delete(username string) error
	GetByUsername(username string) (*User, error)
	GetByID(id int64) (*User, error)
	List(offset, limit int) ([]*User, error)
	ListByRole(role Role) ([]*User, error)
	SetBlocked(username string, blocked bool) error
	SetLastLogin(username string) error
}
