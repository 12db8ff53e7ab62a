package domain

const RoleAdmin = "ADMIN"

type User struct {
	ID    string `db:"id"`
	Email string `db:"email"`
	Name  string `db:"name"`
	Hash  string `db:"password_hash"`
	Role  string `db:"role"`
}

func (u *User) IsAdmin() bool { return u != nil && u.Role == RoleAdmin }

// Actor is whoever drives a cart request. UserID is empty for anonymous shoppers.
type Actor struct {
	SessionID string
	UserID    string
}

func (a Actor) Authenticated() bool { return a.UserID != "" }

// ActorFor builds the actor for a session, optionally bound to a logged-in user.
func ActorFor(sid string, u *User) Actor {
	a := Actor{SessionID: sid}
	if u != nil {
		a.UserID = u.ID
	}
	return a
}
