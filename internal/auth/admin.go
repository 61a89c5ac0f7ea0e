package auth

import (
	"github.com/2beens/admingate/pkg"
)

// Admin is the single configured operator identity. It is read from the
// environment at startup and never mutated afterwards.
type Admin struct {
	Login        string
	PasswordHash string
}

func (a Admin) IsConfigured() bool {
	return a.Login != "" && a.PasswordHash != ""
}

// Verifier checks submitted credentials against the configured admin identity.
type Verifier struct {
	admin Admin
}

func NewVerifier(admin Admin) *Verifier {
	return &Verifier{admin: admin}
}

func (v *Verifier) IsConfigured() bool {
	return v.admin.IsConfigured()
}

// Verify reports whether the given login/password pair matches the configured
// admin. It fails closed when no admin is configured. The bcrypt comparison
// runs for every call with a matching structure, so a wrong login and a wrong
// password take the same code path.
func (v *Verifier) Verify(login, password string) bool {
	if !v.admin.IsConfigured() {
		return false
	}

	passwordOK := pkg.CheckPasswordHash(password, v.admin.PasswordHash)
	loginOK := login == v.admin.Login

	return passwordOK && loginOK
}
