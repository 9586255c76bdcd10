package domain

// AdminAccount describes an administrator created out-of-band by the
// operator CLI.
type AdminAccount struct {
	Email    string
	Name     string
	Password string
}
