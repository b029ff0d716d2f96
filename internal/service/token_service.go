package service

// TokenService mints the advisory session token returned by login. Identity is
// stateless: no session rows, no refresh flow.
type TokenService interface {
	Issue(username string) (token string, expiresIn int64, err error)
	Verify(token string) (username string, err error)
}
