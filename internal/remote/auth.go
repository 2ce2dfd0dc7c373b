package remote

// Authenticator supplies registry credentials. A nil Authenticator
// falls back to the ambient Docker keychain.
type Authenticator interface {
	// Authenticate returns credentials for the given registry. An
	// empty username means anonymous access.
	Authenticate(registry string) (username, password string, err error)
}

// StaticAuthenticator returns the same credentials for every registry.
type StaticAuthenticator struct {
	Username string
	Password string
}

func (a *StaticAuthenticator) Authenticate(string) (string, string, error) {
	return a.Username, a.Password, nil
}
