package mail

import (
	"errors"
	"fmt"
	"net/smtp"
	"slices"
	"strings"
)

// ErrAuthUnsupported is returned when the server offers no mechanism the
// sender credentials can be used with.
var ErrAuthUnsupported = errors.New("server does not support authentication")

// sessionAuth always logs in. It picks PLAIN or LOGIN from what the server
// advertises and refuses to go on when neither is offered, so a session is
// never left unauthenticated.
type sessionAuth struct {
	username string
	password string
	host     string

	// started is set once the server greeted us and the login began.
	started bool
	mech    smtp.Auth
}

func newSessionAuth(username, password, host string) *sessionAuth {
	return &sessionAuth{username: username, password: password, host: host}
}

func (a *sessionAuth) Start(server *smtp.ServerInfo) (string, []byte, error) {
	a.started = true

	offers := func(name string) bool {
		return slices.ContainsFunc(server.Auth, func(m string) bool {
			return strings.EqualFold(m, name)
		})
	}
	switch {
	case len(server.Auth) == 0:
		return "", nil, ErrAuthUnsupported
	case offers("PLAIN"):
		a.mech = smtp.PlainAuth("", a.username, a.password, a.host)
	case offers("LOGIN"):
		a.mech = &loginAuth{username: a.username, password: a.password}
	default:
		return "", nil, fmt.Errorf("%w: offered %s", ErrAuthUnsupported, strings.Join(server.Auth, " "))
	}

	if !server.TLS {
		return "", nil, errors.New("refusing to send credentials over an unencrypted connection")
	}
	return a.mech.Start(server)
}

func (a *sessionAuth) Next(fromServer []byte, more bool) ([]byte, error) {
	return a.mech.Next(fromServer, more)
}

// loginAuth implements the LOGIN mechanism, which net/smtp lacks.
type loginAuth struct {
	username string
	password string
}

func (a *loginAuth) Start(*smtp.ServerInfo) (string, []byte, error) {
	return "LOGIN", nil, nil
}

func (a *loginAuth) Next(fromServer []byte, more bool) ([]byte, error) {
	if !more {
		return nil, nil
	}
	switch strings.ToLower(strings.TrimSpace(string(fromServer))) {
	case "username:":
		return []byte(a.username), nil
	case "password:":
		return []byte(a.password), nil
	}
	return nil, fmt.Errorf("unexpected LOGIN challenge %q", fromServer)
}
