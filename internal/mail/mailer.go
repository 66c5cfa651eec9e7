package mail

import (
	"crypto/tls"
	"crypto/x509"
	"strconv"
	"strings"
	"time"

	"github.com/ryan-gang/mail-sender/internal/config"
	"github.com/ryan-gang/mail-sender/internal/logger"

	gomail "gopkg.in/mail.v2"
)

// dialer opens an authenticated SMTP session. *gomail.Dialer satisfies it.
type dialer interface {
	Dial() (gomail.SendCloser, error)
}

// Mailer sends messages with the settings of a config.Provider. Calls are
// blocking and must not overlap on the same Mailer.
type Mailer struct {
	cfg     config.Provider
	log     logger.Interface
	rootCAs *x509.CertPool
	timeout time.Duration

	newDialer func(host string, port int, auth *sessionAuth) dialer
}

// defaultTimeout matches the transport's own default.
const defaultTimeout = 10 * time.Second

type Option func(*Mailer)

// WithRootCAs replaces the platform trust store used to verify the server.
func WithRootCAs(pool *x509.CertPool) Option {
	return func(m *Mailer) {
		m.rootCAs = pool
	}
}

// WithTimeout sets the dial and I/O timeout of the SMTP session.
func WithTimeout(d time.Duration) Option {
	return func(m *Mailer) {
		m.timeout = d
	}
}

// Result describes the outcome of one Send call.
type Result struct {
	State      State
	Recipients []string
	Attached   []string
	Skipped    []*AttachmentError
}

func (r Result) OK() bool {
	return r.State == StateSucceeded
}

func New(cfg config.Provider, log logger.Interface, opts ...Option) *Mailer {
	if log == nil {
		log = logger.Nop()
	}
	m := &Mailer{
		cfg:     cfg,
		log:     log,
		timeout: defaultTimeout,
	}
	m.newDialer = m.smtpDialer
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *Mailer) smtpDialer(host string, port int, auth *sessionAuth) dialer {
	d := gomail.NewDialer(host, port, auth.username, auth.password)
	// left unset, the dialer skips login on servers that do not offer AUTH
	d.Auth = auth
	d.SSL = true
	d.RetryFailure = false
	d.Timeout = m.timeout
	d.TLSConfig = &tls.Config{
		ServerName: host,
		RootCAs:    m.rootCAs,
		MinVersion: tls.VersionTLS12,
	}
	return d
}

// Send validates msg against the configuration, composes it and delivers it
// in a single SMTP session. Unreadable attachments are skipped and reported
// in Result.Skipped. The returned error is a *ValidationError or a
// *TransmissionError.
func (m *Mailer) Send(msg Message) (Result, error) {
	res := Result{State: StateValidating}
	fail := func(err error) (Result, error) {
		res.State = StateFailed
		m.log.Errorf("Failed to send mail: %v", err)
		return res, err
	}

	recipients := cleanRecipients(msg.Recipients)
	if len(recipients) == 0 {
		return fail(&ValidationError{Reason: ReasonNoRecipients})
	}
	res.Recipients = recipients

	server, port := m.cfg.GetServer(), m.cfg.GetPort()
	sender, password := m.cfg.GetSender(), m.cfg.GetPassword()
	portNum, verr := validate(server, port, sender, password)
	if verr != nil {
		return fail(verr)
	}

	res.State = StateComposing
	composed, attached, skipped := m.compose(sender, recipients, msg)
	res.Attached, res.Skipped = attached, skipped

	res.State = StateConnecting
	s, err := m.open(server, portNum, sender, password)
	if err != nil {
		return fail(err)
	}
	defer m.closeSession(s)

	res.State = StateTransmitting
	if err := s.Send(sender, recipients, composed); err != nil {
		return fail(&TransmissionError{Stage: StateTransmitting, Err: err})
	}

	res.State = StateSucceeded
	m.log.Infof("Mail sent to %s", strings.Join(recipients, ", "))
	return res, nil
}

// TestConnection runs the connect and authenticate phase of Send against
// the given values, then quits. Nothing is persisted.
func (m *Mailer) TestConnection(server, port, email, password string) error {
	portNum, verr := validate(server, port, email, password)
	if verr != nil {
		m.log.Errorf("Connection test failed: %v", verr)
		return verr
	}

	s, err := m.open(server, portNum, email, password)
	if err != nil {
		m.log.Errorf("Connection test to %s:%d failed: %v", server, portNum, err)
		return err
	}
	m.closeSession(s)

	m.log.Infof("Connection test to %s:%d succeeded", server, portNum)
	return nil
}

func validate(server, port, sender, password string) (int, *ValidationError) {
	if server == "" || port == "" {
		return 0, &ValidationError{Reason: ReasonIncompleteServer}
	}
	if sender == "" || password == "" {
		return 0, &ValidationError{Reason: ReasonIncompleteSender}
	}
	n, err := strconv.Atoi(strings.TrimSpace(port))
	if err != nil || n < 1 || n > 65535 {
		return 0, &ValidationError{Reason: ReasonInvalidPort}
	}
	return n, nil
}

// open dials, completes the TLS handshake and authenticates. Failures
// before the login started, greeting rejections included, are connection
// failures.
func (m *Mailer) open(server string, port int, username, password string) (gomail.SendCloser, error) {
	m.log.Debugf("Connecting to %s:%d", server, port)
	auth := newSessionAuth(username, password, server)
	s, err := m.newDialer(server, port, auth).Dial()
	if err != nil {
		stage := StateConnecting
		if auth.started {
			stage = StateAuthenticating
		}
		return nil, &TransmissionError{Stage: stage, Err: err}
	}
	return s, nil
}

func (m *Mailer) closeSession(s gomail.SendCloser) {
	if err := s.Close(); err != nil {
		m.log.Warnf("Closing SMTP session: %v", err)
	}
}
