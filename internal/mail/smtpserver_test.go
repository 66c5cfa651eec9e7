package mail

import (
	"bufio"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/tls"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/base64"
	"fmt"
	"math/big"
	"net"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// received is one message accepted by the test server.
type received struct {
	From string
	To   []string
	Data string
}

// testServer is an implicit-TLS SMTP relay listening on 127.0.0.1. It only
// speaks as much of the protocol as the client under test uses.
type testServer struct {
	Host string
	Port string
	Pool *x509.CertPool

	username   string
	password   string
	greeting   string
	authMech   string
	rejectRcpt string

	ln net.Listener
	wg sync.WaitGroup

	mu       sync.Mutex
	conns    int
	logins   int
	messages []received
}

type serverOption func(*testServer)

// withAuthMech sets the single mechanism advertised after EHLO. An empty
// name leaves AUTH out entirely.
func withAuthMech(name string) serverOption {
	return func(s *testServer) { s.authMech = name }
}

// withGreeting replaces the 220 banner.
func withGreeting(line string) serverOption {
	return func(s *testServer) { s.greeting = line }
}

func withRejectedRecipient(addr string) serverOption {
	return func(s *testServer) { s.rejectRcpt = addr }
}

func newTestServer(t *testing.T, username, password string, opts ...serverOption) *testServer {
	t.Helper()

	cert, pool := selfSignedCert(t)
	ln, err := tls.Listen("tcp", "127.0.0.1:0", &tls.Config{
		Certificates: []tls.Certificate{cert},
		MinVersion:   tls.VersionTLS12,
	})
	require.NoError(t, err)

	host, port, err := net.SplitHostPort(ln.Addr().String())
	require.NoError(t, err)

	s := &testServer{
		Host:     host,
		Port:     port,
		Pool:     pool,
		username: username,
		password: password,
		greeting: "220 test.local ESMTP",
		authMech: "PLAIN",
		ln:       ln,
	}
	for _, opt := range opts {
		opt(s)
	}

	s.wg.Add(1)
	go s.serve()

	t.Cleanup(func() {
		ln.Close()
		s.wg.Wait()
	})
	return s
}

func (s *testServer) Conns() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.conns
}

func (s *testServer) Logins() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.logins
}

func (s *testServer) Messages() []received {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]received(nil), s.messages...)
}

func (s *testServer) serve() {
	defer s.wg.Done()
	for {
		conn, err := s.ln.Accept()
		if err != nil {
			return
		}
		s.mu.Lock()
		s.conns++
		s.mu.Unlock()

		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			s.handle(conn)
		}()
	}
}

func (s *testServer) handle(conn net.Conn) {
	defer conn.Close()
	_ = conn.SetDeadline(time.Now().Add(10 * time.Second))

	r := bufio.NewReader(conn)
	w := bufio.NewWriter(conn)
	reply := func(format string, args ...any) bool {
		fmt.Fprintf(w, format+"\r\n", args...)
		return w.Flush() == nil
	}

	if !reply("%s", s.greeting) || !strings.HasPrefix(s.greeting, "220") {
		return
	}

	var current received
	for {
		line, err := r.ReadString('\n')
		if err != nil {
			return
		}
		line = strings.TrimRight(line, "\r\n")
		verb, arg, _ := strings.Cut(line, " ")

		switch strings.ToUpper(verb) {
		case "EHLO", "HELO":
			reply("250-test.local Hello %s", arg)
			if s.authMech != "" {
				reply("250-AUTH %s", s.authMech)
			}
			reply("250 OK")
		case "AUTH":
			mech, initial, _ := strings.Cut(arg, " ")
			if s.authMech == "" || !strings.EqualFold(mech, s.authMech) {
				reply("504 Unrecognized authentication type")
				continue
			}
			var ok bool
			if strings.EqualFold(mech, "LOGIN") {
				user, alive := challenge(r, reply, "Username:")
				if !alive {
					return
				}
				pass, alive := challenge(r, reply, "Password:")
				if !alive {
					return
				}
				ok = user == s.username && pass == s.password
			} else {
				ok = s.verifyPlain(initial)
			}
			if ok {
				s.mu.Lock()
				s.logins++
				s.mu.Unlock()
				reply("235 Authentication successful")
			} else {
				reply("535 Authentication failed")
			}
		case "*":
			reply("501 Authentication cancelled")
		case "MAIL":
			current = received{From: extractAddr(arg)}
			reply("250 OK")
		case "RCPT":
			addr := extractAddr(arg)
			if addr == s.rejectRcpt {
				reply("550 No such user")
				continue
			}
			current.To = append(current.To, addr)
			reply("250 OK")
		case "DATA":
			reply("354 End data with <CR><LF>.<CR><LF>")
			var data strings.Builder
			for {
				l, err := r.ReadString('\n')
				if err != nil {
					return
				}
				if strings.TrimRight(l, "\r\n") == "." {
					break
				}
				if strings.HasPrefix(l, "..") {
					l = l[1:]
				}
				data.WriteString(l)
			}
			current.Data = data.String()
			s.mu.Lock()
			s.messages = append(s.messages, current)
			s.mu.Unlock()
			current = received{}
			reply("250 OK queued")
		case "RSET", "NOOP":
			reply("250 OK")
		case "QUIT":
			reply("221 Bye")
			return
		default:
			reply("500 Unrecognized command")
		}
	}
}

func (s *testServer) verifyPlain(encoded string) bool {
	decoded, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return false
	}
	parts := strings.SplitN(string(decoded), "\x00", 3)
	return len(parts) == 3 && parts[1] == s.username && parts[2] == s.password
}

// challenge sends a base64 prompt and decodes the answer line. It reports
// false when the connection is gone.
func challenge(r *bufio.Reader, reply func(string, ...any) bool, prompt string) (string, bool) {
	if !reply("334 %s", base64.StdEncoding.EncodeToString([]byte(prompt))) {
		return "", false
	}
	line, err := r.ReadString('\n')
	if err != nil {
		return "", false
	}
	decoded, err := base64.StdEncoding.DecodeString(strings.TrimRight(line, "\r\n"))
	if err != nil {
		return "", true
	}
	return string(decoded), true
}

func extractAddr(arg string) string {
	_, rest, ok := strings.Cut(arg, ":")
	if !ok {
		return ""
	}
	rest = strings.TrimSpace(rest)
	if strings.HasPrefix(rest, "<") {
		if end := strings.Index(rest, ">"); end > 0 {
			return rest[1:end]
		}
	}
	addr, _, _ := strings.Cut(rest, " ")
	return addr
}

// selfSignedCert builds an in-memory ECDSA P-256 certificate for 127.0.0.1
// and a pool that trusts it.
func selfSignedCert(t *testing.T) (tls.Certificate, *x509.CertPool) {
	t.Helper()

	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)

	serial, err := rand.Int(rand.Reader, new(big.Int).Lsh(big.NewInt(1), 128))
	require.NoError(t, err)

	template := &x509.Certificate{
		SerialNumber:          serial,
		Subject:               pkix.Name{CommonName: "127.0.0.1"},
		NotBefore:             time.Now().Add(-time.Hour),
		NotAfter:              time.Now().Add(24 * time.Hour),
		KeyUsage:              x509.KeyUsageDigitalSignature | x509.KeyUsageCertSign,
		ExtKeyUsage:           []x509.ExtKeyUsage{x509.ExtKeyUsageServerAuth},
		BasicConstraintsValid: true,
		IsCA:                  true,
		IPAddresses:           []net.IP{net.ParseIP("127.0.0.1")},
	}

	der, err := x509.CreateCertificate(rand.Reader, template, template, &key.PublicKey, key)
	require.NoError(t, err)

	leaf, err := x509.ParseCertificate(der)
	require.NoError(t, err)

	pool := x509.NewCertPool()
	pool.AddCert(leaf)

	return tls.Certificate{
		Certificate: [][]byte{der},
		PrivateKey:  key,
		Leaf:        leaf,
	}, pool
}
