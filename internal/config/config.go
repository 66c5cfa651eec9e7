package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"maps"
	"os"
	"strconv"

	"github.com/ryan-gang/mail-sender/internal/logger"
	"golang.org/x/text/language"
)

const DefaultConfigFile = "mail_config.json"

// Recognized keys. Anything else in the file is carried along untouched.
const (
	KeyServer   = "smtp_server"
	KeyPort     = "smtp_port"
	KeySender   = "sender_email"
	KeyPassword = "password"
	KeyLanguage = "language"
)

// Values is the flat settings mapping persisted in the config file.
type Values map[string]string

// Store owns the in-memory configuration. It is not safe for concurrent use.
type Store struct {
	values Values
	log    logger.Interface
}

func NewStore(log logger.Interface) *Store {
	if log == nil {
		log = logger.Nop()
	}
	return &Store{values: make(Values), log: log}
}

// Load merges the file at path into the store. A missing file is only a
// warning; an unreadable or malformed one yields *Error and leaves the store
// as it was.
func (s *Store) Load(path string) (Values, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		s.log.Warnf("Config file %s does not exist, using current settings", path)
		return s.Values(), nil
	}
	if err != nil {
		cerr := &Error{Op: "load", Path: path, Err: err}
		s.log.Error(cerr)
		return s.Values(), cerr
	}

	parsed, err := decode(data)
	if err != nil {
		cerr := &Error{Op: "load", Path: path, Err: err}
		s.log.Error(cerr)
		return s.Values(), cerr
	}

	maps.Copy(s.values, parsed)
	s.log.Infof("Config loaded from %s", path)
	return s.Values(), nil
}

// Save writes values to path, replacing the file entirely. On success the
// store holds exactly values afterwards.
func (s *Store) Save(path string, values Values) error {
	data, err := encode(values)
	if err != nil {
		cerr := &Error{Op: "save", Path: path, Err: err}
		s.log.Error(cerr)
		return cerr
	}

	// the file carries a clear-text password
	if err := os.WriteFile(path, data, 0600); err != nil {
		cerr := &Error{Op: "save", Path: path, Err: err}
		s.log.Error(cerr)
		return cerr
	}

	s.values = maps.Clone(values)
	if s.values == nil {
		s.values = make(Values)
	}
	s.log.Infof("Config saved to %s", path)
	return nil
}

// Values returns a copy of the current settings.
func (s *Store) Values() Values {
	return maps.Clone(s.values)
}

func (s *Store) Get(key string) string {
	return s.values[key]
}

func (s *Store) Set(key, value string) {
	s.values[key] = value
}

// Language parses the preferred locale, returning language.Und when unset
// or malformed.
func (s *Store) Language() language.Tag {
	raw := s.values[KeyLanguage]
	if raw == "" {
		return language.Und
	}
	tag, err := language.Parse(raw)
	if err != nil {
		s.log.Warnf("Ignoring invalid language %q: %v", raw, err)
		return language.Und
	}
	return tag
}

func decode(data []byte) (Values, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var raw map[string]any
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, fmt.Errorf("parsing config: unexpected data after the top level object")
	}
	if raw == nil {
		return nil, fmt.Errorf("parsing config: top level value must be an object")
	}

	values := make(Values, len(raw))
	for key, v := range raw {
		switch val := v.(type) {
		case nil:
		case string:
			values[key] = val
		case json.Number:
			values[key] = val.String()
		case bool:
			values[key] = strconv.FormatBool(val)
		default:
			return nil, fmt.Errorf("parsing config: key %q holds a %T, want a scalar", key, v)
		}
	}
	return values, nil
}

func encode(values Values) ([]byte, error) {
	if values == nil {
		values = Values{}
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")
	if err := enc.Encode(values); err != nil {
		return nil, fmt.Errorf("serializing config: %w", err)
	}
	return buf.Bytes(), nil
}
