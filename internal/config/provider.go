package config

// Provider is the read-only view of the settings the mailer needs.
type Provider interface {
	GetServer() string
	GetPort() string
	GetSender() string
	GetPassword() string
}

func (s *Store) GetServer() string {
	return s.Get(KeyServer)
}

func (s *Store) GetPort() string {
	return s.Get(KeyPort)
}

func (s *Store) GetSender() string {
	return s.Get(KeySender)
}

func (s *Store) GetPassword() string {
	return s.Get(KeyPassword)
}
