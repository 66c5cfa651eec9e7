package config

import "fmt"

// Error reports a config file that could not be read, parsed or written.
// The store keeps its previous state whenever one is returned.
type Error struct {
	Op   string
	Path string
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("config %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}
