package sock

import "fmt"

// IOError wraps any socket failure: bind, option, resolve, send or receive.
type IOError struct {
	Op   string
	Addr string
	Err  error
}

func (e *IOError) Error() string {
	if e.Addr == "" {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s %s: %v", e.Op, e.Addr, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }
