package api

import "fmt"

// NetworkError covers connect/transport failures and unexpected statuses on
// calls that carry no server-supplied message.
type NetworkError struct {
	Op  string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s: network failure: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// DecodeError means the server answered but the body was malformed.
type DecodeError struct {
	Op  string
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("%s: malformed response body: %v", e.Op, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// AuthError carries the server's rejection message for login/register, or a
// generic fallback when the server gave none.
type AuthError struct {
	Message string
}

func (e *AuthError) Error() string { return e.Message }

// OrderError means order creation was rejected. The server's own message is
// deliberately not threaded through; callers surface a generic failure.
type OrderError struct {
	Op         string
	StatusCode int
}

func (e *OrderError) Error() string {
	return fmt.Sprintf("%s: rejected with status %d", e.Op, e.StatusCode)
}
