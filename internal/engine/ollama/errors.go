package ollama

import (
	"errors"
	"fmt"
)

var ErrReplyTooLarge = errors.New("upstream reply too large")

type HTTPError struct {
	StatusCode int
	Body       string
}

func (e *HTTPError) Error() string {
	if e == nil {
		return "upstream http error"
	}
	if e.Body == "" {
		return fmt.Sprintf("upstream http error: status=%d", e.StatusCode)
	}
	return fmt.Sprintf("upstream http error: status=%d body=%s", e.StatusCode, e.Body)
}

// MalformedError means the upstream answered 2xx with a body that is not a JSON object.
type MalformedError struct {
	Body string
	Err  error
}

func (e *MalformedError) Error() string {
	if e == nil {
		return "malformed upstream reply"
	}
	if e.Err != nil {
		return fmt.Sprintf("malformed upstream reply: %v", e.Err)
	}
	return "malformed upstream reply"
}

func (e *MalformedError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}
