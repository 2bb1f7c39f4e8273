package ledger

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound        = errors.New("not found")
	ErrInvalidArgument = errors.New("invalid argument")
)

func invalid(msg string) error {
	return fmt.Errorf("%w: %s", ErrInvalidArgument, msg)
}

func notFound(entity string) error {
	return fmt.Errorf("%w: %s not found", ErrNotFound, entity)
}

// Message strips the sentinel prefix so the text can be shown to callers.
func Message(err error) string {
	for _, sentinel := range []error{ErrInvalidArgument, ErrNotFound} {
		if errors.Is(err, sentinel) {
			msg := err.Error()
			prefix := sentinel.Error() + ": "
			if len(msg) > len(prefix) && msg[:len(prefix)] == prefix {
				return msg[len(prefix):]
			}
			return msg
		}
	}
	return err.Error()
}
