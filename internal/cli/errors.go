package cli

import "errors"

// errRejected is returned after the server's warning was printed.
var errRejected = errors.New("request rejected")

// IsReported reports whether err was already shown to the user.
func IsReported(err error) bool {
	return errors.Is(err, errRejected)
}
