package cli

import (
	"context"
	"errors"
	"sort"

	"github.com/dmitrijs2005/kbconsole/internal/client/client"
	"github.com/dmitrijs2005/kbconsole/internal/common"
)

const (
	msgUnavailable   = "Unable to connect to server!"
	msgLoginAgain    = "Your session has ended, please log in again."
	msgNeedsVerify   = "Your email is not verified yet. Run 'logincode' to sign in with a code sent to your email."
	msgUnauthorized  = "You are not allowed to do that."
	msgCancelled     = "Cancelled."
	msgNotFoundLocal = "Not found. Run the list command again to refresh."
)

// notice turns a command error into the lines shown to the user.
//
// Validation errors list one line per field; the remaining kinds collapse to
// a single line. Messages coming from the server are shown verbatim.
func notice(err error) []string {
	var ve *client.ValidationError
	var ae *client.APIError
	var ue *UsageError

	switch {
	case errors.As(err, &ve):
		lines := []string{ve.Message}
		fields := make([]string, 0, len(ve.Fields))
		for f := range ve.Fields {
			fields = append(fields, f)
		}
		sort.Strings(fields)
		for _, f := range fields {
			lines = append(lines, "  "+f+": "+ve.Fields[f])
		}
		return lines

	case errors.As(err, &ue):
		return []string{ue.Error()}

	case errors.Is(err, errCancelled), errors.Is(err, context.Canceled):
		return []string{msgCancelled}

	case errors.Is(err, client.ErrNeedsVerification):
		return []string{msgNeedsVerify}

	case errors.Is(err, client.ErrSessionExpired), errors.Is(err, client.ErrNoSession):
		return []string{msgLoginAgain}

	case errors.Is(err, client.ErrUnavailable):
		return []string{msgUnavailable}

	case errors.As(err, &ae):
		if ae.Message != "" {
			return []string{ae.Message}
		}
		if errors.Is(err, client.ErrUnauthorized) {
			return []string{msgUnauthorized}
		}
		return []string{ae.Error()}

	case errors.Is(err, common.ErrorNotFound):
		return []string{msgNotFoundLocal}
	}

	return []string{err.Error()}
}
