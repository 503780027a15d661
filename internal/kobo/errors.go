package kobo

import (
	"errors"
)

// ErrSourceUnavailable indicates the Kobo database could not be found,
// opened or read. Fatal: nothing is synced when the source is unreadable.
var ErrSourceUnavailable = errors.New("kobo database unavailable")
