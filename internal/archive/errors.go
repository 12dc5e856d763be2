package archive

import "errors"

// ErrUnknownScan reports a journal operation against a scan ID that was
// never begun.
var ErrUnknownScan = errors.New("unknown scan")
