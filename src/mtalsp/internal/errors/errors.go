package errors

import stderr "errors"

// New returns an error that formats as the given text.
// Each call to New returns a distinct error value even if the text is identical.
func New(msg string) error {
	return stderr.New(msg)
}

// WatcherDisposedError reports an operation on a watcher that has already been disposed.
var WatcherDisposedError = New("watcher has been disposed")

// RegistryDisposedError reports a disposable added to a registry that has already been disposed.
var RegistryDisposedError = New("registry has been disposed")

// IsDisposed reports whether the error was caused by using a disposed resource.
func IsDisposed(e error) bool {
	return stderr.Is(e, WatcherDisposedError) || stderr.Is(e, RegistryDisposedError)
}
