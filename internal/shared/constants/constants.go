package constants

import (
	"io/fs"
	"syscall"
	"time"
)

const (
	// DefaultDirPerm is the default permission used when creating directories.
	DefaultDirPerm fs.FileMode = 0o755
	// DefaultFilePerm is the default permission used when creating files.
	DefaultFilePerm fs.FileMode = 0o644
)

const (
	// DefaultScannerProgram is the executable name the external adapter looks up.
	DefaultScannerProgram = "setcookie_scanner"
	// DefaultStopSignal is sent to the scanner process when the caller stops it.
	DefaultStopSignal = syscall.SIGKILL
	// DefaultHTTPTimeout bounds the cookie check request when the host sets no deadline.
	DefaultHTTPTimeout = 10 * time.Second
)

const (
	// CookieReferenceURL is attached to every cookie finding as further reading.
	CookieReferenceURL = "http://msdn.microsoft.com/en-us/library/windows/desktop/aa384321%28v=vs.85%29.aspx"
	// CookieReferenceTitle labels CookieReferenceURL.
	CookieReferenceTitle = "MSDN - HTTP Cookies"
)
