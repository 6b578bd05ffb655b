package checker

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/samber/lo"
	"go.uber.org/zap"

	"github.com/khanhnv2901/seca-setcookie/internal/domain/finding"
	consts "github.com/khanhnv2901/seca-setcookie/internal/shared/constants"
	domainErrors "github.com/khanhnv2901/seca-setcookie/internal/shared/errors"
)

const (
	flagSecure   = "secure"
	flagHTTPOnly = "HttpOnly"

	summaryNoSetCookie  = "Site has no Set-Cookie header"
	summaryNoSecure     = "secure flag is not set in the Set-Cookie header"
	summaryNoHTTPOnly   = "HttpOnly flag is not set in the Set-Cookie header"
	summaryBothFlagsSet = "Site has both HttpOnly and secure flags set properly"
)

var cookieAttrSeparator = regexp.MustCompile(`\s*;\s*`)

// SetCookieChecker fetches a target once and reports whether its Set-Cookie
// header carries the secure and HttpOnly attributes.
type SetCookieChecker struct {
	Client  *http.Client
	Timeout time.Duration
	// FoldCase matches the attribute names case-insensitively. Off by default:
	// only the exact literals "secure" and "HttpOnly" count.
	FoldCase bool
	Logger   *zap.Logger
}

// Name returns the plugin name reported to the host.
func (s *SetCookieChecker) Name() string {
	return "SetCookie"
}

// Version returns the plugin version reported to the host.
func (s *SetCookieChecker) Version() string {
	return "0.1"
}

// Run performs the check and reports its findings and terminal status.
// Network errors end the run as FAILED and are returned to the caller.
func (s *SetCookieChecker) Run(ctx context.Context, target string, r Reporter) error {
	findings, err := s.Check(ctx, target)
	if err != nil {
		r.ReportFinish(finding.StatusFailed)
		return err
	}
	r.ReportIssues(findings)
	r.ReportFinish(finding.StatusFinished)
	return nil
}

// Check issues a single GET against target and analyzes the response headers.
func (s *SetCookieChecker) Check(ctx context.Context, target string) ([]finding.Finding, error) {
	u, err := NormalizeHTTPTarget(target)
	if err != nil {
		return nil, err
	}
	logger := s.logger().With(zap.String("plugin", s.Name()), zap.String("target", u))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	logger.Debug("fetching target")
	resp, err := s.client().Do(req)
	if err != nil {
		logger.Warn("request failed", zap.Error(err))
		return nil, fmt.Errorf("%w: %v", domainErrors.ErrRequestFailed, err)
	}
	defer resp.Body.Close()
	// Discard response body - ignore errors as this is just cleanup
	_, _ = io.Copy(io.Discard, resp.Body)

	findings := AnalyzeSetCookie(resp.Header, s.FoldCase)
	logger.Info("set-cookie analyzed",
		zap.Int("http_status", resp.StatusCode),
		zap.Int("findings", len(findings)),
		zap.String("highest_severity", finding.HighestSeverity(findings).String()),
	)
	return findings, nil
}

func (s *SetCookieChecker) client() *http.Client {
	if s.Client != nil {
		return s.Client
	}
	timeout := s.Timeout
	if timeout <= 0 {
		timeout = consts.DefaultHTTPTimeout
	}
	return &http.Client{Timeout: timeout}
}

func (s *SetCookieChecker) logger() *zap.Logger {
	if s.Logger == nil {
		return zap.NewNop()
	}
	return s.Logger
}

// AnalyzeSetCookie turns a response header set into cookie findings: one Info
// finding when Set-Cookie is absent, one High finding per missing attribute,
// or one Info finding when both attributes are present.
func AnalyzeSetCookie(header http.Header, foldCase bool) []finding.Finding {
	values := header.Values("Set-Cookie")
	if len(values) == 0 {
		return []finding.Finding{noSetCookieFinding()}
	}

	value := strings.Join(values, ", ")
	tokens := SplitCookieAttributes(value)

	var findings []finding.Finding
	if !hasAttribute(tokens, flagSecure, foldCase) {
		findings = append(findings, missingSecureFinding(value))
	}
	if !hasAttribute(tokens, flagHTTPOnly, foldCase) {
		findings = append(findings, missingHTTPOnlyFinding(value))
	}
	if len(findings) == 0 {
		findings = append(findings, bothFlagsFinding())
	}
	return findings
}

// SplitCookieAttributes splits a Set-Cookie value on ";" and trims the
// whitespace around each segment.
func SplitCookieAttributes(value string) []string {
	return cookieAttrSeparator.Split(strings.TrimSpace(value), -1)
}

func hasAttribute(tokens []string, name string, foldCase bool) bool {
	if !foldCase {
		return lo.Contains(tokens, name)
	}
	return lo.ContainsBy(tokens, func(token string) bool {
		return strings.EqualFold(token, name)
	})
}

func cookieReferences() []finding.Reference {
	return []finding.Reference{{URL: consts.CookieReferenceURL, Title: consts.CookieReferenceTitle}}
}

func cookieFinding(summary, description string, severity finding.Severity) finding.Finding {
	f, err := finding.New(summary, description, severity, []finding.URLRef{finding.UnsetURL()}, cookieReferences())
	if err != nil {
		// summaries and severities here are constants
		panic(err)
	}
	return f
}

func noSetCookieFinding() finding.Finding {
	return cookieFinding(summaryNoSetCookie,
		"The Set-Cookie header is sent by the server in response to an HTTP request, which is used to create a cookie on the user's system.",
		finding.SeverityInfo)
}

func missingSecureFinding(value string) finding.Finding {
	return cookieFinding(summaryNoSecure,
		"If the cookies containing user sensitive information, consider adding the secure flag to the Set-Cookie header. "+
			"The final cookie setting may look like this: "+SuggestedHeader(value, flagSecure),
		finding.SeverityHigh)
}

func missingHTTPOnlyFinding(value string) finding.Finding {
	return cookieFinding(summaryNoHTTPOnly,
		"If the HttpOnly flag (optional) is included in the HTTP response header, the cookie cannot be accessed through "+
			"client side script (again if the browser supports this flag). As a result, even if a cross-site scripting (XSS) "+
			"flaw exists, and a user accidentally accesses a link that exploits this flaw, the browser will not reveal the "+
			"cookie to a third party. The final cookie setting may look like this: "+SuggestedHeader(value, flagHTTPOnly),
		finding.SeverityHigh)
}

func bothFlagsFinding() finding.Finding {
	return cookieFinding(summaryBothFlagsSet,
		"Cookies can only be transferred over a secured channel and cookies is not accessible through client side script.",
		finding.SeverityInfo)
}

// SuggestedHeader renders the Set-Cookie header with attr appended.
func SuggestedHeader(value, attr string) string {
	return "Set-Cookie: " + value + "; " + attr + ";"
}
