package identity

import (
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/gobwas/glob"
)

// NormalizeRemote folds the common remote URL forms into host/owner/repo:
//
//	https://user@github.com/corp/repo.git -> github.com/corp/repo
//	ssh://git@github.com:22/corp/repo     -> github.com/corp/repo
//	git@github.com:corp/repo.git          -> github.com/corp/repo
func NormalizeRemote(remote string) string {
	remote = strings.TrimSpace(remote)
	remote = strings.TrimSuffix(remote, "/")
	remote = strings.TrimSuffix(remote, ".git")

	var host, path string
	if strings.Contains(remote, "://") {
		u, err := url.Parse(remote)
		if err != nil {
			return remote
		}
		host = u.Hostname()
		path = u.Path
	} else if i := strings.Index(remote, ":"); i > 0 && !strings.Contains(remote[:i], "/") {
		// scp-like syntax: [user@]host:path
		host = remote[:i]
		if at := strings.LastIndex(host, "@"); at >= 0 {
			host = host[at+1:]
		}
		path = remote[i+1:]
	} else {
		return remote
	}

	host = strings.ToLower(host)
	path = strings.Trim(path, "/")
	if path == "" {
		return host
	}
	return host + "/" + path
}

// MatchPattern reports whether a normalized remote matches a URL pattern.
// '*' matches within one path segment, '**' across segments. Patterns written
// as full URLs are normalized the same way as remotes.
func MatchPattern(pattern, normalizedRemote string) bool {
	g, err := CompilePattern(pattern)
	if err != nil {
		slog.Warn("ignoring invalid pattern", "pattern", pattern, "err", err)
		return false
	}
	return g.Match(normalizedRemote)
}

// CompilePattern compiles a URL pattern against the normalized remote form
func CompilePattern(pattern string) (glob.Glob, error) {
	g, err := glob.Compile(NormalizeRemote(pattern), '/')
	if err != nil {
		return nil, fmt.Errorf("invalid pattern %q: %w", pattern, err)
	}
	return g, nil
}
