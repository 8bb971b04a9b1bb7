package cityimage

import (
	"regexp"
	"strings"
)

var privateHostPrefix = regexp.MustCompile(
	`^http://(localhost|127\.0\.0\.1|192\.168\.\d+\.\d+|10\.\d+\.\d+\.\d+|172\.(1[6-9]|2\d|3[01])\.\d+\.\d+)(:\d+)?([/?#]|$)`,
)

// URLRewriter swaps loopback and private-network origins for a public base URL
// so that devices off the host network can load stored images.
type URLRewriter struct {
	publicBase string
}

func NewURLRewriter(publicBase string) URLRewriter {
	return URLRewriter{publicBase: strings.TrimRight(publicBase, "/")}
}

// Rewrite returns url unchanged when no public base is configured or the
// origin is already public.
func (r URLRewriter) Rewrite(url string) string {
	if r.publicBase == "" {
		return url
	}
	loc := privateHostPrefix.FindStringSubmatchIndex(url)
	if loc == nil {
		return url
	}
	// keep the path delimiter matched after the host
	return r.publicBase + url[loc[len(loc)-2]:]
}
