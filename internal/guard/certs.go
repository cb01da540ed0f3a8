package guard

import (
	"regexp"
	"sort"
	"strings"

	"golang.org/x/net/publicsuffix"

	"github.com/jonathan/career-pathfinder/internal/normalize"
)

var hostRe = regexp.MustCompile(`(?i)\b(?:https?://)?((?:[a-z0-9-]+\.)+[a-z]{2,})\b`)

// certFilter keeps only certifications whose issuing domain is trusted.
type certFilter struct {
	trusted map[string]struct{}
	aliases []issuerAlias
}

type issuerAlias struct {
	pattern *regexp.Regexp
	domain  string
}

func newCertFilter(domains []string, aliases map[string]string) *certFilter {
	f := &certFilter{trusted: make(map[string]struct{}, len(domains))}
	for _, d := range domains {
		f.trusted[registrableDomain(d)] = struct{}{}
	}

	names := make([]string, 0, len(aliases))
	for name := range aliases {
		names = append(names, name)
	}
	// Longest alias first so "scrum alliance" wins over a shorter overlap.
	sort.Slice(names, func(i, j int) bool {
		if len(names[i]) != len(names[j]) {
			return len(names[i]) > len(names[j])
		}
		return names[i] < names[j]
	})
	for _, name := range names {
		f.aliases = append(f.aliases, issuerAlias{
			pattern: regexp.MustCompile(`\b` + regexp.QuoteMeta(strings.ToLower(name)) + `\b`),
			domain:  registrableDomain(aliases[name]),
		})
	}
	return f
}

// filter drops untrusted certifications and duplicates. It never rejects a node.
func (f *certFilter) filter(certs []string) []string {
	out := make([]string, 0, len(certs))
	seen := make(map[string]struct{}, len(certs))
	for _, c := range certs {
		cert := normalize.CleanText(c)
		if cert == "" {
			continue
		}
		key := strings.ToLower(cert)
		if _, dup := seen[key]; dup {
			continue
		}
		if !f.isTrusted(cert) {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, cert)
	}
	return out
}

func (f *certFilter) isTrusted(cert string) bool {
	if domain := f.issuingDomain(cert); domain != "" {
		_, ok := f.trusted[domain]
		return ok
	}
	return false
}

// issuingDomain returns the registrable domain named in the certification text,
// either as a URL/host or through a known issuer name.
func (f *certFilter) issuingDomain(cert string) string {
	// Only hosts under a real ICANN suffix count; "Node.js" is not a domain.
	for _, m := range hostRe.FindAllStringSubmatch(cert, -1) {
		host := strings.ToLower(m[1])
		if suffix, icann := publicsuffix.PublicSuffix(host); icann && suffix != host {
			return registrableDomain(host)
		}
	}
	lower := strings.ToLower(cert)
	for _, alias := range f.aliases {
		if alias.pattern.MatchString(lower) {
			return alias.domain
		}
	}
	return ""
}

func registrableDomain(host string) string {
	host = strings.ToLower(strings.TrimSpace(host))
	host = strings.TrimPrefix(host, "www.")
	if host == "" {
		return ""
	}
	d, err := publicsuffix.EffectiveTLDPlusOne(host)
	if err != nil {
		return host
	}
	return d
}
