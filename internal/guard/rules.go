// Package guard converts schema-valid but untrusted model output into trusted career path nodes.
package guard

import "github.com/jonathan/career-pathfinder/internal/normalize"

// RulesVersion identifies the default rule set in logs and telemetry.
const RulesVersion = "2025-06"

// Rules holds the tunable constants of the guard mapper. A Rules value is read-only
// once handed to NewMapper.
type Rules struct {
	Version string `mapstructure:"version"`

	// ActionVerbs are imperative verbs that mark a title as a task rather than a role.
	ActionVerbs []string `mapstructure:"action_verbs"`

	// TrustedCertDomains are registrable domains of accepted certification issuers.
	TrustedCertDomains []string `mapstructure:"trusted_cert_domains"`

	// IssuerAliases maps issuer names seen in certification text to their domain.
	IssuerAliases map[string]string `mapstructure:"issuer_aliases"`

	// SalaryMultiplier derives a band from a single salary figure.
	SalaryMultiplier float64 `mapstructure:"salary_multiplier"`

	// TargetSimilarity is the minimum normalized edit-distance similarity between the
	// last node's title and the requested role.
	TargetSimilarity float64 `mapstructure:"target_similarity"`
}

// DefaultRules returns the production rule set.
func DefaultRules() Rules {
	return Rules{
		Version: RulesVersion,
		ActionVerbs: []string{
			"add", "apply", "attend", "complete", "create", "enroll", "fill",
			"finish", "obtain", "prepare", "read", "register", "review", "schedule",
			"send", "start", "submit", "take", "update", "upload", "write",
		},
		TrustedCertDomains: []string{
			"amazon.com", "aicpa.org", "axelos.com", "cfainstitute.org", "cisco.com",
			"comptia.org", "coursera.org", "credly.com", "google.com", "hubspot.com",
			"iiba.org", "isaca.org", "isc2.org", "linuxfoundation.org", "microsoft.com",
			"oracle.com", "pmi.org", "salesforce.com", "scrum.org", "scrumalliance.org",
			"shrm.org", "tableau.com",
		},
		IssuerAliases: map[string]string{
			"aws":              "amazon.com",
			"amazon":           "amazon.com",
			"aicpa":            "aicpa.org",
			"cpa":              "aicpa.org",
			"axelos":           "axelos.com",
			"itil":             "axelos.com",
			"prince2":          "axelos.com",
			"cfa":              "cfainstitute.org",
			"cisco":            "cisco.com",
			"ccna":             "cisco.com",
			"comptia":          "comptia.org",
			"google":           "google.com",
			"hubspot":          "hubspot.com",
			"iiba":             "iiba.org",
			"cbap":             "iiba.org",
			"isaca":            "isaca.org",
			"cisa":             "isaca.org",
			"cism":             "isaca.org",
			"isc2":             "isc2.org",
			"cissp":            "isc2.org",
			"cka":              "linuxfoundation.org",
			"linux foundation": "linuxfoundation.org",
			"microsoft":        "microsoft.com",
			"azure":            "microsoft.com",
			"oracle":           "oracle.com",
			"pmi":              "pmi.org",
			"pmp":              "pmi.org",
			"capm":             "pmi.org",
			"salesforce":       "salesforce.com",
			"psm":              "scrum.org",
			"scrum alliance":   "scrumalliance.org",
			"certified scrum":  "scrumalliance.org",
			"csm":              "scrumalliance.org",
			"cspo":             "scrumalliance.org",
			"shrm":             "shrm.org",
			"tableau":          "tableau.com",

			"project management professional": "pmi.org",
		},
		SalaryMultiplier: normalize.SalaryRangeMultiplier,
		TargetSimilarity: 0.6,
	}
}

// WithDefaults fills zero-valued fields from DefaultRules.
func (r Rules) WithDefaults() Rules {
	d := DefaultRules()
	if r.Version == "" {
		r.Version = d.Version
	}
	if len(r.ActionVerbs) == 0 {
		r.ActionVerbs = d.ActionVerbs
	}
	if len(r.TrustedCertDomains) == 0 {
		r.TrustedCertDomains = d.TrustedCertDomains
	}
	if len(r.IssuerAliases) == 0 {
		r.IssuerAliases = d.IssuerAliases
	}
	if r.SalaryMultiplier <= 1 {
		r.SalaryMultiplier = d.SalaryMultiplier
	}
	if r.TargetSimilarity <= 0 || r.TargetSimilarity > 1 {
		r.TargetSimilarity = d.TargetSimilarity
	}
	return r
}
