// Package pathsec is the single source of truth for "may this path be
// read/written/executed" (spec.md §4.2): per-tool allow-lists, an
// always-enforced deny-list, and symlink-resolved containment checks.
package pathsec

// Reason is the closed set of machine-readable outcomes a Decision carries.
type Reason string

const (
	ReasonUnrestricted     Reason = "unrestricted"
	ReasonWithinAllowed    Reason = "within_allowed"
	ReasonCwdDefault       Reason = "cwd_default"
	ReasonBlocked          Reason = "blocked"
	ReasonOutsideAllowed   Reason = "outside_allowed"
	ReasonNoAllowedPaths   Reason = "no_allowed_paths"
	ReasonResolutionFailed Reason = "resolution_failed"
	ReasonPathNotFound     Reason = "path_not_found"
	ReasonNotADirectory    Reason = "not_a_directory"
)

// Decision is the reasoned result of a path access check. Denied decisions
// never carry a ResolvedPath, so a caller cannot accidentally leak it.
type Decision struct {
	Allowed      bool
	ResolvedPath string
	Reason       Reason
	ReasonDetail string
	OriginalPath string
	MatchedRule  *string
}

func denied(original string, reason Reason, detail string, matched *string) Decision {
	return Decision{
		Allowed:      false,
		Reason:       reason,
		ReasonDetail: detail,
		OriginalPath: original,
		MatchedRule:  matched,
	}
}

func allowed(original, resolved string, reason Reason, detail string, matched *string) Decision {
	return Decision{
		Allowed:      true,
		ResolvedPath: resolved,
		Reason:       reason,
		ReasonDetail: detail,
		OriginalPath: original,
		MatchedRule:  matched,
	}
}

func strp(s string) *string { return &s }
