// Package pinpolicy classifies numeric PINs as WEAK or STRONG.
//
// Classification is pure: no I/O, no shared mutable state. A PIN is weak when
// it follows a structural pattern (sequence, repetition, palindrome, keypad
// shape) or encodes one of the caller-supplied personal dates.
package pinpolicy

import (
	"fmt"
)

// Strength is the verdict of a classification.
type Strength string

const (
	StrengthWeak   Strength = "WEAK"
	StrengthStrong Strength = "STRONG"
)

// String returns the wire literal.
func (s Strength) String() string {
	return string(s)
}

// Reason is the closed set of reasons a PIN can be weak. The zero value is
// not a valid reason.
type Reason int

const (
	_ Reason = iota
	ReasonCommonlyUsed
	ReasonDOBSelf
	ReasonDOBSpouse
	ReasonAnniversary
)

var reasonLiterals = [...]string{
	ReasonCommonlyUsed: "COMMONLY_USED",
	ReasonDOBSelf:      "DEMOGRAPHIC_DOB_SELF",
	ReasonDOBSpouse:    "DEMOGRAPHIC_DOB_SPOUSE",
	ReasonAnniversary:  "DEMOGRAPHIC_ANNIVERSARY",
}

// AllReasons lists every reason in evaluation order.
func AllReasons() []Reason {
	return []Reason{ReasonCommonlyUsed, ReasonDOBSelf, ReasonDOBSpouse, ReasonAnniversary}
}

// IsValid reports whether r is one of the defined reasons.
func (r Reason) IsValid() bool {
	return r >= ReasonCommonlyUsed && r <= ReasonAnniversary
}

// String returns the exact wire literal external systems match on.
func (r Reason) String() string {
	if !r.IsValid() {
		return fmt.Sprintf("Reason(%d)", int(r))
	}
	return reasonLiterals[r]
}

// MarshalText serializes the reason to its wire literal.
func (r Reason) MarshalText() ([]byte, error) {
	if !r.IsValid() {
		return nil, fmt.Errorf("invalid reason %d", int(r))
	}
	return []byte(reasonLiterals[r]), nil
}

// UnmarshalText parses a wire literal.
func (r *Reason) UnmarshalText(text []byte) error {
	parsed, err := ParseReason(string(text))
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

// ParseReason maps a wire literal back to its Reason.
func ParseReason(s string) (Reason, error) {
	for _, r := range AllReasons() {
		if reasonLiterals[r] == s {
			return r, nil
		}
	}
	return 0, fmt.Errorf("unknown reason %q", s)
}

// Verdict is the outcome of classifying one PIN.
// Invariant: Reasons is non-empty iff Strength is StrengthWeak.
type Verdict struct {
	Strength Strength `json:"strength"`
	Reasons  []Reason `json:"reasons"`
}

// IsWeak reports whether the PIN was classified weak.
func (v Verdict) IsWeak() bool {
	return v.Strength == StrengthWeak
}

// ReasonCodes returns the wire literals in evaluation order.
func (v Verdict) ReasonCodes() []string {
	codes := make([]string, 0, len(v.Reasons))
	for _, r := range v.Reasons {
		codes = append(codes, r.String())
	}
	return codes
}

func strongVerdict() Verdict {
	return Verdict{Strength: StrengthStrong, Reasons: []Reason{}}
}

// DateRole identifies whose date is being compared against the PIN.
type DateRole int

const (
	RoleSelf DateRole = iota
	RoleSpouse
	RoleAnniversary
)

// Reason returns the demographic reason reported when a date of this role matches.
func (r DateRole) Reason() Reason {
	switch r {
	case RoleSelf:
		return ReasonDOBSelf
	case RoleSpouse:
		return ReasonDOBSpouse
	case RoleAnniversary:
		return ReasonAnniversary
	default:
		return 0
	}
}

func (r DateRole) String() string {
	switch r {
	case RoleSelf:
		return "dob_self"
	case RoleSpouse:
		return "dob_spouse"
	case RoleAnniversary:
		return "anniversary"
	default:
		return "unknown"
	}
}

// Dates carries the optional personal dates for a classification.
// A nil field means the signal is absent.
type Dates struct {
	Self        *CalendarDate
	Spouse      *CalendarDate
	Anniversary *CalendarDate
}

// byRole returns the dates in fixed evaluation order.
func (d Dates) byRole() [3]struct {
	role DateRole
	date *CalendarDate
} {
	return [3]struct {
		role DateRole
		date *CalendarDate
	}{
		{RoleSelf, d.Self},
		{RoleSpouse, d.Spouse},
		{RoleAnniversary, d.Anniversary},
	}
}

// Signals records which structural detectors fired. It is diagnostic only:
// any true field yields a single ReasonCommonlyUsed.
type Signals struct {
	Sequence   bool `json:"sequence"`
	Repetition bool `json:"repetition"`
	Palindrome bool `json:"palindrome"`
	Keypad     bool `json:"keypad"`
}

// Any reports whether at least one detector fired.
func (s Signals) Any() bool {
	return s.Sequence || s.Repetition || s.Palindrome || s.Keypad
}

// Names lists the fired detectors, for logs and metrics labels.
func (s Signals) Names() []string {
	var names []string
	if s.Sequence {
		names = append(names, "sequence")
	}
	if s.Repetition {
		names = append(names, "repetition")
	}
	if s.Palindrome {
		names = append(names, "palindrome")
	}
	if s.Keypad {
		names = append(names, "keypad")
	}
	return names
}
