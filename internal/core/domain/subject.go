package domain

import "strings"

// Subject identifies a topic domain with its own knowledge base.
// Subjects are lower-case identifiers that double as resource keys.
type Subject string

// DefaultSubject is active at startup and is never a switch target.
const DefaultSubject Subject = "default"

// String returns the string representation.
func (s Subject) String() string {
	return string(s)
}

// Display returns the upper-case form used in switch confirmations.
func (s Subject) Display() string {
	return strings.ToUpper(string(s))
}

// IsValid reports whether the name is safe as a knowledge resource key,
// such as a file name inside the knowledge directory.
func (s Subject) IsValid() bool {
	name := string(s)
	return name != "" && name != "." && name != ".." &&
		!strings.ContainsAny(name, `/\`)
}

// IsDefault returns true if this is the default subject.
func (s Subject) IsDefault() bool {
	return s == DefaultSubject
}

// DefaultKnownSubjects returns the built-in switchable subjects in
// routing priority order.
func DefaultKnownSubjects() []Subject {
	return []Subject{"daa", "java", "python", "dbms", "ai"}
}

// SubjectCatalog is the closed set of subjects shared by the router and
// the knowledge store. Order matters: the router honours the first
// switchable subject found in the input.
type SubjectCatalog struct {
	defaultSubject Subject
	switchable     []Subject
}

// NewSubjectCatalog builds a catalog from a default subject and an ordered
// list of switchable subjects. Names are trimmed and lower-cased, blanks and
// duplicates are dropped, and the default subject is never switchable.
func NewSubjectCatalog(defaultSubject Subject, known []Subject) SubjectCatalog {
	def := Subject(strings.ToLower(strings.TrimSpace(string(defaultSubject))))
	if def == "" {
		def = DefaultSubject
	}

	seen := map[Subject]bool{def: true, DefaultSubject: true}
	switchable := make([]Subject, 0, len(known))
	for _, s := range known {
		name := Subject(strings.ToLower(strings.TrimSpace(string(s))))
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		switchable = append(switchable, name)
	}

	return SubjectCatalog{
		defaultSubject: def,
		switchable:     switchable,
	}
}

// DefaultSubjectCatalog returns the built-in catalog.
func DefaultSubjectCatalog() SubjectCatalog {
	return NewSubjectCatalog(DefaultSubject, DefaultKnownSubjects())
}

// Default returns the subject loaded at session start.
func (c SubjectCatalog) Default() Subject {
	if c.defaultSubject == "" {
		return DefaultSubject
	}
	return c.defaultSubject
}

// Switchable returns the non-default subjects in priority order.
// The returned slice is a copy.
func (c SubjectCatalog) Switchable() []Subject {
	out := make([]Subject, len(c.switchable))
	copy(out, c.switchable)
	return out
}

// All returns the default subject followed by the switchable ones.
func (c SubjectCatalog) All() []Subject {
	return append([]Subject{c.Default()}, c.switchable...)
}

// Contains reports whether the subject belongs to the catalog.
func (c SubjectCatalog) Contains(s Subject) bool {
	if s == c.Default() {
		return true
	}
	for _, known := range c.switchable {
		if known == s {
			return true
		}
	}
	return false
}
