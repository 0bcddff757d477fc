// Package entitlement defines access grants unlocked by a settled payment
// and the stores that persist them.
package entitlement

import "time"

// Kind identifies which catalog a grant unlocks.
type Kind string

const (
	KindCourse   Kind = "course"
	KindDrill    Kind = "drill"
	KindRoutine  Kind = "routine"
	KindSparring Kind = "sparring"
	KindBundle   Kind = "bundle"
)

// Grant is one user's access to one resource. Grants are idempotent:
// re-applying an existing grant is a no-op, not an error.
type Grant struct {
	UserID     string
	Kind       Kind
	ResourceID string

	// PricePaidMinor is recorded on bundle grants only.
	PricePaidMinor *int64

	GrantedAt time.Time
}

// MemberResult reports the outcome of one member grant inside a bundle
// fulfillment. Failures do not roll back sibling grants.
type MemberResult struct {
	Kind       Kind
	ResourceID string
	Created    bool
	Err        error
}

// Bundle is the catalog definition of a bundle product.
type Bundle struct {
	ID         string
	Title      string
	CourseIDs  []string
	DrillIDs   []string
	PriceMinor int64
}

// MemberCount returns the number of member resources the bundle expands to.
func (b Bundle) MemberCount() int {
	return len(b.CourseIDs) + len(b.DrillIDs)
}
