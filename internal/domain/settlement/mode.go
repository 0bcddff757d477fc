package settlement

// Mode identifies what a settlement pays for. It selects the fulfillment
// path and the revenue recognition shape.
type Mode string

const (
	ModeCourse              Mode = "course"
	ModeDrill               Mode = "drill"
	ModeRoutine             Mode = "routine"
	ModeSparring            Mode = "sparring"
	ModeBundle              Mode = "bundle"
	ModeSubscription        Mode = "subscription"
	ModeSubscriptionUpgrade Mode = "subscription_upgrade"
	ModeFeedback            Mode = "feedback"
)

// IsValid checks if the mode is a known settlement mode.
func (m Mode) IsValid() bool {
	switch m {
	case ModeCourse, ModeDrill, ModeRoutine, ModeSparring, ModeBundle,
		ModeSubscription, ModeSubscriptionUpgrade, ModeFeedback:
		return true
	}
	return false
}

// IsSubscription reports whether the mode activates a subscription.
func (m Mode) IsSubscription() bool {
	return m == ModeSubscription || m == ModeSubscriptionUpgrade
}

func (m Mode) String() string {
	return string(m)
}
