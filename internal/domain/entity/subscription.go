package entity

// Subscription represents the plan tier of a user account.
type Subscription string

const (
	SubscriptionStarter  Subscription = "starter"
	SubscriptionPro      Subscription = "pro"
	SubscriptionBusiness Subscription = "business"
)

// String returns the string representation of the Subscription.
func (s Subscription) String() string {
	return string(s)
}

// IsValid checks if the Subscription is a valid value.
func (s Subscription) IsValid() bool {
	switch s {
	case SubscriptionStarter, SubscriptionPro, SubscriptionBusiness:
		return true
	default:
		return false
	}
}

// OrDefault returns the starter tier for empty or unknown values.
func (s Subscription) OrDefault() Subscription {
	if s.IsValid() {
		return s
	}

	return SubscriptionStarter
}
