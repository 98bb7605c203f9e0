package metrics

const (
	namespaceBuy4me = "buy4me"

	subsystemRelay    = "relay"
	subsystemResolver = "resolver"
	subsystemPurchase = "purchase"
)

const (
	LabelStatus = "status"
	LabelResult = "result"
)

// Resolver lookup results.
const (
	ResolverAuthorized   = "authorized"
	ResolverUnauthorized = "unauthorized"
	ResolverNotFound     = "not_found"
	ResolverError        = "error"
)

// Purchase results.
const (
	PurchaseConfirmed = "confirmed"
	PurchasePending   = "pending"
	PurchaseReverted  = "reverted"
	PurchaseError     = "error"
)
