package auth

import (
	"github.com/solosphere/marketplace/internal/store"
)

// BidScope selects the bids a caller is allowed to read: the bids they placed
// as a worker, or the bids received on their own jobs as a buyer.
type BidScope struct {
	Email   string
	AsBuyer bool
}

// AuthorizeBidQuery requires the authenticated email to match the requested one exactly.
// A valid token for one user never unlocks bids scoped to another.
func AuthorizeBidQuery(user User, requestedEmail string, asBuyer bool) (BidScope, error) {
	if user.Email == "" || user.Email != requestedEmail {
		return BidScope{}, NewErrForbidden(requestedEmail)
	}
	return BidScope{Email: requestedEmail, AsBuyer: asBuyer}, nil
}

func (s BidScope) Filter() *store.BidQueryFilter {
	if s.AsBuyer {
		return store.NewBidQueryFilter().ByBuyerEmail(s.Email)
	}
	return store.NewBidQueryFilter().ByWorkerEmail(s.Email)
}
