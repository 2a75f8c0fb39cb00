package wholesale

import "context"

// GrantStore looks up the unique active grant for a (buyer, seller)
// pair. Returns (nil, nil) when none exists.
type GrantStore interface {
	FindActiveGrant(ctx context.Context, buyerID, sellerID string) (*AccessGrant, error)
}

// Gate authorizes a buyer against a seller's wholesale program.
// Read-only; no side effects.
type Gate struct {
	Grants GrantStore
}

// CheckAccess returns the active grant or an AuthorizationError when
// the buyer holds no active grant (absent or revoked alike).
func (g *Gate) CheckAccess(ctx context.Context, buyerID, sellerID string) (*AccessGrant, error) {
	grant, err := g.Grants.FindActiveGrant(ctx, buyerID, sellerID)
	if err != nil {
		return nil, err
	}
	if grant == nil || grant.Status != GrantActive {
		return nil, &AuthorizationError{BuyerID: buyerID, SellerID: sellerID}
	}
	return grant, nil
}
