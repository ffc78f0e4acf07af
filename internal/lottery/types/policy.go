package types

import "fmt"

// AccessPolicy names the single identity allowed to draw. It is loaded once at
// start and never changes.
type AccessPolicy struct {
	owner Identity
}

func NewAccessPolicy(owner Identity) (AccessPolicy, error) {
	if owner.IsZero() {
		return AccessPolicy{}, fmt.Errorf("access policy: owner must be set")
	}
	return AccessPolicy{owner: owner}, nil
}

func (p AccessPolicy) Owner() Identity {
	return p.owner
}

func (p AccessPolicy) IsOwner(id Identity) bool {
	return !p.owner.IsZero() && p.owner == id
}
