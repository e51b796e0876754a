package order

import (
	"time"

	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

// ProofKind tags the variant of a proof-of-delivery artifact.
type ProofKind string

const (
	// ProofSignature references a captured customer signature.
	ProofSignature ProofKind = "signature"
	// ProofPhoto references a photo taken at the drop-off point.
	ProofPhoto ProofKind = "photo"
)

// Validate checks the kind against the closed set of proof variants.
func (k ProofKind) Validate() error {
	switch k {
	case ProofSignature, ProofPhoto:
		return nil
	default:
		return errs.NewValueIsInvalidError("proof kind")
	}
}

// ErrProofIsNotConstructed is returned when using an improperly initialized
// ProofOfDelivery.
var ErrProofIsNotConstructed = errs.NewValueIsRequiredError(
	"proof of delivery must be created via NewProofOfDelivery constructor")

// ProofOfDelivery is a tagged variant referencing the delivery evidence
// artifact: either a signature or a photo. Only the reference URL is held;
// binary storage lives outside this system. The variant is validated once at
// the boundary, so downstream code never re-checks artifact shape.
type ProofOfDelivery struct {
	kind       ProofKind
	ref        string
	capturedAt time.Time
	guard      guard.ConstructorGuard
}

// NewProofOfDelivery creates a validated proof reference.
// kind must be a known variant, ref must be non-empty, and capturedAt must
// not be the zero time.
func NewProofOfDelivery(kind ProofKind, ref string, capturedAt time.Time) (ProofOfDelivery, error) {
	if err := kind.Validate(); err != nil {
		return ProofOfDelivery{}, err
	}
	if ref == "" {
		return ProofOfDelivery{}, errs.NewValueIsRequiredError("proof ref")
	}
	if capturedAt.IsZero() {
		return ProofOfDelivery{}, errs.NewValueIsRequiredError("proof capturedAt")
	}

	return ProofOfDelivery{
		kind:       kind,
		ref:        ref,
		capturedAt: capturedAt.UTC(),
		guard:      guard.NewConstructorGuard(),
	}, nil
}

// Kind returns the proof variant tag.
func (p ProofOfDelivery) Kind() ProofKind {
	return p.kind
}

// Ref returns the artifact reference URL.
func (p ProofOfDelivery) Ref() string {
	return p.ref
}

// CapturedAt returns when the artifact was captured, in UTC.
func (p ProofOfDelivery) CapturedAt() time.Time {
	return p.capturedAt
}

// Validate returns ErrProofIsNotConstructed for zero-value proofs.
func (p ProofOfDelivery) Validate() error {
	return p.guard.Validate(ErrProofIsNotConstructed)
}
