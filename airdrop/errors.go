package airdrop

import "errors"

// Claim rejections, checked in this order.
var (
	ErrAlreadyClaimed   = errors.New("airdrop: already claimed")
	ErrInvalidSignature = errors.New("airdrop: invalid signature")
	ErrInvalidProof     = errors.New("airdrop: invalid proof")
)
