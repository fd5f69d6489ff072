package core

// ValidationParams tune which checks a caller wants relaxed. Block
// processing runs strict; mempool admission tolerates future nonces and
// prices below the current base fee.
type ValidationParams struct {
	// AllowFutureNonce accepts transactions whose nonce is above the
	// sender's current nonce.
	AllowFutureNonce bool

	// AllowUnderpriced accepts effective prices below the base fee and
	// blob fee caps below the blob base fee.
	AllowUnderpriced bool

	// AllowContractSender accepts senders holding deployed code.
	AllowContractSender bool
}

// BlockProcessingParams returns the strict parameter set used when
// applying a block.
func BlockProcessingParams() ValidationParams {
	return ValidationParams{}
}

// MempoolParams returns the relaxed parameter set used for pool admission.
func MempoolParams() ValidationParams {
	return ValidationParams{
		AllowFutureNonce: true,
		AllowUnderpriced: true,
	}
}
