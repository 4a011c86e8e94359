package entity

// SeedRequest records one outstanding randomness request. Multiple rows may
// exist at once; only the first fulfillment ever takes effect.
type SeedRequest struct {
	Base

	// TxHash of the on-chain request transaction.
	TxHash string
}
