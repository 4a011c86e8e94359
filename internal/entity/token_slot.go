package entity

// TokenSlot is one entry of the permutation table. Position is 1-based; after
// the shuffle, Position is the token's rank.
type TokenSlot struct {
	Position int64 `gorm:"primarykey;autoIncrement:false"`
	TokenID  int64 `gorm:"index:idx_token_slots_token_id,unique"`
}
