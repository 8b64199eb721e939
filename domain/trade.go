package domain

// TradeRecord is deposited into the trade channel by value — there is no
// pooling here because the ring buffer slot itself is the storage; a fill
// is copied in and copied out, never aliased.
type TradeRecord struct {
	TakerID   uint64
	MakerID   uint64
	Qty       uint32
	Price     int64
	Timestamp uint64
}
