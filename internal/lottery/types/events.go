package types

const (
	EventTypeLotteryDrawn = "LotteryDrawn"

	AttributeKeyCaller    = "caller"
	AttributeKeyUID       = "uid"
	AttributeKeyValue     = "value"
	AttributeKeyTimestamp = "timestamp"
	AttributeKeyResultKey = "resultKey"
	AttributeKeyAttempts  = "attempts"
)
