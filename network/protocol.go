package network

// Message ids. 1xx are client commands, 2xx is gameplay input, 3xx are
// server pushes.
const (
	MsgTypeHeartbeat      = 1
	MsgTypeStartGame      = 101
	MsgTypeResetGame      = 102
	MsgTypeBeginInput     = 103
	MsgTypeTileClick      = 201
	MsgTypeStateSync      = 301
	MsgTypeSequenceReveal = 302
	MsgTypeRoundResult    = 303
	MsgTypeGameOver       = 304
)
