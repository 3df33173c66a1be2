package network

// Event names pushed to connected watchers.
const (
	EventHeartbeat     = "heartbeat"
	EventStateUpdate   = "state_update"
	EventPlayerJoined  = "player_joined"
	EventPlayerResult  = "player_result"
	EventPlayerRemoved = "player_removed"
	EventSpeedChanged  = "speed_changed"
	EventGameReset     = "game_reset"
	EventGameResumed   = "game_resumed"
	EventJackpot       = "jackpot"
)
