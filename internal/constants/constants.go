package constants

// Centralized constants for headers, env keys, routes and log fields.
const (
	// HTTP headers and content types
	HeaderAuthorization = "Authorization"
	HeaderContentType   = "Content-Type"

	ContentTypeJSON = "application/json"

	CacheControlHeader  = "Cache-Control"
	CacheControlNoCache = "no-cache, no-store, must-revalidate"

	// Authorization prefix
	BearerPrefix = "Bearer "

	// Relay trigger authentication header
	HeaderRelayKey = "X-Relay-Key"

	// Session / Cookie names
	CookieSessionName = "arena_session"

	// Gin context key holding the authenticated wallet address
	ContextKeyAddress = "address"
)

// Routes used by the backend router
const (
	RouteAPIPrefix      = "/api"
	RouteCards          = "/cards"
	RouteCreatures      = "/creatures"
	RouteLeaderboard    = "/leaderboard"
	RouteVersion        = "/version"
	RouteBattles        = "/battles"
	RouteBattleByID     = "/battles/:battleID"
	RouteBattleMoves    = "/battles/:battleID/moves"
	RouteBattleForfeit  = "/battles/:battleID/forfeit"
	RouteBattleSocket   = "/battles/:battleID/ws"
	RoutePlayerBattles  = "/players/:address/battles"
	RoutePlayerStats    = "/players/:address/stats"
	RouteHealth         = "/healthz"
	ParamBattleID       = "battleID"
	ParamPlayerAddress  = "address"
	QueryLeaderboardMax = "limit"
)

// Common JSON response keys
const (
	JSONKeyError   = "error"
	JSONKeyMessage = "message"
	JSONKeyDetails = "details"
	JSONKeyStatus  = "status"
	JSONKeyBattle  = "battle"
	JSONKeyResult  = "result"
)

// Submission statuses returned by the moves endpoint
const (
	SubmitStatusWaiting  = "waiting"
	SubmitStatusResolved = "resolved"
)

// Common error messages used across API handlers
const (
	ErrInvalidRequest         = "Invalid request"
	ErrInvalidBattleID        = "Invalid battle ID"
	ErrBattleNotFound         = "Battle not found"
	ErrBattleNotActive        = "Battle is not active"
	ErrAlreadySubmitted       = "Moves already submitted for this round"
	ErrNotParticipant         = "Player not part of this battle"
	ErrFailedCreateBattle     = "Failed to create battle"
	ErrFailedSubmitMoves      = "Failed to submit moves"
	ErrFailedForfeit          = "Failed to forfeit battle"
	ErrFailedFetchCards       = "Failed to fetch cards"
	ErrFailedFetchCreatures   = "Failed to fetch creatures"
	ErrFailedFetchLeaderboard = "Failed to fetch leaderboard"
	ErrFailedFetchStats       = "Failed to fetch stats"
	ErrFailedFetchHistory     = "Failed to fetch battle history"
	ErrStatsNotFound          = "No stats for this address"

	ErrAuthRequired   = "Authentication required"
	ErrInvalidSession = "Invalid session"
)

// Logging field names
const (
	LogFieldBattleID  = "battle_id"
	LogFieldBattleIDs = "battle_ids"
	LogFieldAddress   = "address"
	LogFieldSide      = "side"
	LogFieldRound     = "round"
	LogFieldKind      = "kind"
	LogFieldCount     = "count"
	LogFieldReason    = "reason"
	LogFieldWinner    = "winner"
	LogFieldSource    = "source"
	LogFieldKey       = "key"
	LogFieldAddr      = "addr"
	LogFieldAttempt   = "attempt"
	LogFieldURL       = "url"
)
