package errorx

type Code int

var Unknown = Error{Code: 100000, Message: "Request failed"}

const (
	// Common codes
	BadRequest       Code = 100001
	BadResponse      Code = 100002
	PermissionDenied Code = 100003
	NotFound         Code = 100004
	Unauthenticated  Code = 100005
	AlreadyExists    Code = 100006
	Internal         Code = 100007
	Unavailable      Code = 100008
	NotImplemented   Code = 100009
	TooManyRequests  Code = 100010

	// Distribution pipeline codes
	AlreadyInitialized Code = 200001
	AlreadyShuffled    Code = 200002
	AlreadyFulfilled   Code = 200003
	AlreadyAssigned    Code = 200004
	NotInitialized     Code = 200005
	SeedNotFulfilled   Code = 200006
	NotShuffled        Code = 200007

	// Claim codes
	TooEarly            Code = 300001
	TooLate             Code = 300002
	NoGiftAvailable     Code = 300003
	AlreadyClaimed      Code = 300004
	NotOwner            Code = 300005
	InsufficientBalance Code = 300006
	TransferFailed      Code = 300007

	// Refresh token codes
	StolenDetected Code = 400001
	TokenExpired   Code = 400002
)
