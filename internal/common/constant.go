package common

// Storage keys for the client credential store. AccessTokenKey holds the
// full credential, TempTokenKey the MFA-scoped temporary one. They mirror
// the cookie names the backend uses, so the guard and the client agree.
const (
	AccessTokenKey = "access_token"
	TempTokenKey   = "temp_token"
	MFASecretKey   = "mfa_secret"
)

// AuthHeaderName and BearerPrefix form the Authorization header attached to
// every outbound API request.
const (
	AuthHeaderName = "Authorization"
	BearerPrefix   = "Bearer "
)

// MFACodeLength is the number of digits in a TOTP verification code.
const MFACodeLength = 6
