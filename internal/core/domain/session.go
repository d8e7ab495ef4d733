package domain

// UserInfo is the wire shape of the `user` object returned by the auth
// endpoints (login, register, verify). Timestamps arrive as ISO-8601 strings
// without a zone, so they are carried verbatim rather than parsed.
type UserInfo struct {
	ID           string  `json:"_id"`
	Username     string  `json:"username"`
	Phone        string  `json:"phone"`
	Balance      float64 `json:"balance"`
	ReferralCode string  `json:"referralCode"`
	ReferredBy   string  `json:"referredBy,omitempty"`
	IsAdmin      bool    `json:"isAdmin"`
	IsActive     bool    `json:"isActive"`
	CreatedAt    string  `json:"createdAt"`
	UpdatedAt    string  `json:"updatedAt"`
}

// Session is the locally held record of the authenticated visitor. At most
// one Session exists in the client at a time, and a persisted Session is not
// proof of validity; the server must confirm it before it is trusted.
type Session struct {
	ID           string  `json:"_id"`
	Username     string  `json:"username"`
	Phone        string  `json:"phone"`
	Balance      float64 `json:"balance"`
	ReferralCode string  `json:"referralCode"`
	ReferredBy   string  `json:"referredBy,omitempty"`
	IsAdmin      bool    `json:"isAdmin"`
	IsActive     bool    `json:"isActive"`
	CreatedAt    string  `json:"createdAt"`
	UpdatedAt    string  `json:"updatedAt"`
}

// NewSession builds a Session from a server-supplied user payload. Fields are
// copied through an explicit allow-list; anything the server omits keeps its
// zero value, which doubles as the documented default (Balance 0, IsAdmin and
// IsActive false).
func NewSession(u UserInfo) *Session {
	return &Session{
		ID:           u.ID,
		Username:     u.Username,
		Phone:        u.Phone,
		Balance:      u.Balance,
		ReferralCode: u.ReferralCode,
		ReferredBy:   u.ReferredBy,
		IsAdmin:      u.IsAdmin,
		IsActive:     u.IsActive,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}

// Complete reports whether every identity field is populated. Sessions are
// persisted all-or-nothing: an incomplete Session is never written, and an
// incomplete persisted record is read back as "no session".
func (s *Session) Complete() bool {
	return s != nil && s.ID != "" && s.Username != "" && s.Phone != ""
}
