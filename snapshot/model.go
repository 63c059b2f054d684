package snapshot

// User mirrors the identity block of the durable snapshot schema.
type User struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// Record is the serialized mirror of the in-memory session. Nullable wire
// fields are pointers so that "null" and "" stay distinguishable.
type Record struct {
	User            *User   `json:"user"`
	Token           *string `json:"token"`
	IsAuthenticated bool    `json:"isAuthenticated"`
	Role            *string `json:"role"`
}

// Empty reports whether the record carries no actor at all. An all-null
// record is equivalent to an absent snapshot.
func (r Record) Empty() bool {
	return r.User == nil && r.Token == nil && !r.IsAuthenticated && r.Role == nil
}

// TokenValue returns the token string, or "" when the wire field is null.
func (r Record) TokenValue() string {
	if r.Token == nil {
		return ""
	}
	return *r.Token
}

// RoleValue returns the top-level role string, or "" when null.
func (r Record) RoleValue() string {
	if r.Role == nil {
		return ""
	}
	return *r.Role
}
