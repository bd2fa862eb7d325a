package model

// GenerateRequest represents a password generation request.
// Pointer fields distinguish a missing value (nil -> default) from an explicit one,
// so an explicit length of 0 can be rejected instead of replaced.
type GenerateRequest struct {
	Length  *int  `json:"length"`
	Numbers *bool `json:"numbers"`
	Symbols *bool `json:"symbols"`
	Count   int   `json:"count"`
	Hash    bool  `json:"hash"`
}

// GenerateResponse represents a password generation response.
type GenerateResponse struct {
	Password  string   `json:"password"`
	Passwords []string `json:"passwords,omitempty"`
	Hashes    []string `json:"hashes,omitempty"`
	Length    int      `json:"length"`
	PoolSize  int      `json:"pool_size"`
	Warning   string   `json:"warning,omitempty"`
}

// PoolResponse describes the character pool for a set of class options.
type PoolResponse struct {
	Pool string `json:"pool"`
	Size int    `json:"size"`
}
