package domain

// SessionRecord is the minimal identity view reconstructed from credential
// claims on each read. It implies the credential looked well-formed at read
// time, nothing more: cryptographic validity is enforced by the directory
// service on every data-bearing call.
type SessionRecord struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Name     string `json:"name"`
	Status   string `json:"status"`
	Locked   bool   `json:"is_locked"`
}
