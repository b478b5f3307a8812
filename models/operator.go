// File: models/operator.go
package models

// ----------------------- operator credentials -----------------------

// Operator is a person allowed to use the admin console. Password is a bcrypt
// hash; BackendHost and Token are handed to every backend call made on the
// operator's behalf.
type Operator struct {
	Username    string `json:"username"`
	Password    string `json:"password"`
	IsAdmin     bool   `json:"isadmin"`
	BackendHost string `json:"backend_host"`
	Token       string `json:"token"`
}

// OperatorCreds holds every configured operator.
type OperatorCreds struct {
	Operators []Operator `json:"operators"`
}

// ----------------------- backend responses -----------------------

// CreatedRecord is the body returned by create endpoints.
type CreatedRecord struct {
	ID      int64  `json:"id"`
	Message string `json:"message,omitempty"`
}
