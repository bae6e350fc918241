package model

// Dispatcher identifies the person working a case. The service never
// authenticates users; it records whatever identity the token layer hands it.
type Dispatcher struct {
	ID       string `json:"id"`
	FullName string `json:"full_name"`
	Phone    string `json:"phone"`
}
