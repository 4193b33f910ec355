package model

// CandidateResponse struct holds the response data for candidate login or registration
type CandidateResponse struct {
	User        Candidate `json:"user"`
	AccessToken string    `json:"access_token"`
}

// CompanyResponse struct holds the response data for company login or registration
type CompanyResponse struct {
	User        Company `json:"user"`
	AccessToken string  `json:"access_token"`
}

// MeResponse is the current session user with its role record
type MeResponse struct {
	User      User       `json:"user"`
	Candidate *Candidate `json:"candidato,omitempty"`
	Company   *Company   `json:"empresa,omitempty"`
	Home      string     `json:"home"`
}
