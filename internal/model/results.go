package model

// ClientRequestCount is the number of requests seen from one client address.
type ClientRequestCount struct {
	ClientAddress string `json:"client_address"`
	Count         int    `json:"count"`
}

// TopEndpoint is the most requested endpoint of a run.
type TopEndpoint struct {
	Endpoint string `json:"endpoint"`
	Count    int    `json:"count"`
}

// SuspiciousClient is a client whose failed-login count exceeded the threshold.
type SuspiciousClient struct {
	ClientAddress    string `json:"client_address"`
	FailedLoginCount int    `json:"failed_login_count"`
}
