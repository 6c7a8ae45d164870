package notifications

type Webhook struct {
	URL      string
	Username string
	Password string
	Verify   bool
}

type PurgeFailure struct {
	Service    string `json:"service"`
	Project    string `json:"project"`
	AppService string `json:"app_service"`
	RunID      string `json:"run_id"`
	Candidates int    `json:"deletion_candidates"`
	Deleted    int    `json:"deleted"`
	Message    string `json:"message"`
}
