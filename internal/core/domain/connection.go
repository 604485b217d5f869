package domain

// Evidence is one supporting item attached to a Connection. Detail is
// truncated by the correlator to a fixed display budget.
type Evidence struct {
	Type   string `json:"type"`
	Detail string `json:"detail"`
}

// Connection is a cross-source correlation candidate. Connections are
// recomputed from scratch every scan; they carry no identity across scans.
type Connection struct {
	Type        string     `json:"type"`
	Description string     `json:"description"`
	Probability int        `json:"probability"` // 0-100, capped per detector
	Evidence    []Evidence `json:"evidence"`
}
