package binance

// StatusEnded is the terminal campaign status. Every other value counts as active.
const StatusEnded = "ended"

// Airdrop is one campaign entry of the alpha airdrop listing
type Airdrop struct {
	ConfigID        string  `json:"configId"`
	ConfigName      string  `json:"configName"`
	Status          string  `json:"status"`
	AirdropAmount   float64 `json:"airdropAmount"`
	TokenSymbol     string  `json:"tokenSymbol"`
	ClaimStartTime  int64   `json:"claimStartTime"` // epoch ms
	ClaimEndTime    int64   `json:"claimEndTime"`   // epoch ms
	PointsThreshold float64 `json:"pointsThreshold"`
	DeductPoints    float64 `json:"deductPoints"`
	ContractAddress string  `json:"contractAddress"`
}

// IsEnded reports whether the campaign reached its terminal status
func (a Airdrop) IsEnded() bool {
	return a.Status == StatusEnded
}

// QueryRequest is the listing request body
type QueryRequest struct {
	Page int `json:"page"`
	Rows int `json:"rows"`
}

// AirdropResponse is the listing envelope; Data is null when nothing is listed
type AirdropResponse struct {
	Data *AirdropsData `json:"data"`
}

// AirdropsData holds the ordered campaign list
type AirdropsData struct {
	Configs []Airdrop `json:"configs"`
}

// Airdrops returns the configs, empty when the payload is missing
func (r *AirdropResponse) Airdrops() []Airdrop {
	if r.Data == nil || r.Data.Configs == nil {
		return []Airdrop{}
	}
	return r.Data.Configs
}
