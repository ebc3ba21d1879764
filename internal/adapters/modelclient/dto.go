package modelclient

type predictRequest struct {
	Features map[string]interface{} `json:"features"`
}

type predictResponse struct {
	Prediction *float64 `json:"prediction"`
}
