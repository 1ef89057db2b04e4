package model

// SearchData is the payload of a successful response.
type SearchData struct {
	SearchResults []SearchResult `json:"search_results"`
	// DegradedStages names optional stages that failed and were skipped.
	DegradedStages []string `json:"degraded_stages,omitempty"`
}

// DataEnvelope wraps a successful response.
type DataEnvelope struct {
	Data *SearchData `json:"data"`
}

// ErrorEnvelope wraps a failed response.
type ErrorEnvelope struct {
	Error string `json:"error"`
}

// RespData builds the success envelope.
func RespData(data *SearchData) DataEnvelope {
	return DataEnvelope{Data: data}
}

// RespErr builds the error envelope.
func RespErr(msg string) ErrorEnvelope {
	return ErrorEnvelope{Error: msg}
}
