package gemini

// Content is one turn in the request/response contents list.
type Content struct {
	Role  string `json:"role,omitempty"`
	Parts []Part `json:"parts"`
}

// Part carries the incremental or complete text of a content entry.
type Part struct {
	Text string `json:"text,omitempty"`
}

type generateRequest struct {
	Contents []Content `json:"contents"`
}

type generateResponse struct {
	Candidates []candidate `json:"candidates"`
	Error      *apiError   `json:"error,omitempty"`
}

type candidate struct {
	Content      Content `json:"content"`
	FinishReason string  `json:"finishReason,omitempty"`
}

type apiError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Status  string `json:"status"`
}

type countTokensRequest struct {
	Contents []Content `json:"contents"`
}

type countTokensResponse struct {
	TotalTokens int `json:"totalTokens"`
}
