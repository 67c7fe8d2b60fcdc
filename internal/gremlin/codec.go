package gremlin

// Response status codes returned by the query endpoint, mirroring the
// Gremlin Server protocol. Anything at 400 or above is a remote failure
// and is propagated verbatim to the caller.
const (
	StatusSuccess               = 200
	StatusNoContent             = 204
	StatusPartialContent        = 206
	StatusUnauthorized          = 401
	StatusServerError           = 500
	StatusScriptEvaluationError = 597
	StatusServerTimeout         = 598
)

// Request is one script submission frame.
type Request struct {
	RequestID string      `json:"requestId"`
	Op        string      `json:"op"`
	Processor string      `json:"processor,omitempty"`
	Args      RequestArgs `json:"args"`
}

// RequestArgs carries the script payload of an eval request.
type RequestArgs struct {
	Gremlin  string            `json:"gremlin"`
	Language string            `json:"language"`
	Aliases  map[string]string `json:"aliases,omitempty"`
}

// Response is one result frame from the endpoint. A request produces zero
// or more partial-content frames followed by exactly one terminal frame.
type Response struct {
	RequestID string         `json:"requestId"`
	Status    ResponseStatus `json:"status"`
	Result    ResponseResult `json:"result"`
}

// ResponseStatus carries the outcome code and message of a frame.
type ResponseStatus struct {
	Code    int    `json:"code"`
	Message string `json:"message,omitempty"`
}

// ResponseResult carries the data payload of a frame.
type ResponseResult struct {
	Data []interface{} `json:"data"`
}

// Terminal returns true when no further frames follow for the request.
func (r *Response) Terminal() bool {
	return r.Status.Code != StatusPartialContent
}

func newEvalRequest(requestID, script, alias string) Request {
	return Request{
		RequestID: requestID,
		Op:        "eval",
		Args: RequestArgs{
			Gremlin:  script,
			Language: "gremlin-groovy",
			Aliases:  map[string]string{"g": alias},
		},
	}
}
