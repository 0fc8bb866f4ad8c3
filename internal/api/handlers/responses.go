package handlers

// ErrorResponse is the JSON body for every non-2xx answer.
type ErrorResponse struct {
	Error string `json:"error" example:"Key: 'MotionRequest.Location' Error:Field validation for 'Location' failed on the 'required' tag"`
}

// SuccessResponse is the JSON body for simple acknowledgements.
type SuccessResponse struct {
	Message string `json:"message" example:"ok"`
}
