package responses

import "github.com/gin-gonic/gin"

// APIResponse is the error envelope shared by every endpoint.
type APIResponse struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

// OK writes a resource as the bare response body.
func OK(c *gin.Context, statusCode int, body interface{}) {
	c.JSON(statusCode, body)
}

func Fail(c *gin.Context, statusCode int, err error, message string) {
	resp := APIResponse{
		Status:  "error",
		Message: message,
	}
	if err != nil {
		resp.Error = err.Error()
	}
	c.AbortWithStatusJSON(statusCode, resp)
}
