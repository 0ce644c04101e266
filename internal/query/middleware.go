package query

import "github.com/gin-gonic/gin"

const paramsKey = "list_params"

// Middleware parses the list parameters of c against contract and stores them
// for FromContext. Parsing never fails.
func Middleware(contract Contract) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(paramsKey, contract.Parse(c.Request.URL.Query()))
		c.Next()
	}
}

// FromContext returns the params stored by Middleware, or the contract
// defaults when none were stored.
func FromContext(c *gin.Context) Params {
	if v, ok := c.Get(paramsKey); ok {
		if params, ok := v.(Params); ok {
			return params
		}
	}
	return Contract{}.Parse(nil)
}
