package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	appctx "coopledger/internal/core/context"
)

// HeaderStaffName names the staff member acting on the request.
// There is no authentication; the header is taken at face value.
const HeaderStaffName = "X-Staff-Name"

// Actor puts the acting staff member into the request context.
func Actor() gin.HandlerFunc {
	return func(c *gin.Context) {
		actor := &appctx.Actor{
			StaffName: strings.TrimSpace(c.GetHeader(HeaderStaffName)),
			Source:    "http",
		}
		c.Request = c.Request.WithContext(appctx.WithActor(c.Request.Context(), actor))
		c.Next()
	}
}
