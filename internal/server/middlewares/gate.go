package middlewares

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// gateExemptPrefixes are the API routes that stay reachable while the
// system is Uninstalled: the install flow itself and the engine
// configuration endpoints the install UI drives.
var gateExemptPrefixes = []string{
	"/api/v1/install",
	"/api/v1/system/database",
}

// InstallationGate rejects application routes with a distinguished "not
// installed" response until installed() reports true. Static assets and
// anything outside the API are always let through so the install UI can
// load.
func InstallationGate(installed func() bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path

		if !strings.HasPrefix(path, "/api/") {
			c.Next()
			return
		}
		for _, prefix := range gateExemptPrefixes {
			if strings.HasPrefix(path, prefix) {
				c.Next()
				return
			}
		}

		if installed() {
			c.Next()
			return
		}

		c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{
			"error":      "not_installed",
			"message":    "the system is not installed yet",
			"redirectTo": "/install",
		})
	}
}
