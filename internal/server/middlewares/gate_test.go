package middlewares_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"

	"github.com/gin-gonic/gin"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/gestiondesk/datastore-agent/internal/server/middlewares"
)

var _ = Describe("InstallationGate", func() {
	var installed bool

	newRouter := func() *gin.Engine {
		gin.SetMode(gin.TestMode)
		r := gin.New()
		r.Use(middlewares.InstallationGate(func() bool { return installed }))
		ok := func(c *gin.Context) { c.Status(http.StatusOK) }
		r.GET("/api/v1/clients", ok)
		r.GET("/api/v1/install/status", ok)
		r.POST("/api/v1/system/database/verify", ok)
		r.GET("/install", ok)
		return r
	}

	get := func(r *gin.Engine, method, path string) *httptest.ResponseRecorder {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(method, path, nil)
		r.ServeHTTP(rec, req)
		return rec
	}

	BeforeEach(func() {
		installed = false
	})

	// Given an uninstalled system
	// When an application API route is requested
	// Then it is rejected with 503 and the redirect hint
	It("should reject application routes with the not-installed response", func() {
		// Act
		rec := get(newRouter(), http.MethodGet, "/api/v1/clients")

		// Assert
		Expect(rec.Code).To(Equal(http.StatusServiceUnavailable))
		var body map[string]string
		Expect(json.Unmarshal(rec.Body.Bytes(), &body)).To(Succeed())
		Expect(body).To(HaveKeyWithValue("error", "not_installed"))
		Expect(body).To(HaveKeyWithValue("redirectTo", "/install"))
		Expect(body["message"]).NotTo(BeEmpty())
	})

	// Given an uninstalled system
	// When the install flow routes are requested
	// Then they pass through the gate
	It("should exempt the install flow routes", func() {
		r := newRouter()
		Expect(get(r, http.MethodGet, "/api/v1/install/status").Code).To(Equal(http.StatusOK))
		Expect(get(r, http.MethodPost, "/api/v1/system/database/verify").Code).To(Equal(http.StatusOK))
	})

	// Given an uninstalled system
	// When a non-API path is requested
	// Then it always passes so the install UI can load
	It("should let non-API paths through", func() {
		Expect(get(newRouter(), http.MethodGet, "/install").Code).To(Equal(http.StatusOK))
	})

	// Given an installed system
	// When an application API route is requested
	// Then the gate is transparent
	It("should pass application routes once installed", func() {
		installed = true
		Expect(get(newRouter(), http.MethodGet, "/api/v1/clients").Code).To(Equal(http.StatusOK))
	})
})
