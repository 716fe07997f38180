package handlers

import (
	"crypto/subtle"
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/codyseavey/tcg-catalog/internal/services"
)

// AdminPasswordHeader carries the shared admin secret
const AdminPasswordHeader = "X-Admin-Password"

// ErrAdminDisabled is reported when no admin password is configured
var ErrAdminDisabled = errors.New("admin panel is disabled")

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// maxWorkbookSize bounds cert workbook uploads
const maxWorkbookSize = 10 << 20

// AdminAuth rejects requests whose admin header does not match password.
// An empty password disables every admin route.
func AdminAuth(password string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if password == "" {
			c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"error": ErrAdminDisabled.Error()})
			return
		}
		given := c.GetHeader(AdminPasswordHeader)
		if subtle.ConstantTimeCompare([]byte(given), []byte(password)) != 1 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid admin password"})
			return
		}
		c.Next()
	}
}

type AdminHandler struct {
	catalogService *services.CatalogService
	certService    *services.CertLookupService
}

func NewAdminHandler(catalogService *services.CatalogService, certService *services.CertLookupService) *AdminHandler {
	return &AdminHandler{
		catalogService: catalogService,
		certService:    certService,
	}
}

// GetCards returns the raw cards table
func (h *AdminHandler) GetCards(c *gin.Context) {
	cards := h.catalogService.Cards()
	c.JSON(http.StatusOK, gin.H{"cards": cards, "total": len(cards)})
}

func (h *AdminHandler) LookupCert(c *gin.Context) {
	rec, cached, err := h.certService.Lookup(c.Request.Context(), c.Param("cert"))
	if err != nil {
		c.JSON(certErrorStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"record": rec, "cached": cached})
}

// UploadCerts looks up every cert in an uploaded workbook. With format=xlsx the
// augmented workbook is returned as a download, otherwise a JSON preview.
func (h *AdminHandler) UploadCerts(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxWorkbookSize)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file is required"})
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	defer file.Close()

	wb, err := services.ReadCertWorkbook(file)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	certs := wb.CertNumbers()
	log.Printf("Admin: looking up %d cert numbers from %s", len(certs), fileHeader.Filename)
	results := h.certService.LookupBatch(c.Request.Context(), certs)

	if c.Query("format") == "xlsx" {
		c.Header("Content-Disposition", `attachment; filename="updated_cert_data.xlsx"`)
		c.Header("Content-Type", xlsxContentType)
		c.Status(http.StatusOK)
		if err := wb.WriteAugmented(c.Writer, results); err != nil {
			log.Printf("Admin: failed to write cert workbook: %v", err)
		}
		return
	}

	c.JSON(http.StatusOK, wb.Preview(results))
}

func certErrorStatus(err error) int {
	if errors.Is(err, services.ErrCertLookupDisabled) {
		return http.StatusServiceUnavailable
	}
	var lookupErr *services.CertLookupError
	if errors.As(err, &lookupErr) {
		switch lookupErr.StatusCode {
		case http.StatusBadRequest, http.StatusNotFound:
			return lookupErr.StatusCode
		}
	}
	return http.StatusBadGateway
}
