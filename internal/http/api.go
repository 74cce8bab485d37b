package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"medicare/internal/catalog"
	"medicare/internal/excel"
)

type medicineListResp struct {
	catalog.Page
	Found      int      `json:"found"`
	Categories []string `json:"categories"`
}

type importResp struct {
	Created int `json:"created"`
	Updated int `json:"updated"`
	Skipped int `json:"skipped"`
}

// @Summary Health check
// @Tags system
// @Produce json
// @Success 200 {object} map[string]string
// @Router /healthz [get]
func (s *Server) healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// @Summary List medicines
// @Tags medicines
// @Produce json
// @Param q query string false "Search in name, description, manufacturer, category"
// @Param category query string false "Category, All for every category"
// @Param in_stock query bool false "Only medicines in stock (default true)"
// @Param sort query string false "Name, Price or Stock"
// @Param page query int false "Page, 1-based"
// @Success 200 {object} medicineListResp
// @Failure 503 {object} map[string]string
// @Router /medicines [get]
func (s *Server) apiListMedicines(c *gin.Context) {
	l := s.catalog.Browse(c, browseQuery(c))
	if l.LoadErr != nil {
		c.JSON(mapErrorToStatus(l.LoadErr), gin.H{"error": userMessage(l.LoadErr, "")})
		return
	}
	c.JSON(http.StatusOK, medicineListResp{Page: l.Page, Found: l.Found, Categories: l.Categories})
}

// @Summary List categories
// @Tags medicines
// @Produce json
// @Success 200 {array} string
// @Failure 503 {object} map[string]string
// @Router /medicines/categories [get]
func (s *Server) apiCategories(c *gin.Context) {
	all, err := s.catalog.All(c)
	if err != nil {
		c.JSON(mapErrorToStatus(err), gin.H{"error": userMessage(err, "")})
		return
	}
	c.JSON(http.StatusOK, catalog.Categories(all))
}

// @Summary Export catalog
// @Tags medicines
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Success 200 {file} file
// @Failure 503 {object} map[string]string
// @Router /medicines/export.xlsx [get]
func (s *Server) apiExport(c *gin.Context) {
	all, err := s.catalog.All(c)
	if err != nil {
		c.JSON(mapErrorToStatus(err), gin.H{"error": userMessage(err, "")})
		return
	}
	c.Header("Content-Disposition", "attachment; filename=medicines.xlsx")
	c.Header("Content-Type", excel.ContentType)
	c.Status(http.StatusOK)
	if err := excel.Export(c.Writer, all); err != nil {
		s.log.WithError(err).Error("export medicines")
		_ = c.Error(err)
	}
}

// @Summary Import catalog
// @Description Merges medicines from an xlsx upload by id. Admin only.
// @Tags medicines
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Workbook"
// @Success 200 {object} importResp
// @Failure 400 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /medicines/import [post]
func (s *Server) apiImport(c *gin.Context) {
	header, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "xlsx file is required"})
		return
	}
	f, err := header.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to open upload"})
		return
	}
	defer f.Close()

	sheet, err := excel.Import(f, header.Size)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	res, err := s.catalog.Import(c, sheet.Records)
	if err != nil {
		_ = c.Error(err)
		c.JSON(mapErrorToStatus(err), gin.H{"error": userMessage(err, "medicines")})
		return
	}
	c.JSON(http.StatusOK, importResp{Created: res.Created, Updated: res.Updated, Skipped: res.Skipped + sheet.Skipped})
}
