package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hallbook/hallbook-api/internal/middleware"
	"github.com/hallbook/hallbook-api/internal/services"
)

type VendorHandler struct {
	vendorService *services.VendorService
}

func NewVendorHandler(vendorService *services.VendorService) *VendorHandler {
	return &VendorHandler{vendorService: vendorService}
}

type VendorRequest struct {
	BusinessName string  `json:"business_name" binding:"required"`
	ContactName  string  `json:"contact_name"`
	Phone        string  `json:"phone"`
	Email        string  `json:"email"`
	GSTIN        string  `json:"gstin"`
	Address      *string `json:"address"`
}

func (r VendorRequest) toInput() services.VendorInput {
	return services.VendorInput{
		BusinessName: r.BusinessName,
		ContactName:  r.ContactName,
		Phone:        r.Phone,
		Email:        r.Email,
		GSTIN:        r.GSTIN,
		Address:      r.Address,
	}
}

// Create stores a vendor.
func (h *VendorHandler) Create(c *gin.Context) {
	var req VendorRequest
	if err := BindNestedOrFlat(c, "vendor", &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	vendor, err := h.vendorService.Create(c.Request.Context(), middleware.GetOrganizationID(c), req.toInput())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, vendor.ToResponse())
}

// Index lists the organization's vendors.
func (h *VendorHandler) Index(c *gin.Context) {
	vendors, err := h.vendorService.List(c.Request.Context(), middleware.GetOrganizationID(c))
	if err != nil {
		respondError(c, err)
		return
	}

	responses := make([]interface{}, 0, len(vendors))
	for i := range vendors {
		responses = append(responses, vendors[i].ToResponse())
	}
	c.JSON(http.StatusOK, gin.H{"vendors": responses})
}

// Show returns one vendor.
func (h *VendorHandler) Show(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid vendor id"})
		return
	}

	vendor, err := h.vendorService.Get(c.Request.Context(), middleware.GetOrganizationID(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, vendor.ToResponse())
}

// Update rewrites a vendor's details.
func (h *VendorHandler) Update(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid vendor id"})
		return
	}

	var req VendorRequest
	if err := BindNestedOrFlat(c, "vendor", &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	vendor, err := h.vendorService.Update(c.Request.Context(), middleware.GetOrganizationID(c), id, req.toInput())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, vendor.ToResponse())
}

// Delete removes a vendor without outstanding bills.
func (h *VendorHandler) Delete(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid vendor id"})
		return
	}

	if err := h.vendorService.Delete(c.Request.Context(), middleware.GetOrganizationID(c), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "vendor deleted"})
}
