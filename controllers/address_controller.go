package controllers

import (
	"net/http"
	"strconv"

	"trendora/models"
	"trendora/services"

	"github.com/gin-gonic/gin"
)

type AddressController struct {
	addresses *services.AddressService
}

func NewAddressController(addresses *services.AddressService) *AddressController {
	return &AddressController{addresses: addresses}
}

// CreateAddress godoc
// @Summary Add a delivery address
// @Description The first saved address becomes the default automatically
// @Tags Addresses
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body models.CreateAddressRequest true "Address"
// @Success 201 {object} models.UserAddress
// @Failure 400 {object} models.ErrorResponse
// @Router /addresses [post]
func (ctrl *AddressController) CreateAddress(c *gin.Context) {
	var req models.CreateAddressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid request", "error": err.Error()})
		return
	}

	address, err := ctrl.addresses.CreateAddress(c.Request.Context(), currentUserID(c), req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "message": "Address created", "data": address})
}

// ListAddresses godoc
// @Summary List my addresses
// @Tags Addresses
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.UserAddress
// @Router /addresses [get]
func (ctrl *AddressController) ListAddresses(c *gin.Context) {
	addresses, err := ctrl.addresses.ListAddresses(c.Request.Context(), currentUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Addresses retrieved", "data": addresses})
}

// SetDefaultAddress godoc
// @Summary Make an address the default
// @Tags Addresses
// @Produce json
// @Security BearerAuth
// @Param id path int true "Address ID"
// @Success 200 {object} models.ErrorResponse
// @Failure 403 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /addresses/{id}/default [patch]
func (ctrl *AddressController) SetDefaultAddress(c *gin.Context) {
	addressID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid address id"})
		return
	}

	if err := ctrl.addresses.SetDefault(c.Request.Context(), currentUserID(c), addressID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Default address updated"})
}

// DeleteAddress godoc
// @Summary Delete my address
// @Tags Addresses
// @Produce json
// @Security BearerAuth
// @Param id path int true "Address ID"
// @Success 200 {object} models.ErrorResponse
// @Failure 403 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /addresses/{id} [delete]
func (ctrl *AddressController) DeleteAddress(c *gin.Context) {
	addressID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid address id"})
		return
	}

	if err := ctrl.addresses.DeleteAddress(c.Request.Context(), currentUserID(c), addressID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Address deleted"})
}
