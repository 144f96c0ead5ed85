package services

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/hallbook/hallbook-api/internal/models"
	"github.com/hallbook/hallbook-api/internal/repository"
)

// VendorService owns the supplier directory.
type VendorService struct {
	repos *repository.Repositories
}

// NewVendorService creates a new vendor service
func NewVendorService(repos *repository.Repositories) *VendorService {
	return &VendorService{repos: repos}
}

// VendorInput carries the editable fields of a vendor
type VendorInput struct {
	BusinessName string
	ContactName  string
	Phone        string
	Email        string
	GSTIN        string
	Address      *string
}

// Create validates and stores a vendor.
func (s *VendorService) Create(ctx context.Context, orgID uint, input VendorInput) (*models.Vendor, error) {
	if input.BusinessName == "" {
		return nil, NewValidationError("business_name", "is required")
	}
	vendor := &models.Vendor{
		OrganizationID: orgID,
		BusinessName:   input.BusinessName,
		ContactName:    input.ContactName,
		Phone:          input.Phone,
		Email:          input.Email,
		GSTIN:          input.GSTIN,
		Address:        input.Address,
	}
	if err := s.repos.Vendor.Create(ctx, vendor); err != nil {
		return nil, err
	}
	return vendor, nil
}

// Get returns one vendor.
func (s *VendorService) Get(ctx context.Context, orgID, vendorID uint) (*models.Vendor, error) {
	return s.findVendor(ctx, orgID, vendorID)
}

// List returns every vendor for the organization.
func (s *VendorService) List(ctx context.Context, orgID uint) ([]models.Vendor, error) {
	return s.repos.Vendor.List(ctx, orgID)
}

// Update rewrites a vendor's contact details.
func (s *VendorService) Update(ctx context.Context, orgID, vendorID uint, input VendorInput) (*models.Vendor, error) {
	vendor, err := s.findVendor(ctx, orgID, vendorID)
	if err != nil {
		return nil, err
	}
	if input.BusinessName == "" {
		return nil, NewValidationError("business_name", "is required")
	}
	vendor.BusinessName = input.BusinessName
	vendor.ContactName = input.ContactName
	vendor.Phone = input.Phone
	vendor.Email = input.Email
	vendor.GSTIN = input.GSTIN
	vendor.Address = input.Address
	if err := s.repos.Vendor.Update(ctx, vendor); err != nil {
		return nil, err
	}
	return vendor, nil
}

// Delete removes a vendor. A vendor with outstanding bills stays: the
// payables report would lose its drill-down rows otherwise.
func (s *VendorService) Delete(ctx context.Context, orgID, vendorID uint) error {
	vendor, err := s.findVendor(ctx, orgID, vendorID)
	if err != nil {
		return err
	}
	unpaid, err := s.repos.Vendor.CountUnpaidExpenses(ctx, orgID, vendor.ID)
	if err != nil {
		return err
	}
	if unpaid > 0 {
		return ErrInvalidState
	}
	return s.repos.Vendor.Delete(ctx, orgID, vendor.ID)
}

func (s *VendorService) findVendor(ctx context.Context, orgID, vendorID uint) (*models.Vendor, error) {
	vendor, err := s.repos.Vendor.FindByID(ctx, orgID, vendorID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return vendor, nil
}
