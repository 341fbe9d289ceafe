package domain

import (
	"time"

	"github.com/google/uuid"
)

// Response is the JSON envelope every endpoint answers with.
type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
	Errors  interface{} `json:"errors,omitempty"`
}

// PaginatedResponse wraps a page of results
type PaginatedResponse struct {
	Data       interface{} `json:"data"`
	Total      int64       `json:"total"`
	Page       int         `json:"page"`
	PageSize   int         `json:"pageSize"`
	TotalPages int         `json:"totalPages"`
}

// LeadDTO is the API representation of a lead
type LeadDTO struct {
	ID             uuid.UUID    `json:"id"`
	Nomor          string       `json:"nomor"`
	CompanyName    string       `json:"companyName"`
	Address        string       `json:"address,omitempty"`
	City           string       `json:"city,omitempty"`
	Phone          string       `json:"phone,omitempty"`
	Email          string       `json:"email,omitempty"`
	PicName        string       `json:"picName,omitempty"`
	NeedCategory   NeedCategory `json:"needCategory"`
	SalesTeamID    string       `json:"salesTeamId,omitempty"`
	SalesTeamName  string       `json:"salesTeamName,omitempty"`
	Status         LeadStatus   `json:"status"`
	CustomerID     *uuid.UUID   `json:"customerId,omitempty"`
	CustomerActive bool         `json:"customerActive"`
	CreatedAt      string       `json:"createdAt"`
	UpdatedAt      string       `json:"updatedAt"`
}

// QuotationDTO is the API representation of a quotation
type QuotationDTO struct {
	ID        uuid.UUID          `json:"id"`
	Nomor     string             `json:"nomor"`
	LeadID    uuid.UUID          `json:"leadId"`
	LeadNomor string             `json:"leadNomor,omitempty"`
	LeadName  string             `json:"leadName,omitempty"`
	Title     string             `json:"title,omitempty"`
	Amount    float64            `json:"amount"`
	Status    QuotationStatus    `json:"status"`
	Notes     string             `json:"notes,omitempty"`
	Sites     []QuotationSiteDTO `json:"sites"`
	CreatedAt string             `json:"createdAt"`
	UpdatedAt string             `json:"updatedAt"`
}

// QuotationSiteDTO is a priced site line on a quotation
type QuotationSiteDTO struct {
	ID              uuid.UUID `json:"id"`
	SiteID          uuid.UUID `json:"siteId"`
	SiteName        string    `json:"siteName,omitempty"`
	MonthlyFee      float64   `json:"monthlyFee"`
	InstallationFee float64   `json:"installationFee"`
}

// PksDTO is the API representation of a contract. SisaKontrak and
// ExpiryCategory are derived on read from the contract end date.
type PksDTO struct {
	ID             uuid.UUID  `json:"id"`
	Nomor          string     `json:"nomor"`
	LeadID         uuid.UUID  `json:"leadId"`
	LeadNomor      string     `json:"leadNomor,omitempty"`
	LeadName       string     `json:"leadName,omitempty"`
	QuotationID    *uuid.UUID `json:"quotationId,omitempty"`
	EntityCode     string     `json:"entityCode,omitempty"`
	KontrakAwal    *string    `json:"kontrakAwal,omitempty"`
	KontrakAkhir   *string    `json:"kontrakAkhir,omitempty"`
	IsAktif        bool       `json:"isAktif"`
	Status         PksStatus  `json:"status"`
	ApprovalLevel  int        `json:"approvalLevel"`
	SisaKontrak    string     `json:"sisaKontrak"`
	ExpiryCategory string     `json:"expiryCategory"`
	Notes          string     `json:"notes,omitempty"`
	Sites          []SiteDTO  `json:"sites,omitempty"`
	CreatedAt      string     `json:"createdAt"`
	UpdatedAt      string     `json:"updatedAt"`
}

// SpkDTO is the API representation of a work order
type SpkDTO struct {
	ID          uuid.UUID  `json:"id"`
	Nomor       string     `json:"nomor"`
	LeadID      uuid.UUID  `json:"leadId"`
	LeadNomor   string     `json:"leadNomor,omitempty"`
	PksID       *uuid.UUID `json:"pksId,omitempty"`
	QuotationID *uuid.UUID `json:"quotationId,omitempty"`
	EntityCode  string     `json:"entityCode,omitempty"`
	Description string     `json:"description,omitempty"`
	Status      SpkStatus  `json:"status"`
	Sites       []SiteDTO  `json:"sites,omitempty"`
	CreatedAt   string     `json:"createdAt"`
	UpdatedAt   string     `json:"updatedAt"`
}

// CustomerDTO is the API representation of a customer
type CustomerDTO struct {
	ID        uuid.UUID `json:"id"`
	Nomor     string    `json:"nomor"`
	LeadID    uuid.UUID `json:"leadId"`
	Name      string    `json:"name"`
	CreatedAt string    `json:"createdAt"`
	UpdatedAt string    `json:"updatedAt"`
}

// ActivityDTO is the API representation of a timeline entry
type ActivityDTO struct {
	ID           uuid.UUID    `json:"id"`
	Nomor        string       `json:"nomor"`
	LeadID       uuid.UUID    `json:"leadId"`
	ActivityType ActivityType `json:"activityType"`
	Title        string       `json:"title"`
	Body         string       `json:"body,omitempty"`
	CreatedBy    string       `json:"createdBy,omitempty"`
	CreatedAt    string       `json:"createdAt"`
}

// SiteDTO is the API representation of a site
type SiteDTO struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Address   string    `json:"address,omitempty"`
	City      string    `json:"city,omitempty"`
	CreatedAt string    `json:"createdAt"`
	UpdatedAt string    `json:"updatedAt"`
}

// CreateLeadRequest is the payload for creating a lead
type CreateLeadRequest struct {
	CompanyName   string       `json:"companyName" validate:"required,max=200"`
	Address       string       `json:"address" validate:"max=500"`
	City          string       `json:"city" validate:"max=100"`
	Phone         string       `json:"phone" validate:"max=50"`
	Email         string       `json:"email" validate:"omitempty,email"`
	PicName       string       `json:"picName" validate:"max=200"`
	NeedCategory  NeedCategory `json:"needCategory" validate:"required,oneof=internet data_center managed_service colocation"`
	SalesTeamID   string       `json:"salesTeamId" validate:"max=100"`
	SalesTeamName string       `json:"salesTeamName" validate:"max=200"`
}

// UpdateLeadRequest is the payload for updating a lead
type UpdateLeadRequest struct {
	CompanyName  string       `json:"companyName" validate:"required,max=200"`
	Address      string       `json:"address" validate:"max=500"`
	City         string       `json:"city" validate:"max=100"`
	Phone        string       `json:"phone" validate:"max=50"`
	Email        string       `json:"email" validate:"omitempty,email"`
	PicName      string       `json:"picName" validate:"max=200"`
	NeedCategory NeedCategory `json:"needCategory" validate:"required,oneof=internet data_center managed_service colocation"`
}

// UpdateLeadStatusRequest changes a lead's pipeline status
type UpdateLeadStatusRequest struct {
	Status LeadStatus `json:"status" validate:"required,oneof=new follow_up quotation negotiation customer lost"`
	Notes  string     `json:"notes" validate:"max=2000"`
}

// AssignTeamRequest assigns a sales team to a single lead
type AssignTeamRequest struct {
	SalesTeamID   string `json:"salesTeamId" validate:"required,max=100"`
	SalesTeamName string `json:"salesTeamName" validate:"max=200"`
}

// BulkAssignRequest assigns a sales team to many leads at once
type BulkAssignRequest struct {
	LeadIDs       []uuid.UUID `json:"leadIds" validate:"required,min=1"`
	SalesTeamID   string      `json:"salesTeamId" validate:"required,max=100"`
	SalesTeamName string      `json:"salesTeamName" validate:"max=200"`
}

// BulkAssignResult tallies a bulk assignment. Invalid items are skipped and
// counted, never failing the batch as a whole.
type BulkAssignResult struct {
	Assigned int      `json:"assigned"`
	Skipped  int      `json:"skipped"`
	Failures []string `json:"failures,omitempty"`
}

// QuotationSiteInput is one priced site line in a quotation payload
type QuotationSiteInput struct {
	SiteID          uuid.UUID `json:"siteId" validate:"required"`
	MonthlyFee      float64   `json:"monthlyFee" validate:"gte=0"`
	InstallationFee float64   `json:"installationFee" validate:"gte=0"`
}

// CreateQuotationRequest is the payload for creating a quotation
type CreateQuotationRequest struct {
	LeadID uuid.UUID            `json:"leadId" validate:"required"`
	Title  string               `json:"title" validate:"max=200"`
	Amount float64              `json:"amount" validate:"gte=0"`
	Notes  string               `json:"notes"`
	Sites  []QuotationSiteInput `json:"sites" validate:"dive"`
}

// UpdateQuotationRequest is the payload for updating a quotation
type UpdateQuotationRequest struct {
	Title  string          `json:"title" validate:"max=200"`
	Amount float64         `json:"amount" validate:"gte=0"`
	Status QuotationStatus `json:"status" validate:"omitempty,oneof=draft sent approved rejected"`
	Notes  string          `json:"notes"`
}

// ApproveQuotationRequest turns an approved quotation into a contract
type ApproveQuotationRequest struct {
	EntityCode   string    `json:"entityCode" validate:"required,max=20"`
	KontrakAwal  time.Time `json:"kontrakAwal" validate:"required"`
	KontrakAkhir time.Time `json:"kontrakAkhir" validate:"required"`
}

// CreatePksRequest is the payload for creating a contract directly
type CreatePksRequest struct {
	LeadID       uuid.UUID   `json:"leadId" validate:"required"`
	QuotationID  *uuid.UUID  `json:"quotationId"`
	EntityCode   string      `json:"entityCode" validate:"required,max=20"`
	KontrakAwal  time.Time   `json:"kontrakAwal" validate:"required"`
	KontrakAkhir time.Time   `json:"kontrakAkhir" validate:"required"`
	Notes        string      `json:"notes"`
	SiteIDs      []uuid.UUID `json:"siteIds"`
}

// UpdatePksRequest is the payload for updating a contract
type UpdatePksRequest struct {
	EntityCode   string    `json:"entityCode" validate:"max=20"`
	KontrakAwal  time.Time `json:"kontrakAwal" validate:"required"`
	KontrakAkhir time.Time `json:"kontrakAkhir" validate:"required"`
	Notes        string    `json:"notes"`
}

// CreateSpkRequest is the payload for creating a work order
type CreateSpkRequest struct {
	LeadID      uuid.UUID   `json:"leadId" validate:"required"`
	PksID       *uuid.UUID  `json:"pksId"`
	QuotationID *uuid.UUID  `json:"quotationId"`
	EntityCode  string      `json:"entityCode" validate:"max=20"`
	Description string      `json:"description"`
	SiteIDs     []uuid.UUID `json:"siteIds"`
}

// UpdateSpkRequest is the payload for updating a work order
type UpdateSpkRequest struct {
	Description string    `json:"description"`
	Status      SpkStatus `json:"status" validate:"omitempty,oneof=open in_progress done cancelled"`
}

// CreateSiteRequest is the payload for creating a site
type CreateSiteRequest struct {
	Name    string `json:"name" validate:"required,max=200"`
	Address string `json:"address" validate:"max=500"`
	City    string `json:"city" validate:"max=100"`
}

// ResyncResult reports a full lifecycle resync run
type ResyncResult struct {
	Checked int `json:"checked"`
	Updated int `json:"updated"`
}
