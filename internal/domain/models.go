package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AuditModel carries the fields shared by every business record: a UUID
// primary key, timestamps, a soft-delete marker, and the created_by /
// updated_by audit columns filled from the authenticated user.
type AuditModel struct {
	ID        uuid.UUID      `gorm:"type:uuid;primaryKey"`
	CreatedAt time.Time      `gorm:"not null"`
	UpdatedAt time.Time      `gorm:"not null"`
	DeletedAt gorm.DeletedAt `gorm:"index"`
	CreatedBy string         `gorm:"type:varchar(100);column:created_by"`
	UpdatedBy string         `gorm:"type:varchar(100);column:updated_by"`
}

// BeforeCreate assigns a UUID when the caller did not set one.
func (m *AuditModel) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

// Entity represents an owning group company. The primary key doubles as the
// short code embedded in generated document numbers (e.g. "PTTI").
type Entity struct {
	ID        string    `gorm:"type:varchar(20);primaryKey" json:"id"`
	Name      string    `gorm:"type:varchar(200);not null" json:"name"`
	IsActive  bool      `gorm:"not null;default:true;column:is_active" json:"isActive"`
	CreatedAt time.Time `gorm:"not null" json:"createdAt"`
	UpdatedAt time.Time `gorm:"not null" json:"updatedAt"`
}

// NeedCategory classifies what a lead is shopping for. It selects the prefix
// used on the lead's activity numbers.
type NeedCategory string

const (
	NeedInternet       NeedCategory = "internet"
	NeedDataCenter     NeedCategory = "data_center"
	NeedManagedService NeedCategory = "managed_service"
	NeedColocation     NeedCategory = "colocation"
)

// IsValid checks if the NeedCategory is a valid enum value
func (nc NeedCategory) IsValid() bool {
	switch nc {
	case NeedInternet, NeedDataCenter, NeedManagedService, NeedColocation:
		return true
	}
	return false
}

// LeadStatus represents where a lead sits in the sales pipeline
type LeadStatus string

const (
	LeadStatusNew         LeadStatus = "new"
	LeadStatusFollowUp    LeadStatus = "follow_up"
	LeadStatusQuotation   LeadStatus = "quotation"
	LeadStatusNegotiation LeadStatus = "negotiation"
	LeadStatusCustomer    LeadStatus = "customer"
	LeadStatusLost        LeadStatus = "lost"
)

// IsValid checks if the LeadStatus is a valid enum value
func (ls LeadStatus) IsValid() bool {
	switch ls {
	case LeadStatusNew, LeadStatusFollowUp, LeadStatusQuotation, LeadStatusNegotiation, LeadStatusCustomer, LeadStatusLost:
		return true
	}
	return false
}

// Lead is a prospective customer company, the root entity of the pipeline.
type Lead struct {
	AuditModel
	Nomor          string       `gorm:"type:varchar(20);uniqueIndex;not null"`
	CompanyName    string       `gorm:"type:varchar(200);not null;index;column:company_name"`
	Address        string       `gorm:"type:varchar(500)"`
	City           string       `gorm:"type:varchar(100)"`
	Phone          string       `gorm:"type:varchar(50)"`
	Email          string       `gorm:"type:varchar(255)"`
	PicName        string       `gorm:"type:varchar(200);column:pic_name"`
	NeedCategory   NeedCategory `gorm:"type:varchar(50);not null;default:'internet';column:need_category"`
	SalesTeamID    string       `gorm:"type:varchar(100);column:sales_team_id;index"`
	SalesTeamName  string       `gorm:"type:varchar(200);column:sales_team_name"`
	Status         LeadStatus   `gorm:"type:varchar(50);not null;default:'new';index"`
	CustomerID     *uuid.UUID   `gorm:"type:uuid;column:customer_id;index"`
	Customer       *Customer    `gorm:"foreignKey:CustomerID"`
	CustomerActive bool         `gorm:"not null;default:false;column:customer_active"`
	Contracts      []Pks        `gorm:"foreignKey:LeadID"`
}

// QuotationStatus represents the status of a quotation
type QuotationStatus string

const (
	QuotationStatusDraft    QuotationStatus = "draft"
	QuotationStatusSent     QuotationStatus = "sent"
	QuotationStatusApproved QuotationStatus = "approved"
	QuotationStatusRejected QuotationStatus = "rejected"
)

// Quotation is a priced proposal sent to a lead prior to contracting.
type Quotation struct {
	AuditModel
	Nomor  string          `gorm:"type:varchar(50);uniqueIndex;not null"`
	LeadID uuid.UUID       `gorm:"type:uuid;not null;index;column:lead_id"`
	Lead   *Lead           `gorm:"foreignKey:LeadID"`
	Title  string          `gorm:"type:varchar(200)"`
	Amount float64         `gorm:"type:decimal(15,2);not null;default:0"`
	Status QuotationStatus `gorm:"type:varchar(50);not null;default:'draft';index"`
	Notes  string          `gorm:"type:text"`
	Sites  []QuotationSite `gorm:"foreignKey:QuotationID;constraint:OnDelete:CASCADE"`
}

// QuotationSite attaches a site with its pricing to a quotation.
type QuotationSite struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey"`
	QuotationID     uuid.UUID `gorm:"type:uuid;not null;index;column:quotation_id"`
	SiteID          uuid.UUID `gorm:"type:uuid;not null;column:site_id"`
	Site            *Site     `gorm:"foreignKey:SiteID"`
	MonthlyFee      float64   `gorm:"type:decimal(15,2);not null;default:0;column:monthly_fee"`
	InstallationFee float64   `gorm:"type:decimal(15,2);not null;default:0;column:installation_fee"`
	CreatedAt       time.Time `gorm:"not null"`
}

// BeforeCreate assigns a UUID when the caller did not set one.
func (s *QuotationSite) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// PksStatus represents the status of a contract in its approval chain
type PksStatus string

const (
	PksStatusDraft      PksStatus = "draft"
	PksStatusInApproval PksStatus = "in_approval"
	PksStatusApproved   PksStatus = "approved"
	PksStatusActive     PksStatus = "active"
	PksStatusRejected   PksStatus = "rejected"
)

// MaxApprovalLevel is the final level of the PKS approval chain.
const MaxApprovalLevel = 5

// Pks is a signed contract (Perjanjian Kerja Sama) tied to one lead.
type Pks struct {
	AuditModel
	Nomor         string     `gorm:"type:varchar(100);uniqueIndex;not null"`
	LeadID        uuid.UUID  `gorm:"type:uuid;not null;index;column:lead_id"`
	Lead          *Lead      `gorm:"foreignKey:LeadID"`
	QuotationID   *uuid.UUID `gorm:"type:uuid;column:quotation_id;index"`
	Quotation     *Quotation `gorm:"foreignKey:QuotationID"`
	EntityCode    string     `gorm:"type:varchar(20);column:entity_code;index"`
	KontrakAwal   *time.Time `gorm:"type:date;column:kontrak_awal"`
	KontrakAkhir  *time.Time `gorm:"type:date;column:kontrak_akhir"`
	IsAktif       bool       `gorm:"not null;default:false;column:is_aktif;index"`
	Status        PksStatus  `gorm:"type:varchar(50);not null;default:'draft';index"`
	ApprovalLevel int        `gorm:"not null;default:0;column:approval_level"`
	Notes         string     `gorm:"type:text"`
	Sites         []PksSite  `gorm:"foreignKey:PksID;constraint:OnDelete:CASCADE"`
}

// TableName overrides the default pluralization
func (Pks) TableName() string {
	return "pks"
}

// PksSite attaches a site to a contract.
type PksSite struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	PksID     uuid.UUID `gorm:"type:uuid;not null;index;column:pks_id"`
	SiteID    uuid.UUID `gorm:"type:uuid;not null;column:site_id"`
	Site      *Site     `gorm:"foreignKey:SiteID"`
	CreatedAt time.Time `gorm:"not null"`
}

// BeforeCreate assigns a UUID when the caller did not set one.
func (s *PksSite) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// SpkStatus represents the status of a work order
type SpkStatus string

const (
	SpkStatusOpen       SpkStatus = "open"
	SpkStatusInProgress SpkStatus = "in_progress"
	SpkStatusDone       SpkStatus = "done"
	SpkStatusCancelled  SpkStatus = "cancelled"
)

// Spk is a work order (Surat Perintah Kerja) derived from a contract or
// quotation and scoped to one or more sites.
type Spk struct {
	AuditModel
	Nomor       string     `gorm:"type:varchar(100);uniqueIndex;not null"`
	LeadID      uuid.UUID  `gorm:"type:uuid;not null;index;column:lead_id"`
	Lead        *Lead      `gorm:"foreignKey:LeadID"`
	PksID       *uuid.UUID `gorm:"type:uuid;column:pks_id;index"`
	Pks         *Pks       `gorm:"foreignKey:PksID"`
	QuotationID *uuid.UUID `gorm:"type:uuid;column:quotation_id"`
	EntityCode  string     `gorm:"type:varchar(20);column:entity_code"`
	Description string     `gorm:"type:text"`
	Status      SpkStatus  `gorm:"type:varchar(50);not null;default:'open';index"`
	Sites       []SpkSite  `gorm:"foreignKey:SpkID;constraint:OnDelete:CASCADE"`
}

// TableName overrides the default pluralization
func (Spk) TableName() string {
	return "spk"
}

// SpkSite attaches a site to a work order.
type SpkSite struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	SpkID     uuid.UUID `gorm:"type:uuid;not null;index;column:spk_id"`
	SiteID    uuid.UUID `gorm:"type:uuid;not null;column:site_id"`
	Site      *Site     `gorm:"foreignKey:SiteID"`
	CreatedAt time.Time `gorm:"not null"`
}

// BeforeCreate assigns a UUID when the caller did not set one.
func (s *SpkSite) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// Customer is the entity a lead becomes when its first contract is activated.
// Exactly one customer is created per lead.
type Customer struct {
	AuditModel
	Nomor  string    `gorm:"type:varchar(50);uniqueIndex;not null"`
	LeadID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex;column:lead_id"`
	Name   string    `gorm:"type:varchar(200);not null;index"`
}

// ActivityType classifies a timeline entry
type ActivityType string

const (
	ActivityLeadCreated      ActivityType = "lead_created"
	ActivityQuotationCreated ActivityType = "quotation_created"
	ActivityPksCreated       ActivityType = "pks_created"
	ActivitySpkCreated       ActivityType = "spk_created"
	ActivityStatusChanged    ActivityType = "status_changed"
	ActivityPksApproved      ActivityType = "pks_approved"
	ActivityPksActivated     ActivityType = "pks_activated"
)

// CustomerActivity is an append-only timeline row recorded on every
// significant transition of a lead and its documents.
type CustomerActivity struct {
	AuditModel
	Nomor        string       `gorm:"type:varchar(100);not null;index"`
	LeadID       uuid.UUID    `gorm:"type:uuid;not null;index;column:lead_id"`
	Lead         *Lead        `gorm:"foreignKey:LeadID"`
	ActivityType ActivityType `gorm:"type:varchar(50);not null;column:activity_type"`
	Title        string       `gorm:"type:varchar(200);not null"`
	Body         string       `gorm:"type:varchar(2000)"`
}

// TableName overrides the default table name
func (CustomerActivity) TableName() string {
	return "customer_activities"
}

// Site is a physical location associated with quotations, contracts, and
// work orders.
type Site struct {
	AuditModel
	Name    string `gorm:"type:varchar(200);not null;index"`
	Address string `gorm:"type:varchar(500)"`
	City    string `gorm:"type:varchar(100)"`
}

// NumberSequence is a per-(prefix, scope, month, year) counter backing the
// generated document numbers. Rows are incremented under a row lock so that
// concurrent requests can never draw the same sequence value.
type NumberSequence struct {
	ID           uint      `gorm:"primaryKey;autoIncrement"`
	Prefix       string    `gorm:"type:varchar(10);not null;uniqueIndex:idx_number_sequences_scope"`
	Scope        string    `gorm:"type:varchar(100);not null;uniqueIndex:idx_number_sequences_scope"`
	Month        int       `gorm:"not null;uniqueIndex:idx_number_sequences_scope"`
	Year         int       `gorm:"not null;uniqueIndex:idx_number_sequences_scope"`
	LastSequence int       `gorm:"not null;default:0;column:last_sequence"`
	CreatedAt    time.Time `gorm:"not null"`
	UpdatedAt    time.Time `gorm:"not null"`
}
