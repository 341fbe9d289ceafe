// Package mapper converts persistence models into API DTOs.
package mapper

import (
	"time"

	"github.com/nusatech-dev/backoffice-api/internal/domain"
)

const dateLayout = "2006-01-02"

func formatDate(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(dateLayout)
	return &s
}

func ToLeadDTO(lead *domain.Lead) domain.LeadDTO {
	return domain.LeadDTO{
		ID:             lead.ID,
		Nomor:          lead.Nomor,
		CompanyName:    lead.CompanyName,
		Address:        lead.Address,
		City:           lead.City,
		Phone:          lead.Phone,
		Email:          lead.Email,
		PicName:        lead.PicName,
		NeedCategory:   lead.NeedCategory,
		SalesTeamID:    lead.SalesTeamID,
		SalesTeamName:  lead.SalesTeamName,
		Status:         lead.Status,
		CustomerID:     lead.CustomerID,
		CustomerActive: lead.CustomerActive,
		CreatedAt:      lead.CreatedAt.Format(time.RFC3339),
		UpdatedAt:      lead.UpdatedAt.Format(time.RFC3339),
	}
}

func ToLeadDTOs(leads []domain.Lead) []domain.LeadDTO {
	dtos := make([]domain.LeadDTO, len(leads))
	for i := range leads {
		dtos[i] = ToLeadDTO(&leads[i])
	}
	return dtos
}

func ToQuotationDTO(q *domain.Quotation) domain.QuotationDTO {
	sites := make([]domain.QuotationSiteDTO, len(q.Sites))
	for i, s := range q.Sites {
		sites[i] = domain.QuotationSiteDTO{
			ID:              s.ID,
			SiteID:          s.SiteID,
			MonthlyFee:      s.MonthlyFee,
			InstallationFee: s.InstallationFee,
		}
		if s.Site != nil {
			sites[i].SiteName = s.Site.Name
		}
	}
	return domain.QuotationDTO{
		ID:        q.ID,
		Nomor:     q.Nomor,
		LeadID:    q.LeadID,
		Title:     q.Title,
		Amount:    q.Amount,
		Status:    q.Status,
		Notes:     q.Notes,
		Sites:     sites,
		CreatedAt: q.CreatedAt.Format(time.RFC3339),
		UpdatedAt: q.UpdatedAt.Format(time.RFC3339),
	}
}

func ToQuotationDTOs(quotations []domain.Quotation) []domain.QuotationDTO {
	dtos := make([]domain.QuotationDTO, len(quotations))
	for i := range quotations {
		dtos[i] = ToQuotationDTO(&quotations[i])
	}
	return dtos
}

// ToPksDTO derives SisaKontrak and ExpiryCategory from the contract end date
// at the moment of mapping.
func ToPksDTO(pks *domain.Pks) domain.PksDTO {
	now := time.Now()
	return domain.PksDTO{
		ID:             pks.ID,
		Nomor:          pks.Nomor,
		LeadID:         pks.LeadID,
		QuotationID:    pks.QuotationID,
		EntityCode:     pks.EntityCode,
		KontrakAwal:    formatDate(pks.KontrakAwal),
		KontrakAkhir:   formatDate(pks.KontrakAkhir),
		IsAktif:        pks.IsAktif,
		Status:         pks.Status,
		ApprovalLevel:  pks.ApprovalLevel,
		SisaKontrak:    domain.ContractRemaining(pks.KontrakAkhir, now),
		ExpiryCategory: domain.ContractExpiryCategory(pks.KontrakAkhir, now),
		Notes:          pks.Notes,
		Sites:          pksSiteDTOs(pks.Sites),
		CreatedAt:      pks.CreatedAt.Format(time.RFC3339),
		UpdatedAt:      pks.UpdatedAt.Format(time.RFC3339),
	}
}

func ToPksDTOs(contracts []domain.Pks) []domain.PksDTO {
	dtos := make([]domain.PksDTO, len(contracts))
	for i := range contracts {
		dtos[i] = ToPksDTO(&contracts[i])
	}
	return dtos
}

func ToSpkDTO(spk *domain.Spk) domain.SpkDTO {
	return domain.SpkDTO{
		ID:          spk.ID,
		Nomor:       spk.Nomor,
		LeadID:      spk.LeadID,
		PksID:       spk.PksID,
		QuotationID: spk.QuotationID,
		EntityCode:  spk.EntityCode,
		Description: spk.Description,
		Status:      spk.Status,
		Sites:       spkSiteDTOs(spk.Sites),
		CreatedAt:   spk.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   spk.UpdatedAt.Format(time.RFC3339),
	}
}

func ToSpkDTOs(orders []domain.Spk) []domain.SpkDTO {
	dtos := make([]domain.SpkDTO, len(orders))
	for i := range orders {
		dtos[i] = ToSpkDTO(&orders[i])
	}
	return dtos
}

func ToCustomerDTO(c *domain.Customer) domain.CustomerDTO {
	return domain.CustomerDTO{
		ID:        c.ID,
		Nomor:     c.Nomor,
		LeadID:    c.LeadID,
		Name:      c.Name,
		CreatedAt: c.CreatedAt.Format(time.RFC3339),
		UpdatedAt: c.UpdatedAt.Format(time.RFC3339),
	}
}

func ToCustomerDTOs(customers []domain.Customer) []domain.CustomerDTO {
	dtos := make([]domain.CustomerDTO, len(customers))
	for i := range customers {
		dtos[i] = ToCustomerDTO(&customers[i])
	}
	return dtos
}

func ToActivityDTO(a *domain.CustomerActivity) domain.ActivityDTO {
	return domain.ActivityDTO{
		ID:           a.ID,
		Nomor:        a.Nomor,
		LeadID:       a.LeadID,
		ActivityType: a.ActivityType,
		Title:        a.Title,
		Body:         a.Body,
		CreatedBy:    a.CreatedBy,
		CreatedAt:    a.CreatedAt.Format(time.RFC3339),
	}
}

func ToActivityDTOs(activities []domain.CustomerActivity) []domain.ActivityDTO {
	dtos := make([]domain.ActivityDTO, len(activities))
	for i := range activities {
		dtos[i] = ToActivityDTO(&activities[i])
	}
	return dtos
}

func pksSiteDTOs(sites []domain.PksSite) []domain.SiteDTO {
	if len(sites) == 0 {
		return nil
	}
	dtos := make([]domain.SiteDTO, 0, len(sites))
	for _, s := range sites {
		dto := domain.SiteDTO{ID: s.SiteID}
		if s.Site != nil {
			dto = ToSiteDTO(s.Site)
		}
		dtos = append(dtos, dto)
	}
	return dtos
}

func spkSiteDTOs(sites []domain.SpkSite) []domain.SiteDTO {
	if len(sites) == 0 {
		return nil
	}
	dtos := make([]domain.SiteDTO, 0, len(sites))
	for _, s := range sites {
		dto := domain.SiteDTO{ID: s.SiteID}
		if s.Site != nil {
			dto = ToSiteDTO(s.Site)
		}
		dtos = append(dtos, dto)
	}
	return dtos
}

func ToSiteDTO(s *domain.Site) domain.SiteDTO {
	return domain.SiteDTO{
		ID:        s.ID,
		Name:      s.Name,
		Address:   s.Address,
		City:      s.City,
		CreatedAt: s.CreatedAt.Format(time.RFC3339),
		UpdatedAt: s.UpdatedAt.Format(time.RFC3339),
	}
}

func ToSiteDTOs(sites []domain.Site) []domain.SiteDTO {
	dtos := make([]domain.SiteDTO, len(sites))
	for i := range sites {
		dtos[i] = ToSiteDTO(&sites[i])
	}
	return dtos
}
