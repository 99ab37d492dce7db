package mail

import "github.com/xavierca1/residence-leads/internal/entity"

type NewLeadEmailData struct {
	Lead      *entity.Lead
	TypeLabel string
	AdminURL  string
}

var typeLabels = map[entity.LeadType]string{
	entity.LeadTypeRent:            "Rental",
	entity.LeadTypeSale:            "Purchase",
	entity.LeadTypeInvestment:      "Investment",
	entity.LeadTypeInvestmentShare: "Investment share",
	entity.LeadTypeGeneral:         "General",
}

type EmailSender struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
	To       string
	AdminURL string

	dialer dialer
}
