package model

import (
	"github.com/google/uuid"
)

// EditableCompanyInfo is the part of company profile that can be edited
type EditableCompanyInfo struct {
	TradeName   string `gorm:"type:text" json:"nome_fantasia"`
	CNPJ        string `gorm:"type:text" json:"cnpj"`
	Industry    string `gorm:"type:text" json:"setor"`
	Size        string `gorm:"type:text" json:"tamanho"`
	Website     string `gorm:"type:text" json:"site"`
	Description string `gorm:"type:text" json:"descricao"`
	LogoURL     string `gorm:"type:text" json:"logo_url"`
}

// Company is role specific record of empresa user
type Company struct {
	UserID uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	User   User      `gorm:"foreignKey:UserID;references:ID;constraint:OnDelete:CASCADE" json:"user"`
	EditableCompanyInfo
	JobPosts []JobPost `gorm:"foreignKey:CompanyID;references:UserID" json:"vagas,omitempty"`
}

// TableName overrides gorm default table name
func (Company) TableName() string {
	return "empresas"
}

// DisplayName is the trade name, or the account name when it is not set yet
func (c *Company) DisplayName() string {
	if c.TradeName != "" {
		return c.TradeName
	}
	return c.User.Name
}

// FillGoogleInfo fill user information from google userinfo
func (c *Company) FillGoogleInfo(info GoogleUserInfo) {
	c.User = newGoogleUser(info, RoleCompany)
	c.TradeName = info.FullName()
}

// GetID return user id of company
func (c *Company) GetID() uuid.UUID {
	return c.UserID
}

// GetRole return role of this record
func (c *Company) GetRole() string {
	return RoleCompany
}

// GetLoginResponse wrap company with access token
func (c *Company) GetLoginResponse(accessToken string) interface{} {
	return CompanyResponse{
		User:        *c,
		AccessToken: accessToken,
	}
}
