package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// DateLayout is the wire format for date-only parameters.
const DateLayout = "2006-01-02"

// Date decodes either an RFC 3339 timestamp or a YYYY-MM-DD date.
type Date struct {
	time.Time
}

func (d *Date) UnmarshalJSON(b []byte) error {
	if bytes.Equal(b, []byte("null")) {
		d.Time = time.Time{}
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("date must be a string: %w", err)
	}
	if s == "" {
		d.Time = time.Time{}
		return nil
	}
	for _, layout := range []string{time.RFC3339Nano, DateLayout} {
		if t, err := time.Parse(layout, s); err == nil {
			d.Time = t
			return nil
		}
	}
	return fmt.Errorf("unrecognised date %q", s)
}

// String formats the date as YYYY-MM-DD, or "" when unset.
func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Format(DateLayout)
}

// PropertyTypes are indexed from 1 on the wire.
var PropertyTypes = []string{
	"Blocks of flat",
	"Bungalow",
	"Duplex",
	"Flat",
	"Mini flat",
	"One bedroom flat",
	"Roomself",
	"Two bedroom flat",
}

// PropertyTypeName returns the display name of a 1-based property type.
func PropertyTypeName(n int) string {
	if n < 1 || n > len(PropertyTypes) {
		return fmt.Sprintf("unknown (%d)", n)
	}
	return PropertyTypes[n-1]
}

// TokenPayload is the body of login and refresh responses.
type TokenPayload struct {
	Token string `json:"token"`
	Type  string `json:"type"`
	// RefreshToken is set by servers that return the credential in the body
	// instead of a cookie.
	RefreshToken string `json:"refreshToken,omitempty"`
}

// LoginParam is the login request body.
type LoginParam struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Metadata describes a page of results.
type Metadata struct {
	HasNextPage bool `json:"hasNextPage"`
}

// Page is one page of a list endpoint.
type Page[T any] struct {
	Data     []T      `json:"data"`
	Metadata Metadata `json:"metadata"`
}

// Count is the body of the count endpoints.
type Count struct {
	Total int `json:"total"`
}

// ListFilter narrows list endpoints. Page starts at 1.
type ListFilter struct {
	Page      int
	FirstName string
	Phone     string
	Address   string
}

// PropertyAdditionalInfo carries optional property details.
type PropertyAdditionalInfo struct {
	FlatNo json.Number `json:"flatNo,omitempty"`
}

// Landlord is a list entry for a landlord and their first property.
type Landlord struct {
	LandlordID     string                 `json:"landlordID"`
	FirstName      string                 `json:"firstName"`
	LastName       string                 `json:"lastName,omitempty"`
	Email          string                 `json:"email,omitempty"`
	Phone          string                 `json:"phone"`
	Address        string                 `json:"address"`
	PropertyType   int                    `json:"propertyType"`
	LeasePrice     int64                  `json:"leasePrice"`
	LeasePeriod    int                    `json:"leasePeriod"`
	StartDate      Date                   `json:"startDate"`
	EndDate        Date                   `json:"endDate"`
	AdditionalInfo PropertyAdditionalInfo `json:"additionalInfo"`
	CreatedAt      Date                   `json:"createdAt"`
	UpdatedAt      Date                   `json:"updatedAt"`
}

// PropertyInfo is one property listed by a landlord.
type PropertyInfo struct {
	PropertyInfoID int                    `json:"propertyInfoID"`
	Address        string                 `json:"address"`
	PropertyType   int                    `json:"propertyType"`
	LeasePrice     int64                  `json:"leasePrice"`
	LeasePeriod    int                    `json:"leasePeriod"`
	StartDate      Date                   `json:"startDate"`
	EndDate        Date                   `json:"endDate"`
	AdditionalInfo PropertyAdditionalInfo `json:"additionalInfo"`
}

// LandlordDetail is a landlord with all their properties.
type LandlordDetail struct {
	LandlordID   string         `json:"landlordID"`
	FirstName    string         `json:"firstName"`
	LastName     string         `json:"lastName,omitempty"`
	Email        string         `json:"email,omitempty"`
	Phone        string         `json:"phone"`
	CreatedAt    Date           `json:"createdAt"`
	UpdatedAt    Date           `json:"updatedAt"`
	PropertyInfo []PropertyInfo `json:"propertyInfo"`
}

// LandlordParam registers a landlord with their first property.
type LandlordParam struct {
	FirstName      string                 `json:"firstName"`
	LastName       string                 `json:"lastName"`
	Phone          string                 `json:"phone"`
	Email          string                 `json:"email"`
	Address        string                 `json:"address"`
	PropertyType   int                    `json:"propertyType"`
	AdditionalInfo PropertyAdditionalInfo `json:"additionalInfo"`
	LeasePrice     int64                  `json:"leasePrice"`
	LeasePeriod    int                    `json:"leasePeriod"`
	StartDate      string                 `json:"startDate"`
	EndDate        string                 `json:"endDate"`
}

// PropertyInfoParam adds a property to an existing landlord.
type PropertyInfoParam struct {
	Address        string                 `json:"address"`
	PropertyType   int                    `json:"propertyType"`
	LeasePrice     int64                  `json:"leasePrice"`
	LeasePeriod    int                    `json:"leasePeriod"`
	StartDate      string                 `json:"startDate"`
	EndDate        string                 `json:"endDate"`
	AdditionalInfo PropertyAdditionalInfo `json:"additionalInfo"`
}

// TenantAdditionalInfo carries optional tenant details.
type TenantAdditionalInfo struct {
	MaritalStatus   string `json:"maritalStatus,omitempty"`
	BusinessVenture string `json:"businessVenture,omitempty"`
	BusinessName    string `json:"businessName,omitempty"`
	BusinessAddress string `json:"businessAddress,omitempty"`
	NoOfChildren    string `json:"noOfChildren,omitempty"`
	Employer        string `json:"employer,omitempty"`
	OfficeAddress   string `json:"officeAddress,omitempty"`
}

// Tenant is a list entry for a tenant and their current rent.
type Tenant struct {
	TenantID       string               `json:"tenantID"`
	FirstName      string               `json:"firstName"`
	LastName       string               `json:"lastName,omitempty"`
	Gender         string               `json:"gender"`
	Dob            Date                 `json:"dob"`
	Image          string               `json:"image,omitempty"`
	Email          string               `json:"email,omitempty"`
	Phone          string               `json:"phone"`
	StateOfOrigin  string               `json:"stateOfOrigin"`
	Nationality    string               `json:"nationality"`
	Occupation     string               `json:"occupation"`
	AdditionalInfo TenantAdditionalInfo `json:"additionalInfo"`
	RentFee        int64                `json:"rentFee"`
	StartDate      Date                 `json:"startDate"`
	MaturityDate   Date                 `json:"maturityDate"`
	RenewalDate    Date                 `json:"renewalDate"`
	Address        string               `json:"address"`
	LandlordID     string               `json:"landlordID"`
	CreatedAt      Date                 `json:"createdAt"`
	UpdatedAt      Date                 `json:"updatedAt"`
}

// RentInfo is one rent agreement held by a tenant.
type RentInfo struct {
	RentInfoID   int    `json:"rentInfoID"`
	StartDate    Date   `json:"startDate"`
	MaturityDate Date   `json:"maturityDate"`
	RenewalDate  Date   `json:"renewalDate"`
	LandlordID   string `json:"landlordID"`
	TenantID     string `json:"tenantID"`
	Address      string `json:"address"`
	RentFee      int64  `json:"rentFee"`
}

// TenantDetail is a tenant with all their rent agreements.
type TenantDetail struct {
	TenantID       string               `json:"tenantID"`
	FirstName      string               `json:"firstName"`
	LastName       string               `json:"lastName,omitempty"`
	Gender         string               `json:"gender"`
	Dob            Date                 `json:"dob"`
	Image          string               `json:"image,omitempty"`
	Email          string               `json:"email,omitempty"`
	Phone          string               `json:"phone"`
	StateOfOrigin  string               `json:"stateOfOrigin"`
	Nationality    string               `json:"nationality"`
	Occupation     string               `json:"occupation"`
	AdditionalInfo TenantAdditionalInfo `json:"additionalInfo"`
	CreatedAt      Date                 `json:"createdAt"`
	UpdatedAt      Date                 `json:"updatedAt"`
	RentInfo       []RentInfo           `json:"rentInfo"`
}

// TenantParam registers a tenant with their first rent agreement.
// LandlordPhone is used to look up LandlordID and is not sent.
type TenantParam struct {
	FirstName      string               `json:"firstName"`
	LastName       string               `json:"lastName"`
	Gender         string               `json:"gender"`
	Dob            string               `json:"dob"`
	Email          string               `json:"email"`
	Phone          string               `json:"phone"`
	StateOfOrigin  string               `json:"stateOfOrigin"`
	Nationality    string               `json:"nationality"`
	Occupation     string               `json:"occupation"`
	AdditionalInfo TenantAdditionalInfo `json:"additionalInfo"`
	StartDate      string               `json:"startDate"`
	MaturityDate   string               `json:"maturityDate"`
	RenewalDate    string               `json:"renewalDate"`
	Address        string               `json:"address"`
	RentFee        int64                `json:"rentFee"`
	LandlordID     string               `json:"landlordID"`
	LandlordPhone  string               `json:"-"`
}

// RentInfoParam adds a rent agreement to an existing tenant.
type RentInfoParam struct {
	Address       string `json:"address"`
	StartDate     string `json:"startDate"`
	MaturityDate  string `json:"maturityDate"`
	RenewalDate   string `json:"renewalDate"`
	RentFee       int64  `json:"rentFee"`
	LandlordID    string `json:"landlordID"`
	LandlordPhone string `json:"-"`
}
