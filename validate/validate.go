// Package validate checks request parameters before they are sent to the API.
//
// Every check is local. A failed check returns Errors, keyed by the JSON field
// name, and no request is made.
package validate

import (
	"encoding/json"
	"sort"
	"strings"
	"time"

	"github.com/asaskevich/govalidator"
	"github.com/rentdesk/cli/api"
)

const (
	msgBlank        = "Cannot be blank"
	msgZero         = "Cannot be zero"
	msgEmail        = "Provide a valid email"
	msgPhone        = "Provide a valid phone number"
	msgDate         = "Provide a valid date (YYYY-MM-DD)"
	msgPropertyType = "Pick a property type"
	msgGender       = "Pick a gender"
	msgDob          = "Provide DoB"
	msgAddress      = "Pick an address"
	msgState        = "Pick a state"
	msgStatus       = "Pick a status"
	msgStartDate    = "Pick a date"
	msgRentFee      = "Provide rent fee"
	msgFlatNo       = "Provide a valid flat number"
)

// Rent agreements mature and fall due for renewal this many days after they start.
const (
	MaturityDays = 334
	RenewalDays  = 364
)

// States lists the accepted values for a tenant's state of origin.
var States = []string{
	"Abia", "Adamawa", "Akwa Ibom", "Anambra", "Bauchi", "Bayelsa", "Benue", "Borno",
	"Cross River", "Delta", "Ebonyi", "Edo", "Ekiti", "Enugu", "FCT", "Gombe", "Imo",
	"Jigawa", "Kaduna", "Kano", "Katsina", "Kebbi", "Kogi", "Kwara", "Lagos", "Nasarawa",
	"Niger", "Ogun", "Ondo", "Osun", "Oyo", "Plateau", "Rivers", "Sokoto", "Taraba",
	"Yobe", "Zamfara",
}

// Errors maps a field name to the message shown for it.
type Errors map[string]string

func (e Errors) Error() string {
	fields := make([]string, 0, len(e))
	for f := range e {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		parts = append(parts, f+": "+e[f])
	}
	return "invalid input: " + strings.Join(parts, "; ")
}

// add records msg for field unless the field already has a message.
func (e Errors) add(field, msg string) {
	if _, ok := e[field]; !ok {
		e[field] = msg
	}
}

func (e Errors) required(field, value, msg string) bool {
	if strings.TrimSpace(value) == "" {
		e.add(field, msg)
		return false
	}
	return true
}

func (e Errors) date(field, value, blankMsg string) {
	if e.required(field, value, blankMsg) && !govalidator.IsTime(value, api.DateLayout) {
		e.add(field, msgDate)
	}
}

func (e Errors) phone(field, value string) {
	if !govalidator.StringLength(value, "11", "11") || !govalidator.IsNumeric(value) {
		e.add(field, msgPhone)
	}
}

func (e Errors) optionalEmail(field, value string) {
	if value != "" && !govalidator.IsEmail(value) {
		e.add(field, msgEmail)
	}
}

func (e Errors) positive(field string, n int64, msg string) {
	if n <= 0 {
		e.add(field, msg)
	}
}

func (e Errors) propertyType(n int) {
	if n < 1 || n > len(api.PropertyTypes) {
		e.add("propertyType", msgPropertyType)
	}
}

func (e Errors) flatNo(n json.Number) {
	if n != "" && !govalidator.IsInt(string(n)) {
		e.add("flatNo", msgFlatNo)
	}
}

func (e Errors) err() error {
	if len(e) == 0 {
		return nil
	}
	return e
}

// Login checks login credentials.
func Login(p api.LoginParam) error {
	e := Errors{}
	if e.required("email", p.Email, msgBlank) && !govalidator.IsEmail(p.Email) {
		e.add("email", msgEmail)
	}
	e.required("password", p.Password, msgBlank)
	return e.err()
}

// Landlord checks a landlord registration.
func Landlord(p api.LandlordParam) error {
	e := Errors{}
	e.required("firstName", p.FirstName, msgBlank)
	e.phone("phone", p.Phone)
	e.optionalEmail("email", p.Email)
	e.required("address", p.Address, msgBlank)
	e.propertyType(p.PropertyType)
	e.positive("leasePrice", p.LeasePrice, msgZero)
	e.positive("leasePeriod", int64(p.LeasePeriod), msgZero)
	e.date("startDate", p.StartDate, msgBlank)
	e.date("endDate", p.EndDate, msgBlank)
	e.flatNo(p.AdditionalInfo.FlatNo)
	return e.err()
}

// PropertyInfo checks a property added to an existing landlord.
func PropertyInfo(p api.PropertyInfoParam) error {
	e := Errors{}
	e.required("address", p.Address, msgBlank)
	e.propertyType(p.PropertyType)
	e.positive("leasePrice", p.LeasePrice, msgZero)
	e.positive("leasePeriod", int64(p.LeasePeriod), msgZero)
	e.date("startDate", p.StartDate, msgBlank)
	e.date("endDate", p.EndDate, msgBlank)
	e.flatNo(p.AdditionalInfo.FlatNo)
	return e.err()
}

// Tenant checks a tenant registration, including the landlord phone used to
// link the tenant to a landlord.
func Tenant(p api.TenantParam) error {
	e := Errors{}
	e.required("firstName", p.FirstName, msgBlank)
	e.required("gender", p.Gender, msgGender)
	e.date("dob", p.Dob, msgDob)
	e.phone("phone", p.Phone)
	e.optionalEmail("email", p.Email)
	if e.required("stateOfOrigin", p.StateOfOrigin, msgState) && !govalidator.IsIn(p.StateOfOrigin, States...) {
		e.add("stateOfOrigin", msgState)
	}
	e.required("nationality", p.Nationality, msgBlank)
	e.required("occupation", p.Occupation, msgBlank)
	e.required("maritalStatus", p.AdditionalInfo.MaritalStatus, msgStatus)
	e.required("address", p.Address, msgAddress)
	e.positive("rentFee", p.RentFee, msgRentFee)
	e.date("startDate", p.StartDate, msgStartDate)
	e.date("maturityDate", p.MaturityDate, msgStartDate)
	e.date("renewalDate", p.RenewalDate, msgStartDate)
	e.phone("landlordPhone", p.LandlordPhone)
	return e.err()
}

// RentInfo checks a rent agreement added to an existing tenant.
func RentInfo(p api.RentInfoParam) error {
	e := Errors{}
	e.required("address", p.Address, msgAddress)
	e.positive("rentFee", p.RentFee, msgRentFee)
	e.date("startDate", p.StartDate, msgStartDate)
	e.date("maturityDate", p.MaturityDate, msgStartDate)
	e.date("renewalDate", p.RenewalDate, msgStartDate)
	if e.required("landlordPhone", p.LandlordPhone, msgBlank) {
		e.phone("landlordPhone", p.LandlordPhone)
	}
	return e.err()
}

// LeaseEnd returns start plus leasePeriod years. ok is false when start does not parse.
func LeaseEnd(start string, leasePeriod int) (end string, ok bool) {
	t, err := time.Parse(api.DateLayout, start)
	if err != nil {
		return "", false
	}
	return t.AddDate(leasePeriod, 0, 0).Format(api.DateLayout), true
}

// RentDates returns the maturity and renewal dates of a rent agreement starting on start.
func RentDates(start string) (maturity, renewal string, ok bool) {
	t, err := time.Parse(api.DateLayout, start)
	if err != nil {
		return "", "", false
	}
	return t.AddDate(0, 0, MaturityDays).Format(api.DateLayout),
		t.AddDate(0, 0, RenewalDays).Format(api.DateLayout), true
}

// FillLandlord sets an omitted end date from the start date and lease period.
func FillLandlord(p *api.LandlordParam) {
	if p.EndDate == "" {
		if end, ok := LeaseEnd(p.StartDate, p.LeasePeriod); ok {
			p.EndDate = end
		}
	}
}

// FillProperty sets an omitted end date from the start date and lease period.
func FillProperty(p *api.PropertyInfoParam) {
	if p.EndDate == "" {
		if end, ok := LeaseEnd(p.StartDate, p.LeasePeriod); ok {
			p.EndDate = end
		}
	}
}

// FillTenant sets omitted maturity and renewal dates from the start date.
func FillTenant(p *api.TenantParam) {
	fillRent(p.StartDate, &p.MaturityDate, &p.RenewalDate)
}

// FillRentInfo sets omitted maturity and renewal dates from the start date.
func FillRentInfo(p *api.RentInfoParam) {
	fillRent(p.StartDate, &p.MaturityDate, &p.RenewalDate)
}

func fillRent(start string, maturity, renewal *string) {
	m, r, ok := RentDates(start)
	if !ok {
		return
	}
	if *maturity == "" {
		*maturity = m
	}
	if *renewal == "" {
		*renewal = r
	}
}
