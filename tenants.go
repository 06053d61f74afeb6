package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/rentdesk/cli/api"
	"github.com/rentdesk/cli/validate"
)

var tenantCommands = map[string]command{
	"list":     tenantsList,
	"get":      tenantsGet,
	"create":   tenantsCreate,
	"add-rent": tenantsAddRent,
	"delete":   tenantsDelete,
	"count":    tenantsCount,
	"export":   exportCommand("tenants", func(a *app) exporter { return a.client.Tenants() }),
}

var tenantHeaders = []string{"ID", "Name", "Phone", "Address", "Rent fee", "Matures", "Renewal"}

func tenantRow(t api.Tenant) []string {
	return []string{
		t.TenantID,
		fullName(t.FirstName, t.LastName),
		t.Phone,
		t.Address,
		formatMoney(t.RentFee),
		t.MaturityDate.String(),
		t.RenewalDate.String(),
	}
}

func tenantsList(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet("tenants list")
	lf := registerListFlags(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := a.ensureSession(ctx); err != nil {
		return err
	}
	a.display.Working("Fetching tenants")

	var rows [][]string
	more := false
	if *lf.all {
		err := a.client.Tenants().Each(ctx, lf.filter(), func(t api.Tenant) error {
			rows = append(rows, tenantRow(t))
			return nil
		})
		if err != nil {
			return err
		}
	} else {
		page, err := a.client.Tenants().List(ctx, lf.filter())
		if err != nil {
			return err
		}
		for _, t := range page.Data {
			rows = append(rows, tenantRow(t))
		}
		more = page.Metadata.HasNextPage
	}

	printList(a, tenantHeaders, rows, "tenants", *lf.page, more)
	return nil
}

func tenantsGet(ctx context.Context, a *app, args []string) error {
	id, err := parseWithID(newFlagSet("tenants get"), args)
	if err != nil {
		return err
	}
	if err := a.ensureSession(ctx); err != nil {
		return err
	}
	a.display.Working("Fetching tenant")

	d, err := a.client.Tenants().Get(ctx, id)
	if err != nil {
		return err
	}
	printTenant(ctx, a, d)
	a.display.Done(fullName(d.FirstName, d.LastName))
	return nil
}

func printTenant(ctx context.Context, a *app, d api.TenantDetail) {
	renderFields(a.out,
		[2]string{"ID", d.TenantID},
		[2]string{"Name", fullName(d.FirstName, d.LastName)},
		[2]string{"Gender", d.Gender},
		[2]string{"Born", d.Dob.String()},
		[2]string{"Phone", d.Phone},
		[2]string{"Email", d.Email},
		[2]string{"State of origin", d.StateOfOrigin},
		[2]string{"Nationality", d.Nationality},
		[2]string{"Occupation", d.Occupation},
		[2]string{"Marital status", d.AdditionalInfo.MaritalStatus},
		[2]string{"Employer", d.AdditionalInfo.Employer},
		[2]string{"Business", d.AdditionalInfo.BusinessName},
	)
	if len(d.RentInfo) == 0 {
		return
	}
	landlords := rentLandlords(ctx, a, d.RentInfo)
	rows := make([][]string, 0, len(d.RentInfo))
	for _, r := range d.RentInfo {
		landlord, property := r.LandlordID, ""
		if l, ok := landlords[r.LandlordID]; ok {
			landlord = fullName(l.FirstName, l.LastName) + " (" + l.Phone + ")"
			property = rentedProperty(l, r.Address)
		}
		rows = append(rows, []string{
			strconv.Itoa(r.RentInfoID),
			r.Address,
			property,
			formatMoney(r.RentFee),
			r.StartDate.String(),
			r.MaturityDate.String(),
			r.RenewalDate.String(),
			landlord,
		})
	}
	renderTable(a.out, []string{"#", "Address", "Property", "Rent fee", "Starts", "Matures", "Renewal", "Landlord"}, rows)
}

// rentLandlords fetches each distinct landlord of rents once. Failed lookups are
// left out and the agreement shows the bare landlord ID.
func rentLandlords(ctx context.Context, a *app, rents []api.RentInfo) map[string]api.LandlordDetail {
	found := make(map[string]api.LandlordDetail)
	tried := make(map[string]bool)
	for _, r := range rents {
		if r.LandlordID == "" || tried[r.LandlordID] {
			continue
		}
		tried[r.LandlordID] = true
		l, err := a.client.Landlords().Get(ctx, r.LandlordID)
		if err != nil {
			a.logger.Debug().Err(err).Str("landlord_id", r.LandlordID).Msg("landlord lookup failed")
			continue
		}
		found[r.LandlordID] = l
	}
	return found
}

// rentedProperty describes the landlord's property at address, or "" when none matches.
func rentedProperty(l api.LandlordDetail, address string) string {
	for _, p := range l.PropertyInfo {
		if !strings.EqualFold(strings.TrimSpace(p.Address), strings.TrimSpace(address)) {
			continue
		}
		if p.AdditionalInfo.FlatNo != "" {
			return api.PropertyTypeName(p.PropertyType) + ", flat " + string(p.AdditionalInfo.FlatNo)
		}
		return api.PropertyTypeName(p.PropertyType)
	}
	return ""
}

// resolveLandlord returns the ID of the landlord registered with phone.
func resolveLandlord(ctx context.Context, a *app, phone string) (string, error) {
	l, err := a.client.Landlords().FindByPhone(ctx, phone)
	if err != nil {
		return "", fmt.Errorf("landlord phone %s: %w", phone, err)
	}
	a.logger.Debug().Str("landlord_id", l.LandlordID).Msg("resolved landlord")
	return l.LandlordID, nil
}

func tenantsCreate(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet("tenants create")
	p := api.TenantParam{}
	fs.StringVar(&p.FirstName, "first-name", "", "first name")
	fs.StringVar(&p.LastName, "last-name", "", "last name")
	fs.StringVar(&p.Gender, "gender", "", "gender")
	fs.StringVar(&p.Dob, "dob", "", "date of birth, YYYY-MM-DD")
	fs.StringVar(&p.Email, "email", "", "email address")
	fs.StringVar(&p.Phone, "phone", "", "11-digit phone number")
	fs.StringVar(&p.StateOfOrigin, "state", "", "state of origin")
	fs.StringVar(&p.Nationality, "nationality", "", "nationality")
	fs.StringVar(&p.Occupation, "occupation", "", "occupation")
	fs.StringVar(&p.AdditionalInfo.MaritalStatus, "marital-status", "", "marital status")
	fs.StringVar(&p.AdditionalInfo.Employer, "employer", "", "employer")
	fs.StringVar(&p.AdditionalInfo.OfficeAddress, "office-address", "", "office address")
	fs.StringVar(&p.AdditionalInfo.BusinessName, "business-name", "", "business name")
	fs.StringVar(&p.AdditionalInfo.BusinessAddress, "business-address", "", "business address")
	fs.StringVar(&p.AdditionalInfo.BusinessVenture, "business-venture", "", "business venture")
	fs.StringVar(&p.AdditionalInfo.NoOfChildren, "children", "", "number of children")
	fs.StringVar(&p.Address, "address", "", "rented property address")
	fs.Int64Var(&p.RentFee, "rent-fee", 0, "rent fee in naira")
	fs.StringVar(&p.StartDate, "start-date", "", "rent start, YYYY-MM-DD")
	fs.StringVar(&p.MaturityDate, "maturity-date", "", "rent maturity (default: start plus 334 days)")
	fs.StringVar(&p.RenewalDate, "renewal-date", "", "rent renewal (default: start plus 364 days)")
	fs.StringVar(&p.LandlordPhone, "landlord-phone", "", "phone of the landlord who owns the property")
	if err := fs.Parse(args); err != nil {
		return err
	}

	validate.FillTenant(&p)
	if err := validate.Tenant(p); err != nil {
		return err
	}
	if err := a.ensureSession(ctx); err != nil {
		return err
	}
	a.display.Working("Registering tenant")

	landlordID, err := resolveLandlord(ctx, a, p.LandlordPhone)
	if err != nil {
		return err
	}
	p.LandlordID = landlordID

	t, err := a.client.Tenants().Create(ctx, p)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Created tenant %s\n", t.TenantID)
	a.display.Done("Created " + fullName(t.FirstName, t.LastName))
	return nil
}

func tenantsAddRent(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet("tenants add-rent")
	p := api.RentInfoParam{}
	fs.StringVar(&p.Address, "address", "", "rented property address")
	fs.Int64Var(&p.RentFee, "rent-fee", 0, "rent fee in naira")
	fs.StringVar(&p.StartDate, "start-date", "", "rent start, YYYY-MM-DD")
	fs.StringVar(&p.MaturityDate, "maturity-date", "", "rent maturity (default: start plus 334 days)")
	fs.StringVar(&p.RenewalDate, "renewal-date", "", "rent renewal (default: start plus 364 days)")
	fs.StringVar(&p.LandlordPhone, "landlord-phone", "", "phone of the landlord who owns the property")
	id, err := parseWithID(fs, args)
	if err != nil {
		return err
	}

	validate.FillRentInfo(&p)
	if err := validate.RentInfo(p); err != nil {
		return err
	}
	if err := a.ensureSession(ctx); err != nil {
		return err
	}
	a.display.Working("Adding rent")

	landlordID, err := resolveLandlord(ctx, a, p.LandlordPhone)
	if err != nil {
		return err
	}
	p.LandlordID = landlordID

	d, err := a.client.Tenants().AddRent(ctx, id, p)
	if err != nil {
		return err
	}
	printTenant(ctx, a, d)
	a.display.Done("Rent added")
	return nil
}

func tenantsDelete(ctx context.Context, a *app, args []string) error {
	id, err := parseWithID(newFlagSet("tenants delete"), args)
	if err != nil {
		return err
	}
	if err := a.ensureSession(ctx); err != nil {
		return err
	}
	a.display.Working("Deleting tenant")

	if err := a.client.Tenants().Delete(ctx, id); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Deleted tenant %s\n", id)
	a.display.Done("Deleted")
	return nil
}

func tenantsCount(ctx context.Context, a *app, args []string) error {
	if err := newFlagSet("tenants count").Parse(args); err != nil {
		return err
	}
	if err := a.ensureSession(ctx); err != nil {
		return err
	}
	n, err := a.client.Tenants().Count(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, n)
	a.display.Done(formatCount(n) + " tenants")
	return nil
}
