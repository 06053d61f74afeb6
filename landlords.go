package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"strconv"

	"github.com/rentdesk/cli/api"
	"github.com/rentdesk/cli/validate"
)

var landlordCommands = map[string]command{
	"list":         landlordsList,
	"get":          landlordsGet,
	"create":       landlordsCreate,
	"add-property": landlordsAddProperty,
	"delete":       landlordsDelete,
	"count":        landlordsCount,
	"export":       exportCommand("landlords", func(a *app) exporter { return a.client.Landlords() }),
}

// listFlags are shared by the list subcommands.
type listFlags struct {
	page    *int
	all     *bool
	name    *string
	phone   *string
	address *string
}

func registerListFlags(fs *flag.FlagSet) listFlags {
	return listFlags{
		page:    fs.Int("page", 1, "page to fetch"),
		all:     fs.Bool("all", false, "fetch every page from -page onwards"),
		name:    fs.String("name", "", "filter by first name"),
		phone:   fs.String("phone", "", "filter by phone"),
		address: fs.String("address", "", "filter by address"),
	}
}

func (f listFlags) filter() api.ListFilter {
	return api.ListFilter{Page: *f.page, FirstName: *f.name, Phone: *f.phone, Address: *f.address}
}

var landlordHeaders = []string{"ID", "Name", "Phone", "Address", "Type", "Lease price", "Lease ends"}

func landlordRow(l api.Landlord) []string {
	return []string{
		l.LandlordID,
		fullName(l.FirstName, l.LastName),
		l.Phone,
		l.Address,
		api.PropertyTypeName(l.PropertyType),
		formatMoney(l.LeasePrice),
		l.EndDate.String(),
	}
}

func landlordsList(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet("landlords list")
	lf := registerListFlags(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := a.ensureSession(ctx); err != nil {
		return err
	}
	a.display.Working("Fetching landlords")

	var rows [][]string
	more := false
	if *lf.all {
		err := a.client.Landlords().Each(ctx, lf.filter(), func(l api.Landlord) error {
			rows = append(rows, landlordRow(l))
			return nil
		})
		if err != nil {
			return err
		}
	} else {
		page, err := a.client.Landlords().List(ctx, lf.filter())
		if err != nil {
			return err
		}
		for _, l := range page.Data {
			rows = append(rows, landlordRow(l))
		}
		more = page.Metadata.HasNextPage
	}

	printList(a, landlordHeaders, rows, "landlords", *lf.page, more)
	return nil
}

// printList renders a list result and the hint for the next page.
func printList(a *app, headers []string, rows [][]string, noun string, page int, more bool) {
	if len(rows) == 0 {
		fmt.Fprintf(a.out, "No %s found\n", noun)
		a.display.Done("")
		return
	}
	renderTable(a.out, headers, rows)
	if more {
		fmt.Fprintf(a.out, "More results: rerun with -page %d\n", max(page, 1)+1)
	}
	a.display.Done(fmt.Sprintf("%d %s", len(rows), noun))
}

func landlordsGet(ctx context.Context, a *app, args []string) error {
	id, err := parseWithID(newFlagSet("landlords get"), args)
	if err != nil {
		return err
	}
	if err := a.ensureSession(ctx); err != nil {
		return err
	}
	a.display.Working("Fetching landlord")

	d, err := a.client.Landlords().Get(ctx, id)
	if err != nil {
		return err
	}
	printLandlord(a, d)
	a.display.Done(fullName(d.FirstName, d.LastName))
	return nil
}

func printLandlord(a *app, d api.LandlordDetail) {
	renderFields(a.out,
		[2]string{"ID", d.LandlordID},
		[2]string{"Name", fullName(d.FirstName, d.LastName)},
		[2]string{"Phone", d.Phone},
		[2]string{"Email", d.Email},
		[2]string{"Registered", d.CreatedAt.String()},
	)
	if len(d.PropertyInfo) == 0 {
		return
	}
	rows := make([][]string, 0, len(d.PropertyInfo))
	for _, p := range d.PropertyInfo {
		rows = append(rows, []string{
			p.Address,
			string(p.AdditionalInfo.FlatNo),
			api.PropertyTypeName(p.PropertyType),
			formatMoney(p.LeasePrice),
			strconv.Itoa(p.LeasePeriod),
			p.StartDate.String(),
			p.EndDate.String(),
		})
	}
	renderTable(a.out, []string{"Address", "Flat", "Type", "Lease price", "Years", "Starts", "Ends"}, rows)
}

// propertyFlags are the property fields shared by create and add-property.
type propertyFlags struct {
	address      *string
	propertyType *int
	leasePrice   *int64
	leasePeriod  *int
	startDate    *string
	endDate      *string
	flatNo       *string
}

func registerPropertyFlags(fs *flag.FlagSet) propertyFlags {
	return propertyFlags{
		address:      fs.String("address", "", "property address"),
		propertyType: fs.Int("property-type", 0, "property type, 1-8"),
		leasePrice:   fs.Int64("lease-price", 0, "lease price in naira"),
		leasePeriod:  fs.Int("lease-period", 0, "lease period in years"),
		startDate:    fs.String("start-date", "", "lease start, YYYY-MM-DD"),
		endDate:      fs.String("end-date", "", "lease end, YYYY-MM-DD (default: start plus lease period)"),
		flatNo:       fs.String("flat-no", "", "flat number"),
	}
}

func landlordsCreate(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet("landlords create")
	firstName := fs.String("first-name", "", "first name")
	lastName := fs.String("last-name", "", "last name")
	phone := fs.String("phone", "", "11-digit phone number")
	email := fs.String("email", "", "email address")
	pf := registerPropertyFlags(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}

	p := api.LandlordParam{
		FirstName:      *firstName,
		LastName:       *lastName,
		Phone:          *phone,
		Email:          *email,
		Address:        *pf.address,
		PropertyType:   *pf.propertyType,
		AdditionalInfo: api.PropertyAdditionalInfo{FlatNo: json.Number(*pf.flatNo)},
		LeasePrice:     *pf.leasePrice,
		LeasePeriod:    *pf.leasePeriod,
		StartDate:      *pf.startDate,
		EndDate:        *pf.endDate,
	}
	validate.FillLandlord(&p)
	if err := validate.Landlord(p); err != nil {
		return err
	}
	if err := a.ensureSession(ctx); err != nil {
		return err
	}
	a.display.Working("Registering landlord")

	l, err := a.client.Landlords().Create(ctx, p)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Created landlord %s\n", l.LandlordID)
	a.display.Done("Created " + fullName(l.FirstName, l.LastName))
	return nil
}

func landlordsAddProperty(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet("landlords add-property")
	pf := registerPropertyFlags(fs)
	id, err := parseWithID(fs, args)
	if err != nil {
		return err
	}

	p := api.PropertyInfoParam{
		Address:        *pf.address,
		PropertyType:   *pf.propertyType,
		LeasePrice:     *pf.leasePrice,
		LeasePeriod:    *pf.leasePeriod,
		StartDate:      *pf.startDate,
		EndDate:        *pf.endDate,
		AdditionalInfo: api.PropertyAdditionalInfo{FlatNo: json.Number(*pf.flatNo)},
	}
	validate.FillProperty(&p)
	if err := validate.PropertyInfo(p); err != nil {
		return err
	}
	if err := a.ensureSession(ctx); err != nil {
		return err
	}
	a.display.Working("Adding property")

	d, err := a.client.Landlords().AddProperty(ctx, id, p)
	if err != nil {
		return err
	}
	printLandlord(a, d)
	a.display.Done("Property added")
	return nil
}

func landlordsDelete(ctx context.Context, a *app, args []string) error {
	id, err := parseWithID(newFlagSet("landlords delete"), args)
	if err != nil {
		return err
	}
	if err := a.ensureSession(ctx); err != nil {
		return err
	}
	a.display.Working("Deleting landlord")

	if err := a.client.Landlords().Delete(ctx, id); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Deleted landlord %s\n", id)
	a.display.Done("Deleted")
	return nil
}

func landlordsCount(ctx context.Context, a *app, args []string) error {
	if err := newFlagSet("landlords count").Parse(args); err != nil {
		return err
	}
	if err := a.ensureSession(ctx); err != nil {
		return err
	}
	n, err := a.client.Landlords().Count(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, n)
	a.display.Done(formatCount(n) + " landlords")
	return nil
}
