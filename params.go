package sdconnector

import (
	"time"

	"github.com/google/uuid"
)

const (
	dateLayout = "2006-01-02"
	timeLayout = "15:04:05"
)

// A Field is one named value in a request. SD's schemas are order
// sensitive, so parameters are kept as a slice rather than a map.
type Field struct {
	Name  string
	Value string
}

// Params is the ordered parameter list sent as the children of a request
// element.
type Params []Field

func (p *Params) set(name, value string) {
	*p = append(*p, Field{Name: name, Value: value})
}

// setOpt skips empty values, matching the service's treatment of omitted
// optional elements.
func (p *Params) setOpt(name, value string) {
	if value == "" {
		return
	}
	p.set(name, value)
}

func (p *Params) setBool(name string, v bool) {
	if v {
		p.set(name, "true")
		return
	}
	p.set(name, "false")
}

// setIdentifier dispatches a value to either <prefix>UUIDIdentifier or
// <prefix>Identifier depending on whether it parses as a UUID.
func (p *Params) setIdentifier(prefix, value string) {
	if value == "" {
		return
	}
	if _, err := uuid.Parse(value); err == nil {
		p.set(prefix+"UUIDIdentifier", value)
		return
	}
	p.set(prefix+"Identifier", value)
}

// setDates writes an ActivationDate/DeactivationDate window, defaulting
// both ends to today.
func (p *Params) setDates(start, end time.Time) {
	if start.IsZero() {
		start = time.Now()
	}
	if end.IsZero() {
		end = time.Now()
	}
	p.set("ActivationDate", start.Format(dateLayout))
	p.set("DeactivationDate", end.Format(dateLayout))
}

// setDatetimes writes a window with separate date and time elements,
// defaulting to the whole of today.
func (p *Params) setDatetimes(start, end time.Time) {
	now := time.Now()
	if start.IsZero() {
		start = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	}
	if end.IsZero() {
		end = time.Date(now.Year(), now.Month(), now.Day(), 23, 59, 59, 0, now.Location())
	}
	p.set("ActivationDate", start.Format(dateLayout))
	p.set("ActivationTime", start.Format(timeLayout))
	p.set("DeactivationDate", end.Format(dateLayout))
	p.set("DeactivationTime", end.Format(timeLayout))
}

// Get returns the first value recorded under name.
func (p Params) Get(name string) (string, bool) {
	for _, f := range p {
		if f.Name == name {
			return f.Value, true
		}
	}
	return "", false
}

// Bool is a convenience for setting indicator overrides on queries.
func Bool(v bool) *bool { return &v }

// indicator resolves an optional flag against the endpoint's documented
// default.
func indicator(v *bool, def bool) bool {
	if v == nil {
		return def
	}
	return *v
}

func dateOrToday(t time.Time) string {
	if t.IsZero() {
		t = time.Now()
	}
	return t.Format(dateLayout)
}

// DepartmentQuery selects departments within an institution. Indicator
// fields left nil use the endpoint defaults; the name and UUID indicators
// default to on, the rest to off.
type DepartmentQuery struct {
	InstitutionIdentifier     string
	DepartmentIdentifier      string
	DepartmentLevelIdentifier string
	StartDate                 time.Time
	EndDate                   time.Time

	ContactInformation   *bool
	DepartmentName       *bool
	EmploymentDepartment *bool
	PostalAddress        *bool
	ProductionUnit       *bool
	UUID                 *bool
}

// Params renders the query for GetDepartment20111201.
func (q DepartmentQuery) Params() Params {
	var p Params
	p.setBool("ContactInformationIndicator", indicator(q.ContactInformation, false))
	p.setBool("DepartmentNameIndicator", indicator(q.DepartmentName, true))
	p.setBool("EmploymentDepartmentIndicator", indicator(q.EmploymentDepartment, false))
	p.setBool("PostalAddressIndicator", indicator(q.PostalAddress, false))
	p.setBool("ProductionUnitIndicator", indicator(q.ProductionUnit, false))
	p.setBool("UUIDIndicator", indicator(q.UUID, true))
	p.setIdentifier("Institution", q.InstitutionIdentifier)
	p.setIdentifier("Department", q.DepartmentIdentifier)
	p.setOpt("DepartmentLevelIdentifier", q.DepartmentLevelIdentifier)
	p.setDates(q.StartDate, q.EndDate)
	return p
}

// DepartmentParentQuery resolves the parent of a department known by UUID.
type DepartmentParentQuery struct {
	DepartmentUUIDIdentifier uuid.UUID
	EffectiveDate            time.Time
}

// Params renders the query for GetDepartmentParent20190701.
func (q DepartmentParentQuery) Params() Params {
	var p Params
	p.set("EffectiveDate", dateOrToday(q.EffectiveDate))
	p.set("DepartmentUUIDIdentifier", q.DepartmentUUIDIdentifier.String())
	return p
}

// InstitutionQuery selects institutions, optionally narrowed by region.
type InstitutionQuery struct {
	RegionIdentifier      string
	InstitutionIdentifier string

	Administration     *bool
	ContactInformation *bool
	PostalAddress      *bool
	ProductionUnit     *bool
	UUID               *bool
}

// Params renders the query for GetInstitution20111201.
func (q InstitutionQuery) Params() Params {
	var p Params
	p.setBool("AdministrationIndicator", indicator(q.Administration, false))
	p.setBool("ContactInformationIndicator", indicator(q.ContactInformation, false))
	p.setBool("PostalAddressIndicator", indicator(q.PostalAddress, false))
	p.setBool("ProductionUnitIndicator", indicator(q.ProductionUnit, false))
	p.setBool("UUIDIndicator", indicator(q.UUID, true))
	p.setIdentifier("Region", q.RegionIdentifier)
	p.setIdentifier("Institution", q.InstitutionIdentifier)
	return p
}

// OrganizationQuery selects the organization tree of an institution within
// a date window.
type OrganizationQuery struct {
	InstitutionIdentifier string
	StartDate             time.Time
	EndDate               time.Time

	UUID *bool
}

// Params renders the query for GetOrganization20111201.
func (q OrganizationQuery) Params() Params {
	var p Params
	p.setBool("UUIDIndicator", indicator(q.UUID, true))
	p.setIdentifier("Institution", q.InstitutionIdentifier)
	p.setDates(q.StartDate, q.EndDate)
	return p
}

// EmploymentQuery selects employments effective at a single date.
type EmploymentQuery struct {
	InstitutionIdentifier             string
	PersonCivilRegistrationIdentifier string
	EmploymentIdentifier              string
	DepartmentIdentifier              string
	DepartmentLevelIdentifier         string
	EffectiveDate                     time.Time

	StatusActive     *bool
	StatusPassive    *bool
	Department       *bool
	EmploymentStatus *bool
	Profession       *bool
	SalaryAgreement  *bool
	SalaryCodeGroup  *bool
	WorkingTime      *bool
	UUID             *bool
}

// Params renders the query for GetEmployment20111201.
func (q EmploymentQuery) Params() Params {
	var p Params
	p.set("InstitutionIdentifier", q.InstitutionIdentifier)
	p.setOpt("PersonCivilRegistrationIdentifier", q.PersonCivilRegistrationIdentifier)
	p.setOpt("EmploymentIdentifier", q.EmploymentIdentifier)
	p.setOpt("DepartmentIdentifier", q.DepartmentIdentifier)
	p.set("EffectiveDate", dateOrToday(q.EffectiveDate))
	p.setBool("StatusActiveIndicator", indicator(q.StatusActive, true))
	p.setBool("StatusPassiveIndicator", indicator(q.StatusPassive, false))
	p.setBool("DepartmentIndicator", indicator(q.Department, true))
	p.setBool("EmploymentStatusIndicator", indicator(q.EmploymentStatus, true))
	p.setBool("ProfessionIndicator", indicator(q.Profession, true))
	p.setBool("SalaryAgreementIndicator", indicator(q.SalaryAgreement, false))
	p.setBool("SalaryCodeGroupIndicator", indicator(q.SalaryCodeGroup, false))
	p.setBool("WorkingTimeIndicator", indicator(q.WorkingTime, false))
	p.setBool("UUIDIndicator", indicator(q.UUID, true))
	p.setOpt("DepartmentLevelIdentifier", q.DepartmentLevelIdentifier)
	return p
}

// EmploymentChangedQuery selects employments changed within a date window.
type EmploymentChangedQuery struct {
	InstitutionIdentifier             string
	PersonCivilRegistrationIdentifier string
	EmploymentIdentifier              string
	DepartmentIdentifier              string
	DepartmentLevelIdentifier         string
	StartDate                         time.Time
	EndDate                           time.Time

	Department       *bool
	EmploymentStatus *bool
	Profession       *bool
	SalaryAgreement  *bool
	SalaryCodeGroup  *bool
	WorkingTime      *bool
	UUID             *bool
}

// Params renders the query for GetEmploymentChanged20111201.
func (q EmploymentChangedQuery) Params() Params {
	var p Params
	p.set("InstitutionIdentifier", q.InstitutionIdentifier)
	p.setOpt("PersonCivilRegistrationIdentifier", q.PersonCivilRegistrationIdentifier)
	p.setOpt("EmploymentIdentifier", q.EmploymentIdentifier)
	p.setOpt("DepartmentIdentifier", q.DepartmentIdentifier)
	p.setBool("DepartmentIndicator", indicator(q.Department, true))
	p.setBool("EmploymentStatusIndicator", indicator(q.EmploymentStatus, true))
	p.setBool("ProfessionIndicator", indicator(q.Profession, true))
	p.setBool("SalaryAgreementIndicator", indicator(q.SalaryAgreement, false))
	p.setBool("SalaryCodeGroupIndicator", indicator(q.SalaryCodeGroup, false))
	p.setBool("WorkingTimeIndicator", indicator(q.WorkingTime, false))
	p.setBool("UUIDIndicator", indicator(q.UUID, true))
	p.setOpt("DepartmentLevelIdentifier", q.DepartmentLevelIdentifier)
	p.setDates(q.StartDate, q.EndDate)
	return p
}

// EmploymentChangedAtDateQuery selects employment changes registered within
// a datetime window, optionally including future-dated registrations.
type EmploymentChangedAtDateQuery struct {
	InstitutionIdentifier             string
	PersonCivilRegistrationIdentifier string
	EmploymentIdentifier              string
	DepartmentIdentifier              string
	DepartmentLevelIdentifier         string
	StartDateTime                     time.Time
	EndDateTime                       time.Time

	Department        *bool
	EmploymentStatus  *bool
	Profession        *bool
	SalaryAgreement   *bool
	SalaryCodeGroup   *bool
	WorkingTime       *bool
	UUID              *bool
	FutureInformation *bool
}

// Params renders the query for GetEmploymentChangedAtDate20111201.
func (q EmploymentChangedAtDateQuery) Params() Params {
	var p Params
	p.set("InstitutionIdentifier", q.InstitutionIdentifier)
	p.setOpt("PersonCivilRegistrationIdentifier", q.PersonCivilRegistrationIdentifier)
	p.setOpt("EmploymentIdentifier", q.EmploymentIdentifier)
	p.setOpt("DepartmentIdentifier", q.DepartmentIdentifier)
	p.setBool("DepartmentIndicator", indicator(q.Department, true))
	p.setBool("EmploymentStatusIndicator", indicator(q.EmploymentStatus, true))
	p.setBool("ProfessionIndicator", indicator(q.Profession, true))
	p.setBool("SalaryAgreementIndicator", indicator(q.SalaryAgreement, false))
	p.setBool("SalaryCodeGroupIndicator", indicator(q.SalaryCodeGroup, false))
	p.setBool("WorkingTimeIndicator", indicator(q.WorkingTime, false))
	p.setBool("UUIDIndicator", indicator(q.UUID, true))
	p.setBool("FutureInformationIndicator", indicator(q.FutureInformation, false))
	p.setOpt("DepartmentLevelIdentifier", q.DepartmentLevelIdentifier)
	p.setDatetimes(q.StartDateTime, q.EndDateTime)
	return p
}

// PersonQuery selects persons effective at a single date.
type PersonQuery struct {
	InstitutionIdentifier             string
	PersonCivilRegistrationIdentifier string
	EmploymentIdentifier              string
	DepartmentIdentifier              string
	DepartmentLevelIdentifier         string
	EffectiveDate                     time.Time

	StatusActive       *bool
	StatusPassive      *bool
	ContactInformation *bool
	PostalAddress      *bool
}

// Params renders the query for GetPerson20111201.
func (q PersonQuery) Params() Params {
	var p Params
	p.set("InstitutionIdentifier", q.InstitutionIdentifier)
	p.setOpt("PersonCivilRegistrationIdentifier", q.PersonCivilRegistrationIdentifier)
	p.setOpt("EmploymentIdentifier", q.EmploymentIdentifier)
	p.setOpt("DepartmentIdentifier", q.DepartmentIdentifier)
	p.set("EffectiveDate", dateOrToday(q.EffectiveDate))
	p.setBool("StatusActiveIndicator", indicator(q.StatusActive, true))
	p.setBool("StatusPassiveIndicator", indicator(q.StatusPassive, false))
	p.setBool("ContactInformationIndicator", indicator(q.ContactInformation, false))
	p.setBool("PostalAddressIndicator", indicator(q.PostalAddress, false))
	p.setOpt("DepartmentLevelIdentifier", q.DepartmentLevelIdentifier)
	return p
}

// PersonChangedAtDateQuery selects person changes registered within a
// datetime window.
type PersonChangedAtDateQuery struct {
	InstitutionIdentifier             string
	PersonCivilRegistrationIdentifier string
	EmploymentIdentifier              string
	DepartmentIdentifier              string
	DepartmentLevelIdentifier         string
	StartDateTime                     time.Time
	EndDateTime                       time.Time

	ContactInformation *bool
	PostalAddress      *bool
}

// Params renders the query for GetPersonChangedAtDate20111201.
func (q PersonChangedAtDateQuery) Params() Params {
	var p Params
	p.set("InstitutionIdentifier", q.InstitutionIdentifier)
	p.setOpt("PersonCivilRegistrationIdentifier", q.PersonCivilRegistrationIdentifier)
	p.setOpt("EmploymentIdentifier", q.EmploymentIdentifier)
	p.setOpt("DepartmentIdentifier", q.DepartmentIdentifier)
	p.setBool("ContactInformationIndicator", indicator(q.ContactInformation, false))
	p.setBool("PostalAddressIndicator", indicator(q.PostalAddress, false))
	p.setOpt("DepartmentLevelIdentifier", q.DepartmentLevelIdentifier)
	p.setDatetimes(q.StartDateTime, q.EndDateTime)
	return p
}

// ProfessionQuery selects the profession catalog of an institution.
type ProfessionQuery struct {
	InstitutionIdentifier string
	JobPositionIdentifier string
}

// Params renders the query for GetProfession20080201.
func (q ProfessionQuery) Params() Params {
	var p Params
	p.set("InstitutionIdentifier", q.InstitutionIdentifier)
	p.setOpt("JobPositionIdentifier", q.JobPositionIdentifier)
	return p
}
