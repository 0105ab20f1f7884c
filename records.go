package sdconnector

import (
	"time"

	"github.com/beevik/etree"
)

// Validity is the activation window SD attaches to most records. Ends the
// service leaves open stay at their zero value.
type Validity struct {
	From time.Time
	To   time.Time
}

func decodeValidity(el *etree.Element) Validity {
	parse := func(s string) time.Time {
		if s == "" {
			return time.Time{}
		}
		t, err := time.Parse(dateLayout, s)
		if err != nil {
			return time.Time{}
		}
		return t
	}
	return Validity{
		From: parse(childText(el, "ActivationDate")),
		To:   parse(childText(el, "DeactivationDate")),
	}
}

// An Organization is the result of an organization lookup: the institution
// it belongs to and the name of its department structure.
type Organization struct {
	RegionIdentifier          string
	RegionUUIDIdentifier      string
	InstitutionIdentifier     string
	InstitutionUUIDIdentifier string
	DepartmentStructureName   string
	Validity                  Validity

	raw *etree.Element
}

// Elem exposes the source element for fields the typed record leaves out.
func (o *Organization) Elem() *etree.Element { return o.raw }

func decodeOrganization(doc *etree.Document, operation string) (*Organization, error) {
	el, err := payloadElement(doc, operation)
	if err != nil {
		return nil, &ResponseParseError{Operation: operation, Err: err}
	}
	org := &Organization{
		RegionIdentifier:          childText(el, "RegionIdentifier"),
		RegionUUIDIdentifier:      childText(el, "RegionUUIDIdentifier"),
		InstitutionIdentifier:     childText(el, "InstitutionIdentifier"),
		InstitutionUUIDIdentifier: childText(el, "InstitutionUUIDIdentifier"),
		DepartmentStructureName:   childText(el, "DepartmentStructureName"),
		raw:                       el,
	}
	if inner := childByLocal(el, "Organization"); inner != nil {
		org.Validity = decodeValidity(inner)
	} else {
		org.Validity = decodeValidity(el)
	}
	return org, nil
}

// A Department is one unit of an institution's organization tree.
type Department struct {
	Identifier      string
	UUIDIdentifier  string
	Name            string
	LevelIdentifier string
	Validity        Validity

	raw *etree.Element
}

// Elem exposes the source element for fields the typed record leaves out.
func (d *Department) Elem() *etree.Element { return d.raw }

func decodeDepartments(doc *etree.Document, operation string) ([]Department, error) {
	el, err := payloadElement(doc, operation)
	if err != nil {
		return nil, &ResponseParseError{Operation: operation, Err: err}
	}
	var departments []Department
	for _, dep := range collectByLocal(el, "Department") {
		departments = append(departments, Department{
			Identifier:      childText(dep, "DepartmentIdentifier"),
			UUIDIdentifier:  childText(dep, "DepartmentUUIDIdentifier"),
			Name:            childText(dep, "DepartmentName"),
			LevelIdentifier: childText(dep, "DepartmentLevelIdentifier"),
			Validity:        decodeValidity(dep),
			raw:             dep,
		})
	}
	return departments, nil
}

// A DepartmentParent names the department directly above the queried one.
type DepartmentParent struct {
	DepartmentUUIDIdentifier string
	DepartmentIdentifier     string

	raw *etree.Element
}

// Elem exposes the source element for fields the typed record leaves out.
func (d *DepartmentParent) Elem() *etree.Element { return d.raw }

func decodeDepartmentParent(doc *etree.Document, operation string) (*DepartmentParent, error) {
	el, err := payloadElement(doc, operation)
	if err != nil {
		return nil, &ResponseParseError{Operation: operation, Err: err}
	}
	parent := el
	if inner := childByLocal(el, "DepartmentParent"); inner != nil {
		parent = inner
	}
	return &DepartmentParent{
		DepartmentUUIDIdentifier: childText(parent, "DepartmentUUIDIdentifier"),
		DepartmentIdentifier:     childText(parent, "DepartmentIdentifier"),
		raw:                      parent,
	}, nil
}

// An Institution is one SD customer within a region.
type Institution struct {
	Identifier       string
	UUIDIdentifier   string
	Name             string
	RegionIdentifier string

	raw *etree.Element
}

// Elem exposes the source element for fields the typed record leaves out.
func (i *Institution) Elem() *etree.Element { return i.raw }

func decodeInstitutions(doc *etree.Document, operation string) ([]Institution, error) {
	el, err := payloadElement(doc, operation)
	if err != nil {
		return nil, &ResponseParseError{Operation: operation, Err: err}
	}
	var institutions []Institution
	for _, region := range collectByLocal(el, "Region") {
		regionID := childText(region, "RegionIdentifier")
		for _, inst := range collectByLocal(region, "Institution") {
			institutions = append(institutions, Institution{
				Identifier:       childText(inst, "InstitutionIdentifier"),
				UUIDIdentifier:   childText(inst, "InstitutionUUIDIdentifier"),
				Name:             childText(inst, "InstitutionName"),
				RegionIdentifier: regionID,
				raw:              inst,
			})
		}
	}
	// Some responses skip the Region wrapper.
	if len(institutions) == 0 {
		for _, inst := range collectByLocal(el, "Institution") {
			institutions = append(institutions, Institution{
				Identifier:     childText(inst, "InstitutionIdentifier"),
				UUIDIdentifier: childText(inst, "InstitutionUUIDIdentifier"),
				Name:           childText(inst, "InstitutionName"),
				raw:            inst,
			})
		}
	}
	return institutions, nil
}

// An Employment ties a person to a department and profession. Fields whose
// indicator was off in the query stay empty.
type Employment struct {
	PersonCivilRegistrationIdentifier string
	Identifier                        string
	UUIDIdentifier                    string
	StartDate                         time.Time
	DepartmentIdentifier              string
	DepartmentUUIDIdentifier          string
	JobPositionIdentifier             string
	ProfessionName                    string
	StatusCode                        string

	raw *etree.Element
}

// Elem exposes the source element for fields the typed record leaves out.
func (e *Employment) Elem() *etree.Element { return e.raw }

func decodeEmployment(el *etree.Element, cpr string) Employment {
	emp := Employment{
		PersonCivilRegistrationIdentifier: cpr,
		Identifier:                        childText(el, "EmploymentIdentifier"),
		UUIDIdentifier:                    childText(el, "EmploymentUUIDIdentifier"),
		raw:                               el,
	}
	if s := childText(el, "EmploymentDate"); s != "" {
		if t, err := time.Parse(dateLayout, s); err == nil {
			emp.StartDate = t
		}
	}

	dep := el
	if inner := childByLocal(el, "EmploymentDepartment"); inner != nil {
		dep = inner
	}
	emp.DepartmentIdentifier = childText(dep, "DepartmentIdentifier")
	emp.DepartmentUUIDIdentifier = childText(dep, "DepartmentUUIDIdentifier")

	if prof := childByLocal(el, "Profession"); prof != nil {
		emp.JobPositionIdentifier = childText(prof, "JobPositionIdentifier")
		emp.ProfessionName = childText(prof, "EmploymentName")
	}
	if status := childByLocal(el, "EmploymentStatus"); status != nil {
		emp.StatusCode = childText(status, "EmploymentStatusCode")
	}
	return emp
}

func decodeEmployments(doc *etree.Document, operation string) ([]Employment, error) {
	el, err := payloadElement(doc, operation)
	if err != nil {
		return nil, &ResponseParseError{Operation: operation, Err: err}
	}
	var employments []Employment
	for _, person := range collectByLocal(el, "Person") {
		cpr := childText(person, "PersonCivilRegistrationIdentifier")
		for _, emp := range collectByLocal(person, "Employment") {
			employments = append(employments, decodeEmployment(emp, cpr))
		}
	}
	return employments, nil
}

// A Person is an employee record, with the identifiers of their current
// employments.
type Person struct {
	CivilRegistrationIdentifier string
	GivenName                   string
	SurName                     string
	EmploymentIdentifiers       []string

	raw *etree.Element
}

// Elem exposes the source element for fields the typed record leaves out.
func (p *Person) Elem() *etree.Element { return p.raw }

func decodePersons(doc *etree.Document, operation string) ([]Person, error) {
	el, err := payloadElement(doc, operation)
	if err != nil {
		return nil, &ResponseParseError{Operation: operation, Err: err}
	}
	var persons []Person
	for _, personEl := range collectByLocal(el, "Person") {
		person := Person{
			CivilRegistrationIdentifier: childText(personEl, "PersonCivilRegistrationIdentifier"),
			GivenName:                   childText(personEl, "PersonGivenName"),
			SurName:                     childText(personEl, "PersonSurnameName"),
			raw:                         personEl,
		}
		for _, emp := range collectByLocal(personEl, "Employment") {
			if id := childText(emp, "EmploymentIdentifier"); id != "" {
				person.EmploymentIdentifiers = append(person.EmploymentIdentifiers, id)
			}
		}
		persons = append(persons, person)
	}
	return persons, nil
}

// A Profession is one entry of an institution's job position catalog.
type Profession struct {
	JobPositionIdentifier string
	JobPositionName       string

	raw *etree.Element
}

// Elem exposes the source element for fields the typed record leaves out.
func (p *Profession) Elem() *etree.Element { return p.raw }

func decodeProfessions(doc *etree.Document, operation string) ([]Profession, error) {
	el, err := payloadElement(doc, operation)
	if err != nil {
		return nil, &ResponseParseError{Operation: operation, Err: err}
	}
	var professions []Profession
	for _, prof := range collectByLocal(el, "Profession") {
		professions = append(professions, Profession{
			JobPositionIdentifier: childText(prof, "JobPositionIdentifier"),
			JobPositionName:       childText(prof, "JobPositionName"),
			raw:                   prof,
		})
	}
	return professions, nil
}
