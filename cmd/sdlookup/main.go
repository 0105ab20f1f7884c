// Command sdlookup queries one SD endpoint and prints the response XML.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"syscall"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	sdconnector "github.com/OS2mo/OS2mo-sd-connector"
)

var (
	institutionIdentifier     string
	institutionUUIDIdentifier string
	departmentIdentifier      string
	username                  string
	password                  string
	endpoint                  string
	verbose                   bool
)

func main() {
	cmd := &cobra.Command{
		Use:   "sdlookup [operation]",
		Short: "Query the SD Løn web services",
		Long: `Query the SD Løn web services and print the response XML.

Operations: organization (default), department, department-parent,
institution, employment, employment-changed, person, person-changed,
profession.`,
		Args: cobra.MaximumNArgs(1),
		RunE: run,

		SilenceUsage: true,
	}

	cmd.Flags().StringVar(&institutionIdentifier, "institution-identifier", "", "Identifier for the SD institution")
	cmd.Flags().StringVar(&institutionUUIDIdentifier, "institution-uuid-identifier", "", "UUID identifier for the SD institution")
	cmd.Flags().StringVar(&departmentIdentifier, "department-identifier", "", "Department identifier or UUID, where the operation takes one")
	cmd.Flags().StringVar(&username, "username", "", "SD username")
	cmd.Flags().StringVar(&password, "password", "", "SD password (prompted, or taken from SD_PASSWORD, when omitted)")
	cmd.Flags().StringVar(&endpoint, "endpoint", "", "Service URL, defaults to the SD production service")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")
	cmd.MarkFlagRequired("username")

	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	institution, err := resolveInstitution()
	if err != nil {
		return err
	}
	if err := resolvePassword(); err != nil {
		return err
	}

	logger := logrus.New()
	if verbose {
		logger.SetLevel(logrus.DebugLevel)
	}

	opts := []sdconnector.Option{sdconnector.WithLogger(logger)}
	if endpoint != "" {
		opts = append(opts, sdconnector.WithEndpoint(endpoint))
	}
	sd, err := sdconnector.New(institution, username, password, opts...)
	if err != nil {
		return err
	}
	defer sd.Close()

	name := "organization"
	if len(args) == 1 {
		name = args[0]
	}
	operation, params, err := buildQuery(name, institution)
	if err != nil {
		return err
	}

	doc, err := sd.Call(context.Background(), operation, params)
	if err != nil {
		return err
	}
	doc.Indent(2)
	_, err = doc.WriteTo(os.Stdout)
	return err
}

func resolveInstitution() (string, error) {
	if institutionIdentifier == "" && institutionUUIDIdentifier == "" {
		return "", errors.New("one of --institution-identifier or --institution-uuid-identifier must be set")
	}
	if institutionIdentifier != "" && institutionUUIDIdentifier != "" {
		return "", errors.New("only one of --institution-identifier or --institution-uuid-identifier must be set")
	}
	if institutionUUIDIdentifier != "" {
		if _, err := uuid.Parse(institutionUUIDIdentifier); err != nil {
			return "", fmt.Errorf("--institution-uuid-identifier: %w", err)
		}
		return institutionUUIDIdentifier, nil
	}
	return institutionIdentifier, nil
}

func resolvePassword() error {
	if password != "" {
		return nil
	}
	if env := os.Getenv("SD_PASSWORD"); env != "" {
		password = env
		return nil
	}
	fmt.Fprint(os.Stderr, "Password: ")
	secret, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return fmt.Errorf("reading password: %w", err)
	}
	password = string(secret)
	return nil
}

func buildQuery(name, institution string) (string, sdconnector.Params, error) {
	switch name {
	case "organization":
		return sdconnector.OpGetOrganization,
			sdconnector.OrganizationQuery{InstitutionIdentifier: institution}.Params(), nil
	case "department":
		return sdconnector.OpGetDepartment,
			sdconnector.DepartmentQuery{
				InstitutionIdentifier: institution,
				DepartmentIdentifier:  departmentIdentifier,
			}.Params(), nil
	case "department-parent":
		id, err := uuid.Parse(departmentIdentifier)
		if err != nil {
			return "", nil, fmt.Errorf("department-parent needs --department-identifier set to a UUID: %w", err)
		}
		return sdconnector.OpGetDepartmentParent,
			sdconnector.DepartmentParentQuery{DepartmentUUIDIdentifier: id}.Params(), nil
	case "institution":
		return sdconnector.OpGetInstitution,
			sdconnector.InstitutionQuery{InstitutionIdentifier: institution}.Params(), nil
	case "employment":
		return sdconnector.OpGetEmployment,
			sdconnector.EmploymentQuery{
				InstitutionIdentifier: institution,
				DepartmentIdentifier:  departmentIdentifier,
			}.Params(), nil
	case "employment-changed":
		return sdconnector.OpGetEmploymentChanged,
			sdconnector.EmploymentChangedQuery{
				InstitutionIdentifier: institution,
				DepartmentIdentifier:  departmentIdentifier,
			}.Params(), nil
	case "person":
		return sdconnector.OpGetPerson,
			sdconnector.PersonQuery{
				InstitutionIdentifier: institution,
				DepartmentIdentifier:  departmentIdentifier,
			}.Params(), nil
	case "person-changed":
		return sdconnector.OpGetPersonChangedAtDate,
			sdconnector.PersonChangedAtDateQuery{
				InstitutionIdentifier: institution,
				DepartmentIdentifier:  departmentIdentifier,
			}.Params(), nil
	case "profession":
		return sdconnector.OpGetProfession,
			sdconnector.ProfessionQuery{InstitutionIdentifier: institution}.Params(), nil
	}
	return "", nil, fmt.Errorf("unknown operation %q", name)
}
