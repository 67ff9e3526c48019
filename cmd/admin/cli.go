package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"golang.org/x/term"

	"github.com/vietanh2810/school-portal-api/internal/api/handler/v1/request"
	"github.com/vietanh2810/school-portal-api/internal/domain"
	"github.com/vietanh2810/school-portal-api/internal/report"
	"github.com/vietanh2810/school-portal-api/internal/service"
)

var (
	readPasswordFunc = term.ReadPassword // mockable
	createFileFunc   = func(name string) (io.WriteCloser, error) { return os.Create(name) }

	errHelp = errors.New("help provided")
)

type adminAccounts interface {
	CreateAdmin(ctx context.Context, admin domain.Admin) (domain.Admin, error)
	ResetPassword(ctx context.Context, email, password string) error
}

type cardGenerator interface {
	Generate(ctx context.Context, req service.GenerateCardsRequest) ([]domain.ScratchCard, error)
}

type broadsheetSource interface {
	Broadsheet(ctx context.Context, className, session string, term domain.Term) ([]domain.Result, error)
}

type commandLine struct {
	admins  adminAccounts
	cards   cardGenerator
	results broadsheetSource
	migrate func() error
	out     io.Writer
	now     func() time.Time
}

func (cli *commandLine) printUsage() {
	fmt.Fprintln(cli.out, "Usage:")
	fmt.Fprintln(cli.out, "  createadmin -email EMAIL -name NAME [-super] - create an administrator, the password is prompted")
	fmt.Fprintln(cli.out, "  resetpassword -email EMAIL - reset an administrator's password")
	fmt.Fprintln(cli.out, "  migrate - create or update the database tables")
	fmt.Fprintln(cli.out, "  generatecards -count N [-limit N] -expires YYYY-MM-DD [-out FILE.xlsx] - generate scratch cards")
	fmt.Fprintln(cli.out, "  broadsheet -class CLASS -session YYYY/YYYY -term TERM [-out FILE.xlsx] - print a class broadsheet")
}

func (cli *commandLine) run(ctx context.Context, args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	createAdminCmd := flag.NewFlagSet("createadmin", flag.ContinueOnError)
	createAdminEmail := createAdminCmd.String("email", "", "The administrator's e-mail. The password will be prompted next.")
	createAdminName := createAdminCmd.String("name", "", "The administrator's display name.")
	createAdminSuper := createAdminCmd.Bool("super", false, "Create a super administrator.")

	resetPasswordCmd := flag.NewFlagSet("resetpassword", flag.ContinueOnError)
	resetPasswordEmail := resetPasswordCmd.String("email", "", "The administrator's e-mail. The password will be prompted next.")

	generateCmd := flag.NewFlagSet("generatecards", flag.ContinueOnError)
	generateCount := generateCmd.Int("count", 0, "Number of cards to generate (1-500).")
	generateLimit := generateCmd.Int("limit", service.DefaultCardUsageLimit, "Result checks allowed per card.")
	generateExpires := generateCmd.String("expires", "", "Last day the cards can be used, YYYY-MM-DD.")
	generateOut := generateCmd.String("out", "", "Also write the cards to this Excel file.")

	broadsheetCmd := flag.NewFlagSet("broadsheet", flag.ContinueOnError)
	broadsheetClass := broadsheetCmd.String("class", "", "Class name, e.g. \"JSS 1A\".")
	broadsheetSession := broadsheetCmd.String("session", "", "Academic session, e.g. 2024/2025.")
	broadsheetTerm := broadsheetCmd.String("term", "", "First Term, Second Term or Third Term.")
	broadsheetOut := broadsheetCmd.String("out", "", "Also write the broadsheet to this Excel file.")

	for _, fs := range []*flag.FlagSet{createAdminCmd, resetPasswordCmd, generateCmd, broadsheetCmd} {
		fs.SetOutput(cli.out)
	}

	switch args[1] {
	case "createadmin":
		if err := createAdminCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *createAdminEmail == "" || *createAdminName == "" {
			createAdminCmd.Usage()
			return errHelp
		}
		pwd, err := cli.readPassword()
		if err != nil {
			return err
		}
		role := domain.RoleAdmin
		if *createAdminSuper {
			role = domain.RoleSuperAdmin
		}
		return cli.createAdmin(ctx, domain.Admin{Name: *createAdminName, Email: *createAdminEmail, Password: pwd, Role: role})
	case "resetpassword":
		if err := resetPasswordCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *resetPasswordEmail == "" {
			resetPasswordCmd.Usage()
			return errHelp
		}
		pwd, err := cli.readPassword()
		if err != nil {
			return err
		}
		return cli.resetPassword(ctx, *resetPasswordEmail, pwd)
	case "migrate":
		if err := cli.migrate(); err != nil {
			return fmt.Errorf("migrate -> %w", err)
		}
		color.New(color.FgGreen).Fprintln(cli.out, "Database is up to date.")
		return nil
	case "generatecards":
		if err := generateCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *generateCount == 0 || *generateExpires == "" {
			generateCmd.Usage()
			return errHelp
		}
		return cli.generateCards(ctx, *generateCount, *generateLimit, *generateExpires, *generateOut)
	case "broadsheet":
		if err := broadsheetCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *broadsheetClass == "" || *broadsheetSession == "" || *broadsheetTerm == "" {
			broadsheetCmd.Usage()
			return errHelp
		}
		return cli.broadsheet(ctx, *broadsheetClass, *broadsheetSession, domain.Term(*broadsheetTerm), *broadsheetOut)
	default:
		cli.printUsage()
		return errHelp
	}
}

// readPassword prompts twice and applies the admin password policy.
func (cli *commandLine) readPassword() (string, error) {
	fmt.Fprint(cli.out, "Enter password:")
	pwd, err := readPasswordFunc(int(syscall.Stdin))
	fmt.Fprintln(cli.out)
	if err != nil {
		return "", err
	}
	fmt.Fprint(cli.out, "Confirm password:")
	confirm, err := readPasswordFunc(int(syscall.Stdin))
	fmt.Fprintln(cli.out)
	if err != nil {
		return "", err
	}
	if string(pwd) != string(confirm) {
		return "", errors.New("passwords do not match")
	}
	if err = request.ValidatePassword(string(pwd)); err != nil {
		return "", err
	}

	return string(pwd), nil
}

func (cli *commandLine) createAdmin(ctx context.Context, admin domain.Admin) error {
	created, err := cli.admins.CreateAdmin(ctx, admin)
	if err != nil {
		return fmt.Errorf("createadmin -> %w", err)
	}

	color.New(color.FgGreen).Fprintf(cli.out, "Created %s %s (id %d).\n", created.Role, created.Email, created.ID)
	return nil
}

func (cli *commandLine) resetPassword(ctx context.Context, email, password string) error {
	if err := cli.admins.ResetPassword(ctx, email, password); err != nil {
		return fmt.Errorf("resetpassword -> %w", err)
	}

	color.New(color.FgGreen).Fprintf(cli.out, "Password updated for %s.\n", email)
	return nil
}

func (cli *commandLine) generateCards(ctx context.Context, count, limit int, expires, out string) error {
	expiry, err := time.Parse(request.DateLayout, expires)
	if err != nil {
		return fmt.Errorf("invalid -expires %q, expected YYYY-MM-DD", expires)
	}

	cards, err := cli.cards.Generate(ctx, service.GenerateCardsRequest{
		Count:      count,
		UsageLimit: limit,
		ExpiryDate: expiry.Add(24*time.Hour - time.Second),
	})
	if err != nil {
		return fmt.Errorf("generatecards -> %w", err)
	}

	table := tablewriter.NewWriter(cli.out)
	table.SetHeader([]string{"Serial Number", "PIN", "Usage Limit", "Expires"})
	for _, c := range cards {
		table.Append([]string{c.SerialNumber, c.PIN, strconv.Itoa(c.UsageLimit), c.ExpiryDate.Format(request.DateLayout)})
	}
	table.Render()

	if out != "" {
		if err = cli.writeFile(out, func(w io.Writer) error { return report.WriteCards(w, cards, cli.now()) }); err != nil {
			return err
		}
	}
	color.New(color.FgGreen).Fprintf(cli.out, "Generated %d cards.\n", len(cards))
	return nil
}

func (cli *commandLine) broadsheet(ctx context.Context, className, session string, term domain.Term, out string) error {
	results, err := cli.results.Broadsheet(ctx, className, session, term)
	if err != nil {
		return fmt.Errorf("broadsheet -> %w", err)
	}
	if len(results) == 0 {
		color.New(color.FgYellow).Fprintf(cli.out, "No results for %s, %s %s.\n", className, session, term)
		return nil
	}

	subjects := report.SubjectNames(results)
	header := append([]string{"Pos", "Adm. No", "Name"}, subjects...)
	header = append(header, "Total", "Average", "GPA", "Grade")

	color.New(color.FgCyan).Fprintf(cli.out, "\n%s  %s  %s\n", className, session, term)
	table := tablewriter.NewWriter(cli.out)
	table.SetHeader(header)
	for _, row := range report.BroadsheetRows(results) {
		line := []string{positionCell(row.Position), row.AdmissionNumber, row.Name}
		for _, s := range subjects {
			if v, ok := row.Totals[s]; ok {
				line = append(line, strconv.FormatFloat(v, 'f', -1, 64))
			} else {
				line = append(line, "-")
			}
		}
		line = append(line,
			strconv.FormatFloat(row.TotalScore, 'f', -1, 64),
			strconv.FormatFloat(row.Average, 'f', 2, 64),
			strconv.FormatFloat(row.GPA, 'f', 2, 64),
			row.Grade,
		)
		table.Append(line)
	}
	table.Render()

	if out != "" {
		return cli.writeFile(out, func(w io.Writer) error {
			return report.WriteBroadsheet(w, className, session, term, results)
		})
	}
	return nil
}

func (cli *commandLine) writeFile(name string, write func(io.Writer) error) error {
	f, err := createFileFunc(name)
	if err != nil {
		return fmt.Errorf("create %s -> %w", name, err)
	}
	if err = write(f); err != nil {
		_ = f.Close()
		return fmt.Errorf("write %s -> %w", name, err)
	}
	if err = f.Close(); err != nil {
		return fmt.Errorf("close %s -> %w", name, err)
	}

	fmt.Fprintf(cli.out, "Wrote %s\n", name)
	return nil
}

func positionCell(p int) string {
	if p == 0 {
		return "-"
	}
	return strconv.Itoa(p)
}
