package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"text/tabwriter"

	"hrconsole/internal/api"
	"hrconsole/internal/employee"
	"hrconsole/internal/filter"
	"hrconsole/internal/session"
)

// errUsage marks a bad invocation; the flag package has already explained it.
var errUsage = errors.New("usage")

type app struct {
	client       *api.Client
	sess         *session.Manager
	out          io.Writer
	listLimit    int
	historyLimit int
}

type command func(ctx context.Context, a *app, args []string) error

var commands = map[string]command{
	"login":     runLogin,
	"register":  runRegister,
	"logout":    runLogout,
	"whoami":    runWhoami,
	"employees": runEmployees,
	"employee":  runEmployee,
	"add":       runAdd,
	"update":    runUpdate,
	"delete":    runDelete,
	"dashboard": runDashboard,
	"analytics": runAnalytics,
	"predict":   runPredict,
	"batch":     runBatch,
	"history":   runHistory,
}

// run executes one command and returns the process exit code.
func (a *app) run(ctx context.Context, args []string, errOut io.Writer) int {
	if len(args) < 1 {
		printUsage(errOut)
		return 2
	}
	switch args[0] {
	case "help", "-h", "--help":
		printUsage(a.out)
		return 0
	}

	cmd, ok := commands[args[0]]
	if !ok {
		fmt.Fprintf(errOut, "Unknown command: %s\n\n", args[0])
		printUsage(errOut)
		return 2
	}

	err := cmd(ctx, a, args[1:])
	switch {
	case err == nil:
		return 0
	case errors.Is(err, errUsage):
		return 2
	case api.IsUnauthorized(err):
		fmt.Fprintf(errOut, "hrctl: %v (run `hrctl login` first)\n", err)
		return 1
	default:
		fmt.Fprintf(errOut, "hrctl: %v\n", err)
		return 1
	}
}

func newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	return fs
}

func parse(fs *flag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		return errUsage
	}
	return nil
}

func (a *app) table() *tabwriter.Writer {
	return tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
}

func (a *app) printJSON(v any) error {
	enc := json.NewEncoder(a.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func runLogin(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet("login")
	email := fs.String("email", "", "Account email")
	password := fs.String("password", os.Getenv("HR_PASSWORD"), "Account password (or HR_PASSWORD)")
	if err := parse(fs, args); err != nil {
		return err
	}
	if *email == "" || *password == "" {
		fs.Usage()
		return errUsage
	}

	if err := a.sess.Login(ctx, api.Credentials{Email: *email, Password: *password}); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Signed in as %s\n", a.sess.Snapshot().User.Name)
	return nil
}

func runRegister(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet("register")
	reg := api.Registration{}
	fs.StringVar(&reg.Name, "name", "", "Full name")
	fs.StringVar(&reg.Email, "email", "", "Account email")
	fs.StringVar(&reg.Password, "password", os.Getenv("HR_PASSWORD"), "Password (or HR_PASSWORD)")
	fs.StringVar(&reg.Department, "department", "", "Department (optional)")
	fs.StringVar(&reg.Role, "role", api.DefaultRole, "Role")
	if err := parse(fs, args); err != nil {
		return err
	}
	if reg.Name == "" || reg.Email == "" || reg.Password == "" {
		fs.Usage()
		return errUsage
	}

	if err := a.sess.Register(ctx, reg); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Account created for %s\n", a.sess.Snapshot().User.Email)
	return nil
}

func runLogout(ctx context.Context, a *app, _ []string) error {
	if err := a.sess.Logout(ctx); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Signed out")
	return nil
}

func runWhoami(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet("whoami")
	asJSON := fs.Bool("json", false, "Output as JSON")
	if err := parse(fs, args); err != nil {
		return err
	}

	if a.sess.Init(ctx) != session.Authenticated {
		return &api.Error{Status: http.StatusUnauthorized, Message: "Not signed in"}
	}
	snap := a.sess.Snapshot()
	if *asJSON {
		return a.printJSON(snap.User)
	}

	tw := a.table()
	fmt.Fprintf(tw, "Name:\t%s\n", snap.User.Name)
	fmt.Fprintf(tw, "Email:\t%s\n", snap.User.Email)
	fmt.Fprintf(tw, "Role:\t%s\n", snap.User.Role)
	if snap.User.Department != nil {
		fmt.Fprintf(tw, "Department:\t%s\n", *snap.User.Department)
	}
	if !snap.ExpiresAt.IsZero() {
		fmt.Fprintf(tw, "Expires:\t%s\n", snap.ExpiresAt.UTC().Format("2006-01-02 15:04 MST"))
	}
	return tw.Flush()
}

func runEmployees(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet("employees")
	search := fs.String("search", "", "Match job role or department")
	department := fs.String("department", filter.All, "Department or all")
	status := fs.String("status", filter.All, "all, yes (left) or no (active)")
	limit := fs.Int("limit", a.listLimit, "Maximum records fetched")
	asJSON := fs.Bool("json", false, "Output as JSON")
	if err := parse(fs, args); err != nil {
		return err
	}

	criteria, err := filter.Criteria{Search: *search, Department: *department, Status: filter.Status(*status)}.Normalize()
	if err != nil {
		return err
	}
	all, err := a.client.Employees().List(ctx, api.ListParams{Limit: *limit})
	if err != nil {
		return err
	}
	visible := filter.Apply(all, criteria)
	if *asJSON {
		return a.printJSON(visible)
	}

	tw := a.table()
	fmt.Fprintln(tw, "ID\tAGE\tDEPARTMENT\tJOB ROLE\tINCOME\tSTATUS")
	for _, e := range visible {
		fmt.Fprintf(tw, "%d\t%d\t%s\t%s\t%s\t%s\n", e.ID, e.Age, e.DepartmentName(), e.JobRoleName(), intOr(e.MonthlyIncome), e.Status())
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	fmt.Fprintln(a.out, filter.Summary(len(visible), len(all)))
	return nil
}

func idFlag(fs *flag.FlagSet) *int64 {
	return fs.Int64("id", 0, "Employee ID")
}

func requireID(fs *flag.FlagSet, id int64) error {
	if id <= 0 {
		fmt.Fprintln(fs.Output(), "-id is required")
		fs.Usage()
		return errUsage
	}
	return nil
}

func runEmployee(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet("employee")
	id := idFlag(fs)
	asJSON := fs.Bool("json", false, "Output as JSON")
	if err := parse(fs, args); err != nil {
		return err
	}
	if err := requireID(fs, *id); err != nil {
		return err
	}

	e, err := a.client.Employees().Get(ctx, *id)
	if err != nil {
		return err
	}
	if *asJSON {
		return a.printJSON(e)
	}
	return a.printEmployee(e)
}

func (a *app) printEmployee(e *employee.Employee) error {
	tw := a.table()
	fmt.Fprintf(tw, "ID:\t%d\n", e.ID)
	fmt.Fprintf(tw, "Age:\t%d\n", e.Age)
	fmt.Fprintf(tw, "Department:\t%s\n", e.DepartmentName())
	fmt.Fprintf(tw, "Job role:\t%s\n", e.JobRoleName())
	fmt.Fprintf(tw, "Monthly income:\t%s\n", intOr(e.MonthlyIncome))
	if e.Education != nil {
		fmt.Fprintf(tw, "Education:\t%s\n", employee.EducationName(*e.Education))
	}
	fmt.Fprintf(tw, "Years at company:\t%s\n", intOr(e.YearsAtCompany))
	fmt.Fprintf(tw, "Status:\t%s\n", e.Status())
	return tw.Flush()
}

// formFlags binds the shared employee form to flags.
func formFlags(fs *flag.FlagSet, f *employee.Form) {
	fs.StringVar(&f.Age, "age", "", "Age")
	fs.StringVar(&f.Department, "department", "", "Department")
	fs.StringVar(&f.JobRole, "job-role", "", "Job role")
	fs.StringVar(&f.Salary, "salary", "", "Monthly salary")
	fs.StringVar(&f.Education, "education", "", "Below College, College, Bachelor, Master or Doctor")
	fs.StringVar(&f.YearsAtCompany, "years", "", "Years at company")
	fs.StringVar(&f.JobSatisfaction, "job-satisfaction", "", "1-4")
	fs.StringVar(&f.WorkLifeBalance, "work-life-balance", "", "1-4")
	fs.StringVar(&f.EnvironmentSatisfaction, "environment-satisfaction", "", "1-4")
}

func runAdd(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet("add")
	var form employee.Form
	formFlags(fs, &form)
	if err := parse(fs, args); err != nil {
		return err
	}

	draft, err := form.Draft()
	if err != nil {
		return err
	}
	created, err := a.client.Employees().Create(ctx, draft)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Employee %d created\n", created.ID)
	return nil
}

func runUpdate(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet("update")
	id := idFlag(fs)
	var form employee.EditForm
	fs.StringVar(&form.Age, "age", "", "Age")
	fs.StringVar(&form.Department, "department", "", "Department")
	fs.StringVar(&form.JobRole, "job-role", "", "Job role")
	fs.StringVar(&form.Salary, "salary", "", "Monthly salary")
	fs.StringVar(&form.Education, "education", "", "Education level")
	fs.StringVar(&form.YearsAtCompany, "years", "", "Years at company")
	fs.StringVar(&form.JobSatisfaction, "job-satisfaction", "", "1-4")
	fs.StringVar(&form.WorkLifeBalance, "work-life-balance", "", "1-4")
	fs.StringVar(&form.EnvironmentSatisfaction, "environment-satisfaction", "", "1-4")
	fs.StringVar(&form.Attrition, "attrition", "", "Yes or No")
	if err := parse(fs, args); err != nil {
		return err
	}
	if err := requireID(fs, *id); err != nil {
		return err
	}

	patch, err := form.Patch()
	if err != nil {
		return err
	}
	updated, err := a.client.Employees().Update(ctx, *id, patch)
	if err != nil {
		return err
	}
	return a.printEmployee(updated)
}

func runDelete(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet("delete")
	id := idFlag(fs)
	if err := parse(fs, args); err != nil {
		return err
	}
	if err := requireID(fs, *id); err != nil {
		return err
	}

	if err := a.client.Employees().Delete(ctx, *id); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Employee %d deleted\n", *id)
	return nil
}

func runDashboard(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet("dashboard")
	asJSON := fs.Bool("json", false, "Output as JSON")
	if err := parse(fs, args); err != nil {
		return err
	}

	stats, err := a.client.Analytics().Dashboard(ctx)
	if err != nil {
		return err
	}
	if *asJSON {
		return a.printJSON(stats)
	}
	tw := a.table()
	fmt.Fprintf(tw, "Total employees:\t%d\n", stats.TotalEmployees)
	fmt.Fprintf(tw, "Attrition rate:\t%.1f%%\n", stats.AttritionRate)
	fmt.Fprintf(tw, "Average age:\t%.1f\n", stats.AverageAge)
	fmt.Fprintf(tw, "Average salary:\t$%.0f\n", stats.AverageSalary)
	fmt.Fprintf(tw, "Job satisfaction:\t%.1f\n", stats.JobSatisfaction)
	return tw.Flush()
}

func runAnalytics(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet("analytics")
	by := fs.String("by", "department", "department, salary or role")
	if err := parse(fs, args); err != nil {
		return err
	}

	var rows []api.Breakdown
	switch *by {
	case "department":
		stats, err := a.client.Analytics().ByDepartment(ctx)
		if err != nil {
			return err
		}
		rows = api.Breakdowns(stats)
	case "salary":
		stats, err := a.client.Analytics().BySalary(ctx)
		if err != nil {
			return err
		}
		rows = api.Breakdowns(stats)
	case "role":
		stats, err := a.client.Analytics().ByRole(ctx)
		if err != nil {
			return err
		}
		rows = api.Breakdowns(stats)
	default:
		fmt.Fprintf(fs.Output(), "unknown breakdown %q\n", *by)
		return errUsage
	}

	tw := a.table()
	fmt.Fprintln(tw, "GROUP\tTOTAL\tLEFT\tRATE")
	for _, r := range rows {
		fmt.Fprintf(tw, "%s\t%d\t%d\t%.1f%%\n", r.Label, r.Total, r.Attrition, r.AttritionRate)
	}
	return tw.Flush()
}

func runPredict(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet("predict")
	var form employee.Form
	formFlags(fs, &form)
	asJSON := fs.Bool("json", false, "Output as JSON")
	if err := parse(fs, args); err != nil {
		return err
	}

	features, err := form.Features()
	if err != nil {
		return err
	}
	p, err := a.client.Predictions().Single(ctx, features)
	if err != nil {
		return err
	}
	if *asJSON {
		return a.printJSON(p)
	}
	outcome := "stay"
	if p.WillLeave() {
		outcome = "leave"
	}
	fmt.Fprintf(a.out, "Likely to %s (probability %.1f%%, risk %s)\n", outcome, p.Probability*100, p.RiskLevel)
	return nil
}

func runBatch(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet("batch")
	path := fs.String("file", "", "CSV file to upload")
	asJSON := fs.Bool("json", false, "Output as JSON")
	if err := parse(fs, args); err != nil {
		return err
	}
	if *path == "" {
		fmt.Fprintln(fs.Output(), "-file is required")
		return errUsage
	}

	f, err := os.Open(*path)
	if err != nil {
		return fmt.Errorf("open csv: %w", err)
	}
	defer f.Close()

	result, err := a.client.Predictions().Batch(ctx, filepath.Base(*path), f)
	if err != nil {
		return err
	}
	if *asJSON {
		return a.printJSON(result)
	}

	tw := a.table()
	fmt.Fprintln(tw, "ROW\tPREDICTION\tPROBABILITY\tRISK")
	for i, row := range result.Predictions {
		fmt.Fprintf(tw, "%d\t%d\t%.1f%%\t%s\n", i, row.Prediction.Prediction, row.Probability*100, row.RiskLevel)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Predicted %d employees\n", result.Total)
	return nil
}

func runHistory(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet("history")
	limit := fs.Int("limit", a.historyLimit, "Number of entries")
	if err := parse(fs, args); err != nil {
		return err
	}

	entries, err := a.client.Predictions().History(ctx, *limit)
	if err != nil {
		return err
	}
	tw := a.table()
	fmt.Fprintln(tw, "ID\tEMPLOYEE\tPREDICTION\tPROBABILITY")
	for _, e := range entries {
		employeeID := "-"
		if e.EmployeeID != nil {
			employeeID = strconv.FormatInt(*e.EmployeeID, 10)
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%.1f%%\n", e.ID, employeeID, e.Prediction, e.Probability*100)
	}
	return tw.Flush()
}

func intOr(p *int) string {
	if p == nil {
		return "-"
	}
	return strconv.Itoa(*p)
}
