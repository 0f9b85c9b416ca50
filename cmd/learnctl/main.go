// learnctl is a command-line front end for the LEARN client: account
// authentication, catalog browsing, recommendation searches, and favourite
// management against the LEARN backend.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/learnapp/learn-client/config"
	"github.com/learnapp/learn-client/internal/api"
	"github.com/learnapp/learn-client/internal/models"
	"github.com/learnapp/learn-client/internal/session"
	"github.com/learnapp/learn-client/internal/store"
	syncpkg "github.com/learnapp/learn-client/internal/sync"
	"github.com/learnapp/learn-client/pkg/logger"
	"go.uber.org/zap"
)

const usage = `usage: learnctl <command> [flags]

commands:
  register      create a teacher account
  code          request an email verification code
  verify        exchange an emailed code for a session
  login         password login
  me            show the current user
  refresh       refresh the session tokens
  logout        log out and clear local state
  activities    list the activity catalog
  recommend     run a recommendation search
  favorites     list favourite activities, or toggle one
  plans         list favourite lesson plans
  pdf           export a favourite lesson plan as PDF
  history       list recorded searches
`

type app struct {
	cfg     *config.Config
	store   *store.Store
	session *session.Session
	syncer  *syncpkg.Synchronizer
}

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logEnv := "production"
	if cfg.IsDevelopment() {
		logEnv = "development"
	}
	if err := logger.Initialize(logger.Config{
		Level:       cfg.Logging.Level,
		LogDir:      cfg.Logging.Dir,
		Environment: logEnv,
	}); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	st := store.New(cfg.Store.Path)

	client, err := api.NewClient(cfg.API, nil, func() string {
		access, _, _ := st.Tokens()
		return access
	})
	if err != nil {
		logger.Fatal("Failed to initialize API client", zap.Error(err))
	}

	authAPI := api.NewAuthAPI(client)
	activitiesAPI := api.NewActivitiesAPI(client)

	sess := session.New(authAPI, st)
	catalog := syncpkg.NewCatalog(activitiesAPI, cfg.API.CatalogPageSize,
		time.Duration(cfg.Cache.CatalogTTLSeconds)*time.Second)
	syncer := syncpkg.NewSynchronizer(activitiesAPI, catalog, st, func() string {
		if u := sess.CurrentUser(); u != nil {
			return u.Email
		}
		return ""
	})

	a := &app{cfg: cfg, store: st, session: sess, syncer: syncer}

	ctx := context.Background()
	if err := a.run(ctx, os.Args[1], os.Args[2:]); err != nil {
		fmt.Fprintf(os.Stderr, "learnctl: %v\n", err)
		os.Exit(1)
	}
}

func (a *app) run(ctx context.Context, command string, args []string) error {
	switch command {
	case "register":
		return a.cmdRegister(ctx, args)
	case "code":
		return a.cmdCode(ctx, args)
	case "verify":
		return a.cmdVerify(ctx, args)
	case "login":
		return a.cmdLogin(ctx, args)
	case "me":
		return a.cmdMe(ctx)
	case "refresh":
		return a.cmdRefresh(ctx)
	case "logout":
		return a.cmdLogout(ctx)
	case "activities":
		return a.cmdActivities(ctx)
	case "recommend":
		return a.cmdRecommend(ctx, args)
	case "favorites":
		return a.cmdFavorites(ctx, args)
	case "plans":
		return a.cmdPlans(ctx)
	case "pdf":
		return a.cmdPDF(ctx, args)
	case "history":
		return a.cmdHistory(ctx)
	default:
		fmt.Fprint(os.Stderr, usage)
		return fmt.Errorf("unknown command %q", command)
	}
}

// sessionErr converts the session's captured error field back into a
// command-line failure
func (a *app) sessionErr() error {
	if msg := a.session.LastError(); msg != "" {
		return fmt.Errorf("%s", msg)
	}
	return nil
}

func (a *app) cmdRegister(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("register", flag.ExitOnError)
	email := fs.String("email", "", "account email")
	firstName := fs.String("first-name", "", "first name")
	lastName := fs.String("last-name", "", "last name")
	fs.Parse(args) //nolint:errcheck

	if *email == "" || *firstName == "" || *lastName == "" {
		return fmt.Errorf("register requires -email, -first-name and -last-name")
	}

	message := a.session.RegisterTeacher(ctx, *email, *firstName, *lastName)
	if err := a.sessionErr(); err != nil {
		return err
	}
	fmt.Println(message)
	return nil
}

func (a *app) cmdCode(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("code", flag.ExitOnError)
	email := fs.String("email", "", "account email")
	fs.Parse(args) //nolint:errcheck

	if *email == "" {
		return fmt.Errorf("code requires -email")
	}
	if err := a.session.RequestVerificationCode(ctx, *email); err != nil {
		return err
	}
	fmt.Println("verification code sent")
	return nil
}

func (a *app) cmdVerify(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("verify", flag.ExitOnError)
	email := fs.String("email", "", "account email")
	code := fs.String("code", "", "emailed verification code")
	fs.Parse(args) //nolint:errcheck

	if *email == "" || *code == "" {
		return fmt.Errorf("verify requires -email and -code")
	}

	a.session.VerifyEmailCode(ctx, *email, *code)
	if err := a.sessionErr(); err != nil {
		return err
	}
	return a.printUser()
}

func (a *app) cmdLogin(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("login", flag.ExitOnError)
	email := fs.String("email", "", "account email")
	password := fs.String("password", "", "account password")
	fs.Parse(args) //nolint:errcheck

	if *email == "" || *password == "" {
		return fmt.Errorf("login requires -email and -password")
	}

	a.session.LoginWithPassword(ctx, *email, *password)
	if err := a.sessionErr(); err != nil {
		return err
	}
	return a.printUser()
}

func (a *app) cmdMe(ctx context.Context) error {
	a.session.Bootstrap(ctx)
	if err := a.sessionErr(); err != nil {
		return err
	}
	if a.session.State() != session.StateLoggedIn {
		return fmt.Errorf("not logged in")
	}
	return a.printUser()
}

func (a *app) cmdRefresh(ctx context.Context) error {
	a.session.Refresh(ctx)
	if err := a.sessionErr(); err != nil {
		return err
	}
	fmt.Println("session refreshed")
	return nil
}

func (a *app) cmdLogout(ctx context.Context) error {
	a.session.Logout(ctx)
	fmt.Println("logged out")
	return nil
}

func (a *app) cmdActivities(ctx context.Context) error {
	materials, err := a.syncer.ListCatalog(ctx)
	if err != nil {
		return err
	}
	for _, m := range materials {
		printMaterial(m)
	}
	fmt.Printf("%d activities\n", len(materials))
	return nil
}

func (a *app) cmdRecommend(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("recommend", flag.ExitOnError)
	age := fs.Int("age", 0, "target pupil age")
	duration := fs.Int("duration", 0, "target duration in minutes")
	topics := fs.String("topics", "", "comma-separated preferred topics")
	devices := fs.String("devices", "", "comma-separated available devices")
	breaks := fs.Bool("breaks", false, "include breaks")
	limit := fs.Int("limit", 10, "maximum number of suggestions")
	maxActivities := fs.Int("max-activities", 2, "maximum activities per suggestion")
	fs.Parse(args) //nolint:errcheck

	if err := a.bootstrapLoggedIn(ctx); err != nil {
		return err
	}

	q := api.DefaultRecommendationQuery()
	q.Limit = *limit
	q.MaxActivityCount = *maxActivities
	q.IncludeBreaks = *breaks
	if *age > 0 {
		q.TargetAge = age
	}
	if *duration > 0 {
		q.TargetDuration = duration
	}
	q.PreferredTopics = splitArg(*topics)
	q.AvailableResources = splitArg(*devices)

	recs, err := a.syncer.Recommendations(ctx, q)
	if err != nil {
		return err
	}

	for i, rec := range recs {
		score := "-"
		if rec.Score != nil {
			score = fmt.Sprintf("%.2f", *rec.Score)
		}
		fmt.Printf("suggestion %d (score %s, %d-%d min)\n",
			i+1, score, rec.TotalDuration(), rec.TotalDurationMax())
		for _, m := range rec.Activities {
			printMaterial(m)
		}
	}
	return nil
}

func (a *app) cmdFavorites(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("favorites", flag.ExitOnError)
	toggle := fs.Int("toggle", 0, "activity ID whose favourite flag to flip")
	fs.Parse(args) //nolint:errcheck

	if err := a.bootstrapLoggedIn(ctx); err != nil {
		return err
	}

	if *toggle > 0 {
		return a.toggleFavorite(ctx, *toggle)
	}

	materials, err := a.syncer.ListFavoriteActivities(ctx)
	if err != nil {
		return err
	}
	for _, m := range materials {
		printMaterial(m)
	}
	fmt.Printf("%d favourite activities\n", len(materials))
	return nil
}

func (a *app) toggleFavorite(ctx context.Context, activityID int) error {
	materials, err := a.syncer.ListCatalog(ctx)
	if err != nil {
		return err
	}
	for i := range materials {
		if materials[i].ID != activityID {
			continue
		}
		materials[i].IsFavorite, err = a.syncer.IsActivityFavorited(ctx, activityID)
		if err != nil {
			return err
		}
		if err := a.syncer.ToggleFavoriteActivity(ctx, &materials[i]); err != nil {
			return err
		}
		printMaterial(materials[i])
		return nil
	}
	return fmt.Errorf("activity %d not found in the catalog", activityID)
}

func (a *app) cmdPlans(ctx context.Context) error {
	if err := a.bootstrapLoggedIn(ctx); err != nil {
		return err
	}
	plans, err := a.syncer.ListFavoriteLessonPlans(ctx)
	if err != nil {
		return err
	}
	for _, plan := range plans {
		name := "(unnamed)"
		if plan.Name != nil {
			name = *plan.Name
		}
		fmt.Printf("[%d] %s: %d min, %d activities\n",
			plan.ID, name, plan.TotalDuration, len(plan.Activities))
	}
	return nil
}

func (a *app) cmdPDF(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("pdf", flag.ExitOnError)
	id := fs.Int("id", 0, "favourite lesson-plan ID")
	out := fs.String("out", "lesson-plan.pdf", "output file")
	fs.Parse(args) //nolint:errcheck

	if *id <= 0 {
		return fmt.Errorf("pdf requires -id")
	}
	if err := a.bootstrapLoggedIn(ctx); err != nil {
		return err
	}

	plans, err := a.syncer.ListFavoriteLessonPlans(ctx)
	if err != nil {
		return err
	}
	for _, plan := range plans {
		if plan.ID != *id {
			continue
		}
		rec := models.Recommendation{Activities: plan.Activities}
		raw, err := a.syncer.ExportLessonPlanPDF(ctx, rec, plan.Name)
		if err != nil {
			return err
		}
		if err := os.WriteFile(*out, raw, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", *out, err)
		}
		fmt.Printf("wrote %s (%d bytes)\n", *out, len(raw))
		return nil
	}
	return fmt.Errorf("favourite lesson plan %d not found", *id)
}

func (a *app) cmdHistory(ctx context.Context) error {
	if err := a.bootstrapLoggedIn(ctx); err != nil {
		return err
	}
	entries, err := a.syncer.SearchHistory(ctx)
	if err != nil {
		return err
	}
	for _, entry := range entries {
		when := "-"
		if entry.CreatedAt != nil {
			when = entry.CreatedAt.Format("2006-01-02 15:04")
		}
		fmt.Printf("[%d] %s  %s\n", entry.ID, when, entry.SearchCriteria.SummaryText())
	}
	return nil
}

// bootstrapLoggedIn restores the session from persisted tokens and fails
// when no account is available
func (a *app) bootstrapLoggedIn(ctx context.Context) error {
	a.session.Bootstrap(ctx)
	if a.session.State() != session.StateLoggedIn {
		return fmt.Errorf("not logged in; run learnctl login first")
	}
	return nil
}

func (a *app) printUser() error {
	u := a.session.CurrentUser()
	if u == nil {
		return fmt.Errorf("no user in session")
	}
	fmt.Printf("%s <%s> (id %d)\n", u.DisplayName(), u.Email, u.ID)
	return nil
}

func printMaterial(m models.Material) {
	marker := " "
	if m.IsFavorite {
		marker = "*"
	}
	fmt.Printf("%s [%d] %s (%s, %d min)\n", marker, m.ID, m.Title, m.Category, m.Duration)
}

func splitArg(csv string) []string {
	if strings.TrimSpace(csv) == "" {
		return nil
	}
	parts := strings.Split(csv, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
