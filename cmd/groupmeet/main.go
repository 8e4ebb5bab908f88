package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"groupmeet/internal/config"
	"groupmeet/internal/dates"
	"groupmeet/internal/ics"
	appLog "groupmeet/internal/log"
	"groupmeet/internal/report"
	"groupmeet/internal/schedule"
)

// flagConfig holds CLI flag values. Non-empty flags override the
// corresponding config-file values.
type flagConfig struct {
	configPath string
	start      string
	end        string
	weekdays   string
	seed       string
	reportPath string
	icsPath    string
	cacheDir   string
	debug      bool
}

func main() {
	flags := parseFlags()
	if flags.debug {
		appLog.SetLevel(appLog.LevelDebug)
	}
	appLog.Info("groupmeet starting", "config_path", flags.configPath)

	conf, err := config.Load(flags.configPath)
	if err != nil {
		appLog.Error("failed to load config", err, "config_path", flags.configPath)
		os.Exit(1)
	}
	applyOverrides(conf, flags)

	// Root context with cancellation on SIGINT/SIGTERM, for the holiday
	// feed fetch.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, conf, flags); err != nil {
		appLog.Error("scheduling failed", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, conf *config.Config, flags flagConfig) error {
	start, end, err := conf.DateRange()
	if err != nil {
		return err
	}

	weekdays := dates.ParseWeekdays(conf.Weekdays)
	base := dates.MeetingDates(start, end, weekdays, conf.FrequencyWeeks, nil)

	forbidden := dates.ParseDateList(conf.Forbid, base)
	if conf.HolidaysURL != "" {
		holidays, err := fetchHolidays(ctx, flags.cacheDir, conf.HolidaysURL, start, end)
		if err != nil {
			appLog.Warn("holiday feed unusable, continuing without it",
				"url", conf.HolidaysURL, "err", err)
		}
		forbidden = append(forbidden, holidays...)
	}
	calendar := dates.MeetingDates(start, end, weekdays, conf.FrequencyWeeks, forbidden)

	appLog.Info("calendar computed",
		"start", conf.Start,
		"end", conf.End,
		"meetings", len(calendar),
		"forbidden", len(forbidden),
	)

	sess, err := schedule.NewSession(calendar, conf.ParticipantRecords(), schedule.Params{
		Presenters: conf.Presenters,
		Notetakers: conf.Notetakers,
		Interval:   conf.Interval,
		Seed:       conf.Seed,
	})
	if err != nil {
		return err
	}
	res := sess.Run()

	participants := sess.Participants
	if err := report.Render(os.Stdout, res, participants, sess.Params); err != nil {
		return err
	}

	reportPath := flags.reportPath
	if reportPath == "" {
		reportPath = report.FileName(conf.Start, conf.End)
	}
	if err := report.Save(reportPath, res, participants, sess.Params); err != nil {
		return fmt.Errorf("saving report: %w", err)
	}
	appLog.Info("report saved", "path", reportPath)

	if flags.icsPath != "" {
		payload := ics.ExportSchedule(res, participants)
		if err := os.WriteFile(flags.icsPath, []byte(payload), 0o644); err != nil {
			return fmt.Errorf("saving ICS export: %w", err)
		}
		appLog.Info("ICS export saved", "path", flags.icsPath)
	}

	return nil
}

// fetchHolidays pulls the holiday feed and extracts the forbidden dates
// inside the scheduling range.
func fetchHolidays(ctx context.Context, cacheDir, feedURL string, start, end time.Time) ([]time.Time, error) {
	body, fromCache, err := ics.NewFetcher(cacheDir).Fetch(ctx, feedURL)
	if err != nil {
		return nil, err
	}
	appLog.Debug("holiday feed loaded", "from_cache", fromCache, "bytes", len(body))
	return ics.HolidayDates(body, start, end)
}

func applyOverrides(conf *config.Config, flags flagConfig) {
	if flags.start != "" {
		conf.Start = flags.start
	}
	if flags.end != "" {
		conf.End = flags.end
	}
	if flags.weekdays != "" {
		conf.Weekdays = splitList(flags.weekdays)
	}
	if flags.seed != "" {
		seed, err := strconv.ParseInt(flags.seed, 10, 64)
		if err != nil {
			appLog.Error("invalid -seed value", err, "seed", flags.seed)
			os.Exit(1)
		}
		conf.Seed = seed
	}
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func parseFlags() flagConfig {
	var cfg flagConfig

	flag.StringVar(&cfg.configPath, "config", "groupmeet.yaml", "Path to schedule config file")
	flag.StringVar(&cfg.start, "start", "", "Start date YYYY-MM-DD (overrides config if set)")
	flag.StringVar(&cfg.end, "end", "", "End date YYYY-MM-DD (overrides config if set)")
	flag.StringVar(&cfg.weekdays, "week", "", "Comma-separated meeting weekdays (overrides config if set)")
	flag.StringVar(&cfg.seed, "seed", "", "Random seed (overrides config if set)")
	flag.StringVar(&cfg.reportPath, "report", "", "Report output path (default schedule_<start>_<end>.txt)")
	flag.StringVar(&cfg.icsPath, "ics", "", "Also export the schedule as an ICS calendar to this path")
	flag.StringVar(&cfg.cacheDir, "cache-dir", "./var/holiday-cache", "Holiday feed cache directory")
	flag.BoolVar(&cfg.debug, "debug", false, "Enable debug logging")

	flag.Parse()

	return cfg
}
