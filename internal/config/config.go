package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"groupmeet/internal/dates"
	appLog "groupmeet/internal/log"
	"groupmeet/internal/model"
)

// ParticipantConfig is one attendee record in the schedule configuration.
type ParticipantConfig struct {
	// Name is the display name used in reports.
	Name string `yaml:"name"`

	// Present / Notes are the role eligibility flags. Pointers distinguish
	// "unset" from "false": an unset flag defaults to true with a warning.
	Present *bool `yaml:"present,omitempty"`
	Notes   *bool `yaml:"notes,omitempty"`

	// Forbid lists meetings the participant cannot attend; Force lists
	// meetings they must fill their eligible role at. Both use the date-list
	// syntax (single dates and "(start_end)" inclusive ranges).
	Forbid string `yaml:"forbid,omitempty"`
	Force  string `yaml:"force,omitempty"`
}

// Config is the top-level schedule configuration.
type Config struct {
	// Start / End bound the meeting series, YYYY-MM-DD.
	Start string `yaml:"start"`
	End   string `yaml:"end"`

	// Weekdays are the meeting days, by English name ("Wednesday" or "wed").
	Weekdays []string `yaml:"weekdays"`

	// FrequencyWeeks is the number of weeks between consecutive meetings on
	// the same weekday.
	FrequencyWeeks int `yaml:"frequency_weeks"`

	// Presenters / Notetakers are the per-meeting quotas.
	Presenters int `yaml:"presenters"`
	Notetakers int `yaml:"notetakers"`

	// Interval is the cooldown in meeting counts before a participant may
	// repeat a role.
	Interval int `yaml:"interval"`

	// Seed drives the random draws; identical inputs and seed reproduce the
	// schedule exactly.
	Seed int64 `yaml:"seed"`

	// Forbid is a date-list of dates no meeting may fall on.
	Forbid string `yaml:"forbid,omitempty"`

	// HolidaysURL, if set, points at an ICS feed whose events are added to
	// the forbidden dates (e.g. a public-holiday calendar).
	HolidaysURL string `yaml:"holidays_url,omitempty"`

	// Participants is the attendee list.
	Participants []ParticipantConfig `yaml:"participants"`
}

// DefaultConfig returns an in-memory default configuration.
func DefaultConfig() *Config {
	return &Config{
		FrequencyWeeks: 1,
		Presenters:     2,
		Notetakers:     2,
		Interval:       2,
		Seed:           9,
		Participants:   []ParticipantConfig{},
	}
}

// Normalize fills missing values with documented defaults. Assumptions that
// change scheduling behavior are warned about rather than silently applied.
func (c *Config) Normalize() {
	if c.Start == "" {
		c.Start = time.Now().UTC().Format(dates.Layout)
		appLog.Warn("no start date specified, assuming today is the start date", "start", c.Start)
	}
	if c.End == "" {
		c.End = time.Now().UTC().AddDate(0, 0, 30).Format(dates.Layout)
		appLog.Warn("no end date specified, producing results for one month", "end", c.End)
	}
	if len(c.Weekdays) == 0 {
		today := time.Now().Weekday().String()
		appLog.Warn("no meeting weekday specified, assuming today is a meeting day", "weekday", today)
		c.Weekdays = []string{today}
	}
	if c.FrequencyWeeks < 1 {
		c.FrequencyWeeks = 1
	}
	if c.Presenters < 1 {
		c.Presenters = 2
	}
	if c.Notetakers < 1 {
		c.Notetakers = 2
	}
	if c.Interval < 0 {
		c.Interval = 2
	}
	if c.Participants == nil {
		c.Participants = []ParticipantConfig{}
	}
}

// DateRange parses the configured start and end dates. Unparseable values
// are structural errors: scheduling cannot begin without a valid range.
func (c *Config) DateRange() (start, end time.Time, err error) {
	start, err = dates.ParseDate(c.Start)
	if err != nil {
		return start, end, fmt.Errorf("invalid start date %q: %w", c.Start, err)
	}
	end, err = dates.ParseDate(c.End)
	if err != nil {
		return start, end, fmt.Errorf("invalid end date %q: %w", c.End, err)
	}
	if end.Before(start) {
		return start, end, fmt.Errorf("end date %s precedes start date %s", c.End, c.Start)
	}
	return start, end, nil
}

// ParticipantRecords converts the configured attendee list into immutable
// participant records, applying eligibility defaults with warnings.
func (c *Config) ParticipantRecords() []model.Participant {
	out := make([]model.Participant, 0, len(c.Participants))
	for i, pc := range c.Participants {
		name := pc.Name
		if name == "" {
			name = fmt.Sprintf("participant %d", i+1)
			appLog.Warn("empty participant name, using a placeholder", "name", name)
		}

		present := true
		if pc.Present == nil {
			appLog.Warn("no presenter eligibility given, assuming they can present", "name", name)
		} else {
			present = *pc.Present
		}

		notes := true
		if pc.Notes == nil {
			appLog.Warn("no notetaker eligibility given, assuming they can take notes", "name", name)
		} else {
			notes = *pc.Notes
		}

		out = append(out, model.Participant{
			Name:    name,
			Present: present,
			Notes:   notes,
			Forbid:  pc.Forbid,
			Force:   pc.Force,
		})
	}
	return out
}

// Load loads configuration from the given YAML path.
//
// Behavior:
//   - If the file does not exist, a default config is written there (0600)
//     and returned, so first runs produce an editable template.
//   - Otherwise the YAML is unmarshaled and normalized.
func Load(path string) (*Config, error) {
	if path == "" {
		return nil, errors.New("config path is empty")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			cfg := DefaultConfig()
			if err := Save(path, cfg); err != nil {
				// Even if save fails, return cfg with error so caller can decide.
				return cfg, err
			}
			cfg.Normalize()
			return cfg, nil
		}
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	cfg.Normalize()

	return &cfg, nil
}

// Save writes the configuration to path atomically (temp file + rename) with
// 0600 permissions, creating the parent directory if needed.
func Save(path string, cfg *Config) error {
	if path == "" {
		return errors.New("config path is empty")
	}
	if cfg == nil {
		return errors.New("config is nil")
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".groupmeet-config-*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmpName, 0o600); err != nil {
		return err
	}

	return os.Rename(tmpName, path)
}
