package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/madeeas/meetingprep/internal/config"
	"github.com/madeeas/meetingprep/internal/store"
)

// seedUser is one entry in a seed file. Only email and refresh_token are
// required; the rest fall back to the store's column defaults.
type seedUser struct {
	Email        string `yaml:"email"`
	Timezone     string `yaml:"timezone"`
	SendTime     string `yaml:"send_time"`
	CalendarID   string `yaml:"calendar_id"`
	RefreshToken string `yaml:"refresh_token"`
	Active       *bool  `yaml:"active"`
}

type seedFile struct {
	Users []seedUser `yaml:"users"`
}

var seedCmd = &cobra.Command{
	Use:   "seed <users.yaml>",
	Short: "Load or update users from a YAML file",
	Long: `Load users from a YAML file into the database. Existing users are
matched by email and updated in place, so re-running a seed file is safe.

Example file:

  users:
    - email: amira@example.com
      timezone: Asia/Dubai
      send_time: "07:00:00"
      refresh_token: "1//0abc..."`,
	Args: cobra.ExactArgs(1),
	RunE: runSeed,
}

func runSeed(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("reading seed file: %w", err)
	}
	users, err := parseSeedFile(data)
	if err != nil {
		return err
	}
	if len(users) == 0 {
		return fmt.Errorf("seed file %s contains no users", args[0])
	}

	st, err := store.Open(cfg.Database.Path)
	if err != nil {
		return err
	}
	defer st.Close()

	for _, u := range users {
		id, err := st.UpsertUser(u)
		if err != nil {
			return fmt.Errorf("seeding %s: %w", u.Email, err)
		}
		fmt.Printf("seeded %s (%s)\n", u.Email, id)
	}
	return nil
}

func parseSeedFile(data []byte) ([]store.User, error) {
	var f seedFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing seed file: %w", err)
	}

	users := make([]store.User, 0, len(f.Users))
	for i, s := range f.Users {
		if s.Email == "" {
			return nil, fmt.Errorf("seed entry %d has no email", i+1)
		}
		active := true
		if s.Active != nil {
			active = *s.Active
		}
		if s.Timezone == "" {
			s.Timezone = "Asia/Dubai"
		}
		if s.SendTime == "" {
			s.SendTime = "07:00:00"
		}
		users = append(users, store.User{
			Email:        s.Email,
			Timezone:     s.Timezone,
			SendTime:     s.SendTime,
			CalendarID:   s.CalendarID,
			RefreshToken: s.RefreshToken,
			IsActive:     active,
		})
	}
	return users, nil
}
