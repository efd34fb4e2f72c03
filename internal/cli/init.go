package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/madeeas/meetingprep/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a starter config file",
	Long:  `Write a commented starter config to ~/.meetingprep/config.yaml.`,
	RunE:  runInit,
}

func runInit(cmd *cobra.Command, args []string) error {
	path := config.GlobalConfigPath()
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config already exists at %s", path)
	}
	if err := config.WriteDefault(path); err != nil {
		return err
	}
	fmt.Printf("Wrote %s\n", path)
	fmt.Println("Set OPENAI_API_KEY, GOOGLE_CLIENT_ID and GOOGLE_CLIENT_SECRET in the environment.")
	return nil
}
