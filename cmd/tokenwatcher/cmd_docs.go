package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"tokenwatcher/cmd/tokenwatcher/ui"
	"tokenwatcher/internal/config"
	"tokenwatcher/internal/content"
)

var docsCmd = &cobra.Command{
	Use:   "docs [page]",
	Short: "Show a product or legal page (" + strings.Join(content.Pages(), ", ") + ")",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			for _, p := range content.Pages() {
				fmt.Println(p)
			}
			return nil
		}

		cfg, err := config.Load()
		if err != nil {
			return err
		}
		theme := ui.ThemeFor(cfg.UI.Theme)

		out, err := content.Render(args[0], 80, theme.IsDark)
		if err != nil {
			return err
		}
		fmt.Print(out)
		return nil
	},
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show the effective configuration and where it lives",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		dir, err := config.Dir()
		if err != nil {
			return err
		}

		fmt.Printf("Config dir:       %s\n", dir)
		fmt.Printf("API base URL:     %s\n", cfg.API.BaseURL)
		fmt.Printf("Request timeout:  %s\n", cfg.RequestTimeout())
		fmt.Printf("Theme:            %s\n", cfg.UI.Theme)
		fmt.Printf("Events page size: %d\n", cfg.UI.EventsPageSize)
		fmt.Printf("Debug logging:    %t\n", cfg.Logging.DebugMode)
		return nil
	},
}
